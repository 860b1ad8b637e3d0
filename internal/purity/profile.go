package purity

// Profile sets the thresholds a pipeline (or its enclosing function) must clear
// to count as "well-composed" under §4.4's strict/balanced/lenient profiles. The
// spec leaves the exact numbers open; these are strictly ordered (strict
// tightest, lenient loosest) on depth, closure complexity and purity;
// MinAnalyzableCyclomatic is 1 in all three.
type Profile struct {
	Name                    string
	MinDepth                int
	MaxClosureComplexity    int
	MinPurityThreshold      float64
	MinAnalyzableCyclomatic int
}

var (
	StrictProfile = Profile{
		Name:                    "strict",
		MinDepth:                3,
		MaxClosureComplexity:    2,
		MinPurityThreshold:      0.8,
		MinAnalyzableCyclomatic: 1,
	}
	BalancedProfile = Profile{
		Name:                    "balanced",
		MinDepth:                2,
		MaxClosureComplexity:    4,
		MinPurityThreshold:      0.5,
		MinAnalyzableCyclomatic: 1,
	}
	LenientProfile = Profile{
		Name:                    "lenient",
		MinDepth:                1,
		MaxClosureComplexity:    8,
		MinPurityThreshold:      0.2,
		MinAnalyzableCyclomatic: 1,
	}
)

// Profiles indexes the three standard profiles by name for config lookup.
var Profiles = map[string]Profile{
	StrictProfile.Name:   StrictProfile,
	BalancedProfile.Name: BalancedProfile,
	LenientProfile.Name:  LenientProfile,
}

// Qualifies reports whether pipeline p and the purity score it was computed
// alongside satisfy profile's thresholds.
func (pr Profile) Qualifies(p Pipeline, purityScore float64, cyclomatic int) bool {
	if p.Depth < pr.MinDepth {
		return false
	}
	if p.ClosureComplexity > pr.MaxClosureComplexity {
		return false
	}
	if purityScore < pr.MinPurityThreshold {
		return false
	}
	if cyclomatic < pr.MinAnalyzableCyclomatic {
		return false
	}
	return true
}
