package complexity

import (
	"math"

	"github.com/viant/debtmap/internal/cfgbuild"
)

// EntropyResult is the optional §4.3 "Entropy dampening" output. It never
// overwrites the raw cyclomatic/cognitive scores; callers decide whether to use
// EffectiveComplexity for display/scoring.
type EntropyResult struct {
	TokenEntropy        float64
	PatternRepetition    float64
	BranchSimilarity     float64
	EffectiveComplexity  float64
	UniqueVariables      int
	MaxNesting           int
	DampeningApplied     bool
}

const repetitionDampenThreshold = 0.6
const repetitionDampenK = 1.0

func computeEntropy(body []cfgbuild.Stmt, cyclomatic int) EntropyResult {
	shapes := map[string]int{}
	vars := map[string]bool{}
	total := 0
	maxNesting := 0

	var walk func(stmts []cfgbuild.Stmt, depth int)
	walk = func(stmts []cfgbuild.Stmt, depth int) {
		if depth > maxNesting {
			maxNesting = depth
		}
		for _, s := range stmts {
			total++
			shapes[shapeOf(s)]++
			switch s.Tag {
			case cfgbuild.SLet:
				for _, n := range s.Pattern.Bindings() {
					vars[n] = true
				}
			case cfgbuild.SAssign:
				if s.LHS != nil && s.LHS.Tag == cfgbuild.EIdent {
					vars[s.LHS.Name] = true
				}
			case cfgbuild.SIf:
				walk(s.Then, depth+1)
				walk(s.Else, depth+1)
			case cfgbuild.SWhile:
				walk(s.Body, depth+1)
			case cfgbuild.SMatch:
				for _, arm := range s.Arms {
					walk(arm.Body, depth+1)
				}
			}
		}
	}
	walk(body, 0)

	tokenEntropy := shannonEntropy(shapes, total)
	patternRepetition := maxFrequencyRatio(shapes, total)
	branchSimilarity := branchSimilarityOf(body)

	effective := float64(cyclomatic)
	dampened := false
	if patternRepetition >= repetitionDampenThreshold {
		credit := decayCurve(patternRepetition, repetitionDampenThreshold, repetitionDampenK)
		effective = float64(cyclomatic) * credit
		dampened = true
	}

	return EntropyResult{
		TokenEntropy:        tokenEntropy,
		PatternRepetition:    patternRepetition,
		BranchSimilarity:     branchSimilarity,
		EffectiveComplexity:  effective,
		UniqueVariables:      len(vars),
		MaxNesting:           maxNesting,
		DampeningApplied:     dampened,
	}
}

func shapeOf(s cfgbuild.Stmt) string {
	switch s.Tag {
	case cfgbuild.SLet:
		return "let"
	case cfgbuild.SAssign:
		return "assign"
	case cfgbuild.SIf:
		return "if"
	case cfgbuild.SWhile:
		return "while"
	case cfgbuild.SReturn:
		return "return"
	case cfgbuild.SMatch:
		return "match"
	case cfgbuild.SExprStmt:
		return "expr"
	}
	return "other"
}

func shannonEntropy(freq map[string]int, total int) float64 {
	if total == 0 {
		return 0
	}
	var h float64
	for _, c := range freq {
		p := float64(c) / float64(total)
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}

func maxFrequencyRatio(freq map[string]int, total int) float64 {
	if total == 0 {
		return 0
	}
	max := 0
	for _, c := range freq {
		if c > max {
			max = c
		}
	}
	return float64(max) / float64(total)
}

// branchSimilarityOf measures how similar in length the arms of a function's
// top-level match statements are: 1.0 means identical length, 0.0 means
// maximally dispersed. If-else chains and nested matches are not measured;
// fewer than two arms in total returns 0.
func branchSimilarityOf(body []cfgbuild.Stmt) float64 {
	var lengths []int
	for _, s := range body {
		if s.Tag == cfgbuild.SMatch {
			for _, arm := range s.Arms {
				lengths = append(lengths, len(arm.Body))
			}
		}
	}
	if len(lengths) < 2 {
		return 0
	}
	mean := 0.0
	for _, l := range lengths {
		mean += float64(l)
	}
	mean /= float64(len(lengths))
	if mean == 0 {
		return 1
	}
	var variance float64
	for _, l := range lengths {
		d := float64(l) - mean
		variance += d * d
	}
	variance /= float64(len(lengths))
	stdev := math.Sqrt(variance)
	similarity := 1 - stdev/mean
	return math.Max(0, math.Min(1, similarity))
}
