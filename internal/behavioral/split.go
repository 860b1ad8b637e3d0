package behavioral

import (
	"fmt"
	"sort"
	"strings"
)

// SplitRecommendation proposes extracting one cluster into its own module.
type SplitRecommendation struct {
	Component           string
	CouplingScore       float64
	SuggestedModuleName string
	EstimatedLines      int
	Difficulty          string
}

const (
	difficultyEasy   = "Easy"
	difficultyMedium = "Medium"
	difficultyHard   = "Hard"

	avgEstimatedLinesPerMethod = 12
)

// RecommendSplits turns refined clusters into extraction proposals. The
// coupling score is external calls over total calls touching the cluster —
// the inverse of cohesion — so lower means an easier, more self-contained
// extraction.
func RecommendSplits(clusters []MethodCluster) []SplitRecommendation {
	recs := make([]SplitRecommendation, 0, len(clusters))
	for _, c := range clusters {
		total := c.InternalCalls + c.ExternalCalls
		coupling := 0.0
		if total > 0 {
			coupling = float64(c.ExternalCalls) / float64(total)
		}
		recs = append(recs, SplitRecommendation{
			Component:           c.Category.DisplayName(),
			CouplingScore:       coupling,
			SuggestedModuleName: moduleNameFor(c.Category),
			EstimatedLines:      len(c.Methods) * avgEstimatedLinesPerMethod,
			Difficulty:          difficultyFor(coupling),
		})
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].CouplingScore != recs[j].CouplingScore {
			return recs[i].CouplingScore < recs[j].CouplingScore
		}
		return recs[i].Component < recs[j].Component
	})
	return recs
}

func difficultyFor(coupling float64) string {
	switch {
	case coupling < 0.2:
		return difficultyEasy
	case coupling < 0.5:
		return difficultyMedium
	default:
		return difficultyHard
	}
}

func moduleNameFor(cat Category) string {
	name := cat.DisplayName()
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, ":", "_")
	return fmt.Sprintf("%s_module", strings.ToLower(name))
}
