// Package report defines the three §4.10 report shapes the orchestrator
// aggregates into, and dumps them as yaml. Grounded on the teacher's
// yaml-tagged model structs (analyzer/linage.Identifier and friends) for the
// tagging convention, and inspector/info/config.go for the "plain struct,
// marshaled at the edge" idiom.
package report

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/viant/debtmap/internal/debt"
)

// FunctionMetric is one function's §4.3 complexity measurement, flattened
// for reporting.
type FunctionMetric struct {
	Name               string   `yaml:"name"`
	File               string   `yaml:"file"`
	Line               int      `yaml:"line"`
	Cyclomatic         int      `yaml:"cyclomatic"`
	Cognitive          int      `yaml:"cognitive"`
	Nesting            int      `yaml:"nesting"`
	Length             int      `yaml:"length"`
	AdjustedComplexity *float64 `yaml:"adjustedComplexity,omitempty"`
	PurityScore        float64  `yaml:"purityScore"`
	CompositionQuality float64  `yaml:"compositionQuality"`
}

// ComplexitySummary is the §4.10 aggregate complexity statistics.
type ComplexitySummary struct {
	TotalFunctions      int     `yaml:"totalFunctions"`
	AverageComplexity   float64 `yaml:"averageComplexity"`
	MaxComplexity       int     `yaml:"maxComplexity"`
	HighComplexityCount int     `yaml:"highComplexityCount"`
}

// ComplexityReport is the full complexity half of the aggregated output.
type ComplexityReport struct {
	Metrics []FunctionMetric  `yaml:"metrics"`
	Summary ComplexitySummary `yaml:"summary"`
}

// NewComplexityReport builds a ComplexityReport from the per-function
// metrics already gathered during the per-file pass, applying the
// §4.3-high-complexity threshold used by HighComplexityCount.
func NewComplexityReport(metrics []FunctionMetric, highComplexityThreshold int) ComplexityReport {
	summary := ComplexitySummary{TotalFunctions: len(metrics)}
	if len(metrics) == 0 {
		return ComplexityReport{Metrics: metrics, Summary: summary}
	}
	var total int
	for _, m := range metrics {
		total += m.Cyclomatic
		if m.Cyclomatic > summary.MaxComplexity {
			summary.MaxComplexity = m.Cyclomatic
		}
		if m.Cyclomatic > highComplexityThreshold {
			summary.HighComplexityCount++
		}
	}
	summary.AverageComplexity = float64(total) / float64(len(metrics))
	return ComplexityReport{Metrics: metrics, Summary: summary}
}

// TechnicalDebtReport is the full debt half of the aggregated output.
type TechnicalDebtReport struct {
	Items        []debt.Item            `yaml:"items"`
	ByKind       map[debt.Type][]debt.Item `yaml:"byKind"`
	Priorities   []debt.Item            `yaml:"priorities"`
	Duplications []debt.Item            `yaml:"duplications"`
}

// priorityRank orders priorities descending (Critical first) for the
// report's sort-by-priority requirement.
func priorityRank(p debt.Priority) int {
	switch p {
	case debt.Critical:
		return 0
	case debt.High:
		return 1
	case debt.Medium:
		return 2
	default:
		return 3
	}
}

// NewTechnicalDebtReport categorizes items by kind and sorts a priority-ordered
// copy by (priority desc, file, line, id), per §5's determinism requirement.
// Duplication-kind items are split out into Duplications as well as staying
// in Items/ByKind.
func NewTechnicalDebtReport(items []debt.Item) TechnicalDebtReport {
	byKind := map[debt.Type][]debt.Item{}
	var duplications []debt.Item
	for _, it := range items {
		byKind[it.Kind] = append(byKind[it.Kind], it)
		if it.Kind == debt.Duplication {
			duplications = append(duplications, it)
		}
	}

	priorities := append([]debt.Item(nil), items...)
	sortByPriority(priorities)

	return TechnicalDebtReport{
		Items:        items,
		ByKind:       byKind,
		Priorities:   priorities,
		Duplications: duplications,
	}
}

func sortByPriority(items []debt.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if priorityRank(a.Priority) != priorityRank(b.Priority) {
			return priorityRank(a.Priority) < priorityRank(b.Priority)
		}
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.ID < b.ID
	})
}

// DependencyReport is the full dependency-graph half of the aggregated
// output.
type DependencyReport struct {
	Modules  []string   `yaml:"modules"`
	Circular [][]string `yaml:"circular"`
}

// Bundle is every report shape together, the orchestrator's final result.
type Bundle struct {
	Complexity ComplexityReport    `yaml:"complexity"`
	Debt       TechnicalDebtReport `yaml:"debt"`
	Dependency DependencyReport    `yaml:"dependency"`
}

// WriteYAML dumps b as yaml to w.
func WriteYAML(w io.Writer, b Bundle) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
