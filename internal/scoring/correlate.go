package scoring

import (
	"github.com/viant/debtmap/internal/debt"
	sctx "github.com/viant/debtmap/internal/scoring/context"
)

// CorrelationType names one of the recognized architectural patterns a
// cluster of debt items can belong to, mirroring pattern_correlator.rs's
// four pattern kinds.
type CorrelationType string

const (
	CorrelationTestFixture     CorrelationType = "TestFixture"
	CorrelationBatchProcessing CorrelationType = "BatchProcessing"
	CorrelationErrorHandling   CorrelationType = "ErrorHandling"
	CorrelationInitialization  CorrelationType = "Initialization"
)

// Correlation is the result of matching one DebtItem/PatternContext pair
// against a recognized pattern: a confidence boost (the match is probably a
// deliberate pattern, not an oversight) paired with a severity reduction.
type Correlation struct {
	Type              CorrelationType
	ConfidenceBoost   float64
	SeverityReduction float64
	Explanation       string
}

// PatternCorrelator detects when a DebtItem's kind and surrounding context
// together describe one of a small set of known-benign architectural
// patterns, rather than a true defect. The original's detectors work from
// resolved I/O and loop AST shapes the core doesn't reconstruct; here the
// same four rules are approximated against debt.Type tags and
// PatternContext, and is the SPEC_FULL reading of §4.9's "pattern
// correlation reduces false-positive severity" requirement.
type PatternCorrelator struct{}

// NewPatternCorrelator returns a ready-to-use correlator; it is stateless.
func NewPatternCorrelator() *PatternCorrelator {
	return &PatternCorrelator{}
}

// Correlate returns every recognized pattern match for the given item kind
// and context. An item can match more than one rule; callers combine the
// returned corrections (e.g. summing SeverityReduction, taking the max
// ConfidenceBoost).
func (c *PatternCorrelator) Correlate(kind debt.Type, ctx sctx.PatternContext) []Correlation {
	var out []Correlation
	if m := c.testFixture(kind, ctx); m != nil {
		out = append(out, *m)
	}
	if m := c.batchProcessing(kind, ctx); m != nil {
		out = append(out, *m)
	}
	if m := c.errorHandling(kind, ctx); m != nil {
		out = append(out, *m)
	}
	if m := c.initialization(kind, ctx); m != nil {
		out = append(out, *m)
	}
	return out
}

// testFixture: setup/teardown functions inside test modules routinely trip
// complexity and organization detectors (long fixture bodies, many
// field assignments) without representing real maintenance risk.
func (c *PatternCorrelator) testFixture(kind debt.Type, ctx sctx.PatternContext) *Correlation {
	if ctx.ModuleType != sctx.Test {
		return nil
	}
	if ctx.FunctionIntent != sctx.Setup && ctx.FunctionIntent != sctx.Teardown {
		return nil
	}
	if kind != debt.Complexity && kind != debt.Organization && kind != debt.CodeSmell {
		return nil
	}
	return &Correlation{
		Type:              CorrelationTestFixture,
		ConfidenceBoost:   0.2,
		SeverityReduction: 0.5,
		Explanation:       "setup/teardown in a test module: complexity here rarely indicates real debt",
	}
}

// batchProcessing: data-transformation functions flagged for complexity are
// often intentionally nested loops over batches/pages, a standard shape
// rather than a smell.
func (c *PatternCorrelator) batchProcessing(kind debt.Type, ctx sctx.PatternContext) *Correlation {
	if kind != debt.Complexity {
		return nil
	}
	if ctx.FunctionIntent != sctx.DataTransformation {
		return nil
	}
	if ctx.PerformanceSensitivity == sctx.Irrelevant {
		return nil
	}
	return &Correlation{
		Type:              CorrelationBatchProcessing,
		ConfidenceBoost:   0.15,
		SeverityReduction: 0.25,
		Explanation:       "nested iteration in a data-transformation function matches common batch-processing shape",
	}
}

// errorHandling: error-swallowing or code-smell findings inside functions
// whose entire purpose is error handling are usually deliberate catch-all
// branches, not an overlooked `err` check.
func (c *PatternCorrelator) errorHandling(kind debt.Type, ctx sctx.PatternContext) *Correlation {
	if kind != debt.ErrorSwallowing && kind != debt.CodeSmell {
		return nil
	}
	if ctx.FunctionIntent != sctx.ErrorHandling {
		return nil
	}
	return &Correlation{
		Type:              CorrelationErrorHandling,
		ConfidenceBoost:   0.25,
		SeverityReduction: 0.4,
		Explanation:       "error-handling function: broad error capture is the function's purpose",
	}
}

// initialization: configuration/setup functions in infrastructure modules
// accumulate long straight-line assignment sequences that trip complexity
// and organization detectors despite posing little ongoing maintenance risk.
func (c *PatternCorrelator) initialization(kind debt.Type, ctx sctx.PatternContext) *Correlation {
	if ctx.ModuleType != sctx.Infrastructure {
		return nil
	}
	if ctx.FunctionIntent != sctx.Setup && ctx.FunctionIntent != sctx.Configuration {
		return nil
	}
	if kind != debt.Complexity && kind != debt.Organization {
		return nil
	}
	return &Correlation{
		Type:              CorrelationInitialization,
		ConfidenceBoost:   0.15,
		SeverityReduction: 0.3,
		Explanation:       "initialization/configuration code in an infrastructure module: linear setup, not control-flow complexity",
	}
}

// ApplyCorrelations folds a list of Correlation matches into an adjusted
// Priority: severity reductions sum (capped so priority never rises), and
// are only applied once aggregate confidence clears a minimum bar, avoiding
// a single weak match silently suppressing a real finding.
func ApplyCorrelations(base debt.Priority, correlations []Correlation) debt.Priority {
	if len(correlations) == 0 {
		return base
	}
	var totalReduction, maxConfidence float64
	for _, c := range correlations {
		totalReduction += c.SeverityReduction
		if c.ConfidenceBoost > maxConfidence {
			maxConfidence = c.ConfidenceBoost
		}
	}
	if totalReduction > 0.9 {
		totalReduction = 0.9
	}
	if maxConfidence < 0.1 {
		return base
	}
	adjusted := priorityScore(base) * (1.0 - totalReduction)
	return scoreToPriority(adjusted)
}
