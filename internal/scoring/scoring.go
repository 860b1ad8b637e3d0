// Package scoring implements §4.9's context-aware priority adjustment: a
// base Priority computed by a detector is nudged up or down by a weighted
// multiplier table keyed on the item's PatternContext, then a confidence
// curve pulls low-confidence adjustments back toward the original value.
// Grounded on original_source/src/performance/context/severity_adjuster.rs
// for the multiplier tables and the confidence curve, and on
// other_examples/.../internal-domain-scoring-code_health.go.go for the
// Go-native weighted-sub-score-aggregation idiom.
package scoring

import (
	"math"

	"github.com/viant/debtmap/internal/debt"
	sctx "github.com/viant/debtmap/internal/scoring/context"
)

// ContextWeights holds the multiplier applied to a base score for each axis
// of a PatternContext. Values mirror severity_adjuster.rs's defaults: above
// 1.0 amplifies, below 1.0 dampens.
type ContextWeights struct {
	ModuleType             map[sctx.ModuleType]float64
	FunctionIntent         map[sctx.FunctionIntent]float64
	BusinessCriticality    map[sctx.BusinessCriticality]float64
	PerformanceSensitivity map[sctx.PerformanceSensitivity]float64
}

// DefaultContextWeights mirrors the original's hand-tuned defaults: test and
// example code is heavily discounted, critical business logic is amplified,
// infrastructure and utility code sits close to neutral.
func DefaultContextWeights() ContextWeights {
	return ContextWeights{
		ModuleType: map[sctx.ModuleType]float64{
			sctx.Production:     1.0,
			sctx.Test:           0.3,
			sctx.Benchmark:      0.4,
			sctx.Example:        0.25,
			sctx.Documentation:  0.2,
			sctx.Utility:        0.8,
			sctx.Infrastructure: 0.9,
		},
		FunctionIntent: map[sctx.FunctionIntent]float64{
			sctx.BusinessLogic:      1.2,
			sctx.Setup:              0.7,
			sctx.Teardown:           0.6,
			sctx.Validation:         1.0,
			sctx.DataTransformation: 1.1,
			sctx.IOWrapper:          0.9,
			sctx.ErrorHandling:      1.0,
			sctx.Configuration:      0.8,
			sctx.Unknown:            1.0,
		},
		BusinessCriticality: map[sctx.BusinessCriticality]float64{
			sctx.Critical:           1.5,
			sctx.Important:          1.1,
			sctx.CriticalityUtility: 0.8,
			sctx.CriticalityInfra:   0.9,
			sctx.Development:        0.4,
		},
		PerformanceSensitivity: map[sctx.PerformanceSensitivity]float64{
			sctx.High:       1.3,
			sctx.Medium:     1.0,
			sctx.Low:        0.8,
			sctx.Irrelevant: 0.6,
		},
	}
}

// priorityScore/scoreToPriority map Priority to/from a 0-100 numeric scale so
// multipliers can be applied arithmetically, then bucketed back.
func priorityScore(p debt.Priority) float64 {
	switch p {
	case debt.Critical:
		return 90
	case debt.High:
		return 65
	case debt.Medium:
		return 40
	default:
		return 15
	}
}

func scoreToPriority(score float64) debt.Priority {
	switch {
	case score >= 75:
		return debt.Critical
	case score >= 50:
		return debt.High
	case score >= 25:
		return debt.Medium
	default:
		return debt.Low
	}
}

// SeverityAdjuster applies a ContextWeights table to raw priority scores.
type SeverityAdjuster struct {
	weights ContextWeights
}

// NewSeverityAdjuster builds an adjuster using DefaultContextWeights.
func NewSeverityAdjuster() *SeverityAdjuster {
	return &SeverityAdjuster{weights: DefaultContextWeights()}
}

// WithWeights overrides the weight table, e.g. from a loaded config.
func (a *SeverityAdjuster) WithWeights(w ContextWeights) *SeverityAdjuster {
	a.weights = w
	return a
}

// combinedMultiplier multiplies the four axis weights together, matching the
// original's independence assumption across context dimensions.
func (a *SeverityAdjuster) combinedMultiplier(ctx sctx.PatternContext) float64 {
	m := 1.0
	if w, ok := a.weights.ModuleType[ctx.ModuleType]; ok {
		m *= w
	}
	if w, ok := a.weights.FunctionIntent[ctx.FunctionIntent]; ok {
		m *= w
	}
	if w, ok := a.weights.BusinessCriticality[ctx.BusinessCriticality]; ok {
		m *= w
	}
	if w, ok := a.weights.PerformanceSensitivity[ctx.PerformanceSensitivity]; ok {
		m *= w
	}
	return m
}

// confidenceCurve pulls a multiplier back toward 1.0 as confidence drops, so
// a low-confidence context classification cannot swing a score wildly.
// confidence 1.0 applies the multiplier in full; confidence 0.0 applies none.
// The curve is non-linear (sqrt) so moderate confidence still carries most
// of the adjustment, matching the original's "confidence dampens but does
// not linearly scale" behavior.
func confidenceCurve(multiplier, confidence float64) float64 {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	damp := math.Sqrt(confidence)
	return 1.0 + (multiplier-1.0)*damp
}

// AdjustSeverity recomputes a Priority given its original value and the
// PatternContext the item occurs in, using ctx.Confidence as the dampening
// factor.
func (a *SeverityAdjuster) AdjustSeverity(base debt.Priority, ctx sctx.PatternContext) debt.Priority {
	raw := a.combinedMultiplier(ctx)
	effective := confidenceCurve(raw, ctx.Confidence)
	adjusted := priorityScore(base) * effective
	return scoreToPriority(adjusted)
}

// RecencyMultiplier rewards (or discounts) a score based on how recently the
// file was modified: debt in code nobody has touched lately is less urgent
// to fix now than debt in code under active change. Not present in the
// original; added as a SPEC_FULL supplement reading of §9's "favor actively
// changing code" guidance.
func RecencyMultiplier(daysSinceModified int) float64 {
	switch {
	case daysSinceModified < 0:
		return 1.0
	case daysSinceModified <= 7:
		return 1.2
	case daysSinceModified <= 30:
		return 1.05
	case daysSinceModified <= 180:
		return 1.0
	default:
		return 0.9
	}
}
