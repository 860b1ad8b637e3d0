package orchestrator

import (
	"github.com/viant/debtmap/internal/antipattern"
	"github.com/viant/debtmap/internal/antipattern/errswallow"
	"github.com/viant/debtmap/internal/antipattern/panicdetect"
	"github.com/viant/debtmap/internal/antipattern/smells"
	"github.com/viant/debtmap/internal/antipattern/testsmell"
	"github.com/viant/debtmap/internal/complexity"
	"github.com/viant/debtmap/internal/debt"
	"github.com/viant/debtmap/internal/purity"
	"github.com/viant/debtmap/internal/scoring"
	sctx "github.com/viant/debtmap/internal/scoring/context"
	"github.com/viant/debtmap/report"
)

// functionResult is one function's full per-function analysis: its flattened
// complexity metric plus every debt item raised against it, already
// context-adjusted.
type functionResult struct {
	metric report.FunctionMetric
	items  []debt.Item
}

// analyzeFunction runs §4.3 (complexity), §4.4 (purity/composition) and
// §4.5 (anti-pattern detectors) over one function, then applies §4.9's
// context-aware severity adjustment and pattern correlation to every raised
// item.
func analyzeFunction(fn antipattern.FunctionInfo, severity *scoring.SeverityAdjuster, correlator *scoring.PatternCorrelator, contextAware bool) functionResult {
	cx := complexity.Analyze(fn.Body, true)
	pr := purity.Analyze(fn.Body, fn.ParamNames)
	comp := purity.AnalyzeComposition(fn.Body, pr.Score)

	metric := report.FunctionMetric{
		Name:               fn.Name,
		File:               fn.File,
		Line:               fn.Line,
		Cyclomatic:         cx.Cyclomatic,
		Cognitive:          cx.Cognitive,
		Nesting:            cx.Nesting,
		Length:             fn.Length,
		AdjustedComplexity: cx.AdjustedComplexity,
		PurityScore:        pr.Score,
		CompositionQuality: comp.CompositionQuality,
	}

	var items []debt.Item
	items = append(items, panicdetect.Detect(fn)...)
	items = append(items, errswallow.Detect(fn)...)
	items = append(items, smells.DetectLongParameterList(fn)...)
	items = append(items, smells.DetectLongMethod(fn)...)
	items = append(items, smells.DetectDeepNesting(fn)...)
	items = append(items, smells.DetectFeatureEnvy(fn)...)
	items = append(items, smells.DetectMagicValue(fn)...)
	items = append(items, smells.DetectDuplicateStringLiteral(fn)...)
	if len(fn.ParamTypes) > 0 {
		items = append(items, smells.DetectPrimitiveObsession(fn, fn.ParamTypes)...)
		items = append(items, smells.DetectBooleanParameterTrap(fn, fn.ParamTypes)...)
	}
	if fn.InTestModule {
		items = append(items, testsmell.DetectMissingAssertions(fn)...)
		items = append(items, testsmell.DetectOverlyComplexTest(fn)...)
		items = append(items, testsmell.DetectFlaky(fn)...)
	}

	if contextAware && len(items) > 0 {
		ctx := sctx.Derive(fn.File, fn.Name)
		for i, it := range items {
			adjusted := severity.AdjustSeverity(it.Priority, ctx)
			if correlations := correlator.Correlate(it.Kind, ctx); len(correlations) > 0 {
				adjusted = scoring.ApplyCorrelations(adjusted, correlations)
			}
			items[i].Priority = adjusted
		}
	}

	return functionResult{metric: metric, items: items}
}
