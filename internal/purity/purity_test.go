package purity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/debtmap/internal/cfgbuild"
)

func exprPtr(e cfgbuild.Expr) *cfgbuild.Expr { return &e }

func TestAnalyzePureFunction(t *testing.T) {
	body := []cfgbuild.Stmt{
		{Tag: cfgbuild.SLet, Pattern: cfgbuild.IdentPattern("x"), Init: exprPtr(cfgbuild.Expr{
			Tag: cfgbuild.EBinary, Op: "+", Left: exprPtr(cfgbuild.Ident("a")), Right: exprPtr(cfgbuild.Ident("b")),
		})},
		{Tag: cfgbuild.SReturn, Value: exprPtr(cfgbuild.Ident("x"))},
	}
	res := Analyze(body, []string{"a", "b"})
	assert.Equal(t, Pure, res.Kind)
	assert.Equal(t, LevelPure, res.Level)
	assert.Equal(t, 1.0, res.Score)
	assert.Empty(t, res.Accumulator.IOOperations)
}

func TestAnalyzeConsoleIOIsImpure(t *testing.T) {
	body := []cfgbuild.Stmt{
		{Tag: cfgbuild.SExprStmt, Expr: exprPtr(cfgbuild.Expr{
			Tag: cfgbuild.ECall, FuncName: "println", Args: []cfgbuild.Expr{cfgbuild.Literal()},
		})},
	}
	res := Analyze(body, nil)
	assert.Equal(t, Impure, res.Kind)
	assert.InDelta(t, 0.6, res.Score, 0.001)
	assert.Len(t, res.Accumulator.IOOperations, 1)
}

func TestAnalyzeLoggingIsBenign(t *testing.T) {
	body := []cfgbuild.Stmt{
		{Tag: cfgbuild.SExprStmt, Expr: exprPtr(cfgbuild.Expr{
			Tag: cfgbuild.ECall, FuncName: "debug", Args: []cfgbuild.Expr{cfgbuild.Literal()},
		})},
	}
	res := Analyze(body, nil)
	assert.Equal(t, Benign, res.Kind)
	assert.InDelta(t, 0.9, res.Score, 0.001)
}

func TestAnalyzeMutatingCallOnNonLocalReceiverIsImpure(t *testing.T) {
	body := []cfgbuild.Stmt{
		{Tag: cfgbuild.SExprStmt, Expr: exprPtr(cfgbuild.Expr{
			Tag:      cfgbuild.EMethodCall,
			Receiver: exprPtr(cfgbuild.Expr{Tag: cfgbuild.EField, Base: exprPtr(cfgbuild.Ident("self")), Field: "items"}),
			Method:   "push",
			Args:     []cfgbuild.Expr{cfgbuild.Literal()},
		})},
	}
	res := Analyze(body, []string{"self"})
	assert.Equal(t, Impure, res.Kind)
	assert.Len(t, res.Accumulator.GlobalMutations, 1)
}

func TestAnalyzeMutatingCallOnLocalReceiverIsPure(t *testing.T) {
	body := []cfgbuild.Stmt{
		{Tag: cfgbuild.SLet, Pattern: cfgbuild.IdentPattern("buf"), Init: exprPtr(cfgbuild.Literal())},
		{Tag: cfgbuild.SExprStmt, Expr: exprPtr(cfgbuild.Expr{
			Tag:      cfgbuild.EMethodCall,
			Receiver: exprPtr(cfgbuild.Ident("buf")),
			Method:   "push",
			Args:     []cfgbuild.Expr{cfgbuild.Literal()},
		})},
	}
	res := Analyze(body, nil)
	assert.Equal(t, Pure, res.Kind)
	assert.Empty(t, res.Accumulator.GlobalMutations)
}

func TestAnalyzeCapturedMutableWriteIsImpure(t *testing.T) {
	closureBody := []cfgbuild.Stmt{
		{Tag: cfgbuild.SAssign, LHS: exprPtr(cfgbuild.Ident("total")), RHS: exprPtr(cfgbuild.Literal())},
	}
	body := []cfgbuild.Stmt{
		{Tag: cfgbuild.SLet, Pattern: cfgbuild.IdentPattern("total"), Init: exprPtr(cfgbuild.Literal())},
		{Tag: cfgbuild.SExprStmt, Expr: exprPtr(cfgbuild.Expr{
			Tag: cfgbuild.EMethodCall, Receiver: exprPtr(cfgbuild.Ident("items")), Method: "for_each",
			Args: []cfgbuild.Expr{{Tag: cfgbuild.EClosure, ClosureBody: closureBody}},
		})},
	}
	res := Analyze(body, []string{"items"})
	assert.Equal(t, Impure, res.Kind)
	assert.Len(t, res.Accumulator.GlobalMutations, 1)
}

func TestAnalyzeMutableBindingPenalty(t *testing.T) {
	body := []cfgbuild.Stmt{
		{Tag: cfgbuild.SLet, Pattern: cfgbuild.IdentPattern("x"), Init: exprPtr(cfgbuild.Literal())},
		{Tag: cfgbuild.SAssign, LHS: exprPtr(cfgbuild.Ident("x")), RHS: exprPtr(cfgbuild.Literal())},
	}
	res := Analyze(body, nil)
	assert.Equal(t, 1, res.Accumulator.MutableBindings)
	assert.InDelta(t, 0.7, res.Score, 0.001)
}

func TestDetectPipelineRequiresTransformOrMeaningfulTerminal(t *testing.T) {
	// xs.iter().collect() — entry + lone Collect terminal, no transform: not a pipeline.
	chain := exprPtr(cfgbuild.Expr{
		Tag: cfgbuild.EMethodCall, Method: "collect",
		Receiver: exprPtr(cfgbuild.Expr{Tag: cfgbuild.EMethodCall, Method: "iter", Receiver: exprPtr(cfgbuild.Ident("xs"))}),
	})
	_, ok := detectPipeline(chain)
	assert.False(t, ok)
}

func TestDetectPipelineRecognizesMapFilterCollect(t *testing.T) {
	inner := exprPtr(cfgbuild.Expr{Tag: cfgbuild.EMethodCall, Method: "iter", Receiver: exprPtr(cfgbuild.Ident("items"))})
	mapped := exprPtr(cfgbuild.Expr{
		Tag: cfgbuild.EMethodCall, Method: "map", Receiver: inner,
		Args: []cfgbuild.Expr{{Tag: cfgbuild.EClosure, Params: []string{"x"}, ClosureBody: nil}},
	})
	filtered := exprPtr(cfgbuild.Expr{
		Tag: cfgbuild.EMethodCall, Method: "filter", Receiver: mapped,
		Args: []cfgbuild.Expr{{Tag: cfgbuild.EClosure, Params: []string{"x"}, ClosureBody: nil}},
	})
	chain := exprPtr(cfgbuild.Expr{Tag: cfgbuild.EMethodCall, Method: "collect", Receiver: filtered})

	p, ok := detectPipeline(chain)
	if assert.True(t, ok) {
		assert.Equal(t, 3, p.Depth)
		assert.Equal(t, TermCollect, p.Terminal)
		assert.Equal(t, []StageKind{StageIterator, StageMap, StageFilter}, p.Stages)
		assert.False(t, p.IsParallel)
	}
}

func TestDetectPipelineRecognizesParallelEntry(t *testing.T) {
	inner := exprPtr(cfgbuild.Expr{Tag: cfgbuild.EMethodCall, Method: "par_iter", Receiver: exprPtr(cfgbuild.Ident("items"))})
	mapped := exprPtr(cfgbuild.Expr{
		Tag: cfgbuild.EMethodCall, Method: "map", Receiver: inner,
		Args: []cfgbuild.Expr{{Tag: cfgbuild.EClosure}},
	})
	filtered := exprPtr(cfgbuild.Expr{
		Tag: cfgbuild.EMethodCall, Method: "filter", Receiver: mapped,
		Args: []cfgbuild.Expr{{Tag: cfgbuild.EClosure}},
	})
	chain := exprPtr(cfgbuild.Expr{Tag: cfgbuild.EMethodCall, Method: "collect", Receiver: filtered})

	p, ok := detectPipeline(chain)
	if assert.True(t, ok) {
		assert.True(t, p.IsParallel)
		nonParallel := p
		nonParallel.IsParallel = false
		assert.InDelta(t, 0.2, p.Score()-nonParallel.Score(), 0.0001)
	}
}

func TestAnalyzeCompositionAveragesAcrossPipelines(t *testing.T) {
	inner := exprPtr(cfgbuild.Expr{Tag: cfgbuild.EMethodCall, Method: "iter", Receiver: exprPtr(cfgbuild.Ident("items"))})
	mapped := exprPtr(cfgbuild.Expr{
		Tag: cfgbuild.EMethodCall, Method: "map", Receiver: inner,
		Args: []cfgbuild.Expr{{Tag: cfgbuild.EClosure}},
	})
	body := []cfgbuild.Stmt{
		{Tag: cfgbuild.SReturn, Value: exprPtr(cfgbuild.Expr{Tag: cfgbuild.EMethodCall, Method: "collect", Receiver: mapped})},
	}
	res := AnalyzeComposition(body, 1.0)
	if assert.Len(t, res.Pipelines, 1) {
		assert.InDelta(t, res.Pipelines[0].Score(), res.PipelineScore, 0.0001)
	}
	assert.InDelta(t, 0.4*1.0+0.6*res.PipelineScore, res.CompositionQuality, 0.0001)
}

func TestProfileQualifies(t *testing.T) {
	p := Pipeline{Depth: 3, ClosureComplexity: 1}
	assert.True(t, StrictProfile.Qualifies(p, 0.9, 2))
	assert.False(t, StrictProfile.Qualifies(p, 0.5, 2))
	assert.True(t, LenientProfile.Qualifies(p, 0.5, 2))
}
