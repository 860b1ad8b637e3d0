package purity

import "github.com/viant/debtmap/internal/cfgbuild"

// StageKind classifies one link in a detected method-call pipeline.
type StageKind int

const (
	StageIterator StageKind = iota
	StageMap
	StageFilter
	StageFold
	StageFlatMap
	StageAndThen
	StageMapErr
	StageInspect
	StageAdapter
)

func (k StageKind) String() string {
	switch k {
	case StageIterator:
		return "iterator"
	case StageMap:
		return "map"
	case StageFilter:
		return "filter"
	case StageFold:
		return "fold"
	case StageFlatMap:
		return "flat-map"
	case StageAndThen:
		return "and-then"
	case StageMapErr:
		return "map-err"
	case StageInspect:
		return "inspect"
	case StageAdapter:
		return "adapter"
	default:
		return "unknown"
	}
}

// TerminalKind classifies a pipeline's final call, if any.
type TerminalKind int

const (
	TermNone TerminalKind = iota
	TermCollect
	TermSum
	TermCount
	TermAny
	TermAll
	TermFind
	TermReduce
	TermForEach
)

func (k TerminalKind) String() string {
	switch k {
	case TermCollect:
		return "collect"
	case TermSum:
		return "sum"
	case TermCount:
		return "count"
	case TermAny:
		return "any"
	case TermAll:
		return "all"
	case TermFind:
		return "find"
	case TermReduce:
		return "reduce"
	case TermForEach:
		return "for-each"
	default:
		return "none"
	}
}

var iteratorNames = map[string]bool{
	"iter": true, "iter_mut": true, "into_iter": true,
	"lines": true, "chars": true, "windows": true, "chunks": true,
}

var parallelIteratorNames = map[string]bool{
	"par_iter": true, "par_iter_mut": true, "into_par_iter": true,
	"par_chunks": true, "par_chunks_mut": true, "par_bridge": true,
}

var mapNames = map[string]bool{"map": true}
var filterNames = map[string]bool{"filter": true}
var foldNames = map[string]bool{"fold": true, "scan": true}
var flatMapNames = map[string]bool{"flat_map": true, "filter_map": true}
var andThenNames = map[string]bool{"and_then": true}
var mapErrNames = map[string]bool{"map_err": true}
var inspectNames = map[string]bool{"inspect": true}
var adapterNames = map[string]bool{
	"take": true, "skip": true, "enumerate": true, "zip": true, "rev": true,
}

var terminalNames = map[string]TerminalKind{
	"collect": TermCollect, "sum": TermSum, "count": TermCount,
	"any": TermAny, "all": TermAll, "find": TermFind,
	"reduce": TermReduce, "for_each": TermForEach,
}

// Pipeline is one recognized `receiver.stage1(...).stage2(...)...terminal()` chain.
type Pipeline struct {
	Stages            []StageKind
	Terminal          TerminalKind
	Depth             int
	IsParallel        bool
	ClosureComplexity int
	HasNestedPipeline bool
}

// Score is this pipeline's contribution to composition_quality, per §4.4's
// scoring rule: base 0.5, +0.1*depth capped at 0.3, +0.2 parallel bonus when
// depth>=3 and the entry is parallel, +0.1 for nested pipelines, minus a
// closure-complexity penalty capped at 0.3.
func (p Pipeline) Score() float64 {
	score := 0.5
	depthBonus := 0.1 * float64(p.Depth)
	if depthBonus > 0.3 {
		depthBonus = 0.3
	}
	score += depthBonus
	if p.Depth >= 3 && p.IsParallel {
		score += 0.2
	}
	if p.HasNestedPipeline {
		score += 0.1
	}
	penalty := 0.05 * float64(p.ClosureComplexity)
	if penalty > 0.3 {
		penalty = 0.3
	}
	score -= penalty
	if score < 0 {
		score = 0
	}
	return score
}

// CompositionResult is the full §4.4 functional-composition output.
type CompositionResult struct {
	Pipelines          []Pipeline
	PipelineScore      float64
	CompositionQuality float64
}

// AnalyzeComposition detects every pipeline in body and combines it with a
// purity score into composition_quality = 0.4*purity + 0.6*pipeline_score.
func AnalyzeComposition(body []cfgbuild.Stmt, purityScore float64) CompositionResult {
	var pipelines []Pipeline

	var walkStmts func(stmts []cfgbuild.Stmt)
	var walkExpr func(e *cfgbuild.Expr)

	walkExpr = func(e *cfgbuild.Expr) {
		if e == nil {
			return
		}
		if e.Tag == cfgbuild.EMethodCall {
			if p, ok := detectPipeline(e); ok {
				pipelines = append(pipelines, p)
				// The calls below e on its receiver spine are this pipeline's
				// own stages, not pipelines of their own: walk only their
				// arguments and the chain's root receiver.
				chain := flattenChain(e)
				for _, call := range chain {
					for i := range call.Args {
						walkExpr(&call.Args[i])
						if call.Args[i].Tag == cfgbuild.EClosure {
							walkStmts(call.Args[i].ClosureBody)
						}
					}
				}
				walkExpr(chain[0].Receiver)
				return
			}
		}
		walkExpr(e.Left)
		walkExpr(e.Right)
		walkExpr(e.Operand)
		walkExpr(e.Base)
		walkExpr(e.RefTarget)
		walkExpr(e.Receiver)
		for i := range e.Args {
			walkExpr(&e.Args[i])
			if e.Args[i].Tag == cfgbuild.EClosure {
				walkStmts(e.Args[i].ClosureBody)
			}
		}
	}
	walkStmts = func(stmts []cfgbuild.Stmt) {
		for _, s := range stmts {
			walkExpr(s.Init)
			walkExpr(s.LHS)
			walkExpr(s.RHS)
			walkExpr(s.Cond)
			walkExpr(s.Value)
			walkExpr(s.Scrutinee)
			walkExpr(s.Expr)
			walkStmts(s.Then)
			walkStmts(s.Else)
			walkStmts(s.Body)
			for _, arm := range s.Arms {
				walkExpr(arm.Guard)
				walkStmts(arm.Body)
			}
		}
	}
	walkStmts(body)

	pipelineScore := 0.0
	if len(pipelines) > 0 {
		for _, p := range pipelines {
			pipelineScore += p.Score()
		}
		pipelineScore /= float64(len(pipelines))
	}

	return CompositionResult{
		Pipelines:          pipelines,
		PipelineScore:      pipelineScore,
		CompositionQuality: 0.4*purityScore + 0.6*pipelineScore,
	}
}

// detectPipeline treats e as the outermost call of a method-call chain and
// classifies it, reporting false if the chain has no iterator entry, no
// transformation stage, and no meaningful terminal.
func detectPipeline(e *cfgbuild.Expr) (Pipeline, bool) {
	chain := flattenChain(e)
	if len(chain) == 0 {
		return Pipeline{}, false
	}

	terminal := TermNone
	stageChain := chain
	last := chain[len(chain)-1]
	if t, ok := terminalNames[last.Method]; ok {
		terminal = t
		stageChain = chain[:len(chain)-1]
	}

	var stages []StageKind
	hasEntry := false
	hasTransform := false
	closureComplexity := 0
	nested := false

	for _, call := range stageChain {
		kind, ok := classifyStage(call.Method)
		if !ok {
			continue
		}
		stages = append(stages, kind)
		if kind == StageIterator {
			hasEntry = true
		} else {
			hasTransform = true
		}
		for i := range call.Args {
			if call.Args[i].Tag == cfgbuild.EClosure {
				closureComplexity += closureWeight(call.Args[i].ClosureBody)
				if containsPipeline(call.Args[i].ClosureBody) {
					nested = true
				}
			}
		}
	}

	meaningfulTerminal := terminal != TermNone && terminal != TermCollect
	if !((hasEntry && hasTransform) || meaningfulTerminal) {
		return Pipeline{}, false
	}

	isParallel := len(chain) > 0 && parallelIteratorNames[firstEntryMethod(stageChain)]

	return Pipeline{
		Stages:            stages,
		Terminal:          terminal,
		Depth:             len(stages),
		IsParallel:        isParallel,
		ClosureComplexity: closureComplexity,
		HasNestedPipeline: nested,
	}, true
}

func firstEntryMethod(chain []*cfgbuild.Expr) string {
	if len(chain) == 0 {
		return ""
	}
	return chain[0].Method
}

func classifyStage(method string) (StageKind, bool) {
	switch {
	case iteratorNames[method] || parallelIteratorNames[method]:
		return StageIterator, true
	case mapNames[method]:
		return StageMap, true
	case filterNames[method]:
		return StageFilter, true
	case foldNames[method]:
		return StageFold, true
	case flatMapNames[method]:
		return StageFlatMap, true
	case andThenNames[method]:
		return StageAndThen, true
	case mapErrNames[method]:
		return StageMapErr, true
	case inspectNames[method]:
		return StageInspect, true
	case adapterNames[method]:
		return StageAdapter, true
	default:
		return 0, false
	}
}

// flattenChain walks down a method-call's receiver spine, returning the calls
// in left-to-right (first-called-first) order.
func flattenChain(e *cfgbuild.Expr) []*cfgbuild.Expr {
	if e == nil || e.Tag != cfgbuild.EMethodCall {
		return nil
	}
	return append(flattenChain(e.Receiver), e)
}

// closureWeight is a crude per-closure complexity count (decision-bearing
// statements), feeding the pipeline score's closure-complexity penalty.
func closureWeight(body []cfgbuild.Stmt) int {
	n := 0
	for _, s := range body {
		switch s.Tag {
		case cfgbuild.SIf:
			n += 1 + closureWeight(s.Then) + closureWeight(s.Else)
		case cfgbuild.SWhile:
			n += 1 + closureWeight(s.Body)
		case cfgbuild.SMatch:
			n += len(s.Arms)
			for _, arm := range s.Arms {
				n += closureWeight(arm.Body)
			}
		}
	}
	return n
}

// containsPipeline reports whether any expression in body is itself a
// recognized pipeline, for the nested-pipeline bonus.
func containsPipeline(body []cfgbuild.Stmt) bool {
	found := false
	var walkStmts func(stmts []cfgbuild.Stmt)
	var walkExpr func(e *cfgbuild.Expr)
	walkExpr = func(e *cfgbuild.Expr) {
		if e == nil || found {
			return
		}
		if e.Tag == cfgbuild.EMethodCall {
			if _, ok := detectPipeline(e); ok {
				found = true
				return
			}
		}
		walkExpr(e.Receiver)
		for i := range e.Args {
			walkExpr(&e.Args[i])
		}
	}
	walkStmts = func(stmts []cfgbuild.Stmt) {
		for _, s := range stmts {
			if found {
				return
			}
			walkExpr(s.Init)
			walkExpr(s.RHS)
			walkExpr(s.Value)
			walkExpr(s.Expr)
			walkStmts(s.Then)
			walkStmts(s.Else)
			walkStmts(s.Body)
			for _, arm := range s.Arms {
				walkStmts(arm.Body)
			}
		}
	}
	walkStmts(body)
	return found
}
