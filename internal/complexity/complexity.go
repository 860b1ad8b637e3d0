// Package complexity implements the cyclomatic/cognitive/nesting metrics, entropy
// dampening, mapping-pattern adjustment and pattern recognizers of spec §4.3. It
// walks the frontend-agnostic AST defined by internal/cfgbuild (the same shape
// internal/cfgbuild.Lower consumes), not the lowered CFG — syntactic recognizers
// like the if-else-chain and recursive-match detectors need the original nesting
// shape that lowering intentionally collapses into straight-line blocks.
package complexity

import (
	"math"

	"github.com/viant/debtmap/internal/cfgbuild"
)

// DetectedPattern is a labeled pattern observed while walking a function body
// (parallel-iterator usage, mapping-pattern classification, …).
type DetectedPattern struct {
	Name         string
	ClosureCount int
}

// Result is the full §4.3 output for one function.
type Result struct {
	Cyclomatic         int
	Cognitive          int
	Nesting            int
	Length             int // statement count, recursively
	AdjustedComplexity *float64
	DetectedPatterns   []DetectedPattern
	Mapping            *MappingPatternResult
	Entropy            *EntropyResult
	IfElseChains       []IfElseChain
	RecursiveMatches   []RecursiveMatchInfo
}

// Analyze computes §4.3's full metric set for a function body.
func Analyze(body []cfgbuild.Stmt, entropyEnabled bool) Result {
	w := &walker{}
	w.walkStmts(body, 0)

	res := Result{
		Cyclomatic: 1 + w.decisionPoints,
		Cognitive:  w.cognitive,
		Nesting:    w.maxNesting,
		Length:     w.stmtCount,
	}

	res.IfElseChains = findIfElseChains(body)
	res.RecursiveMatches = findRecursiveMatches(body, 0)

	if mp, ok := detectMappingPattern(body, res.Cyclomatic, res.Cognitive); ok {
		res.Mapping = &mp
		res.AdjustedComplexity = &mp.AdjustedComplexity
	}

	if pp, ok := detectParallelExecution(body); ok {
		res.DetectedPatterns = append(res.DetectedPatterns, pp)
		base := float64(res.Cyclomatic)
		if res.AdjustedComplexity != nil {
			base = *res.AdjustedComplexity
		}
		discounted := base * parallelDiscountFactor
		res.AdjustedComplexity = &discounted
	}

	if entropyEnabled {
		e := computeEntropy(body, res.Cyclomatic)
		res.Entropy = &e
	}

	return res
}

// walker accumulates cyclomatic decision points, cognitive weight, nesting depth
// and statement count over a single pass of the AST.
type walker struct {
	decisionPoints int
	cognitive      int
	maxNesting     int
	stmtCount      int
}

func (w *walker) bumpNesting(depth int) {
	if depth > w.maxNesting {
		w.maxNesting = depth
	}
}

func (w *walker) walkStmts(stmts []cfgbuild.Stmt, depth int) {
	for _, s := range stmts {
		w.stmtCount++
		switch s.Tag {
		case cfgbuild.SIf:
			w.decisionPoints++ // if / else-if
			w.cognitive += 1 + depth
			w.bumpNesting(depth + 1)
			w.walkExpr(s.Cond, depth)
			w.walkStmts(s.Then, depth+1)
			if s.Else != nil {
				// a single-If else body is an "else if" continuation: the
				// spec counts each "if/else if" as its own decision point,
				// which the recursive walkStmts call below naturally adds.
				if len(s.Else) == 1 && s.Else[0].Tag == cfgbuild.SIf {
					w.walkStmts(s.Else, depth)
				} else {
					w.walkStmts(s.Else, depth+1)
				}
			}
		case cfgbuild.SWhile:
			w.decisionPoints++ // loop header
			w.cognitive += 1 + depth
			w.bumpNesting(depth + 1)
			w.walkExpr(s.Cond, depth)
			w.walkStmts(s.Body, depth+1)
		case cfgbuild.SMatch:
			for i, arm := range s.Arms {
				if i > 0 && arm.Pattern.Tag != cfgbuild.PWildcard {
					w.decisionPoints++ // each non-default arm beyond the first
				}
			}
			w.cognitive += 1 + depth
			w.bumpNesting(depth + 1)
			for _, arm := range s.Arms {
				if arm.Guard != nil {
					w.walkExpr(arm.Guard, depth)
				}
				w.walkStmts(arm.Body, depth+1)
			}
		case cfgbuild.SReturn:
			if s.Value != nil {
				w.walkExpr(s.Value, depth)
			}
		case cfgbuild.SLet:
			if s.Init != nil {
				w.walkExpr(s.Init, depth)
			}
		case cfgbuild.SAssign:
			if s.RHS != nil {
				w.walkExpr(s.RHS, depth)
			}
		case cfgbuild.SExprStmt:
			if s.Expr != nil {
				w.walkExpr(s.Expr, depth)
			}
		}
	}
}

func (w *walker) walkExpr(e *cfgbuild.Expr, depth int) {
	if e == nil {
		return
	}
	switch e.Tag {
	case cfgbuild.EBinary:
		if e.IsShortCircuit {
			w.decisionPoints++
		}
		w.walkExpr(e.Left, depth)
		w.walkExpr(e.Right, depth)
		w.countBooleanFlips(e)
	case cfgbuild.EUnary:
		w.walkExpr(e.Operand, depth)
	case cfgbuild.EField, cfgbuild.EIndex:
		if e.IsOptionalChain {
			w.decisionPoints++
		}
		w.walkExpr(e.Base, depth)
	case cfgbuild.ERef:
		w.walkExpr(e.RefTarget, depth)
	case cfgbuild.ECall:
		if e.IsTernary {
			w.decisionPoints++
		}
		for i := range e.Args {
			w.walkExpr(&e.Args[i], depth)
		}
	case cfgbuild.EMethodCall:
		w.walkExpr(e.Receiver, depth)
		for i := range e.Args {
			w.walkExpr(&e.Args[i], depth)
		}
	case cfgbuild.EClosure:
		w.cognitive += 1 + depth
		w.bumpNesting(depth + 1)
		w.walkStmts(e.ClosureBody, depth+1)
	}
}

// countBooleanFlips adds 1 cognitive point per distinct operator flip in a
// sequential chain of short-circuit operators (`a && b || c` flips once).
func (w *walker) countBooleanFlips(e *cfgbuild.Expr) {
	if !e.IsShortCircuit {
		return
	}
	if e.Left != nil && e.Left.IsShortCircuit && e.Left.Op != e.Op {
		w.cognitive++
	}
	if e.Right != nil && e.Right.IsShortCircuit && e.Right.Op != e.Op {
		w.cognitive++
	}
}

const parallelDiscountFactor = 0.85

// decayCurve is the sublinear decay shape used by the entropy dampening in
// this package (grounded on the pack's decayCredit-style scoring idiom).
func decayCurve(value, threshold float64, k float64) float64 {
	if value <= threshold {
		return 1.0
	}
	credit := 1.0 - (value-threshold)/(threshold*k)
	return math.Max(0, credit)
}
