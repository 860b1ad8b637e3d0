package complexity

import "github.com/viant/debtmap/internal/cfgbuild"

// parallelConstructors names known parallel-iterator entry points (rayon's
// par_iter family and common ports of it to other ecosystems).
var parallelConstructors = map[string]bool{
	"par_iter":       true,
	"par_iter_mut":   true,
	"into_par_iter":  true,
	"par_chunks":     true,
	"par_chunks_mut": true,
	"par_bridge":     true,
}

// detectParallelExecution scans body for a known parallel-iterator constructor
// call, per §4.3 "Parallel-execution recognition".
func detectParallelExecution(body []cfgbuild.Stmt) (DetectedPattern, bool) {
	found := false
	closures := 0
	var walkExpr func(e *cfgbuild.Expr)
	var walkStmts func(stmts []cfgbuild.Stmt)

	walkExpr = func(e *cfgbuild.Expr) {
		if e == nil {
			return
		}
		if e.Tag == cfgbuild.EMethodCall && parallelConstructors[e.Method] {
			found = true
		}
		if e.Tag == cfgbuild.EClosure {
			closures++
			walkStmts(e.ClosureBody)
		}
		walkExpr(e.Left)
		walkExpr(e.Right)
		walkExpr(e.Operand)
		walkExpr(e.Base)
		walkExpr(e.RefTarget)
		walkExpr(e.Receiver)
		for i := range e.Args {
			walkExpr(&e.Args[i])
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

	if !found {
		return DetectedPattern{}, false
	}
	return DetectedPattern{Name: "parallel-iterator", ClosureCount: closures}, true
}
