package cfgbuild

import "github.com/viant/debtmap/internal/ir"

// captureClosure snapshots the enclosing scope and walks the closure body to find
// every identifier that (a) is not a closure parameter and (b) already exists in
// the enclosing scope's name table, per §4.1.1. Each becomes a CapturedVar whose
// VariableId is the enclosing-scope one (I6 — captures are never renamed).
func (b *builder) captureClosure(e Expr) []ir.CapturedVar {
	params := map[string]bool{}
	for _, p := range e.Params {
		params[p] = true
	}

	assignedTargets := map[string]bool{}
	collectAssignTargets(e.ClosureBody, assignedTargets)

	seen := map[string]bool{}
	var captures []ir.CapturedVar
	var walkStmts func(stmts []Stmt)
	var walkExpr func(ex *Expr)

	considerIdent := func(name string) {
		if params[name] || seen[name] {
			return
		}
		if _, known := b.nameIDs[name]; !known {
			// Not a name that exists in the enclosing scope (and not yet
			// interned by this closure's own body) — not a capture.
			return
		}
		seen[name] = true
		mode := ir.ByRef
		if e.IsMove {
			mode = ir.ByMove
		} else if assignedTargets[name] {
			mode = ir.ByMutRef
		}
		captures = append(captures, ir.CapturedVar{
			Var:       b.varFor(name),
			Mode:      mode,
			IsMutated: mode == ir.ByMutRef,
		})
	}

	walkExpr = func(ex *Expr) {
		if ex == nil {
			return
		}
		switch ex.Tag {
		case EIdent:
			considerIdent(ex.Name)
		case EBinary:
			walkExpr(ex.Left)
			walkExpr(ex.Right)
		case EUnary:
			walkExpr(ex.Operand)
		case EField, EIndex:
			walkExpr(ex.Base)
		case ERef:
			walkExpr(ex.RefTarget)
		case ECall:
			for i := range ex.Args {
				walkExpr(&ex.Args[i])
			}
		case EMethodCall:
			walkExpr(ex.Receiver)
			for i := range ex.Args {
				walkExpr(&ex.Args[i])
			}
		case EClosure:
			// Nested closure: its own capture analysis runs separately when
			// it is lowered; we still need to see through it here so outer
			// captures used only inside the inner closure are found.
			innerParams := map[string]bool{}
			for _, p := range ex.Params {
				innerParams[p] = true
			}
			for n := range innerParams {
				params[n] = true
			}
			walkStmts(ex.ClosureBody)
		}
	}

	walkStmts = func(stmts []Stmt) {
		for _, s := range stmts {
			switch s.Tag {
			case SLet:
				walkExpr(s.Init)
			case SAssign:
				walkExpr(s.LHS)
				walkExpr(s.RHS)
			case SIf:
				walkExpr(s.Cond)
				walkStmts(s.Then)
				walkStmts(s.Else)
			case SWhile:
				walkExpr(s.Cond)
				walkStmts(s.Body)
			case SReturn:
				walkExpr(s.Value)
			case SMatch:
				walkExpr(s.Scrutinee)
				for _, arm := range s.Arms {
					walkExpr(arm.Guard)
					walkStmts(arm.Body)
				}
			case SExprStmt:
				walkExpr(s.Expr)
			}
		}
	}

	walkStmts(e.ClosureBody)
	return captures
}

// collectAssignTargets records every name assigned-to anywhere in stmts,
// including nested blocks, used to decide ByMutRef vs ByRef capture mode.
func collectAssignTargets(stmts []Stmt, out map[string]bool) {
	for _, s := range stmts {
		switch s.Tag {
		case SAssign:
			if s.LHS != nil && s.LHS.Tag == EIdent {
				out[s.LHS.Name] = true
			}
		case SIf:
			collectAssignTargets(s.Then, out)
			collectAssignTargets(s.Else, out)
		case SWhile:
			collectAssignTargets(s.Body, out)
		case SMatch:
			for _, arm := range s.Arms {
				collectAssignTargets(arm.Body, out)
			}
		}
	}
}
