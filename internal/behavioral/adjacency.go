package behavioral

import (
	"strings"

	"github.com/viant/debtmap/internal/cfgbuild"
)

// Method is the per-method view behavioral decomposition operates on: a name,
// a category-eligible body, and test-ness for production refinement.
type Method struct {
	Name   string
	Body   []cfgbuild.Stmt
	IsTest bool
}

// EdgeKey identifies one directed caller->callee call-graph edge.
type EdgeKey struct {
	Caller, Callee string
}

// BuildAdjacency walks each method's body for `self.m(...)` / `self::m(...)` /
// `Self::m(...)` calls, and for free-function calls whose name matches another
// method defined in the same set, building the (caller, callee) -> count
// matrix of §4.8.
func BuildAdjacency(methods []Method) map[EdgeKey]int {
	names := map[string]bool{}
	for _, m := range methods {
		names[m.Name] = true
	}

	adjacency := map[EdgeKey]int{}
	for _, m := range methods {
		record := func(callee string) {
			if callee == m.Name {
				return
			}
			if !names[callee] {
				return
			}
			adjacency[EdgeKey{Caller: m.Name, Callee: callee}]++
		}

		var walkStmts func(stmts []cfgbuild.Stmt)
		var walkExpr func(e *cfgbuild.Expr)
		walkExpr = func(e *cfgbuild.Expr) {
			if e == nil {
				return
			}
			switch e.Tag {
			case cfgbuild.EMethodCall:
				if e.Receiver != nil && e.Receiver.Tag == cfgbuild.EIdent &&
					(e.Receiver.Name == "self" || e.Receiver.Name == "Self") {
					record(e.Method)
				}
				walkExpr(e.Receiver)
				for i := range e.Args {
					walkExpr(&e.Args[i])
				}
			case cfgbuild.ECall:
				record(strings.TrimPrefix(strings.TrimPrefix(e.FuncName, "self::"), "Self::"))
				for i := range e.Args {
					walkExpr(&e.Args[i])
				}
			case cfgbuild.EBinary:
				walkExpr(e.Left)
				walkExpr(e.Right)
			case cfgbuild.EClosure:
				walkStmts(e.ClosureBody)
			}
		}
		walkStmts = func(stmts []cfgbuild.Stmt) {
			for _, s := range stmts {
				switch s.Tag {
				case cfgbuild.SLet:
					walkExpr(s.Init)
				case cfgbuild.SAssign:
					walkExpr(s.RHS)
				case cfgbuild.SIf:
					walkExpr(s.Cond)
					walkStmts(s.Then)
					walkStmts(s.Else)
				case cfgbuild.SWhile:
					walkExpr(s.Cond)
					walkStmts(s.Body)
				case cfgbuild.SReturn:
					walkExpr(s.Value)
				case cfgbuild.SMatch:
					for _, arm := range s.Arms {
						walkStmts(arm.Body)
					}
				case cfgbuild.SExprStmt:
					walkExpr(s.Expr)
				}
			}
		}
		walkStmts(m.Body)
	}
	return adjacency
}
