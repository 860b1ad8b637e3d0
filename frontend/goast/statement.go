package goast

import (
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/viant/debtmap/internal/cfgbuild"
)

// lowerStmts lowers a statement list into cfgbuild's tagged-union AST,
// following inspector/golang's one-switch-per-node-kind statement walk but
// building cfgbuild.Stmt instead of inferring a graph.Type.
func (l *lowerer) lowerStmts(stmts []ast.Stmt) []cfgbuild.Stmt {
	var out []cfgbuild.Stmt
	for _, s := range stmts {
		out = append(out, l.lowerStmt(s)...)
	}
	return out
}

// lowerStmt returns zero or more cfgbuild.Stmt for one Go statement; most
// kinds produce exactly one, a handful (e.g. a bare block) splice their
// children in directly.
func (l *lowerer) lowerStmt(stmt ast.Stmt) []cfgbuild.Stmt {
	line := l.lineOf(stmt.Pos())

	switch s := stmt.(type) {
	case *ast.DeclStmt:
		return l.lowerDeclStmt(s, line)

	case *ast.AssignStmt:
		return l.lowerAssignStmt(s, line)

	case *ast.ExprStmt:
		e := l.lowerExpr(s.X)
		return []cfgbuild.Stmt{{Tag: cfgbuild.SExprStmt, Line: line, Expr: &e}}

	case *ast.ReturnStmt:
		var value *cfgbuild.Expr
		if len(s.Results) > 0 {
			e := l.lowerExpr(s.Results[0])
			value = &e
		}
		return []cfgbuild.Stmt{{Tag: cfgbuild.SReturn, Line: line, Value: value}}

	case *ast.IfStmt:
		return l.lowerIfStmt(s, line)

	case *ast.ForStmt:
		return l.lowerForStmt(s, line)

	case *ast.RangeStmt:
		return l.lowerRangeStmt(s, line)

	case *ast.SwitchStmt:
		return l.lowerSwitchStmt(s, line)

	case *ast.TypeSwitchStmt:
		return l.lowerTypeSwitchStmt(s, line)

	case *ast.BlockStmt:
		return l.lowerStmts(s.List)

	case *ast.IncDecStmt:
		op := "+="
		if s.Tok == token.DEC {
			op = "-="
		}
		lhs := l.lowerExpr(s.X)
		rhs := cfgbuild.NumericLiteral(1)
		return []cfgbuild.Stmt{{Tag: cfgbuild.SAssign, Line: line, LHS: &lhs, RHS: &cfgbuild.Expr{Tag: cfgbuild.EBinary, Op: op, Left: &lhs, Right: &rhs}}}

	case *ast.DeferStmt:
		e := l.lowerCallLike(s.Call)
		return []cfgbuild.Stmt{{Tag: cfgbuild.SExprStmt, Line: line, Expr: &e}}

	case *ast.GoStmt:
		e := l.lowerCallLike(s.Call)
		return []cfgbuild.Stmt{{Tag: cfgbuild.SExprStmt, Line: line, Expr: &e}}

	case *ast.LabeledStmt:
		return l.lowerStmt(s.Stmt)

	default:
		// select, send, branch (break/continue/goto): not modeled explicitly;
		// contribute no statement since they carry no variable/branch info
		// the dataflow/complexity passes key on beyond what their enclosing
		// for/switch already records.
		return nil
	}
}

func (l *lowerer) lowerDeclStmt(s *ast.DeclStmt, line uint32) []cfgbuild.Stmt {
	genDecl, ok := s.Decl.(*ast.GenDecl)
	if !ok {
		return nil
	}
	var out []cfgbuild.Stmt
	for _, spec := range genDecl.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		for i, name := range vs.Names {
			var init *cfgbuild.Expr
			if i < len(vs.Values) {
				e := l.lowerExpr(vs.Values[i])
				init = &e
			}
			out = append(out, cfgbuild.Stmt{
				Tag:     cfgbuild.SLet,
				Line:    line,
				Pattern: cfgbuild.IdentPattern(name.Name),
				Init:    init,
			})
		}
	}
	return out
}

func (l *lowerer) lowerAssignStmt(s *ast.AssignStmt, line uint32) []cfgbuild.Stmt {
	var out []cfgbuild.Stmt
	isDefine := s.Tok == token.DEFINE

	for i, lhs := range s.Lhs {
		var rhsExpr ast.Expr
		if i < len(s.Rhs) {
			rhsExpr = s.Rhs[i]
		} else if len(s.Rhs) == 1 {
			rhsExpr = s.Rhs[0] // multi-value assignment, e.g. a, b := f()
		}

		if ident, ok := astutil.Unparen(lhs).(*ast.Ident); ok && isDefine {
			var init *cfgbuild.Expr
			if rhsExpr != nil {
				e := l.lowerExpr(rhsExpr)
				init = &e
			}
			out = append(out, cfgbuild.Stmt{
				Tag:     cfgbuild.SLet,
				Line:    line,
				Pattern: cfgbuild.IdentPattern(ident.Name),
				Init:    init,
			})
			continue
		}

		lhsExpr := l.lowerExpr(lhs)
		var r cfgbuild.Expr
		if rhsExpr != nil {
			r = l.compoundAssignRHS(s.Tok, &lhsExpr, rhsExpr)
		}
		out = append(out, cfgbuild.Stmt{Tag: cfgbuild.SAssign, Line: line, LHS: &lhsExpr, RHS: &r})
	}
	return out
}

// compoundAssignRHS expands `x += y` into `x + y` so the dataflow pass sees
// the use of x on the right-hand side as well as the def on the left.
func (l *lowerer) compoundAssignRHS(tok token.Token, lhs *cfgbuild.Expr, rhsExpr ast.Expr) cfgbuild.Expr {
	rhs := l.lowerExpr(rhsExpr)
	op, ok := compoundOp(tok)
	if !ok {
		return rhs
	}
	return cfgbuild.Expr{Tag: cfgbuild.EBinary, Op: op, Left: lhs, Right: &rhs}
}

func compoundOp(tok token.Token) (string, bool) {
	switch tok {
	case token.ADD_ASSIGN:
		return "+", true
	case token.SUB_ASSIGN:
		return "-", true
	case token.MUL_ASSIGN:
		return "*", true
	case token.QUO_ASSIGN:
		return "/", true
	case token.REM_ASSIGN:
		return "%", true
	default:
		return "", false
	}
}

func (l *lowerer) lowerIfStmt(s *ast.IfStmt, line uint32) []cfgbuild.Stmt {
	var init []cfgbuild.Stmt
	if s.Init != nil {
		init = l.lowerStmt(s.Init)
	}
	cond := l.lowerExpr(s.Cond)
	then := l.lowerStmts(s.Body.List)
	var els []cfgbuild.Stmt
	if s.Else != nil {
		els = l.lowerStmt(s.Else)
	}
	stmt := cfgbuild.Stmt{Tag: cfgbuild.SIf, Line: line, Cond: &cond, Then: then, Else: els}
	return append(init, stmt)
}

func (l *lowerer) lowerForStmt(s *ast.ForStmt, line uint32) []cfgbuild.Stmt {
	var init []cfgbuild.Stmt
	if s.Init != nil {
		init = l.lowerStmt(s.Init)
	}
	var cond cfgbuild.Expr
	if s.Cond != nil {
		cond = l.lowerExpr(s.Cond)
	} else {
		cond = cfgbuild.Expr{Tag: cfgbuild.EOther}
	}
	body := l.lowerStmts(s.Body.List)
	if s.Post != nil {
		body = append(body, l.lowerStmt(s.Post)...)
	}
	stmt := cfgbuild.Stmt{Tag: cfgbuild.SWhile, Line: line, Cond: &cond, Body: body}
	return append(init, stmt)
}

func (l *lowerer) lowerRangeStmt(s *ast.RangeStmt, line uint32) []cfgbuild.Stmt {
	var bindings []cfgbuild.Stmt
	rangeExpr := l.lowerExpr(s.X)
	if ident, ok := s.Key.(*ast.Ident); ok && ident.Name != "_" {
		bindings = append(bindings, cfgbuild.Stmt{Tag: cfgbuild.SLet, Line: line, Pattern: cfgbuild.IdentPattern(ident.Name)})
	}
	if ident, ok := s.Value.(*ast.Ident); ok && ident.Name != "_" {
		bindings = append(bindings, cfgbuild.Stmt{Tag: cfgbuild.SLet, Line: line, Pattern: cfgbuild.IdentPattern(ident.Name)})
	}
	body := l.lowerStmts(s.Body.List)
	stmt := cfgbuild.Stmt{Tag: cfgbuild.SWhile, Line: line, Cond: &rangeExpr, Body: body}
	return append(bindings, stmt)
}

func (l *lowerer) lowerSwitchStmt(s *ast.SwitchStmt, line uint32) []cfgbuild.Stmt {
	var init []cfgbuild.Stmt
	if s.Init != nil {
		init = l.lowerStmt(s.Init)
	}
	var scrutinee cfgbuild.Expr
	if s.Tag != nil {
		scrutinee = l.lowerExpr(s.Tag)
	} else {
		scrutinee = cfgbuild.Expr{Tag: cfgbuild.EOther}
	}

	var arms []cfgbuild.MatchArm
	for _, clause := range s.Body.List {
		cc, ok := clause.(*ast.CaseClause)
		if !ok {
			continue
		}
		arms = append(arms, l.caseClauseArm(cc))
	}
	stmt := cfgbuild.Stmt{Tag: cfgbuild.SMatch, Line: line, Scrutinee: &scrutinee, Arms: arms}
	return append(init, stmt)
}

func (l *lowerer) lowerTypeSwitchStmt(s *ast.TypeSwitchStmt, line uint32) []cfgbuild.Stmt {
	var init []cfgbuild.Stmt
	if s.Init != nil {
		init = l.lowerStmt(s.Init)
	}
	scrutinee := cfgbuild.Expr{Tag: cfgbuild.EOther}

	var arms []cfgbuild.MatchArm
	for _, clause := range s.Body.List {
		cc, ok := clause.(*ast.CaseClause)
		if !ok {
			continue
		}
		arms = append(arms, l.caseClauseArm(cc))
	}
	stmt := cfgbuild.Stmt{Tag: cfgbuild.SMatch, Line: line, Scrutinee: &scrutinee, Arms: arms}
	return append(init, stmt)
}

func (l *lowerer) caseClauseArm(cc *ast.CaseClause) cfgbuild.MatchArm {
	pattern := cfgbuild.Pattern{Tag: cfgbuild.PWildcard}
	if len(cc.List) > 0 {
		pattern = cfgbuild.Pattern{Tag: cfgbuild.PLiteral}
	}
	return cfgbuild.MatchArm{Pattern: pattern, Body: l.lowerStmts(cc.Body)}
}

func (l *lowerer) lowerCallLike(call *ast.CallExpr) cfgbuild.Expr {
	return l.lowerExpr(call)
}
