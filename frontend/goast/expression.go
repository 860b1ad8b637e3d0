package goast

import (
	"go/ast"
	"go/token"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/viant/debtmap/internal/cfgbuild"
)

// lowerExpr lowers one Go expression into cfgbuild's tagged Expr union,
// following inspector/golang's InspectExpression switch-per-node-kind idiom.
func (l *lowerer) lowerExpr(expr ast.Expr) cfgbuild.Expr {
	expr = astutil.Unparen(expr)
	if expr == nil {
		return cfgbuild.Other()
	}

	switch e := expr.(type) {
	case *ast.Ident:
		return cfgbuild.Ident(e.Name)

	case *ast.BasicLit:
		switch e.Kind {
		case token.STRING:
			if v, err := strconv.Unquote(e.Value); err == nil {
				return cfgbuild.StringLiteral(v)
			}
			return cfgbuild.StringLiteral(e.Value)
		case token.INT, token.FLOAT:
			if v, err := strconv.ParseFloat(e.Value, 64); err == nil {
				return cfgbuild.NumericLiteral(v)
			}
			return cfgbuild.Literal()
		default:
			return cfgbuild.Literal()
		}

	case *ast.BinaryExpr:
		left := l.lowerExpr(e.X)
		right := l.lowerExpr(e.Y)
		op := e.Op.String()
		return cfgbuild.Expr{
			Tag: cfgbuild.EBinary, Op: op, Left: &left, Right: &right,
			IsShortCircuit: op == "&&" || op == "||",
		}

	case *ast.UnaryExpr:
		operand := l.lowerExpr(e.X)
		if e.Op == token.AND {
			return cfgbuild.Expr{Tag: cfgbuild.ERef, RefTarget: &operand, RefMutable: true}
		}
		return cfgbuild.Expr{Tag: cfgbuild.EUnary, Op: e.Op.String(), Operand: &operand}

	case *ast.StarExpr:
		operand := l.lowerExpr(e.X)
		return cfgbuild.Expr{Tag: cfgbuild.EUnary, Op: "*", Operand: &operand}

	case *ast.SelectorExpr:
		base := l.lowerExpr(e.X)
		return cfgbuild.Expr{Tag: cfgbuild.EField, Base: &base, Field: e.Sel.Name}

	case *ast.IndexExpr:
		base := l.lowerExpr(e.X)
		return cfgbuild.Expr{Tag: cfgbuild.EIndex, Base: &base}

	case *ast.CallExpr:
		return l.lowerCallExpr(e)

	case *ast.FuncLit:
		var params []string
		if e.Type.Params != nil {
			for _, field := range e.Type.Params.List {
				for _, name := range field.Names {
					params = append(params, name.Name)
				}
			}
		}
		var body []cfgbuild.Stmt
		if e.Body != nil {
			body = l.lowerStmts(e.Body.List)
		}
		return cfgbuild.Expr{Tag: cfgbuild.EClosure, Params: params, ClosureBody: body}

	case *ast.CompositeLit:
		name := ""
		if t, ok := e.Type.(*ast.Ident); ok {
			name = t.Name
		} else if t, ok := e.Type.(*ast.SelectorExpr); ok {
			name = t.Sel.Name
		}
		var fields []string
		for _, elt := range e.Elts {
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				if ident, ok := kv.Key.(*ast.Ident); ok {
					fields = append(fields, ident.Name)
				}
			}
		}
		return cfgbuild.StructLiteral(name, fields)

	case *ast.TypeAssertExpr:
		operand := l.lowerExpr(e.X)
		return cfgbuild.Expr{Tag: cfgbuild.EUnary, Op: "type-assert", Operand: &operand}

	default:
		return cfgbuild.Other()
	}
}

func (l *lowerer) lowerCallExpr(e *ast.CallExpr) cfgbuild.Expr {
	args := make([]cfgbuild.Expr, 0, len(e.Args))
	for _, a := range e.Args {
		args = append(args, l.lowerExpr(a))
	}

	switch fn := astutil.Unparen(e.Fun).(type) {
	case *ast.SelectorExpr:
		recv := l.lowerExpr(fn.X)
		return cfgbuild.Expr{Tag: cfgbuild.EMethodCall, Receiver: &recv, Method: fn.Sel.Name, Args: args}
	case *ast.Ident:
		return cfgbuild.Expr{Tag: cfgbuild.ECall, FuncName: fn.Name, Args: args}
	default:
		return cfgbuild.Expr{Tag: cfgbuild.ECall, FuncName: "", Args: args}
	}
}
