// Package treesitter is the second, non-Go-oriented front end: it parses
// JavaScript source with go-tree-sitter and lowers top-level function
// declarations, arrow functions assigned to a const/let, and class methods
// into the same frontend-agnostic FunctionInfo/cfgbuild.Stmt shapes
// frontend/goast produces. Grounded on inspector/jsx.Inspector's
// parser.SetLanguage(javascript.GetLanguage()) + named-child node-kind walk
// (the teacher's only real, non-stubbed go-tree-sitter consumer).
package treesitter

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/viant/debtmap/internal/antipattern"
	"github.com/viant/debtmap/internal/cfgbuild"
	"github.com/viant/debtmap/internal/orchestrator"
)

// FrontEnd implements orchestrator.FrontEnd for JavaScript source files.
//
// TypeScript (.ts/.tsx) is out of scope: the pack only vendors a JavaScript
// grammar (github.com/smacker/go-tree-sitter/javascript, used by
// inspector/jsx), never a typescript one, so there is nothing to ground a
// .ts parser on without fabricating a dependency.
type FrontEnd struct{}

// New builds a JavaScript front end.
func New() *FrontEnd { return &FrontEnd{} }

func (f *FrontEnd) Matches(path string) bool {
	return strings.HasSuffix(path, ".js") || strings.HasSuffix(path, ".jsx")
}

// Parse lowers one JavaScript source file into an orchestrator.FileUnit.
func (f *FrontEnd) Parse(path string, content []byte) (orchestrator.FileUnit, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return orchestrator.FileUnit{}, fmt.Errorf("parse %s: %w", path, err)
	}
	root := tree.RootNode()

	l := &lowerer{src: content, path: path, inTestModule: isTestPath(path)}

	var fns []antipattern.FunctionInfo
	var imports []string
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "function_declaration":
			fns = append(fns, l.lowerFunctionDecl(child, ""))
		case "lexical_declaration", "variable_declaration":
			fns = append(fns, l.lowerArrowDeclarations(child)...)
		case "class_declaration":
			fns = append(fns, l.lowerClassMethods(child)...)
		case "import_statement":
			if spec := l.importSource(child); spec != "" {
				imports = append(imports, spec)
			}
		}
	}

	return orchestrator.FileUnit{
		Path:      path,
		Module:    moduleNameFor(path),
		Functions: fns,
		Imports:   imports,
	}, nil
}

func isTestPath(path string) bool {
	return strings.Contains(path, ".test.") || strings.Contains(path, ".spec.") || strings.Contains(path, "/__tests__/")
}

func moduleNameFor(path string) string {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(strings.TrimSuffix(base, ".jsx"), ".js")
}

type lowerer struct {
	src          []byte
	path         string
	inTestModule bool
}

func (l *lowerer) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(l.src)
}

func (l *lowerer) lineOf(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPoint().Row) + 1
}

func (l *lowerer) importSource(n *sitter.Node) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "string" {
			return strings.Trim(l.text(c), `"'`)
		}
	}
	return ""
}

func (l *lowerer) lowerFunctionDecl(n *sitter.Node, receiver string) antipattern.FunctionInfo {
	name := l.text(n.ChildByFieldName("name"))
	params := n.ChildByFieldName("parameters")
	paramNames := l.paramNames(params)
	body := n.ChildByFieldName("body")

	lowered := l.lowerBlock(body)
	return antipattern.FunctionInfo{
		Name:           name,
		File:           l.path,
		Line:           l.lineOf(n),
		Params:         len(paramNames),
		Body:           lowered,
		Length:         l.lineSpan(n),
		Nesting:        maxNesting(lowered, 0),
		IsTestFunction: isTestFuncName(name),
		InTestModule:   l.inTestModule,
		Receiver:       receiver,
		ParamNames:     paramNames,
	}
}

// maxNesting walks the lowered body and reports the deepest if/while/match
// nesting depth, mirroring frontend/goast's own front-end-supplied nesting
// hint so smells.DetectDeepNesting sees a consistent signal regardless of
// source language.
func maxNesting(stmts []cfgbuild.Stmt, depth int) int {
	max := depth
	for _, s := range stmts {
		switch s.Tag {
		case cfgbuild.SIf:
			if n := maxNesting(s.Then, depth+1); n > max {
				max = n
			}
			if n := maxNesting(s.Else, depth+1); n > max {
				max = n
			}
		case cfgbuild.SWhile:
			if n := maxNesting(s.Body, depth+1); n > max {
				max = n
			}
		case cfgbuild.SMatch:
			for _, arm := range s.Arms {
				if n := maxNesting(arm.Body, depth+1); n > max {
					max = n
				}
			}
		}
	}
	return max
}

func isTestFuncName(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, "test") || strings.Contains(lower, "spec")
}

func (l *lowerer) lineSpan(n *sitter.Node) int {
	return int(n.EndPoint().Row) - int(n.StartPoint().Row) + 1
}

func (l *lowerer) paramNames(params *sitter.Node) []string {
	if params == nil {
		return nil
	}
	var names []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "identifier":
			names = append(names, l.text(p))
		default:
			names = append(names, l.text(p))
		}
	}
	return names
}

// lowerArrowDeclarations finds `const f = (...) => {...}` / `function(...)`
// bindings within a lexical/variable declaration, per
// inspector/jsx.Inspector.processJSXFunctions's own declarator walk.
func (l *lowerer) lowerArrowDeclarations(n *sitter.Node) []antipattern.FunctionInfo {
	var out []antipattern.FunctionInfo
	for i := 0; i < int(n.NamedChildCount()); i++ {
		decl := n.NamedChild(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		valueNode := decl.ChildByFieldName("value")
		if nameNode == nil || valueNode == nil {
			continue
		}
		if valueNode.Type() != "arrow_function" && valueNode.Type() != "function" {
			continue
		}
		params := valueNode.ChildByFieldName("parameters")
		paramNames := l.paramNames(params)
		body := valueNode.ChildByFieldName("body")
		lowered := l.lowerBlock(body)

		out = append(out, antipattern.FunctionInfo{
			Name:           l.text(nameNode),
			File:           l.path,
			Line:           l.lineOf(decl),
			Params:         len(paramNames),
			Body:           lowered,
			Length:         l.lineSpan(decl),
			Nesting:        maxNesting(lowered, 0),
			IsTestFunction: isTestFuncName(l.text(nameNode)),
			InTestModule:   l.inTestModule,
			ParamNames:     paramNames,
		})
	}
	return out
}

func (l *lowerer) lowerClassMethods(n *sitter.Node) []antipattern.FunctionInfo {
	className := l.text(n.ChildByFieldName("name"))
	body := n.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var out []antipattern.FunctionInfo
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		if member.Type() != "method_definition" {
			continue
		}
		name := l.text(member.ChildByFieldName("name"))
		params := member.ChildByFieldName("parameters")
		paramNames := l.paramNames(params)
		methodBody := member.ChildByFieldName("body")
		lowered := l.lowerBlock(methodBody)

		out = append(out, antipattern.FunctionInfo{
			Name:           name,
			File:           l.path,
			Line:           l.lineOf(member),
			Params:         len(paramNames),
			Body:           lowered,
			Length:         l.lineSpan(member),
			Nesting:        maxNesting(lowered, 0),
			IsTestFunction: isTestFuncName(name),
			InTestModule:   l.inTestModule,
			Receiver:       className,
			ParamNames:     paramNames,
		})
	}
	return out
}

// lowerBlock lowers a JS statement_block into cfgbuild's tagged-union AST.
// Declarations, if/while/for/for-in, switch (as a match), return, expression
// statements and nested blocks are modeled; anything else (try/catch, classes
// nested further) contributes no statement, matching frontend/goast's same approximation
// for constructs outside cfgbuild's small shared AST.
func (l *lowerer) lowerBlock(n *sitter.Node) []cfgbuild.Stmt {
	if n == nil {
		return nil
	}
	var out []cfgbuild.Stmt
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, l.lowerStmt(n.NamedChild(i))...)
	}
	return out
}

func (l *lowerer) lowerStmt(n *sitter.Node) []cfgbuild.Stmt {
	line := uint32(l.lineOf(n))
	switch n.Type() {
	case "lexical_declaration", "variable_declaration":
		return l.lowerVarDecl(n, line)

	case "expression_statement":
		if n.NamedChildCount() == 0 {
			return nil
		}
		e := l.lowerExpr(n.NamedChild(0))
		return []cfgbuild.Stmt{{Tag: cfgbuild.SExprStmt, Line: line, Expr: &e}}

	case "return_statement":
		var value *cfgbuild.Expr
		if n.NamedChildCount() > 0 {
			e := l.lowerExpr(n.NamedChild(0))
			value = &e
		}
		return []cfgbuild.Stmt{{Tag: cfgbuild.SReturn, Line: line, Value: value}}

	case "if_statement":
		cond := l.lowerExpr(n.ChildByFieldName("condition"))
		then := l.lowerBlock(n.ChildByFieldName("consequence"))
		var els []cfgbuild.Stmt
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			if alt.Type() == "else_clause" && alt.NamedChildCount() > 0 {
				els = l.lowerStmt(alt.NamedChild(0))
			} else {
				els = l.lowerStmt(alt)
			}
		}
		return []cfgbuild.Stmt{{Tag: cfgbuild.SIf, Line: line, Cond: &cond, Then: then, Else: els}}

	case "while_statement":
		cond := l.lowerExpr(n.ChildByFieldName("condition"))
		body := l.lowerBlock(n.ChildByFieldName("body"))
		return []cfgbuild.Stmt{{Tag: cfgbuild.SWhile, Line: line, Cond: &cond, Body: body}}

	case "for_statement":
		cond := cfgbuild.Expr{Tag: cfgbuild.EOther}
		if c := n.ChildByFieldName("condition"); c != nil {
			cond = l.lowerExpr(c)
		}
		body := l.lowerBlock(n.ChildByFieldName("body"))
		return []cfgbuild.Stmt{{Tag: cfgbuild.SWhile, Line: line, Cond: &cond, Body: body}}

	case "for_in_statement":
		cond := cfgbuild.Expr{Tag: cfgbuild.EOther}
		if right := n.ChildByFieldName("right"); right != nil {
			cond = l.lowerExpr(right)
		}
		body := l.lowerBlock(n.ChildByFieldName("body"))
		return []cfgbuild.Stmt{{Tag: cfgbuild.SWhile, Line: line, Cond: &cond, Body: body}}

	case "switch_statement":
		return l.lowerSwitch(n, line)

	case "statement_block":
		return l.lowerBlock(n)

	default:
		return nil
	}
}

func (l *lowerer) lowerVarDecl(n *sitter.Node, line uint32) []cfgbuild.Stmt {
	var out []cfgbuild.Stmt
	for i := 0; i < int(n.NamedChildCount()); i++ {
		decl := n.NamedChild(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil || nameNode.Type() != "identifier" {
			continue
		}
		var init *cfgbuild.Expr
		if v := decl.ChildByFieldName("value"); v != nil {
			e := l.lowerExpr(v)
			init = &e
		}
		out = append(out, cfgbuild.Stmt{
			Tag:     cfgbuild.SLet,
			Line:    line,
			Pattern: cfgbuild.IdentPattern(l.text(nameNode)),
			Init:    init,
		})
	}
	return out
}

func (l *lowerer) lowerSwitch(n *sitter.Node, line uint32) []cfgbuild.Stmt {
	scrutinee := cfgbuild.Expr{Tag: cfgbuild.EOther}
	if v := n.ChildByFieldName("value"); v != nil {
		scrutinee = l.lowerExpr(v)
	}
	body := n.ChildByFieldName("body")
	var arms []cfgbuild.MatchArm
	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			clause := body.NamedChild(i)
			if clause.Type() != "switch_case" && clause.Type() != "switch_default" {
				continue
			}
			pattern := cfgbuild.Pattern{Tag: cfgbuild.PWildcard}
			if clause.Type() == "switch_case" {
				pattern = cfgbuild.Pattern{Tag: cfgbuild.PLiteral}
			}
			var armBody []cfgbuild.Stmt
			for j := 0; j < int(clause.NamedChildCount()); j++ {
				armBody = append(armBody, l.lowerStmt(clause.NamedChild(j))...)
			}
			arms = append(arms, cfgbuild.MatchArm{Pattern: pattern, Body: armBody})
		}
	}
	return []cfgbuild.Stmt{{Tag: cfgbuild.SMatch, Line: line, Scrutinee: &scrutinee, Arms: arms}}
}

func (l *lowerer) lowerExpr(n *sitter.Node) cfgbuild.Expr {
	if n == nil {
		return cfgbuild.Other()
	}
	switch n.Type() {
	case "identifier", "this":
		return cfgbuild.Ident(l.text(n))

	case "string", "template_string":
		return cfgbuild.StringLiteral(strings.Trim(l.text(n), `"'`+"`"))

	case "number":
		return cfgbuild.Literal()

	case "assignment_expression":
		left := l.lowerExpr(n.ChildByFieldName("left"))
		right := l.lowerExpr(n.ChildByFieldName("right"))
		return cfgbuild.Expr{Tag: cfgbuild.EBinary, Op: "=", Left: &left, Right: &right}

	case "binary_expression":
		left := l.lowerExpr(n.ChildByFieldName("left"))
		right := l.lowerExpr(n.ChildByFieldName("right"))
		op := l.text(n.ChildByFieldName("operator"))
		return cfgbuild.Expr{Tag: cfgbuild.EBinary, Op: op, Left: &left, Right: &right, IsShortCircuit: op == "&&" || op == "||"}

	case "unary_expression":
		operand := l.lowerExpr(n.ChildByFieldName("argument"))
		return cfgbuild.Expr{Tag: cfgbuild.EUnary, Op: l.text(n.ChildByFieldName("operator")), Operand: &operand}

	case "member_expression":
		base := l.lowerExpr(n.ChildByFieldName("object"))
		field := l.text(n.ChildByFieldName("property"))
		return cfgbuild.Expr{Tag: cfgbuild.EField, Base: &base, Field: field}

	case "subscript_expression":
		base := l.lowerExpr(n.ChildByFieldName("object"))
		return cfgbuild.Expr{Tag: cfgbuild.EIndex, Base: &base}

	case "call_expression":
		return l.lowerCall(n)

	case "arrow_function", "function":
		params := l.paramNames(n.ChildByFieldName("parameters"))
		return cfgbuild.Expr{Tag: cfgbuild.EClosure, Params: params, ClosureBody: l.lowerBlock(n.ChildByFieldName("body"))}

	case "object":
		var fields []string
		for i := 0; i < int(n.NamedChildCount()); i++ {
			pair := n.NamedChild(i)
			if pair.Type() == "pair" {
				if key := pair.ChildByFieldName("key"); key != nil {
					fields = append(fields, l.text(key))
				}
			}
		}
		return cfgbuild.StructLiteral("", fields)

	case "ternary_expression":
		return cfgbuild.Expr{Tag: cfgbuild.EOther, IsTernary: true}

	default:
		return cfgbuild.Other()
	}
}

func (l *lowerer) lowerCall(n *sitter.Node) cfgbuild.Expr {
	fn := n.ChildByFieldName("function")
	args := n.ChildByFieldName("arguments")
	var argExprs []cfgbuild.Expr
	if args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			argExprs = append(argExprs, l.lowerExpr(args.NamedChild(i)))
		}
	}
	if fn != nil && fn.Type() == "member_expression" {
		recv := l.lowerExpr(fn.ChildByFieldName("object"))
		method := l.text(fn.ChildByFieldName("property"))
		return cfgbuild.Expr{Tag: cfgbuild.EMethodCall, Receiver: &recv, Method: method, Args: argExprs}
	}
	return cfgbuild.Expr{Tag: cfgbuild.ECall, FuncName: l.text(fn), Args: argExprs}
}
