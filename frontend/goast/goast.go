// Package goast is the Go-native front end: it parses a single .go file with
// go/parser and lowers each function and method declaration into the
// frontend-agnostic antipattern.FunctionInfo / cfgbuild.Stmt shapes the core
// analysis packages operate on. Grounded on inspector/golang's
// InspectPackage/InspectStatement/InspectExpression walk (one inspector
// object per parse, same AST-switch-per-node-kind idiom), adapted to build
// cfgbuild's own tagged-union AST instead of linager's graph.Type model.
package goast

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/viant/debtmap/internal/antipattern"
	"github.com/viant/debtmap/internal/cfgbuild"
	"github.com/viant/debtmap/internal/orchestrator"
)

// FrontEnd implements orchestrator.FrontEnd for Go source files.
type FrontEnd struct{}

// New builds a Go front end.
func New() *FrontEnd { return &FrontEnd{} }

func (f *FrontEnd) Matches(path string) bool {
	return strings.HasSuffix(path, ".go")
}

// Parse lowers one Go source file into an orchestrator.FileUnit.
func (f *FrontEnd) Parse(path string, content []byte) (orchestrator.FileUnit, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, content, parser.ParseComments)
	if err != nil {
		return orchestrator.FileUnit{}, fmt.Errorf("parse %s: %w", path, err)
	}

	inTestModule := strings.HasSuffix(path, "_test.go")
	l := &lowerer{fset: fset, path: path, inTestModule: inTestModule}

	var fns []antipattern.FunctionInfo
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		fns = append(fns, l.lowerFunc(fd))
	}

	var imports []string
	for _, spec := range file.Imports {
		imports = append(imports, strings.Trim(spec.Path.Value, `"`))
	}

	return orchestrator.FileUnit{
		Path:      path,
		Module:    file.Name.Name,
		Functions: fns,
		Imports:   imports,
	}, nil
}

type lowerer struct {
	fset         *token.FileSet
	path         string
	inTestModule bool
}

func (l *lowerer) lineOf(pos token.Pos) uint32 {
	if pos == token.NoPos {
		return 0
	}
	return uint32(l.fset.Position(pos).Line)
}

func (l *lowerer) lowerFunc(fd *ast.FuncDecl) antipattern.FunctionInfo {
	receiver := ""
	if fd.Recv != nil && len(fd.Recv.List) > 0 {
		receiver = exprToTypeName(fd.Recv.List[0].Type)
	}

	var paramNames, paramTypes []string
	params := 0
	if fd.Type.Params != nil {
		for _, field := range fd.Type.Params.List {
			typeName := exprToTypeName(field.Type)
			if len(field.Names) == 0 {
				params++
				paramNames = append(paramNames, "")
				paramTypes = append(paramTypes, typeName)
				continue
			}
			for _, name := range field.Names {
				params++
				paramNames = append(paramNames, name.Name)
				paramTypes = append(paramTypes, typeName)
			}
		}
	}

	var body []cfgbuild.Stmt
	startLine, endLine := 0, 0
	if fd.Body != nil {
		body = l.lowerStmts(fd.Body.List)
		startLine = l.fset.Position(fd.Body.Lbrace).Line
		endLine = l.fset.Position(fd.Body.Rbrace).Line
	}

	return antipattern.FunctionInfo{
		Name:           fd.Name.Name,
		File:           l.path,
		Line:           int(l.lineOf(fd.Pos())),
		Params:         params,
		Body:           body,
		Length:         endLine - startLine + 1,
		Nesting:        maxNesting(body, 0),
		IsTestFunction: isTestFunc(fd.Name.Name),
		InTestModule:   l.inTestModule,
		Receiver:       receiver,
		ParamNames:     paramNames,
		ParamTypes:     paramTypes,
	}
}

func isTestFunc(name string) bool {
	return strings.HasPrefix(name, "Test") || strings.HasPrefix(name, "Benchmark") || strings.HasPrefix(name, "Example")
}

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

func exprToTypeName(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return exprToTypeName(t.X)
	case *ast.SelectorExpr:
		return exprToTypeName(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		return "[]" + exprToTypeName(t.Elt)
	case *ast.MapType:
		return "map[" + exprToTypeName(t.Key) + "]" + exprToTypeName(t.Value)
	case *ast.Ellipsis:
		return "..." + exprToTypeName(t.Elt)
	case *ast.InterfaceType:
		return "interface{}"
	default:
		return "any"
	}
}
