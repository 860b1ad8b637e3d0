package errswallow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/debtmap/internal/antipattern"
	"github.com/viant/debtmap/internal/cfgbuild"
)

func exprPtr(e cfgbuild.Expr) *cfgbuild.Expr { return &e }

func TestDetectWildcardBindOnFallibleCall(t *testing.T) {
	fn := antipattern.FunctionInfo{
		Name: "run", File: "a.rs",
		Body: []cfgbuild.Stmt{
			{Tag: cfgbuild.SLet, Line: 3, Pattern: cfgbuild.Pattern{Tag: cfgbuild.PWildcard},
				Init: exprPtr(cfgbuild.Expr{Tag: cfgbuild.ECall, FuncName: "write_file"})},
		},
	}
	items := Detect(fn)
	if assert.Len(t, items, 1) {
		assert.Equal(t, "1", items[0].Context["count"])
		assert.Equal(t, "wildcard-bind", items[0].Context["patterns"])
		assert.Equal(t, 3, items[0].Line)
	}
}

func TestDetectThrowawayBindOnFallibleCall(t *testing.T) {
	fn := antipattern.FunctionInfo{
		Name: "run", File: "a.rs",
		Body: []cfgbuild.Stmt{
			{Tag: cfgbuild.SLet, Line: 4, Pattern: cfgbuild.IdentPattern("_result"),
				Init: exprPtr(cfgbuild.Expr{Tag: cfgbuild.EMethodCall, Method: "save", Receiver: exprPtr(cfgbuild.Ident("db"))})},
		},
	}
	items := Detect(fn)
	if assert.Len(t, items, 1) {
		assert.Equal(t, "throwaway-bind", items[0].Context["patterns"])
	}
}

func TestDetectNonFallibleWildcardBindIsIgnored(t *testing.T) {
	fn := antipattern.FunctionInfo{
		Name: "run", File: "a.rs",
		Body: []cfgbuild.Stmt{
			{Tag: cfgbuild.SLet, Pattern: cfgbuild.Pattern{Tag: cfgbuild.PWildcard}, Init: exprPtr(cfgbuild.Literal())},
		},
	}
	assert.Empty(t, Detect(fn))
}

func TestDetectEmptyCatchOnErrorArm(t *testing.T) {
	fn := antipattern.FunctionInfo{
		Name: "run", File: "a.rs",
		Body: []cfgbuild.Stmt{
			{Tag: cfgbuild.SMatch, Line: 9, Scrutinee: exprPtr(cfgbuild.Ident("result")), Arms: []cfgbuild.MatchArm{
				{Pattern: cfgbuild.IdentPattern("Ok"), Body: []cfgbuild.Stmt{{Tag: cfgbuild.SExprStmt, Expr: exprPtr(cfgbuild.Ident("x"))}}},
				{Pattern: cfgbuild.IdentPattern("Err"), Body: nil},
			}},
		},
	}
	items := Detect(fn)
	if assert.Len(t, items, 1) {
		assert.Equal(t, "empty-catch", items[0].Context["patterns"])
	}
}

func TestDetectMultiplePatternsAccumulateCount(t *testing.T) {
	fn := antipattern.FunctionInfo{
		Name: "run", File: "a.rs",
		Body: []cfgbuild.Stmt{
			{Tag: cfgbuild.SLet, Line: 1, Pattern: cfgbuild.Pattern{Tag: cfgbuild.PWildcard},
				Init: exprPtr(cfgbuild.Expr{Tag: cfgbuild.ECall, FuncName: "a"})},
			{Tag: cfgbuild.SLet, Line: 2, Pattern: cfgbuild.IdentPattern("_b"),
				Init: exprPtr(cfgbuild.Expr{Tag: cfgbuild.ECall, FuncName: "b"})},
		},
	}
	items := Detect(fn)
	if assert.Len(t, items, 1) {
		assert.Equal(t, "2", items[0].Context["count"])
		assert.Equal(t, 1, items[0].Line)
	}
}
