package cfgbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/debtmap/internal/ir"
)

// Scenario 1: { let mut x = 1; x = x + 1; x }
func TestLowerReassignmentSingleBlock(t *testing.T) {
	body := []Stmt{
		{Tag: SLet, Pattern: IdentPattern("x"), Init: exprLit()},
		{Tag: SAssign, LHS: exprIdent("x"), RHS: exprBin("+", exprIdent("x"), exprLit())},
		{Tag: SExprStmt, Expr: exprIdent("x")},
	}
	cfg := Lower(body)
	cfg.Validate()
	assert.Len(t, cfg.Blocks, 1)
	assert.Len(t, cfg.Blocks[0].Statements, 3)
	assert.Equal(t, ir.StmtDeclare, cfg.Blocks[0].Statements[0].Kind)
	assert.Equal(t, ir.StmtAssign, cfg.Blocks[0].Statements[1].Kind)
}

// Scenario: { let x = 1; let y = x; }
func TestLowerChainedDeclare(t *testing.T) {
	body := []Stmt{
		{Tag: SLet, Pattern: IdentPattern("x"), Init: exprLit()},
		{Tag: SLet, Pattern: IdentPattern("y"), Init: exprIdent("x")},
	}
	cfg := Lower(body)
	cfg.Validate()
	assert.Len(t, cfg.Blocks, 1)
	stmts := cfg.Blocks[0].Statements
	assert.Equal(t, "x", cfg.Names[stmts[0].Target.NameID])
	assert.Equal(t, ir.RUse, stmts[1].Init.Kind)
}

// Scenario: { let x = 1; return x; }
func TestLowerReturnUsesVariable(t *testing.T) {
	body := []Stmt{
		{Tag: SLet, Pattern: IdentPattern("x"), Init: exprLit()},
		{Tag: SReturn, Value: exprIdent("x")},
	}
	cfg := Lower(body)
	cfg.Validate()
	last := cfg.Blocks[0]
	assert.Equal(t, ir.TReturn, last.Terminator.Kind)
	assert.NotNil(t, last.Terminator.Value)
	assert.Equal(t, "x", cfg.Names[last.Terminator.Value.NameID])
}

func TestLowerIfElseJoinsControlFlow(t *testing.T) {
	body := []Stmt{
		{Tag: SIf, Cond: exprIdent("cond"),
			Then: []Stmt{{Tag: SExprStmt, Expr: exprIdent("a")}},
			Else: []Stmt{{Tag: SExprStmt, Expr: exprIdent("b")}},
		},
		{Tag: SExprStmt, Expr: exprIdent("c")},
	}
	cfg := Lower(body)
	cfg.Validate()
	// entry(branch) + then + else + join = 4 blocks
	assert.Len(t, cfg.Blocks, 4)
	entry := cfg.Blocks[0]
	assert.Equal(t, ir.TBranch, entry.Terminator.Kind)
	assert.NotEqual(t, entry.Terminator.Then, entry.Terminator.Else)
}

func TestLowerIfWithoutElseSkipsDedicatedElseBlock(t *testing.T) {
	body := []Stmt{
		{Tag: SIf, Cond: exprIdent("cond"),
			Then: []Stmt{{Tag: SExprStmt, Expr: exprIdent("a")}},
		},
	}
	cfg := Lower(body)
	cfg.Validate()
	entry := cfg.Blocks[0]
	// No else arm: else-target and join collapse onto the same block, and no
	// dedicated else block is allocated (entry(branch) + then + join = 3).
	assert.Len(t, cfg.Blocks, 3)
	assert.Equal(t, entry.Terminator.Else, cfg.Blocks[2].ID)
}

func TestLowerWhileLoopsBackToHead(t *testing.T) {
	body := []Stmt{
		{Tag: SWhile, Cond: exprIdent("cond"), Body: []Stmt{
			{Tag: SExprStmt, Expr: exprIdent("a")},
		}},
	}
	cfg := Lower(body)
	cfg.Validate()
	// entry(goto head) + head(branch) + body(goto head) + exit = 4 blocks
	assert.Len(t, cfg.Blocks, 4)
	head := cfg.Blocks[1]
	assert.Equal(t, ir.TBranch, head.Terminator.Kind)
	body0 := cfg.Blocks[2]
	assert.Equal(t, ir.TGoto, body0.Terminator.Kind)
	assert.Equal(t, head.ID, body0.Terminator.Target)
}

func TestLowerMatchCreatesArmsAndJoin(t *testing.T) {
	body := []Stmt{
		{Tag: SMatch, Scrutinee: exprIdent("x"), Arms: []MatchArm{
			{Pattern: IdentPattern("a"), Body: []Stmt{{Tag: SExprStmt, Expr: exprIdent("a")}}},
			{Pattern: Pattern{Tag: PWildcard}, Body: []Stmt{{Tag: SExprStmt, Expr: exprLit()}}},
		}},
	}
	cfg := Lower(body)
	cfg.Validate()
	entry := cfg.Blocks[0]
	assert.Equal(t, ir.TMatch, entry.Terminator.Kind)
	assert.Len(t, entry.Terminator.Arms, 2)
	for _, arm := range entry.Terminator.Arms {
		armBlk := cfg.Block(arm.Block)
		assert.Equal(t, ir.TGoto, armBlk.Terminator.Kind)
		assert.Equal(t, entry.Terminator.Join, armBlk.Terminator.Target)
	}
}

func TestLowerMatchPositionalDestructuring(t *testing.T) {
	body := []Stmt{
		{Tag: SMatch, Scrutinee: exprIdent("pair"), Arms: []MatchArm{
			{Pattern: Pattern{Tag: PTuple, Subs: []Pattern{IdentPattern("a"), IdentPattern("b")}},
				Body: []Stmt{{Tag: SExprStmt, Expr: exprIdent("a")}}},
		}},
	}
	cfg := Lower(body)
	cfg.Validate()
	armBlk := cfg.Block(cfg.Blocks[0].Terminator.Arms[0].Block)
	assert.Len(t, armBlk.Statements, 2)
	assert.Equal(t, ir.RUse, armBlk.Statements[0].Init.Kind)
	assert.Equal(t, ir.RFieldAccess, armBlk.Statements[1].Init.Kind)
	assert.Equal(t, "1", armBlk.Statements[1].Init.Field)
}

func TestClosureCaptureByRef(t *testing.T) {
	body := []Stmt{
		{Tag: SLet, Pattern: IdentPattern("total"), Init: exprLit()},
		{Tag: SExprStmt, Expr: &Expr{Tag: EClosure, Params: nil, ClosureBody: []Stmt{
			{Tag: SExprStmt, Expr: exprIdent("total")},
		}}},
	}
	cfg := Lower(body)
	cfg.Validate()
	assert.Len(t, cfg.Captures, 1)
	assert.Equal(t, ir.ByRef, cfg.Captures[0].Mode)
}

func TestClosureCaptureByMutRefWhenAssignedInside(t *testing.T) {
	body := []Stmt{
		{Tag: SLet, Pattern: IdentPattern("total"), Init: exprLit()},
		{Tag: SExprStmt, Expr: &Expr{Tag: EClosure, ClosureBody: []Stmt{
			{Tag: SAssign, LHS: exprIdent("total"), RHS: exprLit()},
		}}},
	}
	cfg := Lower(body)
	cfg.Validate()
	assert.Len(t, cfg.Captures, 1)
	assert.True(t, cfg.Captures[0].IsMutated)
	assert.Equal(t, ir.ByMutRef, cfg.Captures[0].Mode)
}

func TestFinalizationClosesDanglingBlockWithBareReturn(t *testing.T) {
	body := []Stmt{
		{Tag: SLet, Pattern: IdentPattern("x"), Init: exprLit()},
	}
	cfg := Lower(body)
	cfg.Validate()
	last := cfg.Blocks[len(cfg.Blocks)-1]
	assert.Equal(t, ir.TReturn, last.Terminator.Kind)
	assert.Nil(t, last.Terminator.Value)
}

// --- helpers ---

func exprIdent(name string) *Expr {
	e := Ident(name)
	return &e
}

func exprLit() *Expr {
	e := Literal()
	return &e
}

func exprBin(op string, l, r *Expr) *Expr {
	return &Expr{Tag: EBinary, Op: op, Left: l, Right: r}
}
