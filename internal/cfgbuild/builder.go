package cfgbuild

import (
	"strconv"

	"github.com/viant/debtmap/internal/ir"
)

// builder lowers a Stmt slice into an ir.ControlFlowGraph, per §4.1. It never
// fails: unknown expression shapes degrade to ir.Constant()/ir.Other() rather than
// returning an error (spec §7 class 2 — analysis-internal soft failures).
type builder struct {
	cfg *ir.ControlFlowGraph

	nameIDs    map[string]uint32
	nextNameID uint32

	nextBlockID ir.BlockId
	cur         *ir.BasicBlock
	terminated  bool

	synthCounter int
}

// Lower builds a CFG from a function body's statement list. The returned CFG has
// already been Finalize()'d and is ready for Validate()/dataflow consumption.
func Lower(body []Stmt) *ir.ControlFlowGraph {
	b := &builder{
		cfg:     ir.NewControlFlowGraph(),
		nameIDs: map[string]uint32{},
	}
	entry := b.cfg.AddBlock(b.allocBlock())
	b.cur = entry
	b.lowerStmts(body)
	b.finish()
	b.cfg.Finalize()
	return b.cfg
}

func (b *builder) allocBlock() ir.BlockId {
	id := b.nextBlockID
	b.nextBlockID++
	return id
}

func (b *builder) newBlock() *ir.BasicBlock {
	return b.cfg.AddBlock(b.allocBlock())
}

// finish closes a dangling non-terminated current block with a bare Return, per
// §4.1 "Finalization".
func (b *builder) finish() {
	if !b.terminated {
		b.cur.Terminator = ir.Return(nil)
		b.terminated = true
	}
}

func (b *builder) closeCurrent(term ir.Terminator) {
	b.cur.Terminator = term
	b.terminated = true
}

func (b *builder) setCurrent(blk *ir.BasicBlock) {
	b.cur = blk
	b.terminated = false
}

func (b *builder) emit(s ir.Statement) {
	b.cur.Statements = append(b.cur.Statements, s)
}

func (b *builder) internName(name string) uint32 {
	if id, ok := b.nameIDs[name]; ok {
		return id
	}
	id := b.nextNameID
	b.nextNameID++
	b.nameIDs[name] = id
	b.cfg.Names[id] = name
	return id
}

func (b *builder) varFor(name string) ir.VariableId {
	return ir.VariableId{NameID: b.internName(name), Version: 0}
}

func (b *builder) synthVar(prefix string) ir.VariableId {
	b.synthCounter++
	return b.varFor(prefix + strconv.Itoa(b.synthCounter))
}

func lineOf(l uint32) *uint32 {
	if l == 0 {
		return nil
	}
	v := l
	return &v
}

// declareVar allocates a VariableId for a freshly-bound name at version 0 — SSA
// renaming is deferred, per §4.1 ("Variable interning").
func (b *builder) declareVar(name string) ir.VariableId {
	return b.varFor(name)
}

// lowerStmts lowers a statement list in order into the current block. It does
// not stop when a nested construct closes the current block with a
// terminator: the remaining statements are lowered into whichever fresh block
// is current after that construct.
func (b *builder) lowerStmts(stmts []Stmt) {
	for _, s := range stmts {
		b.lowerStmt(s)
	}
}

func (b *builder) lowerStmt(s Stmt) {
	switch s.Tag {
	case SLet:
		b.lowerLet(s)
	case SAssign:
		b.lowerAssign(s)
	case SIf:
		b.lowerIf(s)
	case SWhile:
		b.lowerWhile(s)
	case SReturn:
		b.lowerReturn(s)
	case SMatch:
		b.lowerMatch(s)
	case SExprStmt:
		b.lowerExprStmt(s)
	}
}

func (b *builder) lowerLet(s Stmt) {
	names := s.Pattern.Bindings()
	if len(names) == 0 {
		// Wildcard/literal/rest/range/path pattern: no binding, but the
		// initializer may still have side effects (e.g. a closure) that must
		// be recorded.
		if s.Init != nil {
			b.evalForSideEffects(*s.Init, s.Line)
		}
		return
	}
	initRvalue := b.exprToRvalueForInit(s.Init, s.Line)
	for i, name := range names {
		v := b.declareVar(name)
		var init *ir.Rvalue
		if i == 0 {
			iv := initRvalue
			init = &iv
		} else {
			fa := ir.FieldAccess(initRvalue, strconv.Itoa(i))
			init = &fa
		}
		b.emit(ir.Declare(v, init, lineOf(s.Line)))
	}
}

func (b *builder) lowerAssign(s Stmt) {
	target := b.primaryVar(s.LHS)
	src := b.exprToRvalueForInit(s.RHS, s.Line)
	b.emit(ir.Assign(target, src, lineOf(s.Line)))
}

func (b *builder) lowerIf(s Stmt) {
	cond := b.primaryVarOrTemp(s.Cond, "_cond")
	thenID := b.allocBlock()
	var elseID ir.BlockId
	hasElse := s.Else != nil
	if hasElse {
		elseID = b.allocBlock()
	}
	joinID := b.allocBlock()
	if !hasElse {
		elseID = joinID
	}
	b.closeCurrent(ir.Branch(cond, thenID, elseID))

	thenBlk := b.cfg.AddBlock(thenID)
	b.setCurrent(thenBlk)
	b.lowerStmts(s.Then)
	if !b.terminated {
		b.closeCurrent(ir.Goto(joinID))
	}

	if hasElse {
		elseBlk := b.cfg.AddBlock(elseID)
		b.setCurrent(elseBlk)
		b.lowerStmts(s.Else)
		if !b.terminated {
			b.closeCurrent(ir.Goto(joinID))
		}
	}

	joinBlk := b.cfg.AddBlock(joinID)
	b.setCurrent(joinBlk)
}

func (b *builder) lowerWhile(s Stmt) {
	headID := b.allocBlock()
	b.closeCurrent(ir.Goto(headID))

	headBlk := b.cfg.AddBlock(headID)
	b.setCurrent(headBlk)
	cond := b.primaryVarOrTemp(s.Cond, "_cond")
	bodyID := b.allocBlock()
	exitID := b.allocBlock()
	b.closeCurrent(ir.Branch(cond, bodyID, exitID))

	bodyBlk := b.cfg.AddBlock(bodyID)
	b.setCurrent(bodyBlk)
	b.lowerStmts(s.Body)
	if !b.terminated {
		b.closeCurrent(ir.Goto(headID))
	}

	exitBlk := b.cfg.AddBlock(exitID)
	b.setCurrent(exitBlk)
}

func (b *builder) lowerReturn(s Stmt) {
	var value *ir.VariableId
	if s.Value != nil {
		v := b.primaryVar(s.Value)
		value = &v
	}
	b.closeCurrent(ir.Return(value))
	// Subsequent statements at this nesting level (if any) are unreachable;
	// give them somewhere to land rather than panicking.
	blk := b.newBlock()
	b.setCurrent(blk)
}

func (b *builder) lowerMatch(s Stmt) {
	scrutinee := b.scrutineeVar(s.Scrutinee, s.Line)

	armIDs := make([]ir.BlockId, len(s.Arms))
	for i := range s.Arms {
		armIDs[i] = b.allocBlock()
	}
	joinID := b.allocBlock()

	arms := make([]ir.MatchArm, len(s.Arms))
	for i, arm := range s.Arms {
		bindings := arm.Pattern.Bindings()
		varBindings := make([]ir.VariableId, len(bindings))
		for j, name := range bindings {
			varBindings[j] = b.varFor(name)
		}
		var guardVar *ir.VariableId
		if arm.Guard != nil {
			gv := b.primaryVarOrTempAssign(*arm.Guard, "_guard", s.Line)
			guardVar = &gv
		}
		arms[i] = ir.MatchArm{Block: armIDs[i], Guard: guardVar, Bindings: varBindings}
	}

	b.closeCurrent(ir.Match(scrutinee, arms, joinID))

	for i, arm := range s.Arms {
		blk := b.cfg.AddBlock(armIDs[i])
		b.setCurrent(blk)
		bindings := arm.Pattern.Bindings()
		for j, name := range bindings {
			v := b.varFor(name)
			var init ir.Rvalue
			if j == 0 {
				init = ir.Use(scrutinee)
			} else {
				init = ir.FieldAccess(ir.Use(scrutinee), strconv.Itoa(j))
			}
			b.emit(ir.Declare(v, &init, lineOf(s.Line)))
		}
		b.lowerStmts(arm.Body)
		if !b.terminated {
			b.closeCurrent(ir.Goto(joinID))
		}
	}

	joinBlk := b.cfg.AddBlock(joinID)
	b.setCurrent(joinBlk)
}

// scrutineeVar returns the match scrutinee's VariableId, synthesizing a `_scrutinee`
// temp (materialized via an Assign) when the scrutinee is not itself a plain
// identifier.
func (b *builder) scrutineeVar(e *Expr, line uint32) ir.VariableId {
	if e != nil && e.Tag == EIdent {
		return b.varFor(e.Name)
	}
	temp := b.synthVar("_scrutinee")
	var rv ir.Rvalue
	if e != nil {
		rv = b.exprToRvalueForInit(e, line)
	} else {
		rv = ir.Constant()
	}
	b.emit(ir.Declare(temp, &rv, lineOf(line)))
	return temp
}

func (b *builder) lowerExprStmt(s Stmt) {
	if s.Expr == nil {
		return
	}
	b.evalForSideEffects(*s.Expr, s.Line)
}

// evalForSideEffects lowers a statement-level expression (one with no assignment
// target) into a Statement::Expr, recursing into receivers/arguments to surface
// any nested closures first, per §4.1's "Method/function call as a statement" and
// §4.1.1.
func (b *builder) evalForSideEffects(e Expr, line uint32) {
	switch e.Tag {
	case EMethodCall:
		if e.Receiver != nil {
			b.collectNestedClosures(*e.Receiver, line)
		}
		rargs := make([]ir.Rvalue, 0, len(e.Args))
		for _, a := range e.Args {
			b.collectNestedClosures(a, line)
			rargs = append(rargs, b.exprToRvalueForInit(&a, line))
		}
		var recv *ir.Rvalue
		if e.Receiver != nil {
			rv := b.exprToRvalueForInit(e.Receiver, line)
			recv = &rv
		}
		ek := ir.ExprKind{Tag: ir.EMethodCall, Receiver: recv, Method: e.Method, Args: rargs}
		b.emit(ir.ExprStmt(ek, lineOf(line)))
	case ECall:
		// A bare function call at statement position is modeled as a
		// MethodCall with no receiver so its argument uses are still
		// collected by dataflow (§4.2).
		rargs := make([]ir.Rvalue, 0, len(e.Args))
		for _, a := range e.Args {
			b.collectNestedClosures(a, line)
			rargs = append(rargs, b.exprToRvalueForInit(&a, line))
		}
		ek := ir.ExprKind{Tag: ir.EMethodCall, Method: e.FuncName, Args: rargs}
		b.emit(ir.ExprStmt(ek, lineOf(line)))
	case EClosure:
		captures := b.captureClosure(e)
		b.cfg.Captures = append(b.cfg.Captures, captures...)
		ek := ir.Closure(captures, e.IsMove)
		b.emit(ir.ExprStmt(ek, lineOf(line)))
	default:
		b.emit(ir.ExprStmt(ir.Other(), lineOf(line)))
	}
}

// collectNestedClosures walks an argument/receiver expression tree for closures,
// recording their captures even though the expression itself is ultimately
// lowered to an Rvalue (which has no Closure variant).
func (b *builder) collectNestedClosures(e Expr, line uint32) {
	switch e.Tag {
	case EClosure:
		captures := b.captureClosure(e)
		b.cfg.Captures = append(b.cfg.Captures, captures...)
		b.emit(ir.ExprStmt(ir.Closure(captures, e.IsMove), lineOf(line)))
	case EBinary:
		if e.Left != nil {
			b.collectNestedClosures(*e.Left, line)
		}
		if e.Right != nil {
			b.collectNestedClosures(*e.Right, line)
		}
	case EUnary:
		if e.Operand != nil {
			b.collectNestedClosures(*e.Operand, line)
		}
	case EField, EIndex:
		if e.Base != nil {
			b.collectNestedClosures(*e.Base, line)
		}
	case ECall:
		for _, a := range e.Args {
			b.collectNestedClosures(a, line)
		}
	case EMethodCall:
		if e.Receiver != nil {
			b.collectNestedClosures(*e.Receiver, line)
		}
		for _, a := range e.Args {
			b.collectNestedClosures(a, line)
		}
	}
}
