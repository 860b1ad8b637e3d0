package cfgbuild

import "github.com/viant/debtmap/internal/ir"

// exprToRvalueForInit converts an initializer/source expression into an ir.Rvalue.
// A closure appearing here has no Rvalue representation (§3 lists no Closure
// variant for Rvalue), so it is hoisted out as its own Statement::Expr and the
// rvalue degrades to ir.Constant(), matching §7 class-2 soft-failure handling for
// unrepresentable shapes.
func (b *builder) exprToRvalueForInit(e *Expr, line uint32) ir.Rvalue {
	if e == nil {
		return ir.Constant()
	}
	switch e.Tag {
	case EIdent:
		return ir.Use(b.varFor(e.Name))
	case EBinary:
		left := b.exprToRvalueForInit(e.Left, line)
		right := b.exprToRvalueForInit(e.Right, line)
		return ir.BinaryOp(e.Op, left, right)
	case EUnary:
		operand := b.exprToRvalueForInit(e.Operand, line)
		return ir.UnaryOp(e.Op, operand)
	case EField:
		base := b.exprToRvalueForInit(e.Base, line)
		return ir.FieldAccess(base, e.Field)
	case EIndex:
		base := b.exprToRvalueForInit(e.Base, line)
		return ir.Index(base)
	case ERef:
		v := b.primaryVar(e.RefTarget)
		return ir.Ref(v, e.RefMutable)
	case ECall:
		args := make([]ir.Rvalue, 0, len(e.Args))
		for i := range e.Args {
			b.collectNestedClosures(e.Args[i], line)
			args = append(args, b.exprToRvalueForInit(&e.Args[i], line))
		}
		return ir.Call(e.FuncName, args...)
	case EMethodCall:
		// No dedicated Rvalue shape for method calls; model as a Call whose
		// function name carries the method, receiver prepended to args, so
		// reaching-defs still sees every operand as a use.
		args := make([]ir.Rvalue, 0, len(e.Args)+1)
		if e.Receiver != nil {
			b.collectNestedClosures(*e.Receiver, line)
			args = append(args, b.exprToRvalueForInit(e.Receiver, line))
		}
		for i := range e.Args {
			b.collectNestedClosures(e.Args[i], line)
			args = append(args, b.exprToRvalueForInit(&e.Args[i], line))
		}
		return ir.Call(e.Method, args...)
	case EClosure:
		captures := b.captureClosure(*e)
		b.cfg.Captures = append(b.cfg.Captures, captures...)
		b.emit(ir.ExprStmt(ir.Closure(captures, e.IsMove), lineOf(line)))
		return ir.Constant()
	case ELiteral:
		return ir.Constant()
	default:
		return ir.Constant()
	}
}

// primaryVar returns the first identifier found in a left-to-right pre-order walk
// of e, or a fresh `_unknown` temp if none is found (§4.1 "primary_var").
func (b *builder) primaryVar(e *Expr) ir.VariableId {
	if e == nil {
		return b.synthVar("_unknown")
	}
	if name, ok := firstIdent(e); ok {
		return b.varFor(name)
	}
	return b.synthVar("_unknown")
}

// primaryVarOrTemp returns e's variable when e is a plain identifier, otherwise
// the first identifier found inside e; only when e contains no identifier does
// it synthesize a temp of the given prefix. It never emits a
// defining statement — used for branch/loop conditions, which are referenced by a
// VariableId without needing to be materialized.
func (b *builder) primaryVarOrTemp(e *Expr, prefix string) ir.VariableId {
	if e != nil && e.Tag == EIdent {
		return b.varFor(e.Name)
	}
	if name, ok := firstIdent(e); ok {
		return b.varFor(name)
	}
	return b.synthVar(prefix)
}

// primaryVarOrTempAssign mirrors §4.1's "guard emitted as either a direct
// variable use or an assignment to a _guard temp": when the guard is already a
// plain identifier it is used directly, otherwise its value is materialized via
// an Assign to a synthesized temp.
func (b *builder) primaryVarOrTempAssign(e Expr, prefix string, line uint32) ir.VariableId {
	if e.Tag == EIdent {
		return b.varFor(e.Name)
	}
	temp := b.synthVar(prefix)
	rv := b.exprToRvalueForInit(&e, line)
	b.emit(ir.Assign(temp, rv, lineOf(line)))
	return temp
}

// firstIdent performs a pre-order walk for the first EIdent leaf.
func firstIdent(e *Expr) (string, bool) {
	if e == nil {
		return "", false
	}
	switch e.Tag {
	case EIdent:
		return e.Name, true
	case EBinary:
		if n, ok := firstIdent(e.Left); ok {
			return n, true
		}
		return firstIdent(e.Right)
	case EUnary:
		return firstIdent(e.Operand)
	case EField, EIndex:
		return firstIdent(e.Base)
	case ERef:
		return firstIdent(e.RefTarget)
	case ECall:
		for i := range e.Args {
			if n, ok := firstIdent(&e.Args[i]); ok {
				return n, true
			}
		}
		return "", false
	case EMethodCall:
		if n, ok := firstIdent(e.Receiver); ok {
			return n, true
		}
		for i := range e.Args {
			if n, ok := firstIdent(&e.Args[i]); ok {
				return n, true
			}
		}
		return "", false
	default:
		return "", false
	}
}
