// Package panicdetect implements §4.5.1: unwrap/expect/panic-macro recognition,
// with a priority downgrade inside test functions and modules, grounded on
// original_source/src/debt/panic_patterns.rs (determine_priority, check_unwrap_patterns,
// check_panic_macros) and side_effect_analyzer.go's independent-detector-function shape.
package panicdetect

import (
	"strings"

	"github.com/viant/debtmap/internal/antipattern"
	"github.com/viant/debtmap/internal/cfgbuild"
	"github.com/viant/debtmap/internal/debt"
)

// PatternKind classifies one recognized panic-risking call, mirroring the
// original's PanicPattern enum.
type PatternKind string

const (
	UnwrapOnResult         PatternKind = "unwrap-on-result"
	UnwrapOnOption         PatternKind = "unwrap-on-option"
	ExpectGenericMessage   PatternKind = "expect-generic-message"
	PanicInNonTest         PatternKind = "panic-in-non-test"
	UnreachableInReachable PatternKind = "unreachable-in-reachable"
	TodoInProduction       PatternKind = "todo-in-production"
)

// genericExpectMessages are exact-match generic strings; anything shorter
// than the length threshold is also considered generic regardless of text.
var genericExpectMessages = map[string]bool{
	"failed": true, "error": true, "should not happen": true,
}

const genericMessageLengthThreshold = 10

var macroKinds = map[string]PatternKind{
	"panic":         PanicInNonTest,
	"unreachable":   UnreachableInReachable,
	"todo":          TodoInProduction,
	"unimplemented": TodoInProduction,
}

func basePriority(kind PatternKind) debt.Priority {
	switch kind {
	case UnwrapOnResult, UnwrapOnOption, UnreachableInReachable:
		return debt.High
	case ExpectGenericMessage, TodoInProduction:
		return debt.Medium
	case PanicInNonTest:
		return debt.Critical
	default:
		return debt.Medium
	}
}

// Detect walks fn.Body and returns a debt item for every recognized
// unwrap/expect/panic-macro call. Test-context calls are downgraded to Low
// regardless of kind, per §4.5.1.
func Detect(fn antipattern.FunctionInfo) []debt.Item {
	var items []debt.Item
	inTest := fn.IsTestFunction || fn.InTestModule

	var walkStmts func(stmts []cfgbuild.Stmt, line int)
	var walkExpr func(e *cfgbuild.Expr, line int)

	emit := func(kind PatternKind, line int, confidence string, receiverHint string) {
		priority := debt.Low
		if !inTest {
			priority = basePriority(kind)
		}
		ctx := map[string]string{"pattern": string(kind), "confidence": confidence}
		if receiverHint != "" {
			ctx["receiver"] = receiverHint
		}
		items = append(items, debt.Item{
			ID:       debt.NewID("panic-pattern", debt.ErrorSwallowing, fn.File, line),
			Kind:     debt.ErrorSwallowing,
			Priority: priority,
			File:     fn.File,
			Line:     line,
			Message:  string(kind) + " in " + fn.Name,
			Context:  ctx,
		})
	}

	walkExpr = func(e *cfgbuild.Expr, line int) {
		if e == nil {
			return
		}
		switch e.Tag {
		case cfgbuild.EMethodCall:
			switch e.Method {
			case "unwrap":
				emit(receiverKind(e.Receiver), line, "high", receiverHint(e.Receiver))
			case "expect":
				if isGenericExpect(e.Args) {
					emit(ExpectGenericMessage, line, "medium", receiverHint(e.Receiver))
				}
			}
			walkExpr(e.Receiver, line)
			for i := range e.Args {
				walkExpr(&e.Args[i], line)
			}
		case cfgbuild.ECall:
			if kind, ok := macroKinds[strings.ToLower(e.FuncName)]; ok {
				emit(kind, line, "high", "")
			}
			for i := range e.Args {
				walkExpr(&e.Args[i], line)
			}
		case cfgbuild.EBinary:
			walkExpr(e.Left, line)
			walkExpr(e.Right, line)
		case cfgbuild.EUnary:
			walkExpr(e.Operand, line)
		case cfgbuild.EField, cfgbuild.EIndex:
			walkExpr(e.Base, line)
		case cfgbuild.ERef:
			walkExpr(e.RefTarget, line)
		case cfgbuild.EClosure:
			walkStmts(e.ClosureBody, line)
		}
	}

	walkStmts = func(stmts []cfgbuild.Stmt, line int) {
		for _, s := range stmts {
			l := line
			if s.Line != 0 {
				l = int(s.Line)
			}
			switch s.Tag {
			case cfgbuild.SLet:
				walkExpr(s.Init, l)
			case cfgbuild.SAssign:
				walkExpr(s.LHS, l)
				walkExpr(s.RHS, l)
			case cfgbuild.SIf:
				walkExpr(s.Cond, l)
				walkStmts(s.Then, l)
				walkStmts(s.Else, l)
			case cfgbuild.SWhile:
				walkExpr(s.Cond, l)
				walkStmts(s.Body, l)
			case cfgbuild.SReturn:
				walkExpr(s.Value, l)
			case cfgbuild.SMatch:
				walkExpr(s.Scrutinee, l)
				for _, arm := range s.Arms {
					walkExpr(arm.Guard, l)
					walkStmts(arm.Body, l)
				}
			case cfgbuild.SExprStmt:
				walkExpr(s.Expr, l)
			}
		}
	}
	walkStmts(fn.Body, fn.Line)
	return items
}

// isGenericExpect reports whether expect's sole string-literal argument is
// generic: an exact match against a small table, or simply short.
func isGenericExpect(args []cfgbuild.Expr) bool {
	for i := range args {
		a := &args[i]
		if a.Tag != cfgbuild.ELiteral || !a.IsStringLiteral {
			continue
		}
		if genericExpectMessages[strings.ToLower(a.StrValue)] {
			return true
		}
		if len(a.StrValue) < genericMessageLengthThreshold {
			return true
		}
	}
	return false
}

// receiverKind picks UnwrapOnOption vs UnwrapOnResult from whatever naming
// hint the receiver chain offers; §4.5.1 only asks this be inferred "when
// inferable" — absent a type system, this is a heuristic, not a guarantee.
func receiverKind(receiver *cfgbuild.Expr) PatternKind {
	hint := strings.ToLower(receiverHint(receiver))
	if strings.Contains(hint, "opt") || strings.Contains(hint, "find") || strings.Contains(hint, "get") {
		return UnwrapOnOption
	}
	return UnwrapOnResult
}

func receiverHint(receiver *cfgbuild.Expr) string {
	if receiver == nil {
		return ""
	}
	switch receiver.Tag {
	case cfgbuild.EIdent:
		return receiver.Name
	case cfgbuild.EMethodCall:
		return receiver.Method
	case cfgbuild.ECall:
		return receiver.FuncName
	case cfgbuild.EField:
		return receiver.Field
	default:
		return ""
	}
}
