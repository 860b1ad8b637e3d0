package smells

import (
	"sort"
	"strconv"

	"github.com/viant/debtmap/internal/antipattern"
	"github.com/viant/debtmap/internal/cfgbuild"
	"github.com/viant/debtmap/internal/debt"
)

var allowedMagicNumbers = map[float64]bool{0: true, 1: true, -1: true, 2: true}

// DetectMagicValue flags numeric literals used directly in a comparison
// that aren't one of the small set of self-explanatory values (0, 1, -1, 2).
func DetectMagicValue(fn antipattern.FunctionInfo) []debt.Item {
	seen := map[string]int{}

	var walkStmts func(stmts []cfgbuild.Stmt)
	var walkExpr func(e *cfgbuild.Expr, inComparison bool)

	record := func(v float64, line int) {
		key := strconv.FormatFloat(v, 'g', -1, 64)
		if _, ok := seen[key]; !ok {
			seen[key] = line
		}
	}

	walkExpr = func(e *cfgbuild.Expr, inComparison bool) {
		if e == nil {
			return
		}
		switch e.Tag {
		case cfgbuild.EBinary:
			isCmp := e.Op == "==" || e.Op == "!=" || e.Op == "<" || e.Op == ">" || e.Op == "<=" || e.Op == ">="
			walkExpr(e.Left, isCmp)
			walkExpr(e.Right, isCmp)
		case cfgbuild.ELiteral:
			if inComparison && e.IsNumericLiteral && !allowedMagicNumbers[e.NumValue] {
				record(e.NumValue, fn.Line)
			}
		case cfgbuild.ECall:
			for i := range e.Args {
				walkExpr(&e.Args[i], false)
			}
		case cfgbuild.EMethodCall:
			walkExpr(e.Receiver, false)
			for i := range e.Args {
				walkExpr(&e.Args[i], false)
			}
		case cfgbuild.EClosure:
			walkStmts(e.ClosureBody)
		}
	}
	walkStmts = func(stmts []cfgbuild.Stmt) {
		for _, s := range stmts {
			switch s.Tag {
			case cfgbuild.SIf:
				walkExpr(s.Cond, false)
				walkStmts(s.Then)
				walkStmts(s.Else)
			case cfgbuild.SWhile:
				walkExpr(s.Cond, false)
				walkStmts(s.Body)
			case cfgbuild.SReturn:
				walkExpr(s.Value, false)
			case cfgbuild.SLet:
				walkExpr(s.Init, false)
			case cfgbuild.SAssign:
				walkExpr(s.RHS, false)
			case cfgbuild.SMatch:
				for _, arm := range s.Arms {
					walkStmts(arm.Body)
				}
			case cfgbuild.SExprStmt:
				walkExpr(s.Expr, false)
			}
		}
	}
	walkStmts(fn.Body)

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]debt.Item, 0, len(keys))
	for _, k := range keys {
		items = append(items, smellItem("magic-value", fn.File, seen[k], debt.Low,
			"magic value "+k+" used directly in a comparison in '"+fn.Name+"'", nil))
	}
	return items
}

const primitiveObsessionParamThreshold = 3

var primitiveTypeNames = map[string]bool{
	"string": true, "str": true, "int": true, "i32": true, "i64": true,
	"u32": true, "u64": true, "f32": true, "f64": true, "bool": true,
}

// DetectPrimitiveObsession flags a function with more than
// primitiveObsessionParamThreshold primitive-typed parameters (an absolute
// count, not a share of the list) — a sign the parameters should be grouped
// into a dedicated type. Requires front-end-supplied param types; returns
// nothing when paramTypes is empty (type information unavailable).
func DetectPrimitiveObsession(fn antipattern.FunctionInfo, paramTypes []string) []debt.Item {
	if len(paramTypes) == 0 {
		return nil
	}
	primitiveCount := 0
	for _, t := range paramTypes {
		if primitiveTypeNames[t] {
			primitiveCount++
		}
	}
	if primitiveCount <= primitiveObsessionParamThreshold {
		return nil
	}
	return []debt.Item{smellItem("primitive-obsession", fn.File, fn.Line, debt.Medium,
		"function '"+fn.Name+"' takes "+strconv.Itoa(primitiveCount)+" primitive parameters; consider a dedicated type", nil)}
}

const structInitFieldThreshold = 15
const structInitRatioThreshold = 0.70
const structInitMaxNesting = 4

var structInitNameHints = []string{"Args", "Config", "Options"}

// DetectStructInitializationPattern reclassifies a function that returns a
// struct literal with >= 15 named fields, a high initialization-to-total line
// ratio, and low nesting as a constructor rather than a complex function,
// replacing the cyclomatic score with a field-based one.
func DetectStructInitializationPattern(fn antipattern.FunctionInfo) (fieldCount int, confidence float64, isConstructor bool) {
	lit := findReturnedStructLiteral(fn.Body)
	if lit == nil {
		return 0, 0, false
	}
	fieldCount = len(lit.StructFields)
	if fieldCount < structInitFieldThreshold {
		return fieldCount, 0, false
	}
	if fn.Nesting > structInitMaxNesting {
		return fieldCount, 0, false
	}
	initRatio := 1.0
	if fn.Length > 0 {
		initRatio = float64(fieldCount) / float64(fn.Length)
		if initRatio > 1 {
			initRatio = 1
		}
	}
	if initRatio < structInitRatioThreshold {
		return fieldCount, 0, false
	}

	confidence = 0.4*initRatio + 0.3*ratioCap(float64(fieldCount)/30.0) + 0.2 + 0.1*nameHintScore(lit.Name)
	return fieldCount, confidence, true
}

func ratioCap(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

func nameHintScore(structName string) float64 {
	for _, hint := range structInitNameHints {
		if len(structName) >= len(hint) && structName[len(structName)-len(hint):] == hint {
			return 1
		}
	}
	return 0
}

func findReturnedStructLiteral(body []cfgbuild.Stmt) *cfgbuild.Expr {
	for _, s := range body {
		if s.Tag == cfgbuild.SReturn && s.Value != nil && s.Value.Tag == cfgbuild.EStructLit {
			return s.Value
		}
	}
	return nil
}

// DetectDuplicateStringLiteral is a SPEC_FULL supplement: flags a string
// literal repeated three or more times across a function body (a sign it
// should be hoisted to a named constant).
func DetectDuplicateStringLiteral(fn antipattern.FunctionInfo) []debt.Item {
	counts := map[string]int{}

	var walkStmts func(stmts []cfgbuild.Stmt)
	var walkExpr func(e *cfgbuild.Expr)
	walkExpr = func(e *cfgbuild.Expr) {
		if e == nil {
			return
		}
		if e.Tag == cfgbuild.ELiteral && e.IsStringLiteral && e.StrValue != "" {
			counts[e.StrValue]++
		}
		switch e.Tag {
		case cfgbuild.ECall:
			for i := range e.Args {
				walkExpr(&e.Args[i])
			}
		case cfgbuild.EMethodCall:
			walkExpr(e.Receiver)
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
	walkStmts(fn.Body)

	literals := make([]string, 0, len(counts))
	for lit := range counts {
		literals = append(literals, lit)
	}
	sort.Strings(literals)

	var items []debt.Item
	for _, lit := range literals {
		if counts[lit] >= 3 {
			items = append(items, smellItem("duplicate-string-literal", fn.File, fn.Line, debt.Low,
				"string literal \""+lit+"\" repeated "+strconv.Itoa(counts[lit])+" times in '"+fn.Name+"'", nil))
		}
	}
	return items
}

// DetectBooleanParameterTrap is a SPEC_FULL supplement: flags a function with
// two or more boolean-typed parameters, which invites call-site ambiguity
// (`doThing(true, false)`). Requires front-end-supplied param types.
func DetectBooleanParameterTrap(fn antipattern.FunctionInfo, paramTypes []string) []debt.Item {
	boolCount := 0
	for _, t := range paramTypes {
		if t == "bool" {
			boolCount++
		}
	}
	if boolCount < 2 {
		return nil
	}
	return []debt.Item{smellItem("boolean-parameter-trap", fn.File, fn.Line, debt.Low,
		"function '"+fn.Name+"' takes "+strconv.Itoa(boolCount)+" boolean parameters", nil)}
}
