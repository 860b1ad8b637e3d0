// Package smells implements §4.5.4's structural code smells (long parameter
// list, long method, deep nesting, large module, feature envy, data clumps,
// magic value, primitive obsession, god object, struct-initialization pattern)
// plus the SPEC_FULL-supplemented duplicate-string-literal and
// boolean-parameter-trap smells. Grounded on original_source/src/debt/smells.rs
// for the per-smell threshold/severity shape (CodeSmell → debt item) and
// side_effect_analyzer.go's independent pure-detector-function idiom.
package smells

import (
	"sort"
	"strconv"

	"github.com/viant/debtmap/internal/antipattern"
	"github.com/viant/debtmap/internal/cfgbuild"
	"github.com/viant/debtmap/internal/debt"
)

const (
	longParamThreshold   = 5
	longMethodThreshold  = 50
	deepNestingThreshold = 4
	largeModuleThreshold = 300
	dataClumpLength      = 30
)

func smellItem(prefix, file string, line int, priority debt.Priority, message string, ctx map[string]string) debt.Item {
	return debt.Item{
		ID:       debt.NewID(prefix, debt.CodeSmell, file, line),
		Kind:     debt.CodeSmell,
		Priority: priority,
		File:     file,
		Line:     line,
		Message:  message,
		Context:  ctx,
	}
}

// DetectLongParameterList flags a function with more than 5 parameters
// (Medium), or more than 10 (High).
func DetectLongParameterList(fn antipattern.FunctionInfo) []debt.Item {
	if fn.Params <= longParamThreshold {
		return nil
	}
	priority := debt.Medium
	if fn.Params > longParamThreshold*2 {
		priority = debt.High
	}
	return []debt.Item{smellItem("long-param-list", fn.File, fn.Line, priority,
		"function '"+fn.Name+"' has "+strconv.Itoa(fn.Params)+" parameters", nil)}
}

// DetectLongMethod flags a function over 50 lines (Medium) or 100 (High).
func DetectLongMethod(fn antipattern.FunctionInfo) []debt.Item {
	if fn.Length <= longMethodThreshold {
		return nil
	}
	priority := debt.Medium
	if fn.Length > longMethodThreshold*2 {
		priority = debt.High
	}
	return []debt.Item{smellItem("long-method", fn.File, fn.Line, priority,
		"function '"+fn.Name+"' has "+strconv.Itoa(fn.Length)+" lines", nil)}
}

// DetectDeepNesting flags a function nested deeper than 4 (Medium) or 8 (High).
func DetectDeepNesting(fn antipattern.FunctionInfo) []debt.Item {
	if fn.Nesting <= deepNestingThreshold {
		return nil
	}
	priority := debt.Medium
	if fn.Nesting > deepNestingThreshold*2 {
		priority = debt.High
	}
	return []debt.Item{smellItem("deep-nesting", fn.File, fn.Line, priority,
		"function '"+fn.Name+"' nests "+strconv.Itoa(fn.Nesting)+" levels deep", nil)}
}

// DetectLargeModule flags a file over 300 lines (Medium) or 600 (High).
func DetectLargeModule(file string, lineCount int) []debt.Item {
	if lineCount <= largeModuleThreshold {
		return nil
	}
	priority := debt.Medium
	if lineCount > largeModuleThreshold*2 {
		priority = debt.High
	}
	return []debt.Item{smellItem("large-module", file, 1, priority,
		"module has "+strconv.Itoa(lineCount)+" lines", nil)}
}

// DetectFeatureEnvy counts EMethodCall receivers naming "self" vs any other
// single named receiver; if a receiver draws >= 3 calls and strictly more
// than self, flags feature envy (Medium if > 5 calls, else Low).
func DetectFeatureEnvy(fn antipattern.FunctionInfo) []debt.Item {
	selfCalls := 0
	otherCalls := map[string]int{}

	var walkStmts func(stmts []cfgbuild.Stmt)
	var walkExpr func(e *cfgbuild.Expr)

	walkExpr = func(e *cfgbuild.Expr) {
		if e == nil {
			return
		}
		if e.Tag == cfgbuild.EMethodCall {
			if e.Receiver != nil && e.Receiver.Tag == cfgbuild.EIdent {
				if e.Receiver.Name == "self" {
					selfCalls++
				} else {
					otherCalls[e.Receiver.Name]++
				}
			}
			walkExpr(e.Receiver)
			for i := range e.Args {
				walkExpr(&e.Args[i])
			}
			return
		}
		switch e.Tag {
		case cfgbuild.ECall:
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

	names := make([]string, 0, len(otherCalls))
	for n := range otherCalls {
		names = append(names, n)
	}
	sort.Strings(names)

	var items []debt.Item
	for _, name := range names {
		count := otherCalls[name]
		if count >= 3 && count > selfCalls {
			priority := debt.Low
			if count > 5 {
				priority = debt.Medium
			}
			items = append(items, smellItem("feature-envy", fn.File, fn.Line, priority,
				"possible feature envy: "+strconv.Itoa(count)+" calls to '"+name+"' vs "+strconv.Itoa(selfCalls)+" self calls", nil))
		}
	}
	return items
}

// DetectDataClumps heuristically pairs same-file functions that are both
// over 30 lines, reporting once per function (breaking after the first match).
func DetectDataClumps(fns []antipattern.FunctionInfo) []debt.Item {
	var items []debt.Item
	for i := 0; i < len(fns); i++ {
		for j := i + 1; j < len(fns); j++ {
			if fns[i].File != fns[j].File {
				continue
			}
			if fns[i].Length > dataClumpLength && fns[j].Length > dataClumpLength {
				items = append(items, smellItem("data-clump", fns[i].File, fns[i].Line, debt.Low,
					"functions '"+fns[i].Name+"' and '"+fns[j].Name+"' may share data clumps", nil))
				break
			}
		}
	}
	return items
}

// DetectGodObject flags a type/module exposing more methods than a crude
// threshold; the actual split recommendation is delegated to internal/behavioral
// (§4.8), this detector only raises the flag.
func DetectGodObject(typeName, file string, line int, methodCount int) []debt.Item {
	const threshold = 20
	if methodCount <= threshold {
		return nil
	}
	return []debt.Item{smellItem("god-object", file, line, debt.High,
		"type '"+typeName+"' has "+strconv.Itoa(methodCount)+" methods; consider splitting", map[string]string{
			"method_count": strconv.Itoa(methodCount),
		})}
}
