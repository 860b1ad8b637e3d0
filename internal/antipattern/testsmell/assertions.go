// Package testsmell implements §4.5.3's three testing anti-pattern detectors:
// test-without-assertions (this file), overly-complex-test (complexity.go) and
// flaky-test (flaky.go). Grounded on original_source/src/testing/{assertion_detector,
// complexity_detector,flaky_detector}.rs for exact pattern tables and thresholds.
package testsmell

import (
	"strings"

	"github.com/viant/debtmap/internal/antipattern"
	"github.com/viant/debtmap/internal/cfgbuild"
	"github.com/viant/debtmap/internal/debt"
)

var assertionMacros = map[string]bool{
	"assert": true, "assert_eq": true, "assert_ne": true, "assert_matches": true,
	"debug_assert": true, "debug_assert_eq": true, "debug_assert_ne": true,
}

var assertionFunctions = map[string]bool{
	"assert": true, "assert_eq": true, "assert_ne": true, "assert_that": true, "expect": true,
}

var setupPrefixes = []string{"create_", "new_", "setup_", "build_"}
var setupExact = map[string]bool{"new": true, "default": true}

func isSetupFunction(name string) bool {
	if setupExact[name] {
		return true
	}
	for _, p := range setupPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// StructureAnalysis is the §4.5.3 test-without-assertions structural survey.
type StructureAnalysis struct {
	HasSetup        bool
	HasAction       bool
	HasAssertions   bool
	AssertionCount  int
	HasPanic        bool
	HasExpect       bool
	HasUnwrap       bool
}

// AnalyzeStructure walks a test function's body and records whether it has a
// setup phase, an action phase, and assertions (explicit or implicit via
// expect/unwrap).
func AnalyzeStructure(body []cfgbuild.Stmt) StructureAnalysis {
	var a StructureAnalysis

	var walkStmts func(stmts []cfgbuild.Stmt)
	var walkExpr func(e *cfgbuild.Expr)

	walkExpr = func(e *cfgbuild.Expr) {
		if e == nil {
			return
		}
		switch e.Tag {
		case cfgbuild.ECall:
			if assertionFunctions[e.FuncName] || assertionMacros[e.FuncName] {
				a.HasAssertions = true
				a.AssertionCount++
			}
			if e.FuncName == "panic" {
				a.HasPanic = true
				a.HasAssertions = true
			}
			for i := range e.Args {
				walkExpr(&e.Args[i])
			}
		case cfgbuild.EMethodCall:
			a.HasAction = true
			switch e.Method {
			case "expect":
				a.HasExpect = true
				a.HasAssertions = true
			case "unwrap":
				a.HasUnwrap = true
				a.HasAssertions = true
			}
			if assertionFunctions[e.Method] {
				a.HasAssertions = true
				a.AssertionCount++
			}
			walkExpr(e.Receiver)
			for i := range e.Args {
				walkExpr(&e.Args[i])
			}
		case cfgbuild.EBinary:
			walkExpr(e.Left)
			walkExpr(e.Right)
		case cfgbuild.EUnary:
			walkExpr(e.Operand)
		case cfgbuild.EClosure:
			walkStmts(e.ClosureBody)
		}
	}

	walkStmts = func(stmts []cfgbuild.Stmt) {
		for _, s := range stmts {
			switch s.Tag {
			case cfgbuild.SLet:
				a.HasSetup = true
				walkExpr(s.Init)
			case cfgbuild.SAssign:
				walkExpr(s.LHS)
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
				walkExpr(s.Scrutinee)
				for _, arm := range s.Arms {
					walkStmts(arm.Body)
				}
			case cfgbuild.SExprStmt:
				walkExpr(s.Expr)
			}
		}
	}
	walkStmts(body)
	return a
}

// SuggestAssertions proposes what's missing from a test's setup/action/assert
// structure, in the original's fixed suggestion order.
func SuggestAssertions(a StructureAnalysis) []string {
	var out []string
	if a.HasAction && !a.HasAssertions {
		out = append(out, "Add assertions to verify the behavior",
			"Consider using assert!, assert_eq!, or assert_ne!")
	}
	if a.HasSetup && !a.HasAction {
		out = append(out, "Add action phase - call the method under test")
	}
	if !a.HasSetup && !a.HasAction && !a.HasAssertions {
		out = append(out, "Implement complete test structure: setup -> action -> assert")
	}
	if len(out) == 0 {
		out = append(out, "Verify that the test is checking expected behavior")
	}
	return out
}

// DetectMissingAssertions reports a test-without-assertions finding when fn is
// recognized as a test and its structure shows no assertions at all.
func DetectMissingAssertions(fn antipattern.FunctionInfo) []debt.Item {
	if !fn.IsTestFunction {
		return nil
	}
	a := AnalyzeStructure(fn.Body)
	if a.HasAssertions {
		return nil
	}
	return []debt.Item{{
		ID:       debt.NewID("test-no-assertions", debt.Testing, fn.File, fn.Line),
		Kind:     debt.Testing,
		Priority: debt.Medium,
		File:     fn.File,
		Line:     fn.Line,
		Message:  "test '" + fn.Name + "' has no assertions",
		Context: map[string]string{
			"has_setup":  boolStr(a.HasSetup),
			"has_action": boolStr(a.HasAction),
			"suggestion": strings.Join(SuggestAssertions(a), "; "),
		},
	}}
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
