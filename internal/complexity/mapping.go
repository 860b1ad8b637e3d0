package complexity

import (
	"math"

	"github.com/viant/debtmap/internal/cfgbuild"
)

// MappingPatternResult is the §4.3 "mapping-pattern adjustment" output: a
// function body dominated by a single match whose arms are each trivial is
// classified as a pure mapping/lookup rather than logic.
type MappingPatternResult struct {
	ArmCount            int
	AdjustedComplexity   float64
}

// detectMappingPattern reports whether body is dominated by a single match/switch
// with trivial arms, and if so computes the adjusted complexity curve.
//
// The curve f(cyc, cog, arms) is monotone in each argument, equals the raw
// cyclomatic complexity when arms == 1, and grows as sqrt(arms) or slower —
// the three constraints spec §9's open question leaves free. See DESIGN.md.
func detectMappingPattern(body []cfgbuild.Stmt, cyclomatic, cognitive int) (MappingPatternResult, bool) {
	match := soleTopLevelMatch(body)
	if match == nil {
		return MappingPatternResult{}, false
	}
	if !allArmsTrivial(match.Arms) {
		return MappingPatternResult{}, false
	}
	n := len(match.Arms)
	adjusted := float64(cyclomatic)
	if n > 1 {
		adjusted = float64(cyclomatic) + 0.2*float64(cognitive)*(math.Sqrt(float64(n))-1)
	}
	return MappingPatternResult{ArmCount: n, AdjustedComplexity: adjusted}, true
}

// soleTopLevelMatch returns the function's single top-level match statement when
// the body consists of exactly that match (optionally followed by a trailing
// return of its result), else nil.
func soleTopLevelMatch(body []cfgbuild.Stmt) *cfgbuild.Stmt {
	var match *cfgbuild.Stmt
	for i := range body {
		s := &body[i]
		switch s.Tag {
		case cfgbuild.SMatch:
			if match != nil {
				return nil // more than one match: not dominated by a single one
			}
			match = s
		case cfgbuild.SReturn:
			// trailing return is fine
		default:
			return nil
		}
	}
	return match
}

// allArmsTrivial reports whether every arm body is a single trivial expression:
// a literal, a constructor call with literal arguments, or a single method call.
func allArmsTrivial(arms []cfgbuild.MatchArm) bool {
	for _, arm := range arms {
		if len(arm.Body) != 1 {
			return false
		}
		s := arm.Body[0]
		if s.Tag != cfgbuild.SReturn && s.Tag != cfgbuild.SExprStmt {
			return false
		}
		var e *cfgbuild.Expr
		if s.Tag == cfgbuild.SReturn {
			e = s.Value
		} else {
			e = s.Expr
		}
		if !isTrivialArmExpr(e) {
			return false
		}
	}
	return true
}

func isTrivialArmExpr(e *cfgbuild.Expr) bool {
	if e == nil {
		return true
	}
	switch e.Tag {
	case cfgbuild.ELiteral:
		return true
	case cfgbuild.ECall:
		for i := range e.Args {
			if e.Args[i].Tag != cfgbuild.ELiteral {
				return false
			}
		}
		return true
	case cfgbuild.EMethodCall:
		return true
	default:
		return false
	}
}
