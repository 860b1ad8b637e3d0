package complexity

import "github.com/viant/debtmap/internal/cfgbuild"

// RecursiveMatchInfo records one match/switch's shape: its nesting depth, arm
// count, and whether any arm contains a nested match of comparable width — used
// to distinguish dispatch tables (wide, shallow) from decision trees (narrow,
// deep), per §4.3.
type RecursiveMatchInfo struct {
	Depth           int
	ArmCount        int
	HasNestedOfSize bool
}

// findRecursiveMatches walks body recording every match statement's shape.
func findRecursiveMatches(body []cfgbuild.Stmt, depth int) []RecursiveMatchInfo {
	var out []RecursiveMatchInfo
	var walk func(stmts []cfgbuild.Stmt, d int)
	walk = func(stmts []cfgbuild.Stmt, d int) {
		for _, s := range stmts {
			switch s.Tag {
			case cfgbuild.SMatch:
				nested := nestedMatchOfComparableWidth(s.Arms, len(s.Arms))
				out = append(out, RecursiveMatchInfo{Depth: d, ArmCount: len(s.Arms), HasNestedOfSize: nested})
				for _, arm := range s.Arms {
					walk(arm.Body, d+1)
				}
			case cfgbuild.SIf:
				walk(s.Then, d+1)
				walk(s.Else, d+1)
			case cfgbuild.SWhile:
				walk(s.Body, d+1)
			}
		}
	}
	walk(body, depth)
	return out
}

// nestedMatchOfComparableWidth reports whether any arm contains a match whose
// arm count is at least half the outer match's arm count (a rough "comparable
// width" heuristic distinguishing wide dispatch tables from narrow decision
// trees).
func nestedMatchOfComparableWidth(arms []cfgbuild.MatchArm, outerWidth int) bool {
	for _, arm := range arms {
		for _, s := range arm.Body {
			if s.Tag == cfgbuild.SMatch && len(s.Arms)*2 >= outerWidth {
				return true
			}
		}
	}
	return false
}
