package complexity

import "github.com/viant/debtmap/internal/cfgbuild"

// IfElseChain records a walked `if … else if … else` form: its arm count and the
// statement-length of each arm, used for "collapse to match with N arms"
// messages.
type IfElseChain struct {
	ArmCount   int
	ArmLengths []int
}

// findIfElseChains walks body for consecutive if/else-if/else forms.
func findIfElseChains(body []cfgbuild.Stmt) []IfElseChain {
	var chains []IfElseChain
	var walk func(stmts []cfgbuild.Stmt)
	walk = func(stmts []cfgbuild.Stmt) {
		for _, s := range stmts {
			switch s.Tag {
			case cfgbuild.SIf:
				chains = append(chains, chainFrom(s))
				cur := s
				for len(cur.Else) == 1 && cur.Else[0].Tag == cfgbuild.SIf {
					walk(cur.Then)
					cur = cur.Else[0]
				}
				walk(cur.Then)
				walk(cur.Else)
			case cfgbuild.SWhile:
				walk(s.Body)
			case cfgbuild.SMatch:
				for _, arm := range s.Arms {
					walk(arm.Body)
				}
			}
		}
	}
	walk(body)
	return chains
}

func chainFrom(s cfgbuild.Stmt) IfElseChain {
	chain := IfElseChain{ArmCount: 1, ArmLengths: []int{len(s.Then)}}
	cur := s
	for cur.Else != nil {
		if len(cur.Else) == 1 && cur.Else[0].Tag == cfgbuild.SIf {
			cur = cur.Else[0]
			chain.ArmCount++
			chain.ArmLengths = append(chain.ArmLengths, len(cur.Then))
			continue
		}
		chain.ArmCount++
		chain.ArmLengths = append(chain.ArmLengths, len(cur.Else))
		break
	}
	return chain
}
