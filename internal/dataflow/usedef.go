package dataflow

import "github.com/viant/debtmap/internal/ir"

// use is one observed read: its program point and the variable it reads (by
// name_id, matching how reaching-defs tracks variables).
type use struct {
	point  ir.ProgramPoint
	nameID uint32
}

// collectUses enumerates every use in the CFG, per §4.2 "Use collection":
// Assign.source and Declare.init via the free-variable walk of Rvalue;
// Statement::Expr via the free-variable walk of ExprKind; Terminator.Branch's
// condition and Terminator.Return's value at the synthetic terminator point.
func collectUses(cfg *ir.ControlFlowGraph) []use {
	var out []use
	for _, b := range cfg.Blocks {
		for i, s := range b.Statements {
			pt := ir.ProgramPoint{Block: b.ID, Stmt: i}
			switch s.Kind {
			case ir.StmtDeclare:
				if s.Init != nil {
					for _, v := range s.Init.Uses() {
						out = append(out, use{point: pt, nameID: v.NameID})
					}
				}
			case ir.StmtAssign:
				if s.Source != nil {
					for _, v := range s.Source.Uses() {
						out = append(out, use{point: pt, nameID: v.NameID})
					}
				}
			case ir.StmtExpr:
				if s.Expr != nil {
					for _, v := range s.Expr.Uses() {
						out = append(out, use{point: pt, nameID: v.NameID})
					}
				}
			}
		}
		term := b.TerminatorPoint()
		switch b.Terminator.Kind {
		case ir.TBranch:
			out = append(out, use{point: term, nameID: b.Terminator.Condition.NameID})
		case ir.TReturn:
			if b.Terminator.Value != nil {
				out = append(out, use{point: term, nameID: b.Terminator.Value.NameID})
			}
		case ir.TMatch:
			out = append(out, use{point: term, nameID: b.Terminator.Scrutinee.NameID})
		}
	}
	return out
}

// refineAndIndex applies the statement-level refinement of §4.2 step 2 and
// builds the def->uses and use->defs indices.
func (idx *Index) refineAndIndex() {
	for _, u := range collectUses(idx.cfg) {
		defs := idx.reachingDefsFor(u)
		idx.useToDefs[u.point] = append(idx.useToDefs[u.point], defs...)
		for _, d := range defs {
			idx.defToUses[d] = append(idx.defToUses[d], u.point)
		}
	}
}

// reachingDefsFor implements §4.2's two-step refinement for a single use.
func (idx *Index) reachingDefsFor(u use) []Def {
	blk := idx.cfg.Block(u.point.Block)
	for i := u.point.Stmt - 1; i >= 0; i-- {
		s := blk.Statements[i]
		var target *ir.VariableId
		switch s.Kind {
		case ir.StmtDeclare:
			t := s.Target
			target = &t
		case ir.StmtAssign:
			t := s.Target
			target = &t
		}
		if target != nil && target.NameID == u.nameID {
			return []Def{{Point: ir.ProgramPoint{Block: u.point.Block, Stmt: i}, NameID: u.nameID}}
		}
	}
	var out []Def
	for d := range idx.reachIn[u.point.Block] {
		if d.NameID == u.nameID {
			out = append(out, d)
		}
	}
	return out
}

// GetDefsOf returns every definition that can reach use point p for variable
// name_id nameID.
func (idx *Index) GetDefsOf(p ir.ProgramPoint, nameID uint32) []Def {
	var out []Def
	for _, d := range idx.useToDefs[p] {
		if d.NameID == nameID {
			out = append(out, d)
		}
	}
	return out
}

// GetUsesOf returns every use point that def d can reach.
func (idx *Index) GetUsesOf(d Def) []ir.ProgramPoint {
	return idx.defToUses[d]
}

// IsDeadDefinition reports whether d has no recorded uses (§8 P3).
func (idx *Index) IsDeadDefinition(d Def) bool {
	return len(idx.defToUses[d]) == 0
}

// GetUniqueDef returns the single reaching definition for use point p/nameID when
// exactly one exists, and ok=false otherwise.
func (idx *Index) GetUniqueDef(p ir.ProgramPoint, nameID uint32) (Def, bool) {
	defs := idx.GetDefsOf(p, nameID)
	if len(defs) == 1 {
		return defs[0], true
	}
	return Def{}, false
}
