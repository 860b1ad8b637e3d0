package dataflow

import "github.com/viant/debtmap/internal/ir"

// AllDefs enumerates every Declare/Assign statement in the CFG as a Def,
// independent of whether any use was found to reach it.
func (idx *Index) AllDefs() []Def {
	var out []Def
	for _, b := range idx.cfg.Blocks {
		for i, s := range b.Statements {
			switch s.Kind {
			case ir.StmtDeclare, ir.StmtAssign:
				out = append(out, Def{Point: ir.ProgramPoint{Block: b.ID, Stmt: i}, NameID: s.Target.NameID})
			}
		}
	}
	return out
}

// FindDeadStores returns every definition with an empty use set (§8 P3).
func (idx *Index) FindDeadStores() []Def {
	var out []Def
	for _, d := range idx.AllDefs() {
		if idx.IsDeadDefinition(d) {
			out = append(out, d)
		}
	}
	return out
}

// FindSameBlockDeadStores returns every dead definition that a later
// Declare/Assign of the same name_id in the same block overwrites — a store
// replaced before anything reads it.
func (idx *Index) FindSameBlockDeadStores() []Def {
	var out []Def
	for _, d := range idx.FindDeadStores() {
		blk := idx.cfg.Block(d.Point.Block)
		for _, s := range blk.Statements[d.Point.Stmt+1:] {
			if (s.Kind == ir.StmtDeclare || s.Kind == ir.StmtAssign) && s.Target.NameID == d.NameID {
				out = append(out, d)
				break
			}
		}
	}
	return out
}
