// Package dataflow computes forward reaching-definitions and precise def-use
// chains over an internal/ir.ControlFlowGraph, per spec §4.2.
package dataflow

import "github.com/viant/debtmap/internal/ir"

// Def identifies a single definition (a Declare or Assign statement) by its
// program point and the name_id it defines.
type Def struct {
	Point  ir.ProgramPoint
	NameID uint32
}

// Index holds the reaching-definitions fixed point plus the derived def-use and
// use-def chains for one function's CFG.
type Index struct {
	cfg *ir.ControlFlowGraph

	reachIn  map[ir.BlockId]map[Def]bool
	reachOut map[ir.BlockId]map[Def]bool

	defToUses map[Def][]ir.ProgramPoint
	useToDefs map[ir.ProgramPoint][]Def
}

// Build computes the full reaching-definitions index for cfg. cfg must already
// be Finalize()'d.
func Build(cfg *ir.ControlFlowGraph) *Index {
	idx := &Index{
		cfg:       cfg,
		reachIn:   map[ir.BlockId]map[Def]bool{},
		reachOut:  map[ir.BlockId]map[Def]bool{},
		defToUses: map[Def][]ir.ProgramPoint{},
		useToDefs: map[ir.ProgramPoint][]Def{},
	}
	gens, kills := idx.blockGenKill()
	idx.fixedPoint(gens, kills)
	idx.refineAndIndex()
	return idx
}

// blockGenKill computes gen(b)/kill(b) for every block per §4.2.
func (idx *Index) blockGenKill() (map[ir.BlockId]map[Def]bool, map[ir.BlockId]map[uint32]bool) {
	gens := map[ir.BlockId]map[Def]bool{}
	kills := map[ir.BlockId]map[uint32]bool{}
	for _, b := range idx.cfg.Blocks {
		lastDef := map[uint32]Def{}
		kill := map[uint32]bool{}
		for i, s := range b.Statements {
			pt := ir.ProgramPoint{Block: b.ID, Stmt: i}
			switch s.Kind {
			case ir.StmtDeclare:
				lastDef[s.Target.NameID] = Def{Point: pt, NameID: s.Target.NameID}
			case ir.StmtAssign:
				lastDef[s.Target.NameID] = Def{Point: pt, NameID: s.Target.NameID}
				kill[s.Target.NameID] = true
			}
		}
		gen := map[Def]bool{}
		for _, d := range lastDef {
			gen[d] = true
		}
		gens[b.ID] = gen
		kills[b.ID] = kill
	}
	return gens, kills
}

// fixedPoint runs the forward worklist iteration until reach_in/reach_out
// converge. Terminates because the lattice (power-set of the finite definition
// set) is finite and the transfer function is monotone.
func (idx *Index) fixedPoint(gens map[ir.BlockId]map[Def]bool, kills map[ir.BlockId]map[uint32]bool) {
	preds := idx.cfg.Predecessors()
	for _, b := range idx.cfg.Blocks {
		idx.reachIn[b.ID] = map[Def]bool{}
		idx.reachOut[b.ID] = map[Def]bool{}
	}

	changed := true
	for changed {
		changed = false
		for _, b := range idx.cfg.Blocks {
			in := map[Def]bool{}
			for _, p := range preds[b.ID] {
				for d := range idx.reachOut[p] {
					in[d] = true
				}
			}
			out := map[Def]bool{}
			kill := kills[b.ID]
			for d := range in {
				if kill[d.NameID] {
					continue
				}
				out[d] = true
			}
			for d := range gens[b.ID] {
				out[d] = true
			}
			if !defSetEqual(idx.reachIn[b.ID], in) || !defSetEqual(idx.reachOut[b.ID], out) {
				changed = true
			}
			idx.reachIn[b.ID] = in
			idx.reachOut[b.ID] = out
		}
	}
}

func defSetEqual(a, b map[Def]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for d := range a {
		if !b[d] {
			return false
		}
	}
	return true
}

// ReachIn returns the reaching-definitions set at the entry of block b (a copy).
func (idx *Index) ReachIn(b ir.BlockId) map[Def]bool {
	out := map[Def]bool{}
	for d := range idx.reachIn[b] {
		out[d] = true
	}
	return out
}

// ReachOut returns the reaching-definitions set at the exit of block b (a copy).
func (idx *Index) ReachOut(b ir.BlockId) map[Def]bool {
	out := map[Def]bool{}
	for d := range idx.reachOut[b] {
		out[d] = true
	}
	return out
}
