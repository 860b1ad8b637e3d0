// Package purity implements the purity classification and functional-composition
// scoring of §4.4: a PurityAccumulator walk over a function body, and a pipeline
// (iterator chain) recognizer scored against strict/balanced/lenient profiles.
package purity

import (
	"strings"

	"github.com/viant/debtmap/internal/cfgbuild"
)

// SideEffectKind is the coarse classification a function's side effects reduce
// to once every signal in its body has been walked.
type SideEffectKind int

const (
	Pure SideEffectKind = iota
	Benign
	Impure
)

func (k SideEffectKind) String() string {
	switch k {
	case Pure:
		return "pure"
	case Benign:
		return "benign"
	case Impure:
		return "impure"
	default:
		return "unknown"
	}
}

// PurityLevel is a coarse bucket over the numeric score, for reporting.
type PurityLevel int

const (
	LevelPure PurityLevel = iota
	LevelMostlyPure
	LevelImpure
)

func (l PurityLevel) String() string {
	switch l {
	case LevelPure:
		return "pure"
	case LevelMostlyPure:
		return "mostly-pure"
	default:
		return "impure"
	}
}

// PurityAccumulator is the running tally collected by a single walk of a
// function body.
type PurityAccumulator struct {
	MutableBindings   int
	ImmutableBindings int
	IOOperations      []string
	GlobalMutations   []string
	BenignSideEffects []string
}

// Result is the full purity classification for one function.
type Result struct {
	Accumulator PurityAccumulator
	Score       float64
	Kind        SideEffectKind
	Level       PurityLevel
}

var consoleFamily = map[string]bool{
	"print": true, "println": true, "printf": true,
	"eprint": true, "eprintln": true, "eprintf": true,
	"dbg": true,
}

var loggingFamily = map[string]bool{
	"debug": true, "info": true, "warn": true,
	"error": true, "trace": true, "log": true,
}

var mutatingPrefixes = []string{"push", "insert", "remove", "clear"}

func hasMutatingPrefix(name string) bool {
	for _, p := range mutatingPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Analyze walks body, classifying every call and binding per §4.4's rule table
// (first match wins, in the order: console I/O, logging, non-local mutating
// call, captured-mutable-reference write, pure).
func Analyze(body []cfgbuild.Stmt, params []string) Result {
	locals := map[string]bool{}
	for _, p := range params {
		locals[p] = true
	}
	assigned := map[string]bool{}
	collectAssignedNames(body, assigned)

	acc := PurityAccumulator{}

	var walkStmts func(stmts []cfgbuild.Stmt)
	var walkExpr func(e *cfgbuild.Expr)

	walkExpr = func(e *cfgbuild.Expr) {
		if e == nil {
			return
		}
		switch e.Tag {
		case cfgbuild.ECall:
			name := strings.ToLower(e.FuncName)
			switch {
			case consoleFamily[name]:
				acc.IOOperations = append(acc.IOOperations, e.FuncName)
			case loggingFamily[name]:
				acc.BenignSideEffects = append(acc.BenignSideEffects, e.FuncName)
			}
			for i := range e.Args {
				walkExpr(&e.Args[i])
			}
		case cfgbuild.EMethodCall:
			name := strings.ToLower(e.Method)
			switch {
			case consoleFamily[name]:
				acc.IOOperations = append(acc.IOOperations, e.Method)
			case loggingFamily[name]:
				acc.BenignSideEffects = append(acc.BenignSideEffects, e.Method)
			case hasMutatingPrefix(name) && isNonLocalReceiver(e.Receiver, locals):
				acc.GlobalMutations = append(acc.GlobalMutations, e.Method)
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
		case cfgbuild.EField, cfgbuild.EIndex:
			walkExpr(e.Base)
		case cfgbuild.ERef:
			walkExpr(e.RefTarget)
		case cfgbuild.EClosure:
			captureMutableWrites(e, locals, &acc)
			walkStmts(e.ClosureBody)
		}
	}

	walkStmts = func(stmts []cfgbuild.Stmt) {
		for _, s := range stmts {
			switch s.Tag {
			case cfgbuild.SLet:
				for _, n := range s.Pattern.Bindings() {
					locals[n] = true
					if assigned[n] {
						acc.MutableBindings++
					} else {
						acc.ImmutableBindings++
					}
				}
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
					walkExpr(arm.Guard)
					walkStmts(arm.Body)
				}
			case cfgbuild.SExprStmt:
				walkExpr(s.Expr)
			}
		}
	}
	walkStmts(body)

	return Result{
		Accumulator: acc,
		Score:       scoreOf(acc),
		Kind:        kindOf(acc),
		Level:       levelOf(scoreOf(acc)),
	}
}

func kindOf(acc PurityAccumulator) SideEffectKind {
	switch {
	case len(acc.IOOperations) > 0:
		return Impure
	case len(acc.GlobalMutations) > 0:
		return Impure
	case len(acc.BenignSideEffects) > 0:
		return Benign
	default:
		return Pure
	}
}

func scoreOf(acc PurityAccumulator) float64 {
	score := 1.0
	if len(acc.IOOperations) > 0 {
		score -= 0.4
	}
	if len(acc.GlobalMutations) > 0 {
		score -= 0.3
	}
	if len(acc.BenignSideEffects) > 0 {
		score -= 0.1
	}
	total := acc.MutableBindings + acc.ImmutableBindings
	if total > 0 {
		score -= 0.3 * (float64(acc.MutableBindings) / float64(total))
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}

// levelOf buckets the numeric score into the coarse level spec §4.4 asks for
// without pinning thresholds; chosen to keep "any impurity" out of LevelPure.
func levelOf(score float64) PurityLevel {
	switch {
	case score >= 0.8:
		return LevelPure
	case score >= 0.4:
		return LevelMostlyPure
	default:
		return LevelImpure
	}
}

// isNonLocalReceiver reports whether e refers to something other than a plain
// local variable — a field, index, call result, or an identifier not bound in
// this function, any of which count as "non-local" per §4.4's mutating-call rule.
func isNonLocalReceiver(e *cfgbuild.Expr, locals map[string]bool) bool {
	if e == nil {
		return true
	}
	if e.Tag == cfgbuild.EIdent {
		return !locals[e.Name]
	}
	return true
}

// collectAssignedNames records every identifier assigned-to anywhere in stmts,
// used to decide whether a let-binding is later mutated.
func collectAssignedNames(stmts []cfgbuild.Stmt, out map[string]bool) {
	for _, s := range stmts {
		switch s.Tag {
		case cfgbuild.SAssign:
			if s.LHS != nil && s.LHS.Tag == cfgbuild.EIdent {
				out[s.LHS.Name] = true
			}
		case cfgbuild.SIf:
			collectAssignedNames(s.Then, out)
			collectAssignedNames(s.Else, out)
		case cfgbuild.SWhile:
			collectAssignedNames(s.Body, out)
		case cfgbuild.SMatch:
			for _, arm := range s.Arms {
				collectAssignedNames(arm.Body, out)
			}
		}
	}
}

// captureMutableWrites flags an assignment inside a closure body to a name that
// is free in the closure (not a parameter) and already bound in the enclosing
// function — a write through a captured mutable reference, per §4.4's rule table.
func captureMutableWrites(closure *cfgbuild.Expr, enclosingLocals map[string]bool, acc *PurityAccumulator) {
	closureParams := map[string]bool{}
	for _, p := range closure.Params {
		closureParams[p] = true
	}
	targets := map[string]bool{}
	collectAssignedNames(closure.ClosureBody, targets)
	for name := range targets {
		if !closureParams[name] && enclosingLocals[name] {
			acc.GlobalMutations = append(acc.GlobalMutations, "capture:"+name)
		}
	}
}
