// Package antipattern is the parent of the §4.5 detector sub-packages
// (panicdetect, errswallow, testsmell, smells). It holds only the FunctionInfo
// view every sub-package's detectors share — each detector itself stays a pure
// function of (AST, file-path, …), per §4.5's "all detectors are pure functions"
// rule, grounded on side_effect_analyzer.go's independent per-function detector
// functions with no shared mutable state.
package antipattern

import "github.com/viant/debtmap/internal/cfgbuild"

// FunctionInfo is the minimal per-function metadata the §4.5 detectors need
// beyond the raw body: identity, location, and the test-context flags §4.5.1
// and §4.5.3 key their priority downgrades and test-recognition on.
type FunctionInfo struct {
	Name   string
	File   string
	Line   int
	Params int
	Body   []cfgbuild.Stmt

	Length  int // line count, front-end supplied
	Nesting int // max nesting depth, front-end or internal/complexity supplied

	IsTestFunction bool // e.g. has a #[test]/Test-prefix attribute
	InTestModule   bool // enclosing module/file is a test module

	Receiver   string   // enclosing type name for a method, "" for a free function
	ParamNames []string // parameter identifiers, front-end supplied
	ParamTypes []string // parameter type names, front-end supplied where resolvable
}
