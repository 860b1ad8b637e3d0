// Package orchestrator implements §4.10/§5: per-file parallel analysis with
// timeout isolation, suppression and cache wiring, and aggregation into the
// three report shapes. Grounded on analyzer/package.go's AnalyzeDir/
// analyzePackages (afs.Walk-based file discovery, per-package fan-out).
package orchestrator

import "github.com/viant/debtmap/internal/antipattern"

// FileUnit is what a FrontEnd produces for one source file: its functions
// (ready for the §4.3-4.6 per-function passes) and the module names it
// depends on (for the §4.7 dependency graph).
type FileUnit struct {
	Path      string
	Module    string
	Functions []antipattern.FunctionInfo
	Imports   []string
}

// FrontEnd is the external-collaborator boundary §1/§6 describes: a
// language-specific AST producer feeding the frontend-agnostic core. Matches
// reports whether this FrontEnd owns a given file path (by extension).
type FrontEnd interface {
	Matches(path string) bool
	Parse(path string, content []byte) (FileUnit, error)
}
