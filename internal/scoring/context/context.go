// Package context derives the §4.9 PatternContext a raw debt item is scored
// against: module type, function intent, business criticality, performance
// sensitivity, and an optional architectural-pattern hint. Grounded on
// original_source/src/performance/context/{mod,module_classifier,intent_classifier}.rs
// for the classification heuristics (file-path and name-based, since the core
// never parses source text itself).
package context

import (
	"path/filepath"
	"strings"
)

// ModuleType classifies the file a function lives in.
type ModuleType string

const (
	Production     ModuleType = "Production"
	Test           ModuleType = "Test"
	Benchmark      ModuleType = "Benchmark"
	Example        ModuleType = "Example"
	Documentation  ModuleType = "Documentation"
	Utility        ModuleType = "Utility"
	Infrastructure ModuleType = "Infrastructure"
)

// FunctionIntent classifies what a function is for.
type FunctionIntent string

const (
	BusinessLogic      FunctionIntent = "BusinessLogic"
	Setup              FunctionIntent = "Setup"
	Teardown           FunctionIntent = "Teardown"
	Validation         FunctionIntent = "Validation"
	DataTransformation FunctionIntent = "DataTransformation"
	IOWrapper          FunctionIntent = "IOWrapper"
	ErrorHandling      FunctionIntent = "ErrorHandling"
	Configuration      FunctionIntent = "Configuration"
	Unknown            FunctionIntent = "Unknown"
)

// BusinessCriticality classifies how much a function's correctness matters
// to the business, independent of its intent.
type BusinessCriticality string

const (
	Critical           BusinessCriticality = "Critical"
	Important          BusinessCriticality = "Important"
	CriticalityUtility BusinessCriticality = "Utility"
	CriticalityInfra   BusinessCriticality = "Infrastructure"
	Development        BusinessCriticality = "Development"
)

// PerformanceSensitivity classifies how much a function's runtime cost
// matters.
type PerformanceSensitivity string

const (
	High       PerformanceSensitivity = "High"
	Medium     PerformanceSensitivity = "Medium"
	Low        PerformanceSensitivity = "Low"
	Irrelevant PerformanceSensitivity = "Irrelevant"
)

// ArchitecturalPattern is an optional hint the correlator can attach.
type ArchitecturalPattern string

const (
	TestFixture     ArchitecturalPattern = "TestFixture"
	BatchProcessing ArchitecturalPattern = "BatchProcessing"
	ErrorHandlingPattern ArchitecturalPattern = "ErrorHandling"
	DataMigration   ArchitecturalPattern = "DataMigration"
	Initialization  ArchitecturalPattern = "Initialization"
)

// PatternContext is the full per-function classification §4.9 scores against.
type PatternContext struct {
	ModuleType             ModuleType
	FunctionIntent         FunctionIntent
	BusinessCriticality    BusinessCriticality
	PerformanceSensitivity PerformanceSensitivity
	ArchitecturalPattern   *ArchitecturalPattern
	Confidence             float64
}

// Derive builds a PatternContext from a file path and function name. The
// core never sees a type system or a build-tag graph, so this is a
// deliberately name/path-based heuristic, same as the original's module and
// intent classifiers.
func Derive(path, functionName string) PatternContext {
	mt := classifyModule(path)
	fi := classifyIntent(functionName)
	return PatternContext{
		ModuleType:             mt,
		FunctionIntent:         fi,
		BusinessCriticality:    classifyCriticality(mt, fi),
		PerformanceSensitivity: classifySensitivity(mt, fi),
		Confidence:             0.8,
	}
}

func classifyModule(path string) ModuleType {
	base := filepath.Base(path)
	lower := "/" + strings.ToLower(path)
	switch {
	case strings.Contains(base, "_test."), strings.Contains(lower, "/test/"), strings.Contains(lower, "/tests/"):
		return Test
	case strings.Contains(base, "_bench."), strings.Contains(lower, "/benchmark"):
		return Benchmark
	case strings.Contains(lower, "/example"), strings.Contains(lower, "/examples/"):
		return Example
	case strings.Contains(lower, "/doc/"), strings.Contains(lower, "/docs/"):
		return Documentation
	case strings.Contains(lower, "/util/"), strings.Contains(lower, "/utils/"), strings.Contains(lower, "/internal/util"):
		return Utility
	case strings.Contains(lower, "/infra"), strings.Contains(lower, "/config/"), strings.Contains(lower, "/cache/"):
		return Infrastructure
	default:
		return Production
	}
}

func hasAnyPrefix(name string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func classifyIntent(name string) FunctionIntent {
	lower := strings.ToLower(name)
	switch {
	case hasAnyPrefix(lower, "setup", "before_each", "beforeeach"):
		return Setup
	case hasAnyPrefix(lower, "teardown", "after_each", "aftereach", "cleanup"):
		return Teardown
	case hasAnyPrefix(lower, "validate", "check", "verify", "is_", "has_"):
		return Validation
	case hasAnyPrefix(lower, "transform", "convert", "map_", "parse"):
		return DataTransformation
	case hasAnyPrefix(lower, "read", "write", "load", "save", "fetch", "send", "receive"):
		return IOWrapper
	case hasAnyPrefix(lower, "handle_error", "recover", "on_error"):
		return ErrorHandling
	case hasAnyPrefix(lower, "configure", "init_config", "load_config"):
		return Configuration
	case hasAnyPrefix(lower, "new", "create", "build", "process", "execute", "run", "compute", "calculate"):
		return BusinessLogic
	default:
		return Unknown
	}
}

func classifyCriticality(mt ModuleType, fi FunctionIntent) BusinessCriticality {
	switch mt {
	case Test, Benchmark, Example, Documentation:
		return Development
	case Utility:
		return CriticalityUtility
	case Infrastructure:
		return CriticalityInfra
	}
	if fi == BusinessLogic {
		return Critical
	}
	return Important
}

func classifySensitivity(mt ModuleType, fi FunctionIntent) PerformanceSensitivity {
	switch mt {
	case Test, Benchmark, Example, Documentation:
		return Irrelevant
	}
	switch fi {
	case DataTransformation, BusinessLogic:
		return High
	case IOWrapper, Validation:
		return Medium
	default:
		return Low
	}
}
