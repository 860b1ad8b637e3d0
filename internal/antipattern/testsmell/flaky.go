package testsmell

import (
	"sort"
	"strings"

	"github.com/viant/debtmap/internal/antipattern"
	"github.com/viant/debtmap/internal/cfgbuild"
	"github.com/viant/debtmap/internal/debt"
)

// FlakinessType categorizes why a test might be flaky.
type FlakinessType string

const (
	TimingDependency       FlakinessType = "timing-dependency"
	RandomValues           FlakinessType = "random-values"
	ExternalDependency     FlakinessType = "external-dependency"
	FilesystemDependency   FlakinessType = "filesystem-dependency"
	NetworkDependency      FlakinessType = "network-dependency"
	ThreadingIssue         FlakinessType = "threading-issue"
)

// ReliabilityImpact is the severity a flakiness type carries.
type ReliabilityImpact string

const (
	ImpactMedium   ReliabilityImpact = "medium"
	ImpactHigh     ReliabilityImpact = "high"
	ImpactCritical ReliabilityImpact = "critical"
)

func impactOf(t FlakinessType) ReliabilityImpact {
	switch t {
	case TimingDependency, ThreadingIssue:
		return ImpactHigh
	case RandomValues, FilesystemDependency:
		return ImpactMedium
	case ExternalDependency, NetworkDependency:
		return ImpactCritical
	default:
		return ImpactMedium
	}
}

func (t FlakinessType) Priority() debt.Priority {
	switch impactOf(t) {
	case ImpactCritical:
		return debt.Critical
	case ImpactHigh:
		return debt.High
	default:
		return debt.Medium
	}
}

var timingSubstrings = []string{
	"sleep", "instant::now", "systemtime::now", "duration::from",
	"delay", "timeout", "wait_for", "park_timeout", "recv_timeout",
}
var timingMethods = map[string]bool{
	"elapsed": true, "duration_since": true, "checked_duration_since": true,
	"timeout": true, "wait": true, "wait_timeout": true,
}

var randomSubstrings = []string{
	"rand", "random", "thread_rng", "stdrng", "smallrng",
	"gen_range", "sample", "shuffle", "choose",
}

var externalSubstrings = []string{
	"reqwest", "hyper", "http", "client::new", "httpclient", "apiclient",
	"database", "db", "postgres", "mysql", "redis", "mongodb", "sqlx", "diesel",
}

var filesystemSubstrings = []string{
	"fs::", "file::", "std::fs", "tokio::fs", "async_std::fs", "read_to_string",
	"write", "create", "remove_file", "remove_dir", "rename", "copy", "metadata",
}

var networkSubstrings = []string{
	"tcpstream", "tcplistener", "udpsocket", "connect", "bind", "listen",
	"accept", "send_to", "recv_from",
}

func containsAny(haystack string, needles []string) bool {
	lower := strings.ToLower(haystack)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

// detectFlakinessPattern classifies a single call name, in the original's
// fixed precedence: timing, random, external-service, filesystem, network.
func detectFlakinessPattern(name string) (FlakinessType, bool) {
	switch {
	case containsAny(name, timingSubstrings) || timingMethods[strings.ToLower(name)]:
		return TimingDependency, true
	case containsAny(name, randomSubstrings):
		return RandomValues, true
	case containsAny(name, externalSubstrings):
		return ExternalDependency, true
	case containsAny(name, filesystemSubstrings):
		return FilesystemDependency, true
	case containsAny(name, networkSubstrings):
		return NetworkDependency, true
	default:
		return "", false
	}
}

// DetectFlaky walks fn.Body for any flakiness pattern, reporting one debt
// item per distinct type found (first occurrence's line).
func DetectFlaky(fn antipattern.FunctionInfo) []debt.Item {
	if !fn.IsTestFunction {
		return nil
	}
	seen := map[FlakinessType]int{}

	record := func(t FlakinessType, line int) {
		if _, ok := seen[t]; !ok {
			seen[t] = line
		}
	}

	var walkStmts func(stmts []cfgbuild.Stmt, line int)
	var walkExpr func(e *cfgbuild.Expr, line int)

	walkExpr = func(e *cfgbuild.Expr, line int) {
		if e == nil {
			return
		}
		switch e.Tag {
		case cfgbuild.ECall:
			if e.FuncName == "spawn" || e.FuncName == "join" {
				record(ThreadingIssue, line)
			} else if t, ok := detectFlakinessPattern(e.FuncName); ok {
				record(t, line)
			}
			for i := range e.Args {
				walkExpr(&e.Args[i], line)
			}
		case cfgbuild.EMethodCall:
			if e.Method == "spawn" || e.Method == "join" {
				record(ThreadingIssue, line)
			} else if t, ok := detectFlakinessPattern(e.Method); ok {
				record(t, line)
			}
			walkExpr(e.Receiver, line)
			for i := range e.Args {
				walkExpr(&e.Args[i], line)
			}
		case cfgbuild.EClosure:
			walkStmts(e.ClosureBody, line)
		}
	}
	walkStmts = func(stmts []cfgbuild.Stmt, line int) {
		for _, s := range stmts {
			l := line
			if s.Line != 0 {
				l = int(s.Line)
			}
			switch s.Tag {
			case cfgbuild.SLet:
				walkExpr(s.Init, l)
			case cfgbuild.SAssign:
				walkExpr(s.RHS, l)
			case cfgbuild.SIf:
				walkExpr(s.Cond, l)
				walkStmts(s.Then, l)
				walkStmts(s.Else, l)
			case cfgbuild.SWhile:
				walkExpr(s.Cond, l)
				walkStmts(s.Body, l)
			case cfgbuild.SReturn:
				walkExpr(s.Value, l)
			case cfgbuild.SMatch:
				for _, arm := range s.Arms {
					walkStmts(arm.Body, l)
				}
			case cfgbuild.SExprStmt:
				walkExpr(s.Expr, l)
			}
		}
	}
	walkStmts(fn.Body, fn.Line)

	types := make([]FlakinessType, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	items := make([]debt.Item, 0, len(types))
	for _, t := range types {
		line := seen[t]
		items = append(items, debt.Item{
			ID:       debt.NewID("flaky-test", debt.Testing, fn.File, line),
			Kind:     debt.Testing,
			Priority: t.Priority(),
			File:     fn.File,
			Line:     line,
			Message:  "test '" + fn.Name + "' may be flaky: " + string(t),
			Context:  map[string]string{"flakiness_type": string(t), "impact": string(impactOf(t))},
		})
	}
	return items
}
