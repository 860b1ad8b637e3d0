// Package behavioral implements §4.8: behavior categorization, call-graph
// adjacency, a simplified-Louvain clustering pass, production refinement, and
// split recommendations for god-object decomposition. Grounded on
// original_source/src/organization/behavioral_decomposition/{mod,clustering}.rs
// for the categorization precedence table and cohesion formula, and
// analyzer/node.go for the teacher's own call-graph node/edge bookkeeping idiom.
package behavioral

import "strings"

// Category is one behavioral bucket a method name is mapped to.
type Category string

const (
	Construction    Category = "Construction"
	Lifecycle       Category = "Lifecycle"
	Parsing         Category = "Parsing"
	Persistence     Category = "Persistence"
	Validation      Category = "Validation"
	Rendering       Category = "Rendering"
	EventHandling   Category = "EventHandling"
	Filtering       Category = "Filtering"
	Transformation  Category = "Transformation"
	DataAccess      Category = "DataAccess"
	StateManagement Category = "StateManagement"
	Processing      Category = "Processing"
	Communication   Category = "Communication"
)

// Domain builds a Category for the catch-all "prefix as category" bucket,
// e.g. Domain("payment") for methods whose name starts with "payment_".
func Domain(name string) Category {
	return Category("Domain:" + strings.Title(name))
}

// DisplayName renders a Category in Title Case, merging Domain categories that
// only differ by casing (the Domain name itself is already normalized above).
func (c Category) DisplayName() string {
	s := string(c)
	if strings.HasPrefix(s, "Domain:") {
		return strings.TrimPrefix(s, "Domain:")
	}
	var out []rune
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' && s[i-1] >= 'a' && s[i-1] <= 'z' {
			out = append(out, ' ')
		}
		out = append(out, r)
	}
	return string(out)
}

func hasAnyPrefix(name string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func hasAnySubstring(name string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

// CategorizeMethod maps a method name to a BehaviorCategory using the fixed
// precedence order of §4.8: Construction, Lifecycle, Parsing, Persistence,
// Validation, Rendering, EventHandling, Filtering, Transformation, DataAccess,
// StateManagement, Processing, Communication, then a Domain(prefix) fallback.
func CategorizeMethod(name string) Category {
	lower := strings.ToLower(name)
	switch {
	case hasAnyPrefix(lower, "new", "create", "build", "make"):
		return Construction
	case hasAnyPrefix(lower, "init", "setup", "teardown", "cleanup"):
		return Lifecycle
	case hasAnyPrefix(lower, "parse", "read", "extract", "decode", "deserialize", "scan"):
		return Parsing
	case hasAnyPrefix(lower, "save", "load", "serialize"):
		return Persistence
	case hasAnyPrefix(lower, "validate", "check", "verify", "is_", "has_", "can_", "should_"):
		return Validation
	case hasAnyPrefix(lower, "render", "draw", "paint", "display", "show", "present", "format", "to_string", "print"):
		return Rendering
	case hasAnyPrefix(lower, "handle_", "on_", "dispatch"):
		return EventHandling
	case hasAnyPrefix(lower, "filter", "select", "find", "search", "query", "lookup", "match"):
		return Filtering
	case hasAnyPrefix(lower, "transform", "convert", "map", "apply", "adapt"):
		return Transformation
	case hasAnyPrefix(lower, "get_", "set_", "fetch", "retrieve", "access"):
		return DataAccess
	case hasAnySubstring(lower, "_state") || hasAnyPrefix(lower, "update", "modify", "change"):
		return StateManagement
	case hasAnyPrefix(lower, "process", "execute", "run"):
		return Processing
	case hasAnyPrefix(lower, "send", "receive", "transmit", "broadcast", "notify"):
		return Communication
	default:
		prefix := lower
		if idx := strings.IndexByte(lower, '_'); idx > 0 {
			prefix = lower[:idx]
		}
		return Domain(prefix)
	}
}
