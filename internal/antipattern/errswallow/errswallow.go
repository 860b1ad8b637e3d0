// Package errswallow implements §4.5.2: per-function detection of discarded
// fallible results (wildcard-bound, throwaway-assigned, or caught and ignored),
// grounded on side_effect_analyzer.go's per-function detector shape and
// original_source/src/debt/panic_patterns.rs's id/debt-type conventions (error
// swallowing shares DebtType::ErrorSwallowing with panic patterns there).
package errswallow

import (
	"strconv"
	"strings"

	"github.com/viant/debtmap/internal/antipattern"
	"github.com/viant/debtmap/internal/cfgbuild"
	"github.com/viant/debtmap/internal/debt"
)

// Tag names one recognized swallow pattern.
type Tag string

const (
	WildcardBind  Tag = "wildcard-bind"
	ThrowawayBind Tag = "throwaway-bind"
	EmptyCatch    Tag = "empty-catch"
)

var errVariantHints = []string{"err", "error", "fail"}

func looksLikeErrorArm(patternName string) bool {
	lower := strings.ToLower(patternName)
	for _, h := range errVariantHints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}

func isFallibleInit(e *cfgbuild.Expr) bool {
	return e != nil && (e.Tag == cfgbuild.ECall || e.Tag == cfgbuild.EMethodCall)
}

// Detect walks fn.Body and returns a single summarizing debt item (count +
// pattern tags) when at least one swallow pattern is found, or no items.
func Detect(fn antipattern.FunctionInfo) []debt.Item {
	var tags []Tag
	var firstLine int

	record := func(tag Tag, line int) {
		if len(tags) == 0 {
			firstLine = line
		}
		tags = append(tags, tag)
	}

	var walkStmts func(stmts []cfgbuild.Stmt, line int)
	walkStmts = func(stmts []cfgbuild.Stmt, line int) {
		for _, s := range stmts {
			l := line
			if s.Line != 0 {
				l = int(s.Line)
			}
			switch s.Tag {
			case cfgbuild.SLet:
				if isFallibleInit(s.Init) {
					switch {
					case s.Pattern.Tag == cfgbuild.PWildcard:
						record(WildcardBind, l)
					case s.Pattern.Tag == cfgbuild.PIdent && strings.HasPrefix(s.Pattern.Name, "_"):
						record(ThrowawayBind, l)
					}
				}
			case cfgbuild.SIf:
				walkStmts(s.Then, l)
				walkStmts(s.Else, l)
			case cfgbuild.SWhile:
				walkStmts(s.Body, l)
			case cfgbuild.SMatch:
				for _, arm := range s.Arms {
					if looksLikeErrorArm(arm.Pattern.Name) && len(arm.Body) == 0 {
						record(EmptyCatch, l)
					}
					walkStmts(arm.Body, l)
				}
			}
		}
	}
	walkStmts(fn.Body, fn.Line)

	if len(tags) == 0 {
		return nil
	}

	tagStrs := make([]string, len(tags))
	for i, t := range tags {
		tagStrs[i] = string(t)
	}

	return []debt.Item{{
		ID:       debt.NewID("error-swallow", debt.ErrorSwallowing, fn.File, firstLine),
		Kind:     debt.ErrorSwallowing,
		Priority: debt.Medium,
		File:     fn.File,
		Line:     firstLine,
		Message:  "possible discarded error result in " + fn.Name,
		Context: map[string]string{
			"count":    strconv.Itoa(len(tags)),
			"patterns": strings.Join(tagStrs, ","),
		},
	}}
}
