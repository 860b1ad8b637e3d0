// Package suppression implements §4.6/§6's debtmap:ignore comment grammar:
// per-file block and line suppression lookup, answering is_suppressed(line,
// kind) in O(1) against a line-indexed map; against blocks sorted by start
// line, a binary search finds the last block starting at or before the line
// and every earlier block is then scanned, so that part is linear in the
// number of such blocks in the worst case. Grounded on
// original_source/src/debt/suppression.rs for the grammar and regex shapes,
// adapted from its linear block scan to a sorted/binary-searched one per §4.6.
package suppression

import (
	"regexp"
	"sort"
	"strings"

	"github.com/viant/debtmap/internal/debt"
)

// Language selects the comment-prefix convention used to recognize
// suppression comments in a file's source text.
type Language string

const (
	Go     Language = "go"
	Rust   Language = "rust"
	Python Language = "python"
)

func commentPrefix(lang Language) string {
	switch lang {
	case Python:
		return "#"
	default:
		return "//"
	}
}

// Block is a closed ignore-start/ignore-end range.
type Block struct {
	StartLine int
	EndLine   int
	Types     []debt.Type // nil means "all types"
	Reason    string
}

// Rule is a single-line suppression (same-line ignore, or ignore-next-line).
type Rule struct {
	Types             []debt.Type
	Reason            string
	AppliesToNextLine bool
}

// UnclosedBlock records an ignore-start with no matching ignore-end.
type UnclosedBlock struct {
	File      string
	StartLine int
}

// Context answers per-(line, kind) suppression queries for one file.
type Context struct {
	blocks          []Block // sorted by StartLine
	lineSuppression map[int]Rule
	Unclosed        []UnclosedBlock
}

func matchesType(types []debt.Type, kind debt.Type) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if t == kind {
			return true
		}
	}
	return false
}

// IsSuppressed reports whether (line, kind) is silenced by a closed block
// covering it, a same-line ignore comment, or the previous line's
// ignore-next-line comment (§4.6, P9).
func (c *Context) IsSuppressed(line int, kind debt.Type) bool {
	if c.inSuppressedBlock(line, kind) {
		return true
	}
	if rule, ok := c.lineSuppression[line]; ok && matchesType(rule.Types, kind) {
		return true
	}
	if line > 1 {
		if rule, ok := c.lineSuppression[line-1]; ok && rule.AppliesToNextLine && matchesType(rule.Types, kind) {
			return true
		}
	}
	return false
}

// inSuppressedBlock binary-searches the sorted block list for the last block
// starting at or before `line`, then linearly checks that block and every
// earlier one, returning true at the first that covers the line and matches
// kind (nested blocks can cover a line after a later-starting block has
// ended, so the scan does not stop early).
func (c *Context) inSuppressedBlock(line int, kind debt.Type) bool {
	idx := sort.Search(len(c.blocks), func(i int) bool {
		return c.blocks[i].StartLine > line
	})
	for i := idx - 1; i >= 0; i-- {
		b := c.blocks[i]
		if line < b.StartLine {
			continue
		}
		if line <= b.EndLine && matchesType(b.Types, kind) {
			return true
		}
	}
	return false
}

// Stats summarizes suppression activity for reporting.
type Stats struct {
	TotalSuppressions int
	ByType            map[debt.Type]int
	Unclosed          []UnclosedBlock
}

// Stats aggregates counts across closed blocks and line rules.
func (c *Context) Stats() Stats {
	byType := map[debt.Type]int{}
	total := 0
	for _, b := range c.blocks {
		total++
		for _, t := range b.Types {
			byType[t]++
		}
	}
	for _, r := range c.lineSuppression {
		total++
		for _, t := range r.Types {
			byType[t]++
		}
	}
	return Stats{TotalSuppressions: total, ByType: byType, Unclosed: c.Unclosed}
}

type patternSet struct {
	blockStart *regexp.Regexp
	blockEnd   *regexp.Regexp
	nextLine   *regexp.Regexp
	line       *regexp.Regexp
}

// patternsFor builds the four suppression regexes anchored to a single
// comment prefix, mirroring the original's per-language regex construction
// rather than accepting any prefix in any file. Built fresh per call (not
// cached) since Parse runs concurrently across the orchestrator's per-file
// worker pool and a shared mutable cache would need its own locking for no
// real benefit — regexp.MustCompile on these small patterns is cheap.
func patternsFor(prefix string) *patternSet {
	esc := regexp.QuoteMeta(prefix)
	return &patternSet{
		blockStart: regexp.MustCompile(`^\s*` + esc + `\s*debtmap:ignore-start(?:\[([\w,*]+)\])?(?:\s*--\s*(.*))?\s*$`),
		blockEnd:   regexp.MustCompile(`^\s*` + esc + `\s*debtmap:ignore-end\s*$`),
		nextLine:   regexp.MustCompile(`^\s*` + esc + `\s*debtmap:ignore-next-line(?:\[([\w,*]+)\])?(?:\s*--\s*(.*))?\s*$`),
		line:       regexp.MustCompile(esc + `\s*debtmap:ignore(?:\[([\w,*]+)\])?(?:\s*--\s*(.*))?\s*$`),
	}
}

type openBlock struct {
	startLine int
	types     []debt.Type
	reason    string
}

// Parse scans file content once, in source-line order, building a Context.
// lang selects the comment prefix the four suppression forms are anchored to,
// matching the original's per-language regex construction.
func Parse(content string, lang Language, file string) *Context {
	pat := patternsFor(commentPrefix(lang))
	ctx := &Context{lineSuppression: map[int]Rule{}}

	var open []openBlock
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lineNumber := i + 1

		if m := pat.blockStart.FindStringSubmatch(line); m != nil {
			open = append(open, openBlock{
				startLine: lineNumber,
				types:     parseDebtTypes(m[1]),
				reason:    m[2],
			})
			continue
		}

		if pat.blockEnd.MatchString(line) {
			if n := len(open); n > 0 {
				b := open[n-1]
				open = open[:n-1]
				ctx.blocks = append(ctx.blocks, Block{
					StartLine: b.startLine,
					EndLine:   lineNumber,
					Types:     b.types,
					Reason:    b.reason,
				})
			}
			continue
		}

		if m := pat.nextLine.FindStringSubmatch(line); m != nil {
			ctx.lineSuppression[lineNumber] = Rule{
				Types:             parseDebtTypes(m[1]),
				Reason:            m[2],
				AppliesToNextLine: true,
			}
			continue
		}

		if m := pat.line.FindStringSubmatch(line); m != nil {
			ctx.lineSuppression[lineNumber] = Rule{
				Types:  parseDebtTypes(m[1]),
				Reason: m[2],
			}
		}
	}

	for _, b := range open {
		ctx.Unclosed = append(ctx.Unclosed, UnclosedBlock{File: file, StartLine: b.startLine})
	}

	sort.Slice(ctx.blocks, func(i, j int) bool { return ctx.blocks[i].StartLine < ctx.blocks[j].StartLine })
	return ctx
}

func parseDebtTypes(raw string) []debt.Type {
	if raw == "" || raw == "*" {
		return nil
	}
	var out []debt.Type
	for _, tag := range strings.Split(raw, ",") {
		switch strings.ToLower(strings.TrimSpace(tag)) {
		case "todo", "fixme":
			out = append(out, debt.TodoFixme)
		case "smell", "codesmell":
			out = append(out, debt.CodeSmell)
		case "duplication", "duplicate":
			out = append(out, debt.Duplication)
		case "complexity":
			out = append(out, debt.Complexity)
		case "dependency":
			out = append(out, debt.Dependency)
		}
	}
	return out
}
