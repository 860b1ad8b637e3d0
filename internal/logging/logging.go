// Package logging is the ambient stderr warning/info shim used across the
// module, matching the teacher's own plain fmt.Fprintf(os.Stderr, ...) idiom
// (no logging library is pulled into the teacher's go.mod, so none is
// introduced here either — see DESIGN.md for why).
package logging

import (
	"fmt"
	"os"
	"time"
)

// Level tags the severity of a logged line.
type Level string

const (
	Info  Level = "INFO"
	Warn  Level = "WARN"
	Error Level = "ERROR"
)

// Logger writes timestamped, leveled lines to an output stream (os.Stderr by
// default). It carries no other state: every call is independently safe to
// invoke from concurrent goroutines since os.File writes are already
// safe for concurrent use on the platforms Go targets.
type Logger struct {
	out    *os.File
	prefix string
}

// New returns a Logger writing to os.Stderr.
func New(prefix string) *Logger {
	return &Logger{out: os.Stderr, prefix: prefix}
}

func (l *Logger) log(level Level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	ts := time.Now().Format("2006-01-02T15:04:05Z07:00")
	if l.prefix != "" {
		fmt.Fprintf(l.out, "%s [%s] %s: %s\n", ts, level, l.prefix, msg)
		return
	}
	fmt.Fprintf(l.out, "%s [%s] %s\n", ts, level, msg)
}

// Infof logs an informational line.
func (l *Logger) Infof(format string, args ...any) { l.log(Info, format, args...) }

// Warnf logs a warning line — the cache's size-threshold and the
// orchestrator's per-file timeout messages use this.
func (l *Logger) Warnf(format string, args ...any) { l.log(Warn, format, args...) }

// Errorf logs an error line.
func (l *Logger) Errorf(format string, args ...any) { l.log(Error, format, args...) }
