// Package diagnostics accumulates and prints the diagnostics the core
// produces while generating and solving constraints (§5 "Progress
// diagnostics may be printed to stderr", §6 "warn_root_cause /
// warn_all_root_cause").
//
// Grounded on the teacher's cmd/lsp/diagnostics.go (a flat slice of
// diagnostic values with file/position/message/severity, converted for
// display at the edge rather than carrying presentation logic itself).
package diagnostics

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/checkedc-infer/internal/loc"
)

// Severity mirrors the handful of levels the teacher's LSP diagnostics use.
type Severity int

const (
	Warning Severity = iota
	Error
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Info:
		return "info"
	default:
		return "warning"
	}
}

// Diagnostic is one accumulated message, optionally carrying the reasons
// (§4.1 Reason strings) that produced it when root-cause reporting is on.
type Diagnostic struct {
	Loc      loc.PersistentSourceLocation
	Severity Severity
	Message  string
	Reasons  []string
}

// Collector accumulates diagnostics for one ProgramInfo run. It is not
// safe for concurrent use without the caller's own mutex (the core already
// serializes all public entries per §5).
type Collector struct {
	items []Diagnostic
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector { return &Collector{} }

// Add records one diagnostic.
func (c *Collector) Add(d Diagnostic) { c.items = append(c.items, d) }

// Warnf records a Warning-severity diagnostic.
func (c *Collector) Warnf(l loc.PersistentSourceLocation, reasons []string, format string, args ...any) {
	c.Add(Diagnostic{Loc: l, Severity: Warning, Message: fmt.Sprintf(format, args...), Reasons: reasons})
}

// Errorf records an Error-severity diagnostic.
func (c *Collector) Errorf(l loc.PersistentSourceLocation, format string, args ...any) {
	c.Add(Diagnostic{Loc: l, Severity: Error, Message: fmt.Sprintf(format, args...)})
}

// All returns every accumulated diagnostic, sorted by source location for
// deterministic output.
func (c *Collector) All() []Diagnostic {
	out := append([]Diagnostic(nil), c.items...)
	sort.Slice(out, func(i, j int) bool { return out[i].Loc.Less(out[j].Loc) })
	return out
}

// Reset discards every accumulated diagnostic, used between re-solves in
// the interactive invalidation flow (§4.9) so stale root-cause reasons
// don't linger from a constraint set that no longer exists.
func (c *Collector) Reset() { c.items = nil }

// Print writes every diagnostic to w, one per line, colorizing the
// severity tag when w is a terminal (mirrors the teacher's isatty-gated
// coloring in internal/evaluator/builtins_term.go, here applied to
// diagnostic output instead of REPL buffering).
func (c *Collector) Print(w io.Writer) {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	for _, d := range c.All() {
		tag := d.Severity.String()
		if color {
			tag = colorize(d.Severity, tag)
		}
		fmt.Fprintf(w, "%s: %s: %s\n", d.Loc, tag, d.Message)
		for _, r := range d.Reasons {
			fmt.Fprintf(w, "    reason: %s\n", r)
		}
	}
}

func colorize(s Severity, tag string) string {
	code := "33" // yellow: warning
	switch s {
	case Error:
		code = "31"
	case Info:
		code = "36"
	}
	return "\x1b[" + code + "m" + tag + "\x1b[0m"
}
