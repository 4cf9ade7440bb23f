// Package diagnostics implements the error-taxonomy and JSON schema from
// spec.md §6–§7. It is reconstructed here in the funxy idiom — a
// `Diagnostic` type with a closed `Code` enum and a deduplicating
// `Collector`, matching `internal/analyzer/analyzer.go`'s walker
// (`addError`, keyed by "line:col:code") even though funxy's own
// `internal/diagnostics` package was not part of the retrieved example
// set.
package diagnostics

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/vexlang/vexc/internal/span"
)

// Level is one of the four diagnostic severities from spec.md §6.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelNote    Level = "note"
	LevelHelp    Level = "help"
)

// Suggestion is a proposed source edit attached to a diagnostic.
type Suggestion struct {
	Message     string  `json:"message"`
	Replacement string  `json:"replacement"`
	Span        span.Span `json:"span"`
}

// Related points at another location relevant to understanding the
// diagnostic (e.g. the original move site for a use-after-move error).
type Related struct {
	Span    span.Span `json:"span"`
	Message string    `json:"message"`
}

// Diagnostic is one entry in the JSON schema of spec.md §6.
type Diagnostic struct {
	Level      Level        `json:"level"`
	Code       Code         `json:"code"`
	Message    string       `json:"message"`
	Span       span.Span    `json:"span"`
	Notes      []string     `json:"notes,omitempty"`
	Help       string       `json:"help,omitempty"`
	Suggestion *Suggestion  `json:"suggestion,omitempty"`
	Related    []Related    `json:"related,omitempty"`
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: [%s] %s (%s)", d.Level, d.Code, d.Message, d.Span)
}

// New constructs a Diagnostic of the given level at sp with message built
// from format/args, following the funxy convention of a single
// `NewError(code, token, args...)` constructor used throughout the
// analyzer.
func New(level Level, code Code, sp span.Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Level:   level,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Span:    sp,
	}
}

func NewError(code Code, sp span.Span, format string, args ...any) *Diagnostic {
	return New(LevelError, code, sp, format, args...)
}

func NewWarning(code Code, sp span.Span, format string, args ...any) *Diagnostic {
	return New(LevelWarning, code, sp, format, args...)
}

func (d *Diagnostic) WithNote(note string) *Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

func (d *Diagnostic) WithHelp(help string) *Diagnostic {
	d.Help = help
	return d
}

func (d *Diagnostic) WithRelated(sp span.Span, message string) *Diagnostic {
	d.Related = append(d.Related, Related{Span: sp, Message: message})
	return d
}

func (d *Diagnostic) WithSuggestion(message, replacement string, sp span.Span) *Diagnostic {
	d.Suggestion = &Suggestion{Message: message, Replacement: replacement, Span: sp}
	return d
}

// Collector accumulates diagnostics across a pass, deduplicating by
// (span, code) exactly as funxy's walker.addError does by
// "line:col:code" — the same finding reported twice by overlapping
// checks (e.g. a recursive helper visited from two call sites) should
// surface once.
type Collector struct {
	// BuildID correlates every diagnostic emitted by one compiler
	// invocation, the hook a language server uses to match a batch of
	// JSON diagnostics to the run that produced them (spec.md §6).
	BuildID string

	seen  map[string]bool
	items []*Diagnostic
}

// NewCollector creates a Collector stamped with a fresh build ID.
func NewCollector() *Collector {
	return &Collector{BuildID: uuid.NewString(), seen: make(map[string]bool)}
}

func (c *Collector) Add(d *Diagnostic) {
	if d == nil {
		return
	}
	key := fmt.Sprintf("%s:%d:%d:%s", d.Span.File, d.Span.Line, d.Span.Column, d.Code)
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.items = append(c.items, d)
}

func (c *Collector) AddAll(ds []*Diagnostic) {
	for _, d := range ds {
		c.Add(d)
	}
}

// Diagnostics returns every collected diagnostic in insertion order.
func (c *Collector) Diagnostics() []*Diagnostic { return c.items }

// HasErrors reports whether any collected diagnostic is at LevelError,
// the condition spec.md §7 uses to decide whether a pass failure is
// fatal ("a fatal error in pass N aborts pass N+1").
func (c *Collector) HasErrors() bool {
	for _, d := range c.items {
		if d.Level == LevelError {
			return true
		}
	}
	return false
}
