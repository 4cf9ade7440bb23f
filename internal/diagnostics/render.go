package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ansi color codes used by the renderer when output is a real
// terminal. Mirrors funxy's own terminal-capability gate in
// internal/evaluator/builtins_term.go, which checks isatty before
// emitting any escape sequence.
const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31;1m"
	ansiYellow = "\x1b[33;1m"
	ansiBlue   = "\x1b[34;1m"
	ansiBold   = "\x1b[1m"
	ansiDim    = "\x1b[2m"
)

// Renderer prints diagnostics as human-readable text with a source
// snippet and a caret range under the offending span.
type Renderer struct {
	Color bool
}

// NewRenderer builds a Renderer whose Color default is derived from
// whether w is a terminal, the same isatty.IsTerminal /
// isatty.IsCygwinTerminal pairing funxy uses for stdout.
func NewRenderer(w io.Writer) *Renderer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Renderer{Color: color}
}

func (r *Renderer) paint(code, s string) string {
	if !r.Color {
		return s
	}
	return code + s + ansiReset
}

func (r *Renderer) levelColor(l Level) string {
	switch l {
	case LevelError:
		return ansiRed
	case LevelWarning:
		return ansiYellow
	case LevelNote, LevelHelp:
		return ansiBlue
	default:
		return ""
	}
}

// Render writes one diagnostic to w. sourceLine is the full text of the
// line named by d.Span, used to draw the snippet and caret; callers
// that cannot recover source text (e.g. replaying a serialized
// Diagnostic from JSON) may pass the empty string to skip the snippet.
func (r *Renderer) Render(w io.Writer, d *Diagnostic, sourceLine string) {
	header := fmt.Sprintf("%s[%s]: %s", strings.ToUpper(string(d.Level)), d.Code, d.Message)
	fmt.Fprintln(w, r.paint(r.levelColor(d.Level), header))
	fmt.Fprintf(w, "  %s %s\n", r.paint(ansiDim, "-->"), d.Span.String())

	if sourceLine != "" {
		fmt.Fprintf(w, "%4d | %s\n", d.Span.Line, sourceLine)
		caretCol := d.Span.Column
		if caretCol < 1 {
			caretCol = 1
		}
		length := d.Span.Length
		if length < 1 {
			length = 1
		}
		pad := strings.Repeat(" ", caretCol-1)
		caret := strings.Repeat("^", length)
		fmt.Fprintf(w, "     | %s%s\n", pad, r.paint(r.levelColor(d.Level), caret))
	}

	for _, note := range d.Notes {
		fmt.Fprintf(w, "  %s %s\n", r.paint(ansiBold, "note:"), note)
	}
	for _, rel := range d.Related {
		fmt.Fprintf(w, "  %s %s (%s)\n", r.paint(ansiBold, "related:"), rel.Message, rel.Span)
	}
	if d.Help != "" {
		fmt.Fprintf(w, "  %s %s\n", r.paint(ansiBlue, "help:"), d.Help)
	}
	if d.Suggestion != nil {
		fmt.Fprintf(w, "  %s %s -> %q\n", r.paint(ansiBlue, "suggestion:"), d.Suggestion.Message, d.Suggestion.Replacement)
	}
}

// RenderAll writes every diagnostic in c to w, looking up each one's
// source line from sources (keyed by file path, split into lines by
// the caller — typically the CLI driver after reading the source
// files it compiled).
func (r *Renderer) RenderAll(w io.Writer, c *Collector, sources map[string][]string) {
	for _, d := range c.Diagnostics() {
		line := ""
		if lines, ok := sources[d.Span.File]; ok && d.Span.Line >= 1 && d.Span.Line <= len(lines) {
			line = lines[d.Span.Line-1]
		}
		r.Render(w, d, line)
	}
}
