package analyzer

import (
	"sort"

	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/diagnostics"
	"github.com/vexlang/vexc/internal/pipeline"
)

// validatePattern checks the or-pattern rules from spec.md §4.9 and §8
// invariant 9: an empty alternative set is rejected, and every
// alternative of a non-empty or-pattern must bind the same set of
// names. It recurses into nested or-patterns (a TuplePattern or
// StructPattern containing one, etc.) so the rule applies everywhere
// an OrPattern can appear, not just at the top level of a match arm.
func validatePattern(ctx *pipeline.CompileContext, p ast.Pattern) {
	switch pat := p.(type) {
	case ast.OrPattern:
		if len(pat.Alternatives) == 0 {
			ctx.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrEmptyOrPattern,
				resolve(ctx, pat.Span()), "or-pattern has no alternatives"))
			return
		}
		want := sortedNames(pat.Alternatives[0].Names())
		for _, alt := range pat.Alternatives {
			validatePattern(ctx, alt)
			got := sortedNames(alt.Names())
			if !sameNames(want, got) {
				ctx.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrOrPatternBindingMismatch,
					resolve(ctx, alt.Span()), "every alternative of an or-pattern must bind the same names"))
			}
		}
	case ast.TuplePattern:
		for _, e := range pat.Elems {
			validatePattern(ctx, e)
		}
	case ast.StructPattern:
		for _, name := range pat.FieldOrder {
			validatePattern(ctx, pat.Fields[name])
		}
	case ast.EnumPattern:
		for _, e := range pat.Payload {
			validatePattern(ctx, e)
		}
	case ast.ArrayPattern:
		for _, e := range pat.Elems {
			validatePattern(ctx, e)
		}
	case ast.BindingPattern:
		if pat.Sub != nil {
			validatePattern(ctx, pat.Sub)
		}
	}
}

func sortedNames(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
