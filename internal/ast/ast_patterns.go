package ast

import (
	"github.com/vexlang/vexc/internal/span"
	"github.com/vexlang/vexc/internal/types"
)

// Pattern is the tagged variant over pattern forms usable in `let`,
// function parameters, and match arms (spec.md §3, §4.9).
type Pattern interface {
	Node
	patternNode()
	// Names returns every binding name this pattern introduces, in
	// left-to-right order, used by the move checker (§4.3 rule 4) and
	// the guard-check lowering (§4.9).
	Names() []string
}

type patternBase struct{ SpanID ID }

func (p patternBase) Span() span.ID { return p.SpanID }
func (patternBase) patternNode()    {}

// WildcardPattern (`_`) introduces no bindings.
type WildcardPattern struct{ patternBase }

func (WildcardPattern) Names() []string { return nil }

// BindingPattern binds the matched value to Name, optionally
// destructuring further via Sub (e.g. `x @ Some(y)`).
type BindingPattern struct {
	patternBase
	Name string
	Sub  Pattern // nil for a plain binding
}

func (b BindingPattern) Names() []string {
	names := []string{b.Name}
	if b.Sub != nil {
		names = append(names, b.Sub.Names()...)
	}
	return names
}

// LiteralPattern matches a literal constant value; introduces nothing.
type LiteralPattern struct {
	patternBase
	Value Expression
}

func (LiteralPattern) Names() []string { return nil }

// TuplePattern destructures a tuple.
type TuplePattern struct {
	patternBase
	Elems []Pattern
}

func (t TuplePattern) Names() []string {
	var out []string
	for _, e := range t.Elems {
		out = append(out, e.Names()...)
	}
	return out
}

// StructPattern destructures a struct by field name.
type StructPattern struct {
	patternBase
	TypeName string
	Fields   map[string]Pattern
	// FieldOrder preserves source order for deterministic analysis and
	// error messages, since Go map iteration is unordered.
	FieldOrder []string
}

func (s StructPattern) Names() []string {
	var out []string
	for _, name := range s.FieldOrder {
		out = append(out, s.Fields[name].Names()...)
	}
	return out
}

// EnumPattern matches an enum variant, destructuring its payload.
type EnumPattern struct {
	patternBase
	EnumName    string
	VariantName string
	Payload     []Pattern
}

func (e EnumPattern) Names() []string {
	var out []string
	for _, p := range e.Payload {
		out = append(out, p.Names()...)
	}
	return out
}

// ArrayPattern destructures a fixed-length array or slice prefix/suffix.
type ArrayPattern struct {
	patternBase
	Elems []Pattern
	Rest  *BindingPattern // non-nil for `[a, b, ..rest]`
}

func (a ArrayPattern) Names() []string {
	var out []string
	for _, e := range a.Elems {
		out = append(out, e.Names()...)
	}
	if a.Rest != nil {
		out = append(out, a.Rest.Names()...)
	}
	return out
}

// OrPattern is a disjunction of alternatives (`A | B`). Every
// alternative must bind the same set of names with compatible types
// (spec.md §4.9); an empty alternative list is rejected and a single
// alternative behaves identically to the bare pattern (spec.md §8,
// invariant 9).
type OrPattern struct {
	patternBase
	Alternatives []Pattern
}

func (o OrPattern) Names() []string {
	if len(o.Alternatives) == 0 {
		return nil
	}
	return o.Alternatives[0].Names()
}

// TypePattern matches a type constructor, e.g. `x: i32`. Used as a
// guard-free discriminator ahead of generic instantiation.
type TypePattern struct {
	patternBase
	Binding string
	Type    types.Type
}

func (t TypePattern) Names() []string {
	if t.Binding == "" {
		return nil
	}
	return []string{t.Binding}
}
