// Package ast defines the AST entities consumed by the semantic analysis
// core (spec.md §3). The lexer and parser that produce this tree are out
// of scope (spec.md §1); this package only describes the shape they hand
// off, plus the span.Map side table that accompanies it.
//
// The AST is immutable during analysis: passes read it and build their
// own side tables (TypeMap, registries, substitution results) rather
// than mutating nodes in place, matching spec.md §5's "read-only for
// analyzers."
package ast

import "github.com/vexlang/vexc/internal/span"

// Node is the base interface for every AST entity.
type Node interface {
	Span() span.ID
}

// Statement is a Node that can appear in a Block.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node produced by the parser for one source file:
// an ordered sequence of top-level items plus its import list.
type Program struct {
	File    string
	Imports []*Import
	Items   []Item
}

// Import names symbols pulled into scope from another module. The
// package manager resolves the path; the core only needs the list of
// names it introduces (spec.md §4.1, global seeding).
type Import struct {
	SpanID ID
	Path   string
	Names  []string
}

func (i *Import) Span() span.ID { return i.SpanID }

// ID is a local alias so call sites read ast.ID instead of span.ID,
// matching how the rest of the package refers to spans.
type ID = span.ID

// Item is the tagged variant over the ten top-level item kinds named in
// spec.md §3. Each concrete kind below implements Item by embedding
// itemNode.
type Item interface {
	Node
	isItem()
}

type itemNode struct{ SpanID ID }

func (n itemNode) Span() span.ID { return n.SpanID }
func (itemNode) isItem()         {}

// Policy is a compiler-directive item (e.g. `policy no_std` or
// `policy strict_types`), the AST-level counterpart of funxy's
// DirectiveStatement. It carries no semantics of its own beyond being
// recorded by registration (stage 2) and consulted by later passes as a
// flag lookup.
type Policy struct {
	itemNode
	Name string
}

// BuiltinExtension declares that a builtin type (one named in
// config.BuiltinTypeNames) satisfies a trait, without requiring a full
// TraitImpl — the mechanism generic bound-checking (§4.8 step 2) uses to
// let `i32: Copy` succeed. Grounded on
// original_source/vex-compiler/src/borrow_checker/builtins_list.rs,
// which enumerates exactly this kind of builtin/trait pairing.
type BuiltinExtension struct {
	itemNode
	BuiltinType string
	Trait       string
}

func NewPolicy(id ID, name string) *Policy { return &Policy{itemNode: itemNode{id}, Name: name} }
func NewBuiltinExtension(id ID, builtinType, trait string) *BuiltinExtension {
	return &BuiltinExtension{itemNode: itemNode{id}, BuiltinType: builtinType, Trait: trait}
}
