package types

import (
	"fmt"
	"strings"
)

// Array is a fixed-length container Array(T, N).
type Array struct {
	Elem Type
	Len  int
}

func (Array) typeNode() {}
func (a Array) String() string { return fmt.Sprintf("[%s; %d]", a.Elem.String(), a.Len) }
func (a Array) Apply(s Subst) Type { return Array{Elem: a.Elem.Apply(s), Len: a.Len} }

// Slice is a dynamically sized view Slice(T, mut).
type Slice struct {
	Elem    Type
	Mutable bool
}

func (Slice) typeNode() {}
func (s Slice) String() string {
	if s.Mutable {
		return fmt.Sprintf("[mut %s]", s.Elem.String())
	}
	return fmt.Sprintf("[%s]", s.Elem.String())
}
func (s Slice) Apply(sub Subst) Type { return Slice{Elem: s.Elem.Apply(sub), Mutable: s.Mutable} }

// Tuple is an ordered, fixed-arity product Tuple([T]).
type Tuple struct {
	Elems []Type
}

func (Tuple) typeNode() {}
func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t Tuple) Apply(s Subst) Type {
	out := make([]Type, len(t.Elems))
	for i, e := range t.Elems {
		out[i] = e.Apply(s)
	}
	return Tuple{Elems: out}
}

// Reference is a borrow Reference(T, mut): &T or &mut T.
type Reference struct {
	Referent Type
	Mutable  bool
}

func (Reference) typeNode() {}
func (r Reference) String() string {
	if r.Mutable {
		return "&mut " + r.Referent.String()
	}
	return "&" + r.Referent.String()
}
func (r Reference) Apply(s Subst) Type { return Reference{Referent: r.Referent.Apply(s), Mutable: r.Mutable} }

// RawPtr is an unchecked pointer RawPtr(T, const/mut).
type RawPtr struct {
	Pointee Type
	Mutable bool
}

func (RawPtr) typeNode() {}
func (p RawPtr) String() string {
	if p.Mutable {
		return "*mut " + p.Pointee.String()
	}
	return "*const " + p.Pointee.String()
}
func (p RawPtr) Apply(s Subst) Type { return RawPtr{Pointee: p.Pointee.Apply(s), Mutable: p.Mutable} }

// Vec is the owned, growable heap container Vec(T).
type Vec struct{ Elem Type }

func (Vec) typeNode()          {}
func (v Vec) String() string   { return "Vec<" + v.Elem.String() + ">" }
func (v Vec) Apply(s Subst) Type { return Vec{Elem: v.Elem.Apply(s)} }

// Box is a single owned heap allocation Box(T).
type Box struct{ Elem Type }

func (Box) typeNode()          {}
func (b Box) String() string   { return "Box<" + b.Elem.String() + ">" }
func (b Box) Apply(s Subst) Type { return Box{Elem: b.Elem.Apply(s)} }

// Option is Option(T): Some(T) | None.
type Option struct{ Elem Type }

func (Option) typeNode()          {}
func (o Option) String() string   { return "Option<" + o.Elem.String() + ">" }
func (o Option) Apply(s Subst) Type { return Option{Elem: o.Elem.Apply(s)} }

// Result is Result(T, E): Ok(T) | Err(E).
type Result struct {
	Ok  Type
	Err Type
}

func (Result) typeNode() {}
func (r Result) String() string {
	return "Result<" + r.Ok.String() + ", " + r.Err.String() + ">"
}
func (r Result) Apply(s Subst) Type {
	return Result{Ok: r.Ok.Apply(s), Err: r.Err.Apply(s)}
}

// Channel is Channel(T), the source language's channel handle type.
type Channel struct{ Elem Type }

func (Channel) typeNode()          {}
func (c Channel) String() string   { return "Channel<" + c.Elem.String() + ">" }
func (c Channel) Apply(s Subst) Type { return Channel{Elem: c.Elem.Apply(s)} }

// Future is Future(T), the handle produced by an async function.
type Future struct{ Elem Type }

func (Future) typeNode()          {}
func (f Future) String() string   { return "Future<" + f.Elem.String() + ">" }
func (f Future) Apply(s Subst) Type { return Future{Elem: f.Elem.Apply(s)} }
