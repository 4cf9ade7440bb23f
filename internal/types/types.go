// Package types implements the tagged-variant Type representation shared
// by the AST, the analyzer passes, and IR lowering. Each variant of the
// language's type grammar is its own Go type implementing the Type
// interface, following the same pattern as the teacher's typesystem
// package (TCon/TApp/TFunc implementing a common Type interface) rather
// than a single discriminated struct.
package types

// Type is the interface implemented by every member of the type grammar
// in spec.md §3: primitives, containers, and structural types.
type Type interface {
	// String renders the type the way diagnostics and the textual IR
	// plan print it.
	String() string

	// Apply performs a structural substitution, replacing any Unknown
	// or Infer placeholder named in s with its bound type. Concrete
	// types without placeholders return themselves unchanged.
	Apply(s Subst) Type

	// typeNode is unexported so only this package can add new variants.
	typeNode()
}

// Subst maps a placeholder name (an Unknown or Infer slot) to the
// concrete type it has been resolved to. Built incrementally by the
// unifier in pass 6 and by generic instantiation in pass 7.
type Subst map[string]Type

// Primitive is a scalar type with no component types.
type Primitive struct {
	Name PrimitiveName
}

func (Primitive) typeNode()         {}
func (p Primitive) String() string  { return string(p.Name) }
func (p Primitive) Apply(Subst) Type { return p }

// PrimitiveName enumerates every primitive listed in spec.md §3.
type PrimitiveName string

const (
	I8     PrimitiveName = "i8"
	I16    PrimitiveName = "i16"
	I32    PrimitiveName = "i32"
	I64    PrimitiveName = "i64"
	I128   PrimitiveName = "i128"
	U8     PrimitiveName = "u8"
	U16    PrimitiveName = "u16"
	U32    PrimitiveName = "u32"
	U64    PrimitiveName = "u64"
	U128   PrimitiveName = "u128"
	F16    PrimitiveName = "f16"
	F32    PrimitiveName = "f32"
	F64    PrimitiveName = "f64"
	Bool   PrimitiveName = "bool"
	Byte   PrimitiveName = "byte"
	Str    PrimitiveName = "string"
	AnyTy  PrimitiveName = "any"
	Unit   PrimitiveName = "unit"
	NilTy  PrimitiveName = "nil"
	Never  PrimitiveName = "never"
)

// Prim constructs a Primitive of the given name. Shorthand used
// throughout the analyzer instead of repeating the struct literal.
func Prim(name PrimitiveName) Type { return Primitive{Name: name} }

var signedInts = map[PrimitiveName]int{I8: 8, I16: 16, I32: 32, I64: 64, I128: 128}
var unsignedInts = map[PrimitiveName]int{U8: 8, U16: 16, U32: 32, U64: 64, U128: 128}

// IsInteger reports whether t is one of the i8..u128 primitives.
func IsInteger(t Type) bool {
	p, ok := t.(Primitive)
	if !ok {
		return false
	}
	_, signed := signedInts[p.Name]
	_, unsigned := unsignedInts[p.Name]
	return signed || unsigned
}

// IsFloat reports whether t is f16/f32/f64.
func IsFloat(t Type) bool {
	p, ok := t.(Primitive)
	if !ok {
		return false
	}
	return p.Name == F16 || p.Name == F32 || p.Name == F64
}

// WidestIntegerFor returns the narrowest signed integer type that can
// hold lit without truncation, per the numeric-literal defaulting rule
// in spec.md §4.7: "the widest integer type consistent with their
// magnitude, then to signed 32-bit if ambiguous." Magnitude drives the
// choice only when the literal does not fit in i32; otherwise i32 wins,
// matching "signed 32-bit when unconstrained" (see DESIGN.md, Open
// Question on literal defaulting).
func WidestIntegerFor(lit int64) Type {
	switch {
	case lit >= -(1<<31) && lit < (1 << 31):
		return Prim(I32)
	case lit >= -(1<<63) && lit <= (1<<63 - 1):
		return Prim(I64)
	default:
		return Prim(I128)
	}
}

// ParseIntWidth extracts the bit width from a signed/unsigned integer
// primitive name, used by the lowering layer to pick alignment (§4.10).
func ParseIntWidth(name PrimitiveName) (width int, ok bool) {
	if w, found := signedInts[name]; found {
		return w, true
	}
	if w, found := unsignedInts[name]; found {
		return w, true
	}
	return 0, false
}
