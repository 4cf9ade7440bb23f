package ast

import "github.com/vexlang/vexc/internal/types"

type exprBase struct{ SpanID ID }

func (e exprBase) Span() ID      { return e.SpanID }
func (exprBase) expressionNode() {}

// Identifier is a bare name reference, resolved by the analyzer to a
// global, a local binding, or a registered type (spec.md §3 invariant).
type Identifier struct {
	exprBase
	Name string
}

// IntLiteral, FloatLiteral, StringLiteral, BoolLiteral are the scalar
// literal forms. IntLiteral carries no fixed type: defaulting follows
// spec.md §4.7 (types.WidestIntegerFor) unless context pins it.
type IntLiteral struct {
	exprBase
	Value int64
}

type FloatLiteral struct {
	exprBase
	Value float64
}

type StringLiteral struct {
	exprBase
	Value string
}

type BoolLiteral struct {
	exprBase
	Value bool
}

// BinaryExpr is `left op right`.
type BinaryExpr struct {
	exprBase
	Op    string
	Left  Expression
	Right Expression
}

// UnaryExpr is `op operand` (prefix), e.g. `-x`, `!x`, `&x`, `&mut x`.
type UnaryExpr struct {
	exprBase
	Op      string
	Operand Expression
}

// PostfixExpr is `operand op`, e.g. `x?` handled separately via
// TryExpr, but reserved for postfix increment-style operators if the
// grammar ever adds them.
type PostfixExpr struct {
	exprBase
	Op      string
	Operand Expression
}

// CallExpr is `callee(args...)`.
type CallExpr struct {
	exprBase
	Callee Expression
	Args   []Expression
	// TypeArgs holds explicit generic arguments for a call like
	// `Vec<i32>()` (spec.md §4.8).
	TypeArgs []types.Type
}

// MethodCallExpr is `receiver.method(args...)`. IsMutableCall records
// whether the call site requires the method to be one flagged mutable
// (spec.md §3), checked by the immutability pass (§4.2).
type MethodCallExpr struct {
	exprBase
	Receiver      Expression
	Method        string
	Args          []Expression
	TypeArgs      []types.Type
	IsMutableCall bool
}

// FieldAccessExpr is `receiver.field`.
type FieldAccessExpr struct {
	exprBase
	Receiver Expression
	Field    string
}

// IndexExpr is `base[index]`.
type IndexExpr struct {
	exprBase
	Base  Expression
	Index Expression
}

// StructLiteralField is one `name: value` pair in a struct literal.
type StructLiteralField struct {
	Name  string
	Value Expression
}

// StructLiteralExpr is `TypeName { field: value, ... }`.
type StructLiteralExpr struct {
	exprBase
	TypeName string
	TypeArgs []types.Type
	Fields   []StructLiteralField
}

// MatchArm pairs a pattern (with optional guard) to a result
// expression, the expression-level counterpart of SwitchCase.
type MatchArm struct {
	Pattern Pattern
	Guard   Expression
	Result  Expression
}

// MatchExpr is a pattern-match expression (spec.md §4.9).
type MatchExpr struct {
	exprBase
	Subject Expression
	Arms    []MatchArm
}

// TryExpr is `e?` (spec.md §4.9).
type TryExpr struct {
	exprBase
	Inner Expression
}

// RangeExpr is `start..end` or `start..=end`.
type RangeExpr struct {
	exprBase
	Start     Expression // nil for an open-start range
	End       Expression // nil for an open-end range
	Inclusive bool
}

// CastExpr is `expr as Type`.
type CastExpr struct {
	exprBase
	Inner  Expression
	Target types.Type
}

// CaptureMode classifies how a closure literal claims its free
// bindings, either by explicit annotation on the literal or, when no
// annotation is present, left unset until pass 5 infers it (spec.md
// §4.6).
type CaptureMode int

const (
	CaptureUnspecified CaptureMode = iota
	CaptureShared
	CaptureExclusive
	CaptureOneShot
)

func (m CaptureMode) String() string {
	switch m {
	case CaptureShared:
		return "shared-capturing"
	case CaptureExclusive:
		return "exclusive-capturing"
	case CaptureOneShot:
		return "one-shot-consuming"
	default:
		return "unspecified"
	}
}

// ClosureExpr is a closure literal. Annotation is the explicit
// capture-mode marker in source, if any; CaptureUnspecified means the
// literal carried none and pass 5 must infer it from Body.
type ClosureExpr struct {
	exprBase
	Params     []Param
	ReturnType types.Type
	Body       *Block
	Annotation CaptureMode
}

// ChannelRecvExpr is `<-ch`.
type ChannelRecvExpr struct {
	exprBase
	Channel Expression
}

// BlockExpr adapts a *Block (with a trailing expression) to the
// Expression interface, e.g. for `let x = { ...; value };`.
type BlockExpr struct {
	exprBase
	Body *Block
}

// TypeConstructorExpr is an explicit type-directed construction such as
// `Vec::new()` or `Option::Some(x)` prior to call resolution.
type TypeConstructorExpr struct {
	exprBase
	TypeName string
	Ctor     string // variant/associated-function name, e.g. "new", "Some"
	TypeArgs []types.Type
	Args     []Expression
}

func NewIdentifier(id ID, name string) *Identifier {
	return &Identifier{exprBase: exprBase{id}, Name: name}
}
