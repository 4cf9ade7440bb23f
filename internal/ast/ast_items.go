package ast

import "github.com/vexlang/vexc/internal/types"

// TypeParam is a single generic type parameter with optional trait
// bounds and an optional default, per spec.md §3's Function/Struct/Enum
// shape.
type TypeParam struct {
	Name    string
	Bounds  []string // trait names this parameter must satisfy
	Default types.Type
}

// Param is an ordered function parameter: name plus declared type.
type Param struct {
	Name string
	Type types.Type
}

// Receiver is a method's optional receiver: a named binding plus a
// receiver type, which may itself be a Reference with a mutability
// flag (spec.md §3).
type Receiver struct {
	Name string
	Type types.Type
}

// Function is shared by free functions, trait-impl methods, and
// (legacy) inline struct/enum methods.
type Function struct {
	itemNode
	Name           string
	Receiver       *Receiver // nil for free functions
	Params         []Param
	TypeParams     []TypeParam
	ReturnType     types.Type // nil means unit
	Body           *Block
	Mutable        bool // declared with the mutable-method marker
	IsAsync        bool
}

func (f *Function) HasReceiver() bool { return f.Receiver != nil }

// Field is a struct field: name plus declared type.
type Field struct {
	Name string
	Type types.Type
}

// Struct declares a product type. InlineMethods is the legacy path
// (methods declared inside the struct body) which registration (stage
// 2) accepts but flags with a warning diagnostic, per spec.md §3.
type Struct struct {
	itemNode
	Name           string
	TypeParams     []TypeParam
	Fields         []Field
	Implements     []string // trait names
	InlineMethods  []*Function
}

// Variant is one arm of an Enum: a name plus the ordered payload
// field types (empty for a unit variant).
type Variant struct {
	Name   string
	Fields []types.Type
}

// Enum declares a sum type.
type Enum struct {
	itemNode
	Name          string
	TypeParams    []TypeParam
	Variants      []Variant
	Implements    []string
	InlineMethods []*Function
}

// Trait declares a named method contract. DefaultBodies holds the
// subset of methods that ship a default implementation, keyed by
// method name — used to seed TraitDefaults (spec.md §4.1 analogue of
// funxy's "TraitName.methodName" -> FunctionStatement map).
type Trait struct {
	itemNode
	Name          string
	Methods       []Function // signatures only; Body nil unless default
	DefaultBodies map[string]*Function
}

// TraitImpl is `impl Trait for Type { ... }`.
type TraitImpl struct {
	itemNode
	Trait      string
	TypeParams []TypeParam
	ForType    types.Type
	Methods    []*Function
}

// Const is a top-level constant binding.
type Const struct {
	itemNode
	Name           string
	TypeAnnotation types.Type // may be nil, inferred from Value
	Value          Expression
}

// TypeAlias is `type Name<T...> = Type`.
type TypeAlias struct {
	itemNode
	Name       string
	TypeParams []TypeParam
	Aliased    types.Type
}

// ExternFunc is a single function signature inside an ExternBlock.
type ExternFunc struct {
	Name       string
	Params     []Param
	ReturnType types.Type
}

// ExternBlock groups a set of foreign function declarations under one
// ABI/linkage tag (e.g. `extern "C" { ... }`).
type ExternBlock struct {
	itemNode
	ABI       string
	Functions []ExternFunc
}

func NewFunction(id ID, name string) *Function {
	return &Function{itemNode: itemNode{id}, Name: name}
}

// NewStruct, NewTrait, NewTraitImpl, and NewEnum let an external
// front end (internal/parser) mint these item kinds without reaching
// into the unexported itemNode embedding directly.
func NewStruct(id ID, name string) *Struct {
	return &Struct{itemNode: itemNode{id}, Name: name}
}

func NewTrait(id ID, name string) *Trait {
	return &Trait{itemNode: itemNode{id}, Name: name, DefaultBodies: map[string]*Function{}}
}

func NewTraitImpl(id ID, trait string, forType types.Type) *TraitImpl {
	return &TraitImpl{itemNode: itemNode{id}, Trait: trait, ForType: forType}
}

func NewEnum(id ID, name string) *Enum {
	return &Enum{itemNode: itemNode{id}, Name: name}
}
