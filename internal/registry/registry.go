// Package registry holds the registries owned by the core (spec.md
// §3): the indexed view of every struct, enum, trait, trait impl, type
// alias, function, extern, and constant in a Program, plus the
// memoization table for generic instantiation. Registrations live for
// the compilation of exactly one Program (spec.md §3, "Lifecycles").
//
// Grounded on funxy's internal/symbols/symbol_table*.go family, which
// splits an equivalent registry across several files by concern
// (traits, aliases, dispatch, instances); this package keeps the same
// split at a smaller scale appropriate to vexc's narrower core.
package registry

import (
	"strings"

	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/types"
)

// TraitImplKey identifies one `impl Trait for Type` registration.
type TraitImplKey struct {
	Trait string
	Type  string // types.Type.String(), used as a stable map key
}

// Registry is the set of indexes built by stage 2 (registration) and
// consulted by every later pass.
type Registry struct {
	StructDefs  map[string]*ast.Struct
	EnumDefs    map[string]*ast.Enum
	TraitDefs   map[string]*ast.Trait
	TypeAliases map[string]*ast.TypeAlias
	FunctionDefs map[string]*ast.Function
	GlobalConstants map[string]*ast.Const
	ExternFuncs map[string]*ast.ExternFunc

	// TraitImpls maps (trait, type) to the method set it provides.
	TraitImpls map[TraitImplKey]map[string]*ast.Function

	// BuiltinExtensions maps a builtin type name to the set of traits
	// it is declared to satisfy without a full impl (spec.md §4.8
	// step 2).
	BuiltinExtensions map[string]map[string]bool

	// GenericInstantiations memoizes (entity-name, type-args) to the
	// mangled name already emitted for it (spec.md §4.8,
	// "Memoization key"). Mutated only during stage 10, monotonically
	// (spec.md §5).
	GenericInstantiations map[string]string

	// Policies records every top-level `policy` directive seen, by
	// name, for passes that branch on a compiler flag.
	Policies map[string]bool
}

// New returns an empty Registry ready for stage 2 to populate.
func New() *Registry {
	return &Registry{
		StructDefs:            make(map[string]*ast.Struct),
		EnumDefs:              make(map[string]*ast.Enum),
		TraitDefs:             make(map[string]*ast.Trait),
		TypeAliases:           make(map[string]*ast.TypeAlias),
		FunctionDefs:          make(map[string]*ast.Function),
		GlobalConstants:       make(map[string]*ast.Const),
		ExternFuncs:           make(map[string]*ast.ExternFunc),
		TraitImpls:            make(map[TraitImplKey]map[string]*ast.Function),
		BuiltinExtensions:     make(map[string]map[string]bool),
		GenericInstantiations: make(map[string]string),
		Policies:              make(map[string]bool),
	}
}

// InstantiationKey builds the memoization key for a (name, type-args)
// pair: the entity name concatenated with each argument's string form,
// per spec.md §4.8 ("list of concrete type-argument strings").
func InstantiationKey(name string, typeArgs []types.Type) string {
	var b strings.Builder
	b.WriteString(name)
	for _, a := range typeArgs {
		b.WriteByte('\x00')
		b.WriteString(a.String())
	}
	return b.String()
}

// MangledName computes Name_Arg1_Arg2_... per spec.md §4.8 step 4.
func MangledName(name string, typeArgs []types.Type) string {
	parts := make([]string, 0, len(typeArgs)+1)
	parts = append(parts, name)
	for _, a := range typeArgs {
		parts = append(parts, sanitizeForMangling(a.String()))
	}
	return strings.Join(parts, "_")
}

func sanitizeForMangling(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// LookupInstantiation returns the mangled name previously registered
// for key, if any. Spec.md §8 invariant 1 requires this to be
// idempotent: calling it twice with the same key yields the same
// result.
func (r *Registry) LookupInstantiation(key string) (string, bool) {
	name, ok := r.GenericInstantiations[key]
	return name, ok
}

// RegisterInstantiation records mangled as the specialization for key.
// Registration never overwrites an existing entry with a different
// value; callers should check LookupInstantiation first.
func (r *Registry) RegisterInstantiation(key, mangled string) {
	if _, exists := r.GenericInstantiations[key]; exists {
		return
	}
	r.GenericInstantiations[key] = mangled
}

// SatisfiesBound reports whether concreteType (rendered via its
// String() form) has a registered trait impl for traitName, or is a
// builtin type with a matching BuiltinExtension (spec.md §4.8 step 2).
func (r *Registry) SatisfiesBound(concreteType types.Type, traitName string) bool {
	key := TraitImplKey{Trait: traitName, Type: concreteType.String()}
	if _, ok := r.TraitImpls[key]; ok {
		return true
	}
	if p, ok := concreteType.(types.Primitive); ok {
		if traits, ok := r.BuiltinExtensions[string(p.Name)]; ok && traits[traitName] {
			return true
		}
	}
	return false
}

// IsRegisteredType reports whether name refers to a struct, enum, or
// type alias already indexed by stage 2.
func (r *Registry) IsRegisteredType(name string) bool {
	if _, ok := r.StructDefs[name]; ok {
		return true
	}
	if _, ok := r.EnumDefs[name]; ok {
		return true
	}
	if _, ok := r.TypeAliases[name]; ok {
		return true
	}
	return false
}
