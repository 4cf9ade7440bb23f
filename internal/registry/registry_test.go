package registry

import (
	"testing"

	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/types"
)

func TestInstantiationKeyDistinguishesArgOrder(t *testing.T) {
	k1 := InstantiationKey("Pair", []types.Type{types.Prim(types.I32), types.Prim(types.Str)})
	k2 := InstantiationKey("Pair", []types.Type{types.Prim(types.Str), types.Prim(types.I32)})
	if k1 == k2 {
		t.Fatal("expected different key for different argument order")
	}
}

func TestMangledNameSanitizesPunctuation(t *testing.T) {
	got := MangledName("Vec", []types.Type{types.Vec{Elem: types.Prim(types.I32)}})
	if got == "" {
		t.Fatal("expected non-empty mangled name")
	}
	for _, r := range got {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
		if !isAlnum {
			t.Fatalf("mangled name %q contains non-identifier rune %q", got, r)
		}
	}
}

func TestRegisterInstantiationIdempotent(t *testing.T) {
	r := New()
	key := InstantiationKey("Box", []types.Type{types.Prim(types.I32)})
	r.RegisterInstantiation(key, "Box_i32")
	r.RegisterInstantiation(key, "Box_SOMETHING_ELSE")
	got, ok := r.LookupInstantiation(key)
	if !ok || got != "Box_i32" {
		t.Fatalf("expected first registration to win, got %q", got)
	}
}

func TestSatisfiesBoundFromBuiltinExtension(t *testing.T) {
	r := New()
	r.BuiltinExtensions["i32"] = map[string]bool{"Copy": true}
	if !r.SatisfiesBound(types.Prim(types.I32), "Copy") {
		t.Fatal("expected i32 to satisfy Copy via builtin extension")
	}
	if r.SatisfiesBound(types.Prim(types.I32), "Display") {
		t.Fatal("did not expect i32 to satisfy Display without registration")
	}
}

func TestSatisfiesBoundFromTraitImpl(t *testing.T) {
	r := New()
	named := types.Named{Name: "Point"}
	r.TraitImpls[TraitImplKey{Trait: "Display", Type: named.String()}] = map[string]*ast.Function{}
	if !r.SatisfiesBound(named, "Display") {
		t.Fatal("expected Point to satisfy Display via registered impl")
	}
}
