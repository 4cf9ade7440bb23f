package prelude

import (
	"testing"

	"github.com/vexlang/vexc/internal/ast"
)

func TestLoadParsesAllModulesInOrder(t *testing.T) {
	prog, spans, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if spans == nil {
		t.Fatalf("expected a non-nil span map")
	}

	var traitNames []string
	for _, item := range prog.Items {
		if tr, ok := item.(*ast.Trait); ok {
			traitNames = append(traitNames, tr.Name)
		}
	}

	// core::lib's traits must appear before core::ops's, matching the
	// restored module order (core::lib ahead of core::ops).
	idx := map[string]int{}
	for i, n := range traitNames {
		idx[n] = i
	}
	if _, ok := idx["Display"]; !ok {
		t.Fatalf("expected Display trait from core::lib, got %v", traitNames)
	}
	if _, ok := idx["Add"]; !ok {
		t.Fatalf("expected Add trait from core::ops, got %v", traitNames)
	}
	if idx["Display"] >= idx["Add"] {
		t.Fatalf("expected core::lib's Display before core::ops's Add, got order %v", traitNames)
	}
	if _, ok := idx["ToString"]; !ok {
		t.Fatalf("expected ToString trait from core::string, got %v", traitNames)
	}
}

func TestInjectPrependsPreludeAheadOfUserItems(t *testing.T) {
	user := &ast.Program{
		File:  "main.vex",
		Items: []ast.Item{ast.NewPolicy(ast.ID("u#1"), "strict_types")},
	}
	merged, err := Inject(user, nil)
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}
	if len(merged.Items) <= len(user.Items) {
		t.Fatalf("expected merged items to include the prelude's, got %d items", len(merged.Items))
	}
	last := merged.Items[len(merged.Items)-1]
	if pol, ok := last.(*ast.Policy); !ok || pol.Name != "strict_types" {
		t.Fatalf("expected user's item to remain last, got %#v", last)
	}
}
