package analyzer

import (
	"testing"

	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/types"
)

func TestSeedingRegistersFunctionsAndConstants(t *testing.T) {
	ctx := pipeline.NewCompileContext("")
	ctx.Registry.FunctionDefs["add"] = &ast.Function{
		Name:       "add",
		Params:     []ast.Param{{Name: "a", Type: types.Prim(types.I32)}, {Name: "b", Type: types.Prim(types.I32)}},
		ReturnType: types.Prim(types.I32),
	}
	ctx.Registry.GlobalConstants["MAX"] = &ast.Const{Name: "MAX", TypeAnnotation: types.Prim(types.I32)}

	RegistrationProcessor{}.Process(ctx)
	SeedingProcessor{}.Process(ctx)

	g := Globals(ctx)
	if g == nil {
		t.Fatal("expected GlobalScope to be stored")
	}
	if !g.IsGlobal("add") || !g.IsGlobal("MAX") {
		t.Fatal("expected add and MAX to be global")
	}
	if !g.IsGlobal("print") {
		t.Fatal("expected builtin function print to be global")
	}
	if g.BuiltinTypes["Vec"] != true {
		t.Fatal("expected Vec to be a builtin type")
	}
}

func TestSeedingIsIdempotent(t *testing.T) {
	ctx := pipeline.NewCompileContext("")
	ctx.Registry.FunctionDefs["f"] = &ast.Function{Name: "f"}
	SeedingProcessor{}.Process(ctx)
	first := Globals(ctx)
	SeedingProcessor{}.Process(ctx)
	second := Globals(ctx)
	if len(first.Names) != len(second.Names) {
		t.Fatal("expected seeding to be idempotent")
	}
}
