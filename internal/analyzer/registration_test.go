package analyzer

import (
	"testing"

	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/pipeline"
)

func TestRegistrationIndexesEveryItemKind(t *testing.T) {
	ctx := pipeline.NewCompileContext("")
	ctx.Program = &ast.Program{
		Items: []ast.Item{
			&ast.Function{Name: "main"},
			&ast.Struct{Name: "Point"},
			&ast.Enum{Name: "Shape"},
			&ast.Trait{Name: "Display"},
			&ast.Const{Name: "PI"},
			&ast.TypeAlias{Name: "Id"},
			ast.NewPolicy(ast.ID(""), "strict_types"),
		},
	}
	RegistrationProcessor{}.Process(ctx)

	if _, ok := ctx.Registry.FunctionDefs["main"]; !ok {
		t.Error("expected main registered")
	}
	if _, ok := ctx.Registry.StructDefs["Point"]; !ok {
		t.Error("expected Point registered")
	}
	if _, ok := ctx.Registry.EnumDefs["Shape"]; !ok {
		t.Error("expected Shape registered")
	}
	if _, ok := ctx.Registry.TraitDefs["Display"]; !ok {
		t.Error("expected Display registered")
	}
	if _, ok := ctx.Registry.GlobalConstants["PI"]; !ok {
		t.Error("expected PI registered")
	}
	if _, ok := ctx.Registry.TypeAliases["Id"]; !ok {
		t.Error("expected Id registered")
	}
	if !ctx.Registry.Policies["strict_types"] {
		t.Error("expected strict_types policy registered")
	}
}

func TestRegistrationRejectsDuplicateNames(t *testing.T) {
	ctx := pipeline.NewCompileContext("")
	ctx.Program = &ast.Program{
		Items: []ast.Item{
			&ast.Function{Name: "f"},
			&ast.Function{Name: "f"},
		},
	}
	RegistrationProcessor{}.Process(ctx)
	if !ctx.HasErrors() {
		t.Fatal("expected a duplicate-definition diagnostic")
	}
}

func TestRegistrationFlagsInlineMethodsAsWarning(t *testing.T) {
	ctx := pipeline.NewCompileContext("")
	ctx.Program = &ast.Program{
		Items: []ast.Item{
			&ast.Struct{Name: "Point", InlineMethods: []*ast.Function{{Name: "length"}}},
		},
	}
	RegistrationProcessor{}.Process(ctx)
	if ctx.HasErrors() {
		t.Fatal("inline methods should only warn, not error")
	}
	if len(ctx.Diagnostics.Diagnostics()) != 1 {
		t.Fatal("expected one warning diagnostic for the inline method")
	}
}
