package analyzer

import (
	"testing"

	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/diagnostics"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/registry"
	"github.com/vexlang/vexc/internal/types"
)

// buildBoxProgram builds a generic struct `Boxed<T>` with one field,
// and two call sites instantiating it with the same type argument —
// spec.md §8 scenario S2 (memoized monomorphization).
func buildBoxProgram() *ast.Program {
	boxDef := &ast.Struct{
		Name:       "Boxed",
		TypeParams: []ast.TypeParam{{Name: "T"}},
		Fields:     []ast.Field{{Name: "value", Type: types.Generic{Name: "T"}}},
	}
	lit := func() *ast.StructLiteralExpr {
		return &ast.StructLiteralExpr{
			TypeName: "Boxed",
			TypeArgs: []types.Type{types.Prim(types.I32)},
			Fields:   []ast.StructLiteralField{{Name: "value", Value: &ast.IntLiteral{Value: 1}}},
		}
	}
	fn := &ast.Function{
		Name: "f",
		Body: &ast.Block{Statements: []ast.Statement{
			&ast.LetStatement{Name: "a", Init: lit()},
			&ast.LetStatement{Name: "b", Init: lit()},
		}},
	}
	return &ast.Program{Items: []ast.Item{boxDef, fn}}
}

func TestGenericsMemoizesIdenticalInstantiation(t *testing.T) {
	ctx := pipeline.NewCompileContext("")
	ctx.Program = buildBoxProgram()
	RegistrationProcessor{}.Process(ctx)
	GenericsProcessor{}.Process(ctx)

	if ctx.HasErrors() {
		t.Fatalf("did not expect diagnostics, got %+v", ctx.Diagnostics.Diagnostics())
	}
	key := registry.InstantiationKey("Boxed", []types.Type{types.Prim(types.I32)})
	name, ok := ctx.Registry.LookupInstantiation(key)
	if !ok {
		t.Fatal("expected Boxed<i32> to be registered")
	}
	if name != registry.MangledName("Boxed", []types.Type{types.Prim(types.I32)}) {
		t.Fatalf("unexpected mangled name %q", name)
	}
	if len(ctx.Registry.GenericInstantiations) != 1 {
		t.Fatalf("expected exactly one specialization, got %d", len(ctx.Registry.GenericInstantiations))
	}
}

func TestGenericsRejectsUnsatisfiedBound(t *testing.T) {
	ctx := pipeline.NewCompileContext("")
	boxDef := &ast.Struct{
		Name:       "Sorted",
		TypeParams: []ast.TypeParam{{Name: "T", Bounds: []string{"Ord"}}},
		Fields:     []ast.Field{{Name: "value", Type: types.Generic{Name: "T"}}},
	}
	fn := &ast.Function{
		Name: "f",
		Body: &ast.Block{Statements: []ast.Statement{
			&ast.LetStatement{Name: "a", Init: &ast.StructLiteralExpr{
				TypeName: "Sorted",
				TypeArgs: []types.Type{types.Prim(types.Bool)},
				Fields:   []ast.StructLiteralField{{Name: "value", Value: &ast.BoolLiteral{Value: true}}},
			}},
		}},
	}
	ctx.Program = &ast.Program{Items: []ast.Item{boxDef, fn}}
	RegistrationProcessor{}.Process(ctx)
	GenericsProcessor{}.Process(ctx)

	if !ctx.HasErrors() {
		t.Fatal("expected an unsatisfied-bound diagnostic")
	}
	found := false
	for _, d := range ctx.Diagnostics.Diagnostics() {
		if d.Code == diagnostics.ErrUnsatisfiedBound {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrUnsatisfiedBound, got %+v", ctx.Diagnostics.Diagnostics())
	}
}
