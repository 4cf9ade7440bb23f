package analyzer

import (
	"testing"

	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/diagnostics"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/types"
)

// buildMoveProgram constructs the AST for spec.md §8's S1 scenario:
//
//	fn f() { let s = "abc"; let t = s; print(s); }
func buildMoveProgram() *ast.Program {
	letS := &ast.LetStatement{Name: "s", Init: &ast.StringLiteral{Value: "abc"}}
	letT := ast.NewLet(ast.ID("let-t"), "t", false, identAt("s", ast.ID("t-init-use")))
	printCall := &ast.CallExpr{
		Callee: identAt("print", ast.ID("print-callee")),
		Args:   []ast.Expression{identAt("s", ast.ID("print-use"))},
	}
	fn := &ast.Function{
		Name: "f",
		Body: &ast.Block{Statements: []ast.Statement{
			letS,
			letT,
			&ast.ExpressionStatement{Expr: printCall},
		}},
	}
	return &ast.Program{Items: []ast.Item{fn}}
}

func identAt(name string, id ast.ID) *ast.Identifier {
	return ast.NewIdentifier(id, name)
}

func TestMoveCheckerDetectsUseAfterMove(t *testing.T) {
	ctx := pipeline.NewCompileContext("")
	ctx.Program = buildMoveProgram()
	RegistrationProcessor{}.Process(ctx)
	SeedingProcessor{}.Process(ctx)
	MoveProcessor{}.Process(ctx)

	if !ctx.HasErrors() {
		t.Fatal("expected a use-after-move diagnostic")
	}
	found := false
	for _, d := range ctx.Diagnostics.Diagnostics() {
		if d.Code == diagnostics.ErrUseAfterMove {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrUseAfterMove among diagnostics, got %+v", ctx.Diagnostics.Diagnostics())
	}
}

func TestMoveCheckerAllowsCopyTypeReuse(t *testing.T) {
	ctx := pipeline.NewCompileContext("")
	fn := &ast.Function{
		Name: "g",
		Body: &ast.Block{Statements: []ast.Statement{
			&ast.LetStatement{Name: "n", TypeAnnotation: types.Prim(types.I32), Init: &ast.IntLiteral{Value: 1}},
			&ast.ExpressionStatement{Expr: &ast.CallExpr{Callee: ast.NewIdentifier(ast.ID("c1"), "print"), Args: []ast.Expression{ast.NewIdentifier(ast.ID("u1"), "n")}}},
			&ast.ExpressionStatement{Expr: &ast.CallExpr{Callee: ast.NewIdentifier(ast.ID("c2"), "print"), Args: []ast.Expression{ast.NewIdentifier(ast.ID("u2"), "n")}}},
		}},
	}
	ctx.Program = &ast.Program{Items: []ast.Item{fn}}
	RegistrationProcessor{}.Process(ctx)
	SeedingProcessor{}.Process(ctx)
	MoveProcessor{}.Process(ctx)

	if ctx.HasErrors() {
		t.Fatalf("did not expect errors reusing a Copy-typed binding, got %+v", ctx.Diagnostics.Diagnostics())
	}
}

func TestMoveCheckerDoesNotMoveMethodReceiver(t *testing.T) {
	ctx := pipeline.NewCompileContext("")
	fn := &ast.Function{
		Name: "h",
		Body: &ast.Block{Statements: []ast.Statement{
			&ast.LetStatement{Name: "v", TypeAnnotation: types.Vec{Elem: types.Prim(types.I32)}, Init: &ast.TypeConstructorExpr{TypeName: "Vec", Ctor: "new"}},
			&ast.ExpressionStatement{Expr: &ast.MethodCallExpr{Receiver: ast.NewIdentifier(ast.ID("r1"), "v"), Method: "push", Args: []ast.Expression{&ast.IntLiteral{Value: 7}}}},
			&ast.ExpressionStatement{Expr: &ast.MethodCallExpr{Receiver: ast.NewIdentifier(ast.ID("r2"), "v"), Method: "push", Args: []ast.Expression{&ast.IntLiteral{Value: 8}}}},
		}},
	}
	ctx.Program = &ast.Program{Items: []ast.Item{fn}}
	RegistrationProcessor{}.Process(ctx)
	SeedingProcessor{}.Process(ctx)
	MoveProcessor{}.Process(ctx)

	if ctx.HasErrors() {
		t.Fatalf("calling a method twice on the same Vec binding should not move it, got %+v", ctx.Diagnostics.Diagnostics())
	}
}
