package analyzer

import (
	"testing"

	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/diagnostics"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/types"
)

func TestLifetimeCheckerRejectsReturnOfNestedLocalReference(t *testing.T) {
	ctx := pipeline.NewCompileContext("")
	inner := &ast.IfStatement{
		Condition: &ast.BoolLiteral{Value: true},
		Then: &ast.Block{Statements: []ast.Statement{
			&ast.LetStatement{Name: "local", TypeAnnotation: types.Prim(types.I32), Init: &ast.IntLiteral{Value: 1}},
			&ast.ReturnStatement{Value: &ast.UnaryExpr{Op: "&", Operand: identAt("local", ast.ID("ret-ref"))}},
		}},
	}
	fn := &ast.Function{Name: "f", Body: &ast.Block{Statements: []ast.Statement{inner}}}
	ctx.Program = &ast.Program{Items: []ast.Item{fn}}
	RegistrationProcessor{}.Process(ctx)
	LifetimeProcessor{}.Process(ctx)

	if !ctx.HasErrors() {
		t.Fatal("expected a lifetime diagnostic")
	}
	found := false
	for _, d := range ctx.Diagnostics.Diagnostics() {
		if d.Code == diagnostics.ErrReturnLocalReference {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrReturnLocalReference, got %+v", ctx.Diagnostics.Diagnostics())
	}
}

func TestLifetimeCheckerAllowsReturningReferenceToParameter(t *testing.T) {
	ctx := pipeline.NewCompileContext("")
	fn := &ast.Function{
		Name:   "f",
		Params: []ast.Param{{Name: "x", Type: types.Prim(types.I32)}},
		Body: &ast.Block{Statements: []ast.Statement{
			&ast.ReturnStatement{Value: &ast.UnaryExpr{Op: "&", Operand: identAt("x", ast.ID("ret-ref"))}},
		}},
	}
	ctx.Program = &ast.Program{Items: []ast.Item{fn}}
	RegistrationProcessor{}.Process(ctx)
	LifetimeProcessor{}.Process(ctx)

	if ctx.HasErrors() {
		t.Fatalf("did not expect a lifetime diagnostic, got %+v", ctx.Diagnostics.Diagnostics())
	}
}
