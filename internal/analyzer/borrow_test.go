package analyzer

import (
	"testing"

	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/diagnostics"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/types"
)

// buildAliasingProgram constructs spec.md §8's S5 scenario:
//
//	let mut x = 1; let r1 = &x; let r2 = &mut x; use(r1);
func buildAliasingProgram() *ast.Program {
	letX := &ast.LetStatement{Mutable: true, Name: "x", TypeAnnotation: types.Prim(types.I32), Init: &ast.IntLiteral{Value: 1}}
	letR1 := &ast.LetStatement{Name: "r1", Init: &ast.UnaryExpr{Op: "&", Operand: identAt("x", ast.ID("borrow1"))}}
	letR2 := &ast.LetStatement{Name: "r2", Init: &ast.UnaryExpr{Op: "&mut", Operand: identAt("x", ast.ID("borrow2"))}}
	useCall := &ast.ExpressionStatement{Expr: &ast.CallExpr{
		Callee: identAt("use", ast.ID("use-callee")),
		Args:   []ast.Expression{identAt("r1", ast.ID("use-r1"))},
	}}
	fn := &ast.Function{Name: "f", Body: &ast.Block{Statements: []ast.Statement{letX, letR1, letR2, useCall}}}
	return &ast.Program{Items: []ast.Item{fn}}
}

func TestBorrowCheckerRejectsExclusiveWhileShared(t *testing.T) {
	ctx := pipeline.NewCompileContext("")
	ctx.Program = buildAliasingProgram()
	RegistrationProcessor{}.Process(ctx)
	BorrowProcessor{}.Process(ctx)

	if !ctx.HasErrors() {
		t.Fatal("expected an aliasing diagnostic")
	}
	var found *diagnostics.Diagnostic
	for _, d := range ctx.Diagnostics.Diagnostics() {
		if d.Code == diagnostics.ErrExclusiveWhileShared {
			found = d
		}
	}
	if found == nil {
		t.Fatalf("expected ErrExclusiveWhileShared, got %+v", ctx.Diagnostics.Diagnostics())
	}
	if len(found.Related) == 0 {
		t.Fatal("expected the diagnostic to reference the first borrow site")
	}
}

func TestBorrowCheckerAllowsMultipleSharedBorrows(t *testing.T) {
	ctx := pipeline.NewCompileContext("")
	letX := &ast.LetStatement{Name: "x", TypeAnnotation: types.Prim(types.I32), Init: &ast.IntLiteral{Value: 1}}
	letR1 := &ast.LetStatement{Name: "r1", Init: &ast.UnaryExpr{Op: "&", Operand: identAt("x", ast.ID("b1"))}}
	letR2 := &ast.LetStatement{Name: "r2", Init: &ast.UnaryExpr{Op: "&", Operand: identAt("x", ast.ID("b2"))}}
	fn := &ast.Function{Name: "f", Body: &ast.Block{Statements: []ast.Statement{letX, letR1, letR2}}}
	ctx.Program = &ast.Program{Items: []ast.Item{fn}}
	RegistrationProcessor{}.Process(ctx)
	BorrowProcessor{}.Process(ctx)

	if ctx.HasErrors() {
		t.Fatalf("two shared borrows should be allowed, got %+v", ctx.Diagnostics.Diagnostics())
	}
}

func TestBorrowCheckerReleasesBorrowsAtScopeEnd(t *testing.T) {
	ctx := pipeline.NewCompileContext("")
	letX := &ast.LetStatement{Mutable: true, Name: "x", TypeAnnotation: types.Prim(types.I32), Init: &ast.IntLiteral{Value: 1}}
	inner := &ast.BlockStatement{Body: &ast.Block{Statements: []ast.Statement{
		&ast.LetStatement{Name: "r1", Init: &ast.UnaryExpr{Op: "&mut", Operand: identAt("x", ast.ID("b1"))}},
	}}}
	letR2 := &ast.LetStatement{Name: "r2", Init: &ast.UnaryExpr{Op: "&mut", Operand: identAt("x", ast.ID("b2"))}}
	fn := &ast.Function{Name: "f", Body: &ast.Block{Statements: []ast.Statement{letX, inner, letR2}}}
	ctx.Program = &ast.Program{Items: []ast.Item{fn}}
	RegistrationProcessor{}.Process(ctx)
	BorrowProcessor{}.Process(ctx)

	if ctx.HasErrors() {
		t.Fatalf("borrow from the inner block should have ended before letR2, got %+v", ctx.Diagnostics.Diagnostics())
	}
}
