package analyzer

import (
	"testing"

	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/diagnostics"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/types"
)

func runClosure(t *testing.T, fn *ast.Function) (*pipeline.CompileContext, ast.CaptureMode) {
	t.Helper()
	ctx := pipeline.NewCompileContext("")
	ctx.Program = &ast.Program{Items: []ast.Item{fn}}
	RegistrationProcessor{}.Process(ctx)
	ClosureProcessor{}.Process(ctx)

	var closure *ast.ClosureExpr
	for _, stmt := range fn.Body.Statements {
		if ls, ok := stmt.(*ast.LetStatement); ok {
			if cl, ok := ls.Init.(*ast.ClosureExpr); ok {
				closure = cl
			}
		}
	}
	if closure == nil {
		t.Fatal("test setup error: no closure literal found")
	}
	return ctx, ctx.CaptureModes[closure.Span()]
}

func TestClosureWithNoFreeVarsIsSharedCapturing(t *testing.T) {
	fn := &ast.Function{
		Name: "f",
		Body: &ast.Block{Statements: []ast.Statement{
			&ast.LetStatement{Name: "cl", Init: &ast.ClosureExpr{Body: &ast.Block{
				TrailingExpr: &ast.IntLiteral{Value: 1},
			}}},
		}},
	}
	_, mode := runClosure(t, fn)
	if mode != ast.CaptureShared {
		t.Fatalf("expected shared-capturing, got %s", mode)
	}
}

func TestClosureThatReadsOuterIsSharedCapturing(t *testing.T) {
	fn := &ast.Function{
		Name:   "f",
		Params: []ast.Param{{Name: "x", Type: types.Prim(types.I32)}},
		Body: &ast.Block{Statements: []ast.Statement{
			&ast.LetStatement{Name: "cl", Init: &ast.ClosureExpr{Body: &ast.Block{
				TrailingExpr: identAt("x", ast.ID("read-x")),
			}}},
		}},
	}
	_, mode := runClosure(t, fn)
	if mode != ast.CaptureShared {
		t.Fatalf("expected shared-capturing, got %s", mode)
	}
}

func TestClosureThatMutatesOuterIsExclusiveCapturing(t *testing.T) {
	fn := &ast.Function{
		Name:   "f",
		Params: []ast.Param{{Name: "x", Type: types.Prim(types.I32)}},
		Body: &ast.Block{Statements: []ast.Statement{
			&ast.LetStatement{Name: "cl", Init: &ast.ClosureExpr{Body: &ast.Block{
				Statements: []ast.Statement{
					&ast.AssignStatement{Target: identAt("x", ast.ID("mut-x")), Value: &ast.IntLiteral{Value: 2}},
				},
			}}},
		}},
	}
	_, mode := runClosure(t, fn)
	if mode != ast.CaptureExclusive {
		t.Fatalf("expected exclusive-capturing, got %s", mode)
	}
}

func TestClosureThatMovesOuterIsOneShotConsuming(t *testing.T) {
	fn := &ast.Function{
		Name:   "f",
		Params: []ast.Param{{Name: "s", Type: types.Prim(types.Str)}},
		Body: &ast.Block{Statements: []ast.Statement{
			&ast.LetStatement{Name: "cl", Init: &ast.ClosureExpr{Body: &ast.Block{
				Statements: []ast.Statement{
					&ast.ExpressionStatement{Expr: &ast.CallExpr{
						Callee: identAt("consume", ast.ID("consume-callee")),
						Args:   []ast.Expression{identAt("s", ast.ID("move-s"))},
					}},
				},
			}}},
		}},
	}
	_, mode := runClosure(t, fn)
	if mode != ast.CaptureOneShot {
		t.Fatalf("expected one-shot-consuming, got %s", mode)
	}
}

func TestClosureWeakerAnnotationIsRejected(t *testing.T) {
	fn := &ast.Function{
		Name:   "f",
		Params: []ast.Param{{Name: "s", Type: types.Prim(types.Str)}},
		Body: &ast.Block{Statements: []ast.Statement{
			&ast.LetStatement{Name: "cl", Init: &ast.ClosureExpr{
				Annotation: ast.CaptureShared,
				Body: &ast.Block{
					Statements: []ast.Statement{
						&ast.ExpressionStatement{Expr: &ast.CallExpr{
							Callee: identAt("consume", ast.ID("consume-callee")),
							Args:   []ast.Expression{identAt("s", ast.ID("move-s"))},
						}},
					},
				},
			}},
		}},
	}
	ctx, _ := runClosure(t, fn)
	found := false
	for _, d := range ctx.Diagnostics.Diagnostics() {
		if d.Code == diagnostics.ErrWeakerCaptureAnnotation {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrWeakerCaptureAnnotation, got %+v", ctx.Diagnostics.Diagnostics())
	}
}
