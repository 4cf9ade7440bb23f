package lowering

import (
	"strings"
	"testing"

	"github.com/vexlang/vexc/internal/analyzer"
	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/backend"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/types"
)

func newIdent(name string) *ast.Identifier {
	return &ast.Identifier{Name: name}
}

// buildDeferOrderFunction builds:
//
//	fn f() {
//	  defer { print("a"); }
//	  {
//	    defer { print("b"); }
//	    print("body");
//	  }
//	  print("tail");
//	}
//
// spec.md §8 scenario S3: defers run LIFO, nested-scope defers fire
// before the function's own defers.
func buildDeferOrderFunction() *ast.Function {
	callPrint := func(s string) *ast.ExpressionStatement {
		return &ast.ExpressionStatement{Expr: &ast.CallExpr{
			Callee: newIdent("print"),
			Args:   []ast.Expression{&ast.StringLiteral{Value: s}},
		}}
	}
	innerBlock := &ast.BlockStatement{Body: &ast.Block{Statements: []ast.Statement{
		&ast.DeferStatement{Inner: callPrint("b")},
		callPrint("body"),
	}}}
	outerDefer := &ast.DeferStatement{Inner: callPrint("a")}
	tail := callPrint("tail")

	return &ast.Function{
		Name: "f",
		Body: &ast.Block{Statements: []ast.Statement{outerDefer, innerBlock, tail}},
	}
}

func TestLoweringRunsDefersLIFOPerScope(t *testing.T) {
	fn := buildDeferOrderFunction()
	ctx := pipeline.NewCompileContext("")
	ctx.Program = &ast.Program{Items: []ast.Item{fn}}
	analyzer.RegistrationProcessor{}.Process(ctx)

	tp := backend.NewTextPlan()
	proc := LoweringProcessor{Backend: tp}
	proc.Process(ctx)

	out := tp.Render()
	idxBody := strings.Index(out, `"body"`)
	idxB := strings.Index(out, `"b"`)
	idxTail := strings.Index(out, `"tail"`)
	idxA := strings.Index(out, `"a"`)

	if !(idxBody < idxB && idxB < idxTail && idxTail < idxA) {
		t.Fatalf("expected order body < b < tail < a, got offsets %d %d %d %d\n%s", idxBody, idxB, idxTail, idxA, out)
	}
}

// buildTryPropagationFunction builds:
//
//	fn g() -> Result<i32, Error> {
//	  defer { cleanup(); }
//	  let v = risky()?;
//	  return Ok(v);
//	}
//
// spec.md §8 scenario S4: the Err arm of `?` must also run the
// function's pending defers before returning.
func buildTryPropagationFunction() *ast.Function {
	deferCleanup := &ast.DeferStatement{Inner: &ast.ExpressionStatement{Expr: &ast.CallExpr{Callee: newIdent("cleanup")}}}
	letV := &ast.LetStatement{
		Name: "v",
		Init: &ast.TryExpr{Inner: &ast.CallExpr{Callee: newIdent("risky")}},
	}
	ret := &ast.ReturnStatement{Value: &ast.CallExpr{Callee: newIdent("Ok"), Args: []ast.Expression{newIdent("v")}}}

	return &ast.Function{
		Name:       "g",
		ReturnType: types.Result{Ok: types.Prim(types.I32), Err: types.Named{Name: "Error"}},
		Body:       &ast.Block{Statements: []ast.Statement{deferCleanup, letV, ret}},
	}
}

func TestLoweringTryPropagationRunsDefersOnErrPath(t *testing.T) {
	fn := buildTryPropagationFunction()
	ctx := pipeline.NewCompileContext("")
	ctx.Program = &ast.Program{Items: []ast.Item{fn}}
	analyzer.RegistrationProcessor{}.Process(ctx)

	tp := backend.NewTextPlan()
	proc := LoweringProcessor{Backend: tp}
	proc.Process(ctx)

	out := tp.Render()
	if !strings.Contains(out, "cleanup") {
		t.Fatalf("expected cleanup call to be emitted on the try error path:\n%s", out)
	}
	if !strings.Contains(out, "try.err") {
		t.Fatalf("expected a try.err block in the instruction plan:\n%s", out)
	}
}
