package analyzer

import (
	"testing"

	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/types"
)

// buildVecPushProgram constructs spec.md §8's S6 scenario:
//
//	fn f() { let v = Vec::new(); v.push(7); }
func buildVecPushProgram() *ast.Program {
	letV := &ast.LetStatement{Name: "v", Init: &ast.TypeConstructorExpr{TypeName: "Vec", Ctor: "new"}}
	push := &ast.ExpressionStatement{Expr: &ast.MethodCallExpr{
		Receiver: identAt("v", ast.ID("push-recv")),
		Method:   "push",
		Args:     []ast.Expression{&ast.IntLiteral{Value: 7}},
	}}
	fn := &ast.Function{Name: "f", Body: &ast.Block{Statements: []ast.Statement{letV, push}}}
	return &ast.Program{Items: []ast.Item{fn}}
}

func TestInferenceResolvesVecElementFromPush(t *testing.T) {
	ctx := pipeline.NewCompileContext("")
	ctx.Program = buildVecPushProgram()
	RegistrationProcessor{}.Process(ctx)
	SeedingProcessor{}.Process(ctx)
	InferenceProcessor{}.Process(ctx)

	if ctx.HasErrors() {
		t.Fatalf("did not expect inference errors, got %+v", ctx.Diagnostics.Diagnostics())
	}

	vecType, ok := ctx.TypeMap[ast.ID("push-recv")]
	if !ok {
		t.Fatal("expected a resolved type recorded for the push receiver")
	}
	vec, ok := vecType.(types.Vec)
	if !ok {
		t.Fatalf("expected Vec, got %v", vecType)
	}
	if !types.Equal(vec.Elem, types.WidestIntegerFor(7)) {
		t.Fatalf("expected element type %v, got %v", types.WidestIntegerFor(7), vec.Elem)
	}
}

func TestInferenceLeavesUnresolvableBindingFlagged(t *testing.T) {
	ctx := pipeline.NewCompileContext("")
	fn := &ast.Function{
		Name: "g",
		Body: &ast.Block{Statements: []ast.Statement{
			&ast.LetStatement{Name: "mystery", Init: &ast.CallExpr{
				Callee: identAt("opaque", ast.ID("opaque-callee")),
			}},
		}},
	}
	ctx.Program = &ast.Program{Items: []ast.Item{fn}}
	RegistrationProcessor{}.Process(ctx)
	SeedingProcessor{}.Process(ctx)
	InferenceProcessor{}.Process(ctx)

	if !ctx.HasErrors() {
		t.Fatal("expected an unresolved-type diagnostic for a binding with no constraining use")
	}
}
