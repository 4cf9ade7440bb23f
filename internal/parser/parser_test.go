package parser

import (
	"testing"

	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/span"
	"github.com/vexlang/vexc/internal/types"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New("test.vex", src, span.NewMap())
	prog, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return prog
}

func TestParseTraitWithDefaultBody(t *testing.T) {
	prog := parseOK(t, `
trait Greeter {
    fn name(self) -> string;
    fn greet(self) -> string { return name(self); }
}
`)
	if len(prog.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(prog.Items))
	}
	tr, ok := prog.Items[0].(*ast.Trait)
	if !ok {
		t.Fatalf("expected *ast.Trait, got %T", prog.Items[0])
	}
	if len(tr.Methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(tr.Methods))
	}
	if _, hasDefault := tr.DefaultBodies["greet"]; !hasDefault {
		t.Fatalf("expected greet to have a default body")
	}
	if _, hasDefault := tr.DefaultBodies["name"]; hasDefault {
		t.Fatalf("name is signature-only, should have no default body")
	}
}

func TestParseStructAndImpl(t *testing.T) {
	prog := parseOK(t, `
struct Point {
    x: i32,
    y: i32,
}

impl Display for Point {
    fn fmt(self) -> string {
        return "point";
    }
}
`)
	if len(prog.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(prog.Items))
	}
	st, ok := prog.Items[0].(*ast.Struct)
	if !ok {
		t.Fatalf("expected *ast.Struct, got %T", prog.Items[0])
	}
	if len(st.Fields) != 2 || st.Fields[0].Name != "x" || st.Fields[1].Name != "y" {
		t.Fatalf("unexpected fields: %+v", st.Fields)
	}
	impl, ok := prog.Items[1].(*ast.TraitImpl)
	if !ok {
		t.Fatalf("expected *ast.TraitImpl, got %T", prog.Items[1])
	}
	if impl.Trait != "Display" {
		t.Fatalf("expected trait Display, got %q", impl.Trait)
	}
	if named, ok := impl.ForType.(types.Named); !ok || named.Name != "Point" {
		t.Fatalf("expected ForType Named{Point}, got %#v", impl.ForType)
	}
}

// TestParseIfConditionNotSwallowedAsStructLiteral guards the
// classic `if ident { ... }` ambiguity: without suppressing struct
// literals in condition position, the parser would read `ok { ... }`
// as a struct literal and never see the if's own body block.
func TestParseIfConditionNotSwallowedAsStructLiteral(t *testing.T) {
	prog := parseOK(t, `
fn f(ok: bool) -> i32 {
    if ok {
        return 1;
    }
    return 0;
}
`)
	fn := prog.Items[0].(*ast.Function)
	ifStmt, ok := fn.Body.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", fn.Body.Statements[0])
	}
	if _, ok := ifStmt.Condition.(*ast.Identifier); !ok {
		t.Fatalf("expected bare identifier condition, got %T", ifStmt.Condition)
	}
	if len(ifStmt.Then.Statements) != 1 {
		t.Fatalf("expected if-body to contain the return statement, got %d statements", len(ifStmt.Then.Statements))
	}
}

func TestParseStructLiteralInAssignment(t *testing.T) {
	prog := parseOK(t, `
fn f() -> i32 {
    let p = Point { x: 1, y: 2 };
    return p.x;
}
`)
	fn := prog.Items[0].(*ast.Function)
	let, ok := fn.Body.Statements[0].(*ast.LetStatement)
	if !ok {
		t.Fatalf("expected *ast.LetStatement, got %T", fn.Body.Statements[0])
	}
	lit, ok := let.Init.(*ast.StructLiteralExpr)
	if !ok {
		t.Fatalf("expected *ast.StructLiteralExpr, got %T", let.Init)
	}
	if lit.TypeName != "Point" || len(lit.Fields) != 2 {
		t.Fatalf("unexpected struct literal: %+v", lit)
	}
}

func TestParseGenericFunctionSignature(t *testing.T) {
	prog := parseOK(t, `
fn identity<T>(x: T) -> T {
    return x;
}
`)
	fn := prog.Items[0].(*ast.Function)
	if len(fn.TypeParams) != 1 || fn.TypeParams[0].Name != "T" {
		t.Fatalf("expected one type param T, got %+v", fn.TypeParams)
	}
	if fn.Params[0].Type != (types.Named{Name: "T"}) {
		t.Fatalf("expected param type Named{T}, got %#v", fn.Params[0].Type)
	}
}
