package compiler

import (
	"testing"

	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/backend"
	"github.com/vexlang/vexc/internal/parser"
	"github.com/vexlang/vexc/internal/span"
)

func TestRunInjectsPreludeAndLowersCleanProgram(t *testing.T) {
	src := `
fn add(a: i32, b: i32) -> i32 {
    return a + b;
}
`
	spans := span.NewMap()
	p := parser.New("main.vex", src, spans)
	prog, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	tp := backend.NewTextPlan()
	ctx := Run(Input{Program: prog, Spans: spans, Backend: tp})

	if ctx.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", ctx.Diagnostics.Diagnostics())
	}

	// The prelude's own traits (Display, Add, ...) must have been
	// merged ahead of the user's add function.
	var sawPrelude, sawUserFn bool
	for _, item := range ctx.Program.Items {
		switch it := item.(type) {
		case *ast.Trait:
			sawPrelude = true
		case *ast.Function:
			if it.Name == "add" {
				sawUserFn = true
			}
		}
	}
	if !sawPrelude {
		t.Fatalf("expected prelude traits merged into ctx.Program")
	}
	if !sawUserFn {
		t.Fatalf("expected user's add function present in ctx.Program")
	}

	if tp.Render() == "" {
		t.Fatalf("expected lowering to have emitted a non-empty text plan")
	}
}

func TestStagesListsElevenPhasesInOrder(t *testing.T) {
	stages := Stages()
	if len(stages) != 11 {
		t.Fatalf("expected 11 stages, got %d: %v", len(stages), stages)
	}
	if stages[0] != "prelude" || stages[len(stages)-1] != "lowering" {
		t.Fatalf("expected prelude first and lowering last, got %v", stages)
	}
}
