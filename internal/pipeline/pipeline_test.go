package pipeline

import (
	"testing"

	"github.com/vexlang/vexc/internal/diagnostics"
	"github.com/vexlang/vexc/internal/span"
)

type recordingProcessor struct {
	name string
	ran  *[]string
}

func (r *recordingProcessor) Name() string { return r.name }

func (r *recordingProcessor) Process(ctx *CompileContext) *CompileContext {
	*r.ran = append(*r.ran, r.name)
	return ctx
}

type erroringProcessor struct{}

func (erroringProcessor) Name() string { return "erroring" }

func (erroringProcessor) Process(ctx *CompileContext) *CompileContext {
	ctx.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrUseAfterMove, span.Span{File: "a.vex", Line: 1}, "boom"))
	return ctx
}

func TestPipelineRunsAllStagesInOrder(t *testing.T) {
	var ran []string
	p := New(
		&recordingProcessor{name: "one", ran: &ran},
		&recordingProcessor{name: "two", ran: &ran},
		&recordingProcessor{name: "three", ran: &ran},
	)
	p.Run(NewCompileContext(""))
	want := []string{"one", "two", "three"}
	if len(ran) != len(want) {
		t.Fatalf("expected %v, got %v", want, ran)
	}
	for i := range want {
		if ran[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ran)
		}
	}
}

func TestPipelineContinuesAfterStageError(t *testing.T) {
	var ran []string
	p := New(
		erroringProcessor{},
		&recordingProcessor{name: "after", ran: &ran},
	)
	final := p.Run(NewCompileContext(""))
	if !final.HasErrors() {
		t.Fatal("expected diagnostics from the erroring stage to survive")
	}
	if len(ran) != 1 || ran[0] != "after" {
		t.Fatal("expected the stage after an error to still run")
	}
}

func TestStagesReportsNamesInOrder(t *testing.T) {
	p := New(&recordingProcessor{name: "a", ran: &[]string{}}, &recordingProcessor{name: "b", ran: &[]string{}})
	got := p.Stages()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected stage names: %v", got)
	}
}

func TestResolvedTypeMissesUnknownSpanID(t *testing.T) {
	ctx := NewCompileContext("")
	ctx.Diagnostics = diagnostics.NewCollector()
	if _, ok := ctx.ResolvedType(span.ID("missing")); ok {
		t.Fatal("expected lookup miss for unknown span ID")
	}
}
