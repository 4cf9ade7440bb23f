// Package pipeline threads a CompileContext through an ordered list of
// Processor stages (spec.md §2: prelude merge, registration, global
// seeding, the five analyzer passes, inference, monomorphization, and
// lowering).
//
// Grounded on funxy's internal/pipeline/pipeline.go, which defines the
// same Pipeline/Run shape. funxy's PipelineContext and Processor
// interface are referenced throughout that repo (cmd/funxy/main.go,
// internal/{lexer,parser,analyzer,backend}/processor.go) but their
// declarations were not present in the retrieved pack; this file
// reconstructs the minimal shape those call sites require, adapted to
// vexc's own pipeline context (CompileContext) and stage list.
package pipeline

// Processor is one stage of the compiler pipeline. Process must not
// panic on a nil or partially-populated CompileContext field; a stage
// whose prerequisite input is missing should return ctx unchanged so
// later stages, and the final diagnostic report, still run.
type Processor interface {
	Process(ctx *CompileContext) *CompileContext
	Name() string
}

// Pipeline is a fixed, ordered sequence of Processors.
type Pipeline struct {
	processors []Processor
}

// New builds a Pipeline from processors, run in the given order.
func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage in order, threading ctx through each. It
// deliberately continues after a stage records diagnostics: spec.md §7
// asks for every independently-detectable error to surface in one
// report rather than stopping at the first failure, the same
// "continue on errors to collect diagnostics from all stages" rule
// funxy's Pipeline.Run documents.
func (p *Pipeline) Run(initial *CompileContext) *CompileContext {
	ctx := initial
	for _, proc := range p.processors {
		ctx = proc.Process(ctx)
	}
	return ctx
}

// Stages returns the names of the pipeline's processors in run order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.processors))
	for i, proc := range p.processors {
		names[i] = proc.Name()
	}
	return names
}
