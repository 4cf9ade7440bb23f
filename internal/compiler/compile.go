// Package compiler runs the eleven pipeline stages spec.md §2 names
// (the nine analysis stages as one fixed Pipeline, with prelude
// injection before it and lowering after it), in the order
// prelude -> registration -> seeding -> immutability -> move -> borrow
// -> lifetime -> closure -> inference -> generics -> lowering.
// Grounded on
// original_source/vex-compiler/src/borrow_checker/{mod.rs,orchestrator.rs}'s
// BorrowChecker.check_program, which runs the same four borrow-family
// phases (immutability, move, borrow, lifetime) in this exact order
// ahead of lowering, generalized here into the full compiler pipeline.
package compiler

import (
	"github.com/vexlang/vexc/internal/analyzer"
	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/backend"
	"github.com/vexlang/vexc/internal/buildconfig"
	"github.com/vexlang/vexc/internal/diagnostics"
	"github.com/vexlang/vexc/internal/lowering"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/prelude"
	"github.com/vexlang/vexc/internal/span"
)

// preludeLoadDiagnostic wraps a prelude.LoadError as a diagnostic, a
// case that should only ever surface while editing the embedded
// modules themselves since they ship with the compiler.
func preludeLoadDiagnostic(err error) *diagnostics.Diagnostic {
	return diagnostics.NewError(diagnostics.ErrSyntax, span.Span{}, "failed to load embedded prelude: %s", err)
}

// Input is what the driver hands the compiler: a parsed program, its
// span map, and whatever build tuning was loaded from
// .vexcompiler.yaml.
type Input struct {
	Program     *ast.Program
	Spans       *span.Map
	BuildConfig *buildconfig.Config
	Backend     backend.Backend
}

// Run injects the embedded prelude ahead of in.Program, then threads
// the result through every analysis stage and finally lowering,
// stopping before lowering if an earlier stage recorded a fatal error
// (spec.md §7: "a fatal error in pass N aborts pass N+1").
func Run(in Input) *pipeline.CompileContext {
	merged, err := prelude.Inject(in.Program, in.Spans)
	ctx := pipeline.NewCompileContext("")
	ctx.Spans = in.Spans
	if in.BuildConfig != nil {
		ctx.BuildConfig = in.BuildConfig
	}
	if err != nil {
		ctx.Diagnostics.Add(preludeLoadDiagnostic(err))
		ctx.Program = in.Program
	} else {
		ctx.Program = merged
	}

	stages := []pipeline.Processor{
		analyzer.RegistrationProcessor{},
		analyzer.SeedingProcessor{},
		analyzer.ImmutabilityProcessor{},
		analyzer.MoveProcessor{},
		analyzer.BorrowProcessor{},
		analyzer.LifetimeProcessor{},
		analyzer.ClosureProcessor{},
		analyzer.InferenceProcessor{},
		analyzer.GenericsProcessor{},
	}

	p := pipeline.New(stages...)
	ctx = p.Run(ctx)

	if ctx.HasErrors() {
		return ctx
	}

	lowerProc := lowering.LoweringProcessor{Backend: in.Backend}
	return lowerProc.Process(ctx)
}

// Stages lists every stage name Run executes, in order, including the
// two stages (prelude injection, lowering) that run outside the
// pipeline.Pipeline proper because they need inputs (the Backend, the
// raw Program) the other nine stages don't.
func Stages() []string {
	return []string{
		"prelude",
		"registration", "seeding", "immutability", "move", "borrow",
		"lifetime", "closure", "inference", "generics",
		"lowering",
	}
}
