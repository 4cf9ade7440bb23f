package pipeline

import (
	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/buildconfig"
	"github.com/vexlang/vexc/internal/diagnostics"
	"github.com/vexlang/vexc/internal/registry"
	"github.com/vexlang/vexc/internal/span"
	"github.com/vexlang/vexc/internal/types"
)

// CompileContext is threaded through every pipeline stage (spec.md
// §2). Earlier stages populate it; later stages read what they need
// and add their own output. Fields are left exported and nil-able so
// any stage can run in isolation during tests, mirroring funxy's
// PipelineContext usage in its own parser/analyzer unit tests.
type CompileContext struct {
	// FilePath is the absolute path of the entry source file, empty
	// when compiling an in-memory buffer (tests, the playground RPC
	// backend).
	FilePath string

	// Source is the raw text handed to the (out-of-scope) lexer and
	// parser, kept here so diagnostic rendering can recover source
	// lines.
	Source string

	// Spans resolves span.ID values attached to AST nodes back to
	// concrete file/line/column ranges.
	Spans *span.Map

	// Program is the parsed input, merged with the embedded prelude
	// modules by stage 1. Nil until the parser stage has run.
	Program *ast.Program

	// Registry holds the stage-2 indexes (structs, enums, traits,
	// impls, aliases, functions, constants) and the stage-10
	// memoization table.
	Registry *registry.Registry

	// Diagnostics accumulates every diagnostic emitted by every stage.
	Diagnostics *diagnostics.Collector

	// BuildConfig is the decoded .vexcompiler.yaml tuning file, or a
	// zero Config if none was present.
	BuildConfig *buildconfig.Config

	// TypeMap records the resolved type of every expression, keyed by
	// the expression's span ID so it survives AST node copies made
	// during monomorphization.
	TypeMap map[span.ID]types.Type

	// Substitution is the global unification substitution built by
	// stage 9 (spec.md §4.7) and applied by every later pass that
	// reads TypeMap.
	Substitution types.Subst

	// CaptureModes records the resolved capture mode for every closure
	// literal, keyed by the closure's span ID, computed by stage 8
	// (spec.md §4.6).
	CaptureModes map[span.ID]ast.CaptureMode

	// Module is the lowered IR produced by stage 11 (spec.md §4.9),
	// consumed by whichever backend.Backend the driver selects. Left
	// as `any` here so this package never imports internal/lowering,
	// avoiding a dependency cycle between the two.
	Module any

	// Globals holds the stage-3 GlobalScope (internal/analyzer). Left
	// as `any` for the same reason as Module: this package must not
	// import internal/analyzer, which itself imports pipeline.
	Globals any
}

// NewCompileContext builds a CompileContext for source, with empty
// registries and a fresh diagnostics collector. Mirrors funxy's
// pipeline.NewPipelineContext constructor shape (referenced across
// that repo's processor and test files, though its body was not part
// of the retrieved pack).
func NewCompileContext(source string) *CompileContext {
	return &CompileContext{
		Source:       source,
		Spans:        span.NewMap(),
		Registry:     registry.New(),
		Diagnostics:  diagnostics.NewCollector(),
		BuildConfig:  &buildconfig.Config{},
		TypeMap:      make(map[span.ID]types.Type),
		Substitution: make(types.Subst),
		CaptureModes: make(map[span.ID]ast.CaptureMode),
	}
}

// HasErrors reports whether any stage has recorded an error-level
// diagnostic so far.
func (c *CompileContext) HasErrors() bool {
	return c.Diagnostics.HasErrors()
}

// ResolvedType looks up the type most recently recorded for id,
// applying the current Substitution so callers never observe a
// dangling Unknown placeholder once unification has completed.
func (c *CompileContext) ResolvedType(id span.ID) (types.Type, bool) {
	t, ok := c.TypeMap[id]
	if !ok {
		return nil, false
	}
	return t.Apply(c.Substitution), true
}
