// Package analyzer implements the semantic analysis pipeline stages
// (spec.md §2 stages 2-10): registration, global seeding, the four
// ownership/borrow passes, closure-capture classification, type
// inference, and generic instantiation. Each stage is a
// pipeline.Processor, split across files the way funxy's
// internal/analyzer package splits declarations.go /
// declarations_functions.go / inference.go / inference_solver.go by
// concern rather than one monolithic file.
package analyzer

import (
	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/config"
	"github.com/vexlang/vexc/internal/diagnostics"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/registry"
	"github.com/vexlang/vexc/internal/span"
)

// RegistrationProcessor is pipeline stage 2 (spec.md §4, table in §2):
// it indexes every top-level item into ctx.Registry without
// inspecting function bodies. Grounded on funxy's
// declarations.go/declarations_types.go/declarations_functions.go
// split, which performs the equivalent "headers" pass ahead of body
// analysis (see analyzer/processor.go's AnalyzeHeaders call).
type RegistrationProcessor struct{}

func (RegistrationProcessor) Name() string { return "registration" }

func (RegistrationProcessor) Process(ctx *pipeline.CompileContext) *pipeline.CompileContext {
	if ctx.Program == nil {
		return ctx
	}
	reg := ctx.Registry
	for _, d := range config.BuiltinExtensionDefaults {
		if reg.BuiltinExtensions[d.BuiltinType] == nil {
			reg.BuiltinExtensions[d.BuiltinType] = make(map[string]bool)
		}
		reg.BuiltinExtensions[d.BuiltinType][d.Trait] = true
	}
	for _, item := range ctx.Program.Items {
		registerItem(ctx, reg, item)
	}
	return ctx
}

func registerItem(ctx *pipeline.CompileContext, reg *registry.Registry, item ast.Item) {
	switch it := item.(type) {
	case *ast.Function:
		if _, exists := reg.FunctionDefs[it.Name]; exists {
			duplicateDefinition(ctx, it.Name, it.Span())
			return
		}
		reg.FunctionDefs[it.Name] = it

	case *ast.Struct:
		if _, exists := reg.StructDefs[it.Name]; exists {
			duplicateDefinition(ctx, it.Name, it.Span())
			return
		}
		reg.StructDefs[it.Name] = it
		for _, m := range it.InlineMethods {
			ctx.Diagnostics.Add(diagnostics.NewWarning(diagnostics.ErrUnknownIdentifier,
				resolve(ctx, it.Span()), "inline method %q on struct %q uses the legacy path; prefer a separate impl block", m.Name, it.Name))
		}

	case *ast.Enum:
		if _, exists := reg.EnumDefs[it.Name]; exists {
			duplicateDefinition(ctx, it.Name, it.Span())
			return
		}
		reg.EnumDefs[it.Name] = it

	case *ast.Trait:
		if _, exists := reg.TraitDefs[it.Name]; exists {
			duplicateDefinition(ctx, it.Name, it.Span())
			return
		}
		reg.TraitDefs[it.Name] = it

	case *ast.TraitImpl:
		key := registry.TraitImplKey{Trait: it.Trait, Type: it.ForType.String()}
		methods := make(map[string]*ast.Function, len(it.Methods))
		for _, m := range it.Methods {
			methods[m.Name] = m
		}
		reg.TraitImpls[key] = methods

	case *ast.Const:
		if _, exists := reg.GlobalConstants[it.Name]; exists {
			duplicateDefinition(ctx, it.Name, it.Span())
			return
		}
		reg.GlobalConstants[it.Name] = it

	case *ast.TypeAlias:
		if _, exists := reg.TypeAliases[it.Name]; exists {
			duplicateDefinition(ctx, it.Name, it.Span())
			return
		}
		reg.TypeAliases[it.Name] = it

	case *ast.ExternBlock:
		for i := range it.Functions {
			fn := &it.Functions[i]
			reg.ExternFuncs[fn.Name] = fn
		}

	case *ast.Policy:
		reg.Policies[it.Name] = true

	case *ast.BuiltinExtension:
		if reg.BuiltinExtensions[it.BuiltinType] == nil {
			reg.BuiltinExtensions[it.BuiltinType] = make(map[string]bool)
		}
		reg.BuiltinExtensions[it.BuiltinType][it.Trait] = true
	}
}

func duplicateDefinition(ctx *pipeline.CompileContext, name string, id span.ID) {
	ctx.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrAmbiguousIdentifier,
		resolve(ctx, id), "%q is already defined at this scope", name))
}

// resolve looks up a span.ID against ctx.Spans, falling back to the
// zero Span (synthesized nodes, or a front end that never registered
// the ID) so diagnostic construction never needs a second nil check.
func resolve(ctx *pipeline.CompileContext, id span.ID) span.Span {
	if ctx.Spans == nil {
		return span.Span{}
	}
	sp, _ := ctx.Spans.Resolve(id)
	return sp
}
