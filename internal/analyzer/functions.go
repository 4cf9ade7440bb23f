package analyzer

import (
	"sort"

	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/pipeline"
)

// forEachFunctionBody visits every function body reachable from the
// registry in a deterministic order: struct inline methods, then enum
// inline methods, then trait impl methods, then free functions, then
// trait default bodies. Spec.md §5 requires "trait-impl method
// bodies are lowered before any non-trait function body" and "inline
// struct method bodies are lowered before the general function pass";
// analysis passes don't have that ordering constraint, but visiting in
// a fixed order keeps diagnostic output reproducible across runs.
// ForEachFunctionBody is the exported form of forEachFunctionBody, for
// stage 11 (internal/lowering) which needs the same deterministic
// visiting order but lives in a separate package to keep IR concerns
// out of the analyzer.
func ForEachFunctionBody(ctx *pipeline.CompileContext, visit func(*ast.Function)) {
	forEachFunctionBody(ctx, visit)
}

func forEachFunctionBody(ctx *pipeline.CompileContext, visit func(*ast.Function)) {
	for _, name := range sortedKeys(ctx.Registry.StructDefs) {
		for _, m := range ctx.Registry.StructDefs[name].InlineMethods {
			visit(m)
		}
	}
	for _, name := range sortedKeys(ctx.Registry.EnumDefs) {
		for _, m := range ctx.Registry.EnumDefs[name].InlineMethods {
			visit(m)
		}
	}
	implKeys := make([]string, 0, len(ctx.Registry.TraitImpls))
	implIndex := make(map[string]map[string]*ast.Function, len(ctx.Registry.TraitImpls))
	for key, methods := range ctx.Registry.TraitImpls {
		k := key.Trait + "|" + key.Type
		implKeys = append(implKeys, k)
		implIndex[k] = methods
	}
	sort.Strings(implKeys)
	for _, k := range implKeys {
		methods := implIndex[k]
		for _, name := range sortedKeys(methods) {
			visit(methods[name])
		}
	}
	for _, name := range sortedKeys(ctx.Registry.FunctionDefs) {
		visit(ctx.Registry.FunctionDefs[name])
	}
	for _, name := range sortedKeys(ctx.Registry.TraitDefs) {
		trait := ctx.Registry.TraitDefs[name]
		for _, mName := range sortedKeys(trait.DefaultBodies) {
			visit(trait.DefaultBodies[mName])
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
