package analyzer

import (
	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/config"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/types"
)

// GlobalScope is the set of names visible everywhere, built once by
// SeedingProcessor and never mutated by a per-function scope's
// save/restore (spec.md §4.1: "Globals never leave scope on
// function-body save/restore").
type GlobalScope struct {
	// Names maps every globally-visible binding name to its type:
	// extern functions, top-level functions, constants, and imports.
	Names map[string]types.Type

	// BuiltinFunctions and BuiltinTypes mirror config's closed lists,
	// copied here so a pass only has to consult one scope object.
	BuiltinFunctions map[string]bool
	BuiltinTypes     map[string]bool
}

func newGlobalScope() *GlobalScope {
	return &GlobalScope{
		Names:            make(map[string]types.Type),
		BuiltinFunctions: make(map[string]bool),
		BuiltinTypes:     make(map[string]bool),
	}
}

// IsGlobal reports whether name is visible without a local binding:
// either a seeded global or a closed-list builtin function. Builtin
// *types* are deliberately excluded — spec.md §4.1 says they "receive
// special treatment: they are types, never variables", so a pass
// asking "is this a variable name" must not see them here.
func (g *GlobalScope) IsGlobal(name string) bool {
	if _, ok := g.Names[name]; ok {
		return true
	}
	return g.BuiltinFunctions[name]
}

// CandidateNames lists every name fuzzy-suggestion matching may
// propose for an unknown-identifier diagnostic (spec.md §7).
func (g *GlobalScope) CandidateNames() []string {
	names := make([]string, 0, len(g.Names)+len(g.BuiltinFunctions))
	for n := range g.Names {
		names = append(names, n)
	}
	for n := range g.BuiltinFunctions {
		names = append(names, n)
	}
	return names
}

// Globals retrieves the GlobalScope stored by SeedingProcessor, or nil
// if seeding has not run yet.
func Globals(ctx *pipeline.CompileContext) *GlobalScope {
	g, _ := ctx.Globals.(*GlobalScope)
	return g
}

// SeedingProcessor is pipeline stage 3 (spec.md §4.1). It must run
// after RegistrationProcessor and is idempotent: running it twice on
// the same registry yields an identical GlobalScope (spec.md §8
// invariant 6), since it only ever derives Names from ctx.Registry and
// the closed config lists, never from a prior GlobalScope.
type SeedingProcessor struct{}

func (SeedingProcessor) Name() string { return "global-seeding" }

func (SeedingProcessor) Process(ctx *pipeline.CompileContext) *pipeline.CompileContext {
	scope := newGlobalScope()

	for _, name := range config.BuiltinFunctionNames {
		scope.BuiltinFunctions[name] = true
	}
	for _, name := range config.BuiltinTypeNames {
		scope.BuiltinTypes[name] = true
	}

	for name, fn := range ctx.Registry.FunctionDefs {
		scope.Names[name] = functionType(fn.Params, fn.ReturnType)
	}
	for name, ext := range ctx.Registry.ExternFuncs {
		scope.Names[name] = functionType(ext.Params, ext.ReturnType)
	}
	for name, c := range ctx.Registry.GlobalConstants {
		if c.TypeAnnotation != nil {
			scope.Names[name] = c.TypeAnnotation
		} else {
			scope.Names[name] = types.Unknown{Var: "const:" + name}
		}
	}
	if ctx.Program != nil {
		for _, imp := range ctx.Program.Imports {
			for _, name := range imp.Names {
				if _, exists := scope.Names[name]; !exists {
					scope.Names[name] = types.Unknown{Var: "import:" + name}
				}
			}
		}
	}

	ctx.Globals = scope
	return ctx
}

// functionType builds the types.Function signature used to seed a
// name's type in the global scope.
func functionType(params []ast.Param, ret types.Type) types.Type {
	paramTypes := make([]types.Type, len(params))
	for i, p := range params {
		paramTypes[i] = p.Type
	}
	if ret == nil {
		ret = types.Prim(types.Unit)
	}
	return types.Function{Params: paramTypes, Ret: ret}
}
