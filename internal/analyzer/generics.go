package analyzer

import (
	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/config"
	"github.com/vexlang/vexc/internal/diagnostics"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/registry"
	"github.com/vexlang/vexc/internal/span"
	"github.com/vexlang/vexc/internal/types"
)

// GenericsProcessor is pass 7 (spec.md §4.8): on-demand monomorphization
// of every struct literal and call site that supplies (or can infer)
// concrete type arguments for a generic entity. Instantiations are
// memoized on the registry built in stage 2, so two call sites with
// identical arguments produce exactly one specialization (spec.md §8
// scenario S2).
type GenericsProcessor struct{}

func (GenericsProcessor) Name() string { return "generic-instantiation" }

func (GenericsProcessor) Process(ctx *pipeline.CompileContext) *pipeline.CompileContext {
	if ctx.Program == nil || ctx.Registry == nil {
		return ctx
	}
	g := &genericsInstantiator{ctx: ctx}
	forEachFunctionBody(ctx, func(fn *ast.Function) {
		g.walkBlock(fn.Body)
	})
	return ctx
}

type genericsInstantiator struct {
	ctx *pipeline.CompileContext
}

func (g *genericsInstantiator) walkBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		g.walkStatement(stmt)
	}
	if b.TrailingExpr != nil {
		g.walkExpr(b.TrailingExpr)
	}
}

func (g *genericsInstantiator) walkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		if s.Init != nil {
			g.walkExpr(s.Init)
		}
	case *ast.AssignStatement:
		g.walkExpr(s.Value)
	case *ast.CompoundAssignStatement:
		g.walkExpr(s.Value)
	case *ast.ReturnStatement:
		if s.Value != nil {
			g.walkExpr(s.Value)
		}
	case *ast.DeferStatement:
		g.walkStatement(s.Inner)
	case *ast.IfStatement:
		g.walkBlock(s.Then)
		if s.Else != nil {
			g.walkStatement(s.Else)
		}
	case *ast.BlockStatement:
		g.walkBlock(s.Body)
	case *ast.WhileStatement:
		g.walkBlock(s.Body)
	case *ast.ForStatement:
		g.walkBlock(s.Body)
	case *ast.SwitchStatement:
		for _, cs := range s.Cases {
			g.walkBlock(cs.Body)
		}
	case *ast.ExpressionStatement:
		g.walkExpr(s.Expr)
	}
}

func (g *genericsInstantiator) walkExpr(e ast.Expression) {
	switch ex := e.(type) {
	case *ast.StructLiteralExpr:
		for _, f := range ex.Fields {
			g.walkExpr(f.Value)
		}
		if len(ex.TypeArgs) > 0 {
			g.instantiateStruct(ex.TypeName, ex.TypeArgs, ex.Span())
		}
	case *ast.TypeConstructorExpr:
		for _, a := range ex.Args {
			g.walkExpr(a)
		}
		if len(ex.TypeArgs) > 0 {
			g.instantiateStruct(ex.TypeName, ex.TypeArgs, ex.Span())
		}
	case *ast.CallExpr:
		g.walkExpr(ex.Callee)
		for _, a := range ex.Args {
			g.walkExpr(a)
		}
		if callee, ok := ex.Callee.(*ast.Identifier); ok && len(ex.TypeArgs) > 0 {
			g.instantiateFunction(callee.Name, ex.TypeArgs, ex.Span())
		}
	case *ast.MethodCallExpr:
		g.walkExpr(ex.Receiver)
		for _, a := range ex.Args {
			g.walkExpr(a)
		}
	case *ast.BinaryExpr:
		g.walkExpr(ex.Left)
		g.walkExpr(ex.Right)
	case *ast.UnaryExpr:
		g.walkExpr(ex.Operand)
	case *ast.PostfixExpr:
		g.walkExpr(ex.Operand)
	case *ast.FieldAccessExpr:
		g.walkExpr(ex.Receiver)
	case *ast.IndexExpr:
		g.walkExpr(ex.Base)
		g.walkExpr(ex.Index)
	case *ast.MatchExpr:
		g.walkExpr(ex.Subject)
		for _, arm := range ex.Arms {
			if arm.Guard != nil {
				g.walkExpr(arm.Guard)
			}
			g.walkExpr(arm.Result)
		}
	case *ast.TryExpr:
		g.walkExpr(ex.Inner)
	case *ast.CastExpr:
		g.walkExpr(ex.Inner)
	case *ast.ClosureExpr:
		g.walkBlock(ex.Body)
	case *ast.BlockExpr:
		g.walkBlock(ex.Body)
	case *ast.ChannelRecvExpr:
		g.walkExpr(ex.Channel)
	case *ast.RangeExpr:
		if ex.Start != nil {
			g.walkExpr(ex.Start)
		}
		if ex.End != nil {
			g.walkExpr(ex.End)
		}
	}
}

// instantiateStruct runs spec.md §4.8's struct-request procedure.
func (g *genericsInstantiator) instantiateStruct(name string, typeArgs []types.Type, at span.ID) {
	def, ok := g.ctx.Registry.StructDefs[name]
	if !ok {
		return // a builtin container (Vec, Box, ...); nothing to monomorphize
	}
	key := registry.InstantiationKey(name, typeArgs)
	if _, ok := g.ctx.Registry.LookupInstantiation(key); ok {
		return // memoized: spec.md §8 invariant 1 / scenario S2
	}
	if len(typeArgs) > len(def.TypeParams) {
		g.errorf(at, diagnostics.ErrGenericArityMismatch, "%q takes at most %d type argument(s), got %d", name, len(def.TypeParams), len(typeArgs))
		return
	}
	resolvedArgs := make([]types.Type, len(def.TypeParams))
	for i, tp := range def.TypeParams {
		if i < len(typeArgs) {
			resolvedArgs[i] = typeArgs[i]
			continue
		}
		if tp.Default == nil {
			g.errorf(at, diagnostics.ErrGenericArityMismatch, "missing type argument for parameter %q of %q", tp.Name, name)
			return
		}
		resolvedArgs[i] = tp.Default
	}
	for i, tp := range def.TypeParams {
		for _, bound := range tp.Bounds {
			if !g.ctx.Registry.SatisfiesBound(resolvedArgs[i], bound) {
				g.errorf(at, diagnostics.ErrUnsatisfiedBound, "%s does not satisfy bound %q required by %q", resolvedArgs[i].String(), bound, tp.Name)
				return
			}
		}
	}
	maxDepth := config.MaxGenericDepth
	if g.ctx.BuildConfig != nil && g.ctx.BuildConfig.MaxGenericDepthOverride > 0 {
		maxDepth = g.ctx.BuildConfig.MaxGenericDepthOverride
	}
	for _, a := range resolvedArgs {
		if genericDepth(a) > maxDepth {
			g.errorf(at, diagnostics.ErrGenericDepthExceeded, "type nesting for %q exceeds the maximum generic depth", name)
			return
		}
	}
	mangled := registry.MangledName(name, resolvedArgs)
	g.ctx.Registry.RegisterInstantiation(key, mangled)
}

func (g *genericsInstantiator) instantiateFunction(name string, typeArgs []types.Type, at span.ID) {
	fn, ok := g.ctx.Registry.FunctionDefs[name]
	if !ok {
		return
	}
	key := registry.InstantiationKey(name, typeArgs)
	if _, ok := g.ctx.Registry.LookupInstantiation(key); ok {
		return
	}
	if len(typeArgs) > len(fn.TypeParams) {
		g.errorf(at, diagnostics.ErrGenericArityMismatch, "%q takes at most %d type argument(s), got %d", name, len(fn.TypeParams), len(typeArgs))
		return
	}
	for i, tp := range fn.TypeParams {
		if i >= len(typeArgs) {
			break
		}
		for _, bound := range tp.Bounds {
			if !g.ctx.Registry.SatisfiesBound(typeArgs[i], bound) {
				g.errorf(at, diagnostics.ErrUnsatisfiedBound, "%s does not satisfy bound %q required by %q", typeArgs[i].String(), bound, tp.Name)
				return
			}
		}
	}
	mangled := registry.MangledName(name, typeArgs)
	g.ctx.Registry.RegisterInstantiation(key, mangled)
}

func (g *genericsInstantiator) errorf(at span.ID, code diagnostics.Code, format string, args ...any) {
	g.ctx.Diagnostics.Add(diagnostics.NewError(code, resolve(g.ctx, at), format, args...))
}

// genericDepth measures the nesting depth of t's type tree, per
// spec.md §4.8 step 6 ("recursion depth in the type tree").
func genericDepth(t types.Type) int {
	switch v := t.(type) {
	case types.Box:
		return 1 + genericDepth(v.Elem)
	case types.Vec:
		return 1 + genericDepth(v.Elem)
	case types.Option:
		return 1 + genericDepth(v.Elem)
	case types.Result:
		d := genericDepth(v.Ok)
		if e := genericDepth(v.Err); e > d {
			d = e
		}
		return 1 + d
	case types.Array:
		return 1 + genericDepth(v.Elem)
	case types.Slice:
		return 1 + genericDepth(v.Elem)
	case types.Generic:
		max := 0
		for _, a := range v.Args {
			if d := genericDepth(a); d > max {
				max = d
			}
		}
		return 1 + max
	default:
		return 0
	}
}

