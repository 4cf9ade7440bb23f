package analyzer

import (
	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/diagnostics"
	"github.com/vexlang/vexc/internal/pipeline"
)

// LifetimeProcessor is pass 4 (spec.md §4.5): a lightweight region
// analysis over integer scope depths. Globals sit at depth 0 and are
// always safe; a function's own top-level scope (its parameters and
// its body's outermost block) sits at depth 1, the function's "return
// depth". A reference whose referent was declared at a depth strictly
// greater than 1 cannot be returned, since the referent's storage is
// gone by the time the caller observes it.
type LifetimeProcessor struct{}

func (LifetimeProcessor) Name() string { return "lifetime-check" }

func (LifetimeProcessor) Process(ctx *pipeline.CompileContext) *pipeline.CompileContext {
	if ctx.Program == nil {
		return ctx
	}
	lc := &lifetimeChecker{ctx: ctx}
	forEachFunctionBody(ctx, func(fn *ast.Function) {
		lc.checkFunction(fn)
	})
	return ctx
}

const functionReturnDepth = 1

type lifetimeChecker struct {
	ctx *pipeline.CompileContext

	// bindingDepth records the scope depth each binding was declared
	// at, valid for the function currently being checked.
	bindingDepth stack[int]

	// referentDepth records, for a binding holding a reference value,
	// the depth of what it points to — the "region" of spec.md §4.5.
	referentDepth map[string]int
}

func (c *lifetimeChecker) checkFunction(fn *ast.Function) {
	c.bindingDepth = stack[int]{}
	c.referentDepth = make(map[string]int)
	c.bindingDepth.push()

	if fn.Receiver != nil {
		c.bindingDepth.declare(fn.Receiver.Name, functionReturnDepth)
	}
	for _, p := range fn.Params {
		c.bindingDepth.declare(p.Name, functionReturnDepth)
	}
	if fn.Body != nil {
		c.checkBlockAt(fn.Body, functionReturnDepth)
	}
}

func (c *lifetimeChecker) checkBlockAt(b *ast.Block, depth int) {
	c.bindingDepth.push()
	for _, stmt := range b.Statements {
		c.checkStatement(stmt, depth)
	}
	c.bindingDepth.pop()
}

func (c *lifetimeChecker) checkStatement(stmt ast.Statement, depth int) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		if s.Pattern != nil {
			for _, name := range s.Pattern.Names() {
				c.bindingDepth.declare(name, depth)
			}
			return
		}
		c.bindingDepth.declare(s.Name, depth)
		if _, referent, ok := referenceTarget(s.Init); ok {
			c.referentDepth[s.Name] = c.depthOf(referent, depth)
		}
	case *ast.ReturnStatement:
		if s.Value == nil {
			return
		}
		c.checkReturnValue(s.Value, depth)
	case *ast.DeferStatement:
		c.checkStatement(s.Inner, depth)
	case *ast.IfStatement:
		c.checkBlockAt(s.Then, depth+1)
		if s.Else != nil {
			c.checkStatement(s.Else, depth)
		}
	case *ast.BlockStatement:
		c.checkBlockAt(s.Body, depth+1)
	case *ast.WhileStatement:
		c.checkBlockAt(s.Body, depth+1)
	case *ast.ForStatement:
		c.bindingDepth.push()
		for _, name := range s.Binding.Names() {
			c.bindingDepth.declare(name, depth+1)
		}
		c.checkBlockAt(s.Body, depth+1)
		c.bindingDepth.pop()
	case *ast.SwitchStatement:
		for _, cs := range s.Cases {
			c.bindingDepth.push()
			for _, name := range cs.Pattern.Names() {
				c.bindingDepth.declare(name, depth+1)
			}
			c.checkBlockAt(cs.Body, depth+1)
			c.bindingDepth.pop()
		}
	}
}

// checkReturnValue rejects returning a reference whose referent lives
// deeper than the function's own return depth (spec.md §4.5).
func (c *lifetimeChecker) checkReturnValue(e ast.Expression, depth int) {
	if _, referent, ok := referenceTarget(e); ok {
		if d := c.depthOf(referent, depth); d > functionReturnDepth {
			c.ctx.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrReturnLocalReference,
				resolve(c.ctx, e.Span()), "cannot return a reference to local binding %q", referent))
		}
		return
	}
	if ident, ok := e.(*ast.Identifier); ok {
		if d, ok := c.referentDepth[ident.Name]; ok && d > functionReturnDepth {
			c.ctx.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrReferenceOutlivesReferent,
				resolve(c.ctx, e.Span()), "reference %q outlives its referent", ident.Name))
		}
	}
}

// referenceTarget reports whether e is `&x` or `&mut x` and, if so,
// the root identifier it borrows.
func referenceTarget(e ast.Expression) (isRef bool, root string, ok bool) {
	u, isUnary := e.(*ast.UnaryExpr)
	if !isUnary || (u.Op != "&" && u.Op != "&mut") {
		return false, "", false
	}
	root = rootIdentifier(u.Operand)
	if root == "" {
		return true, "", false
	}
	return true, root, true
}

func (c *lifetimeChecker) depthOf(name string, fallback int) int {
	if d, _, found := c.bindingDepth.lookup(name); found {
		return d
	}
	if g := Globals(c.ctx); g != nil && g.IsGlobal(name) {
		return 0
	}
	return fallback
}
