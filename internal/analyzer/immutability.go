package analyzer

import (
	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/diagnostics"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/types"
)

// ImmutabilityProcessor is pass 1 (spec.md §4.2). A binding is mutable
// iff declared with the explicit `mut` marker; assignment, compound
// assignment, and mutable-flagged method calls are rejected against an
// immutable binding.
type ImmutabilityProcessor struct{}

func (ImmutabilityProcessor) Name() string { return "immutability" }

func (ImmutabilityProcessor) Process(ctx *pipeline.CompileContext) *pipeline.CompileContext {
	if ctx.Program == nil {
		return ctx
	}
	ic := &immutabilityChecker{ctx: ctx}
	forEachFunctionBody(ctx, func(fn *ast.Function) {
		ic.checkFunction(fn)
	})
	return ctx
}

type immutabilityChecker struct {
	ctx    *pipeline.CompileContext
	frames stack[bool] // name -> mutable
}

func (c *immutabilityChecker) checkFunction(fn *ast.Function) {
	c.frames.push()
	defer c.frames.pop()

	if fn.Receiver != nil {
		c.frames.declare(fn.Receiver.Name, receiverIsMutable(fn.Receiver.Type))
	}
	for _, p := range fn.Params {
		c.frames.declare(p.Name, false)
	}
	if fn.Body != nil {
		c.checkBlock(fn.Body)
	}
}

func receiverIsMutable(t types.Type) bool {
	if ref, ok := t.(types.Reference); ok {
		return ref.Mutable
	}
	return false
}

func (c *immutabilityChecker) checkBlock(b *ast.Block) {
	c.frames.push()
	defer c.frames.pop()
	for _, stmt := range b.Statements {
		c.checkStatement(stmt)
	}
	if b.TrailingExpr != nil {
		c.checkExpr(b.TrailingExpr)
	}
}

func (c *immutabilityChecker) checkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		if s.Init != nil {
			c.checkExpr(s.Init)
		}
		if s.Pattern != nil {
			for _, name := range s.Pattern.Names() {
				c.frames.declare(name, s.Mutable)
			}
		} else {
			c.frames.declare(s.Name, s.Mutable)
		}
	case *ast.AssignStatement:
		c.checkExpr(s.Value)
		c.checkAssignTarget(s.Target)
	case *ast.CompoundAssignStatement:
		c.checkExpr(s.Value)
		c.checkAssignTarget(s.Target)
	case *ast.ReturnStatement:
		if s.Value != nil {
			c.checkExpr(s.Value)
		}
	case *ast.DeferStatement:
		c.checkStatement(s.Inner)
	case *ast.IfStatement:
		c.checkExpr(s.Condition)
		c.checkBlock(s.Then)
		if s.Else != nil {
			c.checkStatement(s.Else)
		}
	case *ast.BlockStatement:
		c.checkBlock(s.Body)
	case *ast.WhileStatement:
		c.checkExpr(s.Condition)
		c.checkBlock(s.Body)
	case *ast.ForStatement:
		c.checkExpr(s.Iterable)
		c.frames.push()
		for _, name := range s.Binding.Names() {
			c.frames.declare(name, false)
		}
		c.checkBlock(s.Body)
		c.frames.pop()
	case *ast.SwitchStatement:
		c.checkExpr(s.Subject)
		for _, cs := range s.Cases {
			c.frames.push()
			for _, name := range cs.Pattern.Names() {
				c.frames.declare(name, false)
			}
			if cs.Guard != nil {
				c.checkExpr(cs.Guard)
			}
			c.checkBlock(cs.Body)
			c.frames.pop()
		}
	case *ast.ExpressionStatement:
		c.checkExpr(s.Expr)
	}
}

// checkAssignTarget rejects a direct assignment to an immutable
// binding (spec.md §4.2: "write-to-immutable"). Writes through a
// field or index expression are checked against the root binding.
func (c *immutabilityChecker) checkAssignTarget(target ast.Expression) {
	root := rootIdentifier(target)
	if root == "" {
		return
	}
	mutable, _, found := c.frames.lookup(root)
	if found && !mutable {
		c.ctx.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrWriteToImmutable,
			resolve(c.ctx, target.Span()), "cannot assign to immutable binding %q", root))
	}
}

func rootIdentifier(e ast.Expression) string {
	switch ex := e.(type) {
	case *ast.Identifier:
		return ex.Name
	case *ast.FieldAccessExpr:
		return rootIdentifier(ex.Receiver)
	case *ast.IndexExpr:
		return rootIdentifier(ex.Base)
	case *ast.UnaryExpr:
		return rootIdentifier(ex.Operand)
	default:
		return ""
	}
}

func (c *immutabilityChecker) checkExpr(e ast.Expression) {
	switch ex := e.(type) {
	case *ast.BinaryExpr:
		c.checkExpr(ex.Left)
		c.checkExpr(ex.Right)
	case *ast.UnaryExpr:
		c.checkExpr(ex.Operand)
		if ex.Op == "&mut" {
			root := rootIdentifier(ex.Operand)
			if mutable, _, found := c.frames.lookup(root); found && !mutable {
				c.ctx.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrWriteToImmutable,
					resolve(c.ctx, ex.Span()), "cannot take an exclusive reference to immutable binding %q", root))
			}
		}
	case *ast.PostfixExpr:
		c.checkExpr(ex.Operand)
	case *ast.CallExpr:
		c.checkExpr(ex.Callee)
		for _, a := range ex.Args {
			c.checkExpr(a)
		}
	case *ast.MethodCallExpr:
		c.checkExpr(ex.Receiver)
		for _, a := range ex.Args {
			c.checkExpr(a)
		}
		if ex.IsMutableCall {
			root := rootIdentifier(ex.Receiver)
			if mutable, _, found := c.frames.lookup(root); found && !mutable {
				c.ctx.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrMutableMethodOnImmut,
					resolve(c.ctx, ex.Span()), "cannot call mutable method %q on immutable receiver %q", ex.Method, root))
			}
		}
	case *ast.FieldAccessExpr:
		c.checkExpr(ex.Receiver)
	case *ast.IndexExpr:
		c.checkExpr(ex.Base)
		c.checkExpr(ex.Index)
	case *ast.StructLiteralExpr:
		for _, f := range ex.Fields {
			c.checkExpr(f.Value)
		}
	case *ast.MatchExpr:
		c.checkExpr(ex.Subject)
		for _, arm := range ex.Arms {
			c.frames.push()
			for _, name := range arm.Pattern.Names() {
				c.frames.declare(name, false)
			}
			if arm.Guard != nil {
				c.checkExpr(arm.Guard)
			}
			c.checkExpr(arm.Result)
			c.frames.pop()
		}
	case *ast.TryExpr:
		c.checkExpr(ex.Inner)
	case *ast.RangeExpr:
		if ex.Start != nil {
			c.checkExpr(ex.Start)
		}
		if ex.End != nil {
			c.checkExpr(ex.End)
		}
	case *ast.CastExpr:
		c.checkExpr(ex.Inner)
	case *ast.ClosureExpr:
		c.frames.push()
		for _, p := range ex.Params {
			c.frames.declare(p.Name, false)
		}
		c.checkBlock(ex.Body)
		c.frames.pop()
	case *ast.ChannelRecvExpr:
		c.checkExpr(ex.Channel)
	case *ast.BlockExpr:
		c.checkBlock(ex.Body)
	case *ast.TypeConstructorExpr:
		for _, a := range ex.Args {
			c.checkExpr(a)
		}
	}
}
