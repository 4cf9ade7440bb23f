package analyzer

import (
	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/diagnostics"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/span"
	"github.com/vexlang/vexc/internal/types"
)

// MoveProcessor is pass 2 (spec.md §4.3), grounded directly on
// original_source/vex-compiler/src/borrow_checker/moves/checker.rs:
// per-function valid/moved sets over bindings of Move type, using
// types.IsMoveType (ported from that same source tree's
// type_classification.rs) to decide which bindings participate.
type MoveProcessor struct{}

func (MoveProcessor) Name() string { return "move-check" }

func (MoveProcessor) Process(ctx *pipeline.CompileContext) *pipeline.CompileContext {
	if ctx.Program == nil {
		return ctx
	}
	mc := &moveChecker{ctx: ctx, globals: Globals(ctx)}
	forEachFunctionBody(ctx, func(fn *ast.Function) {
		mc.checkFunction(fn)
	})
	return ctx
}

type moveBinding struct {
	typ      types.Type
	moved    bool
	movedAt  span.ID
}

type moveChecker struct {
	ctx     *pipeline.CompileContext
	globals *GlobalScope
	frames  stack[*moveBinding]
}

// checkFunction resets frames to a fresh stack per function so that
// state after a function body equals state before it modulo globals,
// per spec.md §8 invariant 3 (globals are never stored in `frames` to
// begin with, so there is nothing to restore for them).
func (c *moveChecker) checkFunction(fn *ast.Function) {
	c.frames = stack[*moveBinding]{}
	c.frames.push()
	defer c.frames.pop()

	if fn.Receiver != nil {
		c.declare(fn.Receiver.Name, receiverValueType(fn.Receiver.Type))
	}
	for _, p := range fn.Params {
		c.declare(p.Name, p.Type)
	}
	if fn.Body != nil {
		c.checkBlock(fn.Body)
	}
}

func receiverValueType(t types.Type) types.Type {
	if ref, ok := t.(types.Reference); ok {
		return ref.Referent
	}
	return t
}

func (c *moveChecker) declare(name string, t types.Type) {
	if t == nil {
		t = types.Unknown{Var: name}
	}
	c.frames.declare(name, &moveBinding{typ: t})
}

func (c *moveChecker) checkBlock(b *ast.Block) {
	c.frames.push()
	defer c.frames.pop()
	for _, stmt := range b.Statements {
		c.checkStatement(stmt)
	}
	if b.TrailingExpr != nil {
		c.checkExpr(b.TrailingExpr, true)
	}
}

func (c *moveChecker) checkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		if s.Init != nil {
			c.checkExpr(s.Init, true)
		}
		t := s.TypeAnnotation
		if s.Pattern != nil {
			validatePattern(c.ctx, s.Pattern)
			for _, name := range s.Pattern.Names() {
				c.declare(name, types.Unknown{Var: name})
			}
		} else {
			c.declare(s.Name, t)
		}
	case *ast.AssignStatement:
		c.checkExpr(s.Value, true)
		c.checkExpr(s.Target, false)
	case *ast.CompoundAssignStatement:
		c.checkExpr(s.Value, true)
		c.checkExpr(s.Target, false)
	case *ast.ReturnStatement:
		if s.Value != nil {
			c.checkExpr(s.Value, true)
		}
	case *ast.DeferStatement:
		c.checkStatement(s.Inner)
	case *ast.IfStatement:
		c.checkExpr(s.Condition, true)
		c.checkBlock(s.Then)
		if s.Else != nil {
			c.checkStatement(s.Else)
		}
	case *ast.BlockStatement:
		c.checkBlock(s.Body)
	case *ast.WhileStatement:
		c.checkExpr(s.Condition, true)
		c.checkBlock(s.Body)
	case *ast.ForStatement:
		c.checkExpr(s.Iterable, true)
		c.frames.push()
		validatePattern(c.ctx, s.Binding)
		for _, name := range s.Binding.Names() {
			c.declare(name, types.Unknown{Var: name})
		}
		c.checkBlock(s.Body)
		c.frames.pop()
	case *ast.SwitchStatement:
		c.checkExpr(s.Subject, false)
		for _, cs := range s.Cases {
			c.frames.push()
			validatePattern(c.ctx, cs.Pattern)
			for _, name := range cs.Pattern.Names() {
				c.declare(name, types.Unknown{Var: name})
			}
			if cs.Guard != nil {
				c.checkExpr(cs.Guard, true)
			}
			c.checkBlock(cs.Body)
			c.frames.pop()
		}
	case *ast.ExpressionStatement:
		c.checkExpr(s.Expr, true)
	}
}

// checkExpr visits e. consuming marks a "value position" (spec.md
// §4.3 rule 2): call arguments, return values, let initializers,
// assignment sources, struct-literal field values. Receiver/base
// positions of a method call, field access, or index expression, and
// the operand of an address-of operator, are not consuming — they
// borrow rather than move.
func (c *moveChecker) checkExpr(e ast.Expression, consuming bool) {
	switch ex := e.(type) {
	case *ast.Identifier:
		c.touch(ex.Name, ex.Span(), consuming)
	case *ast.BinaryExpr:
		c.checkExpr(ex.Left, true)
		c.checkExpr(ex.Right, true)
	case *ast.UnaryExpr:
		borrow := ex.Op == "&" || ex.Op == "&mut"
		c.checkExpr(ex.Operand, !borrow)
	case *ast.PostfixExpr:
		c.checkExpr(ex.Operand, consuming)
	case *ast.CallExpr:
		c.checkExpr(ex.Callee, false)
		for _, a := range ex.Args {
			c.checkExpr(a, true)
		}
	case *ast.MethodCallExpr:
		c.checkExpr(ex.Receiver, false)
		for _, a := range ex.Args {
			c.checkExpr(a, true)
		}
	case *ast.FieldAccessExpr:
		c.checkExpr(ex.Receiver, false)
	case *ast.IndexExpr:
		c.checkExpr(ex.Base, false)
		c.checkExpr(ex.Index, true)
	case *ast.StructLiteralExpr:
		for _, f := range ex.Fields {
			c.checkExpr(f.Value, true)
		}
	case *ast.MatchExpr:
		c.checkExpr(ex.Subject, false)
		for _, arm := range ex.Arms {
			c.frames.push()
			validatePattern(c.ctx, arm.Pattern)
			for _, name := range arm.Pattern.Names() {
				c.declare(name, types.Unknown{Var: name})
			}
			if arm.Guard != nil {
				c.checkExpr(arm.Guard, true)
			}
			c.checkExpr(arm.Result, true)
			c.frames.pop()
		}
	case *ast.TryExpr:
		c.checkExpr(ex.Inner, true)
	case *ast.RangeExpr:
		if ex.Start != nil {
			c.checkExpr(ex.Start, true)
		}
		if ex.End != nil {
			c.checkExpr(ex.End, true)
		}
	case *ast.CastExpr:
		c.checkExpr(ex.Inner, true)
	case *ast.ClosureExpr:
		c.frames.push()
		for _, p := range ex.Params {
			c.declare(p.Name, p.Type)
		}
		c.checkBlock(ex.Body)
		c.frames.pop()
	case *ast.ChannelRecvExpr:
		c.checkExpr(ex.Channel, false)
	case *ast.BlockExpr:
		c.checkBlock(ex.Body)
	case *ast.TypeConstructorExpr:
		for _, a := range ex.Args {
			c.checkExpr(a, true)
		}
	}
}

func (c *moveChecker) touch(name string, id span.ID, consuming bool) {
	if c.globals != nil && c.globals.IsGlobal(name) {
		return
	}
	binding, _, found := c.frames.lookup(name)
	if !found {
		return
	}
	if binding.moved {
		movedAtSpan := resolve(c.ctx, binding.movedAt)
		verb := "use"
		if consuming {
			verb = "move"
		}
		c.ctx.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrUseAfterMove,
			resolve(c.ctx, id), "%s of moved binding %q", verb, name).
			WithRelated(movedAtSpan, "value moved here"))
		return
	}
	if consuming && types.IsMoveType(binding.typ) {
		binding.moved = true
		binding.movedAt = id
	}
}
