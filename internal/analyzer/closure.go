package analyzer

import (
	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/diagnostics"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/types"
)

// ClosureProcessor is pass 5 (spec.md §4.6). For every closure
// literal it classifies the body's use of free (captured) bindings
// into shared-capturing, exclusive-capturing, or one-shot-consuming,
// per the "any move promotes to one-shot; otherwise any mutation
// promotes to exclusive; otherwise shared" rule of spec.md §9.
type ClosureProcessor struct{}

func (ClosureProcessor) Name() string { return "closure-capture" }

func (ClosureProcessor) Process(ctx *pipeline.CompileContext) *pipeline.CompileContext {
	if ctx.Program == nil {
		return ctx
	}
	cc := &closureChecker{ctx: ctx}
	forEachFunctionBody(ctx, func(fn *ast.Function) {
		cc.checkFunction(fn)
	})
	return ctx
}

type captureBinding struct{ typ types.Type }

type closureChecker struct {
	ctx    *pipeline.CompileContext
	frames stack[*captureBinding]
}

func (c *closureChecker) checkFunction(fn *ast.Function) {
	c.frames = stack[*captureBinding]{}
	c.frames.push()
	defer c.frames.pop()

	if fn.Receiver != nil {
		c.frames.declare(fn.Receiver.Name, &captureBinding{typ: receiverValueType(fn.Receiver.Type)})
	}
	for _, p := range fn.Params {
		c.frames.declare(p.Name, &captureBinding{typ: p.Type})
	}
	if fn.Body != nil {
		c.walkBlock(fn.Body)
	}
}

func (c *closureChecker) walkBlock(b *ast.Block) {
	c.frames.push()
	defer c.frames.pop()
	for _, stmt := range b.Statements {
		c.walkStatement(stmt)
	}
	if b.TrailingExpr != nil {
		c.walkExpr(b.TrailingExpr)
	}
}

func (c *closureChecker) walkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		if s.Init != nil {
			c.walkExpr(s.Init)
		}
		if s.Pattern != nil {
			for _, name := range s.Pattern.Names() {
				c.frames.declare(name, &captureBinding{typ: types.Unknown{Var: name}})
			}
		} else {
			c.frames.declare(s.Name, &captureBinding{typ: s.TypeAnnotation})
		}
	case *ast.AssignStatement:
		c.walkExpr(s.Value)
		c.walkExpr(s.Target)
	case *ast.CompoundAssignStatement:
		c.walkExpr(s.Value)
		c.walkExpr(s.Target)
	case *ast.ReturnStatement:
		if s.Value != nil {
			c.walkExpr(s.Value)
		}
	case *ast.DeferStatement:
		c.walkStatement(s.Inner)
	case *ast.IfStatement:
		c.walkExpr(s.Condition)
		c.walkBlock(s.Then)
		if s.Else != nil {
			c.walkStatement(s.Else)
		}
	case *ast.BlockStatement:
		c.walkBlock(s.Body)
	case *ast.WhileStatement:
		c.walkExpr(s.Condition)
		c.walkBlock(s.Body)
	case *ast.ForStatement:
		c.walkExpr(s.Iterable)
		c.frames.push()
		for _, name := range s.Binding.Names() {
			c.frames.declare(name, &captureBinding{typ: types.Unknown{Var: name}})
		}
		c.walkBlock(s.Body)
		c.frames.pop()
	case *ast.SwitchStatement:
		c.walkExpr(s.Subject)
		for _, cs := range s.Cases {
			c.frames.push()
			for _, name := range cs.Pattern.Names() {
				c.frames.declare(name, &captureBinding{typ: types.Unknown{Var: name}})
			}
			if cs.Guard != nil {
				c.walkExpr(cs.Guard)
			}
			c.walkBlock(cs.Body)
			c.frames.pop()
		}
	case *ast.ExpressionStatement:
		c.walkExpr(s.Expr)
	}
}

// walkExpr recurses through ordinary expressions, including assignment
// targets outside any closure. Inside a closure body, captureAnalysis
// visits assignment targets as mutating uses via markMutation.
func (c *closureChecker) walkExpr(e ast.Expression) {
	switch ex := e.(type) {
	case *ast.ClosureExpr:
		c.classifyClosure(ex)
	case *ast.BinaryExpr:
		c.walkExpr(ex.Left)
		c.walkExpr(ex.Right)
	case *ast.UnaryExpr:
		c.walkExpr(ex.Operand)
	case *ast.PostfixExpr:
		c.walkExpr(ex.Operand)
	case *ast.CallExpr:
		c.walkExpr(ex.Callee)
		for _, a := range ex.Args {
			c.walkExpr(a)
		}
	case *ast.MethodCallExpr:
		c.walkExpr(ex.Receiver)
		for _, a := range ex.Args {
			c.walkExpr(a)
		}
	case *ast.FieldAccessExpr:
		c.walkExpr(ex.Receiver)
	case *ast.IndexExpr:
		c.walkExpr(ex.Base)
		c.walkExpr(ex.Index)
	case *ast.StructLiteralExpr:
		for _, f := range ex.Fields {
			c.walkExpr(f.Value)
		}
	case *ast.MatchExpr:
		c.walkExpr(ex.Subject)
		for _, arm := range ex.Arms {
			c.frames.push()
			for _, name := range arm.Pattern.Names() {
				c.frames.declare(name, &captureBinding{typ: types.Unknown{Var: name}})
			}
			if arm.Guard != nil {
				c.walkExpr(arm.Guard)
			}
			c.walkExpr(arm.Result)
			c.frames.pop()
		}
	case *ast.TryExpr:
		c.walkExpr(ex.Inner)
	case *ast.RangeExpr:
		if ex.Start != nil {
			c.walkExpr(ex.Start)
		}
		if ex.End != nil {
			c.walkExpr(ex.End)
		}
	case *ast.CastExpr:
		c.walkExpr(ex.Inner)
	case *ast.ChannelRecvExpr:
		c.walkExpr(ex.Channel)
	case *ast.BlockExpr:
		c.walkBlock(ex.Body)
	case *ast.TypeConstructorExpr:
		for _, a := range ex.Args {
			c.walkExpr(a)
		}
	}
}

// classifyClosure determines ex's capture mode and records it, then
// continues walking so nested closures are classified too.
func (c *closureChecker) classifyClosure(ex *ast.ClosureExpr) {
	boundary := c.frames.depth()
	c.frames.push()
	defer c.frames.pop()
	for _, p := range ex.Params {
		c.frames.declare(p.Name, &captureBinding{typ: p.Type})
	}

	analysis := &captureAnalysis{checker: c, boundary: boundary}
	analysis.walkBlock(ex.Body)

	inferred := ast.CaptureShared
	switch {
	case analysis.moved:
		inferred = ast.CaptureOneShot
	case analysis.mutated:
		inferred = ast.CaptureExclusive
	}

	final := inferred
	if ex.Annotation != ast.CaptureUnspecified {
		if ex.Annotation < inferred {
			c.ctx.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrWeakerCaptureAnnotation,
				resolve(c.ctx, ex.Span()),
				"closure annotated %s but body requires %s", ex.Annotation, inferred))
		}
		final = ex.Annotation
	}
	c.ctx.CaptureModes[ex.Span()] = final
}

// captureAnalysis walks a closure body once, classifying every
// reference to a binding declared at or above `boundary` (the frame
// depth in effect just before the closure's own scope was pushed) as
// a capture, and tracking whether any capture is moved or mutated.
type captureAnalysis struct {
	checker  *closureChecker
	boundary int
	moved    bool
	mutated  bool
}

func (a *captureAnalysis) isCapture(name string) (*captureBinding, bool) {
	binding, frame, found := a.checker.frames.lookup(name)
	if !found || frame == nil {
		return nil, false
	}
	return binding, frame.depth <= a.boundary
}

func (a *captureAnalysis) walkBlock(b *ast.Block) {
	a.checker.frames.push()
	defer a.checker.frames.pop()
	for _, stmt := range b.Statements {
		a.walkStatement(stmt)
	}
	if b.TrailingExpr != nil {
		a.walkExpr(b.TrailingExpr, true)
	}
}

func (a *captureAnalysis) walkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		if s.Init != nil {
			a.walkExpr(s.Init, true)
		}
		if s.Pattern != nil {
			for _, name := range s.Pattern.Names() {
				a.checker.frames.declare(name, &captureBinding{typ: types.Unknown{Var: name}})
			}
		} else {
			a.checker.frames.declare(s.Name, &captureBinding{typ: s.TypeAnnotation})
		}
	case *ast.AssignStatement:
		a.walkExpr(s.Value, true)
		a.markMutation(s.Target)
	case *ast.CompoundAssignStatement:
		a.walkExpr(s.Value, true)
		a.markMutation(s.Target)
	case *ast.ReturnStatement:
		if s.Value != nil {
			a.walkExpr(s.Value, true)
		}
	case *ast.DeferStatement:
		a.walkStatement(s.Inner)
	case *ast.IfStatement:
		a.walkExpr(s.Condition, true)
		a.walkBlock(s.Then)
		if s.Else != nil {
			a.walkStatement(s.Else)
		}
	case *ast.BlockStatement:
		a.walkBlock(s.Body)
	case *ast.WhileStatement:
		a.walkExpr(s.Condition, true)
		a.walkBlock(s.Body)
	case *ast.ForStatement:
		a.walkExpr(s.Iterable, true)
		a.checker.frames.push()
		for _, name := range s.Binding.Names() {
			a.checker.frames.declare(name, &captureBinding{typ: types.Unknown{Var: name}})
		}
		a.walkBlock(s.Body)
		a.checker.frames.pop()
	case *ast.SwitchStatement:
		a.walkExpr(s.Subject, false)
		for _, cs := range s.Cases {
			a.checker.frames.push()
			for _, name := range cs.Pattern.Names() {
				a.checker.frames.declare(name, &captureBinding{typ: types.Unknown{Var: name}})
			}
			a.walkBlock(cs.Body)
			a.checker.frames.pop()
		}
	case *ast.ExpressionStatement:
		a.walkExpr(s.Expr, true)
	}
}

func (a *captureAnalysis) markMutation(target ast.Expression) {
	root := rootIdentifier(target)
	if root == "" {
		return
	}
	if _, captured := a.isCapture(root); captured {
		a.mutated = true
	}
	a.walkExpr(target, false)
}

func (a *captureAnalysis) walkExpr(e ast.Expression, consuming bool) {
	switch ex := e.(type) {
	case *ast.Identifier:
		if binding, captured := a.isCapture(ex.Name); captured && consuming && types.IsMoveType(resolveOrUnknown(binding.typ)) {
			a.moved = true
		}
	case *ast.ClosureExpr:
		a.checker.classifyClosure(ex)
	case *ast.BinaryExpr:
		a.walkExpr(ex.Left, true)
		a.walkExpr(ex.Right, true)
	case *ast.UnaryExpr:
		borrow := ex.Op == "&" || ex.Op == "&mut"
		a.walkExpr(ex.Operand, !borrow)
	case *ast.PostfixExpr:
		a.walkExpr(ex.Operand, consuming)
	case *ast.CallExpr:
		a.walkExpr(ex.Callee, false)
		for _, arg := range ex.Args {
			a.walkExpr(arg, true)
		}
	case *ast.MethodCallExpr:
		a.walkExpr(ex.Receiver, false)
		for _, arg := range ex.Args {
			a.walkExpr(arg, true)
		}
	case *ast.FieldAccessExpr:
		a.walkExpr(ex.Receiver, false)
	case *ast.IndexExpr:
		a.walkExpr(ex.Base, false)
		a.walkExpr(ex.Index, true)
	case *ast.StructLiteralExpr:
		for _, f := range ex.Fields {
			a.walkExpr(f.Value, true)
		}
	case *ast.MatchExpr:
		a.walkExpr(ex.Subject, false)
		for _, arm := range ex.Arms {
			a.checker.frames.push()
			for _, name := range arm.Pattern.Names() {
				a.checker.frames.declare(name, &captureBinding{typ: types.Unknown{Var: name}})
			}
			a.walkExpr(arm.Result, true)
			a.checker.frames.pop()
		}
	case *ast.TryExpr:
		a.walkExpr(ex.Inner, true)
	case *ast.RangeExpr:
		if ex.Start != nil {
			a.walkExpr(ex.Start, true)
		}
		if ex.End != nil {
			a.walkExpr(ex.End, true)
		}
	case *ast.CastExpr:
		a.walkExpr(ex.Inner, true)
	case *ast.ChannelRecvExpr:
		a.walkExpr(ex.Channel, false)
	case *ast.BlockExpr:
		a.walkBlock(ex.Body)
	case *ast.TypeConstructorExpr:
		for _, arg := range ex.Args {
			a.walkExpr(arg, true)
		}
	}
}

func resolveOrUnknown(t types.Type) types.Type {
	if t == nil {
		return types.Unknown{}
	}
	return t
}
