package analyzer

import (
	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/diagnostics"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/span"
)

// borrowKind is one of the two aliasing disciplines spec.md §4.4
// distinguishes.
type borrowKind int

const (
	borrowShared borrowKind = iota
	borrowExclusive
)

type activeBorrow struct {
	kind       borrowKind
	refName    string
	span       span.ID
	scopeDepth int
}

// BorrowProcessor is pass 3 (spec.md §4.4): for each owning binding,
// at most one exclusive borrow or any number of shared borrows may be
// active at once. Borrows end at the end of the lexical scope that
// introduced the borrowing reference.
type BorrowProcessor struct{}

func (BorrowProcessor) Name() string { return "borrow-check" }

func (BorrowProcessor) Process(ctx *pipeline.CompileContext) *pipeline.CompileContext {
	if ctx.Program == nil {
		return ctx
	}
	bc := &borrowChecker{ctx: ctx}
	forEachFunctionBody(ctx, func(fn *ast.Function) {
		bc.checkFunction(fn)
	})
	return ctx
}

type borrowChecker struct {
	ctx            *pipeline.CompileContext
	activeByOwner  map[string][]*activeBorrow
	depth          int
}

func (c *borrowChecker) checkFunction(fn *ast.Function) {
	c.activeByOwner = make(map[string][]*activeBorrow)
	c.depth = 0
	if fn.Body != nil {
		c.checkBlock(fn.Body)
	}
}

func (c *borrowChecker) checkBlock(b *ast.Block) {
	c.depth++
	for _, stmt := range b.Statements {
		c.checkStatement(stmt)
	}
	if b.TrailingExpr != nil {
		c.checkExpr(b.TrailingExpr)
	}
	c.releaseScope(c.depth)
	c.depth--
}

// releaseScope drops every borrow introduced at exactly depth, the
// "borrows end at the end of the lexical scope that introduced the
// borrowing reference" rule of spec.md §4.4.
func (c *borrowChecker) releaseScope(depth int) {
	for owner, borrows := range c.activeByOwner {
		kept := borrows[:0]
		for _, b := range borrows {
			if b.scopeDepth != depth {
				kept = append(kept, b)
			}
		}
		if len(kept) == 0 {
			delete(c.activeByOwner, owner)
		} else {
			c.activeByOwner[owner] = kept
		}
	}
}

func (c *borrowChecker) checkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		if s.Init != nil {
			c.checkExpr(s.Init)
		}
	case *ast.AssignStatement:
		c.checkExpr(s.Value)
		c.checkMutation(rootIdentifier(s.Target), s.Target.Span())
	case *ast.CompoundAssignStatement:
		c.checkExpr(s.Value)
		c.checkMutation(rootIdentifier(s.Target), s.Target.Span())
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
		c.checkBlock(s.Body)
	case *ast.SwitchStatement:
		c.checkExpr(s.Subject)
		for _, cs := range s.Cases {
			if cs.Guard != nil {
				c.checkExpr(cs.Guard)
			}
			c.checkBlock(cs.Body)
		}
	case *ast.ExpressionStatement:
		c.checkExpr(s.Expr)
	}
}

func (c *borrowChecker) checkExpr(e ast.Expression) {
	switch ex := e.(type) {
	case *ast.UnaryExpr:
		if ex.Op == "&" || ex.Op == "&mut" {
			owner := rootIdentifier(ex.Operand)
			kind := borrowShared
			if ex.Op == "&mut" {
				kind = borrowExclusive
			}
			c.addBorrow(owner, kind, ex.Span())
			return
		}
		c.checkExpr(ex.Operand)
	case *ast.BinaryExpr:
		c.checkExpr(ex.Left)
		c.checkExpr(ex.Right)
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
			if arm.Guard != nil {
				c.checkExpr(arm.Guard)
			}
			c.checkExpr(arm.Result)
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
		c.checkBlock(ex.Body)
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

func (c *borrowChecker) addBorrow(owner string, kind borrowKind, id span.ID) {
	if owner == "" {
		return
	}
	existing := c.activeByOwner[owner]
	for _, b := range existing {
		if kind == borrowExclusive {
			code := diagnostics.ErrExclusiveWhileShared
			if b.kind == borrowExclusive {
				code = diagnostics.ErrTwoExclusive
			}
			c.ctx.Diagnostics.Add(diagnostics.NewError(code,
				resolve(c.ctx, id), "cannot borrow %q exclusively while another borrow is active", owner).
				WithRelated(resolve(c.ctx, b.span), "first borrow here"))
			return
		}
		if b.kind == borrowExclusive {
			c.ctx.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrSharedWhileExclusive,
				resolve(c.ctx, id), "cannot borrow %q while an exclusive borrow is active", owner).
				WithRelated(resolve(c.ctx, b.span), "exclusive borrow here"))
			return
		}
	}
	c.activeByOwner[owner] = append(c.activeByOwner[owner], &activeBorrow{
		kind: kind, span: id, scopeDepth: c.depth,
	})
}

// checkMutation rejects a direct mutation of owner while it is
// borrowed (spec.md §4.4: "While X is borrowed, X cannot be moved or
// mutated directly").
func (c *borrowChecker) checkMutation(owner string, id span.ID) {
	if owner == "" {
		return
	}
	if borrows, ok := c.activeByOwner[owner]; ok && len(borrows) > 0 {
		c.ctx.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrSharedWhileExclusive,
			resolve(c.ctx, id), "cannot mutate %q while it is borrowed", owner).
			WithRelated(resolve(c.ctx, borrows[0].span), "borrow here"))
	}
}
