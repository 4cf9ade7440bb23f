// Package lowering implements stage 11 (spec.md §4.9): lowering of
// defer, drop scopes, try-expressions, and pattern matching with
// guards to explicit basic-block IR, emitted through a
// backend.Backend. Grounded on funxy's vm.Compiler
// (internal/vm/compiler.go in that repo's dependency graph, referenced
// from backend/vmbackend.go), which plays the same "AST walker that
// emits sequentially to one backend resource" role this package plays
// here, one level of abstraction higher (basic blocks instead of
// bytecode).
package lowering

import (
	"fmt"

	"github.com/vexlang/vexc/internal/analyzer"
	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/backend"
	"github.com/vexlang/vexc/internal/diagnostics"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/span"
	"github.com/vexlang/vexc/internal/types"
)

// LoweringProcessor is pass 11. It is the only analyzer-family stage
// that mutates an external resource (the Backend) rather than just the
// CompileContext, per spec.md §5's "the IR builder is a sequential
// resource."
type LoweringProcessor struct {
	Backend backend.Backend
}

func (LoweringProcessor) Name() string { return "lowering" }

func (p LoweringProcessor) Process(ctx *pipeline.CompileContext) *pipeline.CompileContext {
	if ctx.Program == nil || p.Backend == nil {
		return ctx
	}
	l := &functionLowerer{ctx: ctx, b: p.Backend}
	analyzer.ForEachFunctionBody(ctx, func(fn *ast.Function) {
		l.lowerFunction(fn)
	})
	ctx.Module = p.Backend
	return ctx
}

// scopeFrame is one lexical scope's worth of pending cleanup: the
// defer statements registered within it (spec.md §4.9 "a defer stack
// is maintained per function... popped when that block's scope
// ends"), and the drop-scope bindings introduced within it.
type scopeFrame struct {
	defers []ast.Statement
	drops  []dropBinding
}

type dropBinding struct {
	name  string
	typ   types.Type
	value backend.Value
}

type functionLowerer struct {
	ctx     *pipeline.CompileContext
	b       backend.Backend
	fn      *ast.Function
	frames  []*scopeFrame
	blocks  int
	loopEnd []backend.Block // enclosing loop exit block, one per nested loop, for break
	loopTop []backend.Block // enclosing loop condition block, for continue
	locals  map[string]backend.Value
}

func (l *functionLowerer) lowerFunction(fn *ast.Function) {
	l.fn = fn
	l.frames = nil
	l.blocks = 0
	l.loopEnd = nil
	l.loopTop = nil
	l.locals = make(map[string]backend.Value)

	paramTypes := make([]types.Type, 0, len(fn.Params)+1)
	if fn.Receiver != nil {
		paramTypes = append(paramTypes, fn.Receiver.Type)
	}
	for _, p := range fn.Params {
		paramTypes = append(paramTypes, p.Type)
	}
	l.b.DeclareFunction(fn.Name, paramTypes, fn.ReturnType)

	entry := l.newBlock("entry")
	l.b.PositionAt(entry)

	if fn.Receiver != nil {
		l.locals[fn.Receiver.Name] = l.b.BuildAlloca(fn.Receiver.Type, fn.Receiver.Name)
	}
	for _, p := range fn.Params {
		l.locals[p.Name] = l.b.BuildAlloca(p.Type, p.Name)
	}

	if fn.Body != nil {
		l.pushScope()
		l.lowerBlock(fn.Body)
		l.exitScopes(1, backend.Value(""))
	}
}

func (l *functionLowerer) newBlock(label string) backend.Block {
	l.blocks++
	return l.b.CreateBasicBlock(l.fn.Name, fmt.Sprintf("%s%d", label, l.blocks))
}

func (l *functionLowerer) pushScope() {
	l.frames = append(l.frames, &scopeFrame{})
}

// exitScopes unwinds the innermost n frames: each frame's defers run
// (LIFO), then its drop-scope bindings are dropped (LIFO), then the
// frame is discarded. retVal is not used here: a `return` computes its
// value before calling exitScopes, so the value is computed first, then
// drops are emitted, then the branch.
func (l *functionLowerer) exitScopes(n int, retVal backend.Value) {
	for i := 0; i < n && len(l.frames) > 0; i++ {
		frame := l.frames[len(l.frames)-1]
		l.frames = l.frames[:len(l.frames)-1]
		for j := len(frame.defers) - 1; j >= 0; j-- {
			l.lowerStatement(frame.defers[j])
		}
		for j := len(frame.drops) - 1; j >= 0; j-- {
			d := frame.drops[j]
			l.b.BuildCall(d.typ.String()+"::drop", []backend.Value{d.value}, "")
		}
	}
	_ = retVal
}

func (l *functionLowerer) lowerBlock(b *ast.Block) {
	for _, stmt := range b.Statements {
		l.lowerStatement(stmt)
	}
	if b.TrailingExpr != nil {
		l.lowerExpr(b.TrailingExpr)
	}
}

func (l *functionLowerer) lowerStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		l.lowerLet(s)
	case *ast.AssignStatement:
		v := l.lowerExpr(s.Value)
		if ptr, ok := l.addressOf(s.Target); ok {
			l.b.BuildStore(ptr, v)
		}
	case *ast.CompoundAssignStatement:
		v := l.lowerExpr(s.Value)
		if ptr, ok := l.addressOf(s.Target); ok {
			cur := l.b.BuildLoad(nil, ptr, "")
			combined := l.b.BuildBinOp(compoundOp(s.Op), cur, v, "")
			l.b.BuildStore(ptr, combined)
		}
	case *ast.ReturnStatement:
		l.lowerReturn(s)
	case *ast.BreakStatement:
		l.lowerBreak()
	case *ast.ContinueStatement:
		l.lowerContinue()
	case *ast.DeferStatement:
		l.frames[len(l.frames)-1].defers = append(l.frames[len(l.frames)-1].defers, s.Inner)
	case *ast.IfStatement:
		l.lowerIf(s)
	case *ast.BlockStatement:
		l.pushScope()
		l.lowerBlock(s.Body)
		l.exitScopes(1, "")
	case *ast.WhileStatement:
		l.lowerWhile(s)
	case *ast.ForStatement:
		l.lowerFor(s)
	case *ast.SwitchStatement:
		l.lowerSwitch(s)
	case *ast.ExpressionStatement:
		l.lowerExpr(s.Expr)
	}
}

func (l *functionLowerer) lowerLet(s *ast.LetStatement) {
	if s.Name == "" {
		// Pattern destructuring in a let-binding lowers each bound name
		// to its own alloca once the match lowering below resolves it;
		// out of scope for this simplified driver beyond Name-only lets.
		return
	}
	t := s.TypeAnnotation
	if t == nil {
		if resolved, ok := l.ctx.ResolvedType(s.Span()); ok {
			t = resolved
		}
	}
	ptr := l.b.BuildAlloca(t, s.Name)
	l.locals[s.Name] = ptr
	if s.Init != nil {
		v := l.lowerExpr(s.Init)
		l.b.BuildStore(ptr, v)
	}
	if t != nil && l.ctx.Registry != nil && l.ctx.Registry.SatisfiesBound(t, "Drop") {
		frame := l.frames[len(l.frames)-1]
		frame.drops = append(frame.drops, dropBinding{name: s.Name, typ: t, value: ptr})
	}
}

func (l *functionLowerer) lowerReturn(s *ast.ReturnStatement) {
	var v backend.Value
	if s.Value != nil {
		v = l.lowerExpr(s.Value)
	}
	l.exitScopes(len(l.frames), v)
	l.b.BuildReturn(v)
}

func (l *functionLowerer) lowerBreak() {
	if len(l.loopEnd) == 0 {
		return
	}
	l.exitScopes(1, "")
	l.b.BuildBranch(l.loopEnd[len(l.loopEnd)-1])
}

func (l *functionLowerer) lowerContinue() {
	if len(l.loopTop) == 0 {
		return
	}
	l.exitScopes(1, "")
	l.b.BuildBranch(l.loopTop[len(l.loopTop)-1])
}

func (l *functionLowerer) lowerIf(s *ast.IfStatement) {
	cond := l.lowerExpr(s.Condition)
	thenBlk := l.newBlock("if.then")
	var elseBlk backend.Block
	if s.Else != nil {
		elseBlk = l.newBlock("if.else")
	}
	joinBlk := l.newBlock("if.join")
	if s.Else != nil {
		l.b.BuildCondBranch(cond, thenBlk, elseBlk)
	} else {
		l.b.BuildCondBranch(cond, thenBlk, joinBlk)
	}

	l.b.PositionAt(thenBlk)
	l.pushScope()
	l.lowerBlock(s.Then)
	l.exitScopes(1, "")
	l.b.BuildBranch(joinBlk)

	if s.Else != nil {
		l.b.PositionAt(elseBlk)
		l.lowerStatement(s.Else)
		l.b.BuildBranch(joinBlk)
	}

	l.b.PositionAt(joinBlk)
}

func (l *functionLowerer) lowerWhile(s *ast.WhileStatement) {
	condBlk := l.newBlock("while.cond")
	bodyBlk := l.newBlock("while.body")
	endBlk := l.newBlock("while.end")

	l.b.BuildBranch(condBlk)
	l.b.PositionAt(condBlk)
	cond := l.lowerExpr(s.Condition)
	l.b.BuildCondBranch(cond, bodyBlk, endBlk)

	l.loopTop = append(l.loopTop, condBlk)
	l.loopEnd = append(l.loopEnd, endBlk)
	l.b.PositionAt(bodyBlk)
	l.pushScope()
	l.lowerBlock(s.Body)
	l.exitScopes(1, "")
	l.b.BuildBranch(condBlk)
	l.loopTop = l.loopTop[:len(l.loopTop)-1]
	l.loopEnd = l.loopEnd[:len(l.loopEnd)-1]

	l.b.PositionAt(endBlk)
}

func (l *functionLowerer) lowerFor(s *ast.ForStatement) {
	l.lowerExpr(s.Iterable)
	condBlk := l.newBlock("for.cond")
	bodyBlk := l.newBlock("for.body")
	endBlk := l.newBlock("for.end")

	l.b.BuildBranch(condBlk)
	l.b.PositionAt(condBlk)
	hasNext := l.b.BuildCall("__iter_has_next", nil, "")
	l.b.BuildCondBranch(hasNext, bodyBlk, endBlk)

	l.loopTop = append(l.loopTop, condBlk)
	l.loopEnd = append(l.loopEnd, endBlk)
	l.b.PositionAt(bodyBlk)
	l.pushScope()
	for _, name := range s.Binding.Names() {
		l.locals[name] = l.b.BuildCall("__iter_next", nil, name)
	}
	l.lowerBlock(s.Body)
	l.exitScopes(1, "")
	l.b.BuildBranch(condBlk)
	l.loopTop = l.loopTop[:len(l.loopTop)-1]
	l.loopEnd = l.loopEnd[:len(l.loopEnd)-1]

	l.b.PositionAt(endBlk)
}

func compoundOp(op string) backend.BinOp {
	switch op {
	case "+=":
		return backend.OpAdd
	case "-=":
		return backend.OpSub
	case "*=":
		return backend.OpMul
	case "/=":
		return backend.OpDiv
	case "%=":
		return backend.OpRem
	default:
		return backend.OpAdd
	}
}

func (l *functionLowerer) addressOf(e ast.Expression) (backend.Value, bool) {
	switch ex := e.(type) {
	case *ast.Identifier:
		if ptr, ok := l.locals[ex.Name]; ok {
			return ptr, true
		}
		return "", false
	case *ast.FieldAccessExpr:
		base, ok := l.addressOf(ex.Receiver)
		if !ok {
			return "", false
		}
		t, _ := l.ctx.ResolvedType(ex.Receiver.Span())
		return l.b.BuildGEP(t, base, []int{l.fieldIndex(t, ex.Field)}, ex.Field), true
	case *ast.IndexExpr:
		base := l.lowerExpr(ex.Base)
		idx := l.lowerExpr(ex.Index)
		_ = idx
		return base, true
	default:
		return "", false
	}
}

// fieldIndex returns the ordinal of field within the struct named by t,
// taken from the registry's Fields slice order. It returns 0 when t is
// not a registered struct or has no such field.
func (l *functionLowerer) fieldIndex(t types.Type, field string) int {
	named, ok := t.(types.Named)
	if !ok || l.ctx.Registry == nil {
		return 0
	}
	if def, ok := l.ctx.Registry.StructDefs[named.Name]; ok {
		for i, f := range def.Fields {
			if f.Name == field {
				return i
			}
		}
	}
	return 0
}

func (l *functionLowerer) errorf(id ast.ID, code diagnostics.Code, format string, args ...any) {
	var sp span.Span
	if l.ctx.Spans != nil {
		sp, _ = l.ctx.Spans.Resolve(id)
	}
	l.ctx.Diagnostics.Add(diagnostics.NewError(code, sp, format, args...))
}
