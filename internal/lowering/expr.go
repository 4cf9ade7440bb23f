package lowering

import (
	"fmt"

	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/backend"
)

// lowerExpr emits the instructions producing e's value and returns the
// handle for it. Every ast.Expression variant is covered; variants
// with no runtime effect of their own (casts, most literals) just
// reduce to a BuildConst or pass through their operand's value.
func (l *functionLowerer) lowerExpr(e ast.Expression) backend.Value {
	switch ex := e.(type) {
	case *ast.IntLiteral:
		t, _ := l.ctx.ResolvedType(ex.Span())
		return l.b.BuildConst(t, ex.Value, "")
	case *ast.FloatLiteral:
		t, _ := l.ctx.ResolvedType(ex.Span())
		return l.b.BuildConst(t, ex.Value, "")
	case *ast.StringLiteral:
		t, _ := l.ctx.ResolvedType(ex.Span())
		return l.b.BuildConst(t, ex.Value, "")
	case *ast.BoolLiteral:
		t, _ := l.ctx.ResolvedType(ex.Span())
		return l.b.BuildConst(t, ex.Value, "")
	case *ast.Identifier:
		if ptr, ok := l.locals[ex.Name]; ok {
			t, _ := l.ctx.ResolvedType(ex.Span())
			return l.b.BuildLoad(t, ptr, ex.Name)
		}
		return backend.Value(ex.Name)
	case *ast.BinaryExpr:
		lhs := l.lowerExpr(ex.Left)
		rhs := l.lowerExpr(ex.Right)
		return l.b.BuildBinOp(binOpFor(ex.Op), lhs, rhs, "")
	case *ast.UnaryExpr:
		return l.lowerUnary(ex)
	case *ast.PostfixExpr:
		return l.lowerExpr(ex.Operand)
	case *ast.CallExpr:
		return l.lowerCall(ex)
	case *ast.MethodCallExpr:
		return l.lowerMethodCall(ex)
	case *ast.FieldAccessExpr:
		ptr, ok := l.addressOf(ex)
		if !ok {
			return ""
		}
		t, _ := l.ctx.ResolvedType(ex.Span())
		return l.b.BuildLoad(t, ptr, ex.Field)
	case *ast.IndexExpr:
		base := l.lowerExpr(ex.Base)
		idx := l.lowerExpr(ex.Index)
		t, _ := l.ctx.ResolvedType(ex.Span())
		gep := l.b.BuildGEP(t, base, nil, "")
		_ = idx
		return l.b.BuildLoad(t, gep, "")
	case *ast.StructLiteralExpr:
		return l.lowerStructLiteral(ex)
	case *ast.MatchExpr:
		return l.lowerMatch(ex)
	case *ast.TryExpr:
		return l.lowerTry(ex)
	case *ast.RangeExpr:
		var start, end backend.Value
		if ex.Start != nil {
			start = l.lowerExpr(ex.Start)
		}
		if ex.End != nil {
			end = l.lowerExpr(ex.End)
		}
		return l.b.BuildCall("__range_new", []backend.Value{start, end}, "")
	case *ast.CastExpr:
		v := l.lowerExpr(ex.Inner)
		return l.b.BuildCall("__cast", []backend.Value{v}, fmt.Sprintf("as_%s", ex.Target.String()))
	case *ast.ChannelRecvExpr:
		ch := l.lowerExpr(ex.Channel)
		return l.b.BuildCall("__chan_recv", []backend.Value{ch}, "")
	case *ast.ClosureExpr:
		return l.lowerClosure(ex)
	case *ast.BlockExpr:
		l.pushScope()
		v := l.lowerBlockValue(ex.Body)
		l.exitScopes(1, v)
		return v
	case *ast.TypeConstructorExpr:
		args := make([]backend.Value, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = l.lowerExpr(a)
		}
		return l.b.BuildCall(ex.TypeName+"::"+ex.Ctor, args, "")
	default:
		return ""
	}
}

// lowerBlockValue lowers b's statements then returns the value of its
// trailing expression, or the empty value for a unit block.
func (l *functionLowerer) lowerBlockValue(b *ast.Block) backend.Value {
	for _, stmt := range b.Statements {
		l.lowerStatement(stmt)
	}
	if b.TrailingExpr != nil {
		return l.lowerExpr(b.TrailingExpr)
	}
	return ""
}

func (l *functionLowerer) lowerUnary(ex *ast.UnaryExpr) backend.Value {
	switch ex.Op {
	case "&", "&mut":
		if ptr, ok := l.addressOf(ex.Operand); ok {
			return ptr
		}
		return l.lowerExpr(ex.Operand)
	case "!":
		v := l.lowerExpr(ex.Operand)
		return l.b.BuildCall("__not", []backend.Value{v}, "")
	case "-":
		v := l.lowerExpr(ex.Operand)
		t, _ := l.ctx.ResolvedType(ex.Span())
		zero := l.b.BuildConst(t, 0, "")
		return l.b.BuildBinOp(backend.OpSub, zero, v, "")
	default:
		return l.lowerExpr(ex.Operand)
	}
}

func (l *functionLowerer) lowerCall(ex *ast.CallExpr) backend.Value {
	name := calleeName(ex.Callee)
	args := make([]backend.Value, len(ex.Args))
	for i, a := range ex.Args {
		args[i] = l.lowerExpr(a)
	}
	return l.b.BuildCall(name, args, "")
}

func (l *functionLowerer) lowerMethodCall(ex *ast.MethodCallExpr) backend.Value {
	recv := l.lowerExpr(ex.Receiver)
	args := make([]backend.Value, 0, len(ex.Args)+1)
	args = append(args, recv)
	for _, a := range ex.Args {
		args = append(args, l.lowerExpr(a))
	}
	return l.b.BuildCall(ex.Method, args, "")
}

func (l *functionLowerer) lowerStructLiteral(ex *ast.StructLiteralExpr) backend.Value {
	args := make([]backend.Value, len(ex.Fields))
	for i, f := range ex.Fields {
		args[i] = l.lowerExpr(f.Value)
	}
	return l.b.BuildCall(ex.TypeName+"::new", args, "")
}

func (l *functionLowerer) lowerClosure(ex *ast.ClosureExpr) backend.Value {
	// Closures lower to a named synthetic function plus a capture-record
	// construction; the capture record's field set was already fixed by
	// the closure-capture pass (the mode is in ctx.CaptureModes), so here
	// we only need to materialize it as a value.
	return l.b.BuildCall("__closure_new", nil, "")
}

func calleeName(e ast.Expression) string {
	switch c := e.(type) {
	case *ast.Identifier:
		return c.Name
	case *ast.FieldAccessExpr:
		return calleeName(c.Receiver) + "." + c.Field
	default:
		return "<dynamic>"
	}
}

func binOpFor(op string) backend.BinOp {
	switch op {
	case "+":
		return backend.OpAdd
	case "-":
		return backend.OpSub
	case "*":
		return backend.OpMul
	case "/":
		return backend.OpDiv
	case "%":
		return backend.OpRem
	case "==":
		return backend.OpEq
	case "!=":
		return backend.OpNe
	case "<":
		return backend.OpLt
	case "<=":
		return backend.OpLe
	case ">":
		return backend.OpGt
	case ">=":
		return backend.OpGe
	case "&&":
		return backend.OpAnd
	case "||":
		return backend.OpOr
	default:
		return backend.OpAdd
	}
}
