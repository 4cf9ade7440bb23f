package analyzer

import (
	"fmt"

	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/types"
)

// InferenceProcessor is pass 6 (spec.md §4.7): a constraint-based
// solver with Unknown placeholders, no general Hindley-Milner
// unification attempted (spec.md §9 — "the source language provides
// annotations at declarations and infers only within expressions").
type InferenceProcessor struct{}

func (InferenceProcessor) Name() string { return "type-inference" }

func (InferenceProcessor) Process(ctx *pipeline.CompileContext) *pipeline.CompileContext {
	if ctx.Program == nil {
		return ctx
	}
	ic := &inferenceCollector{ctx: ctx, varTypes: make(map[string]types.Type), unknownSeq: 0}
	forEachFunctionBody(ctx, func(fn *ast.Function) {
		ic.collectFunction(fn)
	})
	solve(ctx, ic.constraints, ic.varTypes, ic.declSites)
	return ctx
}

// methodSignature describes a single builtin container method's
// effect on type inference, the table-driven analogue of the
// "MethodReceiver{receiver-name, method-name, arg-types,
// inferred-receiver-type}" constraint from spec.md §4.7.
type methodSignature struct {
	container func(elem types.Type) types.Type
	elemFromArg int // index into Args whose type becomes elem; -1 if none
}

var containerMethodSignatures = map[string]methodSignature{
	"push": {container: func(e types.Type) types.Type { return types.Vec{Elem: e} }, elemFromArg: 0},
}

type inferenceCollector struct {
	ctx         *pipeline.CompileContext
	varTypes    map[string]types.Type
	declSites   map[string]span_ID
	constraints []constraint
	unknownSeq  int
}

// span_ID is a package-local alias kept distinct from ast.ID so this
// file reads clearly as "a location", independent of the AST package.
type span_ID = ast.ID

func (ic *inferenceCollector) fresh(hint string) types.Type {
	ic.unknownSeq++
	return types.Unknown{Var: fmt.Sprintf("%s#%d", hint, ic.unknownSeq)}
}

func (ic *inferenceCollector) collectFunction(fn *ast.Function) {
	if ic.declSites == nil {
		ic.declSites = make(map[string]span_ID)
	}
	for _, p := range fn.Params {
		ic.varTypes[p.Name] = p.Type
	}
	if fn.Receiver != nil {
		ic.varTypes[fn.Receiver.Name] = receiverValueType(fn.Receiver.Type)
	}
	if fn.Body != nil {
		ic.collectBlock(fn.Body)
	}
}

func (ic *inferenceCollector) collectBlock(b *ast.Block) {
	for _, stmt := range b.Statements {
		ic.collectStatement(stmt)
	}
	if b.TrailingExpr != nil {
		ic.exprType(b.TrailingExpr)
	}
}

func (ic *inferenceCollector) collectStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		var declared types.Type
		if s.TypeAnnotation != nil {
			declared = s.TypeAnnotation
		} else {
			declared = ic.fresh("let")
		}
		if s.Name != "" {
			ic.varTypes[s.Name] = declared
			ic.declSites[s.Name] = s.Span()
		}
		if s.Init != nil {
			initType := ic.exprType(s.Init)
			ic.constraints = append(ic.constraints, assignmentConstraint{varType: declared, exprType: initType, at: s.Init.Span()})
		}
	case *ast.AssignStatement:
		ic.exprType(s.Value)
	case *ast.CompoundAssignStatement:
		ic.exprType(s.Value)
	case *ast.ReturnStatement:
		if s.Value != nil {
			ic.exprType(s.Value)
		}
	case *ast.DeferStatement:
		ic.collectStatement(s.Inner)
	case *ast.IfStatement:
		ic.exprType(s.Condition)
		ic.collectBlock(s.Then)
		if s.Else != nil {
			ic.collectStatement(s.Else)
		}
	case *ast.BlockStatement:
		ic.collectBlock(s.Body)
	case *ast.WhileStatement:
		ic.exprType(s.Condition)
		ic.collectBlock(s.Body)
	case *ast.ForStatement:
		ic.exprType(s.Iterable)
		ic.collectBlock(s.Body)
	case *ast.SwitchStatement:
		ic.exprType(s.Subject)
		for _, cs := range s.Cases {
			if cs.Guard != nil {
				ic.exprType(cs.Guard)
			}
			ic.collectBlock(cs.Body)
		}
	case *ast.ExpressionStatement:
		ic.exprType(s.Expr)
	}
}

// exprType computes (and, for call-like nodes, constrains) the type
// of e, recording it into ctx.TypeMap by span.
func (ic *inferenceCollector) exprType(e ast.Expression) types.Type {
	t := ic.inferExpr(e)
	ic.ctx.TypeMap[e.Span()] = t
	return t
}

func (ic *inferenceCollector) inferExpr(e ast.Expression) types.Type {
	switch ex := e.(type) {
	case *ast.IntLiteral:
		return types.WidestIntegerFor(ex.Value)
	case *ast.FloatLiteral:
		return types.Prim(types.F64)
	case *ast.StringLiteral:
		return types.Prim(types.Str)
	case *ast.BoolLiteral:
		return types.Prim(types.Bool)
	case *ast.Identifier:
		if t, ok := ic.varTypes[ex.Name]; ok {
			return t
		}
		if g := Globals(ic.ctx); g != nil {
			if t, ok := g.Names[ex.Name]; ok {
				return t
			}
		}
		return ic.fresh("ident:" + ex.Name)
	case *ast.BinaryExpr:
		left := ic.exprType(ex.Left)
		right := ic.exprType(ex.Right)
		ic.constraints = append(ic.constraints, equalConstraint{a: left, b: right, at: ex.Span()})
		return left
	case *ast.UnaryExpr:
		return ic.exprType(ex.Operand)
	case *ast.PostfixExpr:
		return ic.exprType(ex.Operand)
	case *ast.CallExpr:
		ic.exprType(ex.Callee)
		for _, a := range ex.Args {
			ic.exprType(a)
		}
		return ic.fresh("call")
	case *ast.MethodCallExpr:
		argTypes := make([]types.Type, len(ex.Args))
		for i, a := range ex.Args {
			argTypes[i] = ic.exprType(a)
		}
		if recvName, ok := ex.Receiver.(*ast.Identifier); ok {
			if sig, ok := containerMethodSignatures[ex.Method]; ok {
				recvType := ic.exprType(ex.Receiver)
				elem := ic.fresh("elem")
				if sig.elemFromArg >= 0 && sig.elemFromArg < len(argTypes) {
					elem = argTypes[sig.elemFromArg]
				}
				ic.constraints = append(ic.constraints, methodReceiverConstraint{
					receiverVar: recvName.Name,
					currentType: recvType,
					inferred:    sig.container(elem),
					at:          ex.Span(),
				})
				return types.Prim(types.Unit)
			}
		}
		ic.exprType(ex.Receiver)
		return ic.fresh("methodcall")
	case *ast.FieldAccessExpr:
		ic.exprType(ex.Receiver)
		return ic.fresh("field:" + ex.Field)
	case *ast.IndexExpr:
		ic.exprType(ex.Base)
		ic.exprType(ex.Index)
		return ic.fresh("index")
	case *ast.StructLiteralExpr:
		for _, f := range ex.Fields {
			ic.exprType(f.Value)
		}
		return types.Named{Name: ex.TypeName}
	case *ast.MatchExpr:
		ic.exprType(ex.Subject)
		var result types.Type
		for _, arm := range ex.Arms {
			if arm.Guard != nil {
				ic.exprType(arm.Guard)
			}
			t := ic.exprType(arm.Result)
			if result == nil {
				result = t
			} else {
				ic.constraints = append(ic.constraints, equalConstraint{a: result, b: t, at: arm.Result.Span()})
			}
		}
		if result == nil {
			result = types.Prim(types.Unit)
		}
		return result
	case *ast.TryExpr:
		inner := ic.exprType(ex.Inner)
		if res, ok := inner.(types.Result); ok {
			return res.Ok
		}
		if opt, ok := inner.(types.Option); ok {
			return opt.Elem
		}
		return ic.fresh("try")
	case *ast.RangeExpr:
		if ex.Start != nil {
			ic.exprType(ex.Start)
		}
		if ex.End != nil {
			ic.exprType(ex.End)
		}
		return types.Prim(types.I32)
	case *ast.CastExpr:
		ic.exprType(ex.Inner)
		return ex.Target
	case *ast.ClosureExpr:
		if ex.Body != nil {
			ic.collectBlock(ex.Body)
		}
		return types.Function{}
	case *ast.ChannelRecvExpr:
		ch := ic.exprType(ex.Channel)
		if c, ok := ch.(types.Channel); ok {
			return c.Elem
		}
		return ic.fresh("recv")
	case *ast.BlockExpr:
		ic.collectBlock(ex.Body)
		if ex.Body.TrailingExpr != nil {
			return ic.ctx.TypeMap[ex.Body.TrailingExpr.Span()]
		}
		return types.Prim(types.Unit)
	case *ast.TypeConstructorExpr:
		for _, a := range ex.Args {
			ic.exprType(a)
		}
		switch ex.TypeName {
		case "Vec":
			return types.Vec{Elem: ic.fresh("vecelem")}
		case "Box":
			return types.Box{Elem: ic.fresh("boxelem")}
		case "Option":
			return types.Option{Elem: ic.fresh("optelem")}
		case "Result":
			return types.Result{Ok: ic.fresh("resok"), Err: ic.fresh("reserr")}
		default:
			return types.Named{Name: ex.TypeName}
		}
	default:
		return ic.fresh("expr")
	}
}
