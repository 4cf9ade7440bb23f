package analyzer

import (
	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/diagnostics"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/types"
)

// constraint is one of the three shapes spec.md §4.7 names: an Equal
// constraint between two already-computed types, an Assignment
// constraint tying a binding's declared type to its initializer's
// type, and a MethodReceiver constraint tying a receiver binding's
// type to what a builtin method call demands of it (the mechanism
// that resolves `let v = Vec::new(); v.push(7)` to `Vec<i32>`).
type constraint interface {
	isConstraint()
}

type equalConstraint struct {
	a, b types.Type
	at   ast.ID
}

func (equalConstraint) isConstraint() {}

type assignmentConstraint struct {
	varType  types.Type
	exprType types.Type
	at       ast.ID
}

func (assignmentConstraint) isConstraint() {}

type methodReceiverConstraint struct {
	receiverVar string
	currentType types.Type
	inferred    types.Type
	at          ast.ID
}

func (methodReceiverConstraint) isConstraint() {}

// solve runs a fixed-point unification loop over cs, merging bindings
// into ctx.Substitution until no constraint yields new information or
// every constraint is resolved. Constraints that defer (both sides
// still carry Unknown) are retried on the next round, since an
// earlier constraint in the same round may have resolved one side.
func solve(ctx *pipeline.CompileContext, cs []constraint, varTypes map[string]types.Type, declSites map[string]ast.ID) {
	if ctx.Substitution == nil {
		ctx.Substitution = make(types.Subst)
	}
	pending := cs
	for {
		progressed := false
		var next []constraint
		for _, c := range pending {
			resolved := applyConstraint(ctx, c)
			if resolved {
				progressed = true
			} else {
				next = append(next, c)
			}
		}
		pending = next
		if !progressed || len(pending) == 0 {
			break
		}
	}

	for name, t := range varTypes {
		resolvedType := t.Apply(ctx.Substitution)
		varTypes[name] = resolvedType
		if types.ContainsUnknown(resolvedType) {
			loc := declSites[name]
			ctx.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrUnresolvedType,
				resolve(ctx, loc), "type of %q could not be fully inferred", name))
		}
	}
	for id, t := range ctx.TypeMap {
		ctx.TypeMap[id] = t.Apply(ctx.Substitution)
	}
}

// applyConstraint attempts to resolve one constraint against the
// substitution accumulated so far, merging any new bindings in.
// Returns true once the constraint has been consumed (including the
// case where it was a mismatch, already reported).
func applyConstraint(ctx *pipeline.CompileContext, c constraint) bool {
	switch k := c.(type) {
	case equalConstraint:
		return unifyInto(ctx, k.a, k.b, k.at)
	case assignmentConstraint:
		return unifyInto(ctx, k.varType, k.exprType, k.at)
	case methodReceiverConstraint:
		return unifyInto(ctx, k.currentType, k.inferred, k.at)
	default:
		return true
	}
}

func unifyInto(ctx *pipeline.CompileContext, a, b types.Type, at ast.ID) bool {
	a = a.Apply(ctx.Substitution)
	b = b.Apply(ctx.Substitution)
	sub, result := types.Unify(a, b)
	switch result {
	case types.UnifyOK:
		for k, v := range sub {
			ctx.Substitution[k] = v
		}
		return true
	case types.UnifyDeferred:
		return false
	default: // UnifyMismatch
		ctx.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrUnresolvedType,
			resolve(ctx, at), "type mismatch: %s vs %s", a.String(), b.String()))
		return true
	}
}
