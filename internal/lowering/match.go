package lowering

import (
	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/backend"
)

// lowerMatch compiles a match expression to a chain of conditional
// branches, one per arm, falling through to the next arm's test on a
// miss and converging on a join block that loads the arm's stored
// result (spec.md §4.9).
func (l *functionLowerer) lowerMatch(ex *ast.MatchExpr) backend.Value {
	subject := l.lowerExpr(ex.Subject)
	resultType, _ := l.ctx.ResolvedType(ex.Span())
	resultPtr := l.b.BuildAlloca(resultType, "match.result")
	joinBlk := l.newBlock("match.join")

	for _, arm := range ex.Arms {
		bodyBlk := l.newBlock("match.arm")
		nextBlk := l.newBlock("match.next")
		l.lowerMatchArm(subject, arm, bodyBlk, nextBlk)

		l.b.PositionAt(bodyBlk)
		l.pushScope()
		l.bindPattern(arm.Pattern, subject)
		v := l.lowerExpr(arm.Result)
		l.b.BuildStore(resultPtr, v)
		l.exitScopes(1, v)
		l.b.BuildBranch(joinBlk)

		l.b.PositionAt(nextBlk)
	}
	// No pass checks match exhaustiveness ahead of lowering; a subject
	// that matches no arm falls through to this trap call at run time,
	// and no diagnostic is emitted for it.
	l.b.BuildCall("__match_unreachable", nil, "")

	l.b.PositionAt(joinBlk)
	return l.b.BuildLoad(resultType, resultPtr, "match.value")
}

// lowerSwitch is the statement-level counterpart of lowerMatch: same
// per-case test-and-branch chain, but each case's body is lowered for
// its side effects only, with no result value collected.
func (l *functionLowerer) lowerSwitch(s *ast.SwitchStatement) {
	subject := l.lowerExpr(s.Subject)
	joinBlk := l.newBlock("switch.join")

	for _, c := range s.Cases {
		bodyBlk := l.newBlock("switch.case")
		nextBlk := l.newBlock("switch.next")
		l.lowerMatchArm(subject, ast.MatchArm{Pattern: c.Pattern, Guard: c.Guard}, bodyBlk, nextBlk)

		l.b.PositionAt(bodyBlk)
		l.pushScope()
		l.bindPattern(c.Pattern, subject)
		l.lowerBlock(c.Body)
		l.exitScopes(1, "")
		l.b.BuildBranch(joinBlk)

		l.b.PositionAt(nextBlk)
	}
	l.b.BuildCall("__match_unreachable", nil, "")

	l.b.PositionAt(joinBlk)
}

// lowerMatchArm emits the test for one arm and branches to bodyBlk on
// a match, nextBlk otherwise. A guard that reads a name the pattern
// introduces cannot be AND-combined with the pattern test (the name is
// unbound on the test side), so it gets its own block where the
// binding has already been materialized before the guard runs.
func (l *functionLowerer) lowerMatchArm(subject backend.Value, arm ast.MatchArm, bodyBlk, nextBlk backend.Block) {
	testCond := l.testPattern(subject, arm.Pattern)

	if arm.Guard == nil {
		l.b.BuildCondBranch(testCond, bodyBlk, nextBlk)
		return
	}

	if len(arm.Pattern.Names()) == 0 {
		l.pushScope()
		guardVal := l.lowerExpr(arm.Guard)
		l.exitScopes(1, "")
		combined := l.b.BuildBinOp(backend.OpAnd, testCond, guardVal, "")
		l.b.BuildCondBranch(combined, bodyBlk, nextBlk)
		return
	}

	guardBlk := l.newBlock("match.guard")
	l.b.BuildCondBranch(testCond, guardBlk, nextBlk)

	l.b.PositionAt(guardBlk)
	l.pushScope()
	l.bindPattern(arm.Pattern, subject)
	guardVal := l.lowerExpr(arm.Guard)
	l.exitScopes(1, "")
	l.b.BuildCondBranch(guardVal, bodyBlk, nextBlk)
}

// testPattern returns a bool value: whether subject matches p. It
// never binds names; bindPattern does that separately once a match is
// certain.
func (l *functionLowerer) testPattern(subject backend.Value, p ast.Pattern) backend.Value {
	switch pat := p.(type) {
	case ast.WildcardPattern:
		return l.b.BuildConst(nil, true, "")
	case ast.BindingPattern:
		if pat.Sub != nil {
			return l.testPattern(subject, pat.Sub)
		}
		return l.b.BuildConst(nil, true, "")
	case ast.LiteralPattern:
		lit := l.lowerExpr(pat.Value)
		return l.b.BuildBinOp(backend.OpEq, subject, lit, "")
	case ast.TuplePattern:
		var acc backend.Value
		for i, elem := range pat.Elems {
			field := l.b.BuildGEP(nil, subject, []int{i}, "")
			cond := l.testPattern(field, elem)
			acc = andAcc(l, acc, cond)
		}
		return nonNilOrTrue(l, acc)
	case ast.StructPattern:
		var acc backend.Value
		for i, name := range pat.FieldOrder {
			field := l.b.BuildGEP(nil, subject, []int{i}, name)
			cond := l.testPattern(field, pat.Fields[name])
			acc = andAcc(l, acc, cond)
		}
		return nonNilOrTrue(l, acc)
	case ast.EnumPattern:
		tagOK := l.b.BuildCall("__enum_tag_eq", []backend.Value{subject, backend.Value(pat.VariantName)}, "")
		acc := tagOK
		for i, sub := range pat.Payload {
			field := l.b.BuildGEP(nil, subject, []int{i}, "")
			cond := l.testPattern(field, sub)
			acc = andAcc(l, acc, cond)
		}
		return acc
	case ast.ArrayPattern:
		var acc backend.Value
		for i, elem := range pat.Elems {
			field := l.b.BuildGEP(nil, subject, []int{i}, "")
			cond := l.testPattern(field, elem)
			acc = andAcc(l, acc, cond)
		}
		return nonNilOrTrue(l, acc)
	case ast.OrPattern:
		var acc backend.Value
		for _, alt := range pat.Alternatives {
			cond := l.testPattern(subject, alt)
			if acc == "" {
				acc = cond
			} else {
				acc = l.b.BuildBinOp(backend.OpOr, acc, cond, "")
			}
		}
		return nonNilOrTrue(l, acc)
	case ast.TypePattern:
		return l.b.BuildCall("__type_is", []backend.Value{subject}, "")
	default:
		return l.b.BuildConst(nil, true, "")
	}
}

// bindPattern materializes every name p.Names() introduces as a local
// alloca initialized from the corresponding piece of subject.
func (l *functionLowerer) bindPattern(p ast.Pattern, subject backend.Value) {
	switch pat := p.(type) {
	case ast.BindingPattern:
		ptr := l.b.BuildAlloca(nil, pat.Name)
		l.b.BuildStore(ptr, subject)
		l.locals[pat.Name] = ptr
		if pat.Sub != nil {
			l.bindPattern(pat.Sub, subject)
		}
	case ast.TuplePattern:
		for i, elem := range pat.Elems {
			field := l.b.BuildGEP(nil, subject, []int{i}, "")
			l.bindPattern(elem, field)
		}
	case ast.StructPattern:
		for i, name := range pat.FieldOrder {
			field := l.b.BuildGEP(nil, subject, []int{i}, name)
			l.bindPattern(pat.Fields[name], field)
		}
	case ast.EnumPattern:
		for i, sub := range pat.Payload {
			field := l.b.BuildGEP(nil, subject, []int{i}, "")
			l.bindPattern(sub, field)
		}
	case ast.ArrayPattern:
		for i, elem := range pat.Elems {
			field := l.b.BuildGEP(nil, subject, []int{i}, "")
			l.bindPattern(elem, field)
		}
		if pat.Rest != nil {
			l.bindPattern(pat.Rest, subject)
		}
	case ast.OrPattern:
		if len(pat.Alternatives) > 0 {
			l.bindPattern(pat.Alternatives[0], subject)
		}
	case ast.TypePattern:
		if pat.Binding != "" {
			ptr := l.b.BuildAlloca(pat.Type, pat.Binding)
			l.b.BuildStore(ptr, subject)
			l.locals[pat.Binding] = ptr
		}
	}
}

func andAcc(l *functionLowerer, acc, cond backend.Value) backend.Value {
	if acc == "" {
		return cond
	}
	return l.b.BuildBinOp(backend.OpAnd, acc, cond, "")
}

func nonNilOrTrue(l *functionLowerer, v backend.Value) backend.Value {
	if v == "" {
		return l.b.BuildConst(nil, true, "")
	}
	return v
}

// lowerTry compiles `inner?` (spec.md §4.9): evaluate inner, branch on
// its tag, and on the Err arm run every pending defer and drop for the
// whole function (the same exitScopes helper the `return` path uses,
// so the two cannot drift apart) before returning the re-wrapped
// error.
func (l *functionLowerer) lowerTry(ex *ast.TryExpr) backend.Value {
	inner := l.lowerExpr(ex.Inner)
	okBlk := l.newBlock("try.ok")
	errBlk := l.newBlock("try.err")

	isErr := l.b.BuildCall("__result_is_err", []backend.Value{inner}, "")
	l.b.BuildCondBranch(isErr, errBlk, okBlk)

	// The error arm unwinds every live frame to return early, but that
	// unwind must not affect the frame stack the success arm keeps
	// unwinding through on its own, later path — the two arms are
	// divergent blocks, not sequential code.
	savedFrames := l.frames

	l.b.PositionAt(errBlk)
	errVal := l.b.BuildCall("__result_unwrap_err", []backend.Value{inner}, "")
	wrapped := l.b.BuildCall("__error_wrap", []backend.Value{errVal}, "")
	l.exitScopes(len(l.frames), wrapped)
	l.b.BuildReturn(wrapped)

	l.frames = savedFrames
	l.b.PositionAt(okBlk)
	return l.b.BuildCall("__result_unwrap_ok", []backend.Value{inner}, "")
}
