package types

// Equal reports whether two fully (or partially) resolved types are
// structurally identical. Unknown/Infer placeholders are equal only to
// themselves by variable name — callers that want unification semantics
// should use Unify instead.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case Primitive:
		bv, ok := b.(Primitive)
		return ok && av.Name == bv.Name
	case Array:
		bv, ok := b.(Array)
		return ok && av.Len == bv.Len && Equal(av.Elem, bv.Elem)
	case Slice:
		bv, ok := b.(Slice)
		return ok && av.Mutable == bv.Mutable && Equal(av.Elem, bv.Elem)
	case Tuple:
		bv, ok := b.(Tuple)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equal(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case Reference:
		bv, ok := b.(Reference)
		return ok && av.Mutable == bv.Mutable && Equal(av.Referent, bv.Referent)
	case RawPtr:
		bv, ok := b.(RawPtr)
		return ok && av.Mutable == bv.Mutable && Equal(av.Pointee, bv.Pointee)
	case Vec:
		bv, ok := b.(Vec)
		return ok && Equal(av.Elem, bv.Elem)
	case Box:
		bv, ok := b.(Box)
		return ok && Equal(av.Elem, bv.Elem)
	case Option:
		bv, ok := b.(Option)
		return ok && Equal(av.Elem, bv.Elem)
	case Result:
		bv, ok := b.(Result)
		return ok && Equal(av.Ok, bv.Ok) && Equal(av.Err, bv.Err)
	case Channel:
		bv, ok := b.(Channel)
		return ok && Equal(av.Elem, bv.Elem)
	case Future:
		bv, ok := b.(Future)
		return ok && Equal(av.Elem, bv.Elem)
	case Named:
		bv, ok := b.(Named)
		return ok && av.Name == bv.Name
	case Generic:
		bv, ok := b.(Generic)
		if !ok || av.Name != bv.Name || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !Equal(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	case Function:
		bv, ok := b.(Function)
		if !ok || len(av.Params) != len(bv.Params) {
			return false
		}
		for i := range av.Params {
			if !Equal(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return Equal(av.Ret, bv.Ret)
	case Union:
		bv, ok := b.(Union)
		if !ok || len(av.Members) != len(bv.Members) {
			return false
		}
		for i := range av.Members {
			if !Equal(av.Members[i], bv.Members[i]) {
				return false
			}
		}
		return true
	case Intersection:
		bv, ok := b.(Intersection)
		if !ok || len(av.Members) != len(bv.Members) {
			return false
		}
		for i := range av.Members {
			if !Equal(av.Members[i], bv.Members[i]) {
				return false
			}
		}
		return true
	case Unknown:
		bv, ok := b.(Unknown)
		return ok && av.Var == bv.Var
	case Infer:
		bv, ok := b.(Infer)
		return ok && av.Name == bv.Name
	case SelfType:
		_, ok := b.(SelfType)
		return ok
	case AssociatedType:
		bv, ok := b.(AssociatedType)
		return ok && av.Trait == bv.Trait && av.Name == bv.Name
	case Error:
		_, ok := b.(Error)
		return ok
	default:
		return false
	}
}

// IsUnresolved reports whether t is itself an Unknown/Infer placeholder
// (not merely containing one nested inside a container).
func IsUnresolved(t Type) bool {
	switch t.(type) {
	case Unknown, Infer:
		return true
	default:
		return false
	}
}

// UnifyResult is the outcome of attempting to unify two types.
type UnifyResult int

const (
	// UnifyOK means the two sides were already equal, or a placeholder
	// side was bound to the concrete side (the binding is reported via
	// the returned Subst).
	UnifyOK UnifyResult = iota
	// UnifyDeferred means both sides carry unresolved placeholders;
	// nothing can be concluded yet.
	UnifyDeferred
	// UnifyMismatch means both sides are concrete and structurally
	// unequal: a genuine type error.
	UnifyMismatch
)

// Unify attempts to unify a and b structurally, per spec.md §4.7's
// tie-break rules. It returns the resulting substitution (which may
// bind placeholders found on either side, including nested inside
// containers such as Vec<Unknown> unifying with Vec<i32>) and the
// outcome classification.
func Unify(a, b Type) (Subst, UnifyResult) {
	out := Subst{}
	result := unify(a, b, out)
	return out, result
}

func unify(a, b Type, out Subst) UnifyResult {
	if IsUnresolved(a) && IsUnresolved(b) {
		return UnifyDeferred
	}
	if u, ok := a.(Unknown); ok {
		out[u.Var] = b
		return UnifyOK
	}
	if u, ok := b.(Unknown); ok {
		out[u.Var] = a
		return UnifyOK
	}
	if inf, ok := a.(Infer); ok {
		out[inf.Name] = b
		return UnifyOK
	}
	if inf, ok := b.(Infer); ok {
		out[inf.Name] = a
		return UnifyOK
	}

	// Structural descent: both sides are concrete containers of the
	// same shape, recurse into their components.
	switch av := a.(type) {
	case Vec:
		bv, ok := b.(Vec)
		if !ok {
			return UnifyMismatch
		}
		return unify(av.Elem, bv.Elem, out)
	case Box:
		bv, ok := b.(Box)
		if !ok {
			return UnifyMismatch
		}
		return unify(av.Elem, bv.Elem, out)
	case Option:
		bv, ok := b.(Option)
		if !ok {
			return UnifyMismatch
		}
		return unify(av.Elem, bv.Elem, out)
	case Result:
		bv, ok := b.(Result)
		if !ok {
			return UnifyMismatch
		}
		r1 := unify(av.Ok, bv.Ok, out)
		r2 := unify(av.Err, bv.Err, out)
		return worstOutcome(r1, r2)
	case Slice:
		bv, ok := b.(Slice)
		if !ok {
			return UnifyMismatch
		}
		return unify(av.Elem, bv.Elem, out)
	case Array:
		bv, ok := b.(Array)
		if !ok || av.Len != bv.Len {
			return UnifyMismatch
		}
		return unify(av.Elem, bv.Elem, out)
	case Reference:
		bv, ok := b.(Reference)
		if !ok || av.Mutable != bv.Mutable {
			return UnifyMismatch
		}
		return unify(av.Referent, bv.Referent, out)
	case Tuple:
		bv, ok := b.(Tuple)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return UnifyMismatch
		}
		res := UnifyOK
		for i := range av.Elems {
			res = worstOutcome(res, unify(av.Elems[i], bv.Elems[i], out))
		}
		return res
	case Generic:
		bv, ok := b.(Generic)
		if !ok || av.Name != bv.Name || len(av.Args) != len(bv.Args) {
			return UnifyMismatch
		}
		res := UnifyOK
		for i := range av.Args {
			res = worstOutcome(res, unify(av.Args[i], bv.Args[i], out))
		}
		return res
	case Channel:
		bv, ok := b.(Channel)
		if !ok {
			return UnifyMismatch
		}
		return unify(av.Elem, bv.Elem, out)
	case Future:
		bv, ok := b.(Future)
		if !ok {
			return UnifyMismatch
		}
		return unify(av.Elem, bv.Elem, out)
	}

	if Equal(a, b) {
		return UnifyOK
	}
	return UnifyMismatch
}

func worstOutcome(a, b UnifyResult) UnifyResult {
	if a == UnifyMismatch || b == UnifyMismatch {
		return UnifyMismatch
	}
	if a == UnifyDeferred || b == UnifyDeferred {
		return UnifyDeferred
	}
	return UnifyOK
}
