package types

// IsMoveType classifies t as Copy (false) or Move (true) per spec.md
// §4.3. It is total: every Type variant yields a boolean (invariant 4
// in spec.md §8), grounded directly on
// original_source/vex-compiler/src/borrow_checker/moves/type_classification.rs,
// translated from the Rust match into a Go type switch.
func IsMoveType(t Type) bool {
	switch v := t.(type) {
	case Unknown:
		return true // assume non-Copy for safety until resolved

	case Primitive:
		switch v.Name {
		case Str:
			return true
		case AnyTy:
			return true
		default:
			// all other primitives (ints, floats, bool, byte, unit,
			// nil, never) are Copy
			return false
		}

	case Reference:
		return false // copying a reference copies the pointer
	case RawPtr:
		return false // just an address
	case Function:
		return false // function pointers are Copy
	case Box:
		return false // a Box is a single owning pointer, Copy per spec
	case Channel:
		return false // a handle to a runtime channel
	case Future:
		return false // a handle to a runtime async task

	case Vec:
		return true // owns heap data
	case Option:
		return true // contains T
	case Result:
		return true // contains T and E

	case Array:
		return true
	case Slice:
		return true

	case Tuple:
		for _, e := range v.Elems {
			if IsMoveType(e) {
				return true
			}
		}
		return false

	case Named:
		return true // struct/enum, conservative until a Copy impl is tracked
	case Generic:
		return true

	case Union:
		return true
	case Intersection:
		return true
	case Conditional:
		return true

	case SelfType:
		return true // conservative until resolved
	case AssociatedType:
		return true // conservative until resolved

	case Infer:
		return false
	case Typeof:
		return false // compile-time only
	case Error:
		return false

	default:
		return false
	}
}

// IsCopyType is the complement of IsMoveType, spelled out for call
// sites that read more naturally in the affirmative.
func IsCopyType(t Type) bool { return !IsMoveType(t) }
