package diagnostics

// Code is an opaque, stable-per-error-class identifier (spec.md §6).
// The set below is closed and enumerates every class named in the
// error taxonomy of spec.md §7.
type Code string

const (
	// Parse/lex — reserved for the out-of-scope front end; listed here
	// so the JSON schema has a home for them when the front end reports
	// through this package.
	ErrSyntax             Code = "E0001"
	ErrUnexpectedToken    Code = "E0002"
	ErrUnterminatedLit    Code = "E0003"

	// Name resolution
	ErrUnknownIdentifier Code = "E0101"
	ErrAmbiguousIdentifier Code = "E0102"

	// Type mismatch
	ErrBinaryOperandMismatch Code = "E0201"
	ErrArgumentMismatch      Code = "E0202"
	ErrReturnTypeMismatch    Code = "E0203"
	ErrBranchTypeMismatch    Code = "E0204"

	// Inference failure
	ErrUnresolvedType Code = "E0301"

	// Ownership violation
	ErrUseAfterMove    Code = "E0401"
	ErrDoubleMove      Code = "E0402"
	ErrMoveOutOfBorrow Code = "E0403"

	// Aliasing violation
	ErrExclusiveWhileShared Code = "E0501"
	ErrSharedWhileExclusive Code = "E0502"
	ErrTwoExclusive         Code = "E0503"

	// Lifetime violation
	ErrReturnLocalReference Code = "E0601"
	ErrReferenceOutlivesReferent Code = "E0602"

	// Generic instantiation
	ErrGenericArityMismatch   Code = "E0701"
	ErrUnsatisfiedBound       Code = "E0702"
	ErrGenericDepthExceeded   Code = "E0703"
	ErrCyclicStructDependency Code = "E0704"

	// Immutability violation
	ErrWriteToImmutable      Code = "E0801"
	ErrMutableMethodOnImmut  Code = "E0802"

	// Closure capture
	ErrWeakerCaptureAnnotation Code = "E0901"

	// Pattern matching
	ErrEmptyOrPattern        Code = "E1001"
	ErrOrPatternBindingMismatch Code = "E1002"
)
