// Package config carries the compiler's package-level constants and
// closed builtin name lists, in the same flavor as funxy's
// internal/config/constants.go (plain vars/consts, no framework).
package config

// MaxGenericDepth bounds the recursion depth of the type tree during
// generic instantiation (spec.md §4.8 step 6), guarding against
// pathological nesting like Box<Box<Box<...>>>. Overridable per
// compilation via buildconfig.Config.MaxGenericDepthOverride.
const MaxGenericDepth = 64

// SourceFileExt is the canonical extension for vex source files.
const SourceFileExt = ".vex"

// SourceFileExtensions are every recognized source extension, mirroring
// funxy's SourceFileExtensions list (which accepts more than one
// spelling for historical reasons).
var SourceFileExtensions = []string{".vex", ".vx"}

// HasSourceExt reports whether path ends in a recognized source
// extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode mirrors funxy's config.IsTestMode flag. No code in this
// module reads it; diagnostics and type-variable naming are the same
// whether it is set or not.
var IsTestMode = false

// Verbose gates the internal debug traces spec.md §9 asks to be kept
// out of user-facing diagnostics: "implementers should route all
// user-facing information through the diagnostic channel and keep the
// debug traces gated behind a verbosity flag."
var Verbose = false

// BuiltinFunctionNames is the closed list of names seeded into every
// scope without an explicit import (spec.md §4.1).
var BuiltinFunctionNames = []string{
	"print", "alloc", "memcpy", "typeof",
	"vec_new", "vec_push", "vec_len",
	"i8_to_string", "i16_to_string", "i32_to_string", "i64_to_string", "i128_to_string",
	"u8_to_string", "u16_to_string", "u32_to_string", "u64_to_string", "u128_to_string",
	"f32_to_string", "f64_to_string", "bool_to_string",
}

// BuiltinTypeNames is the closed list of names that always resolve as
// types, never as variables (spec.md §4.1): name-resolution queries
// short-circuit to this set before consulting any scope.
var BuiltinTypeNames = []string{
	"Vec", "Box", "Map", "Set", "String", "Range", "Option", "Result", "Channel", "Slice",
}

// IsBuiltinType reports whether name is one of BuiltinTypeNames.
func IsBuiltinType(name string) bool {
	for _, n := range BuiltinTypeNames {
		if n == name {
			return true
		}
	}
	return false
}

// IsBuiltinFunction reports whether name is one of
// BuiltinFunctionNames.
func IsBuiltinFunction(name string) bool {
	for _, n := range BuiltinFunctionNames {
		if n == name {
			return true
		}
	}
	return false
}

// BuiltinExtensionDefault pairs a pre-registered builtin type with one
// trait it is known to satisfy without a user-written impl.
type BuiltinExtensionDefault struct {
	BuiltinType string
	Trait       string
}

// BuiltinExtensionDefaults restores the builtin/trait pairings
// enumerated in original_source/vex-compiler/src/borrow_checker/builtins_list.rs,
// consulted by generic bound-checking (spec.md §4.8 step 2) so that a
// bound like `T: Copy` is satisfiable by `i32` even though `i32` never
// appears in a user `impl` block.
var BuiltinExtensionDefaults = []BuiltinExtensionDefault{
	{BuiltinType: "i8", Trait: "Copy"}, {BuiltinType: "i16", Trait: "Copy"},
	{BuiltinType: "i32", Trait: "Copy"}, {BuiltinType: "i64", Trait: "Copy"},
	{BuiltinType: "i128", Trait: "Copy"},
	{BuiltinType: "u8", Trait: "Copy"}, {BuiltinType: "u16", Trait: "Copy"},
	{BuiltinType: "u32", Trait: "Copy"}, {BuiltinType: "u64", Trait: "Copy"},
	{BuiltinType: "u128", Trait: "Copy"},
	{BuiltinType: "f32", Trait: "Copy"}, {BuiltinType: "f64", Trait: "Copy"},
	{BuiltinType: "bool", Trait: "Copy"}, {BuiltinType: "byte", Trait: "Copy"},
	{BuiltinType: "i32", Trait: "Display"}, {BuiltinType: "i64", Trait: "Display"},
	{BuiltinType: "f32", Trait: "Display"}, {BuiltinType: "f64", Trait: "Display"},
	{BuiltinType: "bool", Trait: "Display"}, {BuiltinType: "string", Trait: "Display"},
	{BuiltinType: "i32", Trait: "Default"}, {BuiltinType: "i64", Trait: "Default"},
	{BuiltinType: "f64", Trait: "Default"}, {BuiltinType: "bool", Trait: "Default"},
	{BuiltinType: "string", Trait: "Default"},
}
