// Package prelude embeds the compiler's own standard-library modules
// and injects them ahead of every user program, the Go counterpart of
// original_source/vex-compiler/src/prelude_loader.rs's
// load_embedded_prelude. Parsing is done with internal/parser's
// deliberately small grammar (spec.md §1 keeps a full front end out of
// the core), which is sufficient since every prelude module here is
// hand-authored against that grammar.
package prelude

import (
	_ "embed"
	"fmt"

	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/parser"
	"github.com/vexlang/vexc/internal/span"
)

//go:embed modules/core_lib.vex
var coreLib string

//go:embed modules/core_ops.vex
var coreOps string

//go:embed modules/core_builtin_contracts.vex
var coreBuiltinContracts string

//go:embed modules/core_option.vex
var coreOption string

//go:embed modules/core_result.vex
var coreResult string

//go:embed modules/core_vec.vex
var coreVec string

//go:embed modules/core_box.vex
var coreBox string

//go:embed modules/core_string.vex
var coreString string

// module pairs an embedded source file with the module name it is
// reported under on a parse failure.
type module struct {
	name   string
	source string
}

// modules lists the embedded prelude in initialization order.
// core::lib leads (restored ahead of core::ops per
// original_source/vex-compiler/src/prelude_loader.rs, which the
// distilled spec's module list otherwise omits).
var modules = []module{
	{"core::lib", coreLib},
	{"core::ops", coreOps},
	{"core::builtin_contracts", coreBuiltinContracts},
	{"core::option", coreOption},
	{"core::result", coreResult},
	{"core::vec", coreVec},
	{"core::box", coreBox},
	{"core::string", coreString},
}

// LoadError reports which embedded module failed to parse, mirroring
// PreludeLoadError::ParseError from the original implementation.
type LoadError struct {
	ModuleName string
	Err        error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("prelude: failed to parse module %q: %s", e.ModuleName, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load parses every embedded module and concatenates their items into
// one Program, spans recorded into a fresh span.Map returned alongside
// it. Called once per compilation, ahead of registration (stage 3's
// global seeding needs the prelude's trait declarations already
// present in ctx.Program.Items).
func Load() (*ast.Program, *span.Map, error) {
	spans := span.NewMap()
	prog := &ast.Program{File: "<prelude>"}

	for _, m := range modules {
		p := parser.New(m.name, m.source, spans)
		modProg, errs := p.Parse()
		if len(errs) > 0 {
			return nil, nil, &LoadError{ModuleName: m.name, Err: errs[0]}
		}
		prog.Items = append(prog.Items, modProg.Items...)
	}

	return prog, spans, nil
}

// Inject prepends the embedded prelude's items to user, merging
// user's own spans on top of the prelude's. user keeps its own File
// name; only its Items and Imports are affected.
func Inject(user *ast.Program, userSpans *span.Map) (*ast.Program, error) {
	preludeProg, preludeSpans, err := Load()
	if err != nil {
		return nil, err
	}
	merged := &ast.Program{
		File:    user.File,
		Imports: user.Imports,
		Items:   append(append([]ast.Item{}, preludeProg.Items...), user.Items...),
	}
	if userSpans != nil {
		userSpans.Merge(preludeSpans)
	}
	return merged, nil
}
