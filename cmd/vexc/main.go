// Command vexc is the compiler driver (spec.md §6): a minimal
// `compile` subcommand, plain os.Args parsing with no CLI-framework
// dependency, mirroring funxy's own cmd/funxy/main.go.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/vexlang/vexc/internal/backend"
	"github.com/vexlang/vexc/internal/buildconfig"
	"github.com/vexlang/vexc/internal/compiler"
	"github.com/vexlang/vexc/internal/config"
	"github.com/vexlang/vexc/internal/diagnostics"
	"github.com/vexlang/vexc/internal/parser"
	"github.com/vexlang/vexc/internal/pipeline"
	"github.com/vexlang/vexc/internal/span"
)

const usage = `usage: vexc compile <file.vex> [--out=<path>] [--emit=ir|object] [--format=text|json] [--backend-addr=<addr>]`

func main() {
	os.Exit(run(os.Args[1:]))
}

// run implements the compile subcommand and returns the process exit
// code: 0 success, 1 user error (diagnostics printed), 2 internal
// error, per spec.md §6.
func run(args []string) int {
	if len(args) == 0 || args[0] != "compile" {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}
	args = args[1:]

	var sourcePath, outPath, emit, format, backendAddr string
	emit = "ir"
	format = "text"
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--out="):
			outPath = strings.TrimPrefix(arg, "--out=")
		case strings.HasPrefix(arg, "--emit="):
			emit = strings.TrimPrefix(arg, "--emit=")
		case strings.HasPrefix(arg, "--format="):
			format = strings.TrimPrefix(arg, "--format=")
		case strings.HasPrefix(arg, "--backend-addr="):
			backendAddr = strings.TrimPrefix(arg, "--backend-addr=")
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(os.Stderr, "vexc: unrecognized flag %q\n", arg)
			return 2
		default:
			if sourcePath != "" {
				fmt.Fprintf(os.Stderr, "vexc: unexpected extra argument %q\n", arg)
				return 2
			}
			sourcePath = arg
		}
	}
	if sourcePath == "" {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}

	src, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vexc: %s\n", err)
		return 2
	}

	cfg, err := buildconfig.Load(".vexcompiler.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "vexc: loading .vexcompiler.yaml: %s\n", err)
		return 2
	}
	config.Verbose = cfg.Verbose

	spans := span.NewMap()
	p := parser.New(sourcePath, string(src), spans)
	prog, parseErrs := p.Parse()
	if len(parseErrs) > 0 {
		for _, perr := range parseErrs {
			fmt.Fprintf(os.Stderr, "vexc: %s\n", perr)
		}
		return 1
	}

	var be backend.Backend
	switch emit {
	case "ir":
		be = backend.NewTextPlan()
	case "object":
		rpc, err := backend.DialRPCBackend(backendAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vexc: %s\n", err)
			return 2
		}
		be = rpc
	default:
		fmt.Fprintf(os.Stderr, "vexc: unknown --emit value %q, want ir or object\n", emit)
		return 2
	}

	ctx := compiler.Run(compiler.Input{
		Program:     prog,
		Spans:       spans,
		BuildConfig: cfg,
		Backend:     be,
	})

	if ctx.HasErrors() {
		reportDiagnostics(ctx, sourcePath, string(src), format)
		return 1
	}

	var output string
	if tp, ok := be.(*backend.TextPlanBackend); ok {
		output = tp.Render()
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(output), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "vexc: writing %s: %s\n", outPath, err)
			return 2
		}
	} else {
		fmt.Print(output)
	}

	// Warnings don't block success but should still be surfaced.
	if len(ctx.Diagnostics.Diagnostics()) > 0 {
		reportDiagnostics(ctx, sourcePath, string(src), format)
	}
	return 0
}

func reportDiagnostics(ctx *pipeline.CompileContext, sourcePath, source, format string) {
	if format == "json" {
		data, err := diagnostics.MarshalBatch(ctx.Diagnostics)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vexc: marshaling diagnostics: %s\n", err)
			return
		}
		fmt.Fprintln(os.Stdout, string(data))
		return
	}

	renderer := diagnostics.NewRenderer(os.Stderr)
	sources := map[string][]string{sourcePath: strings.Split(source, "\n")}
	renderer.RenderAll(os.Stderr, ctx.Diagnostics, sources)
}
