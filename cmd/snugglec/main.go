// Command snugglec is the compiler-core driver: it wires an already parsed
// entry file through resolve -> check -> lower (internal/pipeline.Compile)
// and prints the resulting IR, or the first pass's diagnostics. Lexing and
// parsing Snuggle source text are external collaborators this module does
// not implement (spec.md §1); an embedding caller supplies the parsed
// ast.File this driver compiles — see loadEntry below for where that
// collaborator plugs in.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/snuggle-lang/snuggle/internal/ast"
	"github.com/snuggle-lang/snuggle/internal/config"
	"github.com/snuggle-lang/snuggle/internal/diagnostics"
	"github.com/snuggle-lang/snuggle/internal/ir"
	"github.com/snuggle-lang/snuggle/internal/pipeline"
	"github.com/snuggle-lang/snuggle/internal/reflectbridge"
	"github.com/snuggle-lang/snuggle/internal/types"
	"github.com/mattn/go-isatty"
)

// entryLoader is the resolve.FileLoader this driver hands to the pipeline:
// every import (including the entry file itself) resolves through it. A
// real deployment substitutes one backed by the external lexer/parser; the
// one built here refuses to load anything, since parsing is out of scope
// — it exists only so the pipeline type-checks and reports a clear error
// instead of nil-pointer-panicking on a missing collaborator.
type entryLoader struct{}

func (entryLoader) Load(path string) (*ast.File, error) {
	return nil, fmt.Errorf("snugglec has no built-in parser; %s must be supplied as a pre-parsed ast.File by the embedding tool", path)
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	if len(os.Args) < 3 || os.Args[1] != "compile" {
		fmt.Fprintf(os.Stderr, "Usage: %s compile <file> [-debug]\n", os.Args[0])
		os.Exit(1)
	}

	debug := false
	var path string
	for _, arg := range os.Args[2:] {
		switch arg {
		case "-debug", "--debug":
			debug = true
		default:
			if !strings.HasPrefix(arg, "-") && path == "" {
				path = arg
			}
		}
	}
	if path == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s compile <file> [-debug]\n", os.Args[0])
		os.Exit(1)
	}

	projectCfg, err := config.LoadProjectConfig(filepath.Join(filepath.Dir(path), "snuggle.yaml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading snuggle.yaml: %s\n", err)
		os.Exit(1)
	}

	builtins := types.NewBuiltins()
	if bridgeErrs := registerReflectedClasses(builtins, projectCfg); len(bridgeErrs) > 0 {
		fmt.Fprintln(os.Stderr, "Host-reflection validation failed:")
		for _, e := range bridgeErrs {
			fmt.Fprintf(os.Stderr, "- %s\n", e.Error())
		}
		os.Exit(1)
	}

	entry, err := loadEntry(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	program, errs := pipeline.Compile(path, entry, builtins, entryLoader{})
	if len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "Compilation failed:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "- %s\n", e.Error())
		}
		os.Exit(1)
	}

	if debug {
		printDisassembly(program)
	}
}

// loadEntry is where the external parser plugs in; snugglec itself carries
// none (spec.md §1's "parser ... external collaborator").
func loadEntry(path string) (*ast.File, error) {
	return nil, fmt.Errorf("reading %s: no parser wired into this build", path)
}

// registerReflectedClasses builds every host class in the standard registry
// (overridden per snuggle.yaml) and registers each resulting type onto b so
// resolution entry's builtin scope can see it (spec §6). Its returned
// diagnostics are host-reflection validation failures (spec §7: "fatal at
// compiler start-up") — the caller must stop before compiling anything if
// this slice is non-empty.
func registerReflectedClasses(b *types.Builtins, cfg *config.ProjectConfig) []*diagnostics.DiagnosticError {
	bridge := reflectbridge.NewBridge()
	for _, spec := range reflectbridge.StandardRegistry(b) {
		for _, entry := range cfg.ReflectedClasses {
			if entry.HostClass == spec.HostClass {
				spec = reflectbridge.ApplyConfig(spec, entry)
			}
		}
		if r := bridge.Build(spec); r != nil {
			b.RegisterReflected(r)
		}
	}
	return bridge.Errors.Errors
}

func printDisassembly(p *ir.Program) {
	highlight := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	for file, instrs := range p.Files {
		dump := ir.Disassemble(instrs, file)
		if highlight {
			dump = colorize(dump)
		}
		fmt.Println(dump)
	}
}

// colorize lightly highlights opcode mnemonics when stdout is a real
// terminal, mirroring the teacher's isatty-gated terminal feature
// detection rather than always emitting ANSI codes into piped output.
func colorize(dump string) string {
	const cyan, reset = "\x1b[36m", "\x1b[0m"
	lines := strings.Split(dump, "\n")
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		lines[i] = strings.Replace(line, fields[1], cyan+fields[1]+reset, 1)
	}
	return strings.Join(lines, "\n")
}
