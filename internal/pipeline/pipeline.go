// Package pipeline wires the resolver, checker, and lowerer into the one
// linear sequence spec.md §2 describes: parsed AST -> resolved AST -> typed
// AST -> IR program. Each stage is a Processor threaded through a single
// PipelineContext, mirroring the teacher's own Pipeline.Run shape, so a
// caller (the CLI, a test, an editor integration) can run the whole thing
// or splice in its own stages without touching the others.
package pipeline

import (
	"github.com/snuggle-lang/snuggle/internal/ast"
	"github.com/snuggle-lang/snuggle/internal/check"
	"github.com/snuggle-lang/snuggle/internal/diagnostics"
	"github.com/snuggle-lang/snuggle/internal/ir"
	"github.com/snuggle-lang/snuggle/internal/lower"
	"github.com/snuggle-lang/snuggle/internal/resolve"
	"github.com/snuggle-lang/snuggle/internal/source"
	"github.com/snuggle-lang/snuggle/internal/types"
)

// PipelineContext threads state between stages. Earlier stages populate
// their output field; later stages read it and add their own diagnostics
// to Errors. A stage never clears a prior stage's output, so a caller that
// only wants e.g. resolution results can stop the pipeline early and still
// find them here.
type PipelineContext struct {
	FilePath   string
	SourceCode string
	IsTestMode bool

	Builtins *types.Builtins
	Loader   resolve.FileLoader

	AstRoot  *ast.File
	Resolved *resolve.Result
	Typed    *check.TypedBlock
	Program  *ir.Program

	Errors []*diagnostics.DiagnosticError
}

// NewPipelineContext builds a context for one compilation starting from
// source text. Builtins defaults to the standard set; callers that loaded
// a snuggle.yaml with builtin overrides replace ctx.Builtins before Run.
func NewPipelineContext(sourceCode string) *PipelineContext {
	return &PipelineContext{
		SourceCode: sourceCode,
		Builtins:   types.NewBuiltins(),
	}
}

// addErrors folds a diagnostics.List (nil-safe) into ctx.Errors.
func (ctx *PipelineContext) addErrors(list *diagnostics.List) {
	if list == nil {
		return
	}
	ctx.Errors = append(ctx.Errors, list.Errors...)
}

// Processor is one pipeline stage. It receives the context built by every
// prior stage and returns the context to hand to the next one — almost
// always the same pointer, mutated in place, matching the teacher's
// Processor shape exactly so Pipeline.Run needs no change per stage added.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline, stopping early once a stage has recorded
// errors (spec §7: "Emission stops at the first error that escapes a
// pass's local handling") — a stage that already has diagnostics is
// skipped rather than run against an incomplete prior result.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		if len(ctx.Errors) > 0 {
			break
		}
		ctx = processor.Process(ctx)
	}
	return ctx
}

// ResolveProcessor runs the name resolver (spec §4.1) over ctx.AstRoot,
// which an earlier stage (the external parser, or a test building the AST
// by hand) must already have set.
type ResolveProcessor struct{}

func (ResolveProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.AstRoot == nil {
		ctx.Errors = append(ctx.Errors, diagnostics.NewInternalError(
			source.None, "resolve stage ran with no parsed AST"))
		return ctx
	}
	r := resolve.NewResolver(ctx.Builtins, ctx.Loader)
	result, err := r.ResolveEntry(ctx.AstRoot)
	ctx.Resolved = result
	if err != nil {
		ctx.addErrors(r.Errors)
	}
	return ctx
}

// CheckProcessor runs the type checker (spec §4.2) over the resolved AST.
type CheckProcessor struct{}

func (CheckProcessor) Process(ctx *PipelineContext) *PipelineContext {
	c := check.NewChecker(ctx.Resolved, ctx.Builtins)
	typed, err := c.CheckFile(ctx.AstRoot)
	ctx.Typed = typed
	if err != nil {
		ctx.addErrors(c.Errors)
	}
	return ctx
}

// LowerProcessor runs the lowerer (spec §4.3) over the typed AST, producing
// the IR program the bytecode writer (out of scope here) would consume.
type LowerProcessor struct{}

func (LowerProcessor) Process(ctx *PipelineContext) *PipelineContext {
	l := lower.NewLowerer()
	l.LowerFile(ctx.FilePath, ctx.Typed)
	ctx.Program = l.Program()
	if l.Errors.HasErrors() {
		ctx.addErrors(l.Errors)
	}
	return ctx
}

// Compile runs the full resolve -> check -> lower sequence over an already
// parsed entry file and returns the resulting IR program, or the first
// pass's diagnostics. This is the driver function cmd/snugglec calls; tests
// that only care about one pass construct their own shorter Pipeline.
func Compile(filePath string, entry *ast.File, builtins *types.Builtins, loader resolve.FileLoader) (*ir.Program, []*diagnostics.DiagnosticError) {
	ctx := &PipelineContext{
		FilePath: filePath,
		AstRoot:  entry,
		Builtins: builtins,
		Loader:   loader,
	}
	p := New(ResolveProcessor{}, CheckProcessor{}, LowerProcessor{})
	final := p.Run(ctx)
	return final.Program, final.Errors
}
