package pipeline

import (
	"strings"
	"testing"

	"github.com/snuggle-lang/snuggle/internal/ast"
	"github.com/snuggle-lang/snuggle/internal/ir"
	"github.com/snuggle-lang/snuggle/internal/resolve"
	"github.com/snuggle-lang/snuggle/internal/source"
	"github.com/snuggle-lang/snuggle/internal/types"
)

// noImportLoader refuses every Load call; the fixtures below never import.
type noImportLoader struct{}

func (noImportLoader) Load(path string) (*ast.File, error) { return nil, errNoImports }

var errNoImports = &loaderError{"no imports expected in this fixture"}

type loaderError struct{ msg string }

func (e *loaderError) Error() string { return e.msg }

// structWithFieldAccessFile builds:
//
//	struct Point { pub x: i32, pub y: i32 }
//	let p = Point(1, 2)
//	p.x
func structWithFieldAccessFile() *ast.File {
	loc := source.Location{File: "fixture.sng", Line: 1}
	i32 := func() ast.ParsedType { return &ast.NamedType{Location: loc, Name: "i32"} }

	point := &ast.StructDef{
		Location: loc,
		Name:     "Point",
		Pub:      true,
		Fields: []*ast.FieldDecl{
			{Location: loc, Name: "x", Type: i32(), Pub: true},
			{Location: loc, Name: "y", Type: i32(), Pub: true},
		},
	}

	decl := &ast.Declaration{
		Location: loc,
		Pattern:  &ast.Pattern{Location: loc, Kind: ast.PatternSingle, Name: "p"},
		Value: &ast.RawStructConstructor{
			Location: loc,
			Type:     &ast.NamedType{Location: loc, Name: "Point"},
			Fields: []ast.Expr{
				&ast.Literal{Location: loc, Kind: ast.LitInt, Int: 1},
				&ast.Literal{Location: loc, Kind: ast.LitInt, Int: 2},
			},
		},
	}

	access := &ast.FieldAccess{
		Location: loc,
		Receiver: &ast.Variable{Location: loc, Name: "p"},
		Field:    "x",
	}

	return &ast.File{
		Path: "fixture.sng",
		Top: &ast.Block{
			Location: loc,
			Elements: []ast.BlockElement{point, decl, access},
		},
	}
}

func TestCompile_StructFieldAccess_ProducesInstructions(t *testing.T) {
	entry := structWithFieldAccessFile()
	builtins := types.NewBuiltins()

	program, errs := Compile("fixture.sng", entry, builtins, noImportLoader{})
	if len(errs) != 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("unexpected diagnostics: %s", strings.Join(msgs, "; "))
	}
	instrs, ok := program.Files["fixture.sng"]
	if !ok {
		t.Fatal("no instructions emitted for fixture.sng")
	}
	if len(instrs) == 0 {
		t.Fatal("expected a non-empty instruction sequence")
	}
	dump := ir.Disassemble(instrs, "fixture.sng")
	if !strings.Contains(dump, "fixture.sng") {
		t.Errorf("disassembly missing file header: %s", dump)
	}
}

func TestPipeline_StopsAtFirstFailingPass(t *testing.T) {
	// An entry file whose single top-level expression references an
	// undeclared name must fail resolution and never reach the checker or
	// lowerer — the Typed/Program fields stay nil.
	loc := source.Location{File: "bad.sng", Line: 1}
	entry := &ast.File{
		Path: "bad.sng",
		Top: &ast.Block{
			Location: loc,
			Elements: []ast.BlockElement{
				&ast.FieldAccess{Location: loc, Receiver: &ast.Variable{Location: loc, Name: "nope"}, Field: "x"},
			},
		},
	}
	builtins := types.NewBuiltins()
	ctx := NewPipelineContext("")
	ctx.FilePath = "bad.sng"
	ctx.AstRoot = entry
	ctx.Builtins = builtins
	ctx.Loader = noImportLoader{}

	p := New(ResolveProcessor{}, CheckProcessor{}, LowerProcessor{})
	final := p.Run(ctx)
	if final.Typed != nil {
		t.Error("checker ran despite a resolve-stage error")
	}
	if final.Program != nil {
		t.Error("lowerer ran despite a resolve-stage error")
	}
}

var _ resolve.FileLoader = noImportLoader{}
