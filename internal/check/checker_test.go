package check

import (
	"fmt"
	"testing"

	"github.com/snuggle-lang/snuggle/internal/ast"
	"github.com/snuggle-lang/snuggle/internal/resolve"
	"github.com/snuggle-lang/snuggle/internal/source"
	"github.com/snuggle-lang/snuggle/internal/types"
)

type noLoader struct{}

func (noLoader) Load(path string) (*ast.File, error) {
	return nil, fmt.Errorf("no imports in this fixture: %s", path)
}

func resolveFixture(t *testing.T, file *ast.File, builtins *types.Builtins) *resolve.Result {
	t.Helper()
	r := resolve.NewResolver(builtins, noLoader{})
	result, err := r.ResolveEntry(file)
	if err != nil {
		t.Fatalf("unexpected resolution error: %v", err)
	}
	return result
}

// TestChecker_GenericStructSpecializationIsCachedPerArgTuple exercises
// spec §4.2's specialization cache: two constructions at the same type
// argument must observe the same built specialization (identity equal,
// not merely structurally equal), while a different argument tuple gets
// its own.
func TestChecker_GenericStructSpecializationIsCachedPerArgTuple(t *testing.T) {
	loc := source.Location{File: "f.sng", Line: 1}
	box := &ast.StructDef{
		Location: loc,
		Name:     "Box",
		Generics: ast.Generics{Names: []string{"T"}},
		Fields: []*ast.FieldDecl{
			{Location: loc, Name: "v", Type: &ast.TypeGenericParamType{Location: loc, Name: "T", Index: 0}, Pub: true},
		},
	}
	boxOfI32 := func() ast.ParsedType {
		return &ast.NamedType{Location: loc, Name: "Box", Args: []ast.ParsedType{&ast.NamedType{Location: loc, Name: "i32"}}}
	}
	declA := &ast.Declaration{
		Location: loc,
		Pattern:  &ast.Pattern{Location: loc, Kind: ast.PatternSingle, Name: "a"},
		Value:    &ast.RawStructConstructor{Location: loc, Type: boxOfI32(), Fields: []ast.Expr{&ast.Literal{Location: loc, Kind: ast.LitInt, Int: 1}}},
	}
	declB := &ast.Declaration{
		Location: loc,
		Pattern:  &ast.Pattern{Location: loc, Kind: ast.PatternSingle, Name: "b"},
		Value:    &ast.RawStructConstructor{Location: loc, Type: boxOfI32(), Fields: []ast.Expr{&ast.Literal{Location: loc, Kind: ast.LitInt, Int: 2}}},
	}
	boxOfString := &ast.NamedType{Location: loc, Name: "Box", Args: []ast.ParsedType{&ast.NamedType{Location: loc, Name: "string"}}}
	declC := &ast.Declaration{
		Location: loc,
		Pattern:  &ast.Pattern{Location: loc, Kind: ast.PatternSingle, Name: "c"},
		Value:    &ast.RawStructConstructor{Location: loc, Type: boxOfString, Fields: []ast.Expr{&ast.Literal{Location: loc, Kind: ast.LitString, String: "hi"}}},
	}

	file := &ast.File{
		Path: "f.sng",
		Top: &ast.Block{
			Location: loc,
			Elements: []ast.BlockElement{box, declA, declB, declC},
		},
	}
	builtins := types.NewBuiltins()
	resolved := resolveFixture(t, file, builtins)

	c := NewChecker(resolved, builtins)
	typed, err := c.CheckFile(file)
	if err != nil {
		t.Fatalf("unexpected typing error: %v", err)
	}

	declTyped := func(i int) TypedExpr { return typed.Elements[i] }
	typeOfDecl := func(te TypedExpr) types.TypeDef {
		d, ok := te.(*TypedDeclaration)
		if !ok {
			t.Fatalf("element is not a TypedDeclaration: %T", te)
		}
		return d.Value.Type()
	}

	// box's StructDef carries no typed-AST element of its own (spec's typer
	// produces no entry for interleaved type-defs); declA/B/C are the
	// block's only three expression elements, in order.
	ta := typeOfDecl(declTyped(0))
	tb := typeOfDecl(declTyped(1))
	tc := typeOfDecl(declTyped(2))

	if ta != tb {
		t.Error("Box<i32> specialized twice instead of being cached")
	}
	if ta == tc {
		t.Error("Box<i32> and Box<string> collapsed onto the same specialization")
	}
}

func TestChecker_UnknownFieldIsReported(t *testing.T) {
	loc := source.Location{File: "f.sng", Line: 1}
	point := &ast.StructDef{
		Location: loc,
		Name:     "Point",
		Fields: []*ast.FieldDecl{
			{Location: loc, Name: "x", Type: &ast.NamedType{Location: loc, Name: "i32"}, Pub: true},
		},
	}
	decl := &ast.Declaration{
		Location: loc,
		Pattern:  &ast.Pattern{Location: loc, Kind: ast.PatternSingle, Name: "p"},
		Value:    &ast.RawStructConstructor{Location: loc, Type: &ast.NamedType{Location: loc, Name: "Point"}, Fields: []ast.Expr{&ast.Literal{Location: loc, Kind: ast.LitInt, Int: 1}}},
	}
	access := &ast.FieldAccess{Location: loc, Receiver: &ast.Variable{Location: loc, Name: "p"}, Field: "missing"}
	file := &ast.File{
		Path: "f.sng",
		Top: &ast.Block{
			Location: loc,
			Elements: []ast.BlockElement{point, decl, access},
		},
	}
	builtins := types.NewBuiltins()
	resolved := resolveFixture(t, file, builtins)

	c := NewChecker(resolved, builtins)
	if _, err := c.CheckFile(file); err == nil {
		t.Fatal("expected an unknown-field typing error")
	}
}
