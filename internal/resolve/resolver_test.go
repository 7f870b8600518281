package resolve

import (
	"fmt"
	"testing"

	"github.com/snuggle-lang/snuggle/internal/ast"
	"github.com/snuggle-lang/snuggle/internal/source"
	"github.com/snuggle-lang/snuggle/internal/types"
)

type noLoader struct{}

func (noLoader) Load(path string) (*ast.File, error) {
	return nil, fmt.Errorf("no imports in this fixture: %s", path)
}

// TestResolveEntry_OrderIndependentSiblingTypes exercises spec §4.1.1's
// two-phase block resolution: a struct field referencing a sibling type-def
// declared later in the same block must still resolve, since Phase A binds
// every sibling's indirection before Phase B resolves any field type.
func TestResolveEntry_OrderIndependentSiblingTypes(t *testing.T) {
	loc := source.Location{File: "f.sng", Line: 1}
	pair := &ast.StructDef{
		Location: loc,
		Name:     "Pair",
		Fields: []*ast.FieldDecl{
			{Location: loc, Name: "second", Type: &ast.NamedType{Location: loc, Name: "Second"}},
		},
	}
	second := &ast.StructDef{
		Location: loc,
		Name:     "Second",
		Fields: []*ast.FieldDecl{
			{Location: loc, Name: "v", Type: &ast.NamedType{Location: loc, Name: "i32"}},
		},
	}
	file := &ast.File{
		Path: "f.sng",
		Top: &ast.Block{
			Location: loc,
			// Pair comes first in source order yet references Second,
			// declared after it.
			Elements: []ast.BlockElement{pair, second},
		},
	}

	r := NewResolver(types.NewBuiltins(), noLoader{})
	result, err := r.ResolveEntry(file)
	if err != nil {
		t.Fatalf("unexpected resolution error: %v", err)
	}
	ref, ok := result.Refs[pair.Fields[0].Type]
	if !ok {
		t.Fatal("field type on Pair was never resolved")
	}
	if ref.Kind != RefIndirection {
		t.Fatalf("expected Pair.second to resolve to an indirection, got %v", ref.Kind)
	}
}

func TestResolveEntry_UnknownIdentifierIsReported(t *testing.T) {
	loc := source.Location{File: "f.sng", Line: 1}
	file := &ast.File{
		Path: "f.sng",
		Top: &ast.Block{
			Location: loc,
			Elements: []ast.BlockElement{
				&ast.FieldAccess{Location: loc, Receiver: &ast.Variable{Location: loc, Name: "ghost"}, Field: "x"},
			},
		},
	}
	r := NewResolver(types.NewBuiltins(), noLoader{})
	if _, err := r.ResolveEntry(file); err == nil {
		t.Fatal("expected an unknown-identifier error")
	}
	if !r.Errors.HasErrors() {
		t.Fatal("expected at least one recorded diagnostic")
	}
}

func TestResolveEntry_StraySuperIsRejected(t *testing.T) {
	loc := source.Location{File: "f.sng", Line: 1}
	file := &ast.File{
		Path: "f.sng",
		Top: &ast.Block{
			Location: loc,
			Elements: []ast.BlockElement{
				&ast.SuperKeyword{Location: loc},
			},
		},
	}
	r := NewResolver(types.NewBuiltins(), noLoader{})
	if _, err := r.ResolveEntry(file); err == nil {
		t.Fatal("expected a stray-super error")
	}
}

func TestResolveEntry_StaticReceiverOnTypeNameReceiver(t *testing.T) {
	loc := source.Location{File: "f.sng", Line: 1}
	box := &ast.StructDef{
		Location: loc,
		Name:     "Box",
		Fields: []*ast.FieldDecl{
			{Location: loc, Name: "v", Type: &ast.NamedType{Location: loc, Name: "i32"}, Pub: true},
		},
	}
	access := &ast.FieldAccess{
		Location: loc,
		Receiver: &ast.Variable{Location: loc, Name: "Box"},
		Field:    "v",
	}
	file := &ast.File{
		Path: "f.sng",
		Top: &ast.Block{
			Location: loc,
			Elements: []ast.BlockElement{box, access},
		},
	}
	r := NewResolver(types.NewBuiltins(), noLoader{})
	result, err := r.ResolveEntry(file)
	if err != nil {
		t.Fatalf("unexpected resolution error: %v", err)
	}
	if _, ok := result.StaticReceiverType[access]; !ok {
		t.Fatal("expected Box.v to resolve as a static receiver access")
	}
}
