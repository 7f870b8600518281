package ast

import "github.com/snuggle-lang/snuggle/internal/source"

// ParsedType is a type as written in source, before resolution. resolveType
// (internal/resolve) walks these recursively for generics, tuples, and
// function types, preserving parameter indices for type- and
// method-generics (spec §4.1).
type ParsedType interface {
	Node
	parsedTypeNode()
}

// NamedType is a simple or generic-instantiated type reference, e.g. `i32`,
// `List<T>`, `Option<String>`.
type NamedType struct {
	Location source.Location
	Name     string
	Args     []ParsedType
}

func (t *NamedType) Loc() source.Location { return t.Location }
func (t *NamedType) parsedTypeNode()      {}

// TupleType is a tuple-of-types, e.g. `(i32, String)`.
type TupleType struct {
	Location source.Location
	Elements []ParsedType
}

func (t *TupleType) Loc() source.Location { return t.Location }
func (t *TupleType) parsedTypeNode()      {}

// FuncType is a function/closure type, e.g. `(i32, i32) -> bool`.
type FuncType struct {
	Location source.Location
	Params   []ParsedType
	Return   ParsedType
}

func (t *FuncType) Loc() source.Location { return t.Location }
func (t *FuncType) parsedTypeNode()       {}

// TypeGenericParamType references the enclosing type-def's Nth generic
// parameter by name, e.g. `T` inside `class Box<T> { x: T }`.
type TypeGenericParamType struct {
	Location source.Location
	Name     string
	Index    int
}

func (t *TypeGenericParamType) Loc() source.Location { return t.Location }
func (t *TypeGenericParamType) parsedTypeNode()      {}

// MethodGenericParamType references the enclosing method's Nth own generic
// parameter by name, e.g. `T` inside `fn id<T>(x: T): T`.
type MethodGenericParamType struct {
	Location source.Location
	Name     string
	Index    int
}

func (t *MethodGenericParamType) Loc() source.Location { return t.Location }
func (t *MethodGenericParamType) parsedTypeNode()      {}
