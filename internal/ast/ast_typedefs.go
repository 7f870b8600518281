package ast

import "github.com/snuggle-lang/snuggle/internal/source"

// FieldDecl is a field declaration inside a class or struct body.
type FieldDecl struct {
	Location source.Location
	Name     string
	Type     ParsedType
	IsStatic bool
	Pub      bool
}

func (f *FieldDecl) Loc() source.Location { return f.Location }

// ParamKind distinguishes the three pattern shapes a method parameter can
// bind: a single name, a tuple destructure, or a typed wrapper around
// either (spec §4.2 "Pattern inference").
type ParamKind int

const (
	PatternSingle ParamKind = iota
	PatternTuple
	PatternTyped
)

// Pattern is a parameter binding pattern.
type Pattern struct {
	Location source.Location
	Kind     ParamKind
	Name     string     // PatternSingle
	Elements []*Pattern // PatternTuple
	Inner    *Pattern   // PatternTyped
	Type     ParsedType // PatternTyped (the declared type) or PatternSingle (optional annotation)
}

func (p *Pattern) Loc() source.Location { return p.Location }

// MethodDefKind distinguishes the parsed-level method shapes. Bytecode,
// const, and static-const methods are never produced by a real parser —
// they're synthesized by the builtin table and the reflected-type bridge —
// but are represented here so both paths feed the same typer entry point.
type MethodDefKind int

const (
	MethodKindSnuggle MethodDefKind = iota
	MethodKindAbstract                // interface method: signature only, no body
	MethodKindConst
	MethodKindStaticConst
)

// MethodDecl is a parsed method (or constructor) declaration.
type MethodDecl struct {
	Location   source.Location
	Name       string
	Kind       MethodDefKind
	Generics   Generics
	Params     []*Pattern
	ReturnType ParsedType // nil if inferred from body
	Body       Expr       // nil for MethodKindAbstract
	IsStatic   bool
	Pub        bool
}

func (m *MethodDecl) Loc() source.Location { return m.Location }

// ClassDef is a nominal reference type definition.
type ClassDef struct {
	Location   source.Location
	Name       string
	Pub        bool
	Generics   Generics
	Supertype  ParsedType // nil if implicitly `object`
	Fields     []*FieldDecl
	Methods    []*MethodDecl
}

func (c *ClassDef) Loc() source.Location { return c.Location }
func (c *ClassDef) typeDefNode()         {}
func (c *ClassDef) DefName() string      { return c.Name }
func (c *ClassDef) IsPub() bool          { return c.Pub }

// StructDef is a plural value-type definition: its instances are never
// placed on the operand stack as a single word (spec §3, "Plural type").
type StructDef struct {
	Location source.Location
	Name     string
	Pub      bool
	Generics Generics
	Fields   []*FieldDecl
	Methods  []*MethodDecl
}

func (s *StructDef) Loc() source.Location { return s.Location }
func (s *StructDef) typeDefNode()         {}
func (s *StructDef) DefName() string      { return s.Name }
func (s *StructDef) IsPub() bool          { return s.Pub }

// ImplBlockDef attaches methods to a previously declared type without
// redeclaring its fields, e.g. `impl Show for Point { ... }`.
type ImplBlockDef struct {
	Location source.Location
	Target   ParsedType
	Methods  []*MethodDecl
}

func (i *ImplBlockDef) Loc() source.Location { return i.Location }
func (i *ImplBlockDef) typeDefNode()         {}
func (i *ImplBlockDef) DefName() string      { return "" } // anonymous; attaches to Target
func (i *ImplBlockDef) IsPub() bool          { return false }

// EnumVariant is one case of an EnumDef, optionally carrying fields (making
// it behave like a nested struct).
type EnumVariant struct {
	Location source.Location
	Name     string
	Fields   []*FieldDecl
}

func (v *EnumVariant) Loc() source.Location { return v.Location }

// EnumDef is a closed sum of variants.
type EnumDef struct {
	Location source.Location
	Name     string
	Pub      bool
	Generics Generics
	Variants []*EnumVariant
	Methods  []*MethodDecl
}

func (e *EnumDef) Loc() source.Location { return e.Location }
func (e *EnumDef) typeDefNode()         {}
func (e *EnumDef) DefName() string      { return e.Name }
func (e *EnumDef) IsPub() bool          { return e.Pub }

// AliasDef binds a name to another type, e.g. `type Name = String`.
type AliasDef struct {
	Location source.Location
	Name     string
	Pub      bool
	Aliased  ParsedType
}

func (a *AliasDef) Loc() source.Location { return a.Location }
func (a *AliasDef) typeDefNode()         {}
func (a *AliasDef) DefName() string      { return a.Name }
func (a *AliasDef) IsPub() bool          { return a.Pub }
