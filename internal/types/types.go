// Package types is the typed data model: the TypeDef sum described in
// spec §3, plus the arena of indirections (§9 design notes) that lets
// mutually-referencing type-defs resolve without cyclic Go ownership.
package types

// Category discriminates the TypeDef sum. TypeDef is modeled as an
// interface with one struct per variant rather than a single tagged
// struct, per spec §9 ("prefer the language's native algebraic variant
// over virtual dispatch") — a type switch over Category recovers the
// concrete variant where needed (lowering, descriptor emission).
type Category int

const (
	CategoryBasicBuiltin Category = iota
	CategoryReflectedBuiltin
	CategoryClass
	CategoryStruct
	CategoryFunc
	CategoryGenericInstance
	CategoryIndirection
)

// TypeDef is the common surface every type-def variant exposes (spec §3).
type TypeDef interface {
	Category() Category
	Name() string
	RuntimeName() string
	Descriptor() []string
	StackSlots() int
	IsPlural() bool
	IsReferenceType() bool
	Fields() []*Field
	Methods() []*Method
	Supertype() TypeDef // nil if none (object has no supertype)
}

// Field is a field slot on a class or struct.
type Field struct {
	Name         string
	RuntimeName  string
	Type         TypeDef
	IsStatic     bool
	RuntimeStatic bool // distinct from IsStatic: a plural field lowered to a static return channel is runtime-static even though the source field is an instance field
}

// Basic is a non-reflected builtin: bool, the integer/float widths,
// object, string, the compile-time int-literal type, etc. (option is not a
// Basic: its GenericTypeFactory builds a Struct per specialization).
type Basic struct {
	NameVal        string
	RuntimeNameVal string
	DescriptorVal  []string
	SlotsVal       int
	ReferenceType  bool
	FieldsVal      []*Field
	MethodsVal     []*Method
	SupertypeVal   TypeDef
}

func (b *Basic) Category() Category     { return CategoryBasicBuiltin }
func (b *Basic) Name() string           { return b.NameVal }
func (b *Basic) RuntimeName() string    { return b.RuntimeNameVal }
func (b *Basic) Descriptor() []string   { return b.DescriptorVal }
func (b *Basic) StackSlots() int        { return b.SlotsVal }
func (b *Basic) IsPlural() bool         { return false }
func (b *Basic) IsReferenceType() bool  { return b.ReferenceType }
func (b *Basic) Fields() []*Field       { return b.FieldsVal }
func (b *Basic) Methods() []*Method     { return b.MethodsVal }
func (b *Basic) Supertype() TypeDef     { return b.SupertypeVal }

// Class is a nominal reference type.
//
// Variants is non-nil only for a type-def erased from a source `enum`: the
// spec's TypeDef sum has no separate enum category, so an enum is modeled
// as an abstract class (this Class) plus one generated subclass per
// variant, the classic sealed-hierarchy erasure for a closed sum on a
// JVM-family target.
type Class struct {
	NameVal        string
	RuntimeNameVal string
	SupertypeVal   TypeDef
	FieldsVal      []*Field
	MethodsVal     []*Method
	Variants       []*Class
}

func (c *Class) Category() Category    { return CategoryClass }
func (c *Class) Name() string          { return c.NameVal }
func (c *Class) RuntimeName() string   { return c.RuntimeNameVal }
func (c *Class) Descriptor() []string  { return []string{"L" + c.RuntimeNameVal + ";"} }
func (c *Class) StackSlots() int       { return 1 }
func (c *Class) IsPlural() bool        { return false }
func (c *Class) IsReferenceType() bool { return true }
func (c *Class) Fields() []*Field      { return c.FieldsVal }
func (c *Class) Methods() []*Method    { return c.MethodsVal }
func (c *Class) Supertype() TypeDef    { return c.SupertypeVal }

// Struct is a plural value type: laid out as the concatenation of its
// fields' own stack slots, never placed on the operand stack whole.
type Struct struct {
	NameVal        string
	RuntimeNameVal string
	FieldsVal      []*Field
	MethodsVal     []*Method
	// ReturningFields enumerates, in order, the leaf fields that a plural
	// return of this type carries through static return channels (every
	// leaf after the first — see internal/lower).
	ReturningFields []*Field
}

func (s *Struct) Category() Category    { return CategoryStruct }
func (s *Struct) Name() string          { return s.NameVal }
func (s *Struct) RuntimeName() string   { return s.RuntimeNameVal }
func (s *Struct) IsPlural() bool        { return true }
func (s *Struct) IsReferenceType() bool { return false }
func (s *Struct) Fields() []*Field      { return s.FieldsVal }
func (s *Struct) Methods() []*Method    { return s.MethodsVal }
func (s *Struct) Supertype() TypeDef    { return nil }

func (s *Struct) Descriptor() []string {
	out := make([]string, 0, len(s.FieldsVal))
	for _, f := range s.FieldsVal {
		if f.IsStatic {
			continue
		}
		out = append(out, f.Type.Descriptor()...)
	}
	return out
}

// StackSlots of a plural type is the sum of its recursive non-static
// fields' stack slots (spec §3 invariant).
func (s *Struct) StackSlots() int {
	total := 0
	for _, f := range s.FieldsVal {
		if f.IsStatic {
			continue
		}
		total += f.Type.StackSlots()
	}
	return total
}

// Func is a closure type, erased at lowering to an interface with one
// generated implementation per lambda literal.
type Func struct {
	NameVal        string
	RuntimeNameVal string
	Params         []TypeDef
	Return         TypeDef
	MethodsVal     []*Method // the single abstract "invoke" slot
}

func (f *Func) Category() Category    { return CategoryFunc }
func (f *Func) Name() string          { return f.NameVal }
func (f *Func) RuntimeName() string   { return f.RuntimeNameVal }
func (f *Func) Descriptor() []string  { return []string{"L" + f.RuntimeNameVal + ";"} }
func (f *Func) StackSlots() int       { return 1 }
func (f *Func) IsPlural() bool        { return false }
func (f *Func) IsReferenceType() bool { return true }
func (f *Func) Fields() []*Field      { return nil }
func (f *Func) Methods() []*Method    { return f.MethodsVal }
func (f *Func) Supertype() TypeDef    { return nil }
