package types

// Origin is what the name resolver fulfills a user-defined type-def's
// indirection with (spec §4.1: "resolve its body and fulfill the
// corresponding indirection exactly once"). It carries only the
// structural facts resolution is responsible for — name and declared
// generic arity — not a fully-typed shape: building fields, methods, and
// generic specializations from the original AST is the type checker's
// job (spec §4.2), kept in a cache keyed by the indirection this Origin
// fulfills so the two
// passes never contend over the same mutable cell.
type Origin struct {
	NameVal    string
	ParamCount int
}

func (o *Origin) Category() Category    { return CategoryIndirection }
func (o *Origin) Name() string          { return o.NameVal }
func (o *Origin) RuntimeName() string   { return o.NameVal }
func (o *Origin) Descriptor() []string  { return nil }
func (o *Origin) StackSlots() int       { return 0 }
func (o *Origin) IsPlural() bool        { return false }
func (o *Origin) IsReferenceType() bool { return false }
func (o *Origin) Fields() []*Field      { return nil }
func (o *Origin) Methods() []*Method    { return nil }
func (o *Origin) Supertype() TypeDef    { return nil }

func (o *Origin) IsGeneric() bool { return o.ParamCount > 0 }
