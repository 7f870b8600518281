package types

import "fmt"

// Arena owns every indirection created during name resolution for one
// compile. A type-def reference that must exist before its target is
// resolved is an Indirection handle onto one of this arena's cells; each
// cell also has a stable Index for diagnostics (spec §9 design notes).
type Arena struct {
	cells []*cell
}

type cell struct {
	name      string
	resolved  TypeDef
	fulfilled bool
}

// Index is a stable reference into an Arena.
type Index int

// NewIndirection allocates an unfulfilled cell and returns both its
// Indirection handle (a TypeDef usable immediately in the resolved AST) and
// its stable Index (for diagnostics and arena introspection).
func (a *Arena) NewIndirection(name string) (*Indirection, Index) {
	c := &cell{name: name}
	a.cells = append(a.cells, c)
	return &Indirection{cell: c}, Index(len(a.cells) - 1)
}

// AllFulfilled reports whether every indirection in the arena has been
// resolved exactly once — the resolution-totality property (spec §8).
func (a *Arena) AllFulfilled() bool {
	for _, c := range a.cells {
		if !c.fulfilled {
			return false
		}
	}
	return true
}

// Unfulfilled returns the names of every cell still pending, for diagnostics.
func (a *Arena) Unfulfilled() []string {
	var names []string
	for _, c := range a.cells {
		if !c.fulfilled {
			names = append(names, c.name)
		}
	}
	return names
}

// Indirection is a stable, write-once handle pointing at a resolved
// type-def (spec §3, "Resolved AST"). It implements TypeDef itself, so
// resolved-AST nodes can hold an *Indirection directly and every accessor
// transparently forwards to the fulfilled target.
type Indirection struct {
	cell *cell
}

// Fulfill resolves the indirection exactly once. A second call is a
// compiler bug (spec §4.1 errors: "duplicate fulfillment of an
// indirection").
func (i *Indirection) Fulfill(td TypeDef) error {
	if i.cell.fulfilled {
		return fmt.Errorf("indirection %q fulfilled twice (compiler bug)", i.cell.name)
	}
	i.cell.resolved = td
	i.cell.fulfilled = true
	return nil
}

func (i *Indirection) IsFulfilled() bool { return i.cell.fulfilled }

// Get returns the fulfilled target. Callers must not invoke it before the
// resolution pass completes; doing so is a compiler bug.
func (i *Indirection) Get() TypeDef {
	if !i.cell.fulfilled {
		panic(fmt.Sprintf("indirection %q read before fulfillment (please report)", i.cell.name))
	}
	return i.cell.resolved
}

// Underlying recursively unwraps chained indirections and generic-instance
// wrappers to the first concrete TypeDef. Typing and lowering always operate
// on the underlying type; only the resolver deals in raw indirections, and
// only specialization bookkeeping (spec §8's canonicity guarantee) deals in
// raw GenericInstance wrappers.
func Underlying(t TypeDef) TypeDef {
	for {
		switch v := t.(type) {
		case *Indirection:
			t = v.Get()
		case *GenericInstance:
			t = v.Resolved
		default:
			return t
		}
	}
}

func (i *Indirection) Category() Category    { return Underlying(i).Category() }
func (i *Indirection) Name() string          { return Underlying(i).Name() }
func (i *Indirection) RuntimeName() string   { return Underlying(i).RuntimeName() }
func (i *Indirection) Descriptor() []string  { return Underlying(i).Descriptor() }
func (i *Indirection) StackSlots() int       { return Underlying(i).StackSlots() }
func (i *Indirection) IsPlural() bool        { return Underlying(i).IsPlural() }
func (i *Indirection) IsReferenceType() bool { return Underlying(i).IsReferenceType() }
func (i *Indirection) Fields() []*Field      { return Underlying(i).Fields() }
func (i *Indirection) Methods() []*Method    { return Underlying(i).Methods() }
func (i *Indirection) Supertype() TypeDef    { return Underlying(i).Supertype() }
