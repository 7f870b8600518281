package types

import "strings"

// ArgsKey builds the cache key for a tuple of type arguments from their
// runtime names. Two argument tuples that are pairwise the same TypeDef
// produce an identical key, which is what gives specialization its
// canonicity guarantee (spec §8): equal argument tuples must return the
// same specialized TypeDef instance.
func ArgsKey(args []TypeDef) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = Underlying(a).RuntimeName()
	}
	return strings.Join(parts, ",")
}

// GenericTypeFactory produces specializations of a generic type-def,
// memoized by argument-tuple equality (spec §4.2, "Specialization").
type GenericTypeFactory struct {
	Name       string
	ParamCount int
	build      func(args []TypeDef) TypeDef
	cache      map[string]TypeDef
}

func NewGenericTypeFactory(name string, paramCount int, build func(args []TypeDef) TypeDef) *GenericTypeFactory {
	return &GenericTypeFactory{Name: name, ParamCount: paramCount, build: build, cache: make(map[string]TypeDef)}
}

// Specialize returns the cached specialization for args, building and
// caching it on first use. Re-specializing at an equal argument tuple
// returns the identical *pointer* produced the first time. A call that
// re-enters Specialize for the same tuple while that build is still running
// (a type-def whose fields refer back to it) receives a forwarding
// Indirection instead, fulfilled with the built TypeDef once build returns.
func (f *GenericTypeFactory) Specialize(args []TypeDef) TypeDef {
	key := ArgsKey(args)
	if td, ok := f.cache[key]; ok {
		return td
	}
	placeholder, _ := (&Arena{}).NewIndirection(f.Name)
	f.cache[key] = placeholder
	td := f.build(args)
	_ = placeholder.Fulfill(td)
	f.cache[key] = td
	return td
}

func (f *GenericTypeFactory) CacheSize() int { return len(f.cache) }

// MethodGenericFactory is the generic-method analogue of
// GenericTypeFactory. A non-generic method is modeled as one whose
// ParamCount is 0 and whose Specialize is called exactly once with an
// empty argument slice, keeping the specialization code path uniform
// between generic and non-generic methods (spec §4.2).
type MethodGenericFactory struct {
	Name       string
	ParamCount int
	build      func(args []TypeDef) *Method
	cache      map[string]*Method
}

func NewMethodGenericFactory(name string, paramCount int, build func(args []TypeDef) *Method) *MethodGenericFactory {
	return &MethodGenericFactory{Name: name, ParamCount: paramCount, build: build, cache: make(map[string]*Method)}
}

func (f *MethodGenericFactory) Specialize(args []TypeDef) *Method {
	key := ArgsKey(args)
	if m, ok := f.cache[key]; ok {
		return m
	}
	m := f.build(args)
	f.cache[key] = m
	return m
}

// GenericInstance is a specialization of a generic type-def at a concrete
// tuple of type arguments. It delegates every TypeDef accessor to the
// substituted underlying type-def its factory built, so call sites never
// need to distinguish "was this generic" from "was this always concrete."
type GenericInstance struct {
	Origin   *GenericTypeFactory
	Args     []TypeDef
	Resolved TypeDef // the substituted Class/Struct/Func built by Origin.build
}

func (g *GenericInstance) Category() Category     { return CategoryGenericInstance }
func (g *GenericInstance) Name() string           { return g.Resolved.Name() }
func (g *GenericInstance) RuntimeName() string    { return g.Resolved.RuntimeName() }
func (g *GenericInstance) Descriptor() []string   { return g.Resolved.Descriptor() }
func (g *GenericInstance) StackSlots() int        { return g.Resolved.StackSlots() }
func (g *GenericInstance) IsPlural() bool         { return g.Resolved.IsPlural() }
func (g *GenericInstance) IsReferenceType() bool  { return g.Resolved.IsReferenceType() }
func (g *GenericInstance) Fields() []*Field       { return g.Resolved.Fields() }
func (g *GenericInstance) Methods() []*Method     { return g.Resolved.Methods() }
func (g *GenericInstance) Supertype() TypeDef     { return g.Resolved.Supertype() }
