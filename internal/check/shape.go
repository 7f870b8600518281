package check

import (
	"fmt"

	"github.com/snuggle-lang/snuggle/internal/ast"
	"github.com/snuggle-lang/snuggle/internal/config"
	"github.com/snuggle-lang/snuggle/internal/types"
)

func (c *Checker) buildClass(t *ast.ClassDef, ind *types.Indirection, typeArgs []types.TypeDef) *types.Class {
	cl := &types.Class{NameVal: mangledName(t.Name, typeArgs), RuntimeNameVal: mangledName(t.Name, typeArgs)}
	if t.Supertype != nil {
		cl.SupertypeVal = c.resolveRef(c.Resolve.Refs[t.Supertype], typeArgs, nil)
	} else {
		cl.SupertypeVal = c.Builtins.Object
	}
	cl.FieldsVal = c.buildFields(t.Fields, typeArgs)
	cl.MethodsVal = c.buildMethods(ind, cl, append(append([]*ast.MethodDecl{}, t.Methods...), c.implExtras[ind]...), typeArgs)
	return cl
}

func (c *Checker) buildStruct(t *ast.StructDef, ind *types.Indirection, typeArgs []types.TypeDef) *types.Struct {
	st := &types.Struct{NameVal: mangledName(t.Name, typeArgs), RuntimeNameVal: mangledName(t.Name, typeArgs)}
	st.FieldsVal = c.buildFields(t.Fields, typeArgs)
	nonStatic := make([]*types.Field, 0, len(st.FieldsVal))
	for _, f := range st.FieldsVal {
		if !f.IsStatic {
			nonStatic = append(nonStatic, f)
		}
	}
	if len(nonStatic) > 0 {
		st.ReturningFields = nonStatic[1:]
	}
	st.MethodsVal = c.buildMethods(ind, st, append(append([]*ast.MethodDecl{}, t.Methods...), c.implExtras[ind]...), typeArgs)
	return st
}

// buildEnum erases a closed sum to an abstract class plus one generated
// subclass per variant (spec is silent on enum lowering; the original AST
// carries enums, and a sealed-hierarchy erasure is the idiomatic choice on
// a JVM-family target — see DESIGN.md).
func (c *Checker) buildEnum(t *ast.EnumDef, ind *types.Indirection, typeArgs []types.TypeDef) *types.Class {
	base := &types.Class{NameVal: mangledName(t.Name, typeArgs), RuntimeNameVal: mangledName(t.Name, typeArgs), SupertypeVal: c.Builtins.Object}
	base.MethodsVal = c.buildMethods(ind, base, append(append([]*ast.MethodDecl{}, t.Methods...), c.implExtras[ind]...), typeArgs)
	for _, v := range t.Variants {
		variant := &types.Class{
			NameVal:        t.Name + "." + v.Name,
			RuntimeNameVal: base.RuntimeNameVal + "$" + v.Name,
			SupertypeVal:   base,
			FieldsVal:      c.buildFields(v.Fields, typeArgs),
		}
		base.Variants = append(base.Variants, variant)
	}
	return base
}

func (c *Checker) buildFields(decls []*ast.FieldDecl, typeArgs []types.TypeDef) []*types.Field {
	out := make([]*types.Field, len(decls))
	for i, f := range decls {
		out[i] = &types.Field{
			Name:        f.Name,
			RuntimeName: f.Name,
			Type:        c.resolveRef(c.Resolve.Refs[f.Type], typeArgs, nil),
			IsStatic:    f.IsStatic,
		}
	}
	return out
}

// mangledName renders a generic specialization's display/runtime name,
// e.g. "Box<i32>", matching the Option builtin's own naming convention.
func mangledName(base string, typeArgs []types.TypeDef) string {
	if len(typeArgs) == 0 {
		return base
	}
	name := base + "<"
	for i, a := range typeArgs {
		if i > 0 {
			name += ","
		}
		name += types.Underlying(a).Name()
	}
	return name + ">"
}

// buildMethods groups decls by source name for disambiguation (spec §4.2,
// "Method-name disambiguation"), builds one types.Method per decl in
// source order, and assigns `name`, `name$1`, `name$2`, ... runtime names
// within each group. owner is the Class/Struct under construction; methods
// reference it as their Owner for super-call/receiver-type resolution.
func (c *Checker) buildMethods(ind *types.Indirection, owner types.TypeDef, decls []*ast.MethodDecl, typeArgs []types.TypeDef) []*types.Method {
	groups := make(map[string][]*ast.MethodDecl)
	order := make([]string, 0)
	for _, d := range decls {
		if _, ok := groups[d.Name]; !ok {
			order = append(order, d.Name)
		}
		groups[d.Name] = append(groups[d.Name], d)
	}
	out := make([]*types.Method, 0, len(decls))
	for _, name := range order {
		group := groups[name]
		for idx, d := range group {
			runtimeName := disambiguatedName(d.Name, idx)
			out = append(out, c.buildMethod(ind, owner, d, runtimeName, typeArgs))
		}
	}
	return out
}

func disambiguatedName(name string, index int) string {
	if name == config.ConstructorSourceName {
		return config.NewMethodRuntimeName
	}
	if index == 0 {
		return name
	}
	return fmt.Sprintf("%s%s%d", name, config.MethodDisambiguationSeparator, index)
}

// buildMethod eagerly computes the method's signature (spec §4.2, "Lazy
// bodies — critical invariant": signatures are eager, bodies deferred) and
// installs a MethodGenericFactory representing the method's own generics,
// mirroring the type-level factory so non-generic methods still flow
// through Specialize exactly once at an empty argument tuple.
func (c *Checker) buildMethod(ind *types.Indirection, owner types.TypeDef, d *ast.MethodDecl, runtimeName string, typeArgs []types.TypeDef) *types.Method {
	kind := types.MethodSnuggle
	switch d.Kind {
	case ast.MethodKindAbstract:
		kind = types.MethodInterface
	case ast.MethodKindConst:
		kind = types.MethodConst
	case ast.MethodKindStaticConst:
		kind = types.MethodStaticConst
	}

	buildSpecialized := func(methodArgs []types.TypeDef) *types.Method {
		params := make([]types.TypeDef, len(d.Params))
		for i, p := range d.Params {
			params[i] = c.resolvePatternTypeRef(p, typeArgs, methodArgs)
		}
		var ret types.TypeDef
		if d.ReturnType != nil {
			ret = c.resolveRef(c.Resolve.Refs[d.ReturnType], typeArgs, methodArgs)
		} else {
			ret = c.Builtins.Object
		}
		m := &types.Method{
			Kind: kind, Name: d.Name, RuntimeName: runtimeName,
			Params: params, Return: ret, IsStatic: d.IsStatic, Owner: owner,
		}
		if d.Body != nil {
			decl, patternTypes := d, append([]types.TypeDef{}, methodArgs...)
			m.Body = types.NewLazyBody(func() (types.TypedBody, error) {
				return c.checkMethodBody(decl, owner, params, typeArgs, patternTypes)
			})
			c.pendingBodies = append(c.pendingBodies, m)
		}
		return m
	}

	if len(d.Generics.Names) == 0 {
		return types.NewMethodGenericFactory(d.Name, 0, buildSpecialized).Specialize(nil)
	}
	// A generic method's own signature can't be computed until its
	// argument tuple is known (spec §4.2); the entry installed on the
	// owner is a bare descriptor found by name/arity, re-specialized via
	// Generic at each call site (e.g. `C.id::<i32>(7)`).
	return &types.Method{
		Kind: types.MethodGeneric, Name: d.Name, RuntimeName: runtimeName,
		IsStatic: d.IsStatic, Owner: owner,
		Generic: types.NewMethodGenericFactory(d.Name, len(d.Generics.Names), buildSpecialized),
	}
}

func (c *Checker) resolvePatternTypeRef(p *ast.Pattern, typeArgs, methodArgs []types.TypeDef) types.TypeDef {
	switch p.Kind {
	case ast.PatternTyped:
		return c.resolveRef(c.Resolve.Refs[p.Type], typeArgs, methodArgs)
	case ast.PatternSingle:
		if p.Type != nil {
			return c.resolveRef(c.Resolve.Refs[p.Type], typeArgs, methodArgs)
		}
		return c.Builtins.Object
	case ast.PatternTuple:
		elems := make([]types.TypeDef, len(p.Elements))
		for i, e := range p.Elements {
			elems[i] = c.resolvePatternTypeRef(e, typeArgs, methodArgs)
		}
		return c.tupleType(elems)
	default:
		return c.Builtins.Object
	}
}
