package resolve

import (
	"github.com/snuggle-lang/snuggle/internal/ast"
	"github.com/snuggle-lang/snuggle/internal/diagnostics"
	"github.com/snuggle-lang/snuggle/internal/types"
)

// buildTypeDefShape is resolution's contribution to fulfilling a
// type-def's indirection: its name and declared generic arity (spec
// §4.1). internal/check owns building the actual fields/methods/
// specializations from the ast.TypeDef the resolver recorded in
// IndirectionTypeDef.
func (r *Resolver) buildTypeDefShape(td ast.TypeDef, scope *Scope) types.TypeDef {
	return &types.Origin{NameVal: td.DefName(), ParamCount: genericCountOf(td)}
}

func genericCountOf(td ast.TypeDef) int {
	switch t := td.(type) {
	case *ast.ClassDef:
		return len(t.Generics.Names)
	case *ast.StructDef:
		return len(t.Generics.Names)
	case *ast.EnumDef:
		return len(t.Generics.Names)
	default:
		return 0
	}
}

// resolveType implements spec §4.1.5 ("resolveType"): maps a parsed type
// to a TypeRef, recursing for generics/tuples/functions and preserving
// parameter indices for type- and method-generics. The result is cached
// into r.result.Refs, keyed by the parsed node's identity.
func (r *Resolver) resolveType(pt ast.ParsedType, scope *Scope) *TypeRef {
	if ref, ok := r.result.Refs[pt]; ok {
		return ref
	}
	ref := r.resolveTypeUncached(pt, scope)
	r.result.Refs[pt] = ref
	return ref
}

func (r *Resolver) resolveTypeUncached(pt ast.ParsedType, scope *Scope) *TypeRef {
	switch t := pt.(type) {
	case *ast.NamedType:
		bound, ok := scope.LookupType(t.Name)
		if !ok {
			r.Errors.Add(diagnostics.NewResolutionError(diagnostics.ErrRUnknownType, t.Loc(),
				"unknown type: "+t.Name))
			return &TypeRef{Kind: RefBuiltin} // degrade gracefully; diagnostic already recorded
		}
		args := make([]*TypeRef, len(t.Args))
		for i, a := range t.Args {
			args[i] = r.resolveType(a, scope)
		}
		switch v := bound.(type) {
		case *types.Indirection:
			return &TypeRef{Kind: RefIndirection, Indirection: v, Args: args}
		case *types.GenericTypeFactory:
			return &TypeRef{Kind: RefBuiltinGeneric, BuiltinFactory: v, Args: args}
		case types.TypeDef:
			return &TypeRef{Kind: RefBuiltin, Builtin: v, Args: args}
		default:
			r.Errors.Add(diagnostics.NewInternalError(t.Loc(), "unexpected scope binding for "+t.Name))
			return &TypeRef{Kind: RefBuiltin}
		}
	case *ast.TupleType:
		elems := make([]*TypeRef, len(t.Elements))
		for i, e := range t.Elements {
			elems[i] = r.resolveType(e, scope)
		}
		return &TypeRef{Kind: RefTuple, Elements: elems}
	case *ast.FuncType:
		params := make([]*TypeRef, len(t.Params))
		for i, p := range t.Params {
			params[i] = r.resolveType(p, scope)
		}
		return &TypeRef{Kind: RefFunc, Params: params, Return: r.resolveType(t.Return, scope)}
	case *ast.TypeGenericParamType:
		return &TypeRef{Kind: RefTypeGenericParam, ParamIndex: t.Index, ParamName: t.Name}
	case *ast.MethodGenericParamType:
		return &TypeRef{Kind: RefMethodGenericParam, ParamIndex: t.Index, ParamName: t.Name}
	default:
		return &TypeRef{Kind: RefBuiltin}
	}
}
