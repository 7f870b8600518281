// Package check implements the type checker (spec §4.2): it consumes the
// resolved AST and built-in type set and produces a typed AST plus the
// typing cache that gives generic specialization its canonicity guarantee.
package check

import (
	"fmt"

	"github.com/snuggle-lang/snuggle/internal/ast"
	"github.com/snuggle-lang/snuggle/internal/config"
	"github.com/snuggle-lang/snuggle/internal/diagnostics"
	"github.com/snuggle-lang/snuggle/internal/resolve"
	"github.com/snuggle-lang/snuggle/internal/types"
)

// Checker runs the typing pass over a single resolver Result. It owns the
// typing cache (all specializations) named in spec §5's "three in-pass
// caches" — here split into a per-indirection generic-type-factory map and
// a tuple/func structural-type cache keyed by types.ArgsKey, both monotonic and
// dropped with the Checker at pass exit.
type Checker struct {
	Resolve  *resolve.Result
	Builtins *types.Builtins
	Errors   *diagnostics.List

	typeFactories map[*types.Indirection]*types.GenericTypeFactory
	implExtras    map[*types.Indirection][]*ast.MethodDecl // spec §4.2 impl-block method merge
	tupleCache    map[string]*types.Struct
	funcCache     map[string]*types.Func

	// disambigCache is allocated with the Checker but nothing reads or fills
	// it; buildMethods computes each method-disambiguation group directly.
	disambigCache map[*types.Indirection]map[string][]*ast.MethodDecl

	// pendingBodies collects every LazyBody-bearing method built while
	// checking this file, in build order. buildMethod appends to it; CheckFile
	// forces each one before returning so a type error inside a method body
	// is recorded on c.Errors while the checker is still alive to receive it
	// — the lowerer forces the same LazyBody again later purely to read its
	// cached, already-resolved result (spec §7, errors are surfaced at the
	// pass that found them, not at whichever pass happens to read the cache).
	pendingBodies []*types.Method
}

// NewChecker builds a Checker over a completed resolve.Result. Resolution
// must already have every indirection fulfilled (spec §8, "Resolution
// totality") before typing begins (spec §3, "Indirections are fulfilled
// before any typing pass reads them").
func NewChecker(r *resolve.Result, builtins *types.Builtins) *Checker {
	installBuiltinMethods(builtins)
	return &Checker{
		Resolve:       r,
		Builtins:      builtins,
		Errors:        &diagnostics.List{},
		typeFactories: make(map[*types.Indirection]*types.GenericTypeFactory),
		implExtras:    make(map[*types.Indirection][]*ast.MethodDecl),
		tupleCache:    make(map[string]*types.Struct),
		funcCache:     make(map[string]*types.Func),
		disambigCache: make(map[*types.Indirection]map[string][]*ast.MethodDecl),
	}
}

// CheckFile type-checks a file's top-level block: every type-def's shape is
// specialized at zero args (eagerly forcing the non-generic path) and every
// top-level expression is checked in turn.
func (c *Checker) CheckFile(file *ast.File) (*TypedBlock, error) {
	c.collectImplExtras(file.Top)
	for _, el := range file.Top.Elements {
		td, ok := el.(ast.TypeDef)
		if !ok {
			continue
		}
		ind := c.Resolve.TypeDefIndirection[td]
		if ind == nil {
			continue
		}
		if origin, _ := ind.Get().(*types.Origin); origin != nil && origin.ParamCount == 0 {
			c.specializeIndirection(ind, nil)
		}
	}
	blk := c.checkBlock(file.Top, nil)
	c.forcePendingBodies()
	return blk, c.Errors.AsError()
}

// forcePendingBodies drives every method body built during this pass to
// completion. A generic method specialized mid-pass (its buildSpecialized
// closure running, and appending to pendingBodies, from inside a call site's
// own type-check) is already in the slice by the time checkBlock returns, so
// one pass over it reaches everything this file's checking touched.
func (c *Checker) forcePendingBodies() {
	for _, m := range c.pendingBodies {
		m.Body.Force()
	}
}

// collectImplExtras walks a block once, before any shape is built, merging
// `impl Target { ... }` methods into Target's owning indirection so the
// shape-builder sees one unified method list (spec §4.1, an impl block
// "attaches methods to a previously declared type without redeclaring its
// fields" rather than being a type-def in its own right).
func (c *Checker) collectImplExtras(block *ast.Block) {
	for _, el := range block.Elements {
		impl, ok := el.(*ast.ImplBlockDef)
		if !ok {
			continue
		}
		ref := c.Resolve.Refs[impl.Target]
		if ref == nil || ref.Kind != resolve.RefIndirection {
			continue
		}
		c.implExtras[ref.Indirection] = append(c.implExtras[ref.Indirection], impl.Methods...)
	}
}

// specializeIndirection is the entry point used from a resolved TypeRef:
// build or fetch the memoized GenericTypeFactory for the type-def behind
// ind, then specialize it at args (spec §4.2, "Specialization" — the same
// policy for generic and non-generic type-defs, the latter specialized
// exactly once at an empty argument tuple).
func (c *Checker) specializeIndirection(ind *types.Indirection, args []types.TypeDef) types.TypeDef {
	f := c.factoryFor(ind)
	return f.Specialize(args)
}

func (c *Checker) factoryFor(ind *types.Indirection) *types.GenericTypeFactory {
	if f, ok := c.typeFactories[ind]; ok {
		return f
	}
	td := c.Resolve.IndirectionTypeDef[ind]
	origin, _ := ind.Get().(*types.Origin)
	paramCount := 0
	if origin != nil {
		paramCount = origin.ParamCount
	}
	var f *types.GenericTypeFactory
	f = types.NewGenericTypeFactory(td.DefName(), paramCount, func(args []types.TypeDef) types.TypeDef {
		resolved := c.buildShape(td, ind, args)
		if paramCount == 0 {
			return resolved
		}
		// A true generic specialization is wrapped so Category() reports
		// CategoryGenericInstance (spec §3's TypeDef sum); a non-generic
		// type-def's single zero-arg build is returned bare, matching the
		// "specialized exactly once at an empty argument tuple" policy
		// without claiming every type-def is a generic instance of itself.
		return &types.GenericInstance{Origin: f, Args: args, Resolved: resolved}
	})
	c.typeFactories[ind] = f
	return f
}

// buildShape builds one concrete specialization of td's shape at typeArgs.
// Called from inside GenericTypeFactory.Specialize, so it runs at most once
// per distinct argument tuple — a second concurrent call for the same key
// during this very build (e.g. a self-referential field type) instead
// re-enters Specialize and receives the placeholder entry Specialize cached
// before calling build, never this function body again (spec §5, "Reentrancy").
func (c *Checker) buildShape(td ast.TypeDef, ind *types.Indirection, typeArgs []types.TypeDef) types.TypeDef {
	switch t := td.(type) {
	case *ast.ClassDef:
		return c.buildClass(t, ind, typeArgs)
	case *ast.StructDef:
		return c.buildStruct(t, ind, typeArgs)
	case *ast.EnumDef:
		return c.buildEnum(t, ind, typeArgs)
	case *ast.ImplBlockDef:
		// Never specialized directly: its methods were merged into the
		// target's extras by collectImplExtras. Its own indirection (Phase
		// A creates one for every ast.TypeDef) is fulfilled with an inert
		// placeholder that nothing references by name.
		return &types.Basic{NameVal: "<impl>"}
	case *ast.AliasDef:
		ref := c.Resolve.Refs[t.Aliased]
		return c.resolveRef(ref, typeArgs, nil)
	default:
		c.Errors.Add(diagnostics.NewInternalError(td.Loc(), fmt.Sprintf("unhandled type-def kind %T", td)))
		return c.Builtins.Object
	}
}

// resolveRef substitutes a resolved TypeRef into a concrete TypeDef, given
// the enclosing type's generic-argument tuple and (if inside a method
// signature/body) the enclosing method's generic-argument tuple.
func (c *Checker) resolveRef(ref *resolve.TypeRef, typeArgs, methodArgs []types.TypeDef) types.TypeDef {
	if ref == nil {
		return c.Builtins.Object
	}
	switch ref.Kind {
	case resolve.RefBuiltin:
		return ref.Builtin
	case resolve.RefIndirection:
		args := c.resolveRefs(ref.Args, typeArgs, methodArgs)
		return c.specializeIndirection(ref.Indirection, args)
	case resolve.RefBuiltinGeneric:
		args := c.resolveRefs(ref.Args, typeArgs, methodArgs)
		return ref.BuiltinFactory.Specialize(args)
	case resolve.RefTuple:
		elems := c.resolveRefs(ref.Elements, typeArgs, methodArgs)
		return c.tupleType(elems)
	case resolve.RefFunc:
		params := c.resolveRefs(ref.Params, typeArgs, methodArgs)
		ret := c.resolveRef(ref.Return, typeArgs, methodArgs)
		return c.funcType(params, ret)
	case resolve.RefTypeGenericParam:
		if ref.ParamIndex < len(typeArgs) {
			return typeArgs[ref.ParamIndex]
		}
		return c.Builtins.Object
	case resolve.RefMethodGenericParam:
		if ref.ParamIndex < len(methodArgs) {
			return methodArgs[ref.ParamIndex]
		}
		return c.Builtins.Object
	default:
		return c.Builtins.Object
	}
}

func (c *Checker) resolveRefs(refs []*resolve.TypeRef, typeArgs, methodArgs []types.TypeDef) []types.TypeDef {
	out := make([]types.TypeDef, len(refs))
	for i, r := range refs {
		out[i] = c.resolveRef(r, typeArgs, methodArgs)
	}
	return out
}

// tupleType models a tuple type as an anonymous plural Struct (spec's
// TypeDef sum has no dedicated tuple category; a tuple is, structurally, a
// concatenation of its elements' slots, exactly the "struct/plural"
// variant's definition), memoized by the elements' runtime names
// (types.ArgsKey) so two occurrences
// of the same tuple shape share one TypeDef.
func (c *Checker) tupleType(elems []types.TypeDef) *types.Struct {
	key := types.ArgsKey(elems)
	if s, ok := c.tupleCache[key]; ok {
		return s
	}
	fields := make([]*types.Field, len(elems))
	for i, e := range elems {
		fields[i] = &types.Field{Name: fmt.Sprintf("_%d", i), RuntimeName: fmt.Sprintf("_%d", i), Type: e}
	}
	s := &types.Struct{NameVal: "tuple", RuntimeNameVal: "Tuple$" + key, FieldsVal: fields}
	if len(fields) > 0 {
		s.ReturningFields = fields[1:]
	}
	c.tupleCache[key] = s
	return s
}

func (c *Checker) funcType(params []types.TypeDef, ret types.TypeDef) *types.Func {
	key := types.ArgsKey(params) + "->" + types.Underlying(ret).RuntimeName()
	if f, ok := c.funcCache[key]; ok {
		return f
	}
	f := &types.Func{
		NameVal:        "func",
		RuntimeNameVal: "Func$" + key,
		Params:         params,
		Return:         ret,
		MethodsVal: []*types.Method{{
			Kind: types.MethodInterface,
			Name: config.FuncInvokeName, RuntimeName: config.FuncInvokeName,
			Params: params, Return: ret,
		}},
	}
	c.funcCache[key] = f
	return f
}
