package check

import (
	"github.com/snuggle-lang/snuggle/internal/ast"
	"github.com/snuggle-lang/snuggle/internal/config"
	"github.com/snuggle-lang/snuggle/internal/diagnostics"
	"github.com/snuggle-lang/snuggle/internal/types"
)

// checkMethodBody is the deferred computation a method's LazyBody runs
// (spec §4.2). Its closure, built in buildMethod, captures only d
// (immutable AST), owner/params (this specialization's already-computed
// signature) and typeArgs/methodArgs — never the Checker's mutable
// caches by anything but the receiver, matching the "no other mutable
// state" restriction.
func (c *Checker) checkMethodBody(d *ast.MethodDecl, owner types.TypeDef, params []types.TypeDef, typeArgs, methodArgs []types.TypeDef) (types.TypedBody, error) {
	var e *env
	slot := 0
	if !d.IsStatic {
		e = e.bind(config.SelfParamName, owner, 0)
		slot = owner.StackSlots()
	}
	typedParams := make([]*TypedPattern, len(d.Params))
	for i, p := range d.Params {
		tp, nextEnv, nextSlot := c.bindPattern(p, params[i], e, slot)
		typedParams[i] = tp
		e, slot = nextEnv, nextSlot
	}
	body := c.checkExpr(d.Body, e, typeArgs, methodArgs)
	return &MethodBody{Params: typedParams, Body: body}, nil
}

func (c *Checker) checkBlock(b *ast.Block, e *env) *TypedBlock {
	return c.checkBlockWithArgs(b, e, nil, nil)
}

func (c *Checker) checkBlockWithArgs(b *ast.Block, e *env, typeArgs, methodArgs []types.TypeDef) *TypedBlock {
	out := &TypedBlock{Location: b.Location, TypeVal: c.Builtins.Object}
	cur := e
	for _, el := range b.Elements {
		switch node := el.(type) {
		case ast.Expr:
			te := c.checkExprEnv(node, &cur, typeArgs, methodArgs)
			out.Elements = append(out.Elements, te)
			out.TypeVal = te.Type()
		case ast.TypeDef:
			// Type-defs interleaved in a block were already handled by
			// resolution/specialization; nothing further to type here.
		}
	}
	return out
}

// checkExprEnv checks an expression that may extend env for subsequent
// siblings (only *ast.Declaration does), threading the update back through
// envOut.
func (c *Checker) checkExprEnv(node ast.Expr, envOut **env, typeArgs, methodArgs []types.TypeDef) TypedExpr {
	if decl, ok := node.(*ast.Declaration); ok {
		te := c.checkDeclaration(decl, *envOut, typeArgs, methodArgs)
		*envOut = te.envAfter
		return te.TypedDeclaration
	}
	return c.checkExpr(node, *envOut, typeArgs, methodArgs)
}

type declResult struct {
	*TypedDeclaration
	envAfter *env
}

func (c *Checker) checkDeclaration(d *ast.Declaration, e *env, typeArgs, methodArgs []types.TypeDef) *declResult {
	value := c.checkExpr(d.Value, e, typeArgs, methodArgs)
	declared := value.Type()
	if d.Annotation != nil {
		declared = c.resolveRef(c.Resolve.Refs[d.Annotation], typeArgs, methodArgs)
	}
	if isFallible(d.Pattern) {
		c.Errors.Add(diagnostics.NewTypingError(diagnostics.ErrTFalliblePattern, d.Location,
			"fallible pattern declarations are not yet supported"))
	}
	tp, nextEnv, _ := c.bindPattern(d.Pattern, declared, e, nextSlotOf(e))
	return &declResult{
		TypedDeclaration: &TypedDeclaration{Location: d.Location, Pattern: tp, Value: value, Fallible: isFallible(d.Pattern)},
		envAfter:          nextEnv,
	}
}

// nextSlotOf finds the first unused local slot by walking the chain once;
// the checker never frees slots, so the highest bound slot plus its width
// is always the next free index (spec §3 invariant, "dense and
// non-overlapping").
func nextSlotOf(e *env) int {
	max := 0
	for cur := e; cur != nil; cur = cur.parent {
		if end := cur.slot + cur.typ.StackSlots(); end > max {
			max = end
		}
	}
	return max
}

func (c *Checker) checkExpr(node ast.Expr, e *env, typeArgs, methodArgs []types.TypeDef) TypedExpr {
	switch n := node.(type) {
	case *ast.Block:
		return c.checkBlockWithArgs(n, e, typeArgs, methodArgs)
	case *ast.Import:
		return &TypedImport{Location: n.Location, Path: n.Path, TypeVal: c.Builtins.Object}
	case *ast.Literal:
		return c.checkLiteral(n)
	case *ast.Variable:
		return c.checkVariable(n, e)
	case *ast.FieldAccess:
		return c.checkFieldAccess(n, e, typeArgs, methodArgs)
	case *ast.MethodCall:
		return c.checkMethodCall(n, e, typeArgs, methodArgs)
	case *ast.SuperKeyword:
		// Legality was already checked by the resolver (ErrRStraySuper); a
		// bare super reaching here is only valid as a MethodCall receiver,
		// handled directly in checkMethodCall.
		return &TypedVariable{Location: n.Location, Name: config.SelfParamName, TypeVal: c.Builtins.Object}
	case *ast.ConstructorCall:
		return c.checkConstructorCall(n, e, typeArgs, methodArgs)
	case *ast.RawStructConstructor:
		return c.checkRawStructConstructor(n, e, typeArgs, methodArgs)
	case *ast.Tuple:
		elems := make([]TypedExpr, len(n.Elements))
		elemTypes := make([]types.TypeDef, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = c.checkExpr(el, e, typeArgs, methodArgs)
			elemTypes[i] = elems[i].Type()
		}
		return &TypedTuple{Location: n.Location, TypeVal: c.tupleType(elemTypes), Elements: elems}
	case *ast.Lambda:
		return c.checkLambda(n, e, typeArgs, methodArgs)
	case *ast.Declaration:
		r := c.checkDeclaration(n, e, typeArgs, methodArgs)
		return r.TypedDeclaration
	case *ast.Assignment:
		return c.checkAssignment(n, e, typeArgs, methodArgs)
	case *ast.Return:
		var val TypedExpr
		var typ types.TypeDef = c.Builtins.Object
		if n.Value != nil {
			val = c.checkExpr(n.Value, e, typeArgs, methodArgs)
			typ = val.Type()
		}
		return &TypedReturn{Location: n.Location, Value: val, TypeVal: typ}
	case *ast.If:
		cond := c.checkExpr(n.Cond, e, typeArgs, methodArgs)
		then := c.checkExpr(n.Then, e, typeArgs, methodArgs)
		var els TypedExpr
		typ := then.Type()
		if n.Else != nil {
			els = c.checkExpr(n.Else, e, typeArgs, methodArgs)
		} else {
			typ = c.Builtins.Object
		}
		return &TypedIf{Location: n.Location, Cond: cond, Then: then, Else: els, TypeVal: typ}
	case *ast.While:
		cond := c.checkExpr(n.Cond, e, typeArgs, methodArgs)
		body := c.checkExpr(n.Body, e, typeArgs, methodArgs)
		return &TypedWhile{Location: n.Location, Cond: cond, Body: body, TypeVal: c.Builtins.Object}
	case *ast.Paren:
		return &TypedParen{Location: n.Location, Inner: c.checkExpr(n.Inner, e, typeArgs, methodArgs)}
	default:
		c.Errors.Add(diagnostics.NewInternalError(node.Loc(), "unhandled expression kind in checker"))
		return &TypedLiteral{Location: node.Loc(), TypeVal: c.Builtins.Object}
	}
}

func (c *Checker) checkLiteral(n *ast.Literal) *TypedLiteral {
	t := &TypedLiteral{Location: n.Location, Kind: n.Kind, Bool: n.Bool, Int: n.Int, Float: n.Float, String: n.String}
	switch n.Kind {
	case ast.LitBool:
		t.TypeVal = c.Builtins.Bool
	case ast.LitInt:
		t.TypeVal = c.Builtins.IntLiteral
	case ast.LitFloat:
		t.TypeVal = c.Builtins.Floats["f64"]
	case ast.LitString:
		t.TypeVal = c.Builtins.String
	}
	return t
}

func (c *Checker) checkVariable(n *ast.Variable, e *env) *TypedVariable {
	typ, slot, ok := e.lookup(n.Name)
	if !ok {
		// The resolver already validated every local occurrence
		// (VariableIsLocal); reaching here means the checker's own env
		// construction lost a binding the resolver saw — a compiler bug.
		c.Errors.Add(diagnostics.NewInternalError(n.Location, "unbound local reached checker: "+n.Name))
		return &TypedVariable{Location: n.Location, Name: n.Name, TypeVal: c.Builtins.Object}
	}
	return &TypedVariable{Location: n.Location, Name: n.Name, TypeVal: typ, SlotIndex: slot}
}
