package check

import (
	"github.com/snuggle-lang/snuggle/internal/ast"
	"github.com/snuggle-lang/snuggle/internal/config"
	"github.com/snuggle-lang/snuggle/internal/diagnostics"
	"github.com/snuggle-lang/snuggle/internal/types"
)

// isAssignable reports whether a value of type from may be used where to is
// expected: identical underlying type-defs, the universal `object`
// supertype, an integer literal narrowing to any integer or float width, or a
// class assignable through its supertype chain.
func (c *Checker) isAssignable(from, to types.TypeDef) bool {
	from, to = types.Underlying(from), types.Underlying(to)
	if from == to {
		return true
	}
	if to == c.Builtins.Object {
		return true
	}
	if from == c.Builtins.IntLiteral {
		for _, w := range c.Builtins.Ints {
			if to == w {
				return true
			}
		}
		for _, w := range c.Builtins.Floats {
			if to == w {
				return true
			}
		}
	}
	for sup := from.Supertype(); sup != nil; sup = types.Underlying(sup).Supertype() {
		if types.Underlying(sup) == to {
			return true
		}
	}
	return false
}

// findMethod resolves an overload group by name, walking the supertype
// chain when owner has no local match, and disambiguating same-arity
// overloads by argument-type compatibility in source (build) order — spec
// §8 scenario 6, "resolution picks by argument type."
func (c *Checker) findMethod(owner types.TypeDef, name string, argTypes []types.TypeDef) (*types.Method, bool) {
	for t := owner; t != nil; t = types.Underlying(t).Supertype() {
		var candidates []*types.Method
		for _, m := range types.Underlying(t).Methods() {
			if m.Name == name {
				candidates = append(candidates, m)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		if len(candidates) == 1 {
			return candidates[0], true
		}
		var arityMatch *types.Method
		for _, m := range candidates {
			if m.Kind == types.MethodGeneric || len(m.Params) != len(argTypes) {
				continue
			}
			if arityMatch == nil {
				arityMatch = m
			}
			allAssignable := true
			for i, p := range m.Params {
				if !c.isAssignable(argTypes[i], p) {
					allAssignable = false
					break
				}
			}
			if allAssignable {
				return m, true
			}
		}
		if arityMatch != nil {
			return arityMatch, true
		}
		return candidates[0], true
	}
	return nil, false
}

func (c *Checker) specializeIfGeneric(m *types.Method, genArgs []types.TypeDef) *types.Method {
	if m.Kind == types.MethodGeneric {
		return m.Generic.Specialize(genArgs)
	}
	return m
}

// callShape implements spec §4.3's "Three call shapes map to four
// invocation opcodes": interface methods always dispatch interface-style;
// a static-receiver call (by type name) or a call against a non-reference
// (struct/basic) receiver dispatches static; everything else against a
// reference-type receiver dispatches virtual. Super-calls and constructors
// are decided by their own call sites, not this helper.
func (c *Checker) callShape(m *types.Method, receiverType types.TypeDef, isStaticReceiver bool) CallShape {
	if m.Kind == types.MethodInterface {
		return CallInterface
	}
	if isStaticReceiver {
		return CallStatic
	}
	if types.Underlying(receiverType).IsReferenceType() {
		return CallVirtual
	}
	return CallStatic
}

func (c *Checker) checkFieldAccess(n *ast.FieldAccess, e *env, typeArgs, methodArgs []types.TypeDef) TypedExpr {
	if recvType, ok := c.Resolve.StaticReceiverType[n]; ok {
		field := findField(recvType, n.Field)
		if field == nil {
			c.Errors.Add(diagnostics.NewTypingError(diagnostics.ErrTUnknownMember, n.Location,
				"unknown static field: "+n.Field))
			return &TypedFieldAccess{Location: n.Location, IsStatic: true, ReceiverType: recvType, TypeVal: c.Builtins.Object}
		}
		return &TypedFieldAccess{Location: n.Location, IsStatic: true, ReceiverType: recvType, Field: field, TypeVal: field.Type}
	}
	recv := c.checkExpr(n.Receiver, e, typeArgs, methodArgs)
	field := findField(recv.Type(), n.Field)
	if field == nil {
		c.Errors.Add(diagnostics.NewTypingError(diagnostics.ErrTUnknownMember, n.Location,
			"unknown field: "+n.Field))
		return &TypedFieldAccess{Location: n.Location, Receiver: recv, ReceiverType: recv.Type(), TypeVal: c.Builtins.Object}
	}
	return &TypedFieldAccess{Location: n.Location, Receiver: recv, ReceiverType: recv.Type(), Field: field, TypeVal: field.Type}
}

func findField(owner types.TypeDef, name string) *types.Field {
	for t := owner; t != nil; t = types.Underlying(t).Supertype() {
		for _, f := range types.Underlying(t).Fields() {
			if f.Name == name {
				return f
			}
		}
	}
	return nil
}

func (c *Checker) checkMethodCall(n *ast.MethodCall, e *env, typeArgs, methodArgs []types.TypeDef) TypedExpr {
	args := make([]TypedExpr, len(n.Args))
	argTypes := make([]types.TypeDef, len(n.Args))
	for i, a := range n.Args {
		args[i] = c.checkExpr(a, e, typeArgs, methodArgs)
		argTypes[i] = args[i].Type()
	}
	genArgs := make([]types.TypeDef, len(n.GenericArgs))
	for i, g := range n.GenericArgs {
		genArgs[i] = c.resolveRef(c.Resolve.Refs[g], typeArgs, methodArgs)
	}

	if c.Resolve.SuperCallSite[n] {
		selfType, selfSlot, _ := e.lookup(config.SelfParamName)
		super := types.Underlying(selfType).Supertype()
		m, ok := c.findMethod(super, n.Method, argTypes)
		if !ok {
			c.Errors.Add(diagnostics.NewTypingError(diagnostics.ErrTUnknownMember, n.Location, "unknown method: "+n.Method))
			return &TypedMethodCall{Location: n.Location, TypeVal: c.Builtins.Object}
		}
		m = c.specializeIfGeneric(m, genArgs)
		selfExpr := &TypedVariable{Location: n.Location, Name: config.SelfParamName, TypeVal: selfType, SlotIndex: selfSlot}
		return &TypedMethodCall{Location: n.Location, Receiver: selfExpr, ReceiverType: super, Shape: CallSuper, Method: m, GenericArgs: genArgs, Args: args, TypeVal: m.Return}
	}

	if recvType, ok := c.Resolve.StaticReceiverType[n]; ok {
		m, found := c.findMethod(recvType, n.Method, argTypes)
		if !found {
			c.Errors.Add(diagnostics.NewTypingError(diagnostics.ErrTUnknownMember, n.Location, "unknown method: "+n.Method))
			return &TypedMethodCall{Location: n.Location, ReceiverType: recvType, TypeVal: c.Builtins.Object}
		}
		m = c.specializeIfGeneric(m, genArgs)
		return &TypedMethodCall{Location: n.Location, ReceiverType: recvType, Shape: c.callShape(m, recvType, true), Method: m, GenericArgs: genArgs, Args: args, TypeVal: m.Return}
	}

	recv := c.checkExpr(n.Receiver, e, typeArgs, methodArgs)
	m, found := c.findMethod(recv.Type(), n.Method, argTypes)
	if !found {
		c.Errors.Add(diagnostics.NewTypingError(diagnostics.ErrTUnknownMember, n.Location, "unknown method: "+n.Method))
		return &TypedMethodCall{Location: n.Location, Receiver: recv, ReceiverType: recv.Type(), TypeVal: c.Builtins.Object}
	}
	m = c.specializeIfGeneric(m, genArgs)
	return &TypedMethodCall{Location: n.Location, Receiver: recv, ReceiverType: recv.Type(), Shape: c.callShape(m, recv.Type(), false), Method: m, GenericArgs: genArgs, Args: args, TypeVal: m.Return}
}

func (c *Checker) checkConstructorCall(n *ast.ConstructorCall, e *env, typeArgs, methodArgs []types.TypeDef) TypedExpr {
	target := c.resolveRef(c.Resolve.Refs[n.Type], typeArgs, methodArgs)
	args := make([]TypedExpr, len(n.Args))
	argTypes := make([]types.TypeDef, len(n.Args))
	for i, a := range n.Args {
		args[i] = c.checkExpr(a, e, typeArgs, methodArgs)
		argTypes[i] = args[i].Type()
	}
	if _, ok := types.Underlying(target).(*types.Class); !ok {
		c.Errors.Add(diagnostics.NewTypingError(diagnostics.ErrTInvalidConstructor, n.Location,
			"constructor call target is not a class: "+target.Name()))
		return &TypedConstructorCall{Location: n.Location, TypeVal: target, Args: args}
	}
	ctor, found := c.findMethod(target, config.ConstructorSourceName, argTypes)
	if !found {
		c.Errors.Add(diagnostics.NewTypingError(diagnostics.ErrTInvalidConstructor, n.Location,
			"no matching constructor for "+target.Name()))
	}
	return &TypedConstructorCall{Location: n.Location, TypeVal: target, Ctor: ctor, Args: args}
}

func (c *Checker) checkRawStructConstructor(n *ast.RawStructConstructor, e *env, typeArgs, methodArgs []types.TypeDef) TypedExpr {
	target := c.resolveRef(c.Resolve.Refs[n.Type], typeArgs, methodArgs)
	under := types.Underlying(target)
	if !under.IsPlural() {
		c.Errors.Add(diagnostics.NewTypingError(diagnostics.ErrTMismatch, n.Location,
			"raw struct constructor on a non-plural type: "+target.Name()))
	}
	fields := under.Fields()
	args := make([]TypedExpr, len(n.Fields))
	for i, f := range n.Fields {
		var want types.TypeDef = c.Builtins.Object
		if i < len(fields) {
			want = fields[i].Type
		}
		args[i] = c.checkExpr(f, e, typeArgs, methodArgs)
		if !c.isAssignable(args[i].Type(), want) {
			c.Errors.Add(diagnostics.NewTypingError(diagnostics.ErrTMismatch, n.Location,
				"field "+fieldNameAt(fields, i)+": expected "+want.Name()+", got "+args[i].Type().Name()))
		}
	}
	if len(n.Fields) != len(fields) {
		c.Errors.Add(diagnostics.NewTypingError(diagnostics.ErrTArity, n.Location,
			"wrong number of fields constructing "+target.Name()))
	}
	return &TypedRawStructConstructor{Location: n.Location, TypeVal: target, Fields: args}
}

func fieldNameAt(fields []*types.Field, i int) string {
	if i < len(fields) {
		return fields[i].Name
	}
	return "?"
}

func (c *Checker) checkLambda(n *ast.Lambda, e *env, typeArgs, methodArgs []types.TypeDef) TypedExpr {
	paramTypes := make([]types.TypeDef, len(n.Params))
	for i, p := range n.Params {
		paramTypes[i] = c.resolvePatternTypeRef(p, typeArgs, methodArgs)
	}
	inner := e
	slot := nextSlotOf(e)
	typedParams := make([]*TypedPattern, len(n.Params))
	for i, p := range n.Params {
		tp, nextEnv, nextSlot := c.bindPattern(p, paramTypes[i], inner, slot)
		typedParams[i] = tp
		inner, slot = nextEnv, nextSlot
	}
	body := c.checkExpr(n.Body, inner, typeArgs, methodArgs)
	ret := body.Type()
	if n.ReturnType != nil {
		ret = c.resolveRef(c.Resolve.Refs[n.ReturnType], typeArgs, methodArgs)
	}
	return &TypedLambda{Location: n.Location, TypeVal: c.funcType(paramTypes, ret), Params: typedParams, Body: body}
}

func (c *Checker) checkAssignment(n *ast.Assignment, e *env, typeArgs, methodArgs []types.TypeDef) TypedExpr {
	target := c.checkExpr(n.Target, e, typeArgs, methodArgs)
	value := c.checkExpr(n.Value, e, typeArgs, methodArgs)
	if !c.isAssignable(value.Type(), target.Type()) {
		c.Errors.Add(diagnostics.NewTypingError(diagnostics.ErrTMismatch, n.Location,
			"cannot assign "+value.Type().Name()+" to "+target.Type().Name()))
	}
	return &TypedAssignment{Location: n.Location, Target: target, Value: value}
}
