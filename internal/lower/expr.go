package lower

import (
	"strings"

	"github.com/snuggle-lang/snuggle/internal/ast"
	"github.com/snuggle-lang/snuggle/internal/check"
	"github.com/snuggle-lang/snuggle/internal/config"
	"github.com/snuggle-lang/snuggle/internal/ir"
	"github.com/snuggle-lang/snuggle/internal/types"
)

// lowerExpr emits te's instructions. desired is the path of leaves the
// caller actually wants out of te's (possibly plural) type, per spec
// §4.3's desired-fields protocol; an empty desired means every leaf.
// Non-plural expressions ignore desired — there is only ever one leaf.
func (l *Lowerer) lowerExpr(b *ir.Builder, te check.TypedExpr, desired []string) {
	switch n := te.(type) {
	case *check.TypedLiteral:
		l.lowerLiteral(b, n)
	case *check.TypedVariable:
		l.lowerLocalLoad(b, n.SlotIndex, n.TypeVal, desired)
	case *check.TypedFieldAccess:
		l.lowerFieldAccess(b, n, desired)
	case *check.TypedMethodCall:
		l.lowerMethodCall(b, n, desired)
	case *check.TypedConstructorCall:
		l.lowerConstructorCall(b, n)
	case *check.TypedRawStructConstructor:
		l.lowerFieldwiseProducer(b, n.Fields, n.TypeVal, desired)
	case *check.TypedTuple:
		l.lowerFieldwiseProducer(b, n.Elements, n.TypeVal, desired)
	case *check.TypedLambda:
		l.lowerLambda(b, n)
	case *check.TypedDeclaration:
		l.lowerDeclaration(b, n)
	case *check.TypedAssignment:
		l.lowerAssignment(b, n)
	case *check.TypedReturn:
		l.lowerReturn(b, n)
	case *check.TypedIf:
		l.lowerIf(b, n, desired)
	case *check.TypedWhile:
		l.lowerWhile(b, n)
	case *check.TypedParen:
		l.lowerExpr(b, n.Inner, desired)
	case *check.TypedBlock:
		l.lowerBlock(b, n, desired)
	case *check.TypedImport:
		b.Emit(ir.RunImport{File: n.Path})
	default:
		// Every TypedExpr variant is handled above; reaching here means the
		// typed AST grew a case the lowerer didn't (spec §7, "Lowering/
		// internal error" — these indicate a compiler bug).
	}
}

func (l *Lowerer) lowerLiteral(b *ir.Builder, n *check.TypedLiteral) {
	var v interface{}
	switch n.Kind {
	case ast.LitBool:
		v = n.Bool
	case ast.LitInt:
		v = n.Int
	case ast.LitFloat:
		v = n.Float
	case ast.LitString:
		v = n.String
	}
	b.Emit(ir.Push{Value: v, Type: descriptorOf(n.TypeVal)})
}

func (l *Lowerer) lowerLocalLoad(b *ir.Builder, base int, t types.TypeDef, desired []string) {
	offset := 0
	for _, lf := range leavesOf(t) {
		slots := lf.Type.StackSlots()
		if pathHasPrefix(lf.Path, desired) {
			if lf.Type.IsReferenceType() {
				b.Emit(ir.LoadRefType{Index: base + offset})
			} else {
				b.Emit(ir.LoadLocal{Index: base + offset, Type: descriptorOf(lf.Type)})
			}
		}
		offset += slots
	}
}

func (l *Lowerer) storeLocalLeaves(b *ir.Builder, base int, t types.TypeDef) {
	leaves := leavesOf(t)
	offset := 0
	for _, lf := range leaves {
		offset += lf.Type.StackSlots()
	}
	for i := len(leaves) - 1; i >= 0; i-- {
		lf := leaves[i]
		offset -= lf.Type.StackSlots()
		b.Emit(ir.StoreLocal{Index: base + offset, Type: descriptorOf(lf.Type)})
	}
}

func (l *Lowerer) popAll(b *ir.Builder, t types.TypeDef) {
	for _, lf := range leavesOf(t) {
		b.Emit(ir.Pop{Type: descriptorOf(lf.Type)})
	}
}

// lowerFieldAccess implements spec §4.3's field-access protocol: a static
// access reads directly off the owning type; a reference-typed receiver is
// evaluated once and every requested leaf is read by its mangled runtime
// name (duplicating the receiver ref before every leaf but the last and
// swapping each such leaf beneath the ref it was read from); a
// non-reference (plural) receiver is never loaded at all — the accessed
// field's name is pushed onto desired and the receiver is re-entered.
func (l *Lowerer) lowerFieldAccess(b *ir.Builder, n *check.TypedFieldAccess, desired []string) {
	if n.Field == nil {
		return
	}
	if n.IsStatic {
		owner := runtimeNameOf(n.ReceiverType)
		l.ensureLeafType(n.ReceiverType)
		for _, lf := range selectLeaves(leavesOf(n.Field.Type), desired) {
			b.Emit(ir.GetStaticField{
				Owner: owner, FieldType: descriptorOf(lf.Type),
				RuntimeName: fieldRuntimeName(n.Field, lf.Path),
			})
		}
		return
	}
	recvU := types.Underlying(n.ReceiverType)
	if recvU.IsReferenceType() {
		l.lowerExpr(b, n.Receiver, nil)
		owner := recvU.RuntimeName()
		leaves := selectLeaves(leavesOf(n.Field.Type), desired)
		for i, lf := range leaves {
			if i < len(leaves)-1 {
				b.Emit(ir.DupRef{})
			}
			b.Emit(ir.GetReferenceTypeField{
				Owner: owner, FieldType: descriptorOf(lf.Type),
				RuntimeName: fieldRuntimeName(n.Field, lf.Path),
			})
			if i < len(leaves)-1 {
				b.Emit(ir.SwapBasic{Top: descriptorOf(lf.Type), Second: owner})
			}
		}
		return
	}
	l.lowerExpr(b, n.Receiver, append([]string{n.Field.RuntimeName}, desired...))
}

func fieldRuntimeName(f *types.Field, subPath []string) string {
	if len(subPath) == 0 {
		return f.RuntimeName
	}
	return f.RuntimeName + config.PluralFieldSeparator + strings.Join(subPath, config.PluralFieldSeparator)
}

// lowerFieldwiseProducer backs both raw-struct construction and tuple
// literals: each source field is an independent leaf-producing expression,
// not a constructor argument, so desired simply selects which one(s) to
// evaluate.
func (l *Lowerer) lowerFieldwiseProducer(b *ir.Builder, exprs []check.TypedExpr, structType types.TypeDef, desired []string) {
	if len(desired) == 0 {
		for _, e := range exprs {
			l.lowerExpr(b, e, nil)
		}
		return
	}
	fields := nonStaticFields(types.Underlying(structType))
	for i, f := range fields {
		if i >= len(exprs) {
			break
		}
		if f.RuntimeName == desired[0] {
			l.lowerExpr(b, exprs[i], desired[1:])
			return
		}
	}
}

func (l *Lowerer) lowerBlock(b *ir.Builder, n *check.TypedBlock, desired []string) {
	for i, el := range n.Elements {
		if i == len(n.Elements)-1 {
			l.lowerExpr(b, el, desired)
			continue
		}
		l.lowerExpr(b, el, nil)
		l.popAll(b, el.Type())
	}
}

func (l *Lowerer) lowerDeclaration(b *ir.Builder, n *check.TypedDeclaration) {
	l.lowerExpr(b, n.Value, nil)
	l.storeLocalLeaves(b, n.Pattern.SlotIndex, n.Pattern.Type)
}

func (l *Lowerer) lowerIf(b *ir.Builder, n *check.TypedIf, desired []string) {
	l.lowerExpr(b, n.Cond, nil)
	elseLabel := b.NewLabel()
	endLabel := b.NewLabel()
	b.Emit(ir.JumpIfFalse{Target: elseLabel})
	l.lowerExpr(b, n.Then, desired)
	b.Emit(ir.Jump{Target: endLabel})
	b.Emit(ir.Label{ID: elseLabel})
	if n.Else != nil {
		l.lowerExpr(b, n.Else, desired)
	}
	b.Emit(ir.Label{ID: endLabel})
}

func (l *Lowerer) lowerWhile(b *ir.Builder, n *check.TypedWhile) {
	startLabel := b.NewLabel()
	endLabel := b.NewLabel()
	b.Emit(ir.Label{ID: startLabel})
	l.lowerExpr(b, n.Cond, nil)
	b.Emit(ir.JumpIfFalse{Target: endLabel})
	l.lowerExpr(b, n.Body, nil)
	l.popAll(b, n.Body.Type())
	b.Emit(ir.Jump{Target: startLabel})
	b.Emit(ir.Label{ID: endLabel})
}

func (l *Lowerer) lowerReturn(b *ir.Builder, n *check.TypedReturn) {
	if n.Value == nil {
		b.Emit(ir.Return{})
		return
	}
	l.lowerExpr(b, n.Value, nil)
	l.emitImplicitReturn(b, n.Value.Type())
}

// emitImplicitReturn applies spec §4.3's plural-return protocol: every
// leaf but the first is popped (top of stack first, i.e. in reverse leaf
// order) into a static "RETURN! $path" channel, and the remaining first
// leaf is returned normally.
func (l *Lowerer) emitImplicitReturn(b *ir.Builder, t types.TypeDef) {
	u := types.Underlying(t)
	if !u.IsPlural() {
		b.Emit(ir.Return{Type: descriptorOf(u)})
		return
	}
	l.emitPluralReturnChannels(b, u)
	leaves := leavesOf(u)
	if len(leaves) == 0 {
		b.Emit(ir.Return{})
		return
	}
	b.Emit(ir.Return{Type: descriptorOf(leaves[0].Type)})
}

func (l *Lowerer) emitPluralReturnChannels(b *ir.Builder, retType types.TypeDef) {
	leaves := leavesOf(retType)
	owner := runtimeNameOf(retType)
	for i := len(leaves) - 1; i >= 1; i-- {
		lf := leaves[i]
		b.Emit(ir.PutStaticField{
			Owner: owner, FieldType: descriptorOf(lf.Type),
			RuntimeName: config.ReturnChannelPrefix + strings.Join(lf.Path, config.PluralFieldSeparator),
		})
	}
}

// lowerPluralCallResult runs immediately after a call/constructor-call
// instruction whose return type is plural: the call always leaves leaf 0
// on the stack, so any undesired leaf 0 must be popped, and every other
// desired leaf is read back out of its static return channel.
func (l *Lowerer) lowerPluralCallResult(b *ir.Builder, retType types.TypeDef, desired []string) {
	leaves := leavesOf(retType)
	if len(leaves) == 0 {
		return
	}
	owner := runtimeNameOf(retType)
	if !pathHasPrefix(leaves[0].Path, desired) {
		b.Emit(ir.Pop{Type: descriptorOf(leaves[0].Type)})
	}
	for _, lf := range leaves[1:] {
		if !pathHasPrefix(lf.Path, desired) {
			continue
		}
		b.Emit(ir.GetStaticField{
			Owner: owner, FieldType: descriptorOf(lf.Type),
			RuntimeName: config.ReturnChannelPrefix + strings.Join(lf.Path, config.PluralFieldSeparator),
		})
	}
}

func (l *Lowerer) lowerMethodCall(b *ir.Builder, n *check.TypedMethodCall, desired []string) {
	if n.Method == nil {
		return
	}
	if n.Method.Kind == types.MethodBytecode {
		l.inlineBytecodeCall(b, n)
		return
	}
	if n.Shape != check.CallStatic || n.Receiver != nil {
		l.lowerExpr(b, n.Receiver, nil)
	}
	for _, a := range n.Args {
		l.lowerExpr(b, a, nil)
	}
	kind := ir.CallVirtual
	switch n.Shape {
	case check.CallStatic:
		kind = ir.CallStatic
	case check.CallSuper:
		kind = ir.CallSpecial
	case check.CallInterface:
		kind = ir.CallInterface
	}
	owner := ""
	if n.ReceiverType != nil {
		owner = runtimeNameOf(n.ReceiverType)
		l.ensureLeafType(n.ReceiverType)
	}
	b.Emit(ir.MethodCall{
		Kind: kind, Owner: owner, Name: n.Method.RuntimeName,
		ParamTypes: descriptorsOf(n.Method.Params), ReturnType: optionalDescriptor(n.Method.Return),
	})
	if n.Method.Return != nil && types.Underlying(n.Method.Return).IsPlural() {
		l.lowerPluralCallResult(b, n.Method.Return, desired)
	}
}

func (l *Lowerer) inlineBytecodeCall(b *ir.Builder, n *check.TypedMethodCall) {
	if n.Receiver != nil {
		l.lowerExpr(b, n.Receiver, nil)
	}
	argTypes := make([]types.TypeDef, len(n.Args))
	for i, a := range n.Args {
		l.lowerExpr(b, a, nil)
		argTypes[i] = a.Type()
	}
	b.EmitBytecodeMethod(n.Method.BytecodeEmitter, n.Method.Owner, argTypes)
}

func (l *Lowerer) lowerConstructorCall(b *ir.Builder, n *check.TypedConstructorCall) {
	owner := runtimeNameOf(n.TypeVal)
	l.ensureLeafType(n.TypeVal)
	b.Emit(ir.NewRefAndDup{Type: owner})
	for _, a := range n.Args {
		l.lowerExpr(b, a, nil)
	}
	if n.Ctor == nil {
		return // the checker already recorded "no matching constructor"
	}
	b.Emit(ir.MethodCall{
		Kind: ir.CallSpecial, Owner: owner, Name: n.Ctor.RuntimeName,
		ParamTypes: descriptorsOf(n.Ctor.Params), ReturnType: "",
	})
}

func (l *Lowerer) lowerAssignment(b *ir.Builder, n *check.TypedAssignment) {
	l.lowerExpr(b, n.Value, nil)
	l.storeLeaves(b, n.Target, nil)
}

// storeLeaves walks target outward, accumulating a field-path suffix from
// the already-visited (deeper) levels, until it reaches a root local, a
// root static field, or a reference-typed receiver — then stores the
// leaves the earlier lowerExpr(n.Value, nil) already pushed.
func (l *Lowerer) storeLeaves(b *ir.Builder, target check.TypedExpr, suffix []string) {
	switch t := target.(type) {
	case *check.TypedVariable:
		l.storeLocalLeaves(b, t.SlotIndex, leafTypeFor(t.TypeVal, suffix))
	case *check.TypedFieldAccess:
		if t.Field == nil {
			return
		}
		if t.IsStatic {
			path := append([]string{t.Field.RuntimeName}, suffix...)
			l.storeStaticLeaves(b, t.ReceiverType, path, t.Field.Type)
			return
		}
		if types.Underlying(t.ReceiverType).IsReferenceType() {
			path := append([]string{t.Field.RuntimeName}, suffix...)
			l.storeReferenceLeaves(b, t.Receiver, path, t.Field.Type)
			return
		}
		l.storeLeaves(b, t.Receiver, append([]string{t.Field.RuntimeName}, suffix...))
	}
}

// leafTypeFor resolves the TypeDef of the value actually being stored when
// an assignment target is a sub-path into a plural local (e.g. assigning
// straight into a destructured tuple binding's own field is represented as
// a FieldAccess chain bottoming out at the root TypedVariable with a
// nonempty suffix); an empty suffix means the whole local is the target.
func leafTypeFor(root types.TypeDef, suffix []string) types.TypeDef {
	if len(suffix) == 0 {
		return root
	}
	cur := types.Underlying(root)
	for _, seg := range suffix {
		found := false
		for _, f := range nonStaticFields(cur) {
			if f.RuntimeName == seg {
				cur = types.Underlying(f.Type)
				found = true
				break
			}
		}
		if !found {
			return cur
		}
	}
	return cur
}

func (l *Lowerer) storeStaticLeaves(b *ir.Builder, ownerType types.TypeDef, path []string, leafRoot types.TypeDef) {
	owner := runtimeNameOf(ownerType)
	leaves := leavesOf(leafRoot)
	for i := len(leaves) - 1; i >= 0; i-- {
		lf := leaves[i]
		runtimeName := strings.Join(append(append([]string{}, path...), lf.Path...), config.PluralFieldSeparator)
		b.Emit(ir.PutStaticField{Owner: owner, FieldType: descriptorOf(lf.Type), RuntimeName: runtimeName})
	}
}

// storeReferenceLeaves implements the reload-and-swap protocol (spec
// §4.3): the receiver is re-evaluated once per leaf, pushed on top of that
// leaf's already-pushed value, then swapped into [objectref, value] order
// before the put.
func (l *Lowerer) storeReferenceLeaves(b *ir.Builder, receiver check.TypedExpr, path []string, leafRoot types.TypeDef) {
	recvU := types.Underlying(receiver.Type())
	owner := recvU.RuntimeName()
	leaves := leavesOf(leafRoot)
	for i := len(leaves) - 1; i >= 0; i-- {
		lf := leaves[i]
		l.lowerExpr(b, receiver, nil)
		b.Emit(ir.SwapBasic{Top: owner, Second: descriptorOf(lf.Type)})
		runtimeName := strings.Join(append(append([]string{}, path...), lf.Path...), config.PluralFieldSeparator)
		b.Emit(ir.PutReferenceTypeField{Owner: owner, FieldType: descriptorOf(lf.Type), RuntimeName: runtimeName})
	}
}

func (l *Lowerer) lowerLambda(b *ir.Builder, n *check.TypedLambda) {
	name := l.ensureType(n.TypeVal)
	implName := name + "$Impl" + lambdaSuffix(n)
	body := ir.NewBuilder()
	if n.Body != nil {
		l.lowerExpr(body, n.Body, nil)
		l.emitImplicitReturn(body, n.Body.Type())
	}
	invoke := &ir.GeneratedMethod{
		Name: config.FuncInvokeName, RuntimeName: config.FuncInvokeName,
		ParamTypes: descriptorsOf(n.TypeVal.Params), ReturnType: optionalDescriptor(n.TypeVal.Return),
		Kind: ir.MethodUserBody, Body: body.Instructions(),
	}
	l.program.GeneratedTypes = append(l.program.GeneratedTypes, ir.GeneratedFuncImpl{
		Name: implName, RuntimeName: implName, Interface: name, Invoke: invoke,
	})
	b.Emit(ir.NewRefAndDup{Type: implName})
	b.Emit(ir.MethodCall{Kind: ir.CallSpecial, Owner: implName, Name: config.NewMethodRuntimeName})
}

// lambdaSuffix distinguishes multiple lambda literals sharing one erased
// Func shape by their source location, matching the rest of the compiler's
// convention of deriving synthetic names from stable AST identity rather
// than a counter (a counter would make generated names depend on lowering
// order instead of source order).
func lambdaSuffix(n *check.TypedLambda) string {
	loc := n.Loc()
	return "@" + loc.String()
}
