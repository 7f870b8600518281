// Package lower implements the lowerer (spec §4.3): it walks the typed AST
// and produces an IR program, flattening plural types into independent leaf
// slots/fields/return-channels as it goes. Unlike the checker, the lowerer
// never allocates local-slot indices itself — every TypedVariable and
// TypedPattern already carries the slot the checker assigned it; lowering
// is a pure translation from typed expressions to instructions.
package lower

import (
	"strings"

	"github.com/snuggle-lang/snuggle/internal/check"
	"github.com/snuggle-lang/snuggle/internal/config"
	"github.com/snuggle-lang/snuggle/internal/diagnostics"
	"github.com/snuggle-lang/snuggle/internal/ir"
	"github.com/snuggle-lang/snuggle/internal/source"
	"github.com/snuggle-lang/snuggle/internal/types"
)

// Lowerer owns the one per-compile cache named in spec §5: a generated-type
// calculator, memoized by runtime name and monotonically grown. It has no
// other mutable state — everything else needed to lower one expression is
// already present in the typed AST it's handed.
type Lowerer struct {
	program   *ir.Program
	generated map[string]bool
	Errors    *diagnostics.List
}

func NewLowerer() *Lowerer {
	return &Lowerer{
		program:   ir.NewProgram(),
		generated: make(map[string]bool),
		Errors:    &diagnostics.List{},
	}
}

// Program returns the IR built so far. Call after every file has been
// lowered.
func (l *Lowerer) Program() *ir.Program { return l.program }

// LowerFile lowers one file's top-level block into its RunImport-scheduled
// instruction sequence (spec §6, "Source language surface").
func (l *Lowerer) LowerFile(path string, top *check.TypedBlock) {
	b := ir.NewBuilder()
	for _, el := range top.Elements {
		l.lowerExpr(b, el, nil)
		l.popAll(b, el.Type())
	}
	l.program.Files[path] = b.Instructions()
}

// ensureType lazily emits td's GeneratedType entry, memoized by runtime
// name. The entry is marked generated *before* its fields/methods are
// built, so a field or return type that refers back to td (spec §8
// scenario 4, "cyclic type refs") finds the memo already set instead of
// recursing forever.
func (l *Lowerer) ensureType(td types.TypeDef) string {
	u := types.Underlying(td)
	name := u.RuntimeName()
	if l.generated[name] {
		return name
	}
	l.generated[name] = true
	switch u.Category() {
	case types.CategoryClass:
		l.emitClass(u.(*types.Class), name)
	case types.CategoryStruct:
		l.emitValueType(u.(*types.Struct), name)
	case types.CategoryFunc:
		l.emitFuncType(u.(*types.Func), name)
	}
	return name
}

// ensureLeafType registers a leaf's type-def if it is itself a generated
// shape; basic and reflected builtins come from the runtime and are never
// emitted.
func (l *Lowerer) ensureLeafType(t types.TypeDef) {
	switch types.Underlying(t).Category() {
	case types.CategoryClass, types.CategoryStruct, types.CategoryFunc:
		l.ensureType(t)
	}
}

func (l *Lowerer) emitClass(c *types.Class, name string) {
	super := ""
	if c.Supertype() != nil {
		super = l.ensureType(c.Supertype())
	}
	l.program.GeneratedTypes = append(l.program.GeneratedTypes, ir.GeneratedClass{
		Name:        c.Name(),
		RuntimeName: name,
		Supertype:   super,
		Fields:      l.flattenFields(c.Fields()),
		Methods:     l.lowerMethods(c.Methods()),
	})
	// An erased enum's variant subclasses are emitted alongside their base
	// (spec is silent on enum lowering; see DESIGN.md for the sealed-
	// hierarchy erasure rationale shared with the checker's buildEnum).
	for _, v := range c.Variants {
		if l.generated[v.RuntimeName()] {
			continue
		}
		l.generated[v.RuntimeName()] = true
		l.emitClass(v, v.RuntimeName())
	}
}

func (l *Lowerer) emitValueType(s *types.Struct, name string) {
	leaves := leavesOf(s)
	var returning []ir.GeneratedField
	if len(leaves) > 0 {
		for _, lf := range leaves[1:] {
			returning = append(returning, ir.GeneratedField{
				Name:          strings.Join(lf.Path, "."),
				RuntimeName:   config.ReturnChannelPrefix + strings.Join(lf.Path, config.PluralFieldSeparator),
				Type:          descriptorOf(lf.Type),
				RuntimeStatic: true,
			})
		}
	}
	l.program.GeneratedTypes = append(l.program.GeneratedTypes, ir.GeneratedValueType{
		Name:            s.Name(),
		RuntimeName:     name,
		Fields:          l.flattenFields(s.Fields()),
		Methods:         l.lowerMethods(s.Methods()),
		ReturningFields: returning,
	})
}

func (l *Lowerer) emitFuncType(f *types.Func, name string) {
	var invoke *ir.GeneratedMethod
	if methods := f.Methods(); len(methods) > 0 {
		m := methods[0]
		invoke = &ir.GeneratedMethod{
			Name: m.Name, RuntimeName: m.RuntimeName,
			ParamTypes: descriptorsOf(m.Params), ReturnType: optionalDescriptor(m.Return),
			Kind: ir.MethodAbstractSlot,
		}
	}
	l.program.GeneratedTypes = append(l.program.GeneratedTypes, ir.GeneratedFuncType{
		Name: f.Name(), RuntimeName: name, Invoke: invoke,
	})
}

// flattenFields expands each declared field into its leaf GeneratedFields
// (spec §4.3's `receiver$f1$f2$…$leaf` naming), so a plural field occupies
// several independently addressable runtime fields rather than one that
// would place its whole value on the stack at once.
func (l *Lowerer) flattenFields(fields []*types.Field) []ir.GeneratedField {
	var out []ir.GeneratedField
	for _, f := range fields {
		for _, lf := range leavesOf(f.Type) {
			runtime := f.RuntimeName
			if len(lf.Path) > 0 {
				runtime = f.RuntimeName + config.PluralFieldSeparator + strings.Join(lf.Path, config.PluralFieldSeparator)
			}
			out = append(out, ir.GeneratedField{
				Name: f.Name, RuntimeName: runtime, Type: descriptorOf(lf.Type),
				IsStatic: f.IsStatic, RuntimeStatic: f.IsStatic,
			})
			l.ensureLeafType(lf.Type)
		}
	}
	return out
}

func (l *Lowerer) lowerMethods(methods []*types.Method) []*ir.GeneratedMethod {
	out := make([]*ir.GeneratedMethod, 0, len(methods))
	for _, m := range methods {
		if gm := l.lowerMethod(m); gm != nil {
			out = append(out, gm)
		}
	}
	return out
}

func (l *Lowerer) lowerMethod(m *types.Method) *ir.GeneratedMethod {
	switch m.Kind {
	case types.MethodInterface:
		return &ir.GeneratedMethod{
			Name: m.Name, RuntimeName: m.RuntimeName,
			ParamTypes: descriptorsOf(m.Params), ReturnType: optionalDescriptor(m.Return),
			IsStatic: m.IsStatic, Kind: ir.MethodAbstractSlot,
		}
	case types.MethodBytecode:
		b := ir.NewBuilder()
		b.EmitBytecodeMethod(m.BytecodeEmitter, m.Owner, m.Params)
		return &ir.GeneratedMethod{
			Name: m.Name, RuntimeName: m.RuntimeName,
			ParamTypes: descriptorsOf(m.Params), ReturnType: optionalDescriptor(m.Return),
			IsStatic: m.IsStatic, Kind: ir.MethodCustomEmitted, Body: b.Instructions(),
		}
	case types.MethodConst, types.MethodStaticConst:
		l.Errors.Add(diagnostics.NewInternalError(source.None,
			"const/static-const methods are rejected at lowering: "+m.Name))
		return nil
	case types.MethodGeneric:
		// Every call site specializes through Method.Generic before a
		// TypedMethodCall reaches the lowerer (checker's specializeIfGeneric);
		// a bare generic descriptor surviving to here was never called.
		return nil
	case types.MethodSnuggle:
		return l.lowerSnuggleMethod(m)
	default:
		return nil
	}
}

func (l *Lowerer) lowerSnuggleMethod(m *types.Method) *ir.GeneratedMethod {
	if m.Body == nil {
		return nil
	}
	raw, err := m.Body.Force()
	if err != nil {
		return nil
	}
	mb, ok := raw.(*check.MethodBody)
	if !ok || mb == nil {
		// A nil, non-error result is the reentrant self-reference case
		// (spec §5, "Reentrancy") — the caller that forced us only needed
		// the signature, which is already built; nothing to emit yet.
		return nil
	}
	b := ir.NewBuilder()
	if _, alreadyReturns := mb.Body.(*check.TypedReturn); alreadyReturns {
		l.lowerExpr(b, mb.Body, nil)
	} else {
		l.lowerExpr(b, mb.Body, nil)
		l.emitImplicitReturn(b, mb.Body.Type())
	}
	return &ir.GeneratedMethod{
		Name: m.Name, RuntimeName: m.RuntimeName,
		ParamTypes: descriptorsOf(m.Params), ReturnType: optionalDescriptor(m.Return),
		IsStatic: m.IsStatic, Kind: ir.MethodUserBody, Body: b.Instructions(),
	}
}
