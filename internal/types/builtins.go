package types

import (
	"fmt"

	"github.com/snuggle-lang/snuggle/internal/config"
)

// Builtins is the initial mapping of built-in type names to resolved
// type-defs the resolver requires at resolution entry (spec §6, "Built-in
// type list must be provided at resolution entry").
type Builtins struct {
	Bool       *Basic
	Object     *Basic
	String     *Basic
	Option     *GenericTypeFactory
	IntLiteral *Basic
	Ints       map[string]*Basic
	Floats     map[string]*Basic
	// Print is the built-in `print` entry spec §6 requires at resolution
	// entry. There is no free-function slot in the resolver's scope, so it
	// is modeled as a static-only Class carrying one bytecode method.
	Print *Class
	// Reflected holds the host classes the reflected-type bridge built for
	// this compile, keyed by their Snuggle-visible name. A driver populates
	// this after NewBuiltins and before resolution entry (spec §6, "Built-in
	// type list ... and any reflected types"); it is empty in a build that
	// registers none.
	Reflected map[string]*Reflected
}

// NewBuiltins constructs the fixed builtin table. Method bodies for these
// types are installed separately (internal/check/builtins_methods.go),
// since they're BytecodeMethodDefs that need an InstructionSink, not a
// typed AST.
func NewBuiltins() *Builtins {
	object := &Basic{NameVal: config.ObjectTypeName, RuntimeNameVal: "java/lang/Object", DescriptorVal: []string{"Ljava/lang/Object;"}, SlotsVal: 1, ReferenceType: true}
	str := &Basic{NameVal: config.StringTypeName, RuntimeNameVal: "java/lang/String", DescriptorVal: []string{"Ljava/lang/String;"}, SlotsVal: 1, ReferenceType: true, SupertypeVal: object}
	boolT := &Basic{NameVal: config.BoolTypeName, RuntimeNameVal: "Z", DescriptorVal: []string{"Z"}, SlotsVal: 1, ReferenceType: false, SupertypeVal: object}
	intLit := &Basic{NameVal: config.IntLiteralTypeName, RuntimeNameVal: "I", DescriptorVal: []string{"I"}, SlotsVal: 1, ReferenceType: false, SupertypeVal: object}

	ints := make(map[string]*Basic, len(config.IntWidths))
	for _, name := range config.IntWidths {
		ints[name] = &Basic{NameVal: name, RuntimeNameVal: jvmIntDescriptor(name), DescriptorVal: []string{jvmIntDescriptor(name)}, SlotsVal: intSlots(name), ReferenceType: false, SupertypeVal: object}
	}
	floats := make(map[string]*Basic, len(config.FloatWidths))
	for _, name := range config.FloatWidths {
		floats[name] = &Basic{NameVal: name, RuntimeNameVal: jvmFloatDescriptor(name), DescriptorVal: []string{jvmFloatDescriptor(name)}, SlotsVal: floatSlots(name), ReferenceType: false, SupertypeVal: object}
	}

	option := NewGenericTypeFactory(config.OptionTypeName, 1, func(args []TypeDef) TypeDef {
		inner := args[0]
		return &Struct{
			NameVal:        fmt.Sprintf("%s<%s>", config.OptionTypeName, inner.Name()),
			RuntimeNameVal: fmt.Sprintf("Option$%s", Underlying(inner).RuntimeName()),
			FieldsVal: []*Field{
				{Name: "present", RuntimeName: "present", Type: boolT},
				{Name: "value", RuntimeName: "value", Type: inner},
			},
		}
	})

	print := &Class{NameVal: config.PrintFuncName, RuntimeNameVal: "snuggle/runtime/Print", SupertypeVal: object}
	print.MethodsVal = []*Method{{
		Kind: MethodBytecode, Name: config.PrintFuncName, RuntimeName: "println", IsStatic: true,
		Params: []TypeDef{object}, Return: object, Owner: print,
		BytecodeEmitter: func(sink InstructionSink, owner TypeDef, args []TypeDef) {
			sink.Emit("INVOKESTATIC", "java/lang/System.out", "println")
		},
	}}

	return &Builtins{
		Bool:       boolT,
		Object:     object,
		String:     str,
		Option:     option,
		IntLiteral: intLit,
		Ints:       ints,
		Floats:     floats,
		Print:      print,
		Reflected:  make(map[string]*Reflected),
	}
}

// RegisterReflected adds a bridge-built host class to the builtin set under
// its Snuggle-visible name, so resolution entry's builtin scope (spec §6)
// can see it.
func (b *Builtins) RegisterReflected(r *Reflected) {
	b.Reflected[r.Name()] = r
}

func jvmIntDescriptor(name string) string {
	switch name {
	case "i8":
		return "B"
	case "i16":
		return "S"
	case "i64":
		return "J"
	default: // i32
		return "I"
	}
}

func intSlots(name string) int {
	if name == "i64" {
		return 2
	}
	return 1
}

func jvmFloatDescriptor(name string) string {
	if name == "f64" {
		return "D"
	}
	return "F"
}

func floatSlots(name string) int {
	if name == "f64" {
		return 2
	}
	return 1
}

// ByName looks up a builtin (non-generic) type by its Snuggle source name.
func (b *Builtins) ByName(name string) (TypeDef, bool) {
	switch name {
	case config.BoolTypeName:
		return b.Bool, true
	case config.ObjectTypeName:
		return b.Object, true
	case config.StringTypeName:
		return b.String, true
	case config.IntLiteralTypeName:
		return b.IntLiteral, true
	case config.PrintFuncName:
		return b.Print, true
	}
	if t, ok := b.Ints[name]; ok {
		return t, true
	}
	if t, ok := b.Floats[name]; ok {
		return t, true
	}
	return nil, false
}
