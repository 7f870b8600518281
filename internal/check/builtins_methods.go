package check

import (
	"github.com/snuggle-lang/snuggle/internal/types"
)

// installBuiltinMethods wires the BytecodeMethodDef bodies for built-in
// types (spec §8 scenario 2, "Boolean builtins"). These never go through
// ast.MethodDecl/buildMethod — they're the one first-class-function escape
// hatch named in spec §9, a function pointer plus owned context installed
// directly on the Basic shape at builtin-table construction time.
func installBuiltinMethods(b *types.Builtins) {
	boolT := b.Bool
	boolT.MethodsVal = []*types.Method{
		bytecodeMethod("add", boolT, []types.TypeDef{boolT}, boolT, func(sink types.InstructionSink, owner types.TypeDef, args []types.TypeDef) {
			sink.Emit("IOR")
		}),
		bytecodeMethod("mul", boolT, []types.TypeDef{boolT}, boolT, func(sink types.InstructionSink, owner types.TypeDef, args []types.TypeDef) {
			sink.Emit("IAND")
		}),
		bytecodeMethod("not", boolT, nil, boolT, func(sink types.InstructionSink, owner types.TypeDef, args []types.TypeDef) {
			sink.Emit("ICONST_1")
			sink.Emit("IXOR")
		}),
	}

	installNumericMethods(b.IntLiteral, b)
	for _, t := range b.Ints {
		installNumericMethods(t, b)
	}
	for _, t := range b.Floats {
		installNumericMethods(t, b)
	}
}

// installNumericMethods gives every numeric width the arithmetic set the
// source language's int-literal/width builtins need to be usable at all —
// the spec names only the boolean builtins explicitly, but a compiler that
// can't add two ints isn't faithful to "Boolean builtins. ... true.add".
func installNumericMethods(t *types.Basic, b *types.Builtins) {
	opcode := func(i, f string) string {
		if isFloatWidth(t, b) {
			return f
		}
		return i
	}
	t.MethodsVal = []*types.Method{
		bytecodeMethod("add", t, []types.TypeDef{t}, t, arith(opcode("IADD", "FADD"))),
		bytecodeMethod("sub", t, []types.TypeDef{t}, t, arith(opcode("ISUB", "FSUB"))),
		bytecodeMethod("mul", t, []types.TypeDef{t}, t, arith(opcode("IMUL", "FMUL"))),
	}
}

func isFloatWidth(t *types.Basic, b *types.Builtins) bool {
	for _, f := range b.Floats {
		if f == t {
			return true
		}
	}
	return false
}

func arith(opcode string) types.BytecodeEmitter {
	return func(sink types.InstructionSink, owner types.TypeDef, args []types.TypeDef) {
		sink.Emit(opcode)
	}
}

func bytecodeMethod(name string, owner types.TypeDef, params []types.TypeDef, ret types.TypeDef, emit types.BytecodeEmitter) *types.Method {
	return &types.Method{
		Kind: types.MethodBytecode, Name: name, RuntimeName: name,
		Params: params, Return: ret, Owner: owner, BytecodeEmitter: emit,
	}
}
