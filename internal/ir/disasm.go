package ir

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable dump of a method body, used by the
// ir and pipeline tests that check a dump's contents and by the CLI's
// -debug flag instead of hand-decoding the instruction slice.
func Disassemble(instrs []Instruction, name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s ==\n", name)
	for i, instr := range instrs {
		writeInstruction(&sb, i, instr)
	}
	return sb.String()
}

func writeInstruction(sb *strings.Builder, offset int, instr Instruction) {
	fmt.Fprintf(sb, "%04d ", offset)
	switch v := instr.(type) {
	case CodeBlock:
		sb.WriteString("CODEBLOCK\n")
		nested := Disassemble(v.Instrs, "block")
		sb.WriteString("     | " + strings.ReplaceAll(strings.TrimRight(nested, "\n"), "\n", "\n     | ") + "\n")
	case Bytecodes:
		fmt.Fprintf(sb, "%-22s cost=%d\n", "BYTECODES", v.Cost)
		for _, op := range v.Ops {
			fmt.Fprintf(sb, "     | %s %v\n", op.Opcode, op.Operands)
		}
	case RunImport:
		fmt.Fprintf(sb, "%-22s %q\n", "RUN_IMPORT", v.File)
	case MethodCall:
		fmt.Fprintf(sb, "%-22s %s %s.%s(%s) %s\n", "METHOD_CALL", v.Kind, v.Owner, v.Name, strings.Join(v.ParamTypes, ","), v.ReturnType)
	case Return:
		fmt.Fprintf(sb, "%-22s %s\n", "RETURN", v.Type)
	case Label:
		fmt.Fprintf(sb, "LABEL%d:\n", v.ID)
	case Jump:
		fmt.Fprintf(sb, "%-22s -> LABEL%d\n", "JUMP", v.Target)
	case JumpIfTrue:
		fmt.Fprintf(sb, "%-22s -> LABEL%d\n", "JUMP_IF_TRUE", v.Target)
	case JumpIfFalse:
		fmt.Fprintf(sb, "%-22s -> LABEL%d\n", "JUMP_IF_FALSE", v.Target)
	case Push:
		fmt.Fprintf(sb, "%-22s %v %s\n", "PUSH", v.Value, v.Type)
	case Pop:
		fmt.Fprintf(sb, "%-22s %s\n", "POP", v.Type)
	case SwapBasic:
		fmt.Fprintf(sb, "%-22s %s %s\n", "SWAP_BASIC", v.Top, v.Second)
	case NewRefAndDup:
		fmt.Fprintf(sb, "%-22s %s\n", "NEW_REF_AND_DUP", v.Type)
	case DupRef:
		sb.WriteString("DUP_REF\n")
	case LoadRefType:
		fmt.Fprintf(sb, "%-22s %d\n", "LOAD_REF_TYPE", v.Index)
	case StoreLocal:
		fmt.Fprintf(sb, "%-22s %d %s\n", "STORE_LOCAL", v.Index, v.Type)
	case LoadLocal:
		fmt.Fprintf(sb, "%-22s %d %s\n", "LOAD_LOCAL", v.Index, v.Type)
	case GetReferenceTypeField:
		fmt.Fprintf(sb, "%-22s %s.%s %s\n", "GET_REF_FIELD", v.Owner, v.RuntimeName, v.FieldType)
	case PutReferenceTypeField:
		fmt.Fprintf(sb, "%-22s %s.%s %s\n", "PUT_REF_FIELD", v.Owner, v.RuntimeName, v.FieldType)
	case GetStaticField:
		fmt.Fprintf(sb, "%-22s %s.%s %s\n", "GET_STATIC_FIELD", v.Owner, v.RuntimeName, v.FieldType)
	case PutStaticField:
		fmt.Fprintf(sb, "%-22s %s.%s %s\n", "PUT_STATIC_FIELD", v.Owner, v.RuntimeName, v.FieldType)
	default:
		fmt.Fprintf(sb, "unknown instruction %T\n", v)
	}
}

// DisassembleMethod dumps a GeneratedMethod, falling back to a one-line
// marker for methods with no lowered body (MethodCustomEmitted bodies
// already carry their Bytecodes instruction; MethodAbstractSlot has none).
func DisassembleMethod(m *GeneratedMethod) string {
	if m.Kind == MethodAbstractSlot {
		return fmt.Sprintf("== %s ==\n(abstract)\n", m.RuntimeName)
	}
	return Disassemble(m.Body, m.RuntimeName)
}
