package ir

import (
	"strings"
	"testing"
)

func TestBuilder_EmitAndInstructions(t *testing.T) {
	b := NewBuilder()
	l := b.NewLabel()
	b.Emit(Push{Value: int64(1), Type: "I"})
	b.Emit(Label{ID: l})
	b.Emit(Return{Type: "I"})

	instrs := b.Instructions()
	if len(instrs) != 3 {
		t.Fatalf("got %d instructions, want 3", len(instrs))
	}
	if _, ok := instrs[0].(Push); !ok {
		t.Errorf("instrs[0] = %T, want Push", instrs[0])
	}
}

func TestBuilder_SeqYieldsSameOrderAsInstructions(t *testing.T) {
	b := NewBuilder()
	b.Emit(Push{Value: int64(1), Type: "I"})
	b.Emit(Push{Value: int64(2), Type: "I"})
	b.Emit(Return{Type: "I"})

	var seen []Instruction
	for i := range b.Seq() {
		seen = append(seen, i)
	}
	if len(seen) != len(b.Instructions()) {
		t.Fatalf("Seq yielded %d instructions, Instructions() has %d", len(seen), len(b.Instructions()))
	}
	for i, ins := range seen {
		if ins != b.Instructions()[i] {
			t.Errorf("Seq()[%d] != Instructions()[%d]", i, i)
		}
	}
}

func TestBuilder_SeqStopsOnEarlyBreak(t *testing.T) {
	b := NewBuilder()
	b.Emit(Push{Value: int64(1), Type: "I"})
	b.Emit(Push{Value: int64(2), Type: "I"})
	b.Emit(Push{Value: int64(3), Type: "I"})

	count := 0
	for range b.Seq() {
		count++
		if count == 1 {
			break
		}
	}
	if count != 1 {
		t.Fatalf("expected the range loop to stop after 1 yield, stopped after %d", count)
	}
}

func TestDisassemble_IncludesEachInstructionKind(t *testing.T) {
	instrs := []Instruction{
		Push{Value: int64(2), Type: "I"},
		MethodCall{Kind: CallVirtual, Owner: "Point", Name: "sum", ParamTypes: nil, ReturnType: "I"},
		Return{Type: "I"},
	}
	dump := Disassemble(instrs, "Point.sum")
	if !strings.Contains(dump, "Point.sum") {
		t.Errorf("missing header: %s", dump)
	}
	if !strings.Contains(dump, "PUSH") || !strings.Contains(dump, "METHOD_CALL") || !strings.Contains(dump, "RETURN") {
		t.Errorf("disassembly missing expected opcodes: %s", dump)
	}
}
