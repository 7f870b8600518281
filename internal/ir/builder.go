package ir

import (
	"iter"

	"github.com/snuggle-lang/snuggle/internal/types"
)

// Builder accumulates one method or top-level block's instruction sequence.
// The lowerer holds one Builder per activation it is currently emitting
// into; nested blocks (if/while branches, lambda bodies) get their own
// Builder whose finished sequence is wrapped in a CodeBlock.
type Builder struct {
	instrs []Instruction
	labels int
}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) Emit(i Instruction) { b.instrs = append(b.instrs, i) }

// NewLabel allocates the next dense label ID for this builder's method
// activation (spec §3, "local-slot indices are dense" — labels follow the
// same discipline so the writer never sees a gap).
func (b *Builder) NewLabel() int {
	id := b.labels
	b.labels++
	return id
}

// Instructions returns the accumulated sequence. Once taken, the Builder
// should not be reused for emission into the same logical block.
func (b *Builder) Instructions() []Instruction { return b.instrs }

// Seq exposes the accumulated sequence as a pull-based iterator (spec §9,
// "Streaming IR... pull-based; the writer drains it"). Materializing into a
// slice first and then iterating over it is the idiomatic equivalent of the
// lowerer's original lazy-sequence approach once the whole tree has been
// walked once; cancellation is simply the consumer's range loop breaking
// early, which range-over-func already supports without any extra
// bookkeeping on this side.
func (b *Builder) Seq() iter.Seq[Instruction] {
	return func(yield func(Instruction) bool) {
		for _, i := range b.instrs {
			if !yield(i) {
				return
			}
		}
	}
}

// sink adapts a Builder to types.InstructionSink so a BytecodeEmitter
// (builtins, the reflected-type bridge) can record raw target opcodes
// without internal/types importing internal/ir.
type sink struct{ ops []RawOp }

func (s *sink) Emit(opcode string, operands ...interface{}) {
	s.ops = append(s.ops, RawOp{Opcode: opcode, Operands: operands})
}

// EmitBytecodeMethod runs a BytecodeMethodDef's emitter and folds its raw
// output into a single Bytecodes instruction (spec §4.3, "bypassing
// invocation").
func (b *Builder) EmitBytecodeMethod(emit types.BytecodeEmitter, owner types.TypeDef, args []types.TypeDef) {
	s := &sink{}
	emit(s, owner, args)
	b.Emit(Bytecodes{Cost: len(s.ops), Ops: s.ops})
}
