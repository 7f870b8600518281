package check

import (
	"github.com/snuggle-lang/snuggle/internal/ast"
	"github.com/snuggle-lang/snuggle/internal/types"
)

// bindPattern turns a parsed parameter/declaration pattern into a
// TypedPattern against an already-known type, extending env with its
// bindings and advancing slot by the pattern's stack-slot width (spec
// §4.2, "Pattern inference").
func (c *Checker) bindPattern(p *ast.Pattern, declared types.TypeDef, e *env, slot int) (*TypedPattern, *env, int) {
	switch p.Kind {
	case ast.PatternSingle:
		tp := &TypedPattern{Location: p.Location, Kind: p.Kind, Name: p.Name, SlotIndex: slot, Type: declared, StackSlots: declared.StackSlots()}
		return tp, e.bind(p.Name, declared, slot), slot + declared.StackSlots()
	case ast.PatternTyped:
		return c.bindPattern(p.Inner, declared, e, slot)
	case ast.PatternTuple:
		under := types.Underlying(declared)
		fields := under.Fields()
		tp := &TypedPattern{Location: p.Location, Kind: p.Kind, Type: declared, SlotIndex: slot}
		cur := e
		curSlot := slot
		for i, sub := range p.Elements {
			var subType types.TypeDef = c.Builtins.Object
			if i < len(fields) {
				subType = fields[i].Type
			}
			subTyped, nextEnv, nextSlot := c.bindPattern(sub, subType, cur, curSlot)
			tp.Elements = append(tp.Elements, subTyped)
			cur, curSlot = nextEnv, nextSlot
		}
		tp.StackSlots = curSlot - slot
		return tp, cur, curSlot
	default:
		tp := &TypedPattern{Location: p.Location, Kind: p.Kind, Type: declared, SlotIndex: slot, StackSlots: declared.StackSlots()}
		return tp, e, slot + declared.StackSlots()
	}
}

// isFallible reports whether a pattern can fail to match — today, any
// pattern beyond a bare single/tuple/typed binding. None of the parsed
// pattern shapes currently represent a refutable form (e.g. a variant or
// literal pattern), so this always returns false; it exists as the single
// seam checkDeclaration consults, per spec §4.2's explicit "unimplemented"
// carve-out, so adding a refutable pattern shape later only touches this
// function.
func isFallible(p *ast.Pattern) bool {
	return false
}
