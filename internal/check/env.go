package check

import "github.com/snuggle-lang/snuggle/internal/types"

// env is the immutable local-binding environment threaded through
// expression checking (spec §4.2, "Bindings are accumulated into an
// immutable environment keyed by name"). Each frame only ever adds
// bindings; a child frame shadows its parent without mutating it.
type env struct {
	parent *env
	name   string
	typ    types.TypeDef
	slot   int
}

func (e *env) bind(name string, typ types.TypeDef, slot int) *env {
	return &env{parent: e, name: name, typ: typ, slot: slot}
}

func (e *env) lookup(name string) (types.TypeDef, int, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.name == name {
			return cur.typ, cur.slot, true
		}
	}
	return nil, 0, false
}
