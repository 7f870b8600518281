package resolve

// Scope is the lexical chain of type-name and local-name bindings visible
// at a point in the resolved AST. Siblings within the same block phase
// share a single Scope frame so "exposedTypes from an earlier expression
// become visible to later siblings" (spec §4.1.1, Phase B) without
// rebuilding the chain per statement.
//
// A bound type name is either a concrete types.TypeDef, a *types.
// Indirection (forward-declared, possibly still unfulfilled), or a
// *types.GenericTypeFactory (a builtin generic like `option` that has no
// single TypeDef until specialized) — hence the map's interface{} value.
type Scope struct {
	parent *Scope
	types  map[string]interface{}
	locals map[string]bool // local variable/parameter names bound here
}

func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, types: make(map[string]interface{}), locals: make(map[string]bool)}
}

func (s *Scope) BindType(name string, td interface{}) {
	s.types[name] = td
}

func (s *Scope) BindLocal(name string) {
	s.locals[name] = true
}

// LookupType walks outward through parent scopes.
func (s *Scope) LookupType(name string) (interface{}, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if td, ok := cur.types[name]; ok {
			return td, true
		}
	}
	return nil, false
}

// HasLocal walks outward through parent scopes.
func (s *Scope) HasLocal(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.locals[name] {
			return true
		}
	}
	return false
}

// Child opens a new nested frame, e.g. for a method body or lambda.
func (s *Scope) Child() *Scope {
	return NewScope(s)
}
