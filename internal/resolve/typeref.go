package resolve

import "github.com/snuggle-lang/snuggle/internal/types"

// RefKind discriminates a resolved (but not yet specialized) type
// reference. Generic instantiation isn't performed here — that requires
// the specialization machinery the typer owns — so a TypeRef carries
// enough structure for internal/check to specialize it on demand.
type RefKind int

const (
	RefBuiltin RefKind = iota
	RefIndirection
	RefBuiltinGeneric
	RefTuple
	RefFunc
	RefTypeGenericParam
	RefMethodGenericParam
)

// TypeRef is the resolver's output for a single ast.ParsedType node: the
// "resolveType" result described in spec §4.1.5, preserving parameter
// indices for type- and method-generics.
type TypeRef struct {
	Kind RefKind

	Builtin        types.TypeDef              // RefBuiltin
	Indirection    *types.Indirection         // RefIndirection: the generic-or-not type-def this name refers to
	BuiltinFactory *types.GenericTypeFactory  // RefBuiltinGeneric, e.g. `option`
	Args           []*TypeRef                 // generic instantiation arguments (empty for a non-generic reference)

	Elements []*TypeRef // RefTuple

	Params []*TypeRef // RefFunc
	Return *TypeRef   // RefFunc

	ParamIndex int    // RefTypeGenericParam / RefMethodGenericParam
	ParamName  string
}
