package check

import (
	"github.com/snuggle-lang/snuggle/internal/ast"
	"github.com/snuggle-lang/snuggle/internal/source"
	"github.com/snuggle-lang/snuggle/internal/types"
)

// TypedExpr is the typed-AST sum (spec §3, "Typed AST"): the resolved AST
// annotated so every sub-expression carries a TypeDef. Modeled as one
// struct per parsed Expr variant rather than a side-map, since the typer
// (unlike the resolver) produces a genuinely new tree — method bodies are
// type-checked lazily and cached, and a side-map keyed by the *resolved*
// node would outlive the pass that built it for no benefit.
type TypedExpr interface {
	Loc() source.Location
	Type() types.TypeDef
}

type TypedLiteral struct {
	Location source.Location
	TypeVal  types.TypeDef
	Kind     ast.LiteralKind
	Bool     bool
	Int      int64
	Float    float64
	String   string
}

func (t *TypedLiteral) Loc() source.Location { return t.Location }
func (t *TypedLiteral) Type() types.TypeDef  { return t.TypeVal }

// TypedVariable is a local-variable read; the resolver's VariableIsLocal is
// always true by the time the typer builds one — a bare identifier that named a type instead
// was rewritten to a static receiver during resolution (spec §4.1.3).
type TypedVariable struct {
	Location  source.Location
	Name      string
	TypeVal   types.TypeDef
	SlotIndex int
}

func (t *TypedVariable) Loc() source.Location { return t.Location }
func (t *TypedVariable) Type() types.TypeDef  { return t.TypeVal }

// TypedFieldAccess covers both static (Receiver == nil, ReceiverType set)
// and virtual (Receiver set) field reads.
type TypedFieldAccess struct {
	Location     source.Location
	Receiver     TypedExpr // nil for a static access
	ReceiverType types.TypeDef
	IsStatic     bool
	Field        *types.Field
	TypeVal      types.TypeDef
}

func (t *TypedFieldAccess) Loc() source.Location { return t.Location }
func (t *TypedFieldAccess) Type() types.TypeDef  { return t.TypeVal }

// CallShape discriminates the four invocation opcodes a method call can
// lower to (spec §4.3, "Method calls").
type CallShape int

const (
	CallVirtual CallShape = iota
	CallStatic
	CallSuper
	CallInterface
)

type TypedMethodCall struct {
	Location     source.Location
	Receiver     TypedExpr // nil for a static call; `this` for a super-call
	ReceiverType types.TypeDef
	Shape        CallShape
	Method       *types.Method
	GenericArgs  []types.TypeDef
	Args         []TypedExpr
	TypeVal      types.TypeDef
}

func (t *TypedMethodCall) Loc() source.Location { return t.Location }
func (t *TypedMethodCall) Type() types.TypeDef  { return t.TypeVal }

// TypedConstructorCall is `Type(Args)` against a class, dispatched to its
// `new`-renamed constructor method (spec §4.2).
type TypedConstructorCall struct {
	Location source.Location
	TypeVal  types.TypeDef
	Ctor     *types.Method
	Args     []TypedExpr
}

func (t *TypedConstructorCall) Loc() source.Location { return t.Location }
func (t *TypedConstructorCall) Type() types.TypeDef  { return t.TypeVal }

// TypedRawStructConstructor is `S(v1,...,vn)` against a plural type: each
// argument is an independent leaf, not a constructor-method argument.
type TypedRawStructConstructor struct {
	Location source.Location
	TypeVal  types.TypeDef
	Fields   []TypedExpr
}

func (t *TypedRawStructConstructor) Loc() source.Location { return t.Location }
func (t *TypedRawStructConstructor) Type() types.TypeDef  { return t.TypeVal }

type TypedTuple struct {
	Location source.Location
	TypeVal  types.TypeDef
	Elements []TypedExpr
}

func (t *TypedTuple) Loc() source.Location { return t.Location }
func (t *TypedTuple) Type() types.TypeDef  { return t.TypeVal }

// TypedLambda erases to an interface with one generated implementation
// (spec §3, "func"). It carries the lambda's parameter patterns and typed
// body only; captured variables are not recorded on it.
type TypedLambda struct {
	Location source.Location
	TypeVal  *types.Func
	Params   []*TypedPattern
	Body     TypedExpr
}

func (t *TypedLambda) Loc() source.Location { return t.Location }
func (t *TypedLambda) Type() types.TypeDef  { return t.TypeVal }

type TypedDeclaration struct {
	Location source.Location
	Pattern  *TypedPattern
	Value    TypedExpr
	// Fallible is true when Pattern can fail to match (spec §4.2, "Fallible
	// patterns"). Always rejected today — see checkDeclaration.
	Fallible bool
}

func (t *TypedDeclaration) Loc() source.Location { return t.Location }
func (t *TypedDeclaration) Type() types.TypeDef  { return t.Pattern.Type }

type TypedAssignment struct {
	Location source.Location
	Target   TypedExpr
	Value    TypedExpr
}

func (t *TypedAssignment) Loc() source.Location { return t.Location }
func (t *TypedAssignment) Type() types.TypeDef  { return t.Value.Type() }

type TypedReturn struct {
	Location source.Location
	Value    TypedExpr // nil for a bare return
	TypeVal  types.TypeDef
}

func (t *TypedReturn) Loc() source.Location { return t.Location }
func (t *TypedReturn) Type() types.TypeDef  { return t.TypeVal }

type TypedIf struct {
	Location source.Location
	Cond     TypedExpr
	Then     TypedExpr
	Else     TypedExpr // nil if no else-branch
	TypeVal  types.TypeDef
}

func (t *TypedIf) Loc() source.Location { return t.Location }
func (t *TypedIf) Type() types.TypeDef  { return t.TypeVal }

type TypedWhile struct {
	Location source.Location
	Cond     TypedExpr
	Body     TypedExpr
	TypeVal  types.TypeDef // always object (unit)
}

func (t *TypedWhile) Loc() source.Location { return t.Location }
func (t *TypedWhile) Type() types.TypeDef  { return t.TypeVal }

type TypedParen struct {
	Location source.Location
	Inner    TypedExpr
}

func (t *TypedParen) Loc() source.Location { return t.Location }
func (t *TypedParen) Type() types.TypeDef  { return t.Inner.Type() }

// TypedBlock is a sequence of typed sub-expressions; its own type is its
// final element's type (object/unit for an empty block).
type TypedBlock struct {
	Location source.Location
	Elements []TypedExpr
	TypeVal  types.TypeDef
}

func (t *TypedBlock) Loc() source.Location { return t.Location }
func (t *TypedBlock) Type() types.TypeDef  { return t.TypeVal }

// TypedImport carries the imported file's path through to lowering, which
// emits a RunImport instruction (spec §6).
type TypedImport struct {
	Location source.Location
	Path     string
	TypeVal  types.TypeDef // object (unit)
}

func (t *TypedImport) Loc() source.Location { return t.Location }
func (t *TypedImport) Type() types.TypeDef  { return t.TypeVal }

// MethodBody is the typer's TypedBody payload for a MethodSnuggle method:
// its parameter patterns (with slot indices already assigned) plus the
// checked body expression.
type MethodBody struct {
	Params []*TypedPattern
	Body   TypedExpr
}

// TypedPattern is the typer's output for a parameter/declaration pattern
// (spec §4.2, "Pattern inference"): its Type supplies the bound value's
// type and StackSlots advances the next binding's local index.
type TypedPattern struct {
	Location   source.Location
	Kind       ast.ParamKind
	Name       string // PatternSingle
	SlotIndex  int    // PatternSingle: the local slot this name is bound to
	Elements   []*TypedPattern
	Inner      *TypedPattern
	Type       types.TypeDef
	StackSlots int
}
