package ir

// Program is the lowerer's full output: every generated type plus the
// top-level instruction block each source file contributes (spec §3,
// "A Program holds a list of generated types and a mapping from file-name
// to its top-level instruction block").
type Program struct {
	GeneratedTypes []GeneratedType
	Files          map[string][]Instruction
}

func NewProgram() *Program {
	return &Program{Files: make(map[string][]Instruction)}
}

// GeneratedType is the closed sum of emittable target shapes (spec §3,
// "Generated types are: class, value-type..., func-type..., func-impl").
type GeneratedType interface {
	generatedType()
}

// GeneratedField mirrors spec §6's class-file contract: a runtime name
// distinct from the source name (to encode plural-field paths), and a
// runtime-static flag distinct from the source-level IsStatic (a plural
// instance field lowered to a static return channel is RuntimeStatic but
// not IsStatic).
type GeneratedField struct {
	Name          string
	RuntimeName   string
	Type          string // descriptor
	IsStatic      bool
	RuntimeStatic bool
}

// GeneratedMethodKind discriminates how a GeneratedMethod is realized at
// the target level.
type GeneratedMethodKind int

const (
	// MethodUserBody carries a lowered instruction sequence.
	MethodUserBody GeneratedMethodKind = iota
	// MethodCustomEmitted is emitted inline by a BytecodeEmitter; Body
	// already holds the single Bytecodes instruction produced for it.
	MethodCustomEmitted
	// MethodAbstractSlot has no body at all (an interface method).
	MethodAbstractSlot
)

type GeneratedMethod struct {
	Name        string
	RuntimeName string
	ParamTypes  []string
	ReturnType  string // "" for void
	IsStatic    bool
	Kind        GeneratedMethodKind
	Body        []Instruction
}

// GeneratedClass is a reference type: a nominal class with a primary
// supertype (spec §6 class-file contract).
type GeneratedClass struct {
	Name        string
	RuntimeName string
	Supertype   string // "" for the root (object)
	Fields      []GeneratedField
	Methods     []*GeneratedMethod
}

// GeneratedValueType is a plural (struct) type. ReturningFields enumerates
// the static return channels used to carry every leaf after the first when
// a value of this type is returned (spec §3, "a separate returning fields
// list used for plural return lowering").
type GeneratedValueType struct {
	Name            string
	RuntimeName     string
	Fields          []GeneratedField
	Methods         []*GeneratedMethod
	ReturningFields []GeneratedField
}

// GeneratedFuncType is the erased interface for a closure shape, carrying
// the single abstract "invoke" slot (spec §3, "func... erased to an
// interface with one implementation per lambda").
type GeneratedFuncType struct {
	Name        string
	RuntimeName string
	Invoke      *GeneratedMethod // Kind == MethodAbstractSlot
}

// GeneratedFuncImpl is one lambda literal's generated implementation class,
// implementing the GeneratedFuncType interface named by Interface.
type GeneratedFuncImpl struct {
	Name        string
	RuntimeName string
	Interface   string // runtime name of the GeneratedFuncType it implements
	Invoke      *GeneratedMethod // Kind == MethodUserBody
}

func (GeneratedClass) generatedType()     {}
func (GeneratedValueType) generatedType() {}
func (GeneratedFuncType) generatedType()  {}
func (GeneratedFuncImpl) generatedType()  {}
