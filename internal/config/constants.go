package config

const SourceFileExt = ".sng"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".sng", ".snuggle"}

// IsTestMode is a process-wide test-mode flag. No pass reads it, so
// diagnostic output is the same whether or not it is set.
var IsTestMode = false

// Built-in type names recognized at resolution entry (spec §6, source
// language surface).
const (
	BoolTypeName       = "bool"
	ObjectTypeName      = "object"
	StringTypeName      = "string"
	OptionTypeName      = "option"
	IntLiteralTypeName  = "int_literal"
	PrintFuncName       = "print"
)

// IntWidths and FloatWidths enumerate the builtin numeric type names, e.g.
// i8, i16, i32, i64, f32, f64.
var (
	IntWidths   = []string{"i8", "i16", "i32", "i64"}
	FloatWidths = []string{"f32", "f64"}
)

// Host-reflection annotation names recognized by the reflected-type bridge.
const (
	AnnotationAllow                = "SnuggleAllow"
	AnnotationDeny                  = "SnuggleDeny"
	AnnotationRename                = "SnuggleRename"
	AnnotationStatic                = "SnuggleStatic"
	AnnotationAcknowledgeGenerics   = "SnuggleAcknowledgeGenerics"
)

// SelfParamName is the implicit receiver binding available inside a
// non-static method body, always occupying local slot 0 (the AST has no
// dedicated self/this node; field/method access on the receiver goes
// through an ordinary Variable named SelfParamName instead).
const SelfParamName = "this"

// ConstructorSourceName is the Snuggle-level name a user writes for a
// constructor; NewMethodRuntimeName is what it's mangled to at the target
// VM level (spec §4.2, "A class constructor named new is renamed to the
// host-VM constructor name").
const (
	ConstructorSourceName  = "new"
	NewMethodRuntimeName   = "<init>"
)

// FuncInvokeName is the single abstract method every erased closure
// interface carries (spec §3, "func" TypeDef kind).
const FuncInvokeName = "invoke"

// ReturnChannelPrefix prefixes the static field name used to carry the
// non-first leaves of a plural return value (spec §4.3).
const ReturnChannelPrefix = "RETURN! $"

// PluralFieldSeparator joins the field-path segments of a mangled plural
// field's runtime name: receiver$f1$f2$...$leaf.
const PluralFieldSeparator = "$"

// MethodDisambiguationSeparator separates an overloaded method's base name
// from its zero-based disambiguation index: name, name$1, name$2, ...
const MethodDisambiguationSeparator = "$"
