// Package diagnostics defines the single error shape shared by every pass
// of the compiler, per the error handling design: { kind, message, location }.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/snuggle-lang/snuggle/internal/source"
)

// Kind categorizes a DiagnosticError by which pass raised it.
type Kind int

const (
	KindParsing Kind = iota
	KindResolution
	KindTyping
	KindLowering
	KindBridge
)

func (k Kind) String() string {
	switch k {
	case KindParsing:
		return "parse error"
	case KindResolution:
		return "resolution error"
	case KindTyping:
		return "type error"
	case KindLowering:
		return "internal error"
	case KindBridge:
		return "reflection bridge error"
	default:
		return "error"
	}
}

// Code is a stable identifier for a specific diagnostic, independent of its
// human-readable message. Tests and editor tooling key off Code, not Message.
type Code string

const (
	// Parsing (owned by the external parser; reserved here so the shape is uniform).
	ErrPUnexpectedToken Code = "P001"
	ErrPStraySuper      Code = "P002"

	// Resolution.
	ErrRUnknownType         Code = "R001"
	ErrRMissingImport       Code = "R002"
	ErrRStraySuper          Code = "R003"
	ErrRDuplicateFulfillment Code = "R004" // compiler bug
	ErrRUnknownIdentifier   Code = "R005"

	// Typing.
	ErrTMismatch             Code = "T001"
	ErrTArity                Code = "T002"
	ErrTUnknownMember        Code = "T003"
	ErrTInvalidConstructor   Code = "T004"
	ErrTUnsupportedGeneric   Code = "T005"
	ErrTFalliblePattern      Code = "T006"
	ErrTNotAType             Code = "T007"

	// Lowering / internal.
	ErrLUnreachable Code = "L001" // compiler bug, "please report"

	// Reflection bridge.
	ErrBGenericsNotAcknowledged Code = "B001"
	ErrBStaticFieldMismatch     Code = "B002"
	ErrBUnknownAnnotation       Code = "B003"
)

// DiagnosticError is the uniform error value produced by every pass.
type DiagnosticError struct {
	Kind     Kind
	Code     Code
	Message  string
	Location source.Location
	Notes    []string
	Internal bool // true for compiler-bug class errors ("please report")
}

func (e *DiagnosticError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s [%s] at %s", e.Kind, e.Message, e.Code, e.Location)
	if e.Internal {
		b.WriteString(" (this is a compiler bug, please report it)")
	}
	for _, n := range e.Notes {
		fmt.Fprintf(&b, "\n  note: %s", n)
	}
	return b.String()
}

func New(kind Kind, code Code, loc source.Location, message string) *DiagnosticError {
	return &DiagnosticError{Kind: kind, Code: code, Message: message, Location: loc}
}

func NewResolutionError(code Code, loc source.Location, message string) *DiagnosticError {
	return New(KindResolution, code, loc, message)
}

func NewTypingError(code Code, loc source.Location, message string) *DiagnosticError {
	return New(KindTyping, code, loc, message)
}

// NewInternalError builds a lowering/internal diagnostic. These indicate a
// compiler bug and must never be silently recovered from.
func NewInternalError(loc source.Location, message string) *DiagnosticError {
	return &DiagnosticError{Kind: KindLowering, Code: ErrLUnreachable, Message: message, Location: loc, Internal: true}
}

func NewBridgeError(code Code, message string) *DiagnosticError {
	return &DiagnosticError{Kind: KindBridge, Code: code, Message: message}
}

// List accumulates diagnostics for a single pass invocation and implements
// error so a pass can return "no error" (nil) or the whole batch at once.
type List struct {
	Errors []*DiagnosticError
}

func (l *List) Add(e *DiagnosticError) {
	l.Errors = append(l.Errors, e)
}

func (l *List) HasErrors() bool {
	return l != nil && len(l.Errors) > 0
}

// AsError returns l as an error if it holds any diagnostics, else nil. This
// lets a pass always build a List and hand it back uniformly.
func (l *List) AsError() error {
	if !l.HasErrors() {
		return nil
	}
	return l
}

func (l *List) Error() string {
	parts := make([]string, len(l.Errors))
	for i, e := range l.Errors {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "\n")
}
