// Package source holds the position information threaded through every
// AST, type, and diagnostic in the compiler. The lexer and parser that
// produce these positions are external collaborators; this package only
// carries the data they attach.
package source

import "fmt"

// Location identifies a point in a source file.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// None is the zero Location, used for synthetic nodes with no source origin
// (e.g. builtin type definitions injected by the driver).
var None = Location{}
