// Package ast defines the parsed AST that the name resolver consumes. The
// lexer and parser that produce these trees are external collaborators
// (spec §1); this package only carries the node shapes.
package ast

import "github.com/snuggle-lang/snuggle/internal/source"

// Node is the base interface for every AST node; all nodes carry a source
// location for diagnostics.
type Node interface {
	Loc() source.Location
}

// TypeDef is a parsed type definition: class, struct, implementation block,
// enum, or type alias.
type TypeDef interface {
	Node
	typeDefNode()
	DefName() string
	IsPub() bool
}

// Expr is a parsed expression. Blocks are expressions too, so a file's
// top-level is itself represented as a Block.
type Expr interface {
	Node
	exprNode()
}

// BlockElement is either an Expr or a TypeDef; blocks interleave the two.
type BlockElement interface {
	Node
}

// Block is an ordered sequence of expressions and type-definitions. The
// resolver runs its two-phase scan directly over Elements.
type Block struct {
	Location source.Location
	Elements []BlockElement
}

func (b *Block) Loc() source.Location { return b.Location }
func (b *Block) exprNode()            {}

// File is the parsed top-level of a single source file: an import-capable
// Block plus the path it was loaded from.
type File struct {
	Path string
	Top  *Block
}

// Generics holds the ordered list of a type-def's or method's own generic
// parameter names, used to preserve parameter indices through resolveType.
type Generics struct {
	Names []string
}

func (g Generics) IndexOf(name string) int {
	for i, n := range g.Names {
		if n == name {
			return i
		}
	}
	return -1
}
