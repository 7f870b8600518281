// Package resolve implements the name resolver (spec §4.1): a two-phase
// scan over each block that discovers sibling type-defs before resolving
// any of them, forward-declaring placeholders (indirections) so mutually
// referencing type-defs in the same file (or across imports) resolve
// without a topological sort.
package resolve

import (
	"github.com/snuggle-lang/snuggle/internal/ast"
	"github.com/snuggle-lang/snuggle/internal/config"
	"github.com/snuggle-lang/snuggle/internal/diagnostics"
	"github.com/snuggle-lang/snuggle/internal/source"
	"github.com/snuggle-lang/snuggle/internal/types"
)

// FileLoader loads a source file's parsed top-level block by path. The
// parser that produces it is an external collaborator (spec §1).
type FileLoader interface {
	Load(path string) (*ast.File, error)
}

// Result is the resolver's output: the parsed AST annotated via side
// tables rather than rebuilt into a second tree, mirroring the teacher's
// own TypeMap-style annotation of an existing AST in place.
type Result struct {
	Refs               map[ast.Node]*TypeRef // ast.ParsedType node -> resolved reference
	TypeDefIndirection map[ast.TypeDef]*types.Indirection
	IndirectionTypeDef map[*types.Indirection]ast.TypeDef
	VariableIsLocal    map[*ast.Variable]bool
	ExposedTypes       map[string]types.TypeDef // entry file's public type-defs
	Arena              *types.Arena

	// StaticReceiverType holds the type-def a FieldAccess or MethodCall
	// (keyed by the node itself) resolved to a static access/call against;
	// its absence for a given node means the access/call is virtual (spec
	// §4.1.3).
	StaticReceiverType map[ast.Node]types.TypeDef
	// SuperCallSite marks a MethodCall whose receiver was the legal `super`
	// keyword (spec §4.1.4).
	SuperCallSite map[*ast.MethodCall]bool
}

func newResult(arena *types.Arena) *Result {
	return &Result{
		Refs:               make(map[ast.Node]*TypeRef),
		TypeDefIndirection: make(map[ast.TypeDef]*types.Indirection),
		IndirectionTypeDef: make(map[*types.Indirection]ast.TypeDef),
		VariableIsLocal:    make(map[*ast.Variable]bool),
		ExposedTypes:       make(map[string]types.TypeDef),
		Arena:              arena,
		StaticReceiverType: make(map[ast.Node]types.TypeDef),
		SuperCallSite:      make(map[*ast.MethodCall]bool),
	}
}

// fileMembers is the memoized, identity-keyed cache entry for one
// imported file's public type-defs (spec §4.1.2).
type fileMembers struct {
	exposed map[string]types.TypeDef
	err     error
}

// Resolver runs the two-phase block resolution over an entry file's
// top-level block, threading a FileLoader for imports.
type Resolver struct {
	Builtins *types.Builtins
	Loader   FileLoader
	Errors   *diagnostics.List

	result      *Result
	fileCache   map[string]*fileMembers
	visitedFile map[string]bool // for RunImport-at-most-once bookkeeping (spec §6)
}

func NewResolver(builtins *types.Builtins, loader FileLoader) *Resolver {
	return &Resolver{
		Builtins:    builtins,
		Loader:      loader,
		Errors:      &diagnostics.List{},
		result:      newResult(&types.Arena{}),
		fileCache:   make(map[string]*fileMembers),
		visitedFile: make(map[string]bool),
	}
}

// ResolveEntry resolves the top-level block of the designated entry file
// (spec §4.1.1: "Resolution is initiated at the top-level block of a
// designated entry file").
func (r *Resolver) ResolveEntry(file *ast.File) (*Result, error) {
	root := NewScope(nil)
	for name, td := range r.builtinScope() {
		root.BindType(name, td)
	}
	r.resolveBlock(file.Top, root, r.result.ExposedTypes)
	if unresolved := r.result.Arena.Unfulfilled(); len(unresolved) > 0 {
		for _, name := range unresolved {
			r.Errors.Add(diagnostics.NewInternalError(source.None, "indirection never fulfilled: "+name))
		}
	}
	return r.result, r.Errors.AsError()
}

func (r *Resolver) builtinScope() map[string]interface{} {
	m := map[string]interface{}{
		"object": r.Builtins.Object,
		"string": r.Builtins.String,
		"bool":   r.Builtins.Bool,
		"option": r.Builtins.Option,
		"print":  r.Builtins.Print,
	}
	for name, td := range r.Builtins.Ints {
		m[name] = td
	}
	for name, td := range r.Builtins.Floats {
		m[name] = td
	}
	for name, td := range r.Builtins.Reflected {
		m[name] = td
	}
	return m
}

// resolveBlock runs the two-phase scan described in spec §4.1.1. exposedOut
// receives this block's public type-defs found in Phase A — the entry
// point passes r.result.ExposedTypes; an imported file's own resolution
// passes a throwaway map that becomes that file's cache entry.
func (r *Resolver) resolveBlock(block *ast.Block, scope *Scope, exposedOut map[string]types.TypeDef) {
	// Phase A — pre-declaration: create an indirection per type-def and
	// bind it so every sibling (regardless of source order) can see it.
	for _, el := range block.Elements {
		if td, ok := el.(ast.TypeDef); ok {
			ind, _ := r.result.Arena.NewIndirection(td.DefName())
			r.result.TypeDefIndirection[td] = ind
			r.result.IndirectionTypeDef[ind] = td
			scope.BindType(td.DefName(), ind)
			if td.IsPub() {
				exposedOut[td.DefName()] = ind
			}
		}
	}

	// Phase B — in-order resolution: imports and other expressions extend
	// the scope seen by later siblings; type-defs get their bodies
	// resolved and their indirection fulfilled exactly once.
	for _, el := range block.Elements {
		switch node := el.(type) {
		case *ast.Import:
			r.resolveImport(node, scope)
		case ast.Expr:
			r.resolveExpr(node, scope)
		case ast.TypeDef:
			r.resolveTypeDefBody(node, scope)
		}
	}
}

func (r *Resolver) resolveTypeDefBody(td ast.TypeDef, scope *Scope) {
	ind := r.result.TypeDefIndirection[td]
	resolved := r.buildTypeDefShape(td, scope)
	if err := ind.Fulfill(resolved); err != nil {
		r.Errors.Add(diagnostics.NewInternalError(td.Loc(), err.Error()))
	}
	r.resolveTypeDefSignatures(td, scope)
	r.resolveMethodBodies(td, scope)
}

// resolveTypeDefSignatures resolves every type reference appearing in a
// type-def's own shape — supertype, field types, method parameter/return
// types — into the Refs side table, ahead of resolving any method body.
// Generic parameter references are already distinguished at the AST level
// (TypeGenericParamType / MethodGenericParamType), so no extra scope
// binding is needed here; resolveType's default case handles them.
func (r *Resolver) resolveTypeDefSignatures(td ast.TypeDef, scope *Scope) {
	switch t := td.(type) {
	case *ast.ClassDef:
		if t.Supertype != nil {
			r.resolveType(t.Supertype, scope)
		}
		r.resolveFields(t.Fields, scope)
		r.resolveMethodSignatures(t.Methods, scope)
	case *ast.StructDef:
		r.resolveFields(t.Fields, scope)
		r.resolveMethodSignatures(t.Methods, scope)
	case *ast.ImplBlockDef:
		r.resolveType(t.Target, scope)
		r.resolveMethodSignatures(t.Methods, scope)
	case *ast.EnumDef:
		for _, v := range t.Variants {
			r.resolveFields(v.Fields, scope)
		}
		r.resolveMethodSignatures(t.Methods, scope)
	case *ast.AliasDef:
		r.resolveType(t.Aliased, scope)
	}
}

func (r *Resolver) resolveFields(fields []*ast.FieldDecl, scope *Scope) {
	for _, f := range fields {
		r.resolveType(f.Type, scope)
	}
}

func (r *Resolver) resolveMethodSignatures(methods []*ast.MethodDecl, scope *Scope) {
	for _, m := range methods {
		for _, p := range m.Params {
			r.resolvePatternType(p, scope)
		}
		if m.ReturnType != nil {
			r.resolveType(m.ReturnType, scope)
		}
	}
}

func (r *Resolver) resolvePatternType(p *ast.Pattern, scope *Scope) {
	switch p.Kind {
	case ast.PatternTyped:
		r.resolveType(p.Type, scope)
		r.resolvePatternType(p.Inner, scope)
	case ast.PatternSingle:
		if p.Type != nil {
			r.resolveType(p.Type, scope)
		}
	case ast.PatternTuple:
		for _, sub := range p.Elements {
			r.resolvePatternType(sub, scope)
		}
	}
}

// resolveMethodBodies resolves expression bodies of a type-def's methods
// (field/supertype/signature *types* were already captured into the
// TypeRef graph by resolveTypeDefSignatures; bodies are resolved here
// against a child scope with parameter patterns bound as locals).
func (r *Resolver) resolveMethodBodies(td ast.TypeDef, scope *Scope) {
	for _, m := range methodsOf(td) {
		if m.Body == nil {
			continue
		}
		methodScope := scope.Child()
		if !m.IsStatic {
			methodScope.BindLocal(config.SelfParamName)
		}
		bindPatternLocals(m.Params, methodScope)
		r.resolveExpr(m.Body, methodScope)
	}
}

func methodsOf(td ast.TypeDef) []*ast.MethodDecl {
	switch t := td.(type) {
	case *ast.ClassDef:
		return t.Methods
	case *ast.StructDef:
		return t.Methods
	case *ast.ImplBlockDef:
		return t.Methods
	case *ast.EnumDef:
		return t.Methods
	default:
		return nil
	}
}

func bindPatternLocals(params []*ast.Pattern, scope *Scope) {
	for _, p := range params {
		bindPattern(p, scope)
	}
}

func bindPattern(p *ast.Pattern, scope *Scope) {
	switch p.Kind {
	case ast.PatternSingle:
		scope.BindLocal(p.Name)
	case ast.PatternTuple:
		for _, sub := range p.Elements {
			bindPattern(sub, scope)
		}
	case ast.PatternTyped:
		bindPattern(p.Inner, scope)
	}
}
