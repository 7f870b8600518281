package resolve

import (
	"github.com/snuggle-lang/snuggle/internal/ast"
	"github.com/snuggle-lang/snuggle/internal/diagnostics"
	"github.com/snuggle-lang/snuggle/internal/types"
)

// resolveImport implements spec §4.1.2: "the first import of a file
// computes that file's public members using an identity-keyed cache;
// subsequent imports read from the cache." The exposed types become
// visible to later siblings of the importing block (Phase B), not to
// siblings before the import (spec §8 scenario 5).
func (r *Resolver) resolveImport(imp *ast.Import, scope *Scope) {
	cached, ok := r.fileCache[imp.Path]
	if !ok {
		cached = r.loadAndResolveFile(imp.Path)
		r.fileCache[imp.Path] = cached
	}
	if cached.err != nil {
		r.Errors.Add(diagnostics.NewResolutionError(diagnostics.ErrRMissingImport, imp.Loc(),
			"missing imported file: "+imp.Path))
		return
	}
	for name, td := range cached.exposed {
		scope.BindType(name, td)
	}
	r.visitedFile[imp.Path] = true
}

func (r *Resolver) loadAndResolveFile(path string) *fileMembers {
	file, err := r.Loader.Load(path)
	if err != nil {
		return &fileMembers{err: err}
	}
	importScope := NewScope(nil)
	for name, td := range r.builtinScope() {
		importScope.BindType(name, td)
	}
	exposed := make(map[string]types.TypeDef)
	r.resolveBlock(file.Top, importScope, exposed)
	return &fileMembers{exposed: exposed}
}
