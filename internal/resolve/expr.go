package resolve

import (
	"github.com/snuggle-lang/snuggle/internal/ast"
	"github.com/snuggle-lang/snuggle/internal/diagnostics"
	"github.com/snuggle-lang/snuggle/internal/types"
)

// resolveExpr walks an expression, recording identifier/receiver
// disambiguation and checking `super` legality (spec §4.1.3, §4.1.4). It
// never builds types.TypeDef values for value expressions — that's the
// typer's job; the resolver only resolves *type references* (field
// annotations, supertypes, generic args) via resolveType.
func (r *Resolver) resolveExpr(e ast.Expr, scope *Scope) {
	switch node := e.(type) {
	case *ast.Block:
		r.resolveBlock(node, scope.Child(), make(map[string]types.TypeDef))
	case *ast.Import:
		r.resolveImport(node, scope)
	case *ast.Literal:
		// no identifiers to resolve
	case *ast.Variable:
		r.result.VariableIsLocal[node] = scope.HasLocal(node.Name)
		if !scope.HasLocal(node.Name) {
			r.Errors.Add(diagnostics.NewResolutionError(diagnostics.ErrRUnknownIdentifier, node.Loc(),
				"unknown identifier: "+node.Name))
		}
	case *ast.FieldAccess:
		r.resolveReceiver(node, node.Receiver, scope)
	case *ast.MethodCall:
		r.resolveMethodCall(node, scope)
	case *ast.SuperKeyword:
		r.Errors.Add(diagnostics.NewResolutionError(diagnostics.ErrRStraySuper, node.Loc(),
			"`super` is only legal as the direct receiver of a method call"))
	case *ast.ConstructorCall:
		r.resolveType(node.Type, scope)
		for _, a := range node.Args {
			r.resolveExpr(a, scope)
		}
	case *ast.RawStructConstructor:
		r.resolveType(node.Type, scope)
		for _, f := range node.Fields {
			r.resolveExpr(f, scope)
		}
	case *ast.Tuple:
		for _, el := range node.Elements {
			r.resolveExpr(el, scope)
		}
	case *ast.Lambda:
		child := scope.Child()
		bindPatternLocals(node.Params, child)
		if node.ReturnType != nil {
			r.resolveType(node.ReturnType, scope)
		}
		r.resolveExpr(node.Body, child)
	case *ast.Declaration:
		r.resolveExpr(node.Value, scope)
		if node.Annotation != nil {
			r.resolveType(node.Annotation, scope)
		}
		bindPattern(node.Pattern, scope)
	case *ast.Assignment:
		r.resolveExpr(node.Target, scope)
		r.resolveExpr(node.Value, scope)
	case *ast.Return:
		if node.Value != nil {
			r.resolveExpr(node.Value, scope)
		}
	case *ast.If:
		r.resolveExpr(node.Cond, scope)
		r.resolveExpr(node.Then, scope)
		if node.Else != nil {
			r.resolveExpr(node.Else, scope)
		}
	case *ast.While:
		r.resolveExpr(node.Cond, scope)
		r.resolveExpr(node.Body, scope)
	case *ast.Paren:
		r.resolveExpr(node.Inner, scope)
	}
}

// resolveMethodCall handles the super-call special case before falling
// back to ordinary receiver disambiguation (spec §4.1.3, §4.1.4).
func (r *Resolver) resolveMethodCall(mc *ast.MethodCall, scope *Scope) {
	if _, isSuper := mc.Receiver.(*ast.SuperKeyword); isSuper {
		r.result.SuperCallSite[mc] = true
	} else {
		r.resolveReceiver(mc, mc.Receiver, scope)
	}
	for _, ga := range mc.GenericArgs {
		r.resolveType(ga, scope)
	}
	for _, a := range mc.Args {
		r.resolveExpr(a, scope)
	}
}

// resolveReceiver implements spec §4.1.3: "if the receiver is a bare
// identifier that names a type in scope, the expression resolves to a
// static field access / method call on that type; otherwise, the receiver
// is resolved as an expression and the node becomes a virtual access /
// call." A name that is both a local and a type name resolves static on
// the clash (see DESIGN.md, Open Question resolution).
func (r *Resolver) resolveReceiver(node ast.Node, receiver ast.Expr, scope *Scope) {
	if v, ok := receiver.(*ast.Variable); ok {
		if bound, found := scope.LookupType(v.Name); found {
			if td, ok := bound.(types.TypeDef); ok {
				r.result.StaticReceiverType[node] = td
			} else {
				r.Errors.Add(diagnostics.NewResolutionError(diagnostics.ErrRUnknownType, v.Loc(),
					"generic type `"+v.Name+"` cannot be used as a receiver without arguments"))
			}
			return
		}
		r.result.VariableIsLocal[v] = scope.HasLocal(v.Name)
		if !scope.HasLocal(v.Name) {
			r.Errors.Add(diagnostics.NewResolutionError(diagnostics.ErrRUnknownIdentifier, v.Loc(),
				"unknown identifier: "+v.Name))
		}
		return
	}
	r.resolveExpr(receiver, scope)
}
