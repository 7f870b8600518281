// Package reflectbridge implements the reflected-type bridge (spec §4.4):
// it turns annotated host-language classes into types.Reflected shapes and
// synthesizes the BytecodeMethodDef bodies that emit their invocation
// sequences. The target has no JVM to reflect into at compile time, so the
// bridge consumes a manually written registry instead of live reflection —
// exactly the "build-time registry" spec §9's Design Notes prescribe for a
// reflection-less host.
package reflectbridge

import (
	"strings"

	"github.com/snuggle-lang/snuggle/internal/config"
	"github.com/snuggle-lang/snuggle/internal/diagnostics"
	"github.com/snuggle-lang/snuggle/internal/types"
)

// Annotation is one host-class or host-member tag recognized by the bridge.
// SnuggleRename carries its argument in Arg; the rest ignore it.
type Annotation struct {
	Name string
	Arg  string
}

// MemberSpec describes one host method or field before annotation
// processing narrows it down to what's actually exposed.
type MemberSpec struct {
	Name        string
	IsStatic    bool
	IsField     bool
	Params      []types.TypeDef
	Return      types.TypeDef
	Annotations []Annotation
}

// ClassSpec is one entry of the host-class registry.
type ClassSpec struct {
	HostClass   string // fully-qualified, slash-mangled
	Annotations []Annotation
	Members     []MemberSpec
	Supertype   types.TypeDef

	// StaticInstanceField names the well-known static field a SnuggleStatic
	// class's singleton instance lives in (the "object-index" pairing spec
	// §4.4's invariants require).
	StaticInstanceField string
	TypeParamCount       int
}

// Bridge builds types.Reflected shapes from ClassSpecs, enforcing spec
// §4.4's invariants and synthesizing method bodies for every allowed
// member.
type Bridge struct {
	Errors *diagnostics.List
}

func NewBridge() *Bridge {
	return &Bridge{Errors: &diagnostics.List{}}
}

func findAnnotation(anns []Annotation, name string) (Annotation, bool) {
	for _, a := range anns {
		if a.Name == name {
			return a, true
		}
	}
	return Annotation{}, false
}

// Build turns one ClassSpec into a *types.Reflected. It returns nil if the
// class has no SnuggleAllow at the class or member level (nothing to
// expose) or if an invariant is violated; in the latter case a diagnostic
// is recorded in b.Errors.
func (b *Bridge) Build(spec ClassSpec) *types.Reflected {
	_, classAllowed := findAnnotation(spec.Annotations, config.AnnotationAllow)
	if !classAllowed && !b.anyMemberAllowed(spec) {
		return nil
	}

	if spec.TypeParamCount > 0 {
		if _, ok := findAnnotation(spec.Annotations, config.AnnotationAcknowledgeGenerics); !ok {
			b.Errors.Add(diagnostics.NewBridgeError(diagnostics.ErrBGenericsNotAcknowledged,
				"host class "+spec.HostClass+" has type parameters but is not SnuggleAcknowledgeGenerics"))
			return nil
		}
	}

	_, isSingleton := findAnnotation(spec.Annotations, config.AnnotationStatic)
	if isSingleton && spec.StaticInstanceField == "" {
		b.Errors.Add(diagnostics.NewBridgeError(diagnostics.ErrBStaticFieldMismatch,
			"host class "+spec.HostClass+" is SnuggleStatic but names no static-instance field"))
		return nil
	}
	if !isSingleton && spec.StaticInstanceField != "" {
		b.Errors.Add(diagnostics.NewBridgeError(diagnostics.ErrBStaticFieldMismatch,
			"host class "+spec.HostClass+" names a static-instance field but is not SnuggleStatic"))
		return nil
	}

	r := &types.Reflected{
		NameVal:      classVisibleName(spec),
		HostClassVal: spec.HostClass,
		SupertypeVal: spec.Supertype,
	}
	if isSingleton {
		r.StaticInstanceField = spec.StaticInstanceField
	}

	for _, m := range spec.Members {
		if _, denied := findAnnotation(m.Annotations, config.AnnotationDeny); denied {
			continue
		}
		_, memberAllowed := findAnnotation(m.Annotations, config.AnnotationAllow)
		if !classAllowed && !memberAllowed {
			continue
		}
		if m.IsField {
			// Fields are not exposed for singleton classes (spec §4.4's
			// "current restriction").
			if !isSingleton {
				r.FieldsVal = append(r.FieldsVal, b.buildField(m))
			}
			continue
		}
		r.MethodsVal = append(r.MethodsVal, b.buildMethod(spec, m, isSingleton, r))
	}
	return r
}

func (b *Bridge) anyMemberAllowed(spec ClassSpec) bool {
	for _, m := range spec.Members {
		if _, ok := findAnnotation(m.Annotations, config.AnnotationAllow); ok {
			return true
		}
	}
	return false
}

func classVisibleName(spec ClassSpec) string {
	if a, ok := findAnnotation(spec.Annotations, config.AnnotationRename); ok {
		return a.Arg
	}
	if i := strings.LastIndexByte(spec.HostClass, '/'); i >= 0 {
		return spec.HostClass[i+1:]
	}
	return spec.HostClass
}

func memberVisibleName(m MemberSpec) string {
	if a, ok := findAnnotation(m.Annotations, config.AnnotationRename); ok {
		return a.Arg
	}
	return m.Name
}

func (b *Bridge) buildField(m MemberSpec) *types.Field {
	return &types.Field{
		Name: memberVisibleName(m), RuntimeName: m.Name, Type: m.Return, IsStatic: m.IsStatic,
	}
}

// buildMethod synthesizes a BytecodeMethodDef per spec §4.4's "Method
// synthesis": in singleton mode, a non-static host method's emitted body
// first GETSTATICs the runtime class's static-instance field to obtain a
// receiver the Snuggle caller never pushes, then every method INVOKESTATICs
// or INVOKEVIRTUALs the host method under its own descriptor. Singleton
// mode makes every synthesized method static at the Snuggle level — there
// is no Snuggle-constructed instance to be virtual on.
func (b *Bridge) buildMethod(spec ClassSpec, m MemberSpec, isSingleton bool, owner types.TypeDef) *types.Method {
	hostClass := spec.HostClass
	staticField := spec.StaticInstanceField
	runtimeName := m.Name
	hostStatic := m.IsStatic
	emit := func(sink types.InstructionSink, _ types.TypeDef, _ []types.TypeDef) {
		if isSingleton && !hostStatic {
			sink.Emit("GETSTATIC", hostClass, staticField)
		}
		if hostStatic {
			sink.Emit("INVOKESTATIC", hostClass, runtimeName)
		} else {
			sink.Emit("INVOKEVIRTUAL", hostClass, runtimeName)
		}
	}
	return &types.Method{
		Kind: types.MethodBytecode, Name: memberVisibleName(m), RuntimeName: runtimeName,
		Params: m.Params, Return: m.Return, IsStatic: isSingleton || hostStatic,
		Owner: owner, BytecodeEmitter: emit,
	}
}
