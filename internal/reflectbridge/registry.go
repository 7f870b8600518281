package reflectbridge

import (
	"github.com/snuggle-lang/snuggle/internal/config"
	"github.com/snuggle-lang/snuggle/internal/types"
)

// StandardRegistry is the manually written table of host classes the
// bridge knows about out of the box, standing in for whatever live
// reflection metadata a real JVM-family host would supply. A project's
// snuggle.yaml registry entries (internal/config.ReflectedClassConfig) are
// overlaid by the CLI, through ApplyConfig, onto the spec in this slice
// whose host class they name, before the bridge runs; an entry naming no
// host class here adds no ClassSpec.
func StandardRegistry(b *types.Builtins) []ClassSpec {
	return []ClassSpec{
		consoleSpec(b),
		stringBuilderSpec(b),
	}
}

// consoleSpec models a singleton host console, exercising the
// SnuggleStatic path: every println call fetches the process-wide stream
// via GETSTATIC rather than through a Snuggle-constructed receiver.
func consoleSpec(b *types.Builtins) ClassSpec {
	return ClassSpec{
		HostClass:           "java/io/PrintStream",
		Annotations:         []Annotation{{Name: "SnuggleAllow"}, {Name: "SnuggleStatic"}, {Name: "SnuggleRename", Arg: "Console"}},
		StaticInstanceField: "out",
		Members: []MemberSpec{
			{Name: "println", Params: []types.TypeDef{b.String}, Return: nil},
			{Name: "print", Params: []types.TypeDef{b.String}, Return: nil},
		},
	}
}

// stringBuilderSpec models an ordinary (non-singleton) host class built
// via `new` and called virtually, exercising the field-suppression-free,
// instance-method path.
func stringBuilderSpec(b *types.Builtins) ClassSpec {
	return ClassSpec{
		HostClass:   "java/lang/StringBuilder",
		Annotations: []Annotation{{Name: "SnuggleAllow"}, {Name: "SnuggleRename", Arg: "StringBuilder"}},
		Members: []MemberSpec{
			{Name: "append", Params: []types.TypeDef{b.String}, Return: nil},
			{Name: "toString", Params: nil, Return: b.String},
			{Name: "length", Params: nil, Return: b.Ints["i32"]},
		},
	}
}

// ApplyConfig overlays a snuggle.yaml registry entry onto an in-tree
// ClassSpec: a project can deny members the built-in registry would
// otherwise expose, rename the class or specific members, and pair a
// static-instance field with SnuggleStatic without recompiling the
// registry itself.
func ApplyConfig(spec ClassSpec, cfg config.ReflectedClassConfig) ClassSpec {
	if cfg.As != "" {
		spec.Annotations = withRename(spec.Annotations, cfg.As)
	}
	if cfg.Static {
		spec.Annotations = append(spec.Annotations, Annotation{Name: "SnuggleStatic"})
		spec.StaticInstanceField = cfg.StaticInstanceField
	}
	if cfg.AcknowledgeGenerics {
		spec.Annotations = append(spec.Annotations, Annotation{Name: "SnuggleAcknowledgeGenerics"})
	}
	denied := make(map[string]bool, len(cfg.Deny))
	for _, name := range cfg.Deny {
		denied[name] = true
	}
	members := make([]MemberSpec, 0, len(spec.Members))
	for _, m := range spec.Members {
		if denied[m.Name] {
			m.Annotations = append(m.Annotations, Annotation{Name: "SnuggleDeny"})
		}
		if as, ok := cfg.Rename[m.Name]; ok {
			m.Annotations = withRename(m.Annotations, as)
		}
		members = append(members, m)
	}
	spec.Members = members
	return spec
}

func withRename(anns []Annotation, as string) []Annotation {
	out := make([]Annotation, 0, len(anns)+1)
	for _, a := range anns {
		if a.Name == "SnuggleRename" {
			continue
		}
		out = append(out, a)
	}
	out = append(out, Annotation{Name: "SnuggleRename", Arg: as})
	return out
}
