package lower

import (
	"github.com/snuggle-lang/snuggle/internal/types"
)

// leaf is one independently addressable storage unit of a (possibly
// nested) plural value: Path is the field-name chain from the plural
// root down to this leaf, and Type is always itself non-plural (spec's
// invariant that a plural value is never placed on the stack as one word
// means leaves, by construction, bottom out at a non-plural TypeDef).
type leaf struct {
	Path []string
	Type types.TypeDef
}

// leavesOf flattens t into its ordered leaf sequence. A non-plural t is
// its own single leaf with an empty path; a plural t recurses field by
// field, in field order, concatenating each field's own leaf paths onto
// its name.
func leavesOf(t types.TypeDef) []leaf {
	u := types.Underlying(t)
	if !u.IsPlural() {
		return []leaf{{Type: u}}
	}
	var out []leaf
	for _, f := range nonStaticFields(u) {
		for _, sub := range leavesOf(f.Type) {
			path := make([]string, 0, len(sub.Path)+1)
			path = append(path, f.RuntimeName)
			path = append(path, sub.Path...)
			out = append(out, leaf{Path: path, Type: sub.Type})
		}
	}
	return out
}

func nonStaticFields(t types.TypeDef) []*types.Field {
	all := t.Fields()
	out := make([]*types.Field, 0, len(all))
	for _, f := range all {
		if !f.IsStatic {
			out = append(out, f)
		}
	}
	return out
}

// pathHasPrefix reports whether path starts with prefix; an empty prefix
// matches everything, realizing "every leaf if the path is empty" (spec
// §4.3).
func pathHasPrefix(path, prefix []string) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i, seg := range prefix {
		if path[i] != seg {
			return false
		}
	}
	return true
}

// selectLeaves keeps every leaf whose path starts with desired.
func selectLeaves(all []leaf, desired []string) []leaf {
	if len(desired) == 0 {
		return all
	}
	var out []leaf
	for _, lf := range all {
		if pathHasPrefix(lf.Path, desired) {
			out = append(out, lf)
		}
	}
	return out
}

func descriptorOf(t types.TypeDef) string {
	d := types.Underlying(t).Descriptor()
	if len(d) == 0 {
		return ""
	}
	return d[0]
}

func descriptorsOf(ts []types.TypeDef) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = descriptorOf(t)
	}
	return out
}

// optionalDescriptor is descriptorOf except a void-like return ("" or a
// nil TypeDef) is reported as "" rather than a basic descriptor, matching
// the IR's Return/MethodCall convention of an empty ReturnType for void.
func optionalDescriptor(t types.TypeDef) string {
	if t == nil {
		return ""
	}
	return descriptorOf(t)
}

func runtimeNameOf(t types.TypeDef) string {
	return types.Underlying(t).RuntimeName()
}
