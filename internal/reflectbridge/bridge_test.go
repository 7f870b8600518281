package reflectbridge

import (
	"strings"
	"testing"

	"github.com/snuggle-lang/snuggle/internal/types"
	"github.com/google/uuid"
	"golang.org/x/tools/txtar"
)

func TestBridge_SingletonClassSynthesizesStaticMethods(t *testing.T) {
	b := types.NewBuiltins()
	bridge := NewBridge()
	r := bridge.Build(consoleSpec(b))
	if bridge.Errors.HasErrors() {
		t.Fatalf("unexpected errors: %v", bridge.Errors.Errors)
	}
	if r == nil {
		t.Fatal("expected a built Reflected, got nil")
	}
	if r.Name() != "Console" {
		t.Errorf("name = %q, want Console (SnuggleRename)", r.Name())
	}
	if len(r.Fields()) != 0 {
		t.Errorf("singleton class exposed %d fields, want 0", len(r.Fields()))
	}
	for _, m := range r.Methods() {
		if !m.IsStatic {
			t.Errorf("method %s on singleton class is not Snuggle-static", m.Name)
		}
	}
}

func TestBridge_InstanceClassExposesVirtualMethods(t *testing.T) {
	b := types.NewBuiltins()
	bridge := NewBridge()
	r := bridge.Build(stringBuilderSpec(b))
	if bridge.Errors.HasErrors() {
		t.Fatalf("unexpected errors: %v", bridge.Errors.Errors)
	}
	found := false
	for _, m := range r.Methods() {
		if m.Name == "append" {
			found = true
			if m.IsStatic {
				t.Error("append should be a virtual (non-static) method")
			}
		}
	}
	if !found {
		t.Fatal("append method not synthesized")
	}
}

func TestBridge_GenericClassWithoutAcknowledgementIsRefused(t *testing.T) {
	bridge := NewBridge()
	spec := ClassSpec{
		HostClass:      "java/util/List",
		Annotations:    []Annotation{{Name: "SnuggleAllow"}},
		TypeParamCount: 1,
	}
	r := bridge.Build(spec)
	if r != nil {
		t.Fatal("expected nil Reflected for unacknowledged generic host class")
	}
	if !bridge.Errors.HasErrors() {
		t.Fatal("expected a recorded diagnostic")
	}
}

func TestBridge_StaticFieldMismatchIsRejected(t *testing.T) {
	bridge := NewBridge()
	// SnuggleStatic without a paired static-instance field.
	spec := ClassSpec{
		HostClass:   "java/lang/System",
		Annotations: []Annotation{{Name: "SnuggleAllow"}, {Name: "SnuggleStatic"}},
	}
	if r := bridge.Build(spec); r != nil {
		t.Fatal("expected nil Reflected for SnuggleStatic with no static-instance field")
	}
	if !bridge.Errors.HasErrors() {
		t.Fatal("expected a recorded diagnostic")
	}
}

// hostObjectFixture stands in for a distinguishable placeholder host
// object in bridge fixtures that need more than one instance of the same
// reflected class — a random identifier stamps each one uniquely so a
// test can assert the bridge never conflates two singleton instances.
type hostObjectFixture struct {
	ID    uuid.UUID
	Class string
}

func newHostObjectFixture(class string) hostObjectFixture {
	return hostObjectFixture{ID: uuid.New(), Class: class}
}

func TestBridge_DistinctFixtureInstancesGetDistinctIdentities(t *testing.T) {
	a := newHostObjectFixture("java/io/PrintStream")
	c := newHostObjectFixture("java/io/PrintStream")
	if a.ID == c.ID {
		t.Fatal("two independently minted fixtures collided on identity")
	}
}

// registryArchive is a txtar-encoded multi-file fixture describing a
// miniature host-class registry in a readable, diffable form, used by
// TestParseRegistryArchive to check that the archive holds two fixtures,
// each a host class line followed by at least one annotation line; no
// ClassSpec is built from it.
const registryArchive = `
-- console.class --
java/io/PrintStream
SnuggleAllow
SnuggleStatic
-- stringbuilder.class --
java/lang/StringBuilder
SnuggleAllow
`

func TestParseRegistryArchive(t *testing.T) {
	arc := txtar.Parse([]byte(registryArchive))
	if len(arc.Files) != 2 {
		t.Fatalf("got %d files, want 2", len(arc.Files))
	}
	for _, f := range arc.Files {
		lines := strings.Split(strings.TrimSpace(string(f.Data)), "\n")
		if len(lines) < 2 {
			t.Errorf("fixture %s: expected a host class line plus at least one annotation", f.Name)
		}
	}
}
