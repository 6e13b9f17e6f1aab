package event

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/mudlark/internal/event/topic"
)

func testDef(name topic.Topic) Definition {
	return Definition{
		Name:           name,
		Description:    "test event",
		Producer:       "test",
		Consumers:      []string{"a", "b"},
		PayloadVersion: 1,
	}
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(testDef("mudlark.test.fired")); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if !reg.Has("mudlark.test.fired") {
		t.Error("expected Has() to be true after registration")
	}
	if reg.Has("mudlark.test.other") {
		t.Error("expected Has() to be false for unregistered name")
	}
}

func TestRegistry_Register_IdempotentIdentical(t *testing.T) {
	reg := NewRegistry()

	def := testDef("mudlark.test.fired")
	if err := reg.Register(def); err != nil {
		t.Fatalf("first Register() failed: %v", err)
	}
	if err := reg.Register(def); err != nil {
		t.Errorf("identical re-registration should be a no-op, got %v", err)
	}
	if reg.Count() != 1 {
		t.Errorf("Count() = %d, want 1", reg.Count())
	}
}

func TestRegistry_Register_Conflict(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(testDef("mudlark.test.fired")); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	changed := testDef("mudlark.test.fired")
	changed.Description = "different"
	if err := reg.Register(changed); !errors.Is(err, ErrDefinitionConflict) {
		t.Errorf("expected ErrDefinitionConflict, got %v", err)
	}
}

func TestRegistry_Register_RejectsForeignNamespace(t *testing.T) {
	names := []topic.Topic{"who.updated", "", "mudlark", "other.who.updated", "mudlark..bad"}

	for _, name := range names {
		reg := NewRegistry()
		if err := reg.Register(testDef(name)); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Register(%q): expected ErrInvalidName, got %v", name, err)
		}
		if reg.Count() != 0 {
			t.Errorf("Register(%q) mutated the registry", name)
		}
	}
}

func TestRegistry_Help(t *testing.T) {
	reg := NewRegistry()
	def := testDef("mudlark.test.fired")
	if err := reg.Register(def); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	got, err := reg.Help("mudlark.test.fired")
	if err != nil {
		t.Fatalf("Help() failed: %v", err)
	}
	if got.Description != def.Description || got.Producer != def.Producer {
		t.Errorf("Help() = %+v, want %+v", got, def)
	}

	if _, err := reg.Help("mudlark.test.missing"); !errors.Is(err, ErrDefinitionNotFound) {
		t.Errorf("expected ErrDefinitionNotFound, got %v", err)
	}
}

func TestRegistry_All_RegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	names := []topic.Topic{"mudlark.c.x", "mudlark.a.y", "mudlark.b.z"}
	for _, n := range names {
		if err := reg.Register(testDef(n)); err != nil {
			t.Fatalf("Register(%q) failed: %v", n, err)
		}
	}

	all := reg.All()
	if len(all) != len(names) {
		t.Fatalf("All() returned %d defs, want %d", len(all), len(names))
	}
	for i, def := range all {
		if def.Name != names[i] {
			t.Errorf("All()[%d] = %q, want %q (registration order)", i, def.Name, names[i])
		}
	}
}

func TestRegistry_Markdown(t *testing.T) {
	reg := NewRegistry()
	def := testDef("mudlark.test.fired")
	def.Description = "something happened"
	if err := reg.Register(def); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	md := reg.Markdown()
	for _, want := range []string{"## mudlark.test.fired", "something happened", "Producer: test", "a, b"} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown() missing %q:\n%s", want, md)
		}
	}

	// Stable output: two renders must be identical.
	if md != reg.Markdown() {
		t.Error("Markdown() output is not stable")
	}
}
