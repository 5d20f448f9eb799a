package registry

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/mmrzaf/mockgen/internal/domain"
	"github.com/mmrzaf/mockgen/internal/generators"
)

func TestDefaultGeneratorRegistry_Primitives(t *testing.T) {
	r := DefaultGeneratorRegistry()
	for _, name := range []string{Int, Float, Bool, String, UUID, Name, Word, Email, City, Timestamp} {
		if !r.Has(name) {
			t.Fatalf("expected %q to be registered", name)
		}
	}
	if _, err := r.Get("nope"); err == nil {
		t.Fatal("expected error for unknown generator")
	}

	list := r.List()
	for i := 1; i < len(list); i++ {
		if list[i-1] > list[i] {
			t.Fatalf("expected sorted list, got %v", list)
		}
	}
}

func TestDefaultGeneratorRegistry_TypeBindings(t *testing.T) {
	r := DefaultGeneratorRegistry()
	for _, typ := range []reflect.Type{
		reflect.TypeFor[int](), reflect.TypeFor[uint16](), reflect.TypeFor[float32](),
		reflect.TypeFor[string](), reflect.TypeFor[bool](), reflect.TypeFor[time.Time](),
	} {
		if _, ok := r.Lookup(typ); !ok {
			t.Fatalf("expected binding for %v", typ)
		}
	}
	if _, ok := r.Lookup(reflect.TypeFor[complex64]()); ok {
		t.Fatal("complex64 should not be bound")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	base := DefaultGeneratorRegistry()
	c := base.Clone()
	c.Register("status", &generators.BoolGenerator{})

	if base.Has("status") {
		t.Fatal("registering on a clone leaked into the original")
	}
	if !c.Has("status") || !c.Has(Int) {
		t.Fatal("clone should carry original and new entries")
	}
}

func TestBuildKinds(t *testing.T) {
	r := DefaultGeneratorRegistry()
	gen, err := r.Build(domain.GeneratorSpec{
		Type:   "choice",
		Params: map[string]interface{}{"values": []interface{}{"x"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	v, _ := gen.Generate(rand.New(rand.NewSource(1)))
	if v != "x" {
		t.Fatalf("unexpected value %v", v)
	}

	if _, err := r.Build(domain.GeneratorSpec{Type: "fk"}); err == nil {
		t.Fatal("expected unknown kind error")
	}
	if _, err := r.Build(domain.GeneratorSpec{Type: "uniform_int"}); err == nil {
		t.Fatal("expected params error")
	}
	if len(r.Kinds()) != 5 {
		t.Fatalf("unexpected kinds: %v", r.Kinds())
	}
}
