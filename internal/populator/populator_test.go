package populator

import (
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"unicode"

	"github.com/mmrzaf/mockgen/internal/domain"
	"github.com/mmrzaf/mockgen/internal/generators"
	"github.com/mmrzaf/mockgen/internal/registry"
)

func newTestPopulator(t *testing.T, elementCount int) *TypePopulator {
	t.Helper()
	p, err := NewTypePopulator(registry.DefaultGeneratorRegistry(), elementCount)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func assertSmallInt(t *testing.T, v interface{}) {
	t.Helper()
	n, ok := v.(int)
	if !ok || n < 0 || n >= 100 {
		t.Fatalf("expected int in [0,100), got %#v", v)
	}
}

func assertAlpha5(t *testing.T, v interface{}) {
	t.Helper()
	s, ok := v.(string)
	if !ok || len(s) != 5 {
		t.Fatalf("expected 5 letter string, got %#v", v)
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			t.Fatalf("non letter in %q", s)
		}
	}
}

func TestNewTypePopulator_RejectsNegativeCount(t *testing.T) {
	if _, err := NewTypePopulator(registry.DefaultGeneratorRegistry(), -1); err == nil {
		t.Fatal("expected error for negative element count")
	}
	if _, err := NewTypePopulator(nil, 1); err == nil {
		t.Fatal("expected error for nil registry")
	}
}

func TestPopulate_Primitives(t *testing.T) {
	p := newTestPopulator(t, 3)
	for i := 0; i < 50; i++ {
		v, err := p.Populate(domain.Primitive("int"))
		if err != nil {
			t.Fatal(err)
		}
		assertSmallInt(t, v)

		v, err = p.Populate(domain.Primitive("float"))
		if err != nil {
			t.Fatal(err)
		}
		if f, ok := v.(float64); !ok || f < 0 || f >= 100 {
			t.Fatalf("expected float in [0,100), got %#v", v)
		}

		v, err = p.Populate(domain.Primitive("bool"))
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := v.(bool); !ok {
			t.Fatalf("expected bool, got %#v", v)
		}

		v, err = p.Populate(domain.Primitive("string"))
		if err != nil {
			t.Fatal(err)
		}
		assertAlpha5(t, v)
	}
}

func TestPopulate_ListHasExactLength(t *testing.T) {
	for _, n := range []int{0, 1, 4, 17} {
		p := newTestPopulator(t, n)
		v, err := p.Populate(domain.ListOf(domain.Primitive("int")))
		if err != nil {
			t.Fatal(err)
		}
		list := v.([]interface{})
		if len(list) != n {
			t.Fatalf("expected %d elements, got %d", n, len(list))
		}
		for _, e := range list {
			assertSmallInt(t, e)
		}
	}
}

func TestPopulate_MapAtMostElementCount(t *testing.T) {
	p := newTestPopulator(t, 6)
	v, err := p.Populate(domain.MapOf(domain.Primitive("string"), domain.Primitive("int")))
	if err != nil {
		t.Fatal(err)
	}
	m := v.(*OrderedMap)
	if m.Len() > 6 || m.Len() == 0 {
		t.Fatalf("unexpected map length %d", m.Len())
	}
	for i, k := range m.Keys() {
		assertSmallInt(t, m.Values()[i])
		assertAlpha5(t, k)
	}
}

func TestPopulate_MapKeyCollisionsCollapse(t *testing.T) {
	reg := registry.DefaultGeneratorRegistry()
	reg.Register("same", generators.GeneratorFunc(func(*rand.Rand) (interface{}, error) { return "k", nil }))
	p, err := NewTypePopulator(reg, 5)
	if err != nil {
		t.Fatal(err)
	}
	v, err := p.Populate(domain.MapOf(domain.Primitive("same"), domain.Primitive("int")))
	if err != nil {
		t.Fatal(err)
	}
	if n := v.(*OrderedMap).Len(); n != 1 {
		t.Fatalf("expected colliding keys to collapse to 1 entry, got %d", n)
	}
}

func TestPopulate_CompositeRecord(t *testing.T) {
	p := newTestPopulator(t, 2)
	typ := domain.Composite("Pair",
		domain.Field{Name: "a", Type: domain.Primitive("int")},
		domain.Field{Name: "b", Type: domain.Primitive("string")},
	)
	v, err := p.Populate(typ)
	if err != nil {
		t.Fatal(err)
	}
	rec := v.(*Record)
	if rec.Type != "Pair" || len(rec.Fields) != 2 || rec.Fields[0].Name != "a" || rec.Fields[1].Name != "b" {
		t.Fatalf("unexpected record layout: %#v", rec)
	}
	a, _ := rec.Get("a")
	assertSmallInt(t, a)
	b, _ := rec.Get("b")
	assertAlpha5(t, b)
}

type inner struct {
	X int
}

type outer struct {
	Inner *inner
	Tags  []interface{}
}

func TestPopulate_CompositeWithConstructor(t *testing.T) {
	innerType := CompositeOf[inner]("Inner",
		FieldOf("x", domain.Primitive("int"), func(o *inner, v int) { o.X = v }),
	)
	outerType := CompositeOf[outer]("Outer",
		FieldOf("inner", innerType, func(o *outer, v interface{}) { o.Inner = v.(*inner) }),
		FieldOf("tags", domain.ListOf(domain.Primitive("bool")), func(o *outer, v []interface{}) { o.Tags = v }),
	)

	p := newTestPopulator(t, 3)
	v, err := p.Populate(outerType)
	if err != nil {
		t.Fatal(err)
	}
	o := v.(*outer)
	if o.Inner == nil {
		t.Fatal("expected nested instance")
	}
	if o.Inner.X < 0 || o.Inner.X >= 100 {
		t.Fatalf("nested field out of range: %d", o.Inner.X)
	}
	if len(o.Tags) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(o.Tags))
	}
}

func TestPopulate_UnknownPrimitive(t *testing.T) {
	p := newTestPopulator(t, 1)
	_, err := p.Populate(domain.Composite("Outer", domain.Field{Name: "blob", Type: domain.Primitive("blob")}))
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	var te *TypeError
	if !errors.As(err, &te) || te.Path != "blob" {
		t.Fatalf("expected path blob, got %#v", err)
	}
}

func TestPopulate_UnsupportedParameterized(t *testing.T) {
	p := newTestPopulator(t, 1)
	cases := []*domain.Type{
		domain.Parameterized("set", domain.Primitive("int")),
		domain.GenericOf(domain.Primitive("int")),
		domain.ListOf(domain.GenericOf(domain.Primitive("int"))),
		{Kind: domain.KindMap, Name: "map", Args: []*domain.Type{domain.Primitive("int")}},
	}
	for _, c := range cases {
		if _, err := p.Populate(c); !errors.Is(err, ErrUnsupportedType) {
			t.Fatalf("%s: expected ErrUnsupportedType, got %v", c, err)
		}
	}
}

func TestPopulate_InstantiationError(t *testing.T) {
	typ := domain.Composite("Broken")
	typ.New = func() (interface{}, error) { return nil, errors.New("boom") }

	_, err := newTestPopulator(t, 1).Populate(typ)
	if !errors.Is(err, ErrInstantiation) {
		t.Fatalf("expected ErrInstantiation, got %v", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected cause in message, got %v", err)
	}
}

func TestPopulate_FieldAccessErrors(t *testing.T) {
	p := newTestPopulator(t, 1)

	noSetter := CompositeOf[inner]("Inner", domain.Field{Name: "x", Type: domain.Primitive("int")})
	if _, err := p.Populate(noSetter); !errors.Is(err, ErrFieldAccess) {
		t.Fatalf("expected ErrFieldAccess for missing setter, got %v", err)
	}

	wrongType := CompositeOf[inner]("Inner",
		FieldOf("x", domain.Primitive("string"), func(o *inner, v int) { o.X = v }),
	)
	if _, err := p.Populate(wrongType); !errors.Is(err, ErrFieldAccess) {
		t.Fatalf("expected ErrFieldAccess for type mismatch, got %v", err)
	}
}

func TestUnpackGenericClass(t *testing.T) {
	p := newTestPopulator(t, 1)

	got, err := p.UnpackGenericClass(domain.GenericOf(domain.Primitive("int")))
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != domain.KindPrimitive || got.Name != "int" {
		t.Fatalf("expected int, got %s", got)
	}

	list := domain.ListOf(domain.Primitive("int"))
	got, err = p.UnpackGenericClass(list)
	if err != nil {
		t.Fatal(err)
	}
	if got != list {
		t.Fatal("expected other parameterized types to be returned unchanged")
	}

	nested := domain.GenericOf(domain.GenericOf(domain.Primitive("int")))
	got, _ = p.UnpackGenericClass(nested)
	if got.Kind != domain.KindGeneric {
		t.Fatal("expected only the outer wrapper to be stripped")
	}

	if _, err := p.UnpackGenericClass(domain.Primitive("int")); !errors.Is(err, ErrNotParameterized) {
		t.Fatalf("expected ErrNotParameterized, got %v", err)
	}
}

func TestPopulate_SeededIsReproducible(t *testing.T) {
	p := newTestPopulator(t, 4).WithSeed(99)
	typ := domain.Composite("Row",
		domain.Field{Name: "ids", Type: domain.ListOf(domain.Primitive("int"))},
		domain.Field{Name: "label", Type: domain.Primitive("string")},
	)
	a, err := p.Populate(typ)
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Populate(typ)
	if err != nil {
		t.Fatal(err)
	}
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Fatalf("expected equal output for equal seeds: %s vs %s", ja, jb)
	}
	if a == b {
		t.Fatal("expected distinct instances")
	}
}

func TestPopulate_MaxDepth(t *testing.T) {
	node := domain.Composite("Node")
	node.Fields = []domain.Field{{Name: "next", Type: node}}

	_, err := newTestPopulator(t, 1).WithMaxDepth(8).Populate(node)
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("expected ErrDepthExceeded, got %v", err)
	}
}

func TestPopulate_ConcurrentCallsAreIndependent(t *testing.T) {
	p := newTestPopulator(t, 5)
	typ := domain.Composite("Row",
		domain.Field{Name: "values", Type: domain.ListOf(domain.Primitive("int"))},
	)

	const workers = 16
	results := make([]*Record, workers)
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := p.Populate(typ)
			if err != nil {
				errs <- err
				return
			}
			results[i] = v.(*Record)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	results[0].Fields[0].Value.([]interface{})[0] = -1
	for i := 1; i < workers; i++ {
		if results[i] == results[0] {
			t.Fatal("expected distinct records")
		}
		if results[i].Fields[0].Value.([]interface{})[0] == -1 {
			t.Fatal("mutation leaked across results")
		}
		if n := len(results[i].Fields[0].Value.([]interface{})); n != 5 {
			t.Fatalf("expected 5 values, got %d", n)
		}
	}
}
