// Package populator fabricates randomly populated instances of arbitrary
// types for test fixtures.
//
// Two front ends share one dispatch policy. Populate walks explicit
// *domain.Type descriptors; PopulateType walks Go types through reflection.
// In both, containers get ElementCount independently generated elements,
// registered primitives get a value from their producer, and composites get
// every declared field populated recursively.
//
// Population has no cycle detection. A composite that contains itself recurses
// until the stack is exhausted unless WithMaxDepth sets a limit.
package populator

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/mmrzaf/mockgen/internal/domain"
	"github.com/mmrzaf/mockgen/internal/registry"
)

type TypePopulator struct {
	registry     *registry.GeneratorRegistry
	elementCount int
	seed         *int64
	maxDepth     int
}

func NewTypePopulator(reg *registry.GeneratorRegistry, elementCount int) (*TypePopulator, error) {
	if reg == nil {
		return nil, errors.New("generator registry is required")
	}
	if elementCount < 0 {
		return nil, fmt.Errorf("element count must be >= 0, got %d", elementCount)
	}
	return &TypePopulator{registry: reg, elementCount: elementCount}, nil
}

func (p *TypePopulator) ElementCount() int { return p.elementCount }

// WithSeed returns a copy whose every call draws from a source seeded with
// seed, so repeated calls for one type yield equal values.
func (p *TypePopulator) WithSeed(seed int64) *TypePopulator {
	c := *p
	c.seed = &seed
	return &c
}

// WithMaxDepth returns a copy that fails with ErrDepthExceeded below n levels
// of nesting. Zero means no limit.
func (p *TypePopulator) WithMaxDepth(n int) *TypePopulator {
	c := *p
	if n < 0 {
		n = 0
	}
	c.maxDepth = n
	return &c
}

// run carries the state of one populate call.
type run struct {
	*TypePopulator
	rng *rand.Rand
}

func (p *TypePopulator) newRun() *run {
	return &run{TypePopulator: p, rng: p.newRand()}
}

// Populate returns a fresh instance of t. Lists come back as []interface{},
// maps as *OrderedMap, composites without a constructor as *Record.
func (p *TypePopulator) Populate(t *domain.Type) (interface{}, error) {
	return p.newRun().populate(t, "", 0)
}

// UnpackGenericClass strips one generic wrapper: generic<T> becomes T, any
// other parameterized type is returned unchanged. Calling it with a type that
// is not parameterized is a caller error.
func (p *TypePopulator) UnpackGenericClass(t *domain.Type) (*domain.Type, error) {
	if t == nil || !t.IsParameterized() {
		return nil, newTypeError(ErrNotParameterized, t.String(), "", nil)
	}
	if t.Kind != domain.KindGeneric {
		return t, nil
	}
	if len(t.Args) != 1 {
		return nil, newTypeError(ErrUnsupportedType, t.String(), "", fmt.Errorf("generic takes 1 type argument, got %d", len(t.Args)))
	}
	return t.Args[0], nil
}

func (r *run) populate(t *domain.Type, path string, depth int) (interface{}, error) {
	if t == nil {
		return nil, newTypeError(ErrUnsupportedType, "<nil>", path, nil)
	}
	if r.maxDepth > 0 && depth > r.maxDepth {
		return nil, newTypeError(ErrDepthExceeded, t.String(), path, fmt.Errorf("limit is %d", r.maxDepth))
	}

	if t.IsParameterized() {
		switch t.Kind {
		case domain.KindList:
			return r.populateList(t, path, depth)
		case domain.KindMap:
			return r.populateMap(t, path, depth)
		default:
			return nil, newTypeError(ErrUnsupportedType, t.String(), path, nil)
		}
	}

	switch t.Kind {
	case domain.KindPrimitive:
		return r.generate(t, path)
	case domain.KindComposite:
		return r.populateComposite(t, path, depth)
	default:
		return nil, newTypeError(ErrUnsupportedType, t.String(), path, fmt.Errorf("unknown kind %q", t.Kind))
	}
}

func (r *run) generate(t *domain.Type, path string) (interface{}, error) {
	gen, err := r.registry.Get(t.Name)
	if err != nil {
		return nil, newTypeError(ErrUnknownType, t.Name, path, err)
	}
	v, err := gen.Generate(r.rng)
	if err != nil {
		return nil, newTypeError(ErrGenerator, t.Name, path, err)
	}
	return v, nil
}

func (r *run) populateList(t *domain.Type, path string, depth int) (interface{}, error) {
	if len(t.Args) != 1 {
		return nil, newTypeError(ErrUnsupportedType, t.String(), path, fmt.Errorf("list takes 1 type argument, got %d", len(t.Args)))
	}
	out := make([]interface{}, 0, r.elementCount)
	for i := 0; i < r.elementCount; i++ {
		v, err := r.populate(t.Args[0], indexPath(path, i), depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// populateMap puts elementCount independently generated entries. Keys that
// collide overwrite the earlier value, so the result may be shorter.
func (r *run) populateMap(t *domain.Type, path string, depth int) (interface{}, error) {
	if len(t.Args) != 2 {
		return nil, newTypeError(ErrUnsupportedType, t.String(), path, fmt.Errorf("map takes 2 type arguments, got %d", len(t.Args)))
	}
	out := NewOrderedMap()
	for i := 0; i < r.elementCount; i++ {
		entry := indexPath(path, i)
		k, err := r.populate(t.Args[0], fieldPath(entry, "key"), depth+1)
		if err != nil {
			return nil, err
		}
		v, err := r.populate(t.Args[1], fieldPath(entry, "value"), depth+1)
		if err != nil {
			return nil, err
		}
		out.Set(k, v)
	}
	return out, nil
}

func (r *run) populateComposite(t *domain.Type, path string, depth int) (interface{}, error) {
	if t.New == nil {
		rec := &Record{Type: t.Name, Fields: make([]RecordField, 0, len(t.Fields))}
		for _, f := range t.Fields {
			v, err := r.populate(f.Type, fieldPath(path, f.Name), depth+1)
			if err != nil {
				return nil, err
			}
			rec.Fields = append(rec.Fields, RecordField{Name: f.Name, Value: v})
		}
		return rec, nil
	}

	instance, err := t.New()
	if err != nil {
		return nil, newTypeError(ErrInstantiation, t.Name, path, err)
	}
	if instance == nil {
		return nil, newTypeError(ErrInstantiation, t.Name, path, errors.New("constructor returned nil"))
	}

	for _, f := range t.Fields {
		fp := fieldPath(path, f.Name)
		if f.Set == nil {
			return nil, newTypeError(ErrFieldAccess, t.Name, fp, errors.New("field has no setter"))
		}
		v, err := r.populate(f.Type, fp, depth+1)
		if err != nil {
			return nil, err
		}
		if err := f.Set(instance, v); err != nil {
			return nil, newTypeError(ErrFieldAccess, t.Name, fp, err)
		}
	}
	return instance, nil
}

// CompositeOf describes a Go struct T whose instances are built with new(T)
// and filled through the setters of fields.
func CompositeOf[T any](name string, fields ...domain.Field) *domain.Type {
	t := domain.Composite(name, fields...)
	t.New = func() (interface{}, error) {
		return new(T), nil
	}
	return t
}

// FieldOf builds a field of the composite T whose populated value has type V.
func FieldOf[T, V any](name string, typ *domain.Type, set func(*T, V)) domain.Field {
	return domain.Field{
		Name: name,
		Type: typ,
		Set: func(instance, value interface{}) error {
			obj, ok := instance.(*T)
			if !ok {
				return fmt.Errorf("instance is %T, want %T", instance, obj)
			}
			v, ok := value.(V)
			if !ok {
				return fmt.Errorf("value %T is not assignable to %s", value, reflectName[V]())
			}
			set(obj, v)
			return nil
		},
	}
}
