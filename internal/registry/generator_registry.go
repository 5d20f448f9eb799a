package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmrzaf/mockgen/internal/domain"
	"github.com/mmrzaf/mockgen/internal/generators"
)

// Names of the built-in primitive producers.
const (
	Int       = "int"
	Float     = "float"
	Bool      = "bool"
	String    = "string"
	UUID      = "uuid"
	Name      = "name"
	Word      = "word"
	Email     = "email"
	City      = "city"
	Timestamp = "timestamp"
)

// GeneratorRegistry maps primitive type identifiers to producers, Go types to
// those identifiers, and parameterized generator kinds to their factories.
type GeneratorRegistry struct {
	mu         sync.RWMutex
	generators map[string]generators.Generator
	types      map[reflect.Type]string
	kinds      map[string]generators.Factory
}

func NewGeneratorRegistry() *GeneratorRegistry {
	return &GeneratorRegistry{
		generators: make(map[string]generators.Generator),
		types:      make(map[reflect.Type]string),
		kinds:      make(map[string]generators.Factory),
	}
}

func (r *GeneratorRegistry) Register(name string, gen generators.Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[name] = gen
}

func (r *GeneratorRegistry) Get(name string) (generators.Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("generator not found: %s", name)
	}
	return gen, nil
}

func (r *GeneratorRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.generators[name]
	return ok
}

// List returns the registered primitive names in sorted order.
func (r *GeneratorRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BindType makes values of t come from the primitive registered as name.
func (r *GeneratorRegistry) BindType(t reflect.Type, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t] = name
}

// Lookup resolves the producer bound to a Go type.
func (r *GeneratorRegistry) Lookup(t reflect.Type) (generators.Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.types[t]
	if !ok {
		return nil, false
	}
	gen, ok := r.generators[name]
	return gen, ok
}

func (r *GeneratorRegistry) RegisterKind(kind string, factory generators.Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[kind] = factory
}

func (r *GeneratorRegistry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.kinds))
	for kind := range r.kinds {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Build binds a parameterized generator kind to the params of spec.
func (r *GeneratorRegistry) Build(spec domain.GeneratorSpec) (generators.Generator, error) {
	r.mu.RLock()
	factory, ok := r.kinds[spec.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("generator kind not found: %s", spec.Type)
	}
	return factory(spec.Params)
}

// Clone returns an independent registry with the same entries, so callers
// can add primitives without touching a shared instance.
func (r *GeneratorRegistry) Clone() *GeneratorRegistry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := NewGeneratorRegistry()
	for k, v := range r.generators {
		c.generators[k] = v
	}
	for k, v := range r.types {
		c.types[k] = v
	}
	for k, v := range r.kinds {
		c.kinds[k] = v
	}
	return c
}

func DefaultGeneratorRegistry() *GeneratorRegistry {
	ts, err := generators.NewTimestampGenerator(generators.DefaultTimestampWindow)
	if err != nil {
		panic(err)
	}
	return NewDefaultGeneratorRegistry(ts)
}

// NewDefaultGeneratorRegistry is DefaultGeneratorRegistry with a caller
// supplied timestamp producer.
func NewDefaultGeneratorRegistry(timestamps generators.Generator) *GeneratorRegistry {
	r := NewGeneratorRegistry()
	r.Register(Int, &generators.IntGenerator{})
	r.Register(Float, &generators.FloatGenerator{})
	r.Register(Bool, &generators.BoolGenerator{})
	r.Register(String, &generators.AlphaStringGenerator{})
	r.Register(UUID, &generators.UUID4Generator{})
	r.Register(Name, &generators.FakerNameGenerator{})
	r.Register(Word, &generators.FakerWordGenerator{})
	r.Register(Email, &generators.FakerEmailGenerator{})
	r.Register(City, &generators.CityGenerator{})
	r.Register(Timestamp, timestamps)

	for _, t := range []reflect.Type{
		reflect.TypeFor[int](), reflect.TypeFor[int8](), reflect.TypeFor[int16](),
		reflect.TypeFor[int32](), reflect.TypeFor[int64](),
		reflect.TypeFor[uint](), reflect.TypeFor[uint8](), reflect.TypeFor[uint16](),
		reflect.TypeFor[uint32](), reflect.TypeFor[uint64](),
	} {
		r.BindType(t, Int)
	}
	r.BindType(reflect.TypeFor[float32](), Float)
	r.BindType(reflect.TypeFor[float64](), Float)
	r.BindType(reflect.TypeFor[bool](), Bool)
	r.BindType(reflect.TypeFor[string](), String)
	r.BindType(reflect.TypeFor[time.Time](), Timestamp)
	r.BindType(reflect.TypeFor[uuid.UUID](), UUID)

	r.RegisterKind("const", generators.NewConstGenerator)
	r.RegisterKind("choice", generators.NewChoiceGenerator)
	r.RegisterKind("uniform_int", generators.NewUniformIntGenerator)
	r.RegisterKind("uniform_float", generators.NewUniformFloatGenerator)
	r.RegisterKind("normal", generators.NewNormalGenerator)
	return r
}
