// Package catalog compiles a schema into type descriptors the populator can
// walk, together with a registry that knows the schema's own primitives.
package catalog

import (
	"fmt"

	"github.com/mmrzaf/mockgen/internal/domain"
	"github.com/mmrzaf/mockgen/internal/registry"
	"github.com/mmrzaf/mockgen/internal/typeexpr"
)

type Catalog struct {
	schema   *domain.Schema
	registry *registry.GeneratorRegistry
	types    map[string]*domain.Type
}

// Build leaves base untouched; schema primitives go into a clone of it.
// Field types may refer to types declared later in the schema.
func Build(schema *domain.Schema, base *registry.GeneratorRegistry) (*Catalog, error) {
	reg := base.Clone()
	for _, prim := range schema.Primitives {
		gen, err := reg.Build(prim.Generator)
		if err != nil {
			return nil, fmt.Errorf("primitive '%s': %w", prim.Name, err)
		}
		reg.Register(prim.Name, gen)
	}

	c := &Catalog{
		schema:   schema,
		registry: reg,
		types:    make(map[string]*domain.Type, len(schema.Types)),
	}
	for _, td := range schema.Types {
		c.types[td.Name] = domain.Composite(td.Name)
	}

	for _, td := range schema.Types {
		t := c.types[td.Name]
		for _, fd := range td.Fields {
			ft, err := c.Resolve(fd.Type)
			if err != nil {
				return nil, fmt.Errorf("type '%s', field '%s': %w", td.Name, fd.Name, err)
			}
			t.Fields = append(t.Fields, domain.Field{Name: fd.Name, Type: ft})
		}
	}

	return c, nil
}

// Resolve parses expr against the schema's types. Names that are not schema
// types become primitives, whether or not a producer exists for them.
func (c *Catalog) Resolve(expr string) (*domain.Type, error) {
	e, err := typeexpr.Parse(expr)
	if err != nil {
		return nil, err
	}
	return c.convert(e), nil
}

func (c *Catalog) convert(e *typeexpr.Expr) *domain.Type {
	if len(e.Args) == 0 {
		if t, ok := c.types[e.Name]; ok {
			return t
		}
		return domain.Primitive(e.Name)
	}

	args := make([]*domain.Type, len(e.Args))
	for i, a := range e.Args {
		args[i] = c.convert(a)
	}

	switch e.Name {
	case domain.ShapeList:
		return &domain.Type{Kind: domain.KindList, Name: e.Name, Args: args}
	case domain.ShapeMap:
		return &domain.Type{Kind: domain.KindMap, Name: e.Name, Args: args}
	case domain.ShapeGeneric:
		return &domain.Type{Kind: domain.KindGeneric, Name: e.Name, Args: args}
	default:
		return domain.Parameterized(e.Name, args...)
	}
}

func (c *Catalog) Type(name string) (*domain.Type, bool) {
	t, ok := c.types[name]
	return t, ok
}

func (c *Catalog) Registry() *registry.GeneratorRegistry { return c.registry }

func (c *Catalog) Schema() *domain.Schema { return c.schema }
