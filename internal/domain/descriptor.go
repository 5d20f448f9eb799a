package domain

import "strings"

// Kind is the shape of a type descriptor.
type Kind string

const (
	KindPrimitive     Kind = "primitive"
	KindList          Kind = "list"
	KindMap           Kind = "map"
	KindGeneric       Kind = "generic"
	KindParameterized Kind = "parameterized"
	KindComposite     Kind = "composite"
)

// Raw shape names used by type expressions.
const (
	ShapeList    = "list"
	ShapeMap     = "map"
	ShapeGeneric = "generic"
)

// Type describes what to generate. Composite types may reference each other
// through pointers, so a descriptor graph can be cyclic.
type Type struct {
	Kind   Kind
	Name   string
	Args   []*Type
	Fields []Field

	// New constructs an empty instance of a composite type. When nil the
	// populator builds a generic record instead.
	New func() (interface{}, error)
}

// Field is one declared field of a composite type. Set assigns a populated
// value into an instance created by the composite's New.
type Field struct {
	Name string
	Type *Type
	Set  func(instance, value interface{}) error
}

func Primitive(name string) *Type {
	return &Type{Kind: KindPrimitive, Name: name}
}

func ListOf(elem *Type) *Type {
	return &Type{Kind: KindList, Name: ShapeList, Args: []*Type{elem}}
}

func MapOf(key, value *Type) *Type {
	return &Type{Kind: KindMap, Name: ShapeMap, Args: []*Type{key, value}}
}

func GenericOf(inner *Type) *Type {
	return &Type{Kind: KindGeneric, Name: ShapeGeneric, Args: []*Type{inner}}
}

// Parameterized describes a container shape the populator has no rule for.
func Parameterized(shape string, args ...*Type) *Type {
	return &Type{Kind: KindParameterized, Name: shape, Args: args}
}

func Composite(name string, fields ...Field) *Type {
	return &Type{Kind: KindComposite, Name: name, Fields: fields}
}

func (t *Type) IsParameterized() bool {
	switch t.Kind {
	case KindList, KindMap, KindGeneric, KindParameterized:
		return true
	default:
		return false
	}
}

// String renders the descriptor as a type expression. Composite types print
// their name only, which keeps cyclic graphs printable.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	if !t.IsParameterized() {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Name + "<" + strings.Join(args, ",") + ">"
}
