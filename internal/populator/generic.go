package populator

import (
	"reflect"
	"strings"
)

// Generic marks "a T": UnpackGenericType replaces Generic[T] with T so callers
// can describe a wrapped type and receive a populated T.
type Generic[T any] struct{}

// InnerType returns T.
func (Generic[T]) InnerType() reflect.Type {
	return reflect.TypeFor[T]()
}

type genericMarker interface {
	InnerType() reflect.Type
}

var genericPkgPath = reflect.TypeFor[Generic[int]]().PkgPath()

// UnpackGenericType strips one Generic wrapper. Container types and other
// instantiated generic types are returned unchanged; any other type is a
// caller error.
func (p *TypePopulator) UnpackGenericType(t reflect.Type) (reflect.Type, error) {
	if t == nil || !isParameterizedType(t) {
		name := "<nil>"
		if t != nil {
			name = t.String()
		}
		return nil, newTypeError(ErrNotParameterized, name, "", nil)
	}
	if isGenericMarker(t) {
		return reflect.Zero(t).Interface().(genericMarker).InnerType(), nil
	}
	return t, nil
}

func isGenericMarker(t reflect.Type) bool {
	return t.Kind() == reflect.Struct &&
		t.PkgPath() == genericPkgPath &&
		strings.HasPrefix(t.Name(), "Generic[")
}

// isGenericInstance reports whether t is an instantiation of a generic named
// type, whose name carries its type arguments.
func isGenericInstance(t reflect.Type) bool {
	return strings.Contains(t.Name(), "[")
}

func isParameterizedType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return true
	default:
		return isGenericInstance(t)
	}
}
