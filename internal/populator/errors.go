package populator

import (
	"errors"
	"strconv"
)

// Failure kinds. A populate call stops at the first failure and returns a
// *TypeError whose Kind is one of these; test with errors.Is.
var (
	ErrUnknownType      = errors.New("unknown type")
	ErrUnsupportedType  = errors.New("unsupported type")
	ErrInstantiation    = errors.New("instantiation failed")
	ErrFieldAccess      = errors.New("field access failed")
	ErrNotParameterized = errors.New("type is not parameterized")
	ErrGenerator        = errors.New("generator failed")
	ErrDepthExceeded    = errors.New("max depth exceeded")
)

// TypeError reports where population failed. Path is the dotted field path
// from the root instance, empty for the root itself.
type TypeError struct {
	Kind error
	Type string
	Path string
	Err  error
}

func (e *TypeError) Error() string {
	msg := e.Kind.Error() + ": " + e.Type
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TypeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newTypeError(kind error, typ, path string, err error) *TypeError {
	return &TypeError{Kind: kind, Type: typ, Path: path, Err: err}
}

func fieldPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func indexPath(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}
