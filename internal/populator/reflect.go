package populator

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"unsafe"
)

// SelfPopulator is implemented by types that know how to fill themselves.
// The populator calls it on a freshly allocated value instead of walking the
// type's fields.
type SelfPopulator interface {
	PopulateMock(rng *rand.Rand) error
}

var selfPopulatorType = reflect.TypeFor[SelfPopulator]()

// basicTypes lets named scalar types such as `type Status string` reuse the
// producer bound to their predeclared kind.
var basicTypes = map[reflect.Kind]reflect.Type{
	reflect.Int:     reflect.TypeFor[int](),
	reflect.Int8:    reflect.TypeFor[int8](),
	reflect.Int16:   reflect.TypeFor[int16](),
	reflect.Int32:   reflect.TypeFor[int32](),
	reflect.Int64:   reflect.TypeFor[int64](),
	reflect.Uint:    reflect.TypeFor[uint](),
	reflect.Uint8:   reflect.TypeFor[uint8](),
	reflect.Uint16:  reflect.TypeFor[uint16](),
	reflect.Uint32:  reflect.TypeFor[uint32](),
	reflect.Uint64:  reflect.TypeFor[uint64](),
	reflect.Float32: reflect.TypeFor[float32](),
	reflect.Float64: reflect.TypeFor[float64](),
	reflect.Bool:    reflect.TypeFor[bool](),
	reflect.String:  reflect.TypeFor[string](),
}

// PopulateType returns a freshly populated value of t. Slices and maps get
// ElementCount elements, arrays get every slot filled, pointers point to
// a populated value and structs get every field set, unexported ones
// included.
func (p *TypePopulator) PopulateType(t reflect.Type) (reflect.Value, error) {
	return p.newRun().populateType(t, "", 0)
}

// PopulateInto overwrites the value target points to.
func (p *TypePopulator) PopulateInto(target interface{}) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer, got %T", target)
	}
	v, err := p.PopulateType(rv.Type().Elem())
	if err != nil {
		return err
	}
	rv.Elem().Set(v)
	return nil
}

// Fill returns a populated T.
func Fill[T any](p *TypePopulator) (T, error) {
	var zero T
	v, err := p.PopulateType(reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	return v.Interface().(T), nil
}

func (r *run) populateType(t reflect.Type, path string, depth int) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, newTypeError(ErrUnsupportedType, "<nil>", path, nil)
	}
	if r.maxDepth > 0 && depth > r.maxDepth {
		return reflect.Value{}, newTypeError(ErrDepthExceeded, t.String(), path, fmt.Errorf("limit is %d", r.maxDepth))
	}

	if gen, ok := r.registry.Lookup(t); ok {
		raw, err := gen.Generate(r.rng)
		if err != nil {
			return reflect.Value{}, newTypeError(ErrGenerator, t.String(), path, err)
		}
		return coerce(raw, t, path)
	}

	if reflect.PointerTo(t).Implements(selfPopulatorType) {
		v := reflect.New(t)
		if err := v.Interface().(SelfPopulator).PopulateMock(r.rng); err != nil {
			return reflect.Value{}, newTypeError(ErrInstantiation, t.String(), path, err)
		}
		return v.Elem(), nil
	}

	switch t.Kind() {
	case reflect.Slice:
		v := reflect.MakeSlice(t, r.elementCount, r.elementCount)
		for i := 0; i < r.elementCount; i++ {
			ev, err := r.populateType(t.Elem(), indexPath(path, i), depth+1)
			if err != nil {
				return reflect.Value{}, err
			}
			v.Index(i).Set(ev)
		}
		return v, nil

	case reflect.Map:
		v := reflect.MakeMapWithSize(t, r.elementCount)
		for i := 0; i < r.elementCount; i++ {
			entry := indexPath(path, i)
			k, err := r.populateType(t.Key(), fieldPath(entry, "key"), depth+1)
			if err != nil {
				return reflect.Value{}, err
			}
			ev, err := r.populateType(t.Elem(), fieldPath(entry, "value"), depth+1)
			if err != nil {
				return reflect.Value{}, err
			}
			v.SetMapIndex(k, ev)
		}
		return v, nil

	case reflect.Array:
		v := reflect.New(t).Elem()
		for i := 0; i < t.Len(); i++ {
			ev, err := r.populateType(t.Elem(), indexPath(path, i), depth+1)
			if err != nil {
				return reflect.Value{}, err
			}
			v.Index(i).Set(ev)
		}
		return v, nil

	case reflect.Pointer:
		ev, err := r.populateType(t.Elem(), path, depth+1)
		if err != nil {
			return reflect.Value{}, err
		}
		v := reflect.New(t.Elem())
		v.Elem().Set(ev)
		return v, nil

	case reflect.Chan:
		return reflect.Value{}, newTypeError(ErrUnsupportedType, t.String(), path, nil)

	case reflect.Struct:
		if isGenericInstance(t) {
			return reflect.Value{}, newTypeError(ErrUnsupportedType, t.String(), path, nil)
		}
		return r.populateStruct(t, path, depth)

	case reflect.Interface, reflect.Func, reflect.UnsafePointer:
		return reflect.Value{}, newTypeError(ErrInstantiation, t.String(), path, fmt.Errorf("%s has no zero-argument constructor", t.Kind()))
	}

	if base, ok := basicTypes[t.Kind()]; ok && base != t {
		if gen, ok := r.registry.Lookup(base); ok {
			raw, err := gen.Generate(r.rng)
			if err != nil {
				return reflect.Value{}, newTypeError(ErrGenerator, t.String(), path, err)
			}
			return coerce(raw, t, path)
		}
	}
	return reflect.Value{}, newTypeError(ErrUnknownType, t.String(), path, errors.New("no generator registered"))
}

func (r *run) populateStruct(t reflect.Type, path string, depth int) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Name == "_" {
			continue
		}
		fp := fieldPath(path, sf.Name)
		fv := v.Field(i)
		if !fv.CanSet() {
			fv = reflect.NewAt(sf.Type, unsafe.Pointer(fv.UnsafeAddr())).Elem()
		}
		val, err := r.populateType(sf.Type, fp, depth+1)
		if err != nil {
			return reflect.Value{}, err
		}
		if !val.Type().AssignableTo(sf.Type) {
			return reflect.Value{}, newTypeError(ErrFieldAccess, t.String(), fp, fmt.Errorf("%s is not assignable to %s", val.Type(), sf.Type))
		}
		fv.Set(val)
	}
	return v, nil
}

// coerce turns a producer's result into a value of t. Numeric results convert
// between numeric kinds; anything else must be assignable or share t's kind.
func coerce(raw interface{}, t reflect.Type, path string) (reflect.Value, error) {
	rv := reflect.ValueOf(raw)
	if !rv.IsValid() {
		return reflect.Zero(t), nil
	}
	if rv.Type().AssignableTo(t) {
		out := reflect.New(t).Elem()
		out.Set(rv)
		return out, nil
	}
	if (isNumeric(rv.Kind()) && isNumeric(t.Kind())) || (rv.Kind() == t.Kind() && rv.Type().ConvertibleTo(t)) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, newTypeError(ErrFieldAccess, t.String(), path, fmt.Errorf("generator produced %s", rv.Type()))
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func reflectName[V any]() string {
	return reflect.TypeFor[V]().String()
}
