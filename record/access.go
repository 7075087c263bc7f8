package record

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/signadot/dynobj/ir"
	"github.com/signadot/dynobj/schema"
)

var ErrUnknownField = errors.New("unknown field")

func (r *Record) field(name string) (*schema.Field, error) {
	if r.schema == nil {
		return nil, fmt.Errorf("%w %q: record has no schema", ErrUnknownField, name)
	}
	f, ok := r.schema.Field(name)
	if !ok {
		return nil, fmt.Errorf("%w %q in schema %s", ErrUnknownField, name, r.schema.Name)
	}
	return f, nil
}

// Value returns field f converted to its declared type. A required field
// holding null yields a *RequiredFieldError.
func (r *Record) Value(f *schema.Field) (any, error) {
	return r.value(f, f.Type)
}

func (r *Record) value(f *schema.Field, t reflect.Type) (any, error) {
	k := cacheKey{key: f.Key, typ: t, kind: f.Kind}
	e, err := r.cache.getOrCompute(k, func() (*cacheEntry, error) {
		src := r.node
		if f.Kind == schema.MetaField {
			src = r.meta
		}
		n := ir.GetKey(src, f.Key)
		if n.IsNull() {
			return &cacheEntry{null: true}, nil
		}
		if t == anyType {
			return &cacheEntry{val: n}, nil
		}
		path := (*ir.Path)(nil).WithField(f.Name)
		if err := checkShape(t, path); err != nil {
			return nil, err
		}
		v, err := toTyped(t, n, path)
		if err != nil {
			return nil, err
		}
		return &cacheEntry{val: v.Interface(), shared: sharesMemory(t)}, nil
	})
	if err != nil {
		return nil, err
	}
	if !e.null {
		if e.shared && e.val != nil {
			return cloneValue(reflect.ValueOf(e.val)).Interface(), nil
		}
		return e.val, nil
	}
	if f.Required {
		return nil, &RequiredFieldError{Schema: r.schema.Name, Field: f.Name}
	}
	if t == anyType {
		return nil, nil
	}
	return reflect.Zero(t).Interface(), nil
}

// Get returns the field named name converted to T. T is usually the
// field's declared type; values are cached per type. Slices, maps and
// pointers in the result are fresh copies the caller may modify.
func Get[T any](r *Record, name string) (T, error) {
	var zero T
	f, err := r.field(name)
	if err != nil {
		return zero, err
	}
	v, err := r.value(f, reflect.TypeFor[T]())
	if err != nil || v == nil {
		return zero, err
	}
	return v.(T), nil
}

// With returns a record with the field named name set to v. T must be
// assignable to the field's declared type. Meta fields are stored in the
// metadata.
func With[T any](r *Record, name string, v T) (*Record, error) {
	f, err := r.field(name)
	if err != nil {
		return nil, err
	}
	path := (*ir.Path)(nil).WithField(f.Name)
	if t := reflect.TypeFor[T](); !t.AssignableTo(f.Type) {
		return nil, &TypeMismatchError{Path: path.String(), Expected: f.Type.String(), Actual: t.String()}
	}
	if err := checkShape(f.Type, path); err != nil {
		return nil, err
	}
	n, err := toGeneric(reflect.ValueOf(&v).Elem(), path)
	if err != nil {
		return nil, err
	}
	if f.Kind == schema.MetaField {
		return r.WithMeta(f.Key, n), nil
	}
	return r.Assoc(f.Key, n), nil
}
