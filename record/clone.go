package record

import (
	"math/big"
	"reflect"
)

// sharesMemory reports whether a value of type t can reach memory that a
// copy of it would share: slices, maps, pointers and interfaces, directly or
// through arrays and exported struct fields. Nodes, records and views are
// immutable and never count.
func sharesMemory(t reflect.Type) bool {
	switch {
	case t == nodeType, t == recordPtrType, isView(t):
		return false
	case t == bigIntType:
		return true
	case isLeafType(t):
		return t == bytesType
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	case reflect.Array:
		return sharesMemory(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if f := t.Field(i); f.IsExported() && sharesMemory(f.Type) {
				return true
			}
		}
	}
	return false
}

// cloneValue returns a deep copy of v. Unexported struct fields are copied
// shallowly.
func cloneValue(v reflect.Value) reflect.Value {
	t := v.Type()
	if !sharesMemory(t) {
		return v
	}
	if t == bigIntType {
		src := reflect.New(t)
		src.Elem().Set(v)
		return reflect.ValueOf(new(big.Int).Set(src.Interface().(*big.Int))).Elem()
	}
	switch t.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		c := reflect.New(t.Elem())
		c.Elem().Set(cloneValue(v.Elem()))
		return c
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		c := reflect.New(t).Elem()
		c.Set(cloneValue(v.Elem()))
		return c
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		c := reflect.MakeSlice(t, v.Len(), v.Len())
		for i := range v.Len() {
			c.Index(i).Set(cloneValue(v.Index(i)))
		}
		return c
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		c := reflect.MakeMapWithSize(t, v.Len())
		for it := v.MapRange(); it.Next(); {
			c.SetMapIndex(cloneValue(it.Key()), cloneValue(it.Value()))
		}
		return c
	case reflect.Array:
		c := reflect.New(t).Elem()
		for i := range v.Len() {
			c.Index(i).Set(cloneValue(v.Index(i)))
		}
		return c
	case reflect.Struct:
		c := reflect.New(t).Elem()
		c.Set(v)
		for i := range t.NumField() {
			if t.Field(i).IsExported() {
				c.Field(i).Set(cloneValue(v.Field(i)))
			}
		}
		return c
	}
	return v
}
