package record

import (
	"encoding"
	"math/big"
	"reflect"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/signadot/dynobj/debug"
	"github.com/signadot/dynobj/ir"
)

// ToGeneric converts v, declared as type t, to a node. Numbers are widened
// as by ir.FromGo, views and records become record nodes tagged with their
// schema name, and nil pointers, slices and maps become null. Map and set
// entries are sorted so that conversion is deterministic.
//
// A nil t takes the type of v.
func ToGeneric(t reflect.Type, v any) (*ir.Node, error) {
	if v == nil {
		return ir.Null(), nil
	}
	rv := reflect.ValueOf(v)
	if t == nil || t == anyType {
		t = rv.Type()
	}
	if !rv.Type().AssignableTo(t) {
		return nil, &TypeMismatchError{Expected: t.String(), Actual: rv.Type().String()}
	}
	if err := checkShape(t, nil); err != nil {
		return nil, err
	}
	return toGeneric(rv, nil)
}

func toGeneric(rv reflect.Value, path *ir.Path) (*ir.Node, error) {
	if !rv.IsValid() {
		return ir.Null(), nil
	}
	t := rv.Type()
	if debug.Convert() {
		debug.Logf("from %s at %q\n", t, path)
	}
	switch {
	case t == nodeType:
		n := rv.Interface().(*ir.Node)
		if n == nil {
			return ir.Null(), nil
		}
		return n, nil
	case t == recordPtrType:
		r := rv.Interface().(*Record)
		if r == nil {
			return ir.Null(), nil
		}
		return r.node, nil
	case isView(t):
		r := unwrap(rv)
		if r == nil {
			return ir.Null(), nil
		}
		s := viewSchema(t)
		if r.schema != s {
			nr, err := fromNode(r.node, s, path)
			if err != nil {
				return nil, err
			}
			return nr.node, nil
		}
		return r.node, nil
	case t.Implements(marshalerType):
		if t.Kind() == reflect.Pointer && rv.IsNil() {
			return ir.Null(), nil
		}
		return rv.Interface().(Marshaler).MarshalNode()
	case rv.CanAddr() && reflect.PointerTo(t).Implements(marshalerType):
		return rv.Addr().Interface().(Marshaler).MarshalNode()
	}
	switch t {
	case keyType:
		return ir.FromKey(rv.Interface().(ir.Key)), nil
	case timeType:
		return ir.FromTime(rv.Interface().(time.Time)), nil
	case bigIntType:
		if rv.CanAddr() {
			return ir.FromBigInt(rv.Addr().Interface().(*big.Int)), nil
		}
		b := rv.Interface().(big.Int)
		return ir.FromBigInt(&b), nil
	case decimalType:
		return ir.FromDecimal(rv.Interface().(decimal.Decimal)), nil
	case uuidType:
		return ir.Tagged("uuid", ir.FromString(rv.Interface().(uuid.UUID).String())), nil
	case bytesType:
		if rv.IsNil() {
			return ir.Null(), nil
		}
		return ir.FromBytes(rv.Bytes()), nil
	}
	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface && t.Implements(textMarshalerType) {
		d, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, err
		}
		return ir.FromString(string(d)), nil
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return ir.Null(), nil
		}
		return toGeneric(rv.Elem(), path)
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return ir.FromGo(rv.Interface())
	case reflect.Slice, reflect.Array:
		if t.Kind() == reflect.Slice && rv.IsNil() {
			return ir.Null(), nil
		}
		vals := make([]*ir.Node, rv.Len())
		for i := range vals {
			e, err := toGeneric(rv.Index(i), path.WithPos(i))
			if err != nil {
				return nil, err
			}
			vals[i] = e
		}
		return ir.FromSlice(vals), nil
	case reflect.Map:
		if rv.IsNil() {
			return ir.Null(), nil
		}
		return mapToGeneric(rv, path)
	}
	return nil, &ShapeError{Path: path.String(), Type: t, Reason: "no node representation"}
}

func mapToGeneric(rv reflect.Value, path *ir.Path) (*ir.Node, error) {
	isSet := rv.Type().Elem() == emptyType
	kvs := make([]ir.KeyVal, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := toGeneric(iter.Key(), path)
		if err != nil {
			return nil, err
		}
		kv := ir.KeyVal{Key: k}
		if !isSet {
			kv.Val, err = toGeneric(iter.Value(), path.WithKey(keyText(k)))
			if err != nil {
				return nil, err
			}
		}
		kvs = append(kvs, kv)
	}
	slices.SortFunc(kvs, func(a, b ir.KeyVal) int {
		return ir.Compare(a.Key, b.Key)
	})
	if isSet {
		elems := make([]*ir.Node, len(kvs))
		for i, kv := range kvs {
			elems[i] = kv.Key
		}
		return ir.FromSet(elems), nil
	}
	return ir.FromKeyVals(kvs), nil
}
