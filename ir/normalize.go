package ir

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// FromGo converts a dynamically typed Go value into a node, bringing numbers
// to their canonical width: every signed or unsigned integer that fits
// becomes an Int, float32 becomes a Float holding the same decimal digits,
// and integers beyond int64 become BigInt.
//
// Slices and arrays become seqs, maps whose element type is struct{} become
// sets, and other maps become maps. Map keys of kind string stay strings.
func FromGo(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		if x == nil {
			return Null(), nil
		}
		return x, nil
	case bool:
		return FromBool(x), nil
	case int:
		return FromInt(int64(x)), nil
	case int8:
		return FromInt(int64(x)), nil
	case int16:
		return FromInt(int64(x)), nil
	case int32:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case uint:
		return fromUint(uint64(x)), nil
	case uint8:
		return FromInt(int64(x)), nil
	case uint16:
		return FromInt(int64(x)), nil
	case uint32:
		return FromInt(int64(x)), nil
	case uint64:
		return fromUint(x), nil
	case float32:
		return FromFloat(WidenFloat32(x)), nil
	case float64:
		return FromFloat(x), nil
	case *big.Int:
		return FromBigInt(x), nil
	case big.Int:
		return FromBigInt(&x), nil
	case decimal.Decimal:
		return FromDecimal(x), nil
	case string:
		return FromString(x), nil
	case []byte:
		return FromBytes(x), nil
	case time.Time:
		return FromTime(x), nil
	case Key:
		return FromKey(x), nil
	case []any:
		return fromAnys(x)
	case map[string]any:
		kvs := make([]KeyVal, 0, len(x))
		for k, e := range x {
			en, err := FromGo(e)
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, KeyVal{Key: FromString(k), Val: en})
		}
		res := FromKeyVals(kvs)
		res.Fields, res.Values = sortEntries(res.Fields, res.Values)
		return res, nil
	}
	return fromReflect(reflect.ValueOf(v))
}

// WidenFloat32 converts f to the float64 with the same shortest decimal
// rendering, so 1.1 stays 1.1 rather than 1.100000023841858.
func WidenFloat32(f float32) float64 {
	if math.IsInf(float64(f), 0) || math.IsNaN(float64(f)) {
		return float64(f)
	}
	d, err := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	if err != nil {
		return float64(f)
	}
	return d
}

func fromUint(u uint64) *Node {
	if u > math.MaxInt64 {
		return FromBigInt(new(big.Int).SetUint64(u))
	}
	return FromInt(int64(u))
}

func fromAnys(xs []any) (*Node, error) {
	vals := make([]*Node, len(xs))
	for i, e := range xs {
		en, err := FromGo(e)
		if err != nil {
			return nil, err
		}
		vals[i] = en
	}
	return FromSlice(vals), nil
}

func fromReflect(rv reflect.Value) (*Node, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromGo(rv.Elem().Interface())
	case reflect.Bool:
		return FromBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FromInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fromUint(rv.Uint()), nil
	case reflect.Float32:
		return FromFloat(WidenFloat32(float32(rv.Float()))), nil
	case reflect.Float64:
		return FromFloat(rv.Float()), nil
	case reflect.String:
		return FromString(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null(), nil
		}
		vals := make([]*Node, rv.Len())
		for i := range vals {
			en, err := FromGo(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			vals[i] = en
		}
		return FromSlice(vals), nil
	case reflect.Map:
		if rv.IsNil() {
			return Null(), nil
		}
		isSet := rv.Type().Elem() == reflect.TypeFor[struct{}]()
		var elems []*Node
		var kvs []KeyVal
		iter := rv.MapRange()
		for iter.Next() {
			kn, err := FromGo(iter.Key().Interface())
			if err != nil {
				return nil, err
			}
			if isSet {
				elems = append(elems, kn)
				continue
			}
			vn, err := FromGo(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, KeyVal{Key: kn, Val: vn})
		}
		if isSet {
			return FromSet(sorted(elems)), nil
		}
		res := FromKeyVals(kvs)
		res.Fields, res.Values = sortEntries(res.Fields, res.Values)
		return res, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, rv.Type())
}

// sortEntries orders entries built from a Go map so that conversion is
// deterministic.
func sortEntries(fs, vs []*Node) ([]*Node, []*Node) {
	y := &Node{Type: MapType, Fields: fs, Values: vs}
	order := entryOrder(y)
	nf, nv := make([]*Node, len(fs)), make([]*Node, len(vs))
	for i, j := range order {
		nf[i], nv[i] = fs[j], vs[j]
	}
	return nf, nv
}
