package record

import (
	"encoding"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/signadot/dynobj/debug"
	"github.com/signadot/dynobj/encode"
	"github.com/signadot/dynobj/ir"
)

// ToTyped converts n to a value of type t.
//
// Integers narrow to the declared width with Go conversion semantics, so
// out of range values are truncated. Null converts to a nil pointer for
// pointer types and to the zero value otherwise. A declared *ir.Node or any
// receives n unchanged. Maps with string keys accept keyword keys by name;
// a keyword and a string of the same name collide and the later entry wins.
func ToTyped(t reflect.Type, n *ir.Node) (any, error) {
	if n == nil {
		n = ir.Null()
	}
	if t == anyType {
		return n, nil
	}
	if err := checkShape(t, nil); err != nil {
		return nil, err
	}
	v, err := toTyped(t, n, nil)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func mismatch(t reflect.Type, n *ir.Node, path *ir.Path) error {
	return &TypeMismatchError{Path: path.String(), Expected: t.String(), Actual: n.Type.String()}
}

func toTyped(t reflect.Type, n *ir.Node, path *ir.Path) (reflect.Value, error) {
	if debug.Convert() {
		debug.Logf("to %s at %q: %v\n", t, path, n)
	}
	switch {
	case t == nodeType:
		return reflect.ValueOf(n), nil
	case t == anyType:
		v := reflect.New(t).Elem()
		v.Set(reflect.ValueOf(n))
		return v, nil
	case t == recordPtrType:
		if n.IsNull() {
			return reflect.Zero(t), nil
		}
		r, err := fromNode(n, nil, path)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(r), nil
	case isView(t):
		if n.IsNull() {
			return reflect.Zero(t), nil
		}
		r, err := fromNode(n, viewSchema(t), path)
		if err != nil {
			return reflect.Value{}, err
		}
		return wrap(t, r), nil
	case reflect.PointerTo(t).Implements(unmarshalerType):
		pv := reflect.New(t)
		if err := pv.Interface().(Unmarshaler).UnmarshalNode(n); err != nil {
			return reflect.Value{}, fmt.Errorf("%s: %w", t, err)
		}
		return pv.Elem(), nil
	}
	if t.Kind() == reflect.Pointer {
		if n.IsNull() {
			return reflect.Zero(t), nil
		}
		ev, err := toTyped(t.Elem(), n, path)
		if err != nil {
			return reflect.Value{}, err
		}
		pv := reflect.New(t.Elem())
		pv.Elem().Set(ev)
		return pv, nil
	}
	if n.IsNull() {
		return reflect.Zero(t), nil
	}
	if isLeafType(t) {
		return leafToTyped(t, n, path)
	}
	if isText(t) {
		if n.Type != ir.StringType {
			return reflect.Value{}, mismatch(t, n, path)
		}
		pv := reflect.New(t)
		if err := pv.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(n.String)); err != nil {
			return reflect.Value{}, &TypeMismatchError{Path: path.String(), Expected: t.String(), Actual: fmt.Sprintf("String %q", n.String)}
		}
		return pv.Elem(), nil
	}
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Bool:
		if n.Type != ir.BoolType {
			return v, mismatch(t, n, path)
		}
		v.SetBool(n.Bool)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch n.Type {
		case ir.IntType:
			v.SetInt(n.Int64)
		case ir.BigIntType:
			v.SetInt(int64(low64(n.BigInt)))
		default:
			return v, mismatch(t, n, path)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch n.Type {
		case ir.IntType:
			v.SetUint(uint64(n.Int64))
		case ir.BigIntType:
			v.SetUint(low64(n.BigInt))
		default:
			return v, mismatch(t, n, path)
		}
	case reflect.Float32, reflect.Float64:
		switch n.Type {
		case ir.FloatType:
			v.SetFloat(n.Float64)
		case ir.IntType:
			v.SetFloat(float64(n.Int64))
		case ir.BigIntType:
			f, _ := new(big.Float).SetInt(n.BigInt).Float64()
			v.SetFloat(f)
		case ir.DecimalType:
			v.SetFloat(n.Decimal.InexactFloat64())
		default:
			return v, mismatch(t, n, path)
		}
	case reflect.String:
		if n.Type != ir.StringType {
			return v, mismatch(t, n, path)
		}
		v.SetString(n.String)
	case reflect.Slice:
		if n.Type != ir.SeqType {
			return v, mismatch(t, n, path)
		}
		v = reflect.MakeSlice(t, len(n.Values), len(n.Values))
		for i, e := range n.Values {
			ev, err := toTyped(t.Elem(), e, path.WithPos(i))
			if err != nil {
				return v, err
			}
			v.Index(i).Set(ev)
		}
	case reflect.Array:
		if n.Type != ir.SeqType {
			return v, mismatch(t, n, path)
		}
		if len(n.Values) != t.Len() {
			return v, &TypeMismatchError{Path: path.String(), Expected: t.String(), Actual: fmt.Sprintf("Seq of length %d", len(n.Values))}
		}
		for i, e := range n.Values {
			ev, err := toTyped(t.Elem(), e, path.WithPos(i))
			if err != nil {
				return v, err
			}
			v.Index(i).Set(ev)
		}
	case reflect.Map:
		return mapToTyped(t, n, path)
	default:
		return v, &ShapeError{Path: path.String(), Type: t, Reason: "no node representation"}
	}
	return v, nil
}

var mask64 = new(big.Int).SetUint64(math.MaxUint64)

// low64 returns the low 64 bits of the two's complement form of b.
func low64(b *big.Int) uint64 {
	return new(big.Int).And(b, mask64).Uint64()
}

func leafToTyped(t reflect.Type, n *ir.Node, path *ir.Path) (reflect.Value, error) {
	switch t {
	case keyType:
		if n.Type == ir.KeywordType {
			return reflect.ValueOf(n.Key()), nil
		}
	case timeType:
		if n.Type == ir.TimeType {
			return reflect.ValueOf(n.Time), nil
		}
	case bigIntType:
		switch n.Type {
		case ir.IntType:
			return reflect.ValueOf(big.NewInt(n.Int64)).Elem(), nil
		case ir.BigIntType:
			return reflect.ValueOf(new(big.Int).Set(n.BigInt)).Elem(), nil
		}
	case decimalType:
		switch n.Type {
		case ir.IntType:
			return reflect.ValueOf(decimal.NewFromInt(n.Int64)), nil
		case ir.BigIntType:
			return reflect.ValueOf(decimal.NewFromBigInt(n.BigInt, 0)), nil
		case ir.FloatType:
			return reflect.ValueOf(decimal.NewFromFloat(n.Float64)), nil
		case ir.DecimalType:
			return reflect.ValueOf(n.Decimal), nil
		}
	case uuidType:
		s := n
		if n.Type == ir.TaggedType && n.Tag == "uuid" {
			s = n.Elem()
		}
		if s.Type == ir.StringType {
			u, err := uuid.Parse(s.String)
			if err == nil {
				return reflect.ValueOf(u), nil
			}
		}
	case bytesType:
		if n.Type == ir.BytesType {
			return reflect.ValueOf(slices.Clone(n.Bytes)), nil
		}
	}
	return reflect.Value{}, mismatch(t, n, path)
}

func mapToTyped(t reflect.Type, n *ir.Node, path *ir.Path) (reflect.Value, error) {
	if t.Elem() == emptyType {
		if n.Type != ir.SetType {
			return reflect.Value{}, mismatch(t, n, path)
		}
		v := reflect.MakeMapWithSize(t, len(n.Values))
		for _, e := range n.Values {
			kv, err := keyToTyped(t.Key(), e, path.WithKey(keyText(e)))
			if err != nil {
				return reflect.Value{}, err
			}
			v.SetMapIndex(kv, reflect.Zero(emptyType))
		}
		return v, nil
	}
	if !n.Type.IsMap() {
		return reflect.Value{}, mismatch(t, n, path)
	}
	v := reflect.MakeMapWithSize(t, len(n.Fields))
	for k, e := range n.Entries() {
		kp := path.WithKey(keyText(k))
		kv, err := keyToTyped(t.Key(), k, kp)
		if err != nil {
			return reflect.Value{}, err
		}
		ev, err := toTyped(t.Elem(), e, kp)
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetMapIndex(kv, ev)
	}
	return v, nil
}

// keyToTyped converts a map key or set element. Keywords are accepted for
// plain string keys and convert to their name.
func keyToTyped(t reflect.Type, k *ir.Node, path *ir.Path) (reflect.Value, error) {
	if k.Type == ir.KeywordType && t.Kind() == reflect.String && !isSelfConverting(t) && !isText(t) {
		return reflect.ValueOf(k.String).Convert(t), nil
	}
	return toTyped(t, k, path)
}

// keyText renders a map key for use in a path.
func keyText(k *ir.Node) string {
	switch k.Type {
	case ir.KeywordType, ir.StringType:
		return k.String
	}
	buf := &strings.Builder{}
	if err := encode.Encode(k, buf, encode.EncodeWire(true)); err != nil {
		return k.Type.String()
	}
	return strings.TrimSpace(buf.String())
}
