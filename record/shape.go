package record

import (
	"encoding"
	"math/big"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/signadot/dynobj/ir"
)

// Marshaler is implemented by types that convert themselves to nodes.
type Marshaler interface {
	MarshalNode() (*ir.Node, error)
}

// Unmarshaler is implemented by types that convert themselves from nodes.
// UnmarshalNode receives null nodes too.
type Unmarshaler interface {
	UnmarshalNode(*ir.Node) error
}

var (
	nodeType            = reflect.TypeFor[*ir.Node]()
	anyType             = reflect.TypeFor[any]()
	keyType             = reflect.TypeFor[ir.Key]()
	timeType            = reflect.TypeFor[time.Time]()
	bigIntType          = reflect.TypeFor[big.Int]()
	decimalType         = reflect.TypeFor[decimal.Decimal]()
	uuidType            = reflect.TypeFor[uuid.UUID]()
	bytesType           = reflect.TypeFor[[]byte]()
	emptyType           = reflect.TypeFor[struct{}]()
	marshalerType       = reflect.TypeFor[Marshaler]()
	unmarshalerType     = reflect.TypeFor[Unmarshaler]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

func isLeafType(t reflect.Type) bool {
	switch t {
	case keyType, timeType, bigIntType, decimalType, uuidType, bytesType:
		return true
	}
	return false
}

func isSelfConverting(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return pt.Implements(unmarshalerType) || t.Implements(marshalerType)
}

func isText(t reflect.Type) bool {
	return reflect.PointerTo(t).Implements(textUnmarshalerType) && t.Implements(textMarshalerType)
}

// CheckShape reports whether values of t can be converted. Declared types
// of any inside collections, non-view structs, and kinds without a node
// representation yield a *ShapeError. A top level any is accepted and
// receives nodes unchanged.
func CheckShape(t reflect.Type) error {
	return checkShape(t, nil)
}

func checkShape(t reflect.Type, path *ir.Path) error {
	if t == anyType {
		return nil
	}
	return shape(t, path, map[reflect.Type]bool{})
}

func shape(t reflect.Type, path *ir.Path, seen map[reflect.Type]bool) error {
	if seen[t] {
		return nil
	}
	seen[t] = true
	switch {
	case t == nodeType, t == recordPtrType, isLeafType(t), isView(t), isSelfConverting(t), isText(t):
		return nil
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil
	case reflect.Pointer:
		return shape(t.Elem(), path, seen)
	case reflect.Slice, reflect.Array:
		return elemShape(t, t.Elem(), path, seen)
	case reflect.Map:
		if err := elemShape(t, t.Key(), path, seen); err != nil {
			return err
		}
		if t.Elem() == emptyType {
			return nil
		}
		return elemShape(t, t.Elem(), path, seen)
	case reflect.Interface:
		return &ShapeError{Path: path.String(), Type: t, Reason: "interface types cannot be converted"}
	case reflect.Struct:
		return &ShapeError{Path: path.String(), Type: t, Reason: "struct is not a view"}
	}
	return &ShapeError{Path: path.String(), Type: t, Reason: "no node representation for kind " + t.Kind().String()}
}

func elemShape(coll, elem reflect.Type, path *ir.Path, seen map[reflect.Type]bool) error {
	if elem == anyType {
		return &ShapeError{Path: path.String(), Type: coll, Reason: "collection of any"}
	}
	return shape(elem, path, seen)
}
