package ir

import (
	"bytes"
	"cmp"
	"math/big"
	"slices"
	"strings"
)

// Compare defines a total order over nodes.
//
// Int and BigInt nodes holding the same integer compare equal. Maps and
// sets compare without regard to entry order, and a record compares like a
// map holding the same entries.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		a = null
	}
	if b == nil {
		b = null
	}
	ra, rb := rank(a.Type), rank(b.Type)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch a.Type {
	case NullType:
		return 0
	case BoolType:
		return cmpBool(a.Bool, b.Bool)
	case IntType, BigIntType:
		if b.Type == IntType && a.Type == IntType {
			return cmp.Compare(a.Int64, b.Int64)
		}
		return bigOf(a).Cmp(bigOf(b))
	case FloatType:
		return cmp.Compare(a.Float64, b.Float64)
	case DecimalType:
		return a.Decimal.Cmp(b.Decimal)
	case StringType, KeywordType:
		return strings.Compare(a.String, b.String)
	case BytesType:
		return bytes.Compare(a.Bytes, b.Bytes)
	case TimeType:
		return a.Time.Compare(b.Time)
	case SeqType:
		return compareSlices(a.Values, b.Values)
	case SetType:
		return compareSlices(sorted(a.Values), sorted(b.Values))
	case MapType, RecordType:
		return compareEntries(a, b)
	case TaggedType:
		if c := strings.Compare(a.Tag, b.Tag); c != 0 {
			return c
		}
		return compareSlices(a.Values, b.Values)
	}
	panic("type")
}

// Equal reports structural equality, see Compare.
func Equal(a, b *Node) bool {
	return Compare(a, b) == 0
}

var null = Null()

func rank(t Type) int {
	switch t {
	case NullType:
		return 0
	case BoolType:
		return 1
	case IntType, BigIntType:
		return 2
	case FloatType:
		return 3
	case DecimalType:
		return 4
	case StringType:
		return 5
	case KeywordType:
		return 6
	case BytesType:
		return 7
	case TimeType:
		return 8
	case SeqType:
		return 9
	case SetType:
		return 10
	case MapType, RecordType:
		return 11
	case TaggedType:
		return 12
	}
	return 13
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

func bigOf(y *Node) *big.Int {
	if y.Type == BigIntType {
		return y.BigInt
	}
	return big.NewInt(y.Int64)
}

func compareSlices(a, b []*Node) int {
	return slices.CompareFunc(a, b, Compare)
}

func sorted(ys []*Node) []*Node {
	return slices.SortedFunc(slices.Values(ys), Compare)
}

func compareEntries(a, b *Node) int {
	if c := cmp.Compare(len(a.Fields), len(b.Fields)); c != 0 {
		return c
	}
	ai, bi := entryOrder(a), entryOrder(b)
	for i := range ai {
		if c := Compare(a.Fields[ai[i]], b.Fields[bi[i]]); c != 0 {
			return c
		}
		if c := Compare(a.Values[ai[i]], b.Values[bi[i]]); c != 0 {
			return c
		}
	}
	return 0
}

// entryOrder returns the entry positions of y sorted by key.
func entryOrder(y *Node) []int {
	res := make([]int, len(y.Fields))
	for i := range res {
		res[i] = i
	}
	slices.SortFunc(res, func(i, j int) int {
		return Compare(y.Fields[i], y.Fields[j])
	})
	return res
}

// SortedKeys returns the keys of a map or record in Compare order.
func SortedKeys(y *Node) []*Node {
	return sorted(y.Fields)
}
