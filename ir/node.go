package ir

import (
	"iter"
	"maps"
	"math/big"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type Node struct {
	Type Type

	// Tag holds the schema identifier of a RecordType node and the reader tag
	// of a TaggedType node. It is empty for every other type.
	Tag string

	// Fields[i] is the key for Values[i] in map and record nodes. Seq and
	// set nodes use only Values; a tagged node has exactly one value.
	Fields []*Node
	Values []*Node

	Bool    bool
	Int64   int64
	Float64 float64
	BigInt  *big.Int
	Decimal decimal.Decimal
	String  string
	Bytes   []byte
	Time    time.Time
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

func FromInt(v int64) *Node {
	return &Node{Type: IntType, Int64: v}
}

func FromFloat(f float64) *Node {
	return &Node{Type: FloatType, Float64: f}
}

// FromBigInt copies v into a BigInt node.
func FromBigInt(v *big.Int) *Node {
	if v == nil {
		return Null()
	}
	return &Node{Type: BigIntType, BigInt: new(big.Int).Set(v)}
}

func FromDecimal(d decimal.Decimal) *Node {
	return &Node{Type: DecimalType, Decimal: d}
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromBytes(v []byte) *Node {
	return &Node{Type: BytesType, Bytes: slices.Clone(v)}
}

func FromTime(t time.Time) *Node {
	return &Node{Type: TimeType, Time: t}
}

func FromKey(k Key) *Node {
	return &Node{Type: KeywordType, String: k.Name()}
}

// Keyword is FromKey(K(name)).
func Keyword(name string) *Node {
	return &Node{Type: KeywordType, String: name}
}

// Key returns the Key of a keyword node. It returns the zero Key for any
// other node type.
func (y *Node) Key() Key {
	if y == nil || y.Type != KeywordType {
		return Key{}
	}
	return K(y.String)
}

func FromSlice(ySlice []*Node) *Node {
	return &Node{Type: SeqType, Values: nonNil(ySlice)}
}

// FromSet builds a set node, dropping elements structurally equal to an
// earlier element.
func FromSet(elems []*Node) *Node {
	res := &Node{Type: SetType, Values: make([]*Node, 0, len(elems))}
	idx := map[uint64][]*Node{}
	for _, e := range elems {
		if e == nil {
			e = Null()
		}
		h := e.Hash()
		if slices.ContainsFunc(idx[h], func(o *Node) bool { return Equal(o, e) }) {
			continue
		}
		idx[h] = append(idx[h], e)
		res.Values = append(res.Values, e)
	}
	return res
}

type KeyVal struct {
	Key *Node
	Val *Node
}

// FromKeyVals builds a map node preserving the order of kvs. A key equal to
// an earlier key replaces that entry's value in place.
func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{Type: MapType}
	res.Fields = make([]*Node, 0, len(kvs))
	res.Values = make([]*Node, 0, len(kvs))
	idx := map[uint64][]int{}
	for _, kv := range kvs {
		k, v := kv.Key, kv.Val
		if k == nil {
			k = Null()
		}
		if v == nil {
			v = Null()
		}
		h := k.Hash()
		pos := -1
		for _, i := range idx[h] {
			if Equal(res.Fields[i], k) {
				pos = i
				break
			}
		}
		if pos >= 0 {
			res.Values[pos] = v
			continue
		}
		idx[h] = append(idx[h], len(res.Fields))
		res.Fields = append(res.Fields, k)
		res.Values = append(res.Values, v)
	}
	return res
}

// FromMap builds a map node with keyword keys sorted by name.
func FromMap(yMap map[string]*Node) *Node {
	res := &Node{Type: MapType}
	res.Fields = make([]*Node, len(yMap))
	res.Values = make([]*Node, len(yMap))
	keys := slices.Sorted(maps.Keys(yMap))
	for i, key := range keys {
		y := yMap[key]
		if y == nil {
			y = Null()
		}
		res.Fields[i] = Keyword(key)
		res.Values[i] = y
	}
	return res
}

// Tagged wraps elem under a reader tag.
func Tagged(tag string, elem *Node) *Node {
	if elem == nil {
		elem = Null()
	}
	return &Node{Type: TaggedType, Tag: tag, Values: []*Node{elem}}
}

// Elem returns the wrapped element of a tagged node.
func (y *Node) Elem() *Node {
	if y.Type != TaggedType || len(y.Values) == 0 {
		return nil
	}
	return y.Values[0]
}

// AsRecord returns a record node with the entries of the map or record y
// tagged with schema identifier tag. An empty tag yields a plain map.
func (y *Node) AsRecord(tag string) *Node {
	res := y.shallow()
	res.Tag = tag
	res.Type = RecordType
	if tag == "" {
		res.Type = MapType
	}
	return res
}

// WithTag returns a copy of y carrying tag. y is not modified.
func (y *Node) WithTag(tag string) *Node {
	res := y.shallow()
	res.Tag = tag
	return res
}

func (y *Node) shallow() *Node {
	res := *y
	return &res
}

// Len is the number of entries of a map or record, or elements of a seq or
// set.
func (y *Node) Len() int {
	if y == nil {
		return 0
	}
	return len(y.Values)
}

// Index returns the entry position of key in a map or record, or -1.
func (y *Node) Index(key *Node) int {
	if y == nil || !y.Type.IsMap() {
		return -1
	}
	for i, f := range y.Fields {
		if key.Type == KeywordType && f.Type == KeywordType {
			if f.String == key.String {
				return i
			}
			continue
		}
		if Equal(f, key) {
			return i
		}
	}
	return -1
}

// Get returns the value stored under key in a map or record, or nil when
// absent.
func Get(y *Node, key *Node) *Node {
	i := y.Index(key)
	if i < 0 {
		return nil
	}
	return y.Values[i]
}

// GetKey is Get with a keyword key.
func GetKey(y *Node, k Key) *Node {
	return Get(y, FromKey(k))
}

// Assoc returns a copy of the map or record y with key bound to val. Keys
// keep their position; a new key is appended.
func (y *Node) Assoc(key, val *Node) *Node {
	if val == nil {
		val = Null()
	}
	res := y.shallow()
	i := y.Index(key)
	if i >= 0 {
		res.Values = slices.Clone(y.Values)
		res.Values[i] = val
		return res
	}
	res.Fields = append(slices.Clip(y.Fields), key)
	res.Values = append(slices.Clip(y.Values), val)
	return res
}

// Without returns a copy of the map or record y without key.
func (y *Node) Without(key *Node) *Node {
	i := y.Index(key)
	if i < 0 {
		return y
	}
	res := y.shallow()
	res.Fields = slices.Delete(slices.Clone(y.Fields), i, i+1)
	res.Values = slices.Delete(slices.Clone(y.Values), i, i+1)
	return res
}

// Entries iterates the key/value pairs of a map or record in insertion
// order.
func (y *Node) Entries() iter.Seq2[*Node, *Node] {
	return func(yield func(*Node, *Node) bool) {
		if y == nil || !y.Type.IsMap() {
			return
		}
		for i, f := range y.Fields {
			if !yield(f, y.Values[i]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of y.
func (y *Node) Clone() *Node {
	if y == nil {
		return nil
	}
	res := y.shallow()
	if y.Fields != nil {
		res.Fields = make([]*Node, len(y.Fields))
		for i, f := range y.Fields {
			res.Fields[i] = f.Clone()
		}
	}
	if y.Values != nil {
		res.Values = make([]*Node, len(y.Values))
		for i, v := range y.Values {
			res.Values[i] = v.Clone()
		}
	}
	if y.BigInt != nil {
		res.BigInt = new(big.Int).Set(y.BigInt)
	}
	res.Bytes = slices.Clone(y.Bytes)
	return res
}

func (y *Node) IsNull() bool {
	return y == nil || y.Type == NullType
}

func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for i, yy := range y.Values {
			if y.Fields != nil {
				if err := y.Fields[i].Visit(f); err != nil {
					return err
				}
			}
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}

func nonNil(ys []*Node) []*Node {
	res := make([]*Node, len(ys))
	for i, y := range ys {
		if y == nil {
			y = Null()
		}
		res[i] = y
	}
	return res
}
