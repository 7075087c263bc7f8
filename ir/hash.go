package ir

import (
	"encoding/binary"
	"hash/maphash"
	"math"
)

var seed = maphash.MakeSeed()

// Hash returns a hash of y consistent with Equal: nodes that are Equal hash
// the same within a process.
func (y *Node) Hash() uint64 {
	h := &maphash.Hash{}
	h.SetSeed(seed)
	y.hash(h)
	return h.Sum64()
}

func (y *Node) hash(h *maphash.Hash) {
	if y == nil {
		y = null
	}
	h.WriteByte(byte(rank(y.Type)))
	switch y.Type {
	case NullType:
	case BoolType:
		if y.Bool {
			h.WriteByte(1)
		} else {
			h.WriteByte(0)
		}
	case IntType:
		writeUint(h, uint64(y.Int64))
	case BigIntType:
		if y.BigInt.IsInt64() {
			writeUint(h, uint64(y.BigInt.Int64()))
			return
		}
		h.Write(y.BigInt.Bytes())
		h.WriteByte(byte(y.BigInt.Sign() + 1))
	case FloatType:
		f := y.Float64
		switch {
		case f == 0:
			f = 0
		case math.IsNaN(f):
			f = math.NaN()
		}
		writeUint(h, math.Float64bits(f))
	case DecimalType:
		h.WriteString(y.Decimal.String())
	case StringType, KeywordType:
		h.WriteString(y.String)
	case BytesType:
		h.Write(y.Bytes)
	case TimeType:
		writeUint(h, uint64(y.Time.Unix()))
		writeUint(h, uint64(y.Time.Nanosecond()))
	case SeqType, TaggedType:
		h.WriteString(y.Tag)
		for _, v := range y.Values {
			v.hash(h)
		}
	case SetType:
		writeUint(h, unordered(y.Values, nil))
	case MapType, RecordType:
		writeUint(h, unordered(y.Fields, y.Values))
	}
}

// unordered combines element (or entry) hashes commutatively.
func unordered(ks, vs []*Node) uint64 {
	var sum uint64
	for i, k := range ks {
		eh := &maphash.Hash{}
		eh.SetSeed(seed)
		k.hash(eh)
		if vs != nil {
			vs[i].hash(eh)
		}
		sum += eh.Sum64()
	}
	return sum + uint64(len(ks))
}

func writeUint(h *maphash.Hash, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}
