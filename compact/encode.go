package compact

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/signadot/dynobj/ir"
)

// Encoder writes documents to a binary stream.
type Encoder struct {
	w     io.Writer
	opts  *opts
	cache *fifo
	// set once the header is written
	started bool
	err     error
}

func NewEncoder(w io.Writer, options ...Option) *Encoder {
	o := newOpts(options)
	return &Encoder{w: w, opts: o, cache: newFIFO(o.cacheSize, true)}
}

// Encode writes n as the next frame, writing the stream header first if
// needed. After an error the encoder is unusable, as the cache may no
// longer match what a decoder has seen.
func (e *Encoder) Encode(n *ir.Node) error {
	if e.err != nil {
		return e.err
	}
	e.err = e.encode(n)
	return e.err
}

// Start writes the stream header if it has not been written. A stream of
// zero documents is just the header.
func (e *Encoder) Start() error {
	if e.err != nil || e.started {
		return e.err
	}
	hdr := append([]byte(magic), version)
	hdr = binary.AppendUvarint(hdr, uint64(e.cache.capacity()))
	if _, err := e.w.Write(hdr); err != nil {
		e.err = err
		return err
	}
	e.started = true
	return nil
}

func (e *Encoder) encode(n *ir.Node) error {
	if err := e.Start(); err != nil {
		return err
	}
	body, err := e.appendValue(nil, n, false)
	if err != nil {
		return err
	}
	if len(body) > MaxFrameSize {
		return fmt.Errorf("frame of %d bytes exceeds %d", len(body), MaxFrameSize)
	}
	frame := make([]byte, 0, len(body)+8)
	frame = binary.BigEndian.AppendUint32(frame, uint32(len(body)))
	frame = append(frame, body...)
	frame = binary.BigEndian.AppendUint32(frame, crc32.ChecksumIEEE(body))
	_, err = e.w.Write(frame)
	return err
}

func (e *Encoder) appendValue(buf []byte, n *ir.Node, cached bool) ([]byte, error) {
	if n == nil {
		n = ir.Null()
	}
	if cached && e.cache.capacity() > 0 && !n.IsNull() {
		if i, ok := e.cache.find(n); ok {
			buf = append(buf, byte(cCacheRef))
			return binary.AppendUvarint(buf, uint64(i)), nil
		}
		var err error
		buf = append(buf, byte(cCacheDef))
		if buf, err = e.appendValue(buf, n, false); err != nil {
			return nil, err
		}
		e.cache.add(n)
		return buf, nil
	}
	switch n.Type {
	case ir.NullType:
		return append(buf, byte(cNull)), nil
	case ir.BoolType:
		if n.Bool {
			return append(buf, byte(cTrue)), nil
		}
		return append(buf, byte(cFalse)), nil
	case ir.IntType:
		buf = append(buf, byte(cInt))
		return binary.AppendVarint(buf, n.Int64), nil
	case ir.FloatType:
		buf = append(buf, byte(cFloat))
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(n.Float64)), nil
	case ir.BigIntType:
		buf = append(buf, byte(cBigInt))
		sign := byte(0)
		if n.BigInt.Sign() < 0 {
			sign = 1
		}
		buf = append(buf, sign)
		return appendBytes(buf, n.BigInt.Bytes()), nil
	case ir.DecimalType:
		buf = append(buf, byte(cDecimal))
		return appendString(buf, n.Decimal.String()), nil
	case ir.StringType:
		buf = append(buf, byte(cString))
		return appendString(buf, n.String), nil
	case ir.BytesType:
		buf = append(buf, byte(cBytes))
		return appendBytes(buf, n.Bytes), nil
	case ir.TimeType:
		d, err := n.Time.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = append(buf, byte(cTime))
		return appendBytes(buf, d), nil
	case ir.KeywordType:
		buf = append(buf, byte(cKeyword))
		return appendString(buf, n.String), nil
	case ir.SeqType, ir.SetType:
		c := cSeq
		if n.Type == ir.SetType {
			c = cSet
		}
		buf = append(buf, byte(c))
		buf = binary.AppendUvarint(buf, uint64(len(n.Values)))
		for _, v := range n.Values {
			var err error
			if buf, err = e.appendValue(buf, v, false); err != nil {
				return nil, err
			}
		}
		return buf, nil
	case ir.MapType, ir.RecordType:
		if n.Type == ir.RecordType {
			buf = append(buf, byte(cRecord))
			buf = appendString(buf, n.Tag)
		} else {
			buf = append(buf, byte(cMap))
		}
		buf = binary.AppendUvarint(buf, uint64(len(n.Fields)))
		for i, k := range n.Fields {
			var err error
			if buf, err = e.appendValue(buf, k, false); err != nil {
				return nil, err
			}
			c := n.Type == ir.RecordType && e.opts.cachedKey(n.Tag, k)
			if buf, err = e.appendValue(buf, n.Values[i], c); err != nil {
				return nil, err
			}
		}
		return buf, nil
	case ir.TaggedType:
		buf = append(buf, byte(cTagged))
		buf = appendString(buf, n.Tag)
		return e.appendValue(buf, n.Elem(), false)
	}
	return nil, fmt.Errorf("cannot encode node of type %s", n.Type)
}

func appendBytes(buf, d []byte) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(d)))
	return append(buf, d...)
}

func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

// Marshal encodes the documents as a complete stream.
func Marshal(docs []*ir.Node, options ...Option) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := NewEncoder(buf, options...)
	if err := enc.Start(); err != nil {
		return nil, err
	}
	for _, d := range docs {
		if err := enc.Encode(d); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
