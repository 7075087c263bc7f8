package compact

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	"github.com/signadot/dynobj/debug"
	"github.com/signadot/dynobj/format"
	"github.com/signadot/dynobj/ir"
	"github.com/signadot/dynobj/parse"
)

// maxCacheSize bounds the capacity a header may ask a decoder to allocate.
const maxCacheSize = 1 << 16

var builtins = map[string]parse.Reader{
	parse.InstTag:   parse.ReadInst,
	parse.UUIDTag:   parse.ReadUUID,
	parse.Base64Tag: parse.ReadBase64,
}

// Decoder reads documents from a binary stream.
type Decoder struct {
	r       *bufio.Reader
	opts    *opts
	cache   *fifo
	started bool
	frame   int
	err     error
}

func NewDecoder(r io.Reader, options ...Option) *Decoder {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Decoder{r: br, opts: newOpts(options)}
}

// Frames returns the number of frames decoded so far.
func (d *Decoder) Frames() int {
	return d.frame
}

// Decode returns the next document, or io.EOF at the end of the stream.
// An empty input is an empty stream. Errors are sticky.
func (d *Decoder) Decode() (*ir.Node, error) {
	if d.err != nil {
		return nil, d.err
	}
	n, err := d.decode()
	if err != nil {
		d.err = err
		return nil, err
	}
	return n, nil
}

func (d *Decoder) header() error {
	var hdr [4]byte
	if _, err := io.ReadFull(d.r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return d.formatErr(-1, "truncated header: %v", err)
	}
	if string(hdr[:3]) != magic {
		return d.formatErr(-1, "bad magic %q", hdr[:3])
	}
	if hdr[3] != version {
		return d.formatErr(-1, "unsupported version %d", hdr[3])
	}
	capacity, err := binary.ReadUvarint(d.r)
	if err != nil {
		return d.formatErr(-1, "cache capacity: %v", err)
	}
	if capacity > maxCacheSize {
		return d.formatErr(-1, "cache capacity %d exceeds %d", capacity, maxCacheSize)
	}
	d.cache = newFIFO(int(capacity), false)
	return nil
}

func (d *Decoder) formatErr(off int, msg string, args ...any) error {
	frame := d.frame
	if off < 0 {
		frame = -1
	}
	return &FormatError{Frame: frame, Offset: off, Msg: fmt.Sprintf(msg, args...)}
}

func (d *Decoder) decode() (*ir.Node, error) {
	if !d.started {
		if err := d.header(); err != nil {
			return nil, err
		}
		d.started = true
	}
	var lb [4]byte
	if _, err := io.ReadFull(d.r, lb[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, d.formatErr(0, "truncated frame length: %v", err)
	}
	size := binary.BigEndian.Uint32(lb[:])
	if size > MaxFrameSize {
		return nil, d.formatErr(0, "frame of %d bytes exceeds %d", size, MaxFrameSize)
	}
	body := make([]byte, int(size)+4)
	if _, err := io.ReadFull(d.r, body); err != nil {
		return nil, d.formatErr(0, "truncated frame: %v", err)
	}
	want := binary.BigEndian.Uint32(body[size:])
	body = body[:size]
	if got := crc32.ChecksumIEEE(body); got != want {
		return nil, &ChecksumError{Frame: d.frame, Want: want, Got: got}
	}
	vr := &valueReader{d: d, b: body}
	n, err := vr.value()
	if err != nil {
		return nil, err
	}
	if vr.off != len(body) {
		return nil, d.formatErr(vr.off, "%d trailing bytes", len(body)-vr.off)
	}
	if debug.Decode() {
		debug.Logf("frame %d: %v\n", d.frame, n)
	}
	d.frame++
	return n, nil
}

type valueReader struct {
	d   *Decoder
	b   []byte
	off int
}

func (r *valueReader) errorf(msg string, args ...any) error {
	return r.d.formatErr(r.off, msg, args...)
}

func (r *valueReader) readByte() (byte, error) {
	if r.off >= len(r.b) {
		return 0, r.errorf("unexpected end of frame")
	}
	c := r.b[r.off]
	r.off++
	return c, nil
}

func (r *valueReader) uvarint() (uint64, error) {
	v, n := binary.Uvarint(r.b[r.off:])
	if n <= 0 {
		return 0, r.errorf("bad uvarint")
	}
	r.off += n
	return v, nil
}

func (r *valueReader) varint() (int64, error) {
	v, n := binary.Varint(r.b[r.off:])
	if n <= 0 {
		return 0, r.errorf("bad varint")
	}
	r.off += n
	return v, nil
}

func (r *valueReader) next(n int) ([]byte, error) {
	if n > len(r.b)-r.off {
		return nil, r.errorf("need %d bytes, have %d", n, len(r.b)-r.off)
	}
	d := r.b[r.off : r.off+n]
	r.off += n
	return d, nil
}

func (r *valueReader) readBytes() ([]byte, error) {
	n, err := r.count()
	if err != nil {
		return nil, err
	}
	return r.next(n)
}

func (r *valueReader) readString() (string, error) {
	d, err := r.readBytes()
	return string(d), err
}

// count reads a length, rejecting lengths that cannot fit in the frame.
func (r *valueReader) count() (int, error) {
	n, err := r.uvarint()
	if err != nil {
		return 0, err
	}
	if n > uint64(len(r.b)-r.off) {
		return 0, r.errorf("length %d exceeds frame", n)
	}
	return int(n), nil
}

func (r *valueReader) value() (*ir.Node, error) {
	at := r.off
	c, err := r.readByte()
	if err != nil {
		return nil, err
	}
	switch code(c) {
	case cNull:
		return ir.Null(), nil
	case cFalse:
		return ir.FromBool(false), nil
	case cTrue:
		return ir.FromBool(true), nil
	case cInt:
		v, err := r.varint()
		if err != nil {
			return nil, err
		}
		return ir.FromInt(v), nil
	case cFloat:
		d, err := r.next(8)
		if err != nil {
			return nil, err
		}
		return ir.FromFloat(math.Float64frombits(binary.BigEndian.Uint64(d))), nil
	case cBigInt:
		sign, err := r.readByte()
		if err != nil {
			return nil, err
		}
		mag, err := r.readBytes()
		if err != nil {
			return nil, err
		}
		b := new(big.Int).SetBytes(mag)
		switch sign {
		case 0:
		case 1:
			b.Neg(b)
		default:
			return nil, r.errorf("bad bigint sign %d", sign)
		}
		return ir.FromBigInt(b), nil
	case cDecimal:
		s, err := r.readString()
		if err != nil {
			return nil, err
		}
		dec, err := decimal.NewFromString(s)
		if err != nil {
			return nil, r.errorf("bad decimal %q", s)
		}
		return ir.FromDecimal(dec), nil
	case cString:
		s, err := r.readString()
		if err != nil {
			return nil, err
		}
		return ir.FromString(s), nil
	case cKeyword:
		s, err := r.readString()
		if err != nil {
			return nil, err
		}
		return ir.Keyword(s), nil
	case cBytes:
		d, err := r.readBytes()
		if err != nil {
			return nil, err
		}
		return ir.FromBytes(d), nil
	case cTime:
		d, err := r.readBytes()
		if err != nil {
			return nil, err
		}
		var t time.Time
		if err := t.UnmarshalBinary(d); err != nil {
			return nil, r.errorf("bad time: %v", err)
		}
		return ir.FromTime(t), nil
	case cSeq, cSet:
		vals, err := r.values()
		if err != nil {
			return nil, err
		}
		if code(c) == cSeq {
			return ir.FromSlice(vals), nil
		}
		set := ir.FromSet(vals)
		if set.Len() != len(vals) {
			return nil, r.d.formatErr(at, "duplicate set element")
		}
		return set, nil
	case cMap, cRecord:
		return r.mapping(code(c), at)
	case cTagged:
		tag, err := r.readString()
		if err != nil {
			return nil, err
		}
		elem, err := r.value()
		if err != nil {
			return nil, err
		}
		return r.tagged(tag, elem)
	case cCacheDef:
		if r.d.cache.capacity() == 0 {
			return nil, r.d.formatErr(at, "cached value in a stream without cache")
		}
		v, err := r.value()
		if err != nil {
			return nil, err
		}
		r.d.cache.add(v)
		return v, nil
	case cCacheRef:
		i, err := r.uvarint()
		if err != nil {
			return nil, err
		}
		v, ok := r.d.cache.get(int(min(i, maxCacheSize)))
		if !ok {
			return nil, r.d.formatErr(at, "reference to empty cache slot %d", i)
		}
		return v, nil
	}
	return nil, r.d.formatErr(at, "unknown type code %#x", c)
}

func (r *valueReader) values() ([]*ir.Node, error) {
	n, err := r.count()
	if err != nil {
		return nil, err
	}
	vals := make([]*ir.Node, n)
	for i := range vals {
		if vals[i], err = r.value(); err != nil {
			return nil, err
		}
	}
	return vals, nil
}

func (r *valueReader) mapping(c code, at int) (*ir.Node, error) {
	var tag string
	if c == cRecord {
		var err error
		if tag, err = r.readString(); err != nil {
			return nil, err
		}
		if tag == "" {
			return nil, r.d.formatErr(at, "record without tag")
		}
	}
	n, err := r.count()
	if err != nil {
		return nil, err
	}
	kvs := make([]ir.KeyVal, n)
	for i := range kvs {
		if kvs[i].Key, err = r.value(); err != nil {
			return nil, err
		}
		if kvs[i].Val, err = r.value(); err != nil {
			return nil, err
		}
	}
	res := ir.FromKeyVals(kvs)
	if res.Len() != n {
		return nil, r.d.formatErr(at, "%v", ir.ErrDuplicateKey)
	}
	if c != cRecord {
		return res, nil
	}
	if s, ok := r.d.opts.registry.Lookup(tag); ok {
		if res, err = s.AsRecord(res); err != nil {
			return nil, fmt.Errorf("frame %d: %w", r.d.frame, err)
		}
		return res, nil
	}
	return res.AsRecord(tag), nil
}

func (r *valueReader) tagged(tag string, elem *ir.Node) (*ir.Node, error) {
	o := r.d.opts
	wrap := func(n *ir.Node, err error) (*ir.Node, error) {
		if err != nil {
			return nil, fmt.Errorf("frame %d: #%s: %w", r.d.frame, tag, err)
		}
		return n, nil
	}
	if rd, ok := o.readers[tag]; ok {
		return wrap(rd(elem))
	}
	if s, ok := o.registry.Lookup(tag); ok {
		return wrap(s.AsRecord(elem))
	}
	if rd, ok := builtins[tag]; ok {
		return wrap(rd(elem))
	}
	if o.dflt == nil {
		return wrap(nil, format.ErrUnknownTag)
	}
	return wrap(o.dflt(tag, elem))
}

// Unmarshal decodes every document of a complete stream.
func Unmarshal(d []byte, options ...Option) ([]*ir.Node, error) {
	dec := NewDecoder(bytes.NewReader(d), options...)
	var res []*ir.Node
	for {
		n, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, n)
	}
}
