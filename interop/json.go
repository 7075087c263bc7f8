package interop

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/signadot/dynobj/encode"
	"github.com/signadot/dynobj/format"
	"github.com/signadot/dynobj/ir"
)

// ErrUnsupported is returned when a value has no representation in the
// target format.
var ErrUnsupported = errors.New("unsupported value")

// JSONDecoder reads a sequence of JSON documents.
type JSONDecoder struct {
	dec  *json.Decoder
	opts *opts
}

func NewJSONDecoder(r io.Reader, options ...Option) *JSONDecoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &JSONDecoder{dec: dec, opts: newOpts(options)}
}

// Decode returns the next document, or io.EOF when there are no more.
func (d *JSONDecoder) Decode() (*ir.Node, error) {
	var v any
	if err := d.dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: %w", format.ErrSyntax, err)
	}
	return fromJSONAny(v, d.opts)
}

// FromJSON reads exactly one JSON document.
func FromJSON(d []byte, options ...Option) (*ir.Node, error) {
	dec := NewJSONDecoder(bytes.NewReader(d), options...)
	n, err := dec.Decode()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty document", format.ErrSyntax)
	}
	if err != nil {
		return nil, err
	}
	if _, err := dec.Decode(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = fmt.Errorf("%w: trailing document", format.ErrSyntax)
		}
		return nil, err
	}
	return n, nil
}

func fromJSONAny(v any, o *opts) (*ir.Node, error) {
	switch x := v.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.FromBool(x), nil
	case string:
		return ir.FromString(x), nil
	case json.Number:
		return fromNumber(x, o)
	case float64:
		return ir.FromFloat(x), nil
	case []any:
		vals := make([]*ir.Node, len(x))
		for i, e := range x {
			n, err := fromJSONAny(e, o)
			if err != nil {
				return nil, err
			}
			vals[i] = n
		}
		return ir.FromSlice(vals), nil
	case map[string]any:
		kvs := make([]ir.KeyVal, 0, len(x))
		for k, e := range x {
			n, err := fromJSONAny(e, o)
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, ir.KeyVal{Key: o.key(k), Val: n})
		}
		return ir.FromKeyVals(kvs), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
}

func fromNumber(num json.Number, o *opts) (*ir.Node, error) {
	s := num.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := num.Int64(); err == nil {
			return ir.FromInt(i), nil
		}
		if b, ok := new(big.Int).SetString(s, 10); ok {
			return ir.FromBigInt(b), nil
		}
	}
	if o.decimals {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", format.ErrSyntax, s)
		}
		return ir.FromDecimal(d), nil
	}
	f, err := num.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: bad number %q", format.ErrSyntax, s)
	}
	return ir.FromFloat(f), nil
}

// JSONEncoder writes documents as JSON, one per line unless an indent is
// set.
type JSONEncoder struct {
	enc *json.Encoder
}

func NewJSONEncoder(w io.Writer, options ...Option) *JSONEncoder {
	o := newOpts(options)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if o.indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", o.indent))
	}
	return &JSONEncoder{enc: enc}
}

func (e *JSONEncoder) Encode(n *ir.Node) error {
	v, err := ToJSONAny(n)
	if err != nil {
		return err
	}
	return e.enc.Encode(v)
}

// ToJSON returns the compact JSON encoding of n.
func ToJSON(n *ir.Node) ([]byte, error) {
	v, err := ToJSONAny(n)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// ToJSONAny converts n to the values encoding/json style marshalers
// understand: nil, bool, int64, json.Number, string, []any and
// map[string]any.
func ToJSONAny(n *ir.Node) (any, error) {
	return toJSONAny(n, nil)
}

func toJSONAny(n *ir.Node, path *ir.Path) (any, error) {
	if n == nil {
		return nil, nil
	}
	switch n.Type {
	case ir.NullType:
		return nil, nil
	case ir.BoolType:
		return n.Bool, nil
	case ir.IntType:
		return n.Int64, nil
	case ir.BigIntType:
		return json.Number(n.BigInt.String()), nil
	case ir.FloatType:
		f := n.Float64
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("%s: %w: float %v", where(path), ErrUnsupported, f)
		}
		return json.Number(floatText(f)), nil
	case ir.DecimalType:
		return json.Number(n.Decimal.String()), nil
	case ir.StringType, ir.KeywordType:
		return n.String, nil
	case ir.BytesType:
		return n.Bytes, nil
	case ir.TimeType:
		return n.Time.Format(time.RFC3339Nano), nil
	case ir.TaggedType:
		return toJSONAny(n.Elem(), path)
	case ir.SeqType, ir.SetType:
		res := make([]any, len(n.Values))
		for i, e := range n.Values {
			v, err := toJSONAny(e, path.WithPos(i))
			if err != nil {
				return nil, err
			}
			res[i] = v
		}
		return res, nil
	case ir.MapType, ir.RecordType:
		res := make(map[string]any, len(n.Fields))
		for i, k := range n.Fields {
			name, err := keyText(k)
			if err != nil {
				return nil, err
			}
			if _, dup := res[name]; dup {
				return nil, fmt.Errorf("%s: %w: keys collide on %q", where(path), ErrUnsupported, name)
			}
			v, err := toJSONAny(n.Values[i], path.WithKey(name))
			if err != nil {
				return nil, err
			}
			res[name] = v
		}
		return res, nil
	}
	return nil, fmt.Errorf("%s: %w: %s", where(path), ErrUnsupported, n.Type)
}

func keyText(k *ir.Node) (string, error) {
	switch k.Type {
	case ir.StringType, ir.KeywordType:
		return k.String, nil
	}
	buf := &strings.Builder{}
	if err := encode.Encode(k, buf, encode.EncodeWire(true)); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func floatText(f float64) string {
	v := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(v, ".eE") {
		v += ".0"
	}
	return v
}

func where(p *ir.Path) string {
	if s := p.String(); s != "" {
		return s
	}
	return "$"
}
