package interop

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/signadot/dynobj/format"
	"github.com/signadot/dynobj/ir"
	"github.com/signadot/dynobj/parse"
	"gopkg.in/yaml.v3"
)

const (
	nullTag      = "!!null"
	boolTag      = "!!bool"
	intTag       = "!!int"
	floatTag     = "!!float"
	strTag       = "!!str"
	timestampTag = "!!timestamp"
	binaryTag    = "!!binary"
	seqTag       = "!!seq"
	mapTag       = "!!map"
	setTag       = "!!set"
	mergeTag     = "!!merge"
)

var builtins = map[string]parse.Reader{
	parse.InstTag:   parse.ReadInst,
	parse.UUIDTag:   parse.ReadUUID,
	parse.Base64Tag: parse.ReadBase64,
}

// YAMLDecoder reads the documents of a YAML stream.
type YAMLDecoder struct {
	dec  *yaml.Decoder
	opts *opts
}

func NewYAMLDecoder(r io.Reader, options ...Option) *YAMLDecoder {
	return &YAMLDecoder{dec: yaml.NewDecoder(r), opts: newOpts(options)}
}

// Decode returns the next document, or io.EOF when there are no more.
func (d *YAMLDecoder) Decode() (*ir.Node, error) {
	var doc yaml.Node
	if err := d.dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: %w", format.ErrSyntax, err)
	}
	yr := &yamlReader{opts: d.opts, active: map[*yaml.Node]bool{}}
	return yr.node(&doc)
}

// FromYAML reads exactly one YAML document.
func FromYAML(d []byte, options ...Option) (*ir.Node, error) {
	dec := NewYAMLDecoder(bytes.NewReader(d), options...)
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

type yamlReader struct {
	opts *opts
	// aliases being expanded
	active map[*yaml.Node]bool
}

func (yr *yamlReader) errorf(n *yaml.Node, f string, args ...any) error {
	return fmt.Errorf("line %d: %w", n.Line, fmt.Errorf(f, args...))
}

func (yr *yamlReader) node(n *yaml.Node) (*ir.Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return ir.Null(), nil
		}
		return yr.node(n.Content[0])
	case yaml.AliasNode:
		if yr.active[n.Alias] {
			return nil, yr.errorf(n, "%w: recursive alias *%s", format.ErrSyntax, n.Value)
		}
		yr.active[n.Alias] = true
		defer delete(yr.active, n.Alias)
		return yr.node(n.Alias)
	}
	tag := n.ShortTag()
	if local, ok := localTag(tag); ok {
		c := *n
		c.Tag = ""
		elem, err := yr.node(&c)
		if err != nil {
			return nil, err
		}
		return yr.tagged(n, local, elem)
	}
	switch n.Kind {
	case yaml.SequenceNode:
		vals := make([]*ir.Node, len(n.Content))
		for i, c := range n.Content {
			v, err := yr.node(c)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return ir.FromSlice(vals), nil
	case yaml.MappingNode:
		if tag == setTag {
			return yr.set(n)
		}
		return yr.mapping(n)
	case yaml.ScalarNode:
		return yr.scalar(n, tag)
	}
	return nil, yr.errorf(n, "%w: node kind %d", ErrUnsupported, n.Kind)
}

func localTag(tag string) (string, bool) {
	if len(tag) < 2 || tag[0] != '!' || tag[1] == '!' {
		return "", false
	}
	return tag[1:], true
}

func (yr *yamlReader) scalar(n *yaml.Node, tag string) (*ir.Node, error) {
	switch tag {
	case nullTag:
		return ir.Null(), nil
	case strTag:
		return ir.FromString(n.Value), nil
	case boolTag:
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, yr.errorf(n, "%w: %w", format.ErrSyntax, err)
		}
		return ir.FromBool(b), nil
	case intTag:
		var i int64
		if err := n.Decode(&i); err == nil {
			return ir.FromInt(i), nil
		}
		b, ok := new(big.Int).SetString(strings.ReplaceAll(n.Value, "_", ""), 0)
		if !ok {
			return nil, yr.errorf(n, "%w: bad integer %q", format.ErrSyntax, n.Value)
		}
		return ir.FromBigInt(b), nil
	case floatTag:
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, yr.errorf(n, "%w: %w", format.ErrSyntax, err)
		}
		return ir.FromFloat(f), nil
	case timestampTag:
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, yr.errorf(n, "%w: %w", format.ErrSyntax, err)
		}
		return ir.FromTime(t), nil
	case binaryTag:
		d, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return nil, yr.errorf(n, "%w: %w", format.ErrSyntax, err)
		}
		return ir.FromBytes(d), nil
	}
	return nil, yr.errorf(n, "%w: %s", format.ErrUnknownTag, tag)
}

func (yr *yamlReader) set(n *yaml.Node) (*ir.Node, error) {
	elems := make([]*ir.Node, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		e, err := yr.node(n.Content[i])
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	res := ir.FromSet(elems)
	if res.Len() != len(elems) {
		return nil, yr.errorf(n, "%w: duplicate set element", format.ErrSyntax)
	}
	return res, nil
}

func (yr *yamlReader) mapping(n *yaml.Node) (*ir.Node, error) {
	kvs := make([]ir.KeyVal, 0, len(n.Content)/2)
	var merges []*ir.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		kn, vn := n.Content[i], n.Content[i+1]
		if kn.Kind == yaml.ScalarNode && kn.ShortTag() == mergeTag {
			ms, err := yr.merges(vn)
			if err != nil {
				return nil, err
			}
			merges = append(merges, ms...)
			continue
		}
		k, err := yr.node(kn)
		if err != nil {
			return nil, err
		}
		if k.Type == ir.StringType {
			k = yr.opts.key(k.String)
		}
		v, err := yr.node(vn)
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, ir.KeyVal{Key: k, Val: v})
	}
	res := ir.FromKeyVals(kvs)
	if res.Len() != len(kvs) {
		return nil, yr.errorf(n, "%w", ir.ErrDuplicateKey)
	}
	// explicit keys win over merged ones, earlier merges over later ones
	for _, m := range merges {
		for k, v := range m.Entries() {
			if res.Index(k) < 0 {
				res = res.Assoc(k, v)
			}
		}
	}
	return res, nil
}

func (yr *yamlReader) merges(vn *yaml.Node) ([]*ir.Node, error) {
	v, err := yr.node(vn)
	if err != nil {
		return nil, err
	}
	ms := []*ir.Node{v}
	if v.Type == ir.SeqType {
		ms = v.Values
	}
	for _, m := range ms {
		if !m.Type.IsMap() {
			return nil, yr.errorf(vn, "%w: merge of %s", format.ErrSyntax, m.Type)
		}
	}
	return ms, nil
}

func (yr *yamlReader) tagged(n *yaml.Node, tag string, elem *ir.Node) (*ir.Node, error) {
	wrap := func(res *ir.Node, err error) (*ir.Node, error) {
		if err != nil {
			return nil, yr.errorf(n, "!%s: %w", tag, err)
		}
		return res, nil
	}
	o := yr.opts
	if r, ok := o.readers[tag]; ok {
		return wrap(r(elem))
	}
	if s, ok := o.registry.Lookup(tag); ok {
		return wrap(s.AsRecord(elem))
	}
	if r, ok := builtins[tag]; ok {
		return wrap(r(elem))
	}
	if o.dflt == nil {
		return wrap(nil, format.ErrUnknownTag)
	}
	return wrap(o.dflt(tag, elem))
}

// YAMLEncoder writes documents to a YAML stream separated by "---".
// Close must be called to flush the stream.
type YAMLEncoder struct {
	enc *yaml.Encoder
}

func NewYAMLEncoder(w io.Writer, options ...Option) *YAMLEncoder {
	o := newOpts(options)
	enc := yaml.NewEncoder(w)
	if o.indent > 0 {
		enc.SetIndent(o.indent)
	} else {
		enc.SetIndent(2)
	}
	return &YAMLEncoder{enc: enc}
}

func (e *YAMLEncoder) Encode(n *ir.Node) error {
	yn, err := ToYAMLNode(n)
	if err != nil {
		return err
	}
	return e.enc.Encode(yn)
}

func (e *YAMLEncoder) Close() error {
	return e.enc.Close()
}

// ToYAML returns n as a single YAML document.
func ToYAML(n *ir.Node, options ...Option) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := NewYAMLEncoder(buf, options...)
	if err := enc.Encode(n); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToYAMLNode converts n to a yaml.v3 node tree.
func ToYAMLNode(n *ir.Node) (*yaml.Node, error) {
	return toYAML(n, nil)
}

func scalarNode(tag, v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v}
}

func toYAML(n *ir.Node, path *ir.Path) (*yaml.Node, error) {
	if n == nil {
		return scalarNode(nullTag, "null"), nil
	}
	switch n.Type {
	case ir.NullType:
		return scalarNode(nullTag, "null"), nil
	case ir.BoolType:
		return scalarNode(boolTag, strconv.FormatBool(n.Bool)), nil
	case ir.IntType:
		return scalarNode(intTag, strconv.FormatInt(n.Int64, 10)), nil
	case ir.BigIntType:
		return scalarNode(intTag, n.BigInt.String()), nil
	case ir.FloatType:
		return scalarNode(floatTag, yamlFloat(n.Float64)), nil
	case ir.DecimalType:
		return scalarNode(floatTag, n.Decimal.String()), nil
	case ir.StringType, ir.KeywordType:
		return scalarNode(strTag, n.String), nil
	case ir.BytesType:
		return scalarNode(binaryTag, base64.StdEncoding.EncodeToString(n.Bytes)), nil
	case ir.TimeType:
		return scalarNode(timestampTag, n.Time.Format(time.RFC3339Nano)), nil
	case ir.SeqType:
		res := &yaml.Node{Kind: yaml.SequenceNode, Tag: seqTag}
		for i, e := range n.Values {
			c, err := toYAML(e, path.WithPos(i))
			if err != nil {
				return nil, err
			}
			res.Content = append(res.Content, c)
		}
		return res, nil
	case ir.SetType:
		res := &yaml.Node{Kind: yaml.MappingNode, Tag: setTag}
		for i, e := range n.Values {
			c, err := toYAML(e, path.WithPos(i))
			if err != nil {
				return nil, err
			}
			res.Content = append(res.Content, c, scalarNode(nullTag, "null"))
		}
		return res, nil
	case ir.MapType, ir.RecordType:
		res := &yaml.Node{Kind: yaml.MappingNode, Tag: mapTag}
		if n.Type == ir.RecordType && n.Tag != "" {
			res.Tag = "!" + n.Tag
		}
		for i, k := range n.Fields {
			kn, err := toYAML(k, path)
			if err != nil {
				return nil, err
			}
			name, err := keyText(k)
			if err != nil {
				return nil, err
			}
			vn, err := toYAML(n.Values[i], path.WithKey(name))
			if err != nil {
				return nil, err
			}
			res.Content = append(res.Content, kn, vn)
		}
		return res, nil
	case ir.TaggedType:
		elem, err := toYAML(n.Elem(), path)
		if err != nil {
			return nil, err
		}
		if _, local := localTag(elem.Tag); local || elem.Tag == setTag {
			return nil, fmt.Errorf("%s: %w: #%s on %s", where(path), ErrUnsupported, n.Tag, elem.Tag)
		}
		elem.Tag = "!" + n.Tag
		return elem, nil
	}
	return nil, fmt.Errorf("%s: %w: %s", where(path), ErrUnsupported, n.Type)
}

func yamlFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	return floatText(f)
}
