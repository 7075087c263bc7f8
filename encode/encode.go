package encode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/signadot/dynobj/ir"
	"github.com/signadot/dynobj/token"
)

var ErrEncoding = errors.New("encoding error")

type EncState struct {
	depth, indent int
	wire          bool
	recordTags    bool

	Color func(ir.Type, ColorAttr, string) string
}

// Encode writes node followed by a newline.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent:     2,
		recordTags: true,
	}
	for _, opt := range opts {
		opt(es)
	}
	if err := encode(node, w, es); err != nil {
		return err
	}
	return writeString(w, "\n")
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

func writeNL(w io.Writer, es *EncState) error {
	return writeString(w, "\n"+strings.Repeat(" ", es.indent*es.depth))
}

func applyColor(es *EncState, t ir.Type, attr ColorAttr, v string) string {
	if es.Color == nil {
		return v
	}
	return es.Color(t, attr, v)
}

func writeTag(w io.Writer, t ir.Type, tag string, es *EncState) error {
	if !token.IsTagName(tag) {
		return fmt.Errorf("%w: cannot write tag %q", ErrEncoding, tag)
	}
	return writeString(w, applyColor(es, t, TagColor, "#"+tag))
}

func encode(node *ir.Node, w io.Writer, es *EncState) error {
	if node == nil {
		node = ir.Null()
	}
	switch node.Type {
	case ir.SeqType:
		return encodeElems(node, "[", "]", w, es)
	case ir.SetType:
		return encodeElems(node, "#{", "}", w, es)
	case ir.MapType:
		return encodeMap(node, w, es)
	case ir.RecordType:
		if es.recordTags && node.Tag != "" {
			if err := writeTag(w, node.Type, node.Tag, es); err != nil {
				return err
			}
		}
		return encodeMap(node, w, es)
	case ir.TaggedType:
		if err := writeTag(w, node.Type, node.Tag, es); err != nil {
			return err
		}
		if err := writeString(w, " "); err != nil {
			return err
		}
		return encode(node.Elem(), w, es)
	case ir.TimeType:
		return encodeTagged(w, node.Type, "inst", node.Time.Format(time.RFC3339Nano), es)
	case ir.BytesType:
		return encodeTagged(w, node.Type, "base64", base64.StdEncoding.EncodeToString(node.Bytes), es)
	default:
		s, err := scalar(node, ValueColor, es)
		if err != nil {
			return err
		}
		return writeString(w, s)
	}
}

func encodeTagged(w io.Writer, t ir.Type, tag, v string, es *EncState) error {
	if err := writeTag(w, t, tag, es); err != nil {
		return err
	}
	return writeString(w, " "+applyColor(es, t, ValueColor, token.Quote(v)))
}

func scalar(node *ir.Node, attr ColorAttr, es *EncState) (string, error) {
	var v string
	switch node.Type {
	case ir.NullType:
		v = "nil"
	case ir.BoolType:
		v = strconv.FormatBool(node.Bool)
	case ir.IntType:
		v = strconv.FormatInt(node.Int64, 10)
	case ir.BigIntType:
		v = node.BigInt.String() + "N"
	case ir.FloatType:
		v = formatFloat(node.Float64)
	case ir.DecimalType:
		v = node.Decimal.String() + "M"
	case ir.StringType:
		v = token.Quote(node.String)
	case ir.KeywordType:
		if !token.IsSymbol(node.String) {
			return "", fmt.Errorf("%w: cannot write keyword %q", ErrEncoding, node.String)
		}
		v = ":" + node.String
	default:
		return "", fmt.Errorf("%w: %s is not a scalar", ErrEncoding, node.Type)
	}
	return applyColor(es, node.Type, attr, v), nil
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "##Inf"
	case math.IsInf(f, -1):
		return "##-Inf"
	case math.IsNaN(f):
		return "##NaN"
	}
	v := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(v, ".e") {
		v += ".0"
	}
	return v
}

// simple reports whether node prints on one line by itself.
func simple(node *ir.Node) bool {
	switch node.Type {
	case ir.TaggedType:
		return simple(node.Elem())
	case ir.SeqType, ir.SetType, ir.MapType, ir.RecordType:
		return node.Len() == 0
	}
	return true
}

func inline(node *ir.Node, es *EncState) bool {
	if es.wire {
		return true
	}
	for _, v := range node.Values {
		if !simple(v) {
			return false
		}
	}
	for _, f := range node.Fields {
		if !simple(f) {
			return false
		}
	}
	return true
}

func encodeElems(node *ir.Node, open, end string, w io.Writer, es *EncState) error {
	if err := writeString(w, applyColor(es, node.Type, SepColor, open)); err != nil {
		return err
	}
	in := inline(node, es)
	es.depth++
	for i, v := range node.Values {
		var err error
		switch {
		case !in:
			err = writeNL(w, es)
		case i > 0:
			err = writeString(w, " ")
		}
		if err != nil {
			return err
		}
		if err := encode(v, w, es); err != nil {
			return err
		}
	}
	es.depth--
	if !in && len(node.Values) != 0 {
		if err := writeNL(w, es); err != nil {
			return err
		}
	}
	return writeString(w, applyColor(es, node.Type, SepColor, end))
}

func encodeMap(node *ir.Node, w io.Writer, es *EncState) error {
	if err := writeString(w, applyColor(es, node.Type, SepColor, "{")); err != nil {
		return err
	}
	in := inline(node, es)
	es.depth++
	for i, k := range node.Fields {
		var err error
		switch {
		case !in:
			err = writeNL(w, es)
		case i > 0:
			err = writeString(w, " ")
		}
		if err != nil {
			return err
		}
		if err := encodeKey(k, w, es); err != nil {
			return err
		}
		if err := writeString(w, " "); err != nil {
			return err
		}
		if err := encode(node.Values[i], w, es); err != nil {
			return err
		}
	}
	es.depth--
	if !in && len(node.Fields) != 0 {
		if err := writeNL(w, es); err != nil {
			return err
		}
	}
	return writeString(w, applyColor(es, node.Type, SepColor, "}"))
}

func encodeKey(k *ir.Node, w io.Writer, es *EncState) error {
	switch k.Type {
	case ir.KeywordType, ir.StringType:
		s, err := scalar(k, FieldColor, es)
		if err != nil {
			return err
		}
		return writeString(w, s)
	}
	return encode(k, w, es)
}
