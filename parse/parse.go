package parse

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/signadot/dynobj/debug"
	"github.com/signadot/dynobj/format"
	"github.com/signadot/dynobj/ir"
	"github.com/signadot/dynobj/token"
)

// Parse reads exactly one value from d.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	dec := NewDecoder(bytes.NewReader(d), opts...)
	node, err := dec.Decode()
	if errors.Is(err, io.EOF) {
		return nil, syntaxErr(dec.lx.Pos(), "empty document")
	}
	if err != nil {
		return nil, err
	}
	tok, err := dec.next()
	if err == nil {
		return nil, syntaxErr(tok.Pos, "trailing %s after value", tok)
	}
	if !errors.Is(err, io.EOF) {
		return nil, err
	}
	return node, nil
}

// Decoder reads a sequence of top-level values.
type Decoder struct {
	lx   *token.Lexer
	opts *parseOpts
}

func NewDecoder(r io.Reader, opts ...ParseOption) *Decoder {
	return &Decoder{lx: token.NewLexer(r), opts: newOpts(opts)}
}

// Decode returns the next top-level value, or io.EOF when the input holds
// no further values.
func (d *Decoder) Decode() (*ir.Node, error) {
	tok, err := d.next()
	if err != nil {
		return nil, err
	}
	node, err := d.value(tok)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, syntaxErr(tok.Pos, "unexpected end of input")
		}
		return nil, err
	}
	if node == nil {
		// only discarded values remained
		return nil, io.EOF
	}
	if debug.Decode() {
		debug.Logf("decoded %v\n", node)
	}
	return node, nil
}

func (d *Decoder) next() (token.Token, error) {
	tok, err := d.lx.Next()
	var te *token.TokenizeErr
	if errors.As(err, &te) {
		return tok, &SyntaxError{Msg: te.Err.Error(), Pos: te.Pos}
	}
	return tok, err
}

// value parses the value starting at tok. It returns a nil node without
// error when the input ends after a discarded value.
func (d *Decoder) value(tok token.Token) (*ir.Node, error) {
	for tok.Type == token.TDiscard {
		dtok, err := d.next()
		if err != nil {
			return nil, unexpectedEOF(err, tok.Pos)
		}
		if _, err := d.required(dtok); err != nil {
			return nil, err
		}
		tok, err = d.next()
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
	}
	switch tok.Type {
	case token.TNil:
		return ir.Null(), nil
	case token.TTrue:
		return ir.FromBool(true), nil
	case token.TFalse:
		return ir.FromBool(false), nil
	case token.TInteger:
		return parseInt(tok)
	case token.TFloat:
		return parseFloat(tok)
	case token.TString:
		return ir.FromString(tok.Text), nil
	case token.TKeyword:
		return ir.Keyword(tok.Text), nil
	case token.TLBrack:
		vals, err := d.elems(tok, token.TRBrack)
		if err != nil {
			return nil, err
		}
		return ir.FromSlice(vals), nil
	case token.TLParen:
		vals, err := d.elems(tok, token.TRParen)
		if err != nil {
			return nil, err
		}
		return ir.FromSlice(vals), nil
	case token.TSetOpen:
		vals, err := d.elems(tok, token.TRCurl)
		if err != nil {
			return nil, err
		}
		set := ir.FromSet(vals)
		if set.Len() != len(vals) {
			return nil, syntaxErr(tok.Pos, "duplicate set element")
		}
		return set, nil
	case token.TLCurl:
		return d.mapping(tok)
	case token.TTag:
		etok, err := d.next()
		if err != nil {
			return nil, unexpectedEOF(err, tok.Pos)
		}
		elem, err := d.required(etok)
		if err != nil {
			return nil, err
		}
		return d.tagged(tok, elem)
	case token.TSymbol:
		return nil, syntaxErr(tok.Pos, "unsupported symbol %q", tok.Text)
	default:
		return nil, syntaxErr(tok.Pos, "unexpected %s", tok)
	}
}

// required is value for positions where input must not end.
func (d *Decoder) required(tok token.Token) (*ir.Node, error) {
	node, err := d.value(tok)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, syntaxErr(tok.Pos, "unexpected end of input")
	}
	return node, nil
}

func (d *Decoder) elems(open token.Token, end token.TokenType) ([]*ir.Node, error) {
	var vals []*ir.Node
	for {
		tok, err := d.next()
		if err != nil {
			return nil, unexpectedEOF(err, open.Pos)
		}
		if tok.Type == end {
			return vals, nil
		}
		if tok.Type.IsClose() {
			return nil, syntaxErr(tok.Pos, "%s opened at %s closed by %s", open, open.Pos, tok)
		}
		if tok.Type == token.TDiscard {
			if err := d.discard(tok); err != nil {
				return nil, err
			}
			continue
		}
		v, err := d.required(tok)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
}

// discard consumes the value following a #_ inside a collection.
func (d *Decoder) discard(tok token.Token) error {
	dtok, err := d.next()
	if err != nil {
		return unexpectedEOF(err, tok.Pos)
	}
	_, err = d.required(dtok)
	return err
}

func (d *Decoder) mapping(open token.Token) (*ir.Node, error) {
	vals, err := d.elems(open, token.TRCurl)
	if err != nil {
		return nil, err
	}
	if len(vals)%2 != 0 {
		return nil, syntaxErr(open.Pos, "map literal must contain an even number of forms")
	}
	kvs := make([]ir.KeyVal, len(vals)/2)
	for i := range kvs {
		kvs[i] = ir.KeyVal{Key: vals[2*i], Val: vals[2*i+1]}
	}
	res := ir.FromKeyVals(kvs)
	if res.Len() != len(kvs) {
		return nil, fmt.Errorf("%w at %s", ir.ErrDuplicateKey, open.Pos)
	}
	return res, nil
}

func (d *Decoder) tagged(tok token.Token, elem *ir.Node) (*ir.Node, error) {
	tag := tok.Text
	wrap := func(n *ir.Node, err error) (*ir.Node, error) {
		if err != nil {
			return nil, &TagError{Tag: tag, Pos: tok.Pos, Err: err}
		}
		return n, nil
	}
	if r, ok := d.opts.readers[tag]; ok {
		return wrap(r(elem))
	}
	if s, ok := d.opts.registry.Lookup(tag); ok {
		return wrap(s.AsRecord(elem))
	}
	if r, ok := builtins[tag]; ok && !d.opts.noBuiltin {
		return wrap(r(elem))
	}
	if d.opts.dflt == nil {
		return wrap(nil, format.ErrUnknownTag)
	}
	return wrap(d.opts.dflt(tag, elem))
}

func unexpectedEOF(err error, pos token.Pos) error {
	if errors.Is(err, io.EOF) {
		return syntaxErr(pos, "unexpected end of input")
	}
	return err
}

func parseInt(tok token.Token) (*ir.Node, error) {
	text := tok.Text
	if s, ok := strings.CutSuffix(text, "N"); ok {
		b, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, syntaxErr(tok.Pos, "bad integer %q", text)
		}
		return ir.FromBigInt(b), nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err == nil {
		return ir.FromInt(i), nil
	}
	if errors.Is(err, strconv.ErrRange) {
		b, ok := new(big.Int).SetString(text, 10)
		if ok {
			return ir.FromBigInt(b), nil
		}
	}
	return nil, syntaxErr(tok.Pos, "bad integer %q", text)
}

func parseFloat(tok token.Token) (*ir.Node, error) {
	text := tok.Text
	switch text {
	case "##Inf":
		return ir.FromFloat(math.Inf(1)), nil
	case "##-Inf":
		return ir.FromFloat(math.Inf(-1)), nil
	case "##NaN":
		return ir.FromFloat(math.NaN()), nil
	}
	if s, ok := strings.CutSuffix(text, "M"); ok {
		dec, err := decimal.NewFromString(s)
		if err != nil {
			return nil, syntaxErr(tok.Pos, "bad decimal %q", text)
		}
		return ir.FromDecimal(dec), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, syntaxErr(tok.Pos, "bad float %q", text)
	}
	return ir.FromFloat(f), nil
}
