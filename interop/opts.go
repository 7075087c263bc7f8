package interop

import (
	"github.com/signadot/dynobj/ir"
	"github.com/signadot/dynobj/parse"
	"github.com/signadot/dynobj/schema"
	"github.com/signadot/dynobj/token"
)

type opts struct {
	registry *schema.Registry
	readers  map[string]parse.Reader
	dflt     parse.DefaultReader
	indent     int
	decimals   bool
	stringKeys bool
}

type Option func(*opts)

// WithRegistry turns tagged YAML mappings of registered schemas into
// records.
func WithRegistry(reg *schema.Registry) Option {
	return func(o *opts) { o.registry = reg }
}

// WithReader installs a reader for YAML local tag !tag.
func WithReader(tag string, r parse.Reader) Option {
	return func(o *opts) {
		if o.readers == nil {
			o.readers = map[string]parse.Reader{}
		}
		o.readers[tag] = r
	}
}

// WithDefaultReader replaces the reader for local tags with no other
// reader.
func WithDefaultReader(r parse.DefaultReader) Option {
	return func(o *opts) { o.dflt = r }
}

// NoDefaultReader makes unrecognized local tags fail with
// format.ErrUnknownTag.
func NoDefaultReader() Option {
	return func(o *opts) { o.dflt = nil }
}

// WithIndent sets the indentation of written documents. For JSON zero
// means one document per line.
func WithIndent(n int) Option {
	return func(o *opts) { o.indent = max(n, 0) }
}

// WithDecimals reads JSON numbers with a fraction or exponent as Decimal
// instead of Float.
func WithDecimals(v bool) Option {
	return func(o *opts) { o.decimals = v }
}

// StringKeys keeps map keys read from JSON and YAML as strings. By default
// keys which can be written as keywords are read as keywords, so that
// decoded maps can back records.
func StringKeys(v bool) Option {
	return func(o *opts) { o.stringKeys = v }
}

func (o *opts) key(name string) *ir.Node {
	if o.stringKeys || !token.IsSymbol(name) {
		return ir.FromString(name)
	}
	return ir.Keyword(name)
}

func newOpts(options []Option) *opts {
	o := &opts{dflt: parse.KeepTagged}
	for _, f := range options {
		f(o)
	}
	return o
}
