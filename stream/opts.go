package stream

import (
	"github.com/signadot/dynobj/compact"
	"github.com/signadot/dynobj/encode"
	"github.com/signadot/dynobj/interop"
	"github.com/signadot/dynobj/parse"
	"github.com/signadot/dynobj/schema"
)

type opts struct {
	registry  *schema.Registry
	readers   map[string]parse.Reader
	noDefault bool
	cacheSize int
	indent    int
	wire      bool
	colors    *encode.Colors
	decimals  bool
}

// Option configures readers and writers. Options which do not apply to a
// format are ignored.
type Option func(*opts)

// WithRegistry resolves record tags through reg and, for binary writers,
// marks which fields go through the value cache.
func WithRegistry(reg *schema.Registry) Option {
	return func(o *opts) { o.registry = reg }
}

// WithReader installs a reader for tag.
func WithReader(tag string, r parse.Reader) Option {
	return func(o *opts) {
		if o.readers == nil {
			o.readers = map[string]parse.Reader{}
		}
		o.readers[tag] = r
	}
}

// NoDefaultReader makes unrecognized tags fail with format.ErrUnknownTag.
func NoDefaultReader() Option {
	return func(o *opts) { o.noDefault = true }
}

// WithCacheSize sets the value cache capacity of binary writers.
func WithCacheSize(n int) Option {
	return func(o *opts) { o.cacheSize = n }
}

// WithIndent sets the indentation of text, JSON and YAML writers.
func WithIndent(n int) Option {
	return func(o *opts) { o.indent = n }
}

// Wire makes text writers print one document per line.
func Wire(v bool) Option {
	return func(o *opts) { o.wire = v }
}

// WithColors colors text output.
func WithColors(c *encode.Colors) Option {
	return func(o *opts) { o.colors = c }
}

// WithDecimals reads JSON fractions as decimals.
func WithDecimals(v bool) Option {
	return func(o *opts) { o.decimals = v }
}

func newOpts(options []Option) *opts {
	o := &opts{cacheSize: -1}
	for _, f := range options {
		f(o)
	}
	return o
}

func (o *opts) parseOpts() []parse.ParseOption {
	res := []parse.ParseOption{parse.WithRegistry(o.registry)}
	for tag, r := range o.readers {
		res = append(res, parse.WithReader(tag, r))
	}
	if o.noDefault {
		res = append(res, parse.NoDefaultReader())
	}
	return res
}

func (o *opts) compactOpts() []compact.Option {
	res := []compact.Option{compact.WithRegistry(o.registry)}
	for tag, r := range o.readers {
		res = append(res, compact.WithReader(tag, r))
	}
	if o.noDefault {
		res = append(res, compact.NoDefaultReader())
	}
	if o.cacheSize >= 0 {
		res = append(res, compact.WithCacheSize(o.cacheSize))
	}
	return res
}

func (o *opts) interopOpts() []interop.Option {
	res := []interop.Option{
		interop.WithRegistry(o.registry),
		interop.WithDecimals(o.decimals),
	}
	for tag, r := range o.readers {
		res = append(res, interop.WithReader(tag, r))
	}
	if o.noDefault {
		res = append(res, interop.NoDefaultReader())
	}
	if o.indent > 0 {
		res = append(res, interop.WithIndent(o.indent))
	}
	return res
}

func (o *opts) encodeOpts() []encode.EncodeOption {
	res := []encode.EncodeOption{encode.EncodeWire(o.wire)}
	if o.indent > 0 && !o.wire {
		res = append(res, encode.Pretty(o.indent))
	}
	if o.colors != nil {
		res = append(res, encode.EncodeColors(o.colors))
	}
	return res
}
