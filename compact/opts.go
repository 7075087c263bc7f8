package compact

import (
	"github.com/signadot/dynobj/ir"
	"github.com/signadot/dynobj/parse"
	"github.com/signadot/dynobj/schema"
)

type opts struct {
	cacheSize int
	registry  *schema.Registry
	readers   map[string]parse.Reader
	dflt      parse.DefaultReader
}

type Option func(*opts)

// WithCacheSize sets the capacity of the value cache written by an
// encoder. Zero disables caching. Decoders take the capacity from the
// stream header and ignore this option.
func WithCacheSize(n int) Option {
	return func(o *opts) { o.cacheSize = max(n, 0) }
}

// WithRegistry gives encoders the schemas whose cached fields go through
// the value cache, and lets decoders turn tagged maps of registered
// schemas into records.
func WithRegistry(reg *schema.Registry) Option {
	return func(o *opts) { o.registry = reg }
}

// WithReader installs a decoder handler for tagged values with tag.
func WithReader(tag string, r parse.Reader) Option {
	return func(o *opts) {
		if o.readers == nil {
			o.readers = map[string]parse.Reader{}
		}
		o.readers[tag] = r
	}
}

// WithDefaultReader replaces the handler for tags with no reader.
func WithDefaultReader(r parse.DefaultReader) Option {
	return func(o *opts) { o.dflt = r }
}

// NoDefaultReader makes decoding tags with no reader fail with
// format.ErrUnknownTag.
func NoDefaultReader() Option {
	return func(o *opts) { o.dflt = nil }
}

func newOpts(options []Option) *opts {
	o := &opts{
		cacheSize: DefaultCacheSize,
		dflt:      parse.KeepTagged,
	}
	for _, f := range options {
		f(o)
	}
	return o
}

func (o *opts) cachedKey(tag string, k *ir.Node) bool {
	if o.registry == nil || k.Type != ir.KeywordType {
		return false
	}
	s, ok := o.registry.Lookup(tag)
	return ok && s.IsCachedKey(k.Key())
}
