package parse

import (
	"github.com/signadot/dynobj/ir"
	"github.com/signadot/dynobj/schema"
)

// Reader converts the value following a tag.
type Reader func(elem *ir.Node) (*ir.Node, error)

// DefaultReader converts a tagged value for which no other reader exists.
type DefaultReader func(tag string, elem *ir.Node) (*ir.Node, error)

type parseOpts struct {
	readers   map[string]Reader
	dflt      DefaultReader
	registry  *schema.Registry
	noBuiltin bool
}

type ParseOption func(*parseOpts)

// WithReader installs a reader for tag, taking precedence over the registry
// and the built-in readers.
func WithReader(tag string, r Reader) ParseOption {
	return func(o *parseOpts) {
		if o.readers == nil {
			o.readers = map[string]Reader{}
		}
		o.readers[tag] = r
	}
}

// WithDefaultReader replaces the reader used for unrecognized tags.
func WithDefaultReader(r DefaultReader) ParseOption {
	return func(o *parseOpts) { o.dflt = r }
}

// NoDefaultReader makes unrecognized tags fail with format.ErrUnknownTag.
func NoDefaultReader() ParseOption {
	return func(o *parseOpts) { o.dflt = nil }
}

// WithRegistry resolves record tags through reg.
func WithRegistry(reg *schema.Registry) ParseOption {
	return func(o *parseOpts) { o.registry = reg }
}

// NoBuiltinReaders disables the #inst, #uuid and #base64 readers, leaving
// those tags to the default reader.
func NoBuiltinReaders() ParseOption {
	return func(o *parseOpts) { o.noBuiltin = true }
}

func newOpts(opts []ParseOption) *parseOpts {
	o := &parseOpts{dflt: KeepTagged}
	for _, f := range opts {
		f(o)
	}
	return o
}

// KeepTagged is the default DefaultReader.
func KeepTagged(tag string, elem *ir.Node) (*ir.Node, error) {
	return ir.Tagged(tag, elem), nil
}
