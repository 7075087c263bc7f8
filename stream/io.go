package stream

import (
	"bufio"
	"fmt"
	"io"

	"github.com/signadot/dynobj/compact"
	"github.com/signadot/dynobj/encode"
	"github.com/signadot/dynobj/format"
	"github.com/signadot/dynobj/interop"
	"github.com/signadot/dynobj/ir"
	"github.com/signadot/dynobj/parse"
)

// NodeReader provides documents from a source (text, binary, JSON, etc).
// Decode returns io.EOF when there are no more documents.
type NodeReader interface {
	Decode() (*ir.Node, error)
}

// NodeWriter receives documents.
type NodeWriter interface {
	Encode(*ir.Node) error
}

// EmptyReader is a NodeReader with no documents.
type EmptyReader struct{}

func (EmptyReader) Decode() (*ir.Node, error) {
	return nil, io.EOF
}

// SliceReader reads documents from a slice.
type SliceReader struct {
	docs []*ir.Node
}

func NewSliceReader(docs ...*ir.Node) *SliceReader {
	return &SliceReader{docs: docs}
}

func (r *SliceReader) Decode() (*ir.Node, error) {
	if len(r.docs) == 0 {
		return nil, io.EOF
	}
	n := r.docs[0]
	r.docs = r.docs[1:]
	return n, nil
}

// NewReader returns a reader of documents in format f.
func NewReader(r io.Reader, f format.Format, options ...Option) (NodeReader, error) {
	o := newOpts(options)
	switch f {
	case format.TextFormat:
		return parse.NewDecoder(r, o.parseOpts()...), nil
	case format.BinaryFormat:
		return compact.NewDecoder(r, o.compactOpts()...), nil
	case format.JSONFormat:
		return interop.NewJSONDecoder(r, o.interopOpts()...), nil
	case format.YAMLFormat:
		return interop.NewYAMLDecoder(r, o.interopOpts()...), nil
	}
	return nil, fmt.Errorf("%w: %s", format.ErrBadFormat, f)
}

// Open is NewReader for input which may be a binary stream: input starting
// with a binary header is read as binary and anything else as dflt. It
// returns the format used.
func Open(r io.Reader, dflt format.Format, options ...Option) (NodeReader, format.Format, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(3)
	if err != nil && err != io.EOF {
		return nil, dflt, err
	}
	f := dflt
	if compact.IsCompact(head) {
		f = format.BinaryFormat
	}
	nr, err := NewReader(br, f, options...)
	return nr, f, err
}

// Writer writes documents in one format. Close must be called after the
// last document.
type Writer struct {
	enc NodeWriter
	n   int
}

// NewWriter returns a writer of documents in format f.
func NewWriter(w io.Writer, f format.Format, options ...Option) (*Writer, error) {
	o := newOpts(options)
	var enc NodeWriter
	switch f {
	case format.TextFormat:
		enc = &textWriter{w: w, opts: o.encodeOpts()}
	case format.BinaryFormat:
		enc = compact.NewEncoder(w, o.compactOpts()...)
	case format.JSONFormat:
		enc = interop.NewJSONEncoder(w, o.interopOpts()...)
	case format.YAMLFormat:
		enc = interop.NewYAMLEncoder(w, o.interopOpts()...)
	default:
		return nil, fmt.Errorf("%w: %s", format.ErrBadFormat, f)
	}
	return &Writer{enc: enc}, nil
}

func (w *Writer) Encode(n *ir.Node) error {
	if err := w.enc.Encode(n); err != nil {
		return err
	}
	w.n++
	return nil
}

// Count returns the number of documents written.
func (w *Writer) Count() int {
	return w.n
}

func (w *Writer) Close() error {
	if c, ok := w.enc.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

type textWriter struct {
	w    io.Writer
	opts []encode.EncodeOption
}

func (t *textWriter) Encode(n *ir.Node) error {
	return encode.Encode(n, t.w, t.opts...)
}

// Copy writes every document of src to dst, returning the number copied.
func Copy(dst NodeWriter, src NodeReader) (int, error) {
	it := New(src)
	for n := range it.All() {
		if err := dst.Encode(n); err != nil {
			return it.Count() - 1, err
		}
	}
	return it.Count(), it.Err()
}

// ReadAll returns the remaining documents of r.
func ReadAll(r NodeReader) ([]*ir.Node, error) {
	var res []*ir.Node
	it := New(r)
	for n := range it.All() {
		res = append(res, n)
	}
	return res, it.Err()
}
