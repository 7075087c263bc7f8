package record

import (
	"fmt"
	"iter"
	"strings"

	"github.com/signadot/dynobj/encode"
	"github.com/signadot/dynobj/ir"
	"github.com/signadot/dynobj/schema"
)

// Record is a document viewed through a schema. The backing node holds
// every entry of the document, including keys the schema does not declare.
//
// Records are immutable and safe for concurrent use. Operations that change
// a record return a new one sharing unchanged structure. A Record must not
// be copied by value.
type Record struct {
	node   *ir.Node
	schema *schema.Schema
	meta   *ir.Node
	cache  fieldCache
}

// New returns an empty record of schema s. s may be nil.
func New(s *schema.Schema) *Record {
	return &Record{node: tagged(&ir.Node{Type: ir.MapType}, s), schema: s}
}

// FromNode wraps a map or record node. When s is non nil, the node is tagged
// with the schema name; a record node already tagged with another schema is
// rejected. A tagged node whose tag is the schema name is unwrapped. A map
// not yet tagged with the schema name passes through the schema's
// AfterDecode hook.
func FromNode(n *ir.Node, s *schema.Schema) (*Record, error) {
	return fromNode(n, s, nil)
}

func fromNode(n *ir.Node, s *schema.Schema, path *ir.Path) (*Record, error) {
	if n == nil {
		return New(s), nil
	}
	if n.Type == ir.TaggedType && s != nil && n.Tag == s.Name {
		n = n.Elem()
	}
	if !n.Type.IsMap() {
		return nil, &TypeMismatchError{Path: path.String(), Expected: expectRecord(s), Actual: n.Type.String()}
	}
	if s == nil {
		return &Record{node: n}, nil
	}
	if n.Type == ir.RecordType && n.Tag != "" && n.Tag != s.Name {
		return nil, &TypeMismatchError{Path: path.String(), Expected: "#" + s.Name, Actual: "#" + n.Tag}
	}
	if n.Type == ir.RecordType && n.Tag == s.Name {
		return &Record{node: n, schema: s}, nil
	}
	m, err := s.AsRecord(n)
	if err != nil {
		if path != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, err
	}
	return &Record{node: m, schema: s}, nil
}

func expectRecord(s *schema.Schema) string {
	if s == nil {
		return "map"
	}
	return "#" + s.Name
}

func tagged(n *ir.Node, s *schema.Schema) *ir.Node {
	if s == nil || (n.Type == ir.RecordType && n.Tag == s.Name) {
		return n
	}
	return n.AsRecord(s.Name)
}

func (r *Record) derive(n *ir.Node) *Record {
	return &Record{node: n, schema: r.schema, meta: r.meta}
}

// Node returns the backing node.
func (r *Record) Node() *ir.Node {
	return r.node
}

func (r *Record) Schema() *schema.Schema {
	return r.schema
}

// Lookup returns the node stored under k, or nil.
func (r *Record) Lookup(k ir.Key) *ir.Node {
	return ir.GetKey(r.node, k)
}

func (r *Record) Len() int {
	return r.node.Len()
}

// Entries iterates the record's entries in insertion order, including
// undeclared keys.
func (r *Record) Entries() iter.Seq2[*ir.Node, *ir.Node] {
	return r.node.Entries()
}

// Assoc returns a record with k bound to v. The field cache of the result
// starts empty.
func (r *Record) Assoc(k ir.Key, v *ir.Node) *Record {
	return r.derive(r.node.Assoc(ir.FromKey(k), v))
}

// Without returns a record with k removed.
func (r *Record) Without(k ir.Key) *Record {
	return r.derive(r.node.Without(ir.FromKey(k)))
}

// Meta returns the metadata map. Metadata is carried alongside the document
// but takes no part in equality, hashing or serialization.
func (r *Record) Meta() *ir.Node {
	if r.meta == nil {
		return &ir.Node{Type: ir.MapType}
	}
	return r.meta
}

// WithMeta returns a record whose metadata binds k to v.
func (r *Record) WithMeta(k ir.Key, v *ir.Node) *Record {
	res := r.derive(r.node)
	res.meta = r.Meta().Assoc(ir.FromKey(k), v)
	return res
}

// Equal compares the documents of a and b. Metadata is ignored.
func Equal(a, b *Record) bool {
	if a == nil || b == nil {
		return a == b
	}
	return ir.Equal(a.node, b.node)
}

func (r *Record) Equal(o *Record) bool {
	return Equal(r, o)
}

func (r *Record) Hash() uint64 {
	return r.node.Hash()
}

func (r *Record) String() string {
	if r == nil {
		return "nil"
	}
	buf := &strings.Builder{}
	if err := encode.Encode(r.node, buf, encode.EncodeWire(true)); err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return strings.TrimSpace(buf.String())
}
