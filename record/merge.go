package record

import (
	"github.com/signadot/dynobj/ir"
	"github.com/signadot/dynobj/libdiff"
	"github.com/signadot/dynobj/schema"
)

func tagOf(r *Record) string {
	if r.schema != nil {
		return r.schema.Name
	}
	if r.node.Type == ir.RecordType {
		return r.node.Tag
	}
	return ""
}

func sameSchema(a, b *Record) (*schema.Schema, error) {
	ta, tb := tagOf(a), tagOf(b)
	if ta != "" && tb != "" && ta != tb {
		return nil, &TypeMismatchError{Expected: "#" + ta, Actual: "#" + tb}
	}
	if a.schema != nil {
		return a.schema, nil
	}
	return b.schema, nil
}

// retag turns the result of a structural operation on a and b back into a
// record node. A nil result becomes an empty record.
func retag(n *ir.Node, s *schema.Schema, tag string) *ir.Node {
	if n == nil {
		n = &ir.Node{Type: ir.MapType}
	}
	if s != nil {
		return n.AsRecord(s.Name)
	}
	return n.AsRecord(tag)
}

// Merge returns the right biased union of a and b: every non-null value of
// b, and the values of a under keys where b has none. A key bound to null in
// b keeps a's value, or stays absent when a has none. The result carries the
// metadata of a.
func Merge(a, b *Record) (*Record, error) {
	s, err := sameSchema(a, b)
	if err != nil {
		return nil, err
	}
	kvs := make([]ir.KeyVal, 0, a.Len()+b.Len())
	for k, v := range a.Entries() {
		kvs = append(kvs, ir.KeyVal{Key: k, Val: v})
	}
	for k, v := range b.Entries() {
		if v.IsNull() {
			continue
		}
		kvs = append(kvs, ir.KeyVal{Key: k, Val: v})
	}
	n := retag(ir.FromKeyVals(kvs), s, tagOf(a))
	return &Record{node: n, schema: s, meta: a.meta}, nil
}

// Intersect returns the entries a and b have in common, recursing into
// nested maps.
func Intersect(a, b *Record) (*Record, error) {
	_, _, common, err := diff(a, b)
	return common, err
}

// Subtract returns the entries of a not found in b, recursing into nested
// maps.
func Subtract(a, b *Record) (*Record, error) {
	onlyA, _, _, err := diff(a, b)
	return onlyA, err
}

// Diff splits a and b into the entries only in a, the entries only in b and
// the entries in both. Sequences and sets are compared whole.
func Diff(a, b *Record) (onlyA, onlyB, common *Record, err error) {
	return diff(a, b)
}

func diff(a, b *Record) (onlyA, onlyB, common *Record, err error) {
	s, err := sameSchema(a, b)
	if err != nil {
		return nil, nil, nil, err
	}
	oa, ob, c := libdiff.Diff(a.node, b.node)
	tag := tagOf(a)
	mk := func(n *ir.Node) *Record {
		return &Record{node: retag(n, s, tag), schema: s}
	}
	return mk(oa), mk(ob), mk(c), nil
}
