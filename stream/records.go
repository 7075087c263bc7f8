package stream

import (
	"fmt"
	"iter"

	"github.com/signadot/dynobj/record"
	"github.com/signadot/dynobj/schema"
)

// RecordIterator wraps the documents of an Iterator as records.
type RecordIterator struct {
	it  *Iterator
	s   *schema.Schema
	rec *record.Record
	err error
}

// Records returns an iterator of records of s over the documents of it.
// A document which is not a map, or is a record of another schema, stops
// the iteration with an error.
func Records(it *Iterator, s *schema.Schema) *RecordIterator {
	return &RecordIterator{it: it, s: s}
}

func (ri *RecordIterator) Next() bool {
	ri.rec = nil
	if ri.err != nil || !ri.it.Next() {
		return false
	}
	r, err := record.FromNode(ri.it.Node(), ri.s)
	if err != nil {
		ri.err = fmt.Errorf("document %d: %w", ri.it.Count()-1, err)
		return false
	}
	ri.rec = r
	return true
}

func (ri *RecordIterator) Record() *record.Record {
	return ri.rec
}

func (ri *RecordIterator) Err() error {
	if ri.err != nil {
		return ri.err
	}
	return ri.it.Err()
}

func (ri *RecordIterator) All() iter.Seq[*record.Record] {
	return func(yield func(*record.Record) bool) {
		for ri.Next() {
			if !yield(ri.rec) {
				return
			}
		}
	}
}

// Views yields the documents of it as views V, stopping after the first
// error.
func Views[V record.Viewer](it *Iterator) iter.Seq2[V, error] {
	return func(yield func(V, error) bool) {
		for n := range it.All() {
			v, err := record.View[V](n)
			if err != nil {
				yield(v, fmt.Errorf("document %d: %w", it.Count()-1, err))
				return
			}
			if !yield(v, nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			var zero V
			yield(zero, err)
		}
	}
}
