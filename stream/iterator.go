package stream

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/signadot/dynobj/debug"
	"github.com/signadot/dynobj/ir"
)

type state uint8

const (
	active state = iota
	done
	failed
)

// Iterator steps through the documents of a NodeReader.
type Iterator struct {
	r     NodeReader
	node  *ir.Node
	err   error
	n     int
	state state
}

func New(r NodeReader) *Iterator {
	return &Iterator{r: r}
}

// Next advances to the next document and reports whether there is one.
// Once Next returns false it always returns false.
func (it *Iterator) Next() bool {
	if it.state != active {
		return false
	}
	n, err := it.r.Decode()
	if err != nil {
		it.node = nil
		if errors.Is(err, io.EOF) {
			it.state = done
			return false
		}
		it.state = failed
		it.err = fmt.Errorf("document %d: %w", it.n, err)
		if debug.Decode() {
			debug.Logf("stream failed: %v\n", it.err)
		}
		return false
	}
	it.node = n
	it.n++
	return true
}

// Node returns the current document, or nil before the first call to Next
// and after iteration has stopped.
func (it *Iterator) Node() *ir.Node {
	return it.node
}

// Err returns the error which stopped the iteration, or nil if the reader
// was exhausted or iteration has not stopped.
func (it *Iterator) Err() error {
	return it.err
}

func (it *Iterator) Done() bool {
	return it.state == done
}

func (it *Iterator) Failed() bool {
	return it.state == failed
}

// Count returns the number of documents produced so far.
func (it *Iterator) Count() int {
	return it.n
}

// All returns the remaining documents as a sequence. Check Err after the
// sequence ends.
func (it *Iterator) All() iter.Seq[*ir.Node] {
	return func(yield func(*ir.Node) bool) {
		for it.Next() {
			if !yield(it.node) {
				return
			}
		}
	}
}
