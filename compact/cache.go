package compact

import "github.com/signadot/dynobj/ir"

// fifo is the value cache. Encoder and decoder add values in the same
// order, so slot numbers agree on both sides.
type fifo struct {
	slots []*ir.Node
	next  int
	full  bool

	// byHash indexes slots by value hash. Only encoders need it.
	byHash map[uint64][]int
}

func newFIFO(capacity int, indexed bool) *fifo {
	c := &fifo{slots: make([]*ir.Node, capacity)}
	if indexed {
		c.byHash = map[uint64][]int{}
	}
	return c
}

func (c *fifo) capacity() int {
	return len(c.slots)
}

func (c *fifo) find(v *ir.Node) (int, bool) {
	for _, i := range c.byHash[v.Hash()] {
		if ir.Equal(c.slots[i], v) {
			return i, true
		}
	}
	return -1, false
}

func (c *fifo) get(i int) (*ir.Node, bool) {
	if i < 0 || i >= len(c.slots) || (!c.full && i >= c.next) {
		return nil, false
	}
	return c.slots[i], true
}

// add stores v in the next slot, evicting the oldest value when full.
func (c *fifo) add(v *ir.Node) int {
	i := c.next
	if c.byHash != nil {
		if old := c.slots[i]; old != nil {
			h := old.Hash()
			c.byHash[h] = remove(c.byHash[h], i)
			if len(c.byHash[h]) == 0 {
				delete(c.byHash, h)
			}
		}
		h := v.Hash()
		c.byHash[h] = append(c.byHash[h], i)
	}
	c.slots[i] = v
	c.next++
	if c.next == len(c.slots) {
		c.next = 0
		c.full = true
	}
	return i
}

func remove(xs []int, x int) []int {
	for j, y := range xs {
		if y == x {
			return append(xs[:j], xs[j+1:]...)
		}
	}
	return xs
}
