package libdiff

import (
	"github.com/signadot/dynobj/debug"
	"github.com/signadot/dynobj/ir"
)

// Diff returns the parts of a not in b, the parts of b not in a, and the
// parts common to both.
func Diff(a, b *ir.Node) (onlyA, onlyB, common *ir.Node) {
	onlyA, onlyB, common = diff(a, b)
	if debug.Diff() {
		debug.Logf("diff\n  onlyA %v\n  onlyB %v\n  common %v\n", show(onlyA), show(onlyB), show(common))
	}
	return onlyA, onlyB, common
}

func show(n *ir.Node) any {
	if n == nil {
		return "<none>"
	}
	return n
}

func diff(a, b *ir.Node) (onlyA, onlyB, common *ir.Node) {
	if ir.Equal(a, b) {
		return nil, nil, a
	}
	if a == nil || b == nil || !a.Type.IsMap() || !b.Type.IsMap() {
		return a, b, nil
	}
	return diffMaps(a, b)
}

type entries struct {
	node *ir.Node
	keys []*ir.Node
	vals []*ir.Node
}

func (e *entries) add(k, v *ir.Node) {
	e.keys = append(e.keys, k)
	e.vals = append(e.vals, v)
}

// result returns nil for an empty side, and otherwise a map shaped like the
// side's source node.
func (e *entries) result() *ir.Node {
	if len(e.keys) == 0 {
		return nil
	}
	kvs := make([]ir.KeyVal, len(e.keys))
	for i := range kvs {
		kvs[i] = ir.KeyVal{Key: e.keys[i], Val: e.vals[i]}
	}
	res := ir.FromKeyVals(kvs)
	if e.node.Type == ir.RecordType {
		res = res.AsRecord(e.node.Tag)
	}
	return res
}

// diffMaps pairs the keys of a and b by structural equality. onlyA and
// common follow the key order of a, onlyB the key order of b.
func diffMaps(a, b *ir.Node) (onlyA, onlyB, common *ir.Node) {
	idx := newKeyIndex(b)
	shared := make([]*ir.Node, len(b.Fields))
	paired := make([]bool, len(b.Fields))

	ea, eb, ec := &entries{node: a}, &entries{node: b}, &entries{node: a}
	for i, k := range a.Fields {
		j := idx.find(k)
		if j < 0 {
			ea.add(k, a.Values[i])
			continue
		}
		oa, ob, c := diff(a.Values[i], b.Values[j])
		same := c != nil
		if oa != nil || !same {
			ea.add(k, orNull(oa))
		}
		if ob != nil || !same {
			shared[j] = orNull(ob)
		}
		paired[j] = true
		if same {
			ec.add(k, c)
		}
	}
	for j, k := range b.Fields {
		switch {
		case !paired[j]:
			eb.add(k, b.Values[j])
		case shared[j] != nil:
			eb.add(k, shared[j])
		}
	}
	return ea.result(), eb.result(), ec.result()
}

func orNull(n *ir.Node) *ir.Node {
	if n == nil {
		return ir.Null()
	}
	return n
}

// keyIndex finds the position of a key in a map node by hash, falling back
// to structural equality on collisions.
type keyIndex struct {
	node   *ir.Node
	byHash map[uint64][]int
}

func newKeyIndex(n *ir.Node) *keyIndex {
	idx := &keyIndex{node: n, byHash: make(map[uint64][]int, len(n.Fields))}
	for i, k := range n.Fields {
		h := k.Hash()
		idx.byHash[h] = append(idx.byHash[h], i)
	}
	return idx
}

func (idx *keyIndex) find(k *ir.Node) int {
	for _, i := range idx.byHash[k.Hash()] {
		if ir.Equal(idx.node.Fields[i], k) {
			return i
		}
	}
	return -1
}
