package record

import (
	"reflect"
	"sync"

	"github.com/signadot/dynobj/debug"
	"github.com/signadot/dynobj/ir"
	"github.com/signadot/dynobj/schema"
)

type cacheKey struct {
	key  ir.Key
	typ  reflect.Type
	kind schema.FieldKind
}

// cacheEntry distinguishes a computed null from a computed value; an absent
// entry means not yet computed. A shared value is copied before it leaves
// the cache.
type cacheEntry struct {
	val    any
	null   bool
	shared bool
}

// fieldCache memoizes converted field values. It is owned by exactly one
// Record and never copied to another.
type fieldCache struct {
	m sync.Map
}

// getOrCompute returns the stored entry for k, computing and storing it on
// first use. Concurrent first uses may both compute; the first store wins
// and every caller observes it. Errors are returned without being stored.
func (c *fieldCache) getOrCompute(k cacheKey, compute func() (*cacheEntry, error)) (*cacheEntry, error) {
	if e, ok := c.m.Load(k); ok {
		return e.(*cacheEntry), nil
	}
	e, err := compute()
	if err != nil {
		return nil, err
	}
	actual, loaded := c.m.LoadOrStore(k, e)
	if debug.Cache() {
		debug.Logf("cache %s %s stored=%t null=%t\n", k.key, k.typ, !loaded, e.null)
	}
	return actual.(*cacheEntry), nil
}

func (c *fieldCache) len() int {
	n := 0
	c.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
