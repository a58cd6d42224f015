// Package arc implements the Adaptive Replacement Cache: four lists
// (T1/T2 live, B1/B2 ghost) and an adaptive target p that shifts
// capacity between recency (T1) and frequency (T2) based on which ghost
// list is taking hits.
//
// Built on the same map-plus-slab-plus-intrusive-list shape as the rest
// of the family; ARC only adds a second pair of lists carrying
// no-value "ghost" entries (entry.Entry.HasValue false) so a recent
// eviction can still be recognized in O(1) without holding onto its value.
package arc

import (
	"errors"

	"github.com/tempuscache/corecache/cachestats"
	"github.com/tempuscache/corecache/entry"
	"github.com/tempuscache/corecache/ilist"
	"github.com/tempuscache/corecache/internal/clog"
	"github.com/tempuscache/corecache/slab"
	"github.com/tempuscache/corecache/timerwheel"
)

// ErrInvalidCapacity is returned by New for a negative capacity.
var ErrInvalidCapacity = errors.New("arc: capacity must be >= 0")

// Cache is a capacity-bounded Adaptive Replacement Cache.
//
// Get only ever resolves the "hit on live data" case (§4.6 case 1):
// ARC's ghost-driven adaptation (cases 2-4) needs a value to install, so it
// runs inside Insert. A caller's usual cache-aside loop — Get miss, fetch,
// Insert — drives the full algorithm exactly as the ARC paper describes
// it, the same division of labor used by the ecosystem's other ARC
// implementations.
type Cache[K comparable, V any] struct {
	capacity int
	p        int

	data  map[K]slab.Handle
	arena *slab.Slab[entry.Entry[K, V], *entry.Entry[K, V]]
	t1    ilist.List
	t2    ilist.List
	b1    ilist.List
	b2    ilist.List

	stats    cachestats.Stats
	recorder *cachestats.Recorder
	log      clog.Tracer

	wheel      *timerwheel.Wheel
	timerByKey map[K]timerwheel.TimerID
	keyByTimer map[timerwheel.TimerID]K
}

// New returns an ARC cache with room for capacity live entries (ghosts are
// bounded separately by the §4.6 invariants, not by capacity itself). A
// capacity of 0 is valid: inserts are accepted but evicted immediately,
// with no ghost retained either. A negative capacity is rejected rather
// than silently clamped.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity < 0 {
		return nil, ErrInvalidCapacity
	}
	c := &Cache[K, V]{
		capacity:   capacity,
		data:       make(map[K]slab.Handle),
		arena:      slab.New[entry.Entry[K, V], *entry.Entry[K, V]](),
		log:        clog.Nop(),
		timerByKey: make(map[K]timerwheel.TimerID),
		keyByTimer: make(map[timerwheel.TimerID]K),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Len reports the number of live entries (T1+T2; ghost entries in B1/B2
// don't count).
func (c *Cache[K, V]) Len() int { return c.t1.Len + c.t2.Len }

// Capacity reports the configured capacity.
func (c *Cache[K, V]) Capacity() int { return c.capacity }

// IsEmpty reports whether the cache holds no live entries.
func (c *Cache[K, V]) IsEmpty() bool { return c.Len() == 0 }

// Clear removes every entry, live or ghost, and resets p to 0.
func (c *Cache[K, V]) Clear() {
	c.data = make(map[K]slab.Handle)
	c.arena = slab.New[entry.Entry[K, V], *entry.Entry[K, V]]()
	c.t1, c.t2, c.b1, c.b2 = ilist.List{}, ilist.List{}, ilist.List{}, ilist.List{}
	c.p = 0
	c.timerByKey = make(map[K]timerwheel.TimerID)
	c.keyByTimer = make(map[timerwheel.TimerID]K)
}

// Get looks up k among the live lists (T1, T2). A hit promotes k to the
// MRU end of T2 (from T1) or refreshes it in place (already in T2). A
// ghost hit (B1/B2) or a true absence are both reported as a miss — only
// Insert can supply the value ARC's adaptation needs to act on a ghost.
func (c *Cache[K, V]) Get(k K) (v V, ok bool) {
	h, found := c.data[k]
	if !found {
		c.stats.Misses++
		c.recorder.Miss()
		return v, false
	}

	e := c.arena.Get(h)
	if !e.HasValue {
		c.stats.Misses++
		c.recorder.Miss()
		return v, false
	}
	if c.expired(e) {
		c.log.Expired(k)
		c.removeHandle(k, h)
		c.stats.Misses++
		c.recorder.Miss()
		return v, false
	}

	c.promoteToT2(h, e)
	c.stats.Hits++
	c.recorder.Hit()
	return e.Value, true
}

func (c *Cache[K, V]) promoteToT2(h slab.Handle, e *entry.Entry[K, V]) {
	if e.Tag == entry.TagT1 {
		ilist.Unlink(&c.t1, c.arena, h)
		e.Tag = entry.TagT2
		ilist.PushFront(&c.t2, c.arena, h)
		return
	}
	ilist.MoveToFront(&c.t2, c.arena, h)
}

// Peek returns k's value without reordering it or counting toward
// hit/miss stats. Ghosts and absent keys both report not-found.
func (c *Cache[K, V]) Peek(k K) (v V, ok bool) {
	h, found := c.data[k]
	if !found {
		return v, false
	}
	e := c.arena.Get(h)
	if !e.HasValue || c.expired(e) {
		return v, false
	}
	return e.Value, true
}

// Contains reports whether k is live and unexpired, without reordering.
func (c *Cache[K, V]) Contains(k K) bool {
	_, ok := c.Peek(k)
	return ok
}

// Insert runs the full §4.6 algorithm for key k carrying value v: a live
// hit promotes and overwrites; a ghost hit adapts p, replaces one victim,
// and installs v in T2; a true miss makes room (possibly dropping a ghost
// or replacing a victim) and installs v at the MRU of T1.
func (c *Cache[K, V]) Insert(k K, v V) (prev V, had bool) {
	if h, ok := c.data[k]; ok {
		e := c.arena.Get(h)

		switch e.Tag {
		case entry.TagT1, entry.TagT2:
			prev, had = e.Value, true
			e.Value = v
			e.Expiry = 0
			c.promoteToT2(h, e)
			return prev, had

		case entry.TagB1:
			c.growP(c.b2.Len, c.b1.Len)
			c.replace(false)
			ilist.Unlink(&c.b1, c.arena, h)
			c.installLive(h, e, v, entry.TagT2)
			return prev, false

		case entry.TagB2:
			c.shrinkP(c.b1.Len, c.b2.Len)
			c.replace(true)
			ilist.Unlink(&c.b2, c.arena, h)
			c.installLive(h, e, v, entry.TagT2)
			return prev, false
		}
	}

	if c.capacity == 0 {
		// A zero-capacity cache admits nothing: T1 and the ghost lists are
		// all bounded by capacity, so there is no room even for a ghost.
		return prev, false
	}

	c.admitMiss()

	e := entry.Entry[K, V]{Key: k, Value: v, HasValue: true, Tag: entry.TagT1}
	h := c.arena.Allocate(e)
	ilist.PushFront(&c.t1, c.arena, h)
	c.data[k] = h

	return prev, false
}

func (c *Cache[K, V]) installLive(h slab.Handle, e *entry.Entry[K, V], v V, tag entry.Tag) {
	e.Value = v
	e.HasValue = true
	e.Expiry = 0
	e.Tag = tag
	ilist.PushFront(&c.t2, c.arena, h)
}

func (c *Cache[K, V]) growP(b2Len, b1Len int) {
	c.p = min(c.capacity, c.p+max(1, b2Len/max(1, b1Len)))
	c.log.Rebalanced(c.p, c.capacity)
}

func (c *Cache[K, V]) shrinkP(b1Len, b2Len int) {
	c.p = max(0, c.p-max(1, b1Len/max(1, b2Len)))
	c.log.Rebalanced(c.p, c.capacity)
}

// admitMiss makes room for a brand-new key per §4.6 case 4, before the
// caller pushes it onto T1.
func (c *Cache[K, V]) admitMiss() {
	if c.t1.Len+c.b1.Len == c.capacity {
		if c.t1.Len < c.capacity {
			c.dropGhostLRU(&c.b1)
			c.replace(false)
		} else {
			c.dropLiveLRU(&c.t1)
		}
		return
	}

	total := c.t1.Len + c.t2.Len + c.b1.Len + c.b2.Len
	if total >= c.capacity {
		if total == 2*c.capacity {
			c.dropGhostLRU(&c.b2)
		}
		c.replace(false)
	}
}

// replace evicts one victim into ghost form: T1's LRU becomes a B1 ghost
// when T1 is over its target size p (or hitInB2 caught it exactly at p);
// otherwise T2's LRU becomes a B2 ghost.
func (c *Cache[K, V]) replace(hitInB2 bool) {
	if c.t1.Len >= 1 && ((hitInB2 && c.t1.Len == c.p) || c.t1.Len > c.p) {
		h, ok := ilist.PopBack(&c.t1, c.arena)
		if !ok {
			return
		}
		c.ghost(h, entry.TagB1, &c.b1)
		return
	}

	h, ok := ilist.PopBack(&c.t2, c.arena)
	if !ok {
		return
	}
	c.ghost(h, entry.TagB2, &c.b2)
}

// ghost converts a live entry into a valueless ghost on dst, freeing its
// value and counting it as an eviction.
func (c *Cache[K, V]) ghost(h slab.Handle, tag entry.Tag, dst *ilist.List) {
	e := c.arena.Get(h)
	k := e.Key
	c.log.Evicted(k)
	c.stats.Evictions++
	c.recorder.Eviction()
	c.forgetTimer(k)

	var zero V
	e.Value = zero
	e.HasValue = false
	e.Tag = tag
	ilist.PushFront(dst, c.arena, h)
}

// dropGhostLRU discards l's LRU ghost outright, freeing its slot.
func (c *Cache[K, V]) dropGhostLRU(l *ilist.List) {
	h, ok := ilist.PopBack(l, c.arena)
	if !ok {
		return
	}
	k := c.arena.Get(h).Key
	delete(c.data, k)
	c.arena.Free(h)
}

// dropLiveLRU evicts l's LRU live entry outright (no ghost retained) —
// the §4.6 case 4 branch taken when B1 has no room left to grow.
func (c *Cache[K, V]) dropLiveLRU(l *ilist.List) {
	h, ok := ilist.PopBack(l, c.arena)
	if !ok {
		return
	}
	k := c.arena.Get(h).Key
	c.log.Evicted(k)
	c.stats.Evictions++
	c.recorder.Eviction()
	c.forgetTimer(k)
	delete(c.data, k)
	c.arena.Free(h)
}

// InsertWithTTL is Insert plus an expiry ticks from now.
func (c *Cache[K, V]) InsertWithTTL(k K, v V, ticks int64) (prev V, had bool) {
	prev, had = c.Insert(k, v)
	c.SetTTL(k, ticks)
	return prev, had
}

// SetTTL (re)schedules key k to expire ticks from now. Only meaningful for
// a live entry; a ghost key reports not-present.
func (c *Cache[K, V]) SetTTL(k K, ticks int64) bool {
	h, ok := c.data[k]
	if !ok {
		return false
	}
	e := c.arena.Get(h)
	if !e.HasValue {
		return false
	}
	c.ensureWheel()

	if old, had := c.timerByKey[k]; had {
		c.wheel.DelTimer(old)
		delete(c.keyByTimer, old)
	}

	e.Expiry = c.wheel.Now() + ticks
	id := c.wheel.AddTimer(ticks)
	c.timerByKey[k] = id
	c.keyByTimer[id] = k
	return true
}

func (c *Cache[K, V]) ensureWheel() {
	if c.wheel == nil {
		c.wheel = timerwheel.NewDefault()
	}
}

// AdvanceTime moves the timer wheel forward by ticks and evicts whatever
// expires.
func (c *Cache[K, V]) AdvanceTime(ticks int64) {
	if c.wheel == nil {
		return
	}
	for _, id := range c.wheel.UpdateDeltatime(ticks) {
		k, ok := c.keyByTimer[id]
		if !ok {
			continue
		}
		delete(c.keyByTimer, id)
		delete(c.timerByKey, k)
		if h, ok := c.data[k]; ok {
			c.log.Expired(k)
			c.removeHandle(k, h)
		}
	}
}

// Remove deletes k, live or ghost, returning its value if it had one.
func (c *Cache[K, V]) Remove(k K) (v V, had bool) {
	h, found := c.data[k]
	if !found {
		return v, false
	}
	e := c.arena.Get(h)
	v, had = e.Value, e.HasValue
	c.removeHandle(k, h)
	return v, had
}

// Keys returns every live key (T1 then T2, most-recent-first within each).
// Ghosts are never surfaced.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, c.Len())
	ilist.Walk(&c.t1, c.arena, func(h slab.Handle) { keys = append(keys, c.arena.Get(h).Key) })
	ilist.Walk(&c.t2, c.arena, func(h slab.Handle) { keys = append(keys, c.arena.Get(h).Key) })
	return keys
}

// Values returns every live value in the same order as Keys.
func (c *Cache[K, V]) Values() []V {
	vals := make([]V, 0, c.Len())
	ilist.Walk(&c.t1, c.arena, func(h slab.Handle) { vals = append(vals, c.arena.Get(h).Value) })
	ilist.Walk(&c.t2, c.arena, func(h slab.Handle) { vals = append(vals, c.arena.Get(h).Value) })
	return vals
}

// Stats returns a snapshot of the cache's hit/miss/eviction counters.
func (c *Cache[K, V]) Stats() cachestats.Stats { return c.stats }

// P returns the cache's current adaptive target size for T1.
func (c *Cache[K, V]) P() int { return c.p }

// ListLens returns the live lengths of T1, T2, B1, B2, for callers (and
// tests) that want to check the §4.6 invariants directly.
func (c *Cache[K, V]) ListLens() (t1, t2, b1, b2 int) {
	return c.t1.Len, c.t2.Len, c.b1.Len, c.b2.Len
}

func (c *Cache[K, V]) expired(e *entry.Entry[K, V]) bool {
	if c.wheel == nil {
		return false
	}
	return e.Expired(c.wheel.Now())
}

func (c *Cache[K, V]) removeHandle(k K, h slab.Handle) {
	e := c.arena.Get(h)
	switch e.Tag {
	case entry.TagT1:
		ilist.Unlink(&c.t1, c.arena, h)
	case entry.TagT2:
		ilist.Unlink(&c.t2, c.arena, h)
	case entry.TagB1:
		ilist.Unlink(&c.b1, c.arena, h)
	case entry.TagB2:
		ilist.Unlink(&c.b2, c.arena, h)
	}
	c.forgetTimer(k)
	delete(c.data, k)
	c.arena.Free(h)
}

func (c *Cache[K, V]) forgetTimer(k K) {
	if id, ok := c.timerByKey[k]; ok {
		if c.wheel != nil {
			c.wheel.DelTimer(id)
		}
		delete(c.timerByKey, k)
		delete(c.keyByTimer, id)
	}
}
