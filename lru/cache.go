// Package lru implements a single-list LRU cache: newest entry at the
// head, eviction from the tail, O(1) insert/get/touch via a hash index
// over a slab-backed intrusive list.
//
// It keeps the classic map-plus-doubly-linked-list architecture and
// functional-options configuration, generalized to a generic key/value
// pair, an intrusive list threaded through slab handles instead of
// container/list, and an optional TTL wired through a timer wheel
// instead of a goroutine janitor (the core is single-owner and
// synchronous by design — nothing here spawns a background goroutine;
// a caller drives time forward explicitly via AdvanceTime).
package lru

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
var ErrInvalidCapacity = errors.New("lru: capacity must be >= 0")

// Cache is a capacity-bounded, strict-LRU key/value store.
type Cache[K comparable, V any] struct {
	capacity int
	data     map[K]slab.Handle
	arena    *slab.Slab[entry.Entry[K, V], *entry.Entry[K, V]]
	order    ilist.List

	stats    cachestats.Stats
	recorder *cachestats.Recorder
	log      clog.Tracer

	wheel      *timerwheel.Wheel
	timerByKey map[K]timerwheel.TimerID
	keyByTimer map[timerwheel.TimerID]K
}

// New returns an LRU cache with room for capacity live entries. A capacity
// of 0 is valid: inserts succeed but are evicted immediately (§4.3). A
// negative capacity is rejected rather than silently clamped.
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
		opt(c)
	}
	return c, nil
}

// Len reports the number of live entries.
func (c *Cache[K, V]) Len() int { return c.order.Len }

// Capacity reports the configured capacity.
func (c *Cache[K, V]) Capacity() int { return c.capacity }

// IsEmpty reports whether the cache holds no entries.
func (c *Cache[K, V]) IsEmpty() bool { return c.order.Len == 0 }

// Clear removes every entry. Capacity, options and the hit/miss/eviction
// counters reported by Stats are preserved.
func (c *Cache[K, V]) Clear() {
	c.data = make(map[K]slab.Handle)
	c.arena = slab.New[entry.Entry[K, V], *entry.Entry[K, V]]()
	c.order = ilist.List{}
	c.timerByKey = make(map[K]timerwheel.TimerID)
	c.keyByTimer = make(map[timerwheel.TimerID]K)
}

// Insert adds or overwrites key k with value v, returning the value it
// replaced (if any). A new key moves to the front of the LRU order; an
// existing key is updated in place and also moved to the front. If
// inserting pushes Len past Capacity, the least recently used entry is
// evicted.
func (c *Cache[K, V]) Insert(k K, v V) (prev V, had bool) {
	if h, ok := c.data[k]; ok {
		e := c.arena.Get(h)
		prev, had = e.Value, true
		e.Value = v
		e.Expiry = 0
		ilist.MoveToFront(&c.order, c.arena, h)
		return prev, had
	}

	e := entry.Entry[K, V]{Key: k, Value: v, HasValue: true}
	h := c.arena.Allocate(e)
	ilist.PushFront(&c.order, c.arena, h)
	c.data[k] = h

	if c.order.Len > c.capacity {
		c.evictOldest()
	}

	return prev, false
}

// InsertWithTTL is Insert plus an expiry ticks from now, using the cache's
// timer wheel (WithTTL, or a lazily created default wheel on first call).
func (c *Cache[K, V]) InsertWithTTL(k K, v V, ticks int64) (prev V, had bool) {
	prev, had = c.Insert(k, v)
	c.SetTTL(k, ticks)
	return prev, had
}

// SetTTL (re)schedules key k to expire ticks from now, replacing any
// previous expiry. It reports whether k was present.
func (c *Cache[K, V]) SetTTL(k K, ticks int64) bool {
	h, ok := c.data[k]
	if !ok {
		return false
	}
	c.ensureWheel()

	if old, had := c.timerByKey[k]; had {
		c.wheel.DelTimer(old)
		delete(c.keyByTimer, old)
	}

	e := c.arena.Get(h)
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

// AdvanceTime moves the cache's timer wheel forward by ticks and evicts
// whatever expires, the wheel-driven half of lazy TTL (the other half is
// the expiry check inside Get/Peek). It is a no-op on a cache with no TTL
// wheel installed.
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

// Get looks up k, moving it to the front of the LRU order on a hit. An
// entry past its TTL is treated as absent and removed.
func (c *Cache[K, V]) Get(k K) (v V, ok bool) {
	h, found := c.data[k]
	if !found {
		c.stats.Misses++
		c.recorder.Miss()
		return v, false
	}

	e := c.arena.Get(h)
	if c.expired(e) {
		c.log.Expired(k)
		c.removeHandle(k, h)
		c.stats.Misses++
		c.recorder.Miss()
		return v, false
	}

	ilist.MoveToFront(&c.order, c.arena, h)
	c.stats.Hits++
	c.recorder.Hit()
	return e.Value, true
}

// Peek returns k's value without reordering it or counting toward hit/miss
// stats. A TTL-expired entry is still reported absent, but is left for a
// future Get or AdvanceTime to actually remove.
func (c *Cache[K, V]) Peek(k K) (v V, ok bool) {
	h, found := c.data[k]
	if !found {
		return v, false
	}
	e := c.arena.Get(h)
	if c.expired(e) {
		return v, false
	}
	return e.Value, true
}

// Contains reports whether k is present and unexpired, without reordering.
func (c *Cache[K, V]) Contains(k K) bool {
	_, ok := c.Peek(k)
	return ok
}

// Remove deletes k, returning its value if it was present.
func (c *Cache[K, V]) Remove(k K) (v V, had bool) {
	h, found := c.data[k]
	if !found {
		return v, false
	}
	v = c.arena.Get(h).Value
	c.removeHandle(k, h)
	return v, true
}

// Keys returns every live key, most-recently-used first.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, c.order.Len)
	ilist.Walk(&c.order, c.arena, func(h slab.Handle) {
		keys = append(keys, c.arena.Get(h).Key)
	})
	return keys
}

// Values returns every live value, most-recently-used first.
func (c *Cache[K, V]) Values() []V {
	vals := make([]V, 0, c.order.Len)
	ilist.Walk(&c.order, c.arena, func(h slab.Handle) {
		vals = append(vals, c.arena.Get(h).Value)
	})
	return vals
}

// Stats returns a snapshot of the cache's hit/miss/eviction counters.
func (c *Cache[K, V]) Stats() cachestats.Stats { return c.stats }

func (c *Cache[K, V]) expired(e *entry.Entry[K, V]) bool {
	if c.wheel == nil {
		return false
	}
	return e.Expired(c.wheel.Now())
}

func (c *Cache[K, V]) evictOldest() {
	h, ok := ilist.PopBack(&c.order, c.arena)
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

// removeHandle unlinks and frees h for key k, without touching eviction
// stats — used by explicit Remove and by expiry paths, neither of which is
// a capacity eviction.
func (c *Cache[K, V]) removeHandle(k K, h slab.Handle) {
	ilist.Unlink(&c.order, c.arena, h)
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
