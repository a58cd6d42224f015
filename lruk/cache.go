// Package lruk implements an LRU-K cache: a history list for entries seen
// fewer than K times and a main list for entries that have earned
// promotion, so a single burst of one-shot traffic can't evict
// long-lived hot entries the way plain LRU would.
//
// It reuses the same map-plus-doubly-linked-list shape as package lru,
// generalized to a two-queue arrangement, but threads both lists through
// one slab arena instead of two separate container/lists, disambiguated
// by each entry's list-tag.
package lruk

import (
	"errors"

	"github.com/tempuscache/corecache/cachestats"
	"github.com/tempuscache/corecache/entry"
	"github.com/tempuscache/corecache/ilist"
	"github.com/tempuscache/corecache/internal/clog"
	"github.com/tempuscache/corecache/slab"
	"github.com/tempuscache/corecache/timerwheel"
)

// DefaultK is the promotion threshold used unless WithK overrides it.
const DefaultK = 2

// ErrInvalidCapacity is returned by New for a negative capacity.
var ErrInvalidCapacity = errors.New("lruk: capacity must be >= 0")

// Cache is a capacity-bounded, two-queue LRU-K store.
type Cache[K comparable, V any] struct {
	capacity int
	k        uint32

	data    map[K]slab.Handle
	arena   *slab.Slab[entry.Entry[K, V], *entry.Entry[K, V]]
	history ilist.List
	main    ilist.List

	stats    cachestats.Stats
	recorder *cachestats.Recorder
	log      clog.Tracer

	wheel      *timerwheel.Wheel
	timerByKey map[K]timerwheel.TimerID
	keyByTimer map[timerwheel.TimerID]K
}

// New returns an LRU-K cache with room for capacity live entries and a
// default promotion threshold of DefaultK (override with WithK).
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity < 0 {
		return nil, ErrInvalidCapacity
	}
	c := &Cache[K, V]{
		capacity:   capacity,
		k:          DefaultK,
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

// Len reports the number of live entries across both lists.
func (c *Cache[K, V]) Len() int { return c.history.Len + c.main.Len }

// Capacity reports the configured capacity.
func (c *Cache[K, V]) Capacity() int { return c.capacity }

// IsEmpty reports whether the cache holds no entries.
func (c *Cache[K, V]) IsEmpty() bool { return c.Len() == 0 }

// Clear removes every entry.
func (c *Cache[K, V]) Clear() {
	c.data = make(map[K]slab.Handle)
	c.arena = slab.New[entry.Entry[K, V], *entry.Entry[K, V]]()
	c.history = ilist.List{}
	c.main = ilist.List{}
	c.timerByKey = make(map[K]timerwheel.TimerID)
	c.keyByTimer = make(map[timerwheel.TimerID]K)
}

// Insert adds or overwrites key k with value v, returning the value it
// replaced (if any). A key already in the main list is updated and moved
// to its front. A key in history has its visit count bumped and is
// promoted to main once that count reaches K; otherwise it moves to the
// front of history. A brand-new key starts in history with one visit.
func (c *Cache[K, V]) Insert(k K, v V) (prev V, had bool) {
	if h, ok := c.data[k]; ok {
		e := c.arena.Get(h)
		prev, had = e.Value, true
		e.Value = v
		e.Expiry = 0

		if e.Tag == entry.TagMain {
			ilist.MoveToFront(&c.main, c.arena, h)
		} else {
			e.Visits++
			c.touchHistory(k, h, e)
		}
		return prev, had
	}

	e := entry.Entry[K, V]{Key: k, Value: v, HasValue: true, Tag: entry.TagHistory, Visits: 1}
	h := c.arena.Allocate(e)
	ilist.PushFront(&c.history, c.arena, h)
	c.data[k] = h

	if c.Len() > c.capacity {
		c.evict()
	}

	return prev, false
}

// InsertWithTTL is Insert plus an expiry ticks from now.
func (c *Cache[K, V]) InsertWithTTL(k K, v V, ticks int64) (prev V, had bool) {
	prev, had = c.Insert(k, v)
	c.SetTTL(k, ticks)
	return prev, had
}

// SetTTL (re)schedules key k to expire ticks from now. It reports whether
// k was present.
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

// AdvanceTime moves the timer wheel forward by ticks and evicts whatever
// expires. A no-op on a cache with no TTL wheel installed.
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

// touchHistory applies the promotion rule: if visits has reached K, unlink
// from history and push to the front of main; otherwise move to the front
// of history.
func (c *Cache[K, V]) touchHistory(k K, h slab.Handle, e *entry.Entry[K, V]) {
	if e.Visits >= c.k {
		ilist.Unlink(&c.history, c.arena, h)
		e.Tag = entry.TagMain
		e.Promoted = true
		ilist.PushFront(&c.main, c.arena, h)
		c.log.Promoted(k)
		return
	}
	ilist.MoveToFront(&c.history, c.arena, h)
}

// Get looks up k, incrementing its visit count and applying the same
// promotion rule as Insert.
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

	e.Visits++
	if e.Tag == entry.TagMain {
		ilist.MoveToFront(&c.main, c.arena, h)
	} else {
		c.touchHistory(k, h, e)
	}

	c.stats.Hits++
	c.recorder.Hit()
	return e.Value, true
}

// Peek returns k's value without reordering it, bumping its visit count,
// or counting toward hit/miss stats.
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

// GetVisit returns k's current visit count.
func (c *Cache[K, V]) GetVisit(k K) (uint32, bool) {
	h, ok := c.data[k]
	if !ok {
		return 0, false
	}
	return c.arena.Get(h).Visits, true
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

// Keys returns every live key: history entries (most-recent-first), then
// main entries (most-recent-first).
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, c.Len())
	ilist.Walk(&c.history, c.arena, func(h slab.Handle) { keys = append(keys, c.arena.Get(h).Key) })
	ilist.Walk(&c.main, c.arena, func(h slab.Handle) { keys = append(keys, c.arena.Get(h).Key) })
	return keys
}

// Values returns every live value in the same order as Keys.
func (c *Cache[K, V]) Values() []V {
	vals := make([]V, 0, c.Len())
	ilist.Walk(&c.history, c.arena, func(h slab.Handle) { vals = append(vals, c.arena.Get(h).Value) })
	ilist.Walk(&c.main, c.arena, func(h slab.Handle) { vals = append(vals, c.arena.Get(h).Value) })
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

// evict reclaims one entry when Len has exceeded Capacity: history's tail
// first (cold, one-shot traffic), falling back to main's tail only once
// history is empty — the rule that protects hot entries from a burst of
// one-time lookups.
func (c *Cache[K, V]) evict() {
	h, ok := ilist.PopBack(&c.history, c.arena)
	if !ok {
		h, ok = ilist.PopBack(&c.main, c.arena)
		if !ok {
			return
		}
	}
	k := c.arena.Get(h).Key
	c.log.Evicted(k)
	c.stats.Evictions++
	c.recorder.Eviction()
	c.forgetTimer(k)
	delete(c.data, k)
	c.arena.Free(h)
}

func (c *Cache[K, V]) removeHandle(k K, h slab.Handle) {
	e := c.arena.Get(h)
	if e.Tag == entry.TagMain {
		ilist.Unlink(&c.main, c.arena, h)
	} else {
		ilist.Unlink(&c.history, c.arena, h)
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
