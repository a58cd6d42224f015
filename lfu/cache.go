// Package lfu implements a frequency-bucketed cache: every entry's visit
// count selects which bucket (a doubly linked list) it lives in, eviction
// always takes the tail of the lowest non-empty bucket, and a
// configurable reduce-count threshold periodically halves every visit
// count so long-lived entries stay evictable.
//
// Built the same way lru and lruk are — map index plus slab-backed
// intrusive lists — generalized from one list to a sparse collection of
// them, one per frequency currently in use.
package lfu

import (
	"errors"
	"sort"

	"github.com/tempuscache/corecache/cachestats"
	"github.com/tempuscache/corecache/entry"
	"github.com/tempuscache/corecache/ilist"
	"github.com/tempuscache/corecache/internal/clog"
	"github.com/tempuscache/corecache/slab"
	"github.com/tempuscache/corecache/timerwheel"
)

// ErrInvalidCapacity is returned by New for a negative capacity.
var ErrInvalidCapacity = errors.New("lfu: capacity must be >= 0")

// Cache is a capacity-bounded, frequency-bucketed key/value store.
type Cache[K comparable, V any] struct {
	capacity int

	data    map[K]slab.Handle
	arena   *slab.Slab[entry.Entry[K, V], *entry.Entry[K, V]]
	buckets map[uint32]*ilist.List
	minFreq uint32

	reduceCount uint64
	visitCount  uint64

	stats    cachestats.Stats
	recorder *cachestats.Recorder
	log      clog.Tracer

	wheel      *timerwheel.Wheel
	timerByKey map[K]timerwheel.TimerID
	keyByTimer map[timerwheel.TimerID]K
}

// New returns an LFU cache with room for capacity live entries. A
// negative capacity is rejected rather than silently clamped.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity < 0 {
		return nil, ErrInvalidCapacity
	}
	c := &Cache[K, V]{
		capacity:   capacity,
		data:       make(map[K]slab.Handle),
		arena:      slab.New[entry.Entry[K, V], *entry.Entry[K, V]](),
		buckets:    make(map[uint32]*ilist.List),
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

// Len reports the number of live entries.
func (c *Cache[K, V]) Len() int { return len(c.data) }

// Capacity reports the configured capacity.
func (c *Cache[K, V]) Capacity() int { return c.capacity }

// IsEmpty reports whether the cache holds no entries.
func (c *Cache[K, V]) IsEmpty() bool { return len(c.data) == 0 }

// Clear removes every entry.
func (c *Cache[K, V]) Clear() {
	c.data = make(map[K]slab.Handle)
	c.arena = slab.New[entry.Entry[K, V], *entry.Entry[K, V]]()
	c.buckets = make(map[uint32]*ilist.List)
	c.minFreq = 0
	c.visitCount = 0
	c.timerByKey = make(map[K]timerwheel.TimerID)
	c.keyByTimer = make(map[timerwheel.TimerID]K)
}

// SetReduceCount installs or replaces the decay threshold at runtime. A
// value of 0 disables decay.
func (c *Cache[K, V]) SetReduceCount(n uint64) {
	c.reduceCount = n
}

func (c *Cache[K, V]) bucket(freq uint32) *ilist.List {
	l, ok := c.buckets[freq]
	if !ok {
		l = &ilist.List{}
		c.buckets[freq] = l
	}
	return l
}

// Insert adds or overwrites key k with value v, returning the value it
// replaced (if any). An existing key is treated as a get plus value
// overwrite (its frequency rises). A new key starts in bucket 1, which
// becomes the global minimum frequency unless decay has left entries at 0,
// and triggers an eviction if this insert pushed Len past Capacity.
func (c *Cache[K, V]) Insert(k K, v V) (prev V, had bool) {
	if h, ok := c.data[k]; ok {
		e := c.arena.Get(h)
		prev, had = e.Value, true
		e.Value = v
		e.Expiry = 0
		c.touch(h)
		return prev, had
	}

	e := entry.Entry[K, V]{Key: k, Value: v, HasValue: true, Visits: 1}
	h := c.arena.Allocate(e)
	ilist.PushFront(c.bucket(1), c.arena, h)
	c.data[k] = h
	if _, zero := c.buckets[0]; !zero {
		// Decay can leave entries at visit 0; only without them is 1 the minimum.
		c.minFreq = 1
	}

	if len(c.data) > c.capacity {
		c.evictOldest()
	}

	return prev, false
}

// InsertWithTTL is Insert plus an expiry ticks from now.
func (c *Cache[K, V]) InsertWithTTL(k K, v V, ticks int64) (prev V, had bool) {
	prev, had = c.Insert(k, v)
	c.SetTTL(k, ticks)
	return prev, had
}

// SetTTL (re)schedules key k to expire ticks from now.
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

// Get looks up k, incrementing its visit count and moving it to the front
// of the next bucket up.
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

	c.touch(h)
	c.stats.Hits++
	c.recorder.Hit()
	return e.Value, true
}

// Peek returns k's value without touching its frequency or hit/miss stats.
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

// Contains reports whether k is present and unexpired, without touching it.
func (c *Cache[K, V]) Contains(k K) bool {
	_, ok := c.Peek(k)
	return ok
}

// GetVisit returns k's current visit count (its bucket number).
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

// Keys returns every live key in ascending-frequency order, most-recent
// first within a bucket.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.data))
	c.walkBuckets(func(h slab.Handle) { keys = append(keys, c.arena.Get(h).Key) })
	return keys
}

// Values returns every live value in the same order as Keys.
func (c *Cache[K, V]) Values() []V {
	vals := make([]V, 0, len(c.data))
	c.walkBuckets(func(h slab.Handle) { vals = append(vals, c.arena.Get(h).Value) })
	return vals
}

func (c *Cache[K, V]) walkBuckets(visit func(slab.Handle)) {
	freqs := make([]uint32, 0, len(c.buckets))
	for f := range c.buckets {
		freqs = append(freqs, f)
	}
	sort.Slice(freqs, func(i, j int) bool { return freqs[i] < freqs[j] })
	for _, f := range freqs {
		ilist.Walk(c.buckets[f], c.arena, visit)
	}
}

// Stats returns a snapshot of the cache's hit/miss/eviction counters.
func (c *Cache[K, V]) Stats() cachestats.Stats { return c.stats }

func (c *Cache[K, V]) expired(e *entry.Entry[K, V]) bool {
	if c.wheel == nil {
		return false
	}
	return e.Expired(c.wheel.Now())
}

// touch moves h from its current frequency bucket to the next one up,
// maintaining minFreq and, once visitCount crosses reduceCount, triggering
// decay.
func (c *Cache[K, V]) touch(h slab.Handle) {
	e := c.arena.Get(h)
	oldFreq := e.Visits
	c.unlinkFromBucket(oldFreq, h)

	e.Visits++
	ilist.PushFront(c.bucket(e.Visits), c.arena, h)

	c.visitCount++
	if c.reduceCount > 0 && c.visitCount > c.reduceCount {
		c.decay()
	}
}

func (c *Cache[K, V]) unlinkFromBucket(freq uint32, h slab.Handle) {
	l := c.buckets[freq]
	if l == nil {
		return
	}
	ilist.Unlink(l, c.arena, h)
	if l.Len == 0 {
		delete(c.buckets, freq)
		if freq == c.minFreq {
			c.recomputeMinFreq()
		}
	}
}

func (c *Cache[K, V]) recomputeMinFreq() {
	var min uint32
	found := false
	for f, l := range c.buckets {
		if l.Len == 0 {
			continue
		}
		if !found || f < min {
			min, found = f, true
		}
	}
	if !found {
		min = 0
	}
	c.minFreq = min
}

// decay halves every live entry's visit count (integer division), rebuilds
// the bucket map around the halved counts, and resets the running visit
// counter. Per-bucket most-recent-first order is preserved across the
// rebuild.
func (c *Cache[K, V]) decay() {
	rebuilt := make(map[uint32]*ilist.List)

	freqs := make([]uint32, 0, len(c.buckets))
	for f := range c.buckets {
		freqs = append(freqs, f)
	}
	sort.Slice(freqs, func(i, j int) bool { return freqs[i] < freqs[j] })

	for _, f := range freqs {
		old := c.buckets[f]
		var handles []slab.Handle
		ilist.Walk(old, c.arena, func(h slab.Handle) { handles = append(handles, h) })

		for _, h := range handles {
			e := c.arena.Get(h)
			e.Visits /= 2
			dst, ok := rebuilt[e.Visits]
			if !ok {
				dst = &ilist.List{}
				rebuilt[e.Visits] = dst
			}
			ilist.PushBack(dst, c.arena, h)
		}
	}

	c.buckets = rebuilt
	c.visitCount = 0
	c.recomputeMinFreq()
	c.log.Decayed(int(c.minFreq))
}

// evictOldest reclaims the tail of the minFreq bucket.
func (c *Cache[K, V]) evictOldest() {
	l := c.buckets[c.minFreq]
	if l == nil {
		return
	}
	h, ok := ilist.PopBack(l, c.arena)
	if !ok {
		return
	}
	if l.Len == 0 {
		delete(c.buckets, c.minFreq)
		c.recomputeMinFreq()
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
	c.unlinkFromBucket(e.Visits, h)
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
