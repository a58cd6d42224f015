// Package entry defines the record every corecache cache stores in its
// slab: a key, a value, the intrusive list links, and the handful of extra
// fields the eviction policies need (LRU-K's visit count, LFU's frequency,
// ARC's list-tag, an optional TTL expiry tick).
//
// One struct serves every cache rather than one per policy so that slab and
// ilist stay policy-agnostic — they only need the Reinit and ilist.Node
// capabilities, which Entry implements once for everybody.
package entry

import "github.com/tempuscache/corecache/slab"

// Tag disambiguates which named list an entry currently belongs to, for
// caches that maintain more than one list over the same arena. LRU and LFU
// don't use it; LRU-K and ARC do.
type Tag uint8

const (
	TagNone Tag = iota
	TagHistory
	TagMain
	TagT1
	TagT2
	TagB1
	TagB2
)

// Entry is the payload stored in a cache's slab.Slab.
type Entry[K comparable, V any] struct {
	Key   K
	Value V

	// HasValue is false for ghost entries (ARC's B1/B2): the key is
	// retained to detect a recent eviction, but the value has been freed.
	HasValue bool

	Prev, Next slab.Handle
	Tag        Tag

	// Expiry is the absolute tick at which this entry expires under the
	// TTL feature; 0 means no expiry.
	Expiry int64

	// Visits is LRU-K's per-entry hit count or LFU's frequency counter,
	// depending on which cache owns this arena. Unused by LRU and ARC.
	Visits uint32

	// Promoted is LRU-K's flag for "has reached the main list".
	Promoted bool
}

// GetLinks implements ilist.Node.
func (e *Entry[K, V]) GetLinks() (prev, next slab.Handle) { return e.Prev, e.Next }

// SetLinks implements ilist.Node.
func (e *Entry[K, V]) SetLinks(prev, next slab.Handle) { e.Prev, e.Next = prev, next }

// Reinit implements slab.Reinit. It clears every bookkeeping field and
// resets Value to its zero value — K and V are arbitrary comparable/any
// types with no Reinit of their own to delegate to, so a recycled slot pays
// for a fresh zero value rather than reusing V's heap sub-allocations.
func (e *Entry[K, V]) Reinit() {
	var zeroK K
	e.Key = zeroK

	var zeroV V
	e.Value = zeroV

	e.HasValue = false
	e.Prev, e.Next = slab.Nil, slab.Nil
	e.Tag = TagNone
	e.Expiry = 0
	e.Visits = 0
	e.Promoted = false
}

// Expired reports whether e carries a TTL that has passed nowTicks. An
// entry with Expiry == 0 never expires.
func (e *Entry[K, V]) Expired(nowTicks int64) bool {
	return e.Expiry != 0 && nowTicks >= e.Expiry
}
