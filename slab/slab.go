// Package slab implements the handle arena every cache in corecache is
// built on: a growable vector of reusable slots, addressed by a stable
// integer handle instead of a pointer.
//
// DESIGN PURPOSE
//
// Every cache needs a place to actually store entries so that a hash index
// and one or more intrusive lists can both refer to the same record without
// either of them owning it. Slab is that place. A handle survives list
// moves, promotions between LRU-K's history/main lists, and ARC's
// live/ghost transitions unchanged; only Free invalidates it.
//
// WHY HANDLES, NOT POINTERS
//
// A handle is just an index. Cyclic prev/next references between entries
// (the thing an intrusive doubly linked list needs) become plain integer
// fields instead of ownership pointers, which sidesteps the reference
// counting or unsafe aliasing a pointer-based node graph would otherwise
// need in Go.
//
// TWO TYPE PARAMETERS
//
// Slab stores values of T inline (a true arena: one contiguous, growable
// []T, not one heap object per entry), but Reinit and the intrusive list's
// GetLinks/SetLinks are naturally pointer-receiver methods — they mutate
// the stored record in place. Go's generics can't express "T, but call a
// pointer-receiver method on it" with a single type parameter, so Slab
// takes a second parameter PT constrained to *T: the standard
// self-referential pointer pattern for exactly this situation.
package slab

// Handle is a stable integer identifier into a Slab slot. It remains valid
// from allocation until the matching Free call.
type Handle int32

// Nil is the sentinel for an unassigned handle: no entry, no slot. It is
// not Handle's zero value, which is the valid handle of slot 0.
const Nil Handle = -1

// Reinit is satisfied by a pointer to T that can reset the pointed-to
// value to its canonical empty state without releasing any heap
// sub-allocations it holds (large buffers, backing arrays, maps). Slab
// relies on it to recycle a freed slot cheaply; a type that cannot reuse
// its own storage may fall back to letting Reinit zero every field, at the
// cost of the performance Reinit exists to preserve.
type Reinit[T any] interface {
	*T
	Reinit()
}

type slot[T any] struct {
	occupied bool
	value    T
	nextFree Handle
}

// Slab is a vector of reusable slots holding values of type T, each
// reachable through a pointer type PT (almost always *T) that implements
// Reinit. The zero value is not usable; construct one with New.
type Slab[T any, PT Reinit[T]] struct {
	slots    []slot[T]
	freeHead Handle
	len      int
}

// New returns an empty Slab ready for use.
func New[T any, PT Reinit[T]]() *Slab[T, PT] {
	return &Slab[T, PT]{freeHead: Nil}
}

// Len reports the number of occupied slots.
func (s *Slab[T, PT]) Len() int { return s.len }

// Capacity reports the total number of slots allocated so far, occupied or
// free. It only grows; Slab never shrinks on its own (§5, memory policy).
func (s *Slab[T, PT]) Capacity() int { return len(s.slots) }

// Get returns a pointer to the entry stored at h. The caller must only pass
// handles returned by Allocate or GetReinitNext that have not since been
// freed; passing any other handle is a contract violation and the result is
// not safe to use.
func (s *Slab[T, PT]) Get(h Handle) *T {
	return &s.slots[h].value
}

// Allocate stores v in a slot — reusing the most recently freed slot if one
// is available (a LIFO free list), otherwise growing the slab — and returns
// its handle.
func (s *Slab[T, PT]) Allocate(v T) Handle {
	h, slot := s.GetReinitNext()
	*slot = v
	return h
}

// GetReinitNext returns a handle to a slot whose previous value has been
// reset in place via Reinit, rather than dropped and freshly constructed.
// This is the differentiator from a generic arena: a recycled slot keeps
// its own heap sub-allocations and only clears logical content. Callers
// that want a slot with a specific value should write through the returned
// pointer immediately; Allocate is this call followed by an overwrite.
func (s *Slab[T, PT]) GetReinitNext() (Handle, *T) {
	if s.freeHead != Nil {
		h := s.freeHead
		sl := &s.slots[h]
		s.freeHead = sl.nextFree
		PT(&sl.value).Reinit()
		sl.occupied = true
		s.len++
		return h, &sl.value
	}

	h := Handle(len(s.slots))
	s.slots = append(s.slots, slot[T]{occupied: true})
	s.len++
	return h, &s.slots[h].value
}

// Free releases h back to the slab for reuse. Freeing a handle that is
// already free is a programming error and panics — the arena has no way to
// distinguish a legitimate double-free from a stale handle being reused
// after the slot was recycled for something else, and silently succeeding
// would corrupt whichever entry now occupies that slot.
func (s *Slab[T, PT]) Free(h Handle) {
	sl := &s.slots[h]
	if !sl.occupied {
		panic("slab: double free of handle")
	}
	sl.occupied = false
	PT(&sl.value).Reinit()
	sl.nextFree = s.freeHead
	s.freeHead = h
	s.len--
}
