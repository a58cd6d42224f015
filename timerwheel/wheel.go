// Package timerwheel implements the hierarchical, hashed timer wheel that
// backs the TTL feature of every cache in this module: a sequence of rings,
// coarsest first, each mapping a delay (in caller-defined ticks) to a slot;
// advancing the wheel cascades coarser slots down into finer ones and
// collects whatever lands in the current instant.
//
// Every ring's slot holds its pending timers in a stdlib container/list,
// repurposed here per slot instead of per cache.
package timerwheel

import (
	"container/list"
	"errors"
	"slices"
)

// TimerID is a stable handle returned by AddTimer.
type TimerID uint64

// ErrRingsSealed is returned by AppendRing once a timer has been added:
// the ring configuration becomes load-bearing for every live timer's
// placement and cannot change afterward.
var ErrRingsSealed = errors.New("timerwheel: cannot append a ring after a timer has been added")

type timerEntry struct {
	id        TimerID
	remainder int64
}

type timerRef struct {
	ring int
	list *list.List
	elem *list.Element
}

type ring struct {
	name     string
	numSlots int
	tickSize int64
	slots    []*list.List
	pointer  int
}

// Wheel is a hierarchical timer wheel. The zero value is not usable;
// construct one with New and append at least one ring before use.
type Wheel struct {
	rings   []ring
	timers  map[TimerID]*timerRef
	targets map[TimerID]int64
	nextID  TimerID
	now     int64
	started bool
}

// New returns an empty Wheel with no rings. Call AppendRing, coarsest
// first, before adding timers.
func New() *Wheel {
	return &Wheel{
		timers:  make(map[TimerID]*timerRef),
		targets: make(map[TimerID]int64),
	}
}

// AppendRing adds a ring of slotCount slots, each spanning tickSize base
// ticks, to the wheel. Rings must be appended coarsest first. Once
// AddTimer has been called, AppendRing always fails with ErrRingsSealed.
func (w *Wheel) AppendRing(slotCount int, tickSize int64, name string) error {
	if w.started {
		return ErrRingsSealed
	}
	slots := make([]*list.List, slotCount)
	for i := range slots {
		slots[i] = list.New()
	}
	w.rings = append(w.rings, ring{name: name, numSlots: slotCount, tickSize: tickSize, slots: slots})
	return nil
}

// IsEmpty reports whether the wheel currently holds no pending timers.
func (w *Wheel) IsEmpty() bool { return len(w.timers) == 0 }

// Now returns the wheel's current absolute tick, for callers that need to
// compare an entry's stored expiry against "now" without calling
// GetDelayID for every key (the lazy-expiry check on a cache Get).
func (w *Wheel) Now() int64 { return w.now }

// NewDefault returns a Wheel preconfigured with the three-ring layout used
// throughout this module's tests and documentation: 12 slots of 3600
// ticks, 60 of 60, 60 of 1 — enough range for tick units of seconds to
// cover half a day before wraparound, with one-second resolution.
func NewDefault() *Wheel {
	w := New()
	_ = w.AppendRing(12, 3600, "hours")
	_ = w.AppendRing(60, 60, "minutes")
	_ = w.AppendRing(60, 1, "seconds")
	return w
}

// AddTimer schedules a firing delayTicks from now and returns a stable id
// that DelTimer can cancel in O(1).
func (w *Wheel) AddTimer(delayTicks int64) TimerID {
	w.started = true
	if delayTicks < 0 {
		delayTicks = 0
	}

	id := w.nextID
	w.nextID++

	ri := w.chooseRing(delayTicks)
	r := &w.rings[ri]
	// Count from the start of ring ri's current slot: the finer rings are
	// already w.now % tickSize ticks into it.
	span := delayTicks + w.now%r.tickSize
	offset := span / r.tickSize
	remainder := span % r.tickSize
	slotIdx := (r.pointer + int(offset)) % r.numSlots

	elem := r.slots[slotIdx].PushBack(&timerEntry{id: id, remainder: remainder})
	w.timers[id] = &timerRef{ring: ri, list: r.slots[slotIdx], elem: elem}
	w.targets[id] = w.now + delayTicks

	return id
}

// chooseRing finds the coarsest ring whose tick size still fits delay —
// scanning coarsest-to-finest and taking the first match gives the largest
// qualifying tick size, since tick size only decreases moving through the
// slice.
func (w *Wheel) chooseRing(delay int64) int {
	for i := range w.rings {
		if w.rings[i].tickSize <= delay {
			return i
		}
	}
	return len(w.rings) - 1
}

// DelTimer cancels id in O(1). Canceling an id that is unknown (already
// fired, already canceled, or never issued by this wheel) is a no-op.
func (w *Wheel) DelTimer(id TimerID) {
	ref, ok := w.timers[id]
	if !ok {
		return
	}
	ref.list.Remove(ref.elem)
	delete(w.timers, id)
	delete(w.targets, id)
}

// GetDelayID returns the smallest absolute delay, in ticks from now, across
// every pending timer — the value a caller should sleep for before calling
// UpdateDeltatime again. ok is false if the wheel holds no timers.
func (w *Wheel) GetDelayID() (delayTicks int64, ok bool) {
	if len(w.targets) == 0 {
		return 0, false
	}
	best := int64(-1)
	for _, target := range w.targets {
		d := target - w.now
		if best == -1 || d < best {
			best = d
		}
	}
	return best, true
}

// UpdateDeltatime advances the wheel's base cursor by ticks, cascading any
// ring whose slot boundary is crossed, and returns the ids of every timer
// that fires along the way, in the order they come due (ties — same tick —
// break by registration order).
func (w *Wheel) UpdateDeltatime(ticks int64) []TimerID {
	var fired []TimerID
	for i := int64(0); i < ticks; i++ {
		w.now++
		fired = append(fired, w.tick()...)
	}
	return fired
}

// tick advances the wheel by exactly one base tick and returns whatever
// fires at the new instant.
func (w *Wheel) tick() []TimerID {
	if len(w.rings) == 0 {
		return nil
	}
	finest := len(w.rings) - 1
	r := &w.rings[finest]
	r.pointer = (r.pointer + 1) % r.numSlots
	if r.pointer == 0 {
		w.cascade(finest - 1)
	}
	return w.drain(finest)
}

// cascade advances ring i by one slot — recursing into ring i-1 first if
// that advance itself wraps — then redistributes ring i's newly current
// slot down into ring i+1.
func (w *Wheel) cascade(i int) {
	if i < 0 {
		return
	}
	r := &w.rings[i]
	r.pointer = (r.pointer + 1) % r.numSlots
	if r.pointer == 0 {
		w.cascade(i - 1)
	}
	w.redistribute(i)
}

// redistribute moves every timer in ring i's current slot down into ring
// i+1, recomputing its slot there from its stored remainder. A remainder
// that lands exactly on ring i+1's finest granularity (remainder 0, or
// ring i+1 being the finest ring) makes the timer eligible to fire the
// moment drain runs for this same tick.
func (w *Wheel) redistribute(i int) {
	from := &w.rings[i]
	to := &w.rings[i+1]
	slot := from.slots[from.pointer]

	for e := slot.Front(); e != nil; {
		next := e.Next()
		te := e.Value.(*timerEntry)
		slot.Remove(e)

		offset := te.remainder / to.tickSize
		te.remainder = te.remainder % to.tickSize
		newSlotIdx := (to.pointer + int(offset)) % to.numSlots
		newElem := to.slots[newSlotIdx].PushBack(te)

		w.timers[te.id] = &timerRef{ring: i + 1, list: to.slots[newSlotIdx], elem: newElem}

		e = next
	}
}

// drain pops every timer in ring i's current slot and returns their ids in
// registration (id) order; only meaningful for the finest ring, whose slot
// width is one tick.
func (w *Wheel) drain(i int) []TimerID {
	r := &w.rings[i]
	slot := r.slots[r.pointer]

	var ids []TimerID
	for e := slot.Front(); e != nil; {
		next := e.Next()
		te := e.Value.(*timerEntry)
		slot.Remove(e)
		delete(w.timers, te.id)
		delete(w.targets, te.id)
		ids = append(ids, te.id)
		e = next
	}
	slices.Sort(ids)
	return ids
}
