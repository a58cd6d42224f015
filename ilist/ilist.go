// Package ilist implements the intrusive doubly linked list every cache
// threads through its slab-allocated entries.
//
// It is deliberately not a standalone owned container: a list is just a
// head handle, a tail handle, and a length, with the prev/next fields
// living inside each entry. That lets
// several named lists — LRU-K's history and main, ARC's T1/T2/B1/B2 — share
// one arena: an entry belongs to at most one list at a time, and a
// cache-defined list-tag on the entry records which.
package ilist

import "github.com/tempuscache/corecache/slab"

// Node is the capability a slab entry must provide to be threaded through a
// List: storage for one prev/next handle pair, plus slab.Reinit (the arena
// every operation takes is a slab.Slab, which requires it), reachable
// through pointer type PT (always *T) exactly the way slab.Reinit is — see
// slab's package doc for why a single type parameter can't express this.
type Node[T any] interface {
	slab.Reinit[T]
	GetLinks() (prev, next slab.Handle)
	SetLinks(prev, next slab.Handle)
}

// List is the head/tail/length state of one intrusive list. The arena it
// points into is supplied separately to every operation, never stored on
// List itself — the same arena backs every list a cache maintains. The zero
// value is an empty list; Head and Tail are only meaningful while Len > 0.
type List struct {
	Head, Tail slab.Handle
	Len        int
}

// Empty reports whether the list currently has no members.
func (l *List) Empty() bool { return l.Len == 0 }

// PushFront links h in as the new head of l. h must not already belong to
// any list.
func PushFront[T any, PT Node[T]](l *List, s *slab.Slab[T, PT], h slab.Handle) {
	n := PT(s.Get(h))
	oldHead := slab.Nil
	if l.Len > 0 {
		oldHead = l.Head
	}
	n.SetLinks(slab.Nil, oldHead)

	if l.Len > 0 {
		head := PT(s.Get(oldHead))
		_, headNext := head.GetLinks()
		head.SetLinks(h, headNext)
	} else {
		l.Tail = h
	}

	l.Head = h
	l.Len++
}

// PushBack links h in as the new tail of l. h must not already belong to
// any list.
func PushBack[T any, PT Node[T]](l *List, s *slab.Slab[T, PT], h slab.Handle) {
	n := PT(s.Get(h))
	oldTail := slab.Nil
	if l.Len > 0 {
		oldTail = l.Tail
	}
	n.SetLinks(oldTail, slab.Nil)

	if l.Len > 0 {
		tail := PT(s.Get(oldTail))
		tailPrev, _ := tail.GetLinks()
		tail.SetLinks(tailPrev, h)
	} else {
		l.Head = h
	}

	l.Tail = h
	l.Len++
}

// Unlink removes h from l. h must currently belong to l.
func Unlink[T any, PT Node[T]](l *List, s *slab.Slab[T, PT], h slab.Handle) {
	n := PT(s.Get(h))
	prev, next := n.GetLinks()

	if prev != slab.Nil {
		p := PT(s.Get(prev))
		pPrev, _ := p.GetLinks()
		p.SetLinks(pPrev, next)
	} else {
		l.Head = next
	}

	if next != slab.Nil {
		nx := PT(s.Get(next))
		_, nxNext := nx.GetLinks()
		nx.SetLinks(prev, nxNext)
	} else {
		l.Tail = prev
	}

	n.SetLinks(slab.Nil, slab.Nil)
	l.Len--
}

// MoveToFront moves h, already a member of l, to the head of l. This is the
// hot path for LRU-style touches: at most three neighbors' links (h's old
// prev and next, and the old head) and the head/tail pointers are updated.
func MoveToFront[T any, PT Node[T]](l *List, s *slab.Slab[T, PT], h slab.Handle) {
	if l.Head == h {
		return
	}
	Unlink(l, s, h)
	PushFront(l, s, h)
}

// MoveToBack moves h, already a member of l, to the tail of l.
func MoveToBack[T any, PT Node[T]](l *List, s *slab.Slab[T, PT], h slab.Handle) {
	if l.Tail == h {
		return
	}
	Unlink(l, s, h)
	PushBack(l, s, h)
}

// PopBack unlinks and returns the tail of l — the next eviction candidate
// for every list in this module (§4.3–§4.6 all evict from a list tail).
func PopBack[T any, PT Node[T]](l *List, s *slab.Slab[T, PT]) (slab.Handle, bool) {
	if l.Len == 0 {
		return slab.Nil, false
	}
	h := l.Tail
	Unlink(l, s, h)
	return h, true
}

// Walk visits l head-to-tail (most-recent-first for an LRU-ordered list).
func Walk[T any, PT Node[T]](l *List, s *slab.Slab[T, PT], visit func(slab.Handle)) {
	if l.Len == 0 {
		return
	}
	for h := l.Head; h != slab.Nil; {
		n := PT(s.Get(h))
		_, next := n.GetLinks()
		visit(h)
		h = next
	}
}

// WalkBack visits l tail-to-head.
func WalkBack[T any, PT Node[T]](l *List, s *slab.Slab[T, PT], visit func(slab.Handle)) {
	if l.Len == 0 {
		return
	}
	for h := l.Tail; h != slab.Nil; {
		n := PT(s.Get(h))
		prev, _ := n.GetLinks()
		visit(h)
		h = prev
	}
}
