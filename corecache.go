// Package corecache is the umbrella package tying lru, lruk, lfu, and arc
// together for a caller that wants to treat "which eviction policy" as a
// runtime choice rather than a compile-time one.
//
// Per §9's design note, dispatch across cache kinds stays static: CacheLike
// is satisfied structurally, with no embedding or virtual table inside any
// of the four concrete cache types. A generic function written against
// CacheLike works with whichever concrete *Cache a caller constructs.
package corecache

import "github.com/tempuscache/corecache/cachestats"

// CacheLike is the common surface every concrete cache (lru.Cache,
// lruk.Cache, lfu.Cache, arc.Cache) satisfies, for code that wants to work
// across eviction policies without caring which one backs a given
// instance — a config-driven cache factory, a benchmark harness that runs
// the same workload against all four, or a generic memoization helper
// built outside this module.
type CacheLike[K comparable, V any] interface {
	Get(k K) (v V, ok bool)
	Insert(k K, v V) (prev V, had bool)
	Remove(k K) (v V, had bool)
	Len() int
	Keys() []K
	Stats() cachestats.Stats
}
