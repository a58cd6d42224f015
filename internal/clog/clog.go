// Package clog is the small zerolog wrapper every cache package uses to
// trace eviction, promotion, and TTL-expiry decisions when a caller opts
// in via WithLogger. Left unset, tracing costs nothing: zerolog.Nop()
// short-circuits every call site before it formats anything.
package clog

import "github.com/rs/zerolog"

// Tracer emits structured, low-cardinality debug events for one cache
// instance.
type Tracer struct {
	log  zerolog.Logger
	kind string // "lru", "lruk", "lfu", "arc"
}

// New wraps logger for a cache of the given kind (used as a constant field
// on every emitted event).
func New(logger zerolog.Logger, kind string) Tracer {
	return Tracer{log: logger, kind: kind}
}

// Nop returns a Tracer that never logs, the default for every cache that
// doesn't call WithLogger.
func Nop() Tracer { return Tracer{log: zerolog.Nop(), kind: ""} }

// Evicted traces a capacity-driven eviction.
func (t Tracer) Evicted(key any) {
	t.log.Debug().Str("cache", t.kind).Interface("key", key).Msg("evicted")
}

// Expired traces a TTL-driven removal, whether caught lazily on Get or by
// a wheel advance.
func (t Tracer) Expired(key any) {
	t.log.Debug().Str("cache", t.kind).Interface("key", key).Msg("expired")
}

// Promoted traces LRU-K's history-to-main promotion.
func (t Tracer) Promoted(key any) {
	t.log.Debug().Str("cache", t.kind).Interface("key", key).Msg("promoted")
}

// Rebalanced traces ARC's adaptive target p changing.
func (t Tracer) Rebalanced(p, capacity int) {
	t.log.Debug().Str("cache", t.kind).Int("p", p).Int("capacity", capacity).Msg("rebalanced")
}

// Decayed traces LFU's periodic frequency-halving pass.
func (t Tracer) Decayed(newMinFreq int) {
	t.log.Debug().Str("cache", t.kind).Int("min_freq", newMinFreq).Msg("decayed")
}
