package lru

import (
	"github.com/rs/zerolog"

	"github.com/tempuscache/corecache/cachestats"
	"github.com/tempuscache/corecache/internal/clog"
	"github.com/tempuscache/corecache/timerwheel"
)

/*
Option follows the functional-options pattern: New() takes a variadic
list of Option instead of growing parameters, so adding a feature never
changes an existing caller's call site.
*/
type Option[K comparable, V any] func(*Cache[K, V])

// WithLogger attaches a zerolog.Logger that receives Debug-level eviction
// and expiry events. Unset, the cache traces to zerolog.Nop() at zero cost.
func WithLogger[K comparable, V any](logger zerolog.Logger) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.log = clog.New(logger, "lru")
	}
}

// WithTTL attaches a caller-configured timer wheel, enabling
// InsertWithTTL/SetTTL and lazy expiry on Get/Peek. Without this option, a
// cache built with New has no wheel until the first InsertWithTTL/SetTTL
// call lazily installs timerwheel.NewDefault().
func WithTTL[K comparable, V any](w *timerwheel.Wheel) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.wheel = w
	}
}

// WithMetricsRecorder mirrors hit/miss/eviction counters into rec. Build
// rec with cachestats.NewRecorder.
func WithMetricsRecorder[K comparable, V any](rec *cachestats.Recorder) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.recorder = rec
	}
}
