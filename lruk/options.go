package lruk

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/tempuscache/corecache/cachestats"
	"github.com/tempuscache/corecache/internal/clog"
	"github.com/tempuscache/corecache/timerwheel"
)

// Option configures a Cache at construction time, the same functional-
// options shape as package lru.
type Option[K comparable, V any] func(*Cache[K, V]) error

// ErrInvalidK is returned by New when WithK is given a non-positive
// promotion threshold.
var ErrInvalidK = errors.New("lruk: K must be >= 1")

// WithK overrides the default promotion threshold (2): an entry moves from
// the history list to the main list once it has been seen K times.
func WithK[K comparable, V any](k uint32) Option[K, V] {
	return func(c *Cache[K, V]) error {
		if k < 1 {
			return ErrInvalidK
		}
		c.k = k
		return nil
	}
}

// WithLogger attaches a zerolog.Logger for Debug-level eviction, promotion
// and expiry tracing.
func WithLogger[K comparable, V any](logger zerolog.Logger) Option[K, V] {
	return func(c *Cache[K, V]) error {
		c.log = clog.New(logger, "lruk")
		return nil
	}
}

// WithTTL attaches a caller-configured timer wheel.
func WithTTL[K comparable, V any](w *timerwheel.Wheel) Option[K, V] {
	return func(c *Cache[K, V]) error {
		c.wheel = w
		return nil
	}
}

// WithMetricsRecorder mirrors hit/miss/eviction counters into rec.
func WithMetricsRecorder[K comparable, V any](rec *cachestats.Recorder) Option[K, V] {
	return func(c *Cache[K, V]) error {
		c.recorder = rec
		return nil
	}
}
