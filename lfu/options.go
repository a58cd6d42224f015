package lfu

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/tempuscache/corecache/cachestats"
	"github.com/tempuscache/corecache/internal/clog"
	"github.com/tempuscache/corecache/timerwheel"
)

// Option configures a Cache at construction time, the same functional-
// options shape as packages lru and lruk.
type Option[K comparable, V any] func(*Cache[K, V]) error

// ErrInvalidReduceCount is returned by New when WithReduceCount is given a
// threshold of 0. (SetReduceCount accepts 0, which disables decay.)
var ErrInvalidReduceCount = errors.New("lfu: reduce count must be >= 1")

// WithReduceCount sets the visit_count threshold that triggers frequency
// decay: once the running visit counter exceeds n, every entry's visit
// count is halved and buckets are recomputed. Unset, decay never runs.
func WithReduceCount[K comparable, V any](n uint64) Option[K, V] {
	return func(c *Cache[K, V]) error {
		if n < 1 {
			return ErrInvalidReduceCount
		}
		c.reduceCount = n
		return nil
	}
}

// WithLogger attaches a zerolog.Logger for Debug-level eviction, decay and
// expiry tracing.
func WithLogger[K comparable, V any](logger zerolog.Logger) Option[K, V] {
	return func(c *Cache[K, V]) error {
		c.log = clog.New(logger, "lfu")
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
