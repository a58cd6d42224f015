package arc

import (
	"github.com/rs/zerolog"

	"github.com/tempuscache/corecache/cachestats"
	"github.com/tempuscache/corecache/internal/clog"
	"github.com/tempuscache/corecache/timerwheel"
)

// Option configures a Cache at construction time, the same functional-
// options shape as the other cache packages.
type Option[K comparable, V any] func(*Cache[K, V]) error

// WithLogger attaches a zerolog.Logger for Debug-level eviction, ghost-hit
// rebalancing and expiry tracing.
func WithLogger[K comparable, V any](logger zerolog.Logger) Option[K, V] {
	return func(c *Cache[K, V]) error {
		c.log = clog.New(logger, "arc")
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
