// Package cachestats holds the runtime counters every cache in this module
// reports, and an optional Prometheus mirror of them.
//
// Stats itself stays simple: no internal locking, a plain snapshot
// struct, synchronization left to whatever embeds the cache. Recorder
// adds external observability on top by mirroring the same events into
// prometheus.Counter values when a cache is built with WithMetricsRecorder.
package cachestats

import "github.com/prometheus/client_golang/prometheus"

// Stats is a snapshot of one cache's hit/miss/eviction counters.
//
//	hit_ratio = Hits / (Hits + Misses)
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRatio returns Hits / (Hits + Misses), or 0 if there have been no
// lookups at all.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Recorder mirrors a cache's counters into Prometheus. A nil *Recorder is
// valid and every method on it is a no-op, so caches can hold one
// unconditionally and skip a nil check on every hot path.
type Recorder struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
}

// NewRecorder registers hit/miss/eviction counters for a cache identified
// by kind (e.g. "lru") and name (a caller-chosen instance label), and
// returns a Recorder that updates them. Registration failures (a duplicate
// name re-registered against the same Registerer) are reported to the
// caller rather than panicking, since a constructor-time metrics mistake is
// recoverable the same way a bad capacity argument is.
func NewRecorder(reg prometheus.Registerer, kind, name string) (*Recorder, error) {
	labels := prometheus.Labels{"cache": kind, "name": name}

	hits := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "corecache",
		Name:        "hits_total",
		Help:        "Number of cache lookups that found a live entry.",
		ConstLabels: labels,
	})
	misses := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "corecache",
		Name:        "misses_total",
		Help:        "Number of cache lookups that found no live entry.",
		ConstLabels: labels,
	})
	evictions := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "corecache",
		Name:        "evictions_total",
		Help:        "Number of entries removed due to capacity pressure.",
		ConstLabels: labels,
	})

	for _, c := range []prometheus.Collector{hits, misses, evictions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return &Recorder{hits: hits, misses: misses, evictions: evictions}, nil
}

// Hit records a successful lookup.
func (r *Recorder) Hit() {
	if r == nil {
		return
	}
	r.hits.Inc()
}

// Miss records a failed or expired lookup.
func (r *Recorder) Miss() {
	if r == nil {
		return
	}
	r.misses.Inc()
}

// Eviction records a capacity-driven removal.
func (r *Recorder) Eviction() {
	if r == nil {
		return
	}
	r.evictions.Inc()
}
