package cymometer

import (
	"sync/atomic"
	"time"
)

// MetricID names one counter tracked by [Metrics].
type MetricID uint16

const (
	// MetricAdmitted counts increments the store admitted.
	MetricAdmitted MetricID = iota
	// MetricRejected counts increments refused because the window was full.
	MetricRejected
	// MetricDecremented counts decrements that removed an entry.
	MetricDecremented
	// MetricStoreError counts store calls that failed to complete.
	MetricStoreError
	// MetricRollback counts compensating decrements issued after a failed
	// transaction body.
	MetricRollback
	// MetricRollbackFailure counts compensating decrements that themselves
	// failed, leaving the window entry to age out on its own.
	MetricRollbackFailure
	// MetricStoreLatency is the histogram series for store round trips.
	MetricStoreLatency
	metricIDCount
)

// String returns a stable lowercase name for the metric, for use as a
// label or JSON key.
func (id MetricID) String() string {
	switch id {
	case MetricAdmitted:
		return "admitted"
	case MetricRejected:
		return "rejected"
	case MetricDecremented:
		return "decremented"
	case MetricStoreError:
		return "store_error"
	case MetricRollback:
		return "rollback"
	case MetricRollbackFailure:
		return "rollback_failure"
	case MetricStoreLatency:
		return "store_latency"
	default:
		return "unknown"
	}
}

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// MetricsConfig controls what [NewMetrics] records.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// Metrics holds lock-free counters for the hot admission path. A nil
// *Metrics is valid and records nothing, so counters constructed without
// one pay no bookkeeping cost.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of every counter and histogram.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics returns a Metrics configured by cfg. When Enabled is false,
// all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether this Metrics records anything.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether store latency histograms are recorded.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc adds one to the counter for id. Safe on a nil receiver and safe for
// concurrent use.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records one store round trip duration in the latency histogram.
// Safe on a nil receiver and safe for concurrent use.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricStoreLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value returns the current count for id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter and histogram at one point in time. The
// copy is not atomic across counters; individual reads are.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricStoreLatency].buckets[i])
		}
		s.Histograms[MetricStoreLatency] = buckets
	}

	return s
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 1:
		return 0
	case ms <= 2:
		return 1
	case ms <= 5:
		return 2
	case ms <= 10:
		return 3
	case ms <= 25:
		return 4
	case ms <= 50:
		return 5
	case ms <= 100:
		return 6
	default:
		return 7
	}
}
