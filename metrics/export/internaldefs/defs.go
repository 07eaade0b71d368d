package internaldefs

import (
	"github.com/chtzvt/cymometer"
)

// CounterDef names one exported counter series.
type CounterDef struct {
	ID   cymometer.MetricID
	Name string
	Help string
}

// HistogramDef names one exported histogram series.
type HistogramDef struct {
	ID   cymometer.MetricID
	Name string
	Help string
}

// CounterDefs lists every counter series in exposition order.
var CounterDefs = []CounterDef{
	{ID: cymometer.MetricAdmitted, Name: "cymometer_admitted_total", Help: "Increments admitted by the window check."},
	{ID: cymometer.MetricRejected, Name: "cymometer_rejected_total", Help: "Increments rejected because the window was full."},
	{ID: cymometer.MetricDecremented, Name: "cymometer_decremented_total", Help: "Decrements that removed a window entry."},
	{ID: cymometer.MetricStoreError, Name: "cymometer_store_error_total", Help: "Store calls that failed to complete."},
	{ID: cymometer.MetricRollback, Name: "cymometer_rollback_total", Help: "Compensating decrements after failed transaction bodies."},
	{ID: cymometer.MetricRollbackFailure, Name: "cymometer_rollback_failure_total", Help: "Compensating decrements that themselves failed."},
}

// HistogramDefs lists every histogram series in exposition order.
var HistogramDefs = []HistogramDef{
	{ID: cymometer.MetricStoreLatency, Name: "cymometer_store_latency_seconds", Help: "Store round-trip latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds, matching the
// core package's bucket layout.
var HistogramBounds = []string{
	"0.001",
	"0.002",
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with characters legal in
// instrument names.
var HistogramBoundSuffix = []string{
	"0_001",
	"0_002",
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form
// both exposition formats expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
