// Package internaldefs holds the metric series names, help strings, and
// bucket bounds shared by the Prometheus and OpenTelemetry exporters, so
// the two surfaces cannot drift apart.
//
// It is internal to the export packages; consumers import one of the
// exporters, never this package.
package internaldefs
