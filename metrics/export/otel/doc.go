// Package otel bridges counter metrics into an OpenTelemetry meter as
// observable instruments.
//
//	exp, err := otel.NewExporter(provider.Meter("cymometer"), metrics)
//	...
//	defer exp.Close()
//
// Histogram series are exposed as per-bucket cumulative gauges because
// the core package tracks fixed buckets, not raw samples.
package otel
