// Package prometheus exposes counter metrics in Prometheus text
// exposition format without depending on a Prometheus client library.
//
// Mount the handler wherever the scraper looks:
//
//	exp := prometheus.NewExporter(metrics)
//	mux.Handle("GET /metrics", exp.Handler())
//
// Rendering reads a point-in-time snapshot; it never blocks the counters
// being scraped.
package prometheus
