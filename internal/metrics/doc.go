// Package metrics exposes pinbox-server's internal counters in Prometheus
// text exposition format.
//
// Registry holds atomic counters incremented by the store and HTTP layer.
// Registry.Handler(gauges) returns the handler mounted at /metrics; the
// gauges callback supplies point-in-time store state (live entries, filled
// entries, namespaces) on each scrape.
//
// Exposed series (all prefixed pinbox_):
//
//	pins_created_total, polls_total, regenerations_total, submits_total,
//	reaped_total, generation_exhausted_total — counters
//	pins_live, pins_filled, namespaces — gauges
//
// Encoding uses the client_model MetricFamily structs with the expfmt text
// encoder. No registry/collector framework is involved — the counter set is
// small and fixed.
package metrics
