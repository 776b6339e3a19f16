// Package metrics exports the aggregates of a run as Prometheus gauges, and
// writes them in the textfile format read by the node exporter's textfile
// collector.
package metrics
