// Package metric exports generator metrics to Prometheus.
//
// Collector implements groundtruth.MetricsCollector on top of
// prometheus/client_golang collectors. StartServer exposes them for scraping
// while a long run is in progress.
package metric
