// Package stats collects operation statistics of a configuration store.
//
// A Collector counts every store operation by name and result in a
// VictoriaMetrics set, tracks the sizes of written documents in a
// go-metrics histogram and tallies failures per error kind. The counters are
// exported in the Prometheus text format by the http admin server.
package stats
