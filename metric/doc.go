// Package metric provides Prometheus-based metrics for streamparse
// workers: a core set of worker-level metrics, a registry that manages
// per-engine metric registration, and an HTTP server exposing the
// scrape endpoint.
//
// Metrics are optional everywhere: engines accept a nil registry and
// simply skip recording, so embedding a bolt in a context without
// observability costs nothing.
package metric
