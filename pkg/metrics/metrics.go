// Package metrics provides the centralized Prometheus registry for shiftpulse.
// All metrics are defined in their respective packages (listing, cache, shift)
// to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by shiftpulse.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer collects everything registered on Registry, for the /metrics endpoint.
var Gatherer = prometheus.DefaultGatherer

// Metrics Documentation
//
// Listing Request Metrics (pkg/listing):
//   - listing_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - listing_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - listing_errors_total{class} (Counter): Errors by class (client, server, network)
//
// Retry Metrics (pkg/listing):
//   - listing_retries_total{error_class} (Counter): Retry attempts by error class
//   - listing_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - listing_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Report Cache Metrics (pkg/cache):
//   - report_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - report_cache_misses_total (Counter): Cache misses
//   - report_cache_size_bytes{layer="redis"} (Gauge): Bytes written to the cache
//   - report_cache_errors_total{operation} (Counter): Cache operation errors
//
// Lifecycle Metrics (pkg/shift):
//   - shift_transitions_total{op, outcome} (Counter): Claim/cancel operations by outcome
//     (ok, not_found, rejected, error)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(report_cache_hits_total[5m])) /
//   (sum(rate(report_cache_hits_total[5m])) + sum(rate(report_cache_misses_total[5m])))
//
//   # Rejected Transition Rate
//   rate(shift_transitions_total{outcome="rejected"}[5m])
//
//   # Request Error Rate
//   rate(listing_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(listing_request_duration_seconds_bucket[5m]))
