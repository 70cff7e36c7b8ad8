// Package metrics defines and registers all custom Prometheus metrics for the
// Ecolatam gateway. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation; the /metrics endpoint exposes them next to the echo
// request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ecolatam"

// ── Backend (outbound) metrics ───────────────────────────────────────────────

// BackendRequestsTotal counts calls made to the Ecolatam backend API.
// Labels:
//   - code: HTTP status code returned by the backend (e.g. "200", "401")
//   - method: HTTP method of the outbound request
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests sent to the backend API.",
	},
	[]string{"code", "method"},
)

// BackendRequestDuration measures round-trip latency of backend calls.
// Labels:
//   - code, method: as above
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests sent to the backend API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"code", "method"},
)

// BackendInFlight tracks backend requests currently awaiting a response.
var BackendInFlight = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backend_in_flight_requests",
		Help:      "Number of backend requests currently in flight.",
	},
)

// ── Session metrics ──────────────────────────────────────────────────────────

// SessionExpiredTotal counts backend 401/403 answers seen by the expiry hook.
// Label:
//   - status: "401" (session cleared, login redirect issued) or "403"
var SessionExpiredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_auth_failures_total",
		Help:      "Total number of backend auth failures handled by the session expiry policy.",
	},
	[]string{"status"},
)

// ── Role resolution metrics ──────────────────────────────────────────────────

// RoleChecksTotal counts individual role membership probes.
// Labels:
//   - role: the role being probed (e.g. "admin")
//   - result: "match", "no_match" or "error"
var RoleChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_checks_total",
		Help:      "Total number of role membership probes, by role and result.",
	},
	[]string{"role", "result"},
)

// RoleResolutionDuration measures how long resolving a full role set takes.
var RoleResolutionDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "role_resolution_duration_seconds",
		Help:      "Duration of a complete role resolution (all probes).",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Bulk fetch metrics ───────────────────────────────────────────────────────

// BulkFetchPagesTotal counts pages requested by the auto-paginating fetcher.
var BulkFetchPagesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bulk_fetch_pages_total",
		Help:      "Total number of pages requested by bulk fetches.",
	},
)

// ── Search metrics ───────────────────────────────────────────────────────────

// SearchCacheTotal counts first-page cache lookups of the search service.
// Labels:
//   - source: "business", "product", "service" or "user"
//   - result: "hit" or "miss"
var SearchCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_cache_total",
		Help:      "Total number of search source cache lookups, labelled by result (hit/miss).",
	},
	[]string{"source", "result"},
)
