// Package metrics defines and registers the gateway Prometheus metrics.
// All metrics live in the default registry and are exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gestiondocente"

// Refresh outcomes
const (
	RefreshOK      = "ok"
	RefreshFailed  = "failed"
	RefreshMissing = "missing"
)

// Guard decisions
const (
	GuardAllow    = "allow"
	GuardRedirect = "redirect"
)

// SessionRefreshTotal counts access token refresh attempts.
// Label:
//   - result: "ok", "failed" or "missing" (no refresh token stored)
var SessionRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_refresh_total",
		Help:      "Total number of access token refresh attempts, by result.",
	},
	[]string{"result"},
)

// GuardDecisionsTotal counts route guard decisions.
// Labels:
//   - guard: "protected" or "public_only"
//   - decision: "allow" or "redirect"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of navigation guard decisions.",
	},
	[]string{"guard", "decision"},
)

// BackendRequestDuration measures backend round trips.
// Labels:
//   - method: HTTP method
//   - code: response status code. Requests without response are not observed
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of backend API requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "code"},
)
