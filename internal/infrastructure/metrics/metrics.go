// Package metrics defines and registers all custom Prometheus metrics for the
// portal client. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Resource client ──────────────────────────────────────────────────────────

// ClientRequestsTotal counts API calls by outcome.
// Labels:
//   - method: HTTP method
//   - outcome: "ok" or a domain.FetchErrorKind value
var ClientRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Total number of portal API calls, by method and outcome.",
	},
	[]string{"method", "outcome"},
)

// ClientRequestDuration measures the wall time of a single API call.
var ClientRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Duration of portal API calls from send to parsed body.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// CredentialsClearedTotal counts credentials dropped after an auth rejection.
var CredentialsClearedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "credentials_cleared_total",
		Help:      "Total number of stored credentials cleared after a 401/403.",
	},
)

// ── Chat ─────────────────────────────────────────────────────────────────────

// ChatMessagesTotal counts chat frames.
// Label:
//   - direction: "in" or "out"
var ChatMessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chat",
		Name:      "messages_total",
		Help:      "Total number of chat messages, by direction.",
	},
	[]string{"direction"},
)

// ChatDroppedTotal counts outbound messages dropped because the channel was not open.
var ChatDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chat",
		Name:      "dropped_total",
		Help:      "Total number of outbound chat messages dropped while disconnected.",
	},
)
