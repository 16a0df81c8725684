// Package metrics defines and registers all custom Prometheus metrics for
// the course-platform API. It is the single source of truth for metric
// names, labels, and help strings. Metrics register with the default
// registry at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "courseplatform"

// ── Auth flow metrics ─────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "not_found", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ActivationsTotal counts account activation attempts.
// Label:
//   - result: "success", "expired", "invalid", "code_mismatch", "conflict"
var ActivationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activations_total",
		Help:      "Total number of account activation attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshesTotal counts refresh-token rotations.
// Label:
//   - result: "success", "invalid_token", "no_session", "error"
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of token rotation attempts, by result.",
	},
	[]string{"result"},
)

// AuthRejectionsTotal counts requests rejected by the auth gate.
// Label:
//   - reason: "no_token", "expired", "invalid", "no_session"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by the auth middleware, by reason.",
	},
	[]string{"reason"},
)

// MailEnqueuedTotal counts mail jobs handed to the dispatcher.
// Label:
//   - kind: "activation"
var MailEnqueuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_enqueued_total",
		Help:      "Total number of mail jobs enqueued for asynchronous delivery.",
	},
	[]string{"kind"},
)
