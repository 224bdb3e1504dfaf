// Package metrics defines and registers the auth Prometheus metrics for the
// personal-finance API. It is the single source of truth for their names,
// labels, and help strings. Per-request HTTP metrics come from echoprometheus
// in the router.
//
// Collectors register with the default Prometheus registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "finance"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthLoginsTotal counts login attempts.
// Label:
//   - result: "success", "rejected", "throttled", "invalid" or "error"
var AuthLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthRegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "conflict", "invalid" or "error"
var AuthRegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// TokenVerificationFailuresTotal counts bearer tokens that failed verification.
// Label:
//   - reason: "expired", "invalid_signature", "malformed" or "unknown_subject"
var TokenVerificationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verification_failures_total",
		Help:      "Total number of bearer tokens rejected by the authentication filter.",
	},
	[]string{"reason"},
)
