// Package metrics defines and registers all custom Prometheus metrics for
// the trading service. It is the single source of truth for metric names,
// labels, and help strings; metrics register with the default registry at
// package load via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aitrader"

// ── Batch-run metrics ─────────────────────────────────────────────────────────

// BatchRunsTotal counts batch run triggers.
// Label:
//   - result: "completed" (run finished, possibly with per-tenant failures)
//     or "skipped" (a run was already in progress)
var BatchRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batch_runs_total",
		Help:      "Total number of batch run triggers, by result.",
	},
	[]string{"result"},
)

// BatchTenantsTotal counts per-tenant outcomes within batch runs.
// Label:
//   - status: "success", "error", or "skipped" (trading paused)
var BatchTenantsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batch_tenants_total",
		Help:      "Total number of tenants processed by batch runs, by status.",
	},
	[]string{"status"},
)

// BatchRunDuration measures wall-clock duration of a full batch run.
var BatchRunDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "batch_run_duration_seconds",
		Help:      "Duration of a complete batch run across all eligible tenants.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 0.1s … ~200s
	},
)

// ── Vault metrics ─────────────────────────────────────────────────────────────

// CredentialOpsTotal counts vault operations.
// Labels:
//   - op:     "store" or "retrieve"
//   - result: "ok", "not_found", "auth_failed", or "error"
var CredentialOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_ops_total",
		Help:      "Total number of credential vault operations, by op and result.",
	},
	[]string{"op", "result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// TokenVerificationsTotal counts token verification outcomes at the API
// boundary. The failure reasons stay distinct here even though the client
// always sees a uniform 401.
// Label:
//   - result: "ok", "malformed", "bad_signature", "expired"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of session token verifications, by result.",
	},
	[]string{"result"},
)
