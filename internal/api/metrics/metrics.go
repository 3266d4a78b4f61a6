// Package metrics defines and registers all custom Prometheus metrics for the
// console API. It is the single source of truth for metric names, labels, and
// help strings. Metrics are registered with the default registry on first use
// via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionRestoresTotal counts session restore attempts from cookie tokens.
// Label:
//   - outcome: "hit" (session resumed) or "miss" (absent, expired, or malformed)
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of session restore attempts, by outcome.",
	},
	[]string{"outcome"},
)

// LogoutsTotal counts explicit logouts.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of explicit logouts.",
	},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// AccountMutationsTotal counts account collection mutations.
// Labels:
//   - op: "create", "update", or "delete"
//   - result: "success", "invalid", "duplicate", or "error"
var AccountMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_mutations_total",
		Help:      "Total number of account create/update/delete operations, by result.",
	},
	[]string{"op", "result"},
)

// ── Report metrics ────────────────────────────────────────────────────────────

// ReportsRequestedTotal counts report requests.
// Label:
//   - result: "accepted", "invalid", or "error"
var ReportsRequestedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_requested_total",
		Help:      "Total number of report generation requests, by result.",
	},
	[]string{"result"},
)

// ReportQueueDepth tracks the current number of jobs waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ReportQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "report_queue_depth",
		Help:      "Current number of jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ReportGenerationDuration measures how long one report takes to generate.
// Label:
//   - status: "completed" or "failed"
var ReportGenerationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_generation_duration_seconds",
		Help:      "Duration of report generation from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"status"},
)
