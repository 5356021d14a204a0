// Package metrics defines the custom Prometheus metrics of the feedback CRM.
// Metrics are registered with the default registry on package init through
// promauto and served by echoprometheus on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

// Subsystem names the echoprometheus request metrics.
const Subsystem = "http"

// ── Identity metrics ─────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "rejected" (unknown email or wrong password) or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RosterChangesTotal counts roster mutations.
// Label:
//   - action: "add", "update" or "delete"
var RosterChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "roster_changes_total",
		Help:      "Total number of successful roster mutations.",
	},
	[]string{"action"},
)

// AuthzDeniedTotal counts requests rejected by role checks.
// Label:
//   - route: the echo route pattern (e.g. "/v1/users")
var AuthzDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denied_total",
		Help:      "Total number of requests denied for lack of permission.",
	},
	[]string{"route"},
)

// ── Task metrics ─────────────────────────────────────────────────────────────

// FeedbackSubmittedTotal counts newly recorded feedback.
// Labels:
//   - type: "programmatic", "sensitive" or "out_of_scope"
//   - priority: "low", "medium", "high" or "urgent"
var FeedbackSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_submitted_total",
		Help:      "Total number of feedback submissions recorded as tasks.",
	},
	[]string{"type", "priority"},
)

// TaskTransitionsTotal counts applied status changes.
// Label:
//   - status: the status the task moved to
var TaskTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_transitions_total",
		Help:      "Total number of task status updates, by target status.",
	},
	[]string{"status"},
)

// TaskTransitionErrorsTotal counts rejected status changes.
// Label:
//   - reason: "closed", "invalid_status", "not_found", "conflict" or "error"
var TaskTransitionErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_transition_errors_total",
		Help:      "Total number of rejected task status updates.",
	},
	[]string{"reason"},
)

// TasksDeletedTotal counts deleted tasks.
var TasksDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_deleted_total",
		Help:      "Total number of deleted tasks.",
	},
)

// OpenTasks tracks the open task tallies seen by the last stats request.
// Label:
//   - bucket: "pending", "in_progress", "urgent" or "overdue"
var OpenTasks = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "open_tasks",
		Help:      "Open task tallies as of the most recent stats computation.",
	},
	[]string{"bucket"},
)
