// Package metrics defines and registers all custom Prometheus metrics for the
// warehousing API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "warehousing"

// ── Storage metrics ───────────────────────────────────────────────────────────

// StorageTransitionsTotal counts applied storage status transitions.
// Labels:
//   - from: the status before the transition (e.g. "pending")
//   - to: the status after the transition (e.g. "approved")
var StorageTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_transitions_total",
		Help:      "Total number of storage status transitions applied.",
	},
	[]string{"from", "to"},
)

// RequestsCreatedTotal counts newly created storage requests.
var RequestsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_created_total",
		Help:      "Total number of storage requests created.",
	},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsPersistedTotal counts audit events written to the store.
var AuditEventsPersistedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_persisted_total",
		Help:      "Total number of audit events successfully persisted.",
	},
)

// AuditEventsErrorsTotal counts audit events that failed to persist.
// Label:
//   - reason: short description of the failure (e.g. "insert_failed", "dedup_failed")
var AuditEventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_errors_total",
		Help:      "Total number of audit events that failed processing.",
	},
	[]string{"reason"},
)

// AuditDedupTotal counts deduplication decisions for audit events.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new event, persisted)
var AuditDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dedup_total",
		Help:      "Total number of audit deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks the current number of audit events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditPersistDuration measures how long a single audit event takes from
// dequeue to persistence.
// Label:
//   - outcome: "ok", "duplicate", or "error"
var AuditPersistDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_persist_duration_seconds",
		Help:      "Duration of audit event handling from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts rejected authentication attempts.
// Label:
//   - reason: "invalid_credentials", "invalid_token", or "forbidden"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of rejected authentication and authorization attempts.",
	},
	[]string{"reason"},
)
