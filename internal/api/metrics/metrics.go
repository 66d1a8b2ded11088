// Package metrics defines and registers all custom Prometheus metrics for the
// storefront. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// through promauto and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Access control ────────────────────────────────────────────────────────────

// AccessDeniedTotal counts requests turned away by the gate chain.
// Labels:
//   - gate: "auth", "ban", or "role"
//   - required_role: the role the route group demands ("" for auth and ban)
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests denied by the access-control gates.",
	},
	[]string{"gate", "required_role"},
)

// SecurityViolationsTotal counts forced logouts and other security events that
// end a session.
// Label:
//   - kind: the security event kind (e.g. "multiple_roles_detected")
var SecurityViolationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "security_violations_total",
		Help:      "Total number of security violations that terminated a session.",
	},
	[]string{"kind"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "failed", or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Security event dispatcher ─────────────────────────────────────────────────

// AuditEventsDroppedTotal counts events discarded because a worker channel was full.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of security events dropped because the dispatcher was saturated.",
	},
)

// AuditQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of security events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditWriteDuration measures how long persisting one security event takes.
// Label:
//   - result: "ok" or "error"
var AuditWriteDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of security event persistence from dequeue to insert.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// ── Orders ────────────────────────────────────────────────────────────────────

// OrdersPlacedTotal counts orders created at checkout.
// Label:
//   - currency: ISO currency code of the order
var OrdersPlacedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed, by currency.",
	},
	[]string{"currency"},
)

// OrderTransitionsTotal counts admin status changes.
// Labels:
//   - from: previous order status
//   - to: new order status
var OrderTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_transitions_total",
		Help:      "Total number of order status transitions.",
	},
	[]string{"from", "to"},
)
