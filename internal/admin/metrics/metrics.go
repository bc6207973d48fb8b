// Package metrics registers the console's Prometheus collectors. The
// /metrics endpoint on the admin server exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncRefreshes counts snapshot refresh attempts by outcome.
	SyncRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_sync_refreshes_total",
		Help: "Order snapshot refresh attempts, labelled by result.",
	}, []string{"result"})

	// SnapshotOrders tracks the size of the last fetched order snapshot.
	SnapshotOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "admin_snapshot_orders",
		Help: "Number of orders in the current snapshot.",
	})

	// TransitionsDenied counts refused fulfillment transitions by rule.
	TransitionsDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_transitions_denied_total",
		Help: "Fulfillment transitions refused by the workflow engine, labelled by reason.",
	}, []string{"reason"})

	// GateFailClosed counts production gate queries that failed and were
	// treated as incomplete.
	GateFailClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "admin_production_gate_fail_closed_total",
		Help: "Production status queries that failed and denied gated transitions.",
	})
)
