package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ViewMetrics holds all Prometheus metrics for the manager-view service.
type ViewMetrics struct {
	RequestsTotal     *prometheus.CounterVec
	ScopeClampsTotal  *prometheus.CounterVec
	SubQueriesTotal   prometheus.Counter
	DataQualityTotal  *prometheus.CounterVec
	HierarchyRebuilds *prometheus.CounterVec
	SessionLookups    *prometheus.CounterVec
}

// NewViewMetrics initializes and registers the Prometheus metrics.
func NewViewMetrics() *ViewMetrics {
	return &ViewMetrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskscope",
			Subsystem: "manager_view",
			Name:      "requests_total",
			Help:      "Total number of manager-view requests by outcome.",
		}, []string{"outcome"}), // outcome: ok, scope_mismatch, store_timeout, inconsistency, unauthorized, bad_request
		ScopeClampsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskscope",
			Subsystem: "manager_view",
			Name:      "scope_clamps_total",
			Help:      "Total number of over-broad scope requests clamped to the role ceiling.",
		}, []string{"role"}),
		SubQueriesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "taskscope",
			Subsystem: "manager_view",
			Name:      "store_subqueries_total",
			Help:      "Total number of fan-out sub-queries issued to the task store.",
		}),
		DataQualityTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskscope",
			Subsystem: "manager_view",
			Name:      "data_quality_total",
			Help:      "Total number of malformed task records routed to reserved buckets.",
		}, []string{"kind"}), // kind: unknown_status, unassigned
		HierarchyRebuilds: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskscope",
			Subsystem: "org",
			Name:      "hierarchy_rebuilds_total",
			Help:      "Total number of organization hierarchy snapshot rebuilds by result.",
		}, []string{"result"}), // result: ok, error
		SessionLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskscope",
			Subsystem: "auth",
			Name:      "session_lookups_total",
			Help:      "Total number of session store lookups by result.",
		}, []string{"result"}), // result: ok, miss, error
	}
}
