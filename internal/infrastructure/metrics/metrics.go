package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// QuickOrderMetrics records the outcome of the quick order pipeline.
type QuickOrderMetrics struct {
	ordersPlaced   prometheus.Counter
	ordersFailed   *prometheus.CounterVec
	rateTier       *prometheus.CounterVec
	repairFailures *prometheus.CounterVec
	placeRetries   prometheus.Counter
}

// New registers the quick order metrics on reg. A nil registerer yields a no-op recorder.
func New(reg prometheus.Registerer) *QuickOrderMetrics {
	if reg == nil {
		return &QuickOrderMetrics{}
	}
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "easyorder_orders_placed_total",
		Help: "Quick orders committed successfully.",
	})
	ordersFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "easyorder_orders_failed_total",
		Help: "Quick order attempts that failed, by pipeline stage.",
	}, []string{"stage"})
	rateTier := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "easyorder_rate_collection_tier_total",
		Help: "Shipping rate collections by the tier that produced the result.",
	}, []string{"tier"})
	repairFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "easyorder_visibility_repair_failures_total",
		Help: "Failed order visibility repair steps.",
	}, []string{"step"})
	placeRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "easyorder_order_placement_retries_total",
		Help: "Order placement transactions retried after a deadlock.",
	})
	reg.MustRegister(ordersPlaced, ordersFailed, rateTier, repairFailures, placeRetries)
	return &QuickOrderMetrics{
		ordersPlaced:   ordersPlaced,
		ordersFailed:   ordersFailed,
		rateTier:       rateTier,
		repairFailures: repairFailures,
		placeRetries:   placeRetries,
	}
}

func (m *QuickOrderMetrics) IncOrderPlaced() {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.Inc()
}

func (m *QuickOrderMetrics) IncOrderFailed(stage string) {
	if m == nil || m.ordersFailed == nil {
		return
	}
	m.ordersFailed.WithLabelValues(normalizeLabel(stage)).Inc()
}

func (m *QuickOrderMetrics) IncRateTier(tier string) {
	if m == nil || m.rateTier == nil {
		return
	}
	m.rateTier.WithLabelValues(normalizeLabel(tier)).Inc()
}

func (m *QuickOrderMetrics) IncRepairFailure(step string) {
	if m == nil || m.repairFailures == nil {
		return
	}
	m.repairFailures.WithLabelValues(normalizeLabel(step)).Inc()
}

func (m *QuickOrderMetrics) IncPlacementRetry() {
	if m == nil || m.placeRetries == nil {
		return
	}
	m.placeRetries.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
