package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuickOrderMetrics_ExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncOrderPlaced()
	m.IncOrderFailed("placement")
	m.IncOrderFailed("placement")
	m.IncRateTier("synthetic")
	m.IncRepairFailure("")
	m.IncPlacementRetry()

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "easyorder_orders_failed_total", "stage", "placement")
	require.NoError(t, err)
	assert.Equal(t, float64(2), got)

	got, err = fetchCounterValue(mfs, "easyorder_rate_collection_tier_total", "tier", "synthetic")
	require.NoError(t, err)
	assert.Equal(t, float64(1), got)

	got, err = fetchCounterValue(mfs, "easyorder_visibility_repair_failures_total", "step", "unknown")
	require.NoError(t, err)
	assert.Equal(t, float64(1), got)

	placed := findMetricFamily(mfs, "easyorder_orders_placed_total")
	require.NotNil(t, placed)
	assert.Equal(t, float64(1), placed.GetMetric()[0].GetCounter().GetValue())
}

func TestQuickOrderMetrics_NilSafe(t *testing.T) {
	var m *QuickOrderMetrics
	assert.NotPanics(t, func() {
		m.IncOrderPlaced()
		m.IncOrderFailed("x")
		m.IncRateTier("x")
		m.IncRepairFailure("x")
		m.IncPlacementRetry()
	})

	assert.NotPanics(t, func() {
		New(nil).IncOrderPlaced()
	})
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		for _, lp := range metric.GetLabel() {
			if lp.GetName() == label && lp.GetValue() == value {
				return metric.GetCounter().GetValue(), nil
			}
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}
