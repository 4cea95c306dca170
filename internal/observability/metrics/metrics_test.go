package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric family %s not found", name)
	return nil
}

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveWizardOpen("ok")
	m.ObserveStep("service", "date")
	m.ObserveSubmission("created")
	m.ObserveSubmission("created")
	m.ObserveSubmission("transient_error")
	m.ObserveStale("open")
	m.ObserveResolve("wizard", 0.0002)

	subs := findFamily(t, reg, "booksite_booking_submissions_total")
	counts := map[string]float64{}
	for _, metric := range subs.GetMetric() {
		counts[metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, 2.0, counts["created"])
	assert.Equal(t, 1.0, counts["transient_error"])

	hist := findFamily(t, reg, "booksite_availability_resolve_duration_seconds")
	require.Len(t, hist.GetMetric(), 1)
	assert.Equal(t, uint64(1), hist.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveWizardOpen("ok")
	m.ObserveStep("date", "time")
	m.ObserveSubmission("created")
	m.ObserveStale("submit")
	m.ObserveResolve("http", 0.1)
}
