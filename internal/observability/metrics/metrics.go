package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking wizard and
// availability lookups.
type BookingMetrics struct {
	wizardOpens     *prometheus.CounterVec
	stepTransitions *prometheus.CounterVec
	submissions     *prometheus.CounterVec
	staleDropped    *prometheus.CounterVec
	resolveLatency  *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		wizardOpens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booksite",
			Subsystem: "wizard",
			Name:      "opens_total",
			Help:      "Total wizard sessions opened",
		}, []string{"status"}),
		stepTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booksite",
			Subsystem: "wizard",
			Name:      "step_transitions_total",
			Help:      "Wizard step changes",
		}, []string{"from", "to"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booksite",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Booking submissions by outcome",
		}, []string{"outcome"}),
		staleDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booksite",
			Subsystem: "wizard",
			Name:      "stale_responses_total",
			Help:      "Fetch or submit results discarded because the session moved on",
		}, []string{"operation"}),
		resolveLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "booksite",
			Subsystem: "availability",
			Name:      "resolve_duration_seconds",
			Help:      "Latency of resolving free slots for a date",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"source"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.wizardOpens, m.stepTransitions, m.submissions, m.staleDropped, m.resolveLatency)
	return m
}

func (m *BookingMetrics) ObserveWizardOpen(status string) {
	if m == nil {
		return
	}
	m.wizardOpens.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveStep(from, to string) {
	if m == nil {
		return
	}
	m.stepTransitions.WithLabelValues(from, to).Inc()
}

func (m *BookingMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveStale(operation string) {
	if m == nil {
		return
	}
	m.staleDropped.WithLabelValues(operation).Inc()
}

func (m *BookingMetrics) ObserveResolve(source string, seconds float64) {
	if m == nil {
		return
	}
	m.resolveLatency.WithLabelValues(source).Observe(seconds)
}
