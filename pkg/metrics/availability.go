package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AvailabilityMetrics records availability-query outcomes.
type AvailabilityMetrics struct {
	duration *prometheus.HistogramVec
	results  *prometheus.CounterVec
	postal   *prometheus.CounterVec
}

// NewAvailabilityMetrics registers the scheduler metrics on the provided registerer.
func NewAvailabilityMetrics(reg prometheus.Registerer) *AvailabilityMetrics {
	if reg == nil {
		return &AvailabilityMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "availability_query_duration_seconds",
		Help:    "Duration of availability queries in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"delivery_type"})
	results := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "availability_query_results",
		Help: "Availability query outcomes by reason code.",
	}, []string{"delivery_type", "result"})
	postal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "postal_code_validations",
		Help: "Postal code validation outcomes.",
	}, []string{"result"})
	reg.MustRegister(duration, results, postal)
	return &AvailabilityMetrics{
		duration: duration,
		results:  results,
		postal:   postal,
	}
}

// ObserveQuery records the duration for one availability query.
func (m *AvailabilityMetrics) ObserveQuery(deliveryType string, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(deliveryType)).Observe(elapsed.Seconds())
}

// IncResult increments the outcome counter for one query.
func (m *AvailabilityMetrics) IncResult(deliveryType, result string) {
	if m == nil || m.results == nil {
		return
	}
	m.results.WithLabelValues(normalizeLabel(deliveryType), normalizeLabel(result)).Inc()
}

// IncPostalValidation increments the postal validation counter.
func (m *AvailabilityMetrics) IncPostalValidation(result string) {
	if m == nil || m.postal == nil {
		return
	}
	m.postal.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
