package payments

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts payment outcomes and observes acquirer latency.
type Metrics struct {
	PaymentsProcessed *prometheus.CounterVec
	AcquirerDuration  prometheus.Histogram
	AcquirerUp        prometheus.Gauge
}

const (
	outcomeAuthorized = "authorized"
	outcomeDeclined   = "declined"
	outcomeRejected   = "rejected"
	outcomeFailed     = "failed"
)

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PaymentsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paygate",
			Name:      "payments_processed_total",
			Help:      "Payment submissions by terminal outcome.",
		}, []string{"outcome"}),
		AcquirerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "paygate",
			Name:      "acquirer_request_duration_seconds",
			Help:      "Latency of authorization calls to the acquiring bank.",
			Buckets:   prometheus.DefBuckets,
		}),
		AcquirerUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "paygate",
			Name:      "acquirer_up",
			Help:      "Whether the acquirer health endpoint answered the last probe.",
		}),
	}
	reg.MustRegister(m.PaymentsProcessed, m.AcquirerDuration, m.AcquirerUp)
	return m
}

func (m *Metrics) setAcquirerUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.AcquirerUp.Set(1)
	} else {
		m.AcquirerUp.Set(0)
	}
}

func (m *Metrics) observeOutcome(outcome string) {
	if m == nil {
		return
	}
	m.PaymentsProcessed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeAcquirerDuration(seconds float64) {
	if m == nil {
		return
	}
	m.AcquirerDuration.Observe(seconds)
}
