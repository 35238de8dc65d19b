package reconciliation

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type reconciliationMetrics struct {
	paystubs *prometheus.CounterVec
	duration prometheus.Histogram
}

// Registered once per process so several services (and tests) can share them.
var (
	metricsInstance *reconciliationMetrics
	metricsOnce     sync.Once
	metricsRegistry = prometheus.DefaultRegisterer
)

func newReconciliationMetrics() *reconciliationMetrics {
	metricsOnce.Do(func() {
		metricsInstance = &reconciliationMetrics{
			paystubs: promauto.With(metricsRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "verifier_paystubs_total",
				Help: "Paystubs reconciled against bank statements, by outcome",
			}, []string{"outcome"}),
			duration: promauto.With(metricsRegistry).NewHistogram(prometheus.HistogramOpts{
				Name:    "verifier_income_reconciliation_seconds",
				Help:    "Time spent reconciling one income check",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			}),
		}
	})
	return metricsInstance
}

func (m *reconciliationMetrics) observe(o PaystubOutcome) {
	outcome := "matched"
	if !o.Matched {
		outcome = string(o.Finding)
	}
	m.paystubs.WithLabelValues(outcome).Inc()
}
