package verification

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/leasecheck/verifier/internal/domain"
)

type checkMetrics struct {
	checks  *prometheus.CounterVec
	reports *prometheus.CounterVec
}

var (
	checkMetricsInstance *checkMetrics
	checkMetricsOnce     sync.Once
)

func newCheckMetrics() *checkMetrics {
	checkMetricsOnce.Do(func() {
		factory := promauto.With(prometheus.DefaultRegisterer)
		checkMetricsInstance = &checkMetrics{
			checks: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "verifier_checks_total",
				Help: "Validation checks run, by check and outcome",
			}, []string{"check", "outcome"}),
			reports: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "verifier_reports_total",
				Help: "Application reports produced, by status",
			}, []string{"status"}),
		}
	})
	return checkMetricsInstance
}

func (m *checkMetrics) observe(check string, res domain.ValidationResult) {
	outcome := "passed"
	if !res.Passed {
		outcome = "failed"
	}
	m.checks.WithLabelValues(check, outcome).Inc()
}

func (m *checkMetrics) observeReport(status domain.Status) {
	m.reports.WithLabelValues(string(status)).Inc()
}
