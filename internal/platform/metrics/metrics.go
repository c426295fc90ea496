package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	AdmissionsTotal *prometheus.CounterVec
	AssetsIssued    prometheus.Counter
	MintDuration    *prometheus.HistogramVec
	FactoryFailures prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		AdmissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mintgate_admissions_total",
			Help: "Admission decisions partitioned by gating strategy and outcome",
		}, []string{"strategy", "outcome"}),
		AssetsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mintgate_assets_issued_total",
			Help: "Total number of asset records created",
		}),
		MintDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mintgate_mint_duration_seconds",
			Help:    "End-to-end latency of admission plus issuance",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"strategy"}),
		FactoryFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mintgate_factory_failures_total",
			Help: "Sub-account factory calls that failed and aborted issuance",
		}),
	}
}

// RecordAdmission increments the admission counter for one decision.
func (m *Metrics) RecordAdmission(strategy, outcome string) {
	if m == nil {
		return
	}
	m.AdmissionsTotal.WithLabelValues(strategy, outcome).Inc()
}

// ObserveMint records the duration of one mint attempt.
func (m *Metrics) ObserveMint(strategy string, start time.Time) {
	if m == nil {
		return
	}
	m.MintDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())
}

// RecordIssued increments the issued-asset counter.
func (m *Metrics) RecordIssued() {
	if m == nil {
		return
	}
	m.AssetsIssued.Inc()
}

// RecordFactoryFailure increments the factory failure counter.
func (m *Metrics) RecordFactoryFailure() {
	if m == nil {
		return
	}
	m.FactoryFailures.Inc()
}
