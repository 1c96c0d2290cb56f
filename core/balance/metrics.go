package balance

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	balanceRuns      *prometheus.CounterVec
	balanceImbalance prometheus.Histogram
	balanceDuration  prometheus.Histogram
	phaseCurrent     *prometheus.GaugeVec
	validationErrors prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, prometheus.Histogram, prometheus.Histogram, *prometheus.GaugeVec, prometheus.Counter) {
	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balance_runs_total",
			Help: "Number of load balancing runs",
		},
		[]string{"compliant"},
	)
	imb := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "balance_imbalance_percent",
			Help:    "Phase imbalance of balancing results",
			Buckets: []float64{1, 2.5, 5, 10, 15, 25, 50, 100},
		},
	)
	dur := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "balance_duration_seconds",
			Help:    "Time spent balancing a circuit list",
			Buckets: prometheus.DefBuckets,
		},
	)
	cur := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "balance_phase_current_amps",
			Help: "Per-phase design current of the last balancing run",
		},
		[]string{"phase"},
	)
	verr := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "balance_validation_errors_total",
			Help: "Number of circuit lists rejected by validation",
		},
	)
	return runs, imb, dur, cur, verr
}

func init() {
	balanceRuns, balanceImbalance, balanceDuration, phaseCurrent, validationErrors = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers balancing metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(balanceRuns, balanceImbalance, balanceDuration, phaseCurrent, validationErrors)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	balanceRuns, balanceImbalance, balanceDuration, phaseCurrent, validationErrors = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
