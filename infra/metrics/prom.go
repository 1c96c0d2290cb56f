package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/phasebal/core/metrics"
	"github.com/kilianp07/phasebal/core/model"
)

// PromSink records balancing runs in Prometheus metrics.
type PromSink struct {
	runs      *prometheus.CounterVec
	circuits  prometheus.Histogram
	neutral   prometheus.Gauge
	imbalance *prometheus.GaugeVec
}

// NewPromSink registers sink metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately by StartPromServer.
func NewPromSink() (coremetrics.BalanceRecorder, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.BalanceRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "phase_balance_events_total",
		Help: "Total number of recorded balancing runs",
	}, []string{"compliant"})
	circuits := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "phase_balance_circuits",
		Help:    "Number of circuits per balancing run",
		Buckets: []float64{3, 6, 12, 24, 48, 96},
	})
	neutral := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "phase_balance_neutral_current_amps",
		Help: "Estimated neutral current of the last run",
	})
	imbalance := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "phase_balance_last_imbalance_percent",
		Help: "Imbalance of the last run",
	}, []string{"compliant"})

	var err error
	if runs, err = register(reg, runs); err != nil {
		return nil, err
	}
	if circuits, err = register(reg, circuits); err != nil {
		return nil, err
	}
	if neutral, err = register(reg, neutral); err != nil {
		return nil, err
	}
	if imbalance, err = register(reg, imbalance); err != nil {
		return nil, err
	}
	return &PromSink{runs: runs, circuits: circuits, neutral: neutral, imbalance: imbalance}, nil
}

// register returns the already registered collector when an identical one
// exists, so several sinks can share the default registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordBalance updates the counters and gauges for one run.
func (s *PromSink) RecordBalance(ev coremetrics.BalanceEvent) error {
	label := strconv.FormatBool(ev.Compliant)
	s.runs.WithLabelValues(label).Inc()
	s.circuits.Observe(float64(ev.CircuitCount))
	s.neutral.Set(model.Round2(ev.NeutralCurrent))
	s.imbalance.Reset()
	s.imbalance.WithLabelValues(label).Set(ev.Imbalance)
	return nil
}
