package metrics

import (
	"time"

	"github.com/kilianp07/phasebal/core/model"
)

// BalanceEvent summarises one balancing run.
type BalanceEvent struct {
	RunID          string
	CircuitCount   int
	Totals         model.PhaseTotals
	Imbalance      float64
	NeutralCurrent float64
	Compliant      bool
	Duration       time.Duration
	Time           time.Time
}

// BalanceRecorder records balancing runs for observability purposes.
type BalanceRecorder interface {
	RecordBalance(ev BalanceEvent) error
}

// NopSink implements BalanceRecorder with a no-op.
type NopSink struct{}

func (NopSink) RecordBalance(BalanceEvent) error { return nil }
