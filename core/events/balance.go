package events

import (
	"time"

	"github.com/kilianp07/phasebal/core/model"
)

// BalanceEvent is published after every successful balancing run.
type BalanceEvent struct {
	RunID           string
	CircuitCount    int
	Imbalance       float64
	Compliant       bool
	Recommendations []string
	// Overloaded lists phases above the overload threshold.
	Overloaded []model.Phase
	Time       time.Time
}

// RejectedEvent is published when validation rejects a circuit list.
type RejectedEvent struct {
	CircuitNumber int
	Err           error
	Time          time.Time
}
