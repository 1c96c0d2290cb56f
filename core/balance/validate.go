package balance

import (
	"errors"
	"fmt"
	"math"

	"github.com/kilianp07/phasebal/core/model"
)

var (
	// ErrInvalidCurrent reports a negative, NaN or infinite design current.
	ErrInvalidCurrent = errors.New("design current must be a finite, non-negative number")
	// ErrDuplicateCircuit reports a circuit number used more than once.
	ErrDuplicateCircuit = errors.New("duplicate circuit number")
	// ErrInvalidPhase reports a locked phase other than L1, L2 or L3.
	ErrInvalidPhase = errors.New("locked phase must be L1, L2 or L3")
	// ErrConflictingLock reports a phase lock on a circuit flagged relocatable.
	ErrConflictingLock = errors.New("locked phase set on a relocatable circuit")
)

// CircuitError identifies the circuit that failed validation.
type CircuitError struct {
	CircuitNumber int
	Field         string
	Value         any
	Err           error
}

func (e *CircuitError) Error() string {
	return fmt.Sprintf("circuit %d: %s=%v: %v", e.CircuitNumber, e.Field, e.Value, e.Err)
}

func (e *CircuitError) Unwrap() error { return e.Err }

// ValidateCurrent returns ErrInvalidCurrent unless amps is finite and
// non-negative.
func ValidateCurrent(amps float64) error {
	if math.IsNaN(amps) || math.IsInf(amps, 0) || amps < 0 {
		return ErrInvalidCurrent
	}
	return nil
}

// Validate checks circuits before balancing and returns the first problem
// found. The engine functions do not call it.
func Validate(circuits []model.CircuitLoad) error {
	seen := make(map[int]struct{}, len(circuits))
	for _, c := range circuits {
		if _, dup := seen[c.CircuitNumber]; dup {
			return &CircuitError{CircuitNumber: c.CircuitNumber, Field: "circuitNumber", Value: c.CircuitNumber, Err: ErrDuplicateCircuit}
		}
		seen[c.CircuitNumber] = struct{}{}

		if err := ValidateCurrent(c.DesignCurrent); err != nil {
			return &CircuitError{CircuitNumber: c.CircuitNumber, Field: "designCurrent", Value: c.DesignCurrent, Err: err}
		}
		if c.Pinned() {
			if !c.LockedPhase.Valid() {
				return &CircuitError{CircuitNumber: c.CircuitNumber, Field: "lockedPhase", Value: c.LockedPhase, Err: ErrInvalidPhase}
			}
			if c.CanRelocate {
				return &CircuitError{CircuitNumber: c.CircuitNumber, Field: "lockedPhase", Value: c.LockedPhase, Err: ErrConflictingLock}
			}
		}
	}
	return nil
}
