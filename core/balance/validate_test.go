package balance

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/phasebal/core/model"
)

func TestValidate_Accepts(t *testing.T) {
	in := circuitsFromCurrents(0, 16, 32)
	in = append(in, model.CircuitLoad{CircuitNumber: 9, DesignCurrent: 6, LockedPhase: model.PhaseL2})
	assert.NoError(t, Validate(in))
	assert.NoError(t, Validate(nil))
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name    string
		circuit model.CircuitLoad
		field   string
		want    error
	}{
		{"negative", model.CircuitLoad{CircuitNumber: 4, DesignCurrent: -1}, "designCurrent", ErrInvalidCurrent},
		{"nan", model.CircuitLoad{CircuitNumber: 4, DesignCurrent: math.NaN()}, "designCurrent", ErrInvalidCurrent},
		{"inf", model.CircuitLoad{CircuitNumber: 4, DesignCurrent: math.Inf(1)}, "designCurrent", ErrInvalidCurrent},
		{"duplicate", model.CircuitLoad{CircuitNumber: 1, DesignCurrent: 5}, "circuitNumber", ErrDuplicateCircuit},
		{"bad phase", model.CircuitLoad{CircuitNumber: 4, DesignCurrent: 5, LockedPhase: "L4"}, "lockedPhase", ErrInvalidPhase},
		{"lock on relocatable", model.CircuitLoad{CircuitNumber: 4, DesignCurrent: 5, LockedPhase: model.PhaseL1, CanRelocate: true}, "lockedPhase", ErrConflictingLock},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := append(circuitsFromCurrents(10, 20), c.circuit)
			err := Validate(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, c.want)

			var ce *CircuitError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, c.circuit.CircuitNumber, ce.CircuitNumber)
			assert.Equal(t, c.field, ce.Field)
			assert.Contains(t, err.Error(), "circuit ")
		})
	}
}

func TestValidate_ReportsFirstOffender(t *testing.T) {
	in := circuitsFromCurrents(10, -2, -3)
	var ce *CircuitError
	require.ErrorAs(t, Validate(in), &ce)
	assert.Equal(t, 2, ce.CircuitNumber)
	assert.Equal(t, "circuit 2: designCurrent=-2: design current must be a finite, non-negative number", ce.Error())
}

func TestValidateCurrent(t *testing.T) {
	for _, v := range []float64{0, 0.5, 80.004} {
		assert.NoError(t, ValidateCurrent(v), v)
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -0.01} {
		assert.ErrorIs(t, ValidateCurrent(v), ErrInvalidCurrent, v)
	}
}
