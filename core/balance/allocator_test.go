package balance

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/phasebal/core/model"
)

func circuitsFromCurrents(currents ...float64) []model.CircuitLoad {
	out := make([]model.CircuitLoad, len(currents))
	for i, a := range currents {
		out[i] = model.CircuitLoad{
			CircuitNumber: i + 1,
			Name:          fmt.Sprintf("C%d", i+1),
			DesignCurrent: a,
			LoadPower:     a * 230,
			Voltage:       230,
			CanRelocate:   true,
		}
	}
	return out
}

func phasesByCircuit(a Allocation) map[int]model.Phase {
	m := make(map[int]model.Phase, len(a.Circuits))
	for _, c := range a.Circuits {
		m[c.CircuitNumber] = c.Phase
	}
	return m
}

func TestAllocate_LargestFirstScenario(t *testing.T) {
	a := Allocate(circuitsFromCurrents(30, 10, 5))
	assert.Equal(t, model.PhaseTotals{L1: 30, L2: 10, L3: 5}, a.Totals)
	assert.Equal(t, map[int]model.Phase{1: model.PhaseL1, 2: model.PhaseL2, 3: model.PhaseL3}, phasesByCircuit(a))
}

func TestAllocate_SortsBeforePlacing(t *testing.T) {
	a := Allocate(circuitsFromCurrents(5, 10, 30))
	assert.Equal(t, model.PhaseTotals{L1: 30, L2: 10, L3: 5}, a.Totals)
	assert.Equal(t, 3, a.Circuits[0].CircuitNumber, "largest circuit is placed first")
}

func TestAllocate_TieBreakOrder(t *testing.T) {
	a := Allocate(circuitsFromCurrents(10, 10, 10, 10))
	got := phasesByCircuit(a)
	assert.Equal(t, model.PhaseL1, got[1])
	assert.Equal(t, model.PhaseL2, got[2])
	assert.Equal(t, model.PhaseL3, got[3])
	assert.Equal(t, model.PhaseL1, got[4])
	assert.Equal(t, model.PhaseTotals{L1: 20, L2: 10, L3: 10}, a.Totals)
}

func TestAllocate_Empty(t *testing.T) {
	for _, in := range [][]model.CircuitLoad{nil, {}} {
		a := Allocate(in)
		assert.Equal(t, model.PhaseTotals{}, a.Totals)
		require.NotNil(t, a.Circuits)
		assert.Empty(t, a.Circuits)
	}
}

func TestAllocate_DoesNotMutateInput(t *testing.T) {
	in := circuitsFromCurrents(5, 30, 10, 7.5)
	orig := slices.Clone(in)
	Allocate(in)
	AllocateOrdered(in)
	assert.Equal(t, orig, in)
}

func TestAllocate_Deterministic(t *testing.T) {
	in := circuitsFromCurrents(16, 32, 6, 6, 20, 10, 16, 40, 2.5)
	assert.Equal(t, Allocate(in), Allocate(in))
}

func TestAllocate_ConservationAndCompleteness(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		n := r.Intn(40)
		currents := make([]float64, n)
		var sum float64
		for i := range currents {
			currents[i] = float64(r.Intn(640)) / 10
			sum += currents[i]
		}
		in := circuitsFromCurrents(currents...)
		a := Allocate(in)

		require.Len(t, a.Circuits, n)
		seen := make(map[int]int, n)
		var contrib float64
		for _, c := range a.Circuits {
			seen[c.CircuitNumber]++
			contrib += c.LoadContribution
			assert.True(t, c.Phase.Valid())
		}
		for _, c := range in {
			assert.Equal(t, 1, seen[c.CircuitNumber], "circuit %d", c.CircuitNumber)
		}
		assert.InDelta(t, sum, contrib, 1e-9)

		res := Balance(in)
		assert.InDelta(t, sum, res.L1Total+res.L2Total+res.L3Total, 0.01)
	}
}

func TestAllocate_EqualCurrentsKeepInputOrder(t *testing.T) {
	in := []model.CircuitLoad{
		{CircuitNumber: 7, DesignCurrent: 16},
		{CircuitNumber: 3, DesignCurrent: 16},
		{CircuitNumber: 5, DesignCurrent: 16},
	}
	got := phasesByCircuit(Allocate(in))
	assert.Equal(t, map[int]model.Phase{7: model.PhaseL1, 3: model.PhaseL2, 5: model.PhaseL3}, got)
}

func TestAllocate_LockedPhaseSeedsTotals(t *testing.T) {
	in := []model.CircuitLoad{
		{CircuitNumber: 1, DesignCurrent: 30, LockedPhase: model.PhaseL3},
		{CircuitNumber: 2, DesignCurrent: 30, CanRelocate: true},
		{CircuitNumber: 3, DesignCurrent: 10, CanRelocate: true},
	}
	a := Allocate(in)
	assert.Equal(t, model.PhaseTotals{L1: 30, L2: 10, L3: 30}, a.Totals)
	got := phasesByCircuit(a)
	assert.Equal(t, model.PhaseL3, got[1])
	assert.Equal(t, model.PhaseL1, got[2])
	assert.Equal(t, model.PhaseL2, got[3])
	for _, c := range a.Circuits {
		assert.Equal(t, c.CircuitNumber == 1, c.Locked)
	}
}

// The engine does not validate currents; Validate is the boundary that
// rejects them.
func TestAllocate_NonFiniteCurrentIsNotRejected(t *testing.T) {
	in := circuitsFromCurrents(10, math.NaN(), 5)
	a := Allocate(in)
	assert.Len(t, a.Circuits, 3)
	assert.True(t, math.IsNaN(a.Totals.Sum()))
	assert.ErrorIs(t, Validate(in), ErrInvalidCurrent)
}
