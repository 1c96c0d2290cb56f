package balance

import (
	"cmp"
	"slices"

	"github.com/kilianp07/phasebal/core/model"
)

// Allocation is the raw output of a greedy pass. Totals keep full precision.
type Allocation struct {
	Totals   model.PhaseTotals
	Circuits []model.CircuitAllocation
}

// Allocate assigns every circuit to a phase, placing the largest design
// currents first on the currently least loaded phase. Circuits carrying a
// LockedPhase are placed on that phase before the greedy pass. The input
// slice is not modified.
func Allocate(circuits []model.CircuitLoad) Allocation {
	return AllocateOrdered(sortByCurrent(circuits, true))
}

// AllocateOrdered runs the greedy placement over circuits in the order given.
func AllocateOrdered(circuits []model.CircuitLoad) Allocation {
	a := Allocation{Circuits: make([]model.CircuitAllocation, 0, len(circuits))}
	free := make([]model.CircuitLoad, 0, len(circuits))
	for _, c := range circuits {
		if c.Pinned() {
			a.place(c, c.LockedPhase, true)
			continue
		}
		free = append(free, c)
	}
	for _, c := range free {
		a.place(c, a.Totals.LeastLoaded(), false)
	}
	return a
}

func (a *Allocation) place(c model.CircuitLoad, p model.Phase, locked bool) {
	a.Totals.Add(p, c.DesignCurrent)
	a.Circuits = append(a.Circuits, model.CircuitAllocation{
		CircuitNumber:    c.CircuitNumber,
		Name:             c.Name,
		Phase:            p,
		LoadContribution: c.DesignCurrent,
		Locked:           locked,
	})
}

// sortByCurrent returns a stably sorted copy of circuits.
func sortByCurrent(circuits []model.CircuitLoad, desc bool) []model.CircuitLoad {
	out := slices.Clone(circuits)
	slices.SortStableFunc(out, func(a, b model.CircuitLoad) int {
		if desc {
			return cmp.Compare(b.DesignCurrent, a.DesignCurrent)
		}
		return cmp.Compare(a.DesignCurrent, b.DesignCurrent)
	})
	return out
}
