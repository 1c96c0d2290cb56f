package model

import "math"

// Phase identifies one of the three live conductors of the supply.
type Phase string

const (
	PhaseL1 Phase = "L1"
	PhaseL2 Phase = "L2"
	PhaseL3 Phase = "L3"
)

// Phases lists the phases in tie-break order.
var Phases = [3]Phase{PhaseL1, PhaseL2, PhaseL3}

// Valid reports whether p is one of L1, L2 or L3.
func (p Phase) Valid() bool {
	switch p {
	case PhaseL1, PhaseL2, PhaseL3:
		return true
	default:
		return false
	}
}

// String returns the phase label.
func (p Phase) String() string { return string(p) }

// PhaseTotals holds the summed design current per phase in amps.
type PhaseTotals struct {
	L1 float64 `json:"l1"`
	L2 float64 `json:"l2"`
	L3 float64 `json:"l3"`
}

// Get returns the total for p. Unknown phases return 0.
func (t PhaseTotals) Get(p Phase) float64 {
	switch p {
	case PhaseL1:
		return t.L1
	case PhaseL2:
		return t.L2
	case PhaseL3:
		return t.L3
	}
	return 0
}

// Add accumulates current on phase p.
func (t *PhaseTotals) Add(p Phase, amps float64) {
	switch p {
	case PhaseL1:
		t.L1 += amps
	case PhaseL2:
		t.L2 += amps
	case PhaseL3:
		t.L3 += amps
	}
}

// Slice returns the totals ordered L1, L2, L3.
func (t PhaseTotals) Slice() []float64 {
	return []float64{t.L1, t.L2, t.L3}
}

// LeastLoaded returns the phase with the lowest total. The first minimum in
// L1, L2, L3 order wins a tie.
func (t PhaseTotals) LeastLoaded() Phase {
	best := PhaseL1
	min := t.L1
	for _, p := range Phases[1:] {
		if v := t.Get(p); v < min {
			best, min = p, v
		}
	}
	return best
}

// Sum returns L1+L2+L3.
func (t PhaseTotals) Sum() float64 { return t.L1 + t.L2 + t.L3 }

// Rounded returns a copy with every total rounded to two decimals.
func (t PhaseTotals) Rounded() PhaseTotals {
	return PhaseTotals{L1: Round2(t.L1), L2: Round2(t.L2), L3: Round2(t.L3)}
}

// Round2 rounds x to two decimal places, half away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
