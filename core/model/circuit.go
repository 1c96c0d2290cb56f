package model

// CircuitLoad describes one final circuit of an installation. Only
// DesignCurrent takes part in phase balancing; the other electrical fields
// are carried for display.
type CircuitLoad struct {
	CircuitNumber int     `json:"circuitNumber" yaml:"circuitNumber"`
	Name          string  `json:"name" yaml:"name"`
	LoadPower     float64 `json:"loadPower" yaml:"loadPower"`         // watts
	DesignCurrent float64 `json:"designCurrent" yaml:"designCurrent"` // amps
	Voltage       float64 `json:"voltage" yaml:"voltage"`
	LoadType      string  `json:"loadType" yaml:"loadType"`
	CanRelocate   bool    `json:"canRelocate" yaml:"canRelocate"`

	// LockedPhase pins the circuit to a phase. Empty means the allocator is
	// free to choose.
	LockedPhase Phase `json:"lockedPhase,omitempty" yaml:"lockedPhase,omitempty"`
}

// Pinned reports whether the circuit carries a phase lock.
func (c CircuitLoad) Pinned() bool { return c.LockedPhase != "" }

// CircuitAllocation records the phase chosen for a circuit.
type CircuitAllocation struct {
	CircuitNumber    int     `json:"circuitNumber"`
	Name             string  `json:"name"`
	Phase            Phase   `json:"phase"`
	LoadContribution float64 `json:"loadContribution"`
	Locked           bool    `json:"locked,omitempty"`
}

// LoadBalancingResult is the outcome of balancing a set of circuits. Totals
// and ratios are rounded to two decimals.
type LoadBalancingResult struct {
	L1Total           float64             `json:"l1Total"`
	L2Total           float64             `json:"l2Total"`
	L3Total           float64             `json:"l3Total"`
	TotalLoad         float64             `json:"totalLoad"` // mean of the three phase totals
	Imbalance         float64             `json:"imbalance"` // percent
	Compliant         bool                `json:"compliant"`
	Recommendations   []string            `json:"recommendations"`
	CircuitAllocation []CircuitAllocation `json:"circuitAllocation"`
}

// Totals returns the phase totals of the result.
func (r LoadBalancingResult) Totals() PhaseTotals {
	return PhaseTotals{L1: r.L1Total, L2: r.L2Total, L3: r.L3Total}
}

// PhaseOf returns the phase assigned to circuit n.
func (r LoadBalancingResult) PhaseOf(n int) (Phase, bool) {
	for _, a := range r.CircuitAllocation {
		if a.CircuitNumber == n {
			return a.Phase, true
		}
	}
	return "", false
}
