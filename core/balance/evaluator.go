package balance

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/phasebal/core/model"
)

// Policy thresholds. They are fixed and not configurable.
const (
	ModerateImbalancePercent = 10.0
	MaxImbalancePercent      = 15.0
	OverloadThresholdAmps    = 80.0
	// MinCircuitsForRebalanceTip is the number of circuits required before
	// the generic rebalancing advice is emitted.
	MinCircuitsForRebalanceTip = 3
)

// RebalanceTip is appended when imbalance exceeds MaxImbalancePercent.
const RebalanceTip = "Consider moving the largest circuits to the least loaded phases"

// Evaluation is the analysis of a set of phase totals.
type Evaluation struct {
	TotalLoad       float64
	Imbalance       float64
	Compliant       bool
	Recommendations []string
}

// Evaluate computes the imbalance percentage of the given phase totals and
// classifies it. circuitCount gates the rebalancing tip.
//
// Compliance is decided on the imbalance rounded to two decimals, which is
// the value reported to callers.
func Evaluate(totals model.PhaseTotals, circuitCount int) Evaluation {
	values := totals.Slice()
	average := stat.Mean(values, nil)

	imbalance := 0.0
	if average > 0 {
		imbalance = maxDeviation(values, average) / average * 100
	}
	imbalance = model.Round2(imbalance)

	ev := Evaluation{
		TotalLoad:       model.Round2(average),
		Imbalance:       imbalance,
		Compliant:       imbalance < MaxImbalancePercent,
		Recommendations: []string{},
	}

	switch {
	case imbalance >= MaxImbalancePercent:
		ev.Recommendations = append(ev.Recommendations, fmt.Sprintf(
			"High phase imbalance (%.2f%%) exceeds the %.0f%% limit: redistribute loads across phases",
			imbalance, MaxImbalancePercent))
	case imbalance >= ModerateImbalancePercent:
		ev.Recommendations = append(ev.Recommendations, fmt.Sprintf(
			"Moderate phase imbalance (%.2f%%): consider rebalancing loads",
			imbalance))
	}

	for _, p := range model.Phases {
		if amps := totals.Get(p); amps > OverloadThresholdAmps {
			ev.Recommendations = append(ev.Recommendations, fmt.Sprintf(
				"%s load (%.2fA) exceeds %.0fA: check supply capacity",
				p, model.Round2(amps), OverloadThresholdAmps))
		}
	}

	if imbalance > MaxImbalancePercent && circuitCount >= MinCircuitsForRebalanceTip {
		ev.Recommendations = append(ev.Recommendations, RebalanceTip)
	}
	return ev
}

// Balance runs the descending greedy allocation and evaluates it.
func Balance(circuits []model.CircuitLoad) model.LoadBalancingResult {
	return buildResult(Allocate(circuits), len(circuits))
}

func buildResult(a Allocation, circuitCount int) model.LoadBalancingResult {
	ev := Evaluate(a.Totals, circuitCount)
	rounded := a.Totals.Rounded()
	return model.LoadBalancingResult{
		L1Total:           rounded.L1,
		L2Total:           rounded.L2,
		L3Total:           rounded.L3,
		TotalLoad:         ev.TotalLoad,
		Imbalance:         ev.Imbalance,
		Compliant:         ev.Compliant,
		Recommendations:   ev.Recommendations,
		CircuitAllocation: a.Circuits,
	}
}

func maxDeviation(values []float64, average float64) float64 {
	dev := make([]float64, len(values))
	for i, v := range values {
		dev[i] = math.Abs(v - average)
	}
	return floats.Max(dev)
}
