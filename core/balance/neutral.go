package balance

import (
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/phasebal/core/model"
)

// EstimateNeutralCurrent approximates the neutral conductor current as the
// largest deviation of a phase current from the three-phase mean, rounded to
// two decimals.
//
// This is a simplification: the real neutral current of an unbalanced supply
// is the vector sum of the phase currents and depends on phase angles and
// power factor, which are not modelled here. Do not use it for conductor
// sizing.
func EstimateNeutralCurrent(l1, l2, l3 float64) float64 {
	values := []float64{l1, l2, l3}
	return model.Round2(maxDeviation(values, stat.Mean(values, nil)))
}
