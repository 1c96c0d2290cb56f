package balance

import (
	"math/rand"
	"slices"
	"sync"

	"github.com/kilianp07/phasebal/core/model"
)

// MaxSearchCircuits bounds the multi-ordering search. Larger installations
// get a single descending greedy pass.
const MaxSearchCircuits = 6

// Shuffler permutes n elements through swap. *rand.Rand implements it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Optimizer retries the greedy allocation with several circuit orderings and
// keeps the lowest imbalance. It is safe for concurrent use.
type Optimizer struct {
	mu           sync.Mutex
	shuffler     Shuffler
	randomPasses int
}

// NewOptimizer returns an optimizer whose shuffled orderings are drawn from
// a generator seeded with seed. passes below one are raised to one.
func NewOptimizer(seed int64, passes int) *Optimizer {
	return NewOptimizerWithShuffler(rand.New(rand.NewSource(seed)), passes)
}

// NewOptimizerWithShuffler uses s to produce the shuffled orderings.
func NewOptimizerWithShuffler(s Shuffler, passes int) *Optimizer {
	if passes < 1 {
		passes = 1
	}
	return &Optimizer{shuffler: s, randomPasses: passes}
}

// Optimize returns the best result among the descending, ascending and
// shuffled greedy passes. On equal imbalance the earlier pass wins, so the
// descending baseline is only replaced by a strictly better allocation.
func (o *Optimizer) Optimize(circuits []model.CircuitLoad) model.LoadBalancingResult {
	best := Balance(circuits)
	if len(circuits) > MaxSearchCircuits || len(circuits) == 0 {
		return best
	}
	for _, order := range o.orderings(circuits) {
		res := buildResult(AllocateOrdered(order), len(circuits))
		if res.Imbalance < best.Imbalance {
			best = res
		}
	}
	return best
}

// orderings returns the ascending ordering followed by the shuffled ones.
func (o *Optimizer) orderings(circuits []model.CircuitLoad) [][]model.CircuitLoad {
	out := make([][]model.CircuitLoad, 0, 1+o.randomPasses)
	out = append(out, sortByCurrent(circuits, false))

	o.mu.Lock()
	defer o.mu.Unlock()
	for i := 0; i < o.randomPasses; i++ {
		shuffled := slices.Clone(circuits)
		o.shuffler.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		out = append(out, shuffled)
	}
	return out
}
