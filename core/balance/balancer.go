package balance

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/phasebal/core/events"
	"github.com/kilianp07/phasebal/core/logger"
	"github.com/kilianp07/phasebal/core/metrics"
	"github.com/kilianp07/phasebal/core/model"
	"github.com/kilianp07/phasebal/core/runlog"
	"github.com/kilianp07/phasebal/internal/eventbus"
)

// Report is the outcome of a Balancer run.
type Report struct {
	RunID          string                    `json:"runId"`
	Timestamp      time.Time                 `json:"timestamp"`
	Result         model.LoadBalancingResult `json:"result"`
	NeutralCurrent float64                   `json:"neutralCurrent"` // simplified estimate, see EstimateNeutralCurrent
}

// Balancer validates circuit lists, balances them and reports the outcome
// to metrics sinks and the event bus.
type Balancer struct {
	optimizer *Optimizer
	sink      metrics.BalanceRecorder
	bus       eventbus.EventBus
	runs      runlog.Store
	logger    logger.Logger
	now       func() time.Time
}

// NewBalancer creates a Balancer. The optimizer is mandatory; a nil sink,
// bus or logger disables the corresponding output.
func NewBalancer(opt *Optimizer, sink metrics.BalanceRecorder, bus eventbus.EventBus, log logger.Logger) (*Balancer, error) {
	if opt == nil {
		return nil, fmt.Errorf("balance: nil optimizer provided to NewBalancer")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Balancer{optimizer: opt, sink: sink, bus: bus, logger: logger.OrNop(log), now: time.Now}, nil
}

// SetRunLog enables recording of every successful run in store.
func (b *Balancer) SetRunLog(store runlog.Store) { b.runs = store }

// Balance validates circuits and returns the best allocation found together
// with the neutral current estimate. Validation failures are returned as
// *CircuitError values.
func (b *Balancer) Balance(ctx context.Context, circuits []model.CircuitLoad) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	if err := Validate(circuits); err != nil {
		validationErrors.Inc()
		b.logger.Warnf("rejected circuit list: %v", err)
		b.publishRejected(err)
		return Report{}, fmt.Errorf("balance: %w", err)
	}
	for _, c := range circuits {
		if !c.CanRelocate && !c.Pinned() {
			b.logger.Debugf("circuit %d is not relocatable but has no locked phase, allocating freely", c.CircuitNumber)
		}
	}

	start := b.now()
	res := b.optimizer.Optimize(circuits)
	neutral := EstimateNeutralCurrent(res.L1Total, res.L2Total, res.L3Total)
	elapsed := b.now().Sub(start)

	rep := Report{
		RunID:          uuid.NewString(),
		Timestamp:      start,
		Result:         res,
		NeutralCurrent: neutral,
	}
	b.observe(rep, len(circuits), elapsed)
	if b.runs != nil {
		rec := runlog.RunRecord{
			RunID:          rep.RunID,
			Timestamp:      rep.Timestamp,
			Circuits:       circuits,
			Result:         res,
			NeutralCurrent: neutral,
		}
		if err := b.runs.Append(ctx, rec); err != nil {
			b.logger.Errorf("append run %s: %v", rep.RunID, err)
		}
	}

	b.logger.Debugw("balanced circuits", map[string]any{
		"run_id":    rep.RunID,
		"circuits":  len(circuits),
		"l1":        res.L1Total,
		"l2":        res.L2Total,
		"l3":        res.L3Total,
		"imbalance": res.Imbalance,
		"neutral":   neutral,
	})
	if !res.Compliant {
		b.logger.Warnf("run %s: phase imbalance %.2f%% exceeds %.0f%%", rep.RunID, res.Imbalance, MaxImbalancePercent)
	}
	return rep, nil
}

func (b *Balancer) observe(rep Report, circuitCount int, elapsed time.Duration) {
	res := rep.Result
	balanceRuns.WithLabelValues(strconv.FormatBool(res.Compliant)).Inc()
	balanceImbalance.Observe(res.Imbalance)
	balanceDuration.Observe(elapsed.Seconds())
	totals := res.Totals()
	for _, p := range model.Phases {
		phaseCurrent.WithLabelValues(p.String()).Set(totals.Get(p))
	}

	ev := metrics.BalanceEvent{
		RunID:          rep.RunID,
		CircuitCount:   circuitCount,
		Totals:         totals,
		Imbalance:      res.Imbalance,
		NeutralCurrent: rep.NeutralCurrent,
		Compliant:      res.Compliant,
		Duration:       elapsed,
		Time:           rep.Timestamp,
	}
	if err := b.sink.RecordBalance(ev); err != nil {
		b.logger.Errorf("record balance %s: %v", rep.RunID, err)
	}

	if b.bus != nil {
		b.bus.Publish(events.BalanceEvent{
			RunID:           rep.RunID,
			CircuitCount:    circuitCount,
			Imbalance:       res.Imbalance,
			Compliant:       res.Compliant,
			Recommendations: res.Recommendations,
			Overloaded:      overloadedPhases(allocatedTotals(res.CircuitAllocation)),
			Time:            rep.Timestamp,
		})
	}
}

func (b *Balancer) publishRejected(err error) {
	if b.bus == nil {
		return
	}
	ev := events.RejectedEvent{Err: err, Time: b.now()}
	var ce *CircuitError
	if errors.As(err, &ce) {
		ev.CircuitNumber = ce.CircuitNumber
	}
	b.bus.Publish(ev)
}

// allocatedTotals sums the unrounded contributions per phase.
func allocatedTotals(allocs []model.CircuitAllocation) model.PhaseTotals {
	var t model.PhaseTotals
	for _, a := range allocs {
		t.Add(a.Phase, a.LoadContribution)
	}
	return t
}

func overloadedPhases(totals model.PhaseTotals) []model.Phase {
	var out []model.Phase
	for _, p := range model.Phases {
		if totals.Get(p) > OverloadThresholdAmps {
			out = append(out, p)
		}
	}
	return out
}
