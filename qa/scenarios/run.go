package scenarios

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/phasebal/core/balance"
	"github.com/kilianp07/phasebal/core/events"
	"github.com/kilianp07/phasebal/infra/logger"
	"github.com/kilianp07/phasebal/infra/metrics"
	"github.com/kilianp07/phasebal/internal/eventbus"
)

const tolerance = 1e-9

func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	collector, err := metrics.NewEventCollector(reg, logger.NopLogger{})
	if err != nil {
		t.Fatalf("collector: %v", err)
	}

	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	collector.Start(ctx, bus)

	b, err := balance.NewBalancer(balance.NewOptimizer(sc.Seed, sc.RandomPasses), sink, bus, logger.NopLogger{})
	if err != nil {
		t.Fatalf("balancer: %v", err)
	}
	rep, err := b.Balance(ctx, sc.Circuits)

	exp := sc.Expected
	if exp.RejectedCircuit != 0 {
		var ce *balance.CircuitError
		if !errors.As(err, &ce) {
			t.Fatalf("scenario %s expected a circuit error, got %v", sc.Name, err)
		}
		if ce.CircuitNumber != exp.RejectedCircuit {
			t.Errorf("scenario %s rejected circuit %d, want %d", sc.Name, ce.CircuitNumber, exp.RejectedCircuit)
		}
		if _, ok := (<-sub).(events.RejectedEvent); !ok {
			t.Errorf("scenario %s expected a rejected event", sc.Name)
		}
		return
	}
	if err != nil {
		t.Fatalf("scenario %s: %v", sc.Name, err)
	}

	res := rep.Result
	checks := []struct {
		name      string
		got, want float64
	}{
		{"l1", res.L1Total, exp.L1},
		{"l2", res.L2Total, exp.L2},
		{"l3", res.L3Total, exp.L3},
		{"imbalance", res.Imbalance, exp.Imbalance},
		{"neutral", rep.NeutralCurrent, exp.Neutral},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > tolerance {
			t.Errorf("scenario %s expected %s=%.2f, got %.2f", sc.Name, c.name, c.want, c.got)
		}
	}
	if res.Compliant != exp.Compliant {
		t.Errorf("scenario %s expected compliant=%v", sc.Name, exp.Compliant)
	}
	if len(res.Recommendations) != exp.Recommendations {
		t.Errorf("scenario %s expected %d recommendations, got %q", sc.Name, exp.Recommendations, res.Recommendations)
	}
	if len(res.CircuitAllocation) != len(sc.Circuits) {
		t.Errorf("scenario %s allocated %d of %d circuits", sc.Name, len(res.CircuitAllocation), len(sc.Circuits))
	}
	for n, want := range exp.Phases {
		if got, ok := res.PhaseOf(n); !ok || got != want {
			t.Errorf("scenario %s expected circuit %d on %s, got %q", sc.Name, n, want, got)
		}
	}

	if ev, ok := (<-sub).(events.BalanceEvent); !ok || ev.RunID != rep.RunID {
		t.Errorf("scenario %s expected a balance event for run %s", sc.Name, rep.RunID)
	}
	if n, err := testutil.GatherAndCount(reg, "phase_balance_events_total"); err != nil || n != 1 {
		t.Errorf("scenario %s expected one recorded run series, got %d (%v)", sc.Name, n, err)
	}
}
