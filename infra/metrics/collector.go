package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/phasebal/core/events"
	"github.com/kilianp07/phasebal/core/logger"
	"github.com/kilianp07/phasebal/internal/eventbus"
)

// EventCollector turns bus events into Prometheus counters.
type EventCollector struct {
	overloads *prometheus.CounterVec
	rejected  prometheus.Counter
	log       logger.Logger
}

// NewEventCollector registers the collector metrics on reg (the default
// registerer when nil).
func NewEventCollector(reg prometheus.Registerer, log logger.Logger) (*EventCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	overloads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "phase_balance_overloaded_phase_total",
		Help: "Balancing runs where a phase exceeded the overload threshold",
	}, []string{"phase"})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "phase_balance_rejected_total",
		Help: "Circuit lists rejected by validation",
	})
	var err error
	if overloads, err = register(reg, overloads); err != nil {
		return nil, err
	}
	if rejected, err = register(reg, rejected); err != nil {
		return nil, err
	}
	return &EventCollector{overloads: overloads, rejected: rejected, log: logger.OrNop(log)}, nil
}

// Start subscribes to the event bus and records metrics for events.
// It stops when the context is canceled or the bus is closed.
func (c *EventCollector) Start(ctx context.Context, bus eventbus.EventBus) {
	if bus == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				c.handle(ev)
			}
		}
	}()
}

func (c *EventCollector) handle(ev eventbus.Event) {
	switch e := ev.(type) {
	case events.BalanceEvent:
		for _, p := range e.Overloaded {
			c.overloads.WithLabelValues(p.String()).Inc()
		}
	case events.RejectedEvent:
		c.rejected.Inc()
		c.log.Debugf("circuit %d rejected: %v", e.CircuitNumber, e.Err)
	}
}
