package metrics

import (
	"errors"
	"testing"

	"github.com/kilianp07/phasebal/core/factory"
)

type recordSink struct {
	count int
	err   error
}

func (r *recordSink) RecordBalance(BalanceEvent) error {
	r.count++
	return r.err
}

// TestMultiSink ensures events are forwarded to all sinks.
func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordBalance(BalanceEvent{RunID: "r1"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if s1.count != 1 || s2.count != 1 {
		t.Fatalf("events not forwarded")
	}
}

func TestMultiSink_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	s1 := &recordSink{err: boom}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordBalance(BalanceEvent{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom got %v", err)
	}
	if s2.count != 0 {
		t.Fatalf("second sink should not be called")
	}
}

func TestConfigPrometheusEnabled(t *testing.T) {
	var c Config
	c.SetDefaults()
	if c.PrometheusAddress != ":9100" {
		t.Fatalf("unexpected default %q", c.PrometheusAddress)
	}
	if c.PrometheusEnabled() {
		t.Fatal("no sink configured")
	}
	c.Sinks = append(c.Sinks, factory.ModuleConfig{Type: "prometheus"})
	if !c.PrometheusEnabled() {
		t.Fatal("expected prometheus enabled")
	}
}

type closingSink struct {
	recordSink
	closed bool
}

func (c *closingSink) Close() { c.closed = true }

func TestMultiSinkClose(t *testing.T) {
	c := &closingSink{}
	m := NewMultiSink(&recordSink{}, c)
	Close(m)
	if !c.closed {
		t.Fatal("closable sink not closed")
	}
	Close(NopSink{})
}
