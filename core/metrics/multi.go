package metrics

// MultiSink fans out balancing events to multiple sinks.
type MultiSink struct {
	Sinks []BalanceRecorder
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...BalanceRecorder) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordBalance forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordBalance(ev BalanceEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordBalance(ev); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the sinks that hold resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		Close(s)
	}
}

// Close releases r when it holds resources, such as an open client.
func Close(r BalanceRecorder) {
	if c, ok := r.(interface{ Close() }); ok {
		c.Close()
	}
}
