// Package metrics defines the sink interface used to record balancing runs.
// Sinks such as PromSink and InfluxSink (see infra/metrics) are built from
// configuration through a factory registry and combined with NewMultiSink
// when several are configured.
package metrics
