// Package infra contains technical adapters such as metrics sinks, circuit
// file loaders and loggers. These packages should depend only on the
// interfaces defined in the core packages.
package infra
