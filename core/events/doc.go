// Package events defines the events emitted on the event bus.
//
// Available event types:
//   - BalanceEvent: a circuit list was balanced
//   - RejectedEvent: a circuit list failed validation
package events
