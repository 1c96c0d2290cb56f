// Package balance assigns circuits to the L1/L2/L3 phases of a three-phase
// supply so that the per-phase design currents are as even as possible.
//
// The engine is made of small pure functions:
//
//   - Allocate places circuits greedily, largest first, on the least loaded
//     phase (ties resolved L1, L2, L3).
//   - Evaluate derives the imbalance percentage, compliance and advisories
//     from three phase totals.
//   - Optimizer retries the greedy pass with other orderings for small
//     installations and keeps the lowest imbalance.
//   - EstimateNeutralCurrent gives a rough neutral current figure.
//
// None of them validates its input. Balancer wraps them with Validate,
// logging, metrics and event publication for use by the CLI and HTTP API.
package balance
