// Package models provides higher-level building blocks on top of
// pkg/core/model, and the catalog of named example models.
//
// # Helpers
//
// Real request paths are dominated by fixed costs between the interesting
// work: network hops, load balancers, serialization. The helpers model those
// as hidden constant gaps:
//
//   - [Gap]: a hidden constant
//   - [WithOverhead]: a serial composite that puts a gap before, between
//     and after its children
//   - [Call], [ServiceCall]: visible overhead wrappers
//   - [HiddenParallel]: an unlabeled, hidden parallel composite
//
// # Catalog
//
// [Catalog] lists the built-in models, and [Lookup] fetches one by name.
// Every catalog entry holds a [model.Builder], so it can be simulated any
// number of times.
//
//	entry, err := models.Lookup("page-load")
//	trace, err := sim.Simulate(entry.Builder)
package models
