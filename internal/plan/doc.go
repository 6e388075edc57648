// Package plan compiles a validated graph into an immutable execution plan
// and executes that plan against external inputs.
//
// Compile resolves dependencies, rejects cycles, prunes every node that does
// not feed an `out` node, schedules the rest deterministically and binds
// each input slot to its source. The resulting Plan holds no mutable state:
// every Execute call gets a fresh results store, so one Plan can serve many
// concurrent callers.
package plan
