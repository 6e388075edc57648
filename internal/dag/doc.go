// Package dag is the analysis layer of the compiler. It takes a validated
// graph.Graph and answers the three questions compilation needs:
//
//   - which nodes does each node depend on, and is the graph acyclic
//     (Resolve, DetectCycles)
//   - which nodes are actually needed to produce the declared outputs
//     (Live, Prune)
//   - in what order must the needed nodes run (Schedule)
//
// All traversals are iterative, so very deep graphs cannot exhaust the
// goroutine stack. Every pass visits nodes in declaration order, which makes
// the results deterministic for a given input graph.
package dag
