// Package graph holds the immutable, validated representation of a
// computation graph: nodes, the connections between them, and the lookup
// indices the later compilation passes rely on.
//
// # Validation
//
// A Graph can only be obtained through New, which validates the structure
// eagerly. Every later stage (dependency resolution, pruning, scheduling and
// plan compilation) may therefore assume that:
//
//   - every node has a non-empty, unique ID
//   - every connection references two existing nodes
//   - every (target, input) pair is bound by at most one connection
//   - no connection targets an `in` node
//   - every `out` node has at most one bound input, and output keys are unique
//
// Violations are reported as *StructuralError values that unwrap to one of
// the Err* sentinels declared in errors.go.
//
// # Node kinds
//
// Three kinds have engine-defined meaning:
//
//	in        reads one external input; never calls the function pool
//	out       passes its single bound input through to the result mapping
//	variable  editor-side indirection, removed by config.ResolveVariables
//
// Any other kind is a compute node: its FunctionRef is resolved against the
// function pool at compile time.
//
// # Immutability
//
// A Graph is never modified after New returns. Passes that need a smaller
// graph (such as the pruner) build a new one with Subgraph. All accessors
// return copies, so a Graph is safe to share between goroutines.
package graph
