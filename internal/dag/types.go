package dag

// Graph is the dependency view of a graph.Graph. It is built once by Resolve
// and only read afterwards.
type Graph struct {
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
	// order holds the nodes in declaration order.
	order []*node
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs),
// not by direct struct manipulation.
type node struct {
	// id is the unique identifier for the node.
	id string
	// pos is the declaration position, used for tie-breaking.
	pos int
	// deps holds the distinct nodes this node depends on (predecessors),
	// ordered by their first connection.
	deps []*node
	// dependents holds the distinct nodes that depend on this node (successors).
	dependents []*node
}
