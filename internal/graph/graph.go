package graph

import "maps"

// Graph is a validated, immutable collection of nodes and connections.
type Graph struct {
	// nodes keeps the declaration order; it drives every deterministic pass.
	nodes []Node
	// index maps a node ID to its position in nodes.
	index map[string]int
	conns []Connection
	// incoming and outgoing map a node ID to indices into conns.
	incoming map[string][]int
	outgoing map[string][]int
}

// New validates the given nodes and connections and returns the resulting
// Graph. It fails with a *StructuralError on the first problem found.
func New(nodes []Node, conns []Connection) (*Graph, error) {
	g := &Graph{
		nodes:    make([]Node, 0, len(nodes)),
		index:    make(map[string]int, len(nodes)),
		conns:    make([]Connection, 0, len(conns)),
		incoming: make(map[string][]int),
		outgoing: make(map[string][]int),
	}

	for _, n := range nodes {
		if n.ID == "" {
			return nil, structural(ErrEmptyID, "", "node at position %d", len(g.nodes))
		}
		if _, exists := g.index[n.ID]; exists {
			return nil, structural(ErrDuplicateNode, n.ID, "")
		}
		if n.Config != nil {
			n.Config = maps.Clone(n.Config)
		}
		g.index[n.ID] = len(g.nodes)
		g.nodes = append(g.nodes, n)
	}

	bound := make(map[[2]string]struct{}, len(conns))
	for _, c := range conns {
		if _, ok := g.index[c.Source]; !ok {
			return nil, structural(ErrUnknownNode, c.Source, "source of connection to %q", c.Target)
		}
		target, ok := g.index[c.Target]
		if !ok {
			return nil, structural(ErrUnknownNode, c.Target, "target of connection from %q", c.Source)
		}
		if c.TargetInput == "" {
			return nil, structural(ErrMissingInputName, c.Target, "connection from %q", c.Source)
		}
		if g.nodes[target].Kind == KindIn {
			return nil, structural(ErrInputNodeTarget, c.Target, "connection from %q", c.Source)
		}
		slot := [2]string{c.Target, c.TargetInput}
		if _, dup := bound[slot]; dup {
			return nil, structural(ErrConflictingInput, c.Target, "input %q", c.TargetInput)
		}
		bound[slot] = struct{}{}

		i := len(g.conns)
		g.conns = append(g.conns, c)
		g.incoming[c.Target] = append(g.incoming[c.Target], i)
		g.outgoing[c.Source] = append(g.outgoing[c.Source], i)
	}

	outputKeys := make(map[string]string)
	for _, n := range g.nodes {
		if n.Kind != KindOut {
			continue
		}
		if len(g.incoming[n.ID]) > 1 {
			return nil, structural(ErrOutputArity, n.ID, "%d inputs bound", len(g.incoming[n.ID]))
		}
		key := n.OutputKey()
		if other, dup := outputKeys[key]; dup {
			return nil, structural(ErrDuplicateOutput, n.ID, "key %q already used by %q", key, other)
		}
		outputKeys[key] = n.ID
	}

	return g, nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes returns all nodes in declaration order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Node looks a node up by ID.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Position returns the declaration position of a node, or -1.
func (g *Graph) Position(id string) int {
	i, ok := g.index[id]
	if !ok {
		return -1
	}
	return i
}

// Connections returns all connections in declaration order.
func (g *Graph) Connections() []Connection {
	out := make([]Connection, len(g.conns))
	copy(out, g.conns)
	return out
}

// Incoming returns the connections targeting the given node.
func (g *Graph) Incoming(id string) []Connection {
	return g.collect(g.incoming[id])
}

// Outgoing returns the connections whose source is the given node.
func (g *Graph) Outgoing(id string) []Connection {
	return g.collect(g.outgoing[id])
}

func (g *Graph) collect(idx []int) []Connection {
	if len(idx) == 0 {
		return nil
	}
	out := make([]Connection, len(idx))
	for i, ci := range idx {
		out[i] = g.conns[ci]
	}
	return out
}

// NodesOfKind returns the nodes of the given kind in declaration order.
func (g *Graph) NodesOfKind(kind Kind) []Node {
	var out []Node
	for _, n := range g.nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Subgraph returns a new Graph holding only the nodes for which keep returns
// true, and the connections whose endpoints are both kept. Declaration order
// is preserved. The result needs no revalidation: removing nodes and edges
// cannot introduce a structural problem.
func (g *Graph) Subgraph(keep func(id string) bool) *Graph {
	sub := &Graph{
		index:    make(map[string]int),
		incoming: make(map[string][]int),
		outgoing: make(map[string][]int),
	}
	for _, n := range g.nodes {
		if keep(n.ID) {
			sub.index[n.ID] = len(sub.nodes)
			sub.nodes = append(sub.nodes, n)
		}
	}
	for _, c := range g.conns {
		_, srcOK := sub.index[c.Source]
		_, dstOK := sub.index[c.Target]
		if !srcOK || !dstOK {
			continue
		}
		i := len(sub.conns)
		sub.conns = append(sub.conns, c)
		sub.incoming[c.Target] = append(sub.incoming[c.Target], i)
		sub.outgoing[c.Source] = append(sub.outgoing[c.Source], i)
	}
	return sub
}
