package dag

import "github.com/specialistvlad/graphcompiler/internal/graph"

// Live returns the set of nodes reachable backward from roots: the roots
// themselves plus all of their transitive dependencies. Unknown roots are
// ignored.
func (d *Graph) Live(roots []string) map[string]bool {
	live := make(map[string]bool, len(d.order))
	queue := make([]*node, 0, len(roots))
	for _, id := range roots {
		if n, ok := d.nodes[id]; ok {
			queue = append(queue, n)
		}
	}

	// BFS against the data flow.
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if live[current.id] {
			continue
		}
		live[current.id] = true

		for _, dep := range current.deps {
			if !live[dep.id] {
				queue = append(queue, dep)
			}
		}
	}
	return live
}

// OutputIDs returns the IDs of g's `out` nodes in declaration order.
func OutputIDs(g *graph.Graph) []string {
	outs := g.NodesOfKind(graph.KindOut)
	ids := make([]string, len(outs))
	for i, n := range outs {
		ids[i] = n.ID
	}
	return ids
}

// Prune removes every node that does not contribute to an `out` node, along
// with every connection touching a removed node. A graph without `out`
// nodes prunes to the empty graph. Pruning a pruned graph is a no-op.
func Prune(g *graph.Graph) *graph.Graph {
	live := Resolve(g).Live(OutputIDs(g))
	return g.Subgraph(func(id string) bool { return live[id] })
}
