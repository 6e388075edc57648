package dag

import (
	"fmt"

	"github.com/specialistvlad/graphcompiler/internal/graph"
)

// Resolve computes the dependency set of every node in g: the distinct
// sources of the connections targeting it.
func Resolve(g *graph.Graph) *Graph {
	nodes := g.Nodes()
	d := &Graph{
		nodes: make(map[string]*node, len(nodes)),
		order: make([]*node, 0, len(nodes)),
	}
	for i, n := range nodes {
		dn := &node{id: n.ID, pos: i}
		d.nodes[n.ID] = dn
		d.order = append(d.order, dn)
	}

	seen := make(map[[2]string]struct{})
	for _, c := range g.Connections() {
		edge := [2]string{c.Source, c.Target}
		if _, dup := seen[edge]; dup {
			continue
		}
		seen[edge] = struct{}{}

		from, to := d.nodes[c.Source], d.nodes[c.Target]
		to.deps = append(to.deps, from)
		from.dependents = append(from.dependents, to)
	}
	return d
}

// Len returns the number of nodes.
func (d *Graph) Len() int {
	return len(d.order)
}

// Dependencies returns the IDs of the nodes the given node depends on.
func (d *Graph) Dependencies(id string) ([]string, error) {
	n, ok := d.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return ids(n.deps), nil
}

// Dependents returns the IDs of the nodes that depend on the given node.
func (d *Graph) Dependents(id string) ([]string, error) {
	n, ok := d.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return ids(n.dependents), nil
}

func ids(nodes []*node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.id
	}
	return out
}

// DetectCycles checks the graph for any cycles. It returns a
// *CyclicGraphError describing the first cycle found.
//
// The search is a depth-first traversal over dependencies started from every
// node in declaration order. Nodes are unvisited, in progress (on the current
// path) or done; reaching an in-progress node closes a cycle. An explicit
// stack replaces recursion.
func (d *Graph) DetectCycles() error {
	const (
		unvisited = iota
		inProgress
		done
	)
	type frame struct {
		n    *node
		next int
	}

	state := make(map[string]int, len(d.order))
	for _, root := range d.order {
		if state[root.id] != unvisited {
			continue
		}
		state[root.id] = inProgress
		stack := []frame{{n: root}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(top.n.deps) {
				state[top.n.id] = done
				stack = stack[:len(stack)-1]
				continue
			}
			dep := top.n.deps[top.next]
			top.next++

			switch state[dep.id] {
			case inProgress:
				// dep is on the current path at some index i; data flows from
				// each frame to the one below it, so the loop reads dep, then
				// the frames from the top down to i+1, then dep again.
				i := len(stack) - 1
				for stack[i].n != dep {
					i--
				}
				path := []string{dep.id}
				for j := len(stack) - 1; j > i; j-- {
					path = append(path, stack[j].n.id)
				}
				path = append(path, dep.id)
				return &CyclicGraphError{NodeID: dep.id, Path: path}
			case unvisited:
				state[dep.id] = inProgress
				stack = append(stack, frame{n: dep})
			}
		}
	}
	return nil
}
