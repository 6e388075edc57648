package dag

import "container/heap"

// readyQueue is a min-heap of ready nodes ordered by declaration position.
type readyQueue []*node

func (q readyQueue) Len() int           { return len(q) }
func (q readyQueue) Less(i, j int) bool { return q[i].pos < q[j].pos }
func (q readyQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *readyQueue) Push(x any) {
	*q = append(*q, x.(*node))
}

func (q *readyQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}

// Schedule returns a topological order of every node: each node appears
// after all of its dependencies. Among nodes that are ready at the same time
// the one declared first is taken first, so the order is reproducible.
//
// This is Kahn's elimination. If some nodes never become ready the graph has
// a cycle and a *CyclicGraphError naming the first such node is returned.
func (d *Graph) Schedule() ([]string, error) {
	remaining := make(map[string]int, len(d.order))
	ready := make(readyQueue, 0, len(d.order))
	for _, n := range d.order {
		remaining[n.id] = len(n.deps)
		if len(n.deps) == 0 {
			ready = append(ready, n)
		}
	}
	heap.Init(&ready)

	order := make([]string, 0, len(d.order))
	for ready.Len() > 0 {
		n := heap.Pop(&ready).(*node)
		order = append(order, n.id)
		for _, dependent := range n.dependents {
			remaining[dependent.id]--
			if remaining[dependent.id] == 0 {
				heap.Push(&ready, dependent)
			}
		}
	}

	if len(order) != len(d.order) {
		for _, n := range d.order {
			if remaining[n.id] > 0 {
				return nil, &CyclicGraphError{NodeID: n.id}
			}
		}
	}
	return order, nil
}
