package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/graphcompiler/internal/graph"
)

func nodeIDs(g *graph.Graph) []string {
	var ids []string
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestPrune(t *testing.T) {
	nodes := []graph.Node{
		{ID: "a", Kind: graph.KindIn},
		{ID: "b", Kind: graph.KindIn},
		{ID: "unused", Kind: graph.KindIn},
		{ID: "add", Kind: "compute", FunctionRef: "add"},
		{ID: "dead", Kind: "compute", FunctionRef: "mul"},
		{ID: "result", Kind: graph.KindOut},
	}
	conns := []graph.Connection{
		{Source: "a", Target: "add", TargetInput: "a"},
		{Source: "b", Target: "add", TargetInput: "b"},
		{Source: "add", Target: "dead", TargetInput: "a"},
		{Source: "unused", Target: "dead", TargetInput: "b"},
		{Source: "add", Target: "result", TargetInput: "value"},
	}
	g := mustGraph(t, nodes, conns...)

	pruned := Prune(g)
	assert.Equal(t, []string{"a", "b", "add", "result"}, nodeIDs(pruned))
	assert.Len(t, pruned.Connections(), 3)
	assert.Len(t, pruned.Outgoing("add"), 1)

	t.Run("idempotent", func(t *testing.T) {
		again := Prune(pruned)
		assert.Equal(t, nodeIDs(pruned), nodeIDs(again))
		assert.Equal(t, pruned.Connections(), again.Connections())
	})

	t.Run("original untouched", func(t *testing.T) {
		assert.Equal(t, 6, g.Len())
		assert.Len(t, g.Connections(), 5)
	})
}

func TestPrune_NoOutputs(t *testing.T) {
	g := mustGraph(t, compute("a", "b"), edge("a", "b"))
	pruned := Prune(g)
	assert.Equal(t, 0, pruned.Len())
	assert.Empty(t, pruned.Connections())
}

func TestLive(t *testing.T) {
	g := mustGraph(t, compute("a", "b", "c", "d"), edge("a", "b"), edge("b", "c"), edge("d", "c"))
	d := Resolve(g)

	live := d.Live([]string{"b", "missing"})
	assert.Equal(t, map[string]bool{"a": true, "b": true}, live)

	require.Len(t, d.Live([]string{"c"}), 4)
	assert.Empty(t, d.Live(nil))
}

func TestOutputIDs(t *testing.T) {
	nodes := []graph.Node{
		{ID: "second", Kind: graph.KindOut},
		{ID: "x", Kind: graph.KindIn},
		{ID: "first", Kind: graph.KindOut},
	}
	g := mustGraph(t, nodes)
	assert.Equal(t, []string{"second", "first"}, OutputIDs(g))
}
