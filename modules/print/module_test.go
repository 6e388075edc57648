package print

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/graphcompiler/internal/graph"
	"github.com/specialistvlad/graphcompiler/internal/registry"
)

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	m := &Module{Out: &buf}
	r := registry.New()
	m.Register(r)
	fn, ok := r.Lookup("print")
	require.True(t, ok)

	node := graph.Node{ID: "show"}
	v, err := fn.Fn(node, map[string]any{"value": 5.0}, nil)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	_, err = fn.Fn(node, map[string]any{"value": map[string]any{"b": 2.0, "a": "x"}}, nil)
	require.NoError(t, err)

	_, err = fn.Fn(node, map[string]any{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "      show = 5\n      show:\n        a = x\n        b = 2\n      show = (null)\n", buf.String())
}
