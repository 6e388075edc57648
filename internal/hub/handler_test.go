package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/graphcompiler/internal/config"
	"github.com/specialistvlad/graphcompiler/internal/dag"
	"github.com/specialistvlad/graphcompiler/internal/graph"
	"github.com/specialistvlad/graphcompiler/internal/plan"
	"github.com/specialistvlad/graphcompiler/internal/plancache"
	"github.com/specialistvlad/graphcompiler/internal/registry"
	"github.com/specialistvlad/graphcompiler/modules/arith"
)

func newHandler() *Handler {
	pool := registry.New().RegisterModules(&arith.Module{})
	return NewHandler(plancache.New(pool, config.DefaultFieldMapping(), nil))
}

func sumRequest() map[string]any {
	return map[string]any{
		"id": "req-1",
		"graph": map[string]any{
			"nodes": []any{
				map[string]any{"id": "a", "type": "in"},
				map[string]any{"id": "b", "type": "in"},
				map[string]any{"id": "sum", "type": "compute", "uid": "add"},
				map[string]any{"id": "result", "type": "out"},
			},
			"connections": []any{
				map[string]any{"source": "a", "target": "sum", "targetInput": "a"},
				map[string]any{"source": "b", "target": "sum", "targetInput": "b"},
				map[string]any{"source": "sum", "target": "result", "targetInput": "value"},
			},
		},
		"inputs": map[string]any{"a": 2.0, "b": 3.0},
	}
}

func TestHandle(t *testing.T) {
	h := newHandler()

	var (
		mu    sync.Mutex
		ticks []Progress
	)
	resp := h.Handle(context.Background(), sumRequest(), func(p Progress) {
		mu.Lock()
		defer mu.Unlock()
		ticks = append(ticks, p)
	})

	require.Nil(t, resp.Error)
	assert.Equal(t, "req-1", resp.ID)
	assert.Equal(t, map[string]any{"result": 5.0}, resp.Outputs)

	require.Len(t, ticks, 4)
	assert.Equal(t, "req-1", ticks[0].ID)
	assert.Equal(t, 1.0, ticks[len(ticks)-1].Done)
	assert.Equal(t, "result", ticks[len(ticks)-1].NodeID)
}

func TestHandle_JSONString(t *testing.T) {
	payload := `{
		"id": "req-2",
		"graph": {
			"nodes": [
				{"id": "x", "type": "in"},
				{"id": "neg", "type": "compute", "uid": "negate"},
				{"id": "out", "type": "out", "alias": "negated"}
			],
			"connections": [
				{"source": "x", "target": "neg", "targetInput": "value"},
				{"source": "neg", "target": "out", "targetInput": "value"}
			]
		},
		"inputs": {"x": 4}
	}`

	resp := newHandler().Handle(context.Background(), payload, nil)
	require.Nil(t, resp.Error)
	assert.Equal(t, map[string]any{"negated": -4.0}, resp.Outputs)
}

func TestHandle_NoOutputs(t *testing.T) {
	req := map[string]any{
		"id": "req-3",
		"graph": map[string]any{
			"nodes": []any{
				map[string]any{"id": "a", "type": "in"},
				map[string]any{"id": "neg", "type": "compute", "uid": "negate"},
			},
			"connections": []any{
				map[string]any{"source": "a", "target": "neg", "targetInput": "value"},
			},
		},
		"inputs": map[string]any{},
	}

	resp := newHandler().Handle(context.Background(), req, nil)
	require.Nil(t, resp.Error)
	require.NotNil(t, resp.Outputs)
	assert.Empty(t, resp.Outputs)

	data, err := sonic.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"req-3","outputs":{}}`, string(data))
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req map[string]any)
		kind   string
		nodeID string
	}{
		{
			name: "missing external input",
			mutate: func(req map[string]any) {
				req["inputs"] = map[string]any{"a": 1.0}
			},
			kind:   KindMissingInput,
			nodeID: "b",
		},
		{
			name: "unknown function",
			mutate: func(req map[string]any) {
				nodes := req["graph"].(map[string]any)["nodes"].([]any)
				nodes[2].(map[string]any)["uid"] = "pow"
			},
			kind:   KindStructural,
			nodeID: "sum",
		},
		{
			name: "cycle",
			mutate: func(req map[string]any) {
				g := req["graph"].(map[string]any)
				nodes := g["nodes"].([]any)
				g["nodes"] = append(nodes, map[string]any{"id": "loop", "type": "compute", "uid": "negate"})
				conns := g["connections"].([]any)
				conns[1] = map[string]any{"source": "loop", "target": "sum", "targetInput": "b"}
				g["connections"] = append(conns, map[string]any{"source": "sum", "target": "loop", "targetInput": "value"})
			},
			kind: KindCyclic,
		},
		{
			name: "node failure",
			mutate: func(req map[string]any) {
				req["inputs"] = map[string]any{"a": "x", "b": 1.0}
			},
			kind:   KindNodeExecution,
			nodeID: "sum",
		},
		{
			name: "no graph",
			mutate: func(req map[string]any) {
				delete(req, "graph")
			},
			kind: KindInvalidRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := sumRequest()
			tc.mutate(req)

			resp := newHandler().Handle(context.Background(), req, nil)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "req-1", resp.ID)
			assert.Nil(t, resp.Outputs)
			assert.Equal(t, tc.kind, resp.Error.Kind, resp.Error.Message)
			if tc.nodeID != "" {
				assert.Equal(t, tc.nodeID, resp.Error.NodeID)
			}
		})
	}
}

func TestDecodeRequest(t *testing.T) {
	_, err := DecodeRequest(42)
	assert.ErrorContains(t, err, "unsupported payload type int")

	_, err = DecodeRequest("{not json")
	assert.ErrorContains(t, err, "failed to decode request")

	req, err := DecodeRequest([]byte(`{"id":"r","graph":{"nodes":[],"connections":[]}}`))
	require.NoError(t, err)
	assert.Equal(t, "r", req.ID)
	assert.Empty(t, req.Graph.Nodes)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		kind   string
		nodeID string
	}{
		{&graph.StructuralError{Err: graph.ErrDuplicateNode, NodeID: "n"}, KindStructural, "n"},
		{fmt.Errorf("%w: node 0: bad", config.ErrInvalidDescription), KindStructural, ""},
		{&dag.CyclicGraphError{NodeID: "c"}, KindCyclic, "c"},
		{&plan.UnboundInputError{NodeID: "f", Input: "b"}, KindUnboundInput, "f"},
		{&plan.MissingExternalInputError{Key: "k", NodeID: "in"}, KindMissingInput, "in"},
		{fmt.Errorf("wrapped: %w", &plan.NodeExecutionError{NodeID: "x", Err: errors.New("boom")}), KindNodeExecution, "x"},
		{errors.New("something else"), KindInvalidRequest, ""},
	}
	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			info := Classify(tc.err)
			assert.Equal(t, tc.kind, info.Kind)
			assert.Equal(t, tc.nodeID, info.NodeID)
			assert.Equal(t, tc.err.Error(), info.Message)
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	o.setDefaults()
	assert.Equal(t, "/", o.Namespace)
	assert.Equal(t, defaultConnectTimeout, o.ConnectTimeout)
	assert.Equal(t, DefaultEvaluateEvent, o.EvaluateEvent)
	assert.Equal(t, DefaultResultEvent, o.ResultEvent)
	assert.Equal(t, DefaultProgressEvent, o.ProgressEvent)
}

func TestDial_BadURL(t *testing.T) {
	_, err := Dial(context.Background(), Options{URL: "localhost"})
	assert.ErrorContains(t, err, "must include a scheme and host")
}
