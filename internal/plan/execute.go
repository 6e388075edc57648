package plan

import (
	"context"
	"fmt"
	"runtime/debug"
	"slices"

	"github.com/specialistvlad/graphcompiler/internal/ctxlog"
	"github.com/specialistvlad/graphcompiler/internal/graph"
	"github.com/specialistvlad/graphcompiler/internal/registry"
)

// resultsView exposes a results store to node functions without letting
// them modify it.
type resultsView map[string]any

func (r resultsView) Get(id string) (any, bool) {
	v, ok := r[id]
	return v, ok
}

func (r resultsView) IDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (r resultsView) Len() int {
	return len(r)
}

// Execute runs every step in order against inputs and returns the value of
// each `out` node under its output key. The returned map is never nil.
//
// Execution stops at the first failure; no later step runs. ctx only carries
// the logger: cancellation is not observed.
func (p *Plan) Execute(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	logger := ctxlog.FromContext(ctx)
	results := make(map[string]any, len(p.steps))
	view := resultsView(results)

	for i, step := range p.steps {
		if p.progress != nil {
			p.progress(float64(i+1)/float64(len(p.steps)), step.Node.ID)
		}

		value, err := p.run(step, inputs, view)
		if err != nil {
			logger.Debug("Step failed.", "nodeID", step.Node.ID, "error", err)
			return nil, err
		}
		results[step.Node.ID] = value
	}

	outputs := make(map[string]any, len(p.outputs))
	for _, o := range p.outputs {
		outputs[o.key] = results[o.nodeID]
	}
	logger.Debug("Plan executed.", "steps", len(p.steps), "outputs", len(outputs))
	return outputs, nil
}

func (p *Plan) run(step Step, inputs map[string]any, results resultsView) (any, error) {
	n := step.Node

	switch n.Kind {
	case graph.KindIn:
		b := step.Bindings[0]
		if v, ok := inputs[b.Key]; ok {
			return v, nil
		}
		if b.HasDefault {
			return b.Default, nil
		}
		return nil, &MissingExternalInputError{Key: b.Key, NodeID: n.ID}

	case graph.KindOut:
		v, err := resolve(step.Bindings[0], results)
		if err != nil {
			return nil, &NodeExecutionError{NodeID: n.ID, Err: err}
		}
		return v, nil
	}

	args := make(map[string]any, len(step.Bindings))
	for _, b := range step.Bindings {
		v, err := resolve(b, results)
		if err == nil {
			err = registry.CheckValue(b.Type, v)
		}
		if err != nil {
			return nil, &NodeExecutionError{
				NodeID:      n.ID,
				FunctionRef: n.FunctionRef,
				Err:         fmt.Errorf("input %q: %w", b.Input, err),
			}
		}
		args[b.Input] = v
	}

	v, err := call(step.fn.Fn, n, args, results)
	if err != nil {
		return nil, &NodeExecutionError{NodeID: n.ID, FunctionRef: n.FunctionRef, Err: err}
	}
	return v, nil
}

// resolve reads the value of a node binding or falls back to its default.
func resolve(b Binding, results resultsView) (any, error) {
	if b.Source == "" {
		return b.Default, nil
	}
	v, ok := results[b.Source]
	if !ok {
		return nil, fmt.Errorf("no result for node %q", b.Source)
	}
	if b.SourceOutput == "" {
		return v, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("output %q of node %q: value of type %T has no named outputs", b.SourceOutput, b.Source, v)
	}
	out, ok := m[b.SourceOutput]
	if !ok {
		return nil, fmt.Errorf("node %q has no output %q", b.Source, b.SourceOutput)
	}
	return out, nil
}

func call(fn registry.Func, n graph.Node, args map[string]any, results registry.Results) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{info: r, stack: debug.Stack()}
		}
	}()
	return fn(n, args, results)
}
