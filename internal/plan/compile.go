package plan

import (
	"context"

	"github.com/specialistvlad/graphcompiler/internal/ctxlog"
	"github.com/specialistvlad/graphcompiler/internal/dag"
	"github.com/specialistvlad/graphcompiler/internal/graph"
	"github.com/specialistvlad/graphcompiler/internal/registry"
)

// passThroughInput names the single slot of `in` and `out` nodes.
const passThroughInput = "value"

// Compile turns g into a Plan bound to the functions in pool.
//
// Cycles are reported for the whole graph, dead parts included. Everything
// else (unknown functions, unexpected or unbound inputs, unresolved
// variables) is only checked on the nodes that survive pruning.
func Compile(ctx context.Context, g *graph.Graph, pool *registry.Registry, opts ...Option) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Compiling graph.", "nodes", g.Len(), "connections", len(g.Connections()))

	full := dag.Resolve(g)
	if err := full.DetectCycles(); err != nil {
		return nil, err
	}

	live := full.Live(dag.OutputIDs(g))
	pruned := g.Subgraph(func(id string) bool { return live[id] })
	logger.Debug("Pruned dead nodes.", "live", pruned.Len(), "removed", g.Len()-pruned.Len())

	order, err := dag.Resolve(pruned).Schedule()
	if err != nil {
		return nil, err
	}

	steps := make([]Step, 0, len(order))
	for _, id := range order {
		n, _ := pruned.Node(id)
		step, err := bind(n, pruned.Incoming(id), pool)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	logger.Debug("Graph compiled.", "steps", len(steps), "order", order)
	return newPlan(steps, opts...), nil
}

// bind resolves the input slots of n from its incoming connections and, for
// compute nodes, the declaration of its function.
func bind(n graph.Node, incoming []graph.Connection, pool *registry.Registry) (Step, error) {
	step := Step{Node: n}

	switch n.Kind {
	case graph.KindIn:
		step.Bindings = []Binding{{
			Input:      passThroughInput,
			Key:        n.ExternalKey(),
			Default:    n.Default,
			HasDefault: n.HasDefault,
		}}
		return step, nil

	case graph.KindOut:
		if len(incoming) == 0 {
			return Step{}, &UnboundInputError{NodeID: n.ID, Input: passThroughInput}
		}
		c := incoming[0]
		step.Bindings = []Binding{{Input: c.TargetInput, Source: c.Source, SourceOutput: c.SourceOutput}}
		return step, nil

	case graph.KindVariable:
		return Step{}, graph.NewStructuralError(graph.ErrUnresolvedVariable, n.ID, "")
	}

	fn, ok := pool.Lookup(n.FunctionRef)
	if !ok {
		return Step{}, graph.NewStructuralError(graph.ErrUnknownFunction, n.ID, "function %q", n.FunctionRef)
	}
	step.fn = fn

	connected := make(map[string]struct{}, len(incoming))
	for _, c := range incoming {
		b := Binding{Input: c.TargetInput, Source: c.Source, SourceOutput: c.SourceOutput}
		if len(fn.Inputs) > 0 {
			decl, ok := fn.Input(c.TargetInput)
			if !ok {
				return Step{}, graph.NewStructuralError(graph.ErrUnexpectedInput, n.ID, "function %q has no input %q", n.FunctionRef, c.TargetInput)
			}
			b.Type = decl.Type
		}
		connected[c.TargetInput] = struct{}{}
		step.Bindings = append(step.Bindings, b)
	}

	for _, decl := range fn.Inputs {
		if _, ok := connected[decl.Name]; ok {
			continue
		}
		switch {
		case decl.HasDefault:
			step.Bindings = append(step.Bindings, Binding{
				Input:      decl.Name,
				Default:    decl.Default,
				HasDefault: true,
				Type:       decl.Type,
			})
		case decl.Optional:
		default:
			return Step{}, &UnboundInputError{NodeID: n.ID, Input: decl.Name}
		}
	}
	return step, nil
}
