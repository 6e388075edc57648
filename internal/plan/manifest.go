package plan

import (
	"context"
	"fmt"

	"github.com/specialistvlad/graphcompiler/internal/ctxlog"
	"github.com/specialistvlad/graphcompiler/internal/dag"
	"github.com/specialistvlad/graphcompiler/internal/graph"
	"github.com/specialistvlad/graphcompiler/internal/registry"
)

// ManifestVersion is bumped whenever the meaning of a Manifest changes.
const ManifestVersion = 1

// Manifest is the portable part of a Plan: its schedule. Bindings are not
// stored; Restore derives them again from the graph.
type Manifest struct {
	Version int      `json:"version"`
	Order   []string `json:"order"`
}

// Manifest returns the schedule of p.
func (p *Plan) Manifest() Manifest {
	return Manifest{Version: ManifestVersion, Order: p.Order()}
}

// Restore rebuilds a Plan for g from a previously computed schedule,
// skipping cycle detection, pruning and scheduling. It fails with
// ErrStaleManifest when m does not describe a valid schedule of the live
// part of g: unknown, repeated or dead nodes, a source scheduled after its
// consumer, or a live node left out.
func Restore(ctx context.Context, g *graph.Graph, pool *registry.Registry, m Manifest, opts ...Option) (*Plan, error) {
	if m.Version != ManifestVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrStaleManifest, m.Version, ManifestVersion)
	}

	live := dag.Resolve(g).Live(dag.OutputIDs(g))

	scheduled := make(map[string]struct{}, len(m.Order))
	steps := make([]Step, 0, len(m.Order))
	for _, id := range m.Order {
		n, ok := g.Node(id)
		if !ok {
			return nil, fmt.Errorf("%w: unknown node %q", ErrStaleManifest, id)
		}
		if _, dup := scheduled[id]; dup {
			return nil, fmt.Errorf("%w: node %q scheduled twice", ErrStaleManifest, id)
		}
		if !live[id] {
			return nil, fmt.Errorf("%w: node %q does not contribute to an output", ErrStaleManifest, id)
		}

		incoming := g.Incoming(id)
		for _, c := range incoming {
			if _, ok := scheduled[c.Source]; !ok {
				return nil, fmt.Errorf("%w: node %q scheduled before its source %q", ErrStaleManifest, id, c.Source)
			}
		}
		step, err := bind(n, incoming, pool)
		if err != nil {
			return nil, err
		}
		scheduled[id] = struct{}{}
		steps = append(steps, step)
	}

	for _, n := range g.NodesOfKind(graph.KindOut) {
		if _, ok := scheduled[n.ID]; !ok {
			return nil, fmt.Errorf("%w: output node %q not scheduled", ErrStaleManifest, n.ID)
		}
	}
	if len(steps) != len(live) {
		return nil, fmt.Errorf("%w: %d of %d live nodes scheduled", ErrStaleManifest, len(steps), len(live))
	}

	ctxlog.FromContext(ctx).Debug("Plan restored from manifest.", "steps", len(steps))
	return newPlan(steps, opts...), nil
}
