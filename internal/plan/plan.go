package plan

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/graphcompiler/internal/graph"
	"github.com/specialistvlad/graphcompiler/internal/registry"
)

// Binding describes where the value of one input slot comes from. Exactly
// one of Key (an external input), Source (an upstream node) or a default
// applies.
type Binding struct {
	Input string
	// Key is the external input key; set only for `in` nodes.
	Key string
	// Source is the upstream node whose value is bound. When SourceOutput is
	// set only that entry of the upstream map is bound.
	Source       string
	SourceOutput string
	Default      any
	HasDefault   bool
	// Type is the declared type of the slot, if any.
	Type cty.Type
}

// Step is one scheduled node together with its resolved bindings.
type Step struct {
	Node     graph.Node
	Bindings []Binding

	fn *registry.Function
}

// ProgressFunc is called before a step runs with the fraction of the plan
// that step completes, so the last call reports 1.
type ProgressFunc func(done float64, nodeID string)

// Option configures a Plan.
type Option func(*Plan)

// WithProgress registers a callback invoked before every step.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Plan) {
		p.progress = fn
	}
}

type outputSlot struct {
	key    string
	nodeID string
}

// Plan is a compiled, immutable execution schedule.
type Plan struct {
	steps     []Step
	outputs   []outputSlot
	inputKeys []string
	progress  ProgressFunc
}

func newPlan(steps []Step, opts ...Option) *Plan {
	p := &Plan{steps: steps}
	seen := make(map[string]struct{})
	for _, s := range steps {
		switch s.Node.Kind {
		case graph.KindIn:
			key := s.Node.ExternalKey()
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				p.inputKeys = append(p.inputKeys, key)
			}
		case graph.KindOut:
			p.outputs = append(p.outputs, outputSlot{key: s.Node.OutputKey(), nodeID: s.Node.ID})
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Len returns the number of scheduled steps.
func (p *Plan) Len() int {
	return len(p.steps)
}

// Order returns the scheduled node IDs.
func (p *Plan) Order() []string {
	ids := make([]string, len(p.steps))
	for i, s := range p.steps {
		ids[i] = s.Node.ID
	}
	return ids
}

// Steps returns a copy of the scheduled steps.
func (p *Plan) Steps() []Step {
	out := make([]Step, len(p.steps))
	for i, s := range p.steps {
		s.Bindings = append([]Binding(nil), s.Bindings...)
		out[i] = s
	}
	return out
}

// InputKeys returns the external input keys the plan reads, in schedule
// order.
func (p *Plan) InputKeys() []string {
	return append([]string(nil), p.inputKeys...)
}

// OutputKeys returns the keys of the map returned by Execute, in schedule
// order.
func (p *Plan) OutputKeys() []string {
	keys := make([]string, len(p.outputs))
	for i, o := range p.outputs {
		keys[i] = o.key
	}
	return keys
}

// With returns a copy of p with the given options applied. The copy shares
// the compiled steps with p.
func (p *Plan) With(opts ...Option) *Plan {
	cp := *p
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}
