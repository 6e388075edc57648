package config

import "github.com/specialistvlad/graphcompiler/internal/graph"

const (
	variableLabel   = "label"
	variableIsInput = "is_input"
)

// ResolveVariables returns a copy of d in which every group of variable
// nodes is replaced by direct connections.
//
// Variable nodes are grouped by the "label" entry of their data field. In
// each group the node with a true "is_input" entry receives values and the
// others hand them out: every source feeding the input node is connected
// straight to every target fed by an output node, and the connections
// through the group are dropped. Groups without an input node or without
// output nodes are left alone. The variable nodes themselves stay in the
// description, unconnected.
func ResolveVariables(d *Description, m FieldMapping) *Description {
	type group struct {
		input   string
		outputs []string
	}
	groups := make(map[string]*group)
	var labels []string
	for _, raw := range d.Nodes {
		if kind, _ := raw[m.Type].(string); kind != string(graph.KindVariable) {
			continue
		}
		data, _ := raw[m.Data].(map[string]any)
		label, _ := data[variableLabel].(string)
		id, _ := raw[m.ID].(string)
		if label == "" || id == "" {
			continue
		}
		g, ok := groups[label]
		if !ok {
			g = &group{}
			groups[label] = g
			labels = append(labels, label)
		}
		if isInput, _ := data[variableIsInput].(bool); isInput {
			if g.input == "" {
				g.input = id
			}
		} else {
			g.outputs = append(g.outputs, id)
		}
	}

	byTarget := make(map[string][]int)
	bySource := make(map[string][]int)
	for i, c := range d.Connections {
		if s, ok := c[m.Target].(string); ok {
			byTarget[s] = append(byTarget[s], i)
		}
		if s, ok := c[m.Source].(string); ok {
			bySource[s] = append(bySource[s], i)
		}
	}

	removed := make(map[int]bool)
	var added []map[string]any
	for _, label := range labels {
		g := groups[label]
		if g.input == "" || len(g.outputs) == 0 {
			continue
		}
		incoming := byTarget[g.input]
		for _, out := range g.outputs {
			outgoing := bySource[out]
			for _, ic := range incoming {
				for _, oc := range outgoing {
					in, o := d.Connections[ic], d.Connections[oc]
					c := map[string]any{
						m.Source:      in[m.Source],
						m.Target:      o[m.Target],
						m.TargetInput: o[m.TargetInput],
					}
					if so, ok := in[m.SourceOutput]; ok {
						c[m.SourceOutput] = so
					}
					added = append(added, c)
				}
			}
			for _, oc := range outgoing {
				removed[oc] = true
			}
		}
		for _, ic := range incoming {
			removed[ic] = true
		}
	}

	out := &Description{
		Nodes:       d.Nodes,
		Connections: make([]map[string]any, 0, len(d.Connections)+len(added)),
	}
	for i, c := range d.Connections {
		if !removed[i] {
			out.Connections = append(out.Connections, c)
		}
	}
	out.Connections = append(out.Connections, added...)
	return out
}
