package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/graphcompiler/internal/graph"
)

// ErrInvalidDescription is wrapped by every error caused by a malformed
// description record, as opposed to a malformed graph.
var ErrInvalidDescription = errors.New("invalid graph description")

// Loader is the interface for a format-specific description loader.
type Loader interface {
	Load(ctx context.Context, path string) (*Description, error)
}

// Description is a graph as authored: lists of raw records whose field
// names are interpreted through a FieldMapping.
type Description struct {
	Nodes       []map[string]any `json:"nodes" yaml:"nodes"`
	Connections []map[string]any `json:"connections" yaml:"connections"`
}

// FieldMapping names the record fields that carry each graph attribute.
// Alias and Default may be empty to disable those attributes.
type FieldMapping struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	FunctionKey string `json:"function_key"`
	Alias       string `json:"alias"`
	Default     string `json:"default"`
	Data        string `json:"data"`

	Source       string `json:"source"`
	SourceOutput string `json:"source_output"`
	Target       string `json:"target"`
	TargetInput  string `json:"target_input"`
}

// DefaultFieldMapping returns the field names used by the reference editor
// schema.
func DefaultFieldMapping() FieldMapping {
	return FieldMapping{
		ID:           "id",
		Type:         "type",
		FunctionKey:  "uid",
		Alias:        "alias",
		Default:      "default",
		Data:         "data",
		Source:       "source",
		SourceOutput: "sourceOutput",
		Target:       "target",
		TargetInput:  "targetInput",
	}
}

// Validate checks that every mandatory field name is set.
func (m FieldMapping) Validate() error {
	required := map[string]string{
		"id": m.ID, "type": m.Type, "function key": m.FunctionKey, "data": m.Data,
		"source": m.Source, "source output": m.SourceOutput,
		"target": m.Target, "target input": m.TargetInput,
	}
	for name, field := range required {
		if field == "" {
			return fmt.Errorf("field mapping: %s field name must not be empty", name)
		}
	}
	return nil
}

// Graph resolves variable nodes and builds the validated graph.
func (d *Description) Graph(m FieldMapping) (*graph.Graph, error) {
	return ResolveVariables(d, m).ToGraph(m)
}

// ToGraph converts the records as they are into a graph.Graph. Variable
// nodes are kept as they are; see ResolveVariables.
func (d *Description) ToGraph(m FieldMapping) (*graph.Graph, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	nodes := make([]graph.Node, 0, len(d.Nodes))
	for i, raw := range d.Nodes {
		n, err := toNode(raw, m)
		if err != nil {
			return nil, fmt.Errorf("%w: node %d: %v", ErrInvalidDescription, i, err)
		}
		nodes = append(nodes, n)
	}

	conns := make([]graph.Connection, 0, len(d.Connections))
	for i, raw := range d.Connections {
		c, err := toConnection(raw, m)
		if err != nil {
			return nil, fmt.Errorf("%w: connection %d: %v", ErrInvalidDescription, i, err)
		}
		conns = append(conns, c)
	}

	return graph.New(nodes, conns)
}

func toNode(raw map[string]any, m FieldMapping) (graph.Node, error) {
	n := graph.Node{Config: raw}
	var err error
	if n.ID, err = stringField(raw, m.ID); err != nil {
		return n, err
	}
	kind, err := stringField(raw, m.Type)
	if err != nil {
		return n, err
	}
	n.Kind = graph.Kind(kind)
	if n.FunctionRef, err = stringField(raw, m.FunctionKey); err != nil {
		return n, err
	}
	if m.Alias != "" {
		if n.Alias, err = stringField(raw, m.Alias); err != nil {
			return n, err
		}
	}
	if m.Default != "" {
		n.Default, n.HasDefault = raw[m.Default]
	}
	return n, nil
}

func toConnection(raw map[string]any, m FieldMapping) (graph.Connection, error) {
	var c graph.Connection
	var err error
	if c.Source, err = stringField(raw, m.Source); err != nil {
		return c, err
	}
	if c.SourceOutput, err = stringField(raw, m.SourceOutput); err != nil {
		return c, err
	}
	if c.Target, err = stringField(raw, m.Target); err != nil {
		return c, err
	}
	if c.TargetInput, err = stringField(raw, m.TargetInput); err != nil {
		return c, err
	}
	return c, nil
}

// stringField returns raw[key] as a string. A missing or null field is the
// empty string.
func stringField(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q must be a string, got %T", key, v)
	}
	return s, nil
}
