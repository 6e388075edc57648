// Package constant provides a node function returning a fixed value taken
// from the node's own description.
package constant

import (
	"fmt"

	"github.com/specialistvlad/graphcompiler/internal/graph"
	"github.com/specialistvlad/graphcompiler/internal/registry"
)

// ValueField is the description field holding the constant.
const ValueField = "value"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Constant returns the node's "value" field.
func Constant(node graph.Node, _ map[string]any, _ registry.Results) (any, error) {
	v, ok := node.Config[ValueField]
	if !ok {
		return nil, fmt.Errorf("node has no %q field", ValueField)
	}
	return v, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("constant", &registry.Function{
		Description: "Returns the node's value field.",
		Fn:          Constant,
	})
}
