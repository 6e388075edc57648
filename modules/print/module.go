package print

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/specialistvlad/graphcompiler/internal/graph"
	"github.com/specialistvlad/graphcompiler/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Out receives the printed values; os.Stdout when nil.
	Out io.Writer
}

// Print writes its input under the node ID and passes it through
// unchanged. Maps are printed one key per line in sorted order.
func (m *Module) Print(node graph.Node, inputs map[string]any, _ registry.Results) (any, error) {
	slog.Debug("Printing input", "nodeID", node.ID)

	out := m.Out
	if out == nil {
		out = os.Stdout
	}

	value := inputs["value"]
	switch v := value.(type) {
	case nil:
		fmt.Fprintf(out, "      %s = (null)\n", node.ID)
	case map[string]any:
		// Sort keys for consistent output
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintf(out, "      %s:\n", node.ID)
		for _, k := range keys {
			fmt.Fprintf(out, "        %s = %v\n", k, v[k])
		}
	default:
		fmt.Fprintf(out, "      %s = %v\n", node.ID, v)
	}

	return value, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("print", &registry.Function{
		Description: "Prints its value and passes it through.",
		Inputs:      []registry.Input{{Name: "value", Optional: true}},
		Fn:          m.Print,
	})
}
