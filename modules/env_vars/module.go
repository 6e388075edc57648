package env_vars

import (
	"fmt"
	"os"
	"strings"

	"github.com/specialistvlad/graphcompiler/internal/graph"
	"github.com/specialistvlad/graphcompiler/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// EnvVars returns the process environment as a map, so single variables
// can be selected with a connection's source output. An optional "prefix"
// input restricts the result to variables starting with it.
func EnvVars(_ graph.Node, inputs map[string]any, _ registry.Results) (any, error) {
	prefix := ""
	if p, ok := inputs["prefix"]; ok {
		s, ok := p.(string)
		if !ok {
			return nil, fmt.Errorf("prefix must be a string, got %T", p)
		}
		prefix = s
	}

	envMap := make(map[string]any)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 && strings.HasPrefix(pair[0], prefix) {
			envMap[pair[0]] = pair[1]
		}
	}

	return envMap, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("env_vars", &registry.Function{
		Description: "Process environment variables.",
		Inputs:      []registry.Input{{Name: "prefix", Optional: true}},
		Fn:          EnvVars,
	})
}
