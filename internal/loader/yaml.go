package loader

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/graphcompiler/internal/config"
)

// YAML loads descriptions with the same shape as JSON ones.
type YAML struct{}

func (l *YAML) Load(_ context.Context, path string) (*config.Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d config.Description
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}
	for _, records := range [][]map[string]any{d.Nodes, d.Connections} {
		for _, r := range records {
			for k, v := range r {
				r[k] = normalizeYAML(v)
			}
		}
	}
	return &d, nil
}

// normalizeYAML turns the integers YAML produces into float64 so values
// match what the JSON and HCL loaders yield.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeYAML(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeYAML(e)
		}
		return t
	default:
		return v
	}
}
