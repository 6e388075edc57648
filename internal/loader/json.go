package loader

import (
	"context"
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/specialistvlad/graphcompiler/internal/config"
)

// JSON loads descriptions of the form {"nodes": [...], "connections": [...]}.
type JSON struct{}

func (l *JSON) Load(_ context.Context, path string) (*config.Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode JSON file %s: %w", path, err)
	}
	return d, nil
}

// DecodeJSON parses a JSON description. Numbers decode as float64.
func DecodeJSON(data []byte) (*config.Description, error) {
	var d config.Description
	if err := sonic.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
