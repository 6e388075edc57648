// Package loader reads graph descriptions from JSON, YAML and HCL files.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/graphcompiler/internal/config"
	"github.com/specialistvlad/graphcompiler/internal/ctxlog"
	"github.com/specialistvlad/graphcompiler/internal/fsutil"
)

// Extensions lists the file extensions Load understands.
var Extensions = []string{".json", ".yaml", ".yml", ".hcl"}

// ForPath returns the loader matching the extension of path.
func ForPath(path string, m config.FieldMapping) (config.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return &JSON{}, nil
	case ".yaml", ".yml":
		return &YAML{}, nil
	case ".hcl":
		return &HCL{IDField: m.ID}, nil
	default:
		return nil, fmt.Errorf("unsupported description format %q", filepath.Ext(path))
	}
}

// Load reads the description at path. When path is a directory every
// supported file below it is loaded, in lexical order, and their nodes and
// connections are concatenated.
func Load(ctx context.Context, path string, m config.FieldMapping) (*config.Description, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	files := []string{path}
	if info.IsDir() {
		if files, err = fsutil.FindFilesByExtension(path, Extensions...); err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no graph description files found in %s", path)
		}
		logger.Debug("Discovered description files.", "path", path, "count", len(files))
	}

	merged := &config.Description{}
	for _, file := range files {
		l, err := ForPath(file, m)
		if err != nil {
			return nil, err
		}
		d, err := l.Load(ctx, file)
		if err != nil {
			return nil, err
		}
		merged.Nodes = append(merged.Nodes, d.Nodes...)
		merged.Connections = append(merged.Connections, d.Connections...)
		logger.Debug("Loaded description file.", "file", file, "nodes", len(d.Nodes), "connections", len(d.Connections))
	}
	return merged, nil
}
