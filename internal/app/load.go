package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/graphcompiler/internal/config"
	"github.com/specialistvlad/graphcompiler/internal/ctxlog"
	"github.com/specialistvlad/graphcompiler/internal/dag"
	"github.com/specialistvlad/graphcompiler/internal/export"
	"github.com/specialistvlad/graphcompiler/internal/loader"
	"github.com/specialistvlad/graphcompiler/internal/plan"
)

// Export formats.
const (
	FormatMermaid = "mermaid"
	FormatJSON    = "json"
)

func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Load reads the graph description at path, which may be a file or a
// directory of description files.
func (a *App) Load(ctx context.Context, path string) (*config.Description, error) {
	ctx = a.withLogger(ctx)
	a.logger.Debug("Loading graph description...", "path", path)

	d, err := loader.Load(ctx, path, a.config.Mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph description: %w", err)
	}
	a.logger.Debug("Graph description loaded.", "nodes", len(d.Nodes), "connections", len(d.Connections))
	return d, nil
}

// Compile loads and compiles the graph at path.
func (a *App) Compile(ctx context.Context, path string) (*plan.Plan, error) {
	d, err := a.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	p, err := a.cache.Compile(a.withLogger(ctx), d)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Graph compiled.", "steps", p.Len(), "inputs", p.InputKeys(), "outputs", p.OutputKeys())
	return p, nil
}

// Export compiles the graph at path and renders its pruned form.
func (a *App) Export(ctx context.Context, path, format string) ([]byte, error) {
	d, err := a.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	p, err := a.cache.Compile(a.withLogger(ctx), d)
	if err != nil {
		return nil, err
	}
	g, err := d.Graph(a.config.Mapping)
	if err != nil {
		return nil, err
	}
	pruned := dag.Prune(g)

	switch format {
	case FormatMermaid:
		return []byte(export.Mermaid(pruned)), nil
	case FormatJSON:
		return export.JSON(pruned, p.Order())
	default:
		return nil, fmt.Errorf("unsupported export format %q (use 'mermaid' or 'json')", format)
	}
}
