package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/graphcompiler/internal/plan"
)

// Run compiles the graph at path and executes it once against inputs.
func (a *App) Run(ctx context.Context, path string, inputs map[string]any) (map[string]any, error) {
	a.logger.Debug("App.Run method started.", "path", path)

	p, err := a.Compile(ctx, path)
	if err != nil {
		return nil, err
	}

	p = p.With(plan.WithProgress(func(done float64, nodeID string) {
		a.logger.Debug("Running step.", "nodeID", nodeID, "done", fmt.Sprintf("%.0f%%", done*100))
	}))

	a.logger.Info("🚀 Executing plan...")
	outputs, err := p.Execute(a.withLogger(ctx), inputs)
	if err != nil {
		return nil, fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Execution finished.", "outputs", len(outputs))
	return outputs, nil
}
