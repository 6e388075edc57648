package app

import (
	"context"

	"github.com/specialistvlad/graphcompiler/internal/hub"
)

// Attach connects to an editor hub and evaluates its requests until ctx is
// cancelled. The health check server runs for the duration when a port is
// configured.
func (a *App) Attach(ctx context.Context, opts hub.Options) error {
	ctx = a.withLogger(ctx)
	a.healthCheckServer()
	defer a.closeHealthCheckServer()

	client, err := hub.Dial(ctx, opts)
	if err != nil {
		return err
	}
	defer client.Close()

	a.logger.Info("🔌 Attached to hub.", "url", opts.URL, "sid", client.ID())
	return client.Serve(ctx, hub.NewHandler(a.cache))
}
