package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/graphcompiler/internal/ctxlog"
	"github.com/specialistvlad/graphcompiler/internal/plancache"
	"github.com/specialistvlad/graphcompiler/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx      context.Context
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	store    plancache.Store
	cache    *plancache.Cache

	httpServer *http.Server
	closers    []io.Closer
}

// NewApp builds an App. Results go to outW and logs to logW. When no
// modules are given the core modules are registered.
func NewApp(ctx context.Context, outW, logW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules(outW)
	}
	reg.RegisterModules(modules...)
	logger.Debug("All Go modules registered.", "modules", len(modules), "functions", reg.Len())

	if err := reg.Validate(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Registry validation passed.")

	a := &App{
		ctx:      ctx,
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
	}

	if cfg.RedisURL != "" {
		rs, err := plancache.NewRedisStore(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to open plan store: %w", err)
		}
		a.store = rs
		a.closers = append(a.closers, rs)
		logger.Debug("Redis plan store connected.")
	}
	a.cache = plancache.New(reg, cfg.Mapping, a.store,
		plancache.WithCapacity(cfg.CacheSize),
		plancache.WithTTL(cfg.CacheTTL),
	)

	return a, nil
}

// Registry returns the application's function pool.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Context returns the application context, which carries its logger.
func (a *App) Context() context.Context {
	return a.ctx
}

// Close releases the health check server and the plan store.
func (a *App) Close() error {
	var errs []error
	if err := a.closeHealthCheckServer(); err != nil {
		errs = append(errs, err)
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
