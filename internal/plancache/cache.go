package plancache

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/specialistvlad/graphcompiler/internal/config"
	"github.com/specialistvlad/graphcompiler/internal/ctxlog"
	"github.com/specialistvlad/graphcompiler/internal/plan"
	"github.com/specialistvlad/graphcompiler/internal/registry"
)

// DefaultCapacity is the number of plans a Cache keeps in process unless
// WithCapacity says otherwise.
const DefaultCapacity = 256

// Cache compiles descriptions against one function pool, reusing earlier
// results. It is safe for concurrent use.
type Cache struct {
	pool    *registry.Registry
	mapping config.FieldMapping
	// store is optional.
	store Store
	plans *expirable.LRU[string, *plan.Plan]

	capacity int
	ttl      time.Duration
}

// Option configures a Cache.
type Option func(*Cache)

// WithCapacity bounds the number of plans kept in process; the least
// recently used plan is evicted first. n <= 0 means DefaultCapacity.
func WithCapacity(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithTTL expires in-process plans ttl after they were added. Zero keeps
// them until they are evicted for capacity.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// New creates a Cache. store may be nil.
func New(pool *registry.Registry, mapping config.FieldMapping, store Store, opts ...Option) *Cache {
	c := &Cache{pool: pool, mapping: mapping, store: store, capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(c)
	}
	c.plans = expirable.NewLRU[string, *plan.Plan](c.capacity, nil, c.ttl)
	return c
}

// Compile returns the plan for d, compiling it only when neither the
// process nor the store has seen its fingerprint. Store failures are logged
// and otherwise ignored.
func (c *Cache) Compile(ctx context.Context, d *config.Description) (*plan.Plan, error) {
	logger := ctxlog.FromContext(ctx)

	key, err := Fingerprint(d, c.mapping)
	if err != nil {
		return nil, err
	}
	if p, ok := c.plans.Get(key); ok {
		logger.Debug("Plan cache hit.", "fingerprint", key)
		return p, nil
	}

	g, err := d.Graph(c.mapping)
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		m, err := c.store.Get(ctx, key)
		switch {
		case err == nil:
			p, err := plan.Restore(ctx, g, c.pool, m)
			if err == nil {
				logger.Debug("Plan restored from store.", "fingerprint", key)
				return c.remember(key, p), nil
			}
			if !errors.Is(err, plan.ErrStaleManifest) {
				return nil, err
			}
			logger.Warn("Discarding stale manifest.", "fingerprint", key, "error", err)
		case !errors.Is(err, ErrNotFound):
			logger.Warn("Failed to read manifest from store.", "fingerprint", key, "error", err)
		}
	}

	p, err := plan.Compile(ctx, g, c.pool)
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		if err := c.store.Put(ctx, key, p.Manifest()); err != nil {
			logger.Warn("Failed to write manifest to store.", "fingerprint", key, "error", err)
		}
	}
	return c.remember(key, p), nil
}

func (c *Cache) remember(key string, p *plan.Plan) *plan.Plan {
	// A concurrent miss may have compiled the same plan; keep the first.
	if existing, ok := c.plans.Peek(key); ok {
		return existing
	}
	c.plans.Add(key, p)
	return p
}

// Len returns the number of plans held in process.
func (c *Cache) Len() int {
	return c.plans.Len()
}
