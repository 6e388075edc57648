package plancache

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/specialistvlad/graphcompiler/internal/plan"
)

// ErrNotFound is returned by a Store that holds no manifest for a key.
var ErrNotFound = errors.New("manifest not found")

// Store persists plan manifests by fingerprint.
type Store interface {
	Get(ctx context.Context, key string) (plan.Manifest, error)
	Put(ctx context.Context, key string, m plan.Manifest) error
}

// MemoryStore is a thread-safe, in-memory Store.
type MemoryStore struct {
	manifests sync.Map // Key: fingerprint, Value: plan.Manifest
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(_ context.Context, key string) (plan.Manifest, error) {
	v, ok := s.manifests.Load(key)
	if !ok {
		return plan.Manifest{}, ErrNotFound
	}
	m := v.(plan.Manifest)
	m.Order = slices.Clone(m.Order)
	return m, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, m plan.Manifest) error {
	m.Order = slices.Clone(m.Order)
	s.manifests.Store(key, m)
	return nil
}
