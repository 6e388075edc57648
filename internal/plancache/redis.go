package plancache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/specialistvlad/graphcompiler/internal/plan"
)

const manifestPrefix = "graphc:manifest:"

// RedisStore keeps manifests in Redis as JSON strings.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to the Redis server at redisURL and checks the
// connection. A zero ttl keeps manifests forever.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func (r *RedisStore) key(fingerprint string) string {
	return manifestPrefix + fingerprint
}

func (r *RedisStore) Get(ctx context.Context, key string) (plan.Manifest, error) {
	data, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return plan.Manifest{}, ErrNotFound
		}
		return plan.Manifest{}, fmt.Errorf("failed to get manifest: %w", err)
	}

	var m plan.Manifest
	if err := sonic.UnmarshalString(data, &m); err != nil {
		return plan.Manifest{}, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	return m, nil
}

func (r *RedisStore) Put(ctx context.Context, key string, m plan.Manifest) error {
	data, err := sonic.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := r.client.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set manifest: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
