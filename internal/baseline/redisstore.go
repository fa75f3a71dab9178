package baseline

import (
	"context"
	"errors"

	"github.com/tranvu/roitrack/pkg/redis"
)

// RedisStore persists the state document under a single Redis key.
// Useful for containerized deployments without a durable volume.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a redis-backed byte store.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Read returns the stored document, or ErrNotExist for a missing key.
func (r *RedisStore) Read(ctx context.Context) ([]byte, error) {
	data, err := r.client.GetBytes(ctx, r.key)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, ErrNotExist
	}
	return data, err
}

// Write replaces the stored document. A Redis SET is atomic, so readers
// never observe a torn document.
func (r *RedisStore) Write(ctx context.Context, data []byte) error {
	return r.client.SetBytes(ctx, r.key, data)
}
