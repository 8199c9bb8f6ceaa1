package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	rentroam "github.com/rentroam/rentroam-go"
)

// Redis is a Storage backed by a Redis instance, for deployments where
// session state is shared across processes.
type Redis struct {
	client *redis.Client
	prefix string
}

var _ rentroam.Storage = (*Redis)(nil)

// RedisOption configures the Redis store.
type RedisOption func(*Redis)

// WithPrefix namespaces all keys under prefix. Default: "rentroam:".
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = prefix }
}

// NewRedis wraps an existing Redis client.
func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{client: client, prefix: "rentroam:"}
	for _, o := range opts {
		o(r)
	}
	return r
}

// OpenRedis connects to url and verifies connectivity.
func OpenRedis(ctx context.Context, url string, opts ...RedisOption) (*Redis, error) {
	if url == "" {
		return nil, fmt.Errorf("rentroam/storage: redis url is required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("rentroam/storage: parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("rentroam/storage: ping redis: %w", err)
	}
	return NewRedis(client, opts...), nil
}

// Get returns the value for key, with ok=false when absent.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("rentroam/storage: get %s: %w", key, err)
	}
	return v, true, nil
}

// Set stores value under key.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("rentroam/storage: set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("rentroam/storage: delete %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
