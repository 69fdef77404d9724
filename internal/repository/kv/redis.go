package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultNamespace prefixes every key written to Redis.
const DefaultNamespace = "fastodo"

// redisClient is the subset of *redis.Client the store uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisStore keeps values in Redis under namespace:key, without expiry.
type RedisStore struct {
	client    redisClient
	namespace string
}

// NewRedisStore connects to the server described by url (redis://host:port/db).
// timeout bounds dialing, reads and writes.
func NewRedisStore(url, namespace string, timeout time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if timeout > 0 {
		opt.DialTimeout = timeout
		opt.ReadTimeout = timeout
		opt.WriteTimeout = timeout
	}
	return newRedisStore(redis.NewClient(opt), namespace), nil
}

func newRedisStore(client redisClient, namespace string) *RedisStore {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &RedisStore{client: client, namespace: namespace}
}

func (r *RedisStore) namespaceKey(key string) string {
	return r.namespace + ":" + key
}

// Get returns the value stored under key.
func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.namespaceKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores value under key.
func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.namespaceKey(key), value, 0).Err()
}

// Close closes the client connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
