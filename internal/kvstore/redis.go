package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the production Store implementation.
// Keys are flat: "sess:<session_id>:<key>".
type Redis struct {
	client     *redis.Client
	sessionTTL time.Duration
}

// NewRedis connects to Redis and verifies the connection.
// sessionTTL is applied to every write without an explicit TTL, so idle
// sessions age out on their own.
func NewRedis(ctx context.Context, redisURL string, sessionTTL time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Connection pool settings
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Redis{client: client, sessionTTL: sessionTTL}, nil
}

func redisKey(sessionID, key string) string {
	return "sess:" + sessionID + ":" + key
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, redisKey(sessionID, key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kvstore get: %w", err)
	}
	return val, true, nil
}

// Set implements Store.
func (r *Redis) Set(ctx context.Context, sessionID, key, value string) error {
	if err := r.client.Set(ctx, redisKey(sessionID, key), value, r.sessionTTL).Err(); err != nil {
		return fmt.Errorf("kvstore set: %w", err)
	}
	return nil
}

// SetTTL implements Store.
func (r *Redis) SetTTL(ctx context.Context, sessionID, key, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, redisKey(sessionID, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("kvstore set with ttl: %w", err)
	}
	return nil
}

// Delete implements Store.
func (r *Redis) Delete(ctx context.Context, sessionID, key string) error {
	if err := r.client.Del(ctx, redisKey(sessionID, key)).Err(); err != nil {
		return fmt.Errorf("kvstore delete: %w", err)
	}
	return nil
}

// DeleteSession implements Store.
func (r *Redis) DeleteSession(ctx context.Context, sessionID string) error {
	pattern := "sess:" + sessionID + ":*"

	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("kvstore delete session: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("kvstore scan session: %w", err)
	}
	return nil
}

// Ping checks Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}
