package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SnapshotCache caches an agent's last-perceived WorldState so dashboards
// and the control API can read it without round-tripping to the agent
// goroutine itself. It is a side channel; the live Agent Loop never reads
// through it.
type SnapshotCache interface {
	Get(ctx context.Context, agentID string) (map[string]any, bool, error)
	Set(ctx context.Context, agentID string, snapshot map[string]any, ttl time.Duration) error
	Delete(ctx context.Context, agentID string) error
}

// RedisSnapshotCache implements SnapshotCache against go-redis.
type RedisSnapshotCache struct {
	client *redis.Client
	prefix string
}

// NewRedisSnapshotCache constructs a RedisSnapshotCache. prefix namespaces
// keys so multiple controllers can share a Redis instance.
func NewRedisSnapshotCache(client *redis.Client, prefix string) *RedisSnapshotCache {
	if prefix == "" {
		prefix = "goap:snapshot:"
	}
	return &RedisSnapshotCache{client: client, prefix: prefix}
}

func (c *RedisSnapshotCache) key(agentID string) string {
	return fmt.Sprintf("%s%s", c.prefix, agentID)
}

func (c *RedisSnapshotCache) Get(ctx context.Context, agentID string) (map[string]any, bool, error) {
	val, err := c.client.Get(ctx, c.key(agentID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var snapshot map[string]any
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		return nil, false, err
	}
	return snapshot, true, nil
}

func (c *RedisSnapshotCache) Set(ctx context.Context, agentID string, snapshot map[string]any, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(agentID), data, ttl).Err()
}

func (c *RedisSnapshotCache) Delete(ctx context.Context, agentID string) error {
	return c.client.Del(ctx, c.key(agentID)).Err()
}

// GetOrLoad returns the cached snapshot for agentID, loading and populating
// the cache on a miss via load. Mirrors the cache-aside idiom used
// elsewhere in this codebase: the load happens synchronously so the caller
// can surface load errors, but the cache write happens in the background
// so a slow Redis does not add latency to the caller's critical path.
func (c *RedisSnapshotCache) GetOrLoad(ctx context.Context, agentID string, ttl time.Duration, load func() (map[string]any, error)) (map[string]any, error) {
	if snapshot, ok, err := c.Get(ctx, agentID); err == nil && ok {
		return snapshot, nil
	}

	snapshot, err := load()
	if err != nil {
		return nil, err
	}

	go func(agentID string, snapshot map[string]any) {
		_ = c.Set(context.Background(), agentID, snapshot, ttl)
	}(agentID, snapshot)

	return snapshot, nil
}
