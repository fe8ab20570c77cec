package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Aleph-Alpha/vectorshard/v1/registry"
	"github.com/redis/go-redis/v9"
)

// PlacementCache implements registry.Cache on Redis, storing each placement
// as JSON under KeyPrefix+namespace.
type PlacementCache struct {
	client *RedisClient
}

var _ registry.Cache = (*PlacementCache)(nil)

func NewPlacementCache(client *RedisClient) *PlacementCache {
	return &PlacementCache{client: client}
}

func (c *PlacementCache) key(namespace string) string {
	return c.client.cfg.KeyPrefix + namespace
}

// Get returns the cached placement; a miss is (zero, false, nil).
func (c *PlacementCache) Get(ctx context.Context, namespace string) (registry.Placement, bool, error) {
	data, err := c.client.client.Get(ctx, c.key(namespace)).Bytes()
	if errors.Is(err, redis.Nil) {
		return registry.Placement{}, false, nil
	}
	if err != nil {
		return registry.Placement{}, false, err
	}

	var p registry.Placement
	if err := json.Unmarshal(data, &p); err != nil {
		return registry.Placement{}, false, fmt.Errorf("failed to unmarshal cached placement: %w", err)
	}
	return p, true, nil
}

// Set stores p with the configured TTL.
func (c *PlacementCache) Set(ctx context.Context, p registry.Placement) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal placement: %w", err)
	}
	return c.client.client.Set(ctx, c.key(p.Namespace), data, c.client.cfg.TTL).Err()
}
