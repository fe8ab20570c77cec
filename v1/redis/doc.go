// Package redis provides the optional Redis-backed placement cache.
//
// Namespace lookups happen on every query, and placements never change once
// written, so caching them is safe without invalidation:
//
//	client, _ := redis.NewClient(cfg, log)
//	reg := registry.New(pool, log, registry.WithCache(redis.NewPlacementCache(client)))
package redis
