package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRenderTTL is the TTL of a cached rendering. Entries are keyed by
// revision, so a reload never serves a stale one.
const DefaultRenderTTL = 24 * time.Hour

// CacheRender stores a rendered manifest for one revision and format
func (s *Store) CacheRender(ctx context.Context, revision, format string, data []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, RenderKey(revision, format), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache render: %w", err)
	}
	return nil
}

// GetCachedRender retrieves a cached rendering; nil on a miss
func (s *Store) GetCachedRender(ctx context.Context, revision, format string) ([]byte, error) {
	data, err := s.client.Get(ctx, RenderKey(revision, format)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get cached render: %w", err)
	}
	return data, nil
}

// FlushRenders removes all cached renderings
func (s *Store) FlushRenders(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixRender+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete render key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush renders: %w", err)
	}
	return nil
}

// PruneRenders removes cached renderings of every revision except keep and
// returns how many were deleted
func (s *Store) PruneRenders(ctx context.Context, keep string) (int, error) {
	deleted := 0
	iter := s.client.Scan(ctx, 0, KeyPrefixRender+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		rev, _, ok := ParseRenderKey(key)
		if ok && rev == keep {
			continue
		}
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return deleted, fmt.Errorf("failed to delete render key: %w", err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to prune renders: %w", err)
	}
	return deleted, nil
}
