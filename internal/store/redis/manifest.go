package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/navmanifest/internal/domain"
)

// DefaultManifestTTL bounds how long a snapshot outlives the process that
// published it.
const DefaultManifestTTL = 7 * 24 * time.Hour

// ErrNotFound is returned when no manifest has been published.
var ErrNotFound = errors.New("manifest not found in redis")

// Record is the published form of a manifest.
type Record struct {
	Revision string                  `json:"revision"`
	Source   string                  `json:"source"`
	LoadedAt time.Time               `json:"loaded_at"`
	Manifest *domain.SidebarManifest `json:"manifest"`
}

// Store publishes the current manifest to Redis so other build workers can
// read it without parsing the sidebars file themselves.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		ttl:    DefaultManifestTTL,
	}
}

// SaveManifest replaces the published manifest in one transaction.
func (s *Store) SaveManifest(ctx context.Context, rec Record) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	names := rec.Manifest.Names()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, KeyManifest, data, s.ttl)
		pipe.Set(ctx, KeyRevision, rec.Revision, s.ttl)
		pipe.Del(ctx, KeySidebars)
		if len(names) > 0 {
			args := make([]any, len(names))
			for i, n := range names {
				args[i] = n
			}
			pipe.RPush(ctx, KeySidebars, args...)
			pipe.Expire(ctx, KeySidebars, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save manifest: %w", err)
	}
	return nil
}

// GetManifest reads the published manifest.
func (s *Store) GetManifest(ctx context.Context) (*Record, error) {
	data, err := s.client.Get(ctx, KeyManifest).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get manifest: %w", err)
	}
	return decodeRecord(data)
}

// Revision returns the published revision id.
func (s *Store) Revision(ctx context.Context) (string, error) {
	rev, err := s.client.Get(ctx, KeyRevision).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get revision: %w", err)
	}
	return rev, nil
}

// SidebarNames returns the published sidebar names in declaration order.
func (s *Store) SidebarNames(ctx context.Context) ([]string, error) {
	names, err := s.client.LRange(ctx, KeySidebars, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get sidebar names: %w", err)
	}
	return names, nil
}

// DeleteManifest removes the published manifest and its render cache.
func (s *Store) DeleteManifest(ctx context.Context) error {
	if err := s.client.Del(ctx, KeyManifest, KeyRevision, KeySidebars).Err(); err != nil {
		return fmt.Errorf("failed to delete manifest: %w", err)
	}
	return s.FlushRenders(ctx)
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func encodeRecord(rec Record) ([]byte, error) {
	if rec.Manifest == nil {
		return nil, errors.New("record has no manifest")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return data, nil
}

func decodeRecord(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	if rec.Manifest == nil {
		return nil, errors.New("stored record has no manifest")
	}
	return &rec, nil
}
