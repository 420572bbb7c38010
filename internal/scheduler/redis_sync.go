package scheduler

import (
	"context"
	"errors"

	"github.com/MrSnakeDoc/navmanifest/internal/index"
	"github.com/MrSnakeDoc/navmanifest/internal/logger"
	redisstore "github.com/MrSnakeDoc/navmanifest/internal/store/redis"
)

// SourceRedis is the snapshot source of a manifest restored from Redis.
const SourceRedis = "redis"

// ManifestGetter reads the last published manifest.
type ManifestGetter interface {
	GetManifest(ctx context.Context) (*redisstore.Record, error)
}

// RedisSyncer restores the last published manifest into the index on
// startup, so the server is ready even when the sidebars file is broken.
type RedisSyncer struct {
	store  ManifestGetter
	index  *index.ManifestIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store ManifestGetter,
	idx *index.ManifestIndex,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads the manifest from Redis and restores it into the index.
// It reports whether a manifest was restored.
func (rs *RedisSyncer) Sync(ctx context.Context) (bool, error) {
	rs.logger.Info("restoring manifest from redis")

	rec, err := rs.store.GetManifest(ctx)
	if err != nil {
		if errors.Is(err, redisstore.ErrNotFound) {
			rs.logger.Info("no manifest found in redis")
			return false, nil
		}
		return false, err
	}

	rs.index.Restore(index.Snapshot{
		Manifest: rec.Manifest,
		Revision: rec.Revision,
		Source:   SourceRedis,
		LoadedAt: rec.LoadedAt,
	})

	stats := rec.Manifest.Stats()
	rs.logger.Info("restored manifest from redis",
		logger.String("revision", rec.Revision),
		logger.String("published_from", rec.Source),
		logger.Int("sidebars", stats.Sidebars),
		logger.Int("doc_refs", stats.DocRefs))

	return true, nil
}
