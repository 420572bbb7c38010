package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/navmanifest/internal/index"
	"github.com/MrSnakeDoc/navmanifest/internal/logger"
)

// DefaultRenderGCInterval is how often cached renderings of old revisions are pruned
const DefaultRenderGCInterval = time.Hour

// RenderPruner deletes cached renderings of every revision but one.
type RenderPruner interface {
	PruneRenders(ctx context.Context, keep string) (int, error)
}

// RenderCacheCollector removes cached renderings left behind by reloads
type RenderCacheCollector struct {
	store    RenderPruner
	index    *index.ManifestIndex
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewRenderCacheCollector creates a new render cache collector
func NewRenderCacheCollector(
	store RenderPruner,
	idx *index.ManifestIndex,
	log logger.Logger,
	interval time.Duration,
) *RenderCacheCollector {
	if interval <= 0 {
		interval = DefaultRenderGCInterval
	}

	return &RenderCacheCollector{
		store:    store,
		index:    idx,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic collection process
func (gc *RenderCacheCollector) Start(ctx context.Context) error {
	// Run immediately on start
	if _, err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial render cache collection failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(gc.interval)
	gc.done = make(chan struct{})
	go func() {
		defer close(gc.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := gc.Collect(ctx); err != nil {
					gc.logger.Error("render cache collection failed",
						logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the collector and waits for it to exit
func (gc *RenderCacheCollector) Stop() {
	gc.stopOnce.Do(func() { close(gc.stopCh) })
	if gc.done != nil {
		<-gc.done
	}
}

// Collect prunes renderings that do not belong to the current revision.
// Nothing is pruned before the index holds a manifest.
func (gc *RenderCacheCollector) Collect(ctx context.Context) (int, error) {
	rev := gc.index.Revision()
	if rev == "" {
		gc.logger.Debug("no revision loaded, skipping render cache collection")
		return 0, nil
	}

	deleted, err := gc.store.PruneRenders(ctx, rev)
	if err != nil {
		return deleted, err
	}

	if deleted > 0 {
		gc.logger.Info("render cache collection completed",
			logger.String("kept_revision", rev),
			logger.Int("deleted", deleted))
	} else {
		gc.logger.Debug("no stale renderings to collect")
	}
	return deleted, nil
}
