package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/navmanifest/internal/index"
	"github.com/MrSnakeDoc/navmanifest/internal/logger"
	"github.com/MrSnakeDoc/navmanifest/internal/metrics"
	redisstore "github.com/MrSnakeDoc/navmanifest/internal/store/redis"
)

// Reload triggers, used in logs and metrics.
const (
	TriggerStartup  = "startup"
	TriggerInterval = "interval"
	TriggerManual   = "manual"
	TriggerWatch    = "watch"
)

// Publisher receives every successfully loaded manifest.
type Publisher interface {
	SaveManifest(ctx context.Context, rec redisstore.Record) error
}

// ManifestReloader keeps the index in sync with the sidebars file.
//
// The first load happens in Start. Later reloads run on the
// interval ticker, on the manual trigger and on the file trigger; a failed
// reload is logged and the previous manifest keeps being served.
type ManifestReloader struct {
	source        Source
	publisher     Publisher // nil = not published
	index         *index.ManifestIndex
	logger        logger.Logger
	recorder      metrics.Recorder
	interval      time.Duration // <= 0 disables periodic reloads
	manualTrigger <-chan struct{}
	fileTrigger   <-chan struct{}

	mu       sync.Mutex // serializes reloads
	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewManifestReloader creates a new manifest reloader
func NewManifestReloader(
	source Source,
	publisher Publisher,
	idx *index.ManifestIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *ManifestReloader {
	return &ManifestReloader{
		source:        source,
		publisher:     publisher,
		index:         idx,
		logger:        log,
		recorder:      metrics.NoopRecorder{},
		interval:      interval,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
	}
}

// WithRecorder sets the metrics recorder
func (mr *ManifestReloader) WithRecorder(rec metrics.Recorder) *ManifestReloader {
	mr.recorder = rec
	return mr
}

// WithFileTrigger reloads whenever ch fires, e.g. from a FileWatcher
func (mr *ManifestReloader) WithFileTrigger(ch <-chan struct{}) *ManifestReloader {
	mr.fileTrigger = ch
	return mr
}

// Start loads the manifest once, then begins the reload loop. A failed first
// load is fatal unless the index already holds a manifest restored from Redis.
func (mr *ManifestReloader) Start(ctx context.Context) error {
	if err := mr.Reload(ctx, TriggerStartup); err != nil {
		if !mr.index.Ready() {
			return fmt.Errorf("initial load failed: %w", err)
		}
		mr.logger.Warn("initial load failed, serving restored manifest",
			logger.String("revision", mr.index.Revision()),
			logger.Error(err))
	}

	var tick <-chan time.Time
	var ticker *time.Ticker
	if mr.interval > 0 {
		ticker = time.NewTicker(mr.interval)
		tick = ticker.C
	}

	mr.done = make(chan struct{})
	go func() {
		defer close(mr.done)
		if ticker != nil {
			defer ticker.Stop()
		}
		for {
			select {
			case <-tick:
				mr.reloadAndLog(ctx, TriggerInterval)
			case <-mr.manualTrigger:
				mr.logger.Info("manual reload triggered")
				mr.reloadAndLog(ctx, TriggerManual)
			case <-mr.fileTrigger:
				mr.logger.Info("manifest file changed, reloading")
				mr.reloadAndLog(ctx, TriggerWatch)
			case <-mr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reload loop and waits for it to exit
func (mr *ManifestReloader) Stop() {
	mr.stopOnce.Do(func() { close(mr.stopCh) })
	if mr.done != nil {
		<-mr.done
	}
}

func (mr *ManifestReloader) reloadAndLog(ctx context.Context, trigger string) {
	if err := mr.Reload(ctx, trigger); err != nil {
		mr.logger.Error("failed to reload manifest, keeping previous revision",
			logger.String("trigger", trigger),
			logger.String("revision", mr.index.Revision()),
			logger.Error(err))
	}
}

// Reload loads the source and swaps the index on success. On failure the
// index keeps its manifest and records the error.
func (mr *ManifestReloader) Reload(ctx context.Context, trigger string) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	start := time.Now()
	loaded, err := mr.source.Load(ctx)
	if err != nil {
		mr.index.RecordFailure(err)
		mr.recorder.ObserveReload(trigger, time.Since(start), metrics.ResultFailed)
		return err
	}

	rev := mr.index.Update(loaded.Manifest, loaded.Site, mr.source.Name())
	stats := loaded.Manifest.Stats()
	mr.recorder.ObserveReload(trigger, time.Since(start), metrics.ResultSuccess)
	mr.recorder.SetManifestSize(stats.Sidebars, stats.Groups, stats.DocRefs)

	mr.logger.Info("manifest loaded",
		logger.String("trigger", trigger),
		logger.String("revision", rev),
		logger.Int("sidebars", stats.Sidebars),
		logger.Int("groups", stats.Groups),
		logger.Int("doc_refs", stats.DocRefs),
		logger.Duration("took", time.Since(start)))

	// Publish (best effort)
	if mr.publisher != nil {
		snap, _ := mr.index.Snapshot()
		rec := redisstore.Record{
			Revision: snap.Revision,
			Source:   snap.Source,
			LoadedAt: snap.LoadedAt,
			Manifest: snap.Manifest,
		}
		if err := mr.publisher.SaveManifest(ctx, rec); err != nil {
			mr.logger.Warn("failed to publish manifest to redis",
				logger.Error(err))
			// Don't fail - the index is the primary source
		} else {
			mr.logger.Debug("manifest published to redis", logger.String("revision", rev))
		}
	}

	return nil
}
