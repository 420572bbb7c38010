package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/navmanifest/internal/config"
	"github.com/MrSnakeDoc/navmanifest/internal/httpserver"
	"github.com/MrSnakeDoc/navmanifest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navmanifest/internal/index"
	"github.com/MrSnakeDoc/navmanifest/internal/logger"
	"github.com/MrSnakeDoc/navmanifest/internal/metrics"
	"github.com/MrSnakeDoc/navmanifest/internal/redis"
	"github.com/MrSnakeDoc/navmanifest/internal/scheduler"
	"github.com/MrSnakeDoc/navmanifest/internal/sources/docusaurus"
	redisstore "github.com/MrSnakeDoc/navmanifest/internal/store/redis"
	"github.com/MrSnakeDoc/navmanifest/internal/utils"
	"github.com/MrSnakeDoc/navmanifest/internal/version"
)

// App is serve mode: the manifest index, its reloader and the HTTP API.
type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client // nil when Redis is disabled
	index       *index.ManifestIndex
	reloader    *scheduler.ManifestReloader
	watcher     *scheduler.FileWatcher          // nil when watching is disabled
	gc          *scheduler.RenderCacheCollector // nil when Redis is disabled
}

// New wires serve mode. Redis is connected (with retries) only when an
// address is configured; a restored manifest is used until the first load.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: loggerClient,
		index:  index.NewManifestIndex(),
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		RateBurst:    cfg.RateBurst,
		RatePerMin:   cfg.RatePerMin,
		ManifestFile: cfg.ManifestFile,
		Index:        a.index,
	}
	if cfg.MetricsEnabled {
		prom := metrics.NewPrometheusRecorder(nil)
		recorder = prom
		d.MetricsHandler = prom.Handler()
	}
	d.Recorder = recorder

	// Redis (optional)
	var publisher scheduler.Publisher
	if cfg.RedisEnabled() {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(ctx, redis.OptionsFromConfig(cfg), loggerClient)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.redisClient = client
		store := redisstore.NewStore(client)
		publisher = store
		d.RenderCache = store

		syncer := scheduler.NewRedisSyncer(store, a.index, loggerClient)
		if _, err := syncer.Sync(ctx); err != nil {
			loggerClient.Warn("failed to restore manifest from redis, will load from file",
				logger.Error(err))
		}
		a.gc = scheduler.NewRenderCacheCollector(store, a.index, loggerClient, scheduler.DefaultRenderGCInterval)
	} else {
		loggerClient.Info("redis not configured, running without publish and render cache")
	}

	reloadTrigger := make(chan struct{}, 1)
	d.ReloadTrigger = reloadTrigger

	source := scheduler.NewProjectSource(docusaurus.Project{
		SidebarsFile: cfg.ManifestFile,
		SiteFile:     cfg.SiteFile,
		DocsDir:      cfg.DocsDir,
	}, loggerClient)
	a.reloader = scheduler.NewManifestReloader(
		source,
		publisher,
		a.index,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	).WithRecorder(recorder)

	if cfg.Watch {
		w, err := scheduler.NewFileWatcher(loggerClient, cfg.WatchDebounce, cfg.ManifestFile, cfg.SiteFile)
		if err != nil {
			a.closeRedis()
			return nil, err
		}
		a.watcher = w
		a.reloader.WithFileTrigger(w.C())
	}

	a.server = httpserver.New(cfg, loggerClient, d)
	return a, nil
}

// Run starts every component and blocks until ctx is cancelled or the HTTP
// server fails, then shuts down in reverse order.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting navmanifest v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("navmanifest %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)
	defer a.closeRedis()

	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start manifest reloader: %w", err)
	}
	defer a.reloader.Stop()
	a.logger.Info("manifest reloader started",
		logger.String("file", a.cfg.ManifestFile),
		logger.Duration("interval", a.cfg.ReloadInterval))

	if a.watcher != nil {
		if err := a.watcher.Start(ctx); err != nil {
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
		defer utils.MustClose(a.watcher, a.logger, "file watcher")
	}

	if a.gc != nil {
		if err := a.gc.Start(ctx); err != nil {
			return fmt.Errorf("failed to start render cache collector: %w", err)
		}
		defer a.gc.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ navmanifest stopped cleanly")
	return nil
}

func (a *App) closeRedis() {
	if a.redisClient == nil {
		return
	}
	utils.MustClose(a.redisClient, a.logger, "redis")
	a.redisClient = nil
}
