package deps

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/navmanifest/internal/index"
	"github.com/MrSnakeDoc/navmanifest/internal/logger"
	"github.com/MrSnakeDoc/navmanifest/internal/metrics"
)

// RenderCache stores rendered manifests per revision. It is backed by Redis.
type RenderCache interface {
	CacheRender(ctx context.Context, revision, format string, data []byte, ttl time.Duration) error
	GetCachedRender(ctx context.Context, revision, format string) ([]byte, error)
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	AllowedHosts   []string             // Host headers allowed to access the server
	AllowedCIDRS   []string             // IPs allowed to access the operational endpoints
	TrustProxy     bool                 // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RateBurst      int                  // per-IP burst on /api
	RatePerMin     int                  // per-IP sustained rate on /api
	ManifestFile   string               // Path to the sidebars file
	Index          *index.ManifestIndex // Current manifest
	RenderCache    RenderCache          // nil when Redis is disabled
	Recorder       metrics.Recorder     // never nil, use metrics.NoopRecorder
	MetricsHandler http.Handler         // nil disables /metrics
	ReloadTrigger  chan struct{}        // Channel to trigger a manual manifest reload
}
