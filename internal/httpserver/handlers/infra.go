package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/navmanifest/internal/httpserver/deps"
)

const timeLayout = "2006-01-02 15:04:05"

type componentStatus struct {
	OK                  bool   `json:"ok"`
	Source              string `json:"source,omitempty"`
	Revision            string `json:"revision,omitempty"`
	Sidebars            *int   `json:"sidebars,omitempty"`
	Groups              *int   `json:"groups,omitempty"`
	DocRefs             *int   `json:"doc_refs,omitempty"`
	LastReload          string `json:"last_reload,omitempty"`
	LastError           string `json:"last_error,omitempty"`
	LastErrorAt         string `json:"last_error_at,omitempty"`
	ConsecutiveFailures int    `json:"consecutive_failures,omitempty"`
	TotalFailures       int    `json:"total_failures,omitempty"`
	Mode                string `json:"mode,omitempty"`
	Impact              string `json:"impact,omitempty"`
	Error               string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of the manifest and of Redis.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"manifest": manifestStatus(d),
			"redis":    checkRedis(r.Context(), d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     determineStatus(components),
			Components: components,
		})
	}
}

func manifestStatus(d deps.Deps) componentStatus {
	failure, total := d.Index.LastFailure()
	status := componentStatus{
		OK:                  d.Index.Ready() && failure.Consecutive == 0,
		ConsecutiveFailures: failure.Consecutive,
		TotalFailures:       total,
		LastReload:          "never",
	}
	if failure.Err != nil {
		status.LastError = failure.Err.Error()
		status.LastErrorAt = failure.At.Format(timeLayout)
	}

	snap, ok := d.Index.Snapshot()
	if !ok {
		status.Source = d.ManifestFile
		return status
	}
	stats := snap.Manifest.Stats()
	status.Source = snap.Source
	status.Revision = snap.Revision
	status.Sidebars = &stats.Sidebars
	status.Groups = &stats.Groups
	status.DocRefs = &stats.DocRefs
	status.LastReload = snap.LoadedAt.Format(timeLayout)
	return status
}

func determineStatus(components map[string]componentStatus) string {
	// No manifest = nothing to serve
	if manifest := components["manifest"]; manifest.Revision == "" {
		return "critical"
	}

	for _, c := range components {
		if !c.OK {
			return "degraded"
		}
	}
	return "ok"
}

func checkRedis(parent context.Context, d deps.Deps) componentStatus {
	if d.RenderCache == nil {
		return componentStatus{
			OK:     true,
			Mode:   "disabled",
			Impact: "render-cache-disabled",
		}
	}

	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	if err := d.RenderCache.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "render-cache-and-publish-unavailable",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "render-cache-enabled",
	}
}
