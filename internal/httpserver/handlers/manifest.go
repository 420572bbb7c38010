package handlers

import (
	"bytes"
	"net/http"

	"github.com/MrSnakeDoc/navmanifest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navmanifest/internal/logger"
	"github.com/MrSnakeDoc/navmanifest/internal/render"
	redisstore "github.com/MrSnakeDoc/navmanifest/internal/store/redis"
)

var contentTypes = map[render.Format]string{
	render.FormatJSON: "application/json",
	render.FormatYAML: "application/yaml",
	render.FormatJS:   "text/javascript",
}

// Manifest renders the whole manifest as ?format=json|yaml|js (json by
// default). Renderings are cached in Redis per revision when available.
func Manifest(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := render.FormatJSON
		if q := r.URL.Query().Get("format"); q != "" {
			f, err := render.ParseFormat(q)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			format = f
		}

		snap, ok := d.Index.Snapshot()
		if !ok {
			writeError(w, http.StatusServiceUnavailable, "manifest not loaded")
			return
		}

		ctx := r.Context()
		if d.RenderCache != nil {
			data, err := d.RenderCache.GetCachedRender(ctx, snap.Revision, string(format))
			if err != nil {
				d.Logger.Warn("failed to read render cache", logger.Error(err))
			}
			if data != nil {
				d.Recorder.IncRenderCache(true)
				writeRendered(w, d, snap.Revision, format, data)
				return
			}
			d.Recorder.IncRenderCache(false)
		}

		var buf bytes.Buffer
		if err := render.Render(&buf, snap.Manifest, format); err != nil {
			d.Logger.Error("failed to render manifest",
				logger.String("format", string(format)),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "render failed")
			return
		}

		// Cache (best effort)
		if d.RenderCache != nil {
			if err := d.RenderCache.CacheRender(ctx, snap.Revision, string(format), buf.Bytes(), redisstore.DefaultRenderTTL); err != nil {
				d.Logger.Warn("failed to cache render", logger.Error(err))
			}
		}

		writeRendered(w, d, snap.Revision, format, buf.Bytes())
	}
}

func writeRendered(w http.ResponseWriter, d deps.Deps, revision string, format render.Format, data []byte) {
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("ETag", `"`+revision+"-"+string(format)+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		d.Logger.Debug("failed to write response", logger.Error(err))
	}
}
