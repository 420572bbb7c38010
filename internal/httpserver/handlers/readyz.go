package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/navmanifest/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready    bool   `json:"ready"`
	Revision string `json:"revision,omitempty"`
}

// Readyz returns 503 until a manifest has been loaded.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		if !d.Index.Ready() {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{
			Ready:    true,
			Revision: d.Index.Revision(),
		})
	}
}
