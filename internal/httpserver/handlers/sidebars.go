package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/navmanifest/internal/domain"
	"github.com/MrSnakeDoc/navmanifest/internal/httpserver/deps"
)

type sidebarSummary struct {
	Name    string `json:"name"`
	Groups  int    `json:"groups"`
	DocRefs int    `json:"doc_refs"`
}

type sidebarsResponse struct {
	Revision string           `json:"revision"`
	Sidebars []sidebarSummary `json:"sidebars"`
}

type sidebarResponse struct {
	Revision string `json:"revision"`
	domain.Sidebar
}

type docResponse struct {
	Revision  string            `json:"revision"`
	DocRef    domain.DocRef     `json:"doc_ref"`
	Locations []domain.Location `json:"locations"`
}

// Sidebars lists the sidebars in declaration order.
func Sidebars(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := d.Index.Snapshot()
		if !ok {
			writeError(w, http.StatusServiceUnavailable, "manifest not loaded")
			return
		}

		sidebars := snap.Manifest.Sidebars()
		out := sidebarsResponse{
			Revision: snap.Revision,
			Sidebars: make([]sidebarSummary, 0, len(sidebars)),
		}
		for _, sb := range sidebars {
			sum := sidebarSummary{Name: sb.Name, Groups: len(sb.Groups)}
			for _, g := range sb.Groups {
				sum.DocRefs += len(g.Items)
			}
			out.Sidebars = append(out.Sidebars, sum)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// Sidebar returns one sidebar with its groups and doc-refs in order.
func Sidebar(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := d.Index.Snapshot()
		if !ok {
			writeError(w, http.StatusServiceUnavailable, "manifest not loaded")
			return
		}

		name := chi.URLParam(r, "name")
		sb, found := snap.Manifest.Sidebar(name)
		if !found {
			writeError(w, http.StatusNotFound, "unknown sidebar: "+name)
			return
		}
		writeJSON(w, http.StatusOK, sidebarResponse{Revision: snap.Revision, Sidebar: sb})
	}
}

// Doc returns every place a doc-ref is linked from. Doc-refs may contain
// slashes, so the route uses a wildcard.
func Doc(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !d.Index.Ready() {
			writeError(w, http.StatusServiceUnavailable, "manifest not loaded")
			return
		}

		ref := domain.DocRef(chi.URLParam(r, "*"))
		if ref == "" {
			writeError(w, http.StatusBadRequest, "missing doc ref")
			return
		}
		locs := d.Index.Locate(ref)
		if len(locs) == 0 {
			writeError(w, http.StatusNotFound, "doc ref not in any sidebar: "+string(ref))
			return
		}
		writeJSON(w, http.StatusOK, docResponse{
			Revision:  d.Index.Revision(),
			DocRef:    ref,
			Locations: locs,
		})
	}
}
