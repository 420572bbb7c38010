package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/navmanifest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navmanifest/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/navmanifest/internal/httpserver/mw"
)

func init() { Register("api", registerAPI) }

func registerAPI(r chi.Router, d deps.Deps) {
	r.Route("/api", func(api chi.Router) {
		api.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
		api.Use(mw.RateLimit(mw.RateLimitConfig{
			Burst:      d.RateBurst,
			PerMinute:  d.RatePerMin,
			MaxEntries: 10000,
			TrustProxy: d.TrustProxy,
		}))

		api.Get("/manifest", handlers.Manifest(d))
		api.Get("/sidebars", handlers.Sidebars(d))
		api.Get("/sidebars/{name}", handlers.Sidebar(d))
		api.Get("/docs/*", handlers.Doc(d))
	})
}
