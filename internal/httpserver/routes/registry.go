package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/navmanifest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navmanifest/internal/logger"
)

// Registrar mounts one group of routes.
type Registrar func(r chi.Router, d deps.Deps)

type entry struct {
	name string
	reg  Registrar
}

var registry []entry

// Register adds a named route group. Call it from init.
func Register(name string, reg Registrar) {
	registry = append(registry, entry{name: name, reg: reg})
}

// RegisterAll mounts every group on r in registration order. Called once per
// router from httpserver.NewRouter.
func RegisterAll(r chi.Router, d deps.Deps) {
	names := make([]string, 0, len(registry))
	for _, e := range registry {
		e.reg(r, d)
		names = append(names, e.name)
	}
	d.Logger.Debug("routes registered", logger.Strings("groups", names))
}
