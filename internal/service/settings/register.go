package settings

import (
	"github.com/go-chi/chi/v5"

	"github.com/sparkmeet/match-engine/internal/app"
)

// Registrar ties the settings service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the settings service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the settings routes to the router
func (r *Registrar) Register(router chi.Router) {
	service := NewService(r.appCtx)
	router.Put("/users/{userID}/settings", service.PutSettings)
	router.Get("/users/{userID}/settings", service.GetSettings)
}
