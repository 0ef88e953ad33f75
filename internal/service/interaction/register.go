package interaction

import (
	"github.com/go-chi/chi/v5"

	"github.com/sparkmeet/match-engine/internal/app"
)

// Registrar ties the interaction service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the interaction service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the interaction routes to the router
func (r *Registrar) Register(router chi.Router) {
	service := NewService(r.appCtx)
	router.Put("/interactions", service.PutInteraction)
}
