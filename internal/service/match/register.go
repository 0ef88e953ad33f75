package match

import (
	"github.com/go-chi/chi/v5"

	"github.com/sparkmeet/match-engine/internal/app"
)

// Registrar ties the match service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the match service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the match routes to the router
func (r *Registrar) Register(router chi.Router) {
	service := NewService(r.appCtx)
	router.Get("/users/{userID}/matches", service.ListMatches)
}
