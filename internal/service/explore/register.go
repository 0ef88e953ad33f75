package explore

import (
	"github.com/go-chi/chi/v5"

	"github.com/sparkmeet/match-engine/internal/app"
)

// Registrar ties the explore service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the explore service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the explore routes to the router
func (r *Registrar) Register(router chi.Router) {
	service := NewService(r.appCtx)
	router.Get("/users/{userID}/likers", service.ListLikers)
	router.Get("/users/{userID}/likers/new", service.ListNewLikers)
	router.Get("/users/{userID}/likers/count", service.CountLikers)
	router.Get("/users/{userID}/liked", service.ListLiked)
}
