package match

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sparkmeet/match-engine/internal/app"
	svcErr "github.com/sparkmeet/match-engine/internal/errors"
	"github.com/sparkmeet/match-engine/internal/repository"
	"github.com/sparkmeet/match-engine/internal/server"
)

// Service exposes the read surface over materialized matches.
type Service struct {
	appCtx  *app.AppContext
	matches *repository.MatchRepository
	users   *repository.UserRepository
}

// NewService creates the match service with dependencies from
// AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:  appCtx,
		matches: repository.NewMatchRepository(appCtx.DB),
		users:   repository.NewUserRepository(appCtx.DB),
	}
}

// MatchEntry is one match with the counterpart's public profile
// attached.
type MatchEntry struct {
	MatchID     uint64             `json:"match_id"`
	Counterpart repository.Profile `json:"counterpart"`
	CreatedAt   int64              `json:"created_at_unix"`
}

// ListMatchesResponse is the full match list for a user, newest
// first.
type ListMatchesResponse struct {
	Matches []MatchEntry `json:"matches"`
}

// ListMatches handles GET /v1/users/{userID}/matches.
func (s *Service) ListMatches(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "userID")
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || userID == 0 {
		server.WriteError(w, svcErr.Validation("userID must be a valid positive integer"))
		return
	}

	ctx := r.Context()

	rows, err := s.matches.ListForUser(ctx, userID)
	if err != nil {
		s.appCtx.Logger.Error("ListMatches failed", "user", userID, "err", err)
		server.WriteError(w, svcErr.Persistence(err))
		return
	}

	resp := ListMatchesResponse{Matches: []MatchEntry{}}
	for _, row := range rows {
		counterpartID := row.User1ID
		if counterpartID == userID {
			counterpartID = row.User2ID
		}
		profile, err := s.users.GetProfile(ctx, counterpartID)
		if err != nil {
			// a missing counterpart row should not sink the whole list
			s.appCtx.Logger.Warn("failed to load counterpart profile",
				"match_id", row.ID, "user", counterpartID, "err", err)
			continue
		}
		resp.Matches = append(resp.Matches, MatchEntry{
			MatchID:     row.ID,
			Counterpart: profile,
			CreatedAt:   row.CreatedAt.UnixMilli(),
		})
	}
	server.WriteJSON(w, http.StatusOK, resp)
}
