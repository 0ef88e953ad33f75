package explore

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sparkmeet/match-engine/internal/app"
	svcErr "github.com/sparkmeet/match-engine/internal/errors"
	"github.com/sparkmeet/match-engine/internal/repository"
	"github.com/sparkmeet/match-engine/internal/server"
	"github.com/sparkmeet/match-engine/internal/utils/pagination"
)

// likersPageSize is how many likers one page carries.
const likersPageSize = 20

// Service exposes the discovery-side read queries: who liked a user,
// whom a user liked, and the cached liker count.
type Service struct {
	appCtx       *app.AppContext
	interactions *repository.InteractionRepository
}

// NewService creates the explore service with dependencies from
// AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:       appCtx,
		interactions: repository.NewInteractionRepository(appCtx.DB),
	}
}

// Liker is one entry in a likers listing.
type Liker struct {
	UserID        uint64 `json:"user_id"`
	UnixTimestamp int64  `json:"unix_timestamp"`
}

// ListLikersResponse is a page of likers plus the cursor for the next
// page.
type ListLikersResponse struct {
	Likers        []Liker `json:"likers"`
	NextPageToken *string `json:"next_page_token,omitempty"`
}

// ListLikers handles GET /v1/users/{userID}/likers.
//
// Behavior:
//   - Returns users who liked the given user, newest first.
//   - Excludes likers the user has disliked back.
//   - Cursor-based pagination via the page_token query param.
func (s *Service) ListLikers(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	var token *string
	if v := r.URL.Query().Get("page_token"); v != "" {
		if _, err := pagination.Decode(v); err != nil {
			server.WriteError(w, svcErr.Validation("invalid page_token"))
			return
		}
		token = &v
	}

	s.appCtx.Logger.Debug("ListLikers called", "user", userID, "token", token)

	rows, nextToken, err := s.interactions.ListLikers(r.Context(), userID, token, likersPageSize)
	if err != nil {
		s.appCtx.Logger.Error("ListLikers failed", "user", userID, "err", err)
		server.WriteError(w, svcErr.Persistence(err))
		return
	}

	resp := ListLikersResponse{Likers: []Liker{}, NextPageToken: nextToken}
	for _, row := range rows {
		resp.Likers = append(resp.Likers, Liker{
			UserID:        row.FromUserID,
			UnixTimestamp: row.UpdatedAt.UnixMilli(),
		})
	}
	server.WriteJSON(w, http.StatusOK, resp)
}

// ListNewLikers handles GET /v1/users/{userID}/likers/new.
//
// Behavior:
//   - Returns users who liked the given user but have not been liked
//     back yet (mutual likes drop out of this list).
//   - Same dislike-back exclusion and pagination as ListLikers.
func (s *Service) ListNewLikers(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	var token *string
	if v := r.URL.Query().Get("page_token"); v != "" {
		if _, err := pagination.Decode(v); err != nil {
			server.WriteError(w, svcErr.Validation("invalid page_token"))
			return
		}
		token = &v
	}

	s.appCtx.Logger.Debug("ListNewLikers called", "user", userID)

	rows, nextToken, err := s.interactions.ListNewLikers(r.Context(), userID, token, likersPageSize)
	if err != nil {
		s.appCtx.Logger.Error("ListNewLikers failed", "user", userID, "err", err)
		server.WriteError(w, svcErr.Persistence(err))
		return
	}

	resp := ListLikersResponse{Likers: []Liker{}, NextPageToken: nextToken}
	for _, row := range rows {
		resp.Likers = append(resp.Likers, Liker{
			UserID:        row.FromUserID,
			UnixTimestamp: row.UpdatedAt.UnixMilli(),
		})
	}
	server.WriteJSON(w, http.StatusOK, resp)
}

// ListLikedResponse is the set of user ids the user has liked.
type ListLikedResponse struct {
	UserIDs []uint64 `json:"user_ids"`
}

// ListLiked handles GET /v1/users/{userID}/liked. Discovery uses this
// set to exclude already-acted-on candidates.
func (s *Service) ListLiked(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	ids, err := s.interactions.LikedUserIDs(r.Context(), userID)
	if err != nil {
		s.appCtx.Logger.Error("ListLiked failed", "user", userID, "err", err)
		server.WriteError(w, svcErr.Persistence(err))
		return
	}
	if ids == nil {
		ids = []uint64{}
	}
	server.WriteJSON(w, http.StatusOK, ListLikedResponse{UserIDs: ids})
}

// CountLikersResponse carries the liker count.
type CountLikersResponse struct {
	Count uint64 `json:"count"`
}

// CountLikers handles GET /v1/users/{userID}/likers/count.
//
// Cache-first strategy:
//  1. Attempts to read the counter from Redis.
//  2. On cache miss, falls back to the DB count.
//  3. On DB fetch, refills Redis with a 1h TTL.
func (s *Service) CountLikers(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	ctx := r.Context()

	if cached, ok, _ := s.appCtx.RedisCache.GetLikeCount(ctx, userID); ok && cached >= 0 {
		server.WriteJSON(w, http.StatusOK, CountLikersResponse{Count: uint64(cached)})
		return
	}

	count, err := s.interactions.CountLikers(ctx, userID)
	if err != nil {
		s.appCtx.Logger.Error("CountLikers failed", "user", userID, "err", err)
		server.WriteError(w, svcErr.Persistence(err))
		return
	}

	_ = s.appCtx.RedisCache.SetLikeCount(ctx, userID, count)

	server.WriteJSON(w, http.StatusOK, CountLikersResponse{Count: uint64(count)})
}

// pathUserID parses the {userID} path param.
func pathUserID(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.Validation("userID must be a valid positive integer")
	}
	return id, nil
}
