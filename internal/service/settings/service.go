package settings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/sparkmeet/match-engine/internal/app"
	"github.com/sparkmeet/match-engine/internal/db"
	svcErr "github.com/sparkmeet/match-engine/internal/errors"
	"github.com/sparkmeet/match-engine/internal/notify"
	"github.com/sparkmeet/match-engine/internal/repository"
	"github.com/sparkmeet/match-engine/internal/server"
)

// Service persists per-user preferences with the same upsert
// discipline the interaction ledger uses.
type Service struct {
	appCtx *app.AppContext
	repo   *repository.SettingsRepository
}

// NewService creates the settings service with dependencies from
// AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		repo:   repository.NewSettingsRepository(appCtx.DB),
	}
}

// Save upserts the patched fields and returns the merged row. The
// settings_saved notification is best-effort.
func (s *Service) Save(ctx context.Context, userID uint64, patch repository.SettingsPatch) (db.UserSetting, error) {
	if userID == 0 {
		return db.UserSetting{}, svcErr.Validation("user_id must be positive")
	}
	if patch.Language != nil && len(*patch.Language) > 8 {
		return db.UserSetting{}, svcErr.Validation("language must be a short code")
	}

	row, err := s.repo.Upsert(ctx, userID, patch)
	if err != nil {
		return db.UserSetting{}, svcErr.Persistence(err)
	}

	if err := s.appCtx.Dispatcher.Dispatch(ctx, notify.NewEvent(userID, notify.KindSettingsSaved, nil)); err != nil {
		s.appCtx.Logger.Error("settings_saved dispatch failed", "user", userID, "err", err)
	}

	return row, nil
}

// Load returns the stored row, or defaults when the user has saved
// nothing yet. defaulted tells the two apart.
func (s *Service) Load(ctx context.Context, userID uint64) (db.UserSetting, bool, error) {
	row, err := s.repo.Get(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.DefaultSettings(userID), true, nil
	}
	if err != nil {
		return db.UserSetting{}, false, svcErr.Persistence(err)
	}
	return row, false, nil
}

// SettingsBody is the wire shape of a settings row.
type SettingsBody struct {
	UserID         uint64 `json:"user_id"`
	Language       string `json:"language"`
	ShowLocation   bool   `json:"show_location"`
	ShowAge        bool   `json:"show_age"`
	NotifyMatches  bool   `json:"notify_matches"`
	NotifyMessages bool   `json:"notify_messages"`
	Defaulted      bool   `json:"defaulted,omitempty"`
}

func toBody(row db.UserSetting, defaulted bool) SettingsBody {
	return SettingsBody{
		UserID:         row.UserID,
		Language:       row.Language,
		ShowLocation:   row.ShowLocation,
		ShowAge:        row.ShowAge,
		NotifyMatches:  row.NotifyMatches,
		NotifyMessages: row.NotifyMessages,
		Defaulted:      defaulted,
	}
}

// PutSettingsRequest is a partial settings update; absent fields keep
// their previous values.
type PutSettingsRequest struct {
	Language       *string `json:"language,omitempty"`
	ShowLocation   *bool   `json:"show_location,omitempty"`
	ShowAge        *bool   `json:"show_age,omitempty"`
	NotifyMatches  *bool   `json:"notify_matches,omitempty"`
	NotifyMessages *bool   `json:"notify_messages,omitempty"`
}

// PutSettings handles PUT /v1/users/{userID}/settings.
func (s *Service) PutSettings(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	var req PutSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, svcErr.Validation("invalid request body"))
		return
	}

	row, err := s.Save(r.Context(), userID, repository.SettingsPatch{
		Language:       req.Language,
		ShowLocation:   req.ShowLocation,
		ShowAge:        req.ShowAge,
		NotifyMatches:  req.NotifyMatches,
		NotifyMessages: req.NotifyMessages,
	})
	if err != nil {
		s.appCtx.Logger.Error("PutSettings failed", "user", userID, "err", err)
		server.WriteError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, toBody(row, false))
}

// GetSettings handles GET /v1/users/{userID}/settings. An unknown
// user gets the defaults, not a 404.
func (s *Service) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	row, defaulted, err := s.Load(r.Context(), userID)
	if err != nil {
		s.appCtx.Logger.Error("GetSettings failed", "user", userID, "err", err)
		server.WriteError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, toBody(row, defaulted))
}

func pathUserID(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.Validation("userID must be a valid positive integer")
	}
	return id, nil
}
