package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sparkmeet/match-engine/internal/db"
)

// SettingsPatch carries a partial settings update. Nil fields are
// left untouched on an existing row and fall back to defaults on
// first write.
type SettingsPatch struct {
	Language       *string
	ShowLocation   *bool
	ShowAge        *bool
	NotifyMatches  *bool
	NotifyMessages *bool
}

// DefaultSettings is the row shape a user gets before they have saved
// anything.
func DefaultSettings(userID uint64) db.UserSetting {
	return db.UserSetting{
		UserID:         userID,
		Language:       "en",
		ShowLocation:   true,
		ShowAge:        true,
		NotifyMatches:  true,
		NotifyMessages: true,
	}
}

// SettingsRepository persists per-user preference rows.
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new repository bound to the given DB connection.
func NewSettingsRepository(database *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: database}
}

// Upsert writes the provided fields for a user and returns the full
// merged row.
//
// Behavior:
//   - No row yet → insert defaults overlaid with the patch.
//   - Row exists → update only the patched columns; everything else
//     keeps its previous value.
//   - Keyed on the user_id PK, so there is never more than one row per
//     user and retries are harmless.
func (r *SettingsRepository) Upsert(
	ctx context.Context,
	userID uint64,
	patch SettingsPatch,
) (db.UserSetting, error) {
	row := DefaultSettings(userID)

	assignments := map[string]interface{}{}
	if patch.Language != nil {
		row.Language = *patch.Language
		assignments["language"] = *patch.Language
	}
	if patch.ShowLocation != nil {
		row.ShowLocation = *patch.ShowLocation
		assignments["show_location"] = *patch.ShowLocation
	}
	if patch.ShowAge != nil {
		row.ShowAge = *patch.ShowAge
		assignments["show_age"] = *patch.ShowAge
	}
	if patch.NotifyMatches != nil {
		row.NotifyMatches = *patch.NotifyMatches
		assignments["notify_matches"] = *patch.NotifyMatches
	}
	if patch.NotifyMessages != nil {
		row.NotifyMessages = *patch.NotifyMessages
		assignments["notify_messages"] = *patch.NotifyMessages
	}

	conflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}
	if len(assignments) > 0 {
		assignments["updated_at"] = time.Now().UTC()
		conflict = clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(assignments),
		}
	}

	if err := r.db.WithContext(ctx).Clauses(conflict).Create(&row).Error; err != nil {
		return db.UserSetting{}, err
	}

	// fetch the merged row; on the conflict path the in-memory struct
	// only holds the patched fields
	return r.Get(ctx, userID)
}

// Get returns the settings row for a user. A gorm.ErrRecordNotFound
// is a normal outcome meaning "use defaults", callers decide how to
// surface it.
func (r *SettingsRepository) Get(
	ctx context.Context,
	userID uint64,
) (db.UserSetting, error) {
	var row db.UserSetting
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).Error
	return row, err
}
