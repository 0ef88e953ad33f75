package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sparkmeet/match-engine/internal/repository"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestSettingsUpsertAppliesDefaultsOnFirstWrite(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSettingsRepository(dbase)

	row, err := repo.Upsert(ctx, 7, repository.SettingsPatch{Language: strPtr("ru")})
	require.NoError(t, err)

	assert.Equal(t, uint64(7), row.UserID)
	assert.Equal(t, "ru", row.Language)
	// untouched fields got defaults
	assert.True(t, row.ShowLocation)
	assert.True(t, row.ShowAge)
	assert.True(t, row.NotifyMatches)
	assert.True(t, row.NotifyMessages)
}

func TestSettingsUpsertPartialUpdateKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSettingsRepository(dbase)

	_, err := repo.Upsert(ctx, 7, repository.SettingsPatch{Language: strPtr("ru")})
	require.NoError(t, err)

	row, err := repo.Upsert(ctx, 7, repository.SettingsPatch{ShowAge: boolPtr(false)})
	require.NoError(t, err)

	// merged row: earlier language survives, new flag applies
	assert.Equal(t, "ru", row.Language)
	assert.False(t, row.ShowAge)

	// still exactly one row
	var count int64
	require.NoError(t, dbase.Table("user_settings").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSettingsUpsertEmptyPatchCreatesDefaults(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSettingsRepository(dbase)

	row, err := repo.Upsert(ctx, 9, repository.SettingsPatch{})
	require.NoError(t, err)
	assert.Equal(t, repository.DefaultSettings(9).Language, row.Language)

	// replay does not clobber previously saved values
	_, err = repo.Upsert(ctx, 9, repository.SettingsPatch{Language: strPtr("fr")})
	require.NoError(t, err)
	row, err = repo.Upsert(ctx, 9, repository.SettingsPatch{})
	require.NoError(t, err)
	assert.Equal(t, "fr", row.Language)
}

func TestSettingsGetNotFound(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSettingsRepository(dbase)

	_, err := repo.Get(ctx, 12345)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
