package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sparkmeet/match-engine/internal/db"
	"github.com/sparkmeet/match-engine/internal/utils/pagination"
)

// InteractionRepository provides data access for the Interaction
// ledger. It encapsulates all queries about who liked or disliked
// whom.
type InteractionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new repository bound to the given DB connection.
func NewInteractionRepository(database *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: database}
}

// Upsert inserts or overwrites the interaction from one user toward
// another.
//
// Behavior:
//   - If the (from_user_id, to_user_id) pair exists → the row is
//     updated with the new action and updated_at.
//   - If it doesn't exist → a new row is inserted.
//   - Composite PK gives the one-row-per-pair guarantee; replaying the
//     same input is a no-op apart from the timestamp.
//
// Example:
//
//	repo.Upsert(ctx, 1, 2, db.ActionLike) // user 1 liked user 2
func (r *InteractionRepository) Upsert(
	ctx context.Context,
	fromUserID, toUserID uint64,
	action db.Action,
) (db.Interaction, error) {
	row := db.Interaction{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Action:     action,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_user_id"}, {Name: "to_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"action", "updated_at"}),
		}).
		Create(&row).Error
	return row, err
}

// HasLiked reports whether a like exists from one user toward another.
//
// Used for the mutual-like check: after recording actor→target, the
// handler asks HasLiked(target, actor).
func (r *InteractionRepository) HasLiked(
	ctx context.Context,
	fromUserID, toUserID uint64,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("interactions i").
		Where("i.from_user_id = ? AND i.to_user_id = ? AND i.action = ?", fromUserID, toUserID, db.ActionLike).
		Count(&count).Error
	return count > 0, err
}

// ListLikers returns users who liked the given target.
//
// Behavior:
//   - Only rows where to_user_id = X and action = like are returned.
//   - Excludes likers the target explicitly disliked back.
//   - Ordered by updated_at DESC, from_user_id DESC.
//   - Supports cursor-based pagination via paginationToken.
//
// Example:
//
//	repo.ListLikers(ctx, 42, nil, 20) // first 20 people who liked user 42
func (r *InteractionRepository) ListLikers(
	ctx context.Context,
	toUserID uint64,
	paginationToken *string,
	limit int,
) ([]db.Interaction, *string, error) {
	var rows []db.Interaction

	// decode cursor if provided
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Table("interactions i").
		Where("i.to_user_id = ? AND i.action = ?", toUserID, db.ActionLike).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM interactions i2
				WHERE i2.from_user_id = ?
				  AND i2.to_user_id = i.from_user_id
				  AND i2.action = ?
			)`, toUserID, db.ActionDislike).
		Order("i.updated_at DESC, i.from_user_id DESC").
		Limit(limit + 1)

	// apply cursor
	if cursor.LikerID > 0 && cursor.UpdatedUnix > 0 {
		ts := time.UnixMilli(cursor.UpdatedUnix)
		query = query.Where(
			"(i.updated_at < ? OR (i.updated_at = ? AND i.from_user_id < ?))",
			ts, ts, cursor.LikerID,
		)
	}

	if err := query.Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(rows) > limit {
		last := rows[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			LikerID:     last.FromUserID,
			UpdatedUnix: last.UpdatedAt.UnixMilli(),
		})
		nextToken = &token
		rows = rows[:limit]
	}

	return rows, nextToken, nil
}

// ListNewLikers returns users who liked the target but have not been
// liked back yet.
//
// Behavior:
//   - Only rows where to_user_id = X and action = like are considered.
//   - Excludes mutual likes (the target already liked them back).
//   - Excludes likers the target explicitly disliked back.
//   - Same ordering and cursor pagination as ListLikers.
//
// Example:
//
//	repo.ListNewLikers(ctx, 42, nil, 20) // first 20 one-way likes for user 42
func (r *InteractionRepository) ListNewLikers(
	ctx context.Context,
	toUserID uint64,
	paginationToken *string,
	limit int,
) ([]db.Interaction, *string, error) {
	var rows []db.Interaction

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	// subquery to exclude mutual likes
	subQuery := r.db.
		Table("interactions").
		Select("1").
		Where("from_user_id = i.to_user_id AND to_user_id = i.from_user_id AND action = ?", db.ActionLike)

	query := r.db.WithContext(ctx).
		Table("interactions i").
		Where("i.to_user_id = ? AND i.action = ? AND NOT EXISTS (?)", toUserID, db.ActionLike, subQuery).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM interactions i2
				WHERE i2.from_user_id = ?
				  AND i2.to_user_id = i.from_user_id
				  AND i2.action = ?
			)`, toUserID, db.ActionDislike).
		Order("i.updated_at DESC, i.from_user_id DESC").
		Limit(limit + 1)

	// apply cursor
	if cursor.LikerID > 0 && cursor.UpdatedUnix > 0 {
		ts := time.UnixMilli(cursor.UpdatedUnix)
		query = query.Where(
			"(i.updated_at < ? OR (i.updated_at = ? AND i.from_user_id < ?))",
			ts, ts, cursor.LikerID,
		)
	}

	if err := query.Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(rows) > limit {
		last := rows[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			LikerID:     last.FromUserID,
			UpdatedUnix: last.UpdatedAt.UnixMilli(),
		})
		nextToken = &token
		rows = rows[:limit]
	}

	return rows, nextToken, nil
}

// LikedUserIDs returns the set of users the actor has liked. Used by
// discovery to exclude already-acted-on candidates.
func (r *InteractionRepository) LikedUserIDs(
	ctx context.Context,
	fromUserID uint64,
) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Table("interactions").
		Where("from_user_id = ? AND action = ?", fromUserID, db.ActionLike).
		Order("to_user_id").
		Pluck("to_user_id", &ids).Error
	return ids, err
}

// CountLikers returns how many users liked the given target, with the
// same dislike-back exclusion as ListLikers. Used in conjunction with
// the Redis counter cache (DB is fallback).
func (r *InteractionRepository) CountLikers(
	ctx context.Context,
	toUserID uint64,
) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("interactions i").
		Where("i.to_user_id = ? AND i.action = ?", toUserID, db.ActionLike).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM interactions i2
				WHERE i2.from_user_id = ?
				  AND i2.to_user_id = i.from_user_id
				  AND i2.action = ?
			)`, toUserID, db.ActionDislike).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
