package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sparkmeet/match-engine/internal/db"
)

// MatchRepository provides the atomic-insert primitive and read
// queries for Match rows. Mutual-like detection itself lives in the
// interaction service; this layer only guarantees at-most-once
// creation per pair.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// normalizePair orders two user ids canonically (user1 < user2).
func normalizePair(a, b uint64) (uint64, uint64) {
	if b < a {
		return b, a
	}
	return a, b
}

// TryCreate inserts the match for a pair if it does not exist yet.
//
// Behavior:
//   - The pair is normalized to (min, max) before the insert, so call
//     order never produces two rows for one couple.
//   - The insert is guarded by the unique pair index with a DO NOTHING
//     conflict clause: under concurrent duplicate calls exactly one
//     insert wins, the rest fall through to the fetch path.
//   - created is true only for the winning insert. Losers get the
//     existing row and created=false.
//
// There is deliberately no read-before-write here; the constraint is
// the sole arbiter.
func (r *MatchRepository) TryCreate(
	ctx context.Context,
	userA, userB uint64,
) (db.Match, bool, error) {
	user1, user2 := normalizePair(userA, userB)

	row := db.Match{User1ID: user1, User2ID: user2}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user1_id"}, {Name: "user2_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if res.Error != nil {
		return db.Match{}, false, res.Error
	}

	if res.RowsAffected > 0 {
		return row, true, nil
	}

	// conflict: the pair is already matched, return the existing row
	var existing db.Match
	err := r.db.WithContext(ctx).
		Where("user1_id = ? AND user2_id = ?", user1, user2).
		First(&existing).Error
	if err != nil {
		return db.Match{}, false, err
	}
	return existing, false, nil
}

// Exists reports whether the pair is already matched. Pair order does
// not matter.
func (r *MatchRepository) Exists(
	ctx context.Context,
	userA, userB uint64,
) (bool, error) {
	user1, user2 := normalizePair(userA, userB)
	var count int64
	err := r.db.WithContext(ctx).
		Table("matches").
		Where("user1_id = ? AND user2_id = ?", user1, user2).
		Count(&count).Error
	return count > 0, err
}

// ListForUser returns all matches the user participates in, newest
// first.
func (r *MatchRepository) ListForUser(
	ctx context.Context,
	userID uint64,
) ([]db.Match, error) {
	var rows []db.Match
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}
