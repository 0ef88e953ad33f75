package db

import (
	"time"
)

// Action is the closed set of things a user can do to another user's
// profile. Stored as a short string column; checked exhaustively in
// the interaction service.
type Action string

const (
	ActionLike    Action = "like"
	ActionDislike Action = "dislike"
)

// Valid reports whether a is one of the two supported actions.
func (a Action) Valid() bool {
	return a == ActionLike || a == ActionDislike
}

// User table
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Active       bool   `gorm:"default:true"`
	Gender       string `gorm:"size:16;not null"`
	Age          uint32
	City         string    `gorm:"size:64"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Interaction records the latest action from one user toward another.
//
// Composite PK: (FromUserID, ToUserID)
//   - Ensures a single row per ordered pair (overwrite guarantee);
//     changing one's mind updates in place, never duplicates.
//
// Indexes:
//   - idx_to_action_updated_from(to_user_id, action, updated_at DESC, from_user_id)
//     Optimizes "who liked me" lists with pagination.
//   - idx_from_to_action(from_user_id, to_user_id, action)
//     Optimizes O(1) lookup for the mutual-like check.
type Interaction struct {
	FromUserID uint64    `gorm:"primaryKey;index:idx_from_to_action,priority:1"`
	ToUserID   uint64    `gorm:"primaryKey;index:idx_to_action_updated_from,priority:1;index:idx_from_to_action,priority:2"`
	Action     Action    `gorm:"size:16;not null;index:idx_to_action_updated_from,priority:2;index:idx_from_to_action,priority:3"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime;index:idx_to_action_updated_from,priority:3,sort:desc"`
}

// Match is the symmetric record materialized once per mutually-liking
// pair.
//
// Invariants:
//   - User1ID < User2ID always (canonical ordering, independent of who
//     liked whom first).
//   - uq_match_pair(user1_id, user2_id) makes creation at-most-once;
//     concurrent duplicate inserts lose to the constraint, not to
//     application-level checks.
//   - Rows are immutable once created. There is no un-match pathway;
//     a later dislike leaves the row intact.
type Match struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	User1ID   uint64    `gorm:"not null;uniqueIndex:uq_match_pair,priority:1"`
	User2ID   uint64    `gorm:"not null;uniqueIndex:uq_match_pair,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// UserSetting holds per-user preferences. One row per user, keyed on
// the user id; writes are upserts with partial-update semantics.
type UserSetting struct {
	UserID         uint64    `gorm:"primaryKey"`
	Language       string    `gorm:"size:8;not null"`
	ShowLocation   bool      `gorm:"not null"`
	ShowAge        bool      `gorm:"not null"`
	NotifyMatches  bool      `gorm:"not null"`
	NotifyMessages bool      `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}
