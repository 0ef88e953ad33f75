package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sparkmeet/match-engine/internal/db"
)

// Profile is the public slice of a user record, safe to hand to the
// counterpart in a match notification.
type Profile struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	Gender   string `json:"gender"`
	Age      uint32 `json:"age"`
	City     string `json:"city,omitempty"`
}

// UserRepository reads user records for profile payloads.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// GetProfile returns the public profile of a user.
func (r *UserRepository) GetProfile(ctx context.Context, userID uint64) (Profile, error) {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return Profile{}, err
	}
	return Profile{
		UserID:   user.ID,
		Username: user.Username,
		Gender:   user.Gender,
		Age:      user.Age,
		City:     user.City,
	}, nil
}
