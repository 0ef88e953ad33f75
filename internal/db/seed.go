package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedTestData resets the database and populates it with demo users,
// interactions, and the matches implied by the mutual likes.
//
// Behavior:
//  1. Clears existing data in all four tables.
//  2. Creates 20 users (10 male, 10 female) with hashed passwords and
//     default settings rows.
//  3. Generates ~200 interactions with ~70% likes; every 3rd pair is
//     forced mutual and gets a Match row.
//
// Compatible with both MySQL and SQLite (AUTO_INCREMENT reset skipped
// for SQLite).
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"matches", "interactions", "user_settings", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	// Reset auto-increment sequences
	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE matches AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name = 'matches'")
		db.Exec("DELETE FROM sqlite_sequence WHERE name = 'users'")
	}

	log.Println("Cleared existing data")

	// --- Seed Users (10 male, 10 female) ---
	cities := []string{"London", "Manchester", "Leeds", "Bristol"}
	for i := 1; i <= 20; i++ {
		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		gender := "male"
		if i > 10 {
			gender = "female"
		}

		user := User{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			Gender:       gender,
			Age:          uint32(21 + r.Intn(20)),
			City:         cities[r.Intn(len(cities))],
			Active:       true,
		}

		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		setting := UserSetting{
			UserID:         user.ID,
			Language:       "en",
			ShowLocation:   true,
			ShowAge:        true,
			NotifyMatches:  true,
			NotifyMessages: true,
		}
		if err := db.Create(&setting).Error; err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}
	}
	log.Println("Seeded 20 users with default settings.")

	upsertInteraction := func(from, to uint64, action Action) error {
		row := Interaction{FromUserID: from, ToUserID: to, Action: action}
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_user_id"}, {Name: "to_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"action", "updated_at"}),
		}).Create(&row).Error
	}

	// --- Seed Interactions (~200) ---
	counter := 0
	for from := uint64(1); from <= 20; from++ {
		for j := 0; j < 12; j++ { // each user acts on ~12 others
			to := uint64(r.Intn(20) + 1)
			if from == to {
				continue
			}

			var actor, target User
			if err := db.First(&actor, from).Error; err != nil {
				continue
			}
			if err := db.First(&target, to).Error; err != nil {
				continue
			}
			if actor.Gender == target.Gender {
				continue
			}

			// like probability 70%
			action := ActionDislike
			if r.Intn(100) < 70 {
				action = ActionLike
			}

			// guarantee mutual likes every 3rd pair, with a Match row
			if counter%3 == 0 {
				action = ActionLike
				if err := upsertInteraction(to, from, ActionLike); err != nil {
					return fmt.Errorf("failed to seed reciprocal like: %w", err)
				}

				u1, u2 := from, to
				if u2 < u1 {
					u1, u2 = u2, u1
				}
				match := Match{User1ID: u1, User2ID: u2}
				if err := db.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "user1_id"}, {Name: "user2_id"}},
					DoNothing: true,
				}).Create(&match).Error; err != nil {
					return fmt.Errorf("failed to seed match: %w", err)
				}
			}

			if err := upsertInteraction(from, to, action); err != nil {
				return fmt.Errorf("failed to seed interaction: %w", err)
			}

			counter++
		}
	}

	return nil
}

// SeedMinimalTestData wipes the tables and inserts a small
// deterministic dataset used by tests.
func SeedMinimalTestData(db *gorm.DB) error {
	for _, table := range []string{"matches", "interactions", "user_settings", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}

	users := []User{
		{ID: 1, Username: "user1", Email: "u1@test.com", PasswordHash: "x", Gender: "male", Age: 28},
		{ID: 2, Username: "user2", Email: "u2@test.com", PasswordHash: "x", Gender: "female", Age: 26},
		{ID: 3, Username: "user3", Email: "u3@test.com", PasswordHash: "x", Gender: "female", Age: 31},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	interactions := []Interaction{
		{FromUserID: 1, ToUserID: 2, Action: ActionLike},    // user1 → user2 (like)
		{FromUserID: 2, ToUserID: 1, Action: ActionLike},    // user2 → user1 (like, mutual)
		{FromUserID: 3, ToUserID: 1, Action: ActionLike},    // user3 → user1 (like, one-way)
		{FromUserID: 1, ToUserID: 3, Action: ActionDislike}, // user1 → user3 (dislike back)
	}
	if err := db.Create(&interactions).Error; err != nil {
		return err
	}

	return nil
}
