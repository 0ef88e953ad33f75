package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/sparkmeet/match-engine/internal/cache"
	"github.com/sparkmeet/match-engine/internal/notify"
)

// AppContext holds shared dependencies (DB, Redis, Logger, Dispatcher).
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Dispatcher notify.Dispatcher
}

// New creates a new AppContext
func New(db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger, dispatcher notify.Dispatcher) *AppContext {
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Dispatcher: dispatcher,
	}
}
