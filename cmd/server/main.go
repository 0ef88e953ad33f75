package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/sparkmeet/match-engine/internal/app"
	"github.com/sparkmeet/match-engine/internal/cache"
	"github.com/sparkmeet/match-engine/internal/config"
	"github.com/sparkmeet/match-engine/internal/db"
	"github.com/sparkmeet/match-engine/internal/logger"
	"github.com/sparkmeet/match-engine/internal/notify"
	"github.com/sparkmeet/match-engine/internal/server"
	"github.com/sparkmeet/match-engine/internal/service/explore"
	"github.com/sparkmeet/match-engine/internal/service/interaction"
	"github.com/sparkmeet/match-engine/internal/service/match"
	"github.com/sparkmeet/match-engine/internal/service/settings"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	dispatcher := notify.NewRedisDispatcher(redisCache)

	appCtx := app.New(database, redisCache, log, dispatcher)

	registrars := []server.Registrar{
		interaction.NewRegistrar(appCtx),
		explore.NewRegistrar(appCtx),
		match.NewRegistrar(appCtx),
		settings.NewRegistrar(appCtx),
	}

	if cfg.App.Env == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(ctx, cfg, registrars...); err != nil {
		log.Error("server stopped with error", "err", err)
		return
	}
	log.Info("server shut down cleanly")
}
