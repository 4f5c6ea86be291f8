package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eduport/portfolio-api/internal/api"
	"github.com/eduport/portfolio-api/internal/core/service"
	"github.com/eduport/portfolio-api/internal/infrastructure/config"
	mongodb "github.com/eduport/portfolio-api/internal/infrastructure/db/mongo"
	"github.com/eduport/portfolio-api/internal/infrastructure/db/redis"
	"github.com/eduport/portfolio-api/internal/infrastructure/oauth"
	"github.com/eduport/portfolio-api/internal/infrastructure/storage"
	"github.com/eduport/portfolio-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	userRepo := mongodb.NewUserRepository(db)
	projectRepo := mongodb.NewProjectRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user indexes failed")
	}
	if err := projectRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("project indexes failed")
	}

	// --- Redis (optional: feed cache degrades to DB reads without it) ---
	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, community feed cache disabled")
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// --- Uploads ---
	files, err := storage.NewLocal(cfg.Upload.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("upload storage failed")
	}

	// --- Auth ---
	tokens, err := service.NewTokens(cfg.JWTSecret, time.Hour)
	if err != nil {
		log.Fatal().Err(err).Msg("token service failed")
	}
	google := oauth.NewGoogleProvider(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.CallbackURL)
	if !google.Enabled() {
		log.Warn().Msg("google oauth credentials not set, social login disabled")
	}

	e := api.NewRouter(db, rdb, files, google, tokens, cfg.Upload.MaxMB, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
