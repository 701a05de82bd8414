package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jan1986-cloud/aitrader/internal/api"
	"github.com/Jan1986-cloud/aitrader/internal/core/service"
	"github.com/Jan1986-cloud/aitrader/internal/infrastructure/db/mongo"
	"github.com/Jan1986-cloud/aitrader/internal/infrastructure/db/redis"
	"github.com/Jan1986-cloud/aitrader/internal/infrastructure/identity"
	"github.com/Jan1986-cloud/aitrader/internal/infrastructure/pipeline"
	"github.com/Jan1986-cloud/aitrader/internal/infrastructure/scheduler"
	"github.com/Jan1986-cloud/aitrader/internal/pkg/config"
	"github.com/Jan1986-cloud/aitrader/internal/pkg/crypto"
	"github.com/Jan1986-cloud/aitrader/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	masterKey, err := crypto.ParseKey(cfg.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid encryption key")
	}

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect")
	}
	defer func() { _ = rdb.Close() }()

	// Repositories
	tenantRepo := mongo.NewTenantRepository(db)
	credRepo := mongo.NewCredentialRepository(db)
	settingsRepo := mongo.NewSettingsRepository(db)
	tradeRepo := mongo.NewTradeRepository(db)

	// Services
	tokenService := service.NewTokenService([]byte(cfg.JWTSecret), service.TokenLifetime)
	vaultService, err := service.NewVaultService(credRepo, masterKey, log)
	if err != nil {
		log.Fatal().Err(err).Msg("vault init")
	}
	authService := service.NewAuthService(identity.NewGoogleProvider(), tenantRepo, tokenService, log)
	settingsService := service.NewSettingsService(settingsRepo, log)

	runner := service.NewBatchRunner(
		tenantRepo,
		vaultService,
		settingsRepo,
		tradeRepo,
		pipeline.NewNoop(log),
		cfg.Batch.Workers,
		cfg.Batch.TenantTimeout,
		log,
	)

	sched := scheduler.New(runner, redis.NewRunLock(rdb), cfg.Batch.Interval, log)
	go sched.Start(ctx)

	e := api.NewRouter(api.Dependencies{
		Mongo:          db,
		Redis:          rdb,
		Auth:           authService,
		Tokens:         tokenService,
		Vault:          vaultService,
		Settings:       settingsService,
		Trades:         tradeRepo,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Log:            log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server started")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
		os.Exit(1)
	}
	log.Info().Msg("server exited")
}
