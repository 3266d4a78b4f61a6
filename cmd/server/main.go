package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cloudscope/console-api/internal/api"
	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/ports"
	"github.com/cloudscope/console-api/internal/core/service"
	"github.com/cloudscope/console-api/internal/infrastructure/config"
	mongodb "github.com/cloudscope/console-api/internal/infrastructure/db/mongo"
	redisdb "github.com/cloudscope/console-api/internal/infrastructure/db/redis"
	"github.com/cloudscope/console-api/internal/infrastructure/memory"
	"github.com/cloudscope/console-api/internal/infrastructure/queue"
	"github.com/cloudscope/console-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err.Error())
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("storage_backend", cfg.StorageBackend).
		Str("auth_mode", cfg.AuthMode).
		Str("session_scope", cfg.SessionScope).
		Msg("console starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	scope := domain.ParseSessionScope(cfg.SessionScope)

	// The tab scope is always process-local: losing it on restart is what
	// makes tab sessions tab-scoped.
	tabScope := memory.NewSessionScope()

	var (
		persistentScope ports.SessionScope
		accountRepo     ports.AccountRepository
		userRepo        ports.UserRepository
		dedup           service.ReportDedup
		mongoClient     *mongo.Client
		mongoDB         *mongo.Database
		redisClient     *redis.Client
	)

	switch cfg.StorageBackend {
	case "external":
		var err error
		mongoClient, mongoDB, err = mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}

		redisClient, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}

		accounts := mongodb.NewAccountRepository(mongoDB)
		users := mongodb.NewUserRepository(mongoDB)
		if err := accounts.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("account index creation failed")
		}
		if err := users.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("user index creation failed")
		}

		persistentScope = redisdb.NewSessionScope(redisClient)
		accountRepo = accounts
		userRepo = users
		dedup = redisdb.NewRequestDedup(redisClient)

	default:
		mem := memory.NewAccountRepository()
		if cfg.SeedDemoData {
			mem.Seed(memory.DemoAccounts())
			log.Info().Int("accounts", len(memory.DemoAccounts())).Msg("demo data seeded")
		}
		persistentScope = memory.NewSessionScope()
		accountRepo = mem
		userRepo = memory.NewUserRepository()
	}

	store := service.NewDualSessionStore(persistentScope, tabScope, scope, cfg.SessionTTL, logger.Component("session-store"))
	auth := service.NewAuthService(store, userRepo, service.ParseAuthMode(cfg.AuthMode), cfg.JWTSecret, cfg.SessionTTL, logger.Component("auth"))
	manager := service.NewAuthManager(auth)

	// Resolve the container out of its uninitialized state before traffic
	// arrives; the boot has no cookie to restore from.
	manager.Initialize(ctx, "")

	accountService := service.NewAccountService(accountRepo, logger.Component("accounts"))

	reportRepo := memory.NewReportRepository()
	reportService := service.NewReportService(reportRepo, accountRepo, dedup, logger.Component("reports"))
	dispatcher := queue.NewDispatcher(cfg.ReportWorkers, reportService, logger.Component("dispatcher"))
	reportService.SetQueue(dispatcher)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.RouterDeps{
		Auth:       auth,
		Manager:    manager,
		Accounts:   accountService,
		Reports:    reportService,
		Scope:      scope,
		SessionTTL: cfg.SessionTTL,
		Mongo:      mongoDB,
		Redis:      redisClient,
		Logger:     log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("redis close error")
		}
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect error")
		}
	}

	log.Info().Msg("graceful shutdown complete")
}
