package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/ciclopay/ciclopay/internal/app"
	"github.com/ciclopay/ciclopay/internal/backup"
	"github.com/ciclopay/ciclopay/internal/costs"
	"github.com/ciclopay/ciclopay/internal/cycles"
	"github.com/ciclopay/ciclopay/internal/dashboard"
	dashboardhttp "github.com/ciclopay/ciclopay/internal/dashboard/http"
	"github.com/ciclopay/ciclopay/internal/observability"
	"github.com/ciclopay/ciclopay/internal/platform/cache"
	"github.com/ciclopay/ciclopay/internal/platform/db"
	"github.com/ciclopay/ciclopay/internal/users"
	"github.com/ciclopay/ciclopay/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: cfg.PGMaxConns})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	dashCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL)
	if err := dashCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("subscribe snapshot bumps", slog.Any("error", err))
	}

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo, dashCache, logger)
	usersHandler := users.NewHandler(logger, usersService)

	cyclesRepo := cycles.NewRepository(pool)
	cyclesService := cycles.NewService(cyclesRepo, usersRepo, dashCache, logger)
	cyclesHandler := cycles.NewHandler(logger, cyclesService)

	costsRepo := costs.NewRepository(pool)
	costsService := costs.NewService(costsRepo, usersRepo, dashCache, logger)
	costsHandler := costs.NewHandler(logger, costsService)

	dashService := dashboard.NewService(usersRepo, cyclesRepo, costsRepo, dashCache)
	dashHandler := dashboardhttp.NewHandler(logger, dashService)

	runTx := func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return db.WithSerializableTx(ctx, pool, fn)
	}
	backupService := backup.NewService(usersRepo, cyclesRepo, costsRepo, runTx, dashCache, logger)
	backupHandler := backup.NewHandler(logger, backupService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Resolver:         usersRepo,
		UsersHandler:     usersHandler,
		CyclesHandler:    cyclesHandler,
		CostsHandler:     costsHandler,
		DashboardHandler: dashHandler,
		BackupHandler:    backupHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
