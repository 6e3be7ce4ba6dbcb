package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/ciclopay/ciclopay/internal/app"
	"github.com/ciclopay/ciclopay/internal/costs"
	"github.com/ciclopay/ciclopay/internal/cycles"
	"github.com/ciclopay/ciclopay/internal/dashboard"
	jobmetrics "github.com/ciclopay/ciclopay/internal/jobs"
	"github.com/ciclopay/ciclopay/internal/platform/cache"
	"github.com/ciclopay/ciclopay/internal/platform/db"
	"github.com/ciclopay/ciclopay/internal/users"
	"github.com/ciclopay/ciclopay/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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
	cyclesRepo := cycles.NewRepository(pool)
	costsRepo := costs.NewRepository(pool)
	dashService := dashboard.NewService(usersRepo, cyclesRepo, costsRepo, dashCache)

	warmupJob := jobs.NewDashboardWarmupJob(dashService, usersRepo, logger, jobmetrics.NewMetrics(nil))

	warmupTask, err := jobs.NewDashboardWarmupTask(jobs.DashboardWarmupPayload{Scope: jobs.WarmupScopeAdmins})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeDashboardWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.WarmupCron, Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
