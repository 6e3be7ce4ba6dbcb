package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ciclopay/ciclopay/internal/engine"
	jobmetrics "github.com/ciclopay/ciclopay/internal/jobs"
	"github.com/ciclopay/ciclopay/internal/users"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// DashboardSource computes dashboards, filling the cache as a side effect.
type DashboardSource interface {
	Compute(ctx context.Context, userID string) (engine.Dashboard, error)
}

// Directory lists accounts eligible for warmup.
type Directory interface {
	ListUsers(ctx context.Context) ([]users.User, error)
}

// DashboardWarmupJob pre-populates dashboard caches after a version bump, so
// the first morning request does not pay for a full snapshot reload.
type DashboardWarmupJob struct {
	Dashboards DashboardSource
	Users      Directory
	Logger     *slog.Logger
	Metrics    *jobmetrics.Metrics
	clock      func() time.Time
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(dashboards DashboardSource, directory Directory, logger *slog.Logger, metrics *jobmetrics.Metrics) *DashboardWarmupJob {
	return &DashboardWarmupJob{
		Dashboards: dashboards,
		Users:      directory,
		Logger:     logger,
		Metrics:    metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes dashboard warmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Dashboards == nil || j.Users == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Scope == "" {
		payload.Scope = WarmupScopeAdmins
	}

	tracker := j.metrics().Track(TaskTypeDashboardWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("scope", payload.Scope))
	logger.Info("starting dashboard warmup")

	accounts, err := j.Users.ListUsers(ctx)
	if err != nil {
		resultErr = err
		logger.Error("list accounts", slog.Any("error", err))
		return resultErr
	}

	started := j.now()
	warmed := 0
	for _, account := range accounts {
		if payload.Scope != WarmupScopeAll && account.Role != engine.RoleAdmin {
			continue
		}
		if err := j.warmAccount(ctx, account.ID); err != nil {
			resultErr = err
			logger.Error("warm dashboard", slog.String("user_id", account.ID), slog.Any("error", err))
			return resultErr
		}
		j.metrics().AddWarmed(string(account.Role), 1)
		warmed++
	}

	logger.Info("completed dashboard warmup", slog.Int("dashboards", warmed), slog.Duration("duration", time.Since(started)))
	return resultErr
}

func (j *DashboardWarmupJob) warmAccount(ctx context.Context, userID string) error {
	accountCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	_, err := j.Dashboards.Compute(accountCtx, userID)
	return err
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeDashboardWarmup))
	}
	return slog.Default().With(slog.String("job", TaskTypeDashboardWarmup))
}

func (j *DashboardWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *DashboardWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
