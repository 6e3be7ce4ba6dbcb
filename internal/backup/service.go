package backup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/ciclopay/ciclopay/internal/costs"
	"github.com/ciclopay/ciclopay/internal/cycles"
	"github.com/ciclopay/ciclopay/internal/engine"
	"github.com/ciclopay/ciclopay/internal/platform/httpx"
	"github.com/ciclopay/ciclopay/internal/shared"
	"github.com/ciclopay/ciclopay/internal/users"
)

// UserStore is the slice of the users repository used by backup.
type UserStore interface {
	ListUsers(ctx context.Context) ([]users.User, error)
	UpsertUser(ctx context.Context, tx pgx.Tx, u users.User) error
}

// CycleStore is the slice of the cycles repository used by backup.
type CycleStore interface {
	ListCycles(ctx context.Context) ([]cycles.Cycle, error)
	UpsertCycle(ctx context.Context, tx pgx.Tx, c cycles.Cycle) error
}

// CostStore is the slice of the costs repository used by backup.
type CostStore interface {
	ListCosts(ctx context.Context) ([]costs.Cost, error)
	UpsertCost(ctx context.Context, tx pgx.Tx, c costs.Cost) error
}

// TxRunner executes fn inside a single transaction.
type TxRunner func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error

// Invalidator bumps the dashboard snapshot version.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Service exports and restores full-dataset archives. Restore merges by id:
// existing rows are replaced, unknown rows are inserted, rows absent from
// the archive are left alone.
type Service struct {
	users  UserStore
	cycles CycleStore
	costs  CostStore
	runTx  TxRunner
	cache  Invalidator
	logger *slog.Logger
	now    func() time.Time
}

func NewService(users UserStore, cycles CycleStore, costs CostStore, runTx TxRunner, cache Invalidator, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		cycles: cycles,
		costs:  costs,
		runTx:  runTx,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// Export dumps every record into an archive. Admin only.
func (s *Service) Export(ctx context.Context) (Archive, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return Archive{}, err
	}

	var (
		userRows  []users.User
		cycleRows []cycles.Cycle
		costRows  []costs.Cost
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		userRows, err = s.users.ListUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		cycleRows, err = s.cycles.ListCycles(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		costRows, err = s.costs.ListCosts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Archive{}, fmt.Errorf("backup: export: %w", err)
	}

	archive := Archive{
		Version:    ArchiveVersion,
		ExportedAt: s.now().UTC(),
		Users:      make([]ArchivedUser, 0, len(userRows)),
		Cycles:     make([]ArchivedCycle, 0, len(cycleRows)),
		Costs:      make([]ArchivedCost, 0, len(costRows)),
	}
	for _, u := range userRows {
		archive.Users = append(archive.Users, archiveUser(u))
	}
	for _, c := range cycleRows {
		archive.Cycles = append(archive.Cycles, archiveCycle(c))
	}
	for _, c := range costRows {
		archive.Costs = append(archive.Costs, archiveCost(c))
	}
	return archive, nil
}

// Restore upserts the archive into storage inside one serializable
// transaction. It validates every record first, so a bad archive is
// rejected before anything is written.
func (s *Service) Restore(ctx context.Context, archive Archive) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if err := validateArchive(archive); err != nil {
		return err
	}

	err := s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, u := range archive.Users {
			if err := s.users.UpsertUser(ctx, tx, u.storage()); err != nil {
				return err
			}
		}
		for _, c := range archive.Cycles {
			if err := s.cycles.UpsertCycle(ctx, tx, c.storage()); err != nil {
				return err
			}
		}
		for _, c := range archive.Costs {
			if err := s.costs.UpsertCost(ctx, tx, c.storage()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("backup: restore: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Bump(ctx); err != nil {
			s.logger.Warn("backup: bump after restore", slog.Any("error", err))
		}
	}
	s.logger.Info("backup: restore applied",
		slog.Int("users", len(archive.Users)),
		slog.Int("cycles", len(archive.Cycles)),
		slog.Int("costs", len(archive.Costs)),
	)
	return nil
}

func (s *Service) requireAdmin(ctx context.Context) error {
	actor := shared.ActorFromContext(ctx)
	if actor == nil {
		return shared.ErrUnauthenticated
	}
	if actor.Role != string(engine.RoleAdmin) {
		return shared.ErrForbidden
	}
	return nil
}

func validateArchive(archive Archive) error {
	if archive.Version != ArchiveVersion {
		return fmt.Errorf("%w: unsupported archive version %d", httpx.ErrValidation, archive.Version)
	}
	for _, u := range archive.Users {
		if u.ID == "" || u.Login == "" {
			return fmt.Errorf("%w: user id and login required", httpx.ErrValidation)
		}
		if u.Role != engine.RoleAdmin && u.Role != engine.RoleOperator {
			return fmt.Errorf("%w: unknown role %q for user %s", httpx.ErrValidation, u.Role, u.ID)
		}
		if u.CommissionRate < 0 || u.CommissionRate > 100 {
			return fmt.Errorf("%w: commission rate out of range for user %s", httpx.ErrValidation, u.ID)
		}
	}
	for _, c := range archive.Cycles {
		if c.ID == "" || c.OperatorID == "" {
			return fmt.Errorf("%w: cycle id and operator required", httpx.ErrValidation)
		}
		if c.Date.IsZero() {
			return fmt.Errorf("%w: cycle %s: %s", httpx.ErrValidation, c.ID, engine.ErrInvalidDate)
		}
		if c.Deposit < 0 || c.Redeposit < 0 || c.Withdraw < 0 || c.Chest < 0 || c.Cooperation < 0 {
			return fmt.Errorf("%w: cycle %s: %s", httpx.ErrValidation, c.ID, engine.ErrNegativeAmount)
		}
		if c.Accounts < 1 {
			return fmt.Errorf("%w: cycle %s: %s", httpx.ErrValidation, c.ID, engine.ErrInvalidAccounts)
		}
	}
	for _, c := range archive.Costs {
		if c.ID == "" || c.OperatorID == "" {
			return fmt.Errorf("%w: cost id and operator required", httpx.ErrValidation)
		}
		if c.Date.IsZero() {
			return fmt.Errorf("%w: cost %s: %s", httpx.ErrValidation, c.ID, engine.ErrInvalidDate)
		}
		if c.Amount < 0 {
			return fmt.Errorf("%w: cost %s: %s", httpx.ErrValidation, c.ID, engine.ErrNegativeAmount)
		}
	}
	return nil
}
