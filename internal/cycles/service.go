package cycles

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ciclopay/ciclopay/internal/engine"
	"github.com/ciclopay/ciclopay/internal/platform/httpx"
	"github.com/ciclopay/ciclopay/internal/shared"
	"github.com/ciclopay/ciclopay/internal/users"
)

// RepositoryPort defines data access methods for cycles.
type RepositoryPort interface {
	ListCycles(ctx context.Context) ([]Cycle, error)
	GetCycle(ctx context.Context, id string) (*Cycle, error)
	CreateCycle(ctx context.Context, c Cycle) error
	ReplaceCycle(ctx context.Context, c Cycle) error
	DeleteCycle(ctx context.Context, id string) error
	DeleteCycles(ctx context.Context, ids []string) (int64, error)
}

// Directory resolves accounts when attributing ownership.
type Directory interface {
	GetUser(ctx context.Context, id string) (*users.User, error)
}

// Invalidator bumps the dashboard snapshot version after a mutation.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Service handles cycle business logic.
type Service struct {
	repo    RepositoryPort
	dir     Directory
	invalid Invalidator
	logger  *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, dir Directory, invalid Invalidator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, dir: dir, invalid: invalid, logger: logger}
}

// ListCycles returns every cycle.
func (s *Service) ListCycles(ctx context.Context) ([]Cycle, error) {
	return s.repo.ListCycles(ctx)
}

// CreateCycle validates and stores a new cycle. The derived columns are
// written as display cache; aggregation recomputes them from the raw fields.
func (s *Service) CreateCycle(ctx context.Context, actor *shared.Actor, req SaveCycleRequest) (*Cycle, error) {
	cycle, err := s.buildCycle(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	cycle.ID = uuid.NewString()
	if err := s.repo.CreateCycle(ctx, *cycle); err != nil {
		return nil, err
	}
	s.bump(ctx)
	return cycle, nil
}

// ReplaceCycle fully replaces an existing cycle. Edits never patch single
// fields, so the derived cache can never drift from the raw inputs.
func (s *Service) ReplaceCycle(ctx context.Context, actor *shared.Actor, id string, req SaveCycleRequest) (*Cycle, error) {
	existing, err := s.repo.GetCycle(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canTouch(actor, existing.OperatorID, existing.OwnerAdminID) {
		return nil, shared.ErrForbidden
	}
	cycle, err := s.buildCycle(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	cycle.ID = existing.ID
	if err := s.repo.ReplaceCycle(ctx, *cycle); err != nil {
		return nil, err
	}
	s.bump(ctx)
	return cycle, nil
}

// DeleteCycle removes one cycle after an ownership check.
func (s *Service) DeleteCycle(ctx context.Context, actor *shared.Actor, id string) error {
	existing, err := s.repo.GetCycle(ctx, id)
	if err != nil {
		return err
	}
	if !s.canTouch(actor, existing.OperatorID, existing.OwnerAdminID) {
		return shared.ErrForbidden
	}
	if err := s.repo.DeleteCycle(ctx, id); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

// DeleteCycles removes a batch. Batch cleanup is an admin operation.
func (s *Service) DeleteCycles(ctx context.Context, actor *shared.Actor, req DeleteBatchRequest) (int64, error) {
	if err := shared.Validate.Struct(req); err != nil {
		return 0, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	if actor == nil || actor.Role != string(engine.RoleAdmin) {
		return 0, shared.ErrForbidden
	}
	n, err := s.repo.DeleteCycles(ctx, req.IDs)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.bump(ctx)
	}
	return n, nil
}

func (s *Service) buildCycle(ctx context.Context, actor *shared.Actor, req SaveCycleRequest) (*Cycle, error) {
	if err := shared.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	normalized, err := engine.Normalize(engine.CycleInput{
		Date:        req.Date,
		Deposit:     req.Deposit,
		Redeposit:   req.Redeposit,
		Withdraw:    req.Withdraw,
		Chest:       req.Chest,
		Cooperation: req.Cooperation,
		Accounts:    req.Accounts,
	})
	if err != nil {
		return nil, err
	}

	operator, err := s.dir.GetUser(ctx, req.OperatorID)
	if err != nil {
		return nil, fmt.Errorf("resolve operator: %w", err)
	}
	ownerAdminID := operator.ID
	if operator.Role == engine.RoleOperator {
		if operator.ParentID == nil {
			return nil, fmt.Errorf("%w: operator %s has no admin", httpx.ErrValidation, operator.ID)
		}
		ownerAdminID = *operator.ParentID
	}
	if !s.canTouch(actor, operator.ID, ownerAdminID) {
		return nil, shared.ErrForbidden
	}

	return &Cycle{
		Date:         normalized.Date,
		Deposit:      normalized.Deposit,
		Redeposit:    normalized.Redeposit,
		Withdraw:     normalized.Withdraw,
		Chest:        normalized.Chest,
		Cooperation:  normalized.Cooperation,
		Accounts:     normalized.Accounts,
		Invested:     normalized.Invested(),
		Return:       normalized.Return(),
		Profit:       normalized.Profit(),
		OperatorID:   operator.ID,
		OperatorName: operator.Name,
		OwnerAdminID: ownerAdminID,
	}, nil
}

func (s *Service) canTouch(actor *shared.Actor, operatorID, ownerAdminID string) bool {
	if actor == nil {
		return false
	}
	if actor.UserID == operatorID {
		return true
	}
	return actor.Role == string(engine.RoleAdmin) && actor.UserID == ownerAdminID
}

func (s *Service) bump(ctx context.Context) {
	if s.invalid == nil {
		return
	}
	if err := s.invalid.Bump(ctx); err != nil {
		s.logger.Warn("bump snapshot version", slog.Any("error", err))
	}
}
