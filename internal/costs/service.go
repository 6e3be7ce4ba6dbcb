package costs

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

// RepositoryPort defines data access methods for costs.
type RepositoryPort interface {
	ListCosts(ctx context.Context) ([]Cost, error)
	GetCost(ctx context.Context, id string) (*Cost, error)
	CreateCost(ctx context.Context, c Cost) error
	DeleteCost(ctx context.Context, id string) error
}

// Directory resolves accounts when attributing ownership.
type Directory interface {
	GetUser(ctx context.Context, id string) (*users.User, error)
}

// Invalidator bumps the dashboard snapshot version after a mutation.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Service handles cost business logic.
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

// ListCosts returns every expense entry.
func (s *Service) ListCosts(ctx context.Context) ([]Cost, error) {
	return s.repo.ListCosts(ctx)
}

// CreateCost validates and appends a new expense entry.
func (s *Service) CreateCost(ctx context.Context, actor *shared.Actor, req CreateCostRequest) (*Cost, error) {
	if err := shared.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	day, err := engine.ParseDay(req.Date)
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

	cost := Cost{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Date:         day,
		Amount:       engine.Round2(req.Amount),
		Category:     engine.CostCategory(req.Category),
		OperatorID:   operator.ID,
		OperatorName: operator.Name,
		OwnerAdminID: ownerAdminID,
	}
	if err := s.repo.CreateCost(ctx, cost); err != nil {
		return nil, err
	}
	s.bump(ctx)
	return &cost, nil
}

// DeleteCost removes one expense entry after an ownership check.
func (s *Service) DeleteCost(ctx context.Context, actor *shared.Actor, id string) error {
	existing, err := s.repo.GetCost(ctx, id)
	if err != nil {
		return err
	}
	if !s.canTouch(actor, existing.OperatorID, existing.OwnerAdminID) {
		return shared.ErrForbidden
	}
	if err := s.repo.DeleteCost(ctx, id); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
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
