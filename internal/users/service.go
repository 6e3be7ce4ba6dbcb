package users

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ciclopay/ciclopay/internal/engine"
	"github.com/ciclopay/ciclopay/internal/platform/httpx"
	"github.com/ciclopay/ciclopay/internal/shared"
)

// RepositoryPort defines data access methods for accounts.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, u User) error
	UpdateCommissionRate(ctx context.Context, id string, rate float64) error
	DeleteUser(ctx context.Context, id string) error
}

// Invalidator bumps the dashboard snapshot version after a mutation.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Service handles account business logic.
type Service struct {
	repo    RepositoryPort
	invalid Invalidator
	logger  *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, invalid Invalidator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, invalid: invalid, logger: logger}
}

// ListUsers returns all accounts.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser returns one account.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

// CreateUser registers an admin or creates an operator under the acting
// admin. Operators must reference an existing admin as parent.
func (s *Service) CreateUser(ctx context.Context, actor *shared.Actor, req CreateUserRequest) (*User, error) {
	if err := shared.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	role := engine.Role(req.Role)
	parentID := req.ParentID
	switch role {
	case engine.RoleOperator:
		if parentID == nil {
			if actor == nil {
				return nil, fmt.Errorf("%w: operator requires a parent admin", httpx.ErrValidation)
			}
			id := actor.UserID
			parentID = &id
		}
		parent, err := s.repo.GetUser(ctx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("resolve parent: %w", err)
		}
		if parent.Role != engine.RoleAdmin {
			return nil, fmt.Errorf("%w: parent %s is not an admin", httpx.ErrValidation, parent.ID)
		}
	case engine.RoleAdmin:
		if parentID != nil {
			return nil, fmt.Errorf("%w: admins have no parent", httpx.ErrValidation)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Login:          req.Login,
		PasswordHash:   string(hash),
		Role:           role,
		CommissionRate: req.CommissionRate,
		ParentID:       parentID,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.bump(ctx)
	return &user, nil
}

// UpdateCommissionRate changes an operator's rate. Only the owning admin may
// do it; the next aggregation pass picks the new rate up because commission
// is never stored.
func (s *Service) UpdateCommissionRate(ctx context.Context, actor *shared.Actor, id string, req UpdateCommissionRateRequest) error {
	if err := shared.Validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	target, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(actor, target) {
		return shared.ErrForbidden
	}
	if err := s.repo.UpdateCommissionRate(ctx, id, req.Rate); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

// DeleteUser removes an operator managed by the acting admin. Historical
// records keep the name snapshot and are tolerated by aggregation.
func (s *Service) DeleteUser(ctx context.Context, actor *shared.Actor, id string) error {
	target, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if target.Role != engine.RoleOperator || !canManage(actor, target) {
		return shared.ErrForbidden
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

func canManage(actor *shared.Actor, target *User) bool {
	if actor == nil {
		return false
	}
	return actor.Role == string(engine.RoleAdmin) &&
		target.ParentID != nil && *target.ParentID == actor.UserID
}

func (s *Service) bump(ctx context.Context) {
	if s.invalid == nil {
		return
	}
	if err := s.invalid.Bump(ctx); err != nil {
		s.logger.Warn("bump snapshot version", slog.Any("error", err))
	}
}
