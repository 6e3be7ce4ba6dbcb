package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ciclopay/ciclopay/internal/shared"
)

const userColumns = `id, name, login, password_hash, role, commission_rate, parent_id, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for accounts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListUsers returns all accounts ordered by creation time.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

// GetUser returns one account by id.
func (r *Repository) GetUser(ctx context.Context, id string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetUserByLogin returns one account by its unique login.
func (r *Repository) GetUserByLogin(ctx context.Context, login string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE login = $1`, login)
	return scanUser(row)
}

// CreateUser inserts a new account.
func (r *Repository) CreateUser(ctx context.Context, u User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, login, password_hash, role, commission_rate, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`,
		u.ID, u.Name, u.Login, u.PasswordHash, u.Role, u.CommissionRate, u.ParentID,
	)
	if err != nil {
		return mapCreateError(err, u.Login)
	}
	return nil
}

// mapCreateError translates a unique-violation on the login column into the
// shared conflict sentinel.
func mapCreateError(err error, login string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: login %q", shared.ErrAlreadyExists, login)
	}
	return fmt.Errorf("users: create: %w", err)
}

// UpdateCommissionRate persists a new rate for an operator. The engine never
// caches commissions, so the change takes effect on the next aggregation.
func (r *Repository) UpdateCommissionRate(ctx context.Context, id string, rate float64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET commission_rate = $2, updated_at = now() WHERE id = $1`, id, rate)
	if err != nil {
		return fmt.Errorf("users: update rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteUser removes an account. Historical cycles and costs keep their
// denormalised operator name and survive as orphans.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpsertUser inserts or fully replaces an account by id, used by restore.
func (r *Repository) UpsertUser(ctx context.Context, tx pgx.Tx, u User) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO users (id, name, login, password_hash, role, commission_rate, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			login = EXCLUDED.login,
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role,
			commission_rate = EXCLUDED.commission_rate,
			parent_id = EXCLUDED.parent_id,
			updated_at = now()`,
		u.ID, u.Name, u.Login, u.PasswordHash, u.Role, u.CommissionRate, u.ParentID,
	)
	if err != nil {
		return fmt.Errorf("users: upsert: %w", err)
	}
	return nil
}

func scanUsers(rows pgx.Rows) ([]User, error) {
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Login, &u.PasswordHash, &u.Role, &u.CommissionRate, &u.ParentID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("users: scan: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Login, &u.PasswordHash, &u.Role, &u.CommissionRate, &u.ParentID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("users: get: %w", err)
	}
	return &u, nil
}
