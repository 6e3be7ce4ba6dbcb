package costs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ciclopay/ciclopay/internal/shared"
)

const costColumns = `id, name, date, amount, category, operator_id, operator_name, owner_admin_id, created_at`

// Repository provides PostgreSQL backed persistence for costs.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListCosts returns every expense entry.
func (r *Repository) ListCosts(ctx context.Context) ([]Cost, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+costColumns+` FROM costs ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("costs: list: %w", err)
	}
	defer rows.Close()
	return scanCosts(rows)
}

// GetCost returns one expense by id.
func (r *Repository) GetCost(ctx context.Context, id string) (*Cost, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+costColumns+` FROM costs WHERE id = $1`, id)
	var c Cost
	err := row.Scan(&c.ID, &c.Name, &c.Date, &c.Amount, &c.Category, &c.OperatorID, &c.OperatorName, &c.OwnerAdminID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("costs: get: %w", err)
	}
	return &c, nil
}

// CreateCost appends a new expense entry.
func (r *Repository) CreateCost(ctx context.Context, c Cost) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO costs (id, name, date, amount, category, operator_id, operator_name, owner_admin_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`,
		c.ID, c.Name, c.Date, c.Amount, c.Category, c.OperatorID, c.OperatorName, c.OwnerAdminID,
	)
	if err != nil {
		return fmt.Errorf("costs: create: %w", err)
	}
	return nil
}

// DeleteCost removes one expense entry.
func (r *Repository) DeleteCost(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM costs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("costs: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpsertCost inserts or replaces an expense by id, used by restore.
func (r *Repository) UpsertCost(ctx context.Context, tx pgx.Tx, c Cost) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO costs (id, name, date, amount, category, operator_id, operator_name, owner_admin_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			date = EXCLUDED.date,
			amount = EXCLUDED.amount,
			category = EXCLUDED.category,
			operator_id = EXCLUDED.operator_id,
			operator_name = EXCLUDED.operator_name,
			owner_admin_id = EXCLUDED.owner_admin_id`,
		c.ID, c.Name, c.Date, c.Amount, c.Category, c.OperatorID, c.OperatorName, c.OwnerAdminID,
	)
	if err != nil {
		return fmt.Errorf("costs: upsert: %w", err)
	}
	return nil
}

func scanCosts(rows pgx.Rows) ([]Cost, error) {
	var out []Cost
	for rows.Next() {
		var c Cost
		if err := rows.Scan(&c.ID, &c.Name, &c.Date, &c.Amount, &c.Category, &c.OperatorID, &c.OperatorName, &c.OwnerAdminID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("costs: scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
