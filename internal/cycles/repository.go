package cycles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ciclopay/ciclopay/internal/shared"
)

const cycleColumns = `id, date, deposit, redeposit, withdraw, chest, cooperation, accounts,
	invested, return_total, profit, operator_id, operator_name, owner_admin_id, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for cycles.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListCycles returns every cycle. Ordering is incidental; the engine re-sorts.
func (r *Repository) ListCycles(ctx context.Context) ([]Cycle, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+cycleColumns+` FROM cycles ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("cycles: list: %w", err)
	}
	defer rows.Close()
	return scanCycles(rows)
}

// GetCycle returns one cycle by id.
func (r *Repository) GetCycle(ctx context.Context, id string) (*Cycle, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+cycleColumns+` FROM cycles WHERE id = $1`, id)
	return scanCycle(row)
}

// CreateCycle inserts a new cycle.
func (r *Repository) CreateCycle(ctx context.Context, c Cycle) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cycles (id, date, deposit, redeposit, withdraw, chest, cooperation, accounts,
			invested, return_total, profit, operator_id, operator_name, owner_admin_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), now())`,
		c.ID, c.Date, c.Deposit, c.Redeposit, c.Withdraw, c.Chest, c.Cooperation, c.Accounts,
		c.Invested, c.Return, c.Profit, c.OperatorID, c.OperatorName, c.OwnerAdminID,
	)
	if err != nil {
		return fmt.Errorf("cycles: create: %w", err)
	}
	return nil
}

// ReplaceCycle fully replaces a cycle on edit; there is no partial update.
func (r *Repository) ReplaceCycle(ctx context.Context, c Cycle) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE cycles SET date = $2, deposit = $3, redeposit = $4, withdraw = $5, chest = $6,
			cooperation = $7, accounts = $8, invested = $9, return_total = $10, profit = $11,
			operator_id = $12, operator_name = $13, owner_admin_id = $14, updated_at = now()
		WHERE id = $1`,
		c.ID, c.Date, c.Deposit, c.Redeposit, c.Withdraw, c.Chest, c.Cooperation, c.Accounts,
		c.Invested, c.Return, c.Profit, c.OperatorID, c.OperatorName, c.OwnerAdminID,
	)
	if err != nil {
		return fmt.Errorf("cycles: replace: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteCycle removes one cycle.
func (r *Repository) DeleteCycle(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cycles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("cycles: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteCycles removes a batch in one statement.
func (r *Repository) DeleteCycles(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cycles WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("cycles: delete batch: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpsertCycle inserts or fully replaces a cycle by id, used by restore.
func (r *Repository) UpsertCycle(ctx context.Context, tx pgx.Tx, c Cycle) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO cycles (id, date, deposit, redeposit, withdraw, chest, cooperation, accounts,
			invested, return_total, profit, operator_id, operator_name, owner_admin_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date,
			deposit = EXCLUDED.deposit,
			redeposit = EXCLUDED.redeposit,
			withdraw = EXCLUDED.withdraw,
			chest = EXCLUDED.chest,
			cooperation = EXCLUDED.cooperation,
			accounts = EXCLUDED.accounts,
			invested = EXCLUDED.invested,
			return_total = EXCLUDED.return_total,
			profit = EXCLUDED.profit,
			operator_id = EXCLUDED.operator_id,
			operator_name = EXCLUDED.operator_name,
			owner_admin_id = EXCLUDED.owner_admin_id,
			updated_at = now()`,
		c.ID, c.Date, c.Deposit, c.Redeposit, c.Withdraw, c.Chest, c.Cooperation, c.Accounts,
		c.Invested, c.Return, c.Profit, c.OperatorID, c.OperatorName, c.OwnerAdminID,
	)
	if err != nil {
		return fmt.Errorf("cycles: upsert: %w", err)
	}
	return nil
}

func scanCycles(rows pgx.Rows) ([]Cycle, error) {
	var out []Cycle
	for rows.Next() {
		var c Cycle
		if err := rows.Scan(&c.ID, &c.Date, &c.Deposit, &c.Redeposit, &c.Withdraw, &c.Chest, &c.Cooperation,
			&c.Accounts, &c.Invested, &c.Return, &c.Profit, &c.OperatorID, &c.OperatorName, &c.OwnerAdminID,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("cycles: scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCycle(row pgx.Row) (*Cycle, error) {
	var c Cycle
	err := row.Scan(&c.ID, &c.Date, &c.Deposit, &c.Redeposit, &c.Withdraw, &c.Chest, &c.Cooperation,
		&c.Accounts, &c.Invested, &c.Return, &c.Profit, &c.OperatorID, &c.OperatorName, &c.OwnerAdminID,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("cycles: get: %w", err)
	}
	return &c, nil
}
