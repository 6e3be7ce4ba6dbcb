package cycles

import (
	"time"

	"github.com/ciclopay/ciclopay/internal/engine"
)

// Cycle is the stored form of one capital operation. Invested, Return and
// Profit are persisted for display only; the engine recomputes them from the
// raw monetary fields on every pass, so a stale cached value never leaks
// into a commission.
type Cycle struct {
	ID           string    `json:"id" db:"id"`
	Date         time.Time `json:"date" db:"date"`
	Deposit      float64   `json:"deposit" db:"deposit"`
	Redeposit    float64   `json:"redeposit" db:"redeposit"`
	Withdraw     float64   `json:"withdraw" db:"withdraw"`
	Chest        float64   `json:"chest" db:"chest"`
	Cooperation  float64   `json:"cooperation" db:"cooperation"`
	Accounts     int       `json:"accounts" db:"accounts"`
	Invested     float64   `json:"invested" db:"invested"`
	Return       float64   `json:"return" db:"return"`
	Profit       float64   `json:"profit" db:"profit"`
	OperatorID   string    `json:"operator_id" db:"operator_id"`
	OperatorName string    `json:"operator_name" db:"operator_name"`
	OwnerAdminID string    `json:"owner_admin_id" db:"owner_admin_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Engine projects the record into the aggregation snapshot shape, dropping
// the cached derived fields.
func (c Cycle) Engine() engine.Cycle {
	return engine.Cycle{
		ID:           c.ID,
		Date:         c.Date,
		Deposit:      c.Deposit,
		Redeposit:    c.Redeposit,
		Withdraw:     c.Withdraw,
		Chest:        c.Chest,
		Cooperation:  c.Cooperation,
		Accounts:     c.Accounts,
		OperatorID:   c.OperatorID,
		OperatorName: c.OperatorName,
		OwnerAdminID: c.OwnerAdminID,
	}
}

// SaveCycleRequest carries the raw fields for create and full-replace edit.
// Partial updates do not exist: an edit resubmits the whole record.
type SaveCycleRequest struct {
	Date        string  `json:"date" validate:"required"`
	Deposit     float64 `json:"deposit" validate:"gte=0"`
	Redeposit   float64 `json:"redeposit" validate:"gte=0"`
	Withdraw    float64 `json:"withdraw" validate:"gte=0"`
	Chest       float64 `json:"chest" validate:"gte=0"`
	Cooperation float64 `json:"cooperation" validate:"gte=0"`
	Accounts    int     `json:"accounts" validate:"gte=1"`
	OperatorID  string  `json:"operator_id" validate:"required,uuid"`
}

// DeleteBatchRequest names the cycles removed in one call.
type DeleteBatchRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}
