package costs

import (
	"time"

	"github.com/ciclopay/ciclopay/internal/engine"
)

// Cost is one operating expense. Costs are append-only: they can be created
// and deleted but never edited.
type Cost struct {
	ID           string              `json:"id" db:"id"`
	Name         string              `json:"name" db:"name"`
	Date         time.Time           `json:"date" db:"date"`
	Amount       float64             `json:"amount" db:"amount"`
	Category     engine.CostCategory `json:"category" db:"category"`
	OperatorID   string              `json:"operator_id" db:"operator_id"`
	OperatorName string              `json:"operator_name" db:"operator_name"`
	OwnerAdminID string              `json:"owner_admin_id" db:"owner_admin_id"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
}

// Engine projects the record into the aggregation snapshot shape.
func (c Cost) Engine() engine.Cost {
	return engine.Cost{
		ID:           c.ID,
		Name:         c.Name,
		Date:         c.Date,
		Amount:       c.Amount,
		Category:     c.Category,
		OperatorID:   c.OperatorID,
		OperatorName: c.OperatorName,
		OwnerAdminID: c.OwnerAdminID,
	}
}

// CreateCostRequest carries the fields of a new expense entry.
type CreateCostRequest struct {
	Name       string  `json:"name" validate:"required,max=120"`
	Date       string  `json:"date" validate:"required"`
	Amount     float64 `json:"amount" validate:"gte=0"`
	Category   string  `json:"category" validate:"required,oneof=structure tools proxies accounts other"`
	OperatorID string  `json:"operator_id" validate:"required,uuid"`
}
