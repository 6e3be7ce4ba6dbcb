package users

import (
	"time"

	"github.com/ciclopay/ciclopay/internal/engine"
)

// User is an account in the two-tier organisation. Operators reference the
// admin who manages them through ParentID; admins have none. The commission
// rate is a percentage in [0,100] and is inert for admins.
type User struct {
	ID             string      `json:"id" db:"id"`
	Name           string      `json:"name" db:"name"`
	Login          string      `json:"login" db:"login"`
	PasswordHash   string      `json:"-" db:"password_hash"`
	Role           engine.Role `json:"role" db:"role"`
	CommissionRate float64     `json:"commission_rate" db:"commission_rate"`
	ParentID       *string     `json:"parent_id,omitempty" db:"parent_id"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

// Engine projects the account into the aggregation snapshot shape.
func (u User) Engine() engine.User {
	parent := ""
	if u.ParentID != nil {
		parent = *u.ParentID
	}
	return engine.User{
		ID:             u.ID,
		Name:           u.Name,
		Role:           u.Role,
		CommissionRate: u.CommissionRate,
		ParentID:       parent,
	}
}

type CreateUserRequest struct {
	Name           string  `json:"name" validate:"required,max=120"`
	Login          string  `json:"login" validate:"required,min=3,max=60"`
	Password       string  `json:"password" validate:"required,min=8,max=72"`
	Role           string  `json:"role" validate:"required,oneof=admin operator"`
	CommissionRate float64 `json:"commission_rate" validate:"gte=0,lte=100"`
	ParentID       *string `json:"parent_id,omitempty" validate:"omitempty,uuid"`
}

type UpdateCommissionRateRequest struct {
	Rate float64 `json:"rate" validate:"gte=0,lte=100"`
}
