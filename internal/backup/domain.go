package backup

import (
	"time"

	"github.com/ciclopay/ciclopay/internal/costs"
	"github.com/ciclopay/ciclopay/internal/cycles"
	"github.com/ciclopay/ciclopay/internal/engine"
	"github.com/ciclopay/ciclopay/internal/users"
)

// ArchiveVersion is stamped into every export and checked on restore.
const ArchiveVersion = 1

// Archive is a full dump of the dataset. Unlike the API user shape it
// carries password hashes, so a restored account keeps its credentials.
type Archive struct {
	Version    int             `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	Users      []ArchivedUser  `json:"users"`
	Cycles     []ArchivedCycle `json:"cycles"`
	Costs      []ArchivedCost  `json:"costs"`
}

type ArchivedUser struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Login          string      `json:"login"`
	PasswordHash   string      `json:"password_hash"`
	Role           engine.Role `json:"role"`
	CommissionRate float64     `json:"commission_rate"`
	ParentID       *string     `json:"parent_id,omitempty"`
}

type ArchivedCycle struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	Deposit      float64   `json:"deposit"`
	Redeposit    float64   `json:"redeposit"`
	Withdraw     float64   `json:"withdraw"`
	Chest        float64   `json:"chest"`
	Cooperation  float64   `json:"cooperation"`
	Accounts     int       `json:"accounts"`
	OperatorID   string    `json:"operator_id"`
	OperatorName string    `json:"operator_name"`
	OwnerAdminID string    `json:"owner_admin_id"`
}

type ArchivedCost struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Date         time.Time           `json:"date"`
	Amount       float64             `json:"amount"`
	Category     engine.CostCategory `json:"category"`
	OperatorID   string              `json:"operator_id"`
	OperatorName string              `json:"operator_name"`
	OwnerAdminID string              `json:"owner_admin_id"`
}

func archiveUser(u users.User) ArchivedUser {
	return ArchivedUser{
		ID:             u.ID,
		Name:           u.Name,
		Login:          u.Login,
		PasswordHash:   u.PasswordHash,
		Role:           u.Role,
		CommissionRate: u.CommissionRate,
		ParentID:       u.ParentID,
	}
}

func (a ArchivedUser) storage() users.User {
	return users.User{
		ID:             a.ID,
		Name:           a.Name,
		Login:          a.Login,
		PasswordHash:   a.PasswordHash,
		Role:           a.Role,
		CommissionRate: a.CommissionRate,
		ParentID:       a.ParentID,
	}
}

func archiveCycle(c cycles.Cycle) ArchivedCycle {
	return ArchivedCycle{
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

// storage rebuilds the stored row, recomputing the derived display fields
// from the raw amounts. Whatever a hand-edited archive claims, the snapshot
// never trusts persisted derived values.
func (a ArchivedCycle) storage() cycles.Cycle {
	row := cycles.Cycle{
		ID:           a.ID,
		Date:         a.Date,
		Deposit:      a.Deposit,
		Redeposit:    a.Redeposit,
		Withdraw:     a.Withdraw,
		Chest:        a.Chest,
		Cooperation:  a.Cooperation,
		Accounts:     a.Accounts,
		OperatorID:   a.OperatorID,
		OperatorName: a.OperatorName,
		OwnerAdminID: a.OwnerAdminID,
	}
	derived := row.Engine()
	row.Invested = derived.Invested()
	row.Return = derived.Return()
	row.Profit = derived.Profit()
	return row
}

func archiveCost(c costs.Cost) ArchivedCost {
	return ArchivedCost{
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

func (a ArchivedCost) storage() costs.Cost {
	return costs.Cost{
		ID:           a.ID,
		Name:         a.Name,
		Date:         a.Date,
		Amount:       a.Amount,
		Category:     a.Category,
		OperatorID:   a.OperatorID,
		OperatorName: a.OperatorName,
		OwnerAdminID: a.OwnerAdminID,
	}
}
