// Package engine holds the commission and profit aggregation core. Every
// function in this package is a pure transformation over an in-memory
// snapshot: no I/O, no retained state, safe to re-run after every reload.
package engine

import "time"

// Role identifies the two tiers of the organisation.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
)

// User is the snapshot view of an account. CommissionRate is a percentage
// in [0,100]. ParentID references the managing admin and is empty for admins.
type User struct {
	ID             string
	Name           string
	Role           Role
	CommissionRate float64
	ParentID       string
}

// Cycle is one completed capital operation. Only the raw monetary fields are
// authoritative; invested, return and profit are always derived through the
// methods below. Persisted derived values are display cache and are ignored
// here.
type Cycle struct {
	ID           string
	Date         time.Time
	Deposit      float64
	Redeposit    float64
	Withdraw     float64
	Chest        float64
	Cooperation  float64
	Accounts     int
	OperatorID   string
	OperatorName string
	OwnerAdminID string
}

// Invested returns deposit + redeposit.
func (c Cycle) Invested() float64 {
	return Round2(c.Deposit + c.Redeposit)
}

// Return returns withdraw + chest + cooperation.
func (c Cycle) Return() float64 {
	return Round2(c.Withdraw + c.Chest + c.Cooperation)
}

// Profit returns the cycle result, negative when the operation lost money.
func (c Cycle) Profit() float64 {
	return Round2(c.Return() - c.Invested())
}

// Cost is one operating expense, deducted from the net base before
// commission. Costs are append-only in storage.
type Cost struct {
	ID           string
	Name         string
	Date         time.Time
	Amount       float64
	Category     CostCategory
	OperatorID   string
	OperatorName string
	OwnerAdminID string
}

// CostCategory enumerates the fixed expense buckets.
type CostCategory string

const (
	CostCategoryStructure CostCategory = "structure"
	CostCategoryTools     CostCategory = "tools"
	CostCategoryProxies   CostCategory = "proxies"
	CostCategoryAccounts  CostCategory = "accounts"
	CostCategoryOther     CostCategory = "other"
)

// Snapshot bundles the three record sets an aggregation pass runs over.
// Callers must reload it after every mutation; the engine never keeps a
// reference across calls.
type Snapshot struct {
	Users  []User
	Cycles []Cycle
	Costs  []Cost
}
