package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDay(s)
	require.NoError(t, err)
	return d
}

func TestAggregateByOperatorExampleScenario(t *testing.T) {
	users := []User{
		{ID: "adm", Name: "Chief", Role: RoleAdmin},
		{ID: "op-1", Name: "Alice", Role: RoleOperator, CommissionRate: 20, ParentID: "adm"},
	}
	cycles := []Cycle{
		{ID: "c1", Date: day(t, "10/01/2024"), Deposit: 500, Withdraw: 650, Accounts: 1, OperatorID: "op-1", OperatorName: "Alice", OwnerAdminID: "adm"},
	}
	costs := []Cost{
		{ID: "e1", Date: day(t, "11/01/2024"), Amount: 50, Category: CostCategoryTools, OperatorID: "op-1", OwnerAdminID: "adm"},
	}

	aggs := AggregateByOperator(cycles, costs, users, []string{"op-1"})
	require.Len(t, aggs, 1)

	agg := aggs[0]
	assert.Equal(t, "op-1", agg.OperatorID)
	assert.Equal(t, "Alice", agg.Name)
	assert.InDelta(t, 500, agg.GrossInvested, 0.001)
	assert.InDelta(t, 650, agg.GrossReturn, 0.001)
	assert.InDelta(t, 150, agg.GrossProfit, 0.001)
	assert.InDelta(t, 50, agg.Expenses, 0.001)
	assert.InDelta(t, 100, agg.NetBase, 0.001)
	assert.InDelta(t, 20, agg.Commission, 0.001)
}

func TestAggregateLossYieldsZeroCommission(t *testing.T) {
	users := []User{{ID: "op-1", Role: RoleOperator, CommissionRate: 20}}
	cycles := []Cycle{
		{Date: day(t, "10/01/2024"), Deposit: 500, Withdraw: 400, Accounts: 1, OperatorID: "op-1"},
	}
	costs := []Cost{{Date: day(t, "10/01/2024"), Amount: 50, OperatorID: "op-1"}}

	aggs := AggregateByOperator(cycles, costs, users, []string{"op-1"})
	require.Len(t, aggs, 1)
	assert.InDelta(t, -150, aggs[0].NetBase, 0.001)
	assert.Zero(t, aggs[0].Commission)
}

func TestAggregateIncludesIdleOperators(t *testing.T) {
	users := []User{
		{ID: "op-1", Name: "Alice", Role: RoleOperator, CommissionRate: 20},
		{ID: "op-2", Name: "Bruno", Role: RoleOperator, CommissionRate: 30},
	}
	aggs := AggregateByOperator(nil, nil, users, []string{"op-2", "op-1"})
	require.Len(t, aggs, 2)
	// Deterministic: sorted by operator id regardless of scope order.
	assert.Equal(t, "op-1", aggs[0].OperatorID)
	assert.Equal(t, "op-2", aggs[1].OperatorID)
	for _, agg := range aggs {
		assert.Zero(t, agg.NetBase)
		assert.Zero(t, agg.Commission)
	}
}

func TestAggregateOrphanedOperator(t *testing.T) {
	// Operator was deleted; cycles keep the denormalised name snapshot.
	cycles := []Cycle{
		{Date: day(t, "05/02/2024"), Deposit: 100, Withdraw: 300, Accounts: 1, OperatorID: "ghost", OperatorName: "Carla"},
	}
	aggs := AggregateByOperator(cycles, nil, nil, []string{"ghost"})
	require.Len(t, aggs, 1)
	assert.Equal(t, "Carla", aggs[0].Name)
	assert.InDelta(t, 200, aggs[0].NetBase, 0.001)
	assert.Zero(t, aggs[0].Commission)
}

func TestAggregateIgnoresOutOfScopeRecords(t *testing.T) {
	cycles := []Cycle{
		{Date: day(t, "05/02/2024"), Deposit: 10, Withdraw: 20, Accounts: 1, OperatorID: "op-1"},
		{Date: day(t, "05/02/2024"), Deposit: 10, Withdraw: 20, Accounts: 1, OperatorID: "outsider"},
	}
	aggs := AggregateByOperator(cycles, nil, nil, []string{"op-1"})
	require.Len(t, aggs, 1)
	assert.InDelta(t, 10, aggs[0].NetBase, 0.001)
}

func TestScopeForCollectsTeamAndOrphans(t *testing.T) {
	users := []User{
		{ID: "adm", Role: RoleAdmin},
		{ID: "op-1", Role: RoleOperator, ParentID: "adm"},
		{ID: "op-2", Role: RoleOperator, ParentID: "adm"},
	}
	cycles := []Cycle{
		{OperatorID: "ghost"},
		{OperatorID: "adm"},
	}
	costs := []Cost{{OperatorID: "op-2"}}

	scope := ScopeFor(users, cycles, costs, "adm")
	assert.Equal(t, []string{"ghost", "op-1", "op-2"}, scope)
}
