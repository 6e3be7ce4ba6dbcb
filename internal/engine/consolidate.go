package engine

// ConsolidatedResult is the role-aware final balance plus the figures the
// dashboard surfaces alongside it.
type ConsolidatedResult struct {
	FinalConsolidated float64
	MyPersonalProfit  float64
	MyCommissionPaid  float64
	MyROI             float64
	MyExpenses        float64
	MyInvested        float64
	TeamCommissions   float64
	TeamTotalReturn   float64
	TeamTotalInvested float64
	TeamAggregates    []OperatorAggregate
}

// Consolidate combines the current user's own result with team commission
// results. For an admin, commission is income: own net result plus the sum
// of commissions owed by the team. For an operator, commission is a
// deduction: own net base minus the commission paid to the admin. Both
// branches compose the same Commission primitive.
func Consolidate(role Role, currentUserID string, cycles []Cycle, costs []Cost, users []User) ConsolidatedResult {
	var res ConsolidatedResult

	var myInvested, myReturn, myProfit, myExpenses float64
	for _, c := range cycles {
		if c.OperatorID != currentUserID {
			continue
		}
		myInvested += c.Invested()
		myReturn += c.Return()
		myProfit += c.Profit()
	}
	for _, c := range costs {
		if c.OperatorID != currentUserID {
			continue
		}
		myExpenses += c.Amount
	}

	res.MyInvested = Round2(myInvested)
	res.MyExpenses = Round2(myExpenses)
	res.MyPersonalProfit = Round2(myProfit - myExpenses)
	if res.MyInvested > 0 {
		res.MyROI = Round2(res.MyPersonalProfit / res.MyInvested * 100)
	}

	switch role {
	case RoleAdmin:
		scope := ScopeFor(users, cycles, costs, currentUserID)
		aggs := AggregateByOperator(cycles, costs, users, scope)
		for _, agg := range aggs {
			res.TeamCommissions += agg.Commission
			res.TeamTotalReturn += agg.GrossReturn
			res.TeamTotalInvested += agg.GrossInvested
		}
		res.TeamCommissions = Round2(res.TeamCommissions)
		res.TeamTotalReturn = Round2(res.TeamTotalReturn)
		res.TeamTotalInvested = Round2(res.TeamTotalInvested)
		res.TeamAggregates = aggs
		res.FinalConsolidated = Round2(res.MyPersonalProfit + res.TeamCommissions)
	default:
		res.MyCommissionPaid = Commission(res.MyPersonalProfit, RateFor(users, currentUserID))
		res.FinalConsolidated = Round2(res.MyPersonalProfit - res.MyCommissionPaid)
	}
	return res
}
