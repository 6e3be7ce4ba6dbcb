package engine

// Dashboard is the consolidated, role-aware financial summary exposed to the
// presentation layer, together with the chart series.
type Dashboard struct {
	FinalConsolidated float64      `json:"final_consolidated"`
	MyPersonalProfit  float64      `json:"my_personal_profit"`
	MyCommissionPaid  float64      `json:"my_commission_paid"`
	MyROI             float64      `json:"my_roi"`
	MyExpenses        float64      `json:"my_expenses"`
	MyInvested        float64      `json:"my_invested"`
	TeamCommissions   float64      `json:"team_commissions"`
	TeamTotalReturn   float64      `json:"team_total_return"`
	TeamTotalInvested float64      `json:"team_total_invested"`
	DailySeries       []DailyPoint `json:"daily_series"`
	OperatorRanking   []RankEntry  `json:"operator_ranking"`
}

// ComputeDashboard is the single entry point for the presentation layer. It
// consolidates the snapshot for the given role and user and derives both
// chart series. Running it twice over the same snapshot yields identical
// output.
func ComputeDashboard(snap Snapshot, role Role, currentUserID string) Dashboard {
	res := Consolidate(role, currentUserID, snap.Cycles, snap.Costs, snap.Users)

	ranking := BuildOperatorRanking(res.TeamAggregates)

	return Dashboard{
		FinalConsolidated: res.FinalConsolidated,
		MyPersonalProfit:  res.MyPersonalProfit,
		MyCommissionPaid:  res.MyCommissionPaid,
		MyROI:             res.MyROI,
		MyExpenses:        res.MyExpenses,
		MyInvested:        res.MyInvested,
		TeamCommissions:   res.TeamCommissions,
		TeamTotalReturn:   res.TeamTotalReturn,
		TeamTotalInvested: res.TeamTotalInvested,
		DailySeries:       BuildDailySeries(snap.Cycles, snap.Costs),
		OperatorRanking:   ranking,
	}
}
