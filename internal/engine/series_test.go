package engine

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDailySeriesMergesSameDay(t *testing.T) {
	cycles := []Cycle{
		{Date: day(t, "10/01/2024"), Deposit: 100, Withdraw: 150, Accounts: 1, OperatorID: "op-1"},
		{Date: day(t, "10/01/2024"), Deposit: 200, Withdraw: 260, Accounts: 1, OperatorID: "op-2"},
	}
	series := BuildDailySeries(cycles, nil)
	require.Len(t, series, 1)
	assert.Equal(t, "10/01/2024", series[0].Label)
	assert.InDelta(t, 110, series[0].Profit, 0.001)
}

func TestBuildDailySeriesCalendarOrder(t *testing.T) {
	// String order on dd/mm/yyyy would put 02/01/2024 before 15/12/2023.
	cycles := []Cycle{
		{Date: day(t, "02/01/2024"), Deposit: 10, Withdraw: 30, Accounts: 1},
		{Date: day(t, "15/12/2023"), Deposit: 10, Withdraw: 20, Accounts: 1},
	}
	series := BuildDailySeries(cycles, nil)
	require.Len(t, series, 2)
	assert.Equal(t, "15/12/2023", series[0].Label)
	assert.Equal(t, "02/01/2024", series[1].Label)
	assert.True(t, sort.SliceIsSorted(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	}))
}

func TestBuildDailySeriesSubtractsCosts(t *testing.T) {
	cycles := []Cycle{{Date: day(t, "10/01/2024"), Deposit: 100, Withdraw: 180, Accounts: 1}}
	costs := []Cost{
		{Date: day(t, "10/01/2024"), Amount: 30},
		{Date: day(t, "12/01/2024"), Amount: 15},
	}
	series := BuildDailySeries(cycles, costs)
	require.Len(t, series, 2)
	assert.InDelta(t, 50, series[0].Profit, 0.001)
	assert.InDelta(t, -15, series[1].Profit, 0.001)
}

func TestBuildDailySeriesSparse(t *testing.T) {
	cycles := []Cycle{
		{Date: day(t, "01/01/2024"), Deposit: 10, Withdraw: 20, Accounts: 1},
		{Date: day(t, "31/01/2024"), Deposit: 10, Withdraw: 20, Accounts: 1},
	}
	series := BuildDailySeries(cycles, nil)
	// No gap filling between the two days.
	assert.Len(t, series, 2)
}

func TestBuildOperatorRankingKeepsAggregateOrder(t *testing.T) {
	aggs := []OperatorAggregate{
		{OperatorID: "op-1", Name: "Alice", Commission: 5},
		{OperatorID: "op-2", Name: "Bruno", Commission: 50},
	}
	ranking := BuildOperatorRanking(aggs)
	require.Len(t, ranking, 2)
	assert.Equal(t, "op-1", ranking[0].OperatorID)

	SortRankingByCommission(ranking)
	assert.Equal(t, "op-2", ranking[0].OperatorID)
	assert.InDelta(t, 50, ranking[0].Commission, 0.001)
}

func TestSortRankingTieBreaksByID(t *testing.T) {
	ranking := []RankEntry{
		{OperatorID: "op-b", Commission: 10},
		{OperatorID: "op-a", Commission: 10},
	}
	SortRankingByCommission(ranking)
	assert.Equal(t, "op-a", ranking[0].OperatorID)
}
