package engine

import "sort"

// DailyPoint is one entry of the chronological profit series.
type DailyPoint struct {
	Date   string  `json:"date"`
	Label  string  `json:"label"`
	Profit float64 `json:"profit"`
}

// RankEntry is one entry of the per-operator commission ranking series.
type RankEntry struct {
	OperatorID string  `json:"operator_id"`
	Name       string  `json:"name"`
	Commission float64 `json:"commission"`
}

// BuildDailySeries buckets cycles and costs by calendar day and returns the
// profit trend in ascending date order. The series is sparse: only days with
// at least one record appear. Two cycles on the same day, regardless of
// owner, merge into one bucket; the caller has already scoped the inputs.
func BuildDailySeries(cycles []Cycle, costs []Cost) []DailyPoint {
	sums := make(map[string]float64)
	for _, c := range cycles {
		sums[c.Date.Format("2006-01-02")] += c.Profit()
	}
	for _, c := range costs {
		sums[c.Date.Format("2006-01-02")] -= c.Amount
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	series := make([]DailyPoint, 0, len(keys))
	for _, k := range keys {
		day, err := ParseDayISO(k)
		if err != nil {
			continue
		}
		series = append(series, DailyPoint{
			Date:   k,
			Label:  FormatDay(day),
			Profit: Round2(sums[k]),
		})
	}
	return series
}

// BuildOperatorRanking projects aggregates into a ranking series, preserving
// the aggregate order. Callers sort by commission when rank display needs it.
func BuildOperatorRanking(aggs []OperatorAggregate) []RankEntry {
	out := make([]RankEntry, 0, len(aggs))
	for _, agg := range aggs {
		out = append(out, RankEntry{OperatorID: agg.OperatorID, Name: agg.Name, Commission: agg.Commission})
	}
	return out
}

// SortRankingByCommission orders a ranking series by commission descending,
// breaking ties by operator id so output stays deterministic.
func SortRankingByCommission(entries []RankEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Commission != entries[j].Commission {
			return entries[i].Commission > entries[j].Commission
		}
		return entries[i].OperatorID < entries[j].OperatorID
	})
}
