package engine

import "sort"

// OperatorAggregate is the per-operator result of one aggregation pass.
type OperatorAggregate struct {
	OperatorID    string
	Name          string
	GrossInvested float64
	GrossReturn   float64
	GrossProfit   float64
	Expenses      float64
	NetBase       float64
	Commission    float64
}

// AggregateByOperator groups cycles and costs by operator, restricted to the
// scope set, and derives net base and commission per operator. Every scoped
// operator gets an entry even with zero activity, so downstream ranking and
// consolidation see complete membership. Output is ordered by operator id to
// keep chart series stable across runs.
func AggregateByOperator(cycles []Cycle, costs []Cost, users []User, scope []string) []OperatorAggregate {
	index := make(map[string]User, len(users))
	for _, u := range users {
		index[u.ID] = u
	}

	scoped := make(map[string]struct{}, len(scope))
	ids := make([]string, 0, len(scope))
	for _, id := range scope {
		if _, ok := scoped[id]; ok {
			continue
		}
		scoped[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	sums := make(map[string]*OperatorAggregate, len(ids))
	for _, id := range ids {
		agg := &OperatorAggregate{OperatorID: id}
		if u, ok := index[id]; ok {
			agg.Name = u.Name
		}
		sums[id] = agg
	}

	for _, c := range cycles {
		agg, ok := sums[c.OperatorID]
		if !ok {
			continue
		}
		agg.GrossInvested += c.Invested()
		agg.GrossReturn += c.Return()
		agg.GrossProfit += c.Profit()
		if agg.Name == "" && c.OperatorName != "" {
			// Denormalised snapshot survives operator deletion.
			agg.Name = c.OperatorName
		}
	}
	for _, c := range costs {
		agg, ok := sums[c.OperatorID]
		if !ok {
			continue
		}
		agg.Expenses += c.Amount
		if agg.Name == "" && c.OperatorName != "" {
			agg.Name = c.OperatorName
		}
	}

	out := make([]OperatorAggregate, 0, len(ids))
	for _, id := range ids {
		agg := sums[id]
		agg.GrossInvested = Round2(agg.GrossInvested)
		agg.GrossReturn = Round2(agg.GrossReturn)
		agg.GrossProfit = Round2(agg.GrossProfit)
		agg.Expenses = Round2(agg.Expenses)
		agg.NetBase = Round2(agg.GrossProfit - agg.Expenses)
		agg.Commission = Commission(agg.NetBase, RateFor(users, id))
		out = append(out, *agg)
	}
	return out
}

// ScopeFor collects the operator ids an aggregation pass should cover for
// the given owner: every user managed by ownerID plus any operator id that
// only survives on historical records, excluding the owner themself.
func ScopeFor(users []User, cycles []Cycle, costs []Cost, ownerID string) []string {
	seen := make(map[string]struct{})
	var scope []string
	add := func(id string) {
		if id == "" || id == ownerID {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		scope = append(scope, id)
	}
	for _, u := range users {
		if u.ParentID == ownerID {
			add(u.ID)
		}
	}
	for _, c := range cycles {
		add(c.OperatorID)
	}
	for _, c := range costs {
		add(c.OperatorID)
	}
	sort.Strings(scope)
	return scope
}
