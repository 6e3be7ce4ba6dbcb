package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ciclopay/ciclopay/internal/costs"
	"github.com/ciclopay/ciclopay/internal/cycles"
	"github.com/ciclopay/ciclopay/internal/engine"
	"github.com/ciclopay/ciclopay/internal/users"
)

// UserSource lists and resolves accounts.
type UserSource interface {
	ListUsers(ctx context.Context) ([]users.User, error)
	GetUser(ctx context.Context, id string) (*users.User, error)
}

// CycleSource lists cycles.
type CycleSource interface {
	ListCycles(ctx context.Context) ([]cycles.Cycle, error)
}

// CostSource lists costs.
type CostSource interface {
	ListCosts(ctx context.Context) ([]costs.Cost, error)
}

// Service loads a fresh snapshot, scopes it to the requesting user and runs
// the aggregation engine over it. Results are cached under the current
// snapshot version; any mutation bumps the version, so a stale dashboard is
// never served after a reload.
type Service struct {
	users  UserSource
	cycles CycleSource
	costs  CostSource
	cache  *Cache
}

// NewService wires the three record sources with the cache helper.
func NewService(users UserSource, cycles CycleSource, costs CostSource, cache *Cache) *Service {
	return &Service{users: users, cycles: cycles, costs: costs, cache: cache}
}

// Compute resolves the dashboard for the given user, loading through the
// cache when one is configured.
func (s *Service) Compute(ctx context.Context, userID string) (engine.Dashboard, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		return s.compute(ctx, userID)
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return engine.Dashboard{}, err
		}
		return value.(engine.Dashboard), nil
	}

	key, err := s.cache.BuildKey(ctx, keyDashboard(userID)...)
	if err != nil {
		return engine.Dashboard{}, err
	}
	var dash engine.Dashboard
	if err := s.cache.FetchJSON(ctx, key, &dash, loader); err != nil {
		return engine.Dashboard{}, err
	}
	return dash, nil
}

func (s *Service) compute(ctx context.Context, userID string) (engine.Dashboard, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return engine.Dashboard{}, fmt.Errorf("dashboard: resolve user: %w", err)
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return engine.Dashboard{}, err
	}
	scoped := scopeSnapshot(snap, user)

	dash := engine.ComputeDashboard(scoped, user.Role, user.ID)
	engine.SortRankingByCommission(dash.OperatorRanking)
	return dash, nil
}

// loadSnapshot reloads the three record sets in parallel. There is no
// incremental path: commission depends on the current rate and on all
// records in scope, so every pass starts from a full reload.
func (s *Service) loadSnapshot(ctx context.Context) (engine.Snapshot, error) {
	var (
		userRows  []users.User
		cycleRows []cycles.Cycle
		costRows  []costs.Cost
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		userRows, err = s.users.ListUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		cycleRows, err = s.cycles.ListCycles(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		costRows, err = s.costs.ListCosts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return engine.Snapshot{}, fmt.Errorf("dashboard: load snapshot: %w", err)
	}

	snap := engine.Snapshot{
		Users:  make([]engine.User, 0, len(userRows)),
		Cycles: make([]engine.Cycle, 0, len(cycleRows)),
		Costs:  make([]engine.Cost, 0, len(costRows)),
	}
	for _, u := range userRows {
		snap.Users = append(snap.Users, u.Engine())
	}
	for _, c := range cycleRows {
		snap.Cycles = append(snap.Cycles, c.Engine())
	}
	for _, c := range costRows {
		snap.Costs = append(snap.Costs, c.Engine())
	}
	return snap, nil
}

// scopeSnapshot restricts records to what the user may see: an admin sees
// their whole organisation, an operator only their own records.
func scopeSnapshot(snap engine.Snapshot, user *users.User) engine.Snapshot {
	keepCycle := func(c engine.Cycle) bool { return c.OperatorID == user.ID }
	keepCost := func(c engine.Cost) bool { return c.OperatorID == user.ID }
	if user.Role == engine.RoleAdmin {
		keepCycle = func(c engine.Cycle) bool { return c.OwnerAdminID == user.ID }
		keepCost = func(c engine.Cost) bool { return c.OwnerAdminID == user.ID }
	}

	out := engine.Snapshot{Users: snap.Users}
	for _, c := range snap.Cycles {
		if keepCycle(c) {
			out.Cycles = append(out.Cycles, c)
		}
	}
	for _, c := range snap.Costs {
		if keepCost(c) {
			out.Costs = append(out.Costs, c)
		}
	}
	return out
}
