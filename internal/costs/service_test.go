package costs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciclopay/ciclopay/internal/engine"
	"github.com/ciclopay/ciclopay/internal/platform/httpx"
	"github.com/ciclopay/ciclopay/internal/shared"
	"github.com/ciclopay/ciclopay/internal/users"
)

const (
	adminID = "11111111-1111-4111-8111-111111111111"
	opID    = "22222222-2222-4222-8222-222222222222"
)

type mockRepo struct {
	costs map[string]*Cost
}

func newMockRepo(seed ...Cost) *mockRepo {
	m := &mockRepo{costs: make(map[string]*Cost)}
	for i := range seed {
		c := seed[i]
		m.costs[c.ID] = &c
	}
	return m
}

func (m *mockRepo) ListCosts(context.Context) ([]Cost, error) {
	out := make([]Cost, 0, len(m.costs))
	for _, c := range m.costs {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockRepo) GetCost(_ context.Context, id string) (*Cost, error) {
	c, ok := m.costs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (m *mockRepo) CreateCost(_ context.Context, c Cost) error {
	m.costs[c.ID] = &c
	return nil
}

func (m *mockRepo) DeleteCost(_ context.Context, id string) error {
	if _, ok := m.costs[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.costs, id)
	return nil
}

type mockDirectory struct {
	users map[string]*users.User
}

func (m *mockDirectory) GetUser(_ context.Context, id string) (*users.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func directoryFixture() *mockDirectory {
	admin := adminID
	return &mockDirectory{users: map[string]*users.User{
		adminID: {ID: adminID, Name: "Chief", Role: engine.RoleAdmin},
		opID:    {ID: opID, Name: "Alice", Role: engine.RoleOperator, ParentID: &admin},
	}}
}

func TestCreateCostAttributesOwnership(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, directoryFixture(), nil, nil)

	cost, err := svc.CreateCost(context.Background(), &shared.Actor{UserID: opID, Role: "operator"}, CreateCostRequest{
		Name:       "Proxy pool",
		Date:       "12/01/2024",
		Amount:     49.9,
		Category:   "proxies",
		OperatorID: opID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", cost.OperatorName)
	assert.Equal(t, adminID, cost.OwnerAdminID)
	assert.Equal(t, engine.CostCategoryProxies, cost.Category)
	assert.Len(t, repo.costs, 1)
}

func TestCreateCostRejectsUnknownCategory(t *testing.T) {
	svc := NewService(newMockRepo(), directoryFixture(), nil, nil)

	_, err := svc.CreateCost(context.Background(), &shared.Actor{UserID: opID, Role: "operator"}, CreateCostRequest{
		Name:       "Misc",
		Date:       "12/01/2024",
		Amount:     10,
		Category:   "snacks",
		OperatorID: opID,
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateCostRejectsNegativeAmount(t *testing.T) {
	svc := NewService(newMockRepo(), directoryFixture(), nil, nil)

	_, err := svc.CreateCost(context.Background(), &shared.Actor{UserID: opID, Role: "operator"}, CreateCostRequest{
		Name:       "Refund",
		Date:       "12/01/2024",
		Amount:     -10,
		Category:   "other",
		OperatorID: opID,
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestDeleteCostOwnershipChecked(t *testing.T) {
	seed := Cost{ID: "e1", OperatorID: opID, OwnerAdminID: adminID}
	svc := NewService(newMockRepo(seed), directoryFixture(), nil, nil)

	err := svc.DeleteCost(context.Background(), &shared.Actor{UserID: "stranger", Role: "operator"}, "e1")
	assert.ErrorIs(t, err, shared.ErrForbidden)

	err = svc.DeleteCost(context.Background(), &shared.Actor{UserID: adminID, Role: "admin"}, "e1")
	require.NoError(t, err)
}
