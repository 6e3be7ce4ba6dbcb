package cycles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciclopay/ciclopay/internal/engine"
	"github.com/ciclopay/ciclopay/internal/shared"
	"github.com/ciclopay/ciclopay/internal/users"
)

const (
	adminID = "11111111-1111-4111-8111-111111111111"
	opID    = "22222222-2222-4222-8222-222222222222"
)

type mockRepo struct {
	cycles  map[string]*Cycle
	deleted []string
}

func newMockRepo(seed ...Cycle) *mockRepo {
	m := &mockRepo{cycles: make(map[string]*Cycle)}
	for i := range seed {
		c := seed[i]
		m.cycles[c.ID] = &c
	}
	return m
}

func (m *mockRepo) ListCycles(context.Context) ([]Cycle, error) {
	out := make([]Cycle, 0, len(m.cycles))
	for _, c := range m.cycles {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockRepo) GetCycle(_ context.Context, id string) (*Cycle, error) {
	c, ok := m.cycles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (m *mockRepo) CreateCycle(_ context.Context, c Cycle) error {
	m.cycles[c.ID] = &c
	return nil
}

func (m *mockRepo) ReplaceCycle(_ context.Context, c Cycle) error {
	if _, ok := m.cycles[c.ID]; !ok {
		return shared.ErrNotFound
	}
	m.cycles[c.ID] = &c
	return nil
}

func (m *mockRepo) DeleteCycle(_ context.Context, id string) error {
	if _, ok := m.cycles[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.cycles, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockRepo) DeleteCycles(_ context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := m.cycles[id]; ok {
			delete(m.cycles, id)
			n++
		}
	}
	return n, nil
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

type countingInvalidator struct{ bumps int }

func (c *countingInvalidator) Bump(context.Context) error {
	c.bumps++
	return nil
}

func directoryFixture() *mockDirectory {
	admin := adminID
	return &mockDirectory{users: map[string]*users.User{
		adminID: {ID: adminID, Name: "Chief", Role: engine.RoleAdmin},
		opID:    {ID: opID, Name: "Alice", Role: engine.RoleOperator, ParentID: &admin, CommissionRate: 20},
	}}
}

func operatorActor() *shared.Actor {
	return &shared.Actor{UserID: opID, Role: "operator"}
}

func adminActor() *shared.Actor {
	return &shared.Actor{UserID: adminID, Role: "admin"}
}

func TestCreateCycleDerivesAndAttributes(t *testing.T) {
	repo := newMockRepo()
	inv := &countingInvalidator{}
	svc := NewService(repo, directoryFixture(), inv, nil)

	cycle, err := svc.CreateCycle(context.Background(), operatorActor(), SaveCycleRequest{
		Date:       "10/01/2024",
		Deposit:    500,
		Withdraw:   650,
		Accounts:   2,
		OperatorID: opID,
	})
	require.NoError(t, err)
	assert.InDelta(t, 500, cycle.Invested, 0.001)
	assert.InDelta(t, 650, cycle.Return, 0.001)
	assert.InDelta(t, 150, cycle.Profit, 0.001)
	assert.Equal(t, "Alice", cycle.OperatorName)
	assert.Equal(t, adminID, cycle.OwnerAdminID)
	assert.Equal(t, 1, inv.bumps)
	assert.Len(t, repo.cycles, 1)
}

func TestCreateCycleAdminOwnsOwnRecords(t *testing.T) {
	svc := NewService(newMockRepo(), directoryFixture(), nil, nil)

	cycle, err := svc.CreateCycle(context.Background(), adminActor(), SaveCycleRequest{
		Date:       "10/01/2024",
		Deposit:    100,
		Withdraw:   120,
		Accounts:   1,
		OperatorID: adminID,
	})
	require.NoError(t, err)
	assert.Equal(t, adminID, cycle.OwnerAdminID)
}

func TestCreateCycleRejectsNegativeMoney(t *testing.T) {
	svc := NewService(newMockRepo(), directoryFixture(), nil, nil)

	_, err := svc.CreateCycle(context.Background(), operatorActor(), SaveCycleRequest{
		Date:       "10/01/2024",
		Deposit:    -5,
		Accounts:   1,
		OperatorID: opID,
	})
	require.Error(t, err)
}

func TestCreateCycleRejectsMalformedDate(t *testing.T) {
	svc := NewService(newMockRepo(), directoryFixture(), nil, nil)

	_, err := svc.CreateCycle(context.Background(), operatorActor(), SaveCycleRequest{
		Date:       "2024-01-10",
		Deposit:    5,
		Withdraw:   6,
		Accounts:   1,
		OperatorID: opID,
	})
	assert.ErrorIs(t, err, engine.ErrInvalidDate)
}

func TestCreateCycleForeignOperatorForbidden(t *testing.T) {
	svc := NewService(newMockRepo(), directoryFixture(), nil, nil)

	_, err := svc.CreateCycle(context.Background(), &shared.Actor{UserID: "stranger", Role: "operator"}, SaveCycleRequest{
		Date:       "10/01/2024",
		Deposit:    5,
		Withdraw:   6,
		Accounts:   1,
		OperatorID: opID,
	})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestReplaceCycleKeepsID(t *testing.T) {
	existing := Cycle{ID: "c1", Deposit: 1, Withdraw: 2, Accounts: 1, OperatorID: opID, OwnerAdminID: adminID}
	repo := newMockRepo(existing)
	svc := NewService(repo, directoryFixture(), nil, nil)

	replaced, err := svc.ReplaceCycle(context.Background(), adminActor(), "c1", SaveCycleRequest{
		Date:       "11/01/2024",
		Deposit:    300,
		Withdraw:   390,
		Accounts:   1,
		OperatorID: opID,
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", replaced.ID)
	assert.InDelta(t, 90, repo.cycles["c1"].Profit, 0.001)
}

func TestDeleteCyclesBatchAdminOnly(t *testing.T) {
	ids := DeleteBatchRequest{IDs: []string{
		"33333333-3333-4333-8333-333333333333",
		"44444444-4444-4444-8444-444444444444",
	}}
	repo := newMockRepo(
		Cycle{ID: ids.IDs[0], OperatorID: opID, OwnerAdminID: adminID},
		Cycle{ID: ids.IDs[1], OperatorID: opID, OwnerAdminID: adminID},
	)
	inv := &countingInvalidator{}
	svc := NewService(repo, directoryFixture(), inv, nil)

	_, err := svc.DeleteCycles(context.Background(), operatorActor(), ids)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	n, err := svc.DeleteCycles(context.Background(), adminActor(), ids)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, 1, inv.bumps)
}
