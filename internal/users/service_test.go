package users

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciclopay/ciclopay/internal/engine"
	"github.com/ciclopay/ciclopay/internal/platform/httpx"
	"github.com/ciclopay/ciclopay/internal/shared"
)

type mockRepo struct {
	users   map[string]*User
	deleted []string
}

func newMockRepo(seed ...User) *mockRepo {
	m := &mockRepo{users: make(map[string]*User)}
	for i := range seed {
		u := seed[i]
		m.users[u.ID] = &u
	}
	return m
}

func (m *mockRepo) ListUsers(context.Context) ([]User, error) {
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockRepo) GetUser(_ context.Context, id string) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) CreateUser(_ context.Context, u User) error {
	for _, existing := range m.users {
		if existing.Login == u.Login {
			return shared.ErrAlreadyExists
		}
	}
	m.users[u.ID] = &u
	return nil
}

func (m *mockRepo) UpdateCommissionRate(_ context.Context, id string, rate float64) error {
	u, ok := m.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.CommissionRate = rate
	return nil
}

func (m *mockRepo) DeleteUser(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.users, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type countingInvalidator struct{ bumps int }

func (c *countingInvalidator) Bump(context.Context) error {
	c.bumps++
	return nil
}

type failingInvalidator struct{}

func (failingInvalidator) Bump(context.Context) error {
	return errors.New("redis unavailable")
}

func adminFixture() User {
	return User{ID: "11111111-1111-4111-8111-111111111111", Name: "Chief", Login: "chief", Role: engine.RoleAdmin}
}

func adminActor() *shared.Actor {
	return &shared.Actor{UserID: "11111111-1111-4111-8111-111111111111", Role: "admin"}
}

func TestCreateOperatorDefaultsParentToActor(t *testing.T) {
	repo := newMockRepo(adminFixture())
	inv := &countingInvalidator{}
	svc := NewService(repo, inv, nil)

	user, err := svc.CreateUser(context.Background(), adminActor(), CreateUserRequest{
		Name:           "Alice",
		Login:          "alice",
		Password:       "s3cretpass",
		Role:           "operator",
		CommissionRate: 20,
	})
	require.NoError(t, err)
	require.NotNil(t, user.ParentID)
	assert.Equal(t, adminActor().UserID, *user.ParentID)
	assert.NotEqual(t, "s3cretpass", user.PasswordHash)
	assert.Equal(t, 1, inv.bumps)
}

func TestCreateOperatorRejectsNonAdminParent(t *testing.T) {
	admin := adminFixture()
	opID := "22222222-2222-4222-8222-222222222222"
	op := User{ID: opID, Name: "Alice", Login: "alice", Role: engine.RoleOperator, ParentID: &admin.ID}
	repo := newMockRepo(admin, op)
	svc := NewService(repo, nil, nil)

	_, err := svc.CreateUser(context.Background(), adminActor(), CreateUserRequest{
		Name:     "Bruno",
		Login:    "bruno",
		Password: "s3cretpass",
		Role:     "operator",
		ParentID: &opID,
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateUserValidatesRate(t *testing.T) {
	svc := NewService(newMockRepo(adminFixture()), nil, nil)
	_, err := svc.CreateUser(context.Background(), adminActor(), CreateUserRequest{
		Name:           "Alice",
		Login:          "alice",
		Password:       "s3cretpass",
		Role:           "operator",
		CommissionRate: 120,
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateCommissionRateRequiresOwningAdmin(t *testing.T) {
	admin := adminFixture()
	op := User{ID: "22222222-2222-4222-8222-222222222222", Role: engine.RoleOperator, ParentID: &admin.ID, CommissionRate: 20}
	repo := newMockRepo(admin, op)
	inv := &countingInvalidator{}
	svc := NewService(repo, inv, nil)

	err := svc.UpdateCommissionRate(context.Background(), &shared.Actor{UserID: "someone-else", Role: "admin"}, op.ID, UpdateCommissionRateRequest{Rate: 30})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	err = svc.UpdateCommissionRate(context.Background(), adminActor(), op.ID, UpdateCommissionRateRequest{Rate: 30})
	require.NoError(t, err)
	assert.InDelta(t, 30.0, repo.users[op.ID].CommissionRate, 0.001)
	assert.Equal(t, 1, inv.bumps)
}

func TestBumpFailureLoggedNotFatal(t *testing.T) {
	admin := adminFixture()
	op := User{ID: "22222222-2222-4222-8222-222222222222", Role: engine.RoleOperator, ParentID: &admin.ID, CommissionRate: 20}
	repo := newMockRepo(admin, op)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	svc := NewService(repo, failingInvalidator{}, logger)

	err := svc.UpdateCommissionRate(context.Background(), adminActor(), op.ID, UpdateCommissionRateRequest{Rate: 30})
	require.NoError(t, err)
	assert.InDelta(t, 30.0, repo.users[op.ID].CommissionRate, 0.001)
	assert.Contains(t, buf.String(), "bump snapshot version")
	assert.Contains(t, buf.String(), "redis unavailable")
}

func TestOperatorCannotManageOwnRecord(t *testing.T) {
	admin := adminFixture()
	op := User{ID: "22222222-2222-4222-8222-222222222222", Role: engine.RoleOperator, ParentID: &admin.ID, CommissionRate: 20}
	repo := newMockRepo(admin, op)
	svc := NewService(repo, nil, nil)
	self := &shared.Actor{UserID: op.ID, Role: "operator"}

	err := svc.UpdateCommissionRate(context.Background(), self, op.ID, UpdateCommissionRateRequest{Rate: 0})
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.InDelta(t, 20.0, repo.users[op.ID].CommissionRate, 0.001)

	err = svc.DeleteUser(context.Background(), self, op.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Empty(t, repo.deleted)
}

func TestDeleteUserOnlyOperators(t *testing.T) {
	admin := adminFixture()
	op := User{ID: "22222222-2222-4222-8222-222222222222", Role: engine.RoleOperator, ParentID: &admin.ID}
	repo := newMockRepo(admin, op)
	svc := NewService(repo, nil, nil)

	err := svc.DeleteUser(context.Background(), adminActor(), admin.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	err = svc.DeleteUser(context.Background(), adminActor(), op.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{op.ID}, repo.deleted)
}
