package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-erp/campus-erp/internal/platform/httpx"
)

type mockRepository struct {
	users  map[int64]User
	hashes map[int64]string
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:  make(map[int64]User),
		hashes: make(map[int64]string),
		nextID: 1,
	}
}

func (m *mockRepository) List(ctx context.Context, filters ListFilters) ([]User, int, error) {
	var out []User
	for _, u := range m.users {
		if filters.Role != "" && u.Role != filters.Role {
			continue
		}
		out = append(out, u)
	}
	return out, len(out), nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, fmt.Errorf("%w: user %d", httpx.ErrNotFound, id)
	}
	return u, nil
}

func (m *mockRepository) Create(ctx context.Context, u User, passwordHash string) (User, error) {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return User{}, fmt.Errorf("%w: user already exists", httpx.ErrDuplicate)
		}
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	m.hashes[u.ID] = passwordHash
	return u, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, u User) error {
	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("%w: user %d", httpx.ErrNotFound, id)
	}
	u.ID = id
	m.users[id] = u
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("%w: user %d", httpx.ErrNotFound, id)
	}
	delete(m.users, id)
	return nil
}

func TestListRejectsOutOfRangePagination(t *testing.T) {
	svc := NewService(newMockRepository(), nil)
	ctx := context.Background()

	cases := []ListFilters{
		{Page: 0, Limit: 20},
		{Page: -1, Limit: 20},
		{Page: 1, Limit: 0},
		{Page: 1, Limit: 101},
	}
	for _, filters := range cases {
		_, _, err := svc.List(ctx, filters)
		assert.ErrorIs(t, err, httpx.ErrValidation, "filters %+v", filters)
	}

	_, _, err := svc.List(ctx, ListFilters{Page: 1, Limit: 100})
	assert.NoError(t, err)
}

func TestListRejectsUnknownRoleFilter(t *testing.T) {
	svc := NewService(newMockRepository(), nil)

	_, _, err := svc.List(context.Background(), ListFilters{Page: 1, Limit: 20, Role: "warlord"})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateValidatesRoleAndPassword(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "A", Email: "a@x.com", Password: "longenough1", Role: "warlord"}, nil)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(ctx, CreateInput{Name: "A", Email: "a@x.com", Password: "short", Role: "teacher"}, nil)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	created, err := svc.Create(ctx, CreateInput{Name: " Amy ", Email: " AMY@X.com ", Password: "longenough1", Role: "teacher"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Amy", created.Name)
	assert.Equal(t, "amy@x.com", created.Email)
	assert.NotEqual(t, "longenough1", repo.hashes[created.ID], "password must be hashed")
}

func TestUpdateRevalidatesRole(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Amy", Email: "amy@x.com", Password: "longenough1", Role: "teacher"}, nil)
	require.NoError(t, err)

	bad := "warlord"
	_, err = svc.Update(ctx, created.ID, UpdatePatch{Role: &bad}, nil)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	good := "librarian"
	updated, err := svc.Update(ctx, created.ID, UpdatePatch{Role: &good}, nil)
	require.NoError(t, err)
	assert.Equal(t, "librarian", updated.Role)
}

func TestDeleteMissingUser(t *testing.T) {
	svc := NewService(newMockRepository(), nil)

	err := svc.Delete(context.Background(), 12, nil)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}
