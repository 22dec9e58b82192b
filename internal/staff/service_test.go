package staff

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-erp/campus-erp/internal/platform/httpx"
)

type mockRepository struct {
	members map[int64]Staff
	byEmail map[string]int64
	nextID  int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		members: make(map[int64]Staff),
		byEmail: make(map[string]int64),
		nextID:  1,
	}
}

func (m *mockRepository) List(ctx context.Context, filters ListFilters) ([]Staff, int, error) {
	var out []Staff
	for _, s := range m.members {
		if filters.TenantID != nil && (s.TenantID == nil || *s.TenantID != *filters.TenantID) {
			continue
		}
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Staff, error) {
	s, ok := m.members[id]
	if !ok {
		return Staff{}, fmt.Errorf("%w: staff %d", httpx.ErrNotFound, id)
	}
	return s, nil
}

func (m *mockRepository) Create(ctx context.Context, s Staff) (Staff, error) {
	if _, exists := m.byEmail[s.Email]; exists {
		return Staff{}, fmt.Errorf("%w: staff already exists", httpx.ErrDuplicate)
	}
	s.ID = m.nextID
	m.nextID++
	m.members[s.ID] = s
	m.byEmail[s.Email] = s.ID
	return s, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, s Staff) error {
	if _, ok := m.members[id]; !ok {
		return fmt.Errorf("%w: staff %d", httpx.ErrNotFound, id)
	}
	s.ID = id
	m.members[id] = s
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.members[id]; !ok {
		return fmt.Errorf("%w: staff %d", httpx.ErrNotFound, id)
	}
	delete(m.members, id)
	return nil
}

func validForm() StaffForm {
	return StaffForm{
		Name:        "derek huang",
		Email:       " Derek.Huang@Example.com ",
		EmployeeID:  "EMP-01",
		Department:  "Science",
		Designation: "Teacher",
	}
}

func TestCreateNormalizesAndValidates(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	tenantID := int64(1)
	ctx := context.Background()

	created, err := svc.Create(ctx, validForm(), &tenantID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Derek Huang", created.Name)
	assert.Equal(t, "derek.huang@example.com", created.Email)
	assert.True(t, created.IsActive)

	form := validForm()
	form.Department = " "
	_, err = svc.Create(ctx, form, &tenantID, nil)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	tenantID := int64(1)
	ctx := context.Background()

	_, err := svc.Create(ctx, validForm(), &tenantID, nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, validForm(), &tenantID, nil)
	assert.ErrorIs(t, err, httpx.ErrDuplicate)
	assert.Len(t, repo.members, 1)
}

func TestGetScopedToTenant(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()
	tenantA, tenantB := int64(1), int64(2)

	created, err := svc.Create(ctx, validForm(), &tenantA, nil)
	require.NoError(t, err)

	_, err = svc.Get(ctx, created.ID, &tenantB)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestDeleteMissingStaff(t *testing.T) {
	svc := NewService(newMockRepository(), nil)

	err := svc.Delete(context.Background(), 404, nil, nil)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}
