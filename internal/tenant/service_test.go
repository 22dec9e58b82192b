package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-erp/campus-erp/internal/platform/httpx"
)

func newTestService() (*Service, *stubRepository) {
	repo := &stubRepository{bySlug: map[string]Tenant{
		"greenfield": {ID: 1, Slug: "greenfield", Name: "Greenfield High", IsActive: true},
	}}
	return NewService(repo, nil), repo
}

func TestCreateNormalizesSlugAndName(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), Tenant{
		Slug:         " Riverdale ",
		Name:         "riverdale academy",
		ContactEmail: " Office@Riverdale.example ",
		IsActive:     true,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "riverdale", created.Slug)
	assert.Equal(t, "Riverdale Academy", created.Name)
	assert.Equal(t, "office@riverdale.example", created.ContactEmail)
}

func TestCreateRejectsBadSlug(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, slug := range []string{"", "a", "Has Spaces", "под-школа", "trailing/"} {
		_, err := svc.Create(ctx, Tenant{Slug: slug, Name: "Some School"}, nil)
		assert.ErrorIs(t, err, httpx.ErrValidation, "slug %q", slug)
	}
}

func TestCreateRejectsReservedSlug(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// Reserved first path segments can never resolve as schools.
	for _, slug := range []string{"students", "api", "admin", "metrics", "login"} {
		_, err := svc.Create(ctx, Tenant{Slug: slug, Name: "Some School"}, nil)
		assert.ErrorIs(t, err, httpx.ErrValidation, "slug %q", slug)
	}
}

func TestUpdateSlugRequiresSuperAdmin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	newSlug := "green-hill"

	_, err := svc.Update(ctx, 1, UpdatePatch{Slug: &newSlug}, nil, false)
	assert.ErrorIs(t, err, httpx.ErrForbidden)

	updated, err := svc.Update(ctx, 1, UpdatePatch{Slug: &newSlug}, nil, true)
	require.NoError(t, err)
	assert.Equal(t, "green-hill", updated.Slug)
}

func TestGetBySlugNormalizesInput(t *testing.T) {
	svc, _ := newTestService()

	found, err := svc.GetBySlug(context.Background(), "  GREENFIELD ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), found.ID)

	_, err = svc.GetBySlug(context.Background(), "")
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}
