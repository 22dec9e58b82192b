package tenant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/campus-erp/campus-erp/internal/platform/httpx"
	"github.com/campus-erp/campus-erp/internal/shared"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,62}$`)

var titleCaser = cases.Title(language.English)

// Service wraps tenant business rules.
type Service struct {
	repo  Repository
	audit *shared.AuditLogger
}

// NewService constructs a new Service.
func NewService(repo Repository, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns tenants matching the filters plus the total count.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Tenant, int, error) {
	return s.repo.List(ctx, filters)
}

// Get fetches one tenant by ID.
func (s *Service) Get(ctx context.Context, id int64) (Tenant, error) {
	if id <= 0 {
		return Tenant{}, fmt.Errorf("%w: invalid tenant id", httpx.ErrNotFound)
	}
	return s.repo.Get(ctx, id)
}

// GetBySlug fetches one active tenant by slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return Tenant{}, fmt.Errorf("%w: empty slug", httpx.ErrNotFound)
	}
	return s.repo.GetBySlug(ctx, slug)
}

// Create registers a new tenant. Only super_admin passes the route guard.
func (s *Service) Create(ctx context.Context, t Tenant, actor *shared.Identity) (Tenant, error) {
	t.Slug = strings.ToLower(strings.TrimSpace(t.Slug))
	t.Name = titleCaser.String(strings.TrimSpace(t.Name))
	t.ContactEmail = strings.ToLower(strings.TrimSpace(t.ContactEmail))
	if err := s.validate(t); err != nil {
		return Tenant{}, err
	}
	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return Tenant{}, err
	}
	s.recordAudit(ctx, actor, "tenant.create", created.ID)
	return created, nil
}

// UpdatePatch carries a partial tenant update. Nil fields are untouched.
type UpdatePatch struct {
	Slug         *string
	Name         *string
	Address      *string
	ContactEmail *string
	IsActive     *bool
}

// Update applies a partial update. Only a super_admin may change the slug.
func (s *Service) Update(ctx context.Context, id int64, patch UpdatePatch, actor *shared.Identity, actorIsSuper bool) (Tenant, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Tenant{}, err
	}
	if patch.Slug != nil {
		if !actorIsSuper {
			return Tenant{}, fmt.Errorf("%w: only super admin may change the slug", httpx.ErrForbidden)
		}
		current.Slug = strings.ToLower(strings.TrimSpace(*patch.Slug))
	}
	if patch.Name != nil {
		current.Name = titleCaser.String(strings.TrimSpace(*patch.Name))
	}
	if patch.Address != nil {
		current.Address = strings.TrimSpace(*patch.Address)
	}
	if patch.ContactEmail != nil {
		current.ContactEmail = strings.ToLower(strings.TrimSpace(*patch.ContactEmail))
	}
	if patch.IsActive != nil {
		current.IsActive = *patch.IsActive
	}
	if err := s.validate(current); err != nil {
		return Tenant{}, err
	}
	if err := s.repo.Update(ctx, id, current); err != nil {
		return Tenant{}, err
	}
	s.recordAudit(ctx, actor, "tenant.update", id)
	return current, nil
}

// Delete removes a tenant by ID.
func (s *Service) Delete(ctx context.Context, id int64, actor *shared.Identity) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid tenant id", httpx.ErrNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actor, "tenant.delete", id)
	return nil
}

func (s *Service) validate(t Tenant) error {
	if !slugPattern.MatchString(t.Slug) {
		return fmt.Errorf("%w: slug must be lowercase letters, digits and dashes", httpx.ErrValidation)
	}
	if _, reserved := reservedRoutes[t.Slug]; reserved {
		return fmt.Errorf("%w: slug %q is a reserved route", httpx.ErrValidation, t.Slug)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: tenant name is required", httpx.ErrValidation)
	}
	return nil
}

func (s *Service) recordAudit(ctx context.Context, actor *shared.Identity, action string, id int64) {
	if s.audit == nil || actor == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.UserID,
		Action:   action,
		Entity:   "tenant",
		EntityID: fmt.Sprintf("%d", id),
	})
}
