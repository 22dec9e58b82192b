package staff

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/campus-erp/campus-erp/internal/platform/httpx"
	"github.com/campus-erp/campus-erp/internal/shared"
)

var titleCaser = cases.Title(language.English)

// Service wraps staff business rules.
type Service struct {
	repo  Repository
	audit *shared.AuditLogger
}

// NewService constructs a new Service.
func NewService(repo Repository, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns staff matching the filters plus the total count.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Staff, int, error) {
	return s.repo.List(ctx, filters)
}

// Get fetches one staff member, tenant-scoped when a tenant applies.
func (s *Service) Get(ctx context.Context, id int64, tenantID *int64) (Staff, error) {
	if id <= 0 {
		return Staff{}, fmt.Errorf("%w: invalid staff id", httpx.ErrNotFound)
	}
	member, err := s.repo.Get(ctx, id)
	if err != nil {
		return Staff{}, err
	}
	if !sameTenant(member.TenantID, tenantID) {
		return Staff{}, fmt.Errorf("%w: staff %d", httpx.ErrNotFound, id)
	}
	return member, nil
}

// Create inserts a new staff record.
func (s *Service) Create(ctx context.Context, form StaffForm, tenantID *int64, actor *shared.Identity) (Staff, error) {
	member := Staff{
		TenantID:    tenantID,
		Name:        titleCaser.String(strings.TrimSpace(form.Name)),
		Email:       strings.ToLower(strings.TrimSpace(form.Email)),
		EmployeeID:  strings.TrimSpace(form.EmployeeID),
		Department:  strings.TrimSpace(form.Department),
		Designation: strings.TrimSpace(form.Designation),
		Phone:       strings.TrimSpace(form.Phone),
		JoinDate:    form.JoinDate,
		IsActive:    true,
	}
	if err := s.validate(member); err != nil {
		return Staff{}, err
	}
	created, err := s.repo.Create(ctx, member)
	if err != nil {
		return Staff{}, err
	}
	s.recordAudit(ctx, actor, "staff.create", created.ID)
	return created, nil
}

// Update applies a partial update; only supplied fields overwrite.
func (s *Service) Update(ctx context.Context, id int64, patch StaffPatch, tenantID *int64, actor *shared.Identity) (Staff, error) {
	current, err := s.Get(ctx, id, tenantID)
	if err != nil {
		return Staff{}, err
	}
	if patch.Name != nil {
		current.Name = titleCaser.String(strings.TrimSpace(*patch.Name))
	}
	if patch.Email != nil {
		current.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if patch.EmployeeID != nil {
		current.EmployeeID = strings.TrimSpace(*patch.EmployeeID)
	}
	if patch.Department != nil {
		current.Department = strings.TrimSpace(*patch.Department)
	}
	if patch.Designation != nil {
		current.Designation = strings.TrimSpace(*patch.Designation)
	}
	if patch.Phone != nil {
		current.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.JoinDate != nil {
		current.JoinDate = patch.JoinDate
	}
	if patch.IsActive != nil {
		current.IsActive = *patch.IsActive
	}
	if err := s.validate(current); err != nil {
		return Staff{}, err
	}
	if err := s.repo.Update(ctx, id, current); err != nil {
		return Staff{}, err
	}
	s.recordAudit(ctx, actor, "staff.update", id)
	return current, nil
}

// Delete removes a staff record.
func (s *Service) Delete(ctx context.Context, id int64, tenantID *int64, actor *shared.Identity) error {
	if _, err := s.Get(ctx, id, tenantID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actor, "staff.delete", id)
	return nil
}

func (s *Service) validate(m Staff) error {
	if m.Name == "" {
		return fmt.Errorf("%w: staff name is required", httpx.ErrValidation)
	}
	if m.Email == "" {
		return fmt.Errorf("%w: staff email is required", httpx.ErrValidation)
	}
	if m.EmployeeID == "" {
		return fmt.Errorf("%w: employee id is required", httpx.ErrValidation)
	}
	if m.Department == "" {
		return fmt.Errorf("%w: department is required", httpx.ErrValidation)
	}
	return nil
}

func sameTenant(record, scope *int64) bool {
	if scope == nil {
		return true
	}
	return record != nil && *record == *scope
}

func (s *Service) recordAudit(ctx context.Context, actor *shared.Identity, action string, id int64) {
	if s.audit == nil || actor == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.UserID,
		TenantID: actor.TenantID,
		Action:   action,
		Entity:   "staff",
		EntityID: fmt.Sprintf("%d", id),
	})
}
