package students

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

// Service wraps student business rules.
type Service struct {
	repo  Repository
	audit *shared.AuditLogger
}

// NewService constructs a new Service.
func NewService(repo Repository, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns students matching the filters plus the total count.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Student, int, error) {
	return s.repo.List(ctx, filters)
}

// Get fetches one student by ID, tenant-scoped when a tenant applies.
func (s *Service) Get(ctx context.Context, id int64, tenantID *int64) (Student, error) {
	if id <= 0 {
		return Student{}, fmt.Errorf("%w: invalid student id", httpx.ErrNotFound)
	}
	student, err := s.repo.Get(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if !sameTenant(student.TenantID, tenantID) {
		return Student{}, fmt.Errorf("%w: student %d", httpx.ErrNotFound, id)
	}
	return student, nil
}

// Create inserts a new student record.
func (s *Service) Create(ctx context.Context, form StudentForm, tenantID *int64, actor *shared.Identity) (Student, error) {
	student := Student{
		TenantID:      tenantID,
		Name:          titleCaser.String(strings.TrimSpace(form.Name)),
		Email:         strings.ToLower(strings.TrimSpace(form.Email)),
		RollNumber:    strings.TrimSpace(form.RollNumber),
		Department:    strings.TrimSpace(form.Department),
		Class:         strings.TrimSpace(form.Class),
		Section:       strings.TrimSpace(form.Section),
		GuardianName:  strings.TrimSpace(form.GuardianName),
		GuardianPhone: strings.TrimSpace(form.GuardianPhone),
		AdmissionDate: form.AdmissionDate,
		IsActive:      true,
	}
	if err := s.validate(student); err != nil {
		return Student{}, err
	}
	created, err := s.repo.Create(ctx, student)
	if err != nil {
		return Student{}, err
	}
	s.recordAudit(ctx, actor, "student.create", created.ID)
	return created, nil
}

// Update applies a partial update; only supplied fields overwrite.
func (s *Service) Update(ctx context.Context, id int64, patch StudentPatch, tenantID *int64, actor *shared.Identity) (Student, error) {
	current, err := s.Get(ctx, id, tenantID)
	if err != nil {
		return Student{}, err
	}
	if patch.Name != nil {
		current.Name = titleCaser.String(strings.TrimSpace(*patch.Name))
	}
	if patch.Email != nil {
		current.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if patch.RollNumber != nil {
		current.RollNumber = strings.TrimSpace(*patch.RollNumber)
	}
	if patch.Department != nil {
		current.Department = strings.TrimSpace(*patch.Department)
	}
	if patch.Class != nil {
		current.Class = strings.TrimSpace(*patch.Class)
	}
	if patch.Section != nil {
		current.Section = strings.TrimSpace(*patch.Section)
	}
	if patch.GuardianName != nil {
		current.GuardianName = strings.TrimSpace(*patch.GuardianName)
	}
	if patch.GuardianPhone != nil {
		current.GuardianPhone = strings.TrimSpace(*patch.GuardianPhone)
	}
	if patch.AdmissionDate != nil {
		current.AdmissionDate = patch.AdmissionDate
	}
	if patch.IsActive != nil {
		current.IsActive = *patch.IsActive
	}
	if err := s.validate(current); err != nil {
		return Student{}, err
	}
	if err := s.repo.Update(ctx, id, current); err != nil {
		return Student{}, err
	}
	s.recordAudit(ctx, actor, "student.update", id)
	return current, nil
}

// Delete removes a student record.
func (s *Service) Delete(ctx context.Context, id int64, tenantID *int64, actor *shared.Identity) error {
	if _, err := s.Get(ctx, id, tenantID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actor, "student.delete", id)
	return nil
}

func (s *Service) validate(st Student) error {
	if st.Name == "" {
		return fmt.Errorf("%w: student name is required", httpx.ErrValidation)
	}
	if st.Email == "" {
		return fmt.Errorf("%w: student email is required", httpx.ErrValidation)
	}
	if st.RollNumber == "" {
		return fmt.Errorf("%w: roll number is required", httpx.ErrValidation)
	}
	if st.Department == "" {
		return fmt.Errorf("%w: department is required", httpx.ErrValidation)
	}
	return nil
}

// sameTenant allows platform-wide access when no tenant is in context.
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
		Entity:   "student",
		EntityID: fmt.Sprintf("%d", id),
	})
}
