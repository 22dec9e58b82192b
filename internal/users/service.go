package users

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/campus-erp/campus-erp/internal/access"
	"github.com/campus-erp/campus-erp/internal/platform/httpx"
	"github.com/campus-erp/campus-erp/internal/shared"
)

// Service handles user administration business logic.
type Service struct {
	repo  RepositoryPort
	audit *shared.AuditLogger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns users for validated filters. Page must be >= 1 and
// limit within [1,100]; out-of-range values are rejected, not clamped.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]User, int, error) {
	if filters.Page < 1 {
		return nil, 0, fmt.Errorf("%w: page must be >= 1", httpx.ErrValidation)
	}
	if filters.Limit < 1 || filters.Limit > 100 {
		return nil, 0, fmt.Errorf("%w: limit must be between 1 and 100", httpx.ErrValidation)
	}
	if filters.Role != "" {
		if _, err := access.ParseRole(filters.Role); err != nil {
			return nil, 0, fmt.Errorf("%w: unknown role filter", httpx.ErrValidation)
		}
	}
	return s.repo.List(ctx, filters)
}

// Get fetches one user by ID.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	if id <= 0 {
		return User{}, fmt.Errorf("%w: invalid user id", httpx.ErrNotFound)
	}
	return s.repo.Get(ctx, id)
}

// CreateInput carries the fields for a new account.
type CreateInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	TenantID *int64
}

// Create inserts a new account with a validated role.
func (s *Service) Create(ctx context.Context, input CreateInput, actor *shared.Identity) (User, error) {
	role, err := access.ParseRole(input.Role)
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	if len(input.Password) < 8 {
		return User{}, fmt.Errorf("%w: password must be at least 8 characters", httpx.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	created, err := s.repo.Create(ctx, User{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Role:     string(role),
		TenantID: input.TenantID,
		IsActive: true,
	}, string(hash))
	if err != nil {
		return User{}, err
	}
	s.recordAudit(ctx, actor, "user.create", created.ID)
	return created, nil
}

// UpdatePatch carries a partial user update. Nil fields are untouched.
type UpdatePatch struct {
	Name     *string
	Email    *string
	Role     *string
	TenantID *int64
	IsActive *bool
}

// Update applies a partial update; a supplied role must parse.
func (s *Service) Update(ctx context.Context, id int64, patch UpdatePatch, actor *shared.Identity) (User, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if patch.Name != nil {
		current.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		current.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if patch.Role != nil {
		role, err := access.ParseRole(*patch.Role)
		if err != nil {
			return User{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
		}
		current.Role = string(role)
	}
	if patch.TenantID != nil {
		current.TenantID = patch.TenantID
	}
	if patch.IsActive != nil {
		current.IsActive = *patch.IsActive
	}
	if current.Name == "" || current.Email == "" {
		return User{}, fmt.Errorf("%w: name and email are required", httpx.ErrValidation)
	}
	if err := s.repo.Update(ctx, id, current); err != nil {
		return User{}, err
	}
	s.recordAudit(ctx, actor, "user.update", id)
	return current, nil
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, id int64, actor *shared.Identity) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid user id", httpx.ErrNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actor, "user.delete", id)
	return nil
}

func (s *Service) recordAudit(ctx context.Context, actor *shared.Identity, action string, id int64) {
	if s.audit == nil || actor == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.UserID,
		TenantID: actor.TenantID,
		Action:   action,
		Entity:   "user",
		EntityID: fmt.Sprintf("%d", id),
	})
}
