package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/campus-erp/campus-erp/internal/access"
	"github.com/campus-erp/campus-erp/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials. Unknown accounts,
// inactive accounts and bad passwords are indistinguishable to callers.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// RegisterInput carries the fields for a registration attempt.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	TenantID *int64
}

// Register creates a new account. An already-registered email yields a
// failure result instead of an error; any other failure propagates.
func (s *Service) Register(ctx context.Context, input RegisterInput) (RegistrationResult, error) {
	role := access.RoleStudent
	if input.Role != "" {
		parsed, err := access.ParseRole(input.Role)
		if err != nil {
			return RegistrationResult{}, err
		}
		role = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return RegistrationResult{}, err
	}

	id, err := s.repo.CreateUser(ctx, User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		Role:         string(role),
		TenantID:     input.TenantID,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, shared.ErrAlreadyRegistered) {
			return RegistrationResult{Registered: false, Reason: shared.ErrAlreadyRegistered.Error()}, nil
		}
		return RegistrationResult{}, err
	}
	return RegistrationResult{Registered: true, UserID: id}, nil
}

// RegisterSession persists the session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, userID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}
