package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus-erp/campus-erp/internal/shared"
)

type mockRepository struct {
	usersByEmail map[string]*User
	nextID       int64
	sessions     map[string]int64

	createErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		usersByEmail: make(map[string]*User),
		sessions:     make(map[string]int64),
		nextID:       1,
	}
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := m.usersByEmail[email]
	if !ok {
		return nil, errors.New("no rows")
	}
	return u, nil
}

func (m *mockRepository) CreateUser(ctx context.Context, user User) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	if _, exists := m.usersByEmail[user.Email]; exists {
		return 0, shared.ErrAlreadyRegistered
	}
	user.ID = m.nextID
	m.nextID++
	m.usersByEmail[user.Email] = &user
	return user.ID, nil
}

func (m *mockRepository) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	m.sessions[id] = userID
	return nil
}

func (m *mockRepository) DeleteSession(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func seedUser(t *testing.T, repo *mockRepository, email, password string, active bool) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &User{
		ID:           repo.nextID,
		Name:         "Seeded User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         "teacher",
		IsActive:     active,
	}
	repo.nextID++
	repo.usersByEmail[email] = u
	return u
}

func TestAuthenticateSuccess(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "jo@example.com", "correct horse", true)
	svc := NewService(repo)

	user, err := svc.Authenticate(context.Background(), "  JO@example.com ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "jo@example.com", user.Email)
}

func TestAuthenticateFailuresAreUniform(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "jo@example.com", "correct horse", true)
	seedUser(t, repo, "gone@example.com", "whatever", false)
	svc := NewService(repo)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "correct horse"},
		{"wrong password", "jo@example.com", "wrong"},
		{"inactive account", "gone@example.com", "whatever"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), tc.email, tc.password)
			assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
		})
	}
}

func TestRegisterDefaultsToStudentRole(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	result, err := svc.Register(context.Background(), RegisterInput{
		Name:     "New Kid",
		Email:    "KID@Example.com",
		Password: "longenough1",
	})
	require.NoError(t, err)
	assert.True(t, result.Registered)

	stored := repo.usersByEmail["kid@example.com"]
	require.NotNil(t, stored)
	assert.Equal(t, "student", stored.Role)
	assert.True(t, stored.IsActive)
	assert.NotEqual(t, "longenough1", stored.PasswordHash)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "X",
		Email:    "x@example.com",
		Password: "longenough1",
		Role:     "warlord",
	})
	assert.Error(t, err)
}

func TestRegisterDuplicateEmailIsNotAnError(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "jo@example.com", "correct horse", true)
	svc := NewService(repo)

	result, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Jo Again",
		Email:    "jo@example.com",
		Password: "longenough1",
	})
	require.NoError(t, err)
	assert.False(t, result.Registered)
	assert.Equal(t, shared.ErrAlreadyRegistered.Error(), result.Reason)
}

func TestSessionLifecycle(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.RegisterSession(ctx, "tok-1", 42, time.Now().Add(time.Hour), "127.0.0.1", "go-test"))
	assert.Equal(t, int64(42), repo.sessions["tok-1"])

	require.NoError(t, svc.RemoveSession(ctx, "tok-1"))
	_, exists := repo.sessions["tok-1"]
	assert.False(t, exists)
}
