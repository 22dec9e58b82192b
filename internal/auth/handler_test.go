package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-erp/campus-erp/internal/shared"
)

type capturedMail struct {
	to      string
	subject string
}

type stubMailer struct {
	sent []capturedMail
}

func (m *stubMailer) EnqueueSendEmail(ctx context.Context, to, subject, body string) error {
	m.sent = append(m.sent, capturedMail{to: to, subject: subject})
	return nil
}

func newTestHandler(t *testing.T, repo *mockRepository) (*Handler, *shared.TokenStore, *stubMailer) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tokens := shared.NewTokenStore(client, "test-secret", time.Hour)
	mailer := &stubMailer{}
	logger := slog.New(slog.DiscardHandler)
	handler := NewHandler(logger, NewService(repo), tokens, nil, mailer)
	return handler, tokens, mailer
}

func mountAuth(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/auth", h.MountRoutes)
	return r
}

func TestLoginIssuesToken(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "jo@example.com", "correct horse", true)
	handler, tokens, _ := newTestHandler(t, repo)
	router := mountAuth(handler)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"jo@example.com","password":"correct horse"}`))
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	assert.Equal(t, "jo@example.com", body.User.Email)

	identity, err := tokens.Load(context.Background(), body.Token)
	require.NoError(t, err)
	assert.Equal(t, "teacher", identity.Role)

	// The session row mirrors the issued token.
	assert.Contains(t, repo.sessions, body.Token)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "jo@example.com", "correct horse", true)
	handler, _, _ := newTestHandler(t, repo)
	router := mountAuth(handler)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"jo@example.com","password":"wrongwrong"}`))
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid credentials")
}

func TestRegisterSendsWelcomeEmail(t *testing.T) {
	repo := newMockRepository()
	handler, _, mailer := newTestHandler(t, repo)
	router := mountAuth(handler)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"name":"New Kid","email":"kid@example.com","password":"longenough1"}`))
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "kid@example.com", mailer.sent[0].to)
}

func TestRegisterDuplicateAnswersOKWithoutEmail(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "jo@example.com", "correct horse", true)
	handler, _, mailer := newTestHandler(t, repo)
	router := mountAuth(handler)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"name":"Jo","email":"jo@example.com","password":"longenough1"}`))
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, mailer.sent)

	var result RegistrationResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.False(t, result.Registered)
}

func TestLogoutIsIdempotent(t *testing.T) {
	repo := newMockRepository()
	handler, tokens, _ := newTestHandler(t, repo)
	router := mountAuth(handler)
	ctx := context.Background()

	token, err := tokens.Issue(ctx, shared.Identity{UserID: 1, Role: "teacher"})
	require.NoError(t, err)
	identity, err := tokens.Load(ctx, token)
	require.NoError(t, err)

	// Authenticated logout revokes the token.
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req = req.WithContext(shared.ContextWithIdentity(req.Context(), identity))
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	_, err = tokens.Load(ctx, token)
	assert.ErrorIs(t, err, shared.ErrTokenNotFound)

	// Logging out again, now unauthenticated, still succeeds.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestMeRequiresAuthentication(t *testing.T) {
	handler, _, _ := newTestHandler(t, newMockRepository())
	router := mountAuth(handler)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	identity := &shared.Identity{UserID: 4, Name: "Jo", Email: "jo@example.com", Role: "teacher"}
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req = req.WithContext(shared.ContextWithIdentity(req.Context(), identity))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var profile struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, "jo@example.com", profile.Email)
}
