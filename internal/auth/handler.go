package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/campus-erp/campus-erp/internal/platform/httpx"
	"github.com/campus-erp/campus-erp/internal/shared"
	"github.com/campus-erp/campus-erp/internal/tenant"
)

// TenantDirectory resolves tenant metadata for login responses.
type TenantDirectory interface {
	Get(ctx context.Context, id int64) (tenant.Tenant, error)
}

// EmailEnqueuer queues transactional email jobs.
type EmailEnqueuer interface {
	EnqueueSendEmail(ctx context.Context, to, subject, body string) error
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	tokens    *shared.TokenStore
	tenants   TenantDirectory
	mailer    EmailEnqueuer
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, tokens *shared.TokenStore, tenants TenantDirectory, mailer EmailEnqueuer) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		tokens:    tokens,
		tenants:   tenants,
		mailer:    mailer,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/register", h.handleRegister)
	r.Post("/logout", h.handleLogout)
	r.Get("/me", h.handleMe)
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type registerForm struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"`
	TenantID *int64 `json:"tenant_id"`
}

type profileResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	TenantID   *int64 `json:"tenant_id,omitempty"`
	TenantSlug string `json:"tenant_slug,omitempty"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	user, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", shared.ErrInvalidCredentials.Error())
		return
	}

	identity := shared.Identity{
		UserID:   user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		TenantID: user.TenantID,
	}
	if user.TenantID != nil && h.tenants != nil {
		if t, err := h.tenants.Get(r.Context(), *user.TenantID); err == nil {
			identity.TenantSlug = t.Slug
		} else {
			h.logger.Warn("resolve tenant for login", slog.Any("error", err), slog.Int64("tenant_id", *user.TenantID))
		}
	}

	token, err := h.tokens.Issue(r.Context(), identity)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	expiresAt := time.Now().Add(h.tokens.TTL())
	if err := h.service.RegisterSession(r.Context(), token, user.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.Warn("register session", slog.Any("error", err))
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"expires_at": expiresAt.UTC(),
		"user": profileResponse{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			Role:       user.Role,
			TenantID:   user.TenantID,
			TenantSlug: identity.TenantSlug,
		},
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var form registerForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	result, err := h.service.Register(r.Context(), RegisterInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Role:     form.Role,
		TenantID: form.TenantID,
	})
	if err != nil {
		h.logger.Error("register failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	if result.Registered && h.mailer != nil {
		if err := h.mailer.EnqueueSendEmail(r.Context(), form.Email, "Welcome to Campus ERP", "Your account is ready."); err != nil {
			h.logger.Warn("enqueue welcome email", slog.Any("error", err))
		}
	}

	status := http.StatusCreated
	if !result.Registered {
		status = http.StatusOK
	}
	httpx.JSON(w, status, result)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity != nil {
		if err := h.tokens.Revoke(r.Context(), identity.Token); err != nil {
			h.logger.Warn("revoke token", slog.Any("error", err))
		}
		if err := h.service.RemoveSession(r.Context(), identity.Token); err != nil {
			h.logger.Warn("remove session", slog.Any("error", err))
		}
	}
	// Logout is idempotent: an unauthenticated call is still a success.
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	httpx.JSON(w, http.StatusOK, profileResponse{
		ID:         identity.UserID,
		Name:       identity.Name,
		Email:      identity.Email,
		Role:       identity.Role,
		TenantID:   identity.TenantID,
		TenantSlug: identity.TenantSlug,
	})
}
