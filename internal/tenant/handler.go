package tenant

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/campus-erp/campus-erp/internal/access"
	"github.com/campus-erp/campus-erp/internal/platform/httpx"
	"github.com/campus-erp/campus-erp/internal/shared"
)

// Handler wires HTTP endpoints for tenant management.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	resolver  *Resolver
	guard     access.Guard
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, resolver *Resolver, guard access.Guard) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		resolver:  resolver,
		guard:     guard,
		validator: validator.New(),
	}
}

type tenantForm struct {
	Slug         string `json:"slug" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Address      string `json:"address"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
}

type tenantPatch struct {
	Slug         *string `json:"slug"`
	Name         *string `json:"name"`
	Address      *string `json:"address"`
	ContactEmail *string `json:"contact_email"`
	IsActive     *bool   `json:"is_active"`
}

// MountRoutes registers tenant routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/slug/{slug}", h.getBySlug)

	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRoles(access.RoleSuperAdmin, access.RoleSchoolAdmin))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Patch("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRoles(access.RoleSuperAdmin))
		r.Post("/", h.create)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}
	filters := ListFilters{
		Page:   page,
		Limit:  limit,
		Search: r.URL.Query().Get("search"),
	}
	tenants, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list tenants failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if tenants == nil {
		tenants = []Tenant{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"tenants":    tenants,
		"pagination": shared.NewPagination(page, limit, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "invalid tenant id")
		return
	}
	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func (h *Handler) getBySlug(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form tenantForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), Tenant{
		Slug:         form.Slug,
		Name:         form.Name,
		Address:      form.Address,
		ContactEmail: form.ContactEmail,
		IsActive:     true,
	}, shared.IdentityFromContext(r.Context()))
	if err != nil {
		h.logger.Error("create tenant failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "invalid tenant id")
		return
	}
	var patch tenantPatch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	identity := shared.IdentityFromContext(r.Context())
	previous, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	updated, err := h.service.Update(r.Context(), id, UpdatePatch{
		Slug:         patch.Slug,
		Name:         patch.Name,
		Address:      patch.Address,
		ContactEmail: patch.ContactEmail,
		IsActive:     patch.IsActive,
	}, identity, identity.HasRole(string(access.RoleSuperAdmin)))
	if err != nil {
		h.logger.Error("update tenant failed", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	// A renamed or re-slugged tenant must not be served from cache.
	if err := h.resolver.ClearCache(r.Context(), previous.Slug); err != nil {
		h.logger.Warn("clear tenant cache", slog.Any("error", err))
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "invalid tenant id")
		return
	}
	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id, shared.IdentityFromContext(r.Context())); err != nil {
		h.logger.Error("delete tenant failed", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	if err := h.resolver.ClearCache(r.Context(), t.Slug); err != nil {
		h.logger.Warn("clear tenant cache", slog.Any("error", err))
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "tenant deleted"})
}
