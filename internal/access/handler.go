package access

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campus-erp/campus-erp/internal/platform/httpx"
	"github.com/campus-erp/campus-erp/internal/shared"
)

// Handler exposes the module registry over HTTP.
type Handler struct {
	logger *slog.Logger
	guard  Guard
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, guard Guard) *Handler {
	return &Handler{logger: logger, guard: guard}
}

// MountRoutes registers module routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.RequireAuth).Get("/", h.listAccessible)
}

func (h *Handler) listAccessible(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	role, err := ParseRole(identity.Role)
	if err != nil {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "unknown role")
		return
	}
	modules := AccessibleModules(role)
	if modules == nil {
		modules = []Module{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"role":    role,
		"modules": modules,
	})
}
