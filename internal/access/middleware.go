package access

import (
	"log/slog"
	"net/http"

	"github.com/campus-erp/campus-erp/internal/platform/httpx"
	"github.com/campus-erp/campus-erp/internal/shared"
)

// Guard wires authorization helpers for HTTP handlers. It composes the
// identity hydrated by the token middleware with the module access table.
type Guard struct {
	Logger *slog.Logger
}

// RequireAuth ensures a caller is authenticated.
func (g Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shared.IdentityFromContext(r.Context()) == nil {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoles ensures the caller holds at least one of the given roles.
func (g Guard) RequireRoles(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := shared.IdentityFromContext(r.Context())
			if identity == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			role, err := ParseRole(identity.Role)
			if err != nil {
				if g.Logger != nil {
					g.Logger.Warn("guard unknown role", slog.String("role", identity.Role))
				}
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "unknown role")
				return
			}
			for _, required := range roles {
				if role == required {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "role not permitted")
		})
	}
}

// RequireModule ensures the caller's role is on the module's allow-list.
func (g Guard) RequireModule(moduleKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := shared.IdentityFromContext(r.Context())
			if identity == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			role, err := ParseRole(identity.Role)
			if err != nil || !HasModuleAccess(moduleKey, role) {
				if g.Logger != nil {
					g.Logger.Warn("guard module denied",
						slog.String("module", moduleKey),
						slog.String("role", identity.Role),
					)
				}
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "module not permitted for role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
