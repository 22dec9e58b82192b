package tenant

import (
	"log/slog"
	"net/http"

	"github.com/campus-erp/campus-erp/internal/platform/httpx"
	"github.com/campus-erp/campus-erp/internal/shared"
)

// Middleware attaches tenant context to every request based on the path
// and the caller's sticky tenant affiliation.
type Middleware struct {
	Resolver *Resolver
	Tokens   *shared.TokenStore
	Logger   *slog.Logger
}

// Handler resolves the tenant for the request and rewrites context.
func (m Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		identity := shared.IdentityFromContext(ctx)

		res := m.Resolver.Resolve(ctx, r.URL.Path, identity)

		if res.ClearSticky && identity != nil && identity.TenantSlug != "" {
			if err := m.Tokens.ClearTenant(ctx, identity); err != nil && m.Logger != nil {
				m.Logger.Warn("clear sticky tenant", slog.Any("error", err))
			}
		}

		switch res.State {
		case StateValid:
			// A caller affiliated with one school may not scope requests to
			// another. Only super_admin crosses tenants.
			if identity != nil && !identity.HasRole("super_admin") &&
				identity.TenantID != nil && *identity.TenantID != res.Tenant.ID {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "school does not match your account")
				return
			}
			if identity != nil && identity.TenantSlug != res.Tenant.Slug {
				if err := m.Tokens.SetTenant(ctx, identity, res.Tenant.ID, res.Tenant.Slug); err != nil && m.Logger != nil {
					m.Logger.Warn("persist tenant affiliation", slog.Any("error", err))
				}
			}
			ctx = shared.ContextWithTenant(ctx, res.Tenant)
		case StateError:
			if m.Logger != nil {
				m.Logger.Error("resolve tenant", slog.String("path", r.URL.Path), slog.Any("error", res.Err))
			}
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		case StateInvalid:
			if !res.Silent {
				if m.Logger != nil {
					m.Logger.Info("invalid tenant slug", slog.String("path", r.URL.Path), slog.String("reason", res.Reason))
				}
				httpx.Problem(w, http.StatusNotFound, "Not Found", "school not found")
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
