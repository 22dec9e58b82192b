package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/campus-erp/campus-erp/internal/access"
	"github.com/campus-erp/campus-erp/internal/attendance"
	"github.com/campus-erp/campus-erp/internal/auth"
	"github.com/campus-erp/campus-erp/internal/observability"
	"github.com/campus-erp/campus-erp/internal/shared"
	"github.com/campus-erp/campus-erp/internal/staff"
	"github.com/campus-erp/campus-erp/internal/students"
	"github.com/campus-erp/campus-erp/internal/tenant"
	"github.com/campus-erp/campus-erp/internal/users"
	"github.com/campus-erp/campus-erp/jobs"
	"github.com/campus-erp/campus-erp/report"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config
	Tokens *shared.TokenStore
	Guard  access.Guard

	TenantMiddleware tenant.Middleware

	AuthHandler       *auth.Handler
	AccessHandler     *access.Handler
	TenantHandler     *tenant.Handler
	StudentsHandler   *students.Handler
	StaffHandler      *staff.Handler
	UsersHandler      *users.Handler
	AttendanceHandler *attendance.Handler
	ReportHandler     *report.Handler
	JobHandler        *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Campus defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Tokens:  params.Tokens,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.Use(params.TenantMiddleware.Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/modules", params.AccessHandler.MountRoutes)
		r.Route("/tenants", params.TenantHandler.MountRoutes)
		r.Route("/students", params.StudentsHandler.MountRoutes)
		r.Route("/staff", params.StaffHandler.MountRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/attendance", params.AttendanceHandler.MountRoutes)
		if params.ReportHandler != nil {
			r.Route("/report", params.ReportHandler.MountRoutes)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", func(r chi.Router) {
				r.Use(params.Guard.RequireRoles(access.RoleSuperAdmin))
				params.JobHandler.MountRoutes(r)
			})
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
