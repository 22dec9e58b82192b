package report

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campus-erp/campus-erp/internal/access"
	"github.com/campus-erp/campus-erp/internal/shared"
	"github.com/campus-erp/campus-erp/internal/students"
)

// Handler manages report endpoints.
type Handler struct {
	client   *Client
	students *students.Service
	guard    access.Guard
	logger   *slog.Logger
}

// NewHandler creates a report handler.
func NewHandler(client *Client, studentService *students.Service, guard access.Guard, logger *slog.Logger) *Handler {
	return &Handler{client: client, students: studentService, guard: guard, logger: logger}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ping", h.ping)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRoles(access.RoleSuperAdmin, access.RoleSchoolAdmin))
		r.Get("/students", h.studentRoster)
	})
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Ping(r.Context()); err != nil {
		h.logger.Warn("pdf renderer ping failed", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

var rosterTemplate = template.Must(template.New("roster").Parse(`<html>
<head><title>Student Roster</title></head>
<body>
<h1>{{.School}} Student Roster</h1>
<p>Generated at {{.GeneratedAt}}</p>
<table border="1" cellpadding="4" cellspacing="0">
<tr><th>Roll No</th><th>Name</th><th>Class</th><th>Section</th><th>Department</th><th>Guardian</th></tr>
{{range .Students}}<tr><td>{{.RollNumber}}</td><td>{{.Name}}</td><td>{{.Class}}</td><td>{{.Section}}</td><td>{{.Department}}</td><td>{{.GuardianName}}</td></tr>
{{end}}</table>
</body>
</html>`))

func (h *Handler) studentRoster(w http.ResponseWriter, r *http.Request) {
	filters := students.ListFilters{
		Class: r.URL.Query().Get("class"),
	}
	school := "Campus"
	if t := shared.TenantFromContext(r.Context()); t != nil {
		id := t.ID
		filters.TenantID = &id
		school = t.Name
	} else if identity := shared.IdentityFromContext(r.Context()); identity != nil && identity.TenantID != nil {
		filters.TenantID = identity.TenantID
	}

	list, _, err := h.students.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("load roster", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf strings.Builder
	err = rosterTemplate.Execute(&buf, map[string]any{
		"School":      school,
		"GeneratedAt": time.Now().Format(time.RFC1123),
		"Students":    list,
	})
	if err != nil {
		h.logger.Error("render roster html", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	pdf, err := h.client.RenderHTML(r.Context(), buf.String())
	if err != nil {
		h.logger.Error("render roster pdf", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=student-roster.pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
