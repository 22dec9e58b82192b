package attendance

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/campus-erp/campus-erp/internal/access"
	"github.com/campus-erp/campus-erp/internal/platform/httpx"
	"github.com/campus-erp/campus-erp/internal/shared"
)

// Handler wires HTTP endpoints for attendance.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     access.Guard
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard access.Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers attendance routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.guard.RequireModule("attendance"))
	r.Get("/", h.list)
	r.Post("/", h.mark)
	r.Get("/summary", h.summary)
}

type markForm struct {
	StudentID int64  `json:"student_id" validate:"required,gt=0"`
	Date      string `json:"date" validate:"required"`
	Status    string `json:"status" validate:"required"`
	Note      string `json:"note"`
}

func (h *Handler) mark(w http.ResponseWriter, r *http.Request) {
	var form markForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	rec, err := h.service.Mark(r.Context(), MarkInput{
		StudentID: form.StudentID,
		Date:      form.Date,
		Status:    form.Status,
		Note:      form.Note,
	}, scopedTenantID(r), shared.IdentityFromContext(r.Context()), r.Header.Get("Idempotency-Key"))
	if err != nil {
		h.logger.Error("mark attendance failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters, err := filtersFromQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	records, err := h.service.List(r.Context(), filters)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if records == nil {
		records = []Record{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"records": records})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	filters, err := filtersFromQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	summary, err := h.service.Summarize(r.Context(), filters)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func filtersFromQuery(r *http.Request) (ListFilters, error) {
	filters := ListFilters{TenantID: scopedTenantID(r)}
	if raw := r.URL.Query().Get("student_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return ListFilters{}, httpx.ErrValidation
		}
		filters.StudentID = &id
	}
	for _, q := range []struct {
		name string
		dst  **time.Time
	}{
		{"date", &filters.Date},
		{"from", &filters.From},
		{"to", &filters.To},
	} {
		raw := r.URL.Query().Get(q.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return ListFilters{}, httpx.ErrValidation
		}
		*q.dst = &t
	}
	return filters, nil
}

func scopedTenantID(r *http.Request) *int64 {
	if t := shared.TenantFromContext(r.Context()); t != nil {
		id := t.ID
		return &id
	}
	if identity := shared.IdentityFromContext(r.Context()); identity != nil && identity.TenantID != nil {
		return identity.TenantID
	}
	return nil
}
