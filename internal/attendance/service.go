package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campus-erp/campus-erp/internal/platform/httpx"
	"github.com/campus-erp/campus-erp/internal/shared"
)

// Service enforces attendance business rules.
type Service struct {
	repo        Repository
	idempotency *shared.IdempotencyStore
	audit       *shared.AuditLogger
}

// NewService constructs a new Service.
func NewService(repo Repository, idempotency *shared.IdempotencyStore, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, idempotency: idempotency, audit: audit}
}

// MarkInput carries one attendance mark.
type MarkInput struct {
	StudentID int64
	Date      string
	Status    string
	Note      string
}

// Mark records attendance for one student on one day. Re-marking the
// same student and day overwrites the earlier status. An optional
// idempotency key makes whole-request retries no-ops.
func (s *Service) Mark(ctx context.Context, input MarkInput, tenantID *int64, actor *shared.Identity, idempotencyKey string) (Record, error) {
	if actor == nil {
		return Record{}, httpx.ErrUnauthorized
	}
	if input.StudentID <= 0 {
		return Record{}, fmt.Errorf("%w: student_id is required", httpx.ErrValidation)
	}
	status, err := ParseStatus(input.Status)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	date, err := parseDay(input.Date)
	if err != nil {
		return Record{}, fmt.Errorf("%w: date must be YYYY-MM-DD", httpx.ErrValidation)
	}
	if idempotencyKey != "" {
		if err := s.idempotency.CheckAndInsert(ctx, idempotencyKey, "attendance"); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				return Record{}, fmt.Errorf("%w: attendance already recorded for this request", httpx.ErrDuplicate)
			}
			return Record{}, err
		}
	}
	rec, err := s.repo.Upsert(ctx, Record{
		TenantID:   tenantID,
		StudentID:  input.StudentID,
		Date:       date,
		Status:     status,
		Note:       input.Note,
		RecordedBy: actor.UserID,
	})
	if err != nil {
		return Record{}, err
	}
	s.recordAudit(ctx, actor, "attendance.mark", rec.ID)
	return rec, nil
}

// List returns attendance records for the filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Record, error) {
	if filters.From != nil && filters.To != nil && filters.To.Before(*filters.From) {
		return nil, fmt.Errorf("%w: to must not precede from", httpx.ErrValidation)
	}
	return s.repo.List(ctx, filters)
}

// Summarize aggregates status counts over the filters.
func (s *Service) Summarize(ctx context.Context, filters ListFilters) (Summary, error) {
	if filters.From != nil && filters.To != nil && filters.To.Before(*filters.From) {
		return Summary{}, fmt.Errorf("%w: to must not precede from", httpx.ErrValidation)
	}
	return s.repo.Summarize(ctx, filters)
}

func parseDay(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("empty date")
	}
	return time.Parse("2006-01-02", raw)
}

func (s *Service) recordAudit(ctx context.Context, actor *shared.Identity, action string, id int64) {
	if s.audit == nil || actor == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.UserID,
		TenantID: actor.TenantID,
		Action:   action,
		Entity:   "attendance",
		EntityID: fmt.Sprintf("%d", id),
	})
}
