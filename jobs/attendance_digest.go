package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/campus-erp/campus-erp/internal/attendance"
	jobmetrics "github.com/campus-erp/campus-erp/internal/jobs"
	"github.com/campus-erp/campus-erp/internal/tenant"
)

// TenantLister enumerates schools for per-tenant jobs.
type TenantLister interface {
	List(ctx context.Context, filters tenant.ListFilters) ([]tenant.Tenant, int, error)
}

// Mailer hands digest mails back to the queue.
type Mailer interface {
	EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) (*asynq.TaskInfo, error)
}

// AttendanceDigestJob summarizes one day's attendance for every active
// school and mails the counts to the school's contact address.
type AttendanceDigestJob struct {
	attendance *attendance.Service
	tenants    TenantLister
	mailer     Mailer
	logger     *slog.Logger
	metrics    *jobmetrics.Metrics
}

// NewAttendanceDigestJob constructs the job.
func NewAttendanceDigestJob(att *attendance.Service, tenants TenantLister, mailer Mailer, logger *slog.Logger, metrics *jobmetrics.Metrics) *AttendanceDigestJob {
	return &AttendanceDigestJob{attendance: att, tenants: tenants, mailer: mailer, logger: logger, metrics: metrics}
}

// Handle processes TaskTypeAttendanceDigest tasks.
func (j *AttendanceDigestJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics.Track("attendance_digest")

	var payload AttendanceDigestPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		_ = tracker.End(err)
		return asynq.SkipRetry
	}

	day := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	if payload.Date != "" {
		parsed, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			_ = tracker.End(err)
			return asynq.SkipRetry
		}
		day = parsed
	}

	active := true
	tenants, _, err := j.tenants.List(ctx, tenant.ListFilters{IsActive: &active})
	if err != nil {
		return tracker.End(fmt.Errorf("list schools: %w", err))
	}

	var failed int
	for _, tn := range tenants {
		if err := j.digestTenant(ctx, tn, day); err != nil {
			failed++
			j.logger.Warn("attendance digest failed",
				slog.String("school", tn.Slug),
				slog.Any("error", err))
		}
	}
	if failed > 0 {
		return tracker.End(fmt.Errorf("attendance digest: %d of %d schools failed", failed, len(tenants)))
	}
	return tracker.End(nil)
}

func (j *AttendanceDigestJob) digestTenant(ctx context.Context, tn tenant.Tenant, day time.Time) error {
	tenantID := tn.ID
	summary, err := j.attendance.Summarize(ctx, attendance.ListFilters{
		TenantID: &tenantID,
		Date:     &day,
	})
	if err != nil {
		return err
	}
	if summary.Total == 0 {
		return nil
	}
	j.metrics.AddDigestRecords(tn.Slug, summary.Total)
	if j.mailer == nil || tn.ContactEmail == "" {
		return nil
	}
	_, err = j.mailer.EnqueueSendEmail(ctx, SendEmailPayload{
		To:      tn.ContactEmail,
		Subject: fmt.Sprintf("Attendance summary for %s (%s)", tn.Name, day.Format("2006-01-02")),
		Body:    digestBody(summary),
	})
	return err
}

func digestBody(s attendance.Summary) string {
	return fmt.Sprintf("Total marked: %d\nPresent: %d\nAbsent: %d\nLate: %d\nExcused: %d\n",
		s.Total,
		s.ByState[attendance.StatusPresent],
		s.ByState[attendance.StatusAbsent],
		s.ByState[attendance.StatusLate],
		s.ByState[attendance.StatusExcused])
}
