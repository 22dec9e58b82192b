// Package attendance records daily student attendance per tenant.
package attendance

import (
	"fmt"
	"time"
)

// Status is the attendance outcome for one student on one day.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusExcused Status = "excused"
)

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return Status(raw), nil
	}
	return "", fmt.Errorf("attendance: unknown status %q", raw)
}

// Record is one attendance entry. One record per student per day.
type Record struct {
	ID         int64     `json:"id"`
	TenantID   *int64    `json:"tenant_id,omitempty"`
	StudentID  int64     `json:"student_id"`
	Date       time.Time `json:"date"`
	Status     Status    `json:"status"`
	Note       string    `json:"note,omitempty"`
	RecordedBy int64     `json:"recorded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// Summary aggregates counts per status over a date range.
type Summary struct {
	From    time.Time      `json:"from"`
	To      time.Time      `json:"to"`
	Total   int            `json:"total"`
	ByState map[Status]int `json:"by_status"`
}

// ListFilters selects attendance records.
type ListFilters struct {
	TenantID  *int64
	StudentID *int64
	Date      *time.Time
	From      *time.Time
	To        *time.Time
}
