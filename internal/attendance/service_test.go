package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-erp/campus-erp/internal/platform/httpx"
	"github.com/campus-erp/campus-erp/internal/shared"
)

type recordKey struct {
	studentID int64
	date      string
}

type mockRepository struct {
	records map[recordKey]Record
	nextID  int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{records: make(map[recordKey]Record), nextID: 1}
}

func (m *mockRepository) Upsert(ctx context.Context, rec Record) (Record, error) {
	key := recordKey{studentID: rec.StudentID, date: rec.Date.Format("2006-01-02")}
	if existing, ok := m.records[key]; ok {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	} else {
		rec.ID = m.nextID
		m.nextID++
		rec.CreatedAt = time.Now()
	}
	m.records[key] = rec
	return rec, nil
}

func (m *mockRepository) List(ctx context.Context, filters ListFilters) ([]Record, error) {
	var out []Record
	for _, rec := range m.records {
		if filters.StudentID != nil && rec.StudentID != *filters.StudentID {
			continue
		}
		if filters.Date != nil && !rec.Date.Equal(*filters.Date) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *mockRepository) Summarize(ctx context.Context, filters ListFilters) (Summary, error) {
	records, err := m.List(ctx, filters)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{ByState: make(map[Status]int)}
	for _, rec := range records {
		summary.ByState[rec.Status]++
		summary.Total++
	}
	return summary, nil
}

func teacherIdentity() *shared.Identity {
	return &shared.Identity{UserID: 7, Role: "teacher"}
}

func TestMarkRecordsAttendance(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil, nil)
	tenantID := int64(1)

	rec, err := svc.Mark(context.Background(), MarkInput{
		StudentID: 11,
		Date:      "2026-08-28",
		Status:    "present",
	}, &tenantID, teacherIdentity(), "")
	require.NoError(t, err)
	assert.Equal(t, StatusPresent, rec.Status)
	assert.Equal(t, int64(7), rec.RecordedBy)
	assert.Equal(t, "2026-08-28", rec.Date.Format("2006-01-02"))
}

func TestMarkOverwritesSameDay(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()
	tenantID := int64(1)

	first, err := svc.Mark(ctx, MarkInput{StudentID: 11, Date: "2026-08-28", Status: "absent"}, &tenantID, teacherIdentity(), "")
	require.NoError(t, err)

	second, err := svc.Mark(ctx, MarkInput{StudentID: 11, Date: "2026-08-28", Status: "late", Note: "bus delay"}, &tenantID, teacherIdentity(), "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "re-marking the same day must not create a second record")
	assert.Len(t, repo.records, 1)
	assert.Equal(t, StatusLate, second.Status)
}

func TestMarkValidation(t *testing.T) {
	svc := NewService(newMockRepository(), nil, nil)
	ctx := context.Background()
	tenantID := int64(1)

	_, err := svc.Mark(ctx, MarkInput{StudentID: 11, Date: "2026-08-28", Status: "vanished"}, &tenantID, teacherIdentity(), "")
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Mark(ctx, MarkInput{StudentID: 11, Date: "28/08/2026", Status: "present"}, &tenantID, teacherIdentity(), "")
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Mark(ctx, MarkInput{StudentID: 0, Date: "2026-08-28", Status: "present"}, &tenantID, teacherIdentity(), "")
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Mark(ctx, MarkInput{StudentID: 11, Date: "2026-08-28", Status: "present"}, &tenantID, nil, "")
	assert.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestListRejectsInvertedRange(t *testing.T) {
	svc := NewService(newMockRepository(), nil, nil)
	from := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -7)

	_, err := svc.List(context.Background(), ListFilters{From: &from, To: &to})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestSummarizeCountsByStatus(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()
	tenantID := int64(1)

	marks := []struct {
		student int64
		status  string
	}{
		{1, "present"}, {2, "present"}, {3, "absent"}, {4, "late"},
	}
	for _, m := range marks {
		_, err := svc.Mark(ctx, MarkInput{StudentID: m.student, Date: "2026-08-28", Status: m.status}, &tenantID, teacherIdentity(), "")
		require.NoError(t, err)
	}

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	summary, err := svc.Summarize(ctx, ListFilters{Date: &day})
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.ByState[StatusPresent])
	assert.Equal(t, 1, summary.ByState[StatusAbsent])
	assert.Equal(t, 1, summary.ByState[StatusLate])
	assert.Equal(t, 0, summary.ByState[StatusExcused])
}
