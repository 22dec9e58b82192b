package attendance

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for attendance.
type Repository interface {
	Upsert(ctx context.Context, rec Record) (Record, error)
	List(ctx context.Context, filters ListFilters) ([]Record, error)
	Summarize(ctx context.Context, filters ListFilters) (Summary, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// Upsert writes the record, replacing any earlier mark for the same
// student and day.
func (r *repository) Upsert(ctx context.Context, rec Record) (Record, error) {
	const query = `INSERT INTO attendance (tenant_id, student_id, date, status, note, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (student_id, date) DO UPDATE SET status = EXCLUDED.status, note = EXCLUDED.note, recorded_by = EXCLUDED.recorded_by
		RETURNING id, created_at`
	tenantID := pgtype.Int8{}
	if rec.TenantID != nil {
		tenantID = pgtype.Int8{Int64: *rec.TenantID, Valid: true}
	}
	err := r.db.QueryRow(ctx, query,
		tenantID, rec.StudentID, pgtype.Date{Time: rec.Date, Valid: true},
		string(rec.Status), rec.Note, rec.RecordedBy,
	).Scan(&rec.ID, &rec.CreatedAt)
	return rec, err
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Record, error) {
	query := `SELECT id, tenant_id, student_id, date, status, note, recorded_by, created_at FROM attendance WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	query, args, argCount = applyFilters(query, args, argCount, filters)
	query += ` ORDER BY date DESC, student_id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec      Record
			tenantID pgtype.Int8
			date     pgtype.Date
			status   string
		)
		if err := rows.Scan(&rec.ID, &tenantID, &rec.StudentID, &date, &status, &rec.Note, &rec.RecordedBy, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if tenantID.Valid {
			rec.TenantID = &tenantID.Int64
		}
		rec.Date = date.Time
		rec.Status = Status(status)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *repository) Summarize(ctx context.Context, filters ListFilters) (Summary, error) {
	query := `SELECT status, COUNT(*) FROM attendance WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	query, args, _ = applyFilters(query, args, argCount, filters)
	query += ` GROUP BY status`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()

	summary := Summary{ByState: make(map[Status]int)}
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return Summary{}, err
		}
		summary.ByState[Status(status)] = count
		summary.Total += count
	}
	if filters.From != nil {
		summary.From = *filters.From
	}
	if filters.To != nil {
		summary.To = *filters.To
	}
	return summary, rows.Err()
}

func applyFilters(query string, args []interface{}, argCount int, filters ListFilters) (string, []interface{}, int) {
	if filters.TenantID != nil {
		argCount++
		query += ` AND tenant_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.TenantID)
	}
	if filters.StudentID != nil {
		argCount++
		query += ` AND student_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.StudentID)
	}
	if filters.Date != nil {
		argCount++
		query += ` AND date = $` + strconv.Itoa(argCount)
		args = append(args, pgtype.Date{Time: *filters.Date, Valid: true})
	}
	if filters.From != nil {
		argCount++
		query += ` AND date >= $` + strconv.Itoa(argCount)
		args = append(args, pgtype.Date{Time: *filters.From, Valid: true})
	}
	if filters.To != nil {
		argCount++
		query += ` AND date <= $` + strconv.Itoa(argCount)
		args = append(args, pgtype.Date{Time: *filters.To, Valid: true})
	}
	return query, args, argCount
}
