package students

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-erp/campus-erp/internal/platform/httpx"
)

// Repository defines persistence operations for students.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Student, int, error)
	Get(ctx context.Context, id int64) (Student, error)
	Create(ctx context.Context, s Student) (Student, error)
	Update(ctx context.Context, id int64, s Student) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const studentColumns = `id, tenant_id, name, email, roll_number, department, class, section, guardian_name, guardian_phone, admission_date, is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Student, int, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM students WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.TenantID != nil {
		argCount++
		cond := ` AND tenant_id = $` + strconv.Itoa(argCount)
		query += cond
		countQuery += cond
		args = append(args, *filters.TenantID)
	}
	if filters.Class != "" {
		argCount++
		cond := ` AND class = $` + strconv.Itoa(argCount)
		query += cond
		countQuery += cond
		args = append(args, filters.Class)
	}
	if filters.Search != "" {
		argCount++
		cond := ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR email ILIKE $` + strconv.Itoa(argCount) + ` OR roll_number ILIKE $` + strconv.Itoa(argCount) + `)`
		query += cond
		countQuery += cond
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY name ASC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Student, error) {
	row := r.db.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	s, err := scanStudent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Student{}, fmt.Errorf("%w: student %d", httpx.ErrNotFound, id)
	}
	return s, err
}

func (r *repository) Create(ctx context.Context, s Student) (Student, error) {
	const query = `INSERT INTO students (tenant_id, name, email, roll_number, department, class, section, guardian_name, guardian_phone, admission_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		int8OrNull(s.TenantID), s.Name, s.Email, s.RollNumber, s.Department,
		s.Class, s.Section, s.GuardianName, s.GuardianPhone, dateOrNull(s.AdmissionDate), s.IsActive,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return Student{}, fmt.Errorf("%w: student already exists", httpx.ErrDuplicate)
		}
		return Student{}, err
	}
	return s, nil
}

func (r *repository) Update(ctx context.Context, id int64, s Student) error {
	const query = `UPDATE students SET name = $1, email = $2, roll_number = $3, department = $4, class = $5, section = $6,
		guardian_name = $7, guardian_phone = $8, admission_date = $9, is_active = $10, updated_at = NOW() WHERE id = $11`
	tag, err := r.db.Exec(ctx, query,
		s.Name, s.Email, s.RollNumber, s.Department, s.Class, s.Section,
		s.GuardianName, s.GuardianPhone, dateOrNull(s.AdmissionDate), s.IsActive, id,
	)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return fmt.Errorf("%w: student already exists", httpx.ErrDuplicate)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: student %d", httpx.ErrNotFound, id)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: student %d", httpx.ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (Student, error) {
	var (
		s         Student
		tenantID  pgtype.Int8
		admission pgtype.Date
	)
	err := row.Scan(
		&s.ID, &tenantID, &s.Name, &s.Email, &s.RollNumber, &s.Department,
		&s.Class, &s.Section, &s.GuardianName, &s.GuardianPhone, &admission,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return Student{}, err
	}
	if tenantID.Valid {
		s.TenantID = &tenantID.Int64
	}
	if admission.Valid {
		t := admission.Time
		s.AdmissionDate = &t
	}
	return s, nil
}

func int8OrNull(v *int64) pgtype.Int8 {
	if v == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *v, Valid: true}
}

func dateOrNull(v *time.Time) pgtype.Date {
	if v == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *v, Valid: true}
}
