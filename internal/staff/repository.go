package staff

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

// Repository defines persistence operations for staff.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Staff, int, error)
	Get(ctx context.Context, id int64) (Staff, error)
	Create(ctx context.Context, s Staff) (Staff, error)
	Update(ctx context.Context, id int64, s Staff) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const staffColumns = `id, tenant_id, name, email, employee_id, department, designation, phone, join_date, is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Staff, int, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM staff WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.TenantID != nil {
		argCount++
		cond := ` AND tenant_id = $` + strconv.Itoa(argCount)
		query += cond
		countQuery += cond
		args = append(args, *filters.TenantID)
	}
	if filters.Department != "" {
		argCount++
		cond := ` AND department = $` + strconv.Itoa(argCount)
		query += cond
		countQuery += cond
		args = append(args, filters.Department)
	}
	if filters.Search != "" {
		argCount++
		cond := ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR email ILIKE $` + strconv.Itoa(argCount) + ` OR employee_id ILIKE $` + strconv.Itoa(argCount) + `)`
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

	var out []Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Staff, error) {
	row := r.db.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = $1`, id)
	s, err := scanStaff(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Staff{}, fmt.Errorf("%w: staff %d", httpx.ErrNotFound, id)
	}
	return s, err
}

func (r *repository) Create(ctx context.Context, s Staff) (Staff, error) {
	const query = `INSERT INTO staff (tenant_id, name, email, employee_id, department, designation, phone, join_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		int8OrNull(s.TenantID), s.Name, s.Email, s.EmployeeID, s.Department,
		s.Designation, s.Phone, dateOrNull(s.JoinDate), s.IsActive,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return Staff{}, fmt.Errorf("%w: staff already exists", httpx.ErrDuplicate)
		}
		return Staff{}, err
	}
	return s, nil
}

func (r *repository) Update(ctx context.Context, id int64, s Staff) error {
	const query = `UPDATE staff SET name = $1, email = $2, employee_id = $3, department = $4, designation = $5,
		phone = $6, join_date = $7, is_active = $8, updated_at = NOW() WHERE id = $9`
	tag, err := r.db.Exec(ctx, query,
		s.Name, s.Email, s.EmployeeID, s.Department, s.Designation,
		s.Phone, dateOrNull(s.JoinDate), s.IsActive, id,
	)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return fmt.Errorf("%w: staff already exists", httpx.ErrDuplicate)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: staff %d", httpx.ErrNotFound, id)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: staff %d", httpx.ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStaff(row rowScanner) (Staff, error) {
	var (
		s        Staff
		tenantID pgtype.Int8
		joinDate pgtype.Date
	)
	err := row.Scan(
		&s.ID, &tenantID, &s.Name, &s.Email, &s.EmployeeID, &s.Department,
		&s.Designation, &s.Phone, &joinDate, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return Staff{}, err
	}
	if tenantID.Valid {
		s.TenantID = &tenantID.Int64
	}
	if joinDate.Valid {
		t := joinDate.Time
		s.JoinDate = &t
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
