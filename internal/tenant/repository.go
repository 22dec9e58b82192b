package tenant

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-erp/campus-erp/internal/platform/httpx"
)

// Repository defines persistence operations for tenants.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Tenant, int, error)
	Get(ctx context.Context, id int64) (Tenant, error)
	GetBySlug(ctx context.Context, slug string) (Tenant, error)
	Create(ctx context.Context, t Tenant) (Tenant, error)
	Update(ctx context.Context, id int64, t Tenant) error
	Delete(ctx context.Context, id int64) error
}

// ListFilters represents standard list page filters.
type ListFilters struct {
	Page     int
	Limit    int
	Search   string
	IsActive *bool
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Tenant, int, error) {
	query := `SELECT id, slug, name, address, contact_email, is_active, created_at, updated_at FROM tenants WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM tenants WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		cond := ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR slug ILIKE $` + strconv.Itoa(argCount) + `)`
		query += cond
		countQuery += cond
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.IsActive != nil {
		argCount++
		cond := ` AND is_active = $` + strconv.Itoa(argCount)
		query += cond
		countQuery += cond
		args = append(args, *filters.IsActive)
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

	var tenants []Tenant
	for rows.Next() {
		var t Tenant
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name, &t.Address, &t.ContactEmail, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		tenants = append(tenants, t)
	}
	return tenants, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Tenant, error) {
	const query = `SELECT id, slug, name, address, contact_email, is_active, created_at, updated_at FROM tenants WHERE id = $1`
	var t Tenant
	err := r.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.Slug, &t.Name, &t.Address, &t.ContactEmail, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tenant{}, fmt.Errorf("%w: tenant %d", httpx.ErrNotFound, id)
	}
	return t, err
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (Tenant, error) {
	const query = `SELECT id, slug, name, address, contact_email, is_active, created_at, updated_at FROM tenants WHERE slug = $1 AND is_active`
	var t Tenant
	err := r.db.QueryRow(ctx, query, slug).Scan(&t.ID, &t.Slug, &t.Name, &t.Address, &t.ContactEmail, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tenant{}, fmt.Errorf("%w: tenant %q", httpx.ErrNotFound, slug)
	}
	return t, err
}

func (r *repository) Create(ctx context.Context, t Tenant) (Tenant, error) {
	const query = `INSERT INTO tenants (slug, name, address, contact_email, is_active) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, t.Slug, t.Name, t.Address, t.ContactEmail, t.IsActive).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return Tenant{}, fmt.Errorf("%w: tenant already exists", httpx.ErrDuplicate)
		}
		return Tenant{}, err
	}
	return t, nil
}

func (r *repository) Update(ctx context.Context, id int64, t Tenant) error {
	const query = `UPDATE tenants SET slug = $1, name = $2, address = $3, contact_email = $4, is_active = $5, updated_at = NOW() WHERE id = $6`
	tag, err := r.db.Exec(ctx, query, t.Slug, t.Name, t.Address, t.ContactEmail, t.IsActive, id)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return fmt.Errorf("%w: tenant already exists", httpx.ErrDuplicate)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: tenant %d", httpx.ErrNotFound, id)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: tenant %d", httpx.ErrNotFound, id)
	}
	return nil
}
