// Package users exposes account administration for school and platform admins.
package users

import "time"

// User represents a user account for management.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	TenantID  *int64    `json:"tenant_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListFilters represents validated list filters.
type ListFilters struct {
	Page     int
	Limit    int
	Search   string
	Role     string
	TenantID *int64
}
