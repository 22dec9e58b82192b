// Package staff manages staff records per tenant.
package staff

import "time"

// Staff represents one staff member.
type Staff struct {
	ID          int64      `json:"id"`
	TenantID    *int64     `json:"tenant_id,omitempty"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	EmployeeID  string     `json:"employee_id"`
	Department  string     `json:"department"`
	Designation string     `json:"designation,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	JoinDate    *time.Time `json:"join_date,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListFilters represents standard list page filters.
type ListFilters struct {
	Page       int
	Limit      int
	Search     string
	Department string
	TenantID   *int64
}
