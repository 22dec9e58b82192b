// Package students manages student records per tenant.
package students

import "time"

// Student represents one enrolled student.
type Student struct {
	ID            int64      `json:"id"`
	TenantID      *int64     `json:"tenant_id,omitempty"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	RollNumber    string     `json:"roll_number"`
	Department    string     `json:"department"`
	Class         string     `json:"class,omitempty"`
	Section       string     `json:"section,omitempty"`
	GuardianName  string     `json:"guardian_name,omitempty"`
	GuardianPhone string     `json:"guardian_phone,omitempty"`
	AdmissionDate *time.Time `json:"admission_date,omitempty"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ListFilters represents standard list page filters.
type ListFilters struct {
	Page     int
	Limit    int
	Search   string
	Class    string
	TenantID *int64
}
