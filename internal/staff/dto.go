package staff

import "time"

// StaffForm is the create payload.
type StaffForm struct {
	Name        string     `json:"name" validate:"required"`
	Email       string     `json:"email" validate:"required,email"`
	EmployeeID  string     `json:"employee_id" validate:"required"`
	Department  string     `json:"department" validate:"required"`
	Designation string     `json:"designation"`
	Phone       string     `json:"phone"`
	JoinDate    *time.Time `json:"join_date"`
}

// StaffPatch is the partial update payload. Nil fields stay untouched.
type StaffPatch struct {
	Name        *string    `json:"name"`
	Email       *string    `json:"email"`
	EmployeeID  *string    `json:"employee_id"`
	Department  *string    `json:"department"`
	Designation *string    `json:"designation"`
	Phone       *string    `json:"phone"`
	JoinDate    *time.Time `json:"join_date"`
	IsActive    *bool      `json:"is_active"`
}
