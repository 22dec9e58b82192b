package students

import "time"

// StudentForm is the create payload.
type StudentForm struct {
	Name          string     `json:"name" validate:"required"`
	Email         string     `json:"email" validate:"required,email"`
	RollNumber    string     `json:"roll_number" validate:"required"`
	Department    string     `json:"department" validate:"required"`
	Class         string     `json:"class"`
	Section       string     `json:"section"`
	GuardianName  string     `json:"guardian_name"`
	GuardianPhone string     `json:"guardian_phone"`
	AdmissionDate *time.Time `json:"admission_date"`
}

// StudentPatch is the partial update payload. Nil fields stay untouched.
type StudentPatch struct {
	Name          *string    `json:"name"`
	Email         *string    `json:"email"`
	RollNumber    *string    `json:"roll_number"`
	Department    *string    `json:"department"`
	Class         *string    `json:"class"`
	Section       *string    `json:"section"`
	GuardianName  *string    `json:"guardian_name"`
	GuardianPhone *string    `json:"guardian_phone"`
	AdmissionDate *time.Time `json:"admission_date"`
	IsActive      *bool      `json:"is_active"`
}
