package auth

import "time"

// User represents an authenticated user account.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	TenantID     *int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegistrationResult is the non-throwing outcome of a registration attempt.
// "Already registered" is reported here instead of as an error.
type RegistrationResult struct {
	Registered bool   `json:"registered"`
	UserID     int64  `json:"user_id,omitempty"`
	Reason     string `json:"reason,omitempty"`
}
