// Package tenant resolves and manages the schools served by the platform.
package tenant

import "time"

// Tenant identifies one school/institution, keyed by a URL-safe slug.
type Tenant struct {
	ID           int64     `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// State enumerates the resolver outcomes for one navigation.
type State string

const (
	StateNoTenant State = "no_tenant"
	StateValid    State = "valid"
	StateInvalid  State = "invalid"
	StateError    State = "error"
)
