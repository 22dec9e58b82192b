package shared

import "errors"

var (
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAlreadyRegistered indicates a registration attempt for an existing email.
	ErrAlreadyRegistered = errors.New("email already registered")
)
