package iconbox

import "errors"

var (
	// ErrNotFound is returned when an icon, mapping or blob does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when a protected action has no valid session
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when a submitted password does not match
	ErrForbidden = errors.New("forbidden")
	// ErrNotConfigured is returned when a required store binding is missing
	ErrNotConfigured = errors.New("store not configured")
)
