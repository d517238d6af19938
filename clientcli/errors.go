package clientcli

import "errors"

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
)

// Errors for configuration validation.
var (
	ErrPasswordRequired = errors.New("password is required")
	ErrConfigRequired   = errors.New("config is required")
)

// Errors for input validation.
var (
	ErrEmptyPath   = errors.New("path is required")
	ErrInvalidName = errors.New("icon name must contain ASCII letters only")
)
