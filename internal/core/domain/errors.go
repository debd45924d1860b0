package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRequest indicates a search request without a usable query
	ErrInvalidRequest = errors.New("query parameter 'q' is required and must be a string")

	// ErrPrimaryUnavailable indicates the search capability is not registered or failed.
	// It is recovered by falling back to the index and never reaches callers.
	ErrPrimaryUnavailable = errors.New("search capability unavailable")

	// ErrConfiguration indicates required configuration is missing
	ErrConfiguration = errors.New("invalid configuration")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller lacks permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrServiceUnavailable indicates a backing service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrLockHeld indicates another instance holds the requested lock
	ErrLockHeld = errors.New("lock held by another instance")
)

// InternalSearchError is returned when no search path produced a result.
// Cause is the last underlying failure.
type InternalSearchError struct {
	Query string
	Cause error
}

func (e *InternalSearchError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("search %q failed", e.Query)
	}
	return fmt.Sprintf("search %q failed: %v", e.Query, e.Cause)
}

func (e *InternalSearchError) Unwrap() error {
	return e.Cause
}

// ConfigError reports which setting is missing or invalid.
// It matches ErrConfiguration with errors.Is.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrConfiguration, e.Key, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}
