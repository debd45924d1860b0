package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrNotFound", ErrNotFound, "not found"},
		{"ErrInvalidInput", ErrInvalidInput, "invalid input"},
		{"ErrInvalidRequest", ErrInvalidRequest, "query parameter 'q' is required and must be a string"},
		{"ErrPrimaryUnavailable", ErrPrimaryUnavailable, "search capability unavailable"},
		{"ErrConfiguration", ErrConfiguration, "invalid configuration"},
		{"ErrUnauthorized", ErrUnauthorized, "unauthorized"},
		{"ErrForbidden", ErrForbidden, "forbidden"},
		{"ErrTokenExpired", ErrTokenExpired, "token expired"},
		{"ErrTokenInvalid", ErrTokenInvalid, "token invalid"},
		{"ErrServiceUnavailable", ErrServiceUnavailable, "service unavailable"},
		{"ErrLockHeld", ErrLockHeld, "lock held by another instance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.msg {
				t.Errorf("expected %q, got %q", tt.msg, tt.err.Error())
			}
		})
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrInvalidRequest,
		ErrPrimaryUnavailable,
		ErrConfiguration,
		ErrUnauthorized,
		ErrForbidden,
		ErrTokenExpired,
		ErrTokenInvalid,
		ErrServiceUnavailable,
		ErrLockHeld,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("errors %v and %v should be distinct", err1, err2)
			}
		}
	}
}

func TestInternalSearchError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("route: %w", &InternalSearchError{Query: "mouse", Cause: cause})

	if !errors.Is(err, cause) {
		t.Error("expected InternalSearchError to unwrap to its cause")
	}

	var searchErr *InternalSearchError
	if !errors.As(err, &searchErr) {
		t.Fatal("expected errors.As to find InternalSearchError")
	}
	if searchErr.Query != "mouse" {
		t.Errorf("expected query 'mouse', got %q", searchErr.Query)
	}
	if got := searchErr.Error(); got != `search "mouse" failed: connection refused` {
		t.Errorf("unexpected message: %s", got)
	}
}

func TestInternalSearchError_NilCause(t *testing.T) {
	err := &InternalSearchError{Query: "mouse"}
	if err.Error() != `search "mouse" failed` {
		t.Errorf("unexpected message: %s", err.Error())
	}
	if err.Unwrap() != nil {
		t.Error("expected nil cause")
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Key: "MEILISEARCH_HOST", Reason: "is not set"}

	if !errors.Is(err, ErrConfiguration) {
		t.Error("expected ConfigError to match ErrConfiguration")
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Error("ConfigError should not match ErrInvalidInput")
	}
	if err.Error() != "invalid configuration: MEILISEARCH_HOST is not set" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
