package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNoSession          = errors.New("no session")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrReportNotFound     = errors.New("report not found")
)

// ValidationError carries field-scoped messages from the validation engine.
// It is user-correctable and never fatal.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Errors[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError wraps a field→message map.
func NewValidationError(errs map[string]string) *ValidationError {
	return &ValidationError{Errors: errs}
}
