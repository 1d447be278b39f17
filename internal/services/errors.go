package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks malformed input rejected before any state mutation.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a meeting that does not exist or belongs to another
	// owner. The two cases are indistinguishable to callers.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks an operation that would violate the status state
	// machine, such as transcribing a meeting already in processing.
	ErrConflict = errors.New("conflict")
	// ErrExternal marks a collaborator call that itself failed.
	ErrExternal = errors.New("external service error")
	// ErrConfiguration marks missing or unusable collaborator settings.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternal
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// RetrySafe reports whether the failure is worth retrying unchanged.
// Collaborator and transient failures are retryable; validation, conflict,
// and not-found failures require the caller to change something first.
func RetrySafe(err error) bool {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrConfiguration):
		return false
	default:
		return true
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
