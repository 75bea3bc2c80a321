package service

import (
	"errors"
	"fmt"
)

// Common service errors. Store sentinels such as store.ErrModuleNotFound pass
// through unwrapped so callers can match either.
var (
	// ErrEnqueueFailed indicates that the record was created but its task could
	// not be published. The record has been marked failed.
	ErrEnqueueFailed = errors.New("failed to enqueue task")

	// ErrSearchUnavailable indicates that no module index is configured.
	ErrSearchUnavailable = errors.New("module search is unavailable")

	// ErrSemanticSearchUnavailable indicates that no query embedder is
	// configured.
	ErrSemanticSearchUnavailable = errors.New("semantic search is unavailable")

	// ErrEmptyQuery is returned when a search query is blank.
	ErrEmptyQuery = errors.New("query cannot be empty")
)

// ServiceError wraps an unexpected failure of a service operation.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "request_study_path")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err with operation context. It returns nil for a nil
// err.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
