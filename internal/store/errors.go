package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// Entity-specific variants below wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation or violates
	// a constraint. Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrPersistence is returned when the database rejects or fails an
	// operation for a reason that is not a domain condition.
	ErrPersistence = errors.New("persistence failure")

	// ErrUpdateFailed is returned when a conditional update matched no row,
	// for example because the record already reached a terminal status.
	ErrUpdateFailed = errors.New("update failed")

	// ErrTransactionFailed is returned when a transaction cannot begin or commit.
	ErrTransactionFailed = fmt.Errorf("%w: transaction failed", ErrPersistence)

	// ErrRequestNotFound indicates that the study path request does not exist.
	ErrRequestNotFound = fmt.Errorf("%w: study path request", ErrNotFound)

	// ErrStudyPathNotFound indicates that the study path does not exist.
	ErrStudyPathNotFound = fmt.Errorf("%w: study path", ErrNotFound)

	// ErrModuleNotFound indicates that the study path module does not exist.
	ErrModuleNotFound = fmt.Errorf("%w: module", ErrNotFound)

	// ErrQuizNotFound indicates that no quiz exists for the module.
	ErrQuizNotFound = fmt.Errorf("%w: quiz", ErrNotFound)

	// ErrTTSJobNotFound indicates that the TTS job does not exist.
	ErrTTSJobNotFound = fmt.Errorf("%w: tts job", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "tts_job", "module")
	Operation string // The operation that failed (e.g., "create", "mark_failed")
	Message   string
	Err       error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
