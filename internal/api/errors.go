package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lumenlearn/lumen/internal/api/shared"
	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/queue"
	"github.com/lumenlearn/lumen/internal/service"
	"github.com/lumenlearn/lumen/internal/store"
)

// errInvalidParameter marks a malformed path or query parameter.
var errInvalidParameter = errors.New("invalid parameter")

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing the error itself.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, errInvalidParameter),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyTopic),
		errors.Is(err, domain.ErrEmptyText),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidAnswer),
		errors.Is(err, service.ErrEmptyQuery),
		errors.Is(err, store.ErrInvalidEntity),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrEnqueueFailed),
		errors.Is(err, service.ErrSearchUnavailable),
		errors.Is(err, service.ErrSemanticSearchUnavailable),
		errors.Is(err, queue.ErrChannelUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, store.ErrRequestNotFound):
		return "Study path request not found"
	case errors.Is(err, store.ErrStudyPathNotFound):
		return "Study path not found"
	case errors.Is(err, store.ErrModuleNotFound):
		return "Module not found"
	case errors.Is(err, store.ErrQuizNotFound):
		return "Quiz not found"
	case errors.Is(err, store.ErrTTSJobNotFound):
		return "TTS job not found"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, domain.ErrEmptyTopic):
		return "Topic is required"
	case errors.Is(err, domain.ErrEmptyText):
		return "Text is required"
	case errors.Is(err, domain.ErrInvalidStatus):
		return "Invalid status"
	case errors.Is(err, domain.ErrInvalidAnswer):
		return "Every question must be answered once with a valid option"
	case errors.Is(err, service.ErrEmptyQuery):
		return "Query is required"
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)
	case errors.Is(err, errInvalidParameter):
		return err.Error()
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request"

	case errors.Is(err, service.ErrSearchUnavailable):
		return "Module search is unavailable"
	case errors.Is(err, service.ErrSemanticSearchUnavailable):
		return "Semantic search is unavailable"
	case errors.Is(err, service.ErrEnqueueFailed),
		errors.Is(err, queue.ErrChannelUnavailable):
		return "Task queue is unavailable, try again later"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns the first validator failure in err into a
// message naming the field and the rule it broke.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}

	fe := validationErrs[0]
	field := fe.Field()
	if field != "" {
		field = strings.ToLower(field[:1]) + field[1:]
	}
	return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(fe.Tag()))
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "gt", "gte", "min":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted details.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}
