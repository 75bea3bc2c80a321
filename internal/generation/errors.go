package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by providers and parsers.
var (
	// ErrProviderFailure is returned when an external AI or storage service
	// fails or returns an unusable response.
	ErrProviderFailure = errors.New("provider failure")

	// ErrTransientFailure is returned for temporary provider errors that
	// persisted after the configured retries.
	ErrTransientFailure = fmt.Errorf("%w: transient error", ErrProviderFailure)

	// ErrContentBlocked is returned when the provider blocks the content due to safety filters.
	ErrContentBlocked = fmt.Errorf("%w: content blocked by safety filters", ErrProviderFailure)

	// ErrMalformedOutput is returned when structured output cannot be parsed
	// or does not satisfy the expected shape.
	ErrMalformedOutput = errors.New("malformed generation output")

	// ErrInvalidConfig is returned when a provider configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
