package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when explanation generation fails for
	// any general reason.
	ErrGenerationFailed = errors.New("failed to generate explanation")

	// ErrInvalidResponse is returned when the model response cannot be
	// parsed or is empty.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model blocks the content due
	// to safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might
	// resolve on retry.
	ErrTransientFailure = errors.New("transient error during explanation generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
