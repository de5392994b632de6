package ai

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrModelUnavailable is returned when a model-backed service cannot
	// produce a result after retries. Callers may treat it as a signal to
	// switch to the ai/fallback implementations.
	ErrModelUnavailable = errors.New("model service unavailable")
)
