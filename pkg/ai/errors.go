package ai

import "errors"

var (
	// ErrUnavailable indicates the provider cannot be used (missing key, unknown backend).
	ErrUnavailable = errors.New("ai provider unavailable")

	// ErrTimeout indicates the completion exceeded the configured timeout.
	ErrTimeout = errors.New("ai request timed out")

	// ErrEmptyResponse indicates the provider answered without any text.
	ErrEmptyResponse = errors.New("ai provider returned no content")

	// ErrInvalidOutput indicates the completion could not be parsed or validated
	// into the expected shape.
	ErrInvalidOutput = errors.New("invalid ai output format")
)
