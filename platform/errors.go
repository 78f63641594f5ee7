package platform

import "errors"

var (
	// ErrUnsupportedTarget is returned when a launcher is handed a target it cannot start.
	ErrUnsupportedTarget = errors.New("unsupported launch target")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
