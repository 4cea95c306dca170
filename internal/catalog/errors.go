package catalog

import "errors"

var (
	// ErrMissingStore is returned when no store id is given
	ErrMissingStore = errors.New("store id is required")

	// ErrMissingName is returned when a service has no name
	ErrMissingName = errors.New("service name is required")

	// ErrInvalidDuration is returned for a non-positive duration
	ErrInvalidDuration = errors.New("service duration must be positive")

	// ErrInvalidPrice is returned for a negative price
	ErrInvalidPrice = errors.New("service price cannot be negative")

	// ErrNotFound is returned when a service does not exist for the store
	ErrNotFound = errors.New("service not found")
)
