package appointments

import "errors"

var (
	// ErrMissingStore is returned when a request carries no store reference
	ErrMissingStore = errors.New("store id is required")

	// ErrMissingService is returned when no service is referenced
	ErrMissingService = errors.New("service id is required")

	// ErrMissingCustomer is returned when the customer name or phone is missing
	ErrMissingCustomer = errors.New("customer name and phone are required")

	// ErrInvalidEmail is returned for a malformed customer email
	ErrInvalidEmail = errors.New("customer email is invalid")

	// ErrInvalidDate is returned when the appointment instant is missing
	ErrInvalidDate = errors.New("appointment date is required")

	// ErrSlotTaken is returned when a non-cancelled appointment already holds the instant
	ErrSlotTaken = errors.New("slot already booked")

	// ErrNotFound is returned when an appointment does not exist for the store
	ErrNotFound = errors.New("appointment not found")

	// ErrInvalidStatus is returned for an unknown status value
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidTransition is returned when a status change is not allowed
	ErrInvalidTransition = errors.New("invalid status transition")
)
