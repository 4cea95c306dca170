package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when a selection is incomplete. It is always
	// detected before any call to the ledger.
	ErrValidation = errors.New("booking: incomplete selection")

	// ErrTransientIO is returned when the ledger could not be reached or
	// failed. The selection is untouched and the submit can be retried.
	ErrTransientIO = errors.New("booking: could not reach the booking service, please try again")

	// ErrSlotTaken is returned when the ledger rejects the instant because
	// another booking holds it.
	ErrSlotTaken = errors.New("booking: that time was just booked, please pick another")
)

var (
	ErrMissingStore    = fmt.Errorf("%w: store is required", ErrValidation)
	ErrMissingService  = fmt.Errorf("%w: service is required", ErrValidation)
	ErrMissingDate     = fmt.Errorf("%w: date is required", ErrValidation)
	ErrMissingTime     = fmt.Errorf("%w: time is required", ErrValidation)
	ErrMissingCustomer = fmt.Errorf("%w: name and phone are required", ErrValidation)
	ErrInvalidEmail    = fmt.Errorf("%w: email is invalid", ErrValidation)
)
