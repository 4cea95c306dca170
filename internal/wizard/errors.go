package wizard

import (
	"errors"

	"github.com/wolfman30/booksite-platform/internal/booking"
)

var (
	// ErrStaleResponse is returned when a fetch or submit finished after the
	// session was closed or reopened. Its result is discarded.
	ErrStaleResponse = errors.New("wizard: response arrived for a session that moved on")

	// ErrInvalidTransition is returned when an action is not allowed on the current step
	ErrInvalidTransition = errors.New("wizard: action not allowed on this step")

	// ErrSessionClosed is returned for actions on a closed session
	ErrSessionClosed = errors.New("wizard: session is closed")

	// ErrSessionNotFound is returned when a session id is unknown or expired
	ErrSessionNotFound = errors.New("wizard: session not found")

	// ErrUnknownService is returned when the picked service is not offered by the store
	ErrUnknownService = errors.New("wizard: service not offered by this store")

	// ErrDateNotSelectable is returned for a past date or a weekday without slots
	ErrDateNotSelectable = errors.New("wizard: date cannot be selected")

	// ErrSlotUnavailable is returned when the picked time is not among the free slots
	ErrSlotUnavailable = errors.New("wizard: time is not available")

	// ErrSubmitInProgress is returned while a submission is in flight
	ErrSubmitInProgress = errors.New("wizard: submission in progress")

	// ErrTransientIO is the same sentinel the submitter uses for ledger failures.
	ErrTransientIO = booking.ErrTransientIO

	// ErrValidation is the same sentinel the submitter uses for incomplete selections.
	ErrValidation = booking.ErrValidation
)
