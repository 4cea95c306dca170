// Package booking turns a completed wizard selection into a persisted
// appointment.
package booking

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/booksite-platform/internal/appointments"
	"github.com/wolfman30/booksite-platform/internal/availability"
	"github.com/wolfman30/booksite-platform/internal/catalog"
	"github.com/wolfman30/booksite-platform/internal/notify"
	"github.com/wolfman30/booksite-platform/internal/observability/metrics"
	"github.com/wolfman30/booksite-platform/pkg/logging"
)

var bookingTracer = otel.Tracer("booksite.internal.booking")

// Customer holds the contact fields entered on the details step.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone"`
}

// Selection is the in-progress booking draft.
type Selection struct {
	Service  *catalog.Service           `json:"service,omitempty"`
	Date     *availability.CalendarDate `json:"date,omitempty"`
	Time     string                     `json:"time,omitempty"`
	Customer Customer                   `json:"customer"`
	Notes    string                     `json:"notes,omitempty"`
}

// Store identifies the store a booking is made with. Location is the zone
// the selected date and time are read in. Confirmation replies go to ReplyTo.
type Store struct {
	ID       string
	Name     string
	ReplyTo  string
	Location *time.Location
}

// Submitter validates selections and creates appointments.
type Submitter struct {
	ledger   appointments.Ledger
	notifier *notify.BookingNotifier
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

// NewSubmitter constructs a submitter. email and m may be nil.
func NewSubmitter(ledger appointments.Ledger, email notify.EmailSender, m *metrics.BookingMetrics, logger *logging.Logger) *Submitter {
	if ledger == nil {
		panic("booking: ledger required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Submitter{ledger: ledger, notifier: notify.NewBookingNotifier(email, logger), metrics: m, logger: logger}
}

// Validate checks every precondition of Submit without side effects.
func Validate(store Store, sel Selection) error {
	switch {
	case store.ID == "":
		return ErrMissingStore
	case sel.Service == nil || sel.Service.ID == "":
		return ErrMissingService
	case sel.Date == nil || sel.Date.IsZero():
		return ErrMissingDate
	case sel.Time == "":
		return ErrMissingTime
	}
	if _, _, err := availability.ParseSlot(sel.Time); err != nil {
		return fmt.Errorf("%w: %w", ErrMissingTime, err)
	}
	if strings.TrimSpace(sel.Customer.Name) == "" || strings.TrimSpace(sel.Customer.Phone) == "" {
		return ErrMissingCustomer
	}
	if email := strings.TrimSpace(sel.Customer.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return ErrInvalidEmail
		}
	}
	return nil
}

// Instant combines the selected date and time in loc, seconds zeroed.
func Instant(sel Selection, loc *time.Location) (time.Time, error) {
	if sel.Date == nil {
		return time.Time{}, ErrMissingDate
	}
	return sel.Date.At(sel.Time, loc)
}

// Submit creates the appointment. An incomplete selection is rejected with
// an ErrValidation error before the ledger is called; otherwise the ledger
// is called exactly once. Ledger failures come back wrapped in
// ErrTransientIO or as ErrSlotTaken.
func (s *Submitter) Submit(ctx context.Context, store Store, sel Selection) (*appointments.Record, error) {
	if err := Validate(store, sel); err != nil {
		s.metrics.ObserveSubmission("invalid")
		return nil, err
	}

	ctx, span := bookingTracer.Start(ctx, "booking.submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("booksite.store_id", store.ID),
		attribute.String("booksite.service_id", sel.Service.ID),
		attribute.String("booksite.date", sel.Date.String()),
		attribute.String("booksite.time", sel.Time),
	)

	at, err := Instant(sel, store.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	req := &appointments.CreateRequest{
		StoreID:           store.ID,
		CustomerName:      strings.TrimSpace(sel.Customer.Name),
		CustomerEmail:     strings.TrimSpace(sel.Customer.Email),
		CustomerPhone:     strings.TrimSpace(sel.Customer.Phone),
		ServiceID:         sel.Service.ID,
		ServiceName:       sel.Service.Name,
		ServicePriceCents: sel.Service.PriceCents,
		Currency:          sel.Service.Currency,
		ScheduledAt:       at,
		Notes:             strings.TrimSpace(sel.Notes),
	}

	rec, err := s.ledger.Create(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create appointment")
		if errors.Is(err, appointments.ErrSlotTaken) {
			s.metrics.ObserveSubmission("slot_taken")
			s.logger.Warn("slot taken at submit", "store_id", store.ID, "date", sel.Date.String(), "time", sel.Time)
			return nil, ErrSlotTaken
		}
		s.metrics.ObserveSubmission("transient_error")
		s.logger.Error("booking submit failed", "store_id", store.ID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrTransientIO, err)
	}

	s.metrics.ObserveSubmission("created")
	span.SetAttributes(attribute.String("booksite.appointment_id", rec.ID))
	s.logger.Info("appointment created", "store_id", store.ID, "appointment_id", rec.ID, "date", rec.Date)

	s.sendConfirmation(ctx, store, rec)
	return rec, nil
}

func (s *Submitter) sendConfirmation(ctx context.Context, store Store, rec *appointments.Record) {
	_, _ = s.notifier.Confirm(ctx, rec, notify.StoreContact{
		ID:       store.ID,
		Name:     store.Name,
		ReplyTo:  store.ReplyTo,
		Location: store.Location,
	})
}
