// Package appointments holds the appointment ledger of a store: the records
// that occupy bookable slots and the persistence backends behind them.
package appointments

import (
	"net/mail"
	"strings"
	"time"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Occupying reports whether an appointment in this status claims its slot.
// Only cancelled appointments release it.
func (s Status) Occupying() bool {
	return s != StatusCancelled
}

// Record is one booked (or cancelled/completed) appointment.
//
// Date is kept as the raw string produced by whoever created the row: an
// RFC3339 instant, a naive "2006-01-02T15:04:05" local datetime, or a bare
// "2006-01-02" date for legacy rows. Time is only set on legacy rows whose
// Date carries no reliable time of day.
type Record struct {
	ID                string    `json:"id"`
	StoreID           string    `json:"store_id"`
	Date              string    `json:"date"`
	Time              string    `json:"time,omitempty"`
	Status            Status    `json:"status"`
	CustomerName      string    `json:"customer_name"`
	CustomerEmail     string    `json:"customer_email,omitempty"`
	CustomerPhone     string    `json:"customer_phone"`
	ServiceID         string    `json:"service_id"`
	ServiceName       string    `json:"service_name"`
	ServicePriceCents int64     `json:"service_price_cents"`
	Currency          string    `json:"currency,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// naive layouts are read as wall-clock time in the store's zone.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// LocalStart derives the "2006-01-02" day and "HH:MM" start the record claims
// as seen in loc. An explicit legacy Time wins over the time of day carried by
// Date. A date-only record without a usable Time reports ok=false.
func (r Record) LocalStart(loc *time.Location) (day, slot string, ok bool) {
	if loc == nil {
		loc = time.UTC
	}

	var at time.Time
	hasTime := false
	if t, err := time.Parse(time.RFC3339Nano, r.Date); err == nil {
		at, hasTime = t.In(loc), true
	} else if t, err := time.ParseInLocation("2006-01-02", r.Date, loc); err == nil {
		at = t
	} else {
		for _, layout := range naiveLayouts {
			if t, err := time.ParseInLocation(layout, r.Date, loc); err == nil {
				at, hasTime = t, true
				break
			}
		}
		if !hasTime {
			return "", "", false
		}
	}

	day = at.Format("2006-01-02")
	if validClock(r.Time) {
		return day, r.Time, true
	}
	if !hasTime {
		return "", "", false
	}
	return day, at.Format("15:04"), true
}

func validClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// CreateRequest is the payload sent to the ledger when a booking is submitted.
type CreateRequest struct {
	StoreID           string    `json:"store_id"`
	CustomerName      string    `json:"customer_name"`
	CustomerEmail     string    `json:"customer_email,omitempty"`
	CustomerPhone     string    `json:"customer_phone"`
	ServiceID         string    `json:"service_id"`
	ServiceName       string    `json:"service_name"`
	ServicePriceCents int64     `json:"service_price_cents"`
	Currency          string    `json:"currency,omitempty"`
	ScheduledAt       time.Time `json:"date"`
	Notes             string    `json:"notes,omitempty"`
}

// Validate checks the fields the ledger needs to persist a booking.
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.StoreID) == "" {
		return ErrMissingStore
	}
	if strings.TrimSpace(r.ServiceID) == "" {
		return ErrMissingService
	}
	if strings.TrimSpace(r.CustomerName) == "" || strings.TrimSpace(r.CustomerPhone) == "" {
		return ErrMissingCustomer
	}
	if r.CustomerEmail != "" {
		if _, err := mail.ParseAddress(r.CustomerEmail); err != nil {
			return ErrInvalidEmail
		}
	}
	if r.ScheduledAt.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Snapshot is a point-in-time copy of a store's ledger. Generation changes
// whenever the underlying ledger changes, so callers can tell two snapshots
// apart without comparing records.
type Snapshot struct {
	StoreID    string    `json:"store_id"`
	Generation int64     `json:"generation"`
	Records    []Record  `json:"records"`
	FetchedAt  time.Time `json:"fetched_at"`
}
