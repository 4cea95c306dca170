package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/wolfman30/booksite-platform/internal/appointments"
	"github.com/wolfman30/booksite-platform/pkg/logging"
)

// CategoryBookingConfirmation labels booking confirmation emails.
const CategoryBookingConfirmation = "booking-confirmation"

// StoreContact is the store identity shown in, and replied to from, a
// confirmation email.
type StoreContact struct {
	ID       string
	Name     string
	ReplyTo  string
	Location *time.Location
}

// BookingConfirmation builds the customer email for a newly created
// appointment. The start time is rendered in the store's zone and replies go
// to the store. ok is false when the customer left no email address.
func BookingConfirmation(rec *appointments.Record, store StoreContact) (EmailMessage, bool) {
	if rec == nil || strings.TrimSpace(rec.CustomerEmail) == "" {
		return EmailMessage{}, false
	}
	loc := store.Location
	if loc == nil {
		loc = time.UTC
	}
	storeName := store.Name
	if storeName == "" {
		storeName = "us"
	}

	when := rec.Date
	if t, err := time.Parse(time.RFC3339, rec.Date); err == nil {
		when = t.In(loc).Format("Monday, January 2, 2006 at 15:04 MST")
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\n", rec.CustomerName)
	fmt.Fprintf(&body, "Your booking with %s is received.\n\n", storeName)
	fmt.Fprintf(&body, "Service: %s\n", rec.ServiceName)
	fmt.Fprintf(&body, "When: %s\n", when)
	if rec.ServicePriceCents > 0 {
		fmt.Fprintf(&body, "Price: %s\n", FormatPrice(rec.ServicePriceCents, rec.Currency))
	}
	fmt.Fprintf(&body, "Reference: %s\n", rec.ID)
	if rec.Status == appointments.StatusPending {
		body.WriteString("\nThe store will confirm your appointment shortly.\n")
	}
	if store.ReplyTo != "" {
		body.WriteString("Reply to this email to reach the store.\n")
	}

	return EmailMessage{
		To:          rec.CustomerEmail,
		ToName:      rec.CustomerName,
		ReplyTo:     store.ReplyTo,
		ReplyToName: store.Name,
		Subject:     fmt.Sprintf("Booking received: %s on %s", rec.ServiceName, when),
		Body:        body.String(),
		HTML:        "<p>" + strings.ReplaceAll(html.EscapeString(body.String()), "\n", "<br>") + "</p>",
		Category:    CategoryBookingConfirmation,
		Tags: map[string]string{
			"store_id":       store.ID,
			"appointment_id": rec.ID,
		},
	}, true
}

// BookingNotifier sends booking emails through the configured provider.
type BookingNotifier struct {
	sender  EmailSender
	timeout time.Duration
	logger  *logging.Logger
}

// NewBookingNotifier returns nil when sender is nil.
func NewBookingNotifier(sender EmailSender, logger *logging.Logger) *BookingNotifier {
	if sender == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingNotifier{sender: sender, timeout: 10 * time.Second, logger: logger}
}

// Confirm emails the customer about rec. The send ignores ctx's cancellation
// and is bounded by the notifier's own timeout. sent is false when there is
// no address to send to.
func (n *BookingNotifier) Confirm(ctx context.Context, rec *appointments.Record, store StoreContact) (sent bool, err error) {
	if n == nil {
		return false, nil
	}
	msg, ok := BookingConfirmation(rec, store)
	if !ok {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()
	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.Warn("booking confirmation email failed", "store_id", store.ID, "appointment_id", rec.ID, "error", err)
		return false, err
	}
	return true, nil
}

// FormatPrice renders minor units as "USD 35.00".
func FormatPrice(cents int64, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s %s%d.%02d", currency, sign, cents/100, cents%100)
}
