package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/booksite-platform/internal/appointments"
)

type fakeSendGrid struct {
	sent   []*mail.SGMailV3
	status int
	err    error
}

func (f *fakeSendGrid) SendWithContext(_ context.Context, m *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, m)
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status}, nil
}

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
}

type recordingSender struct {
	sent []EmailMessage
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg EmailMessage) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func confirmationRecord() *appointments.Record {
	return &appointments.Record{
		ID:                "appt-1",
		Date:              "2024-06-10T14:00:00Z",
		Status:            appointments.StatusPending,
		CustomerName:      "Ada <script>",
		CustomerEmail:     "ada@example.com",
		ServiceName:       "Haircut",
		ServicePriceCents: 3500,
		Currency:          "USD",
	}
}

func cornerBarber(t *testing.T) StoreContact {
	t.Helper()
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return StoreContact{ID: "store-1", Name: "Corner Barber", ReplyTo: "hello@cornerbarber.example", Location: ny}
}

func TestBookingConfirmation(t *testing.T) {
	msg, ok := BookingConfirmation(confirmationRecord(), cornerBarber(t))
	require.True(t, ok)

	assert.Equal(t, "ada@example.com", msg.To)
	assert.Equal(t, "hello@cornerbarber.example", msg.ReplyTo)
	assert.Equal(t, "Corner Barber", msg.ReplyToName)
	assert.Contains(t, msg.Subject, "Monday, June 10, 2024 at 10:00 EDT")
	assert.Contains(t, msg.Body, "USD 35.00")
	assert.Contains(t, msg.Body, "confirm your appointment")
	assert.Contains(t, msg.Body, "Reply to this email")
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Equal(t, CategoryBookingConfirmation, msg.Category)
	assert.Equal(t, map[string]string{"store_id": "store-1", "appointment_id": "appt-1"}, msg.Tags)
}

func TestBookingConfirmationWithoutEmail(t *testing.T) {
	_, ok := BookingConfirmation(&appointments.Record{CustomerName: "Bob"}, StoreContact{Name: "Shop"})
	assert.False(t, ok)
	_, ok = BookingConfirmation(nil, StoreContact{Name: "Shop"})
	assert.False(t, ok)
}

func TestBookingNotifierConfirm(t *testing.T) {
	sender := &recordingSender{}
	n := NewBookingNotifier(sender, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sent, err := n.Confirm(ctx, confirmationRecord(), cornerBarber(t))
	require.NoError(t, err)
	assert.True(t, sent, "a cancelled request context does not stop the email")
	require.Len(t, sender.sent, 1)

	rec := confirmationRecord()
	rec.CustomerEmail = ""
	sent, err = n.Confirm(context.Background(), rec, cornerBarber(t))
	require.NoError(t, err)
	assert.False(t, sent)

	sender.err = errors.New("provider down")
	sent, err = n.Confirm(context.Background(), confirmationRecord(), cornerBarber(t))
	assert.Error(t, err)
	assert.False(t, sent)
}

func TestNilBookingNotifierIsNoop(t *testing.T) {
	var n *BookingNotifier
	assert.Nil(t, NewBookingNotifier(nil, nil))
	sent, err := n.Confirm(context.Background(), confirmationRecord(), StoreContact{})
	assert.NoError(t, err)
	assert.False(t, sent)
}

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	assert.Nil(t, NewSendGridSender(SendGridConfig{FromEmail: "bookings@booksite.example"}, nil))
}

func TestSendGridSenderBuildsBookingMail(t *testing.T) {
	client := &fakeSendGrid{status: 202}
	sender := newSendGridSender(client, SendGridConfig{FromEmail: "bookings@booksite.example"}, nil)
	msg, _ := BookingConfirmation(confirmationRecord(), cornerBarber(t))

	require.NoError(t, sender.Send(context.Background(), msg))
	require.Len(t, client.sent, 1)
	m := client.sent[0]

	assert.Equal(t, "Bookings", m.From.Name)
	assert.Equal(t, "bookings@booksite.example", m.From.Address)
	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "ada@example.com", m.Personalizations[0].To[0].Address)
	require.NotNil(t, m.ReplyTo)
	assert.Equal(t, "hello@cornerbarber.example", m.ReplyTo.Address)
	assert.Equal(t, []string{CategoryBookingConfirmation}, m.Categories)
	assert.Equal(t, "appt-1", m.CustomArgs["appointment_id"])
	require.Len(t, m.Content, 2)
	assert.Equal(t, "text/plain", m.Content[0].Type)
	assert.Equal(t, "text/html", m.Content[1].Type)
}

func TestSendGridSenderErrors(t *testing.T) {
	msg := EmailMessage{To: "a@example.com", Subject: "Test", Body: "Body"}

	assert.Error(t, (&SendGridSender{}).Send(context.Background(), msg))

	rejecting := newSendGridSender(&fakeSendGrid{status: 401}, SendGridConfig{FromEmail: "x@example.com"}, nil)
	assert.ErrorContains(t, rejecting.Send(context.Background(), msg), "status 401")

	failing := newSendGridSender(&fakeSendGrid{err: errors.New("dial tcp")}, SendGridConfig{FromEmail: "x@example.com"}, nil)
	assert.ErrorContains(t, failing.Send(context.Background(), msg), "dial tcp")
}

func TestNewSESSenderRequiresClientAndFrom(t *testing.T) {
	assert.Nil(t, NewSESSender(nil, SESConfig{FromEmail: "x@example.com"}, nil))
	assert.Nil(t, NewSESSender(&fakeSES{}, SESConfig{}, nil))
}

func TestSESSenderBuildsBookingMail(t *testing.T) {
	client := &fakeSES{}
	sender := NewSESSender(client, SESConfig{FromEmail: "bookings@booksite.example", ConfigurationSet: "booksite"}, nil)
	msg, _ := BookingConfirmation(confirmationRecord(), cornerBarber(t))

	require.NoError(t, sender.Send(context.Background(), msg))
	require.Len(t, client.inputs, 1)
	in := client.inputs[0]

	assert.Equal(t, "Bookings <bookings@booksite.example>", aws.ToString(in.FromEmailAddress))
	assert.Equal(t, []string{"Ada <script> <ada@example.com>"}, in.Destination.ToAddresses)
	assert.Equal(t, []string{"hello@cornerbarber.example"}, in.ReplyToAddresses)
	assert.Equal(t, "booksite", aws.ToString(in.ConfigurationSetName))
	assert.Equal(t, msg.Subject, aws.ToString(in.Content.Simple.Subject.Data))
	assert.Equal(t, msg.Body, aws.ToString(in.Content.Simple.Body.Text.Data))
	assert.Equal(t, msg.HTML, aws.ToString(in.Content.Simple.Body.Html.Data))

	tags := map[string]string{}
	for _, tag := range in.EmailTags {
		tags[aws.ToString(tag.Name)] = aws.ToString(tag.Value)
	}
	assert.Equal(t, map[string]string{
		"appointment_id": "appt-1",
		"category":       "booking-confirmation",
		"store_id":       "store-1",
	}, tags)
}

func TestSESSenderSendError(t *testing.T) {
	sender := NewSESSender(&fakeSES{err: errors.New("throttled")}, SESConfig{FromEmail: "x@example.com"}, nil)
	assert.ErrorContains(t, sender.Send(context.Background(), EmailMessage{To: "a@example.com"}), "throttled")
}

func TestSESTagValue(t *testing.T) {
	assert.Equal(t, "store_1", sesTagValue("store 1"))
	assert.Equal(t, "a-b_c", sesTagValue("a-b_c"))
}

func TestStubEmailSender_Send(t *testing.T) {
	err := NewStubEmailSender(nil).Send(context.Background(), EmailMessage{To: "a@example.com", Subject: "Test"})
	assert.NoError(t, err)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "EUR 0.05", FormatPrice(5, "EUR"))
	assert.Equal(t, "USD 120.00", FormatPrice(12000, ""))
	assert.Equal(t, "USD -1.50", FormatPrice(-150, "USD"))
}
