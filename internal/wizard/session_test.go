package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/booksite-platform/internal/appointments"
	"github.com/wolfman30/booksite-platform/internal/availability"
	"github.com/wolfman30/booksite-platform/internal/booking"
	"github.com/wolfman30/booksite-platform/internal/catalog"
	"github.com/wolfman30/booksite-platform/internal/notify"
	"github.com/wolfman30/booksite-platform/internal/storeconfig"
)

// Wednesday 2024-06-05, noon UTC.
var fixedNow = time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC)

var (
	june10 = availability.NewDate(2024, time.June, 10) // Monday
	june11 = availability.NewDate(2024, time.June, 11) // Tuesday
	june3  = availability.NewDate(2024, time.June, 3)  // past Monday
)

type countingLedger struct {
	appointments.Ledger
	mu        sync.Mutex
	creates   int
	createErr error
	gate      chan struct{}
	entered   chan struct{}
}

func (l *countingLedger) Create(ctx context.Context, req *appointments.CreateRequest) (*appointments.Record, error) {
	l.mu.Lock()
	l.creates++
	err := l.createErr
	l.mu.Unlock()
	if l.entered != nil {
		l.entered <- struct{}{}
	}
	if l.gate != nil {
		<-l.gate
	}
	if err != nil {
		return nil, err
	}
	return l.Ledger.Create(ctx, req)
}

func (l *countingLedger) createCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.creates
}

type gatedCatalog struct {
	catalog.Catalog
	entered chan string
	gates   map[string]chan struct{}
}

func (g *gatedCatalog) List(ctx context.Context, storeID string) ([]catalog.Service, error) {
	if gate, ok := g.gates[storeID]; ok {
		g.entered <- storeID
		<-gate
	}
	return g.Catalog.List(ctx, storeID)
}

type failingLedger struct {
	appointments.Ledger
}

func (failingLedger) List(context.Context, string) (*appointments.Snapshot, error) {
	return nil, errors.New("connection refused")
}

type fixture struct {
	catalog *catalog.InMemoryCatalog
	memory  *appointments.InMemoryLedger
	ledger  *countingLedger
	configs storeconfig.StaticProvider
}

func newFixture() *fixture {
	cat := catalog.NewInMemoryCatalog()
	cat.Seed(
		catalog.Service{ID: "svc-1", StoreID: "store-1", Name: "Haircut", DurationMinutes: 30, PriceCents: 3500, Currency: "USD"},
		catalog.Service{ID: "svc-2", StoreID: "store-1", Name: "Beard trim", DurationMinutes: 15, PriceCents: 1500, Currency: "USD"},
		catalog.Service{ID: "svc-9", StoreID: "store-2", Name: "Massage", DurationMinutes: 60, PriceCents: 9000, Currency: "USD"},
	)

	memory := appointments.NewInMemoryLedger()
	memory.Seed(appointments.Record{
		ID: "a-1", StoreID: "store-1", Date: "2024-06-10T09:30:00Z", Status: appointments.StatusConfirmed,
		CustomerName: "Existing", CustomerPhone: "+15550000", ServiceID: "svc-1",
	})

	cfg1 := storeconfig.DefaultConfig("store-1", "UTC")
	cfg1.Name = "Corner Barber"
	cfg1.WeeklySlots[int(time.Monday)] = []string{"09:00", "09:30", "10:00"}

	cfg2 := storeconfig.DefaultConfig("store-2", "UTC")
	cfg2.WeeklySlots[int(time.Thursday)] = []string{"14:00"}

	return &fixture{
		catalog: cat,
		memory:  memory,
		ledger:  &countingLedger{Ledger: memory},
		configs: storeconfig.StaticProvider{"store-1": cfg1, "store-2": cfg2},
	}
}

func (f *fixture) deps() Deps {
	return Deps{
		Catalog:   f.catalog,
		Ledger:    f.ledger,
		Configs:   f.configs,
		Submitter: booking.NewSubmitter(f.ledger, nil, nil, nil),
		Clock:     availability.ClockFunc(func() time.Time { return fixedNow }),
	}
}

func openSession(t *testing.T, f *fixture) *Session {
	t.Helper()
	sess := NewSession("sess-1", f.deps())
	require.NoError(t, sess.Open(context.Background(), "store-1"))
	return sess
}

func toDetails(t *testing.T, sess *Session) {
	t.Helper()
	require.NoError(t, sess.SelectService("svc-1"))
	require.NoError(t, sess.SelectDate(june10))
	require.NoError(t, sess.SelectTime("10:00"))
}

func TestOpenPreselectsNextConfiguredDate(t *testing.T) {
	sess := openSession(t, newFixture())
	v := sess.View()

	assert.Equal(t, StepService, v.Step)
	assert.False(t, v.Loading)
	assert.Len(t, v.Services, 2)
	require.NotNil(t, v.Selection.Date)
	assert.Equal(t, june10, *v.Selection.Date)
	require.NotNil(t, v.Month)
	assert.Equal(t, availability.YearMonth{Year: 2024, Month: time.June}, v.Month.Month)
	assert.Equal(t, int64(1), v.LedgerGeneration)
	assert.Equal(t, []string{"09:00", "10:00"}, v.Slots)
}

func TestOpenWithoutSlotsLeavesDateEmpty(t *testing.T) {
	f := newFixture()
	f.configs["store-3"] = storeconfig.DefaultConfig("store-3", "UTC")
	sess := NewSession("s", f.deps())
	require.NoError(t, sess.Open(context.Background(), "store-3"))

	v := sess.View()
	assert.Nil(t, v.Selection.Date)
	assert.Empty(t, v.Services)
	assert.Empty(t, v.Slots)
	assert.Equal(t, availability.YearMonth{Year: 2024, Month: time.June}, v.Month.Month)
	for _, day := range v.Month.Days {
		assert.False(t, day.Selectable)
	}
}

func TestEndToEndBooking(t *testing.T) {
	f := newFixture()
	sess := openSession(t, f)

	require.NoError(t, sess.SelectService("svc-1"))
	assert.Equal(t, StepDate, sess.View().Step)

	require.NoError(t, sess.SelectDate(june10))
	v := sess.View()
	assert.Equal(t, StepTime, v.Step)
	assert.Equal(t, []string{"09:00", "10:00"}, v.Slots)

	require.NoError(t, sess.SelectTime("10:00"))
	require.NoError(t, sess.SetDetails(booking.Customer{Name: "Ada", Phone: "+15550100"}, "first visit"))

	rec, err := sess.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10T10:00:00Z", rec.Date)
	assert.Contains(t, []appointments.Status{appointments.StatusPending, appointments.StatusConfirmed}, rec.Status)

	v = sess.View()
	assert.Equal(t, StepConfirmation, v.Step)
	require.NotNil(t, v.Appointment)
	assert.Equal(t, rec.ID, v.Appointment.ID)
	assert.Nil(t, v.Selection.Service, "draft discarded after success")

	snap, err := f.memory.List(context.Background(), "store-1")
	require.NoError(t, err)
	require.Len(t, snap.Records, 2)
	assert.Equal(t, "2024-06-10T10:00:00Z", snap.Records[1].Date)

	assert.ErrorIs(t, sess.GoBack(), ErrInvalidTransition, "confirmation is terminal")
}

type capturingSender struct {
	mu   sync.Mutex
	sent []notify.EmailMessage
}

func (c *capturingSender) Send(_ context.Context, msg notify.EmailMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func TestConfirmationRepliesGoToStoreContact(t *testing.T) {
	f := newFixture()
	cfg := f.configs["store-1"]
	cfg.ContactEmail = "hello@cornerbarber.example"
	sender := &capturingSender{}
	deps := f.deps()
	deps.Submitter = booking.NewSubmitter(f.ledger, sender, nil, nil)

	sess := NewSession("sess-1", deps)
	require.NoError(t, sess.Open(context.Background(), "store-1"))
	toDetails(t, sess)
	require.NoError(t, sess.SetDetails(booking.Customer{Name: "Ada", Phone: "+15550100", Email: "ada@example.com"}, ""))
	_, err := sess.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "hello@cornerbarber.example", sender.sent[0].ReplyTo)
	assert.Equal(t, "Corner Barber", sender.sent[0].ReplyToName)
}

func TestGoBackLaws(t *testing.T) {
	sess := openSession(t, newFixture())
	assert.ErrorIs(t, sess.GoBack(), ErrInvalidTransition, "nothing before service")

	toDetails(t, sess)

	// details -> time keeps the time
	require.NoError(t, sess.GoBack())
	v := sess.View()
	assert.Equal(t, StepTime, v.Step)
	assert.Equal(t, "10:00", v.Selection.Time)

	// time -> date clears only the time
	require.NoError(t, sess.GoBack())
	v = sess.View()
	assert.Equal(t, StepDate, v.Step)
	assert.Empty(t, v.Selection.Time)
	require.NotNil(t, v.Selection.Service)
	assert.Equal(t, "svc-1", v.Selection.Service.ID)
	require.NotNil(t, v.Selection.Date)
	assert.Equal(t, june10, *v.Selection.Date)

	// date -> service
	require.NoError(t, sess.GoBack())
	assert.Equal(t, StepService, sess.View().Step)
}

func TestSelectServiceClearsTime(t *testing.T) {
	sess := openSession(t, newFixture())
	toDetails(t, sess)
	require.NoError(t, sess.GoBack())
	require.NoError(t, sess.GoBack())
	require.NoError(t, sess.GoBack())

	require.NoError(t, sess.SelectService("svc-2"))
	v := sess.View()
	assert.Empty(t, v.Selection.Time)
	assert.Equal(t, "svc-2", v.Selection.Service.ID)
}

func TestSelectServiceUnknown(t *testing.T) {
	sess := openSession(t, newFixture())
	assert.ErrorIs(t, sess.SelectService("svc-9"), ErrUnknownService)
	assert.Equal(t, StepService, sess.View().Step)
}

func TestSelectDateGate(t *testing.T) {
	sess := openSession(t, newFixture())
	require.NoError(t, sess.SelectService("svc-1"))

	assert.ErrorIs(t, sess.SelectDate(june3), ErrDateNotSelectable, "past date")
	assert.ErrorIs(t, sess.SelectDate(june11), ErrDateNotSelectable, "no slots on tuesday")
	assert.Equal(t, StepDate, sess.View().Step)
}

func TestSelectDateIgnoresOccupancy(t *testing.T) {
	f := newFixture()
	for i, slot := range []string{"09:00", "10:00"} {
		f.memory.Seed(appointments.Record{
			ID: string(rune('b' + i)), StoreID: "store-1", Date: "2024-06-17T" + slot + ":00Z", Status: appointments.StatusPending,
		})
	}
	f.configs["store-1"].WeeklySlots[int(time.Monday)] = []string{"09:00", "10:00"}
	sess := openSession(t, f)
	require.NoError(t, sess.SelectService("svc-1"))

	fullyBooked := availability.NewDate(2024, time.June, 17)
	require.NoError(t, sess.SelectDate(fullyBooked))
	v := sess.View()
	assert.Equal(t, StepTime, v.Step)
	assert.Empty(t, v.Slots)
	assert.NotNil(t, v.Slots)
}

func TestSelectDateClearsTime(t *testing.T) {
	sess := openSession(t, newFixture())
	toDetails(t, sess)
	require.NoError(t, sess.GoBack())
	require.NoError(t, sess.GoBack())
	require.NoError(t, sess.SelectDate(availability.NewDate(2024, time.June, 17)))
	assert.Empty(t, sess.View().Selection.Time)
}

func TestSelectTimeMustBeFree(t *testing.T) {
	sess := openSession(t, newFixture())
	require.NoError(t, sess.SelectService("svc-1"))
	require.NoError(t, sess.SelectDate(june10))

	assert.ErrorIs(t, sess.SelectTime("09:30"), ErrSlotUnavailable, "booked")
	assert.ErrorIs(t, sess.SelectTime("11:00"), ErrSlotUnavailable, "not configured")
	assert.Equal(t, StepTime, sess.View().Step)
}

func TestActionsOutOfOrder(t *testing.T) {
	sess := openSession(t, newFixture())
	assert.ErrorIs(t, sess.SelectDate(june10), ErrInvalidTransition)
	assert.ErrorIs(t, sess.SelectTime("09:00"), ErrInvalidTransition)
	assert.ErrorIs(t, sess.SetDetails(booking.Customer{}, ""), ErrInvalidTransition)
	_, err := sess.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSubmitIncompleteDoesNotCallLedger(t *testing.T) {
	f := newFixture()
	sess := openSession(t, f)
	toDetails(t, sess)

	_, err := sess.Submit(context.Background())
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, f.ledger.createCount())

	v := sess.View()
	assert.Equal(t, StepDetails, v.Step)
	assert.Contains(t, v.Error, "name and phone are required")
}

func TestSubmitTransientFailureKeepsDraft(t *testing.T) {
	f := newFixture()
	f.ledger.createErr = errors.New("503 from upstream")
	sess := openSession(t, f)
	toDetails(t, sess)
	require.NoError(t, sess.SetDetails(booking.Customer{Name: "Ada", Phone: "+15550100"}, "note"))

	_, err := sess.Submit(context.Background())
	assert.ErrorIs(t, err, ErrTransientIO)
	assert.Equal(t, 1, f.ledger.createCount())

	v := sess.View()
	assert.Equal(t, StepDetails, v.Step)
	assert.Equal(t, "10:00", v.Selection.Time)
	assert.Equal(t, "Ada", v.Selection.Customer.Name)
	assert.NotEmpty(t, v.Error)

	f.ledger.mu.Lock()
	f.ledger.createErr = nil
	f.ledger.mu.Unlock()
	_, err = sess.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, f.ledger.createCount())
	v = sess.View()
	assert.Equal(t, StepConfirmation, v.Step)
	assert.Empty(t, v.Error)
}

func TestSubmitSlotTakenStaysOnDetails(t *testing.T) {
	f := newFixture()
	sess := openSession(t, f)
	toDetails(t, sess)
	require.NoError(t, sess.SetDetails(booking.Customer{Name: "Ada", Phone: "+15550100"}, ""))

	// Another session books 10:00 after this one loaded its snapshot.
	_, err := f.memory.Create(context.Background(), &appointments.CreateRequest{
		StoreID: "store-1", CustomerName: "Bob", CustomerPhone: "+15550200", ServiceID: "svc-1",
		ScheduledAt: time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = sess.Submit(context.Background())
	assert.ErrorIs(t, err, booking.ErrSlotTaken)
	assert.Equal(t, StepDetails, sess.View().Step)
}

func TestSubmitSlotTakenStopsOfferingThatTime(t *testing.T) {
	f := newFixture()
	sess := openSession(t, f)
	toDetails(t, sess)
	require.NoError(t, sess.SetDetails(booking.Customer{Name: "Ada", Phone: "+15550100"}, ""))

	_, err := f.memory.Create(context.Background(), &appointments.CreateRequest{
		StoreID: "store-1", CustomerName: "Bob", CustomerPhone: "+15550200", ServiceID: "svc-1",
		ScheduledAt: time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = sess.Submit(context.Background())
	require.ErrorIs(t, err, booking.ErrSlotTaken)

	require.NoError(t, sess.GoBack())
	v := sess.View()
	assert.Equal(t, StepTime, v.Step)
	assert.Equal(t, []string{"09:00"}, v.Slots)
	assert.ErrorIs(t, sess.SelectTime("10:00"), ErrSlotUnavailable)
	assert.NoError(t, sess.SelectTime("09:00"))
}

func TestRefreshReleasesRejectedSlotHold(t *testing.T) {
	f := newFixture()
	sess := openSession(t, f)
	toDetails(t, sess)
	require.NoError(t, sess.SetDetails(booking.Customer{Name: "Ada", Phone: "+15550100"}, ""))

	other, err := f.memory.Create(context.Background(), &appointments.CreateRequest{
		StoreID: "store-1", CustomerName: "Bob", CustomerPhone: "+15550200", ServiceID: "svc-1",
		ScheduledAt: time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = sess.Submit(context.Background())
	require.ErrorIs(t, err, booking.ErrSlotTaken)

	_, err = f.memory.UpdateStatus(context.Background(), "store-1", other.ID, appointments.StatusCancelled)
	require.NoError(t, err)
	require.NoError(t, sess.Refresh(context.Background()))
	require.NoError(t, sess.GoBack())
	assert.Equal(t, []string{"09:00", "10:00"}, sess.View().Slots)
}

type nilSnapshotLedger struct {
	appointments.Ledger
}

func (nilSnapshotLedger) List(context.Context, string) (*appointments.Snapshot, error) {
	return nil, nil
}

func TestOpenWithNilSnapshotIsTransient(t *testing.T) {
	f := newFixture()
	deps := f.deps()
	deps.Ledger = nilSnapshotLedger{}
	sess := NewSession("sess-1", deps)

	err := sess.Open(context.Background(), "store-1")
	assert.ErrorIs(t, err, ErrTransientIO)
	assert.ErrorIs(t, sess.SelectService("svc-1"), ErrInvalidTransition)
}

func TestSubmitInFlightRejectsSecondSubmit(t *testing.T) {
	f := newFixture()
	f.ledger.gate = make(chan struct{})
	f.ledger.entered = make(chan struct{}, 1)
	sess := openSession(t, f)
	toDetails(t, sess)
	require.NoError(t, sess.SetDetails(booking.Customer{Name: "Ada", Phone: "+15550100"}, ""))

	done := make(chan error, 1)
	go func() {
		_, err := sess.Submit(context.Background())
		done <- err
	}()
	<-f.ledger.entered

	_, err := sess.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	assert.ErrorIs(t, sess.GoBack(), ErrSubmitInProgress)

	close(f.ledger.gate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, f.ledger.createCount())
	assert.Equal(t, StepConfirmation, sess.View().Step)
}

func TestSubmitResultDroppedAfterClose(t *testing.T) {
	f := newFixture()
	f.ledger.gate = make(chan struct{})
	f.ledger.entered = make(chan struct{}, 1)
	sess := openSession(t, f)
	toDetails(t, sess)
	require.NoError(t, sess.SetDetails(booking.Customer{Name: "Ada", Phone: "+15550100"}, ""))

	done := make(chan error, 1)
	go func() {
		_, err := sess.Submit(context.Background())
		done <- err
	}()
	<-f.ledger.entered
	sess.Close()
	close(f.ledger.gate)

	assert.ErrorIs(t, <-done, ErrStaleResponse)
	v := sess.View()
	assert.True(t, v.Closed)
	assert.Nil(t, v.Appointment)
	assert.NotEqual(t, StepConfirmation, v.Step)
}

func TestStaleOpenIsDiscardedAfterClose(t *testing.T) {
	f := newFixture()
	gated := &gatedCatalog{
		Catalog: f.catalog,
		entered: make(chan string, 1),
		gates:   map[string]chan struct{}{"store-1": make(chan struct{})},
	}
	deps := f.deps()
	deps.Catalog = gated
	sess := NewSession("s", deps)

	done := make(chan error, 1)
	go func() { done <- sess.Open(context.Background(), "store-1") }()
	<-gated.entered

	v := sess.View()
	assert.True(t, v.Loading)
	assert.Empty(t, v.Services)
	assert.ErrorIs(t, sess.SelectService("svc-1"), ErrInvalidTransition)

	sess.Close()
	close(gated.gates["store-1"])

	assert.ErrorIs(t, <-done, ErrStaleResponse)
	v = sess.View()
	assert.True(t, v.Closed)
	assert.Empty(t, v.Services)
	assert.ErrorIs(t, sess.SelectService("svc-1"), ErrSessionClosed)
}

func TestStaleOpenIsDiscardedAfterReopenForOtherStore(t *testing.T) {
	f := newFixture()
	gated := &gatedCatalog{
		Catalog: f.catalog,
		entered: make(chan string, 1),
		gates:   map[string]chan struct{}{"store-1": make(chan struct{})},
	}
	deps := f.deps()
	deps.Catalog = gated
	sess := NewSession("s", deps)

	first := make(chan error, 1)
	go func() { first <- sess.Open(context.Background(), "store-1") }()
	<-gated.entered

	require.NoError(t, sess.Open(context.Background(), "store-2"))
	close(gated.gates["store-1"])
	assert.ErrorIs(t, <-first, ErrStaleResponse)

	v := sess.View()
	assert.Equal(t, "store-2", v.StoreID)
	require.Len(t, v.Services, 1)
	assert.Equal(t, "svc-9", v.Services[0].ID)
	require.NotNil(t, v.Selection.Date)
	assert.Equal(t, availability.NewDate(2024, time.June, 6), *v.Selection.Date)
}

func TestOpenFailureIsRetryable(t *testing.T) {
	f := newFixture()
	deps := f.deps()
	deps.Ledger = failingLedger{}
	sess := NewSession("s", deps)

	err := sess.Open(context.Background(), "store-1")
	assert.ErrorIs(t, err, ErrTransientIO)
	v := sess.View()
	assert.False(t, v.Loading)
	assert.NotEmpty(t, v.Error)
	assert.ErrorIs(t, sess.SelectService("svc-1"), ErrInvalidTransition)

	sess.deps.Ledger = f.ledger
	require.NoError(t, sess.Open(context.Background(), "store-1"))
	assert.Empty(t, sess.View().Error)
}

func TestMonthNavigation(t *testing.T) {
	sess := openSession(t, newFixture())
	june := availability.YearMonth{Year: 2024, Month: time.June}

	require.NoError(t, sess.PrevMonth())
	v := sess.View()
	assert.Equal(t, june, v.Month.Month, "cannot go before today's month")
	assert.False(t, v.Month.HasPrev)

	require.NoError(t, sess.NextMonth())
	require.NoError(t, sess.NextMonth())
	v = sess.View()
	assert.Equal(t, availability.YearMonth{Year: 2024, Month: time.August}, v.Month.Month)
	assert.True(t, v.Month.HasPrev)
	assert.Len(t, v.Month.Days, 31)

	require.NoError(t, sess.PrevMonth())
	assert.Equal(t, availability.YearMonth{Year: 2024, Month: time.July}, sess.View().Month.Month)
}

func TestMonthViewMarksSelectableDays(t *testing.T) {
	sess := openSession(t, newFixture())
	v := sess.View()
	selectable := map[availability.CalendarDate]bool{}
	for _, day := range v.Month.Days {
		selectable[day.Date] = day.Selectable
		if day.Selected {
			assert.Equal(t, june10, day.Date)
		}
	}
	assert.False(t, selectable[june3])
	assert.True(t, selectable[june10])
	assert.False(t, selectable[june11])
	assert.True(t, selectable[availability.NewDate(2024, time.June, 24)])
}

func TestRefreshPicksUpNewerSnapshot(t *testing.T) {
	f := newFixture()
	sess := openSession(t, f)
	require.NoError(t, sess.SelectService("svc-1"))
	require.NoError(t, sess.SelectDate(june10))

	_, err := f.memory.Create(context.Background(), &appointments.CreateRequest{
		StoreID: "store-1", CustomerName: "Bob", CustomerPhone: "+15550200", ServiceID: "svc-1",
		ScheduledAt: time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// The held snapshot is not refreshed on its own.
	assert.Equal(t, []string{"09:00", "10:00"}, sess.View().Slots)

	require.NoError(t, sess.Refresh(context.Background()))
	v := sess.View()
	assert.Equal(t, []string{"10:00"}, v.Slots)
	assert.Equal(t, int64(2), v.LedgerGeneration)
}

func TestStoreTimezoneDrivesToday(t *testing.T) {
	f := newFixture()
	cfg := storeconfig.DefaultConfig("store-tk", "Asia/Tokyo")
	cfg.WeeklySlots[int(time.Wednesday)] = []string{"09:00"}
	cfg.WeeklySlots[int(time.Thursday)] = []string{"09:00"}
	f.configs["store-tk"] = cfg

	// 2024-06-05 20:00 UTC is already Thursday 2024-06-06 in Tokyo.
	deps := f.deps()
	deps.Clock = availability.ClockFunc(func() time.Time { return time.Date(2024, 6, 5, 20, 0, 0, 0, time.UTC) })
	sess := NewSession("s", deps)
	require.NoError(t, sess.Open(context.Background(), "store-tk"))

	v := sess.View()
	require.NotNil(t, v.Selection.Date)
	assert.Equal(t, availability.NewDate(2024, time.June, 6), *v.Selection.Date)
	assert.Equal(t, "Asia/Tokyo", v.Timezone)
}
