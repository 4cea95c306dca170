// Package wizard implements the multi-step booking flow
// (service → date → time → details → confirmation) on top of the
// availability resolver and the booking submitter.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wolfman30/booksite-platform/internal/appointments"
	"github.com/wolfman30/booksite-platform/internal/availability"
	"github.com/wolfman30/booksite-platform/internal/booking"
	"github.com/wolfman30/booksite-platform/internal/catalog"
	"github.com/wolfman30/booksite-platform/internal/observability/metrics"
	"github.com/wolfman30/booksite-platform/internal/storeconfig"
	"github.com/wolfman30/booksite-platform/pkg/logging"
)

// Step is a state of the wizard.
type Step string

const (
	StepService      Step = "service"
	StepDate         Step = "date"
	StepTime         Step = "time"
	StepDetails      Step = "details"
	StepConfirmation Step = "confirmation"
)

// previous maps each step to where GoBack lands. Service and confirmation
// have no way back.
var previous = map[Step]Step{
	StepDate:    StepService,
	StepTime:    StepDate,
	StepDetails: StepTime,
}

// Deps are the collaborators a session talks to.
type Deps struct {
	Catalog   catalog.Catalog
	Ledger    appointments.Ledger
	Configs   storeconfig.Provider
	Submitter *booking.Submitter
	Clock     availability.Clock
	Metrics   *metrics.BookingMetrics
	Logger    *logging.Logger
}

func (d *Deps) withDefaults() *Deps {
	out := *d
	if out.Clock == nil {
		out.Clock = availability.SystemClock
	}
	if out.Logger == nil {
		out.Logger = logging.Default()
	}
	return &out
}

// Session is one open booking wizard. Actions are serialized by the
// session's mutex. The mutex is released while fetching or submitting, and
// every result is checked against the generation captured before the call;
// Open and Close bump the generation so late results are dropped.
type Session struct {
	id   string
	deps *Deps

	mu         sync.Mutex
	generation uint64
	closed     bool
	loading    bool
	submitting bool

	storeID   string
	store     booking.Store
	step      Step
	services  []catalog.Service
	slots     availability.WeeklySlotMap
	horizon   int
	snapshot  *appointments.Snapshot
	rejected  []appointments.Record
	selection booking.Selection
	month     availability.YearMonth

	lastErr     error
	appointment *appointments.Record
}

// NewSession creates an unopened session.
func NewSession(id string, deps Deps) *Session {
	return &Session{id: id, deps: deps.withDefaults(), step: StepService}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

type loaded struct {
	config   *storeconfig.Config
	services []catalog.Service
	snapshot *appointments.Snapshot
}

// Open resets the session for storeID and loads the store's configuration,
// services and appointments concurrently. Nothing is applied until all
// three arrive. When a date with configured slots exists within the
// store's horizon it is preselected together with its month.
func (s *Session) Open(ctx context.Context, storeID string) error {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return ErrSubmitInProgress
	}
	s.generation++
	gen := s.generation
	s.reset(storeID)
	s.loading = true
	s.mu.Unlock()

	res, err := s.load(ctx, storeID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.deps.Metrics.ObserveWizardOpen("stale")
		s.deps.Metrics.ObserveStale("open")
		s.deps.Logger.Debug("dropping stale wizard load", "session_id", s.id, "store_id", storeID)
		return ErrStaleResponse
	}
	s.loading = false
	if err != nil {
		s.deps.Metrics.ObserveWizardOpen("error")
		s.deps.Logger.Error("wizard load failed", "session_id", s.id, "store_id", storeID, "error", err)
		s.lastErr = fmt.Errorf("%w: %w", ErrTransientIO, err)
		return s.lastErr
	}

	if res.snapshot == nil {
		s.deps.Metrics.ObserveWizardOpen("error")
		s.lastErr = fmt.Errorf("%w: ledger returned no snapshot", ErrTransientIO)
		return s.lastErr
	}

	loc, err := res.config.Location()
	if err != nil {
		s.deps.Logger.Warn("store timezone invalid, using UTC", "store_id", storeID, "timezone", res.config.Timezone)
		loc = time.UTC
	}
	s.store = booking.Store{ID: storeID, Name: res.config.Name, ReplyTo: res.config.ContactEmail, Location: loc}
	s.services = res.services
	s.slots = res.config.WeeklySlots.Normalize()
	s.horizon = res.config.HorizonDays()
	s.snapshot = res.snapshot

	today := s.today()
	s.month = availability.MonthOf(today)
	if next, ok := availability.FindNext(s.slots, s.horizon, today); ok {
		s.selection.Date = &next
		s.month = availability.MonthOf(next)
	}
	s.deps.Metrics.ObserveWizardOpen("ok")
	s.deps.Logger.Info("wizard opened", "session_id", s.id, "store_id", storeID,
		"services", len(s.services), "ledger_generation", s.snapshot.Generation)
	return nil
}

func (s *Session) load(ctx context.Context, storeID string) (*loaded, error) {
	var res loaded
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cfg, err := s.deps.Configs.Get(gctx, storeID)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		res.config = cfg
		return nil
	})
	g.Go(func() error {
		services, err := s.deps.Catalog.List(gctx, storeID)
		if err != nil {
			return fmt.Errorf("list services: %w", err)
		}
		res.services = services
		return nil
	})
	g.Go(func() error {
		snap, err := s.deps.Ledger.List(gctx, storeID)
		if err != nil {
			return fmt.Errorf("list appointments: %w", err)
		}
		res.snapshot = snap
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *Session) reset(storeID string) {
	s.closed = false
	s.storeID = storeID
	s.store = booking.Store{ID: storeID}
	s.step = StepService
	s.services = nil
	s.slots = nil
	s.horizon = 0
	s.snapshot = nil
	s.rejected = nil
	s.selection = booking.Selection{}
	s.month = availability.YearMonth{}
	s.lastErr = nil
	s.appointment = nil
}

// Close discards the session state. Any fetch or submit still running will
// find the generation changed and drop its result.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.reset("")
	s.closed = true
	s.loading = false
	s.submitting = false
}

func (s *Session) today() availability.CalendarDate {
	return availability.Today(s.deps.Clock, s.store.Location)
}

// ready guards every user action. Callers hold s.mu.
func (s *Session) ready() error {
	switch {
	case s.closed:
		return ErrSessionClosed
	case s.submitting:
		return ErrSubmitInProgress
	case s.loading || s.snapshot == nil:
		return ErrInvalidTransition
	}
	return nil
}

func (s *Session) moveTo(step Step) {
	s.deps.Metrics.ObserveStep(string(s.step), string(step))
	s.step = step
	s.lastErr = nil
}

// SelectService picks a service on the service step and moves to the date
// step. A previously picked time is cleared.
func (s *Session) SelectService(serviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	if s.step != StepService {
		return ErrInvalidTransition
	}
	for i := range s.services {
		if s.services[i].ID == serviceID {
			svc := s.services[i]
			s.selection.Service = &svc
			s.selection.Time = ""
			s.moveTo(StepDate)
			return nil
		}
	}
	return ErrUnknownService
}

// SelectDate picks a calendar date on the date step. The date must not be
// in the past and its weekday must have a configured slot; whether any slot
// is still free is shown on the time step. The selected time is cleared.
func (s *Session) SelectDate(date availability.CalendarDate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	if s.step != StepDate {
		return ErrInvalidTransition
	}
	if !availability.IsSelectable(date, s.today(), s.slots) {
		return ErrDateNotSelectable
	}
	s.selection.Date = &date
	s.selection.Time = ""
	s.month = availability.MonthOf(date)
	s.moveTo(StepTime)
	return nil
}

// SelectTime picks one of the free slots of the selected date.
func (s *Session) SelectTime(slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	if s.step != StepTime {
		return ErrInvalidTransition
	}
	for _, free := range s.freeSlots() {
		if free == slot {
			s.selection.Time = slot
			s.moveTo(StepDetails)
			return nil
		}
	}
	return ErrSlotUnavailable
}

// SetDetails stores the customer's contact fields and notes.
func (s *Session) SetDetails(customer booking.Customer, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	if s.step != StepDetails {
		return ErrInvalidTransition
	}
	s.selection.Customer = customer
	s.selection.Notes = notes
	return nil
}

// GoBack returns to the previous step. Going back from time clears the
// selected time; going back from details keeps it.
func (s *Session) GoBack() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	prev, ok := previous[s.step]
	if !ok {
		return ErrInvalidTransition
	}
	if s.step == StepTime {
		s.selection.Time = ""
	}
	s.moveTo(prev)
	return nil
}

// NextMonth shows the following month in the date picker.
func (s *Session) NextMonth() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	s.month = s.month.Next()
	return nil
}

// PrevMonth shows the preceding month, never going before today's month.
func (s *Session) PrevMonth() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	s.month = availability.ClampMonth(s.month.Prev(), s.today())
	return nil
}

// Submit sends the selection to the submitter. An incomplete selection is
// rejected without calling it. On success the session moves to the
// confirmation step and the draft is discarded; on failure it stays on the
// details step with the draft intact so the user can submit again.
func (s *Session) Submit(ctx context.Context) (*appointments.Record, error) {
	s.mu.Lock()
	if err := s.ready(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.step != StepDetails {
		s.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	store := s.store
	sel := s.selection
	if err := booking.Validate(store, sel); err != nil {
		s.lastErr = err
		s.mu.Unlock()
		return nil, err
	}
	s.submitting = true
	gen := s.generation
	s.mu.Unlock()

	rec, err := s.deps.Submitter.Submit(ctx, store, sel)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.deps.Metrics.ObserveStale("submit")
		if rec != nil {
			s.deps.Logger.Warn("appointment created for a session that moved on", "session_id", s.id, "appointment_id", rec.ID)
		}
		return nil, ErrStaleResponse
	}
	s.submitting = false
	if err != nil {
		s.lastErr = err
		if errors.Is(err, booking.ErrSlotTaken) {
			s.holdRejected(store, sel)
		}
		return nil, err
	}
	s.appointment = rec
	s.selection = booking.Selection{}
	s.moveTo(StepConfirmation)
	return rec, nil
}

// Refresh replaces the ledger snapshot with a newer one. A snapshot whose
// generation is not newer than the current one is ignored.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if err := s.ready(); err != nil {
		s.mu.Unlock()
		return err
	}
	gen := s.generation
	storeID := s.storeID
	s.mu.Unlock()

	snap, err := s.deps.Ledger.List(ctx, storeID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.deps.Metrics.ObserveStale("refresh")
		return ErrStaleResponse
	}
	if err != nil {
		s.lastErr = fmt.Errorf("%w: %w", ErrTransientIO, err)
		return s.lastErr
	}
	if snap == nil {
		s.lastErr = fmt.Errorf("%w: ledger returned no snapshot", ErrTransientIO)
		return s.lastErr
	}
	if s.snapshot == nil || snap.Generation > s.snapshot.Generation {
		s.snapshot = snap
		s.rejected = nil
	}
	return nil
}

// holdRejected marks the instant the ledger refused as occupied until a newer
// snapshot arrives, so the time step stops offering it. Callers hold s.mu.
func (s *Session) holdRejected(store booking.Store, sel booking.Selection) {
	at, err := booking.Instant(sel, store.Location)
	if err != nil {
		return
	}
	s.rejected = append(s.rejected, appointments.Record{
		StoreID: store.ID,
		Date:    at.Format(time.RFC3339),
		Status:  appointments.StatusConfirmed,
	})
}

// freeSlots resolves the selected date against the snapshot. Callers hold s.mu.
func (s *Session) freeSlots() []string {
	start := time.Now()
	var records []appointments.Record
	if s.snapshot != nil {
		records = s.snapshot.Records
	}
	if len(s.rejected) > 0 {
		records = append(append([]appointments.Record{}, records...), s.rejected...)
	}
	free := availability.Resolve(s.selection.Date, s.slots, records, s.store.Location)
	s.deps.Metrics.ObserveResolve("wizard", time.Since(start).Seconds())
	return free
}

// userMessage turns an action error into text safe to show a customer.
func userMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, booking.ErrSlotTaken):
		return "That time was just booked. Please go back and pick another."
	case errors.Is(err, ErrTransientIO):
		return "We couldn't reach the booking service. Please try again."
	case errors.Is(err, ErrValidation):
		detail := strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
		return "Please check your details: " + detail + "."
	}
	return strings.TrimPrefix(err.Error(), "wizard: ")
}
