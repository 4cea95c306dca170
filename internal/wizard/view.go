package wizard

import (
	"github.com/wolfman30/booksite-platform/internal/appointments"
	"github.com/wolfman30/booksite-platform/internal/availability"
	"github.com/wolfman30/booksite-platform/internal/booking"
	"github.com/wolfman30/booksite-platform/internal/catalog"
)

// DayView is one cell of the date picker.
type DayView struct {
	Date       availability.CalendarDate `json:"date"`
	Selectable bool                      `json:"selectable"`
	Selected   bool                      `json:"selected"`
}

// MonthView is the visible month of the date picker.
type MonthView struct {
	Month   availability.YearMonth `json:"month"`
	Days    []DayView              `json:"days"`
	HasPrev bool                   `json:"has_prev"`
}

// View is everything the UI needs to render the current step.
type View struct {
	SessionID        string               `json:"session_id"`
	StoreID          string               `json:"store_id"`
	StoreName        string               `json:"store_name,omitempty"`
	Timezone         string               `json:"timezone,omitempty"`
	Step             Step                 `json:"step"`
	Loading          bool                 `json:"loading"`
	Closed           bool                 `json:"closed"`
	Services         []catalog.Service    `json:"services"`
	Selection        booking.Selection    `json:"selection"`
	Slots            []string             `json:"slots"`
	Month            *MonthView           `json:"month,omitempty"`
	LedgerGeneration int64                `json:"ledger_generation"`
	Error            string               `json:"error,omitempty"`
	Appointment      *appointments.Record `json:"appointment,omitempty"`
}

// View renders the session. Slots are resolved fresh against the held
// snapshot for the selected date; they are empty when no date is selected.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		SessionID:   s.id,
		StoreID:     s.storeID,
		StoreName:   s.store.Name,
		Step:        s.step,
		Loading:     s.loading,
		Closed:      s.closed,
		Services:    append([]catalog.Service{}, s.services...),
		Selection:   s.selection,
		Slots:       []string{},
		Error:       userMessage(s.lastErr),
		Appointment: s.appointment,
	}
	if s.store.Location != nil {
		v.Timezone = s.store.Location.String()
	}
	if s.closed || s.loading || s.snapshot == nil {
		return v
	}
	v.LedgerGeneration = s.snapshot.Generation
	v.Slots = s.freeSlots()

	today := s.today()
	month := &MonthView{
		Month:   s.month,
		HasPrev: availability.MonthOf(today).Before(s.month),
	}
	for _, day := range s.month.Days() {
		month.Days = append(month.Days, DayView{
			Date:       day,
			Selectable: availability.IsSelectable(day, today, s.slots),
			Selected:   s.selection.Date != nil && *s.selection.Date == day,
		})
	}
	v.Month = month
	return v
}
