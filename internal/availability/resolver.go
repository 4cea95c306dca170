package availability

import (
	"time"

	"github.com/wolfman30/booksite-platform/internal/appointments"
)

// Resolve returns the configured slots of date's weekday that no
// non-cancelled appointment occupies on that date. The result keeps the
// configured order and drops repeated entries; it is never nil.
//
// Occupancy is an exact "HH:MM" match. An appointment at 09:05 does not block
// a 09:00 slot, and a service longer than the slot spacing only blocks its
// own start time. Records whose date or time cannot be read are treated as
// not occupying anything. Slots that do not exist on date in loc, such as
// times skipped by a daylight-saving jump, are never offered.
func Resolve(date *CalendarDate, slots WeeklySlotMap, records []appointments.Record, loc *time.Location) []string {
	free := []string{}
	if date == nil {
		return free
	}
	configured := slots.SlotsFor(date.Weekday())
	if len(configured) == 0 {
		return free
	}

	occupied := make(map[string]struct{})
	for _, rec := range records {
		if !rec.Status.Occupying() {
			continue
		}
		day, slot, ok := OccupiedSlot(rec, loc)
		if !ok || day != *date {
			continue
		}
		occupied[slot] = struct{}{}
	}

	seen := make(map[string]struct{}, len(configured))
	for _, slot := range configured {
		if _, dup := seen[slot]; dup {
			continue
		}
		seen[slot] = struct{}{}
		if _, taken := occupied[slot]; taken {
			continue
		}
		if _, err := date.At(slot, loc); err != nil {
			continue
		}
		free = append(free, slot)
	}
	return free
}

// OccupiedSlot derives the calendar date and "HH:MM" start an appointment
// claims, as seen in loc. An explicit legacy Time wins over the time of day
// carried by Date. A date-only record without a usable Time reports ok=false.
func OccupiedSlot(rec appointments.Record, loc *time.Location) (CalendarDate, string, bool) {
	day, slot, ok := rec.LocalStart(loc)
	if !ok {
		return CalendarDate{}, "", false
	}
	date, err := ParseDate(day)
	if err != nil {
		return CalendarDate{}, "", false
	}
	return date, slot, true
}
