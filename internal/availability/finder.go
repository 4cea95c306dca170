package availability

// DefaultHorizonDays bounds the forward scan for the next bookable date.
const DefaultHorizonDays = 30

// FindNext scans horizonDays calendar days starting at from (inclusive) and
// returns the first one whose weekday has any configured slot. It only looks
// at configuration: the returned date may turn out fully booked once
// Resolve subtracts occupancy. A non-positive horizon means DefaultHorizonDays.
func FindNext(slots WeeklySlotMap, horizonDays int, from CalendarDate) (CalendarDate, bool) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	day := from
	for i := 0; i < horizonDays; i++ {
		if len(slots.SlotsFor(day.Weekday())) > 0 {
			return day, true
		}
		day = day.AddDays(1)
	}
	return CalendarDate{}, false
}

// IsSelectable gates a date click in the picker: the date must not be in the
// past and its weekday must have at least one configured slot. Occupancy is
// checked at the time step.
func IsSelectable(date, today CalendarDate, slots WeeklySlotMap) bool {
	if date.Before(today) {
		return false
	}
	return len(slots.SlotsFor(date.Weekday())) > 0
}

// ClampMonth keeps the visible picker month from going before today's month.
func ClampMonth(month YearMonth, today CalendarDate) YearMonth {
	floor := MonthOf(today)
	if month.Before(floor) {
		return floor
	}
	return month
}
