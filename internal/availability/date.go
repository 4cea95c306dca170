// Package availability resolves which configured booking slots of a store are
// still free on a given calendar day.
//
// Nothing in this package reads the machine clock or its local zone. Callers
// capture a *time.Location once (the store's zone) and a Clock, and pass both
// explicitly.
package availability

import (
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// CalendarDate is a day on the calendar with no time of day and no zone.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate normalizes overflowing values the way time.Date does.
func NewDate(year int, month time.Month, day int) CalendarDate {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// DateOf returns the calendar date of t as seen in loc.
func DateOf(t time.Time, loc *time.Location) CalendarDate {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return CalendarDate{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (CalendarDate, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("availability: parse date %q: %w", s, err)
	}
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

func (d CalendarDate) midnightUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the date as YYYY-MM-DD.
func (d CalendarDate) String() string {
	return d.midnightUTC().Format(dateLayout)
}

// IsZero reports whether d is the zero value.
func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

// Weekday returns the day of the week, 0=Sunday.
func (d CalendarDate) Weekday() time.Weekday {
	return d.midnightUTC().Weekday()
}

// AddDays steps forward (or backward for negative n) by whole calendar days.
func (d CalendarDate) AddDays(n int) CalendarDate {
	return NewDate(d.Year, d.Month, d.Day+n)
}

// Before reports whether d is strictly earlier than other.
func (d CalendarDate) Before(other CalendarDate) bool {
	return d.midnightUTC().Before(other.midnightUTC())
}

// At combines the date with an "HH:MM" time of day in loc, seconds zeroed.
// A wall-clock time skipped by a daylight-saving jump is rejected.
func (d CalendarDate) At(hhmm string, loc *time.Location) (time.Time, error) {
	hour, minute, err := ParseSlot(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	at := time.Date(d.Year, d.Month, d.Day, hour, minute, 0, 0, loc)
	if at.Hour() != hour || at.Minute() != minute {
		return time.Time{}, fmt.Errorf("%w: %s does not exist on %s in %s", ErrInvalidSlot, hhmm, d, loc)
	}
	return at, nil
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d CalendarDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// YearMonth identifies a calendar month, used for the month the date picker shows.
type YearMonth struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing d.
func MonthOf(d CalendarDate) YearMonth {
	return YearMonth{Year: d.Year, Month: d.Month}
}

// First returns the first day of the month.
func (m YearMonth) First() CalendarDate {
	return CalendarDate{Year: m.Year, Month: m.Month, Day: 1}
}

// Next returns the following month.
func (m YearMonth) Next() YearMonth {
	return MonthOf(NewDate(m.Year, m.Month+1, 1))
}

// Prev returns the preceding month.
func (m YearMonth) Prev() YearMonth {
	return MonthOf(NewDate(m.Year, m.Month-1, 1))
}

// Before reports whether m is strictly earlier than other.
func (m YearMonth) Before(other YearMonth) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// Days lists every date of the month in order.
func (m YearMonth) Days() []CalendarDate {
	var days []CalendarDate
	for d := m.First(); d.Month == m.Month; d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// String formats the month as YYYY-MM.
func (m YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MarshalJSON encodes the month as "YYYY-MM".
func (m YearMonth) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes a "YYYY-MM" string.
func (m *YearMonth) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return fmt.Errorf("availability: parse month %q: %w", s, err)
	}
	*m = YearMonth{Year: t.Year(), Month: t.Month()}
	return nil
}

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Today returns the current date in loc.
func Today(clock Clock, loc *time.Location) CalendarDate {
	if clock == nil {
		clock = SystemClock
	}
	return DateOf(clock.Now(), loc)
}
