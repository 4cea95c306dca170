package availability

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSlot is returned for a slot that is not a zero-padded 24h "HH:MM".
var ErrInvalidSlot = errors.New("slot must be a zero-padded HH:MM time")

// WeeklySlotMap maps a weekday (0=Sunday … 6=Saturday) to the bookable start
// times of that day. The order within a day is the display order. Duplicates
// are tolerated.
type WeeklySlotMap map[int][]string

// NewWeeklySlotMap returns a map with every weekday present and empty.
func NewWeeklySlotMap() WeeklySlotMap {
	return WeeklySlotMap{}.Normalize()
}

// Normalize returns a copy that has all seven weekday keys, each with a
// non-nil list. Keys outside 0–6 are dropped.
func (w WeeklySlotMap) Normalize() WeeklySlotMap {
	out := make(WeeklySlotMap, 7)
	for day := 0; day < 7; day++ {
		slots := w[day]
		cp := make([]string, len(slots))
		copy(cp, slots)
		out[day] = cp
	}
	return out
}

// SlotsFor returns the configured slots of a weekday, empty when none.
func (w WeeklySlotMap) SlotsFor(day time.Weekday) []string {
	if w == nil {
		return nil
	}
	return w[int(day)]
}

// HasAnySlots reports whether at least one weekday has a slot.
func (w WeeklySlotMap) HasAnySlots() bool {
	for _, slots := range w {
		if len(slots) > 0 {
			return true
		}
	}
	return false
}

// Validate checks weekday keys and every slot string.
func (w WeeklySlotMap) Validate() error {
	for day, slots := range w {
		if day < 0 || day > 6 {
			return fmt.Errorf("availability: weekday %d out of range", day)
		}
		for _, slot := range slots {
			if _, _, err := ParseSlot(slot); err != nil {
				return fmt.Errorf("availability: weekday %d: %w", day, err)
			}
		}
	}
	return nil
}

// ParseSlot parses a strict "HH:MM" string. "9:00" and "09:00:00" are rejected.
func ParseSlot(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	return t.Hour(), t.Minute(), nil
}

// FormatSlot renders an hour and minute as "HH:MM".
func FormatSlot(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
