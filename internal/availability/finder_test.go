package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFindNextReturnsFirstConfiguredDay(t *testing.T) {
	from := NewDate(2024, time.June, 5) // Wednesday
	got, ok := FindNext(mondaySlots(), 30, from)
	assert.True(t, ok)
	assert.Equal(t, NewDate(2024, time.June, 10), got)
}

func TestFindNextIncludesStartDay(t *testing.T) {
	from := NewDate(2024, time.June, 10) // Monday
	got, ok := FindNext(mondaySlots(), 30, from)
	assert.True(t, ok)
	assert.Equal(t, from, got)
}

func TestFindNextNoSlots(t *testing.T) {
	_, ok := FindNext(NewWeeklySlotMap(), 30, NewDate(2024, time.June, 10))
	assert.False(t, ok)
}

func TestFindNextScansExactlyHorizon(t *testing.T) {
	// From a Monday the only configured weekday, Sunday, is six days out:
	// day index 6, reachable with a horizon of 7 and not with 6.
	w := NewWeeklySlotMap()
	w[int(time.Sunday)] = []string{"12:00"}
	from := NewDate(2024, time.June, 10)

	_, ok := FindNext(w, 6, from)
	assert.False(t, ok)

	got, ok := FindNext(w, 7, from)
	assert.True(t, ok)
	assert.Equal(t, NewDate(2024, time.June, 16), got)
}

func TestFindNextDefaultsHorizon(t *testing.T) {
	w := NewWeeklySlotMap()
	w[int(time.Sunday)] = []string{"12:00"}
	_, ok := FindNext(w, 0, NewDate(2024, time.June, 10))
	assert.True(t, ok)
}

func TestFindNextCrossesMonthAndYear(t *testing.T) {
	w := NewWeeklySlotMap()
	w[int(time.Thursday)] = []string{"12:00"}
	got, ok := FindNext(w, 30, NewDate(2024, time.December, 30))
	assert.True(t, ok)
	assert.Equal(t, NewDate(2025, time.January, 2), got)
}

func TestIsSelectable(t *testing.T) {
	today := NewDate(2024, time.June, 12) // Wednesday
	w := mondaySlots()

	assert.False(t, IsSelectable(NewDate(2024, time.June, 10), today, w), "past monday")
	assert.True(t, IsSelectable(NewDate(2024, time.June, 17), today, w))
	assert.False(t, IsSelectable(NewDate(2024, time.June, 18), today, w), "tuesday has no slots")

	w[int(time.Wednesday)] = []string{"09:00"}
	assert.True(t, IsSelectable(today, today, w), "today is not in the past")
}

func TestClampMonth(t *testing.T) {
	today := NewDate(2024, time.June, 12)
	assert.Equal(t, YearMonth{2024, time.June}, ClampMonth(YearMonth{2024, time.May}, today))
	assert.Equal(t, YearMonth{2024, time.June}, ClampMonth(YearMonth{2023, time.December}, today))
	assert.Equal(t, YearMonth{2024, time.July}, ClampMonth(YearMonth{2024, time.July}, today))
}
