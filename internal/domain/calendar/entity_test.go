package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekdayIndex(t *testing.T) {
	// 2026-06-01 is a Monday.
	monday := date(2026, time.June, 1)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i, WeekdayIndex(monday.AddDate(0, 0, i)))
	}
}

func TestNormalizeDate(t *testing.T) {
	ts := time.Date(2026, time.June, 1, 17, 45, 12, 999, time.UTC)
	assert.Equal(t, date(2026, time.June, 1), NormalizeDate(ts))

	// Timezone offsets collapse onto the UTC calendar day.
	cet := time.FixedZone("CET", 3600)
	assert.Equal(t, date(2026, time.May, 31), NormalizeDate(time.Date(2026, time.June, 1, 0, 30, 0, 0, cet)))
}

func TestDefaultPatternRows(t *testing.T) {
	rows := DefaultPatternRows("u1")
	require.Len(t, rows, 7)

	for wd, row := range rows {
		assert.Equal(t, "u1", row.UserID)
		assert.Equal(t, wd, row.Weekday)
		assert.True(t, row.IsActive)
		if wd < 5 {
			assert.Equal(t, DefaultDailyHours, row.Hours)
		} else {
			assert.Zero(t, row.Hours)
		}
	}
}

func TestPatternHours(t *testing.T) {
	rows := []WorkingDayPattern{
		{Weekday: 0, Hours: 8, IsActive: true},
		{Weekday: 1, Hours: 6, IsActive: false},
	}
	hours := PatternHours(rows)

	assert.Equal(t, 8.0, hours[0])
	assert.Zero(t, hours[1], "inactive rows count as zero")
	_, ok := hours[2]
	assert.False(t, ok, "missing weekdays stay absent")
}

func TestResolveDayCapacity(t *testing.T) {
	pattern := PatternHours(DefaultPatternRows("u1"))
	monday := date(2026, time.June, 1)
	saturday := date(2026, time.June, 6)
	reason := "Annual leave"
	half := 4.0

	t.Run("pattern only", func(t *testing.T) {
		got := ResolveDayCapacity(pattern, nil, monday)
		assert.Equal(t, 8.0, got.CapacityHours)
		assert.False(t, got.IsNonWorking)

		got = ResolveDayCapacity(pattern, nil, saturday)
		assert.Zero(t, got.CapacityHours)
		assert.True(t, got.IsNonWorking)
	})

	t.Run("non-working override wins", func(t *testing.T) {
		special := &SpecialDay{Date: monday, IsWorking: false, Reason: &reason}
		got := ResolveDayCapacity(pattern, special, monday)
		assert.Zero(t, got.CapacityHours)
		assert.True(t, got.IsNonWorking)
		require.NotNil(t, got.Reason)
		assert.Equal(t, reason, *got.Reason)
	})

	t.Run("working override with hours", func(t *testing.T) {
		special := &SpecialDay{Date: monday, IsWorking: true, Hours: &half}
		got := ResolveDayCapacity(pattern, special, monday)
		assert.Equal(t, 4.0, got.CapacityHours)
		assert.False(t, got.IsNonWorking)
	})

	t.Run("working override with nil hours inherits the pattern", func(t *testing.T) {
		special := &SpecialDay{Date: monday, IsWorking: true}
		got := ResolveDayCapacity(pattern, special, monday)
		assert.Equal(t, 8.0, got.CapacityHours)
		assert.False(t, got.IsNonWorking)
	})

	t.Run("working override on a pattern-off day", func(t *testing.T) {
		// Saturday has zero pattern hours, so inheriting still yields a
		// non-working day.
		special := &SpecialDay{Date: saturday, IsWorking: true}
		got := ResolveDayCapacity(pattern, special, saturday)
		assert.Zero(t, got.CapacityHours)
		assert.True(t, got.IsNonWorking)

		// An explicit hour value turns it into a working day.
		special.Hours = &half
		got = ResolveDayCapacity(pattern, special, saturday)
		assert.Equal(t, 4.0, got.CapacityHours)
		assert.False(t, got.IsNonWorking)
	})

	t.Run("never negative", func(t *testing.T) {
		negative := -3.0
		special := &SpecialDay{Date: monday, IsWorking: true, Hours: &negative}
		got := ResolveDayCapacity(pattern, special, monday)
		assert.Zero(t, got.CapacityHours)
		assert.True(t, got.IsNonWorking)
	})

	t.Run("missing weekday resolves to zero", func(t *testing.T) {
		partial := map[int]float64{0: 8}
		got := ResolveDayCapacity(partial, nil, monday.AddDate(0, 0, 1))
		assert.Zero(t, got.CapacityHours)
		assert.True(t, got.IsNonWorking)
	})
}

func TestDatesInRange(t *testing.T) {
	dates := DatesInRange(date(2026, time.June, 2), date(2026, time.June, 4))
	require.Len(t, dates, 3)
	assert.Equal(t, date(2026, time.June, 2), dates[0])
	assert.Equal(t, date(2026, time.June, 4), dates[2])

	assert.Len(t, DatesInRange(date(2026, time.June, 2), date(2026, time.June, 2)), 1)
	assert.Empty(t, DatesInRange(date(2026, time.June, 4), date(2026, time.June, 2)))
}
