package calendar

import "time"

// DefaultDailyHours is the working-hours default used when a user has no
// configured weekly pattern (Monday to Friday).
const DefaultDailyHours = 8.0

// HoursEpsilon absorbs floating-point rounding in accumulated hour sums;
// capacity comparisons must never reject on sub-microsecond overflow.
const HoursEpsilon = 1e-6

// WorkingDayPattern is one row of a user's weekly working-time template.
// A user has at most one active row per weekday; an absent weekday means
// zero hours.
type WorkingDayPattern struct {
	ID        string
	UserID    string
	Weekday   int // 0=Monday .. 6=Sunday
	Hours     float64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SpecialDay is a date-specific override of the weekly pattern: vacation,
// holiday or a partial/modified day. Unique per (user, date). A working
// override with nil Hours inherits the pattern hours for that weekday.
type SpecialDay struct {
	ID        string
	UserID    string
	Date      time.Time
	IsWorking bool
	Hours     *float64
	Reason    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DayCapacity is the computed availability of a user on one date. Never
// persisted.
type DayCapacity struct {
	Date          time.Time
	CapacityHours float64
	IsNonWorking  bool
	Reason        *string
}

// WeekdayIndex maps a date onto the 0=Monday..6=Sunday convention used by
// WorkingDayPattern rows (Go's time.Weekday starts the week on Sunday).
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// NormalizeDate truncates a timestamp to its calendar day in UTC so dates
// can be compared and used as map keys.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DatesInRange expands an inclusive date range into its normalized
// calendar days. Returns nil when end precedes start.
func DatesInRange(start, end time.Time) []time.Time {
	first := NormalizeDate(start)
	last := NormalizeDate(end)

	var dates []time.Time
	for cur := first; !cur.After(last); cur = cur.AddDate(0, 0, 1) {
		dates = append(dates, cur)
	}
	return dates
}

// DefaultPatternRows builds the lazily-created standard week for a user:
// Monday to Friday at DefaultDailyHours, Saturday and Sunday at zero, all
// rows active.
func DefaultPatternRows(userID string) []WorkingDayPattern {
	rows := make([]WorkingDayPattern, 0, 7)
	for wd := 0; wd < 7; wd++ {
		hours := 0.0
		if wd < 5 {
			hours = DefaultDailyHours
		}
		rows = append(rows, WorkingDayPattern{
			UserID:   userID,
			Weekday:  wd,
			Hours:    hours,
			IsActive: true,
		})
	}
	return rows
}

// PatternHours collapses pattern rows into weekday -> hours, treating
// inactive rows as zero. Missing weekdays stay absent and resolve to zero
// at capacity time.
func PatternHours(rows []WorkingDayPattern) map[int]float64 {
	hours := make(map[int]float64, len(rows))
	for _, r := range rows {
		if r.IsActive {
			hours[r.Weekday] = r.Hours
		} else {
			hours[r.Weekday] = 0
		}
	}
	return hours
}

// ResolveDayCapacity overlays an optional special day on the weekly
// pattern for one date. Override precedence:
//
//  1. special non-working day: zero capacity, special's reason
//  2. special working day: its hours, or the pattern hours when nil
//  3. no special day: pattern hours for the weekday (absent row = 0)
//
// IsNonWorking is true exactly when the resolved capacity is zero.
func ResolveDayCapacity(patternHours map[int]float64, special *SpecialDay, date time.Time) DayCapacity {
	day := NormalizeDate(date)

	if special != nil {
		if !special.IsWorking {
			return DayCapacity{Date: day, CapacityHours: 0, IsNonWorking: true, Reason: special.Reason}
		}
		hours := patternHours[WeekdayIndex(day)]
		if special.Hours != nil {
			hours = *special.Hours
		}
		if hours < 0 {
			hours = 0
		}
		return DayCapacity{Date: day, CapacityHours: hours, IsNonWorking: hours == 0, Reason: special.Reason}
	}

	hours := patternHours[WeekdayIndex(day)]
	if hours < 0 {
		hours = 0
	}
	return DayCapacity{Date: day, CapacityHours: hours, IsNonWorking: hours == 0}
}
