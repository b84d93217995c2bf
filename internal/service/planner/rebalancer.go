package planner

import (
	"sort"
	"time"

	"github.com/maintcore/cmms-backend-go/internal/domain/calendar"
	"github.com/maintcore/cmms-backend-go/internal/domain/task"
)

const (
	// maxAdjustAttempts bounds the forward search of the non-working-day
	// pre-pass.
	maxAdjustAttempts = 10
	// maxMoveAttempts bounds the forward search for a free slot when a
	// task is pushed off an overloaded day.
	maxMoveAttempts = 30
	// maxRebalancePasses bounds the per-user overload sweeps; residual
	// overload after the last pass is tolerated.
	maxRebalancePasses = 3
)

// userCalendar is an in-memory snapshot of one user's working-time
// configuration, enough to resolve capacity without further queries.
type userCalendar struct {
	patternHours map[int]float64
	specials     map[time.Time]calendar.SpecialDay
}

func (c userCalendar) capacity(date time.Time) calendar.DayCapacity {
	day := calendar.NormalizeDate(date)
	var special *calendar.SpecialDay
	if s, ok := c.specials[day]; ok {
		special = &s
	}
	return calendar.ResolveDayCapacity(c.patternHours, special, day)
}

// adjustDueDate pushes a due date forward one day at a time until it
// lands on a working day, up to maxAdjustAttempts. The second result is
// false when the attempt budget ran out with the date still non-working.
func adjustDueDate(cal userCalendar, due time.Time) (time.Time, bool) {
	for attempts := 0; attempts < maxAdjustAttempts; attempts++ {
		if !cal.capacity(due).IsNonWorking {
			return due, true
		}
		due = due.AddDate(0, 0, 1)
	}
	return due, !cal.capacity(due).IsNonWorking
}

// rebalanceUser redistributes one user's tasks so no day carries more
// estimated hours than its capacity. Greedy, best-effort: up to
// maxRebalancePasses sweeps; within an overloaded day the latest-due
// tasks move first; each moved task walks forward day by day (max
// maxMoveAttempts) looking for a working day with enough free capacity,
// counting tasks already placed there earlier in the same pass. Tasks
// whose search exhausts the budget keep their last shifted date and are
// reported as unplaced.
func rebalanceUser(cal userCalendar, tasks []*task.Task) (moved int, unplaced []string) {
	for pass := 0; pass < maxRebalancePasses; pass++ {
		overloadFound := false

		byDay := make(map[time.Time][]*task.Task)
		for _, t := range tasks {
			byDay[calendar.NormalizeDate(*t.DueDate)] = append(byDay[calendar.NormalizeDate(*t.DueDate)], t)
		}

		days := make([]time.Time, 0, len(byDay))
		for d := range byDay {
			days = append(days, d)
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

		for _, day := range days {
			dayTasks := byDay[day]
			cap := cal.capacity(day).CapacityHours

			var moving []*task.Task
			if cap <= 0 {
				// A zero-capacity day holds nothing.
				moving = dayTasks
			} else {
				total := 0.0
				for _, t := range dayTasks {
					total += estimate(t)
				}
				if total <= cap+calendar.HoursEpsilon {
					continue
				}
				overloadFound = true

				// Latest due first, so the earliest work stays in place.
				sorted := append([]*task.Task(nil), dayTasks...)
				sort.Slice(sorted, func(i, j int) bool {
					if !sorted[i].DueDate.Equal(*sorted[j].DueDate) {
						return sorted[i].DueDate.After(*sorted[j].DueDate)
					}
					return sorted[i].ID > sorted[j].ID
				})
				remaining := total
				for _, t := range sorted {
					moving = append(moving, t)
					remaining -= estimate(t)
					if remaining <= cap+calendar.HoursEpsilon {
						break
					}
				}
			}

			for _, t := range moving {
				if placeTask(cal, tasks, t) {
					moved++
				} else {
					unplaced = append(unplaced, t.ID)
				}
			}
		}

		if !overloadFound {
			break
		}
	}
	return moved, unplaced
}

// placeTask advances t's due date past its current day until it finds a
// working day with room for its estimate. Returns false when the attempt
// budget is exhausted; t then keeps the last tried date.
func placeTask(cal userCalendar, all []*task.Task, t *task.Task) bool {
	due := t.DueDate.AddDate(0, 0, 1)
	for attempts := 0; attempts < maxMoveAttempts; attempts++ {
		day := cal.capacity(due)
		if day.CapacityHours <= 0 {
			due = due.AddDate(0, 0, 1)
			continue
		}

		load := 0.0
		for _, other := range all {
			if other == t {
				continue
			}
			if calendar.NormalizeDate(*other.DueDate).Equal(day.Date) {
				load += estimate(other)
			}
		}
		if load+estimate(t) <= day.CapacityHours+calendar.HoursEpsilon {
			*t.DueDate = due
			return true
		}
		due = due.AddDate(0, 0, 1)
	}
	*t.DueDate = due
	return false
}

func estimate(t *task.Task) float64 {
	if t.EstimatedHours == nil {
		return 0
	}
	return *t.EstimatedHours
}
