package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maintcore/cmms-backend-go/internal/domain/calendar"
	"github.com/maintcore/cmms-backend-go/internal/domain/task"
	"github.com/maintcore/cmms-backend-go/internal/domain/user"
)

type fakeTaskRepo struct {
	tasks  map[string]task.Task
	nextID int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]task.Task)}
}

func (f *fakeTaskRepo) Create(_ context.Context, t task.Task) (task.Task, error) {
	f.nextID++
	t.ID = string(rune('a' + f.nextID - 1))
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id string) (task.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return task.Task{}, task.ErrTaskNotFound
	}
	return t, nil
}

func (f *fakeTaskRepo) List(_ context.Context, _ task.Filter) ([]task.Task, int64, error) {
	var out []task.Task
	for _, t := range f.tasks {
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (f *fakeTaskRepo) ListByUser(_ context.Context, userID string) ([]task.Task, error) {
	var out []task.Task
	for _, t := range f.tasks {
		if t.AssignedTo != nil && *t.AssignedTo == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) Update(_ context.Context, t task.Task) (task.Task, error) {
	if _, ok := f.tasks[t.ID]; !ok {
		return task.Task{}, task.ErrTaskNotFound
	}
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.tasks[id]; !ok {
		return false, nil
	}
	delete(f.tasks, id)
	return true, nil
}

func (f *fakeTaskRepo) SumEstimatedHoursForDay(_ context.Context, userID string, day time.Time, excludeTaskID *string) (float64, error) {
	target := calendar.NormalizeDate(day)
	var sum float64
	for _, t := range f.tasks {
		if excludeTaskID != nil && t.ID == *excludeTaskID {
			continue
		}
		if t.AssignedTo == nil || *t.AssignedTo != userID || t.DueDate == nil || t.EstimatedHours == nil {
			continue
		}
		if calendar.NormalizeDate(*t.DueDate).Equal(target) {
			sum += *t.EstimatedHours
		}
	}
	return sum, nil
}

func (f *fakeTaskRepo) ListAssignedInRange(_ context.Context, _ []string, _, _ time.Time) ([]task.Task, error) {
	return nil, nil
}

func (f *fakeTaskRepo) ListAllAssigned(_ context.Context) ([]task.Task, error) {
	return nil, nil
}

func (f *fakeTaskRepo) UpdateDueDates(_ context.Context, _ map[string]time.Time) error {
	return nil
}

func (f *fakeTaskRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.tasks)), nil
}

type fakeUserRepo struct {
	users map[string]user.User
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) { return u, nil }

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]user.User, error) { return nil, nil }

func (f *fakeUserRepo) ListByDepartmentIDs(_ context.Context, _ []string) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, _ user.Role) (int64, error) { return 0, nil }

// fakeCalendar serves a fixed Monday-Friday 8h week with optional
// per-date overrides.
type fakeCalendar struct {
	overrides map[time.Time]calendar.DayCapacity
}

func (f *fakeCalendar) ComputeCapacityWeek(_ context.Context, _ string, start time.Time, numDays int) ([]calendar.DayCapacity, error) {
	pattern := calendar.PatternHours(calendar.DefaultPatternRows("any"))
	days := make([]calendar.DayCapacity, 0, numDays)
	for i := 0; i < numDays; i++ {
		day := calendar.NormalizeDate(start).AddDate(0, 0, i)
		if dc, ok := f.overrides[day]; ok {
			days = append(days, dc)
			continue
		}
		days = append(days, calendar.ResolveDayCapacity(pattern, nil, day))
	}
	return days, nil
}

func (f *fakeCalendar) GetOrCreateDefaultPattern(_ context.Context, userID string) ([]calendar.WorkingDayPattern, error) {
	return calendar.DefaultPatternRows(userID), nil
}

func (f *fakeCalendar) SetPattern(_ context.Context, _ string, _ calendar.SetPatternRequest) ([]calendar.WorkingDayPattern, error) {
	return nil, nil
}

func (f *fakeCalendar) AddSpecialDay(_ context.Context, _ string, _ calendar.CreateSpecialDayRequest) (calendar.SpecialDay, error) {
	return calendar.SpecialDay{}, nil
}

func (f *fakeCalendar) AddVacationRange(_ context.Context, _ string, _ calendar.VacationRangeRequest) ([]calendar.SpecialDay, error) {
	return nil, nil
}

func (f *fakeCalendar) ListSpecialDays(_ context.Context, _ string, _, _ time.Time) ([]calendar.SpecialDay, error) {
	return nil, nil
}

func (f *fakeCalendar) DeleteSpecialDay(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func (f *fakeCalendar) IsNonWorking(_ context.Context, _ string, _ time.Time) (bool, error) {
	return false, nil
}

func (f *fakeCalendar) ListTeamVacations(_ context.Context, _ string, _, _ time.Time) ([]calendar.TeamVacationDay, error) {
	return nil, nil
}

func ptr[T any](v T) *T { return &v }

func newTestSetup(overrides map[time.Time]calendar.DayCapacity) (task.Service, *fakeTaskRepo) {
	repo := newFakeTaskRepo()
	users := &fakeUserRepo{users: map[string]user.User{
		"tech1": {ID: "tech1", Role: user.RoleTechnician},
	}}
	svc := NewTaskService(nil, repo, users, &fakeCalendar{overrides: overrides})
	return svc, repo
}

func monday() time.Time {
	return time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
}

func TestCreateRejectsOverflow(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSetup(nil)

	// 6 hours already planned on Monday.
	_, err := svc.Create(ctx, task.CreateTaskRequest{
		Title:          "Replace bearings",
		AssignedTo:     ptr("tech1"),
		DueDate:        ptr(monday()),
		EstimatedHours: ptr(6.0),
	}, "admin")
	require.NoError(t, err)

	// 6 + 3 > 8 is rejected.
	_, err = svc.Create(ctx, task.CreateTaskRequest{
		Title:          "Inspect seals",
		AssignedTo:     ptr("tech1"),
		DueDate:        ptr(monday()),
		EstimatedHours: ptr(3.0),
	}, "admin")
	assert.ErrorIs(t, err, calendar.ErrCapacityExceeded)

	// 6 + 2 = 8 exactly fills the day and is accepted.
	_, err = svc.Create(ctx, task.CreateTaskRequest{
		Title:          "Inspect seals",
		AssignedTo:     ptr("tech1"),
		DueDate:        ptr(monday()),
		EstimatedHours: ptr(2.0),
	}, "admin")
	assert.NoError(t, err)
}

func TestCreateRejectsNonWorkingDay(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSetup(nil)

	saturday := monday().AddDate(0, 0, 5)
	_, err := svc.Create(ctx, task.CreateTaskRequest{
		Title:          "Weekend patrol",
		AssignedTo:     ptr("tech1"),
		DueDate:        ptr(saturday),
		EstimatedHours: ptr(1.0),
	}, "admin")
	assert.ErrorIs(t, err, calendar.ErrNonWorkingDay)
}

func TestCreateSkipsGateWithoutAssigneeOrDueDate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSetup(nil)

	// Unassigned task on a Saturday: no gate.
	saturday := monday().AddDate(0, 0, 5)
	_, err := svc.Create(ctx, task.CreateTaskRequest{
		Title:   "Backlog item",
		DueDate: ptr(saturday),
	}, "admin")
	assert.NoError(t, err)

	// Assigned but undated: no gate.
	_, err = svc.Create(ctx, task.CreateTaskRequest{
		Title:      "Someday",
		AssignedTo: ptr("tech1"),
	}, "admin")
	assert.NoError(t, err)

	// Assigned and dated but without an estimate: only the non-working
	// check applies.
	_, err = svc.Create(ctx, task.CreateTaskRequest{
		Title:      "Unestimated",
		AssignedTo: ptr("tech1"),
		DueDate:    ptr(monday()),
	}, "admin")
	assert.NoError(t, err)
}

func TestCreateRejectsUnknownAssignee(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSetup(nil)

	_, err := svc.Create(ctx, task.CreateTaskRequest{
		Title:      "Ghost work",
		AssignedTo: ptr("nobody"),
	}, "admin")
	assert.ErrorIs(t, err, task.ErrAssigneeNotFound)
}

func TestUpdateExcludesOwnHours(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSetup(nil)

	created, err := svc.Create(ctx, task.CreateTaskRequest{
		Title:          "Align coupling",
		AssignedTo:     ptr("tech1"),
		DueDate:        ptr(monday()),
		EstimatedHours: ptr(6.0),
	}, "admin")
	require.NoError(t, err)

	// Re-saving the same task must not double-count its own 6 hours.
	updated, err := svc.Update(ctx, created.ID, task.UpdateTaskRequest{
		Title: ptr("Align pump coupling"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Align pump coupling", updated.Title)

	// Growing it past the day capacity is rejected.
	_, err = svc.Update(ctx, created.ID, task.UpdateTaskRequest{
		EstimatedHours: ptr(9.0),
	})
	assert.ErrorIs(t, err, calendar.ErrCapacityExceeded)
}

func TestUpdateMovesToNonWorkingDayRejected(t *testing.T) {
	ctx := context.Background()
	reason := "Annual leave"
	vacationDay := monday().AddDate(0, 0, 1)
	svc, _ := newTestSetup(map[time.Time]calendar.DayCapacity{
		vacationDay: {Date: vacationDay, CapacityHours: 0, IsNonWorking: true, Reason: &reason},
	})

	created, err := svc.Create(ctx, task.CreateTaskRequest{
		Title:          "Swap sensor",
		AssignedTo:     ptr("tech1"),
		DueDate:        ptr(monday()),
		EstimatedHours: ptr(2.0),
	}, "admin")
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, task.UpdateTaskRequest{
		DueDate: ptr(vacationDay),
	})
	assert.ErrorIs(t, err, calendar.ErrNonWorkingDay)
	assert.Contains(t, err.Error(), reason)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSetup(nil)

	created, err := svc.Create(ctx, task.CreateTaskRequest{Title: "Disposable"}, "admin")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), task.ErrTaskNotFound)
}
