package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maintcore/cmms-backend-go/internal/domain/calendar"
	"github.com/maintcore/cmms-backend-go/internal/domain/user"
	"github.com/maintcore/cmms-backend-go/internal/pkg/database"
)

type fakePatternRepo struct {
	rows map[string][]calendar.WorkingDayPattern
}

func (f *fakePatternRepo) GetByUserID(_ context.Context, userID string) ([]calendar.WorkingDayPattern, error) {
	return f.rows[userID], nil
}

func (f *fakePatternRepo) BulkCreate(_ context.Context, rows []calendar.WorkingDayPattern) ([]calendar.WorkingDayPattern, error) {
	if f.rows == nil {
		f.rows = make(map[string][]calendar.WorkingDayPattern)
	}
	for _, r := range rows {
		f.rows[r.UserID] = append(f.rows[r.UserID], r)
	}
	return rows, nil
}

func (f *fakePatternRepo) DeleteByUserID(_ context.Context, userID string) error {
	delete(f.rows, userID)
	return nil
}

type fakeSpecialRepo struct {
	days []calendar.SpecialDay
}

func (f *fakeSpecialRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time) (*calendar.SpecialDay, error) {
	for i := range f.days {
		if f.days[i].UserID == userID && f.days[i].Date.Equal(calendar.NormalizeDate(date)) {
			return &f.days[i], nil
		}
	}
	return nil, nil
}

func (f *fakeSpecialRepo) ListByUserInRange(_ context.Context, userID string, start, end time.Time) ([]calendar.SpecialDay, error) {
	var out []calendar.SpecialDay
	for _, d := range f.days {
		if d.UserID == userID && !d.Date.Before(start) && !d.Date.After(end) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeSpecialRepo) ListNonWorkingByUsersInRange(_ context.Context, userIDs []string, start, end time.Time) ([]calendar.SpecialDay, error) {
	ids := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		ids[id] = true
	}
	var out []calendar.SpecialDay
	for _, d := range f.days {
		if ids[d.UserID] && !d.IsWorking && !d.Date.Before(start) && !d.Date.After(end) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeSpecialRepo) ListAll(_ context.Context) ([]calendar.SpecialDay, error) {
	return f.days, nil
}

func (f *fakeSpecialRepo) Upsert(_ context.Context, day calendar.SpecialDay) (calendar.SpecialDay, error) {
	day.Date = calendar.NormalizeDate(day.Date)
	for i := range f.days {
		if f.days[i].UserID == day.UserID && f.days[i].Date.Equal(day.Date) {
			day.ID = f.days[i].ID
			f.days[i] = day
			return day, nil
		}
	}
	day.ID = day.UserID + day.Date.Format("2006-01-02")
	f.days = append(f.days, day)
	return day, nil
}

func (f *fakeSpecialRepo) Delete(_ context.Context, userID, id string) (bool, error) {
	for i := range f.days {
		if f.days[i].UserID == userID && f.days[i].ID == id {
			f.days = append(f.days[:i], f.days[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeScope struct {
	users map[string][]user.User
}

func (f *fakeScope) ManagedUsers(_ context.Context, managerID string) ([]user.User, error) {
	return f.users[managerID], nil
}

func newTestService(patterns *fakePatternRepo, specials *fakeSpecialRepo, scope ManagedScopeResolver) calendar.Service {
	if scope == nil {
		scope = &fakeScope{}
	}
	svc := NewCalendarService(nil, patterns, specials, scope).(*calendarServiceImpl)
	svc.runTx = func(ctx context.Context, _ *database.DB, fn func(ctx context.Context) error) error {
		return fn(ctx)
	}
	return svc
}

func seededPatterns(userID string) *fakePatternRepo {
	return &fakePatternRepo{rows: map[string][]calendar.WorkingDayPattern{
		userID: calendar.DefaultPatternRows(userID),
	}}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeCapacityWeek(t *testing.T) {
	ctx := context.Background()
	monday := date(2026, time.June, 1)
	vacation := "Annual leave"
	training := "Safety training"
	half := 4.0

	specials := &fakeSpecialRepo{days: []calendar.SpecialDay{
		{ID: "s1", UserID: "u1", Date: monday.AddDate(0, 0, 2), IsWorking: false, Reason: &vacation},
		{ID: "s2", UserID: "u1", Date: monday.AddDate(0, 0, 3), IsWorking: true, Hours: &half, Reason: &training},
		{ID: "s3", UserID: "u1", Date: monday.AddDate(0, 0, 4), IsWorking: true}, // nil hours
	}}
	svc := newTestService(seededPatterns("u1"), specials, nil)

	days, err := svc.ComputeCapacityWeek(ctx, "u1", monday, 7)
	require.NoError(t, err)
	require.Len(t, days, 7)

	assert.Equal(t, 8.0, days[0].CapacityHours, "plain Monday")
	assert.False(t, days[0].IsNonWorking)

	assert.Zero(t, days[2].CapacityHours, "vacation Wednesday")
	assert.True(t, days[2].IsNonWorking)
	require.NotNil(t, days[2].Reason)
	assert.Equal(t, vacation, *days[2].Reason)

	assert.Equal(t, 4.0, days[3].CapacityHours, "half-day Thursday")
	assert.False(t, days[3].IsNonWorking)

	assert.Equal(t, 8.0, days[4].CapacityHours, "working override with nil hours inherits Friday pattern")

	assert.True(t, days[5].IsNonWorking, "Saturday")
	assert.True(t, days[6].IsNonWorking, "Sunday")

	// Recomputing is read-only and yields the same result.
	again, err := svc.ComputeCapacityWeek(ctx, "u1", monday, 7)
	require.NoError(t, err)
	assert.Equal(t, days, again)
}

func TestComputeCapacityWeekRejectsBadWindow(t *testing.T) {
	svc := newTestService(seededPatterns("u1"), &fakeSpecialRepo{}, nil)

	_, err := svc.ComputeCapacityWeek(context.Background(), "u1", date(2026, time.June, 1), 0)
	assert.ErrorIs(t, err, calendar.ErrInvalidRequestData)
}

func TestIsNonWorking(t *testing.T) {
	ctx := context.Background()
	vacation := "Annual leave"
	specials := &fakeSpecialRepo{days: []calendar.SpecialDay{
		{ID: "s1", UserID: "u1", Date: date(2026, time.June, 2), IsWorking: false, Reason: &vacation},
	}}
	svc := newTestService(seededPatterns("u1"), specials, nil)

	nonWorking, err := svc.IsNonWorking(ctx, "u1", date(2026, time.June, 6)) // Saturday
	require.NoError(t, err)
	assert.True(t, nonWorking)

	nonWorking, err = svc.IsNonWorking(ctx, "u1", date(2026, time.June, 1)) // Monday
	require.NoError(t, err)
	assert.False(t, nonWorking)

	nonWorking, err = svc.IsNonWorking(ctx, "u1", date(2026, time.June, 2)) // vacation Tuesday
	require.NoError(t, err)
	assert.True(t, nonWorking)
}

func TestAddSpecialDayUpserts(t *testing.T) {
	ctx := context.Background()
	specials := &fakeSpecialRepo{}
	svc := newTestService(seededPatterns("u1"), specials, nil)

	first := "Holiday"
	_, err := svc.AddSpecialDay(ctx, "u1", calendar.CreateSpecialDayRequest{
		Date: "2026-05-01", IsWorking: false, Reason: &first,
	})
	require.NoError(t, err)

	// Same date again replaces the row instead of adding one.
	second := "Labour Day"
	day, err := svc.AddSpecialDay(ctx, "u1", calendar.CreateSpecialDayRequest{
		Date: "2026-05-01", IsWorking: false, Reason: &second,
	})
	require.NoError(t, err)
	require.Len(t, specials.days, 1)
	require.NotNil(t, day.Reason)
	assert.Equal(t, second, *day.Reason)

	_, err = svc.AddSpecialDay(ctx, "u1", calendar.CreateSpecialDayRequest{Date: "not-a-date"})
	assert.Error(t, err)
}

func TestDeleteSpecialDay(t *testing.T) {
	ctx := context.Background()
	reason := "Holiday"
	specials := &fakeSpecialRepo{days: []calendar.SpecialDay{
		{ID: "s1", UserID: "u1", Date: date(2026, time.May, 1), IsWorking: false, Reason: &reason},
	}}
	svc := newTestService(seededPatterns("u1"), specials, nil)

	deleted, err := svc.DeleteSpecialDay(ctx, "u1", "s1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteSpecialDay(ctx, "u1", "s1")
	require.NoError(t, err)
	assert.False(t, deleted, "second delete reports not found")
}

func TestListTeamVacations(t *testing.T) {
	ctx := context.Background()
	reason := "Annual leave"
	specials := &fakeSpecialRepo{days: []calendar.SpecialDay{
		{ID: "s1", UserID: "u1", Date: date(2026, time.July, 20), IsWorking: false, Reason: &reason},
		{ID: "s2", UserID: "u2", Date: date(2026, time.July, 21), IsWorking: false},
		{ID: "s3", UserID: "outsider", Date: date(2026, time.July, 22), IsWorking: false},
		{ID: "s4", UserID: "u1", Date: date(2026, time.July, 23), IsWorking: true}, // working overrides excluded
	}}
	scope := &fakeScope{users: map[string][]user.User{
		"mgr": {
			{ID: "u1", FirstName: "Jon", LastName: "Etxeberria"},
			{ID: "u2", FirstName: "Lucia", LastName: "Fernandez"},
		},
	}}
	svc := newTestService(seededPatterns("u1"), specials, scope)

	days, err := svc.ListTeamVacations(ctx, "mgr", date(2026, time.July, 1), date(2026, time.July, 31))
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "Jon", days[0].FirstName)
	assert.Equal(t, "u2", days[1].UserID)

	// A manager with no subtree sees nothing.
	days, err = svc.ListTeamVacations(ctx, "nobody", date(2026, time.July, 1), date(2026, time.July, 31))
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestGetOrCreateDefaultPattern(t *testing.T) {
	ctx := context.Background()
	patterns := &fakePatternRepo{}
	svc := newTestService(patterns, &fakeSpecialRepo{}, nil)

	rows, err := svc.GetOrCreateDefaultPattern(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rows, 7)
	for _, r := range rows {
		assert.Equal(t, "u1", r.UserID)
		assert.True(t, r.IsActive)
		if r.Weekday < 5 {
			assert.Equal(t, calendar.DefaultDailyHours, r.Hours, "weekday %d", r.Weekday)
		} else {
			assert.Zero(t, r.Hours, "weekend weekday %d", r.Weekday)
		}
	}

	// A second call finds the persisted rows and writes nothing new.
	again, err := svc.GetOrCreateDefaultPattern(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, again, 7)
	assert.Len(t, patterns.rows["u1"], 7)
}

func TestSetPatternReplacesAllRows(t *testing.T) {
	ctx := context.Background()
	patterns := seededPatterns("u1")
	svc := newTestService(patterns, &fakeSpecialRepo{}, nil)

	req := calendar.SetPatternRequest{Rows: []calendar.PatternRowRequest{
		{Weekday: 0, Hours: 6, IsActive: true},
		{Weekday: 2, Hours: 6, IsActive: true},
	}}
	rows, err := svc.SetPattern(ctx, "u1", req)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// The old seven rows are gone, not merged with the new ones.
	require.Len(t, patterns.rows["u1"], 2)
	assert.Equal(t, 0, patterns.rows["u1"][0].Weekday)
	assert.Equal(t, 2, patterns.rows["u1"][1].Weekday)
	assert.Equal(t, 6.0, patterns.rows["u1"][0].Hours)
}

func TestAddVacationRangeExpansion(t *testing.T) {
	ctx := context.Background()
	reason := "Annual leave"
	specials := &fakeSpecialRepo{}
	svc := newTestService(seededPatterns("u1"), specials, nil)

	days, err := svc.AddVacationRange(ctx, "u1", calendar.VacationRangeRequest{
		StartDate: "2026-06-02",
		EndDate:   "2026-06-04",
		Reason:    &reason,
	})
	require.NoError(t, err)
	require.Len(t, days, 3)
	for i, d := range days {
		assert.Equal(t, date(2026, time.June, 2+i), d.Date)
		assert.False(t, d.IsWorking)
		require.NotNil(t, d.Hours)
		assert.Zero(t, *d.Hours)
		require.NotNil(t, d.Reason)
		assert.Equal(t, reason, *d.Reason)
	}
	assert.Len(t, specials.days, 3)

	// The whole range resolves to zero capacity afterwards.
	week, err := svc.ComputeCapacityWeek(ctx, "u1", date(2026, time.June, 1), 7)
	require.NoError(t, err)
	assert.False(t, week[0].IsNonWorking, "Monday untouched")
	assert.True(t, week[1].IsNonWorking)
	assert.True(t, week[2].IsNonWorking)
	assert.True(t, week[3].IsNonWorking)
	assert.False(t, week[4].IsNonWorking, "Friday untouched")
}

func TestAddVacationRangeKeepsExistingReason(t *testing.T) {
	ctx := context.Background()
	medical := "Medical leave"
	specials := &fakeSpecialRepo{days: []calendar.SpecialDay{
		{ID: "s1", UserID: "u1", Date: date(2026, time.June, 3), IsWorking: false, Reason: &medical},
	}}
	svc := newTestService(seededPatterns("u1"), specials, nil)

	days, err := svc.AddVacationRange(ctx, "u1", calendar.VacationRangeRequest{
		StartDate: "2026-06-02",
		EndDate:   "2026-06-04",
	})
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.Nil(t, days[0].Reason, "no reason requested")
	require.NotNil(t, days[1].Reason, "overlapping day keeps its reason")
	assert.Equal(t, medical, *days[1].Reason)
	assert.Nil(t, days[2].Reason)
}
