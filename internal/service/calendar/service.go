package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/maintcore/cmms-backend-go/internal/domain/calendar"
	"github.com/maintcore/cmms-backend-go/internal/domain/user"
	"github.com/maintcore/cmms-backend-go/internal/pkg/database"
	"github.com/maintcore/cmms-backend-go/internal/repository/postgresql"
)

type calendarServiceImpl struct {
	db          *database.DB
	patternRepo calendar.WorkingDayPatternRepository
	specialRepo calendar.SpecialDayRepository
	scope       ManagedScopeResolver

	// runTx wraps multi-statement writes. Defaults to
	// postgresql.WithTransaction.
	runTx func(ctx context.Context, db *database.DB, fn func(ctx context.Context) error) error
}

// ManagedScopeResolver answers which users fall under a manager, for the
// team vacation view.
type ManagedScopeResolver interface {
	ManagedUsers(ctx context.Context, managerID string) ([]user.User, error)
}

func NewCalendarService(
	db *database.DB,
	patternRepo calendar.WorkingDayPatternRepository,
	specialRepo calendar.SpecialDayRepository,
	scope ManagedScopeResolver,
) calendar.Service {
	return &calendarServiceImpl{
		db:          db,
		patternRepo: patternRepo,
		specialRepo: specialRepo,
		scope:       scope,
		runTx:       postgresql.WithTransaction,
	}
}

// GetOrCreateDefaultPattern implements calendar.Service. After the first
// call a user has exactly one row per weekday.
func (s *calendarServiceImpl) GetOrCreateDefaultPattern(ctx context.Context, userID string) ([]calendar.WorkingDayPattern, error) {
	rows, err := s.patternRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return rows, nil
	}

	var created []calendar.WorkingDayPattern
	err = s.runTx(ctx, s.db, func(txCtx context.Context) error {
		created, err = s.patternRepo.BulkCreate(txCtx, calendar.DefaultPatternRows(userID))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create default pattern: %w", err)
	}
	return created, nil
}

// SetPattern implements calendar.Service: full replace, no merge. Rows
// for weekdays the caller omits simply do not exist afterwards and count
// as zero hours.
func (s *calendarServiceImpl) SetPattern(ctx context.Context, userID string, req calendar.SetPatternRequest) ([]calendar.WorkingDayPattern, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rows := make([]calendar.WorkingDayPattern, 0, len(req.Rows))
	for _, r := range req.Rows {
		rows = append(rows, calendar.WorkingDayPattern{
			UserID:   userID,
			Weekday:  r.Weekday,
			Hours:    r.Hours,
			IsActive: r.IsActive,
		})
	}

	var created []calendar.WorkingDayPattern
	err := s.runTx(ctx, s.db, func(txCtx context.Context) error {
		if err := s.patternRepo.DeleteByUserID(txCtx, userID); err != nil {
			return err
		}
		var err error
		created, err = s.patternRepo.BulkCreate(txCtx, rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to replace pattern: %w", err)
	}
	return created, nil
}

// AddSpecialDay implements calendar.Service.
func (s *calendarServiceImpl) AddSpecialDay(ctx context.Context, userID string, req calendar.CreateSpecialDayRequest) (calendar.SpecialDay, error) {
	if err := req.Validate(); err != nil {
		return calendar.SpecialDay{}, err
	}

	return s.specialRepo.Upsert(ctx, calendar.SpecialDay{
		UserID:    userID,
		Date:      req.ParsedDate(),
		IsWorking: req.IsWorking,
		Hours:     req.Hours,
		Reason:    req.Reason,
	})
}

// AddVacationRange implements calendar.Service: one non-working special
// day per date in the inclusive range. A pre-existing reason survives
// when the request carries none.
func (s *calendarServiceImpl) AddVacationRange(ctx context.Context, userID string, req calendar.VacationRangeRequest) ([]calendar.SpecialDay, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start, end := req.ParsedRange()

	existing, err := s.specialRepo.ListByUserInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	existingReason := make(map[time.Time]*string, len(existing))
	for _, d := range existing {
		existingReason[calendar.NormalizeDate(d.Date)] = d.Reason
	}

	zero := 0.0
	var created []calendar.SpecialDay
	err = s.runTx(ctx, s.db, func(txCtx context.Context) error {
		for _, cur := range calendar.DatesInRange(start, end) {
			reason := req.Reason
			if reason == nil {
				reason = existingReason[cur]
			}
			day, err := s.specialRepo.Upsert(txCtx, calendar.SpecialDay{
				UserID:    userID,
				Date:      cur,
				IsWorking: false,
				Hours:     &zero,
				Reason:    reason,
			})
			if err != nil {
				return err
			}
			created = append(created, day)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add vacation range: %w", err)
	}
	return created, nil
}

// ListSpecialDays implements calendar.Service.
func (s *calendarServiceImpl) ListSpecialDays(ctx context.Context, userID string, start, end time.Time) ([]calendar.SpecialDay, error) {
	return s.specialRepo.ListByUserInRange(ctx, userID, start, end)
}

// DeleteSpecialDay implements calendar.Service. A missing row reports
// false, not an error.
func (s *calendarServiceImpl) DeleteSpecialDay(ctx context.Context, userID, specialID string) (bool, error) {
	return s.specialRepo.Delete(ctx, userID, specialID)
}

// ComputeCapacityWeek implements calendar.Service: the weekly pattern
// overlaid with special days, one DayCapacity per requested date.
func (s *calendarServiceImpl) ComputeCapacityWeek(ctx context.Context, userID string, start time.Time, numDays int) ([]calendar.DayCapacity, error) {
	if numDays < 1 {
		return nil, calendar.ErrInvalidRequestData
	}

	patternRows, err := s.GetOrCreateDefaultPattern(ctx, userID)
	if err != nil {
		return nil, err
	}
	patternHours := calendar.PatternHours(patternRows)

	first := calendar.NormalizeDate(start)
	last := first.AddDate(0, 0, numDays-1)
	specials, err := s.specialRepo.ListByUserInRange(ctx, userID, first, last)
	if err != nil {
		return nil, err
	}
	specialByDate := make(map[time.Time]calendar.SpecialDay, len(specials))
	for _, d := range specials {
		specialByDate[calendar.NormalizeDate(d.Date)] = d
	}

	days := make([]calendar.DayCapacity, 0, numDays)
	for i := 0; i < numDays; i++ {
		day := first.AddDate(0, 0, i)
		var special *calendar.SpecialDay
		if d, ok := specialByDate[day]; ok {
			special = &d
		}
		days = append(days, calendar.ResolveDayCapacity(patternHours, special, day))
	}
	return days, nil
}

// IsNonWorking implements calendar.Service. Single-day lookup, so it
// fetches at most one special day instead of a range.
func (s *calendarServiceImpl) IsNonWorking(ctx context.Context, userID string, date time.Time) (bool, error) {
	patternRows, err := s.GetOrCreateDefaultPattern(ctx, userID)
	if err != nil {
		return false, err
	}

	day := calendar.NormalizeDate(date)
	special, err := s.specialRepo.GetByUserAndDate(ctx, userID, day)
	if err != nil {
		return false, err
	}

	capacity := calendar.ResolveDayCapacity(calendar.PatternHours(patternRows), special, day)
	return capacity.CapacityHours == 0, nil
}

// ListTeamVacations implements calendar.Service: non-working special days
// of every user inside the manager's department subtree.
func (s *calendarServiceImpl) ListTeamVacations(ctx context.Context, managerID string, start, end time.Time) ([]calendar.TeamVacationDay, error) {
	users, err := s.scope.ManagedUsers(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	userIDs := make([]string, 0, len(users))
	byID := make(map[string]user.User, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
		byID[u.ID] = u
	}

	vacations, err := s.specialRepo.ListNonWorkingByUsersInRange(ctx, userIDs, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]calendar.TeamVacationDay, 0, len(vacations))
	for _, v := range vacations {
		u, ok := byID[v.UserID]
		if !ok {
			continue
		}
		out = append(out, calendar.TeamVacationDay{
			ID:        v.ID,
			UserID:    v.UserID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Date:      v.Date,
			Reason:    v.Reason,
		})
	}
	return out, nil
}
