package calendar

import (
	"context"
	"time"
)

type Service interface {
	// Weekly pattern
	GetOrCreateDefaultPattern(ctx context.Context, userID string) ([]WorkingDayPattern, error)
	SetPattern(ctx context.Context, userID string, req SetPatternRequest) ([]WorkingDayPattern, error)

	// Special days
	AddSpecialDay(ctx context.Context, userID string, req CreateSpecialDayRequest) (SpecialDay, error)
	AddVacationRange(ctx context.Context, userID string, req VacationRangeRequest) ([]SpecialDay, error)
	ListSpecialDays(ctx context.Context, userID string, start, end time.Time) ([]SpecialDay, error)
	DeleteSpecialDay(ctx context.Context, userID, specialID string) (bool, error)

	// Capacity
	ComputeCapacityWeek(ctx context.Context, userID string, start time.Time, numDays int) ([]DayCapacity, error)
	IsNonWorking(ctx context.Context, userID string, date time.Time) (bool, error)

	// Team view
	ListTeamVacations(ctx context.Context, managerID string, start, end time.Time) ([]TeamVacationDay, error)
}
