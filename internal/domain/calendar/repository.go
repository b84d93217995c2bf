package calendar

import (
	"context"
	"time"
)

type WorkingDayPatternRepository interface {
	GetByUserID(ctx context.Context, userID string) ([]WorkingDayPattern, error)
	BulkCreate(ctx context.Context, rows []WorkingDayPattern) ([]WorkingDayPattern, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

type SpecialDayRepository interface {
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*SpecialDay, error)
	ListByUserInRange(ctx context.Context, userID string, start, end time.Time) ([]SpecialDay, error)
	ListNonWorkingByUsersInRange(ctx context.Context, userIDs []string, start, end time.Time) ([]SpecialDay, error)
	ListAll(ctx context.Context) ([]SpecialDay, error)
	Upsert(ctx context.Context, day SpecialDay) (SpecialDay, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
}
