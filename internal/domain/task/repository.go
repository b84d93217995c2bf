package task

import (
	"context"
	"time"
)

type Filter struct {
	Search     string
	Status     *Status
	Priority   *Priority
	AssignedTo *string
	Page       int
	Limit      int
}

type Repository interface {
	Create(ctx context.Context, t Task) (Task, error)
	GetByID(ctx context.Context, id string) (Task, error)
	List(ctx context.Context, filter Filter) ([]Task, int64, error)
	ListByUser(ctx context.Context, userID string) ([]Task, error)
	Update(ctx context.Context, t Task) (Task, error)
	Delete(ctx context.Context, id string) (bool, error)

	// Scheduling queries.
	SumEstimatedHoursForDay(ctx context.Context, userID string, day time.Time, excludeTaskID *string) (float64, error)
	ListAssignedInRange(ctx context.Context, userIDs []string, start, end time.Time) ([]Task, error)
	ListAllAssigned(ctx context.Context) ([]Task, error)
	UpdateDueDates(ctx context.Context, dueDates map[string]time.Time) error
	Count(ctx context.Context) (int64, error)
}
