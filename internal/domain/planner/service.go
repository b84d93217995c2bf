package planner

import (
	"context"
	"time"
)

type Service interface {
	// GetWeek builds the per-user, per-day capacity and workload grid.
	// requesterID scopes supervisors to their managed subtree; admins see
	// every user when requesterIsAdmin is set.
	GetWeek(ctx context.Context, requesterID string, requesterIsAdmin bool, start time.Time, numDays int) (PlannerWeek, error)

	// Bulk scheduling passes, used by seed-time data generation.
	AdjustDueDates(ctx context.Context) (RebalanceReport, error)
	RebalanceCapacity(ctx context.Context) (RebalanceReport, error)
}
