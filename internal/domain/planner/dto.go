package planner

import (
	"time"

	"github.com/maintcore/cmms-backend-go/internal/domain/task"
)

const dateLayout = "2006-01-02"

// PlannerTask is the slim task projection shown in the planner grid.
type PlannerTask struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	EstimatedHours float64    `json:"estimated_hours"`
	DueDate        *time.Time `json:"due_date,omitempty"`
}

func NewPlannerTask(t task.Task) PlannerTask {
	est := 0.0
	if t.EstimatedHours != nil {
		est = *t.EstimatedHours
	}
	return PlannerTask{
		ID:             t.ID,
		Title:          t.Title,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		EstimatedHours: est,
		DueDate:        t.DueDate,
	}
}

type PlannerDay struct {
	Date          string        `json:"date"`
	CapacityHours float64       `json:"capacity_hours"`
	PlannedHours  float64       `json:"planned_hours"`
	FreeHours     float64       `json:"free_hours"`
	IsNonWorking  bool          `json:"is_non_working"`
	Reason        *string       `json:"reason,omitempty"`
	Tasks         []PlannerTask `json:"tasks"`
}

type PlannerUser struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type PlannerUserRow struct {
	User PlannerUser  `json:"user"`
	Days []PlannerDay `json:"days"`
}

type PlannerWeek struct {
	Start string           `json:"start"`
	Days  int              `json:"days"`
	Users []PlannerUserRow `json:"users"`
}

// RebalanceReport summarizes one bulk scheduling pass over the task set.
type RebalanceReport struct {
	AdjustedDueDates int      `json:"adjusted_due_dates"`
	MovedTasks       int      `json:"moved_tasks"`
	UnplacedTasks    []string `json:"unplaced_tasks,omitempty"`
}
