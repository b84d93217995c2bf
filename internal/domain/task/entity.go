package task

import "time"

// Task carries the scheduling-relevant subset of a maintenance task: for
// capacity purposes it occupies EstimatedHours on the calendar day of
// DueDate for the assigned user.
type Task struct {
	ID             string
	Title          string
	Description    string
	Status         Status
	Priority       Priority
	AssignedTo     *string
	CreatedBy      string
	DueDate        *time.Time
	EstimatedHours *float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

var StatusValues = []string{
	string(StatusPending),
	string(StatusInProgress),
	string(StatusCompleted),
	string(StatusCancelled),
}

type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

var PriorityValues = []string{
	string(PriorityLow),
	string(PriorityMedium),
	string(PriorityHigh),
	string(PriorityCritical),
}

// ParseStatus normalizes legacy and loosely-cased status values at the
// system boundary. The zero input maps to Pending.
func ParseStatus(s string) (Status, bool) {
	switch normalize(s) {
	case "", "pending", "open", "pendiente":
		return StatusPending, true
	case "inprogress", "enprogreso":
		return StatusInProgress, true
	case "completed", "done", "completada":
		return StatusCompleted, true
	case "cancelled", "canceled", "cancelada":
		return StatusCancelled, true
	default:
		return StatusPending, false
	}
}

// ParsePriority normalizes priority values at the system boundary. The
// zero input maps to Medium.
func ParsePriority(s string) (Priority, bool) {
	switch normalize(s) {
	case "low", "baja":
		return PriorityLow, true
	case "", "medium", "media":
		return PriorityMedium, true
	case "high", "alta":
		return PriorityHigh, true
	case "critical", "critica":
		return PriorityCritical, true
	default:
		return PriorityMedium, false
	}
}

func normalize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ' || r == '_' || r == '-':
			// drop separators
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
