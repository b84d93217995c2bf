package task

import (
	"strings"
	"time"

	"github.com/maintcore/cmms-backend-go/internal/pkg/validator"
)

type CreateTaskRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	AssignedTo     *string    `json:"assigned_to"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours"`
}

func (r *CreateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	}
	if _, ok := ParseStatus(r.Status); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}
	if _, ok := ParsePriority(r.Priority); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "priority",
			Message: "priority must be one of: " + strings.Join(PriorityValues, ", "),
		})
	}
	if r.EstimatedHours != nil && *r.EstimatedHours < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "estimated_hours",
			Message: "estimated_hours must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateTaskRequest carries partial updates: nil fields keep their stored
// values.
type UpdateTaskRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status"`
	Priority       *string    `json:"priority"`
	AssignedTo     *string    `json:"assigned_to"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours"`
}

func (r *UpdateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Title != nil && validator.IsEmpty(*r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title must not be empty",
		})
	}
	if r.Status != nil {
		if _, ok := ParseStatus(*r.Status); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: " + strings.Join(StatusValues, ", "),
			})
		}
	}
	if r.Priority != nil {
		if _, ok := ParsePriority(*r.Priority); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "priority",
				Message: "priority must be one of: " + strings.Join(PriorityValues, ", "),
			})
		}
	}
	if r.EstimatedHours != nil && *r.EstimatedHours < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "estimated_hours",
			Message: "estimated_hours must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TaskResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	AssignedTo     *string    `json:"assigned_to,omitempty"`
	CreatedBy      string     `json:"created_by"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func NewTaskResponse(t Task) TaskResponse {
	return TaskResponse{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		AssignedTo:     t.AssignedTo,
		CreatedBy:      t.CreatedBy,
		DueDate:        t.DueDate,
		EstimatedHours: t.EstimatedHours,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func NewTaskResponses(tasks []Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskResponse(t))
	}
	return out
}
