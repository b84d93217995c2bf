package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maintcore/cmms-backend-go/internal/domain/calendar"
	"github.com/maintcore/cmms-backend-go/internal/domain/task"
	"github.com/maintcore/cmms-backend-go/internal/domain/user"
	"github.com/maintcore/cmms-backend-go/internal/pkg/database"
)

type taskServiceImpl struct {
	db              *database.DB
	taskRepo        task.Repository
	userRepo        user.Repository
	calendarService calendar.Service
}

func NewTaskService(
	db *database.DB,
	taskRepo task.Repository,
	userRepo user.Repository,
	calendarService calendar.Service,
) task.Service {
	return &taskServiceImpl{
		db:              db,
		taskRepo:        taskRepo,
		userRepo:        userRepo,
		calendarService: calendarService,
	}
}

// Create implements task.Service.
func (s *taskServiceImpl) Create(ctx context.Context, req task.CreateTaskRequest, createdBy string) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	status, _ := task.ParseStatus(req.Status)
	priority, _ := task.ParsePriority(req.Priority)

	if req.AssignedTo != nil {
		if _, err := s.userRepo.GetByID(ctx, *req.AssignedTo); err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return task.TaskResponse{}, task.ErrAssigneeNotFound
			}
			return task.TaskResponse{}, err
		}
	}

	if err := s.checkSchedulable(ctx, req.AssignedTo, req.DueDate, req.EstimatedHours, nil); err != nil {
		return task.TaskResponse{}, err
	}

	created, err := s.taskRepo.Create(ctx, task.Task{
		Title:          req.Title,
		Description:    req.Description,
		Status:         status,
		Priority:       priority,
		AssignedTo:     req.AssignedTo,
		CreatedBy:      createdBy,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
	})
	if err != nil {
		return task.TaskResponse{}, err
	}
	return task.NewTaskResponse(created), nil
}

// Get implements task.Service.
func (s *taskServiceImpl) Get(ctx context.Context, id string) (task.TaskResponse, error) {
	t, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return task.TaskResponse{}, err
	}
	return task.NewTaskResponse(t), nil
}

// List implements task.Service.
func (s *taskServiceImpl) List(ctx context.Context, filter task.Filter) ([]task.TaskResponse, int64, error) {
	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return task.NewTaskResponses(tasks), total, nil
}

// ListByUser implements task.Service.
func (s *taskServiceImpl) ListByUser(ctx context.Context, userID string) ([]task.TaskResponse, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return task.NewTaskResponses(tasks), nil
}

// Update implements task.Service: partial update with the scheduling gate
// applied to the merged result. Excluding the task's own id keeps
// unchanged re-saves idempotent.
func (s *taskServiceImpl) Update(ctx context.Context, id string, req task.UpdateTaskRequest) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	t, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return task.TaskResponse{}, err
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		t.Status, _ = task.ParseStatus(*req.Status)
	}
	if req.Priority != nil {
		t.Priority, _ = task.ParsePriority(*req.Priority)
	}
	if req.AssignedTo != nil {
		if _, err := s.userRepo.GetByID(ctx, *req.AssignedTo); err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return task.TaskResponse{}, task.ErrAssigneeNotFound
			}
			return task.TaskResponse{}, err
		}
		t.AssignedTo = req.AssignedTo
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.EstimatedHours != nil {
		t.EstimatedHours = req.EstimatedHours
	}

	if err := s.checkSchedulable(ctx, t.AssignedTo, t.DueDate, t.EstimatedHours, &t.ID); err != nil {
		return task.TaskResponse{}, err
	}

	updated, err := s.taskRepo.Update(ctx, t)
	if err != nil {
		return task.TaskResponse{}, err
	}
	return task.NewTaskResponse(updated), nil
}

// Delete implements task.Service.
func (s *taskServiceImpl) Delete(ctx context.Context, id string) error {
	deleted, err := s.taskRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return task.ErrTaskNotFound
	}
	return nil
}

// checkSchedulable is the assignment gate: with both an assignee and a
// due date set, the due day must be a working day for the assignee, and
// an estimated task must fit the day's remaining capacity next to the
// user's other tasks due that date. Acceptance reserves nothing;
// concurrent writers against the same (user, day) can still jointly
// overflow it.
func (s *taskServiceImpl) checkSchedulable(ctx context.Context, assignedTo *string, dueDate *time.Time, estimatedHours *float64, excludeTaskID *string) error {
	if assignedTo == nil || dueDate == nil {
		return nil
	}

	days, err := s.calendarService.ComputeCapacityWeek(ctx, *assignedTo, *dueDate, 1)
	if err != nil {
		return err
	}
	day := days[0]

	if day.CapacityHours == 0 {
		if day.Reason != nil {
			return fmt.Errorf("%w: %s (%s)", calendar.ErrNonWorkingDay, day.Date.Format("2006-01-02"), *day.Reason)
		}
		return fmt.Errorf("%w: %s", calendar.ErrNonWorkingDay, day.Date.Format("2006-01-02"))
	}

	if estimatedHours == nil {
		return nil
	}

	planned, err := s.taskRepo.SumEstimatedHoursForDay(ctx, *assignedTo, *dueDate, excludeTaskID)
	if err != nil {
		return err
	}
	if planned+*estimatedHours > day.CapacityHours+calendar.HoursEpsilon {
		return fmt.Errorf("%w: %.1fh planned + %.1fh requested > %.1fh available on %s",
			calendar.ErrCapacityExceeded, planned, *estimatedHours, day.CapacityHours, day.Date.Format("2006-01-02"))
	}
	return nil
}
