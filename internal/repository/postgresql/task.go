package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/maintcore/cmms-backend-go/internal/domain/calendar"
	"github.com/maintcore/cmms-backend-go/internal/domain/task"
	"github.com/maintcore/cmms-backend-go/internal/pkg/database"
)

type taskRepositoryImpl struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) task.Repository {
	return &taskRepositoryImpl{db: db}
}

const taskColumns = `id, title, description, status, priority, assigned_to, created_by, due_date, estimated_hours, created_at, updated_at`

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	var status, priority string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &priority, &t.AssignedTo, &t.CreatedBy, &t.DueDate, &t.EstimatedHours, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return task.Task{}, err
	}
	// Legacy rows can carry loosely-cased enum values.
	t.Status, _ = task.ParseStatus(status)
	t.Priority, _ = task.ParsePriority(priority)
	return t, nil
}

// Create implements task.Repository.
func (r *taskRepositoryImpl) Create(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	id := t.ID
	if id == "" {
		id = uuid.NewString()
	}

	query := `
		INSERT INTO tasks (id, title, description, status, priority, assigned_to, created_by, due_date, estimated_hours, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING ` + taskColumns + `
	`

	created, err := scanTask(q.QueryRow(ctx, query,
		id, t.Title, t.Description, string(t.Status), string(t.Priority), t.AssignedTo, t.CreatedBy, t.DueDate, t.EstimatedHours,
	))
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

// GetByID implements task.Repository.
func (r *taskRepositoryImpl) GetByID(ctx context.Context, id string) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1
	`

	t, err := scanTask(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// List implements task.Repository.
func (r *taskRepositoryImpl) List(ctx context.Context, filter task.Filter) ([]task.Task, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := ` WHERE TRUE`
	args := []interface{}{}
	argn := 0

	if filter.Search != "" {
		argn++
		where += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", argn, argn)
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Status != nil {
		argn++
		where += fmt.Sprintf(" AND status = $%d", argn)
		args = append(args, string(*filter.Status))
	}
	if filter.Priority != nil {
		argn++
		where += fmt.Sprintf(" AND priority = $%d", argn)
		args = append(args, string(*filter.Priority))
	}
	if filter.AssignedTo != nil {
		argn++
		where += fmt.Sprintf(" AND assigned_to = $%d", argn)
		args = append(args, *filter.AssignedTo)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	query := `SELECT ` + taskColumns + ` FROM tasks` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argn+1, argn+2)
	listArgs := append(append([]interface{}{}, args...), limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM tasks` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	return tasks, total, nil
}

// ListByUser implements task.Repository.
func (r *taskRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE assigned_to = $1
		ORDER BY due_date ASC NULLS LAST
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// Update implements task.Repository.
func (r *taskRepositoryImpl) Update(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, priority = $5,
		    assigned_to = $6, due_date = $7, estimated_hours = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + taskColumns + `
	`

	updated, err := scanTask(q.QueryRow(ctx, query,
		t.ID, t.Title, t.Description, string(t.Status), string(t.Priority), t.AssignedTo, t.DueDate, t.EstimatedHours,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return updated, nil
}

// Delete implements task.Repository.
func (r *taskRepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SumEstimatedHoursForDay implements task.Repository: total estimated
// hours of a user's tasks due on one calendar day, optionally excluding
// one task id so re-saves stay idempotent.
func (r *taskRepositoryImpl) SumEstimatedHoursForDay(ctx context.Context, userID string, day time.Time, excludeTaskID *string) (float64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(estimated_hours), 0)
		FROM tasks
		WHERE assigned_to = $1
		  AND due_date >= $2 AND due_date < $2::timestamptz + INTERVAL '1 day'
		  AND ($3::uuid IS NULL OR id <> $3::uuid)
	`

	var total float64
	if err := q.QueryRow(ctx, query, userID, calendar.NormalizeDate(day), excludeTaskID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum planned hours: %w", err)
	}
	return total, nil
}

// ListAssignedInRange implements task.Repository.
func (r *taskRepositoryImpl) ListAssignedInRange(ctx context.Context, userIDs []string, start, end time.Time) ([]task.Task, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE assigned_to = ANY($1)
		  AND due_date >= $2 AND due_date < $3
		ORDER BY due_date, id
	`

	rows, err := q.Query(ctx, query, userIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// ListAllAssigned implements task.Repository: every task with both an
// assignee and a due date, in rebalancing order.
func (r *taskRepositoryImpl) ListAllAssigned(ctx context.Context) ([]task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE assigned_to IS NOT NULL AND due_date IS NOT NULL
		ORDER BY assigned_to, due_date, id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// UpdateDueDates implements task.Repository: flush of the rebalancer's
// in-memory date moves, one batch per pass.
func (r *taskRepositoryImpl) UpdateDueDates(ctx context.Context, dueDates map[string]time.Time) error {
	if len(dueDates) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tasks
		SET due_date = $2, updated_at = NOW()
		WHERE id = $1
	`
	for id, due := range dueDates {
		if _, err := q.Exec(ctx, query, id, due); err != nil {
			return fmt.Errorf("failed to update due date for task %s: %w", id, err)
		}
	}
	return nil
}

// Count implements task.Repository.
func (r *taskRepositoryImpl) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return total, nil
}

func collectTasks(rows pgx.Rows) ([]task.Task, error) {
	var tasks []task.Task
	for rows.Next() {
		var t task.Task
		var status, priority string
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &status, &priority, &t.AssignedTo, &t.CreatedBy, &t.DueDate, &t.EstimatedHours, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Status, _ = task.ParseStatus(status)
		t.Priority, _ = task.ParsePriority(priority)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
