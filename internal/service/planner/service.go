package planner

import (
	"context"
	"log/slog"
	"time"

	"github.com/maintcore/cmms-backend-go/internal/domain/calendar"
	"github.com/maintcore/cmms-backend-go/internal/domain/planner"
	"github.com/maintcore/cmms-backend-go/internal/domain/task"
	"github.com/maintcore/cmms-backend-go/internal/domain/user"
	"github.com/maintcore/cmms-backend-go/internal/pkg/database"
)

type ManagedScopeResolver interface {
	ManagedUsers(ctx context.Context, managerID string) ([]user.User, error)
}

type plannerServiceImpl struct {
	db              *database.DB
	taskRepo        task.Repository
	userRepo        user.Repository
	specialRepo     calendar.SpecialDayRepository
	calendarService calendar.Service
	scope           ManagedScopeResolver
}

func NewPlannerService(
	db *database.DB,
	taskRepo task.Repository,
	userRepo user.Repository,
	specialRepo calendar.SpecialDayRepository,
	calendarService calendar.Service,
	scope ManagedScopeResolver,
) planner.Service {
	return &plannerServiceImpl{
		db:              db,
		taskRepo:        taskRepo,
		userRepo:        userRepo,
		specialRepo:     specialRepo,
		calendarService: calendarService,
		scope:           scope,
	}
}

// GetWeek implements planner.Service: the capacity/workload grid for
// every visible user. Start is normalized back to Monday.
func (s *plannerServiceImpl) GetWeek(ctx context.Context, requesterID string, requesterIsAdmin bool, start time.Time, numDays int) (planner.PlannerWeek, error) {
	if numDays < 1 || numDays > 14 {
		return planner.PlannerWeek{}, calendar.ErrInvalidRequestData
	}
	monday := calendar.NormalizeDate(start).AddDate(0, 0, -calendar.WeekdayIndex(start))
	end := monday.AddDate(0, 0, numDays)

	var users []user.User
	var err error
	if requesterIsAdmin {
		users, err = s.userRepo.List(ctx)
	} else {
		users, err = s.scope.ManagedUsers(ctx, requesterID)
	}
	if err != nil {
		return planner.PlannerWeek{}, err
	}

	week := planner.PlannerWeek{
		Start: monday.Format("2006-01-02"),
		Days:  numDays,
		Users: []planner.PlannerUserRow{},
	}
	if len(users) == 0 {
		return week, nil
	}

	userIDs := make([]string, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}
	tasks, err := s.taskRepo.ListAssignedInRange(ctx, userIDs, monday, end)
	if err != nil {
		return planner.PlannerWeek{}, err
	}

	type userDay struct {
		userID string
		day    time.Time
	}
	tasksByUserDay := make(map[userDay][]task.Task)
	for _, t := range tasks {
		if t.AssignedTo == nil || t.DueDate == nil {
			continue
		}
		key := userDay{userID: *t.AssignedTo, day: calendar.NormalizeDate(*t.DueDate)}
		tasksByUserDay[key] = append(tasksByUserDay[key], t)
	}

	for _, u := range users {
		capacities, err := s.calendarService.ComputeCapacityWeek(ctx, u.ID, monday, numDays)
		if err != nil {
			return planner.PlannerWeek{}, err
		}

		row := planner.PlannerUserRow{
			User: planner.PlannerUser{
				UserID:    u.ID,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				Role:      string(u.Role),
			},
			Days: make([]planner.PlannerDay, 0, numDays),
		}
		for _, c := range capacities {
			dayTasks := tasksByUserDay[userDay{userID: u.ID, day: c.Date}]
			planned := 0.0
			projected := make([]planner.PlannerTask, 0, len(dayTasks))
			for _, t := range dayTasks {
				if t.EstimatedHours != nil {
					planned += *t.EstimatedHours
				}
				projected = append(projected, planner.NewPlannerTask(t))
			}
			free := c.CapacityHours - planned
			if free < 0 {
				free = 0
			}
			row.Days = append(row.Days, planner.PlannerDay{
				Date:          c.Date.Format("2006-01-02"),
				CapacityHours: c.CapacityHours,
				PlannedHours:  planned,
				FreeHours:     free,
				IsNonWorking:  c.IsNonWorking,
				Reason:        c.Reason,
				Tasks:         projected,
			})
		}
		week.Users = append(week.Users, row)
	}
	return week, nil
}

// AdjustDueDates implements planner.Service: the pre-pass that pushes
// every assigned task off non-working days before capacity rebalancing
// runs.
func (s *plannerServiceImpl) AdjustDueDates(ctx context.Context) (planner.RebalanceReport, error) {
	tasks, calendars, err := s.loadSchedulingState(ctx)
	if err != nil {
		return planner.RebalanceReport{}, err
	}

	report := planner.RebalanceReport{}
	changed := make(map[string]time.Time)
	for _, t := range tasks {
		cal := calendars[*t.AssignedTo]
		adjusted, placed := adjustDueDate(cal, *t.DueDate)
		if !placed {
			report.UnplacedTasks = append(report.UnplacedTasks, t.ID)
			slog.Warn("no working day found within attempt budget", "task_id", t.ID, "due_date", adjusted.Format("2006-01-02"))
		}
		if !adjusted.Equal(*t.DueDate) {
			*t.DueDate = adjusted
			changed[t.ID] = adjusted
		}
	}

	if len(changed) > 0 {
		if err := s.taskRepo.UpdateDueDates(ctx, changed); err != nil {
			return planner.RebalanceReport{}, err
		}
		slog.Info("adjusted due dates off non-working days", "tasks", len(changed))
	}
	report.AdjustedDueDates = len(changed)
	return report, nil
}

// RebalanceCapacity implements planner.Service: the multi-pass greedy
// redistribution of overloaded days, flushed once per run. Best-effort;
// residual overload is logged, never fatal.
func (s *plannerServiceImpl) RebalanceCapacity(ctx context.Context) (planner.RebalanceReport, error) {
	tasks, calendars, err := s.loadSchedulingState(ctx)
	if err != nil {
		return planner.RebalanceReport{}, err
	}

	byUser := make(map[string][]*task.Task)
	for _, t := range tasks {
		byUser[*t.AssignedTo] = append(byUser[*t.AssignedTo], t)
	}

	report := planner.RebalanceReport{}
	original := make(map[string]time.Time, len(tasks))
	for _, t := range tasks {
		original[t.ID] = *t.DueDate
	}

	for userID, userTasks := range byUser {
		moved, unplaced := rebalanceUser(calendars[userID], userTasks)
		report.MovedTasks += moved
		report.UnplacedTasks = append(report.UnplacedTasks, unplaced...)
		for _, id := range unplaced {
			slog.Warn("task could not be placed within capacity", "task_id", id, "user_id", userID)
		}
	}

	changed := make(map[string]time.Time)
	for _, t := range tasks {
		if !t.DueDate.Equal(original[t.ID]) {
			changed[t.ID] = *t.DueDate
		}
	}
	if len(changed) > 0 {
		if err := s.taskRepo.UpdateDueDates(ctx, changed); err != nil {
			return planner.RebalanceReport{}, err
		}
		slog.Info("rebalanced task capacity", "moved", report.MovedTasks, "updated", len(changed))
	}
	return report, nil
}

// loadSchedulingState snapshots every assigned, dated task together with
// each involved user's calendar, so the passes run fully in memory.
func (s *plannerServiceImpl) loadSchedulingState(ctx context.Context) ([]*task.Task, map[string]userCalendar, error) {
	loaded, err := s.taskRepo.ListAllAssigned(ctx)
	if err != nil {
		return nil, nil, err
	}

	tasks := make([]*task.Task, 0, len(loaded))
	for i := range loaded {
		t := loaded[i]
		if t.AssignedTo == nil || t.DueDate == nil {
			continue
		}
		due := *t.DueDate
		t.DueDate = &due
		tasks = append(tasks, &t)
	}

	specials, err := s.specialRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	specialsByUser := make(map[string]map[time.Time]calendar.SpecialDay)
	for _, sd := range specials {
		m, ok := specialsByUser[sd.UserID]
		if !ok {
			m = make(map[time.Time]calendar.SpecialDay)
			specialsByUser[sd.UserID] = m
		}
		m[calendar.NormalizeDate(sd.Date)] = sd
	}

	calendars := make(map[string]userCalendar)
	for _, t := range tasks {
		userID := *t.AssignedTo
		if _, ok := calendars[userID]; ok {
			continue
		}
		rows, err := s.calendarService.GetOrCreateDefaultPattern(ctx, userID)
		if err != nil {
			return nil, nil, err
		}
		specialMap := specialsByUser[userID]
		if specialMap == nil {
			specialMap = map[time.Time]calendar.SpecialDay{}
		}
		calendars[userID] = userCalendar{
			patternHours: calendar.PatternHours(rows),
			specials:     specialMap,
		}
	}
	return tasks, calendars, nil
}
