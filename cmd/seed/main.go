// Command seed loads idempotent demo data: the maintenance org chart,
// working calendars and a batch of tasks, then runs the bulk scheduling
// passes so the planner opens on a realistic, capacity-respecting week.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maintcore/cmms-backend-go/internal/config"
	"github.com/maintcore/cmms-backend-go/internal/domain/calendar"
	"github.com/maintcore/cmms-backend-go/internal/domain/department"
	"github.com/maintcore/cmms-backend-go/internal/domain/task"
	"github.com/maintcore/cmms-backend-go/internal/domain/user"
	"github.com/maintcore/cmms-backend-go/internal/fixtures"
	"github.com/maintcore/cmms-backend-go/internal/pkg/database"
	"github.com/maintcore/cmms-backend-go/internal/repository/postgresql"
	serviceCalendar "github.com/maintcore/cmms-backend-go/internal/service/calendar"
	servicePlanner "github.com/maintcore/cmms-backend-go/internal/service/planner"
	"github.com/maintcore/cmms-backend-go/internal/service/scope"
)

// Re-running against a database that already has this many tasks skips
// bulk generation but still runs the scheduling passes.
const taskThreshold = 40

const seedTaskCount = 60

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := run(context.Background(), db); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
	slog.Info("seed complete")
}

func run(ctx context.Context, db *database.DB) error {
	userRepo := postgresql.NewUserRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	patternRepo := postgresql.NewWorkingDayPatternRepository(db)
	specialRepo := postgresql.NewSpecialDayRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)

	scopeResolver := scope.NewResolver(departmentRepo, userRepo)
	calendarService := serviceCalendar.NewCalendarService(db, patternRepo, specialRepo, scopeResolver)
	plannerService := servicePlanner.NewPlannerService(db, taskRepo, userRepo, specialRepo, calendarService, scopeResolver)

	usersByEmail, err := seedUsers(ctx, userRepo)
	if err != nil {
		return err
	}
	supervisors, err := userRepo.CountByRole(ctx, user.RoleSupervisor)
	if err != nil {
		return err
	}
	technicians, err := userRepo.CountByRole(ctx, user.RoleTechnician)
	if err != nil {
		return err
	}
	slog.Info("users ready", "supervisors", supervisors, "technicians", technicians)
	if err := seedDepartments(ctx, db, departmentRepo, userRepo, usersByEmail); err != nil {
		return err
	}
	if err := seedCalendars(ctx, calendarService, usersByEmail); err != nil {
		return err
	}
	if err := seedTasks(ctx, taskRepo, usersByEmail); err != nil {
		return err
	}

	// Correction passes: pull tasks off non-working days first, then
	// spread overloaded days forward.
	adjusted, err := plannerService.AdjustDueDates(ctx)
	if err != nil {
		return fmt.Errorf("adjust pass failed: %w", err)
	}
	slog.Info("adjusted due dates", "count", adjusted.AdjustedDueDates)

	rebalanced, err := plannerService.RebalanceCapacity(ctx)
	if err != nil {
		return fmt.Errorf("rebalance pass failed: %w", err)
	}
	slog.Info("rebalanced workload", "moved", rebalanced.MovedTasks, "unplaced", len(rebalanced.UnplacedTasks))

	return nil
}

func seedUsers(ctx context.Context, userRepo user.Repository) (map[string]user.User, error) {
	hash, err := fixtures.HashPassword(fixtures.DemoPassword)
	if err != nil {
		return nil, err
	}

	usersByEmail := make(map[string]user.User)
	for _, spec := range fixtures.Users() {
		existing, err := userRepo.GetByEmail(ctx, spec.Email)
		if err == nil {
			usersByEmail[spec.Email] = existing
			continue
		}
		if !errors.Is(err, user.ErrUserNotFound) {
			return nil, err
		}

		created, err := userRepo.Create(ctx, user.User{
			Email:        spec.Email,
			PasswordHash: hash,
			FirstName:    spec.FirstName,
			LastName:     spec.LastName,
			Role:         spec.Role,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to seed user %s: %w", spec.Email, err)
		}
		usersByEmail[spec.Email] = created
		slog.Info("created user", "email", created.Email, "role", created.Role)
	}
	return usersByEmail, nil
}

func seedDepartments(
	ctx context.Context,
	db *database.DB,
	departmentRepo department.Repository,
	userRepo user.Repository,
	usersByEmail map[string]user.User,
) error {
	byName := make(map[string]department.Department)
	for _, spec := range fixtures.Departments() {
		existing, err := departmentRepo.GetByName(ctx, spec.Name)
		if err == nil {
			byName[spec.Name] = existing
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		d := department.Department{Name: spec.Name}
		if spec.ParentName != "" {
			parent := byName[spec.ParentName]
			d.ParentID = &parent.ID
		}
		if spec.ManagerEmail != "" {
			manager := usersByEmail[spec.ManagerEmail]
			d.ManagerID = &manager.ID
		}

		created, err := departmentRepo.Create(ctx, d)
		if err != nil {
			return fmt.Errorf("failed to seed department %s: %w", spec.Name, err)
		}
		byName[spec.Name] = created
		slog.Info("created department", "name", created.Name)
	}

	// Attach users to their departments.
	return postgresql.WithTransaction(ctx, db, func(txCtx context.Context) error {
		q := postgresql.GetQuerier(txCtx, db)
		for _, spec := range fixtures.Users() {
			if spec.DepartmentName == "" {
				continue
			}
			u := usersByEmail[spec.Email]
			dep := byName[spec.DepartmentName]
			if _, err := q.Exec(txCtx,
				`UPDATE users SET department_id = $1, updated_at = NOW() WHERE id = $2`,
				dep.ID, u.ID,
			); err != nil {
				return fmt.Errorf("failed to attach %s to %s: %w", spec.Email, spec.DepartmentName, err)
			}
		}
		return nil
	})
}

func seedCalendars(ctx context.Context, calendarService calendar.Service, usersByEmail map[string]user.User) error {
	// Every user gets the default Monday to Friday pattern.
	for email := range usersByEmail {
		if _, err := calendarService.GetOrCreateDefaultPattern(ctx, usersByEmail[email].ID); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	monday := calendar.NormalizeDate(now).AddDate(0, 0, -calendar.WeekdayIndex(now))

	// Supervisor vacation week, three weeks out.
	vacationStart := monday.AddDate(0, 0, 21)
	vacationReason := "Annual leave"
	if _, err := calendarService.AddVacationRange(ctx, usersByEmail["sofia.ruiz@maintcore.test"].ID, calendar.VacationRangeRequest{
		StartDate: vacationStart.Format("2006-01-02"),
		EndDate:   vacationStart.AddDate(0, 0, 4).Format("2006-01-02"),
		Reason:    &vacationReason,
	}); err != nil {
		return err
	}

	// Public holiday for the mechanical technicians.
	holiday := time.Date(now.Year(), time.May, 1, 0, 0, 0, 0, time.UTC)
	holidayReason := "Labour Day"
	for _, email := range []string{"jon.etxeberria@maintcore.test", "lucia.fernandez@maintcore.test"} {
		if _, err := calendarService.AddSpecialDay(ctx, usersByEmail[email].ID, calendar.CreateSpecialDayRequest{
			Date:      holiday.Format("2006-01-02"),
			IsWorking: false,
			Reason:    &holidayReason,
		}); err != nil {
			return err
		}
	}

	// Half-day training next Wednesday.
	trainingHours := 4.0
	trainingReason := "Safety training"
	if _, err := calendarService.AddSpecialDay(ctx, usersByEmail["anna.keller@maintcore.test"].ID, calendar.CreateSpecialDayRequest{
		Date:      monday.AddDate(0, 0, 9).Format("2006-01-02"),
		IsWorking: true,
		Hours:     &trainingHours,
		Reason:    &trainingReason,
	}); err != nil {
		return err
	}

	return nil
}

func seedTasks(ctx context.Context, taskRepo task.Repository, usersByEmail map[string]user.User) error {
	count, err := taskRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count >= taskThreshold {
		slog.Info("task generation skipped", "existing", count)
		return nil
	}

	var technicianIDs []string
	for _, spec := range fixtures.Users() {
		if spec.Role == user.RoleTechnician {
			technicianIDs = append(technicianIDs, usersByEmail[spec.Email].ID)
		}
	}
	admin := usersByEmail["admin@maintcore.test"]

	now := time.Now().UTC()
	monday := calendar.NormalizeDate(now).AddDate(0, 0, -calendar.WeekdayIndex(now))
	rng := rand.New(rand.NewSource(now.UnixNano()))

	// Tasks go through the repository, not the task service: the seed
	// wants overloaded days for the rebalancer to clean up.
	for _, t := range fixtures.RandomTasks(rng, technicianIDs, admin.ID, monday, seedTaskCount) {
		if _, err := taskRepo.Create(ctx, t); err != nil {
			return fmt.Errorf("failed to seed task: %w", err)
		}
	}
	slog.Info("created tasks", "count", seedTaskCount)
	return nil
}
