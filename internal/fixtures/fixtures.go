// Package fixtures builds the demo dataset used by cmd/seed: a small
// maintenance organization with departments, users per role and a batch
// of randomized tasks to exercise the capacity planner.
package fixtures

import (
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/maintcore/cmms-backend-go/internal/domain/task"
	"github.com/maintcore/cmms-backend-go/internal/domain/user"
)

// DemoPassword is the login password for every seeded account.
const DemoPassword = "password123"

type DepartmentSpec struct {
	Name         string
	ParentName   string
	ManagerEmail string
}

type UserSpec struct {
	Email          string
	FirstName      string
	LastName       string
	Role           user.Role
	DepartmentName string
}

func Departments() []DepartmentSpec {
	return []DepartmentSpec{
		{Name: "Maintenance"},
		{Name: "Mechanical", ParentName: "Maintenance", ManagerEmail: "sofia.ruiz@maintcore.test"},
		{Name: "Electrical", ParentName: "Maintenance", ManagerEmail: "marco.bianchi@maintcore.test"},
	}
}

func Users() []UserSpec {
	return []UserSpec{
		{Email: "admin@maintcore.test", FirstName: "Alex", LastName: "Moreno", Role: user.RoleAdmin},
		{Email: "sofia.ruiz@maintcore.test", FirstName: "Sofia", LastName: "Ruiz", Role: user.RoleSupervisor, DepartmentName: "Mechanical"},
		{Email: "marco.bianchi@maintcore.test", FirstName: "Marco", LastName: "Bianchi", Role: user.RoleSupervisor, DepartmentName: "Electrical"},
		{Email: "jon.etxeberria@maintcore.test", FirstName: "Jon", LastName: "Etxeberria", Role: user.RoleTechnician, DepartmentName: "Mechanical"},
		{Email: "lucia.fernandez@maintcore.test", FirstName: "Lucia", LastName: "Fernandez", Role: user.RoleTechnician, DepartmentName: "Mechanical"},
		{Email: "pierre.dubois@maintcore.test", FirstName: "Pierre", LastName: "Dubois", Role: user.RoleTechnician, DepartmentName: "Mechanical"},
		{Email: "anna.keller@maintcore.test", FirstName: "Anna", LastName: "Keller", Role: user.RoleTechnician, DepartmentName: "Electrical"},
		{Email: "tomas.novak@maintcore.test", FirstName: "Tomas", LastName: "Novak", Role: user.RoleTechnician, DepartmentName: "Electrical"},
		{Email: "maria.silva@maintcore.test", FirstName: "Maria", LastName: "Silva", Role: user.RoleTechnician, DepartmentName: "Electrical"},
	}
}

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

var taskTitles = []string{
	"Replace worn conveyor belt",
	"Lubricate spindle bearings",
	"Inspect hydraulic press seals",
	"Calibrate torque wrenches",
	"Check compressor air filters",
	"Test emergency stop circuit",
	"Rewire control cabinet",
	"Replace contactor on line 2",
	"Thermal scan of main switchboard",
	"Align pump coupling",
	"Drain and refill gearbox oil",
	"Inspect crane hoist chain",
	"Replace HMI backlight",
	"Tighten busbar connections",
	"Clean HVAC condenser coils",
	"Verify PLC battery backup",
	"Patch leaking coolant line",
	"Balance ventilation fan",
	"Swap proximity sensor on feeder",
	"Review lockout-tagout points",
}

var taskStatuses = []task.Status{
	task.StatusPending,
	task.StatusPending,
	task.StatusPending,
	task.StatusInProgress,
	task.StatusCompleted,
}

var taskPriorities = []task.Priority{
	task.PriorityLow,
	task.PriorityMedium,
	task.PriorityMedium,
	task.PriorityHigh,
	task.PriorityCritical,
}

// RandomTasks generates n tasks assigned round-robin-ish across
// assigneeIDs, with due dates inside the three weeks following weekStart
// and estimates between 1 and 6 hours. Deliberately ignores capacity so
// the seeded planner has overloads to rebalance.
func RandomTasks(rng *rand.Rand, assigneeIDs []string, createdBy string, weekStart time.Time, n int) []task.Task {
	tasks := make([]task.Task, 0, n)
	for i := 0; i < n; i++ {
		assignee := assigneeIDs[rng.Intn(len(assigneeIDs))]
		due := weekStart.AddDate(0, 0, rng.Intn(21))
		est := float64(1 + rng.Intn(6))

		t := task.Task{
			Title:          taskTitles[rng.Intn(len(taskTitles))],
			Description:    fmt.Sprintf("Work order #%04d generated for demo data.", 1000+i),
			Status:         taskStatuses[rng.Intn(len(taskStatuses))],
			Priority:       taskPriorities[rng.Intn(len(taskPriorities))],
			AssignedTo:     &assignee,
			CreatedBy:      createdBy,
			DueDate:        &due,
			EstimatedHours: &est,
		}
		tasks = append(tasks, t)
	}
	return tasks
}
