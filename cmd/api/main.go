package main

import (
	"fmt"
	"net/http"

	"github.com/maintcore/cmms-backend-go/internal/config"
	appHTTP "github.com/maintcore/cmms-backend-go/internal/handler/http"
	"github.com/maintcore/cmms-backend-go/internal/pkg/database"
	"github.com/maintcore/cmms-backend-go/internal/pkg/jwt"
	"github.com/maintcore/cmms-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/maintcore/cmms-backend-go/internal/service/auth"
	serviceCalendar "github.com/maintcore/cmms-backend-go/internal/service/calendar"
	servicePlanner "github.com/maintcore/cmms-backend-go/internal/service/planner"
	"github.com/maintcore/cmms-backend-go/internal/service/scope"
	serviceTask "github.com/maintcore/cmms-backend-go/internal/service/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	patternRepo := postgresql.NewWorkingDayPatternRepository(db)
	specialRepo := postgresql.NewSpecialDayRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	scopeResolver := scope.NewResolver(departmentRepo, userRepo)

	authService := serviceAuth.NewAuthService(userRepo, jwtService)
	calendarService := serviceCalendar.NewCalendarService(db, patternRepo, specialRepo, scopeResolver)
	taskService := serviceTask.NewTaskService(db, taskRepo, userRepo, calendarService)
	plannerService := servicePlanner.NewPlannerService(db, taskRepo, userRepo, specialRepo, calendarService, scopeResolver)

	authHandler := appHTTP.NewAuthHandler(authService)
	calendarHandler := appHTTP.NewCalendarHandler(calendarService, scopeResolver)
	plannerHandler := appHTTP.NewPlannerHandler(plannerService)
	taskHandler := appHTTP.NewTaskHandler(taskService)

	router := appHTTP.NewRouter(jwtService, authHandler, calendarHandler, plannerHandler, taskHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Server running on port", cfg.App.Port)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
