package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/maintcore/cmms-backend-go/internal/handler/http/middleware"
	"github.com/maintcore/cmms-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	authHandler AuthHandler,
	calendarHandler CalendarHandler,
	plannerHandler PlannerHandler,
	taskHandler TaskHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "cmms-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/calendar", func(r chi.Router) {
				r.Route("/team/{managerID}/vacations", func(r chi.Router) {
					r.Use(middleware.SupervisorOrAdmin)
					r.Get("/", calendarHandler.ListTeamVacations)
				})

				// Per-user calendar. Handlers scope access to the
				// requester's own calendar or managed subtree.
				r.Route("/{userID}", func(r chi.Router) {
					r.Get("/pattern", calendarHandler.GetPattern)
					r.Put("/pattern", calendarHandler.SetPattern)

					r.Get("/special", calendarHandler.ListSpecialDays)
					r.Post("/special", calendarHandler.AddSpecialDay)
					r.Delete("/special/{specialID}", calendarHandler.DeleteSpecialDay)

					r.Post("/vacations", calendarHandler.AddVacationRange)

					r.Get("/week", calendarHandler.GetWeek)
				})
			})

			r.Route("/planner", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.SupervisorOrAdmin)
					r.Get("/week", plannerHandler.GetWeek)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/adjust", plannerHandler.AdjustDueDates)
					r.Post("/rebalance", plannerHandler.RebalanceCapacity)
				})
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Get("/my", taskHandler.ListMine)

				r.Route("/{taskID}", func(r chi.Router) {
					r.Get("/", taskHandler.Get)
					r.Put("/", taskHandler.Update)
					r.Delete("/", taskHandler.Delete)
				})
			})
		})
	})
	return r
}
