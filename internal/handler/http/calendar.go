package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/maintcore/cmms-backend-go/internal/domain/calendar"
	"github.com/maintcore/cmms-backend-go/internal/domain/user"
	"github.com/maintcore/cmms-backend-go/internal/handler/http/middleware"
	"github.com/maintcore/cmms-backend-go/internal/handler/http/response"
	"github.com/maintcore/cmms-backend-go/internal/service/scope"
)

type CalendarHandler interface {
	GetPattern(w http.ResponseWriter, r *http.Request)
	SetPattern(w http.ResponseWriter, r *http.Request)

	ListSpecialDays(w http.ResponseWriter, r *http.Request)
	AddSpecialDay(w http.ResponseWriter, r *http.Request)
	DeleteSpecialDay(w http.ResponseWriter, r *http.Request)
	AddVacationRange(w http.ResponseWriter, r *http.Request)

	GetWeek(w http.ResponseWriter, r *http.Request)
	ListTeamVacations(w http.ResponseWriter, r *http.Request)
}

type CalendarHandlerImpl struct {
	calendarService calendar.Service
	scope           *scope.Resolver
}

const queryDateLayout = "2006-01-02"

// authorizeCalendarRead gates the capacity week view. Admins reach
// everyone, supervisors their managed subtree, technicians only
// themselves.
func (c *CalendarHandlerImpl) authorizeCalendarRead(r *http.Request, targetUserID string) error {
	requesterID, role, err := middleware.ClaimsFromRequest(r)
	if err != nil {
		return err
	}
	if role == user.RoleAdmin || requesterID == targetUserID {
		return nil
	}
	return c.allowsSupervisor(r, requesterID, role, targetUserID)
}

// authorizeCalendarManage gates pattern, special day and vacation
// endpoints. Only admins and supervisors manage calendars, and a
// supervisor only inside their subtree. There is no self pass, so a
// technician cannot edit their own calendar.
func (c *CalendarHandlerImpl) authorizeCalendarManage(r *http.Request, targetUserID string) error {
	requesterID, role, err := middleware.ClaimsFromRequest(r)
	if err != nil {
		return err
	}
	if role == user.RoleAdmin {
		return nil
	}
	return c.allowsSupervisor(r, requesterID, role, targetUserID)
}

func (c *CalendarHandlerImpl) allowsSupervisor(r *http.Request, requesterID string, role user.Role, targetUserID string) error {
	if role == user.RoleSupervisor {
		allowed, err := c.scope.Allows(r.Context(), requesterID, targetUserID)
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}
	}
	return user.ErrUserOutsideManagedScope
}

// GetPattern implements CalendarHandler.
func (c *CalendarHandlerImpl) GetPattern(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := c.authorizeCalendarManage(r, userID); err != nil {
		response.HandleError(w, err)
		return
	}

	rows, err := c.calendarService.GetOrCreateDefaultPattern(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, calendar.NewWorkingDayPatternResponse(rows))
}

// SetPattern implements CalendarHandler.
func (c *CalendarHandlerImpl) SetPattern(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := c.authorizeCalendarManage(r, userID); err != nil {
		response.HandleError(w, err)
		return
	}

	var req calendar.SetPatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetPattern decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	rows, err := c.calendarService.SetPattern(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Working pattern updated", calendar.NewWorkingDayPatternResponse(rows))
}

// ListSpecialDays implements CalendarHandler.
func (c *CalendarHandlerImpl) ListSpecialDays(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := c.authorizeCalendarManage(r, userID); err != nil {
		response.HandleError(w, err)
		return
	}

	start, end, err := parseRangeQuery(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	days, err := c.calendarService.ListSpecialDays(r.Context(), userID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, calendar.NewSpecialDayResponses(days))
}

// AddSpecialDay implements CalendarHandler.
func (c *CalendarHandlerImpl) AddSpecialDay(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := c.authorizeCalendarManage(r, userID); err != nil {
		response.HandleError(w, err)
		return
	}

	var req calendar.CreateSpecialDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddSpecialDay decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	day, err := c.calendarService.AddSpecialDay(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Special day saved", calendar.NewSpecialDayResponse(day))
}

// DeleteSpecialDay implements CalendarHandler.
func (c *CalendarHandlerImpl) DeleteSpecialDay(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	specialID := chi.URLParam(r, "specialID")
	if err := c.authorizeCalendarManage(r, userID); err != nil {
		response.HandleError(w, err)
		return
	}

	deleted, err := c.calendarService.DeleteSpecialDay(r.Context(), userID, specialID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !deleted {
		response.HandleError(w, calendar.ErrSpecialDayNotFound)
		return
	}

	response.SuccessWithMessage(w, "Special day deleted", nil)
}

// AddVacationRange implements CalendarHandler.
func (c *CalendarHandlerImpl) AddVacationRange(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := c.authorizeCalendarManage(r, userID); err != nil {
		response.HandleError(w, err)
		return
	}

	var req calendar.VacationRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddVacationRange decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	days, err := c.calendarService.AddVacationRange(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Vacation range saved", calendar.NewSpecialDayResponses(days))
}

// GetWeek implements CalendarHandler.
func (c *CalendarHandlerImpl) GetWeek(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := c.authorizeCalendarRead(r, userID); err != nil {
		response.HandleError(w, err)
		return
	}

	start, numDays, err := parseWeekQuery(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	days, err := c.calendarService.ComputeCapacityWeek(r.Context(), userID, start, numDays)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, calendar.NewCalendarWeekResponse(userID, days))
}

// ListTeamVacations implements CalendarHandler.
func (c *CalendarHandlerImpl) ListTeamVacations(w http.ResponseWriter, r *http.Request) {
	managerID := chi.URLParam(r, "managerID")

	requesterID, role, err := middleware.ClaimsFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if role != user.RoleAdmin && requesterID != managerID {
		response.HandleError(w, user.ErrUserOutsideManagedScope)
		return
	}

	start, end, err := parseRangeQuery(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	days, err := c.calendarService.ListTeamVacations(r.Context(), managerID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, calendar.NewTeamVacationDayResponses(days))
}

// parseRangeQuery reads optional start/end query params. Defaults cover
// the current calendar year.
func parseRangeQuery(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)

	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := time.Parse(queryDateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, calendar.ErrInvalidRequestData
		}
		start = parsed
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		parsed, err := time.Parse(queryDateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, calendar.ErrInvalidRequestData
		}
		end = parsed
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, calendar.ErrInvalidDateRange
	}
	return start, end, nil
}

// parseWeekQuery reads optional start/days query params. The default
// window is the current week starting on Monday.
func parseWeekQuery(r *http.Request) (time.Time, int, error) {
	start := calendar.NormalizeDate(time.Now().UTC())
	start = start.AddDate(0, 0, -calendar.WeekdayIndex(start))

	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := time.Parse(queryDateLayout, raw)
		if err != nil {
			return time.Time{}, 0, calendar.ErrInvalidRequestData
		}
		start = parsed
	}

	numDays := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 14 {
			return time.Time{}, 0, calendar.ErrInvalidRequestData
		}
		numDays = parsed
	}
	return start, numDays, nil
}

func NewCalendarHandler(calendarService calendar.Service, scopeResolver *scope.Resolver) CalendarHandler {
	return &CalendarHandlerImpl{
		calendarService: calendarService,
		scope:           scopeResolver,
	}
}
