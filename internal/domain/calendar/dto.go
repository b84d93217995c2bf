package calendar

import (
	"fmt"
	"time"

	"github.com/maintcore/cmms-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

type PatternRowRequest struct {
	Weekday  int     `json:"weekday"`
	Hours    float64 `json:"hours"`
	IsActive bool    `json:"is_active"`
}

type SetPatternRequest struct {
	Rows []PatternRowRequest `json:"rows"`
}

func (r *SetPatternRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Rows) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "rows",
			Message: "at least one pattern row is required",
		})
	}
	seen := make(map[int]bool, len(r.Rows))
	for i, row := range r.Rows {
		field := fmt.Sprintf("rows[%d]", i)
		if !validator.IsValidWeekday(row.Weekday) {
			errs = append(errs, validator.ValidationError{
				Field:   field + ".weekday",
				Message: "weekday must be between 0 (Monday) and 6 (Sunday)",
			})
			continue
		}
		if seen[row.Weekday] {
			errs = append(errs, validator.ValidationError{
				Field:   field + ".weekday",
				Message: "duplicate weekday in pattern",
			})
		}
		seen[row.Weekday] = true
		if !validator.IsValidDayHours(row.Hours) {
			errs = append(errs, validator.ValidationError{
				Field:   field + ".hours",
				Message: "hours must be between 0 and 24",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateSpecialDayRequest struct {
	Date      string   `json:"date"`
	IsWorking bool     `json:"is_working"`
	Hours     *float64 `json:"hours"`
	Reason    *string  `json:"reason"`
}

func (r *CreateSpecialDayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if !validator.IsValidDate(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must use the YYYY-MM-DD format",
		})
	}
	if r.Hours != nil && !validator.IsValidDayHours(*r.Hours) {
		errs = append(errs, validator.ValidationError{
			Field:   "hours",
			Message: "hours must be between 0 and 24",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *CreateSpecialDayRequest) ParsedDate() time.Time {
	d, _ := time.Parse(dateLayout, r.Date)
	return d
}

type VacationRangeRequest struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Reason    *string `json:"reason"`
}

func (r *VacationRangeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidDate(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must use the YYYY-MM-DD format",
		})
	}
	if !validator.IsValidDate(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must use the YYYY-MM-DD format",
		})
	}
	if len(errs) == 0 {
		start, _ := time.Parse(dateLayout, r.StartDate)
		end, _ := time.Parse(dateLayout, r.EndDate)
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *VacationRangeRequest) ParsedRange() (time.Time, time.Time) {
	start, _ := time.Parse(dateLayout, r.StartDate)
	end, _ := time.Parse(dateLayout, r.EndDate)
	return start, end
}

type WorkingDayPatternResponse struct {
	Weekday  int     `json:"weekday"`
	Hours    float64 `json:"hours"`
	IsActive bool    `json:"is_active"`
}

func NewWorkingDayPatternResponse(rows []WorkingDayPattern) []WorkingDayPatternResponse {
	out := make([]WorkingDayPatternResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, WorkingDayPatternResponse{
			Weekday:  r.Weekday,
			Hours:    r.Hours,
			IsActive: r.IsActive,
		})
	}
	return out
}

type SpecialDayResponse struct {
	ID        string   `json:"id"`
	Date      string   `json:"date"`
	IsWorking bool     `json:"is_working"`
	Hours     *float64 `json:"hours,omitempty"`
	Reason    *string  `json:"reason,omitempty"`
}

func NewSpecialDayResponse(d SpecialDay) SpecialDayResponse {
	return SpecialDayResponse{
		ID:        d.ID,
		Date:      d.Date.Format(dateLayout),
		IsWorking: d.IsWorking,
		Hours:     d.Hours,
		Reason:    d.Reason,
	}
}

func NewSpecialDayResponses(days []SpecialDay) []SpecialDayResponse {
	out := make([]SpecialDayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, NewSpecialDayResponse(d))
	}
	return out
}

type DayCapacityResponse struct {
	Date          string  `json:"date"`
	CapacityHours float64 `json:"capacity_hours"`
	IsNonWorking  bool    `json:"is_non_working"`
	Reason        *string `json:"reason,omitempty"`
}

type CalendarWeekResponse struct {
	UserID string                `json:"user_id"`
	Days   []DayCapacityResponse `json:"days"`
}

func NewCalendarWeekResponse(userID string, days []DayCapacity) CalendarWeekResponse {
	out := CalendarWeekResponse{UserID: userID, Days: make([]DayCapacityResponse, 0, len(days))}
	for _, d := range days {
		out.Days = append(out.Days, DayCapacityResponse{
			Date:          d.Date.Format(dateLayout),
			CapacityHours: d.CapacityHours,
			IsNonWorking:  d.IsNonWorking,
			Reason:        d.Reason,
		})
	}
	return out
}

// TeamVacationDay joins a non-working special day with the owning user,
// for the manager's team overview.
type TeamVacationDay struct {
	ID        string
	UserID    string
	FirstName string
	LastName  string
	Date      time.Time
	Reason    *string
}

type TeamVacationDayResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Date      string  `json:"date"`
	Reason    *string `json:"reason,omitempty"`
}

func NewTeamVacationDayResponses(days []TeamVacationDay) []TeamVacationDayResponse {
	out := make([]TeamVacationDayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, TeamVacationDayResponse{
			ID:        d.ID,
			UserID:    d.UserID,
			FirstName: d.FirstName,
			LastName:  d.LastName,
			Date:      d.Date.Format(dateLayout),
			Reason:    d.Reason,
		})
	}
	return out
}
