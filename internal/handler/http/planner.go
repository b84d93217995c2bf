package http

import (
	"net/http"

	"github.com/maintcore/cmms-backend-go/internal/domain/planner"
	"github.com/maintcore/cmms-backend-go/internal/domain/user"
	"github.com/maintcore/cmms-backend-go/internal/handler/http/middleware"
	"github.com/maintcore/cmms-backend-go/internal/handler/http/response"
)

type PlannerHandler interface {
	GetWeek(w http.ResponseWriter, r *http.Request)
	AdjustDueDates(w http.ResponseWriter, r *http.Request)
	RebalanceCapacity(w http.ResponseWriter, r *http.Request)
}

type PlannerHandlerImpl struct {
	plannerService planner.Service
}

// GetWeek implements PlannerHandler.
func (p *PlannerHandlerImpl) GetWeek(w http.ResponseWriter, r *http.Request) {
	requesterID, role, err := middleware.ClaimsFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	start, numDays, err := parseWeekQuery(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	week, err := p.plannerService.GetWeek(r.Context(), requesterID, role == user.RoleAdmin, start, numDays)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, week)
}

// AdjustDueDates implements PlannerHandler.
func (p *PlannerHandlerImpl) AdjustDueDates(w http.ResponseWriter, r *http.Request) {
	report, err := p.plannerService.AdjustDueDates(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Due dates adjusted", report)
}

// RebalanceCapacity implements PlannerHandler.
func (p *PlannerHandlerImpl) RebalanceCapacity(w http.ResponseWriter, r *http.Request) {
	report, err := p.plannerService.RebalanceCapacity(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Workload rebalanced", report)
}

func NewPlannerHandler(plannerService planner.Service) PlannerHandler {
	return &PlannerHandlerImpl{
		plannerService: plannerService,
	}
}
