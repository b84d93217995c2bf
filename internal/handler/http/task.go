package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/maintcore/cmms-backend-go/internal/domain/task"
	"github.com/maintcore/cmms-backend-go/internal/handler/http/middleware"
	"github.com/maintcore/cmms-backend-go/internal/handler/http/response"
)

type TaskHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type TaskHandlerImpl struct {
	taskService task.Service
}

// Create implements TaskHandler.
func (t *TaskHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	requesterID, _, err := middleware.ClaimsFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req task.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateTask decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := t.taskService.Create(r.Context(), req, requesterID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Task created", created)
}

// Get implements TaskHandler.
func (t *TaskHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	found, err := t.taskService.Get(r.Context(), taskID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// List implements TaskHandler.
func (t *TaskHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := parseTaskFilter(r)

	tasks, total, err := t.taskService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}
	response.SuccessWithMeta(w, tasks, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// ListMine implements TaskHandler.
func (t *TaskHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	requesterID, _, err := middleware.ClaimsFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	tasks, err := t.taskService.ListByUser(r.Context(), requesterID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, tasks)
}

// Update implements TaskHandler.
func (t *TaskHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	var req task.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateTask decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := t.taskService.Update(r.Context(), taskID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Task updated", updated)
}

// Delete implements TaskHandler.
func (t *TaskHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	if err := t.taskService.Delete(r.Context(), taskID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Task deleted", nil)
}

func parseTaskFilter(r *http.Request) task.Filter {
	q := r.URL.Query()

	filter := task.Filter{
		Search: q.Get("search"),
		Page:   1,
		Limit:  20,
	}
	if s, ok := task.ParseStatus(q.Get("status")); ok && q.Get("status") != "" {
		filter.Status = &s
	}
	if p, ok := task.ParsePriority(q.Get("priority")); ok && q.Get("priority") != "" {
		filter.Priority = &p
	}
	if assignedTo := q.Get("assigned_to"); assignedTo != "" {
		filter.AssignedTo = &assignedTo
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 && limit <= 100 {
		filter.Limit = limit
	}
	return filter
}

func NewTaskHandler(taskService task.Service) TaskHandler {
	return &TaskHandlerImpl{
		taskService: taskService,
	}
}
