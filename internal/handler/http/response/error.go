package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/maintcore/cmms-backend-go/internal/domain/auth"
	"github.com/maintcore/cmms-backend-go/internal/domain/calendar"
	"github.com/maintcore/cmms-backend-go/internal/domain/task"
	"github.com/maintcore/cmms-backend-go/internal/domain/user"
	"github.com/maintcore/cmms-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, user.ErrSupervisorRoleRequired),
		errors.Is(err, user.ErrUserOutsideManagedScope):
		Forbidden(w, err.Error())

	// Calendar domain errors. Constraint violations carry context from the
	// service layer (date, planned vs available hours), so the wrapped
	// message goes out as-is.
	case errors.Is(err, calendar.ErrNonWorkingDay),
		errors.Is(err, calendar.ErrCapacityExceeded):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, calendar.ErrSpecialDayNotFound):
		NotFound(w, "Special day not found")
	case errors.Is(err, calendar.ErrInvalidDateRange),
		errors.Is(err, calendar.ErrInvalidRequestData):
		BadRequest(w, err.Error(), nil)

	// Task domain errors
	case errors.Is(err, task.ErrTaskNotFound):
		NotFound(w, "Task not found")
	case errors.Is(err, task.ErrAssigneeNotFound):
		NotFound(w, "Assigned user not found")
	case errors.Is(err, task.ErrInvalidStatus),
		errors.Is(err, task.ErrInvalidPriority),
		errors.Is(err, task.ErrInvalidRequestData):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", slog.Any("error", err))
		InternalServerError(w, "An unexpected error occurred")
	}
}
