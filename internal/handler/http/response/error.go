package response

import (
	"errors"
	"net/http"

	"github.com/clinixa-his/attendance-engine-go/internal/domain/attendance"
	"github.com/clinixa-his/attendance-engine-go/internal/domain/auth"
	"github.com/clinixa-his/attendance-engine-go/internal/domain/employee"
	"github.com/clinixa-his/attendance-engine-go/internal/domain/exception"
	"github.com/clinixa-his/attendance-engine-go/internal/domain/user"
	"github.com/clinixa-his/attendance-engine-go/internal/pkg/validator"
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
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Administrator privilege required")
	case errors.Is(err, user.ErrPermissionDenied):
		Forbidden(w, "Permission denied")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Attendance processing errors
	case errors.Is(err, attendance.ErrSummaryNotFound):
		NotFound(w, "Attendance summary not found")
	case errors.Is(err, attendance.ErrUnknownPreviewBatch):
		Conflict(w, "Unknown batch token; run a preview first")
	case errors.Is(err, attendance.ErrPreviewBatchExpired):
		Conflict(w, "Preview batch expired; run the preview again")
	case errors.Is(err, attendance.ErrInvalidProcessMode):
		BadRequest(w, "Invalid process mode", nil)

	// Exception domain errors
	case errors.Is(err, exception.ErrExceptionNotFound):
		NotFound(w, "Exception not found")
	case errors.Is(err, exception.ErrAlreadyReviewed):
		Conflict(w, "Exception has already been reviewed")
	case errors.Is(err, exception.ErrJustificationRequired):
		BadRequest(w, "Justification is required for this action", nil)
	case errors.Is(err, exception.ErrUnknownReviewAction):
		BadRequest(w, "Unknown review action", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
