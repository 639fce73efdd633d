package response

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/eod"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
)

var exposeErrors atomic.Bool

// SetDevelopment makes unmapped errors carry their raw text in the 500 body.
func SetDevelopment(enabled bool) {
	exposeErrors.Store(enabled)
}

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
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenMissing):
		Unauthorized(w, "Refresh token is required")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrUnknownProvider):
		NotFound(w, "Unknown OAuth provider")
	case errors.Is(err, auth.ErrInvalidOAuthState):
		BadRequest(w, "Invalid OAuth state", nil)
	case errors.Is(err, auth.ErrOAuthExchange):
		Unauthorized(w, "OAuth code exchange failed")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, err.Error())
	case errors.Is(err, user.ErrOAuthProviderIDExists):
		Conflict(w, "OAuth account already linked to another user")
	case errors.Is(err, user.ErrAccountInactive):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrManagerCycle),
		errors.Is(err, user.ErrInvalidManager),
		errors.Is(err, user.ErrCannotDeleteSelf):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrCutoffPassed),
		errors.Is(err, attendance.ErrRecordLocked):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrInvalidDateRange),
		errors.Is(err, eod.ErrInvalidDateRange),
		errors.Is(err, eod.ErrInvalidDate):
		BadRequest(w, err.Error(), nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")

	// Report domain errors
	case errors.Is(err, report.ErrMonthYearRequired):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		if exposeErrors.Load() {
			InternalServerError(w, err.Error())
			return
		}
		InternalServerError(w, "An unexpected error occurred")
	}
}
