package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workday-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequireAdmin requires the Admin role
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || user.Role(role) != user.RoleAdmin {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireActive blocks Pending and Inactive accounts.
func RequireActive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrAccountInactive)
			return
		}

		status, ok := claims["status"].(string)
		if !ok || user.Status(status) != user.StatusActive {
			response.HandleError(w, user.ErrAccountInactive)
			return
		}

		next.ServeHTTP(w, r)
	})
}
