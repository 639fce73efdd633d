package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

// getCallerFromContext extracts the acting user from the verified JWT claims
func getCallerFromContext(r *http.Request) (user.Caller, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return user.Caller{}, false
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Caller{}, false
	}
	role, _ := claims["role"].(string)
	return user.Caller{ID: userID, Role: user.Role(role)}, true
}

// getIDParam returns the {id} route parameter and whether it is a well-formed UUID.
func getIDParam(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	return id, validator.IsValidUUID(id)
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getOptionalIntQueryParam returns nil when the parameter is absent or not a number.
func getOptionalIntQueryParam(r *http.Request, key string) *int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return nil
	}
	return &intVal
}

func setAttachmentHeaders(w http.ResponseWriter, contentType string, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// writeCSVAttachment streams rows as a CSV download.
func writeCSVAttachment(w http.ResponseWriter, filename string, header []string, rows [][]string) {
	setAttachmentHeaders(w, "text/csv; charset=utf-8", filename)
	w.WriteHeader(http.StatusOK)
	if err := export.WriteCSV(w, header, rows); err != nil {
		slog.Error("CSV write error", "filename", filename, "error", err)
	}
}
