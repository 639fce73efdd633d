package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/jwt"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func newJWT(t *testing.T) jwt.Service {
	t.Helper()
	svc, err := jwt.NewJWTService("middleware-test-secret", "15m", "168h", false)
	require.NoError(t, err)
	return svc
}

func accessToken(t *testing.T, svc jwt.Service, role user.Role, status user.Status) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken(jwt.AccessClaims{UserID: "u-1", Role: string(role), Status: string(status)})
	require.NoError(t, err)
	return token
}

// chain wraps next with the verifier and access check used on protected routes.
func chain(svc jwt.Service, next http.Handler, extra ...func(http.Handler) http.Handler) http.Handler {
	h := next
	for i := len(extra) - 1; i >= 0; i-- {
		h = extra[i](h)
	}
	return jwtauth.Verifier(svc.JWTAuth())(AuthRequired(svc.JWTAuth())(h))
}

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	svc := newJWT(t)
	refresh, _, err := svc.GenerateRefreshToken("u-1")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, serve(chain(svc, okHandler), "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(chain(svc, okHandler), "not-a-jwt").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(chain(svc, okHandler), refresh).Code)
	assert.Equal(t, http.StatusNoContent, serve(chain(svc, okHandler), accessToken(t, svc, user.RoleEmployee, user.StatusPending)).Code)
}

func TestRequireActive(t *testing.T) {
	svc := newJWT(t)
	h := chain(svc, okHandler, RequireActive)

	cases := []struct {
		status user.Status
		want   int
	}{
		{user.StatusActive, http.StatusNoContent},
		{user.StatusPending, http.StatusForbidden},
		{user.StatusInactive, http.StatusForbidden},
	}
	for _, c := range cases {
		rec := serve(h, accessToken(t, svc, user.RoleEmployee, c.status))
		assert.Equal(t, c.want, rec.Code, c.status)
		if c.want == http.StatusForbidden {
			assert.Contains(t, rec.Body.String(), "account is not active")
		}
	}
}

func TestRoleGates(t *testing.T) {
	svc := newJWT(t)

	cases := []struct {
		name string
		gate func(http.Handler) http.Handler
		role user.Role
		want int
	}{
		{"manager gate admin", RequireManager, user.RoleAdmin, http.StatusNoContent},
		{"manager gate manager", RequireManager, user.RoleManager, http.StatusNoContent},
		{"manager gate employee", RequireManager, user.RoleEmployee, http.StatusForbidden},
		{"admin gate admin", RequireAdmin, user.RoleAdmin, http.StatusNoContent},
		{"admin gate manager", RequireAdmin, user.RoleManager, http.StatusForbidden},
		{"lock permission manager", RequirePermission(user.PermissionAttendanceLock), user.RoleManager, http.StatusForbidden},
		{"lock permission admin", RequirePermission(user.PermissionAttendanceLock), user.RoleAdmin, http.StatusNoContent},
		{"mark permission employee", RequirePermission(user.PermissionAttendanceMark), user.RoleEmployee, http.StatusNoContent},
	}
	for _, c := range cases {
		rec := serve(chain(svc, okHandler, c.gate), accessToken(t, svc, c.role, user.StatusActive))
		assert.Equal(t, c.want, rec.Code, c.name)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = chiMiddleware.GetReqID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
}

func TestBodyLimit(t *testing.T) {
	h := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		_, err := r.Body.Read(buf)
		for err == nil {
			_, err = r.Body.Read(buf)
		}
		if errors.Is(err, io.EOF) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	}))

	small := httptest.NewRecorder()
	h.ServeHTTP(small, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("tiny")))
	assert.Equal(t, http.StatusNoContent, small.Code)

	large := httptest.NewRecorder()
	h.ServeHTTP(large, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, large.Code)
}

func TestSecureHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecureHeaders(true)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))

	rec = httptest.NewRecorder()
	SecureHeaders(false)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}
