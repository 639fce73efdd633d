package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/config"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/eod"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workday-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret   = "test-secret-key-for-jwt"
	handlerTestFrontend = "http://app.test"
	handlerTestUserID   = "9b2f6c1e-3d4a-4f5b-8c7d-1e2f3a4b5c6d"
	handlerTestOtherID  = "3f1d2c4b-5a6e-4b7c-9d8e-0f1a2b3c4d5e"
)

// Stub services embed the interface; calling an unstubbed method panics.

type stubAuthService struct {
	auth.AuthService
	redirectURL string
	state       string
	tokens      auth.TokenResponse
	callbackErr error
	refreshed   auth.AccessTokenResponse
	refreshErr  error
	refreshReq  auth.RefreshTokenRequest
	loggedOut   []string
}

func (s *stubAuthService) OAuthRedirect(provider string) (string, string, error) {
	if provider != "google" {
		return "", "", auth.ErrUnknownProvider
	}
	return s.redirectURL, s.state, nil
}

func (s *stubAuthService) OAuthCallback(ctx context.Context, provider string, code string, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	return s.tokens, s.callbackErr
}

func (s *stubAuthService) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	s.refreshReq = req
	return s.refreshed, s.refreshErr
}

func (s *stubAuthService) Logout(ctx context.Context, req auth.RefreshTokenRequest) error {
	s.loggedOut = append(s.loggedOut, req.RefreshToken)
	return nil
}

type stubUserService struct {
	user.UserService
	listed []user.UserResponse
}

func (s *stubUserService) List(ctx context.Context, caller user.Caller, filter user.ListUsersFilter) ([]user.UserResponse, error) {
	return s.listed, nil
}

func (s *stubUserService) GetMe(ctx context.Context, caller user.Caller) (user.UserResponse, error) {
	return user.UserResponse{ID: caller.ID, Role: caller.Role, Name: "Tess"}, nil
}

type stubAttendanceService struct {
	attendance.AttendanceService
	history  []attendance.AttendanceResponse
	exported attendance.ExportResult
	markErr  error
	filter   attendance.ExportFilter
}

func (s *stubAttendanceService) Mark(ctx context.Context, caller user.Caller, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if s.markErr != nil {
		return attendance.AttendanceResponse{}, s.markErr
	}
	return attendance.AttendanceResponse{UserID: caller.ID, Status: attendance.Status(req.Status)}, nil
}

func (s *stubAttendanceService) History(ctx context.Context, caller user.Caller) ([]attendance.AttendanceResponse, error) {
	return s.history, nil
}

func (s *stubAttendanceService) TeamStatus(ctx context.Context, caller user.Caller, filter attendance.TeamStatusFilter) ([]attendance.TeamStatusResponse, error) {
	return []attendance.TeamStatusResponse{}, nil
}

func (s *stubAttendanceService) Export(ctx context.Context, caller user.Caller, filter attendance.ExportFilter) (attendance.ExportResult, error) {
	s.filter = filter
	return s.exported, nil
}

type stubEODService struct {
	eod.EODService
	entries []eod.EntryResponse
	filter  eod.TeamFilter
}

func (s *stubEODService) TeamEntries(ctx context.Context, caller user.Caller, filter eod.TeamFilter) ([]eod.EntryResponse, error) {
	s.filter = filter
	return s.entries, nil
}

type stubLeaveService struct {
	leave.LeaveService
	actionErr error
}

func (s *stubLeaveService) Action(ctx context.Context, caller user.Caller, id string, req leave.ActionLeaveRequest) (leave.LeaveRequestResponse, error) {
	if s.actionErr != nil {
		return leave.LeaveRequestResponse{}, s.actionErr
	}
	return leave.LeaveRequestResponse{ID: id, Status: leave.Status(req.Status)}, nil
}

type stubNotificationService struct {
	notification.NotificationService
	limit int
}

func (s *stubNotificationService) List(ctx context.Context, recipientID string, limit int) ([]notification.NotificationResponse, error) {
	s.limit = limit
	return []notification.NotificationResponse{}, nil
}

func (s *stubNotificationService) MarkAsRead(ctx context.Context, id string, recipientID string) (notification.NotificationResponse, error) {
	return notification.NotificationResponse{}, notification.ErrNotificationNotFound
}

type stubReportService struct {
	report.ReportService
	monthly report.MonthlyReportResponse
}

func (s *stubReportService) MonthlyMatrix(ctx context.Context, caller user.Caller, req report.PeriodRequest) (report.MonthlyReportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyReportResponse{}, err
	}
	return s.monthly, nil
}

type testServer struct {
	handler      http.Handler
	jwt          jwt.Service
	auth         *stubAuthService
	user         *stubUserService
	attendance   *stubAttendanceService
	eod          *stubEODService
	leave        *stubLeaveService
	notification *stubNotificationService
	report       *stubReportService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	jwtService, err := jwt.NewJWTService(handlerTestSecret, "15m", "168h", false)
	require.NoError(t, err)

	ts := &testServer{
		jwt:          jwtService,
		auth:         &stubAuthService{},
		user:         &stubUserService{},
		attendance:   &stubAttendanceService{},
		eod:          &stubEODService{},
		leave:        &stubLeaveService{},
		notification: &stubNotificationService{},
		report:       &stubReportService{},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appConfig := config.AppConfig{
		Env:            "test",
		LogLevel:       "error",
		FrontendURL:    handlerTestFrontend,
		AllowedOrigins: []string{handlerTestFrontend},
		MaxBodyBytes:   1 << 20,
	}
	ts.handler = NewRouter(appConfig, logger, jwtService, Handlers{
		Auth:         NewAuthHandler(jwtService, ts.auth, handlerTestFrontend, false),
		User:         NewUserHandler(ts.user),
		Attendance:   NewAttendanceHandler(ts.attendance, time.UTC),
		EOD:          NewEODHandler(ts.eod, time.UTC),
		Leave:        NewLeaveHandler(ts.leave),
		Notification: NewNotificationHandler(ts.notification),
		Report:       NewReportHandler(ts.report),
	})
	return ts
}

func (ts *testServer) token(t *testing.T, role user.Role, status user.Status) string {
	t.Helper()
	token, _, err := ts.jwt.GenerateAccessToken(jwt.AccessClaims{
		UserID: handlerTestUserID,
		Role:   string(role),
		Name:   "Tess",
		Status: string(status),
	})
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_RequiresAccessToken(t *testing.T) {
	// Setup
	ts := newTestServer(t)

	// Act
	rec := ts.do(t, http.MethodGet, "/api/v1/attendance/my", "", "")

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_RejectsRefreshTokenAsAccess(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	refresh, _, err := ts.jwt.GenerateRefreshToken(handlerTestUserID)
	require.NoError(t, err)

	// Act
	rec := ts.do(t, http.MethodGet, "/api/v1/attendance/my", refresh, "")

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_PendingUserReachesOnlyProfile(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	token := ts.token(t, user.RoleEmployee, user.StatusPending)

	// Act
	me := ts.do(t, http.MethodGet, "/api/v1/users/me", token, "")
	history := ts.do(t, http.MethodGet, "/api/v1/attendance/my", token, "")

	// Assert
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, http.StatusForbidden, history.Code)
	body := decodeBody(t, history)
	assert.Equal(t, "account is not active", body.Message)
}

func TestRouter_EmployeeCannotReadTeamViews(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	token := ts.token(t, user.RoleEmployee, user.StatusActive)

	paths := []string{
		"/api/v1/attendance/dashboard",
		"/api/v1/attendance/export",
		"/api/v1/eod/team",
		"/api/v1/leaves/pending",
		"/api/v1/users",
		"/api/v1/reports/stats",
	}

	for _, path := range paths {
		// Act
		rec := ts.do(t, http.MethodGet, path, token, "")

		// Assert
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestRouter_ManagerCannotLockAttendance(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	token := ts.token(t, user.RoleManager, user.StatusActive)

	// Act
	rec := ts.do(t, http.MethodPut, "/api/v1/attendance/"+handlerTestOtherID+"/lock", token, `{"locked":true}`)

	// Assert
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAttendanceHandler_Mark_CutoffIsBadRequest(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	ts.attendance.markErr = attendance.ErrCutoffPassed
	token := ts.token(t, user.RoleEmployee, user.StatusActive)

	// Act
	rec := ts.do(t, http.MethodPost, "/api/v1/attendance", token, `{"status":"WFO"}`)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, attendance.ErrCutoffPassed.Error(), body.Message)
}

func TestAttendanceHandler_Mark_InvalidJSON(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	token := ts.token(t, user.RoleEmployee, user.StatusActive)

	// Act
	rec := ts.do(t, http.MethodPost, "/api/v1/attendance", token, `{"status":`)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttendanceHandler_Export_WritesCSV(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	checkIn := time.Date(2025, 3, 10, 9, 5, 0, 0, time.UTC)
	department := "Engineering, Platform"
	ts.attendance.exported = attendance.ExportResult{
		Start: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		Rows: []attendance.ExportRow{
			{Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Name: "Eve", Role: "Employee", Department: &department, Status: attendance.StatusWFO, CheckInTime: &checkIn},
			{Date: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), Name: "Eve", Role: "Employee", Status: attendance.StatusLeave},
		},
	}
	token := ts.token(t, user.RoleManager, user.StatusActive)

	// Act
	rec := ts.do(t, http.MethodGet, "/api/v1/attendance/export?startDate=2025-03-10&endDate=2025-03-11", token, "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-03-10", ts.attendance.filter.StartDate)
	assert.Equal(t, "2025-03-11", ts.attendance.filter.EndDate)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance_2025-03-10_to_2025-03-11.csv")
	want := "Date,Name,Role,Department,Status,CheckInTime\n" +
		"2025-03-10,Eve,Employee,\"Engineering, Platform\",WFO,09:05:00\n" +
		"2025-03-11,Eve,Employee,,Leave,\n"
	assert.Equal(t, want, rec.Body.String())
}

func TestEODHandler_Export_FilenameFollowsRange(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	ts.eod.entries = []eod.EntryResponse{{
		Date:            "2025-03-10",
		ProjectName:     "Atlas",
		TaskDescription: "Wire exports",
		HoursSpent:      7.5,
		Status:          eod.StatusCompleted,
		User:            &eod.EntryUser{Name: "Eve", Role: "Employee"},
	}}
	token := ts.token(t, user.RoleAdmin, user.StatusActive)

	// Act
	ranged := ts.do(t, http.MethodGet, "/api/v1/eod/export?startDate=2025-03-01&endDate=2025-03-31", token, "")

	// Assert
	require.Equal(t, http.StatusOK, ranged.Code)
	assert.Contains(t, ranged.Header().Get("Content-Disposition"), "eod_2025-03-01_to_2025-03-31.csv")
	want := "Date,Name,Role,Project,Task,Hours,Status\n" +
		"2025-03-10,Eve,Employee,Atlas,Wire exports,7.5,Completed\n"
	assert.Equal(t, want, ranged.Body.String())
}

func TestEODHandler_Export_DefaultsRangeToToday(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	token := ts.token(t, user.RoleManager, user.StatusActive)
	today := time.Now().UTC().Format("2006-01-02")

	// Act
	unranged := ts.do(t, http.MethodGet, "/api/v1/eod/export", token, "")
	unrangedFilter := ts.eod.filter
	startOnly := ts.do(t, http.MethodGet, "/api/v1/eod/export?startDate=2025-03-04", token, "")
	startOnlyFilter := ts.eod.filter
	singleDay := ts.do(t, http.MethodGet, "/api/v1/eod/export?date=2025-03-07", token, "")

	// Assert
	require.Equal(t, http.StatusOK, unranged.Code)
	assert.Equal(t, today, unrangedFilter.StartDate)
	assert.Equal(t, today, unrangedFilter.EndDate)
	assert.Contains(t, unranged.Header().Get("Content-Disposition"), "eod_"+today+"_to_"+today+".csv")

	require.Equal(t, http.StatusOK, startOnly.Code)
	assert.Equal(t, "2025-03-04", startOnlyFilter.EndDate)
	assert.Contains(t, startOnly.Header().Get("Content-Disposition"), "eod_2025-03-04_to_2025-03-04.csv")

	require.Equal(t, http.StatusOK, singleDay.Code)
	assert.Equal(t, "2025-03-07", ts.eod.filter.StartDate)
	assert.Equal(t, "2025-03-07", ts.eod.filter.EndDate)
}

func TestLeaveHandler_Action_AlreadyProcessedIsConflict(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	ts.leave.actionErr = leave.ErrLeaveRequestAlreadyProcessed
	token := ts.token(t, user.RoleManager, user.StatusActive)

	// Act
	rec := ts.do(t, http.MethodPut, "/api/v1/leaves/"+handlerTestOtherID+"/action", token, `{"status":"Approved"}`)

	// Assert
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Leave request already processed", decodeBody(t, rec).Message)
}

func TestLeaveHandler_Action_Success(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	token := ts.token(t, user.RoleManager, user.StatusActive)

	// Act
	rec := ts.do(t, http.MethodPut, "/api/v1/leaves/"+handlerTestOtherID+"/action", token, `{"status":"Rejected"}`)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Leave request Rejected", decodeBody(t, rec).Message)
}

func TestNotificationHandler_List_PassesLimit(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	token := ts.token(t, user.RoleEmployee, user.StatusActive)

	// Act
	withLimit := ts.do(t, http.MethodGet, "/api/v1/notifications?limit=5", token, "")
	limit := ts.notification.limit
	defaulted := ts.do(t, http.MethodGet, "/api/v1/notifications?limit=abc", token, "")

	// Assert
	assert.Equal(t, http.StatusOK, withLimit.Code)
	assert.Equal(t, 5, limit)
	assert.Equal(t, http.StatusOK, defaulted.Code)
	assert.Equal(t, notification.DefaultListLimit, ts.notification.limit)
}

func TestNotificationHandler_MarkAsRead_ForeignIsNotFound(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	token := ts.token(t, user.RoleEmployee, user.StatusActive)

	// Act
	rec := ts.do(t, http.MethodPut, "/api/v1/notifications/"+handlerTestOtherID+"/read", token, "")

	// Assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_MalformedIDIsNotFound(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	admin := ts.token(t, user.RoleAdmin, user.StatusActive)

	cases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPut, "/api/v1/attendance/abc/lock", `{"locked":true}`},
		{http.MethodPut, "/api/v1/leaves/abc/action", `{"status":"Approved"}`},
		{http.MethodPut, "/api/v1/notifications/abc/read", ""},
		{http.MethodDelete, "/api/v1/notifications/abc", ""},
		{http.MethodGet, "/api/v1/users/abc", ""},
		{http.MethodPut, "/api/v1/users/abc", `{"department":"Ops"}`},
		{http.MethodDelete, "/api/v1/users/abc", ""},
		{http.MethodDelete, "/api/v1/users/" + strings.ToUpper(handlerTestOtherID) + "x", ""},
	}

	for _, c := range cases {
		// Act
		rec := ts.do(t, c.method, c.path, admin, c.body)

		// Assert
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", c.method, c.path)
		assert.NotEqual(t, "Route not found", decodeBody(t, rec).Message, "%s %s", c.method, c.path)
	}
}

func TestUserHandler_List_ReportsTotal(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	ts.user.listed = []user.UserResponse{{ID: handlerTestOtherID, Name: "Eve"}, {ID: handlerTestUserID, Name: "Tess"}}
	token := ts.token(t, user.RoleAdmin, user.StatusActive)

	// Act
	rec := ts.do(t, http.MethodGet, "/api/v1/users", token, "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.NotNil(t, body.Meta)
	assert.Equal(t, int64(2), body.Meta.TotalItems)
}

func TestReportHandler_MonthYearRequired(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	token := ts.token(t, user.RoleManager, user.StatusActive)

	paths := []string{
		"/api/v1/reports/monthly",
		"/api/v1/reports/monthly?month=3",
		"/api/v1/reports/monthly?month=march&year=2025",
		"/api/v1/reports/eod-compliance?year=2025",
	}

	for _, path := range paths {
		// Act
		rec := ts.do(t, http.MethodGet, path, token, "")

		// Assert
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "Month and Year required", decodeBody(t, rec).Message, path)
	}
}

func TestReportHandler_MonthOutOfRangeIsValidationError(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	token := ts.token(t, user.RoleManager, user.StatusActive)

	// Act
	rec := ts.do(t, http.MethodGet, "/api/v1/reports/monthly?month=13&year=2025", token, "")

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	require.NotNil(t, body.Error)
	assert.Contains(t, body.Error.Details, "month")
}

func TestReportHandler_ExportMonthly_WritesPDF(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	ts.report.monthly = report.MonthlyReportResponse{
		Month:       2,
		Year:        2025,
		DaysInMonth: 28,
		Matrix: []report.MonthlyRow{{
			User: report.MonthlyUser{ID: "u-1", Name: "Eve"},
			Days: map[string]string{"2025-02-03": "WFO", "2025-02-04": "WFH"},
		}},
	}
	token := ts.token(t, user.RoleAdmin, user.StatusActive)

	// Act
	rec := ts.do(t, http.MethodGet, "/api/v1/reports/monthly/export?month=2&year=2025", token, "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance_2025_02.pdf")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestMonthlySheet_MapsStatusInitials(t *testing.T) {
	sheet := monthlySheet(report.MonthlyReportResponse{
		Month:       2,
		Year:        2025,
		DaysInMonth: 28,
		Matrix: []report.MonthlyRow{{
			User: report.MonthlyUser{ID: "u-1", Name: "Eve"},
			Days: map[string]string{"2025-02-01": "WFO", "2025-02-02": "WFH", "2025-02-03": "Leave"},
		}},
	})

	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "Eve", sheet.Rows[0].Label)
	assert.Equal(t, []string{"O", "H", "L", "-"}, sheet.Rows[0].Cells[:4])
	assert.Equal(t, "Attendance Report - February 2025", sheet.Title)
}
