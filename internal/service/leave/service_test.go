package leave

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memLeaveRepository struct {
	requests map[string]leave.LeaveRequest
	users    map[string]user.User
	seq      int
}

func (r *memLeaveRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.seq++
	req.ID = string(rune('a' + r.seq))
	req.CreatedAt = time.Date(2025, 3, 1, 0, r.seq, 0, 0, time.UTC)
	r.requests[req.ID] = req
	return req, nil
}

func (r *memLeaveRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (r *memLeaveRepository) ListByUser(ctx context.Context, userID string, period *leave.Period) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, req := range r.requests {
		if req.UserID != userID {
			continue
		}
		if period != nil && (req.StartDate.Before(period.Start) || !req.StartDate.Before(period.End)) {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memLeaveRepository) ListPendingByManager(ctx context.Context, managerID string) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, req := range r.requests {
		u := r.users[req.UserID]
		if req.Status == leave.StatusPending && u.ManagerID != nil && *u.ManagerID == managerID {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memLeaveRepository) Resolve(ctx context.Context, id string, status leave.Status, remarks *string, reviewerID string) (leave.LeaveRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if req.Status != leave.StatusPending {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	req.Status = status
	req.ManagerRemarks = remarks
	req.ReviewedBy = &reviewerID
	r.requests[id] = req
	return req, nil
}

// stubUserRepository only serves GetByID.
type stubUserRepository struct {
	user.UserRepository
	users map[string]user.User
}

func (r *stubUserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

type scopeFunc func(ctx context.Context, caller user.Caller) ([]string, error)

func (f scopeFunc) VisibleUserIDs(ctx context.Context, caller user.Caller) ([]string, error) {
	return f(ctx, caller)
}

type recordingNotifier struct {
	sent []notification.CreateNotificationRequest
	err  error
}

func (n *recordingNotifier) Create(ctx context.Context, req notification.CreateNotificationRequest) (notification.NotificationResponse, error) {
	if n.err != nil {
		return notification.NotificationResponse{}, n.err
	}
	n.sent = append(n.sent, req)
	return notification.NotificationResponse{Title: req.Title, Message: req.Message, Type: req.Type}, nil
}

type fixture struct {
	svc      leave.LeaveService
	repo     *memLeaveRepository
	notifier *recordingNotifier
}

const (
	managerID  = "manager-1"
	employeeID = "employee-1"
	outsiderID = "employee-2"
	otherMgrID = "manager-2"
)

func strPtr(s string) *string { return &s }

func newFixture() fixture {
	users := map[string]user.User{
		managerID:  {ID: managerID, Name: "Mona", Role: user.RoleManager, Status: user.StatusActive},
		otherMgrID: {ID: otherMgrID, Name: "Mark", Role: user.RoleManager, Status: user.StatusActive},
		employeeID: {ID: employeeID, Name: "Eva", Role: user.RoleEmployee, Status: user.StatusActive, ManagerID: strPtr(managerID)},
		outsiderID: {ID: outsiderID, Name: "Ian", Role: user.RoleEmployee, Status: user.StatusActive, ManagerID: strPtr(otherMgrID)},
		"loner":    {ID: "loner", Name: "Lone", Role: user.RoleEmployee, Status: user.StatusActive},
	}
	repo := &memLeaveRepository{requests: make(map[string]leave.LeaveRequest), users: users}
	notifier := &recordingNotifier{}
	scope := scopeFunc(func(ctx context.Context, caller user.Caller) ([]string, error) {
		var ids []string
		for _, u := range users {
			if u.ManagerID != nil && *u.ManagerID == caller.ID {
				ids = append(ids, u.ID)
			}
		}
		return ids, nil
	})
	svc := NewLeaveService(repo, &stubUserRepository{users: users}, scope, notifier)
	return fixture{svc: svc, repo: repo, notifier: notifier}
}

var (
	managerCaller  = user.Caller{ID: managerID, Role: user.RoleManager}
	employeeCaller = user.Caller{ID: employeeID, Role: user.RoleEmployee}
)

func sickLeave() leave.ApplyLeaveRequest {
	return leave.ApplyLeaveRequest{
		Type:      "Sick Leave",
		StartDate: "2025-03-10",
		EndDate:   "2025-03-12",
		Reason:    "flu",
	}
}

func TestLeaveService_Apply_NotifiesManager(t *testing.T) {
	// Setup
	f := newFixture()

	// Act
	resp, err := f.svc.Apply(context.Background(), employeeCaller, sickLeave())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, resp.Status)
	assert.Equal(t, "2025-03-10", resp.StartDate)
	require.Len(t, f.notifier.sent, 1)
	sent := f.notifier.sent[0]
	assert.Equal(t, managerID, sent.RecipientID)
	assert.Equal(t, "New Leave Request", sent.Title)
	assert.Equal(t, notification.SeverityInfo, sent.Type)
	assert.Equal(t, "Eva has requested for Sick Leave from 2025-03-10 to 2025-03-12", sent.Message)
}

func TestLeaveService_Apply_WithoutManagerSkipsNotification(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Apply(context.Background(), user.Caller{ID: "loner", Role: user.RoleEmployee}, sickLeave())

	require.NoError(t, err)
	assert.Empty(t, f.notifier.sent)
}

func TestLeaveService_Apply_InvalidRange(t *testing.T) {
	f := newFixture()
	req := sickLeave()
	req.EndDate = "2025-03-09"

	_, err := f.svc.Apply(context.Background(), employeeCaller, req)

	require.Error(t, err)
	assert.Empty(t, f.repo.requests)
}

func TestLeaveService_Apply_NotificationFailureDoesNotFail(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("db down")

	resp, err := f.svc.Apply(context.Background(), employeeCaller, sickLeave())

	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
}

func TestLeaveService_Action_EndToEnd(t *testing.T) {
	// Setup
	f := newFixture()
	ctx := context.Background()
	applied, err := f.svc.Apply(ctx, employeeCaller, sickLeave())
	require.NoError(t, err)

	// Act
	resolved, err := f.svc.Action(ctx, managerCaller, applied.ID, leave.ActionLeaveRequest{
		Status:         "Approved",
		ManagerRemarks: strPtr("get well"),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, resolved.Status)

	month, year := 3, 2025
	mine, err := f.svc.MyRequests(ctx, employeeCaller, leave.MyRequestsFilter{Month: &month, Year: &year})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, leave.StatusApproved, mine[0].Status)
	require.NotNil(t, mine[0].ManagerRemarks)
	assert.Equal(t, "get well", *mine[0].ManagerRemarks)

	var toEmployee []notification.CreateNotificationRequest
	for _, n := range f.notifier.sent {
		if n.RecipientID == employeeID {
			toEmployee = append(toEmployee, n)
		}
	}
	require.Len(t, toEmployee, 1)
	assert.Equal(t, "Leave Request Approved", toEmployee[0].Title)
	assert.Equal(t, notification.SeveritySuccess, toEmployee[0].Type)
	assert.Equal(t, "Your Sick Leave request has been approved. Manager remarks: get well", toEmployee[0].Message)
}

func TestLeaveService_Action_RejectWithoutRemarks(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	applied, err := f.svc.Apply(ctx, employeeCaller, sickLeave())
	require.NoError(t, err)

	_, err = f.svc.Action(ctx, managerCaller, applied.ID, leave.ActionLeaveRequest{Status: "Rejected", ManagerRemarks: strPtr("  ")})
	require.NoError(t, err)

	last := f.notifier.sent[len(f.notifier.sent)-1]
	assert.Equal(t, notification.SeverityWarning, last.Type)
	assert.Equal(t, "Your Sick Leave request has been rejected", last.Message)
}

func TestLeaveService_Action_TerminalStateIsLocked(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	applied, err := f.svc.Apply(ctx, employeeCaller, sickLeave())
	require.NoError(t, err)
	_, err = f.svc.Action(ctx, managerCaller, applied.ID, leave.ActionLeaveRequest{Status: "Approved"})
	require.NoError(t, err)
	sentBefore := len(f.notifier.sent)

	_, err = f.svc.Action(ctx, managerCaller, applied.ID, leave.ActionLeaveRequest{Status: "Rejected"})

	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
	assert.Len(t, f.notifier.sent, sentBefore)
}

func TestLeaveService_Action_OutOfScopeIsNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	applied, err := f.svc.Apply(ctx, user.Caller{ID: outsiderID, Role: user.RoleEmployee}, sickLeave())
	require.NoError(t, err)

	_, err = f.svc.Action(ctx, managerCaller, applied.ID, leave.ActionLeaveRequest{Status: "Approved"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	_, err = f.svc.Action(ctx, managerCaller, "missing", leave.ActionLeaveRequest{Status: "Approved"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	_, err = f.svc.Action(ctx, employeeCaller, applied.ID, leave.ActionLeaveRequest{Status: "Approved"})
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)
}

func TestLeaveService_PendingForManager_DirectReportsOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mine, err := f.svc.Apply(ctx, employeeCaller, sickLeave())
	require.NoError(t, err)
	_, err = f.svc.Apply(ctx, user.Caller{ID: outsiderID, Role: user.RoleEmployee}, sickLeave())
	require.NoError(t, err)

	pending, err := f.svc.PendingForManager(ctx, managerCaller)

	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, mine.ID, pending[0].ID)
}

func TestLeaveService_MyRequests_InvalidMonth(t *testing.T) {
	f := newFixture()
	month, year := 13, 2025

	_, err := f.svc.MyRequests(context.Background(), employeeCaller, leave.MyRequestsFilter{Month: &month, Year: &year})

	assert.Error(t, err)
}
