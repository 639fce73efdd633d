package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveRequestColumns = `lr.id, lr.user_id, lr.type, lr.start_date, lr.end_date, lr.reason, lr.status,
	lr.manager_remarks, lr.reviewed_by, lr.reviewed_at, lr.created_at, lr.updated_at`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func leaveRequestDest(lr *leave.LeaveRequest) []interface{} {
	return []interface{}{
		&lr.ID,
		&lr.UserID,
		&lr.Type,
		&lr.StartDate,
		&lr.EndDate,
		&lr.Reason,
		&lr.Status,
		&lr.ManagerRemarks,
		&lr.ReviewedBy,
		&lr.ReviewedAt,
		&lr.CreatedAt,
		&lr.UpdatedAt,
	}
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests AS lr (user_id, type, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + leaveRequestColumns

	var created leave.LeaveRequest
	err := q.QueryRow(ctx, query,
		req.UserID, req.Type, req.StartDate, req.EndDate, req.Reason, req.Status,
	).Scan(leaveRequestDest(&created)...)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	var lr leave.LeaveRequest
	err := q.QueryRow(ctx, `SELECT `+leaveRequestColumns+` FROM leave_requests lr WHERE lr.id = $1`, id).
		Scan(leaveRequestDest(&lr)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

// ListByUser implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByUser(ctx context.Context, userID string, period *leave.Period) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		WHERE lr.user_id = $1`
	args := []interface{}{userID}
	if period != nil {
		query += ` AND lr.start_date >= $2 AND lr.start_date < $3`
		args = append(args, period.Start, period.End)
	}
	query += ` ORDER BY lr.created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		var lr leave.LeaveRequest
		if err := rows.Scan(leaveRequestDest(&lr)...); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// ListPendingByManager implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListPendingByManager(ctx context.Context, managerID string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `, u.id, u.name, u.avatar, u.designation
		FROM leave_requests lr
		JOIN users u ON u.id = lr.user_id
		WHERE u.manager_id = $1 AND lr.status = 'Pending'
		ORDER BY lr.created_at ASC`

	rows, err := q.Query(ctx, query, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		var lr leave.LeaveRequest
		var requester leave.Requester
		dest := append(leaveRequestDest(&lr), &requester.ID, &requester.Name, &requester.Avatar, &requester.Designation)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan pending leave request: %w", err)
		}
		lr.Requester = &requester
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// Resolve implements leave.LeaveRequestRepository.
// Only a Pending row is updated; a missing row is re-read to tell not-found from already processed.
func (r *leaveRequestRepositoryImpl) Resolve(ctx context.Context, id string, status leave.Status, remarks *string, reviewerID string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests AS lr
		SET status = $2, manager_remarks = $3, reviewed_by = $4, reviewed_at = NOW(), updated_at = NOW()
		WHERE lr.id = $1 AND lr.status = 'Pending'
		RETURNING ` + leaveRequestColumns

	var updated leave.LeaveRequest
	err := q.QueryRow(ctx, query, id, status, remarks, reviewerID).Scan(leaveRequestDest(&updated)...)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveRequest{}, fmt.Errorf("failed to resolve leave request: %w", err)
	}

	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return leave.LeaveRequest{}, getErr
	}
	return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
}
