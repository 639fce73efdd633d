package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

func (r *reportRepositoryImpl) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	q := GetQuerier(ctx, r.db)

	var n int
	if err := q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to run report count: %w", err)
	}
	return n, nil
}

// CountActiveUsers counts active users within the scope
func (r *reportRepositoryImpl) CountActiveUsers(ctx context.Context, userIDs []string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE id = ANY($1::uuid[]) AND status = 'Active'`, userIDs)
}

// CountAttendance counts records of the day whose status is one of statuses
func (r *reportRepositoryImpl) CountAttendance(ctx context.Context, userIDs []string, date time.Time, statuses []string) (int, error) {
	return r.count(ctx, `
		SELECT COUNT(*)
		FROM attendances
		WHERE user_id = ANY($1::uuid[]) AND date = $2 AND status = ANY($3::text[])`,
		userIDs, date, statuses)
}

// CountPendingUsers counts accounts awaiting activation
func (r *reportRepositoryImpl) CountPendingUsers(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE status = 'Pending' OR status IS NULL`)
}

// CountPendingLeaves counts Pending leave requests, optionally limited to userIDs
func (r *reportRepositoryImpl) CountPendingLeaves(ctx context.Context, userIDs []string) (int, error) {
	if userIDs == nil {
		return r.count(ctx, `SELECT COUNT(*) FROM leave_requests WHERE status = 'Pending'`)
	}
	return r.count(ctx, `SELECT COUNT(*) FROM leave_requests WHERE status = 'Pending' AND user_id = ANY($1::uuid[])`, userIDs)
}

// ListActiveUsers lists active users of the scope ordered by name
func (r *reportRepositoryImpl) ListActiveUsers(ctx context.Context, userIDs []string) ([]report.UserRef, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, name
		FROM users
		WHERE id = ANY($1::uuid[]) AND status = 'Active'
		ORDER BY name ASC`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list report users: %w", err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (report.UserRef, error) {
		var u report.UserRef
		err := row.Scan(&u.ID, &u.Name)
		return u, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan report users: %w", err)
	}
	return users, nil
}

// ListAttendance lists attendance cells of the scope within [start, end]
func (r *reportRepositoryImpl) ListAttendance(ctx context.Context, userIDs []string, start, end time.Time) ([]report.AttendanceCell, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT user_id, date, status
		FROM attendances
		WHERE user_id = ANY($1::uuid[]) AND date BETWEEN $2 AND $3`, userIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance cells: %w", err)
	}

	cells, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (report.AttendanceCell, error) {
		var c report.AttendanceCell
		err := row.Scan(&c.UserID, &c.Date, &c.Status)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan attendance cells: %w", err)
	}
	return cells, nil
}

// LeaveUtilization aggregates Approved leave per user and type
func (r *reportRepositoryImpl) LeaveUtilization(ctx context.Context, userIDs []string) ([]report.LeaveUtilizationRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT u.id, u.name, lr.type,
			   COUNT(lr.id) AS count,
			   COALESCE(SUM(lr.end_date - lr.start_date + 1), 0) AS total_days
		FROM leave_requests lr
		JOIN users u ON u.id = lr.user_id
		WHERE lr.status = 'Approved'
		  AND u.status = 'Active'
		  AND u.id = ANY($1::uuid[])
		GROUP BY u.id, u.name, lr.type
		ORDER BY u.name ASC, lr.type ASC`

	rows, err := q.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave utilization: %w", err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (report.LeaveUtilizationRow, error) {
		var lu report.LeaveUtilizationRow
		err := row.Scan(&lu.UserID, &lu.UserName, &lu.LeaveType, &lu.Count, &lu.TotalDays)
		return lu, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan leave utilization: %w", err)
	}
	return result, nil
}

// ProjectPerformance aggregates hours and contributors per project
func (r *reportRepositoryImpl) ProjectPerformance(ctx context.Context) ([]report.ProjectPerformanceRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT project_name, SUM(hours_spent)::float8 AS total_hours, COUNT(DISTINCT user_id) AS contributor_count
		FROM eod_entries
		GROUP BY project_name
		ORDER BY total_hours DESC, project_name ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query project performance: %w", err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (report.ProjectPerformanceRow, error) {
		var p report.ProjectPerformanceRow
		err := row.Scan(&p.ProjectName, &p.TotalHours, &p.ContributorCount)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan project performance: %w", err)
	}
	return result, nil
}

// SubmittedEODDays counts distinct submission dates per user
func (r *reportRepositoryImpl) SubmittedEODDays(ctx context.Context, userIDs []string, start, end time.Time) (map[string]int, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT user_id, COUNT(DISTINCT date)
		FROM eod_entries
		WHERE user_id = ANY($1::uuid[]) AND date BETWEEN $2 AND $3
		GROUP BY user_id`, userIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query eod submissions: %w", err)
	}
	defer rows.Close()

	submitted := make(map[string]int)
	for rows.Next() {
		var userID string
		var days int
		if err := rows.Scan(&userID, &days); err != nil {
			return nil, fmt.Errorf("failed to scan eod submissions: %w", err)
		}
		submitted[userID] = days
	}
	return submitted, rows.Err()
}
