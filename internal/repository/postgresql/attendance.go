package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, user_id, date, status, check_in_time, is_locked, created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(&a.ID, &a.UserID, &a.Date, &a.Status, &a.CheckInTime, &a.IsLocked, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// Upsert implements attendance.AttendanceRepository.
// The conditional DO UPDATE returns no row when the existing record is locked.
func (a *attendanceRepository) Upsert(ctx context.Context, rec attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (user_id, date, status, check_in_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT attendances_user_date_key DO UPDATE
		SET status = EXCLUDED.status,
			check_in_time = EXCLUDED.check_in_time,
			updated_at = NOW()
		WHERE attendances.is_locked = FALSE
		RETURNING ` + attendanceColumns

	saved, err := scanAttendance(q.QueryRow(ctx, query, rec.UserID, rec.Date, rec.Status, rec.CheckInTime))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrRecordLocked
		}
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}
	return saved, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	rec, err := scanAttendance(q.QueryRow(ctx, `SELECT `+attendanceColumns+` FROM attendances WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return rec, nil
}

// ListByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUser(ctx context.Context, userID string, limit int) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2`

	rows, err := q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0, limit)
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// TeamStatus implements attendance.AttendanceRepository.
func (a *attendanceRepository) TeamStatus(ctx context.Context, userIDs []string, date time.Time, filter attendance.TeamStatusFilter) ([]attendance.TeamStatusRow, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT u.id, u.name, u.email, u.avatar, u.role, u.department, u.designation, u.manager_id,
			   a.status, a.check_in_time
		FROM users u
		LEFT JOIN attendances a ON a.user_id = u.id AND a.date = $2
		WHERE u.id = ANY($1::uuid[])
		  AND ($3 = '' OR u.role = $3)
		  AND ($4 = '' OR u.department = $4)
		ORDER BY u.name ASC`

	rows, err := q.Query(ctx, query, userIDs, date, filter.Role, filter.Department)
	if err != nil {
		return nil, fmt.Errorf("failed to query team status: %w", err)
	}
	defer rows.Close()

	result := make([]attendance.TeamStatusRow, 0)
	for rows.Next() {
		var row attendance.TeamStatusRow
		if err := rows.Scan(
			&row.UserID, &row.Name, &row.Email, &row.Avatar, &row.Role, &row.Department, &row.Designation, &row.ManagerID,
			&row.Status, &row.CheckInTime,
		); err != nil {
			return nil, fmt.Errorf("failed to scan team status: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// ListForExport implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListForExport(ctx context.Context, userIDs []string, start, end time.Time) ([]attendance.ExportRow, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT a.date, u.name, u.role, u.department, a.status, a.check_in_time
		FROM attendances a
		JOIN users u ON u.id = a.user_id
		WHERE a.user_id = ANY($1::uuid[])
		  AND a.date BETWEEN $2 AND $3
		ORDER BY a.date ASC, u.name ASC`

	rows, err := q.Query(ctx, query, userIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance export: %w", err)
	}
	defer rows.Close()

	result := make([]attendance.ExportRow, 0)
	for rows.Next() {
		var row attendance.ExportRow
		if err := rows.Scan(&row.Date, &row.Name, &row.Role, &row.Department, &row.Status, &row.CheckInTime); err != nil {
			return nil, fmt.Errorf("failed to scan attendance export: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// SetLocked implements attendance.AttendanceRepository.
func (a *attendanceRepository) SetLocked(ctx context.Context, id string, locked bool) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET is_locked = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + attendanceColumns

	rec, err := scanAttendance(q.QueryRow(ctx, query, id, locked))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance lock: %w", err)
	}
	return rec, nil
}

// LockBefore implements attendance.AttendanceRepository.
func (a *attendanceRepository) LockBefore(ctx context.Context, date time.Time) (int64, error) {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `
		UPDATE attendances
		SET is_locked = TRUE, updated_at = NOW()
		WHERE date < $1 AND is_locked = FALSE`, date)
	if err != nil {
		return 0, fmt.Errorf("failed to lock past attendance: %w", err)
	}
	return tag.RowsAffected(), nil
}
