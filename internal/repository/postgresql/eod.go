package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/eod"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/database"
)

type eodRepository struct {
	db *database.DB
}

func NewEODRepository(db *database.DB) eod.EODRepository {
	return &eodRepository{db: db}
}

// Create implements eod.EODRepository.
func (r *eodRepository) Create(ctx context.Context, entry eod.Entry) (eod.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO eod_entries (user_id, date, project_name, task_description, hours_spent, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, date, project_name, task_description, hours_spent::float8, status, created_at, updated_at
	`

	var created eod.Entry
	err := q.QueryRow(ctx, query,
		entry.UserID,
		entry.Date,
		entry.ProjectName,
		entry.TaskDescription,
		entry.HoursSpent,
		entry.Status,
	).Scan(
		&created.ID,
		&created.UserID,
		&created.Date,
		&created.ProjectName,
		&created.TaskDescription,
		&created.HoursSpent,
		&created.Status,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return eod.Entry{}, fmt.Errorf("failed to create eod entry: %w", err)
	}
	return created, nil
}

// ListByUser implements eod.EODRepository.
func (r *eodRepository) ListByUser(ctx context.Context, userID string, limit int) ([]eod.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, date, project_name, task_description, hours_spent::float8, status, created_at, updated_at
		FROM eod_entries
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list eod entries: %w", err)
	}
	defer rows.Close()

	entries := make([]eod.Entry, 0)
	for rows.Next() {
		var e eod.Entry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Date, &e.ProjectName, &e.TaskDescription, &e.HoursSpent, &e.Status, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan eod entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListTeam implements eod.EODRepository.
func (r *eodRepository) ListTeam(ctx context.Context, filter eod.TeamQuery) ([]eod.Entry, error) {
	q := GetQuerier(ctx, r.db)

	var where []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	where = append(where, "e.user_id = ANY("+arg(filter.UserIDs)+"::uuid[])")
	if filter.StartDate != nil {
		where = append(where, "e.date >= "+arg(*filter.StartDate))
	}
	if filter.EndDate != nil {
		where = append(where, "e.date <= "+arg(*filter.EndDate))
	}
	if filter.Project != "" {
		where = append(where, "e.project_name ILIKE "+arg("%"+filter.Project+"%"))
	}

	query := `
		SELECT e.id, e.user_id, e.date, e.project_name, e.task_description, e.hours_spent::float8, e.status,
			   e.created_at, e.updated_at, u.name, u.role, u.designation
		FROM eod_entries e
		JOIN users u ON u.id = e.user_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY e.date ASC, u.name ASC, e.created_at ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list team eod entries: %w", err)
	}
	defer rows.Close()

	entries := make([]eod.Entry, 0)
	for rows.Next() {
		var e eod.Entry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Date, &e.ProjectName, &e.TaskDescription, &e.HoursSpent, &e.Status,
			&e.CreatedAt, &e.UpdatedAt, &e.UserName, &e.UserRole, &e.UserDesignation,
		); err != nil {
			return nil, fmt.Errorf("failed to scan team eod entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
