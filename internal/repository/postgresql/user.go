package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const userColumns = `
	u.id, u.name, u.email, u.role, COALESCE(u.status, 'Pending'), u.department, u.designation,
	u.manager_id, u.avatar, u.google_id, u.microsoft_id, u.created_at, u.updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row, extra ...interface{}) (user.User, error) {
	var u user.User
	dest := []interface{}{
		&u.ID, &u.Name, &u.Email, &u.Role, &u.Status, &u.Department, &u.Designation,
		&u.ManagerID, &u.Avatar, &u.GoogleID, &u.MicrosoftID, &u.CreatedAt, &u.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return u, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *userRepositoryImpl) getOne(ctx context.Context, where string, arg interface{}) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + `, m.name
		FROM users u
		LEFT JOIN users m ON m.id = u.manager_id
		WHERE ` + where

	var managerName *string
	u, err := scanUser(q.QueryRow(ctx, query, arg), &managerName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	u.ManagerName = managerName
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "u.id = $1", id)
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "LOWER(u.email) = LOWER($1)", email)
}

// ExistsByEmail implements user.UserRepository.
func (r *userRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users AS u (
			name, email, role, status, department, designation, manager_id, avatar, google_id, microsoft_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.Name,
		newUser.Email,
		newUser.Role,
		newUser.Status,
		newUser.Department,
		newUser.Designation,
		newUser.ManagerID,
		newUser.Avatar,
		newUser.GoogleID,
		newUser.MicrosoftID,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users AS u
		SET role = $2, status = $3, department = $4, designation = $5, manager_id = $6, updated_at = NOW()
		WHERE u.id = $1
		RETURNING ` + userColumns

	updated, err := scanUser(q.QueryRow(ctx, query,
		u.ID, u.Role, u.Status, u.Department, u.Designation, u.ManagerID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return updated, nil
}

// Delete implements user.UserRepository. Direct reports are detached by ON DELETE SET NULL.
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// LinkOAuthAccount implements user.UserRepository.
func (r *userRepositoryImpl) LinkOAuthAccount(ctx context.Context, id string, provider string, providerID string, avatar *string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	var column string
	switch provider {
	case "google":
		column = "google_id"
	case "microsoft":
		column = "microsoft_id"
	default:
		return user.User{}, fmt.Errorf("unsupported oauth provider %q", provider)
	}

	query := `
		UPDATE users AS u
		SET ` + column + ` = COALESCE(u.` + column + `, $2),
			avatar = COALESCE(u.avatar, $3),
			updated_at = NOW()
		WHERE u.id = $1
		RETURNING ` + userColumns

	updated, err := scanUser(q.QueryRow(ctx, query, id, providerID, avatar))
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrOAuthProviderIDExists
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to link oauth account: %w", err)
	}
	return updated, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.ListUsersFilter) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	var where []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	where = append(where, "TRUE")
	if !filter.Unscoped {
		where = append(where, "u.id = ANY("+arg(filter.UserIDs)+"::uuid[])")
	}
	if filter.Role != "" {
		where = append(where, "u.role = "+arg(filter.Role))
	} else if !filter.IncludeAdmins {
		where = append(where, "u.role <> 'Admin'")
	}
	if filter.Department != "" {
		where = append(where, "u.department = "+arg(filter.Department))
	}
	if filter.Designation != "" {
		where = append(where, "u.designation = "+arg(filter.Designation))
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		where = append(where, "(u.name ILIKE "+p+" OR u.email ILIKE "+p+")")
	}

	query := `SELECT ` + userColumns + `, m.name
		FROM users u
		LEFT JOIN users m ON m.id = u.manager_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY u.name ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		var managerName *string
		u, err := scanUser(rows, &managerName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.ManagerName = managerName
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListManagers implements user.UserRepository.
func (r *userRepositoryImpl) ListManagers(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + `
		FROM users u
		WHERE u.role IN ('Manager', 'Admin')
		ORDER BY u.name ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	defer rows.Close()

	managers := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan manager: %w", err)
		}
		managers = append(managers, u)
	}
	return managers, rows.Err()
}

// DirectReportIDs implements user.UserRepository.
func (r *userRepositoryImpl) DirectReportIDs(ctx context.Context, managerID string) ([]string, error) {
	return r.collectIDs(ctx, `SELECT id FROM users WHERE manager_id = $1`, managerID)
}

// NonAdminIDs implements user.UserRepository.
func (r *userRepositoryImpl) NonAdminIDs(ctx context.Context) ([]string, error) {
	return r.collectIDs(ctx, `SELECT id FROM users WHERE role <> 'Admin'`)
}

func (r *userRepositoryImpl) collectIDs(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query user ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect user ids: %w", err)
	}
	return ids, nil
}
