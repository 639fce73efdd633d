package user

import (
	"context"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, newUser User) (User, error)
	// Update writes role, department, designation, manager_id and status.
	Update(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, id string) error
	LinkOAuthAccount(ctx context.Context, id string, provider string, providerID string, avatar *string) (User, error)

	List(ctx context.Context, filter ListUsersFilter) ([]User, error)
	ListManagers(ctx context.Context) ([]User, error)

	// DirectReportIDs returns ids of users whose manager_id is managerID.
	DirectReportIDs(ctx context.Context, managerID string) ([]string, error)
	// NonAdminIDs returns ids of every user whose role is not Admin.
	NonAdminIDs(ctx context.Context) ([]string, error)
}
