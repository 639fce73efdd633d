package user

import "context"

// ScopeResolver answers which users a caller may see data for.
//
//	Employee: only themself
//	Manager:  direct reports (manager_id = caller)
//	Admin:    every non-Admin user
type ScopeResolver interface {
	VisibleUserIDs(ctx context.Context, caller Caller) ([]string, error)
}

type UserService interface {
	ScopeResolver

	GetMe(ctx context.Context, caller Caller) (UserResponse, error)
	Get(ctx context.Context, caller Caller, id string) (UserResponse, error)
	List(ctx context.Context, caller Caller, filter ListUsersFilter) ([]UserResponse, error)
	ListManagers(ctx context.Context) ([]ManagerSummary, error)
	Create(ctx context.Context, caller Caller, req CreateUserRequest) (UserResponse, error)
	Update(ctx context.Context, caller Caller, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, caller Caller, id string) error
}
