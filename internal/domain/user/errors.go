package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("User already exists")
	ErrOAuthProviderIDExists   = errors.New("oauth provider id already registered")
	ErrAccountInactive         = errors.New("account is not active")
	ErrAdminAccessRequired     = errors.New("admin access required")
	ErrManagerAccessRequired   = errors.New("manager access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrManagerCycle            = errors.New("manager assignment would create a reporting cycle")
	ErrInvalidManager          = errors.New("manager must be an existing Manager or Admin")
	ErrCannotDeleteSelf        = errors.New("you cannot delete your own account")
)
