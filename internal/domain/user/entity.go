package user

import "time"

type Role string

const (
	RoleAdmin    Role = "Admin"    // Full access, excluded from team views
	RoleManager  Role = "Manager"  // Approves leave for direct reports
	RoleEmployee Role = "Employee" // Regular employee
)

type Status string

const (
	StatusPending  Status = "Pending" // Created on first login, awaiting activation
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmployee
}

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusActive || s == StatusInactive
}

type User struct {
	ID          string
	Name        string
	Email       string
	Role        Role
	Status      Status
	Department  *string
	Designation *string
	ManagerID   *string
	Avatar      *string
	GoogleID    *string
	MicrosoftID *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// DTO / Join
	ManagerName *string
}

// IsAdmin checks if user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsManager checks if user is manager or admin
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

// IsActive reports whether the account may use the application.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Caller is the authenticated identity a request acts as.
type Caller struct {
	ID   string
	Role Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// CanManage reports whether the caller may read or act on team data.
func (c Caller) CanManage() bool {
	return c.Role == RoleManager || c.Role == RoleAdmin
}
