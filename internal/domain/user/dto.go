package user

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
)

type ManagerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserResponse represents user data in API responses
type UserResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        Role        `json:"role"`
	Status      Status      `json:"status"`
	Department  *string     `json:"department"`
	Designation *string     `json:"designation"`
	ManagerID   *string     `json:"manager_id"`
	Manager     *ManagerRef `json:"manager,omitempty"`
	Avatar      *string     `json:"avatar"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
}

func NewUserResponse(u User) UserResponse {
	resp := UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Status:      u.Status,
		Department:  u.Department,
		Designation: u.Designation,
		ManagerID:   u.ManagerID,
		Avatar:      u.Avatar,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   u.UpdatedAt.Format(time.RFC3339),
	}
	if u.ManagerID != nil && u.ManagerName != nil {
		resp.Manager = &ManagerRef{ID: *u.ManagerID, Name: *u.ManagerName}
	}
	return resp
}

type ManagerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ListUsersFilter is built from query params; the scope fields are set by the service.
type ListUsersFilter struct {
	Role        string
	Department  string
	Designation string
	Search      string

	// UserIDs limits rows to the caller's scope unless Unscoped is set.
	UserIDs       []string
	Unscoped      bool
	IncludeAdmins bool
}

type CreateUserRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Email       string  `json:"email" validate:"required,email,max=254"`
	Role        string  `json:"role" validate:"omitempty,oneof=Admin Manager Employee"`
	Department  *string `json:"department" validate:"omitempty,max=100"`
	Designation *string `json:"designation" validate:"omitempty,max=100"`
	ManagerID   *string `json:"manager_id" validate:"omitempty,uuid"`
	Status      string  `json:"status" validate:"omitempty,oneof=Pending Active Inactive"`
}

func (r *CreateUserRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
	if r.ManagerID != nil && *r.ManagerID == "" {
		r.ManagerID = nil
	}
	return validator.Struct(r)
}

// UpdateUserRequest only touches fields that are present; manager_id "" clears the manager.
type UpdateUserRequest struct {
	Role        *string `json:"role" validate:"omitempty,oneof=Admin Manager Employee"`
	Department  *string `json:"department" validate:"omitempty,max=100"`
	Designation *string `json:"designation" validate:"omitempty,max=100"`
	ManagerID   *string `json:"manager_id"`
	Status      *string `json:"status" validate:"omitempty,oneof=Pending Active Inactive"`
}

func (r *UpdateUserRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.ManagerID != nil && *r.ManagerID != "" && !validator.IsValidUUID(*r.ManagerID) {
		return validator.ValidationErrors{{
			Field:   "manager_id",
			Message: "manager_id must be a valid UUID",
		}}
	}
	return nil
}
