package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/workday-backend-go/internal/repository/postgresql"
)

type UserServiceImpl struct {
	user.UserRepository
	user.ScopeResolver
	txManager postgresql.TxManager
}

func NewUserService(userRepository user.UserRepository, txManager postgresql.TxManager) user.UserService {
	return &UserServiceImpl{
		UserRepository: userRepository,
		ScopeResolver:  NewScopeResolver(userRepository),
		txManager:      txManager,
	}
}

// GetMe implements user.UserService.
func (s *UserServiceImpl) GetMe(ctx context.Context, caller user.Caller) (user.UserResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, caller.ID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(u), nil
}

// Get implements user.UserService. Users outside the caller's scope are reported as not found.
func (s *UserServiceImpl) Get(ctx context.Context, caller user.Caller, id string) (user.UserResponse, error) {
	if id != caller.ID && !caller.IsAdmin() {
		visible, err := s.VisibleUserIDs(ctx, caller)
		if err != nil {
			return user.UserResponse{}, err
		}
		if !Contains(visible, id) {
			return user.UserResponse{}, user.ErrUserNotFound
		}
	}

	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(u), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, caller user.Caller, filter user.ListUsersFilter) ([]user.UserResponse, error) {
	if !caller.CanManage() {
		return nil, user.ErrManagerAccessRequired
	}

	if caller.IsAdmin() {
		filter.Unscoped = true
		filter.IncludeAdmins = filter.Role != ""
	} else {
		visible, err := s.VisibleUserIDs(ctx, caller)
		if err != nil {
			return nil, err
		}
		filter.UserIDs = visible
		filter.IncludeAdmins = false
		if filter.Role == string(user.RoleAdmin) {
			return []user.UserResponse{}, nil
		}
	}

	users, err := s.UserRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, user.NewUserResponse(u))
	}
	return resp, nil
}

// ListManagers implements user.UserService.
func (s *UserServiceImpl) ListManagers(ctx context.Context) ([]user.ManagerSummary, error) {
	managers, err := s.UserRepository.ListManagers(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]user.ManagerSummary, 0, len(managers))
	for _, m := range managers {
		resp = append(resp, user.ManagerSummary{ID: m.ID, Name: m.Name, Email: m.Email})
	}
	return resp, nil
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, caller user.Caller, req user.CreateUserRequest) (user.UserResponse, error) {
	if !caller.IsAdmin() {
		return user.UserResponse{}, user.ErrAdminAccessRequired
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	newUser := user.User{
		Name:        req.Name,
		Email:       req.Email,
		Role:        user.RoleEmployee,
		Status:      user.StatusActive,
		Department:  req.Department,
		Designation: req.Designation,
		ManagerID:   req.ManagerID,
	}
	if req.Role != "" {
		newUser.Role = user.Role(req.Role)
	}
	if req.Status != "" {
		newUser.Status = user.Status(req.Status)
	}

	var created user.User
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.UserRepository.ExistsByEmail(ctx, newUser.Email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return user.ErrUserEmailExists
		}

		if newUser.ManagerID != nil {
			if err := s.validateManager(ctx, "", *newUser.ManagerID); err != nil {
				return err
			}
		}

		created, err = s.UserRepository.Create(ctx, newUser)
		return err
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	slog.Info("User created", "user_id", created.ID, "role", created.Role, "created_by", caller.ID)
	return user.NewUserResponse(created), nil
}

// Update implements user.UserService.
func (s *UserServiceImpl) Update(ctx context.Context, caller user.Caller, id string, req user.UpdateUserRequest) (user.UserResponse, error) {
	if !caller.IsAdmin() {
		return user.UserResponse{}, user.ErrAdminAccessRequired
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	var updated user.User
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.UserRepository.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if req.Role != nil {
			existing.Role = user.Role(*req.Role)
		}
		if req.Status != nil {
			existing.Status = user.Status(*req.Status)
		}
		if req.Department != nil {
			existing.Department = req.Department
		}
		if req.Designation != nil {
			existing.Designation = req.Designation
		}
		if req.ManagerID != nil {
			if *req.ManagerID == "" {
				existing.ManagerID = nil
			} else {
				if err := s.validateManager(ctx, existing.ID, *req.ManagerID); err != nil {
					return err
				}
				managerID := *req.ManagerID
				existing.ManagerID = &managerID
			}
		}

		updated, err = s.UserRepository.Update(ctx, existing)
		return err
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	slog.Info("User updated", "user_id", updated.ID, "updated_by", caller.ID)
	return user.NewUserResponse(updated), nil
}

// Delete implements user.UserService.
func (s *UserServiceImpl) Delete(ctx context.Context, caller user.Caller, id string) error {
	if !caller.IsAdmin() {
		return user.ErrAdminAccessRequired
	}
	if id == caller.ID {
		return user.ErrCannotDeleteSelf
	}

	if err := s.UserRepository.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("User deleted", "user_id", id, "deleted_by", caller.ID)
	return nil
}

// validateManager rejects unknown or non-manager managers and any assignment that would
// make userID report to itself through the chain. userID is empty for new users.
func (s *UserServiceImpl) validateManager(ctx context.Context, userID string, managerID string) error {
	if userID != "" && managerID == userID {
		return user.ErrManagerCycle
	}
	if !validator.IsValidUUID(managerID) {
		return user.ErrInvalidManager
	}

	manager, err := s.UserRepository.GetByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.ErrInvalidManager
		}
		return err
	}
	if !manager.IsManager() {
		return user.ErrInvalidManager
	}
	if userID == "" {
		return nil
	}

	visited := map[string]bool{manager.ID: true}
	current := manager
	for current.ManagerID != nil {
		next := *current.ManagerID
		if next == userID {
			return user.ErrManagerCycle
		}
		if visited[next] {
			// Pre-existing loop that does not involve userID.
			return nil
		}
		visited[next] = true

		current, err = s.UserRepository.GetByID(ctx, next)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return nil
			}
			return err
		}
	}
	return nil
}
