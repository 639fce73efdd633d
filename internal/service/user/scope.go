package user

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
)

type scopeResolver struct {
	repo user.UserRepository
}

// NewScopeResolver returns the resolver every team read goes through.
func NewScopeResolver(repo user.UserRepository) user.ScopeResolver {
	return &scopeResolver{repo: repo}
}

// VisibleUserIDs implements user.ScopeResolver.
func (s *scopeResolver) VisibleUserIDs(ctx context.Context, caller user.Caller) ([]string, error) {
	switch caller.Role {
	case user.RoleEmployee:
		return []string{caller.ID}, nil
	case user.RoleManager:
		ids, err := s.repo.DirectReportIDs(ctx, caller.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve direct reports: %w", err)
		}
		return ids, nil
	case user.RoleAdmin:
		ids, err := s.repo.NonAdminIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve non-admin users: %w", err)
		}
		return ids, nil
	default:
		return nil, user.ErrInsufficientPermissions
	}
}

// Contains reports whether id is in the resolved scope.
func Contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
