// Package scope resolves which users a supervisor manages: everyone in
// the departments the supervisor leads, including nested child
// departments.
package scope

import (
	"context"

	"github.com/maintcore/cmms-backend-go/internal/domain/department"
	"github.com/maintcore/cmms-backend-go/internal/domain/user"
)

type Resolver struct {
	departmentRepo department.Repository
	userRepo       user.Repository
}

func NewResolver(departmentRepo department.Repository, userRepo user.Repository) *Resolver {
	return &Resolver{
		departmentRepo: departmentRepo,
		userRepo:       userRepo,
	}
}

// ManagedUsers returns the users in managerID's department subtree.
// Empty when the user manages no departments.
func (r *Resolver) ManagedUsers(ctx context.Context, managerID string) ([]user.User, error) {
	departmentIDs, err := r.departmentRepo.ManagedSubtreeIDs(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if len(departmentIDs) == 0 {
		return nil, nil
	}
	return r.userRepo.ListByDepartmentIDs(ctx, departmentIDs)
}

// Allows reports whether targetUserID is inside managerID's managed
// subtree. Used by handlers to gate supervisor access to another user's
// calendar.
func (r *Resolver) Allows(ctx context.Context, managerID, targetUserID string) (bool, error) {
	users, err := r.ManagedUsers(ctx, managerID)
	if err != nil {
		return false, err
	}
	for _, u := range users {
		if u.ID == targetUserID {
			return true, nil
		}
	}
	return false, nil
}
