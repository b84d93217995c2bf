package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrEmailExists             = errors.New("email already registered")
	ErrAdminPrivilegeRequired  = errors.New("admin privilege required")
	ErrSupervisorRoleRequired  = errors.New("supervisor or admin role required")
	ErrUserOutsideManagedScope = errors.New("user is outside your managed departments")
)
