package user

import "context"

type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	ListByDepartmentIDs(ctx context.Context, departmentIDs []string) ([]User, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
}
