package department

import "context"

type Repository interface {
	Create(ctx context.Context, d Department) (Department, error)
	GetByID(ctx context.Context, id string) (Department, error)
	GetByName(ctx context.Context, name string) (Department, error)
	List(ctx context.Context) ([]Department, error)

	// ManagedSubtreeIDs resolves every department managed by managerID,
	// including transitively nested child departments. Empty when the
	// user manages nothing.
	ManagedSubtreeIDs(ctx context.Context, managerID string) ([]string, error)
}
