package task

import "context"

type Service interface {
	Create(ctx context.Context, req CreateTaskRequest, createdBy string) (TaskResponse, error)
	Get(ctx context.Context, id string) (TaskResponse, error)
	List(ctx context.Context, filter Filter) ([]TaskResponse, int64, error)
	ListByUser(ctx context.Context, userID string) ([]TaskResponse, error)
	Update(ctx context.Context, id string, req UpdateTaskRequest) (TaskResponse, error)
	Delete(ctx context.Context, id string) error
}
