package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
)

// MockTaskService implements service.TaskService for testing.
// Methods without a function override return Task/Tasks/Page and Err.
type MockTaskService struct {
	CreateTaskFn       func(ctx context.Context, ownerID uuid.UUID, input service.CreateTaskInput) (*domain.Task, error)
	UpdateTaskFn       func(ctx context.Context, ownerID, taskID uuid.UUID, input service.UpdateTaskInput) (*domain.Task, error)
	UpdateTaskStatusFn func(ctx context.Context, ownerID, taskID uuid.UUID, status string) (*domain.Task, error)
	DeleteTaskFn       func(ctx context.Context, ownerID, taskID uuid.UUID) error
	GetTaskFn          func(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	ListTasksFn        func(ctx context.Context, ownerID uuid.UUID, limit, page int) (*service.TaskPage, error)
	SearchTasksFn      func(ctx context.Context, ownerID uuid.UUID, query string) ([]*domain.Task, error)

	// Default response values
	Task  *domain.Task
	Tasks []*domain.Task
	Page  *service.TaskPage
	Err   error
}

var _ service.TaskService = (*MockTaskService)(nil)

// CreateTask implements service.TaskService
func (m *MockTaskService) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	input service.CreateTaskInput,
) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, ownerID, input)
	}
	return m.Task, m.Err
}

// UpdateTask implements service.TaskService
func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	input service.UpdateTaskInput,
) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, ownerID, taskID, input)
	}
	return m.Task, m.Err
}

// UpdateTaskStatus implements service.TaskService
func (m *MockTaskService) UpdateTaskStatus(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	status string,
) (*domain.Task, error) {
	if m.UpdateTaskStatusFn != nil {
		return m.UpdateTaskStatusFn(ctx, ownerID, taskID, status)
	}
	return m.Task, m.Err
}

// DeleteTask implements service.TaskService
func (m *MockTaskService) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, ownerID, taskID)
	}
	return m.Err
}

// GetTask implements service.TaskService
func (m *MockTaskService) GetTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, ownerID, taskID)
	}
	return m.Task, m.Err
}

// ListTasks implements service.TaskService
func (m *MockTaskService) ListTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	limit, page int,
) (*service.TaskPage, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, ownerID, limit, page)
	}
	return m.Page, m.Err
}

// SearchTasks implements service.TaskService
func (m *MockTaskService) SearchTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	query string,
) ([]*domain.Task, error) {
	if m.SearchTasksFn != nil {
		return m.SearchTasksFn(ctx, ownerID, query)
	}
	return m.Tasks, m.Err
}
