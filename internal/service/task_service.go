package service

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// CreateTaskInput carries the caller-supplied fields of a new task.
// A nil Status defaults to pending.
type CreateTaskInput struct {
	Name          string
	Description   string
	ScheduledTime string
	Status        *string
}

// UpdateTaskInput carries a partial task update. Nil fields keep their
// current value.
type UpdateTaskInput struct {
	Name          *string
	Description   *string
	ScheduledTime *string
	Status        *string
}

// TaskPage is one page of an owner's tasks.
type TaskPage struct {
	Tasks      []*domain.Task
	TotalCount int
	Page       int
	Limit      int
}

// TaskService provides the task lifecycle operations. Every operation is
// scoped to the owning user.
type TaskService interface {
	// CreateTask validates input and stores a new task for ownerID.
	CreateTask(ctx context.Context, ownerID uuid.UUID, input CreateTaskInput) (*domain.Task, error)

	// UpdateTask applies the supplied fields to an existing task.
	UpdateTask(
		ctx context.Context,
		ownerID, taskID uuid.UUID,
		input UpdateTaskInput,
	) (*domain.Task, error)

	// UpdateTaskStatus sets only the status of an existing task.
	UpdateTaskStatus(
		ctx context.Context,
		ownerID, taskID uuid.UUID,
		status string,
	) (*domain.Task, error)

	// DeleteTask permanently removes a task.
	DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error

	// GetTask retrieves a single task.
	GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// ListTasks returns one page of the owner's tasks in insertion order.
	ListTasks(ctx context.Context, ownerID uuid.UUID, limit, page int) (*TaskPage, error)

	// SearchTasks returns the owner's tasks whose name, description or status
	// contains query, ignoring case.
	SearchTasks(ctx context.Context, ownerID uuid.UUID, query string) ([]*domain.Task, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
// It panics if taskStore is nil; a nil logger falls back to slog.Default().
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) TaskService {
	if taskStore == nil {
		panic("taskStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_service")),
	}
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	input CreateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	status := domain.TaskStatusPending
	if input.Status != nil {
		parsed, err := domain.ParseTaskStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	scheduledTime, err := domain.ParseScheduledTime(input.ScheduledTime)
	if err != nil {
		return nil, err
	}

	task, err := domain.NewTask(ownerID, input.Name, input.Description, scheduledTime, status)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		log.Warn("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, NewTaskServiceError("create_task", "failed to create task", err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", ownerID.String()),
		slog.String("status", string(task.Status)))
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask.
// The replacement record starts from the stored task, so an omitted status
// keeps the task's current status.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	input UpdateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var status domain.TaskStatus
	if input.Status != nil {
		parsed, err := domain.ParseTaskStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	var scheduledTime time.Time
	if input.ScheduledTime != nil {
		parsed, err := domain.ParseScheduledTime(*input.ScheduledTime)
		if err != nil {
			return nil, err
		}
		scheduledTime = parsed
	}

	task, err := s.taskStore.FindOne(ctx, taskID, ownerID)
	if err != nil {
		return nil, NewTaskServiceError("update_task", "failed to retrieve task", err)
	}

	if input.Name != nil {
		task.Name = *input.Name
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.ScheduledTime != nil {
		task.ScheduledTime = scheduledTime
	}
	if input.Status != nil {
		task.Status = status
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.taskStore.Save(ctx, task); err != nil {
		log.Warn("failed to save task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, NewTaskServiceError("update_task", "failed to save task", err)
	}

	log.Info("task updated",
		slog.String("task_id", taskID.String()),
		slog.String("status", string(task.Status)))
	return task, nil
}

// UpdateTaskStatus implements TaskService.UpdateTaskStatus.
// Any enumerated status may follow any other.
func (s *taskServiceImpl) UpdateTaskStatus(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	status string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	parsed, err := domain.ParseTaskStatus(status)
	if err != nil {
		return nil, err
	}

	task, err := s.taskStore.FindOne(ctx, taskID, ownerID)
	if err != nil {
		return nil, NewTaskServiceError("update_task_status", "failed to retrieve task", err)
	}

	previous := task.Status
	task.Status = parsed
	if err := s.taskStore.Save(ctx, task); err != nil {
		log.Warn("failed to save task status",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, NewTaskServiceError("update_task_status", "failed to save task", err)
	}

	log.Info("task status updated",
		slog.String("task_id", taskID.String()),
		slog.String("from", string(previous)),
		slog.String("to", string(parsed)))
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.taskStore.FindOne(ctx, taskID, ownerID)
	if err != nil {
		return NewTaskServiceError("delete_task", "failed to retrieve task", err)
	}

	if err := s.taskStore.Delete(ctx, task); err != nil {
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	log.Info("task deleted", slog.String("task_id", taskID.String()))
	return nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
) (*domain.Task, error) {
	task, err := s.taskStore.FindOne(ctx, taskID, ownerID)
	if err != nil {
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	limit, page int,
) (*TaskPage, error) {
	if limit <= 0 || page <= 0 {
		return nil, domain.ErrInvalidPagination
	}
	// (page-1)*limit must not wrap around.
	if page-1 > math.MaxInt/limit {
		return nil, domain.ErrInvalidPagination
	}

	tasks, total, err := s.taskStore.FindPage(ctx, ownerID, limit, (page-1)*limit)
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}

	return &TaskPage{
		Tasks:      tasks,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
	}, nil
}

// SearchTasks implements TaskService.SearchTasks
func (s *taskServiceImpl) SearchTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	query string,
) ([]*domain.Task, error) {
	tasks, err := s.taskStore.Search(ctx, ownerID, query)
	if err != nil {
		return nil, NewTaskServiceError("search_tasks", "failed to search tasks", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("tasks searched",
		slog.String("user_id", ownerID.String()),
		slog.Int("matches", len(tasks)))
	return tasks, nil
}
