package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

const taskColumns = `id, user_id, name, description, scheduled_time, status, created_at, updated_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create.
// Returns store.ErrUserNotFound if the owning user does not exist (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, user_id, name, description, scheduled_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.UserID,
		task.Name,
		task.Description,
		task.ScheduledTime.UTC(),
		string(task.Status),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("task owner does not exist",
				slog.String("task_id", task.ID.String()),
				slog.String("user_id", task.UserID.String()))
			return store.ErrUserNotFound
		}
		if IsCheckConstraintViolation(err) {
			return domain.ErrInvalidStatus
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		return store.NewStoreError("task", "create", "failed to create task", MapError(err))
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// FindOne implements store.TaskStore.FindOne.
// Returns store.ErrTaskNotFound unless a task matches both IDs.
func (s *PostgresTaskStore) FindOne(
	ctx context.Context,
	taskID, ownerID uuid.UUID,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, taskID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found",
				slog.String("task_id", taskID.String()),
				slog.String("user_id", ownerID.String()))
			return nil, store.ErrTaskNotFound
		}

		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, store.NewStoreError("task", "find", "failed to get task", MapError(err))
	}

	return task, nil
}

// Save implements store.TaskStore.Save.
// Only the mutable fields are written; id and user_id scope the row.
func (s *PostgresTaskStore) Save(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during save",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	updatedAt := time.Now().UTC()
	query := `
		UPDATE tasks
		SET name = $1, description = $2, scheduled_time = $3, status = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Name,
		task.Description,
		task.ScheduledTime.UTC(),
		string(task.Status),
		updatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		if IsCheckConstraintViolation(err) {
			return domain.ErrInvalidStatus
		}

		log.Error("failed to save task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "save", "failed to save task", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task to save no longer exists",
			slog.String("task_id", task.ID.String()),
			slog.String("error", err.Error()))
		return err
	}

	task.UpdatedAt = updatedAt
	return nil
}

// CompleteDue implements store.TaskStore.CompleteDue.
// The pending and due checks are part of the UPDATE's WHERE clause.
func (s *PostgresTaskStore) CompleteDue(ctx context.Context, task *domain.Task, now time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	updatedAt := time.Now().UTC()
	query := `
		UPDATE tasks
		SET status = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4 AND status = $5 AND scheduled_time <= $6
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		string(domain.TaskStatusDone),
		updatedAt,
		task.ID,
		task.UserID,
		string(domain.TaskStatusPending),
		now.UTC(),
	)
	if err != nil {
		log.Error("failed to complete task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "complete", "failed to complete task", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	task.Status = domain.TaskStatusDone
	task.UpdatedAt = updatedAt
	return nil
}

// Delete implements store.TaskStore.Delete.
func (s *PostgresTaskStore) Delete(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		task.ID,
		task.UserID,
	)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "delete", "failed to delete task", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Debug("task deleted", slog.String("task_id", task.ID.String()))
	return nil
}

// FindPage implements store.TaskStore.FindPage.
func (s *PostgresTaskStore) FindPage(
	ctx context.Context,
	ownerID uuid.UUID,
	limit, offset int,
) ([]*domain.Task, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var total int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE user_id = $1`, ownerID).
		Scan(&total)
	if err != nil {
		log.Error("failed to count tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, 0, store.NewStoreError("task", "list", "failed to count tasks", MapError(err))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY seq ASC LIMIT $2 OFFSET $3`
	tasks, err := s.queryTasks(ctx, query, ownerID, limit, offset)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, 0, store.NewStoreError("task", "list", "failed to list tasks", MapError(err))
	}

	return tasks, total, nil
}

// Search implements store.TaskStore.Search.
func (s *PostgresTaskStore) Search(
	ctx context.Context,
	ownerID uuid.UUID,
	query string,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sqlQuery := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
		  AND (LOWER(name) LIKE $2 ESCAPE '\'
		    OR LOWER(description) LIKE $2 ESCAPE '\'
		    OR LOWER(status) LIKE $2 ESCAPE '\')
		ORDER BY seq ASC
	`
	tasks, err := s.queryTasks(ctx, sqlQuery, ownerID, store.ContainsPattern(query))
	if err != nil {
		log.Error("failed to search tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, store.NewStoreError("task", "search", "failed to search tasks", MapError(err))
	}

	return tasks, nil
}

// FindDue implements store.TaskStore.FindDue.
func (s *PostgresTaskStore) FindDue(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE status = $1 AND scheduled_time <= $2
		ORDER BY scheduled_time ASC, seq ASC
	`
	tasks, err := s.queryTasks(ctx, query, string(domain.TaskStatusPending), now.UTC())
	if err != nil {
		log.Error("failed to query due tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "find_due", "failed to query due tasks", MapError(err))
	}

	return tasks, nil
}

func (s *PostgresTaskStore) queryTasks(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var status string

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Name,
		&task.Description,
		&task.ScheduledTime,
		&status,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	task.ScheduledTime = task.ScheduledTime.UTC()
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return &task, nil
}
