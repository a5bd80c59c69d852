package sqlite

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskStore implements store.TaskStore on top of GORM.
type GormTaskStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormTaskStore creates a task store using db.
// If logger is nil, a default logger will be used.
func NewGormTaskStore(db *gorm.DB, logger *slog.Logger) *GormTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &GormTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*GormTaskStore)(nil)

// Create implements store.TaskStore.Create.
func (s *GormTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(newTaskRecord(task)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			log.Warn("task owner does not exist",
				slog.String("task_id", task.ID.String()),
				slog.String("user_id", task.UserID.String()))
			return store.ErrUserNotFound
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "create", "failed to create task", err)
	}

	return nil
}

// FindOne implements store.TaskStore.FindOne.
func (s *GormTaskStore) FindOne(
	ctx context.Context,
	taskID, ownerID uuid.UUID,
) (*domain.Task, error) {
	var record taskRecord
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID.String(), ownerID.String()).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, store.NewStoreError("task", "find", "failed to get task", err)
	}

	return record.toDomain()
}

// Save implements store.TaskStore.Save.
func (s *GormTaskStore) Save(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	updatedAt := time.Now().UTC()
	result := s.db.WithContext(ctx).
		Model(&taskRecord{}).
		Where("id = ? AND user_id = ?", task.ID.String(), task.UserID.String()).
		Updates(map[string]any{
			"name":           task.Name,
			"description":    task.Description,
			"scheduled_time": task.ScheduledTime.UTC(),
			"status":         string(task.Status),
			"updated_at":     updatedAt,
		})
	if err := result.Error; err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "save", "failed to save task", err)
	}
	if result.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}

	task.UpdatedAt = updatedAt
	return nil
}

// CompleteDue implements store.TaskStore.CompleteDue.
func (s *GormTaskStore) CompleteDue(ctx context.Context, task *domain.Task, now time.Time) error {
	updatedAt := time.Now().UTC()
	result := s.db.WithContext(ctx).
		Model(&taskRecord{}).
		Where("id = ? AND user_id = ?", task.ID.String(), task.UserID.String()).
		Where("status = ? AND scheduled_time <= ?", string(domain.TaskStatusPending), now.UTC()).
		Updates(map[string]any{
			"status":     string(domain.TaskStatusDone),
			"updated_at": updatedAt,
		})
	if err := result.Error; err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to complete task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "complete", "failed to complete task", err)
	}
	if result.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}

	task.Status = domain.TaskStatusDone
	task.UpdatedAt = updatedAt
	return nil
}

// Delete implements store.TaskStore.Delete.
func (s *GormTaskStore) Delete(ctx context.Context, task *domain.Task) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", task.ID.String(), task.UserID.String()).
		Delete(&taskRecord{})
	if err := result.Error; err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "delete", "failed to delete task", err)
	}
	if result.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// FindPage implements store.TaskStore.FindPage.
func (s *GormTaskStore) FindPage(
	ctx context.Context,
	ownerID uuid.UUID,
	limit, offset int,
) ([]*domain.Task, int, error) {
	owned := s.db.WithContext(ctx).Model(&taskRecord{}).Where("user_id = ?", ownerID.String())

	var total int64
	if err := owned.Count(&total).Error; err != nil {
		return nil, 0, store.NewStoreError("task", "list", "failed to count tasks", err)
	}

	var records []taskRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID.String()).
		Order("rowid ASC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, 0, store.NewStoreError("task", "list", "failed to list tasks", err)
	}

	tasks, err := tasksToDomain(records)
	if err != nil {
		return nil, 0, store.NewStoreError("task", "list", "failed to decode tasks", err)
	}
	return tasks, int(total), nil
}

// Search implements store.TaskStore.Search.
func (s *GormTaskStore) Search(
	ctx context.Context,
	ownerID uuid.UUID,
	query string,
) ([]*domain.Task, error) {
	pattern := store.ContainsPattern(query)

	var records []taskRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID.String()).
		Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(status) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		).
		Order("rowid ASC").
		Find(&records).Error
	if err != nil {
		return nil, store.NewStoreError("task", "search", "failed to search tasks", err)
	}

	tasks, err := tasksToDomain(records)
	if err != nil {
		return nil, store.NewStoreError("task", "search", "failed to decode tasks", err)
	}
	return tasks, nil
}

// FindDue implements store.TaskStore.FindDue.
func (s *GormTaskStore) FindDue(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	var records []taskRecord
	err := s.db.WithContext(ctx).
		Where("status = ? AND scheduled_time <= ?", string(domain.TaskStatusPending), now.UTC()).
		Order("scheduled_time ASC").
		Order("rowid ASC").
		Find(&records).Error
	if err != nil {
		return nil, store.NewStoreError("task", "find_due", "failed to query due tasks", err)
	}

	tasks, err := tasksToDomain(records)
	if err != nil {
		return nil, store.NewStoreError("task", "find_due", "failed to decode tasks", err)
	}
	return tasks, nil
}
