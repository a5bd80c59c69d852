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
)

// GormUserStore implements store.UserStore on top of GORM.
type GormUserStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormUserStore creates a user store using db.
// If logger is nil, a default logger will be used.
func NewGormUserStore(db *gorm.DB, logger *slog.Logger) *GormUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &GormUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*GormUserStore)(nil)

// Create implements store.UserStore.Create.
func (s *GormUserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(newUserRecord(user)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.conflictFor(ctx, user)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return store.NewStoreError("user", "create", "failed to create user", err)
	}

	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *GormUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, "id = ?", id.String())
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *GormUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, "email = ?", email)
}

// GetByUsername implements store.UserStore.GetByUsername.
func (s *GormUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getOne(ctx, "username = ?", username)
}

func (s *GormUserStore) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	var record userRecord
	if err := s.db.WithContext(ctx).Where(where, arg).Take(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, store.NewStoreError("user", "get", "failed to get user", err)
	}
	return record.toDomain()
}

// List implements store.UserStore.List.
func (s *GormUserStore) List(ctx context.Context) ([]*domain.User, error) {
	var records []userRecord
	if err := s.db.WithContext(ctx).Order("created_at ASC").Order("rowid ASC").Find(&records).Error; err != nil {
		return nil, store.NewStoreError("user", "list", "failed to list users", err)
	}

	users := make([]*domain.User, 0, len(records))
	for i := range records {
		user, err := records[i].toDomain()
		if err != nil {
			return nil, store.NewStoreError("user", "list", "failed to decode user", err)
		}
		users = append(users, user)
	}
	return users, nil
}

// Update implements store.UserStore.Update.
func (s *GormUserStore) Update(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	updatedAt := time.Now().UTC()
	result := s.db.WithContext(ctx).
		Model(&userRecord{}).
		Where("id = ?", user.ID.String()).
		Updates(map[string]any{
			"username":   user.Username,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
			"updated_at": updatedAt,
		})
	if err := result.Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.conflictFor(ctx, user)
		}
		return store.NewStoreError("user", "update", "failed to update user", err)
	}
	if result.RowsAffected == 0 {
		return store.ErrUserNotFound
	}

	user.UpdatedAt = updatedAt
	return nil
}

// Delete implements store.UserStore.Delete.
// Tasks go with the user through the ON DELETE CASCADE foreign key.
func (s *GormUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&userRecord{})
	if err := result.Error; err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return store.NewStoreError("user", "delete", "failed to delete user", err)
	}
	if result.RowsAffected == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// conflictFor works out which unique column user collides on, since the
// translated driver error does not name the index.
func (s *GormUserStore) conflictFor(ctx context.Context, user *domain.User) error {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&userRecord{}).
		Where("username = ? AND id <> ?", user.Username, user.ID.String()).
		Count(&count).Error
	if err == nil && count > 0 {
		return store.ErrUsernameExists
	}
	return store.ErrEmailExists
}
