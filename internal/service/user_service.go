package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// CreateUserInput carries the fields of a new user.
type CreateUserInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
}

// UpdateUserInput carries a partial user update. Nil fields keep their
// current value.
type UpdateUserInput struct {
	Username  *string
	FirstName *string
	LastName  *string
	Email     *string
}

// UserService provides user-related operations
type UserService interface {
	// CreateUser creates a user with a unique username and email
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)

	// UpdateUser applies the supplied fields to an existing user
	UpdateUser(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*domain.User, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// ListUsers returns every user ordered by creation time
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// DeleteUser removes a user together with all of their tasks
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	logger    *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userStore store.UserStore, logger *slog.Logger) UserService {
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserServiceImpl{
		userStore: userStore,
		logger:    logger.With(slog.String("component", "user_service")),
	}
}

// CreateUser implements UserService.CreateUser
func (s *UserServiceImpl) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(input.Username, input.FirstName, input.LastName, input.Email)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, uuid.Nil, user.Email, user.Username); err != nil {
		return nil, err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		log.Warn("failed to create user", slog.String("error", err.Error()))
		return nil, NewUserServiceError("create_user", "failed to create user", err)
	}

	log.Info("user created", slog.String("user_id", user.ID.String()))
	return user, nil
}

// UpdateUser implements UserService.UpdateUser.
// Uniqueness checks ignore the user being updated.
func (s *UserServiceImpl) UpdateUser(
	ctx context.Context,
	userID uuid.UUID,
	input UpdateUserInput,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, NewUserServiceError("update_user", "failed to retrieve user", err)
	}

	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Email != nil {
		user.Email = *input.Email
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, user.ID, user.Email, user.Username); err != nil {
		return nil, err
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		log.Warn("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewUserServiceError("update_user", "failed to update user", err)
	}

	log.Info("user updated", slog.String("user_id", userID.String()))
	return user, nil
}

// GetUser implements UserService.GetUser
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve user",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		}
		return nil, NewUserServiceError("get_user", "failed to retrieve user", err)
	}
	return user, nil
}

// ListUsers implements UserService.ListUsers
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		return nil, NewUserServiceError("list_users", "failed to list users", err)
	}
	return users, nil
}

// DeleteUser implements UserService.DeleteUser
func (s *UserServiceImpl) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.userStore.Delete(ctx, userID); err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete user",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		}
		return NewUserServiceError("delete_user", "failed to delete user", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user deleted",
		slog.String("user_id", userID.String()))
	return nil
}

// ensureUnique reports ErrEmailExists or ErrUsernameExists when another user
// (anyone but self) already holds email or username. The store's unique
// constraints still guard against races between this check and the write.
func (s *UserServiceImpl) ensureUnique(
	ctx context.Context,
	self uuid.UUID,
	email, username string,
) error {
	existing, err := s.userStore.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != self:
		return ErrEmailExists
	case err != nil && !errors.Is(err, store.ErrUserNotFound):
		return NewUserServiceError("check_email", "failed to check email", err)
	}

	existing, err = s.userStore.GetByUsername(ctx, username)
	switch {
	case err == nil && existing.ID != self:
		return ErrUsernameExists
	case err != nil && !errors.Is(err, store.ErrUserNotFound):
		return NewUserServiceError("check_username", "failed to check username", err)
	}

	return nil
}
