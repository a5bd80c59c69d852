package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
)

// MockUserService implements service.UserService for testing
type MockUserService struct {
	CreateUserFn func(ctx context.Context, input service.CreateUserInput) (*domain.User, error)
	UpdateUserFn func(ctx context.Context, userID uuid.UUID, input service.UpdateUserInput) (*domain.User, error)
	GetUserFn    func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	ListUsersFn  func(ctx context.Context) ([]*domain.User, error)
	DeleteUserFn func(ctx context.Context, userID uuid.UUID) error

	// Default response values
	User  *domain.User
	Users []*domain.User
	Err   error
}

var _ service.UserService = (*MockUserService)(nil)

// CreateUser implements service.UserService
func (m *MockUserService) CreateUser(
	ctx context.Context,
	input service.CreateUserInput,
) (*domain.User, error) {
	if m.CreateUserFn != nil {
		return m.CreateUserFn(ctx, input)
	}
	return m.User, m.Err
}

// UpdateUser implements service.UserService
func (m *MockUserService) UpdateUser(
	ctx context.Context,
	userID uuid.UUID,
	input service.UpdateUserInput,
) (*domain.User, error) {
	if m.UpdateUserFn != nil {
		return m.UpdateUserFn(ctx, userID, input)
	}
	return m.User, m.Err
}

// GetUser implements service.UserService
func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return m.User, m.Err
}

// ListUsers implements service.UserService
func (m *MockUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	if m.ListUsersFn != nil {
		return m.ListUsersFn(ctx)
	}
	return m.Users, m.Err
}

// DeleteUser implements service.UserService
func (m *MockUserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteUserFn != nil {
		return m.DeleteUserFn(ctx, userID)
	}
	return m.Err
}
