package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/mocks"
	"github.com/phrazzld/tasks-api/internal/platform/sqlite"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserInput() service.CreateUserInput {
	return service.CreateUserInput{
		Username:  "johndoe",
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@example.com",
	}
}

func TestCreateUser(t *testing.T) {
	userStore := new(mocks.TestifyMockUserStore)
	userStore.On("GetByEmail", mock.Anything, "john@example.com").Return(nil, store.ErrUserNotFound)
	userStore.On("GetByUsername", mock.Anything, "johndoe").Return(nil, store.ErrUserNotFound)
	userStore.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Username == "johndoe" && u.Email == "john@example.com" && u.ID != uuid.Nil
	})).Return(nil)

	svc := service.NewUserService(userStore, nil)
	user, err := svc.CreateUser(context.Background(), newUserInput())
	require.NoError(t, err)
	assert.Equal(t, "John", user.FirstName)
	assert.Equal(t, "Doe", user.LastName)

	userStore.AssertExpectations(t)
}

func TestCreateUser_Conflicts(t *testing.T) {
	existing := &domain.User{ID: uuid.New(), Username: "johndoe", Email: "john@example.com"}

	tests := []struct {
		name       string
		byEmail    *domain.User
		byUsername *domain.User
		wantErr    error
	}{
		{name: "email taken", byEmail: existing, wantErr: service.ErrEmailExists},
		{name: "username taken", byUsername: existing, wantErr: service.ErrUsernameExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userStore := mocks.NewMockUserStore()
			userStore.GetByEmailFn = func(ctx context.Context, email string) (*domain.User, error) {
				if tt.byEmail != nil {
					return tt.byEmail, nil
				}
				return nil, store.ErrUserNotFound
			}
			userStore.GetByUsernameFn = func(ctx context.Context, username string) (*domain.User, error) {
				if tt.byUsername != nil {
					return tt.byUsername, nil
				}
				return nil, store.ErrUserNotFound
			}
			userStore.CreateFn = func(ctx context.Context, user *domain.User) error {
				t.Fatal("Create must not be called on a conflict")
				return nil
			}

			_, err := service.NewUserService(userStore, nil).CreateUser(context.Background(), newUserInput())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateUser_StoreRaceMapsToConflict(t *testing.T) {
	userStore := mocks.NewMockUserStore()
	userStore.CreateFn = func(ctx context.Context, user *domain.User) error {
		return store.ErrUsernameExists
	}

	_, err := service.NewUserService(userStore, nil).CreateUser(context.Background(), newUserInput())
	assert.ErrorIs(t, err, service.ErrUsernameExists)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	userStore := mocks.NewMockUserStore()
	svc := service.NewUserService(userStore, nil)

	john, err := svc.CreateUser(ctx, newUserInput())
	require.NoError(t, err)
	jane, err := svc.CreateUser(ctx, service.CreateUserInput{
		Username: "janedoe", FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
	})
	require.NoError(t, err)

	// Re-submitting one's own email is not a conflict.
	updated, err := svc.UpdateUser(ctx, john.ID, service.UpdateUserInput{
		FirstName: strPtr("Johnny"),
		Email:     strPtr("john@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Johnny", updated.FirstName)
	assert.Equal(t, "johndoe", updated.Username)

	_, err = svc.UpdateUser(ctx, jane.ID, service.UpdateUserInput{Email: strPtr("john@example.com")})
	assert.ErrorIs(t, err, service.ErrEmailExists)

	_, err = svc.UpdateUser(ctx, jane.ID, service.UpdateUserInput{Username: strPtr("johndoe")})
	assert.ErrorIs(t, err, service.ErrUsernameExists)

	_, err = svc.UpdateUser(ctx, uuid.New(), service.UpdateUserInput{FirstName: strPtr("Ghost")})
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestGetUserAndList(t *testing.T) {
	ctx := context.Background()
	svc := service.NewUserService(mocks.NewMockUserStore(), nil)

	created, err := svc.CreateUser(ctx, newUserInput())
	require.NoError(t, err)

	got, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestGetUser_StoreFailureIsWrapped(t *testing.T) {
	userStore := new(mocks.TestifyMockUserStore)
	userStore.On("GetByID", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	_, err := service.NewUserService(userStore, nil).GetUser(context.Background(), uuid.New())
	require.Error(t, err)

	var svcErr *service.UserServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "get_user", svcErr.Operation)
	assert.NotErrorIs(t, err, service.ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc := service.NewUserService(mocks.NewMockUserStore(), nil)

	created, err := svc.CreateUser(ctx, newUserInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, created.ID))

	_, err = svc.GetUser(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	assert.ErrorIs(t, svc.DeleteUser(ctx, created.ID), service.ErrUserNotFound)
}

func TestDeleteUser_StoreFailureIsWrapped(t *testing.T) {
	userStore := new(mocks.TestifyMockUserStore)
	userStore.On("Delete", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	err := service.NewUserService(userStore, nil).DeleteUser(context.Background(), uuid.New())
	require.Error(t, err)

	var svcErr *service.UserServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "delete_user", svcErr.Operation)
	userStore.AssertExpectations(t)
}

func TestDeleteUser_RemovesTheirTasks(t *testing.T) {
	ctx := context.Background()
	db := sqlite.NewTestDB(t)
	users := service.NewUserService(sqlite.NewGormUserStore(db, nil), nil)
	tasks := service.NewTaskService(sqlite.NewGormTaskStore(db, nil), nil)

	owner, err := users.CreateUser(ctx, newUserInput())
	require.NoError(t, err)
	other, err := users.CreateUser(ctx, service.CreateUserInput{
		Username: "janedoe", FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
	})
	require.NoError(t, err)

	doomed, err := tasks.CreateTask(ctx, owner.ID, validInput("Owner's task"))
	require.NoError(t, err)
	kept, err := tasks.CreateTask(ctx, other.ID, validInput("Other's task"))
	require.NoError(t, err)

	require.NoError(t, users.DeleteUser(ctx, owner.ID))

	_, err = tasks.GetTask(ctx, owner.ID, doomed.ID)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	page, err := tasks.ListTasks(ctx, owner.ID, 10, 1)
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)

	_, err = tasks.GetTask(ctx, other.ID, kept.ID)
	assert.NoError(t, err)
}
