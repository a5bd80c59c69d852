package service_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/mocks"
	"github.com/phrazzld/tasks-api/internal/platform/sqlite"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

// newSQLiteTaskService wires a TaskService to a fresh in-memory database and
// returns the IDs of two existing users.
func newSQLiteTaskService(t *testing.T) (service.TaskService, uuid.UUID, uuid.UUID) {
	t.Helper()

	db := sqlite.NewTestDB(t)
	userStore := sqlite.NewGormUserStore(db, nil)
	ctx := context.Background()

	owner, err := domain.NewUser("owner", "Own", "Er", "owner@example.com")
	require.NoError(t, err)
	require.NoError(t, userStore.Create(ctx, owner))

	other, err := domain.NewUser("other", "Oth", "Er", "other@example.com")
	require.NoError(t, err)
	require.NoError(t, userStore.Create(ctx, other))

	return service.NewTaskService(sqlite.NewGormTaskStore(db, nil), nil), owner.ID, other.ID
}

func validInput(name string) service.CreateTaskInput {
	return service.CreateTaskInput{
		Name:          name,
		Description:   "This will do something",
		ScheduledTime: "2023-08-06 12:25:00",
	}
}

func TestCreateTask_Status(t *testing.T) {
	tests := []struct {
		name       string
		status     *string
		wantStatus domain.TaskStatus
		wantErr    error
	}{
		{name: "omitted defaults to pending", status: nil, wantStatus: domain.TaskStatusPending},
		{name: "pending", status: strPtr("pending"), wantStatus: domain.TaskStatusPending},
		{name: "in_progress", status: strPtr("in_progress"), wantStatus: domain.TaskStatusInProgress},
		{name: "done", status: strPtr("done"), wantStatus: domain.TaskStatusDone},
		{name: "spaced legacy literal", status: strPtr("in progress"), wantErr: domain.ErrInvalidStatus},
		{name: "wrong case", status: strPtr("Pending"), wantErr: domain.ErrInvalidStatus},
		{name: "empty", status: strPtr(""), wantErr: domain.ErrInvalidStatus},
		{name: "unknown", status: strPtr("archived"), wantErr: domain.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taskStore := mocks.NewMockTaskStore()
			svc := service.NewTaskService(taskStore, nil)

			input := validInput("Do something")
			input.Status = tt.status

			task, err := svc.CreateTask(context.Background(), uuid.New(), input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, task)
				assert.Empty(t, taskStore.All(), "nothing should be persisted")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, task.Status)
		})
	}
}

func TestCreateTask_ScheduledTime(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "valid", raw: "2023-08-06 12:25:00"},
		{name: "leap day", raw: "2024-02-29 00:00:00"},
		{name: "ISO with T", raw: "2023-08-06T12:25:00", wantErr: true},
		{name: "missing seconds", raw: "2023-08-06 12:25", wantErr: true},
		{name: "single digit hour", raw: "2023-08-06 1:25:00", wantErr: true},
		{name: "impossible date", raw: "2023-02-30 12:00:00", wantErr: true},
		{name: "impossible hour", raw: "2023-08-06 25:00:00", wantErr: true},
		{name: "trailing zone", raw: "2023-08-06 12:25:00Z", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := service.NewTaskService(mocks.NewMockTaskStore(), nil)
			input := validInput("Do something")
			input.ScheduledTime = tt.raw

			task, err := svc.CreateTask(context.Background(), uuid.New(), input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidTimeFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.raw, domain.FormatScheduledTime(task.ScheduledTime))
		})
	}
}

func TestCreateTask_UnknownOwner(t *testing.T) {
	svc, _, _ := newSQLiteTaskService(t)

	_, err := svc.CreateTask(context.Background(), uuid.New(), validInput("Orphan"))
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestCreateTask_StoreFailureIsWrapped(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	taskStore.CreateFn = func(ctx context.Context, task *domain.Task) error {
		return errors.New("connection reset")
	}
	svc := service.NewTaskService(taskStore, nil)

	_, err := svc.CreateTask(context.Background(), uuid.New(), validInput("Do something"))
	require.Error(t, err)

	var svcErr *service.TaskServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "create_task", svcErr.Operation)
}

func TestUpdateTask_OmittedStatusIsPreserved(t *testing.T) {
	svc, owner, _ := newSQLiteTaskService(t)
	ctx := context.Background()

	input := validInput("Do something")
	input.Status = strPtr("in_progress")
	created, err := svc.CreateTask(ctx, owner, input)
	require.NoError(t, err)

	updated, err := svc.UpdateTask(ctx, owner, created.ID, service.UpdateTaskInput{
		Name: strPtr("Do something else"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
	assert.Equal(t, "Do something else", updated.Name)

	reloaded, err := svc.GetTask(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, reloaded.Status)
	assert.Equal(t, "Do something else", reloaded.Name)
	assert.Equal(t, created.Description, reloaded.Description)
	assert.True(t, created.ScheduledTime.Equal(reloaded.ScheduledTime))
}

func TestUpdateTask_AppliesSuppliedFields(t *testing.T) {
	svc, owner, _ := newSQLiteTaskService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, owner, validInput("Do something"))
	require.NoError(t, err)

	updated, err := svc.UpdateTask(ctx, owner, created.ID, service.UpdateTaskInput{
		Description:   strPtr("A brand new description"),
		ScheduledTime: strPtr("2024-01-01 08:00:00"),
		Status:        strPtr("done"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Do something", updated.Name)
	assert.Equal(t, "A brand new description", updated.Description)
	assert.Equal(t, "2024-01-01 08:00:00", domain.FormatScheduledTime(updated.ScheduledTime))
	assert.Equal(t, domain.TaskStatusDone, updated.Status)
}

func TestUpdateTask_ValidatesBeforeLookup(t *testing.T) {
	tests := []struct {
		name    string
		input   service.UpdateTaskInput
		wantErr error
	}{
		{
			name:    "invalid status",
			input:   service.UpdateTaskInput{Status: strPtr("in progress")},
			wantErr: domain.ErrInvalidStatus,
		},
		{
			name:    "invalid time",
			input:   service.UpdateTaskInput{ScheduledTime: strPtr("06/08/2023 12:25")},
			wantErr: domain.ErrInvalidTimeFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookedUp := false
			taskStore := mocks.NewMockTaskStore()
			taskStore.FindOneFn = func(ctx context.Context, taskID, ownerID uuid.UUID) (*domain.Task, error) {
				lookedUp = true
				return nil, store.ErrTaskNotFound
			}
			svc := service.NewTaskService(taskStore, nil)

			_, err := svc.UpdateTask(context.Background(), uuid.New(), uuid.New(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, lookedUp, "validation must happen before the store lookup")
		})
	}
}

func TestUpdateTask_MissingTask(t *testing.T) {
	svc, owner, _ := newSQLiteTaskService(t)

	_, err := svc.UpdateTask(context.Background(), owner, uuid.New(), service.UpdateTaskInput{
		Name: strPtr("whatever"),
	})
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}

func TestUpdateTaskStatus(t *testing.T) {
	svc, owner, _ := newSQLiteTaskService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, owner, validInput("Do something"))
	require.NoError(t, err)

	// Every enumerated status may follow any other, including backwards moves.
	for _, status := range []string{"done", "pending", "in_progress", "in_progress", "done"} {
		updated, err := svc.UpdateTaskStatus(ctx, owner, created.ID, status)
		require.NoError(t, err, status)
		assert.Equal(t, domain.TaskStatus(status), updated.Status)
	}

	_, err = svc.UpdateTaskStatus(ctx, owner, created.ID, "in progress")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	reloaded, err := svc.GetTask(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusDone, reloaded.Status)

	_, err = svc.UpdateTaskStatus(ctx, owner, uuid.New(), "done")
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}

func TestUpdateTaskStatus_InvalidStatusBeforeLookup(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	taskStore.FindOneFn = func(ctx context.Context, taskID, ownerID uuid.UUID) (*domain.Task, error) {
		t.Fatal("store must not be consulted for an invalid status")
		return nil, nil
	}
	svc := service.NewTaskService(taskStore, nil)

	_, err := svc.UpdateTaskStatus(context.Background(), uuid.New(), uuid.New(), "finished")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestDeleteTask_Twice(t *testing.T) {
	svc, owner, _ := newSQLiteTaskService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, owner, validInput("Do something"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(ctx, owner, created.ID))
	assert.ErrorIs(t, svc.DeleteTask(ctx, owner, created.ID), service.ErrTaskNotFound)

	_, err = svc.GetTask(ctx, owner, created.ID)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}

func TestOwnershipIsolation(t *testing.T) {
	svc, owner, other := newSQLiteTaskService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, owner, validInput("Private"))
	require.NoError(t, err)

	_, err = svc.GetTask(ctx, other, created.ID)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	_, err = svc.UpdateTask(ctx, other, created.ID, service.UpdateTaskInput{Name: strPtr("Hijacked")})
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	_, err = svc.UpdateTaskStatus(ctx, other, created.ID, "done")
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	assert.ErrorIs(t, svc.DeleteTask(ctx, other, created.ID), service.ErrTaskNotFound)

	untouched, err := svc.GetTask(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", untouched.Name)
	assert.Equal(t, domain.TaskStatusPending, untouched.Status)

	page, err := svc.ListTasks(ctx, other, 10, 1)
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)

	found, err := svc.SearchTasks(ctx, other, "Private")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestListTasks(t *testing.T) {
	svc, owner, other := newSQLiteTaskService(t)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		_, err := svc.CreateTask(ctx, owner, validInput(fmt.Sprintf("Task %d", i)))
		require.NoError(t, err)
	}
	_, err := svc.CreateTask(ctx, other, validInput("Someone else's"))
	require.NoError(t, err)

	page, err := svc.ListTasks(ctx, owner, 1, 1)
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, "Task 1", page.Tasks[0].Name)

	page, err = svc.ListTasks(ctx, owner, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, "Task 2", page.Tasks[0].Name)

	page, err = svc.ListTasks(ctx, owner, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, page.Tasks)
	assert.Equal(t, 2, page.TotalCount)
}

func TestListTasks_InvalidPagination(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		page  int
	}{
		{name: "zero limit", limit: 0, page: 1},
		{name: "negative limit", limit: -5, page: 1},
		{name: "zero page", limit: 10, page: 0},
		{name: "negative page", limit: 10, page: -1},
		{name: "offset overflows", limit: math.MaxInt, page: 3},
		{name: "offset overflows by one page", limit: 2, page: math.MaxInt/2 + 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taskStore := mocks.NewMockTaskStore()
			taskStore.FindPageFn = func(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*domain.Task, int, error) {
				t.Fatalf("store must not be queried, got offset %d", offset)
				return nil, 0, nil
			}

			svc := service.NewTaskService(taskStore, nil)
			_, err := svc.ListTasks(context.Background(), uuid.New(), tt.limit, tt.page)
			assert.ErrorIs(t, err, domain.ErrInvalidPagination)
		})
	}
}

func TestListTasks_LargestLimitOnFirstPage(t *testing.T) {
	svc, owner, _ := newSQLiteTaskService(t)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		_, err := svc.CreateTask(ctx, owner, validInput(fmt.Sprintf("Task %d", i)))
		require.NoError(t, err)
	}

	page, err := svc.ListTasks(ctx, owner, math.MaxInt, 1)
	require.NoError(t, err)
	assert.Len(t, page.Tasks, 2)
	assert.Equal(t, 1, page.Page)
}

func TestSearchTasks(t *testing.T) {
	svc, owner, _ := newSQLiteTaskService(t)
	ctx := context.Background()

	for _, name := range []string{"Task 1", "Task 2"} {
		_, err := svc.CreateTask(ctx, owner, validInput(name))
		require.NoError(t, err)
	}
	another := validInput("Another one")
	another.Description = "Another task to finish"
	_, err := svc.CreateTask(ctx, owner, another)
	require.NoError(t, err)

	found, err := svc.SearchTasks(ctx, owner, "Task")
	require.NoError(t, err)
	assert.Len(t, found, 3)

	found, err = svc.SearchTasks(ctx, owner, "pending")
	require.NoError(t, err)
	assert.Len(t, found, 3)

	found, err = svc.SearchTasks(ctx, owner, "finish")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Another one", found[0].Name)
}

func TestNewTaskServicePanicsOnNilStore(t *testing.T) {
	assert.Panics(t, func() { service.NewTaskService(nil, nil) })
}
