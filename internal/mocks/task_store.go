package mocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
// Without function overrides it behaves like an in-memory store that keeps
// insertion order and returns copies of stored tasks.
type MockTaskStore struct {
	CreateFn      func(ctx context.Context, task *domain.Task) error
	FindOneFn     func(ctx context.Context, taskID, ownerID uuid.UUID) (*domain.Task, error)
	SaveFn        func(ctx context.Context, task *domain.Task) error
	CompleteDueFn func(ctx context.Context, task *domain.Task, now time.Time) error
	DeleteFn      func(ctx context.Context, task *domain.Task) error
	FindPageFn    func(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*domain.Task, int, error)
	SearchFn      func(ctx context.Context, ownerID uuid.UUID, query string) ([]*domain.Task, error)
	FindDueFn     func(ctx context.Context, now time.Time) ([]*domain.Task, error)

	// Call tracking for verification
	SaveCalls struct {
		mu    sync.Mutex
		Count int
		Tasks []domain.Task
	}
	CompleteDueCalls struct {
		mu    sync.Mutex
		Count int
		IDs   []uuid.UUID
	}

	mu    sync.Mutex
	tasks []*domain.Task
}

// NewMockTaskStore creates a new mock store with no tasks
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{}
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// Create implements store.TaskStore
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *task
	m.tasks = append(m.tasks, &stored)
	return nil
}

// FindOne implements store.TaskStore
func (m *MockTaskStore) FindOne(
	ctx context.Context,
	taskID, ownerID uuid.UUID,
) (*domain.Task, error) {
	if m.FindOneFn != nil {
		return m.FindOneFn(ctx, taskID, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tasks {
		if t.ID == taskID && t.UserID == ownerID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, store.ErrTaskNotFound
}

// Save implements store.TaskStore
func (m *MockTaskStore) Save(ctx context.Context, task *domain.Task) error {
	m.SaveCalls.mu.Lock()
	m.SaveCalls.Count++
	m.SaveCalls.Tasks = append(m.SaveCalls.Tasks, *task)
	m.SaveCalls.mu.Unlock()

	if m.SaveFn != nil {
		return m.SaveFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, t := range m.tasks {
		if t.ID == task.ID && t.UserID == task.UserID {
			task.UpdatedAt = time.Now().UTC()
			stored := *task
			m.tasks[i] = &stored
			return nil
		}
	}
	return store.ErrTaskNotFound
}

// CompleteDue implements store.TaskStore
func (m *MockTaskStore) CompleteDue(ctx context.Context, task *domain.Task, now time.Time) error {
	m.CompleteDueCalls.mu.Lock()
	m.CompleteDueCalls.Count++
	m.CompleteDueCalls.IDs = append(m.CompleteDueCalls.IDs, task.ID)
	m.CompleteDueCalls.mu.Unlock()

	if m.CompleteDueFn != nil {
		return m.CompleteDueFn(ctx, task, now)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tasks {
		if t.ID == task.ID && t.UserID == task.UserID && t.IsDue(now) {
			t.Status = domain.TaskStatusDone
			t.UpdatedAt = time.Now().UTC()
			task.Status = t.Status
			task.UpdatedAt = t.UpdatedAt
			return nil
		}
	}
	return store.ErrTaskNotFound
}

// Update replaces a stored task without going through Save, simulating a
// write by another caller.
func (m *MockTaskStore) Update(task *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, t := range m.tasks {
		if t.ID == task.ID {
			stored := *task
			m.tasks[i] = &stored
			return
		}
	}
}

// Delete implements store.TaskStore
func (m *MockTaskStore) Delete(ctx context.Context, task *domain.Task) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, t := range m.tasks {
		if t.ID == task.ID && t.UserID == task.UserID {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return store.ErrTaskNotFound
}

// FindPage implements store.TaskStore
func (m *MockTaskStore) FindPage(
	ctx context.Context,
	ownerID uuid.UUID,
	limit, offset int,
) ([]*domain.Task, int, error) {
	if m.FindPageFn != nil {
		return m.FindPageFn(ctx, ownerID, limit, offset)
	}

	owned := m.filter(func(t *domain.Task) bool { return t.UserID == ownerID })
	total := len(owned)
	if offset >= total {
		return []*domain.Task{}, total, nil
	}
	end := total
	if limit < total-offset {
		end = offset + limit
	}
	return owned[offset:end], total, nil
}

// Search implements store.TaskStore
func (m *MockTaskStore) Search(
	ctx context.Context,
	ownerID uuid.UUID,
	query string,
) ([]*domain.Task, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, ownerID, query)
	}

	needle := strings.ToLower(query)
	return m.filter(func(t *domain.Task) bool {
		return t.UserID == ownerID &&
			(strings.Contains(strings.ToLower(t.Name), needle) ||
				strings.Contains(strings.ToLower(t.Description), needle) ||
				strings.Contains(strings.ToLower(string(t.Status)), needle))
	}), nil
}

// FindDue implements store.TaskStore
func (m *MockTaskStore) FindDue(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	if m.FindDueFn != nil {
		return m.FindDueFn(ctx, now)
	}
	return m.filter(func(t *domain.Task) bool { return t.IsDue(now) }), nil
}

// All returns copies of every stored task in insertion order.
func (m *MockTaskStore) All() []*domain.Task {
	return m.filter(func(*domain.Task) bool { return true })
}

func (m *MockTaskStore) filter(keep func(*domain.Task) bool) []*domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.Task, 0)
	for _, t := range m.tasks {
		if keep(t) {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out
}
