package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
// Every lookup except FindDue is scoped by the owning user's ID; a task is
// never reachable by its ID alone.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrUserNotFound if the owning user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// FindOne retrieves the task matching both taskID and ownerID.
	// Returns ErrTaskNotFound when there is no such task.
	FindOne(ctx context.Context, taskID, ownerID uuid.UUID) (*domain.Task, error)

	// Save overwrites the mutable fields (name, description, scheduled time,
	// status) of an existing task and refreshes UpdatedAt on the passed task.
	// Returns ErrTaskNotFound if the task no longer exists.
	Save(ctx context.Context, task *domain.Task) error

	// CompleteDue marks the task done only while it is still pending and
	// scheduled at or before now; no other column is written. On success the
	// passed task's Status and UpdatedAt are refreshed.
	// Returns ErrTaskNotFound when the row was deleted, rescheduled or moved
	// out of pending since it was read.
	CompleteDue(ctx context.Context, task *domain.Task, now time.Time) error

	// Delete permanently removes the task.
	// Returns ErrTaskNotFound if it was already removed.
	Delete(ctx context.Context, task *domain.Task) error

	// FindPage returns up to limit tasks owned by ownerID starting at offset,
	// in insertion order, together with the owner's total task count.
	FindPage(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*domain.Task, int, error)

	// Search returns the owner's tasks whose name, description or status
	// contains query, ignoring case.
	Search(ctx context.Context, ownerID uuid.UUID, query string) ([]*domain.Task, error)

	// FindDue returns pending tasks of every owner scheduled at or before now.
	FindDue(ctx context.Context, now time.Time) ([]*domain.Task, error)
}
