package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Possible task status values. Any status may follow any other through an
// explicit update; the sweeper only ever moves pending to done.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// ScheduledTimeLayout is the only accepted wire format for scheduled times.
const ScheduledTimeLayout = "2006-01-02 15:04:05"

// time.Parse accepts single-digit hours for "15", so the shape is checked separately.
var scheduledTimePattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2} [0-9]{2}:[0-9]{2}:[0-9]{2}$`)

// Validation errors for Task
var (
	ErrEmptyTaskID       = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrEmptyTaskUserID   = fmt.Errorf("%w: task user ID cannot be empty", ErrValidation)
	ErrEmptyTaskName     = fmt.Errorf("%w: task name cannot be empty", ErrValidation)
	ErrEmptyScheduleTime = fmt.Errorf("%w: scheduled time cannot be empty", ErrValidation)
)

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	ScheduledTime time.Time  `json:"scheduled_time"`
	Status        TaskStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewTask creates a Task with a fresh ID and timestamps.
// An empty status defaults to pending.
func NewTask(
	userID uuid.UUID,
	name, description string,
	scheduledTime time.Time,
	status TaskStatus,
) (*Task, error) {
	if status == "" {
		status = TaskStatusPending
	}

	now := time.Now().UTC()
	task := &Task{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          name,
		Description:   description,
		ScheduledTime: scheduledTime.UTC(),
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the invariants every persisted task must satisfy.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}

	if t.Name == "" {
		return ErrEmptyTaskName
	}

	if t.ScheduledTime.IsZero() {
		return ErrEmptyScheduleTime
	}

	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}

	return nil
}

// IsDue reports whether the sweeper should complete the task at now.
func (t *Task) IsDue(now time.Time) bool {
	return t.Status == TaskStatusPending && !t.ScheduledTime.After(now)
}

// IsValid reports whether s is one of the enumerated statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

// ParseTaskStatus converts raw input to a TaskStatus.
// Returns ErrInvalidStatus for anything outside the enumerated set.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	status := TaskStatus(raw)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// ParseScheduledTime parses raw in ScheduledTimeLayout as a UTC instant.
// Returns ErrInvalidTimeFormat when the shape is wrong or the date does not exist.
func ParseScheduledTime(raw string) (time.Time, error) {
	if !scheduledTimePattern.MatchString(raw) {
		return time.Time{}, ErrInvalidTimeFormat
	}

	t, err := time.ParseInLocation(ScheduledTimeLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidTimeFormat
	}

	return t, nil
}

// FormatScheduledTime renders t in ScheduledTimeLayout (UTC).
func FormatScheduledTime(t time.Time) string {
	return t.UTC().Format(ScheduledTimeLayout)
}
