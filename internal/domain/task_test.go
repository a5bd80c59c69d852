package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	scheduled := time.Date(2023, time.August, 6, 12, 25, 0, 0, time.UTC)

	task, err := NewTask(userID, "Do something", "This will do something", scheduled, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if task.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, task.UserID)
	}
	if task.Status != TaskStatusPending {
		t.Errorf("Expected default status %s, got %s", TaskStatusPending, task.Status)
	}
	if !task.ScheduledTime.Equal(scheduled) {
		t.Errorf("Expected scheduled time %v, got %v", scheduled, task.ScheduledTime)
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}

	done, err := NewTask(userID, "Do something", "This will do something", scheduled, TaskStatusDone)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if done.Status != TaskStatusDone {
		t.Errorf("Expected status %s, got %s", TaskStatusDone, done.Status)
	}

	if _, err := NewTask(uuid.Nil, "Do something", "desc", scheduled, ""); !errors.Is(err, ErrEmptyTaskUserID) {
		t.Errorf("Expected error %v, got %v", ErrEmptyTaskUserID, err)
	}
	if _, err := NewTask(userID, "", "desc", scheduled, ""); !errors.Is(err, ErrEmptyTaskName) {
		t.Errorf("Expected error %v, got %v", ErrEmptyTaskName, err)
	}
	if _, err := NewTask(userID, "Do something", "desc", time.Time{}, ""); !errors.Is(err, ErrEmptyScheduleTime) {
		t.Errorf("Expected error %v, got %v", ErrEmptyScheduleTime, err)
	}
	if _, err := NewTask(userID, "Do something", "desc", scheduled, "in progress"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Expected error %v, got %v", ErrInvalidStatus, err)
	}
}

func TestParseTaskStatus(t *testing.T) {
	t.Parallel()

	valid := []string{"pending", "in_progress", "done"}
	for _, raw := range valid {
		status, err := ParseTaskStatus(raw)
		if err != nil {
			t.Errorf("ParseTaskStatus(%q) returned error %v", raw, err)
		}
		if string(status) != raw {
			t.Errorf("ParseTaskStatus(%q) = %q", raw, status)
		}
	}

	invalid := []string{"", "in progress", "Pending", "DONE", "completed", "processing", " pending"}
	for _, raw := range invalid {
		if _, err := ParseTaskStatus(raw); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("ParseTaskStatus(%q) error = %v, want %v", raw, err, ErrInvalidStatus)
		}
	}
}

func TestParseScheduledTime(t *testing.T) {
	t.Parallel()

	got, err := ParseScheduledTime("2023-08-06 12:25:00")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	want := time.Date(2023, time.August, 6, 12, 25, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	invalid := []string{
		"",
		"2023-08-06",
		"2023-08-06T12:25:00",
		"2023-08-06 12:25",
		"2023-8-6 12:25:00",
		"2023-08-06 1:25:00",
		"2023-08-06 12:25:00Z",
		"06-08-2023 12:25:00",
		"2023-02-30 12:00:00",
		"2023-13-01 12:00:00",
		"2023-08-06 24:00:00",
		"not a date at all",
	}
	for _, raw := range invalid {
		if _, err := ParseScheduledTime(raw); !errors.Is(err, ErrInvalidTimeFormat) {
			t.Errorf("ParseScheduledTime(%q) error = %v, want %v", raw, err, ErrInvalidTimeFormat)
		}
	}
}

func TestFormatScheduledTime_RoundTrip(t *testing.T) {
	t.Parallel()

	raw := "2024-02-29 23:59:59"
	parsed, err := ParseScheduledTime(raw)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := FormatScheduledTime(parsed); got != raw {
		t.Errorf("Expected %q, got %q", raw, got)
	}
}

func TestTaskIsDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2023, time.August, 6, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		status    TaskStatus
		scheduled time.Time
		want      bool
	}{
		{"pending in the past", TaskStatusPending, now.Add(-time.Minute), true},
		{"pending exactly now", TaskStatusPending, now, true},
		{"pending in the future", TaskStatusPending, now.Add(time.Second), false},
		{"in progress in the past", TaskStatusInProgress, now.Add(-time.Hour), false},
		{"done in the past", TaskStatusDone, now.Add(-time.Hour), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			task := Task{Status: tt.status, ScheduledTime: tt.scheduled}
			if got := task.IsDue(now); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}
