package api

import (
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
)

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Username  string `json:"username"   validate:"required,alphanum,min=3,max=30"`
	FirstName string `json:"first_name" validate:"required,min=2,max=50"`
	LastName  string `json:"last_name"  validate:"required,min=2,max=50"`
	Email     string `json:"email"      validate:"required,email"`
}

// UpdateUserRequest represents the request body for updating a user.
// Omitted fields keep their current value.
type UpdateUserRequest struct {
	Username  *string `json:"username"   validate:"omitempty,alphanum,min=3,max=30"`
	FirstName *string `json:"first_name" validate:"omitempty,min=2,max=50"`
	LastName  *string `json:"last_name"  validate:"omitempty,min=2,max=50"`
	Email     *string `json:"email"      validate:"omitempty,email"`
}

// UserResponse represents the response data for a user
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateTaskRequest represents the request body for creating a task.
// Status and scheduled_time formats are checked by the task service.
type CreateTaskRequest struct {
	Name          string  `json:"name"           validate:"required,min=3,max=100"`
	Description   string  `json:"description"    validate:"required,min=10"`
	ScheduledTime string  `json:"scheduled_time" validate:"required"`
	Status        *string `json:"status"`
}

// UpdateTaskRequest represents the request body for updating a task.
// Omitted fields keep their current value.
type UpdateTaskRequest struct {
	Name          *string `json:"name"           validate:"omitempty,min=3,max=100"`
	Description   *string `json:"description"    validate:"omitempty,min=10"`
	ScheduledTime *string `json:"scheduled_time"`
	Status        *string `json:"status"`
}

// UpdateTaskStatusRequest represents the request body for a status change
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// TaskResponse represents the response data for a task
type TaskResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	ScheduledTime string    `json:"scheduled_time"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TaskListResponse is one page of a user's tasks. TotalCount counts all of
// the user's tasks regardless of the page window.
type TaskListResponse struct {
	Tasks      []TaskResponse `json:"tasks"`
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func usersToResponse(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userToResponse(u))
	}
	return out
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:            task.ID.String(),
		UserID:        task.UserID.String(),
		Name:          task.Name,
		Description:   task.Description,
		ScheduledTime: domain.FormatScheduledTime(task.ScheduledTime),
		Status:        string(task.Status),
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}

func pageToResponse(page *service.TaskPage) TaskListResponse {
	return TaskListResponse{
		Tasks:      tasksToResponse(page.Tasks),
		TotalCount: page.TotalCount,
		Page:       page.Page,
		Limit:      page.Limit,
	}
}
