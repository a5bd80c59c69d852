package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service"
)

// TaskHandler handles task-related HTTP requests. Every route is scoped to
// the user named in the path.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if taskService == nil {
		panic("taskService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /api/users/{user_id}/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	ownerID, err := getPathUUID(r, userIDParam)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), ownerID, service.CreateTaskInput{
		Name:          req.Name,
		Description:   req.Description,
		ScheduledTime: req.ScheduledTime,
		Status:        req.Status,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// GetTask handles GET /api/users/{user_id}/tasks/{task_id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	ownerID, taskID, err := getOwnerAndTaskIDs(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.GetTask(r.Context(), ownerID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /api/users/{user_id}/tasks/{task_id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ownerID, taskID, err := getOwnerAndTaskIDs(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), ownerID, taskID, service.UpdateTaskInput{
		Name:          req.Name,
		Description:   req.Description,
		ScheduledTime: req.ScheduledTime,
		Status:        req.Status,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTaskStatus handles PUT /api/users/{user_id}/tasks/{task_id}/status
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	ownerID, taskID, err := getOwnerAndTaskIDs(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateTaskStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.UpdateTaskStatus(r.Context(), ownerID, taskID, req.Status)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task status")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/users/{user_id}/tasks/{task_id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ownerID, taskID, err := getOwnerAndTaskIDs(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), ownerID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListTasks handles GET /api/users/{user_id}/tasks?limit=&page=
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	ownerID, err := getPathUUID(r, userIDParam)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	limit, page, err := getPagination(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.taskService.ListTasks(r.Context(), ownerID, limit, page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(result))
}

// SearchTasks handles GET /api/users/{user_id}/tasks/search?query=
func (h *TaskHandler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	ownerID, err := getPathUUID(r, userIDParam)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	query := r.URL.Query().Get("query")
	tasks, err := h.taskService.SearchTasks(r.Context(), ownerID, query)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to search tasks")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("search served",
		slog.String("user_id", ownerID.String()),
		slog.Int("results", len(tasks)))
	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// decodeAndValidate decodes the JSON body into req and runs struct
// validation, writing a 400 response and returning false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			HandleAPIError(w, r, errMissingBody, "")
			return false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}

	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}

	return true
}
