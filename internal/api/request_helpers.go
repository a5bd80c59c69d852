package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

const (
	userIDParam = "user_id"
	taskIDParam = "task_id"

	defaultLimit = 10
	defaultPage  = 1
)

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", ErrInvalidRequest, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s has invalid format", ErrInvalidRequest, paramName)
	}

	return id, nil
}

// getOwnerAndTaskIDs extracts both path UUIDs of a task route.
func getOwnerAndTaskIDs(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	ownerID, err := getPathUUID(r, userIDParam)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	taskID, err := getPathUUID(r, taskIDParam)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	return ownerID, taskID, nil
}

// getPagination reads the limit and page query parameters. Absent values take
// their defaults; values that are not integers fail with
// domain.ErrInvalidPagination. Range checks are left to the service.
func getPagination(r *http.Request) (limit, page int, err error) {
	limit, err = queryInt(r, "limit", defaultLimit)
	if err != nil {
		return 0, 0, err
	}

	page, err = queryInt(r, "page", defaultPage)
	if err != nil {
		return 0, 0, err
	}

	return limit, page, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidPagination
	}
	return v, nil
}
