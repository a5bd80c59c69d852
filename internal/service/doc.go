// Package service contains the application use cases for users and tasks.
// It applies the lifecycle rules (status enumeration, scheduled time format,
// owner scoping, pagination) before anything reaches the store layer and
// translates store failures into service-level errors.
//
// Error handling principles:
//  1. Expected conditions are returned as sentinel errors (ErrTaskNotFound,
//     ErrUserNotFound, ErrEmailExists, ErrUsernameExists and the domain
//     validation errors) and checked with errors.Is
//  2. Unexpected failures are wrapped in TaskServiceError or UserServiceError
//  3. The API layer maps these errors to HTTP status codes
package service
