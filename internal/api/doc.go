// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts the user and task services to JSON over
// HTTP and maps their errors to status codes without leaking internal
// detail.
package api
