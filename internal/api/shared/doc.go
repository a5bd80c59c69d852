// Package shared holds the request decoding, validation and JSON response
// helpers used by the API handlers and middleware.
package shared
