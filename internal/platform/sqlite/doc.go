// Package sqlite provides GORM-backed implementations of the store
// interfaces on top of an embedded SQLite database. It serves local
// development (no PostgreSQL server required) and the in-memory databases
// used by service and handler tests.
package sqlite
