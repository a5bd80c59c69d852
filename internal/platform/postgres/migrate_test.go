package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(embeddedMigrations, "migrations")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, entry := range entries {
		content, err := fs.ReadFile(embeddedMigrations, "migrations/"+entry.Name())
		require.NoError(t, err)

		text := string(content)
		assert.Contains(t, text, "-- +goose Up", entry.Name())
		assert.Contains(t, text, "-- +goose Down", entry.Name())
	}

	tasks, err := fs.ReadFile(embeddedMigrations, "migrations/00002_create_tasks_table.sql")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(tasks), "ON DELETE CASCADE"))
	assert.True(t, strings.Contains(string(tasks), "CHECK (status IN ('pending', 'in_progress', 'done'))"))
}
