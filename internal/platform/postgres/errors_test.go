package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockResult implements sql.Result for testing
type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) {
	return 0, nil
}

func (m mockResult) RowsAffected() (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.rowsAffected, nil
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectedError error
		expectedMsg   string
	}{
		{
			name:          "nil_error",
			err:           nil,
			expectedError: nil,
		},
		{
			name:          "sql_no_rows",
			err:           sql.ErrNoRows,
			expectedError: store.ErrNotFound,
		},
		{
			name: "unique_violation",
			err: &pgconn.PgError{
				Code:           uniqueViolationCode,
				ConstraintName: usersEmailConstraint,
			},
			expectedError: store.ErrDuplicate,
		},
		{
			name: "foreign_key_violation",
			err: &pgconn.PgError{
				Code:           foreignKeyViolationCode,
				ConstraintName: "tasks_user_id_fkey",
			},
			expectedError: store.ErrInvalidEntity,
			expectedMsg:   "foreign key violation (tasks_user_id_fkey)",
		},
		{
			name: "check_constraint_violation",
			err: &pgconn.PgError{
				Code:           checkViolationCode,
				ConstraintName: "tasks_status_check",
			},
			expectedError: store.ErrInvalidEntity,
			expectedMsg:   "check constraint violation (tasks_status_check)",
		},
		{
			name: "not_null_violation",
			err: &pgconn.PgError{
				Code:       notNullViolationCode,
				ColumnName: "name",
			},
			expectedError: store.ErrInvalidEntity,
			expectedMsg:   "not null violation (name)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MapError(tt.err)

			if tt.err == nil {
				assert.NoError(t, result)
				return
			}

			require.Error(t, result)
			assert.ErrorIs(t, result, tt.expectedError)
			if tt.expectedMsg != "" {
				assert.Contains(t, result.Error(), tt.expectedMsg)
			}
		})
	}

	t.Run("generic_error_passes_through", func(t *testing.T) {
		original := errors.New("connection refused")
		assert.Same(t, original, MapError(original))
	})
}

func TestViolationPredicates(t *testing.T) {
	unique := &pgconn.PgError{Code: uniqueViolationCode}
	fk := &pgconn.PgError{Code: foreignKeyViolationCode}
	check := &pgconn.PgError{Code: checkViolationCode}

	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", unique)))
	assert.False(t, IsUniqueViolation(fk))

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(check))

	assert.True(t, IsCheckConstraintViolation(check))
	assert.False(t, IsCheckConstraintViolation(errors.New("plain")))
	assert.False(t, IsCheckConstraintViolation(nil))
}

func TestCheckRowsAffected(t *testing.T) {
	tests := []struct {
		name        string
		result      sql.Result
		notFound    error
		expectedErr error
		errContains string
	}{
		{
			name:   "one_row",
			result: mockResult{rowsAffected: 1},
		},
		{
			name:        "zero_rows_specific_error",
			result:      mockResult{rowsAffected: 0},
			notFound:    store.ErrTaskNotFound,
			expectedErr: store.ErrTaskNotFound,
		},
		{
			name:        "zero_rows_generic_error",
			result:      mockResult{rowsAffected: 0},
			expectedErr: store.ErrNotFound,
		},
		{
			name:        "rows_affected_fails",
			result:      mockResult{err: errors.New("driver gone")},
			errContains: "failed to get rows affected",
		},
		{
			name:        "nil_result",
			result:      nil,
			errContains: "nil result",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRowsAffected(tt.result, tt.notFound)

			if tt.expectedErr == nil && tt.errContains == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			}
			if tt.errContains != "" {
				assert.Contains(t, err.Error(), tt.errContains)
			}
		})
	}
}

func TestMapUserUniqueViolation(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "username",
			err:      &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: usersUsernameConstraint},
			expected: store.ErrUsernameExists,
		},
		{
			name:     "email",
			err:      &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: usersEmailConstraint},
			expected: store.ErrEmailExists,
		},
		{
			name:     "unknown_constraint",
			err:      &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "other_key"},
			expected: store.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapUserUniqueViolation(tt.err), tt.expected)
		})
	}

	t.Run("not_a_unique_violation", func(t *testing.T) {
		other := errors.New("boom")
		assert.Same(t, other, mapUserUniqueViolation(other))
	})
}
