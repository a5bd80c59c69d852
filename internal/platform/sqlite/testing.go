package sqlite

import (
	"testing"

	"gorm.io/gorm"
)

// NewTestDB returns a migrated private in-memory database that is closed
// when the test completes.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := Open(InMemoryDSN)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		if err := Close(db); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})

	return db
}
