package db

import (
	"testing"
)

// NewTestTodoDB creates an in-memory todo database for testing.
// The database is automatically closed when the test completes.
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    t.Parallel()
//	    tdb := db.NewTestTodoDB(t)
//	    // use tdb...
//	}
func NewTestTodoDB(t testing.TB) *TodoDB {
	t.Helper()

	d, err := OpenInMemory()
	if err != nil {
		t.Fatalf("create test todo db: %v", err)
	}

	t.Cleanup(func() {
		_ = d.Close()
	})

	return NewTodoDB(d)
}
