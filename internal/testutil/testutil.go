// Package testutil provides shared test helpers for setting up temporary
// vault databases.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/munin-vault/munin/internal/models"
	"github.com/munin-vault/munin/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "munin-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// SeedArtifact inserts a note artifact and returns it.
func SeedArtifact(t *testing.T, db *store.DB, title string) *models.Artifact {
	t.Helper()
	a, err := db.AddArtifact(models.Artifact{Type: models.TypeNote, Title: title, Content: title})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

// Clock returns a deterministic time source starting at base and stepping
// forward on each call, so updated_at ordering is stable in tests.
func Clock(base time.Time) func() time.Time {
	t := base
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}
