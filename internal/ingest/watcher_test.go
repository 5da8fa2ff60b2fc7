package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/munin-vault/munin/internal/classifier"
	"github.com/munin-vault/munin/internal/models"
	"github.com/munin-vault/munin/internal/testutil"
	"github.com/munin-vault/munin/internal/vaultservice"
)

func TestSkip(t *testing.T) {
	skipped := []string{
		"/drop/.hidden",
		"/drop/movie.mkv.part",
		"/drop/page.crdownload",
		"/drop/scratch.tmp",
		"/drop/.processed/done.txt",
	}
	for _, p := range skipped {
		if !skip(p) {
			t.Errorf("skip(%q) = false", p)
		}
	}
	if skip("/drop/notes.txt") {
		t.Error("regular files must not be skipped")
	}
}

func TestMediaType(t *testing.T) {
	cases := map[string]string{
		"a.png":   "image/png",
		"a.weird": "application/octet-stream",
	}
	for name, want := range cases {
		if got := mediaType(name); got != want {
			t.Errorf("mediaType(%q) = %q, want %q", name, got, want)
		}
	}
}

// Run sweeps files already present before watching. A pre-cancelled context
// lets the loop exit right after the sweep.
func TestRunSweepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("dropped"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	db := testutil.TestDB(t)
	svc := vaultservice.New(db, &classifier.Classifier{}, nil, nil, nil)
	w := &Watcher{Dir: dir, Service: svc}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(ctx); err != nil {
		t.Fatal(err)
	}

	artifacts, _ := db.ListArtifacts()
	if len(artifacts) != 1 {
		t.Fatalf("artifacts = %d, want the one visible file", len(artifacts))
	}
	if artifacts[0].Type != models.TypeNote || artifacts[0].Title != "notes" {
		t.Errorf("got %+v", artifacts[0])
	}

	// The ingested file moved to the archive subdirectory.
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); !os.IsNotExist(err) {
		t.Error("source file not archived")
	}
	if _, err := os.Stat(filepath.Join(dir, archiveDir, "notes.txt")); err != nil {
		t.Errorf("archived copy missing: %v", err)
	}
}
