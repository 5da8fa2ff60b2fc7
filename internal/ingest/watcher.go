// Package ingest captures files dropped into a watched folder. Each file
// that appears is classified and committed as an artifact, then moved to an
// archive subdirectory so the drop folder stays empty.
package ingest

import (
	"context"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/munin-vault/munin/internal/vaultservice"
)

// archiveDir is the subdirectory processed files are moved into. It is
// ignored by the watcher.
const archiveDir = ".processed"

// settleDelay gives the writing process time to finish before the file is
// read. Editors and download managers write in bursts.
const settleDelay = 300 * time.Millisecond

// Watcher ingests files from a drop folder.
type Watcher struct {
	Dir     string
	Service *vaultservice.Service
	Log     *slog.Logger
}

// Run processes files until ctx is cancelled. Files already present at
// startup are picked up first, then fsnotify events drive the rest.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Join(w.Dir, archiveDir), 0o755); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return err
	}
	w.log().Info("ingest: watching drop folder", slog.String("dir", w.Dir))

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log().Info("ingest: stopped")
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if skip(ev.Name) {
				continue
			}
			time.Sleep(settleDelay)
			w.ingest(ctx, ev.Name)

		case watchErr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log().Error("ingest: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// sweep ingests files that were already in the folder before the watcher
// started.
func (w *Watcher) sweep(ctx context.Context) {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		w.log().Warn("ingest: sweep failed", slog.String("error", err.Error()))
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(w.Dir, e.Name())
		if skip(path) {
			continue
		}
		w.ingest(ctx, path)
	}
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		w.log().Warn("ingest: read failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	name := filepath.Base(path)
	a, err := w.Service.CaptureFile(ctx, vaultservice.FileCaptureRequest{
		Name:      name,
		MediaType: mediaType(name),
		Data:      data,
	})
	if err != nil {
		w.log().Warn("ingest: capture failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	w.log().Info("ingest: captured", slog.String("path", path), slog.String("id", a.ID))

	dest := filepath.Join(w.Dir, archiveDir, name)
	if err := os.Rename(path, dest); err != nil {
		w.log().Warn("ingest: archive failed", slog.String("path", path), slog.String("error", err.Error()))
	}
}

// skip filters out archived, hidden and partially written files.
func skip(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch filepath.Ext(name) {
	case ".part", ".crdownload", ".tmp":
		return true
	}
	return strings.Contains(path, string(filepath.Separator)+archiveDir+string(filepath.Separator))
}

func mediaType(name string) string {
	mt := mime.TypeByExtension(filepath.Ext(name))
	if mt == "" {
		return "application/octet-stream"
	}
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = mt[:i]
	}
	return mt
}

func (w *Watcher) log() *slog.Logger {
	if w.Log != nil {
		return w.Log
	}
	return slog.Default()
}
