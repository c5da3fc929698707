package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
}

func waitEvent(t *testing.T, w *Watcher, match func(Event) bool) Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case e, ok := <-w.Events():
			if !ok {
				t.Fatal("events channel closed")
			}
			if match(e) {
				return e
			}
		case <-timeout:
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestNew(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	defer w.Close()

	if w.events == nil || w.errors == nil {
		t.Error("channels should not be nil")
	}
	if w.debounce == nil {
		t.Error("default config should debounce")
	}
}

func TestWatcher_AddRemove(t *testing.T) {
	w, err := New(WithDebounce(0))
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	defer w.Close()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	writeFile(t, a, "a")
	writeFile(t, b, "b")

	if err := w.Add(uuid.New(), a); err != nil {
		t.Fatalf("Add error = %v", err)
	}
	if err := w.Add(uuid.New(), b); err != nil {
		t.Fatalf("Add error = %v", err)
	}
	if err := w.Add(uuid.New(), a); err != ErrAlreadyWatching {
		t.Errorf("Add again error = %v, want ErrAlreadyWatching", err)
	}

	stats := w.Stats()
	if stats.WatchedFiles != 2 || stats.WatchedDirs != 1 {
		t.Errorf("Stats = %+v, want 2 files in 1 dir", stats)
	}
	if files := w.WatchedFiles(); len(files) != 2 || files[0] != a {
		t.Errorf("WatchedFiles = %v", files)
	}

	if err := w.Remove(a); err != nil {
		t.Fatalf("Remove error = %v", err)
	}
	if w.IsWatching(a) {
		t.Error("should not be watching a.txt after Remove")
	}
	if err := w.Remove(a); err != ErrNotWatching {
		t.Errorf("Remove again error = %v, want ErrNotWatching", err)
	}
	if err := w.Remove(b); err != nil {
		t.Fatalf("Remove error = %v", err)
	}
	if stats := w.Stats(); stats.WatchedDirs != 0 {
		t.Errorf("WatchedDirs = %d, want 0", stats.WatchedDirs)
	}
}

func TestWatcher_AddInvalid(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	defer w.Close()

	if err := w.Add(uuid.New(), "/nonexistent/path/file.txt"); err != ErrPathNotExist {
		t.Errorf("Add nonexistent error = %v, want ErrPathNotExist", err)
	}
	if err := w.Add(uuid.New(), t.TempDir()); err != ErrNotRegularFile {
		t.Errorf("Add directory error = %v, want ErrNotRegularFile", err)
	}
}

func TestWatcher_WriteEvent(t *testing.T) {
	w, err := New(WithDebounce(0))
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	defer w.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	other := filepath.Join(dir, "other.txt")
	writeFile(t, path, "one")

	id := uuid.New()
	if err := w.Add(id, path); err != nil {
		t.Fatalf("Add error = %v", err)
	}

	writeFile(t, other, "ignored")
	writeFile(t, path, "two")

	e := waitEvent(t, w, func(e Event) bool { return e.Op.Has(OpWrite) })
	if e.DocID != id {
		t.Errorf("DocID = %v, want %v", e.DocID, id)
	}
	if filepath.Base(e.Path) != "doc.txt" {
		t.Errorf("Path = %q, want doc.txt", e.Path)
	}
}

func TestWatcher_RemoveEvent(t *testing.T) {
	w, err := New(WithDebounce(0))
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	defer w.Close()

	path := filepath.Join(t.TempDir(), "doc.txt")
	writeFile(t, path, "one")
	if err := w.Add(uuid.New(), path); err != nil {
		t.Fatalf("Add error = %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove error = %v", err)
	}
	waitEvent(t, w, func(e Event) bool { return e.Gone() })
}

func TestWatcher_Debounced(t *testing.T) {
	w, err := New(WithDebounce(time.Hour))
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	defer w.Close()

	path := filepath.Join(t.TempDir(), "doc.txt")
	writeFile(t, path, "one")
	if err := w.Add(uuid.New(), path); err != nil {
		t.Fatalf("Add error = %v", err)
	}

	for _, s := range []string{"two", "three", "four"} {
		writeFile(t, path, s)
	}

	deadline := time.Now().Add(5 * time.Second)
	for w.Stats().PendingEvents == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no event became pending")
		}
		time.Sleep(10 * time.Millisecond)
	}
	// Let the remaining writes land in the same window.
	time.Sleep(50 * time.Millisecond)
	w.Flush()

	waitEvent(t, w, func(e Event) bool { return e.Op.Has(OpWrite) })
	select {
	case e := <-w.Events():
		t.Errorf("unexpected second event %+v", e)
	default:
	}
}

func TestWatcher_Close(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New error = %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close error = %v", err)
	}

	if _, ok := <-w.Events(); ok {
		t.Error("events channel should be closed")
	}
	if _, ok := <-w.Errors(); ok {
		t.Error("errors channel should be closed")
	}

	path := filepath.Join(t.TempDir(), "doc.txt")
	writeFile(t, path, "x")
	if err := w.Add(uuid.New(), path); err != ErrWatcherClosed {
		t.Errorf("Add after Close error = %v, want ErrWatcherClosed", err)
	}
}
