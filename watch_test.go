package sprout

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchLibraryReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.yaml")
	other := filepath.Join(dir, "other.yaml")
	if err := os.WriteFile(path, []byte(`behaviors: {}`), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := WatchLibrary(path)
	if err != nil {
		t.Fatalf("WatchLibrary: %v", err)
	}
	defer w.Close()

	// Unwatched files in the same directory are ignored.
	if err := os.WriteFile(other, []byte(`x`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`behaviors: {a: {wait: 1}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	abs, _ := filepath.Abs(path)
	select {
	case got := <-w.Changes:
		if got != abs {
			t.Errorf("change for %q, want %q", got, abs)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatchLibraryClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := WatchLibrary(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	// Second close is a no-op and the channels are closed.
	_ = w.Close()
	if _, ok := <-w.Changes; ok {
		t.Error("Changes still open")
	}
}

func TestWatchLibraryMissingDir(t *testing.T) {
	if _, err := WatchLibrary(filepath.Join(t.TempDir(), "nope", "lib.yaml")); err == nil {
		t.Error("watching a missing directory succeeded")
	}
}
