package tempfiles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSaveAndRemove(t *testing.T) {
	dir, err := New(filepath.Join(t.TempDir(), "scratch"), time.Hour)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	path, err := dir.Save("upload.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(path, "_upload.txt") {
		t.Errorf("path = %q, want uuid-prefixed original name", path)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "hello" {
		t.Errorf("content = %q/%v, want hello", data, err)
	}

	dir.Remove(path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still exists after remove")
	}
	// Removing again is quiet.
	dir.Remove(path)
}

func TestSweepRemovesOnlyStaleFiles(t *testing.T) {
	root := t.TempDir()
	dir, err := New(root, time.Hour)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	stale, err := dir.Save("old.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	fresh, err := dir.Save("new.txt", strings.NewReader("y"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if deleted := dir.Sweep(); deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file survived sweep")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh file removed by sweep: %v", err)
	}
}
