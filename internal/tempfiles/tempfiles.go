// Package tempfiles manages the scratch directory uploaded documents
// pass through on their way into the ingestion pipeline.
package tempfiles

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Dir is a temp directory with an age-based sweep.
type Dir struct {
	path   string
	maxAge time.Duration
}

// New creates the temp directory if needed. Files older than maxAge
// are removed by Sweep.
func New(path string, maxAge time.Duration) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &Dir{path: path, maxAge: maxAge}, nil
}

// Save writes the content under a unique name derived from filename
// and returns the full path.
func (d *Dir) Save(filename string, content io.Reader) (string, error) {
	unique := fmt.Sprintf("%s_%s", uuid.New().String()[:8], filepath.Base(filename))
	path := filepath.Join(d.path, unique)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// Remove deletes a previously saved file. Missing files are ignored.
func (d *Dir) Remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN: failed to remove temp file %s: %v", path, err)
	}
}

// Sweep deletes files older than the configured max age and returns
// how many were removed.
func (d *Dir) Sweep() int {
	cutoff := time.Now().Add(-d.maxAge)
	deleted := 0

	entries, err := os.ReadDir(d.path)
	if err != nil {
		log.Printf("WARN: temp sweep failed: %v", err)
		return 0
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(d.path, entry.Name())); err == nil {
				deleted++
			}
		}
	}
	if deleted > 0 {
		log.Printf("Temp sweep: removed %d stale files", deleted)
	}
	return deleted
}
