package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Store writes rendered containers to a directory, one file per request.
type Store struct {
	dir    string
	logger *log.Logger
}

// New creates a Store rooted at dir. The directory is created on first Save.
func New(dir string, logger *log.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Dir returns the directory files are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes data to <dir>/<id>.wav and returns the path. The write is
// atomic: an interrupted save never leaves a truncated file under the
// final name.
func (s *Store) Save(id string, data []byte) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid file id %q", id)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(s.dir, id+".wav")
	tmp, err := os.CreateTemp(s.dir, ".melodia-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename %s: %w", path, err)
	}

	if s.logger != nil {
		s.logger.Printf("store: wrote %s (%d bytes)", path, len(data))
	}
	return path, nil
}
