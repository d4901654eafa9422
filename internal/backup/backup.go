// Package backup persists best-effort JSON snapshots of the week grid.
// The schedule store treats it as an opaque load/save hook; losing a
// snapshot only costs the reservations made since the last save.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/court-reservation/internal/application"
)

// Store writes week snapshots to a single JSON file. Saves are serialized
// so overlapping mutations never interleave partial writes.
type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewStore constructs a Store targeting the given file path.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Save writes the snapshot, replacing the previous file atomically via a
// temp file rename.
func (s *Store) Save(snapshot application.WeekSnapshot) error {
	if s == nil || s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode schedule snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write schedule snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace schedule snapshot: %w", err)
	}
	return nil
}

// Load reads the last saved snapshot. A missing file is not an error; it
// simply means a first run, and (nil, nil) is returned.
func (s *Store) Load() (application.WeekSnapshot, error) {
	if s == nil || s.path == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read schedule snapshot: %w", err)
	}

	var snapshot application.WeekSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode schedule snapshot %s: %w", filepath.Base(s.path), err)
	}
	return snapshot, nil
}

// Hook adapts the store into the schedule store's onChange callback,
// logging failures instead of propagating them.
func (s *Store) Hook() func(application.WeekSnapshot) {
	return func(snapshot application.WeekSnapshot) {
		if err := s.Save(snapshot); err != nil {
			s.logger.Warn("failed to save schedule snapshot", "path", s.path, "error", err)
		}
	}
}
