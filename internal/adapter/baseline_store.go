package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	m "vigil.dev/pkg/vigil/internal/model"
)

// ErrBaselineNotFound is returned by Load when no baseline has been
// established yet.
var ErrBaselineNotFound = errors.New("baseline not found")

// ErrBaselineLocked is returned when another invocation holds the store
// lock.
var ErrBaselineLocked = errors.New("baseline store is locked by another process")

// BaselineStore is the scan pipeline's only dependency on persistence.
// Save must have atomic replace semantics: a concurrent reader observes
// either the complete prior baseline or the complete new one.
type BaselineStore interface {
	Load() (m.Snapshot, error)
	Save(snapshot m.Snapshot) error
	Exists() bool
	Location() string
}

// FileBaselineStore persists the baseline as a JSON document. Writes go to
// a temporary file in the same directory and are swapped in with a single
// rename, so an interrupted save never leaves a half-written baseline. A
// lock file guards against overlapping invocations.
type FileBaselineStore struct {
	path string
}

// NewFileBaselineStore constructs a store backed by the given file path.
func NewFileBaselineStore(path string) *FileBaselineStore {
	return &FileBaselineStore{path: path}
}

// Location returns the backing file path.
func (s *FileBaselineStore) Location() string {
	return s.path
}

// Exists reports whether a baseline has been persisted.
func (s *FileBaselineStore) Exists() bool {
	info, err := os.Stat(s.path)

	return err == nil && info.Mode().IsRegular()
}

// Load reads and decodes the stored baseline.
func (s *FileBaselineStore) Load() (m.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return m.Snapshot{}, ErrBaselineNotFound
		}

		return m.Snapshot{}, fmt.Errorf("failed to read baseline %s: %w", s.path, err)
	}

	var snapshot m.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return m.Snapshot{}, fmt.Errorf("baseline %s is corrupt: %w", s.path, err)
	}

	if snapshot.Files == nil {
		snapshot.Files = map[m.Path]m.FileRecord{}
	}

	return snapshot, nil
}

// Save encodes the snapshot and atomically replaces the stored baseline.
func (s *FileBaselineStore) Save(snapshot m.Snapshot) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create baseline directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode baseline: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary baseline: %w", err)
	}

	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return fmt.Errorf("failed to write temporary baseline: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("failed to flush temporary baseline: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("failed to replace baseline %s: %w", s.path, err)
	}

	slog.Info("baseline saved", "path", s.path, "files", snapshot.Len(), "failures", len(snapshot.Failures))

	return nil
}

// lock takes the advisory store lock and returns a release func. The lock
// file is created exclusively so two overlapping invocations can never both
// write the baseline.
func (s *FileBaselineStore) lock() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create baseline directory: %w", err)
	}

	lockPath := s.path + ".lock"

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600) // #nosec G304
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBaselineLocked, lockPath)
		}

		return nil, fmt.Errorf("failed to take baseline lock: %w", err)
	}

	return func() {
		_ = f.Close()

		if err := os.Remove(lockPath); err != nil {
			slog.Error("failed to release baseline lock", "path", lockPath, "error", err)
		}
	}, nil
}
