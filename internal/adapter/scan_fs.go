// Package adapter contains filesystem, persistence and configuration
// adapters for the Vigil CLI.
package adapter

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	m "vigil.dev/pkg/vigil/internal/model"
)

// ScanFS abstracts the filesystem operations the scan pipeline relies on.
// It hides direct `os` access so resolver and fingerprinting logic can be
// exercised against fakes without touching the disk.
type ScanFS interface {
	// Stat returns metadata for a path, following symlinks.
	Stat(path m.Path) (os.FileInfo, error)

	// Lstat returns metadata for a path without following symlinks.
	Lstat(path m.Path) (os.FileInfo, error)

	// Open opens a file for reading.
	Open(path m.Path) (io.ReadCloser, error)

	// WalkDir traverses the tree rooted at root without following
	// symlinked directories.
	WalkDir(root m.Path, fn fs.WalkDirFunc) error

	// Abs returns the cleaned absolute form of a path.
	Abs(path m.Path) (m.Path, error)
}

// LocalScanFS is the os-backed ScanFS implementation.
type LocalScanFS struct{}

// NewLocalScanFS constructs a LocalScanFS ready to be wired into the scan
// pipeline.
func NewLocalScanFS() *LocalScanFS {
	return &LocalScanFS{}
}

// Stat returns metadata for the given path, following symlinks.
func (a *LocalScanFS) Stat(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// Lstat returns metadata for the given path without following symlinks.
func (a *LocalScanFS) Lstat(path m.Path) (os.FileInfo, error) {
	return os.Lstat(string(path))
}

// Open opens the file at path for reading.
func (a *LocalScanFS) Open(path m.Path) (io.ReadCloser, error) {
	return os.Open(string(path)) // #nosec G304 - paths come from operator configuration
}

// WalkDir traverses root. filepath.WalkDir does not descend into symlinked
// directories, which keeps the walk inside the configured scope.
func (a *LocalScanFS) WalkDir(root m.Path, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(string(root), fn)
}

// Abs returns the cleaned absolute form of path.
func (a *LocalScanFS) Abs(path m.Path) (m.Path, error) {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}
