// Package domain implements the scan, fingerprint and diff pipeline for
// file integrity monitoring.
package domain

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"

	"vigil.dev/pkg/vigil/internal/adapter"
	m "vigil.dev/pkg/vigil/internal/model"
)

// Resolver expands include/exclude rules into the concrete set of regular
// files to fingerprint. Exclusion is equal-or-descendant matching and
// always wins over inclusion.
type Resolver struct {
	fs adapter.ScanFS
}

// NewResolver constructs a Resolver backed by the provided filesystem
// adapter.
func NewResolver(scanFS adapter.ScanFS) *Resolver {
	return &Resolver{fs: scanFS}
}

// Resolve returns the sorted, deduplicated set of absolute regular-file
// paths selected by the config, plus warnings for include entries that
// contributed nothing. Missing include paths are warnings, never fatal.
//
// Symlink policy: directories reached through a symlink are never descended
// into, so the walk cannot escape the configured scope. A symlink whose
// target is a regular file is kept and fingerprinted through to the target
// content.
func (r *Resolver) Resolve(cfg m.Config) ([]m.Path, []string, error) {
	excludes, err := r.normalizeAll(cfg.Exclude)
	if err != nil {
		return nil, nil, err
	}

	seen := map[m.Path]struct{}{}

	var warnings []string

	for _, entry := range cfg.Include {
		root, err := r.fs.Abs(m.Path(entry))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve include path %q: %w", entry, err)
		}

		info, err := r.fs.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				warnings = append(warnings, fmt.Sprintf("include path %s does not exist", root))
				slog.Warn("include path does not exist", "path", root)

				continue
			}

			warnings = append(warnings, fmt.Sprintf("include path %s: %v", root, err))

			continue
		}

		switch {
		case info.Mode().IsRegular():
			if !isExcluded(root, excludes) {
				seen[root] = struct{}{}
			}
		case info.IsDir():
			walkWarnings := r.walk(root, excludes, seen)
			warnings = append(warnings, walkWarnings...)
		default:
			warnings = append(warnings, fmt.Sprintf("include path %s is not a regular file or directory", root))
		}
	}

	paths := make([]m.Path, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	return paths, warnings, nil
}

// walk collects regular files under root, honoring exclusion on both
// directories and files. Unreadable directories are reported as warnings
// and skipped.
func (r *Resolver) walk(root m.Path, excludes []m.Path, seen map[m.Path]struct{}) []string {
	var warnings []string

	err := r.fs.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("walk %s: %v", path, err))
			slog.Warn("walk error", "path", path, "error", err)

			return nil
		}

		p := m.Path(path)

		if d.IsDir() {
			if isExcluded(p, excludes) {
				return fs.SkipDir
			}

			return nil
		}

		if isExcluded(p, excludes) {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			// Follow file symlinks only; symlinked directories stay out
			// of scope.
			target, statErr := r.fs.Stat(p)
			if statErr != nil || !target.Mode().IsRegular() {
				return nil
			}

			seen[p] = struct{}{}

			return nil
		}

		if d.Type().IsRegular() {
			seen[p] = struct{}{}
		}

		return nil
	})
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("walk %s: %v", root, err))
	}

	return warnings
}

func (r *Resolver) normalizeAll(entries []string) ([]m.Path, error) {
	paths := make([]m.Path, 0, len(entries))

	for _, entry := range entries {
		abs, err := r.fs.Abs(m.Path(entry))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve exclude path %q: %w", entry, err)
		}

		paths = append(paths, abs)
	}

	return paths, nil
}

// isExcluded reports whether path equals, or is a descendant of, any
// exclude entry.
func isExcluded(path m.Path, excludes []m.Path) bool {
	for _, ex := range excludes {
		if path == ex || strings.HasPrefix(string(path), string(ex)+string(os.PathSeparator)) {
			return true
		}
	}

	return false
}
