package model

import "time"

// ChangeKind classifies one path's outcome from a diff.
type ChangeKind string

// Change classifications.
const (
	Added      ChangeKind = "added"
	Removed    ChangeKind = "removed"
	Modified   ChangeKind = "modified"
	Unchanged  ChangeKind = "unchanged"
	Unreadable ChangeKind = "unreadable"
)

// Drift tags attached to records whose content is identical but whose
// metadata moved. Surfaced as a secondary signal; they only upgrade the
// record to Modified when the run is metadata sensitive.
const (
	DriftPermissions = "permissions"
	DriftModTime     = "mtime"
	DriftSize        = "size"
)

// ChangeRecord is one path's classified outcome. Previous is nil for Added,
// Current is nil for Removed and for Unreadable paths whose read failed.
type ChangeRecord struct {
	Path     Path
	Kind     ChangeKind
	Previous *FileRecord
	Current  *FileRecord
	Drift    []string
	Reason   string
}

// Report is the ordered result of comparing a baseline against a fresh
// snapshot. Records are sorted lexicographically by path and cover every
// path appearing in either side exactly once. Never persisted.
type Report struct {
	BaselineAt time.Time
	CheckedAt  time.Time
	Records    []ChangeRecord
}

// HasChanges reports whether any record is something other than Unchanged.
// Unreadable counts as a change: an integrity check cannot be defeated by
// making a tracked file unreadable.
func (r Report) HasChanges() bool {
	for _, rec := range r.Records {
		if rec.Kind != Unchanged {
			return true
		}
	}

	return false
}

// CountByKind tallies records per classification.
func (r Report) CountByKind() map[ChangeKind]int {
	counts := map[ChangeKind]int{}
	for _, rec := range r.Records {
		counts[rec.Kind]++
	}

	return counts
}
