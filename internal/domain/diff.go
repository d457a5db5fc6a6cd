package domain

import (
	"errors"
	"fmt"
	"sort"

	m "vigil.dev/pkg/vigil/internal/model"
)

// ErrAlgorithmMismatch is returned when the baseline was built with a
// different digest algorithm than the fresh snapshot. Digests from two
// algorithms are not comparable; the comparison is refused rather than
// reported as spurious modifications (or, worse, silence). Re-run init
// after an algorithm switch.
var ErrAlgorithmMismatch = errors.New("baseline and snapshot use different hash algorithms")

// DiffOptions tunes the change classification policy.
type DiffOptions struct {
	// MetadataSensitive upgrades content-identical records with metadata
	// drift to Modified. Default is content-only: integrity is primarily
	// about content, and drift is surfaced as a secondary tag.
	MetadataSensitive bool
}

// Diff compares a baseline against a fresh snapshot and returns one
// ChangeRecord per path appearing in either, ordered lexicographically.
// Content digests are authoritative: a digest difference is always
// Modified. Paths whose read failed during the scan are emitted as
// Unreadable, never silently omitted.
func Diff(baseline, snapshot m.Snapshot, opts DiffOptions) (m.Report, error) {
	if baseline.Algorithm != snapshot.Algorithm {
		return m.Report{}, fmt.Errorf("%w: baseline %s, snapshot %s",
			ErrAlgorithmMismatch, baseline.Algorithm, snapshot.Algorithm)
	}

	failed := map[m.Path]string{}
	for _, failure := range snapshot.Failures {
		failed[failure.Path] = failure.Reason
	}

	paths := unionPaths(baseline, snapshot, failed)

	records := make([]m.ChangeRecord, 0, len(paths))
	for _, path := range paths {
		records = append(records, classify(path, baseline, snapshot, failed, opts))
	}

	return m.Report{
		BaselineAt: baseline.TakenAt,
		CheckedAt:  snapshot.TakenAt,
		Records:    records,
	}, nil
}

func classify(path m.Path, baseline, snapshot m.Snapshot, failed map[m.Path]string, opts DiffOptions) m.ChangeRecord {
	prev, inBaseline := baseline.Files[path]
	cur, inSnapshot := snapshot.Files[path]

	if reason, ok := failed[path]; ok {
		record := m.ChangeRecord{Path: path, Kind: m.Unreadable, Reason: reason}
		if inBaseline {
			record.Previous = &prev
		}

		return record
	}

	switch {
	case inBaseline && !inSnapshot:
		return m.ChangeRecord{Path: path, Kind: m.Removed, Previous: &prev}
	case !inBaseline && inSnapshot:
		return m.ChangeRecord{Path: path, Kind: m.Added, Current: &cur}
	}

	record := m.ChangeRecord{Path: path, Previous: &prev, Current: &cur}

	if !prev.SameContent(cur) {
		record.Kind = m.Modified

		return record
	}

	record.Drift = metadataDrift(prev, cur)
	if len(record.Drift) > 0 && opts.MetadataSensitive {
		record.Kind = m.Modified
	} else {
		record.Kind = m.Unchanged
	}

	return record
}

// metadataDrift lists the metadata fields that moved between two records
// with identical content.
func metadataDrift(prev, cur m.FileRecord) []string {
	var drift []string

	if prev.Size != cur.Size {
		drift = append(drift, m.DriftSize)
	}

	if !prev.ModTime.Equal(cur.ModTime) {
		drift = append(drift, m.DriftModTime)
	}

	if prev.Mode != cur.Mode {
		drift = append(drift, m.DriftPermissions)
	}

	return drift
}

func unionPaths(baseline, snapshot m.Snapshot, failed map[m.Path]string) []m.Path {
	seen := map[m.Path]struct{}{}

	for path := range baseline.Files {
		seen[path] = struct{}{}
	}

	for path := range snapshot.Files {
		seen[path] = struct{}{}
	}

	for path := range failed {
		seen[path] = struct{}{}
	}

	paths := make([]m.Path, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	return paths
}
