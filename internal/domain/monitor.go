package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vigil.dev/pkg/vigil/internal/adapter"
	m "vigil.dev/pkg/vigil/internal/model"
)

// ErrBaselineExists is returned by Baseline when a baseline is already
// established and the caller did not ask to overwrite it.
var ErrBaselineExists = errors.New("baseline already exists")

// ErrChangesDetected signals that an integrity check found records other
// than Unchanged. The CLI maps it to a dedicated exit code.
var ErrChangesDetected = errors.New("integrity changes detected")

// Monitor wires the resolver, scanner and diff engine against a baseline
// store. One Monitor serves a single invocation; the store is the only
// state shared across runs.
type Monitor struct {
	fs    adapter.ScanFS
	store adapter.BaselineStore
}

// NewMonitor constructs a Monitor backed by the provided filesystem adapter
// and baseline store.
func NewMonitor(scanFS adapter.ScanFS, store adapter.BaselineStore) *Monitor {
	return &Monitor{fs: scanFS, store: store}
}

// ScanArgs carries the per-run scan parameters.
type ScanArgs struct {
	Config  m.Config
	Workers int
}

// Baseline scans the configured file set and persists the snapshot as the
// new baseline. An interrupted scan returns before Save, so the prior
// baseline is never overwritten with incomplete data; Save itself is an
// atomic replace.
func (mon *Monitor) Baseline(ctx context.Context, args ScanArgs, force bool) (m.Snapshot, error) {
	if mon.store.Exists() && !force {
		return m.Snapshot{}, fmt.Errorf("%w at %s (use --force to overwrite)", ErrBaselineExists, mon.store.Location())
	}

	snapshot, err := mon.scan(ctx, args)
	if err != nil {
		return m.Snapshot{}, err
	}

	if err := mon.store.Save(snapshot); err != nil {
		return m.Snapshot{}, err
	}

	return snapshot, nil
}

// Check scans the configured file set and diffs it against the stored
// baseline. The store is left untouched unless update is set, in which case
// the fresh snapshot replaces the baseline after a successful comparison.
func (mon *Monitor) Check(ctx context.Context, args ScanArgs, update bool) (m.Report, error) {
	baseline, err := mon.store.Load()
	if err != nil {
		return m.Report{}, err
	}

	snapshot, err := mon.scan(ctx, args)
	if err != nil {
		return m.Report{}, err
	}

	report, err := Diff(baseline, snapshot, DiffOptions{
		MetadataSensitive: args.Config.MetadataSensitive,
	})
	if err != nil {
		return m.Report{}, err
	}

	for _, record := range report.Records {
		switch record.Kind {
		case m.Added, m.Removed, m.Modified:
			slog.Warn("integrity change", "path", record.Path, "kind", record.Kind)
		case m.Unreadable:
			slog.Warn("file unreadable", "path", record.Path, "reason", record.Reason)
		}
	}

	if update {
		if err := mon.store.Save(snapshot); err != nil {
			return m.Report{}, fmt.Errorf("failed to update baseline: %w", err)
		}

		slog.Info("baseline updated after check", "path", mon.store.Location())
	}

	return report, nil
}

// Status summarizes the stored baseline without scanning.
func (mon *Monitor) Status() (m.BaselineInfo, error) {
	info := m.BaselineInfo{Location: mon.store.Location()}

	if !mon.store.Exists() {
		return info, nil
	}

	baseline, err := mon.store.Load()
	if err != nil {
		return m.BaselineInfo{}, err
	}

	info.Exists = true
	info.FileCount = baseline.Len()
	info.Failures = len(baseline.Failures)
	info.Algorithm = baseline.Algorithm
	info.CreatedAt = baseline.TakenAt

	return info, nil
}

func (mon *Monitor) scan(ctx context.Context, args ScanArgs) (m.Snapshot, error) {
	resolver := NewResolver(mon.fs)

	paths, warnings, err := resolver.Resolve(args.Config)
	if err != nil {
		return m.Snapshot{}, err
	}

	for _, warning := range warnings {
		slog.Warn(warning)
	}

	fingerprinter := NewFingerprinter(mon.fs, args.Config.Algorithm, args.Config.MaxFileSize)
	scanner := NewScanner(fingerprinter, args.Workers)

	return scanner.Scan(ctx, paths)
}
