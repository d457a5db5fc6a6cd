package domain

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"golang.org/x/sync/errgroup"
	m "vigil.dev/pkg/vigil/internal/model"
)

// Scanner drives the Fingerprinter over a resolved path set and assembles
// the Snapshot. Fingerprinting one path has no dependency on any other, so
// work is dispatched across a bounded worker pool; a single collector
// goroutine is the only writer into the snapshot maps.
type Scanner struct {
	fingerprinter *Fingerprinter
	workers       int
}

// NewScanner constructs a Scanner with the given worker pool size.
func NewScanner(fingerprinter *Fingerprinter, workers int) *Scanner {
	if workers < 1 {
		workers = 1
	}

	return &Scanner{
		fingerprinter: fingerprinter,
		workers:       workers,
	}
}

type scanOutcome struct {
	path   m.Path
	record m.FileRecord
	err    error
}

// Scan fingerprints every resolved path. The returned snapshot is complete:
// each path either produced a FileRecord or a recorded failure. Files that
// vanish between enumeration and read are a benign race and are skipped
// with a warning. Cancellation stops dispatching new work and returns the
// context error; callers must not persist the partial result.
func (s *Scanner) Scan(ctx context.Context, paths []m.Path) (m.Snapshot, error) {
	snapshot := m.NewSnapshot(s.fingerprinter.Algorithm())

	outcomes := make(chan scanOutcome, s.workers)
	collected := make(chan struct{})

	go func() {
		defer close(collected)

		for out := range outcomes {
			switch {
			case out.err == nil:
				snapshot.Files[out.path] = out.record
			case errors.Is(out.err, fs.ErrNotExist):
				slog.Warn("file vanished during scan", "path", out.path)
			default:
				slog.Warn("failed to fingerprint file", "path", out.path, "error", out.err)
				snapshot.Failures = append(snapshot.Failures, m.ScanFailure{
					Path:   out.path,
					Reason: out.err.Error(),
				})
			}
		}
	}()

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)

	for _, path := range paths {
		if gctx.Err() != nil {
			break
		}

		group.Go(func() error {
			record, err := s.fingerprinter.Fingerprint(gctx, path)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}

			select {
			case <-gctx.Done():
				return gctx.Err()
			case outcomes <- scanOutcome{path: path, record: record, err: err}:
				return nil
			}
		})
	}

	err := group.Wait()

	close(outcomes)
	<-collected

	if err != nil {
		return m.Snapshot{}, err
	}

	if err := ctx.Err(); err != nil {
		return m.Snapshot{}, err
	}

	slog.Info("scan complete", "files", snapshot.Len(), "failures", len(snapshot.Failures))

	return snapshot, nil
}
