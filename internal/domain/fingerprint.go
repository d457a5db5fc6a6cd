package domain

import (
	"context"
	"fmt"
	"hash"
	"io"
	"log/slog"

	"vigil.dev/pkg/vigil/internal/adapter"
	m "vigil.dev/pkg/vigil/internal/model"
)

// chunkSize bounds memory use per file read regardless of file size.
const chunkSize = 32 * 1024

// Fingerprinter computes a FileRecord for one path: a streamed content
// digest plus metadata captured in a single stat call. The hash constructor
// is chosen once at construction time from the closed algorithm set.
type Fingerprinter struct {
	fs          adapter.ScanFS
	algorithm   m.Algorithm
	newHash     func() hash.Hash
	maxFileSize int64
}

// NewFingerprinter constructs a Fingerprinter for the given algorithm.
// maxFileSize <= 0 disables the size bound.
func NewFingerprinter(scanFS adapter.ScanFS, algorithm m.Algorithm, maxFileSize int64) *Fingerprinter {
	return &Fingerprinter{
		fs:          scanFS,
		algorithm:   algorithm,
		newHash:     algorithm.NewHash,
		maxFileSize: maxFileSize,
	}
}

// Algorithm returns the digest algorithm this fingerprinter applies.
func (f *Fingerprinter) Algorithm() m.Algorithm {
	return f.algorithm
}

// Fingerprint produces the FileRecord for path. Metadata comes from one
// stat call taken before the read; a generic filesystem cannot make the
// metadata and content observation atomic, but a single syscall keeps the
// window minimal.
func (f *Fingerprinter) Fingerprint(ctx context.Context, path m.Path) (m.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return m.FileRecord{}, err
	}

	info, err := f.fs.Stat(path)
	if err != nil {
		return m.FileRecord{}, err
	}

	if !info.Mode().IsRegular() {
		return m.FileRecord{}, fmt.Errorf("%s is not a regular file", path)
	}

	if f.maxFileSize > 0 && info.Size() > f.maxFileSize {
		return m.FileRecord{}, fmt.Errorf("%s exceeds the %d byte read bound (size %d)", path, f.maxFileSize, info.Size())
	}

	digest, err := f.digest(ctx, path)
	if err != nil {
		return m.FileRecord{}, err
	}

	slog.Debug("fingerprinted file", "path", path, "size", info.Size(), "algorithm", f.algorithm)

	return m.FileRecord{
		Path:      path,
		Size:      info.Size(),
		ModTime:   info.ModTime().UTC(),
		Mode:      uint32(info.Mode().Perm()),
		Digest:    digest,
		Algorithm: f.algorithm,
	}, nil
}

// digest streams the file content through the hash in bounded chunks,
// checking for cancellation between chunks so one slow file cannot pin an
// interrupted scan.
func (f *Fingerprinter) digest(ctx context.Context, path m.Path) (string, error) {
	reader, err := f.fs.Open(path)
	if err != nil {
		return "", err
	}

	defer func() {
		_ = reader.Close()
	}()

	h := f.newHash()
	buf := make([]byte, chunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		n, err := reader.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
