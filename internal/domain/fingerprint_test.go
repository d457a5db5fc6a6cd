package domain

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigil.dev/pkg/vigil/internal/adapter"
	m "vigil.dev/pkg/vigil/internal/model"
)

func allAlgorithms() []m.Algorithm {
	return []m.Algorithm{m.SHA256, m.SHA512, m.SHA1, m.MD5}
}

func TestFingerprint_StreamedDigestMatchesWholeContent(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "data.bin")

	// Larger than one read chunk so the streaming path is exercised.
	content := make([]byte, 3*chunkSize+17)
	for i := range content {
		content[i] = byte(i % 251)
	}

	require.NoError(t, os.WriteFile(path, content, 0o644))

	for _, algorithm := range allAlgorithms() {
		fp := NewFingerprinter(adapter.NewLocalScanFS(), algorithm, 0)

		rec, err := fp.Fingerprint(context.Background(), m.Path(path))
		require.NoError(t, err, algorithm)

		h := algorithm.NewHash()
		h.Write(content)

		assert.Equal(t, fmt.Sprintf("%x", h.Sum(nil)), rec.Digest, algorithm)
		assert.Equal(t, algorithm, rec.Algorithm)
	}
}

func TestFingerprint_OneByteChangeChangesDigest(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("integrity matters"), 0o644))

	for _, algorithm := range allAlgorithms() {
		fp := NewFingerprinter(adapter.NewLocalScanFS(), algorithm, 0)

		before, err := fp.Fingerprint(context.Background(), m.Path(path))
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("integrity Matters"), 0o644))

		after, err := fp.Fingerprint(context.Background(), m.Path(path))
		require.NoError(t, err)

		assert.NotEqual(t, before.Digest, after.Digest, algorithm)

		require.NoError(t, os.WriteFile(path, []byte("integrity matters"), 0o644))
	}
}

func TestFingerprint_CapturesMetadata(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "meta.txt")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0o600))

	fp := NewFingerprinter(adapter.NewLocalScanFS(), m.SHA256, 0)

	rec, err := fp.Fingerprint(context.Background(), m.Path(path))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)

	assert.Equal(t, int64(5), rec.Size)
	assert.Equal(t, uint32(0o600), rec.Mode)
	assert.True(t, rec.ModTime.Equal(info.ModTime()))
}

func TestFingerprint_MissingFileIsNotExist(t *testing.T) {
	fp := NewFingerprinter(adapter.NewLocalScanFS(), m.SHA256, 0)

	_, err := fp.Fingerprint(context.Background(), m.Path(filepath.Join(t.TempDir(), "gone")))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFingerprint_OversizedFileIsRejected(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "big.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 1024), 0o644))

	fp := NewFingerprinter(adapter.NewLocalScanFS(), m.SHA256, 512)

	_, err := fp.Fingerprint(context.Background(), m.Path(path))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read bound")
}

func TestFingerprint_CancelledContext(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fp := NewFingerprinter(adapter.NewLocalScanFS(), m.SHA256, 0)

	_, err := fp.Fingerprint(ctx, m.Path(path))
	assert.ErrorIs(t, err, context.Canceled)
}
