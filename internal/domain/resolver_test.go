package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigil.dev/pkg/vigil/internal/adapter"
	m "vigil.dev/pkg/vigil/internal/model"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func resolve(t *testing.T, cfg m.Config) ([]m.Path, []string) {
	t.Helper()

	paths, warnings, err := NewResolver(adapter.NewLocalScanFS()).Resolve(cfg)
	require.NoError(t, err)

	return paths, warnings
}

func TestResolver_WalksDirectoriesRecursively(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	writeFile(t, filepath.Join(root, "sub", "b.txt"), "b")
	writeFile(t, filepath.Join(root, "sub", "deep", "c.txt"), "c")

	paths, warnings := resolve(t, m.Config{Include: []string{root}})

	assert.Empty(t, warnings)
	assert.Equal(t, []m.Path{
		m.Path(filepath.Join(root, "a.txt")),
		m.Path(filepath.Join(root, "sub", "b.txt")),
		m.Path(filepath.Join(root, "sub", "deep", "c.txt")),
	}, paths)
}

func TestResolver_ExcludeBeatsInclude(t *testing.T) {
	root := t.TempDir()
	keep := filepath.Join(root, "keep.txt")
	skipped := filepath.Join(root, "skip", "x.txt")
	writeFile(t, keep, "k")
	writeFile(t, skipped, "x")

	// Excluding the file directly, even though an include rule names it.
	paths, _ := resolve(t, m.Config{
		Include: []string{root, skipped},
		Exclude: []string{filepath.Join(root, "skip")},
	})

	assert.Equal(t, []m.Path{m.Path(keep)}, paths)
}

func TestResolver_ExcludeMatchesDescendants(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	writeFile(t, filepath.Join(root, "cache", "deep", "b.txt"), "b")

	paths, _ := resolve(t, m.Config{
		Include: []string{root},
		Exclude: []string{filepath.Join(root, "cache")},
	})

	assert.Equal(t, []m.Path{m.Path(filepath.Join(root, "a.txt"))}, paths)
}

func TestResolver_ExcludeIsPathBoundary(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "cachefile.txt"), "a")

	// Excluding "cache" must not exclude "cachefile.txt".
	paths, _ := resolve(t, m.Config{
		Include: []string{root},
		Exclude: []string{filepath.Join(root, "cache")},
	})

	assert.Equal(t, []m.Path{m.Path(filepath.Join(root, "cachefile.txt"))}, paths)
}

func TestResolver_MissingIncludeIsWarningNotError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")

	paths, warnings := resolve(t, m.Config{
		Include: []string{root, filepath.Join(root, "no-such-dir")},
	})

	assert.Len(t, paths, 1)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "does not exist")
}

func TestResolver_DeduplicatesOverlappingIncludes(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "a.txt")
	writeFile(t, file, "a")

	paths, _ := resolve(t, m.Config{Include: []string{root, file, root}})

	assert.Equal(t, []m.Path{m.Path(file)}, paths)
}

func TestResolver_EmptyIncludeYieldsEmptySet(t *testing.T) {
	paths, warnings := resolve(t, m.Config{})

	assert.Empty(t, paths)
	assert.Empty(t, warnings)
}

func TestResolver_SymlinkedFileIsFollowed(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "target.txt")
	writeFile(t, target, "t")

	link := filepath.Join(root, "link.txt")
	require.NoError(t, os.Symlink(target, link))

	paths, _ := resolve(t, m.Config{Include: []string{root}})

	assert.Contains(t, paths, m.Path(link))
	assert.Contains(t, paths, m.Path(target))
}

func TestResolver_SymlinkedDirectoryIsNotDescended(t *testing.T) {
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "secret.txt"), "s")

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "escape")))

	paths, _ := resolve(t, m.Config{Include: []string{root}})

	assert.Equal(t, []m.Path{m.Path(filepath.Join(root, "a.txt"))}, paths)
}

func TestResolver_BrokenSymlinkIsSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	require.NoError(t, os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "dangling")))

	paths, _ := resolve(t, m.Config{Include: []string{root}})

	assert.Equal(t, []m.Path{m.Path(filepath.Join(root, "a.txt"))}, paths)
}
