package poster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestSavePath(t *testing.T) {
	root := t.TempDir()

	path, err := SavePath(root, "Movies", "Foo")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Movies", "Foo.png"), path)

	// The library directory was created, but not the file.
	assert.DirExists(t, filepath.Join(root, "Movies"))
	assert.NoFileExists(t, path)
}

func TestSavePathDeduplicates(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Movies")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	touch(t, filepath.Join(dir, "Foo.png"))
	path, err := SavePath(root, "Movies", "Foo")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Foo_1.png"), path)

	touch(t, path)
	path, err = SavePath(root, "Movies", "Foo")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Foo_2.png"), path)
}

func TestSavePathFillsGaps(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Movies")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	// The probe is monotonic from 1; a free _1 slot wins even when _2 exists.
	touch(t, filepath.Join(dir, "Foo.png"))
	touch(t, filepath.Join(dir, "Foo_2.png"))

	path, err := SavePath(root, "Movies", "Foo")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Foo_1.png"), path)
}

func TestSavePathSeparateLibraries(t *testing.T) {
	root := t.TempDir()

	a, err := SavePath(root, "Movies", "Foo")
	require.NoError(t, err)
	b, err := SavePath(root, "Anime", "Foo")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "collisions are per library directory")
}
