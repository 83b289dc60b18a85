package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirState(t *testing.T) {
	root := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		exists, isDir, empty, err := DirState(filepath.Join(root, "nope"))
		require.NoError(t, err)
		assert.False(t, exists)
		assert.False(t, isDir)
		assert.False(t, empty)
	})

	t.Run("empty directory", func(t *testing.T) {
		dir := filepath.Join(root, "empty")
		require.NoError(t, os.Mkdir(dir, DirReadableByAll))
		exists, isDir, empty, err := DirState(dir)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.True(t, isDir)
		assert.True(t, empty)
	})

	t.Run("populated directory", func(t *testing.T) {
		dir := filepath.Join(root, "full")
		require.NoError(t, os.Mkdir(dir, DirReadableByAll))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), ReadableByAll))
		exists, isDir, empty, err := DirState(dir)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.True(t, isDir)
		assert.False(t, empty)
	})

	t.Run("regular file", func(t *testing.T) {
		file := filepath.Join(root, "file.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), ReadableByAll))
		exists, isDir, _, err := DirState(file)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.False(t, isDir)
	})
}

func TestMkdirAllTracked(t *testing.T) {
	root := t.TempDir()

	t.Run("creates and reports missing ancestors", func(t *testing.T) {
		dir := filepath.Join(root, "a", "b", "c")
		created, err := MkdirAllTracked(dir, DirReadableByAll)
		require.NoError(t, err)
		assert.Equal(t, []string{dir, filepath.Join(root, "a", "b"), filepath.Join(root, "a")}, created)
		assert.DirExists(t, dir)

		RemoveCreated(created)
		assert.NoDirExists(t, filepath.Join(root, "a"))
		assert.DirExists(t, root)
	})

	t.Run("existing directory", func(t *testing.T) {
		created, err := MkdirAllTracked(root, DirReadableByAll)
		require.NoError(t, err)
		assert.Empty(t, created)
	})

	t.Run("keeps directories that gained content", func(t *testing.T) {
		dir := filepath.Join(root, "x", "y")
		created, err := MkdirAllTracked(dir, DirReadableByAll)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(root, "x", "keep.txt"), []byte("k"), ReadableByAll))

		RemoveCreated(created)
		assert.NoDirExists(t, dir)
		assert.FileExists(t, filepath.Join(root, "x", "keep.txt"))
	})

	t.Run("file in the way", func(t *testing.T) {
		file := filepath.Join(root, "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), ReadableByAll))
		_, err := MkdirAllTracked(filepath.Join(file, "sub"), DirReadableByAll)
		assert.Error(t, err)
	})
}
