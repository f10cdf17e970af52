package fileutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb"))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\r\nb\r\n"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\n\nb\n"))
}

func TestReadLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\r\ntwo\r\n"), 0600))

	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, lines)
}

func TestReadLines_MissingFile(t *testing.T) {
	_, err := ReadLines(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestWriteFileString(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "out.txt")

	require.NoError(t, WriteFileString(path, "first\n", false))
	require.NoError(t, WriteFileString(path, "second\n", true))

	data, err := os.ReadFile(path) // #nosec G304
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))

	// Overwrite replaces the whole file.
	require.NoError(t, WriteFileString(path, "third\n", false))
	data, err = os.ReadFile(path) // #nosec G304
	require.NoError(t, err)
	assert.Equal(t, "third\n", string(data))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
	assert.True(t, FileExists(path))
	assert.False(t, FileExists(dir))
	assert.True(t, DirectoryExists(dir))
}

func TestEnsureDirectoryExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDirectoryExists(dir))
	assert.True(t, DirectoryExists(dir))
	// Idempotent.
	require.NoError(t, EnsureDirectoryExists(dir))
}
