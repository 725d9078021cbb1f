package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_Overwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "models.py")

	require.NoError(t, WriteFile(path, []byte("first\nsecond\n")))
	require.NoError(t, WriteFile(path, []byte("only\n")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "only\n", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteFile_MissingParent(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "nope", "models.py"), []byte("x"))
	assert.Error(t, err)
}

func TestExistsAndIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	assert.True(t, Exists(file))
	assert.False(t, IsDir(file))
	assert.True(t, IsDir(dir))
	assert.False(t, Exists(filepath.Join(dir, "missing")))
}
