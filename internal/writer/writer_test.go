package writer

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileWriterReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flash.img")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	w := &FileWriter{Path: path}
	require.NoError(t, w.WriteImage([]byte{0xff, 0xff}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte{0xff, 0xff}, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file left behind")
}

func TestFileWriterMissingDir(t *testing.T) {
	w := &FileWriter{Path: filepath.Join(t.TempDir(), "missing", "flash.img")}
	err := w.WriteImage([]byte{0})
	require.Error(t, err)
	require.Contains(t, err.Error(), "create temp file")
}

func TestFileWriterRejectsWrongSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flash.img")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3, 4}, 0o644))

	w := &FileWriter{Path: path, Size: 4}
	require.ErrorIs(t, w.WriteImage([]byte{0xff, 0xff}), ErrImageSize)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, got, "image must be untouched")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestFileWriterModes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	dir := t.TempDir()

	created := filepath.Join(dir, "new.img")
	require.NoError(t, (&FileWriter{Path: created, Perm: 0o600}).WriteImage([]byte{0xff}))
	fi, err := os.Stat(created)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	existing := filepath.Join(dir, "old.img")
	require.NoError(t, os.WriteFile(existing, []byte{0}, 0o640))
	require.NoError(t, os.Chmod(existing, 0o640))
	require.NoError(t, (&FileWriter{Path: existing}).WriteImage([]byte{0xff}))
	fi, err = os.Stat(existing)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o640), fi.Mode().Perm())
}

func TestMemWriterCopies(t *testing.T) {
	src := []byte{1, 2, 3}
	w := MemWriter{Size: 3}
	require.NoError(t, w.WriteImage(src))
	src[0] = 9
	require.Equal(t, []byte{1, 2, 3}, w.Buf)
	require.Equal(t, 1, w.Writes)

	require.ErrorIs(t, w.WriteImage([]byte{1}), ErrImageSize)
	require.Equal(t, 1, w.Writes)
}
