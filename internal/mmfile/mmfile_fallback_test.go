//go:build !unix

package mmfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlushRangeWritesOnlyRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flash.img")
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, 0o644))

	m, err := MapRW(path)
	require.NoError(t, err)
	m.Data[0] = 0x00
	m.Data[5] = 0x11
	require.NoError(t, m.FlushRange(4, 4))
	require.NoError(t, m.Datasync())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x11, 0xFF, 0xFF}, got)

	require.Error(t, m.FlushRange(6, 4))

	require.NoError(t, m.Close())
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, byte(0x00), got[0], "Close writes back the whole image")
}

func TestMapRWRejectsEmptyFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.img")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, err := MapRW(path)
	require.Error(t, err)
}
