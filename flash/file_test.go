package flash

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testFileOptions() FileOptions {
	opts := DefaultFileOptions()
	opts.BlockSize = 64
	return opts
}

func TestCreateImageIsErased(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flash.img")
	require.NoError(t, CreateImage(path, 256))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 256)
	for i, b := range data {
		require.Equal(t, byte(0xFF), b, "byte %d", i)
	}

	require.Error(t, CreateImage(path, 0))
}

func TestFileDevicePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flash.img")
	require.NoError(t, CreateImage(path, 128))

	for _, mode := range []FlushMode{FlushAuto, FlushNone, FlushFull} {
		require.NoError(t, CreateImage(path, 128))

		opts := testFileOptions()
		opts.FlushMode = mode
		dev, err := OpenFile(path, opts)
		require.NoError(t, err)
		require.NoError(t, dev.WriteWord(8, 0x0102AABB))
		require.NoError(t, dev.EraseBlock(64))
		require.NoError(t, dev.Close())

		ro := testFileOptions()
		ro.ReadOnly = true
		dev, err = OpenFile(path, ro)
		require.NoError(t, err)
		require.Equal(t, uint64(0x0102AABB), dev.ReadWord(8), "mode %d", mode)
		require.ErrorIs(t, dev.WriteWord(12, 0), ErrReadOnly)
		require.NoError(t, dev.Close())
	}
}

func TestFileDeviceRejectsBadGeometry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flash.img")
	require.NoError(t, CreateImage(path, 100))

	_, err := OpenFile(path, testFileOptions())
	require.Error(t, err)
}

func TestOpenFileMissing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "nope.img"), testFileOptions())
	require.Error(t, err)
}

func TestFileDeviceTracksDirtyPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flash.img")
	require.NoError(t, CreateImage(path, 128))

	opts := testFileOptions()
	opts.FlushMode = FlushNone
	dev, err := OpenFile(path, opts)
	require.NoError(t, err)
	defer dev.Close()

	require.NoError(t, dev.WriteWord(4, 0))
	require.NoError(t, dev.EraseBlock(64))
	require.Equal(t, 2, dev.dirty.Pending())

	require.NoError(t, dev.Sync())
	require.Zero(t, dev.dirty.Pending())

	// FlushAuto writes back on every mutation.
	auto, err := OpenFile(path, testFileOptions())
	require.NoError(t, err)
	defer auto.Close()
	require.NoError(t, auto.WriteWord(8, 0))
	require.Zero(t, auto.dirty.Pending())
}
