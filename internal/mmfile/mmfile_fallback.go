//go:build !unix

package mmfile

import (
	"fmt"
	"os"
)

// Map reads the entire file when mmap is not available.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return data, func() error { return nil }, nil
}

// MapRW loads the file into memory and keeps it open for write-back. Stores
// into Data reach the file only through FlushRange.
func MapRW(path string) (*Mapping, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.Size() == 0 {
		f.Close()
		return nil, fmt.Errorf("mmfile: empty image file: %s", path)
	}
	data := make([]byte, fi.Size())
	if _, err := f.ReadAt(data, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("mmfile: read %s: %w", path, err)
	}
	return &Mapping{Data: data, f: f, path: path}, nil
}

// FlushRange writes the range back in place, so a flush costs the size of
// the range rather than the image.
func (m *Mapping) FlushRange(off, length int) error {
	if m == nil || m.Data == nil || length == 0 {
		return nil
	}
	if err := checkRange(m.Data, off, length); err != nil {
		return err
	}
	if _, err := m.f.WriteAt(m.Data[off:off+length], int64(off)); err != nil {
		return fmt.Errorf("mmfile: write back [%d, +%d): %w", off, length, err)
	}
	return nil
}

// Datasync commits written-back ranges to stable storage.
func (m *Mapping) Datasync() error {
	if m == nil || m.f == nil {
		return nil
	}
	return m.f.Sync()
}

// Close writes the image back, syncs it and closes the file.
func (m *Mapping) Close() error {
	if m == nil || m.Data == nil {
		return nil
	}
	err := m.Sync()
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	m.Data = nil
	m.f = nil
	return err
}
