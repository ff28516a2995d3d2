//go:build unix

package mmfile

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Map maps the file at path read-only and returns its contents.
func Map(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close() // safe before return; mapping keeps pages alive

	size, err := mappableSize(f)
	if err != nil {
		return nil, nil, err
	}
	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return data, cleanup, nil
}

// MapRW maps the file at path read-write and shared, so stores into the
// returned mapping modify the file.
func MapRW(path string) (*Mapping, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	size, err := mappableSize(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if size == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("mmfile: empty image file: %s", path)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mmfile: mmap failed: %w", err)
	}
	return &Mapping{Data: data, f: f, path: path}, nil
}

// FlushRange writes the modified pages of [off, off+length) back to the
// file. off must be page aligned.
func (m *Mapping) FlushRange(off, length int) error {
	if m == nil || m.Data == nil || length == 0 {
		return nil
	}
	if err := checkRange(m.Data, off, length); err != nil {
		return err
	}
	if err := msyncRange(m.Data, off, length); err != nil {
		return fmt.Errorf("mmfile: msync: %w", err)
	}
	return nil
}

// Datasync flushes the file descriptor (fdatasync, F_FULLFSYNC on macOS).
func (m *Mapping) Datasync() error {
	if m == nil || m.f == nil {
		return nil
	}
	if err := fdatasync(int(m.f.Fd())); err != nil {
		return fmt.Errorf("mmfile: fdatasync: %w", err)
	}
	return nil
}

// Close unmaps the file and closes its descriptor. Calling Close twice is a no-op.
func (m *Mapping) Close() error {
	if m == nil {
		return nil
	}
	var err error
	if m.Data != nil {
		err = unix.Munmap(m.Data)
		m.Data = nil
	}
	if m.f != nil {
		if cerr := m.f.Close(); err == nil {
			err = cerr
		}
		m.f = nil
	}
	return err
}

func mappableSize(f *os.File) (int, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	size := info.Size()
	if size > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("mmfile: file too large to map (%d bytes)", size)
	}
	return int(size), nil
}
