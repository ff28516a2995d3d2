package flash

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/eekit/internal/dirty"
	"github.com/joshuapare/eekit/internal/mmfile"
	"github.com/joshuapare/eekit/internal/writer"
)

// FlushMode controls how far each mutation of a FileDevice is pushed before
// the call returns.
type FlushMode int

const (
	// FlushAuto msyncs the pages touched by every program or erase. A crash
	// of the process cannot lose an acknowledged write. Without mmap the
	// touched pages are written back in place instead.
	FlushAuto FlushMode = iota

	// FlushNone only records dirty pages. Call Sync before relying on the
	// image. Fastest, for bulk tooling.
	FlushNone

	// FlushFull msyncs the touched pages and then fdatasyncs (F_FULLFSYNC on
	// macOS) after every mutation, surviving host power loss as well.
	FlushFull
)

// FileOptions configures a FileDevice.
type FileOptions struct {
	// Array geometry. Base is the address of the first byte of the image.
	ArrayConfig

	// FlushMode selects durability per mutation.
	// Default: FlushAuto
	FlushMode FlushMode

	// ReadOnly maps the image without write access.
	ReadOnly bool
}

// DefaultFileOptions returns options for a 32-bit word, 8 KiB block image.
func DefaultFileOptions() FileOptions {
	return FileOptions{
		ArrayConfig: ArrayConfig{WordSize: 4, BlockSize: 8192},
		FlushMode:   FlushAuto,
	}
}

// FileDevice is a NOR array backed by a memory-mapped image file.
type FileDevice struct {
	*Array

	m       *mmfile.Mapping
	dirty   *dirty.Tracker
	cleanup func() error
	mode    FlushMode
}

// OpenFile maps the image at path.
func OpenFile(path string, opts FileOptions) (*FileDevice, error) {
	if opts.ReadOnly {
		data, cleanup, err := mmfile.Map(path)
		if err != nil {
			return nil, fmt.Errorf("flash: open %s: %w", path, err)
		}
		arr, err := WrapArray(data, opts.ArrayConfig)
		if err != nil {
			_ = cleanup()
			return nil, err
		}
		arr.SetReadOnly(true)
		return &FileDevice{Array: arr, cleanup: cleanup, mode: FlushNone}, nil
	}

	m, err := mmfile.MapRW(path)
	if err != nil {
		return nil, fmt.Errorf("flash: open %s: %w", path, err)
	}
	arr, err := WrapArray(m.Data, opts.ArrayConfig)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	return &FileDevice{
		Array: arr,
		m:     m,
		dirty: dirty.NewTracker(len(m.Data)),
		mode:  opts.FlushMode,
	}, nil
}

// CreateImage writes a fully erased image of size bytes to path, replacing
// any existing file atomically.
func CreateImage(path string, size int) error {
	if size <= 0 {
		return fmt.Errorf("flash: invalid image size %d", size)
	}
	w := &writer.FileWriter{Path: path, Size: size}
	if err := w.WriteImage(bytes.Repeat([]byte{0xFF}, size)); err != nil {
		return fmt.Errorf("flash: create %s: %w", path, err)
	}
	return nil
}

// WriteWord programs a word and flushes according to the flush mode.
func (d *FileDevice) WriteWord(addr uint32, word uint64) error {
	if err := d.Array.WriteWord(addr, word); err != nil {
		return err
	}
	d.dirty.Add(int(addr-d.cfg.Base), d.cfg.WordSize)
	return d.flush()
}

// EraseBlock erases a block and flushes according to the flush mode.
func (d *FileDevice) EraseBlock(addr uint32) error {
	if err := d.Array.EraseBlock(addr); err != nil {
		return err
	}
	d.dirty.Add(int(addr-d.cfg.Base), d.cfg.BlockSize)
	return d.flush()
}

// Sync makes every mutation so far durable.
func (d *FileDevice) Sync() error {
	if d.m == nil {
		return nil
	}
	if err := d.dirty.Flush(d.m); err != nil {
		return err
	}
	return d.m.Datasync()
}

// Close syncs and unmaps the image. The device must not be used afterwards.
func (d *FileDevice) Close() error {
	if d.cleanup != nil {
		err := d.cleanup()
		d.cleanup = nil
		return err
	}
	if d.m == nil {
		return nil
	}
	err := d.Sync()
	if cerr := d.m.Close(); err == nil {
		err = cerr
	}
	d.m = nil
	return err
}

func (d *FileDevice) flush() error {
	switch d.mode {
	case FlushAuto:
		return d.dirty.Flush(d.m)
	case FlushFull:
		return d.Sync()
	default:
		return nil
	}
}
