// Package mmfile provides platform-specific helpers for memory-mapping flash
// image files.
package mmfile

import (
	"fmt"
	"os"

	"github.com/joshuapare/eekit/internal/buf"
)

// Mapping is a writable view of an image file. Stores into Data reach the
// file through the page cache. FlushRange writes pages back and Datasync
// makes them durable.
type Mapping struct {
	Data []byte

	f    *os.File
	path string
}

// Path returns the path the mapping was opened from.
func (m *Mapping) Path() string {
	return m.path
}

// Sync flushes the whole mapping and then the file descriptor.
func (m *Mapping) Sync() error {
	if m == nil || m.Data == nil {
		return nil
	}
	if err := m.FlushRange(0, len(m.Data)); err != nil {
		return err
	}
	return m.Datasync()
}

func checkRange(data []byte, off, length int) error {
	if !buf.Has(data, off, length) {
		return fmt.Errorf("mmfile: range [%d, +%d) outside %d-byte mapping", off, length, len(data))
	}
	return nil
}
