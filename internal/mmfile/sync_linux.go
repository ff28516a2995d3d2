//go:build linux || freebsd

package mmfile

import "golang.org/x/sys/unix"

// msyncRange flushes a page-aligned sub-slice of the mapping.
func msyncRange(data []byte, off, length int) error {
	return unix.Msync(data[off:off+length], unix.MS_SYNC)
}

// fdatasync performs file descriptor sync.
//
// On Linux/FreeBSD, fdatasync() provides sufficient guarantees.
func fdatasync(fd int) error {
	return unix.Fdatasync(fd)
}
