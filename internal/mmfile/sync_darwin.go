//go:build darwin

package mmfile

import "golang.org/x/sys/unix"

// msyncRange flushes the entire mapping.
//
// On macOS, msync() requires the address to match the original mmap()
// address, so sub-slices cannot be passed. The kernel only writes dirty
// pages anyway.
func msyncRange(data []byte, _, _ int) error {
	return unix.Msync(data, unix.MS_SYNC)
}

// fdatasync forces data to the physical medium.
//
// On macOS, fsync only reaches the drive cache; F_FULLFSYNC is needed for
// power-loss durability.
func fdatasync(fd int) error {
	_, err := unix.FcntlInt(uintptr(fd), unix.F_FULLFSYNC, 0)
	return err
}
