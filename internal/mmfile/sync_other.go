//go:build unix && !linux && !freebsd && !darwin

package mmfile

import "golang.org/x/sys/unix"

func msyncRange(data []byte, off, length int) error {
	return unix.Msync(data[off:off+length], unix.MS_SYNC)
}

func fdatasync(fd int) error {
	return unix.Fsync(fd)
}
