// Package buf contains helpers for endian-safe word access and overflow-safe
// address arithmetic.
package buf

import "encoding/binary"

// Word reads a little-endian word of width bytes at off. Returns 0 when the
// buffer is too short or the width is unsupported.
func Word(b []byte, off, width int) uint64 {
	p, ok := Slice(b, off, width)
	if !ok {
		return 0
	}
	switch width {
	case 2:
		return uint64(binary.LittleEndian.Uint16(p))
	case 4:
		return uint64(binary.LittleEndian.Uint32(p))
	case 8:
		return binary.LittleEndian.Uint64(p)
	default:
		return 0
	}
}

// PutWord writes v as a little-endian word of width bytes at off. It reports
// false when the word does not fit or the width is unsupported.
func PutWord(b []byte, off, width int, v uint64) bool {
	p, ok := Slice(b, off, width)
	if !ok {
		return false
	}
	switch width {
	case 2:
		binary.LittleEndian.PutUint16(p, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(p, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(p, v)
	default:
		return false
	}
	return true
}
