package flash

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/eekit/internal/buf"
	"github.com/joshuapare/eekit/internal/format"
	"github.com/joshuapare/eekit/internal/writer"
)

// ArrayConfig describes the geometry of a NOR array.
type ArrayConfig struct {
	// Base is the address of the first byte of the array.
	Base uint32

	// WordSize is the program granularity in bytes (2, 4 or 8).
	WordSize int

	// BlockSize is the erase granularity in bytes. Must be a multiple of WordSize.
	BlockSize int
}

// Validate checks the configuration against an array of size bytes.
func (c ArrayConfig) Validate(size int) error {
	switch c.WordSize {
	case 2, 4, 8:
	default:
		return fmt.Errorf("flash: unsupported word size %d", c.WordSize)
	}
	if c.BlockSize <= 0 || c.BlockSize%c.WordSize != 0 {
		return fmt.Errorf("flash: block size %d is not a multiple of word size %d", c.BlockSize, c.WordSize)
	}
	if size <= 0 || size%c.BlockSize != 0 {
		return fmt.Errorf("flash: size %d is not a positive multiple of block size %d", size, c.BlockSize)
	}
	if uint64(c.Base)+uint64(size) > 1<<32 {
		return fmt.Errorf("flash: array [0x%X, +%d) exceeds the 32-bit address space", c.Base, size)
	}
	return nil
}

// Array is an in-memory NOR flash array.
type Array struct {
	cfg      ArrayConfig
	data     []byte
	erases   []uint32
	readOnly bool
}

// NewArray returns an erased array of size bytes.
func NewArray(size int, cfg ArrayConfig) (*Array, error) {
	if err := cfg.Validate(size); err != nil {
		return nil, err
	}
	return &Array{
		cfg:    cfg,
		data:   bytes.Repeat([]byte{0xFF}, size),
		erases: make([]uint32, size/cfg.BlockSize),
	}, nil
}

// WrapArray uses data as the array contents without copying it. Mutations
// write straight into data.
func WrapArray(data []byte, cfg ArrayConfig) (*Array, error) {
	if err := cfg.Validate(len(data)); err != nil {
		return nil, err
	}
	return &Array{
		cfg:    cfg,
		data:   data,
		erases: make([]uint32, len(data)/cfg.BlockSize),
	}, nil
}

// Config returns the array geometry.
func (a *Array) Config() ArrayConfig { return a.cfg }

// Size returns the array size in bytes.
func (a *Array) Size() int { return len(a.data) }

// Bytes exposes the raw contents.
func (a *Array) Bytes() []byte { return a.data }

// SetReadOnly makes every later mutation fail with ErrReadOnly.
func (a *Array) SetReadOnly(ro bool) { a.readOnly = ro }

// Clone returns a deep copy, erase counters included.
func (a *Array) Clone() *Array {
	c := &Array{
		cfg:      a.cfg,
		data:     append([]byte(nil), a.data...),
		erases:   append([]uint32(nil), a.erases...),
		readOnly: a.readOnly,
	}
	return c
}

// Snapshot hands a copy of the contents to sink.
func (a *Array) Snapshot(sink writer.Sink) error {
	return sink.WriteImage(a.data)
}

// ReadWord returns the word at addr. An out-of-range or misaligned read is a
// programming error in the caller and panics.
func (a *Array) ReadWord(addr uint32) uint64 {
	off, err := a.offset(addr, a.cfg.WordSize)
	if err != nil {
		panic(fmt.Sprintf("flash: read 0x%X: %v", addr, err))
	}
	return buf.Word(a.data, off, a.cfg.WordSize)
}

// WriteWord programs word at addr following NOR rules.
func (a *Array) WriteWord(addr uint32, word uint64) error {
	if a.readOnly {
		return ErrReadOnly
	}
	off, err := a.offset(addr, a.cfg.WordSize)
	if err != nil {
		return err
	}
	old := buf.Word(a.data, off, a.cfg.WordSize)
	word &= format.WordMask(a.cfg.WordSize)
	if word&^old != 0 {
		return fmt.Errorf("%w: 0x%X at 0x%X holds 0x%X", ErrWriteConflict, word, addr, old)
	}
	buf.PutWord(a.data, off, a.cfg.WordSize, word)
	return nil
}

// EraseBlock erases the block starting at addr.
func (a *Array) EraseBlock(addr uint32) error {
	if a.readOnly {
		return ErrReadOnly
	}
	off, err := a.offset(addr, a.cfg.BlockSize)
	if err != nil {
		return err
	}
	block := a.data[off : off+a.cfg.BlockSize]
	for i := range block {
		block[i] = 0xFF
	}
	a.erases[off/a.cfg.BlockSize]++
	return nil
}

// EraseCount returns how many times the block containing addr was erased.
func (a *Array) EraseCount(addr uint32) uint32 {
	if addr < a.cfg.Base {
		return 0
	}
	idx := int(addr-a.cfg.Base) / a.cfg.BlockSize
	if idx >= len(a.erases) {
		return 0
	}
	return a.erases[idx]
}

// offset translates addr into a data offset aligned to align bytes.
func (a *Array) offset(addr uint32, align int) (int, error) {
	if addr < a.cfg.Base {
		return 0, fmt.Errorf("%w: 0x%X below base 0x%X", ErrOutOfRange, addr, a.cfg.Base)
	}
	off := int(addr - a.cfg.Base)
	if off%align != 0 {
		return 0, fmt.Errorf("%w: 0x%X (alignment %d)", ErrMisaligned, addr, align)
	}
	if !buf.Has(a.data, off, align) {
		return 0, fmt.Errorf("%w: 0x%X", ErrOutOfRange, addr)
	}
	return off, nil
}
