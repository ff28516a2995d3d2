package eeprom

import (
	"fmt"

	"github.com/joshuapare/eekit/internal/format"
)

// Sector identifies one half of the sector pair.
type Sector int

const (
	Sector0 Sector = iota
	Sector1
)

// Other returns the opposite sector.
func (s Sector) Other() Sector {
	return 1 - s
}

func (s Sector) String() string {
	return fmt.Sprintf("sector%d", int(s))
}

// Geometry describes where the sector pair lives and how records are packed.
// All fields are fixed for the lifetime of a flash image.
type Geometry struct {
	// Bases holds the base address of Sector0 and Sector1. They need not be
	// contiguous but must not overlap.
	Bases [2]uint32 `json:"bases"`

	// SectorSize is the size of each sector in bytes, a multiple of BlockSize.
	// Default: 8192
	SectorSize int `json:"sector_size"`

	// BlockSize is the hardware erase granularity in bytes.
	// Default: 8192
	BlockSize int `json:"block_size"`

	// WordSize (W) is the record and status tag width in bytes: 2, 4 or 8.
	// Default: 4
	WordSize int `json:"word_size"`

	// DataSize (D) is the logical cell width in bytes, 1 <= D < W.
	// Default: 2
	DataSize int `json:"data_size"`

	// Capacity is the number of logical keys, keys are [0, Capacity).
	// Default: 256
	Capacity uint32 `json:"capacity"`
}

// DefaultGeometry returns the reference configuration with contiguous
// sectors starting at address 0.
func DefaultGeometry() Geometry {
	return NewGeometry(0, format.DefaultSectorSize, format.DefaultCapacity, format.DefaultWordSize, format.DefaultDataSize)
}

// NewGeometry returns a geometry with two contiguous sectors starting at base
// and one erase block per sector.
func NewGeometry(base uint32, sectorSize int, capacity uint32, wordSize, dataSize int) Geometry {
	return Geometry{
		Bases:      [2]uint32{base, base + uint32(sectorSize)},
		SectorSize: sectorSize,
		BlockSize:  sectorSize,
		WordSize:   wordSize,
		DataSize:   dataSize,
		Capacity:   capacity,
	}
}

// Validate checks every layout constraint the engine relies on.
func (g Geometry) Validate() error {
	l := g.layout()
	if err := l.Validate(); err != nil {
		return err
	}
	if g.BlockSize <= 0 || g.BlockSize%g.WordSize != 0 {
		return fmt.Errorf("eeprom: block size %d is not a positive multiple of word size %d", g.BlockSize, g.WordSize)
	}
	if g.SectorSize <= 0 || g.SectorSize%g.BlockSize != 0 {
		return fmt.Errorf("eeprom: sector size %d is not a positive multiple of block size %d", g.SectorSize, g.BlockSize)
	}
	if g.Capacity == 0 {
		return fmt.Errorf("eeprom: capacity must be at least 1")
	}
	if uint64(g.Capacity) >= l.KeyLimit() {
		return fmt.Errorf("eeprom: capacity %d needs more than %d key bytes", g.Capacity, g.WordSize-g.DataSize)
	}
	if g.Slots() < int(g.Capacity) {
		return fmt.Errorf("eeprom: %d record slots per sector cannot hold capacity %d", g.Slots(), g.Capacity)
	}
	for i, base := range g.Bases {
		if base%uint32(g.BlockSize) != 0 {
			return fmt.Errorf("eeprom: sector %d base 0x%X not aligned to block size %d", i, base, g.BlockSize)
		}
		if uint64(base)+uint64(g.SectorSize) > 1<<32 {
			return fmt.Errorf("eeprom: sector %d at 0x%X exceeds the 32-bit address space", i, base)
		}
	}
	lo, hi := g.Bases[0], g.Bases[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	if uint64(lo)+uint64(g.SectorSize) > uint64(hi) {
		return fmt.Errorf("eeprom: sectors at 0x%X and 0x%X overlap", g.Bases[0], g.Bases[1])
	}
	return nil
}

// Slots returns the number of record slots per sector.
func (g Geometry) Slots() int {
	return g.SectorSize/g.WordSize - format.RecordRegionStart
}

// SectorBase returns the address of the sector's status tag.
func (g Geometry) SectorBase(s Sector) uint32 {
	return g.Bases[s]
}

// SlotAddr returns the address of record slot i in sector s.
func (g Geometry) SlotAddr(s Sector, i int) uint32 {
	return g.Bases[s] + uint32((format.RecordRegionStart+i)*g.WordSize)
}

// Blocks returns the erase block addresses of sector s.
func (g Geometry) Blocks(s Sector) []uint32 {
	n := g.SectorSize / g.BlockSize
	out := make([]uint32, n)
	for i := range out {
		out[i] = g.Bases[s] + uint32(i*g.BlockSize)
	}
	return out
}

// ValueMask is the largest value a cell can hold.
func (g Geometry) ValueMask() uint64 {
	return g.layout().ValueMask()
}

func (g Geometry) layout() format.Layout {
	return format.Layout{WordSize: g.WordSize, DataSize: g.DataSize}
}
