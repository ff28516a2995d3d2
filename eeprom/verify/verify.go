// Package verify checks the on-flash invariants of an EEPROM sector pair.
// These helpers back the eectl verify command and the engine's crash tests.
package verify

import (
	"fmt"

	"github.com/joshuapare/eekit/eeprom"
	"github.com/joshuapare/eekit/flash"
	"github.com/joshuapare/eekit/internal/format"
)

// ValidationError reports a single violated invariant.
type ValidationError struct {
	Type    string
	Message string
	Addr    int64 // flash address of the offending word, -1 if N/A
	Details map[string]interface{}
}

func (e *ValidationError) Error() string {
	if e.Addr >= 0 {
		return fmt.Sprintf("%s at 0x%X: %s", e.Type, e.Addr, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates every invariant of a settled sector pair.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(dev flash.Device, geo eeprom.Geometry) error {
	if err := eeprom.CheckDevice(dev, geo); err != nil {
		return &ValidationError{Type: "Geometry", Message: err.Error(), Addr: -1}
	}
	if err := SectorTags(dev, geo); err != nil {
		return err
	}
	if err := RecordRegion(dev, geo); err != nil {
		return err
	}
	if err := ErasedSector(dev, geo); err != nil {
		return err
	}
	return nil
}

// SectorTags checks that one sector is Valid and the other Erased, the only
// state the store rests in between operations.
func SectorTags(dev flash.Device, geo eeprom.Geometry) error {
	var st [2]eeprom.SectorStatus
	for _, s := range []eeprom.Sector{eeprom.Sector0, eeprom.Sector1} {
		st[s] = eeprom.ClassifyTag(dev.ReadWord(geo.SectorBase(s)), geo.WordSize)
		if st[s] == eeprom.StatusInvalid {
			return &ValidationError{
				Type:    "SectorTags",
				Message: fmt.Sprintf("%s tag 0x%X matches no status", s, dev.ReadWord(geo.SectorBase(s))),
				Addr:    int64(geo.SectorBase(s)),
			}
		}
	}
	valid := st[0] == eeprom.StatusValid && st[1] == eeprom.StatusErased ||
		st[0] == eeprom.StatusErased && st[1] == eeprom.StatusValid
	if !valid {
		return &ValidationError{
			Type:    "SectorTags",
			Message: fmt.Sprintf("unsettled pair: sector0 %s, sector1 %s", st[0], st[1]),
			Addr:    -1,
			Details: map[string]interface{}{
				"sector0": st[0],
				"sector1": st[1],
			},
		}
	}
	return nil
}

// RecordRegion checks the record slots of every sector not tagged Erased:
// records are contiguous from slot 0 and every key is below Capacity.
func RecordRegion(dev flash.Device, geo eeprom.Geometry) error {
	layout := format.Layout{WordSize: geo.WordSize, DataSize: geo.DataSize}
	for _, s := range []eeprom.Sector{eeprom.Sector0, eeprom.Sector1} {
		if eeprom.ClassifyTag(dev.ReadWord(geo.SectorBase(s)), geo.WordSize) == eeprom.StatusErased {
			continue
		}
		freeAt := -1
		for i := 0; i < geo.Slots(); i++ {
			addr := geo.SlotAddr(s, i)
			word := dev.ReadWord(addr)
			if layout.Free(word) {
				if freeAt < 0 {
					freeAt = i
				}
				continue
			}
			if freeAt >= 0 {
				return &ValidationError{
					Type:    "RecordRegion",
					Message: fmt.Sprintf("%s slot %d used after free slot %d", s, i, freeAt),
					Addr:    int64(addr),
				}
			}
			if key := layout.Key(word); key >= uint64(geo.Capacity) {
				return &ValidationError{
					Type:    "RecordRegion",
					Message: fmt.Sprintf("%s slot %d key %d outside capacity %d", s, i, key, geo.Capacity),
					Addr:    int64(addr),
					Details: map[string]interface{}{
						"key":      key,
						"capacity": geo.Capacity,
					},
				}
			}
		}
	}
	return nil
}

// ErasedSector checks that every sector tagged Erased is erased in full.
func ErasedSector(dev flash.Device, geo eeprom.Geometry) error {
	erased := format.ErasedWord(geo.WordSize)
	for _, s := range []eeprom.Sector{eeprom.Sector0, eeprom.Sector1} {
		base := geo.SectorBase(s)
		if eeprom.ClassifyTag(dev.ReadWord(base), geo.WordSize) != eeprom.StatusErased {
			continue
		}
		for off := 0; off < geo.SectorSize; off += geo.WordSize {
			addr := base + uint32(off)
			if word := dev.ReadWord(addr); word != erased {
				return &ValidationError{
					Type:    "ErasedSector",
					Message: fmt.Sprintf("%s tagged erased but holds 0x%X", s, word),
					Addr:    int64(addr),
				}
			}
		}
	}
	return nil
}
