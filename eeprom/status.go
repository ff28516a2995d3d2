package eeprom

import (
	"fmt"

	"github.com/joshuapare/eekit/internal/format"
)

// SectorStatus classifies a sector by its status tag.
type SectorStatus int

const (
	// StatusErased means the tag is all ones and the sector holds no data.
	StatusErased SectorStatus = iota
	// StatusReceiving means the sector is the target of an unfinished compaction.
	StatusReceiving
	// StatusValid means the sector holds the authoritative data set.
	StatusValid
	// StatusInvalid means the tag matches none of the sentinels.
	StatusInvalid
)

func (s SectorStatus) String() string {
	switch s {
	case StatusErased:
		return "ERASED"
	case StatusReceiving:
		return "RECEIVING"
	case StatusValid:
		return "VALID"
	default:
		return "INVALID"
	}
}

// MarshalText renders the status name, for JSON output.
func (s SectorStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status name written by MarshalText.
func (s *SectorStatus) UnmarshalText(text []byte) error {
	for _, st := range []SectorStatus{StatusErased, StatusReceiving, StatusValid, StatusInvalid} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("eeprom: unknown sector status %q", text)
}

// ClassifyTag maps a status tag word of the given width to a status. Only
// the three exact sentinel patterns are recognized.
func ClassifyTag(word uint64, wordSize int) SectorStatus {
	switch word {
	case format.ErasedWord(wordSize):
		return StatusErased
	case format.ReceivingWord(wordSize):
		return StatusReceiving
	case format.ValidWord():
		return StatusValid
	default:
		return StatusInvalid
	}
}

type accessMode int

const (
	modeRead accessMode = iota
	modeWrite
)

// statusOf reads and classifies the status tag of s.
func (st *Store) statusOf(s Sector) SectorStatus {
	return ClassifyTag(st.dev.ReadWord(st.geo.SectorBase(s)), st.geo.WordSize)
}

// setStatus programs the status tag of s.
func (st *Store) setStatus(s Sector, status SectorStatus) error {
	var word uint64
	switch status {
	case StatusReceiving:
		word = format.ReceivingWord(st.geo.WordSize)
	case StatusValid:
		word = format.ValidWord()
	default:
		panic(fmt.Sprintf("eeprom: cannot program status %s", status))
	}
	if err := st.dev.WriteWord(st.geo.SectorBase(s), word); err != nil {
		return fmt.Errorf("mark %s %s: %w", s, status, err)
	}
	return nil
}

// isFullyErased reports whether every word of s reads back erased.
func (st *Store) isFullyErased(s Sector) bool {
	erased := format.ErasedWord(st.geo.WordSize)
	base := st.geo.SectorBase(s)
	for off := 0; off < st.geo.SectorSize; off += st.geo.WordSize {
		if st.dev.ReadWord(base+uint32(off)) != erased {
			return false
		}
	}
	return true
}

// eraseSector erases every block of s.
func (st *Store) eraseSector(s Sector) error {
	for _, addr := range st.geo.Blocks(s) {
		if err := st.dev.EraseBlock(addr); err != nil {
			return fmt.Errorf("erase %s block 0x%X: %w", s, addr, err)
		}
	}
	return nil
}

// ensureErased erases s unless it already reads fully erased, saving an
// erase cycle.
func (st *Store) ensureErased(s Sector) (bool, error) {
	if st.isFullyErased(s) {
		return false, nil
	}
	return true, st.eraseSector(s)
}

// findActive resolves the sector an operation targets. Reads go to the Valid
// sector. Writes go to the sector tagged Receiving when the other one is
// Valid, so writes continue into an unfinished compaction target.
func (st *Store) findActive(mode accessMode) (Sector, error) {
	s0, s1 := st.statusOf(Sector0), st.statusOf(Sector1)
	switch mode {
	case modeWrite:
		switch {
		case s1 == StatusValid:
			if s0 == StatusReceiving {
				return Sector0, nil
			}
			return Sector1, nil
		case s0 == StatusValid:
			if s1 == StatusReceiving {
				return Sector1, nil
			}
			return Sector0, nil
		}
	case modeRead:
		switch {
		case s0 == StatusValid:
			return Sector0, nil
		case s1 == StatusValid:
			return Sector1, nil
		}
	}
	return Sector0, ErrSectorInvalid
}
