package eeprom

// positionCache remembers where the next record goes and where backward scans
// start. It is derived from flash, never persisted, and rebuilt by Init.
//
// Slots are counted from the start of the record region, so slot 0 is the
// word right after the status tag.
type positionCache struct {
	writeSector Sector // sector writeSlot belongs to
	writeSlot   int    // first free slot of writeSector
	writeKnown  bool

	readSector Sector // sector readSlot belongs to
	readSlot   int    // one past the newest record of readSector
	readKnown  bool
}

func (c *positionCache) setWrite(s Sector, slot int) {
	c.writeSector, c.writeSlot, c.writeKnown = s, slot, true
}

func (c *positionCache) setRead(s Sector, slot int) {
	c.readSector, c.readSlot, c.readKnown = s, slot, true
}

// scanFree returns the first free slot of s at or after from, or Slots() when
// the region is exhausted.
func (st *Store) scanFree(s Sector, from int) int {
	slots := st.geo.Slots()
	for i := from; i < slots; i++ {
		if st.layout.Free(st.dev.ReadWord(st.geo.SlotAddr(s, i))) {
			return i
		}
	}
	return slots
}

// rebuildCache recomputes the cursors from flash. The read cursor is only
// primed when reads and writes target the same sector; otherwise the Reader
// computes it on first use.
func (st *Store) rebuildCache() {
	st.cache = positionCache{}
	ws, err := st.findActive(modeWrite)
	if err != nil {
		st.log.Debug("position cache not rebuilt", "error", err)
		return
	}
	st.cache.setWrite(ws, st.scanFree(ws, 0))
	if rs, err := st.findActive(modeRead); err == nil && rs == ws {
		st.cache.setRead(rs, st.cache.writeSlot)
	}
	st.log.Debug("position cache rebuilt",
		"write_sector", ws,
		"write_slot", st.cache.writeSlot,
		"read_known", st.cache.readKnown,
	)
}

// writeCursor returns the first slot worth probing for a free slot in s.
func (st *Store) writeCursor(s Sector) int {
	if st.cache.writeKnown && st.cache.writeSector == s {
		return st.cache.writeSlot
	}
	slot := st.scanFree(s, 0)
	st.cache.setWrite(s, slot)
	return slot
}

// readCursor returns one past the newest record of s.
func (st *Store) readCursor(s Sector) int {
	if st.cache.readKnown && st.cache.readSector == s {
		return st.cache.readSlot
	}
	slot := st.scanFree(s, 0)
	st.cache.setRead(s, slot)
	return slot
}
