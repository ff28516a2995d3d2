package eeprom

// readKey returns the newest value recorded for key on the read target.
func (st *Store) readKey(key uint32) (uint64, error) {
	s, err := st.findActive(modeRead)
	if err != nil {
		return 0, err
	}
	return st.scanBack(s, key)
}

// scanBack walks the records of s from the read cursor toward slot 0 and
// returns the first match, which is the most recent one.
func (st *Store) scanBack(s Sector, key uint32) (uint64, error) {
	for i := st.readCursor(s) - 1; i >= 0; i-- {
		word := st.dev.ReadWord(st.geo.SlotAddr(s, i))
		if st.layout.Key(word) == uint64(key) {
			return st.layout.Value(word), nil
		}
	}
	return 0, ErrNotFound
}

// readRange performs n independent single-key reads. It does not assume the
// keys' records are adjacent in flash.
func (st *Store) readRange(start uint32, n int) ([]uint64, error) {
	out := make([]uint64, n)
	for i := range out {
		v, err := st.readKey(start + uint32(i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// hasRecord reports whether s holds any record for key.
func (st *Store) hasRecord(s Sector, key uint32) bool {
	for i := 0; i < st.geo.Slots(); i++ {
		word := st.dev.ReadWord(st.geo.SlotAddr(s, i))
		if st.layout.Free(word) {
			return false
		}
		if st.layout.Key(word) == uint64(key) {
			return true
		}
	}
	return false
}
