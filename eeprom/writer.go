package eeprom

import (
	"errors"
	"fmt"

	"github.com/joshuapare/eekit/internal/format"
)

// appendRecords programs values as consecutive keys from start into the write
// target, starting at the write cursor. It returns how many records landed;
// format.ErrSectorFull means the region ran out before the batch did.
func (st *Store) appendRecords(start uint32, values []uint64) (int, error) {
	ws, err := st.findActive(modeWrite)
	if err != nil {
		return 0, err
	}
	rs, rerr := st.findActive(modeRead)
	sameRead := rerr == nil && rs == ws

	slots := st.geo.Slots()
	n := 0
	for slot := st.writeCursor(ws); slot < slots && n < len(values); slot++ {
		addr := st.geo.SlotAddr(ws, slot)
		if !st.layout.Free(st.dev.ReadWord(addr)) {
			continue
		}
		key := start + uint32(n)
		if err := st.dev.WriteWord(addr, st.layout.Encode(key, values[n])); err != nil {
			return n, fmt.Errorf("append key %d at 0x%X: %w", key, addr, err)
		}
		st.cache.setWrite(ws, slot+1)
		if sameRead {
			st.cache.setRead(ws, slot+1)
		}
		n++
	}
	if n < len(values) {
		st.cache.setWrite(ws, slots)
		return n, format.ErrSectorFull
	}
	st.log.Debug("appended records", "sector", ws, "start", start, "count", n, "write_slot", st.cache.writeSlot)
	return n, nil
}

// writeRange appends the batch and, when the write target fills up, carries
// the unwritten tail into a compaction.
func (st *Store) writeRange(start uint32, values []uint64) error {
	n, err := st.appendRecords(start, values)
	if errors.Is(err, format.ErrSectorFull) {
		return st.compact(start+uint32(n), values[n:])
	}
	return err
}

// compact swaps sectors. The order of steps is what Recovery relies on:
//
//  1. tag the erased sector Receiving
//  2. append the pending batch first, so its keys lead the new sector
//  3. copy the newest value of every other key from the old sector
//  4. erase the old sector
//  5. tag the new sector Valid
//
// Power loss between any two steps leaves a pair Recovery can finish. Any
// other failure aborts the swap and the store refuses further calls until
// Init has repaired the pair.
func (st *Store) compact(start uint32, pending []uint64) (err error) {
	old, err := st.findActive(modeRead)
	if err != nil {
		return err
	}
	dst := old.Other()
	st.log.Info("compacting", "from", old, "to", dst, "pending_start", start, "pending", len(pending))

	defer func() {
		if err != nil {
			st.needsRecovery = true
			st.log.Error("compaction aborted", "from", old, "to", dst, "error", err)
		}
	}()

	if err := st.setStatus(dst, StatusReceiving); err != nil {
		return err
	}
	st.cache.setWrite(dst, 0)

	if _, err := st.appendRecords(start, pending); err != nil {
		return compactionErr(err)
	}

	end := uint64(start) + uint64(len(pending))
	copied := 0
	for k := uint32(0); k < st.geo.Capacity; k++ {
		if uint64(k) >= uint64(start) && uint64(k) < end {
			continue
		}
		v, err := st.readKey(k)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if _, err := st.appendRecords(k, []uint64{v}); err != nil {
			return compactionErr(err)
		}
		copied++
	}

	if _, err := st.ensureErased(old); err != nil {
		return err
	}
	if err := st.setStatus(dst, StatusValid); err != nil {
		return err
	}
	st.cache.setRead(dst, st.cache.writeSlot)

	st.log.Info("compaction complete", "sector", dst, "copied", copied, "used_slots", st.cache.writeSlot)
	return nil
}

// compactionErr rewords a full target, which Geometry.Validate rules out for
// consistent flash, so it surfaces as corruption rather than a retryable state.
func compactionErr(err error) error {
	if errors.Is(err, format.ErrSectorFull) {
		return fmt.Errorf("compaction target overflow: %w", ErrSectorInvalid)
	}
	return err
}
