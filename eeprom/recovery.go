package eeprom

import (
	"errors"
	"fmt"
)

// RecoveryAction names the branch Init took to make the sector pair
// consistent.
type RecoveryAction int

const (
	// RecoveryNone means one sector was Valid and the other fully erased.
	RecoveryNone RecoveryAction = iota
	// RecoveryErase means stale data next to the Valid sector was erased.
	RecoveryErase
	// RecoveryPromote means a finished compaction target was tagged Valid.
	RecoveryPromote
	// RecoveryResume means an interrupted compaction was completed.
	RecoveryResume
	// RecoveryReset means both sectors were erased and Sector0 tagged Valid.
	// Every stored key is lost.
	RecoveryReset
)

func (a RecoveryAction) String() string {
	switch a {
	case RecoveryNone:
		return "none"
	case RecoveryErase:
		return "erase"
	case RecoveryPromote:
		return "promote"
	case RecoveryResume:
		return "resume"
	case RecoveryReset:
		return "reset"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// MarshalText renders the action name, for JSON output.
func (a RecoveryAction) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses an action name written by MarshalText.
func (a *RecoveryAction) UnmarshalText(text []byte) error {
	for _, act := range []RecoveryAction{RecoveryNone, RecoveryErase, RecoveryPromote, RecoveryResume, RecoveryReset} {
		if act.String() == string(text) {
			*a = act
			return nil
		}
	}
	return fmt.Errorf("eeprom: unknown recovery action %q", text)
}

// RecoveryReport describes what Init found and what it did about it.
type RecoveryReport struct {
	Action RecoveryAction  `json:"action"`
	Before [2]SectorStatus `json:"before"`
	Copied int             `json:"copied"` // keys carried over by a resume
	Erased int             `json:"erased"` // sectors that needed an erase
}

// recover applies the startup state table and rebuilds the position cache.
//
//	S0 \ S1     ERASED    RECEIVING  VALID
//	ERASED      reset     promote 1  erase 0
//	RECEIVING   promote 0 reset      resume 0
//	VALID       erase 1   resume 1   reset
//
// An Invalid tag on either side also resets.
func (st *Store) recover() (RecoveryReport, error) {
	s0, s1 := st.statusOf(Sector0), st.statusOf(Sector1)
	rep := RecoveryReport{Before: [2]SectorStatus{s0, s1}}
	st.log.Debug("recovery start", "sector0", s0, "sector1", s1)

	var err error
	switch {
	case s0 == StatusErased && s1 == StatusValid:
		err = st.recoverErase(&rep, Sector0)
	case s0 == StatusValid && s1 == StatusErased:
		err = st.recoverErase(&rep, Sector1)
	case s0 == StatusErased && s1 == StatusReceiving:
		err = st.recoverPromote(&rep, Sector1)
	case s0 == StatusReceiving && s1 == StatusErased:
		err = st.recoverPromote(&rep, Sector0)
	case s0 == StatusReceiving && s1 == StatusValid:
		err = st.recoverResume(&rep, Sector0)
	case s0 == StatusValid && s1 == StatusReceiving:
		err = st.recoverResume(&rep, Sector1)
	default:
		err = st.recoverReset(&rep)
	}

	st.rebuildCache()
	if err != nil {
		return rep, err
	}
	if rep.Action != RecoveryNone {
		st.log.Info("recovery complete", "action", rep.Action, "copied", rep.Copied, "erased", rep.Erased)
	}
	return rep, nil
}

// recoverErase keeps the Valid sector and wipes whatever a crash left in s.
func (st *Store) recoverErase(rep *RecoveryReport, s Sector) error {
	erased, err := st.ensureErased(s)
	if erased {
		rep.Action = RecoveryErase
		rep.Erased++
	}
	return err
}

// recoverPromote finishes a compaction that crashed after the old sector was
// erased but before the new one was tagged Valid.
func (st *Store) recoverPromote(rep *RecoveryReport, s Sector) error {
	rep.Action = RecoveryPromote
	erased, err := st.ensureErased(s.Other())
	if erased {
		rep.Erased++
	}
	if err != nil {
		return err
	}
	return st.setStatus(s, StatusValid)
}

// recoverResume finishes a compaction into dst. Any key already present in
// dst is newer than its copy in the Valid sector, including a pending batch
// that was written first, so only absent keys are copied.
func (st *Store) recoverResume(rep *RecoveryReport, dst Sector) error {
	rep.Action = RecoveryResume
	src := dst.Other()

	attrs := []any{"from", src, "to", dst}
	first := st.dev.ReadWord(st.geo.SlotAddr(dst, 0))
	if !st.layout.Free(first) {
		attrs = append(attrs, "in_flight_key", st.layout.Key(first))
	}
	st.log.Info("resuming compaction", attrs...)

	st.cache = positionCache{}
	st.cache.setWrite(dst, st.scanFree(dst, 0))
	for k := uint32(0); k < st.geo.Capacity; k++ {
		if st.hasRecord(dst, k) {
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
		rep.Copied++
	}

	erased, err := st.ensureErased(src)
	if erased {
		rep.Erased++
	}
	if err != nil {
		return err
	}
	return st.setStatus(dst, StatusValid)
}

// recoverReset formats the pair: Sector0 becomes an empty Valid sector and
// Sector1 is left erased.
func (st *Store) recoverReset(rep *RecoveryReport) error {
	rep.Action = RecoveryReset
	st.log.Warn("no consistent sector pair, formatting",
		"sector0", rep.Before[0],
		"sector1", rep.Before[1],
	)
	erased, err := st.ensureErased(Sector0)
	if erased {
		rep.Erased++
	}
	if err != nil {
		return err
	}
	if err := st.setStatus(Sector0, StatusValid); err != nil {
		return err
	}
	erased, err = st.ensureErased(Sector1)
	if erased {
		rep.Erased++
	}
	return err
}
