// Package eeprom emulates a small word-addressable EEPROM on top of two NOR
// flash sectors.
//
// # Overview
//
// NOR flash can clear bits one word at a time but can only set them again by
// erasing a whole block. The store therefore never overwrites a cell in
// place. Every write appends a record holding the key and its new value, and
// the newest record for a key wins. When the active sector runs out of free
// slots the live data set is compacted into the other sector and the old one
// is erased.
//
// # Layout
//
// Each sector starts with a status tag word followed by record slots:
//
//	[tag] [key|value] [key|value] ... [0xFF..FF] [0xFF..FF]
//
// The tag is all ones for an erased sector, 0xEE repeated for the target of a
// compaction in progress, and zero for the sector holding the authoritative
// data. A record packs the key into the high W-D bytes and the value into the
// low D bytes of a little-endian word. A word of all ones is a free slot, so
// the all-ones key can never be stored.
//
// # Power Loss
//
// Every tag transition and record append is a single word program, and the
// compaction steps are ordered so that any prefix of them leaves a sector pair
// Init can finish or roll back:
//
//	st, err := eeprom.New(dev, eeprom.DefaultGeometry(), nil)
//	if err != nil {
//	    return err
//	}
//	if err := st.Init(); err != nil {
//	    return err
//	}
//	log.Printf("recovery: %s", st.LastRecovery().Action)
//
// When no consistent state exists Init formats the pair, which loses every
// key. LastRecovery reports RecoveryReset in that case.
//
// # Concurrency
//
// A Store is single-threaded. The flash controller is shared state and no
// locking is done here.
package eeprom
