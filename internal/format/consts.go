// Package format houses the on-flash layout of the emulated EEPROM: the
// status tag sentinels written at the base of each sector, the record word
// layout, and the errors shared by the engine. It stays independent from the
// engine so the verifier and the CLI can decode flash contents directly.
package format

const (
	// StatusSlot is the word index of a sector's status tag.
	// Layout of a sector (word width W):
	//   0x00       status tag (1 word)
	//   W          record slot 0
	//   2W         record slot 1
	//   ...
	StatusSlot = 0

	// RecordRegionStart is the word index of record slot 0 within a sector.
	RecordRegionStart = 1

	// ReceivingByte is repeated across the whole word to form the Receiving tag.
	ReceivingByte = 0xEE
)

// Supported record word widths in bytes.
const (
	Word16 = 2
	Word32 = 4
	Word64 = 8
)

// Defaults mirror the HC32 reference configuration: 32-bit program words,
// 16-bit cells and one 8 KiB erase sector per emulation sector.
const (
	DefaultWordSize   = Word32
	DefaultDataSize   = 2
	DefaultSectorSize = 8192
	DefaultBlockSize  = 8192
	DefaultCapacity   = 256
)
