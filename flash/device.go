package flash

import "errors"

var (
	// ErrNotReady indicates the flash controller is busy.
	ErrNotReady = errors.New("flash: not ready")
	// ErrOutOfRange indicates an address outside the device.
	ErrOutOfRange = errors.New("flash: address out of range")
	// ErrMisaligned indicates an address not aligned to a word or erase block.
	ErrMisaligned = errors.New("flash: misaligned address")
	// ErrWriteConflict indicates a program that would set a cleared bit.
	ErrWriteConflict = errors.New("flash: write would set a programmed bit")
	// ErrReadOnly indicates a mutation against a read-only device.
	ErrReadOnly = errors.New("flash: device is read-only")
	// ErrPowerLoss indicates a mutation dropped by a simulated power cut.
	ErrPowerLoss = errors.New("flash: power lost")
)

// Device is the flash primitive adapter consumed by the engine.
type Device interface {
	// ReadWord returns the word at addr.
	ReadWord(addr uint32) uint64
	// WriteWord programs one word at addr.
	WriteWord(addr uint32, word uint64) error
	// EraseBlock erases the erase block starting at addr.
	EraseBlock(addr uint32) error
}

// EraseCounter is implemented by devices that track wear per erase block.
type EraseCounter interface {
	EraseCount(addr uint32) uint32
}
