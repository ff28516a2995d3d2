// Package flash models the NOR flash underneath the EEPROM emulation.
//
// # Device
//
// The engine talks to flash only through the Device interface:
//
//	type Device interface {
//	    ReadWord(addr uint32) uint64
//	    WriteWord(addr uint32, word uint64) error
//	    EraseBlock(addr uint32) error
//	}
//
// Reads are memory-mapped on real parts and never fail for in-range
// addresses. Programming and erasing may fail with ErrNotReady while the
// controller is busy; the engine propagates those errors without retrying.
//
// # NOR semantics
//
// Array implements the NOR rules in memory:
//   - EraseBlock sets every byte of one erase block to 0xFF
//   - WriteWord may only clear bits; setting a 0 bit back to 1 fails with
//     ErrWriteConflict and leaves the word untouched
//
// FileDevice is an Array over a memory-mapped image file, so a flash image
// survives process restarts the way flash survives a reboot. FaultDevice
// wraps any Device and injects busy errors or a simulated power cut.
//
// # Thread Safety
//
// Devices are NOT thread-safe. The engine above them serializes access.
package flash
